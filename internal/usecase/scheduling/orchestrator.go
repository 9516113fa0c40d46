package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	"github.com/telmeet/conference-scheduler/internal/infrastructure/external/engine"
	usecaseErrors "github.com/telmeet/conference-scheduler/internal/usecase/errors"
)

// FlowState is the orchestrator's lifecycle state for one submit flow.
type FlowState int

const (
	FlowIdle FlowState = iota
	FlowBuilding
	FlowAwaitingEngineReady
	FlowDispatchingInvitations
	FlowCompleted
	FlowFailed
)

// String returns the state name for logging.
func (s FlowState) String() string {
	switch s {
	case FlowIdle:
		return "idle"
	case FlowBuilding:
		return "building"
	case FlowAwaitingEngineReady:
		return "awaiting_engine_ready"
	case FlowDispatchingInvitations:
		return "dispatching_invitations"
	case FlowCompleted:
		return "completed"
	case FlowFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FlowEvent is the closed set of events the orchestrator surfaces to its
// subscribers.
type FlowEvent interface {
	flowEvent()
}

// FlowSuccess reports terminal success. Emitted exactly once per flow,
// after all requested invitation outcomes have been observed.
type FlowSuccess struct {
	Address string
	Subject string
}

func (FlowSuccess) flowEvent() {}

// FlowFailure reports terminal failure.
type FlowFailure struct {
	Err error
}

func (FlowFailure) flowEvent() {}

// PartialInvitationFailure reports one participant that could not be
// invited. Non-fatal: the flow still completes.
type PartialInvitationFailure struct {
	Address entities.Address
}

func (PartialInvitationFailure) flowEvent() {}

// SubmitLocker guards against double submission of the same draft across
// service instances.
type SubmitLocker interface {
	Acquire(ctx context.Context, draftID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, draftID string) error
}

// Orchestrator drives the engine through conference creation, invitation
// dispatch, and completion or failure reporting. One orchestrator owns one
// flow at a time; a second Submit while one is in flight is rejected.
type Orchestrator struct {
	eng          engine.Engine
	zones        *TimeZoneCatalog
	durations    *DurationCatalog
	locker       SubmitLocker
	log          *zap.Logger
	now          func() time.Time
	readyTimeout time.Duration

	mu          sync.Mutex
	state       FlowState
	scheduler   engine.Scheduler
	unsubscribe func()
	readyTimer  *time.Timer
	flowGen     int
	address     string
	subject     string
	inviteGated bool // scheduleForLater && sendInviteViaChat
	draftID     string
	listeners   map[int]func(FlowEvent)
	nextSub     int
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithSubmitLocker installs a cross-instance submit lock.
func WithSubmitLocker(locker SubmitLocker) OrchestratorOption {
	return func(o *Orchestrator) { o.locker = locker }
}

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

// WithReadyTimeout bounds the wait for the engine's Ready signal.
func WithReadyTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.readyTimeout = d }
}

// NewOrchestrator creates an orchestrator over the given engine and
// catalogs.
func NewOrchestrator(eng engine.Engine, zones *TimeZoneCatalog, durations *DurationCatalog, log *zap.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		eng:          eng,
		zones:        zones,
		durations:    durations,
		log:          log,
		now:          time.Now,
		readyTimeout: 30 * time.Second,
		listeners:    map[int]func(FlowEvent){},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe registers a flow event listener and returns its disposal
// function.
func (o *Orchestrator) Subscribe(fn func(FlowEvent)) (dispose func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextSub
	o.nextSub++
	o.listeners[id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.listeners, id)
	}
}

// State returns the current flow state.
func (o *Orchestrator) State() FlowState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// InProgress reports whether a flow is in flight.
func (o *Orchestrator) InProgress() bool {
	switch o.State() {
	case FlowBuilding, FlowAwaitingEngineReady, FlowDispatchingInvitations:
		return true
	}
	return false
}

// Submit validates the session and hands a conference record to the engine.
// Validation errors return synchronously before any engine interaction;
// everything after that is reported through subscribed flow events.
//
// Callers gate submission on CanProceed; the orchestrator re-checks only the
// participant set.
func (o *Orchestrator) Submit(ctx context.Context, session *DraftSession) error {
	snap := session.Snapshot()

	o.mu.Lock()
	switch o.state {
	case FlowBuilding, FlowAwaitingEngineReady, FlowDispatchingInvitations:
		o.mu.Unlock()
		return usecaseErrors.ErrSubmitInProgress
	}
	if len(snap.Participants) == 0 {
		// No state change: the flow never leaves Idle.
		o.mu.Unlock()
		return usecaseErrors.ErrNoParticipants
	}
	o.state = FlowBuilding
	o.flowGen++
	gen := o.flowGen
	o.draftID = snap.Draft.ID.String()
	o.subject = snap.Draft.Subject
	o.address = ""
	o.inviteGated = snap.Draft.ScheduleForLater && snap.Draft.SendInviteViaChat
	o.mu.Unlock()

	if o.locker != nil {
		ok, err := o.locker.Acquire(ctx, snap.Draft.ID.String(), o.readyTimeout*2)
		if err != nil || !ok {
			o.resetToIdle(gen)
			if err != nil {
				return fmt.Errorf("submit lock: %w", err)
			}
			return usecaseErrors.ErrSubmitInProgress
		}
	}

	account, ok := o.eng.DefaultAccount()
	if !ok {
		o.fail(gen, usecaseErrors.ErrNoDefaultAccount)
		return nil
	}

	host := entities.TimeZoneEntry{Identifier: HostLocation().String()}
	if i, found := o.zones.IndexOf(host.Identifier); found {
		host, _ = o.zones.Entry(i)
	} else {
		_, offset := o.now().In(HostLocation()).Zone()
		host.GMTOffsetSeconds = offset
	}

	start, err := ResolveStartTimestamp(&snap.Draft, o.zones, host, o.now)
	if err != nil {
		o.fail(gen, err)
		return nil
	}

	info, err := o.buildInfo(session, snap, account, start)
	if err != nil {
		o.fail(gen, err)
		return nil
	}

	sched, err := o.eng.CreateScheduler(ctx)
	if err != nil {
		o.fail(gen, fmt.Errorf("%w: %v", usecaseErrors.ErrEngineConstruction, err))
		return nil
	}

	unsubscribe := sched.Subscribe(func(ev engine.Event) {
		o.handleEngineEvent(gen, ev)
	})

	o.mu.Lock()
	if o.flowGen != gen || o.state != FlowBuilding {
		// The flow was torn down while building.
		o.mu.Unlock()
		unsubscribe()
		sched.Close()
		return nil
	}
	o.scheduler = sched
	o.unsubscribe = unsubscribe
	o.state = FlowAwaitingEngineReady
	if o.readyTimeout > 0 {
		o.readyTimer = time.AfterFunc(o.readyTimeout, func() {
			o.onReadyTimeout(gen)
		})
	}
	o.mu.Unlock()

	o.log.Info("conference submitted to engine",
		zap.String("draft_id", snap.Draft.ID.String()),
		zap.Bool("scheduled", snap.Draft.ScheduleForLater),
		zap.Int("participants", len(snap.Participants)))

	if err := sched.SetInfo(ctx, info); err != nil {
		o.fail(gen, fmt.Errorf("%w: %v", usecaseErrors.ErrEngineConstruction, err))
	}
	return nil
}

// Close tears the orchestrator down, detaching any engine subscription. An
// in-flight flow is abandoned without emitting further events.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.flowGen++
	o.detachLocked()
	o.listeners = map[int]func(FlowEvent){}
	o.state = FlowIdle
	o.mu.Unlock()
}

// buildInfo constructs the engine-level conference record: a fresh one, or a
// clone of the record being edited.
func (o *Orchestrator) buildInfo(session *DraftSession, snap DraftSnapshot, account engine.Account, start int64) (*entities.ConferenceInfo, error) {
	var info *entities.ConferenceInfo
	if existing := session.ExistingInfo(); existing != nil {
		info = existing.Clone()
	} else {
		info = &entities.ConferenceInfo{ID: snap.Draft.ID}
	}

	info.Organizer = account.Identity
	info.Subject = snap.Draft.Subject
	info.Description = ""
	if snap.Draft.Description != nil {
		info.Description = *snap.Draft.Description
	}
	info.Participants = snap.Participants
	info.Encrypted = snap.Draft.Encrypted

	// Immediate conferences carry no schedule; the engine starts them now.
	info.StartTime = 0
	info.DurationMinutes = 0
	if snap.Draft.ScheduleForLater {
		duration, err := o.durations.Entry(snap.Draft.DurationIndex)
		if err != nil {
			return nil, err
		}
		info.StartTime = start
		info.DurationMinutes = duration.Minutes
	}
	return info, nil
}

func (o *Orchestrator) handleEngineEvent(gen int, ev engine.Event) {
	switch ev := ev.(type) {
	case engine.StateChanged:
		switch ev.State {
		case engine.SchedulerStateReady:
			o.onEngineReady(gen, ev.Address)
		case engine.SchedulerStateError:
			err := ev.Err
			if err == nil {
				err = usecaseErrors.ErrEngineTerminal
			} else {
				err = fmt.Errorf("%w: %v", usecaseErrors.ErrEngineTerminal, err)
			}
			o.fail(gen, err)
		default:
			o.log.Debug("engine state changed", zap.Stringer("state", ev.State))
		}
	case engine.InvitationsSent:
		o.onInvitationsSent(gen, ev.Failed)
	}
}

func (o *Orchestrator) onEngineReady(gen int, address string) {
	o.mu.Lock()
	if o.flowGen != gen || o.state != FlowAwaitingEngineReady {
		o.mu.Unlock()
		return
	}
	o.stopTimerLocked()
	o.address = address
	dispatch := o.inviteGated
	subject := o.subject
	sched := o.scheduler
	if dispatch {
		o.state = FlowDispatchingInvitations
	}
	o.mu.Unlock()

	o.log.Info("engine reported conference ready",
		zap.String("address", address),
		zap.Bool("dispatch_invitations", dispatch))

	if !dispatch {
		o.complete(gen)
		return
	}

	params := engine.ChatRoomParams{
		Subject:      subject,
		GroupEnabled: false,
		Backend:      engine.ChatBackendBasic,
	}
	if o.eng.EndToEndEncryptedChatAvailable() {
		params.Backend = engine.ChatBackendFlexisipE2E
		params.EncryptionEnabled = true
	}

	if err := sched.SendInvitations(context.Background(), params); err != nil {
		o.fail(gen, fmt.Errorf("%w: %v", usecaseErrors.ErrEngineTerminal, err))
	}
}

func (o *Orchestrator) onInvitationsSent(gen int, failed []entities.Address) {
	o.mu.Lock()
	if o.flowGen != gen || o.state != FlowDispatchingInvitations {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	// Per-recipient failures are surfaced but never abort the flow.
	for _, addr := range failed {
		o.log.Warn("invitation failed", zap.String("participant", addr.URI))
		o.emit(PartialInvitationFailure{Address: addr})
	}
	o.complete(gen)
}

func (o *Orchestrator) onReadyTimeout(gen int) {
	o.mu.Lock()
	if o.flowGen != gen || o.state != FlowAwaitingEngineReady {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()
	o.fail(gen, usecaseErrors.ErrEngineTimeout)
}

// complete transitions to Completed and emits FlowSuccess exactly once.
func (o *Orchestrator) complete(gen int) {
	o.mu.Lock()
	if o.flowGen != gen || o.state == FlowCompleted || o.state == FlowFailed {
		o.mu.Unlock()
		return
	}
	o.state = FlowCompleted
	address, subject, draftID := o.address, o.subject, o.draftID
	o.detachLocked()
	o.mu.Unlock()

	o.releaseLock(draftID)
	o.log.Info("conference flow completed",
		zap.String("address", address),
		zap.String("subject", subject))
	o.emit(FlowSuccess{Address: address, Subject: subject})
}

// fail transitions to Failed and clears the in-progress flag so submission
// can be retried.
func (o *Orchestrator) fail(gen int, err error) {
	o.mu.Lock()
	if o.flowGen != gen || o.state == FlowCompleted || o.state == FlowFailed {
		o.mu.Unlock()
		return
	}
	o.state = FlowFailed
	draftID := o.draftID
	o.detachLocked()
	o.mu.Unlock()

	o.releaseLock(draftID)
	o.log.Error("conference flow failed", zap.Error(err))
	o.emit(FlowFailure{Err: err})
}

// resetToIdle undoes the Building transition when the submit lock is held
// elsewhere.
func (o *Orchestrator) resetToIdle(gen int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.flowGen == gen && o.state == FlowBuilding {
		o.state = FlowIdle
	}
}

func (o *Orchestrator) detachLocked() {
	o.stopTimerLocked()
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
	if o.scheduler != nil {
		o.scheduler.Close()
		o.scheduler = nil
	}
}

func (o *Orchestrator) stopTimerLocked() {
	if o.readyTimer != nil {
		o.readyTimer.Stop()
		o.readyTimer = nil
	}
}

func (o *Orchestrator) releaseLock(draftID string) {
	if o.locker == nil || draftID == "" {
		return
	}
	if err := o.locker.Release(context.Background(), draftID); err != nil {
		o.log.Warn("failed to release submit lock", zap.String("draft_id", draftID), zap.Error(err))
	}
}

func (o *Orchestrator) emit(ev FlowEvent) {
	o.mu.Lock()
	fns := make([]func(FlowEvent), 0, len(o.listeners))
	for _, fn := range o.listeners {
		fns = append(fns, fn)
	}
	o.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}
