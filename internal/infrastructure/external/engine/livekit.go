package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	livekit "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	"github.com/telmeet/conference-scheduler/pkg/config"
	"github.com/telmeet/conference-scheduler/pkg/token"
)

const (
	// invitationChannel carries invitation payloads to the messaging bridge.
	invitationChannel = "conference:invitations"
	// infoChannel broadcasts conference records to other scheduler instances.
	infoChannel = "conference:info"

	// joinTokenValidity bounds the LiveKit access token lifetime.
	joinTokenValidity = 24 * time.Hour
)

// invitationPayload is the message published for each invited participant.
type invitationPayload struct {
	ConferenceAddress string `json:"conference_address"`
	Participant       string `json:"participant"`
	Organizer         string `json:"organizer"`
	Subject           string `json:"subject"`
	ChatBackend       string `json:"chat_backend"`
	Encrypted         bool   `json:"encrypted"`
	InviteToken       string `json:"invite_token"`
	JoinToken         string `json:"join_token"`
}

// LiveKitEngine implements Engine on top of a LiveKit deployment. Each
// conference is backed by a room whose metadata stores the serialized
// ConferenceInfo; invitations are published to Redis for the messaging
// bridge to deliver.
type LiveKitEngine struct {
	roomClient *lksdk.RoomServiceClient
	rdb        *redis.Client
	tokens     *token.Manager
	cfg        config.EngineConfig
	apiKey     string
	apiSecret  string
	logger     *zap.Logger

	mu        sync.Mutex
	nextSubID int
	infoSubs  map[int]func(*entities.ConferenceInfo)

	cancelPump context.CancelFunc
}

// NewLiveKitEngine creates a LiveKit-backed engine and starts the pump that
// fans pushed conference records out to subscribers.
func NewLiveKitEngine(cfg *config.Config, rdb *redis.Client, tokens *token.Manager, logger *zap.Logger) *LiveKitEngine {
	e := &LiveKitEngine{
		roomClient: lksdk.NewRoomServiceClient(cfg.LiveKit.URL, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret),
		rdb:        rdb,
		tokens:     tokens,
		cfg:        cfg.Engine,
		apiKey:     cfg.LiveKit.APIKey,
		apiSecret:  cfg.LiveKit.APISecret,
		logger:     logger,
		infoSubs:   make(map[int]func(*entities.ConferenceInfo)),
	}

	pumpCtx, cancel := context.WithCancel(context.Background())
	e.cancelPump = cancel
	go e.pumpConferenceInfo(pumpCtx)

	return e
}

// Close stops the conference info pump.
func (e *LiveKitEngine) Close() {
	e.cancelPump()
}

// CreateScheduler allocates a scheduler handle for one conference flow.
func (e *LiveKitEngine) CreateScheduler(ctx context.Context) (Scheduler, error) {
	return &liveKitScheduler{
		engine:    e,
		listeners: make(map[int]func(Event)),
	}, nil
}

// DefaultAccount returns the configured engine account, if any.
func (e *LiveKitEngine) DefaultAccount() (Account, bool) {
	if e.cfg.DefaultIdentity == "" {
		return Account{}, false
	}
	identity, err := entities.ParseAddress(e.cfg.DefaultIdentity)
	if err != nil {
		e.logger.Warn("invalid default identity", zap.String("identity", e.cfg.DefaultIdentity), zap.Error(err))
		return Account{}, false
	}
	return Account{
		Identity:             identity,
		ConferenceFactoryURI: e.cfg.ConferenceFactory,
		E2EServerURL:         e.cfg.AccountE2EServerURL,
	}, true
}

// ConferenceInformationList returns every stored conference record.
func (e *LiveKitEngine) ConferenceInformationList(ctx context.Context) ([]*entities.ConferenceInfo, error) {
	resp, err := e.roomClient.ListRooms(ctx, &livekit.ListRoomsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	infos := make([]*entities.ConferenceInfo, 0, len(resp.Rooms))
	for _, room := range resp.Rooms {
		info, err := decodeRoomMetadata(room)
		if err != nil {
			e.logger.Warn("skipping room with invalid metadata",
				zap.String("room", room.Name), zap.Error(err))
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ConferenceInformationListAfterTime returns records whose conference ends at
// or after t.
func (e *LiveKitEngine) ConferenceInformationListAfterTime(ctx context.Context, t time.Time) ([]*entities.ConferenceInfo, error) {
	all, err := e.ConferenceInformationList(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]*entities.ConferenceInfo, 0, len(all))
	for _, info := range all {
		if !info.EndTime().Before(t) {
			filtered = append(filtered, info)
		}
	}
	return filtered, nil
}

// SubscribeConferenceInfo registers a callback for pushed conference records.
func (e *LiveKitEngine) SubscribeConferenceInfo(fn func(*entities.ConferenceInfo)) func() {
	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.infoSubs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.infoSubs, id)
		e.mu.Unlock()
	}
}

// EndToEndEncryptedChatAvailable reports whether the encrypted chat backend
// can carry invitations.
func (e *LiveKitEngine) EndToEndEncryptedChatAvailable() bool {
	if !e.cfg.E2EMessagingEnabled {
		return false
	}
	if e.cfg.E2EServerURL == "" && e.cfg.AccountE2EServerURL == "" {
		return false
	}
	return e.cfg.ConferenceFactory != ""
}

// pumpConferenceInfo relays records published on the info channel to local
// subscribers. Reconnection is handled by go-redis inside Receive.
func (e *LiveKitEngine) pumpConferenceInfo(ctx context.Context) {
	sub := e.rdb.Subscribe(ctx, infoChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var info entities.ConferenceInfo
			if err := json.Unmarshal([]byte(msg.Payload), &info); err != nil {
				e.logger.Warn("dropping malformed conference info message", zap.Error(err))
				continue
			}
			e.dispatchInfo(&info)
		}
	}
}

func (e *LiveKitEngine) dispatchInfo(info *entities.ConferenceInfo) {
	e.mu.Lock()
	fns := make([]func(*entities.ConferenceInfo), 0, len(e.infoSubs))
	for _, fn := range e.infoSubs {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(info.Clone())
	}
}

func (e *LiveKitEngine) publishInfo(ctx context.Context, info *entities.ConferenceInfo) {
	payload, err := json.Marshal(info)
	if err != nil {
		e.logger.Warn("failed to encode conference info", zap.Error(err))
		return
	}
	if err := e.rdb.Publish(ctx, infoChannel, payload).Err(); err != nil {
		e.logger.Warn("failed to publish conference info", zap.Error(err))
	}
}

func decodeRoomMetadata(room *livekit.Room) (*entities.ConferenceInfo, error) {
	if room.Metadata == "" {
		return nil, fmt.Errorf("room %s has no metadata", room.Name)
	}
	var info entities.ConferenceInfo
	if err := json.Unmarshal([]byte(room.Metadata), &info); err != nil {
		return nil, fmt.Errorf("failed to decode room metadata: %w", err)
	}
	return &info, nil
}

// liveKitScheduler drives a single conference creation against LiveKit.
type liveKitScheduler struct {
	engine *LiveKitEngine

	mu        sync.Mutex
	nextSubID int
	listeners map[int]func(Event)
	info      *entities.ConferenceInfo
	roomName  string
	closed    bool
}

// SetInfo creates the backing room asynchronously and reports progress via
// subscribed events.
func (s *liveKitScheduler) SetInfo(ctx context.Context, info *entities.ConferenceInfo) error {
	if info == nil {
		return fmt.Errorf("conference info is required")
	}

	s.mu.Lock()
	if s.info != nil {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already has a conference in flight")
	}
	s.info = info.Clone()
	s.roomName = fmt.Sprintf("conf-%s", uuid.New().String())
	s.mu.Unlock()

	s.emit(StateChanged{State: SchedulerStatePending})

	go s.createRoom(context.WithoutCancel(ctx))
	return nil
}

func (s *liveKitScheduler) createRoom(ctx context.Context) {
	s.mu.Lock()
	info := s.info.Clone()
	roomName := s.roomName
	s.mu.Unlock()

	address := fmt.Sprintf("sip:%s@%s", roomName, s.engine.cfg.SIPDomain)
	info.Address = address

	metadata, err := json.Marshal(info)
	if err != nil {
		s.emit(StateChanged{State: SchedulerStateError, Err: fmt.Errorf("failed to encode conference info: %w", err)})
		return
	}

	req := &livekit.CreateRoomRequest{
		Name:     roomName,
		Metadata: string(metadata),
		// Keep scheduled rooms alive until start time plus duration.
		EmptyTimeout:     uint32(time.Until(info.EndTime())/time.Second) + 1,
		DepartureTimeout: 60,
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 10 * time.Second

	err = backoff.Retry(func() error {
		_, createErr := s.engine.roomClient.CreateRoom(ctx, req)
		return createErr
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		s.emit(StateChanged{State: SchedulerStateError, Err: fmt.Errorf("failed to create room: %w", err)})
		return
	}

	s.mu.Lock()
	s.info = info
	s.mu.Unlock()

	s.engine.publishInfo(ctx, info)
	s.emit(StateChanged{State: SchedulerStateReady, Address: address})
}

// SendInvitations publishes one invitation payload per participant and
// reports completion via an InvitationsSent event.
func (s *liveKitScheduler) SendInvitations(ctx context.Context, params ChatRoomParams) error {
	s.mu.Lock()
	info := s.info
	if info != nil {
		info = info.Clone()
	}
	s.mu.Unlock()

	if info == nil || info.Address == "" {
		return fmt.Errorf("no conference to invite to")
	}

	go s.dispatchInvitations(context.WithoutCancel(ctx), info, params)
	return nil
}

func (s *liveKitScheduler) dispatchInvitations(ctx context.Context, info *entities.ConferenceInfo, params ChatRoomParams) {
	var failed []entities.Address
	for _, participant := range info.Participants {
		if err := s.inviteParticipant(ctx, info, params, participant); err != nil {
			s.engine.logger.Warn("failed to invite participant",
				zap.String("participant", participant.Canonical()),
				zap.String("conference", info.Address),
				zap.Error(err))
			failed = append(failed, participant)
		}
	}
	s.emit(InvitationsSent{Failed: failed})
}

func (s *liveKitScheduler) inviteParticipant(ctx context.Context, info *entities.ConferenceInfo, params ChatRoomParams, participant entities.Address) error {
	inviteToken, err := s.engine.tokens.GenerateInvitationToken(info.Address, participant.Canonical(), info.Subject)
	if err != nil {
		return fmt.Errorf("failed to generate invitation token: %w", err)
	}

	joinToken, err := s.generateJoinToken(participant)
	if err != nil {
		return fmt.Errorf("failed to generate join token: %w", err)
	}

	payload, err := json.Marshal(invitationPayload{
		ConferenceAddress: info.Address,
		Participant:       participant.Canonical(),
		Organizer:         info.Organizer.Canonical(),
		Subject:           params.Subject,
		ChatBackend:       string(params.Backend),
		Encrypted:         params.EncryptionEnabled,
		InviteToken:       inviteToken,
		JoinToken:         joinToken,
	})
	if err != nil {
		return fmt.Errorf("failed to encode invitation: %w", err)
	}

	if err := s.engine.rdb.Publish(ctx, invitationChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish invitation: %w", err)
	}
	return nil
}

func (s *liveKitScheduler) generateJoinToken(participant entities.Address) (string, error) {
	canPublish := true
	canSubscribe := true

	at := auth.NewAccessToken(s.engine.apiKey, s.engine.apiSecret)
	at.AddGrant(&auth.VideoGrant{
		RoomJoin:     true,
		Room:         s.roomName,
		CanPublish:   &canPublish,
		CanSubscribe: &canSubscribe,
	}).
		SetIdentity(participant.Canonical()).
		SetName(participant.ShortDisplay()).
		SetValidFor(joinTokenValidity)

	return at.ToJWT()
}

// Subscribe registers a callback for scheduler events.
func (s *liveKitScheduler) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Close releases the scheduler handle.
func (s *liveKitScheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.listeners = make(map[int]func(Event))
	s.mu.Unlock()
}

func (s *liveKitScheduler) emit(ev Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
