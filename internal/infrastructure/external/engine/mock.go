package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
)

// MockEngine is an in-memory engine for tests and local development. Events
// fire synchronously from the call that triggers them, which keeps tests
// deterministic.
type MockEngine struct {
	mu          sync.Mutex
	account     *Account
	infos       []*entities.ConferenceInfo
	pushSubs    map[int]func(*entities.ConferenceInfo)
	schedulers  []*mockScheduler
	nextSubID   int
	nextConfNum int

	// Test knobs.
	CreateErr      error              // returned by CreateScheduler
	SetInfoErr     error              // returned by Scheduler.SetInfo
	TerminalErr    error              // reported instead of Ready
	FailedInvitees []entities.Address // reported by InvitationsSent
	SuppressReady  bool               // SetInfo accepted but no event fires
	E2EAvailable   bool
}

// NewMockEngine creates a mock engine with the given default account. A nil
// account simulates an engine with no account configured.
func NewMockEngine(account *Account) *MockEngine {
	return &MockEngine{
		account:  account,
		pushSubs: map[int]func(*entities.ConferenceInfo){},
	}
}

// CreateScheduler allocates a mock scheduler handle.
func (m *MockEngine) CreateScheduler(ctx context.Context) (Scheduler, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	s := &mockScheduler{engine: m, subs: map[int]func(Event){}}
	m.mu.Lock()
	m.schedulers = append(m.schedulers, s)
	m.mu.Unlock()
	return s, nil
}

// DefaultAccount returns the configured account, if any.
func (m *MockEngine) DefaultAccount() (Account, bool) {
	if m.account == nil {
		return Account{}, false
	}
	return *m.account, true
}

// ConferenceInformationList returns every stored record.
func (m *MockEngine) ConferenceInformationList(ctx context.Context) ([]*entities.ConferenceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entities.ConferenceInfo, len(m.infos))
	copy(out, m.infos)
	return out, nil
}

// ConferenceInformationListAfterTime returns records ending at or after t.
func (m *MockEngine) ConferenceInformationListAfterTime(ctx context.Context, t time.Time) ([]*entities.ConferenceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.ConferenceInfo
	for _, info := range m.infos {
		if !info.EndTime().Before(t) {
			out = append(out, info)
		}
	}
	return out, nil
}

// SubscribeConferenceInfo registers a push callback.
func (m *MockEngine) SubscribeConferenceInfo(fn func(*entities.ConferenceInfo)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	m.pushSubs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.pushSubs, id)
	}
}

// EndToEndEncryptedChatAvailable reports the configured test knob.
func (m *MockEngine) EndToEndEncryptedChatAvailable() bool {
	return m.E2EAvailable
}

// PushConferenceInfo simulates an engine push notification.
func (m *MockEngine) PushConferenceInfo(info *entities.ConferenceInfo) {
	m.mu.Lock()
	m.infos = append(m.infos, info)
	subs := make([]func(*entities.ConferenceInfo), 0, len(m.pushSubs))
	for _, fn := range m.pushSubs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn(info)
	}
}

// SeedConferenceInfo stores a record without notifying push subscribers.
func (m *MockEngine) SeedConferenceInfo(info *entities.ConferenceInfo) {
	m.mu.Lock()
	m.infos = append(m.infos, info)
	m.mu.Unlock()
}

// PushSubscriberCount reports attached push callbacks; used to verify that
// teardown disposes subscriptions.
func (m *MockEngine) PushSubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pushSubs)
}

// SchedulerSubscriberCount sums event callbacks across every scheduler the
// engine has handed out; used to verify that flow teardown disposes them.
func (m *MockEngine) SchedulerSubscriberCount() int {
	m.mu.Lock()
	scheds := append([]*mockScheduler(nil), m.schedulers...)
	m.mu.Unlock()
	n := 0
	for _, s := range scheds {
		n += s.subscriberCount()
	}
	return n
}

// mockScheduler simulates the engine's asynchronous scheduler handle.
type mockScheduler struct {
	engine *MockEngine
	mu     sync.Mutex
	subs   map[int]func(Event)
	nextID int
	info   *entities.ConferenceInfo
	closed bool
}

func (s *mockScheduler) SetInfo(ctx context.Context, info *entities.ConferenceInfo) error {
	if s.engine.SetInfoErr != nil {
		return s.engine.SetInfoErr
	}

	s.mu.Lock()
	s.info = info
	s.mu.Unlock()

	if s.engine.SuppressReady {
		s.emit(StateChanged{State: SchedulerStatePending})
		return nil
	}
	if s.engine.TerminalErr != nil {
		s.emit(StateChanged{State: SchedulerStateError, Err: s.engine.TerminalErr})
		return nil
	}

	s.engine.mu.Lock()
	s.engine.nextConfNum++
	address := info.Address
	if address == "" {
		address = fmt.Sprintf("sip:conf-%d@mock.example.org", s.engine.nextConfNum)
	}
	stored := info.Clone()
	stored.Address = address
	s.engine.infos = append(s.engine.infos, stored)
	s.engine.mu.Unlock()

	s.emit(StateChanged{State: SchedulerStatePending})
	s.emit(StateChanged{State: SchedulerStateReady, Address: address})
	return nil
}

func (s *mockScheduler) SendInvitations(ctx context.Context, params ChatRoomParams) error {
	s.mu.Lock()
	if s.info == nil {
		s.mu.Unlock()
		return fmt.Errorf("no conference info set")
	}
	s.mu.Unlock()

	s.emit(InvitationsSent{Failed: s.engine.FailedInvitees})
	return nil
}

func (s *mockScheduler) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *mockScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = map[int]func(Event){}
}

func (s *mockScheduler) subscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *mockScheduler) emit(ev Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}
