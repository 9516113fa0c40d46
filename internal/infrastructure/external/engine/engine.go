package engine

import (
	"context"
	"time"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
)

// SchedulerState is the lifecycle state reported by the engine for a
// conference creation request.
type SchedulerState int

const (
	SchedulerStateIdle SchedulerState = iota
	SchedulerStatePending
	SchedulerStateReady
	SchedulerStateError
)

// String returns the state name for logging.
func (s SchedulerState) String() string {
	switch s {
	case SchedulerStateIdle:
		return "idle"
	case SchedulerStatePending:
		return "pending"
	case SchedulerStateReady:
		return "ready"
	case SchedulerStateError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is the closed set of asynchronous scheduler callbacks. Consumers
// type-switch over the variants.
type Event interface {
	schedulerEvent()
}

// StateChanged reports a scheduler lifecycle transition. Address is set when
// State is SchedulerStateReady; Err is set when State is SchedulerStateError.
type StateChanged struct {
	State   SchedulerState
	Address string
	Err     error
}

func (StateChanged) schedulerEvent() {}

// InvitationsSent reports completion of an invitation dispatch. Failed lists
// the addresses that could not be reached; it is empty on full success.
type InvitationsSent struct {
	Failed []entities.Address
}

func (InvitationsSent) schedulerEvent() {}

// ChatBackend selects the messaging backend used for invitation chat rooms.
type ChatBackend string

const (
	ChatBackendBasic       ChatBackend = "basic"
	ChatBackendFlexisipE2E ChatBackend = "flexisip_e2e"
)

// ChatRoomParams configures the chat room used to carry conference
// invitations.
type ChatRoomParams struct {
	Subject           string
	GroupEnabled      bool
	Backend           ChatBackend
	EncryptionEnabled bool
}

// Account is the engine-side identity used as conference organizer.
type Account struct {
	Identity             entities.Address
	ConferenceFactoryURI string
	E2EServerURL         string
}

// Scheduler drives a single conference creation and invitation dispatch
// asynchronously. Callers subscribe before SetInfo and must dispose the
// subscription when done with the flow.
type Scheduler interface {
	// SetInfo hands the conference record to the engine and triggers
	// asynchronous creation. Progress is reported via subscribed events.
	SetInfo(ctx context.Context, info *entities.ConferenceInfo) error

	// SendInvitations dispatches invitations to the participants of the
	// conference previously passed to SetInfo. Completion is reported via an
	// InvitationsSent event.
	SendInvitations(ctx context.Context, params ChatRoomParams) error

	// Subscribe registers a callback for scheduler events and returns its
	// disposal function. Events may be delivered from other goroutines.
	Subscribe(fn func(Event)) (unsubscribe func())

	// Close releases the scheduler handle.
	Close()
}

// Engine is the external conferencing engine consumed by the orchestrator
// and the roster.
type Engine interface {
	// CreateScheduler allocates a scheduler handle for one conference flow.
	CreateScheduler(ctx context.Context) (Scheduler, error)

	// DefaultAccount returns the configured engine account, if any.
	DefaultAccount() (Account, bool)

	// ConferenceInformationList returns every stored conference record.
	ConferenceInformationList(ctx context.Context) ([]*entities.ConferenceInfo, error)

	// ConferenceInformationListAfterTime returns records whose conference
	// ends at or after t.
	ConferenceInformationListAfterTime(ctx context.Context, t time.Time) ([]*entities.ConferenceInfo, error)

	// SubscribeConferenceInfo registers a callback for pushed conference
	// records and returns its disposal function.
	SubscribeConferenceInfo(fn func(*entities.ConferenceInfo)) (unsubscribe func())

	// EndToEndEncryptedChatAvailable reports whether invitation chat rooms
	// may use the end-to-end encrypted backend: E2E messaging must be
	// enabled, an E2E server URL configured globally or on the account, and
	// a conference-factory URI configured for the default account.
	EndToEndEncryptedChatAvailable() bool
}
