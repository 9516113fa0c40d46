package errors

import "errors"

// Submit validation errors. These abort a submit before any engine
// interaction and are surfaced synchronously.
var (
	ErrNoParticipants        = errors.New("conference draft has no participants")
	ErrMissingScheduleFields = errors.New("date and time are required when scheduling for later")
	ErrSubjectRequired       = errors.New("subject is required")
	ErrSubmitInProgress      = errors.New("a submit is already in flight for this draft")
)

// Account errors
var (
	ErrNoDefaultAccount = errors.New("no default account configured on the engine")
)

// Engine errors, surfaced asynchronously through the flow event channel.
var (
	ErrEngineConstruction = errors.New("failed to construct engine scheduler")
	ErrEngineTerminal     = errors.New("engine reported a terminal error")
	ErrEngineTimeout      = errors.New("engine did not report readiness in time")
)

// Catalog errors
var (
	ErrUnknownTimezoneIndex = errors.New("timezone index out of range")
	ErrUnknownDurationIndex = errors.New("duration index out of range")
)

// Draft errors
var (
	ErrDraftNotFound   = errors.New("draft not found")
	ErrInvalidAddress  = errors.New("invalid participant address")
	ErrDuplicateInvite = errors.New("participant already on the draft")
)
