package handler

import (
	stdErrors "errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/telmeet/conference-scheduler/errors"
	"github.com/telmeet/conference-scheduler/internal/adapter/dto/conference"
	"github.com/telmeet/conference-scheduler/internal/adapter/presenter"
	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	"github.com/telmeet/conference-scheduler/internal/domain/repositories"
	"github.com/telmeet/conference-scheduler/internal/infrastructure/external/engine"
	usecaseErrors "github.com/telmeet/conference-scheduler/internal/usecase/errors"
	"github.com/telmeet/conference-scheduler/internal/usecase/roster"
	"github.com/telmeet/conference-scheduler/internal/usecase/scheduling"
)

// submitGrace pads the synchronous wait beyond the engine ready timeout so
// invitation dispatch has room to finish.
const submitGrace = 30 * time.Second

// Conference handles conference draft and roster HTTP requests
type Conference struct {
	drafts       repositories.DraftRepository
	conferences  repositories.ConferenceRepository
	eng          engine.Engine
	zones        *scheduling.TimeZoneCatalog
	durations    *scheduling.DurationCatalog
	rosterSvc    *roster.Service
	locker       scheduling.SubmitLocker
	readyTimeout time.Duration
	logger       *zap.Logger
}

// NewConferenceHandler creates a new conference handler
func NewConferenceHandler(
	drafts repositories.DraftRepository,
	conferences repositories.ConferenceRepository,
	eng engine.Engine,
	zones *scheduling.TimeZoneCatalog,
	durations *scheduling.DurationCatalog,
	rosterSvc *roster.Service,
	locker scheduling.SubmitLocker,
	readyTimeout time.Duration,
	logger *zap.Logger,
) *Conference {
	return &Conference{
		drafts:       drafts,
		conferences:  conferences,
		eng:          eng,
		zones:        zones,
		durations:    durations,
		rosterSvc:    rosterSvc,
		locker:       locker,
		readyTimeout: readyTimeout,
		logger:       logger,
	}
}

// CreateDraft handles POST /drafts
// @Summary      Create a conference draft
// @Description  Creates a new conference draft, optionally seeded from an existing conference for editing
// @Tags         Drafts
// @Accept       json
// @Produce      json
// @Param        request  body      conference.CreateDraftRequest  true  "Draft creation request"
// @Success      201      {object}  conference.DraftResponse  "Draft created"
// @Failure      400      {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      404      {object}  map[string]interface{}  "Conference being edited not found"
// @Router       /drafts [post]
func (h *Conference) CreateDraft(c echo.Context) error {
	var req conference.CreateDraftRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	var session *scheduling.DraftSession
	if req.EditAddress != "" {
		info, err := h.findConference(c, req.EditAddress)
		if err != nil {
			return HandleError(h.logger, c, err)
		}
		session = scheduling.NewEditSession(info, h.zones, h.durations)
	} else {
		session = scheduling.NewDraftSession(h.zones, h.durations)
	}

	if err := h.applyCreateRequest(session, &req); err != nil {
		return HandleError(h.logger, c, mapDomainError(err))
	}

	draft, err := session.Persistable()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	if err := h.drafts.Create(c.Request().Context(), draft); err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed(err))
	}

	return HandleSuccess(h.logger, c, http.StatusCreated, presenter.ToDraftResponse(session.Snapshot()))
}

// GetDraft handles GET /drafts/:id
// @Summary      Get a conference draft
// @Tags         Drafts
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  conference.DraftResponse
// @Failure      404  {object}  map[string]interface{}  "Draft not found"
// @Router       /drafts/{id} [get]
func (h *Conference) GetDraft(c echo.Context) error {
	session, _, err := h.loadSession(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToDraftResponse(session.Snapshot()))
}

// UpdateDraft handles PATCH /drafts/:id
// @Summary      Update a conference draft
// @Description  Applies a partial update; unset fields keep their value
// @Tags         Drafts
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Draft ID"
// @Param        request  body      conference.UpdateDraftRequest  true  "Draft update request"
// @Success      200      {object}  conference.DraftResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      404      {object}  map[string]interface{}  "Draft not found"
// @Router       /drafts/{id} [patch]
func (h *Conference) UpdateDraft(c echo.Context) error {
	session, _, err := h.loadSession(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req conference.UpdateDraftRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	if err := h.applyUpdateRequest(session, &req); err != nil {
		return HandleError(h.logger, c, mapDomainError(err))
	}

	if err := h.persistSession(c, session); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToDraftResponse(session.Snapshot()))
}

// DeleteDraft handles DELETE /drafts/:id
// @Summary      Delete a conference draft
// @Tags         Drafts
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Draft not found"
// @Router       /drafts/{id} [delete]
func (h *Conference) DeleteDraft(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid draft id"))
	}
	if _, err := h.drafts.FindByID(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, mapDomainError(err))
	}
	if err := h.drafts.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed(err))
	}
	return HandleSuccess(h.logger, c, http.StatusOK, map[string]interface{}{"deleted": id.String()})
}

// ListDrafts handles GET /drafts
// @Summary      List conference drafts
// @Tags         Drafts
// @Produce      json
// @Param        search      query     string  false  "Search in subject and description"
// @Param        editing     query     bool    false  "Only drafts editing an existing conference"
// @Param        page        query     int     false  "Page number"  default(1)
// @Param        page_size   query     int     false  "Page size"    default(20)
// @Success      200  {object}  common.ListResponse
// @Router       /drafts [get]
func (h *Conference) ListDrafts(c echo.Context) error {
	req := conference.ListDraftsRequest{Page: 1, PageSize: 20}
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	drafts, total, err := h.drafts.List(c.Request().Context(), buildDraftFilters(&req))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed(err))
	}

	return HandleSuccess(h.logger, c, http.StatusOK,
		presenter.ToDraftListResponse(drafts, total, req.Page, req.PageSize))
}

// AddParticipant handles POST /drafts/:id/participants
// @Summary      Add an invitee to a draft
// @Tags         Drafts
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Draft ID"
// @Param        request  body      conference.AddParticipantRequest  true  "Participant"
// @Success      200      {object}  conference.DraftResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid address"
// @Failure      409      {object}  map[string]interface{}  "Participant already on the draft"
// @Router       /drafts/{id}/participants [post]
func (h *Conference) AddParticipant(c echo.Context) error {
	session, _, err := h.loadSession(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req conference.AddParticipantRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	addr, err := entities.ParseAddress(req.Address)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid participant address"))
	}
	if req.DisplayName != "" {
		addr.DisplayName = req.DisplayName
	}

	if err := session.AddParticipant(addr); err != nil {
		return HandleError(h.logger, c, mapDomainError(err))
	}

	if err := h.persistSession(c, session); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToDraftResponse(session.Snapshot()))
}

// RemoveParticipant handles DELETE /drafts/:id/participants/:address
// @Summary      Remove an invitee from a draft
// @Tags         Drafts
// @Produce      json
// @Param        id       path      string  true  "Draft ID"
// @Param        address  path      string  true  "Participant address (URL-escaped)"
// @Success      200      {object}  conference.DraftResponse
// @Failure      404      {object}  map[string]interface{}  "Draft or participant not found"
// @Router       /drafts/{id}/participants/{address} [delete]
func (h *Conference) RemoveParticipant(c echo.Context) error {
	session, _, err := h.loadSession(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	raw := c.Param("address")
	if unescaped, uerr := url.PathUnescape(raw); uerr == nil {
		raw = unescaped
	}
	addr, err := entities.ParseAddress(raw)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid participant address"))
	}

	if !session.RemoveParticipant(addr) {
		return HandleError(h.logger, c, errors.ErrNotFound("participant"))
	}

	if err := h.persistSession(c, session); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToDraftResponse(session.Snapshot()))
}

// SubmitDraft handles POST /drafts/:id/submit
// @Summary      Submit a conference draft
// @Description  Hands the draft to the conferencing engine and waits for the flow to finish
// @Tags         Drafts
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  conference.SubmitResponse  "Conference created"
// @Failure      400  {object}  map[string]interface{}  "Draft cannot be submitted"
// @Failure      409  {object}  map[string]interface{}  "Submit already in flight"
// @Failure      502  {object}  map[string]interface{}  "Engine failure"
// @Failure      504  {object}  map[string]interface{}  "Engine timeout"
// @Router       /drafts/{id}/submit [post]
func (h *Conference) SubmitDraft(c echo.Context) error {
	session, draftID, err := h.loadSession(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	snap := session.Snapshot()
	if !snap.CanProceed {
		if strings.TrimSpace(snap.Draft.Subject) == "" {
			return HandleError(h.logger, c, mapDomainError(usecaseErrors.ErrSubjectRequired))
		}
		return HandleError(h.logger, c, mapDomainError(usecaseErrors.ErrMissingScheduleFields))
	}

	orch := scheduling.NewOrchestrator(h.eng, h.zones, h.durations, h.logger,
		scheduling.WithSubmitLocker(h.locker),
		scheduling.WithReadyTimeout(h.readyTimeout))
	defer orch.Close()

	// Engine events can all fire synchronously inside Submit, before the
	// drain loop below runs. The buffer must hold the worst case: one partial
	// failure per participant plus the terminal event.
	events := make(chan scheduling.FlowEvent, len(snap.Participants)+2)
	dispose := orch.Subscribe(func(ev scheduling.FlowEvent) {
		select {
		case events <- ev:
		default:
		}
	})
	defer dispose()

	if err := orch.Submit(c.Request().Context(), session); err != nil {
		if stdErrors.Is(err, usecaseErrors.ErrSubmitInProgress) {
			return HandleError(h.logger, c, errors.ErrSubmitInProgress(draftID.String()))
		}
		return HandleError(h.logger, c, mapDomainError(err))
	}

	resp := &conference.SubmitResponse{
		InvitationsSkipped: !(snap.Draft.ScheduleForLater && snap.Draft.SendInviteViaChat),
	}

	deadline := time.NewTimer(h.readyTimeout + submitGrace)
	defer deadline.Stop()

	for {
		select {
		case <-c.Request().Context().Done():
			return HandleError(h.logger, c, errors.ErrInternal(c.Request().Context().Err()))
		case <-deadline.C:
			return HandleError(h.logger, c, errors.ErrEngineTimeout())
		case ev := <-events:
			switch e := ev.(type) {
			case scheduling.PartialInvitationFailure:
				resp.FailedInvitations = append(resp.FailedInvitations, e.Address.Canonical())
			case scheduling.FlowFailure:
				return HandleError(h.logger, c, mapDomainError(e.Err))
			case scheduling.FlowSuccess:
				resp.Address = e.Address
				resp.Subject = e.Subject
				if err := h.drafts.Delete(c.Request().Context(), draftID); err != nil {
					h.logger.Warn("failed to delete submitted draft",
						zap.String("draft_id", draftID.String()), zap.Error(err))
				}
				return HandleSuccess(h.logger, c, http.StatusOK, resp)
			}
		}
	}
}

// ListConferences handles GET /conferences
// @Summary      List scheduled conferences grouped by day
// @Tags         Conferences
// @Produce      json
// @Param        show_terminated  query     bool  false  "List past conferences instead of upcoming ones"
// @Success      200  {object}  conference.RosterResponse
// @Failure      502  {object}  map[string]interface{}  "Engine failure"
// @Router       /conferences [get]
func (h *Conference) ListConferences(c echo.Context) error {
	var req conference.ListConferencesRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	buckets, err := h.rosterSvc.Refresh(c.Request().Context(), req.ShowTerminated)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrEngineFailure(err))
	}

	return HandleSuccess(h.logger, c, http.StatusOK,
		presenter.ToRosterResponse(buckets, req.ShowTerminated))
}

// loadSession fetches the draft for the :id path param and rebuilds its
// session.
func (h *Conference) loadSession(c echo.Context) (*scheduling.DraftSession, uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, uuid.Nil, errors.ErrInvalidArgument("invalid draft id")
	}
	draft, err := h.drafts.FindByID(c.Request().Context(), id)
	if err != nil {
		return nil, uuid.Nil, mapDomainError(err)
	}
	session, err := scheduling.ResumeDraftSession(draft)
	if err != nil {
		return nil, uuid.Nil, errors.ErrInternal(err)
	}
	if draft.IsEditing() {
		// An edit draft persists only the target address; the record itself
		// must be reattached so submission updates it instead of creating a
		// fresh conference.
		info, err := h.findConference(c, *draft.EditingAddress)
		if err != nil {
			return nil, uuid.Nil, err
		}
		session.AttachExisting(info)
	}
	return session, id, nil
}

// persistSession writes the session state back to the draft store.
func (h *Conference) persistSession(c echo.Context, session *scheduling.DraftSession) error {
	draft, err := session.Persistable()
	if err != nil {
		return errors.ErrInternal(err)
	}
	if err := h.drafts.Update(c.Request().Context(), draft); err != nil {
		return errors.ErrDBQueryFailed(err)
	}
	return nil
}

// findConference resolves the record for an edit draft, preferring the local
// mirror and falling back to the engine.
func (h *Conference) findConference(c echo.Context, address string) (*entities.ConferenceInfo, error) {
	ctx := c.Request().Context()

	if h.conferences != nil {
		if info, err := h.conferences.FindByAddress(ctx, address); err == nil {
			return info, nil
		}
	}

	infos, err := h.eng.ConferenceInformationList(ctx)
	if err != nil {
		return nil, errors.ErrEngineFailure(err)
	}
	for _, info := range infos {
		if info.Address == address {
			return info, nil
		}
	}
	return nil, errors.ErrNotFound("conference")
}

func (h *Conference) applyCreateRequest(session *scheduling.DraftSession, req *conference.CreateDraftRequest) error {
	if req.Subject != "" {
		session.SetSubject(req.Subject)
	}
	if req.Description != nil {
		session.SetDescription(*req.Description)
	}
	session.SetScheduleForLater(req.ScheduleForLater)
	if req.Date != nil {
		session.SetDate(req.Date)
	}
	if req.WallTime != nil {
		session.SetTime(req.WallTime)
	}
	if req.TimezoneIndex != nil {
		if _, err := h.zones.Entry(*req.TimezoneIndex); err != nil {
			return err
		}
		session.SetTimezoneIndex(*req.TimezoneIndex)
	}
	if req.DurationIndex != nil {
		if _, err := h.durations.Entry(*req.DurationIndex); err != nil {
			return err
		}
		session.SetDurationIndex(*req.DurationIndex)
	}
	session.SetEncrypted(req.Encrypted)
	if req.SendInviteViaChat != nil {
		session.SetSendInviteViaChat(*req.SendInviteViaChat)
	}
	session.SetSendInviteViaEmail(req.SendInviteViaEmail)

	for _, raw := range req.Participants {
		addr, err := entities.ParseAddress(raw)
		if err != nil {
			return usecaseErrors.ErrInvalidAddress
		}
		if err := session.AddParticipant(addr); err != nil {
			return err
		}
	}
	return nil
}

func (h *Conference) applyUpdateRequest(session *scheduling.DraftSession, req *conference.UpdateDraftRequest) error {
	if req.Subject != nil {
		session.SetSubject(*req.Subject)
	}
	if req.Description != nil {
		session.SetDescription(*req.Description)
	}
	if req.ScheduleForLater != nil {
		session.SetScheduleForLater(*req.ScheduleForLater)
	}
	if req.Date != nil {
		session.SetDate(req.Date)
	}
	if req.WallTime != nil {
		session.SetTime(req.WallTime)
	}
	if req.TimezoneIndex != nil {
		if _, err := h.zones.Entry(*req.TimezoneIndex); err != nil {
			return err
		}
		session.SetTimezoneIndex(*req.TimezoneIndex)
	}
	if req.DurationIndex != nil {
		if _, err := h.durations.Entry(*req.DurationIndex); err != nil {
			return err
		}
		session.SetDurationIndex(*req.DurationIndex)
	}
	if req.Encrypted != nil {
		session.SetEncrypted(*req.Encrypted)
	}
	if req.SendInviteViaChat != nil {
		session.SetSendInviteViaChat(*req.SendInviteViaChat)
	}
	if req.SendInviteViaEmail != nil {
		session.SetSendInviteViaEmail(*req.SendInviteViaEmail)
	}
	return nil
}
