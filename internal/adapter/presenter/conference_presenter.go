package presenter

import (
	"github.com/telmeet/conference-scheduler/internal/adapter/dto/common"
	"github.com/telmeet/conference-scheduler/internal/adapter/dto/conference"
	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	"github.com/telmeet/conference-scheduler/internal/usecase/roster"
	"github.com/telmeet/conference-scheduler/internal/usecase/scheduling"
)

// ToDraftResponse converts a draft snapshot to DraftResponse DTO
func ToDraftResponse(snap scheduling.DraftSnapshot) *conference.DraftResponse {
	d := snap.Draft

	participants := make([]conference.ParticipantResponse, len(snap.Participants))
	for i, p := range snap.Participants {
		participants[i] = conference.ParticipantResponse{
			Address:     p.Canonical(),
			DisplayName: p.DisplayName,
		}
	}

	return &conference.DraftResponse{
		ID:                 d.ID.String(),
		Subject:            d.Subject,
		Description:        d.Description,
		Participants:       participants,
		ScheduleForLater:   d.ScheduleForLater,
		Date:               d.Date,
		WallTime:           d.WallTime,
		TimezoneIndex:      d.TimezoneIndex,
		DurationIndex:      d.DurationIndex,
		Encrypted:          d.Encrypted,
		SendInviteViaChat:  d.SendInviteViaChat,
		SendInviteViaEmail: d.SendInviteViaEmail,
		EditingAddress:     d.EditingAddress,
		CanProceed:         snap.CanProceed,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

// ToDraftListResponse converts persisted drafts to a paginated list response
func ToDraftListResponse(drafts []*entities.ConferenceDraft, total int64, page, pageSize int) *common.ListResponse {
	responses := make([]*conference.DraftResponse, 0, len(drafts))
	for _, d := range drafts {
		session, err := scheduling.ResumeDraftSession(d)
		if err != nil {
			continue
		}
		responses = append(responses, ToDraftResponse(session.Snapshot()))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &common.ListResponse{
		Data: responses,
		Pagination: &common.PaginationResponse{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalItems: total,
		},
	}
}

// ToConferenceSummaryResponse converts a summary projection to its DTO
func ToConferenceSummaryResponse(s entities.ScheduledConferenceSummary) conference.ConferenceSummaryResponse {
	return conference.ConferenceSummaryResponse{
		Address:              s.Address,
		Subject:              s.Subject,
		Description:          s.Description,
		Time:                 s.Time,
		Date:                 s.Date,
		Duration:             s.Duration,
		Organizer:            s.Organizer,
		ParticipantsShort:    s.ParticipantsShort,
		ParticipantsExpanded: s.ParticipantsExpanded,
		StartTime:            s.StartTime,
	}
}

// ToRosterResponse converts day buckets to the roster DTO
func ToRosterResponse(buckets []roster.DayBucket, showTerminated bool) *conference.RosterResponse {
	days := make([]conference.DayBucketResponse, len(buckets))
	for i, b := range buckets {
		summaries := make([]conference.ConferenceSummaryResponse, len(b.Conferences))
		for j, s := range b.Conferences {
			summaries[j] = ToConferenceSummaryResponse(s)
		}
		days[i] = conference.DayBucketResponse{
			Day:         b.Day,
			Conferences: summaries,
		}
	}
	return &conference.RosterResponse{
		ShowTerminated: showTerminated,
		Days:           days,
	}
}

// ToCatalogResponse converts the selection catalogs to their DTO
func ToCatalogResponse(zones *scheduling.TimeZoneCatalog, durations *scheduling.DurationCatalog) *conference.CatalogResponse {
	zoneEntries := zones.List()
	tzResponses := make([]conference.TimeZoneResponse, len(zoneEntries))
	for i, z := range zoneEntries {
		tzResponses[i] = conference.TimeZoneResponse{
			Index:            i,
			Identifier:       z.Identifier,
			GMTOffsetSeconds: z.GMTOffsetSeconds,
		}
	}

	durationEntries := durations.List()
	durResponses := make([]conference.DurationResponse, len(durationEntries))
	for i, d := range durationEntries {
		durResponses[i] = conference.DurationResponse{
			Index:   i,
			Minutes: d.Minutes,
			Label:   d.Label,
		}
	}

	resp := &conference.CatalogResponse{
		Timezones:            tzResponses,
		Durations:            durResponses,
		DefaultDurationIndex: durations.DefaultIndex(),
	}
	if idx, ok := zones.DefaultIndex(); ok {
		resp.DefaultTimezoneIndex = &idx
	}
	return resp
}
