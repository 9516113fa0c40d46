package scheduling

import (
	"time"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	usecaseErrors "github.com/telmeet/conference-scheduler/internal/usecase/errors"
)

const secondsPerDay = 86400

// ResolveStartTimestamp converts a draft's schedule fields into an absolute
// UTC epoch value, in whole seconds.
//
// For immediate conferences the current instant is used and the stored
// date/time fields are ignored. For scheduled conferences the date and time
// come from two independent pickers: the day component is taken from the
// date value and the time-of-day component from the time value, then the
// wall-clock result is shifted by the offset between the selected timezone
// and the host timezone.
func ResolveStartTimestamp(draft *entities.ConferenceDraft, zones *TimeZoneCatalog, host entities.TimeZoneEntry, now func() time.Time) (int64, error) {
	if now == nil {
		now = time.Now
	}
	if !draft.ScheduleForLater {
		return now().Unix(), nil
	}
	if draft.Date == nil || draft.WallTime == nil {
		return 0, usecaseErrors.ErrMissingScheduleFields
	}

	selected, err := zones.Entry(draft.TimezoneIndex)
	if err != nil {
		return 0, err
	}

	days := floorDiv(draft.Date.Unix(), secondsPerDay)
	timeOfDay := floorMod(draft.WallTime.Unix(), secondsPerDay)

	result := days*secondsPerDay + timeOfDay
	result += int64(selected.GMTOffsetSeconds - host.GMTOffsetSeconds)
	return result, nil
}

// floorDiv is integer division rounding toward negative infinity, so dates
// before the epoch land on the correct day.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod is the non-negative remainder paired with floorDiv.
func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (a < 0) != (b < 0) {
		m += b
	}
	return m
}
