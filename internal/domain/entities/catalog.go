package entities

// TimeZoneEntry is a selectable timezone with its current GMT offset.
type TimeZoneEntry struct {
	Identifier       string `json:"identifier"`
	GMTOffsetSeconds int    `json:"gmt_offset_seconds"`
}

// DurationEntry is a selectable meeting duration.
type DurationEntry struct {
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}
