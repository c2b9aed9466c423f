package bookmark

import "time"

// MaxActivityEntries caps a record's activity log. The log keeps the most
// recent entries, newest first.
const MaxActivityEntries = 100

// ActivityEntry is one line of a record's mutation history.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordActivity prepends an entry to the record's activity log and
// truncates past the cap.
func (r *Record) RecordActivity(action, actor, detail string) {
	entry := ActivityEntry{
		ID:        NewCommentID(),
		Action:    action,
		Actor:     actor,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}

	r.Activity = append([]ActivityEntry{entry}, r.Activity...)
	if len(r.Activity) > MaxActivityEntries {
		r.Activity = r.Activity[:MaxActivityEntries]
	}
}
