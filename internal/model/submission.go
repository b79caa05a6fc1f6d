package model

import "time"

// TimestampLayout is the ISO-8601 layout used for Submission.Timestamp
// (UTC, millisecond precision, trailing Z).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Submission represents one message submitted via the contact form.
type Submission struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"` // assigned when persisted
}

// Complete reports whether name, email and message are all present.
func (s *Submission) Complete() bool {
	return s.Name != "" && s.Email != "" && s.Message != ""
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
