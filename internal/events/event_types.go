package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventUncaughtException fires when a request ends in a server error that no
	// handler translated.
	EventUncaughtException EventType = "uncaught_exception"
)

// Event represents an application event.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UncaughtExceptionPayload carries the failure and the request it ended.
type UncaughtExceptionPayload struct {
	Err       error  `json:"-"`
	Code      string `json:"code"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	RequestID string `json:"request_id,omitempty"`
	Panic     bool   `json:"panic"`
}

// NewUncaughtException builds the event for err.
func NewUncaughtException(payload UncaughtExceptionPayload) Event {
	return Event{
		Type:    EventUncaughtException,
		Payload: payload,
	}
}
