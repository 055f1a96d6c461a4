package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "OPEN"
	TicketStatusClosed TicketStatus = "CLOSED"
)

// TicketUrgency is the stored urgency code. Known codes run 1..4; anything else
// is kept as-is and renders without a label.
type TicketUrgency int

const (
	TicketUrgencyLow      TicketUrgency = 1
	TicketUrgencyMedium   TicketUrgency = 2
	TicketUrgencyHigh     TicketUrgency = 3
	TicketUrgencyVeryHigh TicketUrgency = 4
)

// Ticket is a support message. Root tickets have a nil ReplyTo; replies point
// at the root of their thread.
type Ticket struct {
	ID          int64
	SenderID    string
	RecipientID string
	Urgency     TicketUrgency
	Status      TicketStatus
	ReplyTo     *int64
	Subject     string
	Message     string
	CreatedAt   time.Time
}

// IsRoot reports whether the ticket heads a thread.
func (t Ticket) IsRoot() bool {
	return t.ReplyTo == nil
}

// InvolvesUser reports whether userID sent or received the ticket.
func (t Ticket) InvolvesUser(userID string) bool {
	return t.SenderID == userID || t.RecipientID == userID
}
