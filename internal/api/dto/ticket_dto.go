package dto

import (
	"time"

	"github.com/spec-kit/ticket-listing/internal/domain"
)

// TicketListingResponse is one page of the open-ticket listing.
type TicketListingResponse struct {
	Rows           []TicketRow `json:"rows"`
	PreviousOffset *int        `json:"previous_offset"`
	NextOffset     *int        `json:"next_offset"`
	Offset         int         `json:"offset"`
	PageSize       int         `json:"page_size"`
	TotalCount     int         `json:"total_count"`
	Empty          bool        `json:"empty"`
	Message        string      `json:"message,omitempty"`
}

// TicketRow is a listing row.
type TicketRow struct {
	ID             int64               `json:"id"`
	SenderID       string              `json:"sender_id"`
	RecipientID    string              `json:"recipient_id"`
	Status         domain.TicketStatus `json:"status"`
	Urgency        int                 `json:"urgency"`
	UrgencyLabel   string              `json:"urgency_label"`
	Subject        string              `json:"subject"`
	Message        string              `json:"message"`
	CreatedAt      time.Time           `json:"created_at"`
	LastActivityAt time.Time           `json:"last_activity_at"`
	LastReply      string              `json:"last_reply"`
	RowBucket      domain.RowBucket    `json:"row_bucket"`
}

// PageMessageResponse carries a pending informational message.
type PageMessageResponse struct {
	Message string `json:"message"`
}
