package domain

import "time"

// RowBucket is the alternating class used for table striping.
type RowBucket string

const (
	RowBucketA RowBucket = "content"
	RowBucketB RowBucket = "content2"
)

// ListingRow is one enriched ticket in a listing page.
type ListingRow struct {
	Ticket
	LastActivityAt time.Time
	UrgencyLabel   string
	RowBucket      RowBucket
}

// ListingResult is the view model returned for one listing request.
type ListingResult struct {
	Rows           []ListingRow
	PreviousOffset *int
	NextOffset     *int
	Offset         int
	PageSize       int
	TotalCount     int
	// Empty is set when the user has no listable tickets at all; Message then
	// carries the informational text for the page-message sink.
	Empty   bool
	Message string
}
