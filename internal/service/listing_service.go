package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-listing/internal/domain"
	"github.com/spec-kit/ticket-listing/internal/observability"
	"github.com/spec-kit/ticket-listing/internal/repository"
)

// NoTicketsMessage is the informational text returned for an empty listing.
const NoTicketsMessage = "You have no support tickets."

// DefaultPageSize applies when a non-positive page size is configured.
const DefaultPageSize = 10

// ListingService builds the open-ticket listing for a user.
type ListingService struct {
	tickets  repository.TicketStore
	threads  *ThreadResolver
	pageSize int
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// ListingDependencies bundles collaborators for the listing service.
type ListingDependencies struct {
	TicketStore repository.TicketStore
	PageSize    int
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// NewListingService constructs the service.
func NewListingService(deps ListingDependencies) *ListingService {
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		tickets:  deps.TicketStore,
		threads:  NewThreadResolver(deps.TicketStore),
		pageSize: pageSize,
		logger:   logger,
		metrics:  deps.Metrics,
	}
}

// PageSize returns the effective rows per page.
func (s *ListingService) PageSize() int {
	return s.pageSize
}

// BuildTicketListing returns one page of the user's open root tickets, newest
// first, each enriched with its last thread activity, urgency label and row
// bucket. Any failure aborts the whole listing.
func (s *ListingService) BuildTicketListing(ctx context.Context, userID string, offset int) (*domain.ListingResult, error) {
	if offset < 0 {
		offset = 0
	}

	total, err := s.tickets.CountOpenRootTickets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("build ticket listing: %w", err)
	}

	result := &domain.ListingResult{
		Rows:       []domain.ListingRow{},
		Offset:     offset,
		PageSize:   s.pageSize,
		TotalCount: total,
	}
	if total == 0 {
		result.Empty = true
		result.Message = NoTicketsMessage
		s.logger.Debug("ticket listing empty", zap.String("user_id", userID))
		s.metrics.ObserveListing(0, true)
		return result, nil
	}

	page, err := s.tickets.ListOpenRootTickets(ctx, userID, offset, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("build ticket listing: %w", err)
	}

	nav := PageWindow{Offset: offset, PageSize: s.pageSize, TotalCount: total}.Navigation()
	if nav.HasPrevious {
		prev := nav.PreviousOffset
		result.PreviousOffset = &prev
	}
	if nav.HasNext {
		next := nav.NextOffset
		result.NextOffset = &next
	}

	activity, err := s.threads.LastActivities(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("build ticket listing: %w", err)
	}

	// The counter starts at the window offset so striping stays continuous
	// across pages.
	rowIndex := offset
	for i, ticket := range page {
		result.Rows = append(result.Rows, domain.ListingRow{
			Ticket:         ticket,
			LastActivityAt: activity[i],
			UrgencyLabel:   UrgencyLabel(ticket.Urgency),
			RowBucket:      RowBucketFor(rowIndex),
		})
		rowIndex++
	}

	s.logger.Debug("ticket listing built",
		zap.String("user_id", userID),
		zap.Int("offset", offset),
		zap.Int("total", total),
		zap.Int("rows", len(result.Rows)))
	s.metrics.ObserveListing(len(result.Rows), false)
	return result, nil
}
