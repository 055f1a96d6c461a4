package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-listing/internal/domain"
	"github.com/spec-kit/ticket-listing/internal/repository"
)

var baseTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return baseTime.Add(time.Duration(hours) * time.Hour)
}

func replyTo(id int64) *int64 { return &id }

func seedStore(t *testing.T, tickets ...domain.Ticket) *repository.MemoryTicketRepository {
	t.Helper()
	store := repository.NewMemoryTicketRepository()
	for _, tk := range tickets {
		_, err := store.Insert(tk)
		require.NoError(t, err)
	}
	return store
}

// perRowStore hides the batched lookup so the per-row path is exercised.
type perRowStore struct {
	repository.TicketStore
}

// vanishingStore drops a ticket right after it has been listed.
type vanishingStore struct {
	*repository.MemoryTicketRepository
	victim int64
}

func (s vanishingStore) ListOpenRootTickets(ctx context.Context, userID string, offset, limit int) ([]domain.Ticket, error) {
	page, err := s.MemoryTicketRepository.ListOpenRootTickets(ctx, userID, offset, limit)
	s.Delete(s.victim)
	return page, err
}

// failingStore fails the configured operation.
type failingStore struct {
	repository.TicketStore
	countErr  error
	listErr   error
	latestErr error
}

func (s failingStore) CountOpenRootTickets(ctx context.Context, userID string) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.TicketStore.CountOpenRootTickets(ctx, userID)
}

func (s failingStore) ListOpenRootTickets(ctx context.Context, userID string, offset, limit int) ([]domain.Ticket, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.TicketStore.ListOpenRootTickets(ctx, userID, offset, limit)
}

func (s failingStore) LatestReplyTimestamp(ctx context.Context, ticketID int64) (time.Time, bool, error) {
	if s.latestErr != nil {
		return time.Time{}, false, s.latestErr
	}
	return s.TicketStore.LatestReplyTimestamp(ctx, ticketID)
}
