package service

import (
	"context"
	"time"

	"github.com/spec-kit/ticket-listing/internal/domain"
	"github.com/spec-kit/ticket-listing/internal/repository"
	apperrors "github.com/spec-kit/ticket-listing/pkg/util/errorutil"
)

// ThreadResolver computes the last activity date of a thread root from its
// direct replies. Nested replies are not followed.
type ThreadResolver struct {
	store repository.TicketStore
}

// NewThreadResolver constructs a resolver over the given store.
func NewThreadResolver(store repository.TicketStore) *ThreadResolver {
	return &ThreadResolver{store: store}
}

// LastActivity returns the newest timestamp among the ticket and its replies.
func (r *ThreadResolver) LastActivity(ctx context.Context, ticket domain.Ticket) (time.Time, error) {
	ts, found, err := r.store.LatestReplyTimestamp(ctx, ticket.ID)
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		return time.Time{}, apperrors.NewInvariantViolation("ticket %d vanished while resolving thread activity", ticket.ID)
	}
	return latest(ts, ticket.CreatedAt), nil
}

// LastActivities resolves every ticket, in one store call when the store
// supports batching. The result is index-aligned with tickets.
func (r *ThreadResolver) LastActivities(ctx context.Context, tickets []domain.Ticket) ([]time.Time, error) {
	out := make([]time.Time, len(tickets))
	batch, ok := r.store.(repository.BatchActivityReader)
	if !ok {
		for i, ticket := range tickets {
			ts, err := r.LastActivity(ctx, ticket)
			if err != nil {
				return nil, err
			}
			out[i] = ts
		}
		return out, nil
	}

	ids := make([]int64, len(tickets))
	for i, ticket := range tickets {
		ids[i] = ticket.ID
	}
	byID, err := batch.LatestReplyTimestamps(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, ticket := range tickets {
		ts, found := byID[ticket.ID]
		if !found {
			return nil, apperrors.NewInvariantViolation("ticket %d vanished while resolving thread activity", ticket.ID)
		}
		out[i] = latest(ts, ticket.CreatedAt)
	}
	return out, nil
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
