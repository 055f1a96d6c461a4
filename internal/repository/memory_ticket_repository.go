package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/ticket-listing/internal/domain"
)

// MemoryTicketRepository implements TicketStore and BatchActivityReader in memory.
// It backs the engine tests and serves as the development store when no
// Postgres DSN is configured.
type MemoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[int64]domain.Ticket
	nextID  int64
}

// NewMemoryTicketRepository creates an empty store.
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{
		tickets: make(map[int64]domain.Ticket),
		nextID:  1,
	}
}

// Insert stores a ticket. A zero ID is assigned from the sequence, a zero
// CreatedAt is set to now. Replies must point at an existing root ticket.
func (r *MemoryTicketRepository) Insert(ticket domain.Ticket) (domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ticket.ReplyTo != nil {
		parent, ok := r.tickets[*ticket.ReplyTo]
		if !ok {
			return domain.Ticket{}, fmt.Errorf("reply target %d does not exist", *ticket.ReplyTo)
		}
		if !parent.IsRoot() {
			return domain.Ticket{}, fmt.Errorf("reply target %d is not a thread root", *ticket.ReplyTo)
		}
	}
	if ticket.ID == 0 {
		ticket.ID = r.nextID
	}
	if _, exists := r.tickets[ticket.ID]; exists {
		return domain.Ticket{}, fmt.Errorf("ticket %d already exists", ticket.ID)
	}
	if ticket.ID >= r.nextID {
		r.nextID = ticket.ID + 1
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC()
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	r.tickets[ticket.ID] = ticket
	return ticket, nil
}

// Delete removes a ticket; replies are left dangling.
func (r *MemoryTicketRepository) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tickets, id)
}

func (r *MemoryTicketRepository) CountOpenRootTickets(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.openRoots(userID)), nil
}

func (r *MemoryTicketRepository) ListOpenRootTickets(_ context.Context, userID string, offset, limit int) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roots := r.openRoots(userID)
	sort.Slice(roots, func(i, j int) bool {
		if !roots[i].CreatedAt.Equal(roots[j].CreatedAt) {
			return roots[i].CreatedAt.After(roots[j].CreatedAt)
		}
		return roots[i].ID > roots[j].ID
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(roots) || limit <= 0 {
		return []domain.Ticket{}, nil
	}
	end := offset + limit
	if end > len(roots) {
		end = len(roots)
	}
	return append([]domain.Ticket(nil), roots[offset:end]...), nil
}

func (r *MemoryTicketRepository) LatestReplyTimestamp(_ context.Context, ticketID int64) (time.Time, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		latest time.Time
		found  bool
	)
	for _, t := range r.tickets {
		if t.ID != ticketID && (t.ReplyTo == nil || *t.ReplyTo != ticketID) {
			continue
		}
		if !found || t.CreatedAt.After(latest) {
			latest = t.CreatedAt
			found = true
		}
	}
	return latest, found, nil
}

func (r *MemoryTicketRepository) LatestReplyTimestamps(_ context.Context, ticketIDs []int64) (map[int64]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(ticketIDs))
	for _, id := range ticketIDs {
		wanted[id] = struct{}{}
	}

	result := make(map[int64]time.Time, len(ticketIDs))
	for _, t := range r.tickets {
		threadID := t.ID
		if t.ReplyTo != nil {
			threadID = *t.ReplyTo
		}
		if _, ok := wanted[threadID]; !ok {
			continue
		}
		if current, ok := result[threadID]; !ok || t.CreatedAt.After(current) {
			result[threadID] = t.CreatedAt
		}
	}
	return result, nil
}

func (r *MemoryTicketRepository) openRoots(userID string) []domain.Ticket {
	var roots []domain.Ticket
	for _, t := range r.tickets {
		if t.IsRoot() && t.Status == domain.TicketStatusOpen && t.InvolvesUser(userID) {
			roots = append(roots, t)
		}
	}
	return roots
}
