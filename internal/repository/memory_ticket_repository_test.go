package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-listing/internal/domain"
)

func replyTo(id int64) *int64 { return &id }

func TestMemoryTicketRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	seed := func(t *testing.T) *MemoryTicketRepository {
		t.Helper()
		repo := NewMemoryTicketRepository()
		for _, tk := range []domain.Ticket{
			{ID: 1, SenderID: "u1", RecipientID: "admin", CreatedAt: base},
			{ID: 2, SenderID: "admin", RecipientID: "u1", CreatedAt: base.Add(time.Hour)},
			{ID: 3, SenderID: "u1", RecipientID: "admin", CreatedAt: base.Add(time.Hour)},
			{ID: 4, SenderID: "u1", RecipientID: "admin", CreatedAt: base.Add(2 * time.Hour), Status: domain.TicketStatusClosed},
			{ID: 5, SenderID: "u2", RecipientID: "admin", CreatedAt: base.Add(3 * time.Hour)},
			{ID: 6, SenderID: "admin", RecipientID: "u1", CreatedAt: base.Add(5 * time.Hour), ReplyTo: replyTo(1)},
		} {
			_, err := repo.Insert(tk)
			require.NoError(t, err)
		}
		return repo
	}

	t.Run("CountOpenRootTickets", func(t *testing.T) {
		repo := seed(t)
		count, err := repo.CountOpenRootTickets(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		count, err = repo.CountOpenRootTickets(ctx, "nobody")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("ListOpenRootTickets orders by date then id descending", func(t *testing.T) {
		repo := seed(t)
		tickets, err := repo.ListOpenRootTickets(ctx, "u1", 0, 10)
		require.NoError(t, err)

		ids := make([]int64, 0, len(tickets))
		for _, tk := range tickets {
			ids = append(ids, tk.ID)
		}
		assert.Equal(t, []int64{3, 2, 1}, ids)
	})

	t.Run("ListOpenRootTickets windows", func(t *testing.T) {
		repo := seed(t)
		page, err := repo.ListOpenRootTickets(ctx, "u1", 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, int64(2), page[0].ID)

		past, err := repo.ListOpenRootTickets(ctx, "u1", 30, 10)
		require.NoError(t, err)
		assert.Empty(t, past)
	})

	t.Run("LatestReplyTimestamp", func(t *testing.T) {
		repo := seed(t)

		ts, found, err := repo.LatestReplyTimestamp(ctx, 1)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, base.Add(5*time.Hour), ts)

		ts, found, err = repo.LatestReplyTimestamp(ctx, 3)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, base.Add(time.Hour), ts)

		_, found, err = repo.LatestReplyTimestamp(ctx, 404)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("LatestReplyTimestamps", func(t *testing.T) {
		repo := seed(t)
		got, err := repo.LatestReplyTimestamps(ctx, []int64{1, 3, 404})
		require.NoError(t, err)
		assert.Equal(t, map[int64]time.Time{
			1: base.Add(5 * time.Hour),
			3: base.Add(time.Hour),
		}, got)
	})

	t.Run("Insert validates reply link", func(t *testing.T) {
		repo := seed(t)

		_, err := repo.Insert(domain.Ticket{SenderID: "u1", ReplyTo: replyTo(404)})
		assert.Error(t, err)

		_, err = repo.Insert(domain.Ticket{SenderID: "u1", ReplyTo: replyTo(6)})
		assert.Error(t, err, "replies to replies are rejected")

		_, err = repo.Insert(domain.Ticket{ID: 1, SenderID: "u1"})
		assert.Error(t, err, "duplicate id")

		created, err := repo.Insert(domain.Ticket{SenderID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, int64(7), created.ID)
		assert.Equal(t, domain.TicketStatusOpen, created.Status)
		assert.False(t, created.CreatedAt.IsZero())
	})
}

func TestMemoryTicketRepositoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTicketRepository()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = repo.Insert(domain.Ticket{SenderID: "u1"})
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.ListOpenRootTickets(ctx, "u1", 0, 5)
		}()
	}
	wg.Wait()

	count, err := repo.CountOpenRootTickets(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}
