package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-listing/internal/domain"
	"github.com/spec-kit/ticket-listing/internal/repository"
	apperrors "github.com/spec-kit/ticket-listing/pkg/util/errorutil"
)

func intPtr(v int) *int { return &v }

func newListing(store repository.TicketStore, pageSize int) *ListingService {
	return NewListingService(ListingDependencies{TicketStore: store, PageSize: pageSize})
}

func rowIDs(result *domain.ListingResult) []int64 {
	ids := make([]int64, 0, len(result.Rows))
	for _, row := range result.Rows {
		ids = append(ids, row.ID)
	}
	return ids
}

func TestBuildTicketListingEmpty(t *testing.T) {
	store := seedStore(t,
		domain.Ticket{ID: 1, SenderID: "other", RecipientID: "admin"},
		domain.Ticket{ID: 2, SenderID: "u1", RecipientID: "admin", Status: domain.TicketStatusClosed},
	)

	for _, offset := range []int{0, 10} {
		result, err := newListing(store, 5).BuildTicketListing(context.Background(), "u1", offset)
		require.NoError(t, err)

		assert.True(t, result.Empty)
		assert.Equal(t, NoTicketsMessage, result.Message)
		assert.Empty(t, result.Rows)
		assert.NotNil(t, result.Rows)
		assert.Nil(t, result.PreviousOffset)
		assert.Nil(t, result.NextOffset)
		assert.Zero(t, result.TotalCount)
	}
}

func TestBuildTicketListingScenario(t *testing.T) {
	ctx := context.Background()
	t1 := domain.Ticket{ID: 1, SenderID: "u1", RecipientID: "admin", Urgency: 1, Subject: "first", CreatedAt: at(1)}
	t2 := domain.Ticket{ID: 2, SenderID: "admin", RecipientID: "u1", Urgency: 3, Subject: "second", CreatedAt: at(2)}
	t3 := domain.Ticket{ID: 3, SenderID: "u1", RecipientID: "admin", Urgency: 9, Subject: "third", CreatedAt: at(3)}
	reply := domain.Ticket{ID: 4, SenderID: "admin", RecipientID: "u1", ReplyTo: replyTo(2), CreatedAt: at(7)}
	store := seedStore(t, t1, t2, t3, reply)

	for _, tk := range []*domain.Ticket{&t1, &t2, &t3} {
		tk.Status = domain.TicketStatusOpen
	}
	svc := newListing(store, 2)

	t.Run("first page", func(t *testing.T) {
		got, err := svc.BuildTicketListing(ctx, "u1", 0)
		require.NoError(t, err)

		want := &domain.ListingResult{
			Rows: []domain.ListingRow{
				{Ticket: t3, LastActivityAt: at(3), UrgencyLabel: "", RowBucket: domain.RowBucketA},
				{Ticket: t2, LastActivityAt: at(7), UrgencyLabel: "High", RowBucket: domain.RowBucketB},
			},
			NextOffset: intPtr(2),
			Offset:     0,
			PageSize:   2,
			TotalCount: 3,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("listing mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("second page", func(t *testing.T) {
		got, err := svc.BuildTicketListing(ctx, "u1", 2)
		require.NoError(t, err)

		want := &domain.ListingResult{
			Rows: []domain.ListingRow{
				{Ticket: t1, LastActivityAt: at(1), UrgencyLabel: "Low", RowBucket: domain.RowBucketA},
			},
			PreviousOffset: intPtr(0),
			Offset:         2,
			PageSize:       2,
			TotalCount:     3,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("listing mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestBuildTicketListingOffsetPastEnd(t *testing.T) {
	store := seedStore(t,
		domain.Ticket{ID: 1, SenderID: "u1", CreatedAt: at(1)},
		domain.Ticket{ID: 2, SenderID: "u1", CreatedAt: at(2)},
	)

	result, err := newListing(store, 5).BuildTicketListing(context.Background(), "u1", 40)
	require.NoError(t, err)

	assert.Empty(t, result.Rows)
	assert.False(t, result.Empty, "user has tickets, the window is just past the end")
	assert.Equal(t, 2, result.TotalCount)
	require.NotNil(t, result.PreviousOffset)
	assert.Equal(t, 35, *result.PreviousOffset)
	assert.Nil(t, result.NextOffset)
}

func TestBuildTicketListingNegativeOffset(t *testing.T) {
	store := seedStore(t, domain.Ticket{ID: 1, SenderID: "u1", CreatedAt: at(1)})

	result, err := newListing(store, 5).BuildTicketListing(context.Background(), "u1", -3)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Offset)
	assert.Equal(t, []int64{1}, rowIDs(result))
	assert.Nil(t, result.PreviousOffset)
}

func TestBuildTicketListingTieBreaksByIDDescending(t *testing.T) {
	store := seedStore(t,
		domain.Ticket{ID: 10, SenderID: "u1", CreatedAt: at(5)},
		domain.Ticket{ID: 11, SenderID: "u1", CreatedAt: at(5)},
		domain.Ticket{ID: 9, SenderID: "u1", CreatedAt: at(6)},
	)

	result, err := newListing(store, 10).BuildTicketListing(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 11, 10}, rowIDs(result))
}

func TestBuildTicketListingRowBucketsContinueAcrossPages(t *testing.T) {
	ctx := context.Background()
	var tickets []domain.Ticket
	for i := 1; i <= 12; i++ {
		tickets = append(tickets, domain.Ticket{ID: int64(i), SenderID: "u1", CreatedAt: at(i)})
	}
	store := seedStore(t, tickets...)

	long, err := newListing(store, 12).BuildTicketListing(ctx, "u1", 0)
	require.NoError(t, err)

	svc := newListing(store, 5)
	var paged []domain.RowBucket
	for _, offset := range []int{0, 5, 10} {
		page, err := svc.BuildTicketListing(ctx, "u1", offset)
		require.NoError(t, err)
		for _, row := range page.Rows {
			paged = append(paged, row.RowBucket)
		}
	}

	var whole []domain.RowBucket
	for _, row := range long.Rows {
		whole = append(whole, row.RowBucket)
	}
	assert.Equal(t, whole, paged)

	second, err := svc.BuildTicketListing(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, domain.RowBucketB, second.Rows[0].RowBucket, "row 5 of the long list is odd")
}

func TestBuildTicketListingPerRowLookup(t *testing.T) {
	store := seedStore(t,
		domain.Ticket{ID: 1, SenderID: "u1", CreatedAt: at(1)},
		domain.Ticket{ID: 2, SenderID: "admin", RecipientID: "u1", ReplyTo: replyTo(1), CreatedAt: at(9)},
	)

	result, err := newListing(perRowStore{store}, 5).BuildTicketListing(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, at(9), result.Rows[0].LastActivityAt)
}

func TestBuildTicketListingFailures(t *testing.T) {
	ctx := context.Background()
	seeded := func() *repository.MemoryTicketRepository {
		return seedStore(t,
			domain.Ticket{ID: 1, SenderID: "u1", CreatedAt: at(1)},
			domain.Ticket{ID: 2, SenderID: "u1", CreatedAt: at(2)},
		)
	}
	unavailable := apperrors.NewStoreUnavailable("test", assert.AnError)

	tests := []struct {
		name  string
		store repository.TicketStore
		want  error
	}{
		{name: "count fails", store: failingStore{TicketStore: seeded(), countErr: unavailable}, want: apperrors.ErrStoreUnavailable},
		{name: "list fails", store: failingStore{TicketStore: seeded(), listErr: unavailable}, want: apperrors.ErrStoreUnavailable},
		{name: "thread lookup fails", store: failingStore{TicketStore: seeded(), latestErr: unavailable}, want: apperrors.ErrStoreUnavailable},
		{name: "ticket vanishes (batched)", store: vanishingStore{MemoryTicketRepository: seeded(), victim: 1}, want: apperrors.ErrInvariantViolation},
		{name: "ticket vanishes (per row)", store: perRowStore{vanishingStore{MemoryTicketRepository: seeded(), victim: 1}}, want: apperrors.ErrInvariantViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newListing(tt.store, 5).BuildTicketListing(ctx, "u1", 0)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildTicketListingConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t,
		domain.Ticket{ID: 1, SenderID: "u1", CreatedAt: at(1)},
		domain.Ticket{ID: 2, SenderID: "u2", CreatedAt: at(2)},
		domain.Ticket{ID: 3, SenderID: "u2", CreatedAt: at(3)},
	)
	svc := newListing(store, 5)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			result, err := svc.BuildTicketListing(ctx, "u1", 0)
			assert.NoError(t, err)
			assert.Equal(t, []int64{1}, rowIDs(result))
		}()
		go func() {
			defer wg.Done()
			result, err := svc.BuildTicketListing(ctx, "u2", 0)
			assert.NoError(t, err)
			assert.Equal(t, []int64{3, 2}, rowIDs(result))
		}()
	}
	wg.Wait()
}

func TestNewListingServiceDefaultsPageSize(t *testing.T) {
	svc := NewListingService(ListingDependencies{TicketStore: repository.NewMemoryTicketRepository()})
	assert.Equal(t, DefaultPageSize, svc.PageSize())
}
