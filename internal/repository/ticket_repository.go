package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-listing/internal/domain"
	apperrors "github.com/spec-kit/ticket-listing/pkg/util/errorutil"
)

// TicketStore is the read contract the listing engine depends on.
type TicketStore interface {
	CountOpenRootTickets(ctx context.Context, userID string) (int, error)
	ListOpenRootTickets(ctx context.Context, userID string, offset, limit int) ([]domain.Ticket, error)
	// LatestReplyTimestamp returns the newest created_at among the ticket itself
	// and its direct replies. found is false when no such row exists.
	LatestReplyTimestamp(ctx context.Context, ticketID int64) (ts time.Time, found bool, err error)
}

// BatchActivityReader resolves thread activity for several roots in one call.
// Ids without any matching row are absent from the result.
type BatchActivityReader interface {
	LatestReplyTimestamps(ctx context.Context, ticketIDs []int64) (map[int64]time.Time, error)
}

// DBTX is the subset of pgxpool.Pool used by the store.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	opCountOpenRoots  = "count open root tickets"
	opListOpenRoots   = "list open root tickets"
	opLatestReply     = "latest reply timestamp"
	opLatestReplyMany = "latest reply timestamps"
)

type ticketRepository struct {
	db DBTX
}

// NewTicketRepository builds the Postgres-backed store over the tickets table.
// The returned store also implements BatchActivityReader.
//
//	id bigserial, sender_id text, recipient_id text, urgency smallint,
//	status text, reply_to bigint NULL, created_at timestamptz, subject text, message text
func NewTicketRepository(db DBTX) TicketStore {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) CountOpenRootTickets(ctx context.Context, userID string) (int, error) {
	const query = `
        SELECT count(id) FROM tickets
        WHERE (sender_id=$1 OR recipient_id=$1) AND status=$2 AND reply_to IS NULL`
	var count int64
	if err := r.db.QueryRow(ctx, query, userID, string(domain.TicketStatusOpen)).Scan(&count); err != nil {
		return 0, apperrors.NewStoreUnavailable(opCountOpenRoots, err)
	}
	return int(count), nil
}

func (r *ticketRepository) ListOpenRootTickets(ctx context.Context, userID string, offset, limit int) ([]domain.Ticket, error) {
	const query = `
        SELECT id, sender_id, recipient_id, urgency, status, created_at, subject, message
        FROM tickets
        WHERE (sender_id=$1 OR recipient_id=$1) AND status=$2 AND reply_to IS NULL
        ORDER BY created_at DESC, id DESC
        LIMIT $3 OFFSET $4`
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, query, userID, string(domain.TicketStatusOpen), limit, offset)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(opListOpenRoots, err)
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(opListOpenRoots, err)
	}
	return tickets, nil
}

func (r *ticketRepository) LatestReplyTimestamp(ctx context.Context, ticketID int64) (time.Time, bool, error) {
	const query = `
        SELECT created_at FROM tickets
        WHERE id=$1 OR reply_to=$1
        ORDER BY created_at DESC
        LIMIT 1`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return time.Time{}, false, apperrors.NewStoreUnavailable(opLatestReply, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return time.Time{}, false, apperrors.NewStoreUnavailable(opLatestReply, err)
		}
		return time.Time{}, false, nil
	}
	var ts time.Time
	if err := rows.Scan(&ts); err != nil {
		return time.Time{}, false, apperrors.NewStoreUnavailable(opLatestReply, err)
	}
	return ts, true, nil
}

func (r *ticketRepository) LatestReplyTimestamps(ctx context.Context, ticketIDs []int64) (map[int64]time.Time, error) {
	result := make(map[int64]time.Time, len(ticketIDs))
	if len(ticketIDs) == 0 {
		return result, nil
	}
	const query = `
        SELECT COALESCE(reply_to, id) AS thread_id, MAX(created_at)
        FROM tickets
        WHERE id = ANY($1) OR reply_to = ANY($1)
        GROUP BY COALESCE(reply_to, id)`
	rows, err := r.db.Query(ctx, query, ticketIDs)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(opLatestReplyMany, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			threadID int64
			ts       time.Time
		)
		if err := rows.Scan(&threadID, &ts); err != nil {
			return nil, apperrors.NewStoreUnavailable(opLatestReplyMany, err)
		}
		result[threadID] = ts
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreUnavailable(opLatestReplyMany, err)
	}
	return result, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var (
			ticket  domain.Ticket
			urgency int
			status  string
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.SenderID,
			&ticket.RecipientID,
			&urgency,
			&status,
			&ticket.CreatedAt,
			&ticket.Subject,
			&ticket.Message,
		); err != nil {
			return nil, err
		}
		ticket.Urgency = domain.TicketUrgency(urgency)
		ticket.Status = domain.TicketStatus(status)
		result = append(result, ticket)
	}
	return result, rows.Err()
}
