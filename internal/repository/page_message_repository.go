package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pageMessageKeyPrefix = "page_message:"

// PageMessageStore holds one pending informational message per user until the
// next page render reads it.
type PageMessageStore interface {
	Set(ctx context.Context, userID, message string) error
	Pop(ctx context.Context, userID string) (string, bool, error)
}

type pageMessageRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageMessageRepository builds a Redis-backed store. A zero ttl keeps
// messages until read.
func NewPageMessageRepository(client *redis.Client, ttl time.Duration) PageMessageStore {
	return &pageMessageRepository{client: client, ttl: ttl}
}

func (r *pageMessageRepository) Set(ctx context.Context, userID, message string) error {
	if err := r.client.Set(ctx, pageMessageKey(userID), message, r.ttl).Err(); err != nil {
		return fmt.Errorf("set page message: %w", err)
	}
	return nil
}

func (r *pageMessageRepository) Pop(ctx context.Context, userID string) (string, bool, error) {
	msg, err := r.client.GetDel(ctx, pageMessageKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("pop page message: %w", err)
	}
	return msg, true, nil
}

func pageMessageKey(userID string) string {
	return pageMessageKeyPrefix + userID
}
