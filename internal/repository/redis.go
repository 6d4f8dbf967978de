package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roomy/internal/config"
	"roomy/internal/model"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "roomy:session:"

// RedisSessionStore keeps chat sessions as JSON values with a sliding TTL
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore connects to Redis and verifies the connection
func NewRedisSessionStore(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisSessionStore{client: client, ttl: ttl}, nil
}

// NewRedisSessionStoreWithClient wraps an existing client
func NewRedisSessionStoreWithClient(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

// Close closes the Redis connection
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// GetOrCreateSession loads a live session or creates an empty one
func (s *RedisSessionStore) GetOrCreateSession(ctx context.Context, sessionID string, userID *string) (*model.ChatSession, error) {
	key := sessionKey(sessionID)
	now := time.Now().UTC()
	fresh := &model.ChatSession{
		SessionID: sessionID,
		UserID:    userID,
		History:   model.History{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.Marshal(fresh)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	created, err := s.client.SetNX(ctx, key, data, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if created {
		return fresh, nil
	}

	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET.
		if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session model.ChatSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// UpdateSession writes the session under WATCH if the stored version still
// matches session.Version, then advances the version and refreshes the TTL.
func (s *RedisSessionStore) UpdateSession(ctx context.Context, session *model.ChatSession) error {
	key := sessionKey(session.SessionID)
	next := *session
	next.Version++
	next.UpdatedAt = time.Now().UTC()

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionConflict
		}
		if err != nil {
			return err
		}

		var stored model.ChatSession
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("failed to decode session: %w", err)
		}
		if stored.Version != session.Version {
			return ErrSessionConflict
		}
		if next.UserID == nil {
			next.UserID = stored.UserID
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		*session = next
		return nil
	case errors.Is(err, ErrSessionConflict), errors.Is(err, redis.TxFailedErr):
		return ErrSessionConflict
	default:
		return fmt.Errorf("failed to update session: %w", err)
	}
}

// DeleteSession removes a session and its history
func (s *RedisSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
