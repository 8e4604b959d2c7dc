package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chat_session:"

// redisStore persists records as JSON values with a sliding TTL and
// optimistic locking via WATCH.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s *redisStore) Create(ctx context.Context, rec *Record) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Version = 1

	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+rec.ID, val, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, id string) (*Record, error) {
	key := redisKeyPrefix + id
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec := decodeRecord(id, []byte(val))
	if rec == nil {
		return nil, nil
	}

	// Refresh TTL on read so active conversations do not expire mid-turn.
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return rec, nil
}

// decodeRecord parses a stored session value. A value we cannot read is
// treated as no prior session rather than an error; the caller starts fresh.
func decodeRecord(id string, val []byte) *Record {
	var rec Record
	if err := json.Unmarshal(val, &rec); err != nil {
		slog.Warn("Discarding unreadable session record", "session_id", id, "error", err)
		return nil
	}
	return &rec
}

func (s *redisStore) Update(ctx context.Context, rec *Record) error {
	key := redisKeyPrefix + rec.ID

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		stored := decodeRecord(rec.ID, []byte(val))
		if stored == nil {
			return ErrNotFound
		}
		if stored.Version != rec.Version {
			return ErrVersionConflict
		}

		rec.Version++
		rec.UpdatedAt = time.Now()

		newVal, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newVal, s.ttl)
			return nil
		})
		return err
	}, key)
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisKeyPrefix+id).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
