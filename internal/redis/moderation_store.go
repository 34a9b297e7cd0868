package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
)

// stateRetention bounds how long a moderation record without an active
// cooldown is kept. Warnings older than this are stale anyway.
const stateRetention = 24 * time.Hour

// ModerationStore persists per-author moderation state as a Redis hash with
// a TTL so abandoned records age out on their own.
type ModerationStore struct {
	rdb   *goredis.Client
	clock clockwork.Clock
}

func NewModerationStore(rdb *goredis.Client, clock clockwork.Clock) *ModerationStore {
	return &ModerationStore{rdb: rdb, clock: clock}
}

// Get returns the author's moderation state, or the zero state when no
// record exists.
func (s *ModerationStore) Get(ctx context.Context, authorID uuid.UUID) (domain.ModerationState, error) {
	vals, err := s.rdb.HMGet(ctx, moderationKey(authorID), "warning_count", "cooldown_until").Result()
	if err != nil {
		return domain.ModerationState{}, fmt.Errorf("failed to get moderation state: %w", err)
	}

	var state domain.ModerationState
	if vals[0] != nil {
		count, err := strconv.Atoi(vals[0].(string))
		if err != nil {
			return domain.ModerationState{}, fmt.Errorf("corrupt warning_count %q: %w", vals[0], err)
		}
		state.WarningCount = count
	}
	if vals[1] != nil {
		untilMs, err := strconv.ParseInt(vals[1].(string), 10, 64)
		if err != nil {
			return domain.ModerationState{}, fmt.Errorf("corrupt cooldown_until %q: %w", vals[1], err)
		}
		if untilMs > 0 {
			state.CooldownUntil = time.UnixMilli(untilMs)
		}
	}

	return state, nil
}

// Put replaces the author's moderation state. The zero state deletes the
// record. HSet and the TTL update run in one pipeline so a crash between
// them cannot leave an immortal record.
func (s *ModerationStore) Put(ctx context.Context, authorID uuid.UUID, state domain.ModerationState) error {
	key := moderationKey(authorID)

	if state == (domain.ModerationState{}) {
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to clear moderation state: %w", err)
		}
		return nil
	}

	var untilMs int64
	ttl := stateRetention
	if !state.CooldownUntil.IsZero() {
		untilMs = state.CooldownUntil.UnixMilli()
		if remaining := state.CooldownUntil.Sub(s.clock.Now()); remaining > ttl {
			ttl = remaining
		}
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "warning_count", state.WarningCount, "cooldown_until", untilMs)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to put moderation state: %w", err)
	}

	return nil
}

func moderationKey(authorID uuid.UUID) string {
	return "moderation:" + authorID.String()
}
