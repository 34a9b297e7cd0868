package redis

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jeyphieee/Sentivents-Backend/internal/metrics"
)

// MetricsHook observes every command the moderation store issues. Statuses
// separate Redis failures from misses and caller cancellations so the error
// rate only reflects Redis itself misbehaving.
type MetricsHook struct{}

var _ redis.Hook = (*MetricsHook)(nil)

func (h *MetricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil && !errors.Is(err, context.Canceled) {
			metrics.RedisConnectionErrors.Inc()
		}
		return conn, err
	}
}

func (h *MetricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)

		metrics.RedisOpsTotal.WithLabelValues(cmd.Name(), statusForErr(err)).Inc()
		metrics.RedisOpDuration.WithLabelValues(cmd.Name()).Observe(time.Since(start).Seconds())

		return err
	}
}

// ProcessPipelineHook records the whole pipeline as one operation; the
// moderation store's HSet+Expire write is its only pipeline user.
func (h *MetricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)

		metrics.RedisOpsTotal.WithLabelValues("pipeline", statusForErr(err)).Inc()
		metrics.RedisOpDuration.WithLabelValues("pipeline").Observe(time.Since(start).Seconds())

		return err
	}
}

// statusForErr buckets a command result. redis.Nil is a miss, not a failure;
// a cancelled or expired caller context is the caller's doing, not Redis's.
func statusForErr(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, redis.Nil):
		return "miss"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
