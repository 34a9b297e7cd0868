package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
	"github.com/jeyphieee/Sentivents-Backend/internal/metrics"
)

// warningThreshold is the number of accumulated rapid-fire warnings that
// escalates into a mild cooldown.
const warningThreshold = 2

// spamThreshold is the number of prior identical comments within the
// lookback window that triggers a repetition cooldown.
const spamThreshold = 3

// Config holds the guard's tunable windows and cooldown durations.
type Config struct {
	BurstInterval    time.Duration
	LookbackWindow   time.Duration
	MildCooldown     time.Duration
	ModerateCooldown time.Duration
	SevereCooldown   time.Duration
}

// Guard evaluates submissions against the author's moderation state and
// recent posting history. Evaluation is a read-modify-write of the state
// record, serialized per author so two rapid submissions never race on a
// stale warning count.
type Guard struct {
	store    domain.ModerationStore
	comments domain.CommentRepository
	clock    clockwork.Clock
	cfg      Config

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewGuard creates an abuse guard over the given state store and comment
// history.
func NewGuard(store domain.ModerationStore, comments domain.CommentRepository, clock clockwork.Clock, cfg Config) *Guard {
	return &Guard{
		store:    store,
		comments: comments,
		clock:    clock,
		cfg:      cfg,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// Evaluate decides whether the author may post text into the container
// right now. The checks run in a fixed order: expired cooldowns are cleared
// first, an active cooldown rejects immediately, then the burst and
// repetition checks may impose new penalties.
func (g *Guard) Evaluate(ctx context.Context, authorID uuid.UUID, container domain.ContainerRef, text string) (domain.Decision, error) {
	lock := g.lockFor(authorID)
	lock.Lock()
	defer lock.Unlock()

	state, err := g.store.Get(ctx, authorID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("failed to load moderation state: %w", err)
	}

	now := g.clock.Now()

	// Lazy expiry: a cooldown that has run out is cleared on the author's
	// next attempt, before any other check runs.
	if !state.CooldownUntil.IsZero() && !state.CooldownUntil.After(now) {
		state = domain.ModerationState{}
		if err := g.store.Put(ctx, authorID, state); err != nil {
			return domain.Decision{}, fmt.Errorf("failed to clear expired cooldown: %w", err)
		}
		metrics.GuardCooldownsExpiredTotal.Inc()
		slog.InfoContext(ctx, "cooldown expired", "author_id", authorID)
	}

	if state.CooldownUntil.After(now) {
		remaining := ceilToMinute(state.CooldownUntil.Sub(now))
		metrics.GuardDecisionsTotal.WithLabelValues("cooldown").Inc()
		return domain.Decision{Kind: domain.CooldownAndReject, Remaining: remaining}, nil
	}

	since := now.Add(-maxDuration(g.cfg.BurstInterval, g.cfg.LookbackWindow))
	recent, err := g.comments.ListRecentByAuthor(ctx, container, authorID, since)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("failed to load recent comments: %w", err)
	}

	if len(recent) > 0 && now.Sub(recent[0].CreatedAt) < g.cfg.BurstInterval {
		state.WarningCount++
		if state.WarningCount >= warningThreshold {
			return g.imposeCooldown(ctx, authorID, now, g.cfg.MildCooldown, "mild", "burst")
		}
		if err := g.store.Put(ctx, authorID, state); err != nil {
			return domain.Decision{}, fmt.Errorf("failed to persist warning: %w", err)
		}
		metrics.GuardDecisionsTotal.WithLabelValues("warn").Inc()
		slog.InfoContext(ctx, "rapid submission warned",
			"author_id", authorID, "container", container.String(), "warning_count", state.WarningCount)
		return domain.Decision{Kind: domain.WarnAndReject}, nil
	}

	if decision, triggered, err := g.checkRepetition(ctx, authorID, now, recent, text); err != nil {
		return domain.Decision{}, err
	} else if triggered {
		return decision, nil
	}

	metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
	return domain.Decision{Kind: domain.Allow}, nil
}

func (g *Guard) checkRepetition(ctx context.Context, authorID uuid.UUID, now time.Time, recent []domain.Comment, text string) (domain.Decision, bool, error) {
	cutoff := now.Add(-g.cfg.LookbackWindow)
	trimmed := strings.TrimSpace(text)

	var inWindow, identical int
	for _, c := range recent {
		if c.CreatedAt.Before(cutoff) {
			continue
		}
		inWindow++
		if strings.TrimSpace(c.Text) == trimmed {
			identical++
		}
	}

	if identical < spamThreshold {
		return domain.Decision{}, false, nil
	}

	duration, severity := g.cfg.MildCooldown, "mild"
	switch {
	case inWindow >= 10:
		duration, severity = g.cfg.SevereCooldown, "severe"
	case inWindow >= 5:
		duration, severity = g.cfg.ModerateCooldown, "moderate"
	}

	decision, err := g.imposeCooldown(ctx, authorID, now, duration, severity, "repetition")
	if err != nil {
		return domain.Decision{}, false, err
	}
	return decision, true, nil
}

func (g *Guard) imposeCooldown(ctx context.Context, authorID uuid.UUID, now time.Time, duration time.Duration, severity, trigger string) (domain.Decision, error) {
	state := domain.ModerationState{CooldownUntil: now.Add(duration)}
	if err := g.store.Put(ctx, authorID, state); err != nil {
		return domain.Decision{}, fmt.Errorf("failed to impose cooldown: %w", err)
	}

	metrics.GuardDecisionsTotal.WithLabelValues("cooldown").Inc()
	metrics.GuardCooldownsImposedTotal.WithLabelValues(severity, trigger).Inc()
	slog.WarnContext(ctx, "cooldown imposed",
		"author_id", authorID, "severity", severity, "trigger", trigger, "duration", duration)

	return domain.Decision{Kind: domain.CooldownAndReject, Remaining: ceilToMinute(duration)}, nil
}

func (g *Guard) lockFor(authorID uuid.UUID) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[authorID]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[authorID] = lock
	}
	return lock
}

// ceilToMinute rounds a remaining wait up to whole minutes so clients can
// render "try again in N minutes".
func ceilToMinute(d time.Duration) time.Duration {
	minutes := d / time.Minute
	if d%time.Minute != 0 {
		minutes++
	}
	return minutes * time.Minute
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
