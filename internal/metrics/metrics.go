package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission Metrics
var (
	// SubmissionsTotal tracks comment submissions by result
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Total comment submissions by result (stored/warned/cooldown/not_found/invalid/error)",
		},
		[]string{"result"},
	)

	// SubmissionDuration tracks end-to-end submission latency
	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "submission_duration_seconds",
			Help:    "End-to-end submission processing duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// SubmissionsRejectedByLimiter tracks submissions rejected by the per-IP rate limiter
	SubmissionsRejectedByLimiter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "submissions_rejected_by_limiter_total",
			Help: "Total submissions rejected by the per-IP rate limiter before reaching the guard",
		},
	)
)

// Abuse Guard Metrics
var (
	// GuardDecisionsTotal tracks abuse guard decisions by outcome
	GuardDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_decisions_total",
			Help: "Total abuse guard decisions by outcome (allow/warn/cooldown)",
		},
		[]string{"outcome"},
	)

	// GuardCooldownsImposedTotal tracks cooldowns imposed by severity
	GuardCooldownsImposedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guard_cooldowns_imposed_total",
			Help: "Total cooldowns imposed by severity (mild/moderate/severe) and trigger (burst/repetition)",
		},
		[]string{"severity", "trigger"},
	)

	// GuardCooldownsExpiredTotal tracks lazily-expired cooldowns cleared on the next attempt
	GuardCooldownsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guard_cooldowns_expired_total",
			Help: "Total expired cooldowns cleared lazily on the author's next submission attempt",
		},
	)
)

// Sentiment Pipeline Metrics
var (
	// PipelineStageTotal tracks pipeline stage outcomes
	PipelineStageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_pipeline_stage_total",
			Help: "Total sentiment pipeline stage calls by stage (translate/classify) and status (ok/error)",
		},
		[]string{"stage", "status"},
	)

	// PipelineStageDuration tracks external call latency per stage
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_pipeline_stage_duration_seconds",
			Help:    "Sentiment pipeline stage duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"stage"},
	)

	// PipelineLabelsTotal tracks derived labels
	PipelineLabelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_labels_total",
			Help: "Total derived sentiment labels (positive/negative/neutral)",
		},
		[]string{"label"},
	)

	// PipelineFallbacksTotal tracks submissions stored with the neutral fallback label
	PipelineFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentiment_fallbacks_total",
			Help: "Total submissions stored with the neutral fallback label after a pipeline failure",
		},
	)
)

// Trait Aggregation Metrics
var (
	// AggregationsTotal tracks trait aggregation runs
	AggregationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trait_aggregations_total",
			Help: "Total trait aggregation runs",
		},
	)

	// AggregationSkippedAnswers tracks answers skipped for missing trait or rating
	AggregationSkippedAnswers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trait_aggregation_skipped_answers_total",
			Help: "Total answers skipped during aggregation (unresolvable trait or rating)",
		},
	)
)

// Database Metrics
var (
	// DBQueryDuration tracks database query duration by query name
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// DBErrorsTotal tracks database errors by query name
	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total database errors by query",
		},
		[]string{"query"},
	)
)

// Redis Metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency by operation type
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks failed Redis connection attempts
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)
)

// Build Information Metrics
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information with version, commit, build_time, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "build_time", "go_version"},
	)
)
