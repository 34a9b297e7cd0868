package app

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
	"github.com/jeyphieee/Sentivents-Backend/internal/metrics"
)

// Aggregator implements domain.TraitAggregator. Concurrent aggregations of
// the same questionnaire scope are collapsed with singleflight since the
// rollup reads a potentially large answer set.
type Aggregator struct {
	responses domain.ResponseRepository
	group     singleflight.Group
}

// NewAggregator creates a trait aggregator over the response repository.
func NewAggregator(responses domain.ResponseRepository) *Aggregator {
	return &Aggregator{responses: responses}
}

// AggregateTraitRatings computes the average rating per trait across all
// responses to the questionnaire, optionally scoped to one author. Traits
// with no responses are omitted. The result is sorted by trait name so the
// output does not depend on response order.
func (a *Aggregator) AggregateTraitRatings(ctx context.Context, questionnaireID uuid.UUID, authorID *uuid.UUID) ([]domain.TraitAverage, error) {
	key := questionnaireID.String()
	if authorID != nil {
		key += ":" + authorID.String()
	}

	result, err, _ := a.group.Do(key, func() (any, error) {
		// The fetch is shared: piggybacked callers must not fail because
		// the first caller's context was cancelled mid-flight.
		return a.aggregate(context.WithoutCancel(ctx), questionnaireID, authorID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.TraitAverage), nil
}

func (a *Aggregator) aggregate(ctx context.Context, questionnaireID uuid.UUID, authorID *uuid.UUID) ([]domain.TraitAverage, error) {
	answers, err := a.responses.ListRatedAnswers(ctx, questionnaireID, authorID)
	if err != nil {
		return nil, err
	}
	metrics.AggregationsTotal.Inc()

	// First pass: per-response subtotals per trait, so a response counts
	// once per trait no matter how many of its answers hit that trait.
	type responseTrait struct {
		responseID uuid.UUID
		trait      string
	}
	subtotals := make(map[responseTrait]int)
	for _, answer := range answers {
		if answer.Trait == "" || answer.Rating < minRatingScore {
			metrics.AggregationSkippedAnswers.Inc()
			continue
		}
		subtotals[responseTrait{answer.ResponseID, answer.Trait}] += answer.Rating
	}

	type accumulator struct {
		totalScore    int
		responseCount int
	}
	accumulators := make(map[string]*accumulator)
	for key, subtotal := range subtotals {
		acc, ok := accumulators[key.trait]
		if !ok {
			acc = &accumulator{}
			accumulators[key.trait] = acc
		}
		acc.totalScore += subtotal
		acc.responseCount++
	}

	averages := make([]domain.TraitAverage, 0, len(accumulators))
	for trait, acc := range accumulators {
		averages = append(averages, domain.TraitAverage{
			Trait:         trait,
			AverageRating: round2(float64(acc.totalScore) / float64(acc.responseCount)),
			ResponseCount: acc.responseCount,
		})
	}
	sort.Slice(averages, func(i, j int) bool { return averages[i].Trait < averages[j].Trait })

	return averages, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
