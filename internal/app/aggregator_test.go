package app

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
)

type stubResponseRepo struct {
	answers      []domain.RatedAnswer
	lastAuthorID *uuid.UUID
}

func (r *stubResponseRepo) Create(_ context.Context, response *domain.Response) (*domain.Response, error) {
	return response, nil
}

func (r *stubResponseRepo) ListRatedAnswers(_ context.Context, _ uuid.UUID, authorID *uuid.UUID) ([]domain.RatedAnswer, error) {
	r.lastAuthorID = authorID
	return r.answers, nil
}

func TestAggregateTraitRatings_AveragesPerTrait(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	repo := &stubResponseRepo{answers: []domain.RatedAnswer{
		{ResponseID: first, Trait: "Leadership", Rating: 4},
		{ResponseID: second, Trait: "Leadership", Rating: 5},
	}}
	aggregator := NewAggregator(repo)

	averages, err := aggregator.AggregateTraitRatings(context.Background(), uuid.New(), nil)
	require.NoError(t, err)

	require.Len(t, averages, 1)
	assert.Equal(t, "Leadership", averages[0].Trait)
	assert.Equal(t, 4.5, averages[0].AverageRating)
	assert.Equal(t, 2, averages[0].ResponseCount)
}

func TestAggregateTraitRatings_RoundsToTwoDecimals(t *testing.T) {
	repo := &stubResponseRepo{answers: []domain.RatedAnswer{
		{ResponseID: uuid.New(), Trait: "Teamwork", Rating: 5},
		{ResponseID: uuid.New(), Trait: "Teamwork", Rating: 5},
		{ResponseID: uuid.New(), Trait: "Teamwork", Rating: 4},
	}}
	aggregator := NewAggregator(repo)

	averages, err := aggregator.AggregateTraitRatings(context.Background(), uuid.New(), nil)
	require.NoError(t, err)

	require.Len(t, averages, 1)
	assert.Equal(t, 4.67, averages[0].AverageRating)
}

func TestAggregateTraitRatings_ResponseCountsOncePerTrait(t *testing.T) {
	responseID := uuid.New()
	repo := &stubResponseRepo{answers: []domain.RatedAnswer{
		{ResponseID: responseID, Trait: "Leadership", Rating: 4},
		{ResponseID: responseID, Trait: "Leadership", Rating: 2},
		{ResponseID: responseID, Trait: "Teamwork", Rating: 3},
	}}
	aggregator := NewAggregator(repo)

	averages, err := aggregator.AggregateTraitRatings(context.Background(), uuid.New(), nil)
	require.NoError(t, err)

	require.Len(t, averages, 2)
	assert.Equal(t, "Leadership", averages[0].Trait)
	assert.Equal(t, 6.0, averages[0].AverageRating, "two answers from one response form one subtotal")
	assert.Equal(t, 1, averages[0].ResponseCount)
	assert.Equal(t, "Teamwork", averages[1].Trait)
	assert.Equal(t, 3.0, averages[1].AverageRating)
}

func TestAggregateTraitRatings_OrderInvariant(t *testing.T) {
	responses := make([]uuid.UUID, 6)
	for i := range responses {
		responses[i] = uuid.New()
	}
	answers := []domain.RatedAnswer{
		{ResponseID: responses[0], Trait: "Leadership", Rating: 4},
		{ResponseID: responses[1], Trait: "Leadership", Rating: 5},
		{ResponseID: responses[2], Trait: "Teamwork", Rating: 3},
		{ResponseID: responses[3], Trait: "Teamwork", Rating: 2},
		{ResponseID: responses[4], Trait: "Communication", Rating: 1},
		{ResponseID: responses[5], Trait: "Communication", Rating: 5},
	}

	repo := &stubResponseRepo{answers: answers}
	aggregator := NewAggregator(repo)
	want, err := aggregator.AggregateTraitRatings(context.Background(), uuid.New(), nil)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]domain.RatedAnswer, len(answers))
		copy(shuffled, answers)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		repo := &stubResponseRepo{answers: shuffled}
		aggregator := NewAggregator(repo)
		got, err := aggregator.AggregateTraitRatings(context.Background(), uuid.New(), nil)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestAggregateTraitRatings_SkipsUnresolvableAnswers(t *testing.T) {
	repo := &stubResponseRepo{answers: []domain.RatedAnswer{
		{ResponseID: uuid.New(), Trait: "", Rating: 4},
		{ResponseID: uuid.New(), Trait: "Leadership", Rating: 0},
		{ResponseID: uuid.New(), Trait: "Leadership", Rating: 5},
	}}
	aggregator := NewAggregator(repo)

	averages, err := aggregator.AggregateTraitRatings(context.Background(), uuid.New(), nil)
	require.NoError(t, err)

	require.Len(t, averages, 1)
	assert.Equal(t, 5.0, averages[0].AverageRating)
	assert.Equal(t, 1, averages[0].ResponseCount)
}

func TestAggregateTraitRatings_EmptyQuestionnaire(t *testing.T) {
	aggregator := NewAggregator(&stubResponseRepo{})

	averages, err := aggregator.AggregateTraitRatings(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, averages)
}

type ctxCheckingResponseRepo struct {
	answers []domain.RatedAnswer
}

func (r *ctxCheckingResponseRepo) Create(_ context.Context, response *domain.Response) (*domain.Response, error) {
	return response, nil
}

func (r *ctxCheckingResponseRepo) ListRatedAnswers(ctx context.Context, _ uuid.UUID, _ *uuid.UUID) ([]domain.RatedAnswer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.answers, nil
}

func TestAggregateTraitRatings_SurvivesCancelledCaller(t *testing.T) {
	repo := &ctxCheckingResponseRepo{answers: []domain.RatedAnswer{
		{ResponseID: uuid.New(), Trait: "Leadership", Rating: 5},
	}}
	aggregator := NewAggregator(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	averages, err := aggregator.AggregateTraitRatings(ctx, uuid.New(), nil)
	require.NoError(t, err)
	require.Len(t, averages, 1)
	assert.Equal(t, 5.0, averages[0].AverageRating)
}

func TestAggregateTraitRatings_PassesAuthorFilter(t *testing.T) {
	repo := &stubResponseRepo{}
	aggregator := NewAggregator(repo)
	authorID := uuid.New()

	_, err := aggregator.AggregateTraitRatings(context.Background(), uuid.New(), &authorID)
	require.NoError(t, err)
	require.NotNil(t, repo.lastAuthorID)
	assert.Equal(t, authorID, *repo.lastAuthorID)
}
