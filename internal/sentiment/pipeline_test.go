package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTranslator struct {
	translateFn func(ctx context.Context, text string) (string, error)
}

func (s *stubTranslator) Translate(ctx context.Context, text string) (string, error) {
	return s.translateFn(ctx, text)
}

type stubClassifier struct {
	classifyFn func(ctx context.Context, text string) ([]domain.Prediction, error)
}

func (s *stubClassifier) Classify(ctx context.Context, text string) ([]domain.Prediction, error) {
	return s.classifyFn(ctx, text)
}

func passthroughTranslator() *stubTranslator {
	return &stubTranslator{translateFn: func(_ context.Context, text string) (string, error) {
		return text, nil
	}}
}

func fixedClassifier(labels ...string) *stubClassifier {
	return &stubClassifier{classifyFn: func(_ context.Context, _ string) ([]domain.Prediction, error) {
		predictions := make([]domain.Prediction, len(labels))
		for i, l := range labels {
			predictions[i] = domain.Prediction{Label: l, Rank: i}
		}
		return predictions, nil
	}}
}

func TestClassify_TakesTopRankedPrediction(t *testing.T) {
	pipeline := NewPipeline(passthroughTranslator(), fixedClassifier("positive", "neutral"))

	label, err := pipeline.Classify(context.Background(), "great event")
	require.NoError(t, err)
	assert.Equal(t, domain.LabelPositive, label)
}

func TestClassify_TranslatesBeforeClassifying(t *testing.T) {
	translator := &stubTranslator{translateFn: func(_ context.Context, text string) (string, error) {
		assert.Equal(t, "magandang kaganapan", text)
		return "great event", nil
	}}

	var classified string
	classifier := &stubClassifier{classifyFn: func(_ context.Context, text string) ([]domain.Prediction, error) {
		classified = text
		return []domain.Prediction{{Label: "positive"}}, nil
	}}

	pipeline := NewPipeline(translator, classifier)

	label, err := pipeline.Classify(context.Background(), "magandang kaganapan")
	require.NoError(t, err)
	assert.Equal(t, domain.LabelPositive, label)
	assert.Equal(t, "great event", classified, "classifier must receive the translated text")
}

func TestClassify_IdempotentForSameText(t *testing.T) {
	pipeline := NewPipeline(passthroughTranslator(), fixedClassifier("negative"))

	first, err := pipeline.Classify(context.Background(), "terrible")
	require.NoError(t, err)
	second, err := pipeline.Classify(context.Background(), "terrible")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassify_TranslatorFailure(t *testing.T) {
	translator := &stubTranslator{translateFn: func(_ context.Context, _ string) (string, error) {
		return "", errors.New("connection refused")
	}}

	var classifierCalled bool
	classifier := &stubClassifier{classifyFn: func(_ context.Context, _ string) ([]domain.Prediction, error) {
		classifierCalled = true
		return nil, nil
	}}

	pipeline := NewPipeline(translator, classifier)

	label, err := pipeline.Classify(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClassificationUnavailable)
	assert.Equal(t, domain.LabelNeutral, label)
	assert.False(t, classifierCalled, "classifier must not run when translation fails")
}

func TestClassify_ClassifierFailure(t *testing.T) {
	classifier := &stubClassifier{classifyFn: func(_ context.Context, _ string) ([]domain.Prediction, error) {
		return nil, errors.New("timeout")
	}}

	pipeline := NewPipeline(passthroughTranslator(), classifier)

	label, err := pipeline.Classify(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrClassificationUnavailable)
	assert.Equal(t, domain.LabelNeutral, label)
}

func TestClassify_EmptyPredictions(t *testing.T) {
	pipeline := NewPipeline(passthroughTranslator(), fixedClassifier())

	label, err := pipeline.Classify(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrClassificationUnavailable)
	assert.Equal(t, domain.LabelNeutral, label)
}

func TestClassify_NormalizesUnknownLabels(t *testing.T) {
	pipeline := NewPipeline(passthroughTranslator(), fixedClassifier("mixed"))

	label, err := pipeline.Classify(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.LabelNeutral, label)
}
