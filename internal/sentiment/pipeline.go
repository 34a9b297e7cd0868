package sentiment

import (
	"context"
	"fmt"
	"time"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
	"github.com/jeyphieee/Sentivents-Backend/internal/metrics"
)

// Pipeline composes Translator and Classifier into one text-to-label
// operation. The two stages are strictly sequential; either failing makes
// the whole pipeline fail with domain.ErrClassificationUnavailable. No
// retries are performed, at most one attempt per stage per submission.
type Pipeline struct {
	translator domain.Translator
	classifier domain.Classifier
}

// NewPipeline creates a sentiment pipeline from the two capability clients.
func NewPipeline(translator domain.Translator, classifier domain.Classifier) *Pipeline {
	return &Pipeline{translator: translator, classifier: classifier}
}

// Classify translates text to English and classifies the translation,
// returning the top-ranked prediction normalized onto the fixed label set.
func (p *Pipeline) Classify(ctx context.Context, text string) (domain.Label, error) {
	englishText, err := timedStage(ctx, "translate", func(ctx context.Context) (string, error) {
		return p.translator.Translate(ctx, text)
	})
	if err != nil {
		return domain.LabelNeutral, fmt.Errorf("%w: translate: %w", domain.ErrClassificationUnavailable, err)
	}

	predictions, err := timedStage(ctx, "classify", func(ctx context.Context) ([]domain.Prediction, error) {
		return p.classifier.Classify(ctx, englishText)
	})
	if err != nil {
		return domain.LabelNeutral, fmt.Errorf("%w: classify: %w", domain.ErrClassificationUnavailable, err)
	}

	if len(predictions) == 0 {
		metrics.PipelineStageTotal.WithLabelValues("classify", "error").Inc()
		return domain.LabelNeutral, fmt.Errorf("%w: no predictions returned", domain.ErrClassificationUnavailable)
	}

	label := domain.NormalizeLabel(predictions[0].Label)
	metrics.PipelineLabelsTotal.WithLabelValues(string(label)).Inc()
	return label, nil
}

func timedStage[T any](ctx context.Context, stage string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	result, err := fn(ctx)
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.PipelineStageTotal.WithLabelValues(stage, status).Inc()

	return result, err
}
