package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
	"github.com/jeyphieee/Sentivents-Backend/internal/metrics"
)

const (
	minRatingScore = 1
	maxRatingScore = 5
)

// Service implements domain.SubmissionService. Each submission runs guard,
// pipeline, and persistence strictly in sequence; a rejected submission
// mutates nothing but the author's moderation state.
type Service struct {
	authors   domain.AuthorRepository
	comments  domain.CommentRepository
	ratings   domain.RatingRepository
	responses domain.ResponseRepository
	guard     domain.AbuseGuard
	pipeline  domain.SentimentPipeline
	clock     clockwork.Clock

	// rejectOnClassifyFailure surfaces pipeline failures to the caller
	// instead of storing the comment with the neutral fallback label.
	rejectOnClassifyFailure bool
}

// NewService creates the submission service.
func NewService(
	authors domain.AuthorRepository,
	comments domain.CommentRepository,
	ratings domain.RatingRepository,
	responses domain.ResponseRepository,
	guard domain.AbuseGuard,
	pipeline domain.SentimentPipeline,
	clock clockwork.Clock,
	rejectOnClassifyFailure bool,
) *Service {
	return &Service{
		authors:                 authors,
		comments:                comments,
		ratings:                 ratings,
		responses:               responses,
		guard:                   guard,
		pipeline:                pipeline,
		clock:                   clock,
		rejectOnClassifyFailure: rejectOnClassifyFailure,
	}
}

// Submit runs one moderated comment submission end to end: lookups, abuse
// guard, sentiment pipeline, persistence. The stored comment keeps the
// original untranslated text.
func (s *Service) Submit(ctx context.Context, authorID uuid.UUID, container domain.ContainerRef, text string) (*domain.Comment, error) {
	timer := s.startTimer()
	defer timer.observe()

	if strings.TrimSpace(text) == "" {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: text must not be empty", domain.ErrInvalidSubmission)
	}

	if _, err := s.authors.GetByID(ctx, authorID); err != nil {
		s.countLookupFailure(err)
		return nil, err
	}
	if err := s.requireContainer(ctx, container); err != nil {
		return nil, err
	}

	decision, err := s.guard.Evaluate(ctx, authorID, container, text)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("abuse guard failed: %w", err)
	}
	if decision.Kind != domain.Allow {
		s.countRejection(decision)
		return nil, &domain.RejectionError{Decision: decision}
	}

	label, err := s.classifyWithFallback(ctx, authorID, text)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	comment := &domain.Comment{
		ContainerKind: container.Kind,
		ContainerID:   container.ID,
		AuthorID:      authorID,
		Text:          text,
		Sentiment:     label,
		CreatedAt:     s.clock.Now(),
	}
	stored, err := s.comments.Append(ctx, comment)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to persist comment: %w", err)
	}

	metrics.SubmissionsTotal.WithLabelValues("stored").Inc()
	slog.InfoContext(ctx, "comment stored",
		"author_id", authorID, "container", container.String(), "sentiment", label)
	return stored, nil
}

// SubmitRating stores an event rating. Non-empty feedback text goes through
// the same guard and pipeline as a comment; a bare score skips both.
func (s *Service) SubmitRating(ctx context.Context, authorID, eventID uuid.UUID, score int, feedback string) (*domain.Rating, error) {
	timer := s.startTimer()
	defer timer.observe()

	if score < minRatingScore || score > maxRatingScore {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: score must be between %d and %d", domain.ErrInvalidSubmission, minRatingScore, maxRatingScore)
	}

	if _, err := s.authors.GetByID(ctx, authorID); err != nil {
		s.countLookupFailure(err)
		return nil, err
	}
	container := domain.ContainerRef{Kind: domain.ContainerEvent, ID: eventID}
	if err := s.requireContainer(ctx, container); err != nil {
		return nil, err
	}

	label := domain.LabelNeutral
	if strings.TrimSpace(feedback) != "" {
		decision, err := s.guard.Evaluate(ctx, authorID, container, feedback)
		if err != nil {
			metrics.SubmissionsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("abuse guard failed: %w", err)
		}
		if decision.Kind != domain.Allow {
			s.countRejection(decision)
			return nil, &domain.RejectionError{Decision: decision}
		}

		label, err = s.classifyWithFallback(ctx, authorID, feedback)
		if err != nil {
			metrics.SubmissionsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
	}

	rating := &domain.Rating{
		EventID:   eventID,
		AuthorID:  authorID,
		Score:     score,
		Feedback:  feedback,
		Sentiment: label,
		CreatedAt: s.clock.Now(),
	}
	stored, err := s.ratings.Create(ctx, rating)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to persist rating: %w", err)
	}

	metrics.SubmissionsTotal.WithLabelValues("stored").Inc()
	slog.InfoContext(ctx, "rating stored",
		"author_id", authorID, "event_id", eventID, "score", score, "sentiment", label)
	return stored, nil
}

// ListComments returns the container's comments, newest first.
func (s *Service) ListComments(ctx context.Context, container domain.ContainerRef) ([]domain.Comment, error) {
	if err := s.requireContainer(ctx, container); err != nil {
		return nil, err
	}
	return s.comments.ListByContainer(ctx, container)
}

// GetRating returns the author's rating for an event.
func (s *Service) GetRating(ctx context.Context, authorID, eventID uuid.UUID) (*domain.Rating, error) {
	return s.ratings.GetByAuthorAndEvent(ctx, authorID, eventID)
}

// SubmitResponse stores a questionnaire response with its answers.
func (s *Service) SubmitResponse(ctx context.Context, questionnaireID, authorID uuid.UUID, answers []domain.Answer) (*domain.Response, error) {
	if len(answers) == 0 {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: at least one answer is required", domain.ErrInvalidSubmission)
	}
	for _, answer := range answers {
		if answer.Rating < minRatingScore || answer.Rating > maxRatingScore {
			metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
			return nil, fmt.Errorf("%w: answer rating must be between %d and %d", domain.ErrInvalidSubmission, minRatingScore, maxRatingScore)
		}
	}

	if _, err := s.authors.GetByID(ctx, authorID); err != nil {
		s.countLookupFailure(err)
		return nil, err
	}

	response := &domain.Response{
		QuestionnaireID: questionnaireID,
		AuthorID:        authorID,
		Answers:         answers,
		CreatedAt:       s.clock.Now(),
	}
	stored, err := s.responses.Create(ctx, response)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to persist response: %w", err)
	}

	metrics.SubmissionsTotal.WithLabelValues("stored").Inc()
	return stored, nil
}

func (s *Service) classifyWithFallback(ctx context.Context, authorID uuid.UUID, text string) (domain.Label, error) {
	label, err := s.pipeline.Classify(ctx, text)
	if err == nil {
		return label, nil
	}
	if !errors.Is(err, domain.ErrClassificationUnavailable) {
		return domain.LabelNeutral, fmt.Errorf("sentiment pipeline failed: %w", err)
	}
	if s.rejectOnClassifyFailure {
		return domain.LabelNeutral, err
	}

	metrics.PipelineFallbacksTotal.Inc()
	slog.WarnContext(ctx, "classification unavailable, storing with neutral label",
		"author_id", authorID, "error", err)
	return domain.LabelNeutral, nil
}

func (s *Service) requireContainer(ctx context.Context, container domain.ContainerRef) error {
	exists, err := s.comments.ContainerExists(ctx, container)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to check container: %w", err)
	}
	if !exists {
		metrics.SubmissionsTotal.WithLabelValues("not_found").Inc()
		return domain.ErrContainerNotFound
	}
	return nil
}

func (s *Service) countLookupFailure(err error) {
	if errors.Is(err, domain.ErrAuthorNotFound) {
		metrics.SubmissionsTotal.WithLabelValues("not_found").Inc()
		return
	}
	metrics.SubmissionsTotal.WithLabelValues("error").Inc()
}

func (s *Service) countRejection(decision domain.Decision) {
	if decision.Kind == domain.CooldownAndReject {
		metrics.SubmissionsTotal.WithLabelValues("cooldown").Inc()
		return
	}
	metrics.SubmissionsTotal.WithLabelValues("warned").Inc()
}

type submissionTimer struct {
	clock clockwork.Clock
	start time.Time
}

func (s *Service) startTimer() submissionTimer {
	return submissionTimer{clock: s.clock, start: s.clock.Now()}
}

func (t submissionTimer) observe() {
	metrics.SubmissionDuration.Observe(t.clock.Since(t.start).Seconds())
}
