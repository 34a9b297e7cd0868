package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// --- Model types ---

type Author struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ContainerKind identifies which collection a comment stream belongs to.
type ContainerKind string

const (
	ContainerEvent  ContainerKind = "event"
	ContainerPost   ContainerKind = "post"
	ContainerRating ContainerKind = "rating"
)

// ContainerRef is a typed reference to the parent entity that owns a
// comment stream.
type ContainerRef struct {
	Kind ContainerKind
	ID   uuid.UUID
}

func (c ContainerRef) String() string {
	return string(c.Kind) + ":" + c.ID.String()
}

type Comment struct {
	ID            uuid.UUID     `db:"id"`
	ContainerKind ContainerKind `db:"container_kind"`
	ContainerID   uuid.UUID     `db:"container_id"`
	AuthorID      uuid.UUID     `db:"author_id"`
	Text          string        `db:"text"`
	Sentiment     Label         `db:"sentiment"`
	CreatedAt     time.Time     `db:"created_at"`
}

type Rating struct {
	ID        uuid.UUID `db:"id"`
	EventID   uuid.UUID `db:"event_id"`
	AuthorID  uuid.UUID `db:"author_id"`
	Score     int       `db:"score"`
	Feedback  string    `db:"feedback"`
	Sentiment Label     `db:"sentiment"`
	CreatedAt time.Time `db:"created_at"`
}

// Answer is a single rated question inside a questionnaire response.
type Answer struct {
	QuestionID uuid.UUID `db:"question_id"`
	Rating     int       `db:"rating"`
}

type Response struct {
	ID              uuid.UUID `db:"id"`
	QuestionnaireID uuid.UUID `db:"questionnaire_id"`
	AuthorID        uuid.UUID `db:"author_id"`
	Answers         []Answer
	CreatedAt       time.Time `db:"created_at"`
}

// TraitAverage is one row of the trait aggregation result.
type TraitAverage struct {
	Trait         string  `json:"trait"`
	AverageRating float64 `json:"averageRating"`
	ResponseCount int     `json:"responseCount"`
}

// --- Sentiment ---

// Label is the coarse sentiment classification attached to stored text.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
)

// NormalizeLabel maps an external classifier label onto the fixed label set.
// Anything unrecognized (including an empty label) defaults to neutral.
func NormalizeLabel(s string) Label {
	switch Label(s) {
	case LabelPositive, LabelNegative, LabelNeutral:
		return Label(s)
	default:
		return LabelNeutral
	}
}

// --- Moderation ---

// ModerationState is the per-author record the abuse guard reads and mutates.
// CooldownUntil is zero when the author is not under cooldown.
type ModerationState struct {
	WarningCount  int
	CooldownUntil time.Time
}

// DecisionKind is the outcome of one abuse guard evaluation.
type DecisionKind int

const (
	Allow DecisionKind = iota
	WarnAndReject
	CooldownAndReject
)

// Decision carries the guard outcome and, for cooldown rejections, the
// remaining wait rounded up to whole minutes.
type Decision struct {
	Kind      DecisionKind
	Remaining time.Duration
}

// --- Capability interfaces (external vendors) ---

// Translator translates arbitrary-language text to English.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Prediction is one ranked sentiment prediction from the classifier.
type Prediction struct {
	Label string
	Rank  int
}

// Classifier returns ranked sentiment predictions for English text.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]Prediction, error)
}

// SentimentPipeline turns free text into a sentiment label.
type SentimentPipeline interface {
	Classify(ctx context.Context, text string) (Label, error)
}

// --- Storage interfaces ---

// ModerationStore persists per-author moderation state. Implementations must
// make Put atomic with respect to concurrent Puts for the same author; the
// guard additionally serializes its read-modify-write per author.
type ModerationStore interface {
	Get(ctx context.Context, authorID uuid.UUID) (ModerationState, error)
	Put(ctx context.Context, authorID uuid.UUID, state ModerationState) error
}

// AuthorRepository abstracts author persistence.
type AuthorRepository interface {
	GetByID(ctx context.Context, authorID uuid.UUID) (*Author, error)
}

// CommentRepository abstracts comment persistence. Comments are append-only
// from this subsystem's perspective.
type CommentRepository interface {
	Append(ctx context.Context, comment *Comment) (*Comment, error)
	ListByContainer(ctx context.Context, container ContainerRef) ([]Comment, error)
	// ListRecentByAuthor returns the author's comments in the container
	// created at or after since, newest first.
	ListRecentByAuthor(ctx context.Context, container ContainerRef, authorID uuid.UUID, since time.Time) ([]Comment, error)
	ContainerExists(ctx context.Context, container ContainerRef) (bool, error)
}

// RatingRepository abstracts event rating persistence.
type RatingRepository interface {
	Create(ctx context.Context, rating *Rating) (*Rating, error)
	GetByAuthorAndEvent(ctx context.Context, authorID, eventID uuid.UUID) (*Rating, error)
}

// ResponseRepository abstracts questionnaire response persistence and the
// joined view the trait aggregator consumes.
type ResponseRepository interface {
	Create(ctx context.Context, response *Response) (*Response, error)
	// ListRatedAnswers returns every answer for the questionnaire joined with
	// its question's trait name. Answers whose question or trait no longer
	// resolves are omitted.
	ListRatedAnswers(ctx context.Context, questionnaireID uuid.UUID, authorID *uuid.UUID) ([]RatedAnswer, error)
}

// RatedAnswer is one answer joined with its trait, as consumed by the
// trait aggregator.
type RatedAnswer struct {
	ResponseID uuid.UUID
	Trait      string
	Rating     int
}

// --- Guard and application contracts ---

// AbuseGuard decides whether an author may post into a container right now,
// escalating penalties for rapid-fire or repeated-text submissions.
type AbuseGuard interface {
	Evaluate(ctx context.Context, authorID uuid.UUID, container ContainerRef, text string) (Decision, error)
}

// SubmissionService is the single entry point the comment routes call.
type SubmissionService interface {
	Submit(ctx context.Context, authorID uuid.UUID, container ContainerRef, text string) (*Comment, error)
	SubmitRating(ctx context.Context, authorID, eventID uuid.UUID, score int, feedback string) (*Rating, error)
}

// TraitAggregator rolls per-question ratings up into per-trait averages.
type TraitAggregator interface {
	AggregateTraitRatings(ctx context.Context, questionnaireID uuid.UUID, authorID *uuid.UUID) ([]TraitAverage, error)
}
