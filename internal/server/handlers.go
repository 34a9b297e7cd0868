package server

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
	apperrors "github.com/jeyphieee/Sentivents-Backend/internal/errors"
)

type createCommentRequest struct {
	AuthorID uuid.UUID `json:"authorId"`
	Text     string    `json:"text"`
}

type commentResponse struct {
	ID        uuid.UUID    `json:"id"`
	AuthorID  uuid.UUID    `json:"authorId"`
	Text      string       `json:"text"`
	Sentiment domain.Label `json:"sentiment"`
	CreatedAt time.Time    `json:"createdAt"`
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		Sentiment: c.Sentiment,
		CreatedAt: c.CreatedAt,
	}
}

func (s *Server) handleCreateEventComment(c echo.Context) error {
	return s.createComment(c, domain.ContainerEvent)
}

func (s *Server) handleCreatePostComment(c echo.Context) error {
	return s.createComment(c, domain.ContainerPost)
}

func (s *Server) handleCreateRatingComment(c echo.Context) error {
	return s.createComment(c, domain.ContainerRating)
}

func (s *Server) createComment(c echo.Context, kind domain.ContainerKind) error {
	containerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid container ID").WithField("id", c.Param("id"))
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.AuthorID == uuid.Nil {
		return apperrors.ValidationError("authorId is required")
	}

	container := domain.ContainerRef{Kind: kind, ID: containerID}
	comment, err := s.app.Submit(c.Request().Context(), req.AuthorID, container, req.Text)
	if err != nil {
		return mapSubmissionError(err)
	}

	return c.JSON(201, toCommentResponse(comment))
}

func (s *Server) handleListEventComments(c echo.Context) error {
	return s.listComments(c, domain.ContainerEvent)
}

func (s *Server) handleListPostComments(c echo.Context) error {
	return s.listComments(c, domain.ContainerPost)
}

func (s *Server) handleListRatingComments(c echo.Context) error {
	return s.listComments(c, domain.ContainerRating)
}

func (s *Server) listComments(c echo.Context, kind domain.ContainerKind) error {
	containerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid container ID").WithField("id", c.Param("id"))
	}

	comments, err := s.app.ListComments(c.Request().Context(), domain.ContainerRef{Kind: kind, ID: containerID})
	if err != nil {
		return mapSubmissionError(err)
	}

	result := make([]commentResponse, len(comments))
	for i := range comments {
		result[i] = toCommentResponse(&comments[i])
	}
	return c.JSON(200, result)
}

type createRatingRequest struct {
	AuthorID uuid.UUID `json:"authorId"`
	Score    int       `json:"score"`
	Feedback string    `json:"feedback"`
}

type ratingResponse struct {
	ID        uuid.UUID    `json:"id"`
	EventID   uuid.UUID    `json:"eventId"`
	AuthorID  uuid.UUID    `json:"authorId"`
	Score     int          `json:"score"`
	Feedback  string       `json:"feedback"`
	Sentiment domain.Label `json:"sentiment"`
	CreatedAt time.Time    `json:"createdAt"`
}

func toRatingResponse(r *domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        r.ID,
		EventID:   r.EventID,
		AuthorID:  r.AuthorID,
		Score:     r.Score,
		Feedback:  r.Feedback,
		Sentiment: r.Sentiment,
		CreatedAt: r.CreatedAt,
	}
}

func (s *Server) handleCreateRating(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid event ID").WithField("id", c.Param("id"))
	}

	var req createRatingRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.AuthorID == uuid.Nil {
		return apperrors.ValidationError("authorId is required")
	}

	rating, err := s.app.SubmitRating(c.Request().Context(), req.AuthorID, eventID, req.Score, req.Feedback)
	if err != nil {
		return mapSubmissionError(err)
	}

	return c.JSON(201, toRatingResponse(rating))
}

func (s *Server) handleGetRating(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid event ID").WithField("id", c.Param("id"))
	}
	authorID, err := uuid.Parse(c.Param("authorId"))
	if err != nil {
		return apperrors.ValidationError("invalid author ID").WithField("authorId", c.Param("authorId"))
	}

	rating, err := s.app.GetRating(c.Request().Context(), authorID, eventID)
	if err != nil {
		return mapSubmissionError(err)
	}

	return c.JSON(200, toRatingResponse(rating))
}

type createResponseRequest struct {
	QuestionnaireID uuid.UUID       `json:"questionnaireId"`
	AuthorID        uuid.UUID       `json:"authorId"`
	Answers         []answerRequest `json:"answers"`
}

type answerRequest struct {
	QuestionID uuid.UUID `json:"questionId"`
	Rating     int       `json:"rating"`
}

func (s *Server) handleCreateResponse(c echo.Context) error {
	var req createResponseRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.QuestionnaireID == uuid.Nil {
		return apperrors.ValidationError("questionnaireId is required")
	}
	if req.AuthorID == uuid.Nil {
		return apperrors.ValidationError("authorId is required")
	}

	answers := make([]domain.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = domain.Answer{QuestionID: a.QuestionID, Rating: a.Rating}
	}

	response, err := s.app.SubmitResponse(c.Request().Context(), req.QuestionnaireID, req.AuthorID, answers)
	if err != nil {
		return mapSubmissionError(err)
	}

	return c.JSON(201, map[string]any{
		"id":              response.ID,
		"questionnaireId": response.QuestionnaireID,
		"authorId":        response.AuthorID,
		"createdAt":       response.CreatedAt,
	})
}

func (s *Server) handleTraitAverages(c echo.Context) error {
	questionnaireID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid questionnaire ID").WithField("id", c.Param("id"))
	}

	var authorID *uuid.UUID
	if raw := c.QueryParam("author_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.ValidationError("invalid author_id").WithField("author_id", raw)
		}
		authorID = &parsed
	}

	averages, err := s.aggregator.AggregateTraitRatings(c.Request().Context(), questionnaireID, authorID)
	if err != nil {
		return apperrors.InternalError("failed to aggregate trait ratings", err)
	}

	return c.JSON(200, averages)
}

// mapSubmissionError translates domain outcomes into structured API errors.
func mapSubmissionError(err error) error {
	var rejection *domain.RejectionError
	switch {
	case errors.As(err, &rejection):
		if rejection.Decision.Kind == domain.CooldownAndReject {
			minutes := int(rejection.Decision.Remaining / time.Minute)
			return apperrors.CooldownError("you are posting too quickly, a cooldown is active").
				WithField("retry_after_minutes", minutes)
		}
		return apperrors.RateLimitedError("you are posting too quickly, slow down")
	case errors.Is(err, domain.ErrInvalidSubmission):
		return apperrors.ValidationError(err.Error())
	case errors.Is(err, domain.ErrAuthorNotFound):
		return apperrors.NotFoundError("author not found")
	case errors.Is(err, domain.ErrContainerNotFound):
		return apperrors.NotFoundError("container not found")
	case errors.Is(err, domain.ErrRatingNotFound):
		return apperrors.NotFoundError("rating not found")
	case errors.Is(err, domain.ErrClassificationUnavailable):
		return apperrors.ExternalError("sentiment classification unavailable, try again later", err)
	default:
		return apperrors.InternalError("failed to process submission", err)
	}
}
