package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
)

// ratingColumns must match the Scan order in scanRating.
const ratingColumns = `id, event_id, author_id, score, feedback, sentiment, created_at`

// RatingRepo implements domain.RatingRepository backed by PostgreSQL.
type RatingRepo struct {
	pool *pgxpool.Pool
}

func NewRatingRepo(pool *pgxpool.Pool) *RatingRepo {
	return &RatingRepo{pool: pool}
}

func scanRating(row pgx.Row) (*domain.Rating, error) {
	var rating domain.Rating
	err := row.Scan(&rating.ID, &rating.EventID, &rating.AuthorID, &rating.Score,
		&rating.Feedback, &rating.Sentiment, &rating.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Create inserts a rating, replacing the author's previous rating for the
// same event if one exists.
func (r *RatingRepo) Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	stored, err := scanRating(r.pool.QueryRow(ctx, `
		INSERT INTO ratings (event_id, author_id, score, feedback, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, author_id) DO UPDATE SET
			score = EXCLUDED.score,
			feedback = EXCLUDED.feedback,
			sentiment = EXCLUDED.sentiment,
			created_at = EXCLUDED.created_at
		RETURNING `+ratingColumns+`
	`, rating.EventID, rating.AuthorID, rating.Score, rating.Feedback, rating.Sentiment, rating.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}
	return stored, nil
}

func (r *RatingRepo) GetByAuthorAndEvent(ctx context.Context, authorID, eventID uuid.UUID) (*domain.Rating, error) {
	rating, err := scanRating(r.pool.QueryRow(ctx, `
		SELECT `+ratingColumns+`
		FROM ratings
		WHERE author_id = $1 AND event_id = $2
	`, authorID, eventID))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRatingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return rating, nil
}
