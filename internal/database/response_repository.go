package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
)

// ResponseRepo implements domain.ResponseRepository backed by PostgreSQL.
type ResponseRepo struct {
	pool *pgxpool.Pool
}

func NewResponseRepo(pool *pgxpool.Pool) *ResponseRepo {
	return &ResponseRepo{pool: pool}
}

// Create inserts a response and its answers in one transaction.
func (r *ResponseRepo) Create(ctx context.Context, response *domain.Response) (*domain.Response, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	stored := *response
	err = tx.QueryRow(ctx, `
		INSERT INTO responses (questionnaire_id, author_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, response.QuestionnaireID, response.AuthorID, response.CreatedAt).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create response: %w", err)
	}

	for _, answer := range response.Answers {
		_, err = tx.Exec(ctx, `
			INSERT INTO response_answers (response_id, question_id, rating)
			VALUES ($1, $2, $3)
		`, stored.ID, answer.QuestionID, answer.Rating)
		if err != nil {
			return nil, fmt.Errorf("failed to create answer: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &stored, nil
}

// ListRatedAnswers returns every answer for the questionnaire joined with its
// question's trait. The inner joins drop answers whose question no longer
// resolves; blank traits are filtered out as unresolvable.
func (r *ResponseRepo) ListRatedAnswers(ctx context.Context, questionnaireID uuid.UUID, authorID *uuid.UUID) ([]domain.RatedAnswer, error) {
	query := `
		SELECT ra.response_id, q.trait, ra.rating
		FROM response_answers ra
		JOIN responses resp ON resp.id = ra.response_id
		JOIN questions q ON q.id = ra.question_id
		WHERE resp.questionnaire_id = $1 AND q.trait <> ''
	`
	args := []any{questionnaireID}
	if authorID != nil {
		query += ` AND resp.author_id = $2`
		args = append(args, *authorID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rated answers: %w", err)
	}
	defer rows.Close()

	var answers []domain.RatedAnswer
	for rows.Next() {
		var a domain.RatedAnswer
		if err := rows.Scan(&a.ResponseID, &a.Trait, &a.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan rated answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rated answers: %w", err)
	}

	return answers, nil
}
