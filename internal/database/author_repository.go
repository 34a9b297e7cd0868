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

// AuthorRepo implements domain.AuthorRepository backed by PostgreSQL.
type AuthorRepo struct {
	pool *pgxpool.Pool
}

func NewAuthorRepo(pool *pgxpool.Pool) *AuthorRepo {
	return &AuthorRepo{pool: pool}
}

func (r *AuthorRepo) GetByID(ctx context.Context, authorID uuid.UUID) (*domain.Author, error) {
	var author domain.Author
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM authors
		WHERE id = $1
	`, authorID).Scan(&author.ID, &author.Name, &author.Email, &author.CreatedAt, &author.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}

	return &author, nil
}
