package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
)

// commentColumns must match the Scan order in scanComment.
const commentColumns = `id, container_kind, container_id, author_id, text, sentiment, created_at`

// CommentRepo implements domain.CommentRepository backed by PostgreSQL.
type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.ContainerKind, &c.ContainerID, &c.AuthorID, &c.Text, &c.Sentiment, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) Append(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	stored, err := scanComment(r.pool.QueryRow(ctx, `
		INSERT INTO comments (container_kind, container_id, author_id, text, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+commentColumns+`
	`, comment.ContainerKind, comment.ContainerID, comment.AuthorID, comment.Text, comment.Sentiment, comment.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to append comment: %w", err)
	}
	return stored, nil
}

func (r *CommentRepo) ListByContainer(ctx context.Context, container domain.ContainerRef) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE container_kind = $1 AND container_id = $2
		ORDER BY created_at DESC
	`, container.Kind, container.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

func (r *CommentRepo) ListRecentByAuthor(ctx context.Context, container domain.ContainerRef, authorID uuid.UUID, since time.Time) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE container_kind = $1 AND container_id = $2 AND author_id = $3 AND created_at >= $4
		ORDER BY created_at DESC
	`, container.Kind, container.ID, authorID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent comments: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

func collectComments(rows pgx.Rows) ([]domain.Comment, error) {
	var comments []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepo) ContainerExists(ctx context.Context, container domain.ContainerRef) (bool, error) {
	var table string
	switch container.Kind {
	case domain.ContainerEvent:
		table = "events"
	case domain.ContainerPost:
		table = "posts"
	case domain.ContainerRating:
		table = "ratings"
	default:
		return false, fmt.Errorf("unknown container kind %q", container.Kind)
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, container.ID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check container: %w", err)
	}
	return exists, nil
}
