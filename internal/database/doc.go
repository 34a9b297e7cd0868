// Package database provides PostgreSQL connectivity and repositories.
//
// Uses pgx for connection pooling and a query tracer for metrics.
// Repositories implement the domain interfaces: AuthorRepository,
// CommentRepository, RatingRepository, ResponseRepository.
package database
