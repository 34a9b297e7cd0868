package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	rateLimited := s.limiter.Middleware()

	// Moderated comment streams
	s.echo.POST("/events/:id/comments", s.handleCreateEventComment, rateLimited)
	s.echo.GET("/events/:id/comments", s.handleListEventComments)
	s.echo.POST("/posts/:id/comments", s.handleCreatePostComment, rateLimited)
	s.echo.GET("/posts/:id/comments", s.handleListPostComments)
	s.echo.POST("/ratings/:id/comments", s.handleCreateRatingComment, rateLimited)
	s.echo.GET("/ratings/:id/comments", s.handleListRatingComments)

	// Event ratings with moderated feedback text
	s.echo.POST("/events/:id/ratings", s.handleCreateRating, rateLimited)
	s.echo.GET("/events/:id/ratings/:authorId", s.handleGetRating)

	// Questionnaire responses and trait rollups
	s.echo.POST("/responses", s.handleCreateResponse, rateLimited)
	s.echo.GET("/questionnaires/:id/traits", s.handleTraitAverages)
}
