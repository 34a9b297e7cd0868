package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jeyphieee/Sentivents-Backend/internal/config"
	"github.com/jeyphieee/Sentivents-Backend/internal/correlation"
	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
	apperrors "github.com/jeyphieee/Sentivents-Backend/internal/errors"
)

// appService is what the handlers need from the application layer.
type appService interface {
	domain.SubmissionService
	ListComments(ctx context.Context, container domain.ContainerRef) ([]domain.Comment, error)
	GetRating(ctx context.Context, authorID, eventID uuid.UUID) (*domain.Rating, error)
	SubmitResponse(ctx context.Context, questionnaireID, authorID uuid.UUID, answers []domain.Answer) (*domain.Response, error)
}

type Server struct {
	echo       *echo.Echo
	config     *config.Config
	app        appService
	aggregator domain.TraitAggregator
	limiter    *SubmissionRateLimiter
	rdb        *goredis.Client
	pool       *pgxpool.Pool
	startTime  time.Time
}

func NewServer(cfg *config.Config, app appService, aggregator domain.TraitAggregator, rdb *goredis.Client, pool *pgxpool.Pool) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(correlation.Middleware())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:       e,
		config:     cfg,
		app:        app,
		aggregator: aggregator,
		limiter:    NewSubmissionRateLimiter(cfg.SubmissionsPerSecond, cfg.SubmissionBurst),
		rdb:        rdb,
		pool:       pool,
		startTime:  time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
