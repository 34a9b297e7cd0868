package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDLength(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 8)
	assert.NotEqual(t, id, NewID())
}

func TestWithIDAndID(t *testing.T) {
	ctx := WithID(context.Background(), "abcd1234")
	id, ok := ID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abcd1234", id)
}

func TestIDMissing(t *testing.T) {
	_, ok := ID(context.Background())
	assert.False(t, ok)
}

func TestMiddlewareGeneratesID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	handler := Middleware()(func(c echo.Context) error {
		id, ok := ID(c.Request().Context())
		require.True(t, ok)
		seen = id
		return nil
	})

	require.NoError(t, handler(c))
	assert.Len(t, seen, 8)
	assert.Equal(t, seen, rec.Header().Get(HeaderName))
}

func TestMiddlewareReusesInboundHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderName, "client99")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware()(func(c echo.Context) error {
		id, _ := ID(c.Request().Context())
		assert.Equal(t, "client99", id)
		return nil
	})

	require.NoError(t, handler(c))
	assert.Equal(t, "client99", rec.Header().Get(HeaderName))
}

func TestHandlerInjectsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, nil)
	logger := slog.New(NewHandler(inner))

	ctx := WithID(context.Background(), "deadbeef")
	logger.InfoContext(ctx, "hello")

	assert.Contains(t, buf.String(), "correlation_id=deadbeef")
}

func TestHandlerWithoutCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, nil)
	logger := slog.New(NewHandler(inner))

	logger.Info("hello")

	assert.NotContains(t, buf.String(), "correlation_id")
}
