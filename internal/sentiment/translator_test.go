package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_Success(t *testing.T) {
	var gotHost string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/language/translate/v2", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("x-rapidapi-key"))
		gotHost = r.Header.Get("x-rapidapi-host")

		var req translateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hola mundo", req.Q)
		assert.Equal(t, "auto", req.Source)
		assert.Equal(t, "en", req.Target)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"translations": map[string]any{"translatedText": "hello world"},
			},
		})
	}))
	defer server.Close()

	client := NewTranslatorClient(server.URL, "secret-key", time.Second)

	translated, err := client.Translate(context.Background(), "hola mundo")
	require.NoError(t, err)
	assert.Equal(t, "hello world", translated)
	assert.Equal(t, strings.TrimPrefix(server.URL, "http://"), gotHost)
}

func TestTranslate_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewTranslatorClient(server.URL, "key", time.Second)

	_, err := client.Translate(context.Background(), "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestTranslate_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewTranslatorClient(server.URL, "key", time.Second)

	_, err := client.Translate(context.Background(), "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestTranslate_EmptyTranslation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	defer server.Close()

	client := NewTranslatorClient(server.URL, "key", time.Second)

	_, err := client.Translate(context.Background(), "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty text")
}

func TestTranslate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewTranslatorClient(server.URL, "key", 10*time.Millisecond)

	_, err := client.Translate(context.Background(), "hola")
	require.Error(t, err)
}
