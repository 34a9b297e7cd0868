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

func TestClassifierClassify_Success(t *testing.T) {
	var gotHost string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sentiment", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("x-rapidapi-key"))
		gotHost = r.Header.Get("x-rapidapi-host")

		var req []classifyRequestItem
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req, 1)
		assert.Equal(t, "en", req[0].Language)
		assert.Equal(t, "great event", req[0].Text)

		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"predictions": []map[string]any{
				{"prediction": "positive"},
				{"prediction": "neutral"},
			}},
		})
	}))
	defer server.Close()

	client := NewClassifierClient(server.URL, "secret-key", time.Second)

	predictions, err := client.Classify(context.Background(), "great event")
	require.NoError(t, err)
	require.Len(t, predictions, 2)
	assert.Equal(t, "positive", predictions[0].Label)
	assert.Equal(t, 0, predictions[0].Rank)
	assert.Equal(t, "neutral", predictions[1].Label)
	assert.Equal(t, 1, predictions[1].Rank)
	assert.Equal(t, strings.TrimPrefix(server.URL, "http://"), gotHost)
}

func TestClassifierClassify_EmptyResultList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer server.Close()

	client := NewClassifierClient(server.URL, "key", time.Second)

	_, err := client.Classify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no results")
}

func TestClassifierClassify_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClassifierClient(server.URL, "key", time.Second)

	_, err := client.Classify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestClassifierClassify_NoPredictions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"predictions": []any{}}})
	}))
	defer server.Close()

	client := NewClassifierClient(server.URL, "key", time.Second)

	predictions, err := client.Classify(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, predictions)
}
