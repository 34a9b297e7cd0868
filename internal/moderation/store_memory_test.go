package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
)

func TestMemoryStore_GetUnknownAuthorReturnsZeroState(t *testing.T) {
	store := NewMemoryStore()

	state, err := store.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationState{}, state)
}

func TestMemoryStore_PutAndGet(t *testing.T) {
	store := NewMemoryStore()
	authorID := uuid.New()
	want := domain.ModerationState{WarningCount: 1, CooldownUntil: time.Now().Add(time.Minute)}

	require.NoError(t, store.Put(context.Background(), authorID, want))

	got, err := store.Get(context.Background(), authorID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMemoryStore_PutZeroStateDeletes(t *testing.T) {
	store := NewMemoryStore()
	authorID := uuid.New()

	require.NoError(t, store.Put(context.Background(), authorID, domain.ModerationState{WarningCount: 1}))
	require.NoError(t, store.Put(context.Background(), authorID, domain.ModerationState{}))

	got, err := store.Get(context.Background(), authorID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationState{}, got)
}
