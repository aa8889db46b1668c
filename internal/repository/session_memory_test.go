package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/camera_map/internal/models"
	"github.com/shenikar/camera_map/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore_SaveAndGet(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	ctx := context.Background()
	id := uuid.New()

	state := &models.SessionState{
		Selection:    models.Selection{District: "Guntur"},
		TableVisible: true,
		Viewport:     models.Viewport{Center: models.LatLng{Lat: 16.2, Lng: 80.6}, Zoom: 11},
	}
	require.NoError(t, store.Save(ctx, id, state))

	// изменение исходной структуры не влияет на сохраненную
	state.Selection.District = "Krishna"

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Guntur", got.Selection.District)
	assert.Equal(t, 11, got.Viewport.Zoom)
	assert.True(t, got.TableVisible)
}

func TestMemorySessionStore_NotFound(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestMemorySessionStore_Expires(t *testing.T) {
	store := NewMemorySessionStore(10 * time.Millisecond)
	id := uuid.New()
	require.NoError(t, store.Save(context.Background(), id, &models.SessionState{}))

	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(context.Background(), id)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}
