// Copyright © 2026 Arka Labs

package packs

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkalabs/hcm/pkg/status"
	"github.com/arkalabs/hcm/pkg/storage/localfs"
)

func setupEngine(t *testing.T) *Engine {
	t.Helper()
	store := localfs.New("testroot", localfs.WithFs(afero.NewMemMapFs()))
	clock := func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return New(store, WithClock(clock))
}

func pack(id string, payload map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"pack_id":   id,
		"pack_meta": map[string]interface{}{"pack_type": "briefing"},
		"payload":   payload,
	}
}

func TestStoreIsIdempotentForIdenticalContent(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	first, err := e.Store(ctx, "m1", pack("pk1", map[string]interface{}{"a": 1}))
	require.NoError(t, err)
	assert.Equal(t, "pk1", first.PackID)
	assert.Len(t, first.Hash, 64)

	again, err := e.Store(ctx, "m1", pack("pk1", map[string]interface{}{"a": 1}))
	require.NoError(t, err)
	assert.Equal(t, first.Hash, again.Hash)

	// the idempotent replay did not duplicate the index entry
	entries, err := e.List(ctx, "m1", "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStoreConflictsOnDifferentContent(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	_, err := e.Store(ctx, "m1", pack("pk1", map[string]interface{}{"a": 1}))
	require.NoError(t, err)

	_, err = e.Store(ctx, "m1", pack("pk1", map[string]interface{}{"a": 2}))
	require.Error(t, err)
	assert.True(t, status.IsConflict(err))

	// first write wins: the stored pack is untouched
	stored, err := e.Get(ctx, "m1", "pk1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	payload := stored["payload"].(map[string]interface{})
	assert.Equal(t, float64(1), payload["a"])
}

func TestPackIDFromPackMeta(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	result, err := e.Store(ctx, "m1", map[string]interface{}{
		"pack_meta": map[string]interface{}{"pack_id": "pk2", "type": "notes"},
		"payload":   map[string]interface{}{},
	})
	require.NoError(t, err)
	assert.Equal(t, "pk2", result.PackID)

	entries, err := e.List(ctx, "m1", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes", entries[0].Type)
}

func TestMissingPackIDRejected(t *testing.T) {
	e := setupEngine(t)

	_, err := e.Store(context.Background(), "m1", map[string]interface{}{"payload": map[string]interface{}{}})
	require.Error(t, err)
	assert.True(t, status.IsInvalidPayload(err))
}

func TestGetUnknownPackIsNil(t *testing.T) {
	e := setupEngine(t)

	p, err := e.Get(context.Background(), "m1", "ghost")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestListFiltersByTypeCaseInsensitive(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	_, err := e.Store(ctx, "m1", pack("pk1", map[string]interface{}{"a": 1}))
	require.NoError(t, err)
	_, err = e.Store(ctx, "m1", map[string]interface{}{
		"pack_id":   "pk2",
		"pack_meta": map[string]interface{}{"pack_type": "summary"},
	})
	require.NoError(t, err)

	entries, err := e.List(ctx, "m1", "BRIEFING")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pk1", entries[0].PackID)
	assert.Equal(t, "2024-05-01T12:00:00Z", entries[0].StoredAt)

	all, err := e.List(ctx, "m1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListMissingIndexIsEmpty(t *testing.T) {
	e := setupEngine(t)

	entries, err := e.List(context.Background(), "m9", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
