// Copyright © 2026 Arka Labs

package missions

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkalabs/hcm/pkg/model"
	"github.com/arkalabs/hcm/pkg/status"
	"github.com/arkalabs/hcm/pkg/storage"
	"github.com/arkalabs/hcm/pkg/storage/localfs"
)

func setupEngine(t *testing.T) (*Engine, storage.Store) {
	t.Helper()
	store := localfs.New("testroot", localfs.WithFs(afero.NewMemMapFs()))
	clock := func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return New(store, WithClock(clock)), store
}

func TestScaffoldThenContext(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Scaffold(ctx, "m1", map[string]interface{}{
		"name":        "Market entry",
		"business_id": "biz-1",
	}))

	mc, err := e.Context(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", mc.MissionID)
	assert.Equal(t, "m1", mc.Meta["mission_id"])
	assert.Equal(t, "1.1", mc.Meta["schema_version"])
	assert.Equal(t, "Market entry", mc.Meta["name"])
	assert.Equal(t, "2024-05-01T12:00:00Z", mc.Meta["created_at"])
	assert.Equal(t, "init", mc.Status["phase"])
	assert.Equal(t, "planned", mc.Status["status"])
	assert.Equal(t, "ok", mc.Status["health"])

	// scaffolding leaves the first journal event behind
	require.Len(t, mc.JournalTail, 1)
	assert.Equal(t, "system", mc.JournalTail[0].AuthorType)
	assert.Equal(t, "mission scaffolded", mc.JournalTail[0].Message)

	// optional companions default to empty, never nil
	assert.NotNil(t, mc.Decisions)
	assert.Empty(t, mc.Decisions)
	assert.NotNil(t, mc.NextActions)
	assert.Empty(t, mc.NextActions)
}

func TestScaffoldWritesEmptyPackIndex(t *testing.T) {
	e, store := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Scaffold(ctx, "m1", nil))

	var index model.PackIndex
	require.NoError(t, store.ReadJSON(ctx, model.PackIndexPath("m1"), &index))
	assert.NotNil(t, index.Packs)
	assert.Empty(t, index.Packs)
}

func TestScaffoldInvalidIDRejected(t *testing.T) {
	e, _ := setupEngine(t)

	err := e.Scaffold(context.Background(), "../escape", nil)
	require.Error(t, err)
	assert.True(t, status.IsInvalidPayload(err))
}

func TestAppendJournal(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Scaffold(ctx, "m1", nil))

	entry, err := e.AppendJournal(ctx, "m1", model.JournalEntry{
		AuthorType: "agent",
		AuthorID:   "agent-7",
		EntryType:  "note",
		Message:    "kickoff complete",
	})
	require.NoError(t, err)
	// the engine stamps a timestamp when the caller leaves it empty
	assert.Equal(t, "2024-05-01T12:00:00Z", entry.Timestamp)

	mc, err := e.Context(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, mc.JournalTail, 2)
	assert.Equal(t, "kickoff complete", mc.JournalTail[1].Message)
}

func TestAppendJournalKeepsCallerTimestamp(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Scaffold(ctx, "m1", nil))

	entry, err := e.AppendJournal(ctx, "m1", model.JournalEntry{
		Timestamp: "2023-01-01T00:00:00Z",
		AuthorID:  "agent-7",
		Message:   "backdated",
	})
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01T00:00:00Z", entry.Timestamp)
}

func TestAppendJournalValidation(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Scaffold(ctx, "m1", nil))

	_, err := e.AppendJournal(ctx, "m1", model.JournalEntry{AuthorID: "agent-7"})
	require.Error(t, err)
	assert.True(t, status.IsInvalidPayload(err))

	_, err = e.AppendJournal(ctx, "m1", model.JournalEntry{Message: "no author"})
	require.Error(t, err)
	assert.True(t, status.IsInvalidPayload(err))
}

func TestAppendJournalMissingMission(t *testing.T) {
	e, _ := setupEngine(t)

	_, err := e.AppendJournal(context.Background(), "ghost", model.JournalEntry{
		AuthorID: "agent-7",
		Message:  "into the void",
	})
	require.Error(t, err)
	assert.True(t, status.IsNotFound(err))
}

func TestContextMissingMission(t *testing.T) {
	e, _ := setupEngine(t)

	_, err := e.Context(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, status.IsNotFound(err))
}

func TestContextReadsCompanionLists(t *testing.T) {
	e, store := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Scaffold(ctx, "m1", nil))
	require.NoError(t, store.WriteJSONAtomic(ctx, model.MissionDecisionsPath("m1"), map[string]interface{}{
		"decisions": []interface{}{map[string]interface{}{"id": "d1"}},
	}))
	// a broken companion file degrades to empty instead of failing the read
	require.NoError(t, store.WriteBytesAtomic(ctx, model.MissionNextActionsPath("m1"), []byte("{broken")))

	mc, err := e.Context(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, mc.Decisions, 1)
	assert.Empty(t, mc.NextActions)
}

func TestContextJournalTailIsBounded(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Scaffold(ctx, "m1", nil))
	for i := 0; i < journalTailLimit+10; i++ {
		_, err := e.AppendJournal(ctx, "m1", model.JournalEntry{
			AuthorID: "agent-7",
			Message:  "tick",
		})
		require.NoError(t, err)
	}

	mc, err := e.Context(ctx, "m1")
	require.NoError(t, err)
	assert.Len(t, mc.JournalTail, journalTailLimit)
}

func TestListMissions(t *testing.T) {
	e, _ := setupEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Scaffold(ctx, "m-b", map[string]interface{}{"business_id": "biz-1"}))
	require.NoError(t, e.Scaffold(ctx, "m-a", map[string]interface{}{"business_id": "biz-2"}))
	require.NoError(t, e.Scaffold(ctx, "m-c", nil))

	ids, err := e.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"m-a", "m-b", "m-c"}, ids)

	// missions without a business id pass every filter
	ids, err = e.List(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m-b", "m-c"}, ids)
}

func TestListEmptyRoot(t *testing.T) {
	e, _ := setupEngine(t)

	ids, err := e.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
