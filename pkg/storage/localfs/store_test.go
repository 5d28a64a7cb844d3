// Copyright © 2026 Arka Labs

package localfs

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkalabs/hcm/pkg/status"
	"github.com/arkalabs/hcm/pkg/storage"
)

func setupStore(t *testing.T) storage.Store {
	t.Helper()
	return New("testroot", WithFs(afero.NewMemMapFs()))
}

func TestWriteReadRoundtrip(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	in := map[string]interface{}{"a": float64(1), "b": "two"}
	require.NoError(t, bs.WriteJSONAtomic(ctx, "state/missions/m1/meta.json", in))

	var out map[string]interface{}
	require.NoError(t, bs.ReadJSON(ctx, "state/missions/m1/meta.json", &out))
	assert.Equal(t, in, out)
}

func TestAtomicWriteLeavesNoTempFile(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.WriteBytesAtomic(ctx, "dir/file.json", []byte(`{}`)))
	paths, err := bs.ListRecursive(ctx, "dir")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.False(t, strings.HasSuffix(paths[0], tmpSuffix))
}

func TestExists(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	ok, err := bs.Exists(ctx, "nope.json")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bs.WriteBytesAtomic(ctx, "a/b.json", []byte(`{}`)))
	ok, err = bs.Exists(ctx, "a/b.json")
	require.NoError(t, err)
	assert.True(t, ok)

	// a directory is not a file
	ok, err = bs.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadMissingIsNotFound(t *testing.T) {
	bs := setupStore(t)

	_, err := bs.ReadBytes(context.Background(), "missing.json")
	require.Error(t, err)
	assert.True(t, status.IsNotFound(err))
}

func TestReadInvalidJSONIsIOFailure(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.WriteBytesAtomic(ctx, "bad.json", []byte(`{not json`)))
	var out map[string]interface{}
	err := bs.ReadJSON(ctx, "bad.json", &out)
	require.Error(t, err)
	assert.True(t, status.IsIO(err))
	assert.False(t, status.IsNotFound(err))
}

func TestPathTraversalRejected(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	for _, p := range []string{
		"../outside.json",
		"..",
		"a/../../outside.json",
		"/etc/passwd",
	} {
		_, err := bs.ReadBytes(ctx, p)
		require.Error(t, err, p)
		assert.True(t, status.IsAccessDenied(err), p)

		err = bs.WriteBytesAtomic(ctx, p, []byte("x"))
		require.Error(t, err, p)
		assert.True(t, status.IsAccessDenied(err), p)
	}

	// dot segments that stay inside the root are fine
	require.NoError(t, bs.WriteBytesAtomic(ctx, "a/../b.json", []byte(`{}`)))
	ok, err := bs.Exists(ctx, "b.json")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAppendAndReadJSONLines(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, bs.AppendJSONLine(ctx, "m1/journal.jsonl", map[string]interface{}{"n": i}))
	}
	records, err := bs.ReadJSONLines(ctx, "m1/journal.jsonl", 0)
	require.NoError(t, err)
	assert.Len(t, records, 5)

	// tail limit keeps the trailing records
	records, err = bs.ReadJSONLines(ctx, "m1/journal.jsonl", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"n":3}`, string(records[0]))
	assert.JSONEq(t, `{"n":4}`, string(records[1]))
}

func TestReadJSONLinesSkipsCorruptLines(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	raw := "{\"ok\":1}\n\nnot json at all\n{\"ok\":2}\n"
	require.NoError(t, bs.WriteBytesAtomic(ctx, "mixed.jsonl", []byte(raw)))

	records, err := bs.ReadJSONLines(ctx, "mixed.jsonl", 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestReadJSONLinesMissingFileIsEmpty(t *testing.T) {
	bs := setupStore(t)

	records, err := bs.ReadJSONLines(context.Background(), "never/written.jsonl", 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListRecursive(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.WriteBytesAtomic(ctx, "top/a.json", []byte(`{}`)))
	require.NoError(t, bs.WriteBytesAtomic(ctx, "top/sub/b.json", []byte(`{}`)))
	require.NoError(t, bs.WriteBytesAtomic(ctx, "top/sub/deeper/c.json", []byte(`{}`)))

	paths, err := bs.ListRecursive(ctx, "top")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"top/a.json",
		"top/sub/b.json",
		"top/sub/deeper/c.json",
	}, paths)
}

func TestListRecursiveMissingDirIsEmpty(t *testing.T) {
	bs := setupStore(t)

	paths, err := bs.ListRecursive(context.Background(), "no/such/dir")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestEnsureDir(t *testing.T) {
	bs := setupStore(t)
	ctx := context.Background()

	require.NoError(t, bs.EnsureDir(ctx, "a/b/c"))
	// idempotent
	require.NoError(t, bs.EnsureDir(ctx, "a/b/c"))
}

func TestString(t *testing.T) {
	bs := setupStore(t)
	assert.Equal(t, "localfs@testroot", bs.String())
}
