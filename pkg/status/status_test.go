// Copyright © 2026 Arka Labs

package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindMatching(t *testing.T) {
	err := Conflict("pack pk1 exists with different content")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
}

func TestWrapPreservesKindAndCause(t *testing.T) {
	cause := errors.New("disk went away")
	err := IO("read state/missions/m1/meta.json").Wrap(cause)
	assert.True(t, IsIO(err))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "IO_ERROR")
	assert.Contains(t, err.Error(), "disk went away")
}

func TestWrappedThroughFmt(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("mission m1"))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDetails(t *testing.T) {
	err := Conflict("version conflict").
		WithDetail("expected_base_hash", "sha256:aa").
		WithDetail("current_hash", "sha256:bb")
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "sha256:aa", e.Details()["expected_base_hash"])
	assert.Equal(t, "sha256:bb", e.Details()["current_hash"])
	assert.Equal(t, "version conflict", e.Message())
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", KindNotFound.String())
	assert.Equal(t, "CONFLICTING_UPDATE", KindConflict.String())
	assert.Equal(t, "ACCESS_DENIED", KindAccessDenied.String())
	assert.Equal(t, "INVALID_PAYLOAD", KindInvalidPayload.String())
	assert.Equal(t, "IO_ERROR", KindIO.String())
	assert.Equal(t, "INTERNAL_ERROR", KindInternal.String())
}
