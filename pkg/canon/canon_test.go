// Copyright © 2026 Arka Labs

package canon

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeShape(t *testing.T) {
	b, err := Canonicalize(map[string]interface{}{
		"b": []interface{}{true, nil},
		"a": 1,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":[true,null]}`, string(b))
}

func TestCanonicalizeSortsKeysByCodePoint(t *testing.T) {
	// U+00E9 sorts after "z" by code point, unlike most locale orders.
	b, err := Canonicalize(map[string]interface{}{
		"é": 1,
		"z": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"z":2,"é":1}`, string(b))
}

func TestCanonicalizeDoesNotEscapeHTML(t *testing.T) {
	b, err := Canonicalize("a<b&c>")
	require.NoError(t, err)
	assert.Equal(t, `"a<b&c>"`, string(b))
}

func TestHashStableAcrossKeyOrder(t *testing.T) {
	var left, right interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":{"x":true,"y":"s"}}`), &left))
	require.NoError(t, json.Unmarshal([]byte(`{"b":{"y":"s","x":true},"a":1}`), &right))

	hl, err := Hash(left)
	require.NoError(t, err)
	hr, err := Hash(right)
	require.NoError(t, err)
	assert.Equal(t, hl, hr)
	assert.Len(t, hl, 64)
}

func TestHashArrayOrderSignificant(t *testing.T) {
	h1, err := Hash([]interface{}{"a", "b"})
	require.NoError(t, err)
	h2, err := Hash([]interface{}{"b", "a"})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashRejectsNonFinite(t *testing.T) {
	_, err := Hash(map[string]interface{}{"x": math.NaN()})
	require.ErrorIs(t, err, ErrNonFinite)

	_, err = Hash([]interface{}{math.Inf(1)})
	require.ErrorIs(t, err, ErrNonFinite)
}

func TestHashRejectsCycles(t *testing.T) {
	arr := []interface{}{nil}
	arr[0] = arr
	_, err := Hash(arr)
	require.ErrorIs(t, err, ErrCycle)

	obj := map[string]interface{}{}
	obj["self"] = obj
	_, err = Hash(obj)
	require.ErrorIs(t, err, ErrCycle)
}

func TestSharedContainerIsNotACycle(t *testing.T) {
	shared := []interface{}{"x"}
	_, err := Hash([]interface{}{shared, shared})
	require.NoError(t, err)
}

func TestHashRejectsUnsupportedTypes(t *testing.T) {
	_, err := Hash(struct{ A int }{A: 1})
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = Hash(map[string]interface{}{"ch": make(chan int)})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestJSONNumberLiteralPreserved(t *testing.T) {
	b, err := Canonicalize(json.Number("1.50"))
	require.NoError(t, err)
	assert.Equal(t, "1.50", string(b))

	_, err = Canonicalize(json.Number("not-a-number"))
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestHashBytes(t *testing.T) {
	h := HashBytes([]byte("hello"))
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashBytes([]byte("hello")))
	assert.NotEqual(t, h, HashBytes([]byte("hello!")))
}

func TestFormatStrip(t *testing.T) {
	assert.Equal(t, "sha256:abc", Format("abc"))
	assert.Equal(t, "sha256:abc", Format("sha256:abc"))
	assert.Equal(t, "", Format(""))
	assert.Equal(t, "abc", Strip("sha256:abc"))
	assert.Equal(t, "abc", Strip("abc"))
	assert.Equal(t, "abc", Strip("  sha256:abc "))
}
