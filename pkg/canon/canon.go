// Copyright © 2026 Arka Labs

// Package canon implements deterministic canonical serialization and
// content hashing for JSON-representable values.
//
// The canonical form sorts object keys by Unicode code point, preserves
// array order, rejects non-finite numbers and cyclic structures, and is
// hashed with SHA-256. Every content identity in the store (record
// versions, packs, artifact blobs) derives from this package, so the
// encoding must never change shape for a given value.
package canon

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Prefix is the display form marker used at API boundaries. Stored paths
// always use the raw hex digest.
const Prefix = "sha256:"

var (
	// ErrNonFinite rejects NaN and infinities.
	ErrNonFinite = errors.New("non-finite number cannot be canonicalized")
	// ErrCycle rejects self-referential arrays and objects.
	ErrCycle = errors.New("cyclic reference detected")
	// ErrUnsupported rejects values with no JSON representation.
	ErrUnsupported = errors.New("value is not JSON-representable")
)

// Hash canonicalizes v and returns the lowercase hex SHA-256 of the result.
func Hash(v interface{}) (string, error) {
	b, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// HashBytes returns the lowercase hex SHA-256 of raw content, used for
// artifact blobs where the bytes themselves are the identity.
func HashBytes(p []byte) string {
	sum := sha256.Sum256(p)
	return hex.EncodeToString(sum[:])
}

// Format prepends the sha256: display prefix unless already present.
func Format(digest string) string {
	d := strings.TrimSpace(digest)
	if d == "" || strings.HasPrefix(d, Prefix) {
		return d
	}
	return Prefix + d
}

// Strip removes the sha256: display prefix when present.
func Strip(s string) string {
	v := strings.TrimSpace(s)
	return strings.TrimPrefix(v, Prefix)
}

// Canonicalize renders v in canonical form. The function is pure: no I/O,
// no mutation of v.
func Canonicalize(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v, make(map[uintptr]struct{})); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// open tracks containers currently being rendered, keyed by their backing
// pointer. Re-entering an open container means the value is cyclic.
func writeValue(buf *bytes.Buffer, v interface{}, open map[uintptr]struct{}) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case string:
		return writeString(buf, val)
	case json.Number:
		return writeNumberLiteral(buf, val)
	case float64:
		return writeFloat(buf, val)
	case float32:
		return writeFloat(buf, float64(val))
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
		return nil
	case int8, int16, int32, int64:
		buf.WriteString(strconv.FormatInt(reflect.ValueOf(val).Int(), 10))
		return nil
	case uint, uint8, uint16, uint32, uint64:
		buf.WriteString(strconv.FormatUint(reflect.ValueOf(val).Uint(), 10))
		return nil
	case []interface{}:
		return writeArray(buf, val, open)
	case map[string]interface{}:
		return writeObject(buf, val, open)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}

func writeArray(buf *bytes.Buffer, arr []interface{}, open map[uintptr]struct{}) error {
	if len(arr) > 0 {
		ptr := reflect.ValueOf(arr).Pointer()
		if _, ok := open[ptr]; ok {
			return ErrCycle
		}
		open[ptr] = struct{}{}
		defer delete(open, ptr)
	}
	buf.WriteByte('[')
	for i, el := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(buf, el, open); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeObject(buf *bytes.Buffer, obj map[string]interface{}, open map[uintptr]struct{}) error {
	if len(obj) > 0 {
		ptr := reflect.ValueOf(obj).Pointer()
		if _, ok := open[ptr]; ok {
			return ErrCycle
		}
		open[ptr] = struct{}{}
		defer delete(open, ptr)
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	// Byte order over UTF-8 equals Unicode code point order.
	sort.Strings(keys)
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeValue(buf, obj[k], open); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	// Encode appends a newline after the JSON string literal.
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

func writeFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrNonFinite
	}
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	buf.Write(b)
	return nil
}

// writeNumberLiteral keeps the decimal literal as decoded, after verifying
// it parses to a finite value.
func writeNumberLiteral(buf *bytes.Buffer, n json.Number) error {
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupported, string(n))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrNonFinite
	}
	buf.WriteString(string(n))
	return nil
}
