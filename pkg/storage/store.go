// Copyright © 2026 Arka Labs

// Package storage defines the gateway every engine uses for durable I/O.
//
// A Store is anchored at a fixed root; all paths are root-relative and a
// path that resolves outside the root is rejected before any filesystem
// call. Writes of whole documents are atomic (readers never observe a
// partial file), but atomicity is bounded to a single file: nothing is
// guaranteed across two related writes.
package storage

import (
	"context"
	"encoding/json"
)

// Store is the only durable medium of the system.
//
// Implementations translate OS-level failures into the status taxonomy:
// missing path to not-found, permission to access-denied, anything else to
// io-failure. A JSON parse failure on read is reported as io-failure with
// a message distinct from a missing file.
type Store interface {
	String() string

	// Exists reports whether a file is present at path. A missing file is
	// (false, nil), not an error.
	Exists(ctx context.Context, path string) (bool, error)

	// ReadBytes returns the raw content of a file.
	ReadBytes(ctx context.Context, path string) ([]byte, error)

	// ReadJSON decodes a JSON file into out.
	ReadJSON(ctx context.Context, path string, out interface{}) error

	// WriteBytesAtomic writes raw content via a sibling temp file and a
	// rename, creating parent directories as needed.
	WriteBytesAtomic(ctx context.Context, path string, data []byte) error

	// WriteJSONAtomic encodes v as JSON and writes it atomically.
	WriteJSONAtomic(ctx context.Context, path string, v interface{}) error

	// AppendJSONLine appends one newline-terminated JSON record, creating
	// the file and parent directories if absent.
	AppendJSONLine(ctx context.Context, path string, v interface{}) error

	// ReadJSONLines returns the records of a newline-delimited JSON file,
	// skipping blank and unparsable lines. A missing file yields an empty
	// list. When limit > 0 only the trailing limit records are returned.
	ReadJSONLines(ctx context.Context, path string, limit int) ([]json.RawMessage, error)

	// ListRecursive returns root-relative paths for every file under dir,
	// recursing into subdirectories. A missing directory yields an empty
	// list, not an error.
	ListRecursive(ctx context.Context, dir string) ([]string, error)

	// EnsureDir creates a directory (and parents) if absent.
	EnsureDir(ctx context.Context, path string) error
}
