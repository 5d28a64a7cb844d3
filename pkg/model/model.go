// Copyright © 2026 Arka Labs

// Package model holds the shared record shapes and the path builders for
// the storage layout. Engines never assemble storage paths by hand; every
// location in the tree comes from this package.
package model

import (
	"regexp"

	"github.com/arkalabs/hcm/pkg/status"
)

// Caller identifies who produced a version: an agent, a human or the
// system itself.
type Caller struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// SystemCaller is used for writes the system originates on its own.
var SystemCaller = Caller{Type: "system", ID: "hcm-core"}

// Meta is the version block attached to every immutable record version.
type Meta struct {
	VersionHash string  `json:"version_hash"`
	CreatedAt   string  `json:"created_at"`
	CreatedBy   Caller  `json:"created_by"`
	Supersedes  *string `json:"supersedes"`
}

// Document is the stored form of one record version. Records are
// schemaless beyond the envelope (schema_version, identity fields, body
// field, meta), so the document is a plain JSON object.
type Document map[string]interface{}

// Meta extracts the version block from a document read back from storage,
// tolerating both the typed form (fresh writes) and the decoded map form.
func (d Document) Meta() Meta {
	switch m := d["meta"].(type) {
	case Meta:
		return m
	case map[string]interface{}:
		out := Meta{}
		if s, ok := m["version_hash"].(string); ok {
			out.VersionHash = s
		}
		if s, ok := m["created_at"].(string); ok {
			out.CreatedAt = s
		}
		if s, ok := m["supersedes"].(string); ok {
			out.Supersedes = &s
		}
		if c, ok := m["created_by"].(map[string]interface{}); ok {
			if s, ok := c["type"].(string); ok {
				out.CreatedBy.Type = s
			}
			if s, ok := c["id"].(string); ok {
				out.CreatedBy.ID = s
			}
		}
		return out
	}
	return Meta{}
}

// VersionHash returns the display-form hash of the document, or "".
func (d Document) VersionHash() string {
	return d.Meta().VersionHash
}

// JournalEntry is one line of a mission's append-only journal.
type JournalEntry struct {
	Timestamp  string                 `json:"timestamp,omitempty"`
	AuthorType string                 `json:"author_type"`
	AuthorID   string                 `json:"author_id"`
	EntryType  string                 `json:"entry_type"`
	Message    string                 `json:"message"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// PackIndexEntry is one row of a mission's pack index.
type PackIndexEntry struct {
	PackID   string `json:"pack_id"`
	Type     string `json:"type,omitempty"`
	Hash     string `json:"hash"`
	StoredAt string `json:"stored_at"`
}

// PackIndex is the per-mission listing of stored packs.
type PackIndex struct {
	Packs []PackIndexEntry `json:"packs"`
}

// idRe constrains every path-bearing identifier to a safe slug so that no
// identity can smuggle separators or traversal segments into a path.
var idRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateID checks a path-bearing identifier. It fails before any I/O
// happens.
func ValidateID(field, raw string) (string, error) {
	if raw == "" {
		return "", status.InvalidPayload(field + " required")
	}
	if !idRe.MatchString(raw) {
		return "", status.InvalidPayload(field + " must be a safe slug (a-zA-Z0-9._-)")
	}
	return raw, nil
}

// hexRe matches a raw SHA-256 digest.
var hexRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidateDigest checks a raw (unprefixed) lowercase hex SHA-256 digest.
func ValidateDigest(raw string) (string, error) {
	if !hexRe.MatchString(raw) {
		return "", status.InvalidPayload("expected a sha256 hex digest")
	}
	return raw, nil
}
