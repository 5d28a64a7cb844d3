// Copyright © 2026 Arka Labs

// Package versioned implements the content-addressed latest/versions
// pattern shared by contracts, enterprise documents and project profiles.
//
// Every record version is immutable and stored under its own content
// hash; a mutable latest.json pointer holds a copy of the current head.
// Writes use optimistic concurrency: callers may claim the hash they
// based their update on and are rejected on mismatch. The pointer update
// itself is last-writer-wins; two concurrent writers both produce valid
// immutable versions but the final pointer is whichever rename lands
// last. Superseded versions are never compacted.
package versioned

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arkalabs/hcm/pkg/canon"
	"github.com/arkalabs/hcm/pkg/model"
	"github.com/arkalabs/hcm/pkg/status"
	"github.com/arkalabs/hcm/pkg/storage"
)

// Engine applies the versioning pattern for one record kind.
type Engine struct {
	kind  Kind
	store storage.Store
	log   *zap.Logger
	clock func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithClock overrides the time source for created_at stamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// New creates an engine for the given kind over the given store.
func New(kind Kind, store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		kind:  kind,
		store: store,
		log:   zap.NewNop(),
		clock: time.Now,
	}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

// PutOption configures one PutVersion call.
type PutOption func(*putOptions)

type putOptions struct {
	caller       model.Caller
	checkBase    bool
	expectedBase string
}

// WithCaller records who authored the version. Defaults to the system
// caller.
func WithCaller(c model.Caller) PutOption {
	return func(o *putOptions) { o.caller = c }
}

// WithExpectedBase makes the write conditional on the current head having
// the given hash (accepted with or without the sha256: prefix).
func WithExpectedBase(hash string) PutOption {
	return func(o *putOptions) {
		o.checkBase = true
		o.expectedBase = hash
	}
}

// WithExpectedAbsent makes the write conditional on no head existing yet.
func WithExpectedAbsent() PutOption {
	return func(o *putOptions) {
		o.checkBase = true
		o.expectedBase = ""
	}
}

// GetLatest returns the current head of a record, or nil when the record
// does not exist. A corrupt or unreadable head degrades to nil rather
// than failing the read.
func (e *Engine) GetLatest(ctx context.Context, id Identity) (model.Document, error) {
	if err := e.kind.validate(id); err != nil {
		return nil, err
	}
	return e.readLatest(ctx, e.kind.PathsFor(id).Latest), nil
}

// GetVersion returns one immutable version by hash (with or without the
// sha256: prefix), or nil when no such version exists.
func (e *Engine) GetVersion(ctx context.Context, id Identity, hash string) (model.Document, error) {
	if err := e.kind.validate(id); err != nil {
		return nil, err
	}
	hexd, err := model.ValidateDigest(canon.Strip(hash))
	if err != nil {
		return nil, err
	}
	p := model.VersionPath(e.kind.PathsFor(id).VersionsDir, hexd)
	ok, err := e.store.Exists(ctx, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var doc model.Document
	if err := e.store.ReadJSON(ctx, p, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// PutVersion writes a new immutable version of a record and repoints the
// head to it.
//
// A claim that no document exists yet is enforced first: it fails with a
// conflict whenever a head is present, identical content included. After
// that, if a version with the same content hash already exists the call
// is a replay: the stored version is returned unchanged (and the head
// repointed to it), with no base-hash check — retrying the exact same
// call stays idempotent. Otherwise the base-hash precondition, when
// given, is enforced, the version file is written, and the head is
// overwritten atomically. Hash collisions between different contents are
// trusted not to occur.
func (e *Engine) PutVersion(ctx context.Context, id Identity, body map[string]interface{}, opts ...PutOption) (model.Document, error) {
	if err := e.kind.validate(id); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, status.InvalidPayload(e.kind.BodyKey + " must be a JSON object")
	}
	if e.kind.ValidateBody != nil {
		if err := e.kind.ValidateBody(body); err != nil {
			return nil, err
		}
	}
	o := putOptions{caller: model.SystemCaller}
	for _, apply := range opts {
		apply(&o)
	}

	paths := e.kind.PathsFor(id)

	scope := make(map[string]interface{}, len(id)+1)
	for i, key := range e.kind.IdentityKeys {
		scope[key] = id[i]
	}
	scope[e.kind.BodyKey] = body
	hexd, err := canon.Hash(scope)
	if err != nil {
		return nil, status.InvalidPayload(e.kind.BodyKey + " is not canonicalizable").Wrap(err)
	}
	versionPath := model.VersionPath(paths.VersionsDir, hexd)

	latest := e.readLatest(ctx, paths.Latest)
	currentHex := ""
	if latest != nil {
		currentHex = canon.Strip(latest.VersionHash())
	}

	// "Must not exist" holds unconditionally, ahead of the replay
	// short-circuit: once a head is present the claim is stale even when
	// the content is identical.
	if o.checkBase && o.expectedBase == "" && latest != nil {
		return nil, status.Conflict(e.kind.Name+" version conflict: expected no document but one exists").
			WithDetail("expected_base_hash", nil).
			WithDetail("current_hash", displayOrNil(currentHex))
	}

	// Replay: the exact same content was already versioned. Repoint the
	// head and return the stored entry, bypassing the base-hash check.
	if ok, err := e.store.Exists(ctx, versionPath); err != nil {
		return nil, err
	} else if ok {
		var doc model.Document
		if err := e.store.ReadJSON(ctx, versionPath, &doc); err != nil {
			return nil, err
		}
		if err := e.store.WriteJSONAtomic(ctx, paths.Latest, doc); err != nil {
			return nil, err
		}
		e.log.Debug("version replay",
			zap.String("kind", e.kind.Name),
			zap.Strings("identity", id),
			zap.String("hash", hexd))
		return doc, nil
	}

	if o.checkBase && o.expectedBase != "" {
		expectedHex := canon.Strip(o.expectedBase)
		if expectedHex != currentHex {
			return nil, status.Conflict(e.kind.Name+" version conflict").
				WithDetail("expected_base_hash", displayOrNil(expectedHex)).
				WithDetail("current_hash", displayOrNil(currentHex))
		}
	}

	var supersedes *string
	if latest != nil {
		if vh := latest.VersionHash(); vh != "" {
			supersedes = &vh
		}
	}

	doc := model.Document{"schema_version": e.kind.SchemaVersion}
	for i, key := range e.kind.IdentityKeys {
		doc[key] = id[i]
	}
	doc[e.kind.BodyKey] = body
	doc["meta"] = model.Meta{
		VersionHash: canon.Format(hexd),
		CreatedAt:   e.clock().UTC().Format(time.RFC3339),
		CreatedBy:   o.caller,
		Supersedes:  supersedes,
	}

	if err := e.store.WriteJSONAtomic(ctx, versionPath, doc); err != nil {
		return nil, err
	}
	if err := e.store.WriteJSONAtomic(ctx, paths.Latest, doc); err != nil {
		return nil, err
	}
	e.log.Info("new version",
		zap.String("kind", e.kind.Name),
		zap.Strings("identity", id),
		zap.String("hash", hexd),
		zap.Stringp("supersedes", supersedes))
	return doc, nil
}

// readLatest loads a head pointer, degrading to nil when it is missing or
// unreadable.
func (e *Engine) readLatest(ctx context.Context, path string) model.Document {
	ok, err := e.store.Exists(ctx, path)
	if err != nil || !ok {
		return nil
	}
	var doc model.Document
	if err := e.store.ReadJSON(ctx, path, &doc); err != nil {
		e.log.Debug("unreadable head pointer", zap.String("path", path), zap.Error(err))
		return nil
	}
	return doc
}

func displayOrNil(hexd string) interface{} {
	if hexd == "" {
		return nil
	}
	return canon.Format(hexd)
}
