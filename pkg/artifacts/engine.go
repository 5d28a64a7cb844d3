// Copyright © 2026 Arka Labs

// Package artifacts implements the deduplicated, content-addressed blob
// store with per-id metadata records.
//
// A blob is written once per unique digest within a mission; any number
// of artifact ids may reference it. The (artifact_id, blob_hash) binding
// is frozen on first write.
package artifacts

import (
	"context"
	"time"

	"github.com/teris-io/shortid"
	"go.uber.org/zap"

	"github.com/arkalabs/hcm/pkg/canon"
	"github.com/arkalabs/hcm/pkg/model"
	"github.com/arkalabs/hcm/pkg/status"
	"github.com/arkalabs/hcm/pkg/storage"
)

// Engine stores and retrieves artifacts for missions.
type Engine struct {
	store storage.Store
	log   *zap.Logger
	clock func() time.Time
	newID func() string
}

// Option configures the engine.
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

// WithIDGenerator overrides generated artifact ids.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// New creates an artifact engine over the given store.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		log:   zap.NewNop(),
		clock: time.Now,
		newID: func() string { return "art-" + shortid.MustGenerate() },
	}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

// PutOption configures one Put call.
type PutOption func(*putOptions)

type putOptions struct {
	artifactID string
}

// WithArtifactID pins the artifact id instead of generating one. Reusing
// an id is idempotent for identical content and a conflict otherwise.
func WithArtifactID(id string) PutOption {
	return func(o *putOptions) { o.artifactID = id }
}

// PutResult reports the stored artifact identity.
type PutResult struct {
	ArtifactID string `json:"artifact_id"`
	BlobHash   string `json:"blob_hash"`
}

// Put stores content as a deduplicated blob and writes (or verifies) the
// artifact's metadata record. Caller-supplied meta rides along in the
// record; the reserved fields (artifact_id, mission_id, blob_hash,
// created_at) always win over colliding meta keys.
func (e *Engine) Put(ctx context.Context, missionID string, content []byte, meta map[string]interface{}, opts ...PutOption) (PutResult, error) {
	if _, err := model.ValidateID("mission_id", missionID); err != nil {
		return PutResult{}, err
	}
	o := putOptions{}
	for _, apply := range opts {
		apply(&o)
	}
	requested := o.artifactID != ""
	if requested {
		if _, err := model.ValidateID("artifact_id", o.artifactID); err != nil {
			return PutResult{}, err
		}
	}

	blobHash := canon.HashBytes(content)
	artifactID := o.artifactID
	if !requested {
		artifactID = e.newID()
	}

	// Blob first, then metadata: a crash in between leaves an unreferenced
	// blob, never a dangling reference.
	blobPath := model.ArtifactBlobPath(missionID, blobHash)
	if ok, err := e.store.Exists(ctx, blobPath); err != nil {
		return PutResult{}, err
	} else if !ok {
		if err := e.store.WriteBytesAtomic(ctx, blobPath, content); err != nil {
			return PutResult{}, err
		}
	}

	metaPath := model.ArtifactMetaPath(missionID, artifactID)
	if requested {
		if ok, err := e.store.Exists(ctx, metaPath); err != nil {
			return PutResult{}, err
		} else if ok {
			var existing map[string]interface{}
			if err := e.store.ReadJSON(ctx, metaPath, &existing); err != nil {
				return PutResult{}, err
			}
			existingHash, _ := existing["blob_hash"].(string)
			if existingHash != "" && existingHash == blobHash {
				return PutResult{ArtifactID: artifactID, BlobHash: blobHash}, nil
			}
			return PutResult{}, status.Conflict("artifact id "+artifactID+" is bound to different content").
				WithDetail("artifact_id", artifactID).
				WithDetail("existing_blob_hash", existingHash).
				WithDetail("new_blob_hash", blobHash)
		}
	}

	record := make(map[string]interface{}, len(meta)+4)
	for k, v := range meta {
		record[k] = v
	}
	record["artifact_id"] = artifactID
	record["mission_id"] = missionID
	record["blob_hash"] = blobHash
	record["created_at"] = e.clock().UTC().Format(time.RFC3339)

	if err := e.store.WriteJSONAtomic(ctx, metaPath, record); err != nil {
		return PutResult{}, err
	}
	e.log.Info("stored artifact",
		zap.String("mission_id", missionID),
		zap.String("artifact_id", artifactID),
		zap.String("blob_hash", blobHash))
	return PutResult{ArtifactID: artifactID, BlobHash: blobHash}, nil
}

// Artifact couples a metadata record with its (possibly absent) blob.
type Artifact struct {
	Meta    map[string]interface{} `json:"meta"`
	Content []byte                 `json:"content"`
}

// Get returns an artifact by id, or nil when the id is unknown. A missing
// blob degrades to nil content rather than failing the read.
func (e *Engine) Get(ctx context.Context, missionID, artifactID string) (*Artifact, error) {
	if _, err := model.ValidateID("mission_id", missionID); err != nil {
		return nil, err
	}
	if _, err := model.ValidateID("artifact_id", artifactID); err != nil {
		return nil, err
	}
	metaPath := model.ArtifactMetaPath(missionID, artifactID)
	ok, err := e.store.Exists(ctx, metaPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var meta map[string]interface{}
	if err := e.store.ReadJSON(ctx, metaPath, &meta); err != nil {
		return nil, err
	}
	out := &Artifact{Meta: meta}
	blobHash, _ := meta["blob_hash"].(string)
	if blobHash != "" {
		blobPath := model.ArtifactBlobPath(missionID, blobHash)
		if ok, err := e.store.Exists(ctx, blobPath); err == nil && ok {
			if content, err := e.store.ReadBytes(ctx, blobPath); err == nil {
				out.Content = content
			}
		}
	}
	return out, nil
}
