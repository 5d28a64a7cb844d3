// Copyright © 2026 Arka Labs

// Package packs implements the immutable, idempotent-by-content pack
// store.
//
// A pack is frozen under its pack_id on first write: re-storing identical
// content succeeds idempotently, differing content is a conflict. The
// per-mission index is maintained with a read-modify-write append, which
// is last-writer-wins under concurrent stores (same caveat as the
// versioned head pointer).
package packs

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arkalabs/hcm/pkg/canon"
	"github.com/arkalabs/hcm/pkg/model"
	"github.com/arkalabs/hcm/pkg/status"
	"github.com/arkalabs/hcm/pkg/storage"
)

// Engine stores and lists packs for missions.
type Engine struct {
	store storage.Store
	log   *zap.Logger
	clock func() time.Time
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

// WithClock overrides the time source for stored_at stamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// New creates a pack engine over the given store.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{store: store, log: zap.NewNop(), clock: time.Now}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

// StoreResult reports where a pack landed.
type StoreResult struct {
	PackID string `json:"pack_id"`
	Hash   string `json:"hash"`
}

// Store persists a pack under its pack_id. The id comes from pack_id or
// pack_meta.pack_id; the whole pack is hashed for identity.
func (e *Engine) Store(ctx context.Context, missionID string, pack map[string]interface{}) (StoreResult, error) {
	if _, err := model.ValidateID("mission_id", missionID); err != nil {
		return StoreResult{}, err
	}
	packID, packType := packIDAndType(pack)
	if packID == "" {
		return StoreResult{}, status.InvalidPayload("pack_id (or pack_meta.pack_id) required")
	}
	if _, err := model.ValidateID("pack_id", packID); err != nil {
		return StoreResult{}, err
	}

	hexd, err := canon.Hash(pack)
	if err != nil {
		return StoreResult{}, status.InvalidPayload("pack is not canonicalizable").Wrap(err)
	}

	packPath := model.PackPath(missionID, packID)
	if ok, err := e.store.Exists(ctx, packPath); err != nil {
		return StoreResult{}, err
	} else if ok {
		var existing map[string]interface{}
		if err := e.store.ReadJSON(ctx, packPath, &existing); err != nil {
			return StoreResult{}, err
		}
		existingHex, err := canon.Hash(existing)
		if err != nil {
			return StoreResult{}, status.IO("stored pack " + packID + " is not canonicalizable").Wrap(err)
		}
		if existingHex == hexd {
			return StoreResult{PackID: packID, Hash: hexd}, nil
		}
		return StoreResult{}, status.Conflict("pack "+packID+" exists with different content; packs are immutable").
			WithDetail("existing_hash", canon.Format(existingHex)).
			WithDetail("new_hash", canon.Format(hexd))
	}

	if err := e.store.WriteJSONAtomic(ctx, packPath, pack); err != nil {
		return StoreResult{}, err
	}

	// Index append is read-modify-write; concurrent stores may drop an
	// entry (last writer wins). The pack file itself is authoritative.
	var index model.PackIndex
	indexPath := model.PackIndexPath(missionID)
	if ok, err := e.store.Exists(ctx, indexPath); err == nil && ok {
		if err := e.store.ReadJSON(ctx, indexPath, &index); err != nil {
			index = model.PackIndex{}
		}
	}
	index.Packs = append(index.Packs, model.PackIndexEntry{
		PackID:   packID,
		Type:     packType,
		Hash:     hexd,
		StoredAt: e.clock().UTC().Format(time.RFC3339),
	})
	if err := e.store.WriteJSONAtomic(ctx, indexPath, index); err != nil {
		return StoreResult{}, err
	}

	e.log.Info("stored pack",
		zap.String("mission_id", missionID),
		zap.String("pack_id", packID),
		zap.String("hash", hexd))
	return StoreResult{PackID: packID, Hash: hexd}, nil
}

// Get returns a stored pack, or nil when the id is unknown.
func (e *Engine) Get(ctx context.Context, missionID, packID string) (map[string]interface{}, error) {
	if _, err := model.ValidateID("mission_id", missionID); err != nil {
		return nil, err
	}
	if _, err := model.ValidateID("pack_id", packID); err != nil {
		return nil, err
	}
	p := model.PackPath(missionID, packID)
	ok, err := e.store.Exists(ctx, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var pack map[string]interface{}
	if err := e.store.ReadJSON(ctx, p, &pack); err != nil {
		return nil, err
	}
	return pack, nil
}

// List returns the index entries of a mission's packs, optionally
// filtered by type (case-insensitive). A missing or broken index yields
// an empty list.
func (e *Engine) List(ctx context.Context, missionID, packType string) ([]model.PackIndexEntry, error) {
	if _, err := model.ValidateID("mission_id", missionID); err != nil {
		return nil, err
	}
	indexPath := model.PackIndexPath(missionID)
	ok, err := e.store.Exists(ctx, indexPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.PackIndexEntry{}, nil
	}
	var index model.PackIndex
	if err := e.store.ReadJSON(ctx, indexPath, &index); err != nil {
		return []model.PackIndexEntry{}, nil
	}
	if index.Packs == nil {
		index.Packs = []model.PackIndexEntry{}
	}
	if packType == "" {
		return index.Packs, nil
	}
	target := strings.ToUpper(strings.TrimSpace(packType))
	out := make([]model.PackIndexEntry, 0, len(index.Packs))
	for _, entry := range index.Packs {
		if strings.ToUpper(entry.Type) == target {
			out = append(out, entry)
		}
	}
	return out, nil
}

// packIDAndType extracts the id and declared type from a pack's top level
// or its pack_meta block.
func packIDAndType(pack map[string]interface{}) (string, string) {
	id, _ := pack["pack_id"].(string)
	meta, _ := pack["pack_meta"].(map[string]interface{})
	var packType string
	if meta != nil {
		if id == "" {
			id, _ = meta["pack_id"].(string)
		}
		if t, ok := meta["pack_type"].(string); ok && t != "" {
			packType = t
		} else if t, ok := meta["type"].(string); ok {
			packType = t
		}
	}
	return strings.TrimSpace(id), strings.TrimSpace(packType)
}
