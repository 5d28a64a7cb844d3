// Copyright © 2026 Arka Labs

// Package missions manages mission state: scaffolding the mission tree,
// the append-only journal, and the composite mission context assembled
// from the mission's sibling files.
package missions

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/arkalabs/hcm/pkg/model"
	"github.com/arkalabs/hcm/pkg/status"
	"github.com/arkalabs/hcm/pkg/storage"
)

// journalTailLimit bounds how many trailing journal entries a mission
// context carries.
const journalTailLimit = 50

// jsonAPI matches the gateway's codec configuration.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Engine manages mission state.
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

// WithClock overrides the time source for timestamps.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// New creates a mission engine over the given store.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{store: store, log: zap.NewNop(), clock: time.Now}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

// Scaffold creates the mission tree: core directories, the meta document,
// an empty pack index, an initial status, and the first journal event.
func (e *Engine) Scaffold(ctx context.Context, missionID string, meta map[string]interface{}) error {
	if _, err := model.ValidateID("mission_id", missionID); err != nil {
		return err
	}
	root := model.MissionRoot(missionID)
	for _, dir := range []string{
		root,
		root + "/evidence",
		root + "/snapshots",
		model.ContractVersionsDir(missionID),
		root + "/packs",
		root + "/artifacts/meta",
		root + "/artifacts/blobs",
	} {
		if err := e.store.EnsureDir(ctx, dir); err != nil {
			return err
		}
	}

	now := e.clock().UTC().Format(time.RFC3339)
	metaDoc := make(map[string]interface{}, len(meta)+3)
	for k, v := range meta {
		metaDoc[k] = v
	}
	metaDoc["mission_id"] = missionID
	metaDoc["schema_version"] = "1.1"
	metaDoc["created_at"] = now
	if err := e.store.WriteJSONAtomic(ctx, model.MissionMetaPath(missionID), metaDoc); err != nil {
		return err
	}

	if err := e.store.WriteJSONAtomic(ctx, model.PackIndexPath(missionID), model.PackIndex{Packs: []model.PackIndexEntry{}}); err != nil {
		return err
	}
	if err := e.store.WriteJSONAtomic(ctx, model.MissionStatusPath(missionID), map[string]interface{}{
		"phase":  "init",
		"status": "planned",
		"health": "ok",
	}); err != nil {
		return err
	}
	if err := e.store.AppendJSONLine(ctx, model.MissionJournalPath(missionID), model.JournalEntry{
		Timestamp:  now,
		AuthorType: "system",
		AuthorID:   "hcm-scaffold",
		EntryType:  "event",
		Message:    "mission scaffolded",
	}); err != nil {
		return err
	}
	e.log.Info("scaffolded mission", zap.String("mission_id", missionID))
	return nil
}

// AppendJournal validates and appends one journal entry, stamping the
// timestamp when the caller left it empty. The mission must exist.
func (e *Engine) AppendJournal(ctx context.Context, missionID string, entry model.JournalEntry) (model.JournalEntry, error) {
	if _, err := model.ValidateID("mission_id", missionID); err != nil {
		return model.JournalEntry{}, err
	}
	if entry.Message == "" || entry.AuthorID == "" {
		return model.JournalEntry{}, status.InvalidPayload("journal entry requires message and author_id")
	}
	ok, err := e.store.Exists(ctx, model.MissionMetaPath(missionID))
	if err != nil {
		return model.JournalEntry{}, err
	}
	if !ok {
		return model.JournalEntry{}, status.NotFound("mission " + missionID + " not found")
	}
	if entry.Timestamp == "" {
		entry.Timestamp = e.clock().UTC().Format(time.RFC3339)
	}
	if err := e.store.AppendJSONLine(ctx, model.MissionJournalPath(missionID), entry); err != nil {
		return model.JournalEntry{}, err
	}
	return entry, nil
}

// Context is the composite view of one mission.
type Context struct {
	MissionID   string                 `json:"mission_id"`
	Meta        map[string]interface{} `json:"meta"`
	Status      map[string]interface{} `json:"status"`
	JournalTail []model.JournalEntry   `json:"journal_tail"`
	Decisions   []interface{}          `json:"decisions"`
	NextActions []interface{}          `json:"next_actions"`
}

// Context assembles the mission view from the mission's sibling files.
// meta.json is mandatory (not-found when missing); the remaining reads
// fan out concurrently and individually degrade to empty defaults, so one
// broken optional file never fails the whole read.
func (e *Engine) Context(ctx context.Context, missionID string) (*Context, error) {
	if _, err := model.ValidateID("mission_id", missionID); err != nil {
		return nil, err
	}
	metaPath := model.MissionMetaPath(missionID)
	ok, err := e.store.Exists(ctx, metaPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, status.NotFound("mission " + missionID + " not found")
	}

	out := &Context{
		MissionID:   missionID,
		Status:      map[string]interface{}{},
		JournalTail: []model.JournalEntry{},
		Decisions:   []interface{}{},
		NextActions: []interface{}{},
	}
	var metaErr error
	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		metaErr = e.store.ReadJSON(ctx, metaPath, &out.Meta)
	}()
	go func() {
		defer wg.Done()
		var v map[string]interface{}
		if err := e.store.ReadJSON(ctx, model.MissionStatusPath(missionID), &v); err == nil {
			out.Status = v
		}
	}()
	go func() {
		defer wg.Done()
		lines, err := e.store.ReadJSONLines(ctx, model.MissionJournalPath(missionID), journalTailLimit)
		if err != nil {
			return
		}
		for _, raw := range lines {
			var entry model.JournalEntry
			if err := jsonAPI.Unmarshal(raw, &entry); err == nil {
				out.JournalTail = append(out.JournalTail, entry)
			}
		}
	}()
	go func() {
		defer wg.Done()
		out.Decisions = readListField(ctx, e.store, model.MissionDecisionsPath(missionID), "decisions")
	}()
	go func() {
		defer wg.Done()
		out.NextActions = readListField(ctx, e.store, model.MissionNextActionsPath(missionID), "next_actions")
	}()
	wg.Wait()

	if metaErr != nil {
		return nil, metaErr
	}
	return out, nil
}

// readListField reads {<field>: [...]} from an optional companion file,
// degrading to an empty list on any failure.
func readListField(ctx context.Context, store storage.Store, path, field string) []interface{} {
	var doc map[string]interface{}
	if err := store.ReadJSON(ctx, path, &doc); err != nil {
		return []interface{}{}
	}
	if list, ok := doc[field].([]interface{}); ok {
		return list
	}
	return []interface{}{}
}

// List returns the sorted mission ids under the missions root, keeping
// only directories that carry a meta.json. With a business id, missions
// whose meta names a different business are filtered out; missions with
// no business id pass.
func (e *Engine) List(ctx context.Context, businessID string) ([]string, error) {
	files, err := e.store.ListRecursive(ctx, model.MissionsRoot())
	if err != nil {
		return nil, err
	}
	target := strings.TrimSpace(businessID)
	ids := make(map[string]struct{})
	for _, p := range files {
		parts := strings.Split(p, "/")
		if len(parts) != 4 || parts[3] != "meta.json" {
			continue
		}
		missionID := parts[2]
		if target == "" {
			ids[missionID] = struct{}{}
			continue
		}
		var meta map[string]interface{}
		if err := e.store.ReadJSON(ctx, p, &meta); err != nil {
			continue
		}
		metaBusiness, _ := meta["business_id"].(string)
		metaBusiness = strings.TrimSpace(metaBusiness)
		if metaBusiness == "" || metaBusiness == target {
			ids[missionID] = struct{}{}
		}
	}
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
