// Copyright © 2026 Arka Labs

package versioned

import (
	"context"
	"sort"
	"strings"

	"github.com/arkalabs/hcm/pkg/model"
	"github.com/arkalabs/hcm/pkg/storage"
)

// ProfileSummary is one row of the project profile listing.
type ProfileSummary struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	VersionHash string `json:"version_hash"`
	CreatedAt   string `json:"created_at"`
}

// ProfileSummaries scans all project profile heads. Broken or incomplete
// entries are skipped; results sort by project name.
func ProfileSummaries(ctx context.Context, store storage.Store) ([]ProfileSummary, error) {
	files, err := store.ListRecursive(ctx, model.ProjectsRoot())
	if err != nil {
		return nil, err
	}
	items := make([]ProfileSummary, 0, len(files))
	for _, p := range files {
		if !strings.HasSuffix(p, "/profile/latest.json") {
			continue
		}
		var doc model.Document
		if err := store.ReadJSON(ctx, p, &doc); err != nil {
			continue
		}
		meta := doc.Meta()
		item := ProfileSummary{
			ProjectID:   stringField(doc, "project_id"),
			ProjectName: nestedStringField(doc, "profile", "project_name"),
			VersionHash: meta.VersionHash,
			CreatedAt:   meta.CreatedAt,
		}
		if item.ProjectID == "" || item.ProjectName == "" || item.VersionHash == "" || item.CreatedAt == "" {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProjectName < items[j].ProjectName
	})
	return items, nil
}

// DocSummary is one row of a workspace document listing.
type DocSummary struct {
	DocID       string `json:"doc_id"`
	Title       string `json:"title"`
	VersionHash string `json:"version_hash"`
	CreatedAt   string `json:"created_at"`
}

// DocSummaries scans the document heads of one workspace. Broken or
// incomplete entries are skipped; results sort by title.
func DocSummaries(ctx context.Context, store storage.Store, spaceID, workspaceID string) ([]DocSummary, error) {
	if _, err := model.ValidateID("space_id", spaceID); err != nil {
		return nil, err
	}
	if _, err := model.ValidateID("workspace_id", workspaceID); err != nil {
		return nil, err
	}
	files, err := store.ListRecursive(ctx, model.DocsRoot(spaceID, workspaceID))
	if err != nil {
		return nil, err
	}
	items := make([]DocSummary, 0, len(files))
	for _, p := range files {
		if !strings.HasSuffix(p, "/latest.json") {
			continue
		}
		var doc model.Document
		if err := store.ReadJSON(ctx, p, &doc); err != nil {
			continue
		}
		meta := doc.Meta()
		item := DocSummary{
			DocID:       stringField(doc, "doc_id"),
			Title:       nestedStringField(doc, "content", "title"),
			VersionHash: meta.VersionHash,
			CreatedAt:   meta.CreatedAt,
		}
		if item.DocID == "" || item.VersionHash == "" {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Title < items[j].Title
	})
	return items, nil
}

func stringField(doc model.Document, key string) string {
	s, _ := doc[key].(string)
	return strings.TrimSpace(s)
}

func nestedStringField(doc model.Document, key, sub string) string {
	m, _ := doc[key].(map[string]interface{})
	if m == nil {
		return ""
	}
	s, _ := m[sub].(string)
	return strings.TrimSpace(s)
}
