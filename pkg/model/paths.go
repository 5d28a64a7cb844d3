// Copyright © 2026 Arka Labs

package model

import "path"

// Storage layout, relative to the storage root:
//
//	state/missions/<mission>/meta.json
//	state/missions/<mission>/status.json
//	state/missions/<mission>/journal.jsonl
//	state/missions/<mission>/contracts/{latest.json,versions/<hash>.json}
//	state/missions/<mission>/packs/<pack>.json, packs_index.json
//	state/missions/<mission>/artifacts/{meta/<id>.json,blobs/<hash>}
//	domain/projects/<project>/profile/{latest.json,versions/<hash>.json}
//	domain/spaces/<s>/workspaces/<w>/docs/<d>/{latest.json,versions/<hash>.json}
//	hindex/{classification,scopes,routing}.json
const (
	missionsRoot = "state/missions"
	projectsRoot = "domain/projects"
	spacesRoot   = "domain/spaces"

	latestFile      = "latest.json"
	versionsDir     = "versions"
	metaFile        = "meta.json"
	statusFile      = "status.json"
	journalFile     = "journal.jsonl"
	decisionsFile   = "decisions.json"
	nextActionsFile = "next_actions.json"
	packsIndexFile  = "packs_index.json"

	// ClassificationConfigPath holds the keyword rules.
	ClassificationConfigPath = "hindex/classification.json"
	// ScopesConfigPath holds the named include/exclude scopes.
	ScopesConfigPath = "hindex/scopes.json"
	// RoutingConfigPath holds the classification to mode table.
	RoutingConfigPath = "hindex/routing.json"
)

// MissionsRoot is the directory scanned when listing missions.
func MissionsRoot() string { return missionsRoot }

// MissionRoot is the base directory of one mission.
func MissionRoot(missionID string) string {
	return path.Join(missionsRoot, missionID)
}

// MissionMetaPath marks mission existence; every mission has one.
func MissionMetaPath(missionID string) string {
	return path.Join(missionsRoot, missionID, metaFile)
}

// MissionStatusPath holds the mutable status summary.
func MissionStatusPath(missionID string) string {
	return path.Join(missionsRoot, missionID, statusFile)
}

// MissionJournalPath is the append-only jsonl journal.
func MissionJournalPath(missionID string) string {
	return path.Join(missionsRoot, missionID, journalFile)
}

// MissionDecisionsPath holds the decision log document.
func MissionDecisionsPath(missionID string) string {
	return path.Join(missionsRoot, missionID, decisionsFile)
}

// MissionNextActionsPath holds the next-actions document.
func MissionNextActionsPath(missionID string) string {
	return path.Join(missionsRoot, missionID, nextActionsFile)
}

// ContractLatestPath is the mutable head pointer of a mission's contract.
func ContractLatestPath(missionID string) string {
	return path.Join(missionsRoot, missionID, "contracts", latestFile)
}

// ContractVersionsDir holds the immutable contract versions.
func ContractVersionsDir(missionID string) string {
	return path.Join(missionsRoot, missionID, "contracts", versionsDir)
}

// ProjectsRoot is the directory scanned when listing project profiles.
func ProjectsRoot() string { return projectsRoot }

// ProfileLatestPath is the mutable head pointer of a project profile.
func ProfileLatestPath(projectID string) string {
	return path.Join(projectsRoot, projectID, "profile", latestFile)
}

// ProfileVersionsDir holds the immutable profile versions.
func ProfileVersionsDir(projectID string) string {
	return path.Join(projectsRoot, projectID, "profile", versionsDir)
}

// DocsRoot is the directory scanned when listing a workspace's documents.
func DocsRoot(spaceID, workspaceID string) string {
	return path.Join(spacesRoot, spaceID, "workspaces", workspaceID, "docs")
}

// DocLatestPath is the mutable head pointer of an enterprise document.
func DocLatestPath(spaceID, workspaceID, docID string) string {
	return path.Join(DocsRoot(spaceID, workspaceID), docID, latestFile)
}

// DocVersionsDir holds the immutable document versions.
func DocVersionsDir(spaceID, workspaceID, docID string) string {
	return path.Join(DocsRoot(spaceID, workspaceID), docID, versionsDir)
}

// VersionPath locates one immutable version by raw hex digest.
func VersionPath(dir, hexDigest string) string {
	return path.Join(dir, hexDigest+".json")
}

// PackPath locates one immutable pack.
func PackPath(missionID, packID string) string {
	return path.Join(missionsRoot, missionID, "packs", packID+".json")
}

// PackIndexPath locates the per-mission pack index.
func PackIndexPath(missionID string) string {
	return path.Join(missionsRoot, missionID, packsIndexFile)
}

// ArtifactMetaPath locates an artifact's metadata record.
func ArtifactMetaPath(missionID, artifactID string) string {
	return path.Join(missionsRoot, missionID, "artifacts", "meta", artifactID+".json")
}

// ArtifactBlobPath locates a deduplicated blob by raw hex digest.
func ArtifactBlobPath(missionID, hexDigest string) string {
	return path.Join(missionsRoot, missionID, "artifacts", "blobs", hexDigest)
}
