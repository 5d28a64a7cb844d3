// Copyright © 2026 Arka Labs

package versioned

import (
	"strings"

	"github.com/arkalabs/hcm/pkg/model"
	"github.com/arkalabs/hcm/pkg/status"
)

// Paths locates the two views of a record: the mutable head pointer and
// the directory of immutable versions.
type Paths struct {
	Latest      string
	VersionsDir string
}

// Identity is the ordered identity parts of a record, aligned with the
// kind's IdentityKeys (e.g. ["acme"] for a mission contract, or
// ["s1", "w1", "d1"] for an enterprise document).
type Identity []string

// Kind parameterizes the engine for one record family. The identity keys
// and body key define the content-identity subset fed to the hasher;
// everything else in the stored document (schema_version, meta) is
// excluded from hashing. ValidateBody, when set, rejects malformed bodies
// before hashing or any I/O.
type Kind struct {
	Name          string
	SchemaVersion string
	IdentityKeys  []string
	BodyKey       string
	PathsFor      func(id Identity) Paths
	ValidateBody  func(body map[string]interface{}) error
}

// Contracts is the per-mission contract record kind.
func Contracts() Kind {
	return Kind{
		Name:          "contract",
		SchemaVersion: "1.1",
		IdentityKeys:  []string{"mission_id"},
		BodyKey:       "contract",
		PathsFor: func(id Identity) Paths {
			return Paths{
				Latest:      model.ContractLatestPath(id[0]),
				VersionsDir: model.ContractVersionsDir(id[0]),
			}
		},
	}
}

// ProjectProfiles is the per-project profile record kind. A profile must
// carry a project_name; the listing keys on it.
func ProjectProfiles() Kind {
	return Kind{
		Name:          "project_profile",
		SchemaVersion: "1.1",
		IdentityKeys:  []string{"project_id"},
		BodyKey:       "profile",
		PathsFor: func(id Identity) Paths {
			return Paths{
				Latest:      model.ProfileLatestPath(id[0]),
				VersionsDir: model.ProfileVersionsDir(id[0]),
			}
		},
		ValidateBody: func(body map[string]interface{}) error {
			name, _ := body["project_name"].(string)
			if strings.TrimSpace(name) == "" {
				return status.InvalidPayload("profile requires a project_name")
			}
			return nil
		},
	}
}

// EnterpriseDocs is the space/workspace document record kind.
func EnterpriseDocs() Kind {
	return Kind{
		Name:          "doc",
		SchemaVersion: "1.1",
		IdentityKeys:  []string{"space_id", "workspace_id", "doc_id"},
		BodyKey:       "content",
		PathsFor: func(id Identity) Paths {
			return Paths{
				Latest:      model.DocLatestPath(id[0], id[1], id[2]),
				VersionsDir: model.DocVersionsDir(id[0], id[1], id[2]),
			}
		},
	}
}

// validate checks arity and slug-safety of every identity part before any
// path is built.
func (k Kind) validate(id Identity) error {
	if len(id) != len(k.IdentityKeys) {
		return status.InvalidPayload(k.Name + " identity requires " +
			joinKeys(k.IdentityKeys))
	}
	for i, part := range id {
		if _, err := model.ValidateID(k.IdentityKeys[i], part); err != nil {
			return err
		}
	}
	return nil
}

func joinKeys(keys []string) string {
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k
	}
	return out
}
