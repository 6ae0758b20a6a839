package executor

import (
	"fmt"
	"strconv"

	"gls/internal/gitlab"
)

// Identity uniquely names one matchable object within a scope. It is the
// key for the set algebra across query terms and for deduplication at
// reassembly, so it must be stable across repeated searches of the same
// project. Blob identities are file-level: multiple line matches within
// one file must not fragment AND/OR across terms.
type Identity struct {
	ProjectID int64
	Kind      string
	Key       string
}

func blobIdentity(p gitlab.Project, m gitlab.BlobMatch) Identity {
	return Identity{ProjectID: p.ID, Kind: "blob", Key: m.Filename}
}

func fileIdentity(p gitlab.Project, f gitlab.FileEntry) Identity {
	return Identity{ProjectID: p.ID, Kind: "file", Key: f.Path}
}

// scopeIdentity applies the per-scope item-ID rule table: issues, merge
// requests and milestones use their project-internal iid (distinct from
// the global id), commits use their content-derived sha since they carry
// no numeric id, notes and unknown scopes use the global id. The rules
// are heuristic and scope-specific; check the identity field's actual
// uniqueness guarantee before extending them to new object types.
func scopeIdentity(p gitlab.Project, rec gitlab.RawRecord, scope string) Identity {
	var key string
	switch scope {
	case "issues", "merge_requests", "milestones":
		key = recordKey(rec, "iid", "id")
	case "commits":
		key = recordKey(rec, "id", "short_id")
	default:
		key = recordKey(rec, "id")
	}
	return Identity{ProjectID: p.ID, Kind: scope, Key: key}
}

// recordKey renders the first present field of the record as a stable
// string key. JSON numbers arrive as float64; GitLab ids fit int64.
func recordKey(rec gitlab.RawRecord, fields ...string) string {
	for _, f := range fields {
		switch v := rec[f].(type) {
		case nil:
			continue
		case float64:
			return strconv.FormatInt(int64(v), 10)
		case string:
			return v
		default:
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}
