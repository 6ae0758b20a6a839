package executor

import (
	"testing"

	"gls/internal/gitlab"
)

func TestBlobIdentityIsFileLevel(t *testing.T) {
	p := gitlab.Project{ID: 3}
	first := blobIdentity(p, gitlab.BlobMatch{Filename: "main.go", Startline: 10})
	second := blobIdentity(p, gitlab.BlobMatch{Filename: "main.go", Startline: 99})

	if first != second {
		t.Error("line regions of the same file must share one identity")
	}
	if first == blobIdentity(gitlab.Project{ID: 4}, gitlab.BlobMatch{Filename: "main.go"}) {
		t.Error("same filename in another project must differ")
	}
}

func TestScopeIdentity(t *testing.T) {
	p := gitlab.Project{ID: 1}

	tests := []struct {
		name  string
		scope string
		rec   gitlab.RawRecord
		key   string
	}{
		{"issues use iid", "issues", gitlab.RawRecord{"iid": float64(42), "id": float64(9000)}, "42"},
		{"merge requests use iid", "merge_requests", gitlab.RawRecord{"iid": float64(7), "id": float64(77)}, "7"},
		{"milestones use iid", "milestones", gitlab.RawRecord{"iid": float64(3), "id": float64(33)}, "3"},
		{"iid falls back to id", "issues", gitlab.RawRecord{"id": float64(9000)}, "9000"},
		{"commits use sha", "commits", gitlab.RawRecord{"id": "deadbeef", "short_id": "dead"}, "deadbeef"},
		{"commits fall back to short sha", "commits", gitlab.RawRecord{"short_id": "dead"}, "dead"},
		{"notes use id", "notes", gitlab.RawRecord{"id": float64(5), "iid": float64(1)}, "5"},
		{"missing fields yield empty key", "notes", gitlab.RawRecord{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := scopeIdentity(p, tt.rec, tt.scope)
			if id.Key != tt.key {
				t.Errorf("key = %q, want %q", id.Key, tt.key)
			}
			if id.Kind != tt.scope {
				t.Errorf("kind = %q, want %q", id.Kind, tt.scope)
			}
		})
	}
}

// The same commit returned by two term searches must collapse to one
// identity even though the record is a fresh map each time.
func TestScopeIdentityStableAcrossRecords(t *testing.T) {
	p := gitlab.Project{ID: 1}
	a := scopeIdentity(p, gitlab.RawRecord{"id": "cafe42", "title": "from term a"}, "commits")
	b := scopeIdentity(p, gitlab.RawRecord{"id": "cafe42", "title": "from term b"}, "commits")
	if a != b {
		t.Error("identical commits must share an identity")
	}
}
