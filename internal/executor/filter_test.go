package executor

import (
	"strings"
	"testing"
)

func TestExclusionFilterMatches(t *testing.T) {
	filter, err := NewExclusionFilter(
		[]string{"*_test.go", "Makefile"},
		[]string{"md", ".txt"},
		[]string{"vendor/*", "third_party/*"},
	)
	if err != nil {
		t.Fatalf("NewExclusionFilter: %v", err)
	}

	tests := []struct {
		filename string
		path     string
		want     bool
	}{
		{"main.go", "cmd/main.go", false},
		{"main_test.go", "cmd/main_test.go", true},
		{"Makefile", "Makefile", true},
		{"makefile", "makefile", true},
		{"readme.md", "readme.md", true},
		{"notes.txt", "docs/notes.txt", true},
		{"lib.go", "vendor/lib.go", true},
		{"lib.go", "third_party/lib.go", true},
		{"lib.go", "pkg/lib.go", false},
		// An empty path falls back to the filename for path patterns.
		{"vendor/dep.go", "", true},
	}

	for _, tt := range tests {
		if got := filter.Matches(tt.filename, tt.path); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.filename, tt.path, got, tt.want)
		}
	}
}

func TestExclusionFilterEmpty(t *testing.T) {
	filter, err := NewExclusionFilter(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewExclusionFilter: %v", err)
	}
	if !filter.Empty() {
		t.Error("filter with no patterns should be empty")
	}
	if filter.Matches("anything.go", "any/path.go") {
		t.Error("empty filter must not match")
	}
}

// Every invalid pattern is reported, not just the first.
func TestExclusionFilterReportsAllBadPatterns(t *testing.T) {
	_, err := NewExclusionFilter([]string{"[bad", "also["}, nil, []string{"[worse"})
	if err == nil {
		t.Fatal("invalid patterns accepted")
	}
	for _, want := range []string{"[bad", "also[", "[worse"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
