package gitlab

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// FilePatterns are the compiled inclusion patterns from a SearchCriteria,
// used for client-side matching in filename search and for deciding which
// results to highlight. All matching is case-insensitive.
type FilePatterns struct {
	filename  glob.Glob
	extension string
	path      glob.Glob
}

// CompileFilePatterns compiles the filename/extension/path criteria.
// Wildcard '*' is supported in filename and path patterns; the extension
// is a plain suffix normalized to a leading dot.
func CompileFilePatterns(c SearchCriteria) (*FilePatterns, error) {
	p := &FilePatterns{}
	if c.Filename != "" {
		g, err := glob.Compile(strings.ToLower(c.Filename))
		if err != nil {
			return nil, fmt.Errorf("invalid filename pattern %q: %w", c.Filename, err)
		}
		p.filename = g
	}
	if c.Extension != "" {
		ext := strings.ToLower(c.Extension)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		p.extension = ext
	}
	if c.Path != "" {
		g, err := glob.Compile(strings.ToLower(c.Path))
		if err != nil {
			return nil, fmt.Errorf("invalid path pattern %q: %w", c.Path, err)
		}
		p.path = g
	}
	return p, nil
}

// HasAny reports whether any pattern is set.
func (p *FilePatterns) HasAny() bool {
	return p.filename != nil || p.extension != "" || p.path != nil
}

// Matches reports whether name and path satisfy every set pattern.
func (p *FilePatterns) Matches(name, path string) bool {
	name = strings.ToLower(name)
	path = strings.ToLower(path)
	if p.filename != nil && !p.filename.Match(name) {
		return false
	}
	if p.extension != "" && !strings.HasSuffix(name, p.extension) {
		return false
	}
	if p.path != nil && !p.path.Match(path) {
		return false
	}
	return true
}
