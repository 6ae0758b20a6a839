package executor

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
)

// ExclusionFilter drops results whose filename or path matches any
// exclusion pattern (`! -f`, `! -e`, `! -P`). Matching is
// case-insensitive; filters run as a final pass after evaluation.
type ExclusionFilter struct {
	filenames  []glob.Glob
	extensions []string
	paths      []glob.Glob
}

// NewExclusionFilter compiles the exclusion patterns, reporting every
// invalid pattern rather than just the first.
func NewExclusionFilter(filenames, extensions, paths []string) (*ExclusionFilter, error) {
	f := &ExclusionFilter{}
	var errs *multierror.Error

	for _, pattern := range filenames {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("invalid filename exclusion %q: %w", pattern, err))
			continue
		}
		f.filenames = append(f.filenames, g)
	}
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.extensions = append(f.extensions, ext)
	}
	for _, pattern := range paths {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("invalid path exclusion %q: %w", pattern, err))
			continue
		}
		f.paths = append(f.paths, g)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return f, nil
}

// Empty reports whether no exclusion patterns are configured.
func (f *ExclusionFilter) Empty() bool {
	return len(f.filenames) == 0 && len(f.extensions) == 0 && len(f.paths) == 0
}

// Matches reports whether a result with the given filename and path
// should be excluded. An empty path falls back to the filename.
func (f *ExclusionFilter) Matches(filename, path string) bool {
	name := strings.ToLower(filename)
	for _, g := range f.filenames {
		if g.Match(name) {
			return true
		}
	}
	for _, ext := range f.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	checkPath := strings.ToLower(path)
	if checkPath == "" {
		checkPath = name
	}
	for _, g := range f.paths {
		if g.Match(checkPath) {
			return true
		}
	}
	return false
}
