package parser

import "gls/internal/expr"

// Archived filter values accepted by --archived.
const (
	ArchivedInclude = "include"
	ArchivedOnly    = "only"
	ArchivedExclude = "exclude"
)

// ScopeBlobs and ScopeFiles get dedicated handling in the executor; every
// other scope goes through the generic scope search.
const (
	ScopeBlobs = "blobs"
	ScopeFiles = "files"
)

var knownScopes = map[string]struct{}{
	ScopeBlobs:       {},
	ScopeFiles:       {},
	"issues":         {},
	"merge_requests": {},
	"milestones":     {},
	"wiki_blobs":     {},
	"commits":        {},
	"notes":          {},
}

// Command is the fully parsed invocation: the query expression, scope
// selectors, exclusions, filters and connection options. It is built once
// per invocation and never mutated afterwards.
type Command struct {
	// Scope selectors (combinable).
	Groups     []string
	Projects   []string
	User       string
	MyProjects bool
	Recursive  bool

	// Exclusions.
	ExcludeProjects   []string
	ExcludeGroups     []string
	ExcludeFilenames  []string
	ExcludeExtensions []string
	ExcludePaths      []string

	// Expression is nil when no -q predicate was given; scopes that can
	// run query-less (filename search) still work without one.
	Expression expr.Node

	// Result scopes and file criteria.
	Scopes    []string
	Filename  string
	Extension string
	Path      string
	Archived  string

	// Connection options.
	APIURL      string
	IgnoreCert  bool
	MaxRequests int
	Token       string
	TokenFile   string
	Color       string
	Debug       bool

	// Setup mode.
	Setup     bool
	ConfigDir string
}

// AllQueries returns the distinct query terms of the expression in
// first-occurrence order, or nil when there is no expression.
func (c *Command) AllQueries() []string {
	return expr.Queries(c.Expression)
}
