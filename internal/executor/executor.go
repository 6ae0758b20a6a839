// Package executor runs a parsed search command against a resolved set
// of projects: fan out one search per query term, combine the per-term
// result sets with the command's boolean expression, then reassemble and
// print what survives.
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"gls/internal/expr"
	"gls/internal/gitlab"
	"gls/internal/output"
	"gls/internal/parser"
)

// Searcher is the slice of the GitLab client the executor needs.
type Searcher interface {
	SearchBlobsInProjects(ctx context.Context, projects []gitlab.Project, criteria gitlab.SearchCriteria) ([]gitlab.ProjectBlobs, error)
	SearchFilenamesInProjects(ctx context.Context, projects []gitlab.Project, patterns *gitlab.FilePatterns) ([]gitlab.ProjectFiles, error)
	SearchScopeInProjects(ctx context.Context, projects []gitlab.Project, scope, query string) ([]gitlab.ProjectRecords, error)
}

// Executor orchestrates per-term searches and set evaluation.
type Executor struct {
	client  Searcher
	printer *output.Printer
	logger  *slog.Logger
}

func New(client Searcher, printer *output.Printer, logger *slog.Logger) *Executor {
	return &Executor{client: client, printer: printer, logger: logger}
}

// Run executes the command's searches over every requested scope. Search
// results arrive in nondeterministic order from the concurrent fan-out;
// reassembly restores a deterministic order keyed by term order and
// first-hit project order.
func (e *Executor) Run(ctx context.Context, cmd *parser.Command, projects []gitlab.Project) error {
	queries := cmd.AllQueries()

	criteria := gitlab.SearchCriteria{
		Filename:  cmd.Filename,
		Extension: cmd.Extension,
		Path:      cmd.Path,
	}
	patterns, err := gitlab.CompileFilePatterns(criteria)
	if err != nil {
		return err
	}
	filter, err := NewExclusionFilter(cmd.ExcludeFilenames, cmd.ExcludeExtensions, cmd.ExcludePaths)
	if err != nil {
		return err
	}

	for _, scope := range cmd.Scopes {
		switch scope {
		case parser.ScopeBlobs:
			results, err := e.runBlobSearch(ctx, cmd.Expression, queries, criteria, projects)
			if err != nil {
				return err
			}
			results = filterBlobs(results, filter)
			e.printer.PrintBlobResults(queries, results)
		case parser.ScopeFiles:
			results, err := e.client.SearchFilenamesInProjects(ctx, projects, patterns)
			if err != nil {
				return err
			}
			results = filterFiles(results, filter)
			e.printer.PrintFileResults(results)
		default:
			results, err := e.runScopeSearch(ctx, cmd.Expression, queries, scope, projects)
			if err != nil {
				return err
			}
			e.printer.PrintScopeResults(scope, queries, results)
		}
	}
	return nil
}

// blobBucket accumulates the matches observed for one file identity.
type blobBucket struct {
	project gitlab.Project
	matches []gitlab.BlobMatch
}

// runBlobSearch searches every term concurrently, evaluates the boolean
// expression over the per-term identity sets, and reassembles surviving
// matches grouped by project.
func (e *Executor) runBlobSearch(ctx context.Context, root expr.Node, queries []string, criteria gitlab.SearchCriteria, projects []gitlab.Project) ([]gitlab.ProjectBlobs, error) {
	if root == nil || len(queries) == 0 {
		return nil, nil
	}

	raw := make([][]gitlab.ProjectBlobs, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, term := range queries {
		i, term := i, term
		g.Go(func() error {
			c := criteria
			c.Query = term
			found, err := e.client.SearchBlobsInProjects(gctx, projects, c)
			if err != nil {
				return fmt.Errorf("searching %q: %w", term, err)
			}
			raw[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	buckets := make(map[Identity]*blobBucket)
	order := make([][]Identity, len(queries))
	idSets := make(map[string]expr.Set[Identity], len(queries))
	universe := expr.NewSet[Identity]()

	for i, term := range queries {
		set := expr.NewSet[Identity]()
		for _, pb := range raw[i] {
			for _, m := range pb.Matches {
				id := blobIdentity(pb.Project, m)
				if !set.Contains(id) {
					order[i] = append(order[i], id)
				}
				set[id] = struct{}{}
				universe[id] = struct{}{}
				b := buckets[id]
				if b == nil {
					b = &blobBucket{project: pb.Project}
					buckets[id] = b
				}
				b.matches = append(b.matches, m)
			}
		}
		idSets[term] = set
	}
	e.logger.Debug("blob search complete", "terms", len(queries), "candidates", len(universe))

	selected, err := expr.Freeze(root, universe).Evaluate(idSets)
	if err != nil {
		return nil, err
	}

	var results []gitlab.ProjectBlobs
	index := make(map[int64]int)
	emitted := make(map[Identity]struct{})
	for i := range queries {
		for _, id := range order[i] {
			if !selected.Contains(id) {
				continue
			}
			if _, done := emitted[id]; done {
				continue
			}
			emitted[id] = struct{}{}
			b := buckets[id]
			pos, ok := index[id.ProjectID]
			if !ok {
				pos = len(results)
				index[id.ProjectID] = pos
				results = append(results, gitlab.ProjectBlobs{Project: b.project})
			}
			results[pos].Matches = append(results[pos].Matches, dedupeMatches(b.matches)...)
		}
	}
	return results, nil
}

// dedupeMatches drops exact duplicate line regions while keeping order.
// The same region can arrive once per term that matches it.
func dedupeMatches(matches []gitlab.BlobMatch) []gitlab.BlobMatch {
	seen := make(map[gitlab.BlobMatch]struct{}, len(matches))
	out := matches[:0:0]
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// recordBucket accumulates one scope record and its owning project. The
// first payload observed for an identity wins; later terms returning the
// same object carry the same content.
type recordBucket struct {
	project gitlab.Project
	record  gitlab.RawRecord
}

// runScopeSearch is the generic-scope twin of runBlobSearch: issues,
// merge requests, milestones, wiki pages, commits and notes all share
// one identity-keyed evaluation path.
func (e *Executor) runScopeSearch(ctx context.Context, root expr.Node, queries []string, scope string, projects []gitlab.Project) ([]gitlab.ProjectRecords, error) {
	if root == nil || len(queries) == 0 {
		return nil, nil
	}

	raw := make([][]gitlab.ProjectRecords, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, term := range queries {
		i, term := i, term
		g.Go(func() error {
			found, err := e.client.SearchScopeInProjects(gctx, projects, scope, term)
			if err != nil {
				return fmt.Errorf("searching %s for %q: %w", scope, term, err)
			}
			raw[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	buckets := make(map[Identity]*recordBucket)
	order := make([][]Identity, len(queries))
	idSets := make(map[string]expr.Set[Identity], len(queries))
	universe := expr.NewSet[Identity]()

	for i, term := range queries {
		set := expr.NewSet[Identity]()
		for _, pr := range raw[i] {
			for _, rec := range pr.Records {
				id := scopeIdentity(pr.Project, rec, scope)
				if !set.Contains(id) {
					order[i] = append(order[i], id)
				}
				set[id] = struct{}{}
				universe[id] = struct{}{}
				if _, ok := buckets[id]; !ok {
					buckets[id] = &recordBucket{project: pr.Project, record: rec}
				}
			}
		}
		idSets[term] = set
	}
	e.logger.Debug("scope search complete", "scope", scope, "terms", len(queries), "candidates", len(universe))

	selected, err := expr.Freeze(root, universe).Evaluate(idSets)
	if err != nil {
		return nil, err
	}

	var results []gitlab.ProjectRecords
	index := make(map[int64]int)
	emitted := make(map[Identity]struct{})
	for i := range queries {
		for _, id := range order[i] {
			if !selected.Contains(id) {
				continue
			}
			if _, done := emitted[id]; done {
				continue
			}
			emitted[id] = struct{}{}
			b := buckets[id]
			pos, ok := index[id.ProjectID]
			if !ok {
				pos = len(results)
				index[id.ProjectID] = pos
				results = append(results, gitlab.ProjectRecords{Project: b.project})
			}
			results[pos].Records = append(results[pos].Records, b.record)
		}
	}
	return results, nil
}

// filterBlobs applies the exclusion filter after evaluation; projects
// left without matches disappear entirely.
func filterBlobs(results []gitlab.ProjectBlobs, filter *ExclusionFilter) []gitlab.ProjectBlobs {
	if filter.Empty() {
		return results
	}
	var out []gitlab.ProjectBlobs
	for _, pb := range results {
		var kept []gitlab.BlobMatch
		for _, m := range pb.Matches {
			if !filter.Matches(m.Filename, m.Filename) {
				kept = append(kept, m)
			}
		}
		if len(kept) > 0 {
			out = append(out, gitlab.ProjectBlobs{Project: pb.Project, Matches: kept})
		}
	}
	return out
}

func filterFiles(results []gitlab.ProjectFiles, filter *ExclusionFilter) []gitlab.ProjectFiles {
	if filter.Empty() {
		return results
	}
	var out []gitlab.ProjectFiles
	for _, pf := range results {
		var kept []gitlab.FileEntry
		for _, f := range pf.Files {
			if !filter.Matches(f.Name, f.Path) {
				kept = append(kept, f)
			}
		}
		if len(kept) > 0 {
			out = append(out, gitlab.ProjectFiles{Project: pf.Project, Files: kept})
		}
	}
	return out
}
