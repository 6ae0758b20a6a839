package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"
)

// SearchBlobs searches file contents in a single project. File filters in
// the criteria are applied server-side via search qualifiers.
func (c *Client) SearchBlobs(ctx context.Context, project Project, criteria SearchCriteria) ([]BlobMatch, error) {
	path := fmt.Sprintf("/projects/%d/search?scope=blobs&per_page=%d&search=%s",
		project.ID, perPage, criteria.queryString())
	return getPaginated[BlobMatch](ctx, c, path)
}

// SearchBlobsInProjects fans SearchBlobs out over all projects and joins
// before returning. A 4xx on an individual project counts as zero results
// for that project; transport errors and 5xx abort the whole search.
// Projects without matches are omitted from the result.
func (c *Client) SearchBlobsInProjects(ctx context.Context, projects []Project, criteria SearchCriteria) ([]ProjectBlobs, error) {
	matches := make([][]BlobMatch, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range projects {
		i, p := i, p
		g.Go(func() error {
			found, err := c.SearchBlobs(gctx, p, criteria)
			if err != nil {
				if IsRecoverable(err) {
					c.logger.Debug("blob search failed", "project", p.Name, "error", err)
					return nil
				}
				return err
			}
			matches[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []ProjectBlobs
	for i, p := range projects {
		if len(matches[i]) > 0 {
			results = append(results, ProjectBlobs{Project: p, Matches: matches[i]})
		}
	}
	return results, nil
}

// SearchFilenames lists a project's repository tree and keeps the blobs
// matching the inclusion patterns. Listing failures of any HTTP kind are
// treated as an empty tree (empty repositories and missing default
// branches both answer with errors), so only transport failures abort.
func (c *Client) SearchFilenames(ctx context.Context, project Project, patterns *FilePatterns) ([]FileEntry, error) {
	path := fmt.Sprintf("/projects/%d/repository/tree?recursive=true&per_page=%d&ref=HEAD", project.ID, perPage)
	entries, err := getPaginated[FileEntry](ctx, c, path)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.logger.Debug("tree listing failed", "project", project.Name, "error", err)
			return nil, nil
		}
		return nil, err
	}

	var matching []FileEntry
	for _, f := range entries {
		if f.Type == "blob" && patterns.Matches(f.Name, f.Path) {
			matching = append(matching, f)
		}
	}
	return matching, nil
}

// SearchFilenamesInProjects fans SearchFilenames out over all projects.
// Projects without matches are omitted.
func (c *Client) SearchFilenamesInProjects(ctx context.Context, projects []Project, patterns *FilePatterns) ([]ProjectFiles, error) {
	files := make([][]FileEntry, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range projects {
		i, p := i, p
		g.Go(func() error {
			found, err := c.SearchFilenames(gctx, p, patterns)
			if err != nil {
				return err
			}
			files[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []ProjectFiles
	for i, p := range projects {
		if len(files[i]) > 0 {
			results = append(results, ProjectFiles{Project: p, Files: files[i]})
		}
	}
	return results, nil
}

// SearchScope runs a generic scope search (issues, merge_requests,
// milestones, wiki_blobs, commits, notes) in a single project and returns
// the raw records.
func (c *Client) SearchScope(ctx context.Context, project Project, scope, query string) ([]RawRecord, error) {
	path := fmt.Sprintf("/projects/%d/search?scope=%s&per_page=%d&search=%s",
		project.ID, url.QueryEscape(scope), perPage, url.QueryEscape(query))
	return getPaginated[RawRecord](ctx, c, path)
}

// SearchScopeInProjects fans SearchScope out over all projects with the
// same partial-failure policy as SearchBlobsInProjects.
func (c *Client) SearchScopeInProjects(ctx context.Context, projects []Project, scope, query string) ([]ProjectRecords, error) {
	records := make([][]RawRecord, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range projects {
		i, p := i, p
		g.Go(func() error {
			found, err := c.SearchScope(gctx, p, scope, query)
			if err != nil {
				if IsRecoverable(err) {
					c.logger.Debug("scope search failed", "project", p.Name, "scope", scope, "error", err)
					return nil
				}
				return err
			}
			records[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []ProjectRecords
	for i, p := range projects {
		if len(records[i]) > 0 {
			results = append(results, ProjectRecords{Project: p, Records: records[i]})
		}
	}
	return results, nil
}
