package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// ListGroups resolves group selectors. Named groups pass through without
// a fetch (the API accepts both IDs and paths wherever a group is
// addressed); with no names every group visible to the caller is listed.
func (c *Client) ListGroups(ctx context.Context, names []string) ([]Group, error) {
	if len(names) > 0 {
		groups := make([]Group, len(names))
		for i, name := range names {
			groups[i] = Group{ID: name, Name: name}
		}
		return groups, nil
	}

	data, err := getPaginated[apiGroup](ctx, c, fmt.Sprintf("/groups?per_page=%d", perPage))
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	groups := make([]Group, len(data))
	for i, g := range data {
		groups[i] = Group{ID: strconv.FormatInt(g.ID, 10), Name: g.Name}
	}
	c.logger.Debug("using groups", "count", len(groups))
	return groups, nil
}

// ListDescendantGroups lists all transitive subgroups of a group.
// Best-effort: a failure yields an empty list and a debug log entry, it
// never aborts the run.
func (c *Client) ListDescendantGroups(ctx context.Context, group Group) []Group {
	path := fmt.Sprintf("/groups/%s/descendant_groups?per_page=%d&all_available=true",
		url.PathEscape(group.ID), perPage)
	data, err := getPaginated[apiGroup](ctx, c, path)
	if err != nil {
		c.logger.Debug("failed to list descendant groups", "group", group.Name, "error", err)
		return nil
	}
	descendants := make([]Group, len(data))
	for i, g := range data {
		descendants[i] = Group{ID: strconv.FormatInt(g.ID, 10), Name: g.FullPath}
	}
	c.logger.Debug("descendant groups", "group", group.Name, "count", len(descendants))
	return descendants
}

// ListProjectsInGroups lists the member projects of the given groups,
// deduplicated by project ID in group order. Excluded groups are dropped
// before any fetch, including before recursive descendant expansion, so
// no request is spent on a group that was excluded anyway.
func (c *Client) ListProjectsInGroups(ctx context.Context, groups []Group, archived string, recursive bool, excludeGroups []string) ([]Project, error) {
	groups = dropExcludedGroups(groups, excludeGroups)

	if recursive {
		descendants := make([][]Group, len(groups))
		g, gctx := errgroup.WithContext(ctx)
		for i, grp := range groups {
			i, grp := i, grp
			g.Go(func() error {
				descendants[i] = c.ListDescendantGroups(gctx, grp)
				return nil
			})
		}
		_ = g.Wait()
		for _, d := range descendants {
			groups = append(groups, dropExcludedGroups(d, excludeGroups)...)
		}
		c.logger.Debug("groups after recursive expansion", "count", len(groups))
	}

	pages := make([][]Project, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	for i, grp := range groups {
		i, grp := i, grp
		g.Go(func() error {
			path := fmt.Sprintf("/groups/%s/projects?per_page=%d%s",
				url.PathEscape(grp.ID), perPage, archivedParam(archived))
			projects, err := getPaginated[Project](gctx, c, path)
			if err != nil {
				return fmt.Errorf("failed to list projects of group %s: %w", grp.Name, err)
			}
			pages[i] = projects
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	var all []Project
	for _, page := range pages {
		for _, p := range page {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			all = append(all, p)
		}
	}
	c.logger.Debug("using projects", "count", len(all))
	return all, nil
}

func dropExcludedGroups(groups []Group, exclude []string) []Group {
	if len(exclude) == 0 {
		return groups
	}
	excluded := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		excluded[e] = struct{}{}
	}
	kept := groups[:0:0]
	for _, g := range groups {
		if _, ok := excluded[g.ID]; ok {
			continue
		}
		if _, ok := excluded[g.Name]; ok {
			continue
		}
		kept = append(kept, g)
	}
	return kept
}

// ListProjectsByIDs fetches projects by numeric ID or namespace path. Any
// failure is fatal: an explicitly named project that cannot be fetched
// aborts the run.
func (c *Client) ListProjectsByIDs(ctx context.Context, ids []string) ([]Project, error) {
	projects := make([]Project, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			p, err := getJSON[Project](gctx, c, "/projects/"+url.PathEscape(id))
			if err != nil {
				return fmt.Errorf("failed to fetch project %s: %w", id, err)
			}
			projects[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListUserProjects lists projects owned by the given user.
func (c *Client) ListUserProjects(ctx context.Context, user string, archived string) ([]Project, error) {
	path := fmt.Sprintf("/users/%s/projects?per_page=%d%s", url.PathEscape(user), perPage, archivedParam(archived))
	projects, err := getPaginated[Project](ctx, c, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects of user %s: %w", user, err)
	}
	return projects, nil
}

// ListOwnProjects lists projects the token holder is a member of.
func (c *Client) ListOwnProjects(ctx context.Context, archived string) ([]Project, error) {
	path := fmt.Sprintf("/projects?membership=true&per_page=%d%s", perPage, archivedParam(archived))
	projects, err := getPaginated[Project](ctx, c, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list own projects: %w", err)
	}
	return projects, nil
}
