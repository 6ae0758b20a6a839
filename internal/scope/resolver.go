// Package scope resolves group/project/user selectors and exclusions
// into the deduplicated, ordered list of projects a search targets.
package scope

import (
	"context"
	"log/slog"

	"gls/internal/gitlab"
	"gls/internal/parser"
)

// Lister is the slice of the GitLab client the resolver needs.
type Lister interface {
	ListGroups(ctx context.Context, names []string) ([]gitlab.Group, error)
	ListProjectsInGroups(ctx context.Context, groups []gitlab.Group, archived string, recursive bool, excludeGroups []string) ([]gitlab.Project, error)
	ListProjectsByIDs(ctx context.Context, ids []string) ([]gitlab.Project, error)
	ListUserProjects(ctx context.Context, user string, archived string) ([]gitlab.Project, error)
	ListOwnProjects(ctx context.Context, archived string) ([]gitlab.Project, error)
}

// Resolve builds the target project list: each requested source resolved
// independently (groups, explicit projects, user projects, own projects),
// concatenated with duplicates skipped in first-seen order. With no
// source selected it falls back to every group visible to the caller.
// Excluded projects are resolved last and removed by ID. A source that
// was explicitly named and cannot be fetched is fatal.
func Resolve(ctx context.Context, client Lister, cmd *parser.Command, logger *slog.Logger) ([]gitlab.Project, error) {
	var projects []gitlab.Project
	seen := make(map[int64]struct{})

	add := func(found []gitlab.Project) {
		for _, p := range found {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			projects = append(projects, p)
		}
	}

	fromGroups := func(names []string) error {
		groups, err := client.ListGroups(ctx, names)
		if err != nil {
			return err
		}
		found, err := client.ListProjectsInGroups(ctx, groups, cmd.Archived, cmd.Recursive, cmd.ExcludeGroups)
		if err != nil {
			return err
		}
		add(found)
		return nil
	}

	if len(cmd.Groups) > 0 {
		if err := fromGroups(cmd.Groups); err != nil {
			return nil, err
		}
	}

	if len(cmd.Projects) > 0 {
		found, err := client.ListProjectsByIDs(ctx, cmd.Projects)
		if err != nil {
			return nil, err
		}
		add(found)
	}

	if cmd.User != "" {
		found, err := client.ListUserProjects(ctx, cmd.User, cmd.Archived)
		if err != nil {
			return nil, err
		}
		add(found)
	}

	if cmd.MyProjects {
		found, err := client.ListOwnProjects(ctx, cmd.Archived)
		if err != nil {
			return nil, err
		}
		add(found)
	}

	// No source selected: search everything visible.
	if len(cmd.Groups) == 0 && len(cmd.Projects) == 0 && cmd.User == "" && !cmd.MyProjects {
		if err := fromGroups(nil); err != nil {
			return nil, err
		}
	}

	if len(cmd.ExcludeProjects) > 0 {
		excluded, err := client.ListProjectsByIDs(ctx, cmd.ExcludeProjects)
		if err != nil {
			return nil, err
		}
		excludedIDs := make(map[int64]struct{}, len(excluded))
		for _, p := range excluded {
			excludedIDs[p.ID] = struct{}{}
		}
		kept := projects[:0]
		for _, p := range projects {
			if _, ok := excludedIDs[p.ID]; !ok {
				kept = append(kept, p)
			}
		}
		logger.Debug("excluded projects", "count", len(projects)-len(kept))
		projects = kept
	}

	logger.Debug("resolved projects", "count", len(projects))
	return projects, nil
}
