package gitlab

import (
	"net/url"
	"strings"
)

// Group is a GitLab group. ID is a string because a group may be named by
// numeric ID or by path, and unresolved selector names pass through
// unchanged.
type Group struct {
	ID   string
	Name string
}

// apiGroup is the wire shape of a group record.
type apiGroup struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullPath string `json:"full_path"`
}

// Project is a GitLab project. Projects are deduplicated by ID across all
// scope-resolution sources.
type Project struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	WebURL   string `json:"web_url"`
	Archived bool   `json:"archived"`
}

// BlobMatch is one content match from a blob search. GitLab may return
// several of these for the same file, one per matching line region.
type BlobMatch struct {
	Data      string `json:"data"`
	Filename  string `json:"filename"`
	Ref       string `json:"ref"`
	Startline int    `json:"startline"`
}

// FileEntry is one file from a repository tree listing.
type FileEntry struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// RawRecord is one undecoded result from a generic scope search (issues,
// merge requests, milestones, wiki pages, commits, notes). The fields
// worth rendering differ per scope, so decoding stays with the consumer.
type RawRecord map[string]any

// ProjectBlobs groups a project's blob matches for one search.
type ProjectBlobs struct {
	Project Project
	Matches []BlobMatch
}

// ProjectFiles groups a project's filename search hits.
type ProjectFiles struct {
	Project Project
	Files   []FileEntry
}

// ProjectRecords groups a project's generic scope search hits.
type ProjectRecords struct {
	Project Project
	Records []RawRecord
}

// SearchCriteria carries a blob search query and the optional server-side
// file filters appended to it.
type SearchCriteria struct {
	Query     string
	Filename  string
	Extension string
	Path      string
}

// queryString renders the criteria as a GitLab search string with
// filename:/extension:/path: qualifiers, URL-encoded.
func (c SearchCriteria) queryString() string {
	parts := []string{c.Query}
	if c.Filename != "" {
		parts = append(parts, "filename:"+c.Filename)
	}
	if c.Extension != "" {
		parts = append(parts, "extension:"+c.Extension)
	}
	if c.Path != "" {
		parts = append(parts, "path:"+c.Path)
	}
	return url.QueryEscape(strings.Join(parts, " "))
}
