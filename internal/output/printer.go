// Package output renders search results for the terminal. Rendering is
// display-only: result selection and ordering are fixed by the executor
// before anything reaches a Printer.
package output

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"gls/internal/gitlab"
)

// Printer prints search results with optional ANSI styling.
type Printer struct {
	out      io.Writer
	match    *color.Color
	project  *color.Color
	archived *color.Color
	link     *color.Color
	success  *color.Color
}

// NewPrinter creates a printer writing to out. mode is one of "auto",
// "always", "never"; auto enables color only when stdout is a terminal.
func NewPrinter(out io.Writer, mode string) *Printer {
	enabled := false
	switch mode {
	case "always":
		enabled = true
	case "never":
		enabled = false
	default:
		enabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	newColor := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}

	return &Printer{
		out:      out,
		match:    newColor(color.FgRed),
		project:  newColor(color.FgGreen, color.Bold),
		archived: newColor(color.FgRed, color.Bold),
		link:     newColor(color.Underline),
		success:  newColor(color.FgGreen),
	}
}

// highlight marks every occurrence of any term in red, matching
// case-insensitively while preserving the original case in the output.
func (p *Printer) highlight(terms []string, text string) string {
	for _, term := range terms {
		if term == "" {
			continue
		}
		pattern := regexp.MustCompile("(?i)(" + regexp.QuoteMeta(term) + ")")
		text = pattern.ReplaceAllStringFunc(text, func(m string) string {
			return p.match.Sprint(m)
		})
	}
	return text
}

// urlToLine builds a link to the matched line range of a file.
func urlToLine(project gitlab.Project, m gitlab.BlobMatch) string {
	endLine := m.Startline + strings.Count(m.Data, "\n") - 1
	return fmt.Sprintf("%s/blob/%s/%s#L%d-%d", project.WebURL, m.Ref, m.Filename, m.Startline, endLine)
}

// indentPreview keeps multiline previews aligned under their URL.
func indentPreview(preview string) string {
	return strings.ReplaceAll(preview, "\n", "\n\t\t")
}

// extractSnippet returns a context window around the first occurrence of
// any term in text, with ellipsis where truncated, or "" when no term
// occurs.
func extractSnippet(text string, terms []string, contextChars int) string {
	for _, term := range terms {
		if term == "" {
			continue
		}
		idx := strings.Index(strings.ToLower(text), strings.ToLower(term))
		if idx < 0 {
			continue
		}
		start := idx - contextChars
		if start < 0 {
			start = 0
		}
		end := idx + len(term) + contextChars
		if end > len(text) {
			end = len(text)
		}
		snippet := text[start:end]
		if start > 0 {
			snippet = "..." + snippet
		}
		if end < len(text) {
			snippet += "..."
		}
		return snippet
	}
	return ""
}

func (p *Printer) printProjectHeader(project gitlab.Project) {
	archivedInfo := ""
	if project.Archived {
		archivedInfo = p.archived.Sprint(" (archived)")
	}
	fmt.Fprintf(p.out, "%s%s:\n", p.project.Sprint(project.Name), archivedInfo)
}

// PrintBlobResults prints content matches grouped by project, one
// line-anchored URL plus highlighted preview per match.
func (p *Printer) PrintBlobResults(terms []string, results []gitlab.ProjectBlobs) {
	for _, pb := range results {
		p.printProjectHeader(pb.Project)
		for _, m := range pb.Matches {
			url := urlToLine(pb.Project, m)
			data := p.highlight(terms, indentPreview(strings.TrimRight(m.Data, "\n")))
			fmt.Fprintf(p.out, "\n\t%s\n\n\t\t%s\n", p.link.Sprint(url), data)
		}
	}
}

// PrintFileResults prints filename search hits as blob URLs.
func (p *Printer) PrintFileResults(results []gitlab.ProjectFiles) {
	for _, pf := range results {
		p.printProjectHeader(pf.Project)
		for _, f := range pf.Files {
			url := fmt.Sprintf("%s/-/blob/HEAD/%s", pf.Project.WebURL, f.Path)
			fmt.Fprintf(p.out, "\t%s\n", p.link.Sprint(url))
		}
	}
}

// PrintScopeResults prints generic scope records with per-scope layouts.
func (p *Printer) PrintScopeResults(scope string, terms []string, results []gitlab.ProjectRecords) {
	for _, pr := range results {
		p.printProjectHeader(pr.Project)
		for _, rec := range pr.Records {
			switch scope {
			case "issues", "merge_requests", "milestones":
				p.printWorkItem(terms, rec)
			case "wiki_blobs":
				p.printWikiBlob(terms, pr.Project, rec)
			case "commits":
				p.printCommit(rec)
			case "notes":
				p.printNote(terms, rec)
			default:
				fmt.Fprintf(p.out, "\t%v\n", rec)
			}
		}
	}
}

func (p *Printer) printWorkItem(terms []string, rec gitlab.RawRecord) {
	iid := rec["iid"]
	title, _ := rec["title"].(string)
	state, _ := rec["state"].(string)
	webURL, _ := rec["web_url"].(string)
	description, _ := rec["description"].(string)

	fmt.Fprintf(p.out, "\n\t%s\n", p.link.Sprint(webURL))
	fmt.Fprintf(p.out, "\t#%v [%s] %s\n", iid, state, p.highlight(terms, title))

	if snippet := extractSnippet(description, terms, 100); snippet != "" {
		fmt.Fprintf(p.out, "\t\t%s\n", p.highlight(terms, indentPreview(snippet)))
	}
}

func (p *Printer) printWikiBlob(terms []string, project gitlab.Project, rec gitlab.RawRecord) {
	slug, _ := rec["slug"].(string)
	data, _ := rec["data"].(string)
	url := fmt.Sprintf("%s/-/wikis/%s", project.WebURL, slug)
	fmt.Fprintf(p.out, "\t%s\n\n\t\t%s\n", p.link.Sprint(url), p.highlight(terms, indentPreview(data)))
}

func (p *Printer) printCommit(rec gitlab.RawRecord) {
	shortID, _ := rec["short_id"].(string)
	title, _ := rec["title"].(string)
	webURL, _ := rec["web_url"].(string)
	fmt.Fprintf(p.out, "\n\t%s\n", p.link.Sprint(webURL))
	fmt.Fprintf(p.out, "\t%s %s\n", shortID, title)
}

func (p *Printer) printNote(terms []string, rec gitlab.RawRecord) {
	body, _ := rec["body"].(string)
	noteableType, _ := rec["noteable_type"].(string)
	fmt.Fprintf(p.out, "\n\t%s #%v\n", noteableType, rec["noteable_iid"])
	fmt.Fprintf(p.out, "\t\t%s\n", p.highlight(terms, indentPreview(body)))
}

// PrintSuccess prints a confirmation message in green.
func (p *Printer) PrintSuccess(message string) {
	fmt.Fprintln(p.out, p.success.Sprint(message))
}
