// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders research results for people and for tools.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/last30days/internal/research"
	"github.com/pdiddy/last30days/internal/textutil"
	"github.com/pdiddy/last30days/pkg/types"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// ParseFormat maps a flag value to a Format. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case "md":
		return FormatMarkdown, nil
	case FormatTable, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want one of table, json, yaml, markdown, html)", s)
}

// Write renders res to w. synthesis, when non-empty, is included by the
// markdown and HTML formats.
func Write(w io.Writer, res *research.Result, f Format, synthesis string) error {
	switch f {
	case FormatTable, "":
		WriteTable(w, res)
		return nil
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatYAML:
		return WriteYAML(w, res)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(res, synthesis))
		return err
	case FormatHTML:
		return WriteHTML(w, res, synthesis)
	}
	return fmt.Errorf("unknown format %q", f)
}

// WriteTable writes items as a fixed-width table followed by run stats.
func WriteTable(w io.Writer, res *research.Result) {
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
		fmt.Fprintln(w)
	}
	items := res.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-60s  %-18s  %-10s  %-5s\n", "ID", "Title", "Where", "Date", "Rel")
	fmt.Fprintln(w, strings.Repeat("-", 106))
	for _, it := range items {
		fmt.Fprintf(w, "%-5s  %-60s  %-18s  %-10s  %-5.2f\n",
			it.ID, textutil.Truncate(oneLine(it.Title), 60), textutil.Truncate(where(it), 18), it.DateString(), it.Relevance)
	}

	fmt.Fprintf(w, "\n%d Reddit threads, %d X posts", len(res.Reddit), len(res.X))
	if res.DuplicatesRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", res.DuplicatesRemoved)
	}
	fmt.Fprintln(w)
	for _, e := range res.Errors {
		fmt.Fprintf(w, "warning: %s\n", e)
	}
}

// WriteJSON writes res as indented JSON.
func WriteJSON(w io.Writer, res *research.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteYAML writes res in the saved run format.
func WriteYAML(w io.Writer, res *research.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return err
	}
	return enc.Close()
}

// Markdown renders res as a markdown document.
func Markdown(res *research.Result, synthesis string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", res.Topic)
	fmt.Fprintf(&b, "Window %s to %s, sources `%s`.\n\n", res.Window.From, res.Window.To, res.Sources)
	if res.Message != "" {
		fmt.Fprintf(&b, "> %s\n\n", res.Message)
	}
	if synthesis != "" {
		b.WriteString("## Synthesis\n\n")
		b.WriteString(strings.TrimSpace(synthesis))
		b.WriteString("\n\n")
	}

	writeSection(&b, "Reddit", res.Reddit, "No Reddit threads found.")
	writeSection(&b, "X", res.X, "No X posts found.")

	if len(res.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range res.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeSection(b *strings.Builder, name string, items []types.ResearchItem, empty string) {
	fmt.Fprintf(b, "## %s (%d)\n\n", name, len(items))
	if len(items) == 0 {
		fmt.Fprintf(b, "%s\n\n", empty)
		return
	}
	for _, it := range items {
		title := oneLine(it.Title)
		if title == "" {
			title = it.URL
		}
		fmt.Fprintf(b, "- **%s** [%s](%s)", it.ID, escapeBrackets(title), it.URL)
		if wh := where(it); wh != "" {
			fmt.Fprintf(b, " %s", wh)
		}
		if d := it.DateString(); d != "" {
			fmt.Fprintf(b, ", %s", d)
		}
		fmt.Fprintf(b, ", relevance %.2f\n", it.Relevance)
		if it.WhyRelevant != "" {
			fmt.Fprintf(b, "  *%s*\n", oneLine(it.WhyRelevant))
		}
	}
	b.WriteString("\n")
}

// WriteHTML converts the markdown rendering to a standalone HTML page.
func WriteHTML(w io.Writer, res *research.Result, synthesis string) error {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(res, synthesis)), &body); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(res.Topic), body.String())
	return err
}

func where(it types.ResearchItem) string {
	switch {
	case it.Subreddit != "":
		return "r/" + it.Subreddit
	case it.Author != "":
		return "@" + it.Author
	}
	return ""
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func escapeBrackets(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(s)
}
