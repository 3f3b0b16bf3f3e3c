// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/last30days/internal/textutil"
	"github.com/pdiddy/last30days/pkg/types"
)

// Summary limits keep the synthesis request small.
const (
	summaryItems = 15
	titleMax     = 100
	whyMax       = 150
	xTextMax     = 200
)

const synthesisSystemPrompt = `You are a research synthesis expert. You analyze research results from Reddit and X (Twitter) and extract actionable patterns.

Your job:
1. Identify the KEY PATTERNS from the research - what techniques, formats, or approaches appear repeatedly
2. Note which patterns have the highest engagement (upvotes, likes)
3. Identify any caveats or warnings mentioned
4. Determine the recommended PROMPT FORMAT (JSON, structured, natural language, etc.)

Be specific and cite actual sources. Don't make up patterns - only report what's in the research.`

var synthesisUserTmpl = template.Must(template.New("synthesis").Parse(`Analyze this research about "{{.Topic}}" and extract the key patterns.

## Reddit Threads Found:
{{.RedditSummary}}

## X Posts Found:
{{.XSummary}}

Provide your synthesis in this format:

**What I learned:**
[2-4 sentences synthesizing the main insights]

**KEY PATTERNS discovered:**
1. [Pattern 1 - be specific]
2. [Pattern 2]
3. [Pattern 3]
4. [Pattern 4 if applicable]
5. [Pattern 5 if applicable]

**Recommended prompt format:** [JSON/structured/natural language/etc based on what the research shows works]

**Caveats:** [Any warnings or limitations mentioned in the research]`))

const promptGenSystemPrompt = `You are an expert prompt engineer. Based on research patterns provided, you craft perfect prompts that follow what actually works.

CRITICAL RULES:
1. Use the EXACT FORMAT the research recommends (if JSON, output JSON; if structured, use structure)
2. Apply the specific patterns discovered in the research
3. Tailor the prompt to the user's specific vision
4. Make it copy-paste ready with minimal placeholders`

var promptGenUserTmpl = template.Must(template.New("promptgen").Parse(`Based on this research synthesis:

{{.Synthesis}}

The user wants to create:
"{{.Vision}}"

Write ONE perfect prompt that:
1. Uses the format the research recommends
2. Applies the key patterns discovered
3. Is tailored to their specific vision
4. Is ready to copy-paste

Output ONLY the prompt (with a brief 1-line note at the end about which pattern you applied).`))

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// redditSummary lists up to summaryItems threads, one line each plus the
// relevance note.
func redditSummary(items []types.ResearchItem) string {
	if len(items) == 0 {
		return "No Reddit threads found."
	}
	var lines []string
	for _, it := range head(items) {
		sub := it.Subreddit
		if sub == "" {
			sub = "unknown"
		}
		lines = append(lines, fmt.Sprintf("- r/%s (score:%d): %s", sub, score(it), textutil.Clip(it.Title, titleMax)))
		if why := textutil.Clip(it.WhyRelevant, whyMax); why != "" {
			lines = append(lines, fmt.Sprintf("  *%s*", why))
		}
	}
	return strings.Join(lines, "\n")
}

func xSummary(items []types.ResearchItem) string {
	if len(items) == 0 {
		return "No X posts found."
	}
	var lines []string
	for _, it := range head(items) {
		author := it.Author
		if author == "" {
			author = "unknown"
		}
		text := it.Text
		if text == "" {
			text = it.Title
		}
		var likes, reposts int
		if it.Engagement != nil {
			likes, reposts = it.Engagement.Likes, it.Engagement.Reposts
		}
		lines = append(lines, fmt.Sprintf("- @%s (score:%d, %dlikes, %drt): %s", author, score(it), likes, reposts, textutil.Clip(text, xTextMax)))
		if why := textutil.Clip(it.WhyRelevant, whyMax); why != "" {
			lines = append(lines, fmt.Sprintf("  *%s*", why))
		}
	}
	return strings.Join(lines, "\n")
}

func head(items []types.ResearchItem) []types.ResearchItem {
	if len(items) > summaryItems {
		return items[:summaryItems]
	}
	return items
}

func score(it types.ResearchItem) int {
	if it.Engagement == nil {
		return 0
	}
	return it.Engagement.Score
}
