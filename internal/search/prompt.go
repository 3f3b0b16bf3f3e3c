// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/last30days/internal/dates"
)

// redditPromptTmpl asks a web-search model for Reddit threads. The model
// tends to search for the literal topic phrase, so the prompt walks it
// through reducing the topic to its core subject first.
var redditPromptTmpl = template.Must(template.New("reddit").Parse(`Find Reddit discussion threads about: {{.Topic}}

STEP 1: EXTRACT THE CORE SUBJECT
Get the MAIN NOUN/PRODUCT/TOPIC:
- "best nano banana prompting practices" -> "nano banana"
- "killer features of clawdbot" -> "clawdbot"
- "top Claude Code skills" -> "Claude Code"
DO NOT include "best", "top", "tips", "practices", "features" in your search.

STEP 2: SEARCH BROADLY
Search for the core subject:
1. "[core subject] site:reddit.com"
2. "reddit [core subject]"
3. "[core subject] reddit"

Return as many relevant threads as you find. Threads from {{.From}} to {{.To}} matter most; dates are verified and filtered afterwards.

STEP 3: INCLUDE ALL MATCHES
- Include ALL threads about the core subject
- Set date to "YYYY-MM-DD" if you can determine it, otherwise null
- DO NOT pre-filter aggressively - include anything relevant

REQUIRED: URLs must contain "/r/" AND "/comments/"
REJECT: developers.reddit.com, business.reddit.com

Find {{.Min}}-{{.Max}} threads. Return MORE rather than fewer.

Return JSON:
{
  "items": [
    {
      "title": "Thread title",
      "url": "https://www.reddit.com/r/sub/comments/xyz/title/",
      "subreddit": "subreddit_name",
      "date": "YYYY-MM-DD or null",
      "why_relevant": "Why relevant",
      "relevance": 0.85
    }
  ]
}`))

// xPromptTmpl asks a web-search model for X posts.
var xPromptTmpl = template.Must(template.New("x").Parse(`Find recent X (Twitter) posts about: {{.Topic}}

Focus on the core subject of the topic, not filler words like "best" or "tips".
Search x.com for posts from {{.From}} to {{.To}}. Prefer posts with real engagement
and concrete techniques, examples or opinions from practitioners.

REQUIRED: URLs must look like "https://x.com/<handle>/status/<id>"

Find {{.Min}}-{{.Max}} posts. Return MORE rather than fewer.

Return JSON:
{
  "items": [
    {
      "text": "Post text",
      "url": "https://x.com/handle/status/123",
      "author_handle": "handle",
      "date": "YYYY-MM-DD or null",
      "engagement": {"likes": 0, "reposts": 0},
      "why_relevant": "Why relevant",
      "relevance": 0.85
    }
  ]
}`))

type promptData struct {
	Topic    string
	From, To string
	Min, Max int
}

func renderPrompt(tmpl *template.Template, topic string, w dates.Window, d Depth) (string, error) {
	lo, hi := d.ItemRange()
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, promptData{Topic: topic, From: w.From, To: w.To, Min: lo, Max: hi})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
