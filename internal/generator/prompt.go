// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// systemPrompt frames every request. The content must read as plausible news
// without referencing real people or events.
const systemPrompt = `You are a news wire service that produces entirely fictional but ` +
	`plausible-sounding news content for use as realistic test data. Never reference ` +
	`real people, companies, or current events. Follow the output format instructions ` +
	`exactly and output nothing else.`

var headlinesPromptTmpl = template.Must(template.New("headlines").Parse(
	`Write {{.Count}} distinct fictional news headlines covering a mix of topics
(politics, business, science, technology, sports, local interest).

Output exactly one headline per line, with no numbering, bullets, or quotes.
`))

var introsPromptTmpl = template.Must(template.New("intros").Parse(
	`For each of the following fictional news headlines, write a single-paragraph
lede (2-3 sentences) that could open the story.

Output exactly one paragraph per headline, in the same order, one per line,
with no numbering and no repetition of the headline.

Headlines:
{{range .Headlines}}- {{.}}
{{end}}`))

var articlesPromptTmpl = template.Must(template.New("articles").Parse(
	`For each of the following fictional news headlines, write a complete news
article of about {{.WordTarget}} words, with multiple paragraphs, invented
quotes, and invented sources.

Output the articles in the same order as the headlines. Separate consecutive
articles with a line containing only "===". Do not repeat the headline and do
not add any other commentary.

Headlines:
{{range .Headlines}}- {{.}}
{{end}}`))

func headlinesPrompt(n int) (string, error) {
	return renderPrompt(headlinesPromptTmpl, struct{ Count int }{n})
}

func introsPrompt(headlines []string) (string, error) {
	return renderPrompt(introsPromptTmpl, struct{ Headlines []string }{headlines})
}

func articlesPrompt(headlines []string, wordTarget int) (string, error) {
	return renderPrompt(articlesPromptTmpl, struct {
		Headlines  []string
		WordTarget int
	}{headlines, wordTarget})
}

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
