// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generator produces fake news content through a chat-completion API.
// The Generator interface abstracts the backend so the pool manager and tests
// can supply mocks; Client implements it for OpenAI and DashScope.
package generator

import (
	"context"
	"strings"
)

// Generator produces batches of content. Results are positionally aligned
// with the request: the i-th intro/article belongs to the i-th headline. A
// backend may return fewer items than requested on partial failure; callers
// treat the aligned prefix as a partial success.
type Generator interface {
	// Headlines returns up to n new headlines.
	Headlines(ctx context.Context, n int) ([]string, error)

	// Intros returns one intro paragraph per headline, in order.
	Intros(ctx context.Context, headlines []string) ([]string, error)

	// Articles returns one article body per headline, in order, aiming for
	// wordTarget words each.
	Articles(ctx context.Context, headlines []string, wordTarget int) ([]string, error)
}

// parseLines extracts up to max non-empty items from a model response that
// was asked for one item per line. Numbering, bullets, and surrounding
// quotes are stripped; models add them despite instructions.
func parseLines(raw string, max int) []string {
	var items []string
	for _, line := range strings.Split(raw, "\n") {
		item := cleanItem(line)
		if item == "" {
			continue
		}
		items = append(items, item)
		if len(items) == max {
			break
		}
	}
	return items
}

// parseBlocks extracts up to max items from a response using "===" separator
// lines, for multi-paragraph items like articles.
func parseBlocks(raw string, max int) []string {
	var items []string
	for _, block := range strings.Split(raw, "\n===") {
		block = strings.TrimPrefix(strings.TrimSpace(block), "===")
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		items = append(items, block)
		if len(items) == max {
			break
		}
	}
	return items
}

func cleanItem(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-*•")
	// Strip leading list numbering like "3." or "12)".
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"“”`)
	return strings.TrimSpace(s)
}
