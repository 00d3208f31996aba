// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pool keeps the content cache stocked. The Manager sits between
// callers and the store: every fetch checks pool health against the
// configured minimum and replenishes through the generator before the claim
// is delegated to the store. Populate tops the pool up to a target count
// while reusing cached rows ahead of new generation.
package pool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SmileyChris/faker-news/internal/generator"
	"github.com/SmileyChris/faker-news/internal/store"
	"github.com/SmileyChris/faker-news/pkg/types"
)

// Manager orchestrates the store and the generator. It holds no mutable
// state beyond its configuration, so several Managers may share one store.
type Manager struct {
	store *store.Store
	gen   generator.Generator
	cfg   types.PoolConfig
}

// New builds a Manager over st and gen with cfg's thresholds (zero fields
// take defaults).
func New(st *store.Store, gen generator.Generator, cfg types.PoolConfig) *Manager {
	return &Manager{store: st, gen: gen, cfg: cfg.WithDefaults()}
}

// FetchOptions parameterizes a single fetch.
type FetchOptions struct {
	types.ClaimOptions

	// WordTarget overrides the configured article length when an article has
	// to be generated on demand. Zero uses the configured default.
	WordTarget int
}

// Fetch returns one item holding the requested field, generating content on
// demand when the cache has nothing to serve. Headline fetches replenish the
// pool first when unused headlines run below the configured minimum;
// intro/article fetches chain through a non-consumed headline claim when no
// headline filter is given, then fill the missing field for exactly that
// headline and retry the claim once.
func (m *Manager) Fetch(ctx context.Context, field types.Field, opts FetchOptions) (types.Item, error) {
	if field == types.FieldHeadline {
		return m.fetchHeadline(ctx, opts.ClaimOptions)
	}

	if opts.Headline == "" {
		// Claim without consuming, so the same headline stays available for
		// later intro/article pairings.
		hl, err := m.fetchHeadline(ctx, types.ClaimOptions{AllowUsed: opts.AllowUsed})
		if err != nil {
			return types.Item{}, err
		}
		opts.Headline = hl.Headline
	}

	item, err := m.store.Claim(ctx, field, opts.ClaimOptions)
	if err == nil || !errors.Is(err, store.ErrNotFound) {
		return item, err
	}

	// Nothing cached for this headline: generate the one missing field and
	// retry the claim exactly once.
	if err := m.fillOne(ctx, field, opts.Headline, opts.WordTarget); err != nil {
		return types.Item{}, err
	}
	return m.store.Claim(ctx, field, opts.ClaimOptions)
}

func (m *Manager) fetchHeadline(ctx context.Context, opts types.ClaimOptions) (types.Item, error) {
	st, err := m.store.Statistics(ctx)
	if err != nil {
		return types.Item{}, err
	}
	if st.UnusedHeadlines < m.cfg.MinHeadlines {
		headlines, err := m.gen.Headlines(ctx, m.cfg.HeadlineBatch)
		if err != nil {
			return types.Item{}, err
		}
		if _, err := m.store.InsertHeadlines(ctx, headlines); err != nil {
			return types.Item{}, err
		}
	}
	return m.store.Claim(ctx, types.FieldHeadline, opts)
}

func (m *Manager) fillOne(ctx context.Context, field types.Field, headline string, wordTarget int) error {
	var values []string
	var err error
	switch field {
	case types.FieldIntro:
		values, err = m.gen.Intros(ctx, []string{headline})
	case types.FieldArticle:
		if wordTarget <= 0 {
			wordTarget = m.cfg.WordTarget
		}
		values, err = m.gen.Articles(ctx, []string{headline}, wordTarget)
	default:
		return fmt.Errorf("cannot generate field %q", field)
	}
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("generator returned no %s for %q", field, headline)
	}
	return m.store.Fill(ctx, field, headline, values[0])
}

// Preload inserts n freshly generated headlines with no intro or article
// content. Duplicates returned by the generator are skipped.
func (m *Manager) Preload(ctx context.Context, n int) (int, error) {
	headlines, err := m.gen.Headlines(ctx, n)
	if err != nil {
		return 0, err
	}
	return m.store.InsertHeadlines(ctx, headlines)
}

// PopulateSummary reports what one populate run did.
type PopulateSummary struct {
	// Reused counts unused cached headlines that were missing content and
	// were completed in place.
	Reused int

	// Ready counts unused cached items that already held every required
	// field and needed no generation.
	Ready int

	// Created counts newly generated and inserted headlines.
	Created int

	IntrosFilled   int
	ArticlesFilled int

	// Shortfall is how far the run fell short of the target: items the run
	// could not stock, whether a headline batch came back short or a fill
	// batch left a required field absent.
	Shortfall int
}

// Stocked returns the number of items the run made (or found) ready.
func (s PopulateSummary) Stocked() int {
	return s.Reused + s.Ready + s.Created
}

// Populate ensures n unused items exist holding every requested field,
// generating as little as possible: partially complete cached items are
// finished first, fully complete ones are counted as-is, and only the
// remaining deficit becomes new headlines. Missing intros and articles are
// generated in one batched call per field. Populate never marks anything
// used, and progress already written stays committed even when a later step
// fails.
func (m *Manager) Populate(ctx context.Context, n int, needsIntro, needsArticle bool, wordTarget int) (PopulateSummary, error) {
	if wordTarget <= 0 {
		wordTarget = m.cfg.WordTarget
	}
	var summary PopulateSummary

	working, err := m.store.ItemsNeedingContent(ctx, n)
	if err != nil {
		return summary, err
	}
	summary.Reused = len(working)

	if len(working) < n {
		exclude := make([]int64, len(working))
		for i, it := range working {
			exclude[i] = it.ID
		}
		ready, err := m.store.ReadyItems(ctx, n-len(working), needsIntro, needsArticle, exclude)
		if err != nil {
			return summary, err
		}
		summary.Ready = len(ready)
	}

	var created []string
	if deficit := n - summary.Reused - summary.Ready; deficit > 0 {
		headlines, err := m.gen.Headlines(ctx, deficit)
		if err != nil {
			return summary, err
		}
		// Normalize exactly as the store does, so later fills keyed on these
		// headlines find their rows.
		for _, h := range headlines {
			if h = strings.TrimSpace(h); h != "" {
				created = append(created, h)
			}
		}
		inserted, err := m.store.InsertHeadlines(ctx, created)
		if err != nil {
			return summary, err
		}
		summary.Created = inserted
	}

	// Headlines whose required fill never landed do not count as stocked.
	incomplete := make(map[string]bool)

	if needsIntro {
		missing := missingHeadlines(working, types.FieldIntro, created)
		filled, err := m.fillBatch(ctx, types.FieldIntro, missing, wordTarget)
		summary.IntrosFilled = filled
		for _, h := range missing[filled:] {
			incomplete[h] = true
		}
		if err != nil {
			return summary, err
		}
	}
	if needsArticle {
		missing := missingHeadlines(working, types.FieldArticle, created)
		filled, err := m.fillBatch(ctx, types.FieldArticle, missing, wordTarget)
		summary.ArticlesFilled = filled
		for _, h := range missing[filled:] {
			incomplete[h] = true
		}
		if err != nil {
			return summary, err
		}
	}

	if short := n - summary.Stocked() + len(incomplete); short > 0 {
		summary.Shortfall = short
	}
	return summary, nil
}

// missingHeadlines lists headlines from the working set that lack field,
// followed by all newly created headlines (which lack everything).
func missingHeadlines(working []types.Item, field types.Field, created []string) []string {
	var out []string
	for _, it := range working {
		if it.Value(field) == "" {
			out = append(out, it.Headline)
		}
	}
	return append(out, created...)
}

// fillBatch generates field values for all headlines in one generator call
// and fills each returned value. A short batch fills the aligned prefix and
// is reported through the returned count, not an error.
func (m *Manager) fillBatch(ctx context.Context, field types.Field, headlines []string, wordTarget int) (int, error) {
	if len(headlines) == 0 {
		return 0, nil
	}

	var values []string
	var err error
	switch field {
	case types.FieldIntro:
		values, err = m.gen.Intros(ctx, headlines)
	case types.FieldArticle:
		values, err = m.gen.Articles(ctx, headlines, wordTarget)
	}
	if err != nil {
		return 0, err
	}

	filled := 0
	for i, v := range values {
		if i >= len(headlines) {
			break
		}
		if err := m.store.Fill(ctx, field, headlines[i], v); err != nil {
			return filled, fmt.Errorf("filling %s for %q: %w", field, headlines[i], err)
		}
		filled++
	}
	return filled, nil
}

// Stats reports aggregate pool statistics.
func (m *Manager) Stats(ctx context.Context) (types.Stats, error) {
	return m.store.Statistics(ctx)
}

// ResetUsage clears every used flag, returning all content to the pool.
func (m *Manager) ResetUsage(ctx context.Context) error {
	return m.store.ResetUsage(ctx)
}

// ClearAll deletes the entire cache.
func (m *Manager) ClearAll(ctx context.Context) error {
	return m.store.ClearAll(ctx)
}
