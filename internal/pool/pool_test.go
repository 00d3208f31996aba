// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pool

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/SmileyChris/faker-news/internal/store"
	"github.com/SmileyChris/faker-news/pkg/types"
)

// --- test helpers ---

// mockGen fabricates deterministic content and counts calls so tests can
// assert how much generator work an operation performed.
type mockGen struct {
	mu sync.Mutex

	headlineCalls int
	introCalls    int
	articleCalls  int

	lastHeadlineCount int
	lastIntroBatch    []string
	lastArticleBatch  []string

	// shortBy trims every batch by this many items to simulate partial results.
	shortBy int

	// padHeadlines wraps generated headlines in whitespace, as a sloppy
	// backend might.
	padHeadlines bool

	failHeadlines error
	failIntros    error
	failArticles  error

	serial int
}

func (g *mockGen) Headlines(_ context.Context, n int) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.headlineCalls++
	g.lastHeadlineCount = n
	if g.failHeadlines != nil {
		return nil, g.failHeadlines
	}
	var out []string
	for i := 0; i < n-g.shortBy; i++ {
		g.serial++
		h := fmt.Sprintf("Generated Headline %d", g.serial)
		if g.padHeadlines {
			h = "  " + h + "\n"
		}
		out = append(out, h)
	}
	return out, nil
}

func (g *mockGen) Intros(_ context.Context, headlines []string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.introCalls++
	g.lastIntroBatch = headlines
	if g.failIntros != nil {
		return nil, g.failIntros
	}
	var out []string
	for i := 0; i < len(headlines)-g.shortBy; i++ {
		out = append(out, "intro for "+headlines[i])
	}
	return out, nil
}

func (g *mockGen) Articles(_ context.Context, headlines []string, wordTarget int) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.articleCalls++
	g.lastArticleBatch = headlines
	if g.failArticles != nil {
		return nil, g.failArticles
	}
	var out []string
	for i := 0; i < len(headlines)-g.shortBy; i++ {
		out = append(out, fmt.Sprintf("article (%d words) for %s", wordTarget, headlines[i]))
	}
	return out, nil
}

func testManager(t *testing.T, cfg types.PoolConfig) (*Manager, *mockGen, *store.Store) {
	t.Helper()
	st, err := store.New(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "pool.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	gen := &mockGen{}
	return New(st, gen, cfg), gen, st
}

func mustStats(t *testing.T, m *Manager) types.Stats {
	t.Helper()
	st, err := m.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func seedItem(t *testing.T, st *store.Store, headline, intro, article string) {
	t.Helper()
	ctx := context.Background()
	if _, err := st.InsertHeadlines(ctx, []string{headline}); err != nil {
		t.Fatal(err)
	}
	if intro != "" {
		if err := st.Fill(ctx, types.FieldIntro, headline, intro); err != nil {
			t.Fatal(err)
		}
	}
	if article != "" {
		if err := st.Fill(ctx, types.FieldArticle, headline, article); err != nil {
			t.Fatal(err)
		}
	}
}

// --- preload ---

func TestPreload(t *testing.T) {
	m, gen, _ := testManager(t, types.PoolConfig{})

	n, err := m.Preload(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("preload inserted %d, want 5", n)
	}
	if gen.headlineCalls != 1 || gen.lastHeadlineCount != 5 {
		t.Errorf("generator calls = %d (last count %d), want 1 call for 5",
			gen.headlineCalls, gen.lastHeadlineCount)
	}

	want := types.Stats{Total: 5, UnusedHeadlines: 5}
	if got := mustStats(t, m); got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

// --- fetch: headline ---

func TestFetchHeadlineReplenishesWhenLow(t *testing.T) {
	m, gen, _ := testManager(t, types.PoolConfig{MinHeadlines: 5, HeadlineBatch: 10})

	item, err := m.Fetch(context.Background(), types.FieldHeadline, FetchOptions{
		ClaimOptions: types.ClaimOptions{Consume: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if item.Headline == "" || !item.UsedHeadline {
		t.Errorf("fetched item = %+v, want a consumed headline", item)
	}
	if gen.headlineCalls != 1 || gen.lastHeadlineCount != 10 {
		t.Errorf("replenishment calls = %d (count %d), want one batch of 10",
			gen.headlineCalls, gen.lastHeadlineCount)
	}

	st := mustStats(t, m)
	if st.Total != 10 || st.UnusedHeadlines != 9 {
		t.Errorf("stats = %+v, want total 10 with 9 unused", st)
	}
}

func TestFetchHeadlineSkipsReplenishWhenStocked(t *testing.T) {
	m, gen, _ := testManager(t, types.PoolConfig{MinHeadlines: 3, HeadlineBatch: 10})

	if _, err := m.Preload(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Fetch(context.Background(), types.FieldHeadline, FetchOptions{
		ClaimOptions: types.ClaimOptions{Consume: true},
	}); err != nil {
		t.Fatal(err)
	}

	// Only the preload hit the generator.
	if gen.headlineCalls != 1 {
		t.Errorf("generator headline calls = %d, want 1", gen.headlineCalls)
	}
}

// --- fetch: chained intro/article ---

func TestFetchIntroChainsThroughHeadline(t *testing.T) {
	m, gen, _ := testManager(t, types.PoolConfig{MinHeadlines: 1, HeadlineBatch: 3})

	item, err := m.Fetch(context.Background(), types.FieldIntro, FetchOptions{
		ClaimOptions: types.ClaimOptions{Consume: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(item.Intro, "intro for ") {
		t.Errorf("intro = %q, want generated intro", item.Intro)
	}
	if !item.UsedIntro {
		t.Error("fetched intro not marked used")
	}
	if gen.introCalls != 1 || len(gen.lastIntroBatch) != 1 {
		t.Errorf("intro calls = %d (batch %v), want one single-headline call",
			gen.introCalls, gen.lastIntroBatch)
	}

	// The chained headline claim must not consume the headline itself.
	st := mustStats(t, m)
	if st.UnusedHeadlines != st.Total {
		t.Errorf("stats = %+v, chained fetch consumed a headline", st)
	}
}

func TestFetchArticleOnDemandForHeadline(t *testing.T) {
	m, gen, st := testManager(t, types.PoolConfig{MinHeadlines: 1})
	seedItem(t, st, "H", "", "")

	item, err := m.Fetch(context.Background(), types.FieldArticle, FetchOptions{
		ClaimOptions: types.ClaimOptions{Headline: "H", Consume: true},
		WordTarget:   250,
	})
	if err != nil {
		t.Fatal(err)
	}
	if item.Article != "article (250 words) for H" {
		t.Errorf("article = %q", item.Article)
	}
	if !item.UsedArticle {
		t.Error("fetched article not marked used")
	}
	if item.UsedHeadline {
		t.Error("article fetch consumed the headline flag")
	}
	if gen.articleCalls != 1 || gen.introCalls != 0 || gen.headlineCalls != 0 {
		t.Errorf("generator calls = %d/%d/%d (headline/intro/article), want exactly one article call",
			gen.headlineCalls, gen.introCalls, gen.articleCalls)
	}
}

func TestFetchIntroCachedNeedsNoGeneration(t *testing.T) {
	m, gen, st := testManager(t, types.PoolConfig{MinHeadlines: 1})
	seedItem(t, st, "H", "cached intro", "")

	item, err := m.Fetch(context.Background(), types.FieldIntro, FetchOptions{
		ClaimOptions: types.ClaimOptions{Headline: "H", Consume: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if item.Intro != "cached intro" {
		t.Errorf("intro = %q, want cached value", item.Intro)
	}
	if gen.introCalls != 0 {
		t.Errorf("intro calls = %d, want 0 for cached content", gen.introCalls)
	}
}

func TestFetchPropagatesGeneratorFailure(t *testing.T) {
	m, gen, st := testManager(t, types.PoolConfig{MinHeadlines: 1})
	seedItem(t, st, "H", "", "")
	boom := errors.New("model unavailable")
	gen.failIntros = boom

	_, err := m.Fetch(context.Background(), types.FieldIntro, FetchOptions{
		ClaimOptions: types.ClaimOptions{Headline: "H", Consume: true},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want generator failure", err)
	}
}

// --- populate ---

func TestPopulateReusesBeforeGenerating(t *testing.T) {
	m, gen, st := testManager(t, types.PoolConfig{WordTarget: 100})
	// Two complete idle items: free. One missing only its article: cheap.
	seedItem(t, st, "full-1", "i", "a")
	seedItem(t, st, "full-2", "i", "a")
	seedItem(t, st, "partial", "i", "")

	summary, err := m.Populate(context.Background(), 5, true, true, 0)
	if err != nil {
		t.Fatal(err)
	}

	want := PopulateSummary{Reused: 1, Ready: 2, Created: 2, IntrosFilled: 2, ArticlesFilled: 3}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}
	if gen.headlineCalls != 1 || gen.lastHeadlineCount != 2 {
		t.Errorf("headline calls = %d (count %d), want one call for the deficit of 2",
			gen.headlineCalls, gen.lastHeadlineCount)
	}
	if gen.introCalls != 1 || len(gen.lastIntroBatch) != 2 {
		t.Errorf("intro calls = %d (batch %v), want one batched call for 2",
			gen.introCalls, gen.lastIntroBatch)
	}
	if gen.articleCalls != 1 || len(gen.lastArticleBatch) != 3 {
		t.Errorf("article calls = %d (batch %v), want one batched call for 3",
			gen.articleCalls, gen.lastArticleBatch)
	}

	got := mustStats(t, m)
	wantStats := types.Stats{
		Total: 5, WithIntro: 5, WithArticle: 5,
		UnusedHeadlines: 5, UnusedIntros: 5, UnusedArticles: 5,
	}
	if got != wantStats {
		t.Errorf("stats = %+v, want %+v", got, wantStats)
	}
}

func TestPopulateNeverMarksUsed(t *testing.T) {
	m, _, _ := testManager(t, types.PoolConfig{})

	if _, err := m.Populate(context.Background(), 4, true, false, 0); err != nil {
		t.Fatal(err)
	}

	st := mustStats(t, m)
	if st.UnusedHeadlines != st.Total || st.UnusedIntros != st.WithIntro {
		t.Errorf("stats = %+v, populate consumed something", st)
	}
}

func TestPopulateTargetAlreadyMet(t *testing.T) {
	m, gen, st := testManager(t, types.PoolConfig{})
	seedItem(t, st, "full-1", "i", "a")
	seedItem(t, st, "full-2", "i", "a")

	summary, err := m.Populate(context.Background(), 2, true, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Stocked() != 2 || summary.Created != 0 {
		t.Errorf("summary = %+v, want 2 stocked with nothing created", summary)
	}
	if gen.headlineCalls+gen.introCalls+gen.articleCalls != 0 {
		t.Errorf("generator was called %d/%d/%d times for a warm cache",
			gen.headlineCalls, gen.introCalls, gen.articleCalls)
	}
}

func TestPopulateShortBatchIsPartialSuccess(t *testing.T) {
	m, gen, _ := testManager(t, types.PoolConfig{})
	gen.shortBy = 1

	summary, err := m.Populate(context.Background(), 3, false, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Created != 2 || summary.Shortfall != 1 {
		t.Errorf("summary = %+v, want 2 created and shortfall 1", summary)
	}
}

func TestPopulateShortFillBatchCountsShortfall(t *testing.T) {
	m, gen, st := testManager(t, types.PoolConfig{})
	seedItem(t, st, "bare-1", "", "")
	seedItem(t, st, "bare-2", "", "")
	gen.shortBy = 1

	summary, err := m.Populate(context.Background(), 2, true, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Reused != 2 || summary.IntrosFilled != 1 {
		t.Errorf("summary = %+v, want 2 reused with 1 intro filled", summary)
	}
	// One target item is still missing its required intro.
	if summary.Shortfall != 1 {
		t.Errorf("shortfall = %d, want 1 for the unfilled intro", summary.Shortfall)
	}

	stats := mustStats(t, m)
	if stats.WithIntro != 1 {
		t.Errorf("stats = %+v, want exactly 1 intro present", stats)
	}
}

func TestPopulateTrimsGeneratedHeadlines(t *testing.T) {
	m, gen, _ := testManager(t, types.PoolConfig{})
	gen.padHeadlines = true

	summary, err := m.Populate(context.Background(), 2, true, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Fills key on the trimmed headline the store holds, so nothing misses.
	want := PopulateSummary{Created: 2, IntrosFilled: 2}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}

	stats := mustStats(t, m)
	if stats.Total != 2 || stats.WithIntro != 2 {
		t.Errorf("stats = %+v, want 2 items with intros", stats)
	}
}

func TestPopulateKeepsProgressOnLateFailure(t *testing.T) {
	m, gen, _ := testManager(t, types.PoolConfig{})
	boom := errors.New("quota exhausted")
	gen.failArticles = boom

	summary, err := m.Populate(context.Background(), 2, true, true, 0)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want generator failure", err)
	}
	if summary.Created != 2 || summary.IntrosFilled != 2 {
		t.Errorf("summary = %+v, want headlines and intros committed before the failure", summary)
	}

	// The failed step rolled nothing back.
	st := mustStats(t, m)
	if st.Total != 2 || st.WithIntro != 2 || st.WithArticle != 0 {
		t.Errorf("stats = %+v, want 2 items with intros and no articles", st)
	}
}

func TestPopulateUsesConfiguredWordTarget(t *testing.T) {
	m, gen, st := testManager(t, types.PoolConfig{WordTarget: 321})
	seedItem(t, st, "H", "i", "")

	if _, err := m.Populate(context.Background(), 1, false, true, 0); err != nil {
		t.Fatal(err)
	}
	if gen.articleCalls != 1 {
		t.Fatalf("article calls = %d, want 1", gen.articleCalls)
	}

	item, err := st.Claim(context.Background(), types.FieldArticle, types.ClaimOptions{Headline: "H"})
	if err != nil {
		t.Fatal(err)
	}
	if item.Article != "article (321 words) for H" {
		t.Errorf("article = %q, want configured word target", item.Article)
	}
}
