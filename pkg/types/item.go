// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the entities and configuration value objects shared
// across the cache engine, the generator client, and the CLI.
package types

// Field names one of the three content pieces an Item carries.
type Field string

const (
	FieldHeadline Field = "headline"
	FieldIntro    Field = "intro"
	FieldArticle  Field = "article"
)

// Item is the unit cache entry: one headline plus optional intro/article
// text and a per-field used flag. Intro and Article are empty until a fill
// writes them; the flags record consumption independently, so a headline may
// be claimed while its intro stays available for a later call.
type Item struct {
	// ID is the surrogate row identifier, assigned on insert.
	ID int64 `json:"id" yaml:"id"`

	// Headline is the unique natural key addressing the item.
	Headline string `json:"headline" yaml:"headline"`

	// Intro is the generated intro paragraph, empty until filled.
	Intro string `json:"intro,omitempty" yaml:"intro,omitempty"`

	// Article is the generated article body, empty until filled.
	Article string `json:"article,omitempty" yaml:"article,omitempty"`

	UsedHeadline bool `json:"used_headline" yaml:"used_headline"`
	UsedIntro    bool `json:"used_intro" yaml:"used_intro"`
	UsedArticle  bool `json:"used_article" yaml:"used_article"`
}

// Value returns the text the item holds for field.
func (i Item) Value(field Field) string {
	switch field {
	case FieldIntro:
		return i.Intro
	case FieldArticle:
		return i.Article
	default:
		return i.Headline
	}
}

// ClaimOptions selects and optionally consumes one item. The zero value is a
// non-consuming inspection of any unused item; consuming callers (the CLI's
// fetch commands) set Consume explicitly.
type ClaimOptions struct {
	// Headline restricts the claim to the item with this exact headline.
	// Empty means any item.
	Headline string

	// Consume marks the claimed field used. Non-consuming claims leave the
	// item available to later callers.
	Consume bool

	// AllowUsed admits items whose field was already consumed.
	AllowUsed bool
}

// Stats aggregates the current pool state.
type Stats struct {
	// Total is the number of cached items.
	Total int `json:"total" yaml:"total"`

	// WithIntro counts items whose intro is present, used or not.
	WithIntro int `json:"with_intro" yaml:"with_intro"`

	// WithArticle counts items whose article is present, used or not.
	WithArticle int `json:"with_article" yaml:"with_article"`

	// UnusedHeadlines counts items whose headline flag is still clear,
	// regardless of intro/article presence.
	UnusedHeadlines int `json:"unused_headlines" yaml:"unused_headlines"`

	// UnusedIntros counts items with a present, unconsumed intro.
	UnusedIntros int `json:"unused_intros" yaml:"unused_intros"`

	// UnusedArticles counts items with a present, unconsumed article.
	UnusedArticles int `json:"unused_articles" yaml:"unused_articles"`
}
