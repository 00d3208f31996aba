// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists cached content items in SQLite and owns every read
// and write against them. The claim protocol selects uniformly at random
// among matching rows and, when consuming, flips the per-field used flag in
// the same statement so concurrent claimers never share an unused item.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/SmileyChris/faker-news/pkg/types"
)

// ErrNotFound is returned when a claim or fill matches no row.
var ErrNotFound = errors.New("not found")

const defaultDBPath = "faker-news.db"

// itemColumns is the scan order used by every row-returning statement.
const itemColumns = `id, headline, COALESCE(intro, ''), COALESCE(article, ''),
	used_headline, used_intro, used_article`

// fieldColumns maps a field to its value and used-flag columns. Only names
// from this map ever reach a query string.
var fieldColumns = map[types.Field]struct{ value, used string }{
	types.FieldHeadline: {"headline", "used_headline"},
	types.FieldIntro:    {"intro", "used_intro"},
	types.FieldArticle:  {"article", "used_article"},
}

// Store manages the content cache SQLite database.
type Store struct {
	db *sql.DB
}

// New opens or creates the cache database at cfg.DBPath and creates the
// schema if it does not exist. WAL mode and a busy timeout let independent
// processes share one cache file.
func New(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = defaultDBPath
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			headline      TEXT NOT NULL UNIQUE,
			intro         TEXT,
			article       TEXT,
			used_headline INTEGER NOT NULL DEFAULT 0,
			used_intro    INTEGER NOT NULL DEFAULT 0,
			used_article  INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_used_headline ON items(used_headline)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// InsertHeadlines adds new items for the given headlines with all content
// absent and all flags clear. Headlines already present are skipped without
// error; blank strings are ignored. Returns the number actually inserted.
func (s *Store) InsertHeadlines(ctx context.Context, headlines []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO items (headline) VALUES (?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, h := range headlines {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, h)
		if err != nil {
			return 0, fmt.Errorf("inserting headline %q: %w", h, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("inserting headline %q: %w", h, err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing inserts: %w", err)
	}
	return inserted, nil
}

// Claim returns one item, chosen uniformly at random among rows whose field
// value is present, whose used flag is clear unless opts.AllowUsed, and whose
// headline matches opts.Headline when set. With opts.Consume the used flag is
// set in the same statement as the selection, so at most one caller wins each
// unused row. Returns ErrNotFound when nothing matches.
func (s *Store) Claim(ctx context.Context, field types.Field, opts types.ClaimOptions) (types.Item, error) {
	cols, ok := fieldColumns[field]
	if !ok {
		return types.Item{}, fmt.Errorf("unknown field %q", field)
	}

	var conds []string
	var args []any
	if field != types.FieldHeadline {
		conds = append(conds, cols.value+" IS NOT NULL")
	}
	if !opts.AllowUsed {
		conds = append(conds, cols.used+" = 0")
	}
	if opts.Headline != "" {
		conds = append(conds, "headline = ?")
		args = append(args, opts.Headline)
	}
	if len(conds) == 0 {
		conds = append(conds, "1 = 1")
	}
	where := strings.Join(conds, " AND ")

	var row *sql.Row
	if opts.Consume {
		// The outer used-flag guard re-checks the row after the subselect, so
		// two concurrent consuming claims cannot both win the same item.
		guard := "1 = 1"
		if !opts.AllowUsed {
			guard = cols.used + " = 0"
		}
		query := fmt.Sprintf(
			`UPDATE items SET %s = 1
			 WHERE id = (SELECT id FROM items WHERE %s ORDER BY RANDOM() LIMIT 1)
			   AND %s
			 RETURNING %s`,
			cols.used, where, guard, itemColumns)
		row = s.db.QueryRowContext(ctx, query, args...)
	} else {
		query := fmt.Sprintf(
			`SELECT %s FROM items WHERE %s ORDER BY RANDOM() LIMIT 1`,
			itemColumns, where)
		row = s.db.QueryRowContext(ctx, query, args...)
	}

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Item{}, ErrNotFound
	}
	if err != nil {
		return types.Item{}, fmt.Errorf("claiming %s: %w", field, err)
	}
	return item, nil
}

// Fill writes value into the named field of the item with the given headline,
// only if the field is still absent. Filling an already-present field is a
// no-op; a headline with no row returns ErrNotFound.
func (s *Store) Fill(ctx context.Context, field types.Field, headline, value string) error {
	if field != types.FieldIntro && field != types.FieldArticle {
		return fmt.Errorf("cannot fill field %q", field)
	}
	col := fieldColumns[field].value

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE items SET %s = ? WHERE headline = ? AND %s IS NULL`, col, col),
		value, headline)
	if err != nil {
		return fmt.Errorf("filling %s: %w", field, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("filling %s: %w", field, err)
	}
	if n > 0 {
		return nil
	}

	// No row updated: either already filled (fine) or no such headline.
	var exists int
	err = s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM items WHERE headline = ?`, headline).Scan(&exists)
	if err != nil {
		return fmt.Errorf("filling %s: %w", field, err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	return nil
}

// Statistics aggregates pool counts from the current row state.
func (s *Store) Statistics(ctx context.Context) (types.Stats, error) {
	var st types.Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*),
		        count(intro),
		        count(article),
		        COALESCE(SUM(used_headline = 0), 0),
		        COALESCE(SUM(intro IS NOT NULL AND used_intro = 0), 0),
		        COALESCE(SUM(article IS NOT NULL AND used_article = 0), 0)
		 FROM items`,
	).Scan(&st.Total, &st.WithIntro, &st.WithArticle,
		&st.UnusedHeadlines, &st.UnusedIntros, &st.UnusedArticles)
	if err != nil {
		return types.Stats{}, fmt.Errorf("computing statistics: %w", err)
	}
	return st, nil
}

// ItemsNeedingContent returns up to limit items whose headline is unused and
// whose intro or article is still absent. These are the cheapest targets for
// replenishment: their headline cost is already paid.
func (s *Store) ItemsNeedingContent(ctx context.Context, limit int) ([]types.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM items
		 WHERE used_headline = 0 AND (intro IS NULL OR article IS NULL)
		 LIMIT ?`, itemColumns),
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying items needing content: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// ReadyItems returns up to limit items whose headline is unused and which
// already hold every required field, excluding the given row IDs. Used by
// populate to count fully-reusable items that need no generation at all.
func (s *Store) ReadyItems(ctx context.Context, limit int, needsIntro, needsArticle bool, exclude []int64) ([]types.Item, error) {
	conds := []string{"used_headline = 0"}
	var args []any
	if needsIntro {
		conds = append(conds, "intro IS NOT NULL")
	}
	if needsArticle {
		conds = append(conds, "article IS NOT NULL")
	}
	if len(exclude) > 0 {
		placeholders := strings.TrimRight(strings.Repeat("?,", len(exclude)), ",")
		conds = append(conds, "id NOT IN ("+placeholders+")")
		for _, id := range exclude {
			args = append(args, id)
		}
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM items WHERE %s LIMIT ?`,
			itemColumns, strings.Join(conds, " AND ")),
		args...)
	if err != nil {
		return nil, fmt.Errorf("querying ready items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// ResetUsage clears all three used flags on every item; content is untouched.
func (s *Store) ResetUsage(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE items SET used_headline = 0, used_intro = 0, used_article = 0`)
	if err != nil {
		return fmt.Errorf("resetting usage: %w", err)
	}
	return nil
}

// ClearAll deletes every item. Irreversible.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clearing items: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (types.Item, error) {
	var it types.Item
	err := row.Scan(&it.ID, &it.Headline, &it.Intro, &it.Article,
		&it.UsedHeadline, &it.UsedIntro, &it.UsedArticle)
	return it, err
}

func scanItems(rows *sql.Rows) ([]types.Item, error) {
	var items []types.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}
	return items, nil
}
