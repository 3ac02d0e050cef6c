package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/reeder/internal/feedbin"
	"github.com/glabrego/reeder/internal/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS entries (
  id INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  url TEXT NOT NULL,
  author TEXT,
  summary TEXT,
  feed_id INTEGER NOT NULL,
  published_at TEXT NOT NULL,
  fetched_at TEXT NOT NULL,
  is_unread INTEGER NOT NULL DEFAULT 0,
  is_starred INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS entries_published_at ON entries (published_at DESC, id DESC);
CREATE TABLE IF NOT EXISTS subscriptions (
  feed_id INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  feed_url TEXT NOT NULL,
  site_url TEXT,
  icon_url TEXT
);
CREATE TABLE IF NOT EXISTS taggings (
  id INTEGER PRIMARY KEY,
  feed_id INTEGER NOT NULL,
  name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sync_state (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const lastSyncedKey = "last_synced_at"

// LastSyncedAt returns the time of the last completed refresh, or the zero
// time when the cache has never been synced.
func (r *Repository) LastSyncedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM sync_state WHERE key = ?`, lastSyncedKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query last sync: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last sync %q: %w", value, err)
	}
	return at, nil
}

func (r *Repository) SetLastSyncedAt(ctx context.Context, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sync_state (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, lastSyncedKey, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save last sync: %w", err)
	}
	return nil
}

// SaveEntries upserts entries. Read and starred state is left alone; it is
// written by SaveEntryStates.
func (r *Repository) SaveEntries(ctx context.Context, entries []feedbin.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO entries (id, title, url, author, summary, feed_id, published_at, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title=excluded.title,
  url=excluded.url,
  author=excluded.author,
  summary=excluded.summary,
  feed_id=excluded.feed_id,
  published_at=excluded.published_at,
  fetched_at=excluded.fetched_at
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, entry := range entries {
		_, err := stmt.ExecContext(
			ctx,
			entry.ID,
			entry.Title,
			entry.URL,
			entry.Author,
			entry.Summary,
			entry.FeedID,
			entry.PublishedAt.UTC().Format(time.RFC3339Nano),
			now,
		)
		if err != nil {
			return fmt.Errorf("save entry %d: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SaveEntryStates replaces the read and starred state of every cached entry:
// entries missing from unreadIDs are read, entries missing from starredIDs
// are not starred.
func (r *Repository) SaveEntryStates(ctx context.Context, unreadIDs, starredIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE entries SET is_unread = 0, is_starred = 0`); err != nil {
		return fmt.Errorf("reset entry states: %w", err)
	}
	if err := execForIDs(ctx, tx, `UPDATE entries SET is_unread = 1 WHERE id = ?`, unreadIDs); err != nil {
		return fmt.Errorf("save unread state: %w", err)
	}
	if err := execForIDs(ctx, tx, `UPDATE entries SET is_starred = 1 WHERE id = ?`, starredIDs); err != nil {
		return fmt.Errorf("save starred state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func execForIDs(ctx context.Context, tx *sql.Tx, query string, ids []int64) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()
	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("entry %d: %w", id, err)
		}
	}
	return nil
}

func (r *Repository) SetUnread(ctx context.Context, entryID int64, unread bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE entries SET is_unread = ? WHERE id = ?`, boolToInt(unread), entryID); err != nil {
		return fmt.Errorf("set unread for entry %d: %w", entryID, err)
	}
	return nil
}

func (r *Repository) SetStarred(ctx context.Context, entryID int64, starred bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE entries SET is_starred = ? WHERE id = ?`, boolToInt(starred), entryID); err != nil {
		return fmt.Errorf("set starred for entry %d: %w", entryID, err)
	}
	return nil
}

// SaveSubscriptions replaces the cached subscriptions. iconURLs maps feed ids
// to favicon URLs.
func (r *Repository) SaveSubscriptions(ctx context.Context, subscriptions []feedbin.Subscription, iconURLs map[int64]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions`); err != nil {
		return fmt.Errorf("clear subscriptions: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO subscriptions (feed_id, title, feed_url, site_url, icon_url)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(feed_id) DO UPDATE SET
  title=excluded.title,
  feed_url=excluded.feed_url,
  site_url=excluded.site_url,
  icon_url=excluded.icon_url
`)
	if err != nil {
		return fmt.Errorf("prepare subscription statement: %w", err)
	}
	defer stmt.Close()

	for _, sub := range subscriptions {
		if _, err := stmt.ExecContext(ctx, sub.ID, sub.Title, sub.FeedURL, sub.SiteURL, iconURLs[sub.ID]); err != nil {
			return fmt.Errorf("save subscription %d: %w", sub.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SaveTaggings replaces the cached taggings.
func (r *Repository) SaveTaggings(ctx context.Context, taggings []feedbin.Tagging) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM taggings`); err != nil {
		return fmt.Errorf("clear taggings: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO taggings (id, feed_id, name) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare tagging statement: %w", err)
	}
	defer stmt.Close()

	for _, tagging := range taggings {
		if _, err := stmt.ExecContext(ctx, tagging.ID, tagging.FeedID, tagging.Name); err != nil {
			return fmt.Errorf("save tagging %d: %w", tagging.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListEntries returns cached entries newest first, skipping offset rows.
func (r *Repository) ListEntries(ctx context.Context, filter models.Filter, limit, offset int) ([]models.Article, error) {
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, url, author, summary, feed_id, published_at, is_unread, is_starred
FROM entries
WHERE `+filterClause(filter)+`
ORDER BY published_at DESC, id DESC
LIMIT ? OFFSET ?
`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	articles := make([]models.Article, 0, limit)
	for rows.Next() {
		var (
			id, feedID      int64
			author, summary sql.NullString
			publishedAt     string
			unread, starred bool
			article         models.Article
		)
		if err := rows.Scan(
			&id,
			&article.Title,
			&article.URL,
			&author,
			&summary,
			&feedID,
			&publishedAt,
			&unread,
			&starred,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		article.ID = ArticleID(id)
		article.FeedID = FeedID(feedID)
		article.Author = author.String
		article.Summary = summary.String
		article.Date, err = time.Parse(time.RFC3339Nano, publishedAt)
		if err != nil {
			return nil, fmt.Errorf("parse entry published_at %q: %w", publishedAt, err)
		}
		article.Unread = models.Read
		if unread {
			article.Unread = models.Unread
		}
		if starred {
			article.Marked = models.Marked
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

func (r *Repository) ListSubscriptions(ctx context.Context) ([]models.Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT feed_id, title, feed_url, site_url, icon_url
FROM subscriptions
ORDER BY title COLLATE NOCASE, feed_id
`)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	var feeds []models.Feed
	for rows.Next() {
		var (
			id               int64
			siteURL, iconURL sql.NullString
			feed             models.Feed
		)
		if err := rows.Scan(&id, &feed.Label, &feed.FeedURL, &siteURL, &iconURL); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		feed.ID = FeedID(id)
		feed.SiteURL = siteURL.String
		feed.IconURL = iconURL.String
		feeds = append(feeds, feed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return feeds, nil
}

func (r *Repository) ListTaggings(ctx context.Context) ([]feedbin.Tagging, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, feed_id, name FROM taggings ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query taggings: %w", err)
	}
	defer rows.Close()

	var taggings []feedbin.Tagging
	for rows.Next() {
		var tagging feedbin.Tagging
		if err := rows.Scan(&tagging.ID, &tagging.FeedID, &tagging.Name); err != nil {
			return nil, fmt.Errorf("scan tagging: %w", err)
		}
		taggings = append(taggings, tagging)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return taggings, nil
}

// CountsByFeed counts starred entries per feed for FilterStarred and unread
// entries otherwise. Feeds without matching entries are absent.
func (r *Repository) CountsByFeed(ctx context.Context, filter models.Filter) (map[models.FeedID]int64, error) {
	where := filterClause(models.FilterUnread)
	if filter == models.FilterStarred {
		where = filterClause(models.FilterStarred)
	}
	rows, err := r.db.QueryContext(ctx, `SELECT feed_id, COUNT(*) FROM entries WHERE `+where+` GROUP BY feed_id`)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.FeedID]int64)
	for rows.Next() {
		var feedID, count int64
		if err := rows.Scan(&feedID, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[FeedID(feedID)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return counts, nil
}

func filterClause(filter models.Filter) string {
	switch filter {
	case models.FilterUnread:
		return "is_unread = 1"
	case models.FilterStarred:
		return "is_starred = 1"
	default:
		return "1 = 1"
	}
}

// ArticleID and FeedID turn Feedbin's numeric ids into model identities.
func ArticleID(id int64) models.ArticleID {
	return models.ArticleID(strconv.FormatInt(id, 10))
}

func FeedID(id int64) models.FeedID {
	return models.FeedID(strconv.FormatInt(id, 10))
}

// EntryID parses an article identity back into a Feedbin entry id.
func EntryID(id models.ArticleID) (int64, error) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse entry id %q: %w", id, err)
	}
	return n, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
