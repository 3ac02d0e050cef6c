package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glabrego/reeder/internal/feedbin"
	"github.com/glabrego/reeder/internal/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "feedbin.db")
	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return repo
}

func TestRepository_SaveAndListEntries(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	entries := []feedbin.Entry{
		{
			ID:          1,
			Title:       "Older",
			URL:         "https://example.com/old",
			FeedID:      10,
			PublishedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Title:       "Newer",
			URL:         "https://example.com/new",
			Author:      "Jane",
			FeedID:      10,
			PublishedAt: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	if err := repo.SaveEntries(ctx, entries); err != nil {
		t.Fatalf("SaveEntries returned error: %v", err)
	}

	listed, err := repo.ListEntries(ctx, models.FilterAll, 10, 0)
	if err != nil {
		t.Fatalf("ListEntries returned error: %v", err)
	}

	if len(listed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(listed))
	}
	if listed[0].ID != "2" || listed[0].FeedID != "10" || listed[0].Author != "Jane" {
		t.Fatalf("expected newest first, got %+v", listed[0])
	}
	if listed[0].Unread != models.Read || listed[0].Marked != models.Unmarked {
		t.Fatalf("expected entries without state to be read and unmarked, got %+v", listed[0])
	}

	page, err := repo.ListEntries(ctx, models.FilterAll, 10, 1)
	if err != nil {
		t.Fatalf("ListEntries with offset returned error: %v", err)
	}
	if len(page) != 1 || page[0].ID != "1" {
		t.Fatalf("unexpected offset page: %+v", page)
	}
}

func TestRepository_SaveEntries_Upserts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	entry := feedbin.Entry{
		ID:          10,
		Title:       "Original",
		URL:         "https://example.com/10",
		FeedID:      99,
		PublishedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.SaveEntries(ctx, []feedbin.Entry{entry}); err != nil {
		t.Fatalf("initial SaveEntries returned error: %v", err)
	}
	if err := repo.SaveEntryStates(ctx, []int64{10}, nil); err != nil {
		t.Fatalf("SaveEntryStates returned error: %v", err)
	}

	entry.Title = "Updated"
	if err := repo.SaveEntries(ctx, []feedbin.Entry{entry}); err != nil {
		t.Fatalf("second SaveEntries returned error: %v", err)
	}

	listed, err := repo.ListEntries(ctx, models.FilterAll, 1, 0)
	if err != nil {
		t.Fatalf("ListEntries returned error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(listed))
	}
	if listed[0].Title != "Updated" {
		t.Fatalf("expected updated title, got %q", listed[0].Title)
	}
	if listed[0].Unread != models.Unread {
		t.Fatal("expected upsert to keep unread state")
	}
}

func TestRepository_StatesFiltersAndCounts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	entries := []feedbin.Entry{
		{ID: 1, Title: "a", FeedID: 10, PublishedAt: base},
		{ID: 2, Title: "b", FeedID: 10, PublishedAt: base.Add(time.Hour)},
		{ID: 3, Title: "c", FeedID: 20, PublishedAt: base.Add(2 * time.Hour)},
	}
	if err := repo.SaveEntries(ctx, entries); err != nil {
		t.Fatalf("SaveEntries returned error: %v", err)
	}
	if err := repo.SaveEntryStates(ctx, []int64{1, 2, 3}, []int64{3}); err != nil {
		t.Fatalf("SaveEntryStates returned error: %v", err)
	}
	if err := repo.SetUnread(ctx, 2, false); err != nil {
		t.Fatalf("SetUnread returned error: %v", err)
	}
	if err := repo.SetStarred(ctx, 1, true); err != nil {
		t.Fatalf("SetStarred returned error: %v", err)
	}

	unread, err := repo.ListEntries(ctx, models.FilterUnread, 10, 0)
	if err != nil {
		t.Fatalf("ListEntries unread returned error: %v", err)
	}
	if len(unread) != 2 || unread[0].ID != "3" || unread[1].ID != "1" {
		t.Fatalf("unexpected unread entries: %+v", unread)
	}

	starred, err := repo.ListEntries(ctx, models.FilterStarred, 10, 0)
	if err != nil {
		t.Fatalf("ListEntries starred returned error: %v", err)
	}
	if len(starred) != 2 || starred[0].Marked != models.Marked {
		t.Fatalf("unexpected starred entries: %+v", starred)
	}

	counts, err := repo.CountsByFeed(ctx, models.FilterAll)
	if err != nil {
		t.Fatalf("CountsByFeed returned error: %v", err)
	}
	if counts["10"] != 1 || counts["20"] != 1 {
		t.Fatalf("unexpected unread counts: %+v", counts)
	}

	starredCounts, err := repo.CountsByFeed(ctx, models.FilterStarred)
	if err != nil {
		t.Fatalf("CountsByFeed starred returned error: %v", err)
	}
	if starredCounts["10"] != 1 || starredCounts["20"] != 1 {
		t.Fatalf("unexpected starred counts: %+v", starredCounts)
	}
}

func TestRepository_SubscriptionsAndTaggingsAreReplaced(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := []feedbin.Subscription{
		{ID: 1, Title: "zeta", FeedURL: "https://z.example/feed"},
		{ID: 2, Title: "Alpha", FeedURL: "https://a.example/feed", SiteURL: "https://a.example"},
	}
	if err := repo.SaveSubscriptions(ctx, first, map[int64]string{2: "https://icons.example/a.png"}); err != nil {
		t.Fatalf("SaveSubscriptions returned error: %v", err)
	}
	feeds, err := repo.ListSubscriptions(ctx)
	if err != nil {
		t.Fatalf("ListSubscriptions returned error: %v", err)
	}
	if len(feeds) != 2 || feeds[0].Label != "Alpha" || feeds[0].IconURL != "https://icons.example/a.png" {
		t.Fatalf("unexpected feeds: %+v", feeds)
	}

	if err := repo.SaveSubscriptions(ctx, first[:1], nil); err != nil {
		t.Fatalf("second SaveSubscriptions returned error: %v", err)
	}
	feeds, err = repo.ListSubscriptions(ctx)
	if err != nil {
		t.Fatalf("ListSubscriptions returned error: %v", err)
	}
	if len(feeds) != 1 || feeds[0].ID != "1" {
		t.Fatalf("expected unsubscribed feed to be gone, got %+v", feeds)
	}

	if err := repo.SaveTaggings(ctx, []feedbin.Tagging{{ID: 1, FeedID: 1, Name: "Tech"}, {ID: 2, FeedID: 2, Name: "News"}}); err != nil {
		t.Fatalf("SaveTaggings returned error: %v", err)
	}
	if err := repo.SaveTaggings(ctx, []feedbin.Tagging{{ID: 2, FeedID: 2, Name: "News/Local"}}); err != nil {
		t.Fatalf("second SaveTaggings returned error: %v", err)
	}
	taggings, err := repo.ListTaggings(ctx)
	if err != nil {
		t.Fatalf("ListTaggings returned error: %v", err)
	}
	if len(taggings) != 1 || taggings[0].Name != "News/Local" {
		t.Fatalf("unexpected taggings: %+v", taggings)
	}
}

func TestEntryIDRoundTrip(t *testing.T) {
	id, err := EntryID(ArticleID(4242))
	if err != nil || id != 4242 {
		t.Fatalf("unexpected entry id %d, err %v", id, err)
	}
	if _, err := EntryID("not-a-number"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRepository_LastSyncedAt(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	got, err := repo.LastSyncedAt(ctx)
	if err != nil {
		t.Fatalf("LastSyncedAt returned error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero time before first sync, got %v", got)
	}

	first := time.Date(2026, 3, 1, 8, 30, 0, 123, time.FixedZone("CET", 3600))
	second := first.Add(2 * time.Hour)
	for _, at := range []time.Time{first, second} {
		if err := repo.SetLastSyncedAt(ctx, at); err != nil {
			t.Fatalf("SetLastSyncedAt returned error: %v", err)
		}
	}

	got, err = repo.LastSyncedAt(ctx)
	if err != nil {
		t.Fatalf("LastSyncedAt returned error: %v", err)
	}
	if !got.Equal(second) {
		t.Fatalf("expected %v, got %v", second, got)
	}
}
