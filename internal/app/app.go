package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/glabrego/reeder/internal/articlelist"
	"github.com/glabrego/reeder/internal/feedbin"
	"github.com/glabrego/reeder/internal/feedlist"
	"github.com/glabrego/reeder/internal/models"
	"github.com/glabrego/reeder/internal/render/summary"
	"github.com/glabrego/reeder/internal/storage"
)

// excerptLength bounds the plain-text summary cached for every entry.
const excerptLength = 280

// entriesByIDLimit is the most ids the backend accepts per entries lookup.
const entriesByIDLimit = 100

type FeedbinClient interface {
	Authenticate(ctx context.Context) error
	ListEntries(ctx context.Context, page, perPage int) ([]feedbin.Entry, error)
	ListEntriesByIDs(ctx context.Context, ids []int64) ([]feedbin.Entry, error)
	ListUpdatedEntryIDsSince(ctx context.Context, since time.Time) ([]int64, error)
	ListSubscriptions(ctx context.Context) ([]feedbin.Subscription, error)
	ListTaggings(ctx context.Context) ([]feedbin.Tagging, error)
	ListIcons(ctx context.Context) ([]feedbin.Icon, error)
	ListUnreadEntryIDs(ctx context.Context) ([]int64, error)
	ListStarredEntryIDs(ctx context.Context) ([]int64, error)
	MarkEntriesRead(ctx context.Context, ids []int64) error
	MarkEntriesUnread(ctx context.Context, ids []int64) error
	StarEntries(ctx context.Context, ids []int64) error
	UnstarEntries(ctx context.Context, ids []int64) error
}

type Repository interface {
	SaveSubscriptions(ctx context.Context, subscriptions []feedbin.Subscription, iconURLs map[int64]string) error
	SaveTaggings(ctx context.Context, taggings []feedbin.Tagging) error
	SaveEntries(ctx context.Context, entries []feedbin.Entry) error
	SaveEntryStates(ctx context.Context, unreadIDs, starredIDs []int64) error
	ListEntries(ctx context.Context, filter models.Filter, limit, offset int) ([]models.Article, error)
	ListSubscriptions(ctx context.Context) ([]models.Feed, error)
	ListTaggings(ctx context.Context) ([]feedbin.Tagging, error)
	CountsByFeed(ctx context.Context, filter models.Filter) (map[models.FeedID]int64, error)
	SetUnread(ctx context.Context, entryID int64, unread bool) error
	SetStarred(ctx context.Context, entryID int64, starred bool) error
	LastSyncedAt(ctx context.Context) (time.Time, error)
	SetLastSyncedAt(ctx context.Context, at time.Time) error
}

type Service struct {
	client FeedbinClient
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(client FeedbinClient, repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, repo: repo, logger: logger, now: time.Now}
}

// Authenticate checks the configured credentials against the backend.
func (s *Service) Authenticate(ctx context.Context) error {
	if err := s.client.Authenticate(ctx); err != nil {
		return fmt.Errorf("authenticate with feedbin: %w", err)
	}
	return nil
}

// Refresh pulls the first page of entries and all feed metadata into the
// cache. Entries updated since the previous refresh are pulled as well, even
// when they are past the first page. Snapshots are built from the cache
// afterwards.
func (s *Service) Refresh(ctx context.Context, page, perPage int) error {
	started := s.now()
	since, err := s.repo.LastSyncedAt(ctx)
	if err != nil {
		return fmt.Errorf("load last sync from cache: %w", err)
	}

	entries, err := s.client.ListEntries(ctx, page, perPage)
	if err != nil {
		return fmt.Errorf("fetch entries from feedbin: %w", err)
	}

	updated, err := s.updatedEntries(ctx, since, entries)
	if err != nil {
		return err
	}
	entries = append(entries, updated...)

	subscriptions, err := s.client.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("fetch subscriptions from feedbin: %w", err)
	}

	taggings, err := s.client.ListTaggings(ctx)
	if err != nil {
		return fmt.Errorf("fetch taggings from feedbin: %w", err)
	}

	icons, err := s.client.ListIcons(ctx)
	if err != nil {
		// icons are cosmetic, keep going without them
		s.logger.Warn("fetch icons failed", slog.String("error", err.Error()))
		icons = nil
	}

	if err := s.repo.SaveSubscriptions(ctx, subscriptions, iconURLsByFeed(subscriptions, icons)); err != nil {
		return fmt.Errorf("save subscriptions to cache: %w", err)
	}
	if err := s.repo.SaveTaggings(ctx, taggings); err != nil {
		return fmt.Errorf("save taggings to cache: %w", err)
	}
	if err := s.saveEntries(ctx, entries); err != nil {
		return err
	}
	if err := s.repo.SetLastSyncedAt(ctx, started); err != nil {
		return fmt.Errorf("save last sync to cache: %w", err)
	}

	s.logger.Info("refreshed",
		slog.Int("page", page),
		slog.Int("entries", len(entries)),
		slog.Int("updated", len(updated)),
		slog.Int("subscriptions", len(subscriptions)),
		slog.Int("taggings", len(taggings)),
	)
	return nil
}

// updatedEntries fetches the entries changed since the last sync that the
// fetched page does not already hold. Nothing is fetched before the first sync.
func (s *Service) updatedEntries(ctx context.Context, since time.Time, fetched []feedbin.Entry) ([]feedbin.Entry, error) {
	if since.IsZero() {
		return nil, nil
	}
	ids, err := s.client.ListUpdatedEntryIDsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("fetch updated entries from feedbin: %w", err)
	}

	seen := make(map[int64]struct{}, len(fetched))
	for _, entry := range fetched {
		seen[entry.ID] = struct{}{}
	}
	missing := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}

	var out []feedbin.Entry
	for start := 0; start < len(missing); start += entriesByIDLimit {
		end := min(start+entriesByIDLimit, len(missing))
		batch, err := s.client.ListEntriesByIDs(ctx, missing[start:end])
		if err != nil {
			return nil, fmt.Errorf("fetch updated entries from feedbin: %w", err)
		}
		out = append(out, batch...)
	}
	return out, nil
}

// saveEntries caches entries with an excerpt summary and re-reads the read
// and starred state, which covers the new entries as well.
func (s *Service) saveEntries(ctx context.Context, entries []feedbin.Entry) error {
	for i := range entries {
		raw := entries[i].Summary
		if strings.TrimSpace(raw) == "" {
			raw = entries[i].Content
		}
		entries[i].Summary = summary.Excerpt(raw, excerptLength)
	}
	if err := s.repo.SaveEntries(ctx, entries); err != nil {
		return fmt.Errorf("save entries to cache: %w", err)
	}

	unreadIDs, err := s.client.ListUnreadEntryIDs(ctx)
	if err != nil {
		return fmt.Errorf("fetch unread entries from feedbin: %w", err)
	}
	starredIDs, err := s.client.ListStarredEntryIDs(ctx)
	if err != nil {
		return fmt.Errorf("fetch starred entries from feedbin: %w", err)
	}
	if err := s.repo.SaveEntryStates(ctx, unreadIDs, starredIDs); err != nil {
		return fmt.Errorf("save entry state to cache: %w", err)
	}
	return nil
}

// ArticleList builds an article list snapshot of the first limit cached
// entries matching filter.
func (s *Service) ArticleList(ctx context.Context, filter models.Filter, order models.ArticleOrder, limit int) (*articlelist.Model, error) {
	articles, err := s.repo.ListEntries(ctx, filter, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("load entries from cache: %w", err)
	}
	return s.articleSnapshot(ctx, articles, order)
}

// LoadMore fetches the next backend page and returns current extended by the
// next perPage cached entries, along with the number of fetched entries.
func (s *Service) LoadMore(ctx context.Context, current *articlelist.Model, filter models.Filter, page, perPage int) (*articlelist.Model, int, error) {
	entries, err := s.client.ListEntries(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch entries from feedbin: %w", err)
	}
	if err := s.saveEntries(ctx, entries); err != nil {
		return nil, 0, err
	}

	articles, err := s.repo.ListEntries(ctx, filter, perPage, current.Len())
	if err != nil {
		return nil, 0, fmt.Errorf("load entries from cache: %w", err)
	}
	more, err := s.articleSnapshot(ctx, articles, current.Order())
	if err != nil {
		return nil, 0, err
	}

	next, skipped := current.Extend(more)
	if skipped > 0 {
		s.logger.Debug("skipped entries already listed", slog.Int("skipped", skipped), slog.Int("page", page))
	}
	next.Sort()
	return next, len(entries), nil
}

func (s *Service) articleSnapshot(ctx context.Context, articles []models.Article, order models.ArticleOrder) (*articlelist.Model, error) {
	feeds, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions from cache: %w", err)
	}
	byID := make(map[models.FeedID]models.Feed, len(feeds))
	for _, feed := range feeds {
		byID[feed.ID] = feed
	}

	model := articlelist.New(order)
	for _, article := range articles {
		feed := byID[article.FeedID]
		if err := model.Add(article, feed.Label, favIcon(feed)); err != nil {
			s.logger.Error("build article list", slog.String("article", string(article.ID)), slog.String("error", err.Error()))
			return nil, fmt.Errorf("build article list: %w", err)
		}
	}
	model.Sort()
	return model, nil
}

// FeedTree builds the feed list snapshot. Folder names become categories,
// "A/B" nests B below A. Counts are starred counts for FilterStarred and
// unread counts otherwise; a category counts everything below it.
func (s *Service) FeedTree(ctx context.Context, filter models.Filter) (*feedlist.Tree, error) {
	feeds, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions from cache: %w", err)
	}
	taggings, err := s.repo.ListTaggings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load taggings from cache: %w", err)
	}
	counts, err := s.repo.CountsByFeed(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load counts from cache: %w", err)
	}

	layout := buildLayout(feeds, taggings)
	categoryCounts := make(map[models.CategoryID]int64, len(layout.categories))
	for _, feed := range feeds {
		n := counts[feed.ID]
		for c := layout.folders[feed.ID]; c != models.TopLevel; c = layout.categories[c].Parent {
			categoryCounts[c] += n
		}
	}

	tree := feedlist.NewTree()
	for _, id := range layout.categoryOrder {
		if err := tree.AddCategory(layout.categories[id], categoryCounts[id]); err != nil {
			s.logger.Error("build feed list", slog.String("category", string(id)), slog.String("error", err.Error()))
			return nil, fmt.Errorf("build feed list: %w", err)
		}
	}
	for _, feed := range feeds {
		mapping := models.FeedMapping{
			FeedID:     feed.ID,
			CategoryID: layout.folders[feed.ID],
			SortIndex:  layout.feedIndex[feed.ID],
		}
		err := tree.AddFeed(feed, mapping, counts[feed.ID], favIcon(feed))
		if errors.Is(err, feedlist.ErrDanglingParent) {
			s.logger.Warn("skip feed without category", slog.String("feed", string(feed.ID)), slog.String("category", string(mapping.CategoryID)))
			continue
		}
		if err != nil {
			s.logger.Error("build feed list", slog.String("feed", string(feed.ID)), slog.String("error", err.Error()))
			return nil, fmt.Errorf("build feed list: %w", err)
		}
	}
	return tree, nil
}

// ToggleUnread flips the read state on Feedbin and in the cache and returns
// the new state.
func (s *Service) ToggleUnread(ctx context.Context, id models.ArticleID, current models.ReadStatus) (models.ReadStatus, error) {
	entryID, err := storage.EntryID(id)
	if err != nil {
		return current, err
	}
	next := current.Invert()
	if next == models.Read {
		err = s.client.MarkEntriesRead(ctx, []int64{entryID})
	} else {
		err = s.client.MarkEntriesUnread(ctx, []int64{entryID})
	}
	if err != nil {
		return current, fmt.Errorf("mark entry %s %s: %w", id, next, err)
	}
	if err := s.repo.SetUnread(ctx, entryID, next == models.Unread); err != nil {
		return current, fmt.Errorf("save unread state to cache: %w", err)
	}
	return next, nil
}

func (s *Service) ToggleStarred(ctx context.Context, id models.ArticleID, current models.MarkStatus) (models.MarkStatus, error) {
	entryID, err := storage.EntryID(id)
	if err != nil {
		return current, err
	}
	next := current.Invert()
	if next == models.Marked {
		err = s.client.StarEntries(ctx, []int64{entryID})
	} else {
		err = s.client.UnstarEntries(ctx, []int64{entryID})
	}
	if err != nil {
		return current, fmt.Errorf("mark entry %s %s: %w", id, next, err)
	}
	if err := s.repo.SetStarred(ctx, entryID, next == models.Marked); err != nil {
		return current, fmt.Errorf("save starred state to cache: %w", err)
	}
	return next, nil
}

func favIcon(feed models.Feed) *models.FavIcon {
	if feed.IconURL == "" {
		return nil
	}
	return &models.FavIcon{FeedID: feed.ID, URL: feed.IconURL}
}

func iconURLsByFeed(subscriptions []feedbin.Subscription, icons []feedbin.Icon) map[int64]string {
	byHost := make(map[string]string, len(icons))
	for _, icon := range icons {
		byHost[normalizeHost(icon.Host)] = icon.URL
	}
	out := make(map[int64]string)
	for _, sub := range subscriptions {
		u, err := url.Parse(sub.SiteURL)
		if err != nil || u.Host == "" {
			continue
		}
		if iconURL, ok := byHost[normalizeHost(u.Hostname())]; ok {
			out[sub.ID] = iconURL
		}
	}
	return out
}

func normalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// feedLayout places categories and feeds: every parent lists its categories
// first, then its feeds, each group by label.
type feedLayout struct {
	categories    map[models.CategoryID]models.Category
	categoryOrder []models.CategoryID // parents before children
	folders       map[models.FeedID]models.CategoryID
	feedIndex     map[models.FeedID]int
}

func buildLayout(feeds []models.Feed, taggings []feedbin.Tagging) feedLayout {
	layout := feedLayout{
		categories: make(map[models.CategoryID]models.Category),
		folders:    make(map[models.FeedID]models.CategoryID),
		feedIndex:  make(map[models.FeedID]int),
	}

	subscribed := make(map[models.FeedID]struct{}, len(feeds))
	for _, feed := range feeds {
		subscribed[feed.ID] = struct{}{}
	}

	// a feed tagged more than once is filed under its first folder by name
	sorted := append([]feedbin.Tagging(nil), taggings...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, tagging := range sorted {
		feedID := storage.FeedID(tagging.FeedID)
		if _, ok := subscribed[feedID]; !ok {
			continue
		}
		if _, ok := layout.folders[feedID]; ok {
			continue
		}
		if id := layout.addFolder(tagging.Name); id != models.TopLevel {
			layout.folders[feedID] = id
		}
	}

	childCategories := make(map[models.CategoryID][]models.CategoryID)
	for id, c := range layout.categories {
		childCategories[c.Parent] = append(childCategories[c.Parent], id)
	}
	childFeeds := make(map[models.CategoryID][]models.Feed)
	for _, feed := range feeds {
		parent := layout.folders[feed.ID]
		if _, ok := layout.categories[parent]; !ok {
			parent = models.TopLevel
			layout.folders[feed.ID] = parent
		}
		childFeeds[parent] = append(childFeeds[parent], feed)
	}

	var place func(parent models.CategoryID)
	place = func(parent models.CategoryID) {
		cats := childCategories[parent]
		sort.Slice(cats, func(i, j int) bool {
			return lessLabel(layout.categories[cats[i]].Label, layout.categories[cats[j]].Label, string(cats[i]), string(cats[j]))
		})
		fs := childFeeds[parent]
		sort.SliceStable(fs, func(i, j int) bool {
			return lessLabel(fs[i].Label, fs[j].Label, string(fs[i].ID), string(fs[j].ID))
		})
		for i, id := range cats {
			c := layout.categories[id]
			c.SortIndex = i
			layout.categories[id] = c
			layout.categoryOrder = append(layout.categoryOrder, id)
		}
		for i, feed := range fs {
			layout.feedIndex[feed.ID] = len(cats) + i
		}
		for _, id := range cats {
			place(id)
		}
	}
	place(models.TopLevel)
	return layout
}

// addFolder registers every level of a "/"-separated folder name and returns
// the innermost category.
func (l *feedLayout) addFolder(name string) models.CategoryID {
	parent := models.TopLevel
	var path []string
	for _, part := range strings.Split(name, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		path = append(path, part)
		id := models.CategoryID(strings.Join(path, "/"))
		if _, ok := l.categories[id]; !ok {
			l.categories[id] = models.Category{ID: id, Label: part, Parent: parent}
		}
		parent = id
	}
	return parent
}

func lessLabel(a, b, idA, idB string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return idA < idB
}
