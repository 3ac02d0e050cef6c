// Package actions turns service calls into bubbletea commands. Every command
// that changes what the lists show answers with fresh snapshots; the model
// diffs them against what it has on screen.
package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/reeder/internal/articlelist"
	"github.com/glabrego/reeder/internal/feedlist"
	"github.com/glabrego/reeder/internal/models"
)

type Service interface {
	Refresh(ctx context.Context, page, perPage int) error
	ArticleList(ctx context.Context, filter models.Filter, order models.ArticleOrder, limit int) (*articlelist.Model, error)
	LoadMore(ctx context.Context, current *articlelist.Model, filter models.Filter, page, perPage int) (*articlelist.Model, int, error)
	FeedTree(ctx context.Context, filter models.Filter) (*feedlist.Tree, error)
	ToggleUnread(ctx context.Context, id models.ArticleID, current models.ReadStatus) (models.ReadStatus, error)
	ToggleStarred(ctx context.Context, id models.ArticleID, current models.MarkStatus) (models.MarkStatus, error)
}

// Query selects the snapshots to load from the cache.
type Query struct {
	Filter models.Filter
	Order  models.ArticleOrder
	Limit  int
}

type RefreshSuccessMsg struct {
	Articles *articlelist.Model
	Tree     *feedlist.Tree
	Duration time.Duration
	Source   string
}

type RefreshErrorMsg struct {
	Err      error
	Duration time.Duration
	Source   string
}

type FilterLoadSuccessMsg struct {
	Query    Query
	Articles *articlelist.Model
	Tree     *feedlist.Tree
}

type FilterLoadErrorMsg struct {
	Err error
}

type LoadMoreSuccessMsg struct {
	Page         int
	FetchedCount int
	Articles     *articlelist.Model
}

type LoadMoreErrorMsg struct {
	Err error
}

type ToggleUnreadSuccessMsg struct {
	ArticleID models.ArticleID
	Next      models.ReadStatus
	Status    string
	Articles  *articlelist.Model
	Tree      *feedlist.Tree
}

type ToggleStarredSuccessMsg struct {
	ArticleID models.ArticleID
	Next      models.MarkStatus
	Status    string
	Articles  *articlelist.Model
	Tree      *feedlist.Tree
}

type ToggleActionErrorMsg struct {
	Err error
}

func loadSnapshots(ctx context.Context, service Service, q Query) (*articlelist.Model, *feedlist.Tree, error) {
	articles, err := service.ArticleList(ctx, q.Filter, q.Order, q.Limit)
	if err != nil {
		return nil, nil, err
	}
	tree, err := service.FeedTree(ctx, q.Filter)
	if err != nil {
		return nil, nil, err
	}
	return articles, tree, nil
}

// RefreshCmd pulls the first page from the backend and reloads both lists.
func RefreshCmd(service Service, q Query, perPage int, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		start := time.Now()

		if err := service.Refresh(ctx, 1, perPage); err != nil {
			return RefreshErrorMsg{Err: err, Duration: time.Since(start), Source: source}
		}
		articles, tree, err := loadSnapshots(ctx, service, q)
		if err != nil {
			return RefreshErrorMsg{Err: err, Duration: time.Since(start), Source: source}
		}
		return RefreshSuccessMsg{Articles: articles, Tree: tree, Duration: time.Since(start), Source: source}
	}
}

// LoadFilterCmd reloads both lists from the cache only.
func LoadFilterCmd(service Service, q Query) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		articles, tree, err := loadSnapshots(ctx, service, q)
		if err != nil {
			return FilterLoadErrorMsg{Err: err}
		}
		return FilterLoadSuccessMsg{Query: q, Articles: articles, Tree: tree}
	}
}

// LoadMoreCmd extends current by the next page. current is only read.
func LoadMoreCmd(service Service, current *articlelist.Model, filter models.Filter, page, perPage int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()

		articles, fetchedCount, err := service.LoadMore(ctx, current, filter, page, perPage)
		if err != nil {
			return LoadMoreErrorMsg{Err: err}
		}
		return LoadMoreSuccessMsg{Page: page, FetchedCount: fetchedCount, Articles: articles}
	}
}

func ToggleUnreadCmd(service Service, q Query, id models.ArticleID, current models.ReadStatus) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		next, err := service.ToggleUnread(ctx, id, current)
		if err != nil {
			return ToggleActionErrorMsg{Err: err}
		}
		articles, tree, err := loadSnapshots(ctx, service, q)
		if err != nil {
			return ToggleActionErrorMsg{Err: fmt.Errorf("reload after toggle: %w", err)}
		}

		status := "Marked as read"
		if next == models.Unread {
			status = "Marked as unread"
		}
		return ToggleUnreadSuccessMsg{ArticleID: id, Next: next, Status: status, Articles: articles, Tree: tree}
	}
}

func ToggleStarredCmd(service Service, q Query, id models.ArticleID, current models.MarkStatus) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		next, err := service.ToggleStarred(ctx, id, current)
		if err != nil {
			return ToggleActionErrorMsg{Err: err}
		}
		articles, tree, err := loadSnapshots(ctx, service, q)
		if err != nil {
			return ToggleActionErrorMsg{Err: fmt.Errorf("reload after toggle: %w", err)}
		}

		status := "Unstarred entry"
		if next == models.Marked {
			status = "Starred entry"
		}
		return ToggleStarredSuccessMsg{ArticleID: id, Next: next, Status: status, Articles: articles, Tree: tree}
	}
}
