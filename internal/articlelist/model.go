// Package articlelist holds the flat, date-sorted article list snapshot and
// computes the edit script between two snapshots.
package articlelist

import (
	"errors"
	"fmt"
	"sort"

	"github.com/glabrego/reeder/internal/models"
)

var ErrAlreadyContains = errors.New("article list already contains article")

// Model is one snapshot of the article list. Identities are unique and ids
// maps each identity to its position in articles.
type Model struct {
	articles []Article
	ids      map[models.ArticleID]int
	order    models.ArticleOrder
}

func New(order models.ArticleOrder) *Model {
	return &Model{
		ids:   make(map[models.ArticleID]int),
		order: order,
	}
}

func (m *Model) Add(article models.Article, feedName string, icon *models.FavIcon) error {
	return m.AddArticle(newArticle(article, feedName, icon))
}

func (m *Model) AddArticle(article Article) error {
	if m.Contains(article.ID) {
		return fmt.Errorf("%w: %s", ErrAlreadyContains, article.ID)
	}
	m.ids[article.ID] = len(m.articles)
	m.articles = append(m.articles, article)
	return nil
}

func (m *Model) Contains(id models.ArticleID) bool {
	_, ok := m.ids[id]
	return ok
}

func (m *Model) Len() int {
	return len(m.articles)
}

func (m *Model) Order() models.ArticleOrder {
	return m.order
}

// Articles returns the entries in their current order. The slice is shared
// with the model and must not be modified.
func (m *Model) Articles() []Article {
	return m.articles
}

// Sort orders the entries by date. Entries with equal dates keep their
// insertion order.
func (m *Model) Sort() {
	if m.order == models.OldestFirst {
		sort.SliceStable(m.articles, func(i, j int) bool {
			return m.articles[i].Date.Before(m.articles[j].Date)
		})
	} else {
		sort.SliceStable(m.articles, func(i, j int) bool {
			return m.articles[i].Date.After(m.articles[j].Date)
		})
	}
	m.reindex()
}

func (m *Model) reindex() {
	for i := range m.articles {
		m.ids[m.articles[i].ID] = i
	}
}

// CalculateSelection resolves a display index to its entry.
func (m *Model) CalculateSelection(index int) (Article, bool) {
	m.Sort()
	if index < 0 || index >= len(m.articles) {
		return Article{}, false
	}
	return m.articles[index], true
}

func (m *Model) Article(id models.ArticleID) (Article, bool) {
	i := m.indexOf(id)
	if i < 0 {
		return Article{}, false
	}
	return m.articles[i], true
}

func (m *Model) SetRead(id models.ArticleID, read models.ReadStatus) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.articles[i].Unread = read
	return true
}

func (m *Model) SetMarked(id models.ArticleID, marked models.MarkStatus) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.articles[i].Marked = marked
	return true
}

// Extend returns a new snapshot holding the entries of m followed by the
// entries of page that m does not contain yet, and the number of page entries
// that were skipped as duplicates.
func (m *Model) Extend(page *Model) (*Model, int) {
	out := &Model{
		articles: make([]Article, len(m.articles), len(m.articles)+len(page.articles)),
		ids:      make(map[models.ArticleID]int, len(m.articles)+len(page.articles)),
		order:    m.order,
	}
	copy(out.articles, m.articles)
	for id, i := range m.ids {
		out.ids[id] = i
	}
	skipped := 0
	for _, article := range page.articles {
		if err := out.AddArticle(article); err != nil {
			skipped++
		}
	}
	return out, skipped
}

func (m *Model) indexOf(id models.ArticleID) int {
	i, ok := m.ids[id]
	if !ok {
		return -1
	}
	return i
}
