package view

import (
	"errors"
	"fmt"

	"github.com/glabrego/reeder/internal/articlelist"
	"github.com/glabrego/reeder/internal/models"
)

var (
	ErrPositionOutOfRange = errors.New("row position out of range")
	ErrUnknownRow         = errors.New("no row with identity")
	ErrDuplicateRow       = errors.New("row already shown")
)

// ArticleRows is the article list as currently shown. It only changes
// through Reset and Apply.
type ArticleRows struct {
	rows []articlelist.Article
}

func NewArticleRows(model *articlelist.Model) *ArticleRows {
	r := &ArticleRows{}
	r.Reset(model)
	return r
}

// Reset replaces every row with the entries of model, in display order.
func (r *ArticleRows) Reset(model *articlelist.Model) {
	if model == nil {
		r.rows = nil
		return
	}
	model.Sort()
	r.rows = append([]articlelist.Article(nil), model.Articles()...)
}

func (r *ArticleRows) Len() int {
	return len(r.rows)
}

func (r *ArticleRows) Rows() []articlelist.Article {
	return r.rows
}

func (r *ArticleRows) At(i int) (articlelist.Article, bool) {
	if i < 0 || i >= len(r.rows) {
		return articlelist.Article{}, false
	}
	return r.rows[i], true
}

// IndexOf returns the row showing id, or -1.
func (r *ArticleRows) IndexOf(id models.ArticleID) int {
	return indexOfArticle(r.rows, id)
}

// Apply runs changes in order. When one of them does not fit the rows the
// whole batch is dropped and the rows stay as they were.
func (r *ArticleRows) Apply(changes []articlelist.Change) error {
	rows := append([]articlelist.Article(nil), r.rows...)
	for n, c := range changes {
		var err error
		rows, err = applyArticleChange(rows, c)
		if err != nil {
			return fmt.Errorf("apply change %d %s: %w", n, c, err)
		}
	}
	r.rows = rows
	return nil
}

func applyArticleChange(rows []articlelist.Article, c articlelist.Change) ([]articlelist.Article, error) {
	switch c.Kind {
	case articlelist.ChangeAdd:
		if c.Pos < 0 || c.Pos > len(rows) {
			return rows, fmt.Errorf("%w: %d of %d", ErrPositionOutOfRange, c.Pos, len(rows))
		}
		if indexOfArticle(rows, c.Article.ID) >= 0 {
			return rows, fmt.Errorf("%w: %s", ErrDuplicateRow, c.Article.ID)
		}
		rows = append(rows, articlelist.Article{})
		copy(rows[c.Pos+1:], rows[c.Pos:])
		rows[c.Pos] = c.Article
		return rows, nil
	case articlelist.ChangeRemove:
		i := indexOfArticle(rows, c.ID)
		if i < 0 {
			return rows, fmt.Errorf("%w: %s", ErrUnknownRow, c.ID)
		}
		return append(rows[:i], rows[i+1:]...), nil
	case articlelist.ChangeUpdateRead:
		i := indexOfArticle(rows, c.ID)
		if i < 0 {
			return rows, fmt.Errorf("%w: %s", ErrUnknownRow, c.ID)
		}
		rows[i].Unread = c.Read
		return rows, nil
	case articlelist.ChangeUpdateMarked:
		i := indexOfArticle(rows, c.ID)
		if i < 0 {
			return rows, fmt.Errorf("%w: %s", ErrUnknownRow, c.ID)
		}
		rows[i].Marked = c.Marked
		return rows, nil
	default:
		return rows, fmt.Errorf("unknown change kind %q", c.Kind)
	}
}

func indexOfArticle(rows []articlelist.Article, id models.ArticleID) int {
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}
