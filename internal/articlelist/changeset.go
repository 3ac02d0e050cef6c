package articlelist

import (
	"fmt"

	"github.com/glabrego/reeder/internal/models"
)

type ChangeKind string

const (
	ChangeAdd          ChangeKind = "add"
	ChangeRemove       ChangeKind = "remove"
	ChangeUpdateRead   ChangeKind = "update_read"
	ChangeUpdateMarked ChangeKind = "update_marked"
)

// Change is one primitive edit of the article list. Which fields are set
// depends on Kind:
//
//	ChangeAdd:          Article, Pos
//	ChangeRemove:       ID
//	ChangeUpdateRead:   ID, Read
//	ChangeUpdateMarked: ID, Marked
//
// Positions assume every earlier change of the same sequence has been applied.
type Change struct {
	Kind    ChangeKind
	ID      models.ArticleID
	Article Article
	Pos     int
	Read    models.ReadStatus
	Marked  models.MarkStatus
}

func addChange(article Article, pos int) Change {
	return Change{Kind: ChangeAdd, ID: article.ID, Article: article, Pos: pos}
}

func removeChange(id models.ArticleID) Change {
	return Change{Kind: ChangeRemove, ID: id}
}

func (c Change) String() string {
	switch c.Kind {
	case ChangeAdd:
		return fmt.Sprintf("add(%s@%d)", c.ID, c.Pos)
	case ChangeRemove:
		return fmt.Sprintf("remove(%s)", c.ID)
	case ChangeUpdateRead:
		return fmt.Sprintf("read(%s=%s)", c.ID, c.Read)
	case ChangeUpdateMarked:
		return fmt.Sprintf("marked(%s=%s)", c.ID, c.Marked)
	default:
		return fmt.Sprintf("%s(%s)", c.Kind, c.ID)
	}
}
