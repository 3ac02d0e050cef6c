package feedlist

import (
	"fmt"

	"github.com/glabrego/reeder/internal/models"
)

type ChangeKind string

const (
	ChangeAddCategory    ChangeKind = "add_category"
	ChangeAddFeed        ChangeKind = "add_feed"
	ChangeRemoveCategory ChangeKind = "remove_category"
	ChangeRemoveFeed     ChangeKind = "remove_feed"
	ChangeItemCount      ChangeKind = "item_count"
	ChangeLabel          ChangeKind = "label"
)

// Change is one primitive edit of the feed list. Node tells whether FeedID or
// CategoryID identifies the row. Add changes carry a copy of the node, its
// display position and whether it starts visible; ChangeItemCount carries
// Count and ChangeLabel carries Label.
type Change struct {
	Kind       ChangeKind
	Node       NodeKind
	FeedID     models.FeedID
	CategoryID models.CategoryID
	Feed       Feed
	Category   Category
	Pos        int
	Visible    bool
	Count      int64
	Label      string
}

func (c Change) id() string {
	if c.Node == NodeCategory {
		return string(c.CategoryID)
	}
	return string(c.FeedID)
}

func (c Change) String() string {
	switch c.Kind {
	case ChangeAddCategory, ChangeAddFeed:
		visibility := "visible"
		if !c.Visible {
			visibility = "hidden"
		}
		return fmt.Sprintf("%s(%s@%d,%s)", c.Kind, c.id(), c.Pos, visibility)
	case ChangeItemCount:
		return fmt.Sprintf("%s(%s=%d)", c.Kind, c.id(), c.Count)
	case ChangeLabel:
		return fmt.Sprintf("%s(%s=%q)", c.Kind, c.id(), c.Label)
	default:
		return fmt.Sprintf("%s(%s)", c.Kind, c.id())
	}
}

func removeChange(n Node) Change {
	if n.Kind == NodeCategory {
		return Change{Kind: ChangeRemoveCategory, Node: NodeCategory, CategoryID: n.Category.ID}
	}
	return Change{Kind: ChangeRemoveFeed, Node: NodeFeed, FeedID: n.Feed.ID}
}

func addChange(n Node, pos int, visible bool) Change {
	if n.Kind == NodeCategory {
		return Change{
			Kind:       ChangeAddCategory,
			Node:       NodeCategory,
			CategoryID: n.Category.ID,
			Category:   *n.Category,
			Pos:        pos,
			Visible:    visible,
		}
	}
	return Change{
		Kind:    ChangeAddFeed,
		Node:    NodeFeed,
		FeedID:  n.Feed.ID,
		Feed:    *n.Feed,
		Pos:     pos,
		Visible: visible,
	}
}

func updateChanges(old, next Node) []Change {
	var out []Change
	base := Change{Node: next.Kind}
	if next.Kind == NodeCategory {
		base.CategoryID = next.Category.ID
	} else {
		base.FeedID = next.Feed.ID
	}
	if old.ItemCount() != next.ItemCount() {
		c := base
		c.Kind = ChangeItemCount
		c.Count = next.ItemCount()
		out = append(out, c)
	}
	if old.Label() != next.Label() {
		c := base
		c.Kind = ChangeLabel
		c.Label = next.Label()
		out = append(out, c)
	}
	return out
}
