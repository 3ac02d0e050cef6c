// Package feedlist holds the sidebar snapshot: a tree of categories and feeds
// stored as an arena keyed by identity, with parent links kept as identity
// values.
package feedlist

import (
	"errors"
	"fmt"

	"github.com/glabrego/reeder/internal/models"
)

var (
	ErrDuplicateCategory = errors.New("feed list already contains category")
	ErrDuplicateFeed     = errors.New("feed list already contains feed")
	ErrDanglingParent    = errors.New("parent category not in feed list")
)

type Tree struct {
	categories map[models.CategoryID]*Category
	feeds      map[models.FeedID]*Feed
	// children of each category ordered by SortIndex, ties in insertion
	// order; models.TopLevel holds the roots
	children map[models.CategoryID][]Node
}

func NewTree() *Tree {
	return &Tree{
		categories: make(map[models.CategoryID]*Category),
		feeds:      make(map[models.FeedID]*Feed),
		children:   make(map[models.CategoryID][]Node),
	}
}

// AddCategory inserts a category below its parent, which has to be added
// first. New categories start expanded.
func (t *Tree) AddCategory(category models.Category, itemCount int64) error {
	if _, ok := t.categories[category.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCategory, category.ID)
	}
	level, err := t.levelBelow(category.Parent)
	if err != nil {
		return fmt.Errorf("category %s: %w", category.ID, err)
	}
	node := &Category{
		ID:        category.ID,
		Parent:    category.Parent,
		SortIndex: category.SortIndex,
		ItemCount: itemCount,
		Label:     category.Label,
		Expanded:  true,
		Level:     level,
	}
	t.categories[node.ID] = node
	t.insertChild(Node{Kind: NodeCategory, Category: node})
	return nil
}

// AddFeed files the feed into the category named by mapping.
func (t *Tree) AddFeed(feed models.Feed, mapping models.FeedMapping, itemCount int64, icon *models.FavIcon) error {
	if _, ok := t.feeds[feed.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFeed, feed.ID)
	}
	level, err := t.levelBelow(mapping.CategoryID)
	if err != nil {
		return fmt.Errorf("feed %s: %w", feed.ID, err)
	}
	node := &Feed{
		ID:        feed.ID,
		Parent:    mapping.CategoryID,
		SortIndex: mapping.SortIndex,
		ItemCount: itemCount,
		Label:     feed.Label,
		Icon:      icon,
		Level:     level,
	}
	t.feeds[node.ID] = node
	t.insertChild(Node{Kind: NodeFeed, Feed: node})
	return nil
}

func (t *Tree) levelBelow(parent models.CategoryID) (int, error) {
	if parent == models.TopLevel {
		return 0, nil
	}
	p, ok := t.categories[parent]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrDanglingParent, parent)
	}
	return p.Level + 1, nil
}

func (t *Tree) insertChild(n Node) {
	parent := n.Parent()
	siblings := t.children[parent]
	i := len(siblings)
	for i > 0 && siblings[i-1].SortIndex() > n.SortIndex() {
		i--
	}
	siblings = append(siblings, Node{})
	copy(siblings[i+1:], siblings[i:])
	siblings[i] = n
	t.children[parent] = siblings
}

func (t *Tree) Len() int {
	return len(t.categories) + len(t.feeds)
}

func (t *Tree) Category(id models.CategoryID) (Category, bool) {
	c, ok := t.categories[id]
	if !ok {
		return Category{}, false
	}
	return *c, true
}

func (t *Tree) Feed(id models.FeedID) (Feed, bool) {
	f, ok := t.feeds[id]
	if !ok {
		return Feed{}, false
	}
	return *f, true
}

// Nodes returns every node in display order: a category precedes its
// children. The nodes point into the tree and must be treated as read-only.
func (t *Tree) Nodes() []Node {
	out := make([]Node, 0, t.Len())
	t.walk(models.TopLevel, func(n Node) {
		out = append(out, n)
	})
	return out
}

func (t *Tree) walk(parent models.CategoryID, fn func(Node)) {
	for _, child := range t.children[parent] {
		fn(child)
		if child.Kind == NodeCategory {
			t.walk(child.Category.ID, fn)
		}
	}
}

// Toggle is the result of CollapseExpandIDs: the whole subtree below the
// toggled category and the category's new state.
type Toggle struct {
	FeedIDs     []models.FeedID
	CategoryIDs []models.CategoryID
	Expanded    bool
}

// CollapseExpandIDs flips the expanded flag of a category and returns the
// identities of all of its descendants. Rows below another collapsed
// category stay hidden after an expand; check FeedVisible and
// CategoryVisible before showing them.
func (t *Tree) CollapseExpandIDs(id models.CategoryID) (Toggle, bool) {
	c, ok := t.categories[id]
	if !ok {
		return Toggle{}, false
	}
	c.Expanded = !c.Expanded

	out := Toggle{Expanded: c.Expanded}
	t.walk(id, func(n Node) {
		switch n.Kind {
		case NodeCategory:
			out.CategoryIDs = append(out.CategoryIDs, n.Category.ID)
		case NodeFeed:
			out.FeedIDs = append(out.FeedIDs, n.Feed.ID)
		}
	})
	return out, true
}

func (t *Tree) FeedVisible(id models.FeedID) bool {
	f, ok := t.feeds[id]
	return ok && t.ancestorsExpanded(f.Parent)
}

func (t *Tree) CategoryVisible(id models.CategoryID) bool {
	c, ok := t.categories[id]
	return ok && t.ancestorsExpanded(c.Parent)
}

func (t *Tree) visible(n Node) bool {
	return t.ancestorsExpanded(n.Parent())
}

func (t *Tree) ancestorsExpanded(parent models.CategoryID) bool {
	for parent != models.TopLevel {
		c, ok := t.categories[parent]
		if !ok {
			return false
		}
		if !c.Expanded {
			return false
		}
		parent = c.Parent
	}
	return true
}
