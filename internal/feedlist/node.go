package feedlist

import "github.com/glabrego/reeder/internal/models"

type NodeKind string

const (
	NodeCategory NodeKind = "category"
	NodeFeed     NodeKind = "feed"
)

// Category is a folder row. Expanded is local to the presentation; the
// backend never supplies it.
type Category struct {
	ID        models.CategoryID
	Parent    models.CategoryID
	SortIndex int
	ItemCount int64
	Label     string
	Expanded  bool
	Level     int
}

type Feed struct {
	ID        models.FeedID
	Parent    models.CategoryID
	SortIndex int
	ItemCount int64
	Label     string
	Icon      *models.FavIcon
	Level     int
}

// Node is either a category or a feed; the pointer matching Kind is set, the
// other one is nil.
type Node struct {
	Kind     NodeKind
	Category *Category
	Feed     *Feed
}

type nodeKey struct {
	kind NodeKind
	id   string
}

func (n Node) key() nodeKey {
	if n.Kind == NodeCategory {
		return nodeKey{kind: NodeCategory, id: string(n.Category.ID)}
	}
	return nodeKey{kind: NodeFeed, id: string(n.Feed.ID)}
}

func (n Node) Parent() models.CategoryID {
	if n.Kind == NodeCategory {
		return n.Category.Parent
	}
	return n.Feed.Parent
}

func (n Node) SortIndex() int {
	if n.Kind == NodeCategory {
		return n.Category.SortIndex
	}
	return n.Feed.SortIndex
}

func (n Node) Level() int {
	if n.Kind == NodeCategory {
		return n.Category.Level
	}
	return n.Feed.Level
}

func (n Node) Label() string {
	if n.Kind == NodeCategory {
		return n.Category.Label
	}
	return n.Feed.Label
}

func (n Node) ItemCount() int64 {
	if n.Kind == NodeCategory {
		return n.Category.ItemCount
	}
	return n.Feed.ItemCount
}
