package view

import (
	"fmt"

	"github.com/glabrego/reeder/internal/feedlist"
	"github.com/glabrego/reeder/internal/models"
)

// SidebarRow is one line of the feed list. Rows below a collapsed category
// are kept with Visible unset.
type SidebarRow struct {
	Kind       feedlist.NodeKind
	FeedID     models.FeedID
	CategoryID models.CategoryID
	Label      string
	Count      int64
	Level      int
	Expanded   bool
	Visible    bool
}

func (r SidebarRow) matches(kind feedlist.NodeKind, feedID models.FeedID, categoryID models.CategoryID) bool {
	if r.Kind != kind {
		return false
	}
	if kind == feedlist.NodeCategory {
		return r.CategoryID == categoryID
	}
	return r.FeedID == feedID
}

func (r SidebarRow) String() string {
	if r.Kind == feedlist.NodeCategory {
		return string(r.CategoryID)
	}
	return string(r.FeedID)
}

type Sidebar struct {
	rows []SidebarRow
}

func NewSidebar(tree *feedlist.Tree) *Sidebar {
	s := &Sidebar{}
	s.Reset(tree)
	return s
}

func (s *Sidebar) Reset(tree *feedlist.Tree) {
	s.rows = nil
	if tree == nil {
		return
	}
	for _, n := range tree.Nodes() {
		switch n.Kind {
		case feedlist.NodeCategory:
			s.rows = append(s.rows, categoryRow(*n.Category, tree.CategoryVisible(n.Category.ID)))
		case feedlist.NodeFeed:
			s.rows = append(s.rows, feedRow(*n.Feed, tree.FeedVisible(n.Feed.ID)))
		}
	}
}

func categoryRow(c feedlist.Category, visible bool) SidebarRow {
	return SidebarRow{
		Kind:       feedlist.NodeCategory,
		CategoryID: c.ID,
		Label:      c.Label,
		Count:      c.ItemCount,
		Level:      c.Level,
		Expanded:   c.Expanded,
		Visible:    visible,
	}
}

func feedRow(f feedlist.Feed, visible bool) SidebarRow {
	return SidebarRow{
		Kind:    feedlist.NodeFeed,
		FeedID:  f.ID,
		Label:   f.Label,
		Count:   f.ItemCount,
		Level:   f.Level,
		Visible: visible,
	}
}

// Rows returns every row, hidden ones included.
func (s *Sidebar) Rows() []SidebarRow {
	return s.rows
}

func (s *Sidebar) VisibleRows() []SidebarRow {
	out := make([]SidebarRow, 0, len(s.rows))
	for _, r := range s.rows {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

func (s *Sidebar) Len() int {
	return len(s.rows)
}

// Apply runs changes in order. Positions count hidden rows too. On error the
// rows stay as they were.
func (s *Sidebar) Apply(changes []feedlist.Change) error {
	rows := append([]SidebarRow(nil), s.rows...)
	for n, c := range changes {
		var err error
		rows, err = applySidebarChange(rows, c)
		if err != nil {
			return fmt.Errorf("apply change %d %s: %w", n, c, err)
		}
	}
	s.rows = rows
	return nil
}

func applySidebarChange(rows []SidebarRow, c feedlist.Change) ([]SidebarRow, error) {
	switch c.Kind {
	case feedlist.ChangeAddCategory, feedlist.ChangeAddFeed:
		if c.Pos < 0 || c.Pos > len(rows) {
			return rows, fmt.Errorf("%w: %d of %d", ErrPositionOutOfRange, c.Pos, len(rows))
		}
		if indexOfNode(rows, c) >= 0 {
			return rows, ErrDuplicateRow
		}
		row := feedRow(c.Feed, c.Visible)
		if c.Kind == feedlist.ChangeAddCategory {
			row = categoryRow(c.Category, c.Visible)
		}
		rows = append(rows, SidebarRow{})
		copy(rows[c.Pos+1:], rows[c.Pos:])
		rows[c.Pos] = row
		return rows, nil
	case feedlist.ChangeRemoveCategory, feedlist.ChangeRemoveFeed:
		i := indexOfNode(rows, c)
		if i < 0 {
			return rows, ErrUnknownRow
		}
		return append(rows[:i], rows[i+1:]...), nil
	case feedlist.ChangeItemCount:
		i := indexOfNode(rows, c)
		if i < 0 {
			return rows, ErrUnknownRow
		}
		rows[i].Count = c.Count
		return rows, nil
	case feedlist.ChangeLabel:
		i := indexOfNode(rows, c)
		if i < 0 {
			return rows, ErrUnknownRow
		}
		rows[i].Label = c.Label
		return rows, nil
	default:
		return rows, fmt.Errorf("unknown change kind %q", c.Kind)
	}
}

func indexOfNode(rows []SidebarRow, c feedlist.Change) int {
	for i := range rows {
		if rows[i].matches(c.Node, c.FeedID, c.CategoryID) {
			return i
		}
	}
	return -1
}

// Toggle collapses or expands category id in tree and updates the rows of
// its subtree. It reports false when the category is unknown.
func (s *Sidebar) Toggle(tree *feedlist.Tree, id models.CategoryID) bool {
	toggle, ok := tree.CollapseExpandIDs(id)
	if !ok {
		return false
	}
	categories := make(map[models.CategoryID]struct{}, len(toggle.CategoryIDs)+1)
	for _, c := range toggle.CategoryIDs {
		categories[c] = struct{}{}
	}
	feeds := make(map[models.FeedID]struct{}, len(toggle.FeedIDs))
	for _, f := range toggle.FeedIDs {
		feeds[f] = struct{}{}
	}
	for i := range s.rows {
		r := &s.rows[i]
		switch r.Kind {
		case feedlist.NodeCategory:
			if r.CategoryID == id {
				r.Expanded = toggle.Expanded
				continue
			}
			if _, ok := categories[r.CategoryID]; ok {
				r.Visible = tree.CategoryVisible(r.CategoryID)
			}
		case feedlist.NodeFeed:
			if _, ok := feeds[r.FeedID]; ok {
				r.Visible = tree.FeedVisible(r.FeedID)
			}
		}
	}
	return true
}
