// Package state keeps cursor bookkeeping for the list panes.
package state

import (
	"github.com/glabrego/reeder/internal/articlelist"
	"github.com/glabrego/reeder/internal/feedlist"
	"github.com/glabrego/reeder/internal/models"
	"github.com/glabrego/reeder/internal/tui/view"
)

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is how far pgup/pgdown move on a screen of height lines.
func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

// RestoreCursor returns index when the anchor was found and the clamped
// fallback otherwise.
func RestoreCursor(index, fallback, size int) int {
	if index >= 0 && index < size {
		return index
	}
	return ClampCursor(fallback, size)
}

func ArticleIndex(rows []articlelist.Article, id models.ArticleID) int {
	if id == "" {
		return -1
	}
	for i, row := range rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

// SidebarAnchor names a sidebar row by identity.
type SidebarAnchor struct {
	Kind       feedlist.NodeKind
	FeedID     models.FeedID
	CategoryID models.CategoryID
}

func AnchorOf(row view.SidebarRow) SidebarAnchor {
	return SidebarAnchor{Kind: row.Kind, FeedID: row.FeedID, CategoryID: row.CategoryID}
}

func SidebarIndex(rows []view.SidebarRow, anchor SidebarAnchor) int {
	if anchor.Kind == "" {
		return -1
	}
	for i, row := range rows {
		if AnchorOf(row) == anchor {
			return i
		}
	}
	return -1
}
