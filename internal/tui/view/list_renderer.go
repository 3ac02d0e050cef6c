package view

import (
	"strings"
	"time"

	tuitheme "github.com/glabrego/reeder/internal/tui/theme"
)

// Window returns the [start, end) slice of total rows that keeps cursor on a
// screen of height lines.
func Window(total, cursor, height int) (int, int) {
	if height <= 0 || total <= 0 {
		return 0, 0
	}
	if total <= height {
		return 0, total
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}

type SidebarRenderInput struct {
	Rows   []SidebarRow
	Cursor int
	Height int
	Width  int
	Active bool
}

// RenderSidebar draws the visible rows around the cursor.
func RenderSidebar(in SidebarRenderInput, th tuitheme.Theme) string {
	start, end := Window(len(in.Rows), in.Cursor, in.Height)
	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(RenderSidebarRow(in.Rows[i], in.Width, in.Active && i == in.Cursor, th))
		b.WriteString("\n")
	}
	return b.String()
}

type ArticleRenderInput struct {
	Rows         *ArticleRows
	Cursor       int
	Height       int
	Width        int
	Active       bool
	Now          time.Time
	RelativeTime bool
	Compact      bool
	ShowNumbers  bool
}

func RenderArticles(in ArticleRenderInput, th tuitheme.Theme) string {
	if in.Rows == nil || in.Rows.Len() == 0 {
		return th.MetaLabel.Render("No articles.") + "\n"
	}
	start, end := Window(in.Rows.Len(), in.Cursor, in.Height)
	var b strings.Builder
	for i := start; i < end; i++ {
		article, _ := in.Rows.At(i)
		b.WriteString(RenderEntryLine(EntryLineParams{
			Article:      article,
			Now:          in.Now,
			RelativeTime: in.RelativeTime,
			Compact:      in.Compact,
			ShowNumbers:  in.ShowNumbers,
			VisiblePos:   i,
			Active:       in.Active && i == in.Cursor,
			Width:        in.Width,
		}, th))
		b.WriteString("\n")
	}
	return b.String()
}
