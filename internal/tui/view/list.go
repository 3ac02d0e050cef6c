package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	tuitheme "github.com/glabrego/reeder/internal/tui/theme"

	"github.com/glabrego/reeder/internal/articlelist"
	"github.com/glabrego/reeder/internal/feedlist"
	"github.com/glabrego/reeder/internal/models"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type EntryLineParams struct {
	Article      articlelist.Article
	Now          time.Time
	RelativeTime bool
	Compact      bool
	ShowNumbers  bool
	VisiblePos   int
	Active       bool
	Width        int
}

func RenderEntryLine(p EntryLineParams, th tuitheme.Theme) string {
	date := p.Article.Date.UTC().Format(time.DateOnly)
	if p.RelativeTime {
		date = RelativeTimeLabel(p.Now, p.Article.Date)
	}

	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	starMarker := " "
	if p.Article.Marked == models.Marked {
		starMarker = "*"
	}

	prefix := fmt.Sprintf("%s%s ", cursorMarker, starMarker)
	if p.ShowNumbers {
		prefix = fmt.Sprintf("%s%s%2d. ", cursorMarker, starMarker, p.VisiblePos+1)
	}
	dateLabel := "[" + date + "]"
	available := p.Width - visibleLen(prefix) - 1 - visibleLen(dateLabel)
	if available < 1 {
		available = 1
	}

	label := strings.TrimSpace(p.Article.Title)
	if label == "" {
		label = "(untitled)"
	}
	if p.Compact {
		label = CompactEntryLabel(p.Article)
	}
	label = truncateRunes(label, available)
	styledTitle := th.StyleArticleTitle(p.Article.Unread, p.Article.Marked, label)
	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(dateLabel)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+styledTitle+strings.Repeat(" ", gap)+dateLabel)
}

// RenderTreeNodeLine right-aligns the count badge; counts <= 0 show no badge.
func RenderTreeNodeLine(left string, count int64, width int, active bool, th tuitheme.Theme) string {
	right := th.Badge(count)
	if right == "" {
		return th.RenderActiveLine(active, truncateRunes(left, width))
	}
	available := width - visibleLen(right) - 1
	if available < 1 {
		available = 1
	}
	left = truncateRunes(left, available)
	gap := width - visibleLen(left) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(active, left+strings.Repeat(" ", gap)+right)
}

func RenderSidebarRow(row SidebarRow, width int, active bool, th tuitheme.Theme) string {
	indent := strings.Repeat("  ", row.Level)
	if row.Kind == feedlist.NodeCategory {
		marker := "▾ "
		if !row.Expanded {
			marker = "▸ "
		}
		return RenderTreeNodeLine(indent+marker+row.Label, row.Count, width, active, th)
	}
	return RenderTreeNodeLine(indent+"  "+row.Label, row.Count, width, active, th)
}

func CompactEntryLabel(article articlelist.Article) string {
	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = "(untitled)"
	}
	feed := strings.TrimSpace(article.FeedName)
	if feed == "" {
		feed = "unknown feed"
	}
	return feed + " | " + title
}

func RelativeTimeLabel(now, then time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	if then.IsZero() {
		return "unknown"
	}
	if then.After(now) {
		return "just now"
	}
	d := now.Sub(then)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", n)
	}
	if d < 24*time.Hour {
		n := int(d / time.Hour)
		if n == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", n)
	}
	n := int(d / (24 * time.Hour))
	if n == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", n)
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
