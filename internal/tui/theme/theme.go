// Package theme holds the lipgloss styles of the reader, built on the
// catppuccin mocha palette.
package theme

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/reeder/internal/models"
)

var (
	rosewater = lipgloss.Color("#f5e0dc")
	mauve     = lipgloss.Color("#cba6f7")
	red       = lipgloss.Color("#f38ba8")
	peach     = lipgloss.Color("#fab387")
	yellow    = lipgloss.Color("#f9e2af")
	green     = lipgloss.Color("#a6e3a1")
	lavender  = lipgloss.Color("#b4befe")
	text      = lipgloss.Color("#cdd6f4")
	subtext0  = lipgloss.Color("#a6adc8")
	subtext1  = lipgloss.Color("#bac2de")
	overlay1  = lipgloss.Color("#7f849c")
	surface0  = lipgloss.Color("#313244")
)

// articleState is the key of the title style table.
type articleState struct {
	unread models.ReadStatus
	marked models.MarkStatus
}

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	badge  lipgloss.Style
	titles map[articleState]lipgloss.Style
}

func Default() Theme {
	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(mauve),
		ModePill:   lipgloss.NewStyle().Foreground(lavender).Background(surface0).Padding(0, 1),
		ActiveLine: lipgloss.NewStyle().Background(surface0).Foreground(text),
		MetaLabel:  lipgloss.NewStyle().Foreground(overlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(subtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(green),
		StateWarn:  lipgloss.NewStyle().Foreground(red),
		StateLoad:  lipgloss.NewStyle().Foreground(peach),

		badge: lipgloss.NewStyle().Foreground(yellow).Bold(true),
		titles: map[articleState]lipgloss.Style{
			{models.Unread, models.Unmarked}: lipgloss.NewStyle().Bold(true).Foreground(text),
			{models.Unread, models.Marked}:   lipgloss.NewStyle().Bold(true).Italic(true).Foreground(rosewater),
			{models.Read, models.Marked}:     lipgloss.NewStyle().Italic(true).Foreground(lavender),
			{models.Read, models.Unmarked}:   lipgloss.NewStyle().Foreground(subtext0),
		},
	}
}

// StyleArticleTitle picks the title style from the read and marked state.
func (t Theme) StyleArticleTitle(unread models.ReadStatus, marked models.MarkStatus, title string) string {
	if title == "" {
		return title
	}
	style, ok := t.titles[articleState{unread, marked}]
	if !ok {
		return title
	}
	return style.Render(title)
}

// Badge renders an item count, empty when there is nothing to show.
func (t Theme) Badge(count int64) string {
	if count <= 0 {
		return ""
	}
	return t.badge.Render(strconv.FormatInt(count, 10))
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
