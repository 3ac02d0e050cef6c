package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/reeder/internal/tui/theme"
)

func Toolbar(sidebarFocused bool) string {
	if sidebarFocused {
		return "j/k move | space collapse/expand | tab articles | r refresh | q quit"
	}
	return "j/k move | u unread | s star | n more | f filter | o order | tab feeds | r refresh | q quit"
}

func Footer(order, filter string, page, shown int, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("order") + " " + th.MetaValue.Render(order),
		th.MetaLabel.Render("filter") + " " + th.MetaValue.Render(filter),
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(fmt.Sprintf("%d", page)),
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
	}
	return strings.Join(parts, " • ")
}

// CompactMessage renders the status line. A warning wins over loading.
func CompactMessage(loading bool, spinner string, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	stateLabel := th.StateIdle.Render("state")
	switch {
	case warning != "":
		state = "warning"
		stateLabel = th.StateWarn.Render("state")
	case loading:
		state = "loading"
		if spinner != "" {
			state = spinner + " loading"
		}
		stateLabel = th.StateLoad.Render("state")
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if warning != "" {
		main = warning
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
