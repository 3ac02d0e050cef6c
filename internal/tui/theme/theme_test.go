package theme

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/glabrego/reeder/internal/models"
)

func TestStyleArticleTitle_ByState(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	cases := []struct {
		name   string
		unread models.ReadStatus
		marked models.MarkStatus
	}{
		{"unread", models.Unread, models.Unmarked},
		{"starred", models.Read, models.Marked},
		{"read", models.Read, models.Unmarked},
		{"both", models.Unread, models.Marked},
	}
	for _, tc := range cases {
		got := th.StyleArticleTitle(tc.unread, tc.marked, tc.name)
		if !strings.Contains(got, "\x1b[") {
			t.Fatalf("expected styled %s title, got %q", tc.name, got)
		}
	}

	if got := th.StyleArticleTitle(models.Unread, models.Marked, ""); got != "" {
		t.Fatalf("expected empty title to stay empty, got %q", got)
	}
}

func TestBadge_HiddenForNonPositiveCounts(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	th := Default()

	if got := th.Badge(0); got != "" {
		t.Fatalf("expected no badge for zero, got %q", got)
	}
	if got := th.Badge(-3); got != "" {
		t.Fatalf("expected no badge for negative count, got %q", got)
	}
	if got := th.Badge(12); got != "12" {
		t.Fatalf("expected plain badge, got %q", got)
	}
}

func TestStyleArticleTitle_DistinctPerState(t *testing.T) {
	lipgloss.SetColorProfile(termenv.TrueColor)
	th := Default()

	seen := map[string]string{}
	for _, unread := range []models.ReadStatus{models.Read, models.Unread} {
		for _, marked := range []models.MarkStatus{models.Unmarked, models.Marked} {
			got := th.StyleArticleTitle(unread, marked, "title")
			key := fmt.Sprintf("%v/%v", unread, marked)
			if prev, ok := seen[got]; ok {
				t.Fatalf("states %s and %s render the same: %q", prev, key, got)
			}
			seen[got] = key
		}
	}
}
