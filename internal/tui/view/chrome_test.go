package view

import (
	"regexp"
	"strings"
	"testing"

	tuitheme "github.com/glabrego/reeder/internal/tui/theme"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiStrip.ReplaceAllString(s, "")
}

func TestToolbar(t *testing.T) {
	if got := Toolbar(true); !strings.Contains(got, "space collapse/expand") {
		t.Fatalf("unexpected sidebar toolbar: %q", got)
	}
	if got := Toolbar(false); !strings.Contains(got, "n more") {
		t.Fatalf("unexpected article toolbar: %q", got)
	}
}

func TestFooter(t *testing.T) {
	th := tuitheme.Default()
	got := stripANSI(Footer("newest", "unread", 2, 42, th))
	for _, want := range []string{"order newest", "filter unread", "page 2", "42 shown"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in footer, got %q", want, got)
		}
	}
}

func TestCompactMessage(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(CompactMessage(false, "", "", "", th)); !strings.Contains(got, "state: idle | Ready") {
		t.Fatalf("unexpected idle compact message: %q", got)
	}
	if got := stripANSI(CompactMessage(true, "-", "", "", th)); !strings.Contains(got, "state: - loading") {
		t.Fatalf("unexpected loading compact message: %q", got)
	}
	if got := stripANSI(CompactMessage(true, "", "", "boom", th)); !strings.Contains(got, "state: warning | boom") {
		t.Fatalf("unexpected warning compact message: %q", got)
	}
}
