package summary

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlainText(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{raw: "", want: ""},
		{raw: "plain &amp; simple", want: "plain & simple"},
		{raw: "<p>Hello <strong>world</strong></p><p>Second</p>", want: "Hello world Second"},
		{raw: "<div>Text<script>alert(1)</script><style>p{}</style></div>", want: "Text"},
		{raw: "line<br>break", want: "line break"},
		{raw: "<ul><li>one</li><li>two</li></ul>", want: "one two"},
	}
	for _, tc := range cases {
		if got := PlainText(tc.raw); got != tc.want {
			t.Fatalf("PlainText(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	raw := "<p>The quick brown fox jumps over the lazy dog</p>"
	if got := Excerpt(raw, 100); got != "The quick brown fox jumps over the lazy dog" {
		t.Fatalf("unexpected untouched excerpt: %q", got)
	}

	got := Excerpt(raw, 20)
	if got != "The quick brown..." {
		t.Fatalf("unexpected word-boundary excerpt: %q", got)
	}
	if utf8.RuneCountInString(got) > 20 {
		t.Fatalf("excerpt longer than limit: %q", got)
	}

	if got := Excerpt("ääääääääää", 5); got != "ää..." {
		t.Fatalf("unexpected rune excerpt: %q", got)
	}
	if got := Excerpt("abcdef", 2); got != ".." {
		t.Fatalf("unexpected tiny excerpt: %q", got)
	}
	if !strings.HasPrefix(Excerpt("<b>x</b>", 0), "x") {
		t.Fatal("expected no limit for zero")
	}
}
