// Package models defines the entities fetched from the backend. Values are
// immutable for the lifetime of one refresh.
package models

import (
	"fmt"
	"strings"
	"time"
)

type ArticleID string

type FeedID string

type CategoryID string

// TopLevel is the parent of root categories and of feeds that are not filed
// into any category. It is never a node of its own.
const TopLevel CategoryID = ""

type ReadStatus int

const (
	Unread ReadStatus = iota
	Read
)

func (r ReadStatus) String() string {
	if r == Read {
		return "read"
	}
	return "unread"
}

// Invert returns the opposite read state.
func (r ReadStatus) Invert() ReadStatus {
	if r == Read {
		return Unread
	}
	return Read
}

type MarkStatus int

const (
	Unmarked MarkStatus = iota
	Marked
)

func (m MarkStatus) String() string {
	if m == Marked {
		return "marked"
	}
	return "unmarked"
}

func (m MarkStatus) Invert() MarkStatus {
	if m == Marked {
		return Unmarked
	}
	return Marked
}

type ArticleOrder int

const (
	NewestFirst ArticleOrder = iota
	OldestFirst
)

func (o ArticleOrder) String() string {
	if o == OldestFirst {
		return "oldest"
	}
	return "newest"
}

func ParseArticleOrder(raw string) (ArticleOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "newest", "newest_first":
		return NewestFirst, nil
	case "oldest", "oldest_first":
		return OldestFirst, nil
	default:
		return NewestFirst, fmt.Errorf("unknown article order: %s", raw)
	}
}

// Article is a single entry as delivered by the backend.
type Article struct {
	ID      ArticleID
	FeedID  FeedID
	Title   string
	Author  string
	URL     string
	Summary string
	Date    time.Time
	Unread  ReadStatus
	Marked  MarkStatus
}

type Feed struct {
	ID      FeedID
	Label   string
	FeedURL string
	SiteURL string
	IconURL string
}

type Category struct {
	ID        CategoryID
	Label     string
	Parent    CategoryID
	SortIndex int
}

// FeedMapping files a feed into a category. Feeds mapped to TopLevel are
// shown at the root of the feed list.
type FeedMapping struct {
	FeedID     FeedID
	CategoryID CategoryID
	SortIndex  int
}

type FavIcon struct {
	FeedID FeedID
	URL    string
	Format string
	Data   []byte
}

// Filter selects which articles a snapshot holds and what the feed list
// counts.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterUnread  Filter = "unread"
	FilterStarred Filter = "starred"
)

func ParseFilter(raw string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterUnread, FilterStarred:
		return f, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter: %s", raw)
	}
}
