package articlelist

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glabrego/reeder/internal/models"
)

func day(d int) time.Time {
	return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC)
}

func article(id string, date time.Time, unread models.ReadStatus) models.Article {
	return models.Article{
		ID:     models.ArticleID(id),
		FeedID: "feed-1",
		Title:  "Title " + id,
		Date:   date,
		Unread: unread,
	}
}

func ids(articles []Article) []models.ArticleID {
	out := make([]models.ArticleID, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.ID)
	}
	return out
}

func TestModel_AddRejectsDuplicateIdentity(t *testing.T) {
	m := New(models.NewestFirst)
	require.NoError(t, m.Add(article("a", day(1), models.Unread), "Feed", nil))
	require.True(t, m.Contains("a"))

	err := m.Add(article("a", day(2), models.Read), "Other", nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAlreadyContains))
	require.Equal(t, 1, m.Len())

	got, ok := m.Article("a")
	require.True(t, ok)
	require.Equal(t, "Feed", got.FeedName)
	require.Equal(t, models.Unread, got.Unread)
}

func TestModel_SortIsStableOnEqualDates(t *testing.T) {
	m := New(models.NewestFirst)
	require.NoError(t, m.Add(article("old", day(1), models.Unread), "Feed", nil))
	require.NoError(t, m.Add(article("tie-1", day(2), models.Unread), "Feed", nil))
	require.NoError(t, m.Add(article("new", day(3), models.Unread), "Feed", nil))
	require.NoError(t, m.Add(article("tie-2", day(2), models.Unread), "Feed", nil))

	m.Sort()
	require.Equal(t, []models.ArticleID{"new", "tie-1", "tie-2", "old"}, ids(m.Articles()))

	asc := New(models.OldestFirst)
	for _, a := range m.Articles() {
		require.NoError(t, asc.AddArticle(a))
	}
	asc.Sort()
	require.Equal(t, []models.ArticleID{"old", "tie-1", "tie-2", "new"}, ids(asc.Articles()))
}

func TestModel_CalculateSelection(t *testing.T) {
	m := New(models.NewestFirst)
	require.NoError(t, m.Add(article("a", day(1), models.Unread), "Feed", nil))
	require.NoError(t, m.Add(article("b", day(5), models.Unread), "Feed", nil))

	got, ok := m.CalculateSelection(0)
	require.True(t, ok)
	require.Equal(t, models.ArticleID("b"), got.ID)

	_, ok = m.CalculateSelection(2)
	require.False(t, ok)
	_, ok = m.CalculateSelection(-1)
	require.False(t, ok)
}

func TestModel_SetReadAndMarked(t *testing.T) {
	m := New(models.NewestFirst)
	require.NoError(t, m.Add(article("a", day(1), models.Unread), "Feed", nil))

	require.True(t, m.SetRead("a", models.Read))
	require.True(t, m.SetMarked("a", models.Marked))
	require.False(t, m.SetRead("missing", models.Read))

	got, _ := m.Article("a")
	require.Equal(t, models.Read, got.Unread)
	require.Equal(t, models.Marked, got.Marked)
}

func TestModel_ExtendAppendsPageAndSkipsDuplicates(t *testing.T) {
	first := New(models.NewestFirst)
	require.NoError(t, first.Add(article("a", day(5), models.Unread), "Feed", nil))
	require.NoError(t, first.Add(article("b", day(4), models.Unread), "Feed", nil))

	page := New(models.NewestFirst)
	require.NoError(t, page.Add(article("b", day(4), models.Unread), "Feed", nil))
	require.NoError(t, page.Add(article("c", day(3), models.Unread), "Feed", nil))

	extended, skipped := first.Extend(page)
	require.Equal(t, 1, skipped)
	require.Equal(t, []models.ArticleID{"a", "b", "c"}, ids(extended.Articles()))
	require.Equal(t, 2, first.Len())

	changes := first.Diff(extended)
	require.Equal(t, []string{"add(c@2)"}, describe(changes))
}

func TestModel_LookupFollowsSortAndExtend(t *testing.T) {
	m := New(models.NewestFirst)
	require.NoError(t, m.Add(article("old", day(1), models.Unread), "Feed", nil))
	require.NoError(t, m.Add(article("new", day(3), models.Unread), "Feed", nil))
	m.Sort()
	require.Equal(t, []models.ArticleID{"new", "old"}, ids(m.Articles()))

	require.True(t, m.SetRead("old", models.Read))
	got, ok := m.Article("old")
	require.True(t, ok)
	require.Equal(t, day(1), got.Date)
	require.Equal(t, models.Read, got.Unread)
	got, _ = m.Article("new")
	require.Equal(t, models.Unread, got.Unread)

	page := New(models.NewestFirst)
	require.NoError(t, page.Add(article("mid", day(2), models.Unread), "Feed", nil))
	extended, _ := m.Extend(page)
	extended.Sort()
	require.Equal(t, []models.ArticleID{"new", "mid", "old"}, ids(extended.Articles()))

	require.True(t, extended.SetMarked("mid", models.Marked))
	got, _ = extended.Article("mid")
	require.Equal(t, models.Marked, got.Marked)
	got, _ = extended.Article("old")
	require.Equal(t, models.Read, got.Unread)

	// the source snapshot keeps its own positions
	require.False(t, m.Contains("mid"))
	got, _ = m.Article("new")
	require.Equal(t, models.Unmarked, got.Marked)
}
