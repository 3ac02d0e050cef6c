package view

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glabrego/reeder/internal/feedlist"
	"github.com/glabrego/reeder/internal/models"
)

func buildTree(t *testing.T, counts map[string]int64) *feedlist.Tree {
	t.Helper()
	tree := feedlist.NewTree()
	require.NoError(t, tree.AddCategory(models.Category{ID: "news", Label: "News"}, counts["news"]))
	require.NoError(t, tree.AddCategory(models.Category{ID: "local", Label: "Local", Parent: "news"}, counts["local"]))
	require.NoError(t, tree.AddFeed(models.Feed{ID: "paper", Label: "Paper"}, models.FeedMapping{FeedID: "paper", CategoryID: "local"}, counts["paper"], nil))
	require.NoError(t, tree.AddFeed(models.Feed{ID: "wire", Label: "Wire"}, models.FeedMapping{FeedID: "wire", CategoryID: "news", SortIndex: 1}, counts["wire"], nil))
	require.NoError(t, tree.AddFeed(models.Feed{ID: "blog", Label: "Blog"}, models.FeedMapping{FeedID: "blog", SortIndex: 1}, counts["blog"], nil))
	return tree
}

func labels(rows []SidebarRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Label)
	}
	return out
}

func TestSidebar_ToggleHidesAndRestoresSubtree(t *testing.T) {
	tree := buildTree(t, nil)
	sidebar := NewSidebar(tree)
	require.Equal(t, []string{"News", "Local", "Paper", "Wire", "Blog"}, labels(sidebar.VisibleRows()))

	require.True(t, sidebar.Toggle(tree, "local"))
	require.Equal(t, []string{"News", "Local", "Wire", "Blog"}, labels(sidebar.VisibleRows()))

	require.True(t, sidebar.Toggle(tree, "news"))
	require.Equal(t, []string{"News", "Blog"}, labels(sidebar.VisibleRows()))
	require.False(t, sidebar.Rows()[0].Expanded)

	// local is still collapsed, so paper stays hidden
	require.True(t, sidebar.Toggle(tree, "news"))
	require.Equal(t, []string{"News", "Local", "Wire", "Blog"}, labels(sidebar.VisibleRows()))

	require.False(t, sidebar.Toggle(tree, "missing"))
	require.Equal(t, 5, sidebar.Len())
}

func TestSidebar_ApplyRefreshKeepsCollapsedBranch(t *testing.T) {
	old := buildTree(t, map[string]int64{"news": 2, "paper": 2})
	sidebar := NewSidebar(old)
	require.True(t, sidebar.Toggle(old, "news"))

	next := buildTree(t, map[string]int64{"news": 5, "paper": 5})
	require.NoError(t, next.AddFeed(models.Feed{ID: "radio", Label: "Radio"}, models.FeedMapping{FeedID: "radio", CategoryID: "news", SortIndex: 2}, 1, nil))

	require.NoError(t, sidebar.Apply(old.Diff(next)))
	require.Equal(t, NewSidebar(next).Rows(), sidebar.Rows())
	require.Equal(t, []string{"News", "Blog"}, labels(sidebar.VisibleRows()))
	require.Equal(t, int64(5), sidebar.Rows()[0].Count)
}

func TestSidebar_RejectedBatchLeavesRowsUntouched(t *testing.T) {
	sidebar := NewSidebar(buildTree(t, nil))

	err := sidebar.Apply([]feedlist.Change{
		{Kind: feedlist.ChangeLabel, Node: feedlist.NodeFeed, FeedID: "wire", Label: "Newswire"},
		{Kind: feedlist.ChangeRemoveCategory, Node: feedlist.NodeCategory, CategoryID: "wire"},
	})
	require.True(t, errors.Is(err, ErrUnknownRow))
	require.Equal(t, "Wire", sidebar.Rows()[3].Label)

	err = sidebar.Apply([]feedlist.Change{{Kind: feedlist.ChangeAddFeed, Node: feedlist.NodeFeed, FeedID: "x", Pos: 9}})
	require.True(t, errors.Is(err, ErrPositionOutOfRange))
}

func randomFeedTree(t *testing.T, rng *rand.Rand) *feedlist.Tree {
	t.Helper()
	tree := feedlist.NewTree()
	var cats []models.CategoryID
	for i := 0; i < 5; i++ {
		if rng.Intn(4) == 0 {
			continue
		}
		parent := models.TopLevel
		if len(cats) > 0 && rng.Intn(2) == 0 {
			parent = cats[rng.Intn(len(cats))]
		}
		c := models.Category{ID: models.CategoryID(fmt.Sprintf("c%d", i)), Label: "c", Parent: parent, SortIndex: rng.Intn(3)}
		require.NoError(t, tree.AddCategory(c, int64(rng.Intn(4))))
		cats = append(cats, c.ID)
	}
	for i := 0; i < 8; i++ {
		if rng.Intn(4) == 0 {
			continue
		}
		parent := models.TopLevel
		if len(cats) > 0 && rng.Intn(3) != 0 {
			parent = cats[rng.Intn(len(cats))]
		}
		f := models.Feed{ID: models.FeedID(fmt.Sprintf("f%d", i)), Label: fmt.Sprintf("l%d", rng.Intn(2))}
		require.NoError(t, tree.AddFeed(f, models.FeedMapping{FeedID: f.ID, CategoryID: parent, SortIndex: rng.Intn(3)}, int64(rng.Intn(4)), nil))
	}
	return tree
}

func TestSidebar_RandomRefreshesMatchFreshRows(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	current := randomFeedTree(t, rng)
	sidebar := NewSidebar(current)
	for round := 0; round < 200; round++ {
		for _, r := range sidebar.Rows() {
			if r.Kind == feedlist.NodeCategory && rng.Intn(3) == 0 {
				sidebar.Toggle(current, r.CategoryID)
			}
		}
		next := randomFeedTree(t, rng)
		require.NoError(t, sidebar.Apply(current.Diff(next)))
		want := NewSidebar(next).Rows()
		if len(want) == 0 {
			require.Empty(t, sidebar.Rows())
		} else {
			require.Equal(t, want, sidebar.Rows())
		}
		current = next
	}
}
