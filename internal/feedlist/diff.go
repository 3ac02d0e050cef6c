package feedlist

import (
	"sort"

	"github.com/glabrego/reeder/internal/models"
)

// Diff returns the changes that turn a sidebar showing t into one showing
// next, keyed by identity.
//
// Before comparing, the expanded flag of every category that exists in both
// trees is copied from t into next, so a refresh never re-expands or
// collapses a branch the user toggled.
//
// A surviving node keeps its row when its whole ancestor chain is unchanged
// and it belongs to the longest run of survivors whose relative order is the
// same in both trees. Every other survivor is removed and added again at its
// new position.
func (t *Tree) Diff(next *Tree) []Change {
	next.carryExpanded(t)

	oldNodes := t.Nodes()
	newNodes := next.Nodes()
	oldPos := make(map[nodeKey]int, len(oldNodes))
	for i, n := range oldNodes {
		oldPos[n.key()] = i
	}

	chains := ancestry{old: t, next: next, same: make(map[models.CategoryID]bool)}
	candidates := make([]int, 0, len(newNodes))
	seq := make([]int, 0, len(newNodes))
	for i, n := range newNodes {
		j, ok := oldPos[n.key()]
		if !ok {
			continue
		}
		if oldNodes[j].Parent() != n.Parent() || !chains.unchanged(n.Parent()) {
			continue
		}
		candidates = append(candidates, i)
		seq = append(seq, j)
	}
	stable := make(map[nodeKey]struct{}, len(seq))
	for _, k := range longestIncreasing(seq) {
		stable[newNodes[candidates[k]].key()] = struct{}{}
	}

	diff := make([]Change, 0)
	// children come after their parent in display order, so walking
	// backwards removes them first
	for i := len(oldNodes) - 1; i >= 0; i-- {
		if _, ok := stable[oldNodes[i].key()]; ok {
			continue
		}
		diff = append(diff, removeChange(oldNodes[i]))
	}
	for pos, n := range newNodes {
		if _, ok := stable[n.key()]; ok {
			diff = append(diff, updateChanges(oldNodes[oldPos[n.key()]], n)...)
			continue
		}
		diff = append(diff, addChange(n, pos, next.visible(n)))
	}
	return diff
}

func (t *Tree) carryExpanded(old *Tree) {
	for id, c := range t.categories {
		if prev, ok := old.categories[id]; ok {
			c.Expanded = prev.Expanded
		}
	}
}

// ancestry memoizes whether a category sits below the same chain of parents
// in both trees.
type ancestry struct {
	old  *Tree
	next *Tree
	same map[models.CategoryID]bool
}

func (a ancestry) unchanged(id models.CategoryID) bool {
	if id == models.TopLevel {
		return true
	}
	if v, ok := a.same[id]; ok {
		return v
	}
	prev, okOld := a.old.categories[id]
	cur, okNew := a.next.categories[id]
	v := okOld && okNew && prev.Parent == cur.Parent && a.unchanged(cur.Parent)
	a.same[id] = v
	return v
}

// longestIncreasing returns the indices of one longest strictly increasing
// subsequence of seq, in ascending order.
func longestIncreasing(seq []int) []int {
	if len(seq) == 0 {
		return nil
	}
	tails := make([]int, 0, len(seq)) // index into seq of the smallest tail per length
	prev := make([]int, len(seq))
	for i, v := range seq {
		n := sort.Search(len(tails), func(k int) bool { return seq[tails[k]] >= v })
		if n > 0 {
			prev[i] = tails[n-1]
		} else {
			prev[i] = -1
		}
		if n == len(tails) {
			tails = append(tails, i)
		} else {
			tails[n] = i
		}
	}

	out := make([]int, len(tails))
	for k, i := len(tails)-1, tails[len(tails)-1]; k >= 0; k, i = k-1, prev[i] {
		out[k] = i
	}
	return out
}
