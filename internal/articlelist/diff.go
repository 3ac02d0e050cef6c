package articlelist

import "github.com/glabrego/reeder/internal/models"

// Diff sorts both snapshots and returns the changes that turn a list showing m
// into a list showing next.
//
// listPos is the insertion cursor in the consumer's list: rows before it
// already match next, rows after it are the not yet visited rows of m.
// An identity never gets a second row: when next moves an entry up, the old
// row is removed right before the entry is inserted at the cursor, and the
// old position is skipped once the old cursor reaches it.
func (m *Model) Diff(next *Model) []Change {
	m.Sort()
	next.Sort()

	oldItems := m.articles
	newItems := next.articles
	diff := make([]Change, 0)
	moved := make(map[models.ArticleID]struct{})
	listPos, oldIndex, newIndex := 0, 0, 0

	for {
		if oldIndex < len(oldItems) {
			if _, ok := moved[oldItems[oldIndex].ID]; ok {
				oldIndex++
				continue
			}
		}

		oldDone := oldIndex >= len(oldItems)
		newDone := newIndex >= len(newItems)
		if oldDone && newDone {
			return diff
		}

		if oldDone {
			diff = append(diff, addChange(newItems[newIndex], listPos))
			newIndex++
			listPos++
			continue
		}

		if newDone {
			diff = append(diff, removeChange(oldItems[oldIndex].ID))
			oldIndex++
			continue
		}

		oldItem := oldItems[oldIndex]
		newItem := newItems[newIndex]

		if newItem.SameContent(oldItem) {
			if newItem.Unread != oldItem.Unread {
				diff = append(diff, Change{Kind: ChangeUpdateRead, ID: newItem.ID, Read: newItem.Unread})
			}
			if newItem.Marked != oldItem.Marked {
				diff = append(diff, Change{Kind: ChangeUpdateMarked, ID: newItem.ID, Marked: newItem.Marked})
			}
			listPos++
			oldIndex++
			newIndex++
			continue
		}

		// same identity, different content: replace the row in place
		if newItem.ID == oldItem.ID {
			diff = append(diff, removeChange(oldItem.ID), addChange(newItem, listPos))
			listPos++
			oldIndex++
			newIndex++
			continue
		}

		if next.Contains(oldItem.ID) {
			if m.Contains(newItem.ID) {
				diff = append(diff, removeChange(newItem.ID))
				moved[newItem.ID] = struct{}{}
			}
			diff = append(diff, addChange(newItem, listPos))
			listPos++
			newIndex++
			continue
		}

		diff = append(diff, removeChange(oldItem.ID))
		oldIndex++
	}
}
