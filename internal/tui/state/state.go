// Package state holds the cursor and scrolling arithmetic of the TUI.
package state

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is how far pgup/pgdown move for a terminal of height rows.
func PageStep(height int, hasPrompt bool) int {
	if height <= 0 {
		return 10
	}
	chrome := 6
	if hasPrompt {
		chrome += 2
	}
	step := height - chrome
	if step < 3 {
		step = 3
	}
	return step
}

// CenteredWindow returns the [start, end) rows to show so that cursor stays
// near the middle of height rows.
func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// ClampScroll keeps top within the scrollable range of a document.
func ClampScroll(top, totalLines, height int) int {
	maxTop := totalLines - height
	if maxTop < 0 {
		maxTop = 0
	}
	if top > maxTop {
		return maxTop
	}
	if top < 0 {
		return 0
	}
	return top
}

// IndexByID returns the position of id in ids, or -1.
func IndexByID(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
