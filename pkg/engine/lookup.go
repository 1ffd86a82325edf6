package engine

import "github.com/bastiangx/wordboost/pkg/suggest"

// Table is a snapshot of the candidate list as the host should show it.
type Table struct {
	Candidates []suggest.Candidate
	PageSize   int
	// Cursor is an index into Candidates.
	Cursor        int
	CursorVisible bool
	Orientation   string
	Related       bool
}

// Page returns the candidates on the cursor's page.
func (t Table) Page() []suggest.Candidate {
	if t.PageSize < 1 || len(t.Candidates) == 0 {
		return nil
	}
	start := t.Cursor / t.PageSize * t.PageSize
	end := min(start+t.PageSize, len(t.Candidates))
	return t.Candidates[start:end]
}

// lookupTable is the browsable candidate list. The cursor becomes visible
// only when the user moves it; a fresh list always starts hidden at 0.
type lookupTable struct {
	candidates    []suggest.Candidate
	pageSize      int
	cursor        int
	cursorVisible bool
	orientation   string
}

func newLookupTable(pageSize int, orientation string) *lookupTable {
	return &lookupTable{pageSize: max(pageSize, 1), orientation: orientation}
}

func (t *lookupTable) set(list []suggest.Candidate) {
	t.candidates = list
	t.cursor = 0
	t.cursorVisible = false
}

func (t *lookupTable) clear() { t.set(nil) }

func (t *lookupTable) len() int { return len(t.candidates) }

func (t *lookupTable) pageStart() int {
	return t.cursor / t.pageSize * t.pageSize
}

// onPage converts a label position on the current page to a list index.
func (t *lookupTable) onPage(i int) (int, bool) {
	if i < 0 || i >= t.pageSize {
		return 0, false
	}
	idx := t.pageStart() + i
	return idx, idx < len(t.candidates)
}

func (t *lookupTable) selected() (suggest.Candidate, bool) {
	if !t.cursorVisible || t.cursor >= len(t.candidates) {
		return suggest.Candidate{}, false
	}
	return t.candidates[t.cursor], true
}

// next shows the cursor, or moves it down once it is showing. It wraps
// at the end of the list.
func (t *lookupTable) next() {
	if len(t.candidates) == 0 {
		return
	}
	if !t.cursorVisible {
		t.cursorVisible = true
		return
	}
	t.cursor = (t.cursor + 1) % len(t.candidates)
}

func (t *lookupTable) previous() {
	if len(t.candidates) == 0 {
		return
	}
	if !t.cursorVisible {
		t.cursorVisible = true
		return
	}
	t.cursor = (t.cursor - 1 + len(t.candidates)) % len(t.candidates)
}

func (t *lookupTable) pageDown() {
	if len(t.candidates) == 0 {
		return
	}
	next := t.pageStart() + t.pageSize
	if next >= len(t.candidates) {
		return
	}
	t.cursor = next
}

func (t *lookupTable) pageUp() {
	if t.pageStart() == 0 {
		return
	}
	t.cursor = t.pageStart() - t.pageSize
}

func (t *lookupTable) hideCursor() {
	t.cursor = 0
	t.cursorVisible = false
}

func (t *lookupTable) setPageSize(n int) {
	t.pageSize = max(n, 1)
}

func (t *lookupTable) snapshot(related bool) Table {
	return Table{
		Candidates:    append([]suggest.Candidate(nil), t.candidates...),
		PageSize:      t.pageSize,
		Cursor:        t.cursor,
		CursorVisible: t.cursorVisible,
		Orientation:   t.orientation,
		Related:       related,
	}
}
