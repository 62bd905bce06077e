package models

// RankedList is an ordered album collection where position encodes rank.
//
// Two ordering modes govern the sequence: in date mode the list is kept
// sorted by year and every insertion re-sorts; in manual mode the sequence
// is authoritative and only [RankedList.Move] mutates order. Manual holds
// the baseline frozen by [RankedList.SetManualMode], which captures
// whatever order is current at the switch; a trip through date mode
// re-freezes on the way back rather than restoring the old baseline.
type RankedList struct {
	Albums    []Album   `json:"albums"`
	Manual    []Album   `json:"manual,omitempty"`
	Mode      SortMode  `json:"mode"`
	Direction Direction `json:"direction"`
}

// NewRankedList returns an empty list in date mode, descending, the
// default ordering for a fresh top.
func NewRankedList() *RankedList {
	return &RankedList{Mode: SortModeDate, Direction: Descending}
}

// AddResult reports the outcome of an insertion.
type AddResult struct {
	Added   bool // false when the album id was already present
	OverCap bool // true when the list now exceeds MaxAlbums
}

// Add inserts an album subject to the dedup invariant. In date mode the
// list re-sorts after insertion; in manual mode the album appends at the
// end and becomes part of the manual baseline.
func (l *RankedList) Add(album Album) AddResult {
	albums, added := AddAlbum(l.Albums, album)
	if !added {
		return AddResult{}
	}

	if l.Mode == SortModeDate {
		l.Albums = SortByYear(albums, l.Direction)
	} else {
		l.Albums = albums
		l.Manual = albums
	}

	return AddResult{Added: true, OverCap: len(l.Albums) > MaxAlbums}
}

// Remove drops the album with the given id from the list and the manual
// baseline. Absent ids are a no-op.
func (l *RankedList) Remove(id string) {
	l.Albums = RemoveAlbum(l.Albums, id)
	if len(l.Manual) > 0 {
		l.Manual = RemoveAlbum(l.Manual, id)
	}
}

// Move relocates one element. Only effective in manual mode; in date mode
// the sort key owns the order and the call is a no-op.
func (l *RankedList) Move(from, to int) {
	if l.Mode != SortModeManual {
		return
	}
	l.Albums = Move(l.Albums, from, to)
	l.Manual = l.Albums
}

// SetDateMode switches to date ordering, destructively re-sorting the list.
func (l *RankedList) SetDateMode(dir Direction) {
	l.Mode = SortModeDate
	l.Direction = dir
	l.Albums = SortByYear(l.Albums, dir)
}

// SetManualMode switches to manual ordering, freezing the current order as
// the new manual baseline.
func (l *RankedList) SetManualMode() {
	l.Mode = SortModeManual
	l.Manual = l.Albums
}

// Replace swaps in a new album sequence wholesale (playlist load, share
// import, backup restore) and freezes it as the manual baseline.
func (l *RankedList) Replace(albums []Album) {
	l.Albums = albums
	l.Manual = albums
	l.Mode = SortModeManual
}

// Clear empties the list and the manual baseline.
func (l *RankedList) Clear() {
	l.Albums = nil
	l.Manual = nil
}

// Len returns the number of ranked albums.
func (l *RankedList) Len() int {
	return len(l.Albums)
}
