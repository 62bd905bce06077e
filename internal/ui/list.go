package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/nlandais/top50/internal/models"
)

var (
	_ list.Item = rankedItem{}
	_ list.Item = resultItem{}
)

// rankedItem wraps a ranked [models.Album] to implement [list.Item].
type rankedItem struct {
	rank  int
	album models.Album
}

func (i rankedItem) FilterValue() string { return i.album.Title }
func (i rankedItem) Title() string {
	return fmt.Sprintf("%d. %s - %s", i.rank, i.album.Artist, i.album.Title)
}
func (i rankedItem) Description() string {
	desc := i.album.Genre
	if i.album.Year > 0 {
		desc = fmt.Sprintf("%d • %s", i.album.Year, desc)
	}
	return desc
}

// resultItem wraps a search result [models.Album] to implement [list.Item].
type resultItem struct {
	album models.Album
}

func (i resultItem) FilterValue() string { return i.album.Title }
func (i resultItem) Title() string       { return i.album.Title }
func (i resultItem) Description() string {
	desc := i.album.Artist
	if i.album.Year > 0 {
		desc = fmt.Sprintf("%s • %d", desc, i.album.Year)
	}
	return desc
}
