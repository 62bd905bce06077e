// Package models defines domain entities and pure list operations for the
// ranked album list.
//
// The package contains two categories of types:
//
// 1. Value records mapped from the catalog or persisted locally:
//   - [Album] : catalog album with display metadata, keyed by catalog id
//   - [BackupEntry] : immutable ranked-list snapshot with provenance
//   - [PlaylistRef] : remote playlist identity
//   - [PlaylistMetadata] : advisory ranked metadata embedded in a playlist description
//
// 2. The ordered collection:
//   - [RankedList] : position-is-rank sequence with date and manual ordering modes
//
// List operations ([AddAlbum], [RemoveAlbum], [Move], [SortByYear]) are pure
// functions over album slices with no I/O. RankedList layers the ordering-mode
// semantics on top of them. The dedup invariant (unique album id within a
// list) is enforced at insertion time, and the 50-album cap is soft: callers
// warn, never truncate.
package models
