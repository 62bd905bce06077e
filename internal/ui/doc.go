// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for curating the ranked album list:
//  1. [TopListView] : Browse the ranked list, reorder, remove, toggle sort mode
//  2. [SearchInputView] : Type a catalog search query
//  3. [SearchResultsView] : Pick a result to add to the list
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every mutation persists through the list repository immediately, so quitting never loses state.
//
// Keyboard navigation uses vim-style bindings (j/k to move the cursor, J/K to reorder, x to remove, a to search, m to toggle
// sort mode, q to quit) with contextual help displayed via charmbracelet/bubbles/help.
package ui
