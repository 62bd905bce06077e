// Package tasks maps the local ranked album list onto its Spotify playlist
// counterpart with real-time progress reporting.
//
// # Core Operations
//
// [TopEngine] exposes the mapping in both directions:
//
//  1. [TopEngine.Save] : Publish the list as a playlist
//     - Resolves one representative track per album, in rank order
//     - Creates the reserved playlist or clears and refills the existing one
//     - Skips albums whose tracks cannot be resolved, never aborting the save
//     - Optionally embeds an advisory metadata block in the description
//
//  2. [TopEngine.Load] : Reconstruct the list from a playlist
//     - Track membership is the authoritative signal
//     - Deduplicates by album id, first occurrence fixing the rank
//     - Enriches each album from cache or catalog, falling back to the
//       track's embedded album data when the catalog lookup fails
//
//  3. [TopEngine.FindCounterpart] : Locate the reserved playlist by its
//     exact name, first match wins
//
//  4. [TopEngine.LoadFromMetadata] : Legacy reconstruction from a parsed
//     description block when track data is unavailable
//
// # Progress Reporting
//
// All operations accept an optional channel of [ProgressUpdate] values.
// Updates use select with default to prevent blocking.
//
// # Metadata Formats
//
// [ParsePlaylistMetadata] reads both description formats: the compact
// [MT50] block (HTML-entity-encoded by the API) and the legacy
// [MUSIC_TOP_50] block. [EncodeMetadata] writes the compact form.
//
// # Rate Limiting
//
// Catalog requests during track resolution and album enrichment pass
// through a shared [rate.Limiter] to stay inside API quotas.
package tasks
