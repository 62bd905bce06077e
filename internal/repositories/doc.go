// Package repositories implements SQLite persistence for the ranked list,
// its backup history, and the album metadata cache.
//
// Persistence is best-effort from the caller's perspective: [ListRepository.Save]
// logs and swallows storage failures instead of propagating them, and
// [ListRepository.Load] treats malformed stored data as absence of data. Data
// loss here is recoverable from the backup history or from the remote
// playlist, so no transaction or rollback machinery is layered on top.
//
// Key Implementations:
//   - [ListRepository] : ranked list + manual-order snapshot as JSON documents
//   - [BackupRepository] : rolling snapshot history, bounded to 10 entries
//   - [AlbumCacheRepository] : cached enriched album records keyed by catalog id
package repositories
