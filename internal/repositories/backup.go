package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nlandais/top50/internal/models"
	"github.com/nlandais/top50/internal/shared"
)

// BackupRepository maintains the rolling snapshot history of the ranked
// list. Entries are immutable once created; the history is pruned to the
// [MaxBackups] most recent entries on every insert.
type BackupRepository struct {
	db *sql.DB
}

// NewBackupRepository creates a BackupRepository with the given database connection
func NewBackupRepository(db *sql.DB) *BackupRepository {
	return &BackupRepository{db: db}
}

// Auto records an automatic (source=local) snapshot. The write is skipped
// when the most recent entry already holds an identical album sequence, so
// a burst of saves produces one backup per meaningful change.
func (r *BackupRepository) Auto(albums []models.Album, description string) error {
	data, err := json.Marshal(albums)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	var latest string
	err = r.db.QueryRow("SELECT albums FROM backups ORDER BY created_at DESC, id LIMIT 1").Scan(&latest)
	if err == nil && latest == string(data) {
		return nil
	}
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read latest backup: %w", err)
	}

	return r.insert(models.BackupEntry{
		ID:          shared.GenerateID(),
		CreatedAt:   time.Now(),
		Source:      models.SourceLocal,
		Description: description,
	}, string(data))
}

// Create records an on-demand snapshot, used before risky operations such
// as loading external content. Returns the new entry's id.
func (r *BackupRepository) Create(albums []models.Album, source models.BackupSource, description, playlistID string) (string, error) {
	data, err := json.Marshal(albums)
	if err != nil {
		return "", fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	entry := models.BackupEntry{
		ID:          shared.GenerateID(),
		CreatedAt:   time.Now(),
		Source:      source,
		Description: description,
		PlaylistID:  playlistID,
	}
	if err := r.insert(entry, string(data)); err != nil {
		return "", err
	}
	return entry.ID, nil
}

func (r *BackupRepository) insert(entry models.BackupEntry, albumsJSON string) error {
	query := `
		INSERT INTO backups (id, created_at, source, description, playlist_id, albums)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, entry.ID, entry.CreatedAt, string(entry.Source), entry.Description, entry.PlaylistID, albumsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert backup: %w", err)
	}

	return r.prune()
}

// prune caps the history at MaxBackups, dropping the oldest entries.
func (r *BackupRepository) prune() error {
	query := `
		DELETE FROM backups WHERE id NOT IN (
			SELECT id FROM backups ORDER BY created_at DESC, id LIMIT ?
		)
	`
	if _, err := r.db.Exec(query, MaxBackups); err != nil {
		return fmt.Errorf("failed to prune backups: %w", err)
	}
	return nil
}

// List returns all backup entries, most recent first.
func (r *BackupRepository) List() ([]models.BackupEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, created_at, source, description, playlist_id, albums
		FROM backups ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query backups: %w", err)
	}
	defer rows.Close()

	var entries []models.BackupEntry
	for rows.Next() {
		entry, err := scanBackup(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Restore returns the album snapshot stored under the given backup id.
func (r *BackupRepository) Restore(id string) ([]models.Album, error) {
	var albumsJSON string
	err := r.db.QueryRow("SELECT albums FROM backups WHERE id = ?", id).Scan(&albumsJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("backup not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	var albums []models.Album
	if err := json.Unmarshal([]byte(albumsJSON), &albums); err != nil {
		return nil, fmt.Errorf("backup snapshot is malformed: %w", err)
	}
	return albums, nil
}

// Delete removes a backup entry by id.
func (r *BackupRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM backups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("backup not found: %s", id)
	}
	return nil
}

// Cleanup removes automatic entries older than 24 hours. The MaxBackups
// most recent entries survive regardless of source or age, and non-local
// entries (remote loads, shared imports) are never cleaned up.
func (r *BackupRepository) Cleanup() (int, error) {
	cutoff := time.Now().Add(-24 * time.Hour)
	query := `
		DELETE FROM backups
		WHERE source = ? AND created_at < ? AND id NOT IN (
			SELECT id FROM backups ORDER BY created_at DESC, id LIMIT ?
		)
	`
	result, err := r.db.Exec(query, string(models.SourceLocal), cutoff, MaxBackups)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up backups: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(removed), nil
}

func scanBackup(rows *sql.Rows) (models.BackupEntry, error) {
	var (
		entry      models.BackupEntry
		source     string
		albumsJSON string
	)

	if err := rows.Scan(&entry.ID, &entry.CreatedAt, &source, &entry.Description, &entry.PlaylistID, &albumsJSON); err != nil {
		return entry, fmt.Errorf("failed to scan backup: %w", err)
	}

	entry.Source = models.BackupSource(source)
	if err := json.Unmarshal([]byte(albumsJSON), &entry.Albums); err != nil {
		return entry, fmt.Errorf("backup snapshot is malformed: %w", err)
	}
	return entry, nil
}
