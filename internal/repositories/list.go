package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nlandais/top50/internal/models"
)

// listDocument is the JSON shape stored under [KeyRankedList]. The manual
// baseline lives under its own key so either document can be recovered
// independently.
type listDocument struct {
	Albums    []models.Album   `json:"albums"`
	Mode      models.SortMode  `json:"mode"`
	Direction models.Direction `json:"direction"`
}

// ListRepository persists the ranked list as JSON documents in the storage
// table. When a backup repository is attached, every save of a non-empty
// list also records an automatic backup.
type ListRepository struct {
	db      *sql.DB
	backups *BackupRepository
	logger  *log.Logger
}

// NewListRepository creates a ListRepository. backups may be nil to disable
// automatic backups (tests, read-only tooling).
func NewListRepository(db *sql.DB, backups *BackupRepository, logger *log.Logger) *ListRepository {
	return &ListRepository{db: db, backups: backups, logger: logger}
}

// Save writes the ranked list and its manual snapshot. Persistence is
// best-effort: serialization and storage errors are logged, never returned,
// so a full disk or corrupt database can't take down a list mutation.
func (r *ListRepository) Save(list *models.RankedList) {
	doc := listDocument{Albums: list.Albums, Mode: list.Mode, Direction: list.Direction}
	r.put(KeyRankedList, doc)
	r.put(KeyManualOrder, list.Manual)

	if r.backups != nil && len(list.Albums) > 0 {
		if err := r.backups.Auto(list.Albums, "Automatic backup"); err != nil {
			r.logger.Warn("automatic backup failed", "error", err)
		}
	}
}

// Load reads the ranked list back. Missing or malformed stored data yields
// an empty list in the default ordering mode, with the parse failure logged.
func (r *ListRepository) Load() *models.RankedList {
	list := models.NewRankedList()

	var doc listDocument
	if ok := r.get(KeyRankedList, &doc); ok {
		list.Albums = doc.Albums
		if doc.Mode == models.SortModeManual || doc.Mode == models.SortModeDate {
			list.Mode = doc.Mode
		}
		if doc.Direction == models.Ascending || doc.Direction == models.Descending {
			list.Direction = doc.Direction
		}
	}

	var manual []models.Album
	if ok := r.get(KeyManualOrder, &manual); ok {
		list.Manual = manual
	}

	return list
}

// Clear removes both stored documents.
func (r *ListRepository) Clear() {
	for _, key := range []string{KeyRankedList, KeyManualOrder} {
		if _, err := r.db.Exec("DELETE FROM storage WHERE key = ?", key); err != nil {
			r.logger.Warn("failed to clear storage key", "key", key, "error", err)
		}
	}
}

func (r *ListRepository) put(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("failed to serialize document", "key", key, "error", err)
		return
	}

	query := `
		INSERT INTO storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, key, string(data), time.Now()); err != nil {
		r.logger.Error("failed to persist document", "key", key, "error", err)
	}
}

// get unmarshals the stored document into out. Returns false when the key is
// absent or the stored value does not parse; the latter is logged because it
// means stored state was lost.
func (r *ListRepository) get(key string, out any) bool {
	var value string
	err := r.db.QueryRow("SELECT value FROM storage WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		r.logger.Error("failed to read document", "key", key, "error", err)
		return false
	}

	if err := json.Unmarshal([]byte(value), out); err != nil {
		r.logger.Error("stored document is malformed, treating as empty", "key", key, "error", err)
		return false
	}

	return true
}
