package database

import (
	"database/sql"
	"fmt"
	"time"

	"dupfinder/dedupe"
	"dupfinder/fingerprint"
	"dupfinder/logging"
	"dupfinder/types"

	_ "github.com/mattn/go-sqlite3"
)

// InitDatabase initializes and returns a database connection
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Create table if it doesn't exist
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		source_prefix TEXT,
		format TEXT,
		width INTEGER,
		height INTEGER,
		created_at TEXT,
		modified_at TEXT,
		size INTEGER,
		fingerprint TEXT,
		grid_edge INTEGER,
		UNIQUE(path, source_prefix)
	);
	CREATE INDEX IF NOT EXISTS idx_path ON images(path);
	CREATE INDEX IF NOT EXISTS idx_fingerprint ON images(fingerprint);`

	_, err = db.Exec(createTableSQL)
	if err != nil {
		return nil, err
	}

	// Older databases predate the grid_edge column; add it if missing
	var hasGridEdgeColumn bool
	err = db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('images') WHERE name='grid_edge'").Scan(&hasGridEdgeColumn)
	if err != nil {
		return nil, fmt.Errorf("error checking for grid_edge column: %w", err)
	}

	if !hasGridEdgeColumn {
		_, err = db.Exec("ALTER TABLE images ADD COLUMN grid_edge INTEGER;")
		if err != nil {
			return nil, fmt.Errorf("error adding grid_edge column: %w", err)
		}
		logging.DebugLog("Added 'grid_edge' column to existing database schema")
	}

	return db, nil
}

// OpenDatabase opens an existing database connection
func OpenDatabase(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite3", dbPath)
}

// CheckImageExists checks if an image already exists in the database
// and returns its stored modification time.
func CheckImageExists(db *sql.DB, path string, sourcePrefix string) (bool, string, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM images WHERE path = ? AND source_prefix = ?", path, sourcePrefix).Scan(&count)
	if err != nil {
		return false, "", fmt.Errorf("database error for %s: %w", path, err)
	}

	if count == 0 {
		return false, "", nil
	}

	var storedModTime string
	err = db.QueryRow("SELECT modified_at FROM images WHERE path = ? AND source_prefix = ?", path, sourcePrefix).Scan(&storedModTime)
	if err != nil {
		return true, "", fmt.Errorf("cannot get modified time for %s: %w", path, err)
	}

	return true, storedModTime, nil
}

// StoreImageInfo stores image information in the database
func StoreImageInfo(db *sql.DB, imageInfo types.ImageInfo, forceRewrite bool) error {
	now := time.Now().Format(time.RFC3339)

	var stmt *sql.Stmt
	var insertErr error

	if forceRewrite {
		stmt, insertErr = db.Prepare(`
			INSERT OR REPLACE INTO images (
				path, source_prefix, format, width, height, created_at, modified_at, size, fingerprint, grid_edge
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
	} else {
		stmt, insertErr = db.Prepare(`
			INSERT OR IGNORE INTO images (
				path, source_prefix, format, width, height, created_at, modified_at, size, fingerprint, grid_edge
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
	}

	if insertErr != nil {
		return fmt.Errorf("cannot prepare statement for %s: %w", imageInfo.Path, insertErr)
	}
	defer stmt.Close()

	createdAt := imageInfo.CreatedAt
	if createdAt == "" {
		createdAt = now
	}

	_, err := stmt.Exec(
		imageInfo.Path,
		imageInfo.SourcePrefix,
		imageInfo.Format,
		imageInfo.Width,
		imageInfo.Height,
		createdAt,
		imageInfo.ModifiedAt,
		imageInfo.Size,
		imageInfo.Fingerprint,
		imageInfo.GridEdge,
	)

	if err != nil {
		return fmt.Errorf("cannot insert data for %s: %w", imageInfo.Path, err)
	}

	return nil
}

// LoadFingerprints returns the stored fingerprints as clusterer records,
// ordered by insertion (rowid), so grouping is stable across runs.
func LoadFingerprints(db *sql.DB, sourcePrefix string) ([]dedupe.Record, error) {
	var rows *sql.Rows
	var err error

	if sourcePrefix != "" {
		rows, err = db.Query(`SELECT id, path, fingerprint, grid_edge FROM images WHERE source_prefix = ? ORDER BY id`, sourcePrefix)
	} else {
		rows, err = db.Query(`SELECT id, path, fingerprint, grid_edge FROM images ORDER BY id`)
	}
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	defer rows.Close()

	var records []dedupe.Record
	for rows.Next() {
		var id int64
		var path, hexFp string
		var gridEdge sql.NullInt64
		if err := rows.Scan(&id, &path, &hexFp, &gridEdge); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}

		edge := fingerprint.DefaultGridEdge
		if gridEdge.Valid && gridEdge.Int64 > 0 {
			edge = int(gridEdge.Int64)
		}

		fp, err := fingerprint.ParseHex(hexFp, edge*edge)
		if err != nil {
			logging.LogWarning("Skipping unreadable fingerprint for %s: %v", path, err)
			continue
		}

		records = append(records, dedupe.Record{
			ID:          fmt.Sprintf("%d", id),
			Path:        path,
			Fingerprint: fp,
		})
	}

	return records, rows.Err()
}

// ScanStats contains statistics from a scan operation
type ScanStats struct {
	TotalImages  int
	UniqueHashes int
}

// GetScanStats retrieves statistics about scanned images
func GetScanStats(db *sql.DB, sourcePrefix string) (*ScanStats, error) {
	var stats ScanStats
	var args []interface{}

	totalQuery := "SELECT COUNT(*) FROM images"
	hashQuery := "SELECT COUNT(DISTINCT fingerprint) FROM images"
	if sourcePrefix != "" {
		totalQuery += " WHERE source_prefix = ?"
		hashQuery += " WHERE source_prefix = ?"
		args = append(args, sourcePrefix)
	}

	if err := db.QueryRow(totalQuery, args...).Scan(&stats.TotalImages); err != nil {
		return nil, fmt.Errorf("failed to get total images: %w", err)
	}

	if err := db.QueryRow(hashQuery, args...).Scan(&stats.UniqueHashes); err != nil {
		return nil, fmt.Errorf("failed to get unique fingerprints: %w", err)
	}

	return &stats, nil
}
