// Package catalog persists named tile sets and synthesis run outcomes,
// so a hosting process can list past syntheses and re-serve a previous
// arrangement without re-running the solver. It carries no synthesis
// semantics of its own.
package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/wavetile/tilesynth/internal/wfc"
)

// ErrTilesetNotFound is returned when a named tileset does not exist.
var ErrTilesetNotFound = fmt.Errorf("catalog: tileset not found")

// ErrTilesetExists is returned when saving a tileset whose name is
// already taken.
var ErrTilesetExists = fmt.Errorf("catalog: tileset already exists")

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = fmt.Errorf("catalog: run not found")

// Catalog wraps a SQL connection over either SQLite or PostgreSQL,
// selected by dialect at Open time.
type Catalog struct {
	db      *sql.DB
	dialect Dialect
	qb      *queryBuilder
}

// Open opens (and, for SQLite, creates) the catalog database at dsn
// using the named dialect, and runs its migrations.
func Open(dialectType DialectType, dsn string) (*Catalog, error) {
	dialect := NewDialect(dialectType)

	if dialectType != DialectPostgres {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("catalog: creating database directory: %w", err)
			}
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: opening database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("catalog: init statement %q: %w", stmt, err)
		}
	}

	c := &Catalog{db: db, dialect: dialect, qb: newQueryBuilder(dialect)}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: migrating: %w", err)
	}
	return c, nil
}

// Close closes the underlying connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tilesets (
			name TEXT PRIMARY KEY,
			tile_width INTEGER NOT NULL,
			tile_height INTEGER NOT NULL,
			tiles_json TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			tileset_name TEXT NOT NULL,
			grid_width INTEGER NOT NULL,
			grid_height INTEGER NOT NULL,
			success INTEGER NOT NULL,
			attempt_count INTEGER NOT NULL,
			compatibility_score INTEGER NOT NULL,
			arrangement_json TEXT NOT NULL,
			run_error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_tileset_name ON runs(tileset_name)`,
	}
	for _, m := range migrations {
		if _, err := c.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// SaveTileset stores a named tile set. It fails with ErrTilesetExists if
// the name is already taken.
func (c *Catalog) SaveTileset(name string, tiles []wfc.TileDescriptor) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("catalog: tileset name cannot be empty")
	}
	if len(tiles) == 0 {
		return fmt.Errorf("catalog: tileset %q has no tiles", name)
	}

	encoded, err := json.Marshal(tiles)
	if err != nil {
		return fmt.Errorf("catalog: encoding tileset %q: %w", name, err)
	}

	query := c.qb.build(`INSERT INTO tilesets (name, tile_width, tile_height, tiles_json) VALUES (?, ?, ?, ?)`)
	_, err = c.db.Exec(query, name, tiles[0].Width, tiles[0].Height, string(encoded))
	if err != nil {
		if c.dialect.IsDuplicateKeyError(err) {
			return ErrTilesetExists
		}
		return fmt.Errorf("catalog: saving tileset %q: %w", name, err)
	}
	return nil
}

// LoadTileset retrieves a previously saved tile set by name.
func (c *Catalog) LoadTileset(name string) ([]wfc.TileDescriptor, error) {
	query := c.qb.build(`SELECT tiles_json FROM tilesets WHERE name = ?`)
	row := c.db.QueryRow(query, name)

	var encoded string
	if err := row.Scan(&encoded); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTilesetNotFound
		}
		return nil, fmt.Errorf("catalog: loading tileset %q: %w", name, err)
	}

	var tiles []wfc.TileDescriptor
	if err := json.Unmarshal([]byte(encoded), &tiles); err != nil {
		return nil, fmt.Errorf("catalog: decoding tileset %q: %w", name, err)
	}
	return tiles, nil
}

// ListTilesets returns the names of every saved tile set, most recently
// created first.
func (c *Catalog) ListTilesets() ([]string, error) {
	rows, err := c.db.Query(`SELECT name FROM tilesets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("catalog: listing tilesets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("catalog: scanning tileset row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// RunRecord is a persisted synthesis run outcome.
type RunRecord struct {
	ID                 string
	TilesetName        string
	GridWidth          int
	GridHeight         int
	Success            bool
	AttemptCount       int
	CompatibilityScore int
	Arrangement        [][]string
	Error              string
	CreatedAt          time.Time
}

// SaveRun persists one synthesis outcome and returns its generated run id.
func (c *Catalog) SaveRun(tilesetName string, width, height int, result wfc.Result) (string, error) {
	id := uuid.New().String()

	arrangement := result.Arrangement
	if arrangement == nil {
		arrangement = [][]string{}
	}
	encoded, err := json.Marshal(arrangement)
	if err != nil {
		return "", fmt.Errorf("catalog: encoding arrangement for run: %w", err)
	}

	errText := ""
	if result.Err != nil {
		errText = result.Err.Error()
	}

	success := 0
	if result.Success {
		success = 1
	}

	query := c.qb.build(`INSERT INTO runs
		(id, tileset_name, grid_width, grid_height, success, attempt_count, compatibility_score, arrangement_json, run_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = c.db.Exec(query, id, tilesetName, width, height, success, result.AttemptNumber, result.CompatibilityScore, string(encoded), errText)
	if err != nil {
		return "", fmt.Errorf("catalog: saving run: %w", err)
	}
	return id, nil
}

// GetRun retrieves a previously saved run by id.
func (c *Catalog) GetRun(id string) (*RunRecord, error) {
	query := c.qb.build(`SELECT id, tileset_name, grid_width, grid_height, success, attempt_count, compatibility_score, arrangement_json, run_error, created_at
		FROM runs WHERE id = ?`)
	row := c.db.QueryRow(query, id)

	var rec RunRecord
	var success int
	var arrangementJSON string
	if err := row.Scan(&rec.ID, &rec.TilesetName, &rec.GridWidth, &rec.GridHeight, &success, &rec.AttemptCount, &rec.CompatibilityScore, &arrangementJSON, &rec.Error, &rec.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("catalog: loading run %q: %w", id, err)
	}
	rec.Success = success != 0

	if err := json.Unmarshal([]byte(arrangementJSON), &rec.Arrangement); err != nil {
		return nil, fmt.Errorf("catalog: decoding arrangement for run %q: %w", id, err)
	}
	return &rec, nil
}

// ListRuns returns every saved run for a tileset, most recent first.
func (c *Catalog) ListRuns(tilesetName string) ([]RunRecord, error) {
	query := c.qb.build(`SELECT id, tileset_name, grid_width, grid_height, success, attempt_count, compatibility_score, run_error, created_at
		FROM runs WHERE tileset_name = ? ORDER BY created_at DESC`)
	rows, err := c.db.Query(query, tilesetName)
	if err != nil {
		return nil, fmt.Errorf("catalog: listing runs for %q: %w", tilesetName, err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var success int
		if err := rows.Scan(&rec.ID, &rec.TilesetName, &rec.GridWidth, &rec.GridHeight, &success, &rec.AttemptCount, &rec.CompatibilityScore, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scanning run row: %w", err)
		}
		rec.Success = success != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}
