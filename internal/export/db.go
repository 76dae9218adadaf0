// Package export is the save/load collaborator for generated worlds. The
// generator itself owns no persistence format: a world is reproducible
// from seed and settings, and this package only serializes the finished
// province array for consumers that want to skip regeneration.
package export

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexgen/internal/fixmath"
	"github.com/talgya/hexgen/internal/world"
)

// DB wraps a SQLite connection for world snapshots.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a snapshot database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		cols INTEGER NOT NULL,
		rows INTEGER NOT NULL,
		cells INTEGER NOT NULL,
		river_tiles INTEGER NOT NULL,
		elevations BLOB NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS provinces (
		run_id TEXT NOT NULL REFERENCES runs(id),
		id INTEGER NOT NULL,
		col INTEGER NOT NULL,
		row INTEGER NOT NULL,
		terrain INTEGER NOT NULL,
		iron INTEGER NOT NULL,
		copper INTEGER NOT NULL,
		tin INTEGER NOT NULL,
		gold INTEGER NOT NULL,
		coal INTEGER NOT NULL,
		stone INTEGER NOT NULL,
		gems INTEGER NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_provinces_terrain ON provinces(run_id, terrain);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveWorld writes one world snapshot and returns its run id. The dense
// elevation field travels as a single zstd-compressed blob; the sparse
// per-province attributes go to rows.
func (db *DB) SaveWorld(w *world.World) (string, error) {
	runID := uuid.NewString()
	start := time.Now()

	blob, err := compressElevations(w.Provinces)
	if err != nil {
		return "", fmt.Errorf("compress elevations: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, seed, cols, rows, cells, river_tiles, elevations, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, w.Seed, w.Dims.Cols, w.Dims.Rows, len(w.Provinces),
		len(w.Rivers.RiverTiles), blob, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO provinces
		(run_id, id, col, row, terrain, iron, copper, tin, gold, coal, stone, gems)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i := range w.Provinces {
		p := &w.Provinces[i]
		_, err := stmt.Exec(runID, uint32(p.ID), p.Col, p.Row, p.Terrain,
			p.Iron, p.Copper, p.Tin, p.Gold, p.Coal, p.Stone, p.Gems)
		if err != nil {
			return "", fmt.Errorf("insert province %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	slog.Info("world snapshot saved",
		"run", runID, "provinces", len(w.Provinces),
		"blob_bytes", len(blob), "elapsed", time.Since(start))
	return runID, nil
}

// LoadProvinces restores the province array of a run, including the
// decompressed elevation field. Neighbor links are rebuilt by the caller
// from the dimensions, never stored.
func (db *DB) LoadProvinces(runID string) ([]world.Province, error) {
	var run struct {
		Seed       uint32 `db:"seed"`
		Cols       uint32 `db:"cols"`
		Rows       uint32 `db:"rows"`
		Cells      int    `db:"cells"`
		Elevations []byte `db:"elevations"`
	}
	err := db.conn.Get(&run,
		"SELECT seed, cols, rows, cells, elevations FROM runs WHERE id = ?", runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	elevations, err := decompressElevations(run.Elevations, run.Cells)
	if err != nil {
		return nil, fmt.Errorf("decompress elevations: %w", err)
	}

	rows, err := db.conn.Queryx(`SELECT id, col, row, terrain,
		iron, copper, tin, gold, coal, stone, gems
		FROM provinces WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("load provinces: %w", err)
	}
	defer rows.Close()

	provinces := make([]world.Province, run.Cells)
	for rows.Next() {
		var rec struct {
			ID      uint32          `db:"id"`
			Col     int32           `db:"col"`
			Row     int32           `db:"row"`
			Terrain uint8           `db:"terrain"`
			Iron    world.Abundance `db:"iron"`
			Copper  world.Abundance `db:"copper"`
			Tin     world.Abundance `db:"tin"`
			Gold    world.Abundance `db:"gold"`
			Coal    world.Abundance `db:"coal"`
			Stone   world.Abundance `db:"stone"`
			Gems    world.Abundance `db:"gems"`
		}
		if err := rows.StructScan(&rec); err != nil {
			return nil, err
		}
		if int(rec.ID) >= len(provinces) {
			return nil, fmt.Errorf("province id %d outside run of %d cells", rec.ID, run.Cells)
		}
		p := &provinces[rec.ID]
		p.ID = world.ID(rec.ID)
		p.Col = rec.Col
		p.Row = rec.Row
		p.Terrain = world.TerrainType(rec.Terrain)
		p.Elevation = elevations[rec.ID]
		p.Iron, p.Copper, p.Tin = rec.Iron, rec.Copper, rec.Tin
		p.Gold, p.Coal, p.Stone, p.Gems = rec.Gold, rec.Coal, rec.Stone, rec.Gems
		p.Owner = world.NoID
	}
	return provinces, rows.Err()
}

// compressElevations packs the fixed-point bits little-endian and zstd
// compresses them. Elevation fields are smooth, so this typically shrinks
// far below 4 bytes per cell.
func compressElevations(provinces []world.Province) ([]byte, error) {
	raw := make([]byte, len(provinces)*4)
	for i := range provinces {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(provinces[i].Elevation.Bits()))
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressElevations(blob []byte, cells int) ([]fixmath.Fixed, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, err
	}
	if len(raw) != cells*4 {
		return nil, fmt.Errorf("elevation blob holds %d bytes, want %d", len(raw), cells*4)
	}

	out := make([]fixmath.Fixed, cells)
	for i := range out {
		out[i] = fixmath.FromBits(int32(binary.LittleEndian.Uint32(raw[i*4:])))
	}
	return out, nil
}
