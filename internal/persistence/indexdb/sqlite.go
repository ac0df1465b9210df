package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"multiblock.ai/internal/sim/catalogs"
	"multiblock.ai/internal/sim/tuning"
)

// SQLiteIndex records what each catalog load looked like: digests, the
// structures that loaded and the ones that were rejected. It is a report for
// operators; nothing is loaded back from it.
type SQLiteIndex struct {
	db   *sql.DB
	once sync.Once
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS multiblocks (
			id TEXT PRIMARY KEY,
			file TEXT NOT NULL,
			digest TEXT NOT NULL,
			format TEXT NOT NULL,
			parts INTEGER NOT NULL,
			size_x INTEGER NOT NULL,
			size_y INTEGER NOT NULL,
			size_z INTEGER NOT NULL,
			loaded_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS load_errors (
			file TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			error TEXT NOT NULL,
			loaded_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		err = s.db.Close()
	})
	return err
}

// UpsertCatalogs replaces the report with the given load. Structures and
// errors from earlier loads are removed.
func (s *SQLiteIndex) UpsertCatalogs(ctx context.Context, configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	if b, err := os.ReadFile(filepath.Join(configDir, "blocks.json")); err == nil {
		rows = append(rows, kv{name: "blocks_defs", digest: cats.Blocks.DefsDigest, json: b})
	}
	if b, _ := json.Marshal(cats.Blocks.Palette); len(b) > 0 {
		rows = append(rows, kv{name: "blocks_palette", digest: cats.Blocks.PaletteDigest, json: b})
	}
	{
		ids := make([]string, 0, len(cats.Multiblocks.ByID))
		for _, id := range cats.Multiblocks.IDs() {
			ids = append(ids, id.String())
		}
		b, _ := json.Marshal(ids)
		rows = append(rows, kv{name: "multiblocks", digest: cats.Multiblocks.Digest, json: b})
	}

	// Tag membership as resolved at load time: tag -> block ids in palette order.
	{
		tags := make(map[string][]string, len(cats.Blocks.Tags()))
		for _, tag := range cats.Blocks.Tags() {
			members := []string{}
			for _, id := range cats.Blocks.Palette {
				if cats.Blocks.IsMember(id, tag) {
					members = append(members, id)
				}
			}
			tags[tag] = members
		}
		b, _ := json.Marshal(tags)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "block_tags", digest: hex.EncodeToString(sum[:]), json: b})
	}

	// Tuning: store the values we actually apply (canonical JSON).
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}

	if err := writeMultiblocks(ctx, tx, &cats.Multiblocks, now); err != nil {
		return err
	}
	return tx.Commit()
}

func writeMultiblocks(ctx context.Context, tx *sql.Tx, mc *catalogs.MultiblockCatalog, now string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM multiblocks`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM load_errors`); err != nil {
		return err
	}

	ins, err := tx.PrepareContext(ctx, `INSERT INTO multiblocks(id,file,digest,format,parts,size_x,size_y,size_z,loaded_at) VALUES(?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer ins.Close()
	for _, id := range mc.IDs() {
		d := mc.ByID[id]
		var size [3]int
		if b, ok := d.Bounds(); ok {
			sz := b.Size()
			size = [3]int{sz.X, sz.Y, sz.Z}
		}
		if _, err := ins.ExecContext(ctx,
			id.String(),
			mc.Files[id],
			mc.Digests[id],
			d.Source().Format.String(),
			d.Len(),
			size[0], size[1], size[2],
			now,
		); err != nil {
			return err
		}
	}

	insErr, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO load_errors(file,id,error,loaded_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer insErr.Close()
	for _, e := range mc.Errors {
		id := ""
		if !e.ID.IsZero() {
			id = e.ID.String()
		}
		if _, err := insErr.ExecContext(ctx, e.File, id, e.Err.Error(), now); err != nil {
			return err
		}
	}
	return nil
}
