package indexdb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"multiblock.ai/internal/sim/catalogs"
	"multiblock.ai/internal/sim/tuning"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSQLiteIndex_UpsertCatalogs(t *testing.T) {
	cfg := t.TempDir()
	writeFile(t, filepath.Join(cfg, "blocks.json"), `[{"id":"AIR"},{"id":"STONE","tags":["stone"]},{"id":"COBBLESTONE","tags":["stone"]}]`)
	writeFile(t, filepath.Join(cfg, "multiblocks", "test", "pillar.json"),
		`{"keys":{"S":{"block":"STONE"}},"structure":[["S"],["S"],["S"]]}`)
	writeFile(t, filepath.Join(cfg, "multiblocks", "test", "broken.json"),
		`{"keys":{"S":{"block":"STONE"}},"structure":[["Q"]]}`)

	cats, err := catalogs.Load(cfg, catalogs.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	path := filepath.Join(t.TempDir(), "index", "multiblocks.sqlite")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	ctx := context.Background()
	if err := idx.UpsertCatalogs(ctx, cfg, cats, tuning.Defaults()); err != nil {
		t.Fatalf("UpsertCatalogs: %v", err)
	}
	// A second load replaces the first.
	if err := idx.UpsertCatalogs(ctx, cfg, cats, tuning.Defaults()); err != nil {
		t.Fatalf("UpsertCatalogs again: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var (
		id     string
		format string
		parts  int
		sizeY  int
	)
	row := db.QueryRow(`SELECT id,format,parts,size_y FROM multiblocks`)
	if err := row.Scan(&id, &format, &parts, &sizeY); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if id != "test:pillar" || format != "json" || parts != 3 || sizeY != 3 {
		t.Fatalf("row mismatch: id=%s format=%s parts=%d size_y=%d", id, format, parts, sizeY)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM load_errors WHERE id='test:broken'`).Scan(&n); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one load error row, got %d", n)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM catalogs`).Scan(&n); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 catalog rows, got %d", n)
	}

	var tags string
	if err := db.QueryRow(`SELECT json FROM catalogs WHERE name='block_tags'`).Scan(&tags); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if tags != `{"stone":["COBBLESTONE","STONE"]}` {
		t.Fatalf("block_tags=%s", tags)
	}
}
