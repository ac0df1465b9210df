package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"multiblock.ai/internal/persistence/indexdb"
	"multiblock.ai/internal/schemas"
	"multiblock.ai/internal/sim/catalogs"
	"multiblock.ai/internal/sim/multiblock"
	"multiblock.ai/internal/sim/tuning"
)

var logger = log.New(os.Stderr, "[multiblock] ", log.LstdFlags)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	args := os.Args[2:]
	switch os.Args[1] {
	case "lint":
		lintCmd(args)
	case "show":
		showCmd(args)
	case "check":
		checkCmd(args)
	case "pack":
		packCmd(args)
	case "unpack":
		unpackCmd(args)
	case "index":
		indexCmd(args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: multiblock <lint|show|check|pack|unpack|index> [flags]")
}

// common flags shared by every subcommand.
type common struct {
	settings  *string
	configDir *string
}

func addCommon(fs *flag.FlagSet) common {
	return common{
		settings:  fs.String("settings", "", "path to multiblock.yaml (optional)"),
		configDir: fs.String("configs", "", "config directory (overrides settings)"),
	}
}

func (c common) tuning() tuning.Tuning {
	t := tuning.Defaults()
	if p := strings.TrimSpace(*c.settings); p != "" {
		var err error
		t, err = tuning.Load(p)
		if err != nil {
			fmt.Fprintln(os.Stderr, "settings:", err)
			os.Exit(2)
		}
	}
	if d := strings.TrimSpace(*c.configDir); d != "" {
		t.ConfigDir = d
	}
	return t
}

func (c common) load(t tuning.Tuning) *catalogs.Catalogs {
	cats, err := catalogs.Load(t.ConfigDir, catalogs.LoadOptions{Logf: logger.Printf})
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	return cats
}

func lookup(cats *catalogs.Catalogs, s string) *multiblock.Definition {
	id, err := multiblock.ParseID(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad -id:", err)
		os.Exit(2)
	}
	d, ok := cats.Multiblocks.Lookup(id)
	if !ok {
		fmt.Fprintln(os.Stderr, "unknown multiblock:", id)
		os.Exit(1)
	}
	return d
}

func lintCmd(args []string) {
	fs := flag.NewFlagSet("lint", flag.ExitOnError)
	c := addCommon(fs)
	schema := fs.Bool("schema", false, "also validate schematics against the schema")
	_ = fs.Parse(args)

	t := c.tuning()
	cats := c.load(t)

	failed := len(cats.Multiblocks.Errors)
	if *schema || t.SchemaLint {
		for _, id := range cats.Multiblocks.IDs() {
			d, _ := cats.Multiblocks.Lookup(id)
			src := d.Source()
			validate := schemas.ValidateMultiblock
			if src.Format == multiblock.FormatYAML {
				validate = schemas.ValidateMultiblockYAML
			}
			if err := validate(src.Raw); err != nil {
				logger.Printf("schema: %s: %v", cats.Multiblocks.Files[id], err)
				failed++
			}
		}
	}
	fmt.Printf("%d loaded, %d failed, %d block tags (digest %s)\n", len(cats.Multiblocks.ByID), failed, len(cats.Blocks.Tags()), cats.Digest())
	if failed > 0 {
		os.Exit(1)
	}
}

func indexCmd(args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	c := addCommon(fs)
	dbPath := fs.String("db", "", "sqlite db path (overrides settings)")
	_ = fs.Parse(args)

	t := c.tuning()
	if p := strings.TrimSpace(*dbPath); p != "" {
		t.IndexDB = p
	}
	if t.IndexDB == "" {
		t.IndexDB = filepath.Join("data", "index", "multiblocks.sqlite")
	}
	cats := c.load(t)

	idx, err := indexdb.OpenSQLite(t.IndexDB)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open index:", err)
		os.Exit(1)
	}
	defer idx.Close()
	if err := idx.UpsertCatalogs(context.Background(), t.ConfigDir, cats, t); err != nil {
		fmt.Fprintln(os.Stderr, "write index:", err)
		os.Exit(1)
	}
	logger.Printf("indexed %d multiblocks (%d errors) into %s", len(cats.Multiblocks.ByID), len(cats.Multiblocks.Errors), t.IndexDB)
}
