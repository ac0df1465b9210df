package catalogs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"multiblock.ai/internal/sim/multiblock"
)

type MultiblockCatalog struct {
	ByID    map[multiblock.ID]*multiblock.Definition
	Digests map[multiblock.ID]string
	Files   map[multiblock.ID]string
	Errors  []LoadError
	Digest  string
}

// LoadError is one structure file that could not be loaded.
type LoadError struct {
	File string
	ID   multiblock.ID
	Err  error
}

func (e LoadError) Error() string { return e.File + ": " + e.Err.Error() }
func (e LoadError) Unwrap() error { return e.Err }

func (c *MultiblockCatalog) Lookup(id multiblock.ID) (*multiblock.Definition, bool) {
	d, ok := c.ByID[id]
	return d, ok
}

// IDs returns the loaded structure ids sorted by their string form.
func (c *MultiblockCatalog) IDs() []multiblock.ID {
	out := make([]multiblock.ID, 0, len(c.ByID))
	for id := range c.ByID {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Err joins all load errors, or returns nil.
func (c *MultiblockCatalog) Err() error {
	errs := make([]error, 0, len(c.Errors))
	for _, e := range c.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// IDForFile derives a structure id from its path below the multiblocks
// directory: "<namespace>/<path>.<ext>", or "<path>.<ext>" for the default
// namespace.
func IDForFile(rel string) (multiblock.ID, error) {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	ns, p, ok := strings.Cut(rel, "/")
	if !ok {
		return multiblock.ParseID(rel)
	}
	return multiblock.ParseID(ns + ":" + p)
}

func loadMultiblocks(dir string, reg multiblock.Registry, out *MultiblockCatalog) error {
	out.ByID = map[multiblock.ID]*multiblock.Definition{}
	out.Digests = map[multiblock.ID]string{}
	out.Files = map[multiblock.ID]string{}

	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			out.Digest = sha256Hex(nil)
			return nil
		}
		return err
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := multiblock.FormatForFile(d.Name()); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)

	var concat bytes.Buffer
	for _, p := range files {
		rel, _ := filepath.Rel(dir, p)
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		concat.Write(b)
		concat.WriteByte('\n')

		id, err := IDForFile(rel)
		if err != nil {
			out.Errors = append(out.Errors, LoadError{File: rel, Err: err})
			continue
		}
		if prev, dup := out.Files[id]; dup {
			out.Errors = append(out.Errors, LoadError{File: rel, ID: id, Err: fmt.Errorf("id %s already defined by %s", id, prev)})
			continue
		}
		format, _ := multiblock.FormatForFile(p)
		def, err := multiblock.Parse(id, multiblock.Source{Format: format, Raw: b}, reg)
		if err != nil {
			out.Errors = append(out.Errors, LoadError{File: rel, ID: id, Err: err})
			continue
		}
		out.ByID[id] = def
		out.Digests[id] = sha256Hex(b)
		out.Files[id] = rel
	}
	out.Digest = sha256Hex(concat.Bytes())
	return nil
}
