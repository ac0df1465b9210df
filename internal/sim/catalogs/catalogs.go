package catalogs

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

type Catalogs struct {
	Blocks      BlockCatalog
	Multiblocks MultiblockCatalog
}

type LoadOptions struct {
	// Logf, when set, receives one line per structure that failed to load.
	Logf func(format string, args ...any)
}

// Load reads blocks.json and the multiblocks/ directory under configDir.
//
// A broken block catalog is fatal. Broken structures are not: they are
// reported in Multiblocks.Errors and the remaining structures still load.
func Load(configDir string, opts LoadOptions) (*Catalogs, error) {
	var c Catalogs

	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadMultiblocks(filepath.Join(configDir, "multiblocks"), &c.Blocks, &c.Multiblocks); err != nil {
		return nil, err
	}
	if opts.Logf != nil {
		for _, e := range c.Multiblocks.Errors {
			opts.Logf("multiblocks: %s: %v", e.File, e.Err)
		}
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Digest summarises every loaded catalog, for peers that want to check they
// run the same data pack.
func (c *Catalogs) Digest() string {
	var buf bytes.Buffer
	buf.WriteString(c.Blocks.PaletteDigest)
	buf.WriteString(c.Blocks.DefsDigest)
	buf.WriteString(c.Multiblocks.Digest)
	return sha256Hex(buf.Bytes())
}

func filterOut(in []string, remove string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == remove {
			continue
		}
		out = append(out, s)
	}
	return out
}
