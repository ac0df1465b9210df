package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"multiblock.ai/internal/sim/multiblock"
	"multiblock.ai/internal/sim/world/terrain/store"
)

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	c := addCommon(fs)
	idFlag := fs.String("id", "", "multiblock id (required)")
	at := fs.String("at", "0,0,0", "anchor position x,y,z")
	rot := fs.Int("rot", -1, "rotation to test; -1 tests all four")
	placePath := fs.String("place", "", "yaml placement file describing the world (required)")
	unload := fs.String("unload", "", "chunk keys cx,cy,cz to unload before matching, separated by ';'")
	_ = fs.Parse(args)

	if strings.TrimSpace(*idFlag) == "" || strings.TrimSpace(*placePath) == "" {
		fmt.Fprintln(os.Stderr, "missing -id or -place")
		os.Exit(2)
	}
	anchor, err := parsePos(*at)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad -at:", err)
		os.Exit(2)
	}

	t := c.tuning()
	cats := c.load(t)
	d := lookup(cats, *idFlag)

	ps, err := store.LoadPlacements(*placePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read placements:", err)
		os.Exit(1)
	}
	world := store.NewChunkStore(cats.Blocks.Palette)
	if err := world.Apply(ps); err != nil {
		fmt.Fprintln(os.Stderr, "apply placements:", err)
		os.Exit(1)
	}
	keys, err := parseChunkKeys(*unload)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad -unload:", err)
		os.Exit(2)
	}
	for _, k := range keys {
		world.UnloadChunk(k)
	}
	logger.Printf("world: %d chunks loaded (digest %s)", len(world.LoadedChunkKeys()), world.Digest())

	rc, err := multiblock.NewRotationCache(t.RotationCacheSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rotation cache:", err)
		os.Exit(1)
	}

	turns := []int{0, 1, 2, 3}
	if *rot >= 0 {
		turns = []int{multiblock.NormalizeRotation(*rot)}
	}
	matched := false
	for _, q := range turns {
		if multiblock.MatchBlocks(world, rc.BlocksWithRotation(d, q), anchor) {
			fmt.Printf("%s matches at %v rotation %d\n", d.ID(), anchor, q)
			matched = true
		}
	}
	if !matched {
		fmt.Printf("%s does not match at %v\n", d.ID(), anchor)
		os.Exit(1)
	}
}

func parsePos(s string) (multiblock.Pos, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 3 {
		return multiblock.Pos{}, fmt.Errorf("expected x,y,z")
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return multiblock.Pos{}, err
		}
		v[i] = n
	}
	return multiblock.Pos{X: v[0], Y: v[1], Z: v[2]}, nil
}

func parseChunkKeys(s string) ([]store.ChunkKey, error) {
	var out []store.ChunkKey
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := parsePos(part)
		if err != nil {
			return nil, err
		}
		out = append(out, store.ChunkKey{CX: p.X, CY: p.Y, CZ: p.Z})
	}
	return out, nil
}
