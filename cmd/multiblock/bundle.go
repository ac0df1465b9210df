package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"multiblock.ai/internal/sim/multiblock"
	"multiblock.ai/internal/sim/world/io/defcodec"
)

func packCmd(args []string) {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	c := addCommon(fs)
	outPath := fs.String("out", "", "bundle output path (required)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*outPath) == "" {
		fmt.Fprintln(os.Stderr, "missing -out")
		os.Exit(2)
	}
	cats := c.load(c.tuning())

	defs := make([]*multiblock.Definition, 0, len(cats.Multiblocks.ByID))
	for _, id := range cats.Multiblocks.IDs() {
		d, _ := cats.Multiblocks.Lookup(id)
		defs = append(defs, d)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create:", err)
		os.Exit(1)
	}
	if err := defcodec.Encode(f, cats.Digest(), defs); err != nil {
		_ = f.Close()
		fmt.Fprintln(os.Stderr, "encode:", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close:", err)
		os.Exit(1)
	}
	logger.Printf("packed %d multiblocks into %s", len(defs), *outPath)
}

func unpackCmd(args []string) {
	fs := flag.NewFlagSet("unpack", flag.ExitOnError)
	c := addCommon(fs)
	inPath := fs.String("in", "", "bundle path (required)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*inPath) == "" {
		fmt.Fprintln(os.Stderr, "missing -in")
		os.Exit(2)
	}
	cats := c.load(c.tuning())

	f, err := os.Open(*inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer f.Close()

	b, err := defcodec.Decode(f, &cats.Blocks)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decode:", err)
		os.Exit(1)
	}
	if b.Header.Digest != "" && b.Header.Digest != cats.Digest() {
		logger.Printf("bundle digest %s differs from local catalogs %s", b.Header.Digest, cats.Digest())
	}
	for _, d := range b.Defs {
		fmt.Printf("%s\t%d parts\n", d.ID(), d.Len())
	}
	for _, err := range b.Errors {
		logger.Printf("rejected: %v", err)
	}
	if len(b.Errors) > 0 {
		os.Exit(1)
	}
}
