package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"multiblock.ai/internal/sim/multiblock"
)

func showCmd(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	c := addCommon(fs)
	idFlag := fs.String("id", "", "multiblock id (required)")
	rot := fs.Int("rot", 0, "rotation in quarter turns or degrees")
	_ = fs.Parse(args)

	if strings.TrimSpace(*idFlag) == "" {
		fmt.Fprintln(os.Stderr, "missing -id")
		os.Exit(2)
	}
	cats := c.load(c.tuning())
	d := lookup(cats, *idFlag)

	fmt.Printf("%s pivot %v rotation %d\n", d.ID(), d.Pivot(), multiblock.NormalizeRotation(*rot))
	render(os.Stdout, d.BlocksWithRotation(*rot))
}

// render prints blocks as schematic layers, bottom first, with a legend. The
// origin cell is marked in the legend; unruled cells print as spaces.
func render(w io.Writer, blocks map[multiblock.Pos]*multiblock.Rule) {
	b, ok := multiblock.BoundsOf(blocks)
	if !ok {
		fmt.Fprintln(w, "(empty)")
		return
	}

	// Symbols by first appearance in scan order.
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	sym := map[*multiblock.Rule]byte{}
	var legend []string
	for y := b.Min.Y; y <= b.Max.Y; y++ {
		fmt.Fprintf(w, "layer y=%d\n", y)
		for z := b.Min.Z; z <= b.Max.Z; z++ {
			var row strings.Builder
			for x := b.Min.X; x <= b.Max.X; x++ {
				r, ok := blocks[multiblock.Pos{X: x, Y: y, Z: z}]
				if !ok {
					row.WriteByte(' ')
					continue
				}
				s, seen := sym[r]
				if !seen {
					s = '?'
					if len(sym) < len(alphabet) {
						s = alphabet[len(sym)]
					}
					sym[r] = s
					legend = append(legend, fmt.Sprintf("  %c = %s", s, r))
				}
				row.WriteByte(s)
			}
			fmt.Fprintf(w, "  %q\n", row.String())
		}
	}
	sort.Strings(legend)
	fmt.Fprintf(w, "origin at column %d row %d of layer y=0\n", -b.Min.X, -b.Min.Z)
	for _, l := range legend {
		fmt.Fprintln(w, l)
	}
}
