package defcodec

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"multiblock.ai/internal/sim/multiblock"
)

const Version = 1

// Header is the first line of a bundle.
type Header struct {
	Version int    `json:"version"`
	Count   int    `json:"count"`
	Digest  string `json:"digest,omitempty"`
}

// Record carries one definition as its source document. The receiver
// re-parses Raw; nothing derived from the parsed blocks is sent.
type Record struct {
	ID     string `json:"id"`
	Format string `json:"format"`
	Raw    []byte `json:"raw"`
}

func parseFormat(s string) (multiblock.Format, error) {
	switch s {
	case "json":
		return multiblock.FormatJSON, nil
	case "yaml":
		return multiblock.FormatYAML, nil
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

// Encode writes defs as a zstd-compressed stream of JSON lines: the header,
// then one record per definition in the given order.
func Encode(w io.Writer, digest string, defs []*multiblock.Definition) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)
	je := json.NewEncoder(bw)

	if err := je.Encode(Header{Version: Version, Count: len(defs), Digest: digest}); err != nil {
		enc.Close()
		return err
	}
	for _, d := range defs {
		src := d.Source()
		rec := Record{ID: d.ID().String(), Format: src.Format.String(), Raw: src.Raw}
		if err := je.Encode(rec); err != nil {
			enc.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Bundle is a decoded stream. Records that failed to parse are listed in
// Errors; the rest are in Defs, in stream order.
type Bundle struct {
	Header Header
	Defs   []*multiblock.Definition
	Errors []error
}

// Decode reads a bundle written by Encode and parses every record against reg.
func Decode(r io.Reader, reg multiblock.Registry) (Bundle, error) {
	var b Bundle
	dec, err := zstd.NewReader(r)
	if err != nil {
		return b, err
	}
	defer dec.Close()

	jd := json.NewDecoder(bufio.NewReaderSize(dec, 64*1024))
	if err := jd.Decode(&b.Header); err != nil {
		return b, fmt.Errorf("bundle header: %w", err)
	}
	if b.Header.Version != Version {
		return b, fmt.Errorf("bundle version %d not supported", b.Header.Version)
	}
	for i := 0; i < b.Header.Count; i++ {
		var rec Record
		if err := jd.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return b, fmt.Errorf("bundle truncated after %d of %d records", i, b.Header.Count)
			}
			return b, fmt.Errorf("bundle record %d: %w", i, err)
		}
		def, err := decodeRecord(rec, reg)
		if err != nil {
			b.Errors = append(b.Errors, err)
			continue
		}
		b.Defs = append(b.Defs, def)
	}
	return b, nil
}

func decodeRecord(rec Record, reg multiblock.Registry) (*multiblock.Definition, error) {
	id, err := multiblock.ParseID(rec.ID)
	if err != nil {
		return nil, err
	}
	f, err := parseFormat(rec.Format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return multiblock.Parse(id, multiblock.Source{Format: f, Raw: rec.Raw}, reg)
}
