package multiblock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// FormatForFile picks the schematic format from a file name.
func FormatForFile(name string) (Format, bool) {
	switch {
	case strings.HasSuffix(name, ".json"):
		return FormatJSON, true
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return FormatYAML, true
	}
	return 0, false
}

// Source is a schematic document exactly as it was read. It is kept next to the
// parsed blocks so the definition can be shipped and re-parsed elsewhere.
type Source struct {
	Format Format
	Raw    []byte
}

func (s Source) clone() Source {
	return Source{Format: s.Format, Raw: bytes.Clone(s.Raw)}
}

// document is the decoded schematic:
//
//	{
//	  "origin": {"x": 1, "y": 0, "z": 1},
//	  "keys": {"A": {"block": "STONE"}, "B": {"tag": "logs"}},
//	  "structure": [["A B", "BBB"], ["AAA", "A A"]]
//	}
//
// structure is layers (Y) of rows (Z) of characters (X).
type document struct {
	Origin    *originDoc `json:"origin" yaml:"origin"`
	Keys      keyTable   `json:"keys" yaml:"keys"`
	Structure [][]string `json:"structure" yaml:"structure"`
}

type originDoc struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

type keySpec struct {
	Tag   *string `json:"tag" yaml:"tag"`
	Block *string `json:"block" yaml:"block"`
}

type keyEntry struct {
	Symbol string
	Spec   keySpec
	// Invalid is set when the value did not decode as a key spec object.
	Invalid bool
	// Where describes the entry for error messages.
	Where string
}

// keyTable keeps entries in document order, duplicates included. Decoding into
// a map would silently keep only the last definition of a symbol.
type keyTable []keyEntry

func (t *keyTable) UnmarshalJSON(b []byte) error {
	*t = nil
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("keys: expected object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		sym, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		e := keyEntry{Symbol: sym, Where: string(raw)}
		if err := json.Unmarshal(raw, &e.Spec); err != nil {
			e.Invalid = true
		}
		*t = append(*t, e)
	}
	_, err = dec.Token()
	return err
}

func (t *keyTable) UnmarshalYAML(n *yaml.Node) error {
	*t = nil
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("keys: expected mapping at line %d", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		e := keyEntry{Symbol: k.Value, Where: fmt.Sprintf("line %d", v.Line)}
		if v.Kind != yaml.MappingNode || v.Decode(&e.Spec) != nil {
			e.Invalid = true
		}
		*t = append(*t, e)
	}
	return nil
}

func decodeDocument(src Source) (document, error) {
	var doc document
	var err error
	switch src.Format {
	case FormatJSON:
		err = json.Unmarshal(src.Raw, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(src.Raw, &doc)
	default:
		err = fmt.Errorf("unsupported format %v", src.Format)
	}
	if err != nil {
		return doc, err
	}
	if doc.Structure == nil {
		return doc, fmt.Errorf("missing structure")
	}
	return doc, nil
}
