package multiblock

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Parse builds a definition from a schematic document. Rule references are
// validated against reg. On error no definition is returned; the error is a
// *ParseError naming id.
func Parse(id ID, src Source, reg Registry) (*Definition, error) {
	doc, err := decodeDocument(src)
	if err != nil {
		return nil, &ParseError{ID: id, Err: ErrMalformed, Detail: err.Error()}
	}

	var origin Pos
	if doc.Origin != nil {
		origin = Pos{doc.Origin.X, doc.Origin.Y, doc.Origin.Z}
	}
	if !origin.inRange() {
		return nil, &ParseError{ID: id, Err: ErrMalformed, Detail: fmt.Sprintf("origin %v out of range", origin)}
	}

	keys, err := buildKeys(id, doc.Keys, reg)
	if err != nil {
		return nil, err
	}

	blocks := map[Pos]*Rule{}
	for y, layer := range doc.Structure {
		for z, row := range layer {
			x := 0
			for _, ch := range row {
				pos := Pos{x, y, z}.Sub(origin)
				x++
				if !pos.inRange() {
					return nil, &ParseError{ID: id, Err: ErrMalformed, Detail: fmt.Sprintf("position %v out of range", pos)}
				}
				if _, dup := blocks[pos]; dup {
					return nil, &ParseError{ID: id, Err: ErrDuplicatePosition, Detail: pos.String()}
				}
				if ch == ' ' {
					continue
				}
				r, ok := keys[ch]
				if !ok {
					return nil, &ParseError{
						ID:     id,
						Err:    ErrUndefinedKey,
						Detail: fmt.Sprintf("key %q at layer %d row %d column %d", ch, y, z, x-1),
					}
				}
				blocks[pos] = r
			}
		}
	}

	return &Definition{
		id:     id,
		source: src.clone(),
		blocks: blocks,
		pivot:  FootprintPivot(blocks),
	}, nil
}

func buildKeys(id ID, table keyTable, reg Registry) (map[rune]*Rule, error) {
	keys := make(map[rune]*Rule, len(table))
	for _, e := range table {
		sym, size := utf8.DecodeRuneInString(e.Symbol)
		if size == 0 || size != len(e.Symbol) {
			return nil, &ParseError{ID: id, Err: ErrInvalidKey, Detail: fmt.Sprintf("symbol %q is not a single character", e.Symbol)}
		}
		if _, dup := keys[sym]; dup {
			return nil, &ParseError{ID: id, Err: ErrDuplicateKey, Detail: fmt.Sprintf("%q", e.Symbol)}
		}
		r, err := ruleFor(e, reg)
		if err != nil {
			kind := ErrInvalidKey
			if errors.Is(err, ErrUnknownType) {
				kind = ErrUnknownType
			}
			return nil, &ParseError{ID: id, Err: kind, Detail: fmt.Sprintf("key %q: %s", e.Symbol, e.Where)}
		}
		keys[sym] = r
	}
	return keys, nil
}

func ruleFor(e keyEntry, reg Registry) (*Rule, error) {
	if e.Invalid {
		return nil, ErrInvalidKey
	}
	switch s := e.Spec; {
	case s.Tag != nil && s.Block == nil:
		return NewTagRule(reg, *s.Tag), nil
	case s.Block != nil && s.Tag == nil:
		if *s.Block == reg.EmptyType() {
			return NewEmptyRule(reg), nil
		}
		return NewExactRule(reg, *s.Block)
	default:
		return nil, ErrInvalidKey
	}
}
