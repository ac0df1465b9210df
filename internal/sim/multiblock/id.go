package multiblock

import (
	"fmt"
	"strings"
)

// DefaultNamespace is used for identifiers written without a namespace.
const DefaultNamespace = "multiblock"

// ID names a structure definition as "namespace:path".
type ID struct {
	Namespace string
	Path      string
}

func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	ns, p, ok := strings.Cut(s, ":")
	if !ok {
		ns, p = DefaultNamespace, s
	}
	id := ID{Namespace: ns, Path: p}
	if err := id.validate(); err != nil {
		return ID{}, fmt.Errorf("bad id %q: %w", s, err)
	}
	return id, nil
}

// MustID is ParseID for literals.
func MustID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) validate() error {
	if id.Namespace == "" || id.Path == "" {
		return fmt.Errorf("empty namespace or path")
	}
	for _, r := range id.Namespace {
		if !validIDRune(r, false) {
			return fmt.Errorf("invalid namespace character %q", r)
		}
	}
	for _, r := range id.Path {
		if !validIDRune(r, true) {
			return fmt.Errorf("invalid path character %q", r)
		}
	}
	return nil
}

func validIDRune(r rune, path bool) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-' || r == '.':
		return true
	case r == '/':
		return path
	}
	return false
}

func (id ID) String() string {
	return id.Namespace + ":" + id.Path
}

func (id ID) IsZero() bool {
	return id == ID{}
}
