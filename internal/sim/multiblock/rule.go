package multiblock

import (
	"fmt"
	"sync/atomic"
)

// Registry is the read-mostly block type and tag catalog rules resolve against.
// It is populated during bootstrap, before any structure is parsed.
type Registry interface {
	HasType(typeID string) bool
	IsMember(typeID, tag string) bool
	// Types enumerates every registered block type.
	Types() []string
	// EmptyType is the id of the "nothing here" block.
	EmptyType() string
}

// WorldView is a read-only window onto a live block grid.
//
// Positions outside any loaded region report loaded=false from BlockAt and
// false from IsEmpty.
type WorldView interface {
	BlockAt(p Pos) (typeID string, loaded bool)
	IsEmpty(p Pos) bool
}

type RuleKind uint8

const (
	KindExact RuleKind = iota + 1
	KindTag
	KindEmpty
)

func (k RuleKind) String() string {
	switch k {
	case KindExact:
		return "block"
	case KindTag:
		return "tag"
	case KindEmpty:
		return "empty"
	default:
		return fmt.Sprintf("RuleKind(%d)", uint8(k))
	}
}

// Rule is the match rule bound to one schematic key. Rules are immutable once
// built (the tag member cache aside) and are shared between a definition and
// all of its rotated views.
type Rule struct {
	kind   RuleKind
	typeID string
	tag    string
	reg    Registry

	// members caches ValidTypes for KindTag. Set once; never cleared.
	members atomic.Pointer[[]string]
}

func NewExactRule(reg Registry, typeID string) (*Rule, error) {
	if !reg.HasType(typeID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeID)
	}
	return &Rule{kind: KindExact, typeID: typeID, reg: reg}, nil
}

// NewTagRule never fails; an unknown tag simply matches nothing.
func NewTagRule(reg Registry, tag string) *Rule {
	return &Rule{kind: KindTag, tag: tag, reg: reg}
}

func NewEmptyRule(reg Registry) *Rule {
	return &Rule{kind: KindEmpty, typeID: reg.EmptyType(), reg: reg}
}

func (r *Rule) Kind() RuleKind { return r.kind }

// TypeID is the matched block for KindExact and the empty block for KindEmpty.
func (r *Rule) TypeID() string { return r.typeID }

func (r *Rule) Tag() string { return r.tag }

func (r *Rule) String() string {
	switch r.kind {
	case KindExact:
		return "block(" + r.typeID + ")"
	case KindTag:
		return "tag(" + r.tag + ")"
	default:
		return "empty"
	}
}

// IsMatch reports whether the block at the absolute position satisfies the
// rule. It only reads from w.
func (r *Rule) IsMatch(w WorldView, at Pos) bool {
	switch r.kind {
	case KindExact:
		id, ok := w.BlockAt(at)
		return ok && id == r.typeID
	case KindTag:
		id, ok := w.BlockAt(at)
		return ok && r.reg.IsMember(id, r.tag)
	case KindEmpty:
		return w.IsEmpty(at)
	default:
		panic(fmt.Sprintf("multiblock: unhandled rule kind %v", r.kind))
	}
}

// ValidTypes returns the block types that satisfy the rule.
//
// For tags the member list is computed from the registry on first call and
// returned unchanged afterwards, even if the registry changes. Concurrent first
// calls may each compute a list; exactly one is stored and returned to all.
// Callers must not modify the returned slice.
func (r *Rule) ValidTypes() []string {
	switch r.kind {
	case KindExact, KindEmpty:
		return []string{r.typeID}
	case KindTag:
		if m := r.members.Load(); m != nil {
			return *m
		}
		var members []string
		for _, id := range r.reg.Types() {
			if r.reg.IsMember(id, r.tag) {
				members = append(members, id)
			}
		}
		if members == nil {
			members = []string{}
		}
		r.members.CompareAndSwap(nil, &members)
		return *r.members.Load()
	default:
		panic(fmt.Sprintf("multiblock: unhandled rule kind %v", r.kind))
	}
}
