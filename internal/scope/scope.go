// Package scope implements the lexical scope tree and namespace-separated
// name table used to resolve identifiers to their declaring occurrence.
// Grounded on original_source/scope.h (Scope::lookup/lookup_builtin/
// bind_name, the NULL_ENTRY sentinel), preferring Go pointers over raw
// handles/indices since the arena here is Go's GC-backed heap
// (internal/container.Arena).
package scope

import (
	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/container"
)

// Namespace distinguishes the three spelling spaces a single identifier can
// occupy simultaneously.
type Namespace int

const (
	Var Namespace = 1 << iota
	TypeNS
	Keyword
)

const AnyNamespace = Var | TypeNS | Keyword

// NameDeclaration is a single declaring occurrence of a spelling. Multiple
// declarations sharing (scope, namespace, spelling) chain via NextInScope —
// an overload set, disambiguated at reference sites.
type NameDeclaration struct {
	Spelling     string
	Node         ast.Node // the declaring AST node
	NS           Namespace
	Scope        *Scope
	NextInScope  *NameDeclaration
	ResolvedType any // filled in by C7; typed as types.Type there, kept `any` here to avoid an import cycle
}

// nameEntry holds, per namespace, the head of that namespace's declaration
// chain for one spelling in one scope.
type nameEntry struct {
	heads [3]*NameDeclaration // indexed by namespace bit position
}

func nsIndex(ns Namespace) int {
	switch ns {
	case Var:
		return 0
	case TypeNS:
		return 1
	case Keyword:
		return 2
	default:
		panic("scope: namespace must be exactly one of Var, TypeNS, Keyword")
	}
}

// Scope is one lexical region: a parent link plus a per-scope name table
//. A scope owns nothing but its own declarations; lookups walk
// the parent chain.
type Scope struct {
	Parent    *Scope
	Level     int
	nameTable *container.StrMap[*nameEntry]
}

// NewRootScope creates the program's outermost scope (no parent).
func NewRootScope() *Scope {
	return &Scope{nameTable: container.NewStrMap[*nameEntry]()}
}

// Push creates a child scope of s.
func (s *Scope) Push() *Scope {
	return &Scope{Parent: s, Level: s.Level + 1, nameTable: container.NewStrMap[*nameEntry]()}
}

// nullEntry is the sentinel NameDeclaration returned by Lookup on a miss,
// matching "design choice to let callers probe multiple
// namespaces without a null check" (Scope.NULL_ENTRY in the original).
var nullEntry = &NameDeclaration{}

// IsNull reports whether decl is the miss sentinel.
func IsNull(decl *NameDeclaration) bool {
	return decl == nullEntry
}

// Bind allocates a new NameDeclaration for spelling in namespace ns within
// scope s. An existing declaration for the same (spelling, ns) in this
// scope is not replaced or rejected: the new declaration is prepended and
// chained via NextInScope, forming (or extending) an overload set.
func (s *Scope) Bind(spelling string, node ast.Node, ns Namespace) *NameDeclaration {
	decl := &NameDeclaration{Spelling: spelling, Node: node, NS: ns, Scope: s}

	entry, found := s.nameTable.Lookup(spelling)
	if !found {
		entry = &nameEntry{}
		s.nameTable.Insert(spelling, entry)
	}
	idx := nsIndex(ns)
	decl.NextInScope = entry.heads[idx]
	entry.heads[idx] = decl
	return decl
}

// Lookup walks scope -> parent -> ... returning the first scope at which
// spelling has at least one declaration in any namespace named by nsMask.
// Stops at the first hit; returns the sentinel on a global
// miss, never nil.
func (s *Scope) Lookup(spelling string, nsMask Namespace) *NameDeclaration {
	for cur := s; cur != nil; cur = cur.Parent {
		entry, found := cur.nameTable.Lookup(spelling)
		if !found {
			continue
		}
		for _, ns := range []Namespace{Var, TypeNS, Keyword} {
			if nsMask&ns == 0 {
				continue
			}
			if head := entry.heads[nsIndex(ns)]; head != nil {
				return head
			}
		}
	}
	return nullEntry
}

// LookupBuiltin is Lookup restricted to a single namespace, intended to be
// called on the root scope to fetch built-ins like int, bit, bool, error,
// match_kind.
func (s *Scope) LookupBuiltin(spelling string, ns Namespace) *NameDeclaration {
	if ns != Var && ns != TypeNS {
		panic("scope: LookupBuiltin requires Var or TypeNS")
	}
	return s.Lookup(spelling, ns)
}

// Declarations returns the full overload chain for (spelling, ns) declared
// directly in s (not walking parents), outermost-declared last.
func (s *Scope) Declarations(spelling string, ns Namespace) []*NameDeclaration {
	entry, found := s.nameTable.Lookup(spelling)
	if !found {
		return nil
	}
	var out []*NameDeclaration
	for d := entry.heads[nsIndex(ns)]; d != nil; d = d.NextInScope {
		out = append(out, d)
	}
	return out
}

// LookupDirect returns the most recently bound declaration for
// (spelling, ns) in s itself, without walking parents. Used by C7 to find
// the NameDeclaration a given declaring AST node was bound to, since C7
// knows the node's own scope (via scope_map) and namespace directly rather
// than needing the parent-walking search Lookup performs for references.
func (s *Scope) LookupDirect(spelling string, ns Namespace) (*NameDeclaration, bool) {
	entry, found := s.nameTable.Lookup(spelling)
	if !found {
		return nil, false
	}
	head := entry.heads[nsIndex(ns)]
	if head == nil {
		return nil, false
	}
	return head, true
}
