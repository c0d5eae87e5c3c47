// Package types implements the P4 type universe: a single tagged-variant
// Type record type, an append-only type array all Types are allocated
// into, and structural equivalence with cycle detection.
//
// Deliberately avoids modeling each type constructor as a separate struct
// sharing only a base pointer — dense tagged records are both faster and
// smaller since passes dispatch on the tag thousands of times. This
// follows original_source/frontend/type.h's single tagged struct (there, a
// C union) directly rather than a closed-interface dispatch style.
package types

import (
	"strings"

	"github.com/p4fc/p4fc/internal/ast"
	"github.com/p4fc/p4fc/internal/container"
	"github.com/p4fc/p4fc/internal/scope"
)

// Kind is the tag of a Type record.
type Kind int

const (
	Void Kind = iota
	Bool
	Int
	Bit
	Varbit
	String
	Any
	Enum
	Error
	MatchKind
	Struct
	Header
	HeaderUnion
	HeaderStack
	Function
	Parser
	Control
	Package
	Extern
	Table
	Typedef
	NameRef // placeholder, resolved in C7
	Forward // Type{target}: transparent forwarding alias
	ProductK
	FieldK
	State
	TuplePairK // bookkeeping pair used only by equivalence cycle detection
)

// Type is the single tagged-variant record every type-denoting AST node
// produces one of. Only the fields relevant to Kind are
// meaningful; the rest are zero. All Types are allocated via NewArray and
// referenced thereafter by pointer (their identity, not their field values,
// is often what later passes compare against: actual_type uses pointer
// equality as a short-circuit in type_equiv).
type Type struct {
	Kind    Kind
	StrName string   // nominal identity for Enum/Extern/Table
	AST     ast.Node // declaring node, for location/identity

	// Size is the bit width for Int/Bit/Varbit, or the enum member count
	// for Enum.
	Size int

	Fields *Type // Product, for Struct/Header/HeaderUnion/Enum

	Element *Type // HeaderStack

	Params     *Type // Product, for Function/Parser/Control/Package
	CtorParams *Type // Product, for Parser/Control
	Return     *Type // Function
	Methods    *Type // Product, for Extern/Parser/Control/Table
	Ctors      *Type // Product, for Extern

	Ref *Type // Typedef.ref

	NameRefNode  ast.Node    // Nameref.name
	NameRefScope *scope.Scope // Nameref.scope

	Target *Type // Forward (Type{target})

	Members []*Type // Product.members

	FieldType *Type // Field.type

	Left, Right *Type // TuplePairK bookkeeping
}

// Array is the append-only universe every Type is allocated into: all Type
// records live in one segmented array (container.Array) whose growth never
// moves existing elements, so a *Type handed out by New stays valid for the
// rest of the compilation.
type Array struct {
	backing *container.Array[Type]
}

func NewArray() *Array {
	return &Array{backing: container.NewArray[Type]()}
}

func (a *Array) New(t Type) *Type {
	return a.backing.Append(t)
}

func (a *Array) Len() int      { return a.backing.Len() }
func (a *Array) At(i int) *Type { return a.backing.At(i) }
func (a *Array) ForEach(fn func(i int, t *Type)) {
	a.backing.ForEach(fn)
}

// Product builds (and allocates into arr) a Product type of the given
// members.
func Product(arr *Array, members []*Type) *Type {
	return arr.New(Type{Kind: ProductK, Members: members})
}

// Field builds (and allocates) a Field type wrapping fieldType, named name
// so the member-selector rule can scan a Product's Members by
// spelling.
func Field(arr *Array, name string, fieldType *Type) *Type {
	return arr.New(Type{Kind: FieldK, StrName: name, FieldType: fieldType})
}

// ActualType strips one Type{target:...} (Forward) layer, :
// "actual_type(t) ≝ strip one Type{target:...} layer". By the end of C7
// this reaches the canonical form in O(1) because the fix-up sweeps
// collapse forwarding chains.
func ActualType(t *Type) *Type {
	if t == nil {
		return nil
	}
	if t.Kind == Forward {
		return t.Target
	}
	return t
}

// EffectiveType unwraps function return, field type, or header-stack
// element, else identity.
func EffectiveType(t *Type) *Type {
	applied := ActualType(t)
	if applied == nil {
		return nil
	}
	switch applied.Kind {
	case Function:
		return ActualType(applied.Return)
	case FieldK:
		return ActualType(applied.FieldType)
	case HeaderStack:
		return ActualType(applied.Element)
	}
	return applied
}

// KindName renders a Kind for diagnostics/golden fixtures.
func KindName(k Kind) string {
	names := [...]string{
		"Void", "Bool", "Int", "Bit", "Varbit", "String", "Any", "Enum",
		"Error", "MatchKind", "Struct", "Header", "HeaderUnion",
		"HeaderStack", "Function", "Parser", "Control", "Package", "Extern",
		"Table", "Typedef", "NameRef", "Type", "Product", "Field", "State",
		"Tuple",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "?"
	}
	return names[k]
}

// String renders a Type for debugging/golden fixtures; it does not attempt
// to reproduce P4 surface syntax exactly.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Bool, Void, String, Any, Error, MatchKind, State:
		return KindName(t.Kind)
	case Int, Bit, Varbit:
		if t.Size == 0 {
			return KindName(t.Kind)
		}
		return KindName(t.Kind) + "<" + itoa(t.Size) + ">"
	case Enum, Extern, Table:
		return KindName(t.Kind) + " " + t.StrName
	case HeaderStack:
		return t.Element.String() + "[]"
	case Function:
		return "Function(" + t.Params.String() + ") -> " + t.Return.String()
	case Forward:
		return t.Target.String()
	case ProductK:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case FieldK:
		return t.FieldType.String()
	case NameRef:
		return "NameRef"
	default:
		return KindName(t.Kind)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
