package types

// pairSet tracks (left,right) pairs seen on the current equivalence
// recursion, to break cycles coinductively. A fresh pairSet
// is used per top-level Equivalent call, matching
// original_source/declared_types.cpp's type_equiv resetting
// checker->type_equiv_pairs before each call.
type pairSet struct {
	seen map[[2]*Type]bool
}

func newPairSet() *pairSet {
	return &pairSet{seen: make(map[[2]*Type]bool)}
}

func (p *pairSet) seenBefore(l, r *Type) bool {
	return p.seen[[2]*Type{l, r}]
}

func (p *pairSet) record(l, r *Type) {
	p.seen[[2]*Type{l, r}] = true
}

// Equivalent decides structural equality modulo aliasing.
func Equivalent(left, right *Type) bool {
	return equiv(left, right, newPairSet())
}

func equiv(left, right *Type, seen *pairSet) bool {
	if left == nil || right == nil {
		return left == right
	}
	l := ActualType(left)
	r := ActualType(right)
	if l == r {
		return true
	}
	if l == nil || r == nil {
		return l == r
	}
	if seen.seenBefore(l, r) {
		return true
	}
	seen.record(l, r)

	if l.Kind == Any || r.Kind == Any {
		return true
	}
	if l.Kind != r.Kind {
		return false
	}

	switch l.Kind {
	case Void, Bool, Int, Bit, Varbit, String, Error, MatchKind, State:
		return true
	case Enum, Extern, Table:
		return l.StrName == r.StrName
	case ProductK:
		if len(l.Members) != len(r.Members) {
			return false
		}
		for i := range l.Members {
			if !equiv(l.Members[i], r.Members[i], seen) {
				return false
			}
		}
		return true
	case Function:
		return equiv(l.Return, r.Return, seen) && equiv(l.Params, r.Params, seen)
	case Package, Parser, Control:
		return equiv(l.Params, r.Params, seen)
	case Struct, Header, HeaderUnion:
		return equiv(l.Fields, r.Fields, seen)
	case HeaderStack:
		return equiv(l.Element, r.Element, seen)
	case FieldK:
		return equiv(l.FieldType, r.FieldType, seen)
	default:
		return false
	}
}
