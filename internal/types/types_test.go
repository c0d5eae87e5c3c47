package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActualTypeStripsOneForwardLayer(t *testing.T) {
	arr := NewArray()
	bitT := arr.New(Type{Kind: Bit, Size: 16})
	alias := arr.New(Type{Kind: Forward, Target: bitT})

	got := ActualType(alias)
	assert.Same(t, bitT, got)
	// Idempotent once flattened.
	assert.Same(t, ActualType(got), ActualType(ActualType(got)))
}

func TestEffectiveTypeUnwrapsFunctionFieldStack(t *testing.T) {
	arr := NewArray()
	intT := arr.New(Type{Kind: Int})
	fn := arr.New(Type{Kind: Function, Return: intT})
	assert.Same(t, intT, EffectiveType(fn))

	field := arr.New(Type{Kind: FieldK, FieldType: intT})
	assert.Same(t, intT, EffectiveType(field))

	stack := arr.New(Type{Kind: HeaderStack, Element: intT})
	assert.Same(t, intT, EffectiveType(stack))
}

func TestEquivalentReflexiveSymmetricTransitive(t *testing.T) {
	arr := NewArray()
	a := arr.New(Type{Kind: Enum, StrName: "E"})
	b := arr.New(Type{Kind: Enum, StrName: "E"})
	c := arr.New(Type{Kind: Enum, StrName: "E"})

	assert.True(t, Equivalent(a, a), "reflexive")
	assert.Equal(t, Equivalent(a, b), Equivalent(b, a), "symmetric")
	require.True(t, Equivalent(a, b))
	require.True(t, Equivalent(b, c))
	assert.True(t, Equivalent(a, c), "transitive")
}

func TestEquivalentTypedefFlattening(t *testing.T) {
	// typedef bit<16> u16; typedef u16 port;
	arr := NewArray()
	bitT := arr.New(Type{Kind: Bit, Size: 16})
	u16 := arr.New(Type{Kind: Forward, Target: bitT})
	port := arr.New(Type{Kind: Forward, Target: bitT})

	assert.True(t, Equivalent(u16, port))
}

func TestEquivalentCyclicStructsTerminate(t *testing.T) {
	arr := NewArray()
	left := arr.New(Type{Kind: Struct, StrName: "Node"})
	right := arr.New(Type{Kind: Struct, StrName: "Node"})
	// Self-referential field product (a struct containing a field of its
	// own header-stack type), the mutually-recursive shape 	// warns about.
	leftFields := Product(arr, []*Type{Field(arr, "next", &Type{Kind: HeaderStack, Element: left})})
	rightFields := Product(arr, []*Type{Field(arr, "next", &Type{Kind: HeaderStack, Element: right})})
	left.Fields = leftFields
	right.Fields = rightFields

	done := make(chan bool, 1)
	go func() { done <- Equivalent(left, right) }()
	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("Equivalent did not terminate on a cyclic type graph")
	}
}

func TestEquivalentEmptyProductArity(t *testing.T) {
	arr := NewArray()
	empty1 := Product(arr, nil)
	empty2 := Product(arr, nil)
	nonEmpty := Product(arr, []*Type{arr.New(Type{Kind: Int})})

	assert.True(t, Equivalent(empty1, empty2))
	assert.False(t, Equivalent(empty1, nonEmpty))
}

func TestAnyIsWildcard(t *testing.T) {
	arr := NewArray()
	anyT := arr.New(Type{Kind: Any})
	intT := arr.New(Type{Kind: Int})
	assert.True(t, Equivalent(anyT, intT))
	assert.True(t, Equivalent(intT, anyT))
}
