package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArraySegmentedGrowthStablePointers(t *testing.T) {
	a := NewArray[int]()
	ptrs := make([]*int, 0, 40)
	for i := 0; i < 40; i++ {
		ptrs = append(ptrs, a.Append(i))
	}
	require.Equal(t, 40, a.Len())
	for i, p := range ptrs {
		assert.Equal(t, i, *p, "pointer for index %d must remain stable", i)
	}
	// Appending more must not invalidate earlier pointers.
	for i := 40; i < 100; i++ {
		a.Append(i)
	}
	for i, p := range ptrs {
		assert.Equal(t, i, *p)
	}
}

func TestSegmentForIndex(t *testing.T) {
	seg, off := segmentForIndex(0)
	assert.Equal(t, 0, seg)
	assert.Equal(t, 0, off)

	seg, off = segmentForIndex(16)
	assert.Equal(t, 1, seg)
	assert.Equal(t, 0, off)

	seg, off = segmentForIndex(15)
	assert.Equal(t, 0, seg)
	assert.Equal(t, 15, off)
}

func TestIDMapIdentityNotValue(t *testing.T) {
	m := NewIDMap[string]()
	type node struct{ n int }
	a := &node{n: 1}
	b := &node{n: 1} // equal value, distinct identity

	m.Set(a, "a")
	_, foundB := m.Lookup(b)
	assert.False(t, foundB, "distinct pointers with equal values must not collide")

	v, found := m.Lookup(a)
	require.True(t, found)
	assert.Equal(t, "a", v)
}

func TestIDMapInsertReturnIfFound(t *testing.T) {
	m := NewIDMap[int]()
	type node struct{}
	k := &node{}

	_, found := m.Insert(k, 1, true)
	assert.False(t, found)

	existing, found := m.Insert(k, 2, true)
	assert.True(t, found)
	assert.Equal(t, 1, existing)
}

func TestIDMapDeterministicIteration(t *testing.T) {
	m := NewIDMap[int]()
	type node struct{ _ byte }
	keys := make([]*node, 10)
	for i := range keys {
		keys[i] = &node{}
		m.Set(keys[i], i)
	}
	var seen []int
	m.ForEach(func(_ any, v int) { seen = append(seen, v) })
	// Insertion-order thread means most-recent-first.
	require.Len(t, seen, 10)
	assert.Equal(t, 9, seen[0])
	assert.Equal(t, 0, seen[9])
}

func TestStrMapGrowthRehashesAllEntries(t *testing.T) {
	m := NewStrMap[int]()
	for i := 0; i < 200; i++ {
		m.Insert(string(rune('a'+(i%26)))+string(rune('A'+(i/26))), i)
	}
	assert.Equal(t, 200, m.Len())
	v, found := m.Lookup(string(rune('a')) + string(rune('A')))
	require.True(t, found)
	assert.Equal(t, 0, v)
}

func TestStrMapChainsOnDuplicateKey(t *testing.T) {
	m := NewStrMap[int]()
	m.Insert("f", 1)
	m.Insert("f", 2)
	v, found := m.Lookup("f")
	require.True(t, found)
	assert.Equal(t, 2, v, "most recent insert wins lookup, matching overload-chain semantics")
}
