package cache

import "testing"

func TestHashStable(t *testing.T) {
	a := Hash([]byte("header H { bit<8> x; }"))
	b := Hash([]byte("header H { bit<8> x; }"))
	if a != b {
		t.Fatalf("Hash not stable across identical inputs: %s vs %s", a, b)
	}
	c := Hash([]byte("header H { bit<16> x; }"))
	if a == c {
		t.Fatalf("Hash collided for distinct inputs")
	}
}

func TestLookupMiss(t *testing.T) {
	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if _, ok := c.Lookup(Hash([]byte("nope"))); ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestStoreAndLookup(t *testing.T) {
	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	hash := Hash([]byte("struct S { bit<8> x; }"))
	want := Entry{Clean: true}
	if err := c.Store(hash, want); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok := c.Lookup(hash)
	if !ok {
		t.Fatal("expected hit after Store")
	}
	if got.Clean != want.Clean {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestStoreUpsertsOnConflict(t *testing.T) {
	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	hash := Hash([]byte("struct S { bit<8> x; }"))
	if err := c.Store(hash, Entry{Clean: true}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := c.Store(hash, Entry{Clean: false, Messages: []string{"P4040: unresolved type reference 'T'"}}); err != nil {
		t.Fatalf("Store (update): %v", err)
	}

	got, ok := c.Lookup(hash)
	if !ok {
		t.Fatal("expected hit after update")
	}
	if got.Clean {
		t.Fatal("expected updated entry to be unclean")
	}
	if len(got.Messages) != 1 || got.Messages[0] != "P4040: unresolved type reference 'T'" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}
