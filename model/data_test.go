package model

import (
	"sync"
	"testing"
)

func TestDataGetSet(t *testing.T) {
	key := NewKey[string]("test.value")
	var d Data

	if _, ok := Get(&d, key); ok {
		t.Fatal("Get on empty store reported a value")
	}

	Set(&d, key, "first")
	if got, ok := Get(&d, key); !ok || got != "first" {
		t.Errorf("Get = (%q, %v), want (\"first\", true)", got, ok)
	}

	Set(&d, key, "second")
	if got, _ := Get(&d, key); got != "second" {
		t.Errorf("Get after overwrite = %q, want \"second\"", got)
	}
}

func TestKeysCompareByIdentity(t *testing.T) {
	a := NewKey[int]("same.name")
	b := NewKey[int]("same.name")
	var d Data

	Set(&d, a, 1)
	Set(&d, b, 2)

	if got, _ := Get(&d, a); got != 1 {
		t.Errorf("value under first key = %d, want 1", got)
	}
	if got, _ := Get(&d, b); got != 2 {
		t.Errorf("value under second key = %d, want 2", got)
	}
	if a.Name() != b.Name() {
		t.Errorf("key names differ: %q vs %q", a.Name(), b.Name())
	}
}

func TestUpdateSeesZeroValue(t *testing.T) {
	key := NewKey[[]string]("test.list")
	var d Data

	Update(&d, key, func(cur []string) []string {
		if cur != nil {
			t.Errorf("first update saw %v, want nil", cur)
		}
		return append(cur, "a")
	})
	Update(&d, key, func(cur []string) []string {
		return append(cur, "b")
	})

	got, _ := Get(&d, key)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("list = %v, want [a b]", got)
	}
}

func TestAddUnique(t *testing.T) {
	key := NewKey[[]int]("test.set")
	var d Data

	AddUnique(&d, key, 1)
	AddUnique(&d, key, 2)
	AddUnique(&d, key, 1)

	got, _ := Get(&d, key)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("set = %v, want [1 2]", got)
	}
}

func TestConcurrentAddUnique(t *testing.T) {
	key := NewKey[[]int]("test.concurrent")
	var d Data

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				AddUnique(&d, key, n)
			}
		}(i)
	}
	wg.Wait()

	got, _ := Get(&d, key)
	if len(got) != writers {
		t.Fatalf("set has %d elements, want %d", len(got), writers)
	}
	seen := make(map[int]bool)
	for _, v := range got {
		if seen[v] {
			t.Errorf("duplicate element %d", v)
		}
		seen[v] = true
	}
}
