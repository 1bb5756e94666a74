package store

import "testing"

func TestPutGet(t *testing.T) {
	s := New()
	s.Put("name", "Alice")

	v, ok := s.Get("name")
	if !ok || v != "Alice" {
		t.Fatalf("Get(name) = (%q, %v), want (Alice, true)", v, ok)
	}
}

func TestGetMissing(t *testing.T) {
	s := New()
	if _, ok := s.Get("missing"); ok {
		t.Fatal("Get(missing) reported present")
	}
}

func TestDelete(t *testing.T) {
	s := New()
	s.Put("name", "Alice")

	if !s.Delete("name") {
		t.Fatal("Delete(name) = false, want true")
	}
	if _, ok := s.Get("name"); ok {
		t.Fatal("key still present after Delete")
	}
	if s.Delete("name") {
		t.Fatal("second Delete(name) = true, want false")
	}
}

func TestPutIfAbsent(t *testing.T) {
	s := New()

	if !s.PutIfAbsent("k", "v1") {
		t.Fatal("first PutIfAbsent = false, want true")
	}
	if s.PutIfAbsent("k", "v2") {
		t.Fatal("second PutIfAbsent = true, want false")
	}
	v, _ := s.Get("k")
	if v != "v1" {
		t.Fatalf("value = %q, want v1 (PutIfAbsent must not overwrite)", v)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	s.Put("a", "1")

	snap := s.Snapshot()
	snap["a"] = "mutated"
	snap["b"] = "2"

	if v, _ := s.Get("a"); v != "1" {
		t.Fatalf("mutating the snapshot affected the store: a=%q", v)
	}
	if _, ok := s.Get("b"); ok {
		t.Fatal("mutating the snapshot affected the store: b present")
	}
}

func TestLen(t *testing.T) {
	s := New()
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
	s.Put("a", "1")
	s.Put("b", "2")
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	s.Delete("a")
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}
