package cluster

import (
	"reflect"
	"testing"
)

func TestReplicasDeterministic(t *testing.T) {
	view := []string{"127.0.0.1:5001", "127.0.0.1:5002", "127.0.0.1:5003"}

	first := Replicas("name", view, 2)
	for i := 0; i < 20; i++ {
		got := Replicas("name", view, 2)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("Replicas is not deterministic: %v != %v", got, first)
		}
	}
}

func TestReplicasCountCappedByView(t *testing.T) {
	view := []string{"a:1", "b:2"}
	got := Replicas("key", view, 3)
	if len(got) != 2 {
		t.Fatalf("len(Replicas) = %d, want min(3, 2) = 2", len(got))
	}
}

func TestReplicasCountMatchesRF(t *testing.T) {
	view := []string{"a:1", "b:2", "c:3", "d:4", "e:5"}
	got := Replicas("key", view, 2)
	if len(got) != 2 {
		t.Fatalf("len(Replicas) = %d, want 2", len(got))
	}
}

func TestReplicasDistinctNodes(t *testing.T) {
	view := []string{"a:1", "b:2", "c:3"}
	got := Replicas("key", view, 3)
	seen := map[string]bool{}
	for _, id := range got {
		if seen[id] {
			t.Fatalf("Replicas returned duplicate id %q: %v", id, got)
		}
		seen[id] = true
	}
}

func TestReplicasEmptyView(t *testing.T) {
	if got := Replicas("key", nil, 2); got != nil {
		t.Fatalf("Replicas(nil view) = %v, want nil", got)
	}
}

func TestReplicasAgreesAcrossPermutations(t *testing.T) {
	// Every node computes its view as {self} union peers, built up in
	// whatever order gossip/JOIN delivered peer entries — order must not
	// matter to the result.
	a := []string{"n1:1", "n2:2", "n3:3"}
	b := []string{"n3:3", "n1:1", "n2:2"}

	got1 := Replicas("order-test", a, 2)
	got2 := Replicas("order-test", b, 2)
	if !reflect.DeepEqual(got1, got2) {
		t.Fatalf("Replicas depends on view order: %v != %v", got1, got2)
	}
}

func TestPrimaryAndContains(t *testing.T) {
	replicas := []string{"a:1", "b:2"}
	if Primary(replicas) != "a:1" {
		t.Fatalf("Primary = %q, want a:1", Primary(replicas))
	}
	if !Contains(replicas, "b:2") {
		t.Fatal("Contains(b:2) = false, want true")
	}
	if Contains(replicas, "c:3") {
		t.Fatal("Contains(c:3) = true, want false")
	}
	if Primary(nil) != "" {
		t.Fatalf("Primary(nil) = %q, want empty", Primary(nil))
	}
}
