package cluster

import (
	"testing"
	"time"
)

func TestPeerTableSelfExclusion(t *testing.T) {
	pt := NewPeerTable("self:1")

	if pt.Add(Peer{ID: "self:1", Host: "self", Port: 1}) {
		t.Fatal("Add(self) reported true, want no-op")
	}
	if pt.Has("self:1") {
		t.Fatal("peer table contains self")
	}
	view := pt.View()
	if len(view) != 1 || view[0] != "self:1" {
		t.Fatalf("View() = %v, want [self:1]", view)
	}
}

func TestPeerTableAddRemove(t *testing.T) {
	pt := NewPeerTable("self:1")
	pt.Add(Peer{ID: "peer:2", Host: "h", Port: 2})

	if !pt.Has("peer:2") {
		t.Fatal("peer not present after Add")
	}
	if pt.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", pt.Len())
	}

	pt.Remove("peer:2")
	if pt.Has("peer:2") {
		t.Fatal("peer still present after Remove")
	}
}

func TestPeerTableSnapshotIsCopy(t *testing.T) {
	pt := NewPeerTable("self:1")
	pt.Add(Peer{ID: "peer:2", Host: "h", Port: 2})

	snap := pt.Snapshot()
	snap[0].Host = "mutated"

	p, _ := pt.Get("peer:2")
	if p.Host == "mutated" {
		t.Fatal("mutating the snapshot slice affected the table")
	}
}

func TestHeartbeatExpire(t *testing.T) {
	h := NewHeartbeatTable()
	h.Touch("a")
	h.Touch("b")

	if expired := h.Expire(time.Hour); len(expired) != 0 {
		t.Fatalf("Expire(1h) = %v, want none expired", expired)
	}

	if expired := h.Expire(-time.Second); len(expired) != 2 {
		t.Fatalf("Expire(negative) = %v, want both expired", expired)
	}

	// A peer can only be reported expired once.
	if expired := h.Expire(-time.Second); len(expired) != 0 {
		t.Fatalf("second Expire = %v, want none (already removed)", expired)
	}
}

func TestPeerAddress(t *testing.T) {
	p := Peer{ID: "x", Host: "127.0.0.1", Port: 5001}
	if got, want := p.Address(), "127.0.0.1:5001"; got != want {
		t.Fatalf("Address() = %q, want %q", got, want)
	}
}
