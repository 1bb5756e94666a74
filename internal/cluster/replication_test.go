package cluster

import (
	"testing"
	"time"
)

func TestReplicateAsyncReachesPeer(t *testing.T) {
	a := startTestNode(t, 2)
	b := startTestNode(t, 2)
	connectPeers(a, b)

	resp := a.Handle(Request{Command: "PUT", Key: "k", Value: strPtr("v")})
	if resp.Status != "success" {
		t.Fatalf("PUT: %+v", resp)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v, ok := b.store.Get("k"); ok && v == "v" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("replicated value never reached peer b")
}

func TestReplicateAsyncDoesNotBlockPut(t *testing.T) {
	a := startTestNode(t, 2)
	// A peer that is registered but never listens — every replication
	// attempt to it fails and is retried, without blocking the PUT response.
	a.peers.Add(Peer{ID: "127.0.0.1:1", Host: "127.0.0.1", Port: 1})

	start := time.Now()
	resp := a.Handle(Request{Command: "PUT", Key: "k", Value: strPtr("v")})
	elapsed := time.Since(start)

	if resp.Status != "success" {
		t.Fatalf("PUT: %+v", resp)
	}
	if elapsed > 100*time.Millisecond {
		t.Fatalf("PUT took %s, want near-instant (replication must be async)", elapsed)
	}
}
