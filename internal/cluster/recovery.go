package cluster

import "log"

// recoverFromPeers runs once, right after JoinSeed completes: it pulls the
// full dataset from peers, in turn, and keeps whatever entries this node
// is now responsible for under the current view. It stops after the
// first peer that answers successfully — one full copy of the cluster's
// data is enough to be caught up; there is no benefit to asking every
// peer (spec §4.6).
func (n *Node) recoverFromPeers() {
	view := n.peers.View()
	for _, p := range n.peers.Snapshot() {
		resp, err := callPeer(p.Address(), Request{Command: "GET_ALL_DATA"})
		if err != nil || resp.Status != "success" {
			continue
		}
		applied := 0
		for k, v := range resp.Data {
			if Contains(Replicas(k, view, n.rf), n.id) {
				n.store.Put(k, v)
				applied++
			}
		}
		log.Printf("node %s: recovered %d keys from %s", n.id, applied, p.ID)
		return
	}
	log.Printf("node %s: initial recovery found no reachable peer", n.id)
}

// antiEntropySync is the periodic repair pass (spec §4.6): pull every
// peer's full dataset and fill in anything this node is missing, without
// ever overwriting a value it already has and without ever propagating a
// local delete. That asymmetry — inserts heal, deletes don't — is a known
// gap carried over deliberately rather than fixed (spec §9 open
// question): fixing it needs a way to distinguish "never written" from
// "written then deleted", which the store doesn't track.
//
// Like recoverFromPeers, it stops after the first peer that answers
// successfully (spec §4.6 step 4: "Stop after the first successful
// peer") — one snapshot per cycle is enough to make progress, and the
// next tick will try again if gaps remain.
func (n *Node) antiEntropySync() {
	view := n.peers.View()
	for _, p := range n.peers.Snapshot() {
		resp, err := callPeer(p.Address(), Request{Command: "GET_ALL_DATA"})
		if err != nil || resp.Status != "success" {
			continue
		}
		filled := 0
		for k, v := range resp.Data {
			if !Contains(Replicas(k, view, n.rf), n.id) {
				continue
			}
			if n.store.PutIfAbsent(k, v) {
				filled++
			}
		}
		if filled > 0 {
			log.Printf("node %s: anti-entropy filled %d keys from %s", n.id, filled, p.ID)
		}
		return
	}
	log.Printf("node %s: anti-entropy found no reachable peer", n.id)
}
