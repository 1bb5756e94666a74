package cluster

import (
	"log"
	"time"
)

// replicateAsync fans a just-applied local write out to the other owners
// of key, in the background. The client already has its response by the
// time this runs — replication is best-effort and its outcome is never
// surfaced (spec §4.3). Each peer gets up to ReplicateMaxRetries attempts
// with linear backoff (attempt * ReplicateBackoffUnit), not exponential —
// at this replication factor and cluster size a fixed ceiling on total
// retry time matters more than back-off aggressiveness.
func (n *Node) replicateAsync(key string, value *string, replicas []string) {
	for _, id := range replicas {
		if id == n.id {
			continue
		}
		p, ok := n.peers.Get(id)
		if !ok {
			continue
		}
		go n.replicateTo(p, key, value)
	}
}

func (n *Node) replicateTo(p Peer, key string, value *string) {
	req := Request{Command: "REPLICATE", Key: key, Value: value}

	var err error
	for attempt := 1; attempt <= ReplicateMaxRetries; attempt++ {
		_, err = callPeer(p.Address(), req)
		if err == nil {
			return
		}
		time.Sleep(time.Duration(attempt) * ReplicateBackoffUnit)
	}
	log.Printf("node %s: replication of %q to %s failed after %d attempts: %v", n.id, key, p.ID, ReplicateMaxRetries, err)
}
