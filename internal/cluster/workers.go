package cluster

import (
	"log"
	"time"
)

// startWorkers launches the four independent background loops (spec
// §4.5/§4.6) and registers each with workersWG so Shutdown waits for all
// of them to notice stopCh and return.
func (n *Node) startWorkers() {
	n.workersWG.Add(4)
	go n.runHeartbeatSender()
	go n.runFailureDetector()
	go n.runAntiEntropy()
	go n.runStatsReporter()
}

// runHeartbeatSender pings every known peer on a fixed tick. It does not
// wait for replies and does not retry — a missed heartbeat is exactly
// what the failure detector is for.
func (n *Node) runHeartbeatSender() {
	defer n.workersWG.Done()
	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	req := Request{Command: "HEARTBEAT", NodeID: n.id}
	for {
		select {
		case <-n.stopCh:
			return
		case <-ticker.C:
			for _, p := range n.peers.Snapshot() {
				go func(addr string) { _, _ = callPeer(addr, req) }(p.Address())
			}
		}
	}
}

// runFailureDetector removes peers whose heartbeat has gone stale for
// longer than HeartbeatTimeout. It only ever drops peers — it never adds
// one back; that only happens through JOIN or gossip.
func (n *Node) runFailureDetector() {
	defer n.workersWG.Done()
	ticker := time.NewTicker(FailureDetectorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-n.stopCh:
			return
		case <-ticker.C:
			for _, id := range n.heartbeats.Expire(HeartbeatTimeout) {
				n.peers.Remove(id)
				log.Printf("node %s: peer %s timed out, removed", n.id, id)
			}
		}
	}
}

// runAntiEntropy waits AntiEntropyInitialDelay before the first pass so a
// node doesn't immediately re-sync against peers it just recovered from,
// then repeats on AntiEntropyInterval.
func (n *Node) runAntiEntropy() {
	defer n.workersWG.Done()

	select {
	case <-n.stopCh:
		return
	case <-time.After(AntiEntropyInitialDelay):
	}
	n.antiEntropySync()

	ticker := time.NewTicker(AntiEntropyInterval)
	defer ticker.Stop()
	for {
		select {
		case <-n.stopCh:
			return
		case <-ticker.C:
			n.antiEntropySync()
		}
	}
}

// runStatsReporter periodically logs this node's counters, the ambient
// equivalent of the HTTP /stats side-channel for operators watching logs
// instead of polling an endpoint.
func (n *Node) runStatsReporter() {
	defer n.workersWG.Done()
	ticker := time.NewTicker(StatsReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-n.stopCh:
			return
		case <-ticker.C:
			s := n.Stats()
			log.Printf("node %s: stats puts=%d gets=%d deletes=%d replications=%d forwards=%d keys=%d peers=%d uptime=%s",
				n.id, s.Puts, s.Gets, s.Deletes, s.Replications, s.Forwards, s.Keys, s.Peers, s.Uptime)
		}
	}
}
