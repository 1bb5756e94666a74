package cluster

import (
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"distributed-kvstore/internal/store"
)

// Node is a single member of the cluster: its own identity, its local
// store, what it knows about its peers, and the background workers that
// keep that knowledge fresh.
type Node struct {
	id   string
	host string
	port int
	rf   int

	store      *store.Store
	peers      *PeerTable
	heartbeats *HeartbeatTable
	stats      *Stats

	listener net.Listener
	stopOnce sync.Once
	stopCh   chan struct{}
	// workersWG tracks the four background workers only. Shutdown waits
	// on it. Per-connection handlers are intentionally NOT tracked here:
	// spec §5 calls them "daemon-style" and allows them to be abandoned
	// on shutdown rather than block it.
	workersWG sync.WaitGroup
}

// NewNode builds a Node from cfg. It does not yet listen on the network
// or start any background worker — call Start for that.
func NewNode(cfg Config) *Node {
	id := cfg.NodeID()
	n := &Node{
		id:         id,
		host:       cfg.Host,
		port:       cfg.Port,
		rf:         cfg.ReplicationFactor,
		store:      store.New(),
		peers:      NewPeerTable(id),
		heartbeats: NewHeartbeatTable(),
		stats:      NewStats(),
		stopCh:     make(chan struct{}),
	}
	for peerID, addr := range cfg.Peers {
		host, portStr, err := net.SplitHostPort(addr)
		if err != nil {
			log.Printf("node %s: skipping invalid static peer %s=%s: %v", id, peerID, addr, err)
			continue
		}
		var port int
		fmt.Sscanf(portStr, "%d", &port)
		n.peers.Add(Peer{ID: peerID, Host: host, Port: port})
		n.heartbeats.Touch(peerID)
	}
	return n
}

// ID returns this node's canonical host:port identity.
func (n *Node) ID() string { return n.id }

// Stats exposes the node's counters, e.g. for the HTTP /stats side-channel.
func (n *Node) Stats() Snapshot {
	return n.stats.Snapshot(n.store.Len(), n.peers.Len())
}

// Start binds the listener, launches the four background workers, and
// runs the accept loop until Shutdown is called or the listener fails.
// It blocks — callers run it in its own goroutine.
func (n *Node) Start() error {
	addr := net.JoinHostPort(n.host, fmt.Sprintf("%d", n.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	n.listener = ln

	log.Printf("node %s listening on %s (rf=%d)", n.id, addr, n.rf)

	n.startWorkers()
	return n.acceptLoop()
}

// Shutdown stops the accept loop and all background workers. In-flight
// connection handlers are not waited on — they are daemon-style and may
// be abandoned, matching spec §5's cancellation model.
func (n *Node) Shutdown() {
	n.stopOnce.Do(func() {
		close(n.stopCh)
		if n.listener != nil {
			n.listener.Close()
		}
	})
	n.workersWG.Wait()
}

// JoinSeed runs the bootstrap sequence against an existing cluster member
// (spec §4.4): send JOIN, merge the returned peer set, unconditionally
// add the seed itself, then run initial recovery (spec §4.6).
func (n *Node) JoinSeed(seedHost string, seedPort int) error {
	seedAddr := net.JoinHostPort(seedHost, fmt.Sprintf("%d", seedPort))

	resp, err := callPeer(seedAddr, Request{
		Command: "JOIN",
		NodeID:  n.id,
		Host:    n.host,
		Port:    n.port,
	})
	if err != nil {
		return fmt.Errorf("join %s: %w", seedAddr, err)
	}
	if resp.Status != "success" {
		return fmt.Errorf("join %s rejected: %s", seedAddr, resp.Message)
	}

	for id, p := range resp.Peers {
		if n.peers.Add(Peer{ID: id, Host: p.Host, Port: p.Port}) {
			n.heartbeats.Touch(id)
		}
	}

	seedID := net.JoinHostPort(seedHost, fmt.Sprintf("%d", seedPort))
	if n.peers.Add(Peer{ID: seedID, Host: seedHost, Port: seedPort}) {
		n.heartbeats.Touch(seedID)
	}

	log.Printf("node %s joined cluster via %s, now has %d peers", n.id, seedAddr, n.peers.Len())

	n.recoverFromPeers()
	return nil
}

func (n *Node) acceptLoop() error {
	for {
		select {
		case <-n.stopCh:
			return nil
		default:
		}

		if tc, ok := n.listener.(*net.TCPListener); ok {
			tc.SetDeadline(time.Now().Add(1 * time.Second))
		}

		conn, err := n.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-n.stopCh:
				return nil
			default:
				log.Printf("node %s: accept error: %v", n.id, err)
				continue
			}
		}

		go n.handleConn(conn)
	}
}
