package cluster

import (
	"net"
	"strconv"
	"sync"
	"time"
)

// Peer is one other node this node currently considers a cluster member.
type Peer struct {
	ID   string `json:"id"`
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Address returns the host:port dial target for this peer.
func (p Peer) Address() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// PeerTable tracks current cluster membership as seen by this node.
//
// It never contains an entry for selfID (spec invariant I2) — Add on the
// self id is a deliberate no-op, not an error, so that re-JOINing oneself
// (which the wire protocol allows) is harmless.
//
// The table has its own mutex, independent of the heartbeat table and the
// KV store, so the replication path and the heartbeat path never
// contend with each other.
type PeerTable struct {
	selfID string

	mu    sync.RWMutex
	peers map[string]Peer
}

// NewPeerTable returns an empty table that refuses to hold selfID.
func NewPeerTable(selfID string) *PeerTable {
	return &PeerTable{selfID: selfID, peers: make(map[string]Peer)}
}

// Add registers peer. Adding selfID is a no-op and reports false.
// Adding an id already present overwrites its address and reports true.
func (t *PeerTable) Add(p Peer) bool {
	if p.ID == t.selfID {
		return false
	}
	t.mu.Lock()
	t.peers[p.ID] = p
	t.mu.Unlock()
	return true
}

// Remove drops id from the table, if present.
func (t *PeerTable) Remove(id string) {
	t.mu.Lock()
	delete(t.peers, id)
	t.mu.Unlock()
}

// Get returns the peer record for id.
func (t *PeerTable) Get(id string) (Peer, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.peers[id]
	return p, ok
}

// Has reports whether id is currently a known peer.
func (t *PeerTable) Has(id string) bool {
	_, ok := t.Get(id)
	return ok
}

// Snapshot returns a copy of all known peers, safe to range over without
// holding the table's lock.
func (t *PeerTable) Snapshot() []Peer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Peer, 0, len(t.peers))
	for _, p := range t.peers {
		out = append(out, p)
	}
	return out
}

// View returns {self} union the current peer ids — the membership view
// that Replicas is computed against.
func (t *PeerTable) View() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	view := make([]string, 0, len(t.peers)+1)
	view = append(view, t.selfID)
	for id := range t.peers {
		view = append(view, id)
	}
	return view
}

// Len returns the number of known peers (excluding self).
func (t *PeerTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.peers)
}

// HeartbeatTable tracks the last time each peer was heard from.
//
// Deliberately a separate type with its own mutex from PeerTable: inbound
// HEARTBEAT handling only ever touches this table, so it never serializes
// against JOIN/membership changes.
type HeartbeatTable struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// NewHeartbeatTable returns an empty heartbeat table.
func NewHeartbeatTable() *HeartbeatTable {
	return &HeartbeatTable{lastSeen: make(map[string]time.Time)}
}

// Touch records that id was just heard from.
func (h *HeartbeatTable) Touch(id string) {
	h.mu.Lock()
	h.lastSeen[id] = time.Now()
	h.mu.Unlock()
}

// Remove drops id's heartbeat record, if any.
func (h *HeartbeatTable) Remove(id string) {
	h.mu.Lock()
	delete(h.lastSeen, id)
	h.mu.Unlock()
}

// Expire returns the ids whose last heartbeat is older than timeout and
// removes them from the table in the same pass, so a peer can only ever
// be reported expired once.
func (h *HeartbeatTable) Expire(timeout time.Duration) []string {
	now := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()

	var expired []string
	for id, last := range h.lastSeen {
		if now.Sub(last) > timeout {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(h.lastSeen, id)
	}
	return expired
}
