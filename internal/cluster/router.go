package cluster

// Handle dispatches a decoded Request to the right policy and returns the
// Response to write back. This is the only place that interprets the
// command field — everything above it (connection handling) and below it
// (store, peer table, RPC client) is command-agnostic.
func (n *Node) Handle(req Request) Response {
	switch req.Command {
	case "PUT", "GET", "DELETE", "REPLICATE":
		if req.Key == "" {
			return Errorf("%s requires a key", req.Command)
		}
	case "JOIN":
		if req.NodeID == "" || req.Host == "" || req.Port == 0 {
			return Errorf("JOIN requires node_id, host and port")
		}
	}

	switch req.Command {
	case "PUT":
		return n.handlePut(req)
	case "GET":
		return n.handleGet(req)
	case "DELETE":
		return n.handleDelete(req)
	case "REPLICATE":
		return n.handleReplicate(req)
	case "JOIN":
		return n.handleJoin(req)
	case "HEARTBEAT":
		return n.handleHeartbeat(req)
	case "GET_ALL_DATA":
		return n.handleGetAllData(req)
	case "SYNC_DATA":
		return n.handleSyncData(req)
	case "GET_STATS":
		return n.handleGetStats(req)
	default:
		return Errorf("Unknown command: %s", req.Command)
	}
}

// handlePut serves the write locally if this node owns the key, otherwise
// forwards it once to the primary owner. A local write is replicated to
// the other owners asynchronously — the client never waits on replication
// (spec §4.3).
func (n *Node) handlePut(req Request) Response {
	if req.Value == nil {
		return Errorf("PUT requires a value")
	}
	replicas := Replicas(req.Key, n.peers.View(), n.rf)
	if !Contains(replicas, n.id) {
		n.stats.IncForwards()
		return n.forward(Primary(replicas), req)
	}

	n.store.Put(req.Key, *req.Value)
	n.stats.IncPuts()
	n.replicateAsync(req.Key, req.Value, replicas)
	return OK()
}

// handleGet serves the read locally if this node owns the key, otherwise
// forwards it to the primary owner.
func (n *Node) handleGet(req Request) Response {
	replicas := Replicas(req.Key, n.peers.View(), n.rf)
	if !Contains(replicas, n.id) {
		n.stats.IncForwards()
		return n.forward(Primary(replicas), req)
	}

	v, ok := n.store.Get(req.Key)
	if !ok {
		return Errorf("key not found: %s", req.Key)
	}
	n.stats.IncGets()
	resp := OK()
	resp.Value = v
	return resp
}

// handleDelete mirrors handlePut: local delete plus async replication if
// this node owns the key, otherwise a single forward. Deleting a key that
// isn't present locally is an error, not a no-op success (spec §6/§7).
func (n *Node) handleDelete(req Request) Response {
	replicas := Replicas(req.Key, n.peers.View(), n.rf)
	if !Contains(replicas, n.id) {
		n.stats.IncForwards()
		return n.forward(Primary(replicas), req)
	}

	if !n.store.Delete(req.Key) {
		return Errorf("key not found: %s", req.Key)
	}
	n.stats.IncDeletes()
	n.replicateAsync(req.Key, nil, replicas)
	return OK()
}

// forward relays req to target verbatim and passes its response straight
// back to the caller. If target is unreachable or empty (no known
// replica), the caller gets a clear error. forward itself makes one call;
// the target routes the request again with its own view, so when views
// agree the primary serves it locally, and there is no hop count to stop
// a further forward when they differ. target is never
// this node's own id: handlePut/handleGet/handleDelete only call forward
// after confirming self is not in the replica set.
func (n *Node) forward(target string, req Request) Response {
	if target == "" {
		return Errorf("no replica available for key: %s", req.Key)
	}
	p, ok := n.peers.Get(target)
	if !ok {
		return Errorf("responsible node unavailable: %s", target)
	}

	resp, err := callPeer(p.Address(), req)
	if err != nil {
		return Errorf("responsible node unavailable: %s", target)
	}
	return resp
}

// handleReplicate applies an upstream write unconditionally — no
// responsibility re-check, no PutIfAbsent semantics. A nil Value means
// delete. This is the one path that bypasses ownership, matching the
// replica-set owner's expectation that a REPLICATE from a peer is
// authoritative (spec §4.3 table, §9 preserved behavior).
func (n *Node) handleReplicate(req Request) Response {
	if req.Value == nil {
		n.store.Delete(req.Key)
	} else {
		n.store.Put(req.Key, *req.Value)
	}
	n.stats.IncReplications()
	return OK()
}

// handleJoin adds the requesting node to the peer table, gossips the JOIN
// onward to every other known peer (best effort, spec §4.4), and replies
// with the full peer set including self so the new node can seed its own
// table in one round trip.
//
// A self-JOIN (node_id equal to this node's own id) is an idempotent
// no-op: it still gets back the current peer set, without adding an entry
// or gossiping. A JOIN from a peer already in the table refreshes its
// address but is not gossiped again.
func (n *Node) handleJoin(req Request) Response {
	if req.NodeID == n.id {
		return n.joinResponse()
	}

	isNew := !n.peers.Has(req.NodeID)
	n.peers.Add(Peer{ID: req.NodeID, Host: req.Host, Port: req.Port})
	if isNew {
		n.heartbeats.Touch(req.NodeID)
		n.gossipJoin(req)
	}

	return n.joinResponse()
}

// gossipJoin forwards a JOIN announcement to every peer this node already
// knows about except the joiner itself, so membership knowledge reaches
// O(cluster-size) nodes without the joiner having to contact each one.
// Failures are swallowed: gossip is best-effort, never retried, and never
// surfaced to the original joiner (spec §4.4).
func (n *Node) gossipJoin(req Request) {
	for _, p := range n.peers.Snapshot() {
		if p.ID == req.NodeID {
			continue
		}
		go func(addr string) {
			_, _ = callPeer(addr, req)
		}(p.Address())
	}
}

// joinResponse builds the peer set a JOIN caller uses to seed its own
// table: every known peer plus this node itself.
func (n *Node) joinResponse() Response {
	peers := make(map[string]Peer, n.peers.Len()+1)
	for _, p := range n.peers.Snapshot() {
		peers[p.ID] = p
	}
	peers[n.id] = Peer{ID: n.id, Host: n.host, Port: n.port}

	resp := OK()
	resp.Peers = peers
	return resp
}

// handleHeartbeat just records that the sender is alive. It never adds a
// new peer — HEARTBEAT is for members already known via JOIN.
func (n *Node) handleHeartbeat(req Request) Response {
	if req.NodeID != "" {
		n.heartbeats.Touch(req.NodeID)
	}
	return OK()
}

// handleGetAllData returns the entire local store, used by a newly joined
// or resyncing node to pull data from a peer (spec §4.6).
func (n *Node) handleGetAllData(req Request) Response {
	resp := OK()
	resp.Data = n.store.Snapshot()
	return resp
}

// handleSyncData writes every entry the caller believes this node should
// hold, unconditionally overwriting any existing value — unlike the
// PutIfAbsent semantics anti-entropy's own pull side uses, SYNC_DATA is an
// explicit push the caller has already decided this node needs. Keys this
// node does not currently own under the present view are skipped.
func (n *Node) handleSyncData(req Request) Response {
	view := n.peers.View()
	for k, v := range req.Data {
		if Contains(Replicas(k, view, n.rf), n.id) {
			n.store.Put(k, v)
		}
	}
	return OK()
}

// handleGetStats returns the node's counters plus derived uptime, key
// count, and peer count.
func (n *Node) handleGetStats(req Request) Response {
	snap := n.Stats()
	resp := OK()
	resp.Stats = &snap
	return resp
}
