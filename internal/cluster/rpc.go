package cluster

import (
	"bufio"
	"net"
	"time"
)

// rpcTimeout bounds an entire outbound peer call — connect, send, and
// receive together (spec §4.8).
const rpcTimeout = 5 * time.Second

// callPeer opens a fresh TCP connection to addr, sends req, and reads
// back exactly one response. Every call gets its own connection; nothing
// is pooled or kept alive, which keeps the failure model simple (a dead
// peer just times out, it never poisons a shared connection for the next
// caller).
//
// Errors never remove the peer from any table — that is the failure
// detector's job, driven by heartbeats, not by RPC call outcomes.
func callPeer(addr string, req Request) (Response, error) {
	deadline := time.Now().Add(rpcTimeout)
	conn, err := net.DialTimeout("tcp", addr, rpcTimeout)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if err := conn.SetDeadline(deadline); err != nil {
		return Response{}, err
	}

	if err := WriteRequest(conn, req); err != nil {
		return Response{}, err
	}

	return ReadResponse(bufio.NewReader(conn))
}
