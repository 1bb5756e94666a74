package cluster

import (
	"bufio"
	"errors"
	"io"
	"log"
	"net"
)

// handleConn serves exactly one request on conn: read, dispatch, respond,
// close. The wire protocol is one request per connection (spec §6), so
// there is no read loop here — a second request needs a second
// connection. Handlers run daemon-style: a panic here must not take the
// rest of the node down with it, so it is recovered and turned into an
// error response (or, if the response can no longer be written, simply
// logged and dropped).
func (n *Node) handleConn(conn net.Conn) {
	defer conn.Close()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("node %s: recovered panic handling connection from %s: %v", n.id, conn.RemoteAddr(), r)
			_ = WriteResponse(conn, Errorf("internal error: %v", r))
		}
	}()

	reader := bufio.NewReader(conn)
	req, err := ReadRequest(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		_ = WriteResponse(conn, Errorf("Invalid JSON"))
		return
	}

	resp := n.Handle(req)
	if werr := WriteResponse(conn, resp); werr != nil {
		log.Printf("node %s: writing response to %s: %v", n.id, conn.RemoteAddr(), werr)
	}
}
