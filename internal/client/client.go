// Package client provides a small Go SDK for talking to one node of the
// cluster over its line-framed TCP protocol — one JSON request per
// connection, one JSON response back, then the connection closes.
//
// A Client talks to exactly one node. That node decides on its own
// whether to serve a request locally or forward it to whichever peer
// owns the key; the client never computes that itself and never talks
// to more than the one address it was built with.
package client

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"time"

	"distributed-kvstore/internal/cluster"
)

// Client dials addr fresh for every call — there is no connection
// pooling or keep-alive, mirroring the one-request-per-connection wire
// protocol it speaks.
type Client struct {
	addr    string
	timeout time.Duration
}

// New creates a Client for the node listening on addr (host:port).
func New(addr string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{addr: addr, timeout: timeout}
}

// ErrNotFound is returned by Get when the node that serves the read (the
// contacted node if it owns the key, else the primary it forwards to)
// does not hold the key. Other replicas are not consulted.
var ErrNotFound = fmt.Errorf("key not found")

// Put stores key=value.
func (c *Client) Put(ctx context.Context, key, value string) error {
	resp, err := c.call(ctx, cluster.Request{Command: "PUT", Key: key, Value: &value})
	if err != nil {
		return err
	}
	return responseError(resp)
}

// Get retrieves the value for key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	resp, err := c.call(ctx, cluster.Request{Command: "GET", Key: key})
	if err != nil {
		return "", err
	}
	if resp.Status != "success" {
		if isNotFound(resp.Message) {
			return "", ErrNotFound
		}
		return "", &APIError{Message: resp.Message}
	}
	return resp.Value, nil
}

// Delete removes key.
func (c *Client) Delete(ctx context.Context, key string) error {
	resp, err := c.call(ctx, cluster.Request{Command: "DELETE", Key: key})
	if err != nil {
		return err
	}
	return responseError(resp)
}

// Stats retrieves the node's operation counters and derived gauges.
func (c *Client) Stats(ctx context.Context) (cluster.Snapshot, error) {
	resp, err := c.call(ctx, cluster.Request{Command: "GET_STATS"})
	if err != nil {
		return cluster.Snapshot{}, err
	}
	if resp.Status != "success" || resp.Stats == nil {
		return cluster.Snapshot{}, &APIError{Message: resp.Message}
	}
	return *resp.Stats, nil
}

// call opens one connection, sends req, and reads back exactly one
// response, honoring both ctx and the client's configured timeout.
func (c *Client) call(ctx context.Context, req cluster.Request) (cluster.Response, error) {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return cluster.Response{}, fmt.Errorf("dial %s: %w", c.addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return cluster.Response{}, err
	}

	if err := cluster.WriteRequest(conn, req); err != nil {
		return cluster.Response{}, fmt.Errorf("write request: %w", err)
	}
	return cluster.ReadResponse(bufio.NewReader(conn))
}

func responseError(resp cluster.Response) error {
	if resp.Status != "success" {
		return &APIError{Message: resp.Message}
	}
	return nil
}

func isNotFound(msg string) bool {
	return len(msg) >= len("key not found") && msg[:len("key not found")] == "key not found"
}

// APIError carries the error message the server returned.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }
