// Package api wires up the Gin HTTP router that sits alongside the TCP
// data plane, for operators: a health probe and a stats dump, nothing
// that can read or write a key.
package api

import (
	"net/http"
	"time"

	"distributed-kvstore/internal/cluster"

	"github.com/gin-gonic/gin"
)

// Handler holds the dependencies the HTTP side-channel needs — just
// enough of the Node to report on it, never enough to act as a second
// data-plane entry point.
type Handler struct {
	node      *cluster.Node
	startedAt time.Time
}

// NewHandler creates a Handler for node.
func NewHandler(node *cluster.Node) *Handler {
	return &Handler{node: node, startedAt: time.Now()}
}

// Register mounts /health and /stats on r. The key/value operations and
// membership handshake live entirely on the line-framed TCP listener
// (internal/cluster); this router never touches the store.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/stats", h.Stats)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"id":     h.node.ID(),
		"uptime": time.Since(h.startedAt).String(),
	})
}

// Stats handles GET /stats, mirroring the GET_STATS wire command for
// operators who'd rather curl than speak the TCP protocol.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.node.Stats())
}
