package api

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs every ops side-channel request (method, path, caller, status,
// latency). It never runs on the data plane — that path is the line-framed
// TCP listener in package cluster, not gin.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("ops: %s %s from %s -> %d (%s)",
			c.Request.Method,
			c.Request.URL.Path,
			c.ClientIP(),
			c.Writer.Status(),
			time.Since(start),
		)
	}
}

// Recovery turns a panic inside /health or /stats into a 500 instead of
// taking down the whole HTTP side-channel. The TCP data plane has its own,
// separate recover in package cluster's connection handler.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("ops: panic recovered on %s: %v", c.Request.URL.Path, r)
				c.AbortWithStatusJSON(500, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
