// cmd/server is the main entrypoint for a KV store node.
//
// The contract every node honors is positional:
//
//	server <port> [seed_host seed_port]
//
// One argument starts a fresh cluster of one. Three arguments bind the
// given port and then JOIN through the named seed. Everything else —
// replication factor, static peers, the YAML config file, the HTTP
// side-channel's port — is optional and flag-driven, layered on top of
// that contract rather than replacing it.
//
// Example — a 3-node cluster:
//
//	./server 9000
//	./server 9001 localhost 9000
//	./server 9002 localhost 9000
package main

import (
	"context"
	"distributed-kvstore/internal/api"
	"distributed-kvstore/internal/cluster"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	os.Exit(run())
}

func run() int {
	replicationFactor := flag.Int("replication-factor", cluster.DefaultReplicationFactor, "Replication factor")
	configPath := flag.String("config", "", "Optional YAML cluster bootstrap config")
	httpAddr := flag.String("http-addr", ":8080", "Address for the /health and /stats HTTP side-channel")
	host := flag.String("host", "127.0.0.1", "Host this node advertises to peers")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 && len(args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: server [flags] <port> [seed_host seed_port]")
		return 1
	}

	port, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid port %q: %v\n", args[0], err)
		return 1
	}

	cfg := cluster.Config{Host: *host, Port: port, ReplicationFactor: *replicationFactor}
	if *configPath != "" {
		fileCfg, err := cluster.LoadConfigYAML(*configPath)
		if err != nil {
			log.Printf("loading %s: %v", *configPath, err)
			return 1
		}
		fileCfg.Host = cfg.Host
		fileCfg.Port = cfg.Port
		if fileCfg.ReplicationFactor <= 0 {
			fileCfg.ReplicationFactor = cfg.ReplicationFactor
		}
		cfg = fileCfg
	}

	node := cluster.NewNode(cfg)

	errCh := make(chan error, 1)
	go func() { errCh <- node.Start() }()

	// Give Start a moment to either bind successfully or fail outright
	// before attempting JOIN — joining against a listener that never
	// bound is pointless.
	select {
	case err := <-errCh:
		log.Printf("node failed to start: %v", err)
		return 1
	case <-time.After(200 * time.Millisecond):
	}

	if len(args) == 3 {
		seedPort, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid seed port %q: %v\n", args[2], err)
			node.Shutdown()
			return 1
		}
		if err := node.JoinSeed(args[1], seedPort); err != nil {
			log.Printf("join failed: %v", err)
			node.Shutdown()
			return 1
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(api.Logger(), api.Recovery())
	api.NewHandler(node).Register(router)

	httpSrv := &http.Server{
		Addr:         *httpAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http side-channel error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Printf("node %s shutting down", node.ID())
	case err := <-errCh:
		log.Printf("node %s stopped: %v", node.ID(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	node.Shutdown()

	return 0
}
