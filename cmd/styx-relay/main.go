// Command styx-relay runs the adversarial-transport frame relay: a
// WebSocket server that forwards opaque Double Ratchet ciphertext
// between exactly two endpoints per channel, optionally dropping,
// duplicating, or reordering frames per STYX_RELAY_* environment
// variables, to exercise the ratchet's out-of-order delivery handling
// (spec §4.4). See DESIGN.md's "Demo layer" section.
package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jaydenbeard/styx-e2e/internal/registry"
	"github.com/jaydenbeard/styx-e2e/internal/relay"
	"github.com/jaydenbeard/styx-e2e/internal/telemetry"
)

func main() {
	metrics := telemetry.New()

	var transport relay.Transport
	if dropP, duplicateP, reorderP, ok := adversarialConfigFromEnv(); ok {
		transport = relay.NewAdversarialTransport(dropP, duplicateP, reorderP, 2*time.Second, time.Now().UnixNano())
		log.Printf("styx-relay: adversarial transport enabled (drop=%.2f duplicate=%.2f reorder=%.2f)", dropP, duplicateP, reorderP)
	}

	hub := relay.NewHub(transport, relay.NewTelemetrySink(metrics))
	go hub.Run()

	mux := http.NewServeMux()
	mux.Handle("/ws", metrics.Middleware(relay.ServeWS(hub)))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := envOrDefault("STYX_RELAY_ADDR", ":8091")
	server := &http.Server{Addr: addr, Handler: mux}

	var reg *registry.ConsulRegistry
	if consulAddr := os.Getenv("CONSUL_ADDR"); consulAddr != "" {
		serverID := envOrDefault("STYX_SERVER_ID", "styx-relay-1")
		var err error
		reg, err = registry.NewConsulRegistry(consulAddr, "styx-relay", serverID, envOrDefault("STYX_RELAY_PORT", "8091"), []string{"styx", "relay"})
		if err != nil {
			log.Fatalf("styx-relay: init consul registry: %v", err)
		}
		if err := reg.Register(); err != nil {
			log.Fatalf("styx-relay: register with consul: %v", err)
		}
	}

	go func() {
		log.Printf("styx-relay listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("styx-relay: serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	hub.Stop()
	if reg != nil {
		if err := reg.Deregister(); err != nil {
			log.Printf("styx-relay: deregister from consul: %v", err)
		}
	}
	log.Println("styx-relay shutting down")
}

func adversarialConfigFromEnv() (drop, duplicate, reorder float64, ok bool) {
	raw := os.Getenv("STYX_RELAY_DROP_PROBABILITY")
	if raw == "" {
		return 0, 0, 0, false
	}
	drop, _ = strconv.ParseFloat(raw, 64)
	duplicate, _ = strconv.ParseFloat(os.Getenv("STYX_RELAY_DUPLICATE_PROBABILITY"), 64)
	reorder, _ = strconv.ParseFloat(os.Getenv("STYX_RELAY_REORDER_PROBABILITY"), 64)
	return drop, duplicate, reorder, true
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
