// Command styx-directory runs the prekey directory service: the server
// accounts publish their identity key, signed prekey, and one-time
// prekey pool to, and that peers fetch a PrekeyBundle from to run X3DH
// (spec §4.3). See DESIGN.md's "Demo layer" section.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaydenbeard/styx-e2e/internal/directory"
	"github.com/jaydenbeard/styx-e2e/internal/registry"
	"github.com/jaydenbeard/styx-e2e/internal/telemetry"
)

func main() {
	secrets, err := directory.LoadSecretsConfig()
	if err != nil {
		log.Fatalf("styx-directory: load secrets: %v", err)
	}

	store, err := directory.NewStore(secrets.PostgresDSN)
	if err != nil {
		log.Fatalf("styx-directory: connect postgres: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(context.Background()); err != nil {
		log.Fatalf("styx-directory: migrate: %v", err)
	}

	pool, err := directory.NewPool(secrets.RedisAddr)
	if err != nil {
		log.Fatalf("styx-directory: connect redis: %v", err)
	}
	defer pool.Close()

	auth, err := directory.NewAuth(secrets.JWTSecret, 15*time.Minute)
	if err != nil {
		log.Fatalf("styx-directory: init auth: %v", err)
	}

	dir := directory.New(store, pool)
	api := directory.NewAPI(dir, auth)

	metrics := telemetry.New()
	handler := metrics.Middleware(api.Router())

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", metrics.Handler())

	addr := envOrDefault("STYX_DIRECTORY_ADDR", ":8090")
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	var reg *registry.ConsulRegistry
	if consulAddr := os.Getenv("CONSUL_ADDR"); consulAddr != "" {
		serverID := envOrDefault("STYX_SERVER_ID", "styx-directory-1")
		reg, err = registry.NewConsulRegistry(consulAddr, "styx-directory", serverID, envOrDefault("STYX_DIRECTORY_PORT", "8090"), []string{"styx", "directory"})
		if err != nil {
			log.Fatalf("styx-directory: init consul registry: %v", err)
		}
		if err := reg.Register(); err != nil {
			log.Fatalf("styx-directory: register with consul: %v", err)
		}
	}

	go func() {
		log.Printf("styx-directory listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("styx-directory: serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	if reg != nil {
		if err := reg.Deregister(); err != nil {
			log.Printf("styx-directory: deregister from consul: %v", err)
		}
	}
	log.Println("styx-directory shutting down")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
