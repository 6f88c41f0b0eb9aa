// Command warcamp-server runs the authoritative world server: a websocket
// hub over a mutex-guarded world state with JSON persistence and two
// background tick loops.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warcamp/server/internal/config"
	"warcamp/server/internal/hub"
	"warcamp/server/internal/net/ws"
	"warcamp/server/internal/persist"
	"warcamp/server/internal/world"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml configuration")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	store, err := persist.NewStore(cfg.DataDir, logger)
	if err != nil {
		logger.Fatalf("open data dir: %v", err)
	}
	tables, err := store.Load(time.Now())
	if err != nil {
		logger.Fatalf("load world: %v", err)
	}

	w := world.New(world.Tuning{
		PickupRange:       cfg.PickupRange,
		AggroRadius:       cfg.AggroRadius,
		DisengageRadius:   cfg.DisengageRadius,
		MineIntervalMs:    int64(cfg.MineIntervalMs),
		ResourceNodeCount: cfg.ResourceNodeCount,
		HostileCount:      cfg.HostileCount,
	}, logger)
	w.Restore(tables.Objects, tables.Ground, tables.Nodes)

	// Worldgen tops up what the snapshot lacks; both are restart-safe.
	if res := w.EnsureResourceNodes(); res.OK {
		if err := store.SaveNodes(w.NodesSnapshot()); err != nil {
			logger.Fatalf("persist generated nodes: %v", err)
		}
	}
	if res := w.EnsureHostiles(); res.OK {
		if err := store.SaveObjects(w.ObjectsSnapshot()); err != nil {
			logger.Fatalf("persist generated hostiles: %v", err)
		}
	}

	h := hub.New(w, store, logger, hub.Options{BackupKeep: cfg.BackupKeep})

	stop := make(chan struct{})
	go h.RunProduction(time.Duration(cfg.ProductionTickMs)*time.Millisecond, stop)
	go h.RunHostiles(time.Duration(cfg.HostileTickMs)*time.Millisecond, stop)
	go h.RunBackups(time.Duration(cfg.BackupEveryMin)*time.Minute, stop)

	mux := http.NewServeMux()
	mux.Handle("/ws", ws.NewHandler(h, logger))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/", http.FileServer(http.Dir(cfg.ClientDir)))

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Printf("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("shutting down")

	close(stop)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("http shutdown: %v", err)
	}
	h.CloseAll()

	// The final persist must not fail silently: losing it means losing
	// every mutation since the last table write.
	if err := h.PersistAll(); err != nil {
		logger.Fatalf("final persist: %v", err)
	}
	logger.Printf("world persisted, goodbye")
}
