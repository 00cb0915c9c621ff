package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/Gowtham-1301/cardiopulse/internal/api"
	"github.com/Gowtham-1301/cardiopulse/internal/config"
	"github.com/Gowtham-1301/cardiopulse/internal/monitor"
	"github.com/Gowtham-1301/cardiopulse/internal/paths"
	"github.com/Gowtham-1301/cardiopulse/internal/storage"
	"github.com/Gowtham-1301/cardiopulse/internal/stream"
	"github.com/Gowtham-1301/cardiopulse/internal/tui"
)

var serveHeadless bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the monitoring daemon with HTTP API and dashboard",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveHeadless, "headless", false, "run without the terminal dashboard")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, dataDir, err := loadConfig()
	if err != nil {
		return err
	}

	// In-memory trend buffer is always on; RRD persistence is opt-in
	mem := storage.NewTrendBuffer(0)

	var store storage.Storage
	if cfg.Storage.Enabled {
		rrdStore, err := storage.NewRRDStorage(dataDir, time.Second, cfg.Storage.Retention, cfg.Storage.XFF, cfg.Storage.Aggregation)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		store = rrdStore
		defer rrdStore.Close()
	}

	// Connect to NATS only when a session needs it
	var nc *nats.Conn
	for _, s := range cfg.Sessions {
		if s.Source == "nats" {
			nc, err = stream.Connect(cfg.NATS.URL)
			if err != nil {
				return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
			}
			defer nc.Drain()
			break
		}
	}

	mon := monitor.NewMonitor(cfg, store, mem, nc)
	mon.Start()
	defer mon.Stop()

	server := api.NewServer(cfg)
	server.Handler().SetMonitor(mon)
	server.Hub().SetMonitor(mon)
	server.StartAsync(cfg.Server.Address)
	defer server.Shutdown(5 * time.Second)

	if cfg.Server.EnableTUI && !serveHeadless {
		return tui.Run(mon, cfg.Server.Address)
	}

	// Headless: block until interrupted
	log.Printf("[Serve] Running headless, API on %s", cfg.Server.Address)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Println("[Serve] Shutting down")
	return nil
}

// loadConfig resolves the config file, creating a default one on first run,
// and returns the parsed config plus the resolved data directory.
func loadConfig() (*config.Config, string, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, "", err
		}
		return cfg, cfg.Monitor.DataDir, nil
	}

	p, err := paths.DefaultPaths()
	if err != nil {
		return nil, "", err
	}
	if err := p.EnsureDirectories(); err != nil {
		return nil, "", err
	}

	created, err := p.CreateDefaultConfig()
	if err != nil {
		return nil, "", err
	}
	if created {
		log.Printf("[Serve] Created default config at %s", p.ConfigFile)
	}

	cfg, err := config.Load(p.ConfigFile)
	if err != nil {
		return nil, "", err
	}
	return cfg, p.DataDir, nil
}
