package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/monitocorp/servicedash/pkg/api"
	"github.com/monitocorp/servicedash/pkg/cache"
	"github.com/monitocorp/servicedash/pkg/config"
	"github.com/monitocorp/servicedash/pkg/lifecycle"
	"github.com/monitocorp/servicedash/pkg/provider"
	"github.com/monitocorp/servicedash/pkg/sync"
)

var (
	errListenAddrRequired = errors.New("listen_addr is required")
	errDBPathRequired     = errors.New("db_path is required for the sqlite provider")
	errUnknownProvider    = errors.New("unknown provider kind")
)

// Config holds dashboard server settings loaded from JSON.
type Config struct {
	ListenAddr   string          `json:"listen_addr"`
	PollInterval config.Duration `json:"poll_interval"`
	Provider     string          `json:"provider"`
	DBPath       string          `json:"db_path"`
	Sim          SimSettings     `json:"sim"`
	LogLevel     string          `json:"log_level"`
}

// SimSettings exposes the simulated provider knobs in config form.
type SimSettings struct {
	Seed             int64           `json:"seed"`
	MinLatency       config.Duration `json:"min_latency"`
	MaxLatency       config.Duration `json:"max_latency"`
	FailureRate      float64         `json:"failure_rate"`
	FlipChance       float64         `json:"flip_chance"`
	EventsPerService int             `json:"events_per_service"`
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errListenAddrRequired
	}

	switch c.Provider {
	case "", "sim":
	case "sqlite":
		if c.DBPath == "" {
			return errDBPathRequired
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownProvider, c.Provider)
	}

	return nil
}

// httpService adapts api.Server to the lifecycle.Service interface.
type httpService struct {
	server *api.Server
	addr   string
}

func (h *httpService) Start(_ context.Context) error {
	return h.server.Start(h.addr)
}

func (h *httpService) Stop(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

func buildProvider(cfg *Config, logger zerolog.Logger) (provider.Provider, func() error, error) {
	if cfg.Provider == "sqlite" {
		p, err := provider.NewSQLiteProvider(cfg.DBPath, logger)
		if err != nil {
			return nil, nil, err
		}

		return p, p.Close, nil
	}

	simCfg := provider.DefaultSimConfig()
	if cfg.Sim.Seed != 0 {
		simCfg.Seed = cfg.Sim.Seed
	}

	if cfg.Sim.MinLatency > 0 {
		simCfg.MinLatency = cfg.Sim.MinLatency.Duration()
	}

	if cfg.Sim.MaxLatency > 0 {
		simCfg.MaxLatency = cfg.Sim.MaxLatency.Duration()
	}

	if cfg.Sim.FailureRate > 0 {
		simCfg.FailureRate = cfg.Sim.FailureRate
	}

	if cfg.Sim.FlipChance > 0 {
		simCfg.FlipChance = cfg.Sim.FlipChance
	}

	if cfg.Sim.EventsPerService > 0 {
		simCfg.EventsPerService = cfg.Sim.EventsPerService
	}

	return provider.NewSim(simCfg, logger), nil, nil
}

func run() error {
	configPath := flag.String("config", "/etc/servicedash/dashboard.json", "Path to config file")
	flag.Parse()

	var cfg Config
	if err := config.LoadAndValidate(*configPath, &cfg); err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if cfg.LogLevel != "" {
		parsed, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
		}

		level = parsed
	}

	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	dataProvider, closeProvider, err := buildProvider(&cfg, logger)
	if err != nil {
		return err
	}

	if closeProvider != nil {
		defer func() {
			if cerr := closeProvider(); cerr != nil {
				logger.Error().Err(cerr).Msg("Failed to close provider")
			}
		}()
	}

	store := cache.NewStore(cache.DefaultPolicies())

	syncCfg := sync.DefaultConfig()
	if cfg.PollInterval > 0 {
		syncCfg.PollInterval = cfg.PollInterval.Duration()
	}

	syncer := sync.New(dataProvider, store, syncCfg, logger)
	server := api.NewServer(syncer, store, logger)

	logger.Info().
		Str("listen_addr", cfg.ListenAddr).
		Str("provider", cfg.Provider).
		Dur("poll_interval", syncCfg.PollInterval).
		Msg("Starting dashboard server")

	return lifecycle.Run(context.Background(), logger,
		syncer,
		&httpService{server: server, addr: cfg.ListenAddr},
	)
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}
