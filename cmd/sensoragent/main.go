// Package main is the entry point for the SensorAgent application.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sensoragent/internal/collector"
	"sensoragent/internal/config"
	"sensoragent/internal/logger"
	"sensoragent/internal/scheduler"
	"sensoragent/internal/sender"
	"sensoragent/internal/sensors"
	"sensoragent/internal/service"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "conf/SensorAgent.json", "Path to configuration file")
		once        = flag.Bool("once", false, "Read all sensors once, print JSON and exit")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("SensorAgent %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	if *once {
		runOnce()
		return
	}

	// Derive basePath from config path and change working directory.
	// When running as a Windows service, the cwd is C:\Windows\System32.
	// An absolute config path means service mode - extract basePath
	// (2 levels up from the config file) and chdir. A relative path
	// means interactive/dev mode and the cwd stays as is.
	const startupErrorLogDir = "log/SensorAgent"

	if filepath.IsAbs(*configPath) {
		basePath := filepath.Dir(filepath.Dir(*configPath))
		if err := os.Chdir(basePath); err != nil {
			service.ReportStartupError("SensorAgent", fmt.Errorf("failed to chdir to %s: %w", basePath, err))
			fmt.Fprintf(os.Stderr, "Failed to change directory to %s: %v\n", basePath, err)
			os.Exit(1)
		}
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		service.ReportStartupError("SensorAgent", err)
		service.WriteStartupErrorFile(startupErrorLogDir, err)
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		service.ReportStartupError("SensorAgent", err)
		service.WriteStartupErrorFile(startupErrorLogDir, err)
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.WithComponent("main")
	log.Info().
		Str("version", version).
		Str("config", *configPath).
		Msg("Starting SensorAgent")

	svc := service.NewService(func(ctx context.Context) error {
		return run(ctx, cfg, *configPath)
	})

	if err := svc.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Service exited with error")
	}

	log.Info().Msg("SensorAgent stopped")
}

// loadConfig reads the config file, falling back to defaults when the file
// does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// runOnce queries the sensor cascade a single time and prints the readings
// as JSON. Useful for debugging which sources work on a given machine.
func runOnce() {
	// Keep stdout clean for the JSON document.
	_ = logger.Init(logger.Config{Level: "disabled"})

	s := sensors.New()
	out := struct {
		CPUTemperatureCelsius float64 `json:"cpu_temperature_celsius"`
		FanRPM                []int   `json:"fan_rpm"`
		CPUVoltageVolts       float64 `json:"cpu_voltage_volts"`
	}{
		CPUTemperatureCelsius: s.CPUTemperature(),
		FanRPM:                s.FanSpeeds(),
		CPUVoltageVolts:       s.CPUVoltage(),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode readings: %v\n", err)
		os.Exit(1)
	}
}

func agentID(cfg *config.Config, hostname string) string {
	if cfg.Agent.ID != "" {
		return cfg.Agent.ID
	}
	return hostname
}

// setupWatcher creates a hot-reload watcher for the config file.
// Returns a cleanup function that stops the watcher.
func setupWatcher(registry *collector.Registry, sched *scheduler.Scheduler, configPath string) func() {
	log := logger.WithComponent("main")
	var reloadMu sync.Mutex

	watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
		reloadMu.Lock()
		defer reloadMu.Unlock()

		log.Info().Msg("Applying configuration changes")

		if err := logger.Init(newCfg.Logging); err != nil {
			log.Error().Err(err).Msg("Failed to update logging configuration")
		}

		if err := registry.Configure(newCfg.Collectors); err != nil {
			log.Error().Err(err).Msg("Failed to update collector configurations")
			return
		}

		sched.Reconfigure()
		log.Info().Msg("Configuration updated")
	})

	if err != nil {
		log.Warn().Err(err).Msg("Failed to create config watcher, hot reload disabled")
		return func() {}
	}

	if err := watcher.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start config watcher")
		return func() {}
	}

	return func() {
		log.Info().Msg("Stopping config watcher")
		if err := watcher.Stop(); err != nil {
			log.Error().Err(err).Msg("Error stopping config watcher")
		}
	}
}

func run(ctx context.Context, cfg *config.Config, configPath string) error {
	log := logger.WithComponent("main")

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	id := agentID(cfg, hostname)

	log.Info().
		Str("agent_id", id).
		Str("hostname", hostname).
		Msg("Agent initialized")

	// Collectors
	registry := collector.DefaultRegistry()
	if err := registry.Configure(cfg.Collectors); err != nil {
		return fmt.Errorf("failed to configure collectors: %w", err)
	}

	// Sender
	snd, err := sender.NewSender(cfg)
	if err != nil {
		return fmt.Errorf("failed to create sender: %w", err)
	}
	defer func() {
		log.Info().Msg("Closing sender")
		if err := snd.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing sender")
		}
	}()

	// Scheduler
	sched := scheduler.New(registry, snd, id, hostname, cfg.Agent.Tags)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// Config hot reload
	cleanupWatcher := setupWatcher(registry, sched, configPath)
	defer cleanupWatcher()

	<-ctx.Done()
	log.Info().Msg("Received shutdown signal")

	sched.Stop()

	return nil
}
