// Package main provides the simulator binary that runs one scenario through
// the combat core and prints the resolved event log.
package main

import (
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/Coelancanth/Darklands-sub008/internal/config"
	"github.com/Coelancanth/Darklands-sub008/internal/game/encounter"
	"github.com/Coelancanth/Darklands-sub008/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	scenarioPath := flag.String("scenario", "content/scenarios/skirmish.yaml", "path to scenario YAML file")
	maxSteps := flag.Int("max-steps", 0, "override simulation.max_steps; 0 = use config")
	snapshotOut := flag.String("snapshot-out", "", "write the final encounter snapshot to this path")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	if *maxSteps > 0 {
		cfg.Simulation.MaxSteps = *maxSteps
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	scenario, err := encounter.LoadScenario(*scenarioPath)
	if err != nil {
		logger.Fatal("loading scenario", zap.Error(err))
	}
	logger.Info("scenario loaded",
		zap.String("name", scenario.Name),
		zap.Uint64("seed", scenario.Seed),
		zap.Int("actors", len(scenario.Actors)),
		zap.Int("obstacles", len(scenario.Obstacles)),
	)

	enc, err := scenario.Build(cfg.Simulation, encounter.SeekAndStrike, logger)
	if err != nil {
		logger.Fatal("building encounter", zap.Error(err))
	}

	events := enc.Run(cfg.Simulation.MaxSteps)
	for _, ev := range events {
		logger.Info("event",
			zap.String("kind", ev.Kind.String()),
			zap.String("at", ev.At.String()),
			zap.String("note", ev.Note),
		)
	}

	for _, a := range enc.Actors() {
		logger.Info("final state",
			zap.String("actor", a.Name()),
			zap.String("health", a.Health().String()),
			zap.Bool("dead", a.IsDead()),
		)
	}

	if *snapshotOut != "" {
		data, err := enc.Snapshot().Encode()
		if err != nil {
			logger.Fatal("encoding snapshot", zap.Error(err))
		}
		if err := os.WriteFile(*snapshotOut, data, 0o644); err != nil {
			logger.Fatal("writing snapshot", zap.Error(err))
		}
		logger.Info("snapshot written", zap.String("path", *snapshotOut))
	}
}
