package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ConserveLee/seedbot/internal/config"
	"github.com/ConserveLee/seedbot/internal/engine"
	"github.com/ConserveLee/seedbot/internal/logger"
)

func main() {
	cfgFlag := flag.String("config", "", "path to config.json")
	display := flag.Int("display", -1, "display index (overrides config)")
	debug := flag.Bool("debug", false, "verbose logging and debug frame dumps")
	flag.Parse()

	if err := run(*cfgFlag, *display, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "seedbot: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgFlag string, display int, debug bool) error {
	cfgPath, err := config.FindConfig(cfgFlag)
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if display >= 0 {
		cfg.DisplayID = display
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
		cfg.DebugDump = true
	}
	opts := []logger.Option{logger.WithConsole(), logger.WithLevel(level)}
	if cfg.LogFile != "" {
		opts = append(opts, logger.WithFile(cfg.LogFile))
	}
	appLogger, err := logger.New(opts...)
	if err != nil {
		return err
	}
	defer appLogger.Close()
	log := appLogger.Zerolog()
	log.Info().Str("config", cfgPath).Msg("[Main] config loaded")

	stack, err := engine.Build(cfg, log, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := stack.Close(); err != nil {
			log.Error().Err(err).Msg("[Main] shutdown")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	stack.Runner.Run(ctx)
	return nil
}
