// main.go
//
// Entrypoint for the duotrigordle server.
// Responsibilities:
//   - Load configuration (.env + environment) and set up logging.
//   - Load the word tables and build the puzzle engine.
//   - Open SQLite, pick the save store (valkey when VALKEY_URL is set, memory otherwise).
//   - Serve HTTP until SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/duotrigordle/internal/config"
	"github.com/robalobadob/duotrigordle/internal/game"
	"github.com/robalobadob/duotrigordle/internal/httpserver"
	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/store"
	"github.com/robalobadob/duotrigordle/internal/words"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, logFile, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.Logger = logger

	tables, err := words.Load(words.Sources{TargetsFile: cfg.Words.TargetsFile, ValidFile: cfg.Words.ValidFile})
	if err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}
	targets, valid := tables.Stats()
	log.Info().Int("targets", targets).Int("valid", valid).Msg("word lists loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Store.DBPath, logger)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.Store.DBPath, err)
	}
	defer db.Close()

	var saves store.SaveStore
	if cfg.Store.ValkeyURL != "" {
		vs, err := store.NewValkeySaveStore(store.ValkeyOptions{URL: cfg.Store.ValkeyURL, TTL: cfg.Store.SaveTTL}, logger)
		if err != nil {
			return err
		}
		defer vs.Close()
		saves = vs
		log.Info().Dur("ttl", cfg.Store.SaveTTL).Msg("saves in valkey")
	} else {
		saves = store.NewMemoryStore()
		log.Warn().Msg("VALKEY_URL not set; saves kept in memory")
	}

	srv := httpserver.New(httpserver.Deps{
		Config: cfg,
		Engine: game.NewEngine(puzzle.NewGenerator(tables)),
		Saves:  saves,
		DB:     db,
		Logger: logger,
	})
	log.Info().Str("addr", cfg.Server.Addr()).Msg("starting duotrigordle server")
	if err := srv.Run(ctx, cfg.Server.Addr()); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
