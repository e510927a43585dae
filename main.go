package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"collectivecanvas/pkg/canvas/aging"
	"collectivecanvas/pkg/canvas/engine"
	"collectivecanvas/pkg/canvas/history"
	"collectivecanvas/pkg/canvas/i18n"
	"collectivecanvas/pkg/canvas/intake"
	canvasebiten "collectivecanvas/pkg/canvas/renderer/ebiten"
	"collectivecanvas/pkg/canvas/submission"
	"collectivecanvas/pkg/engine/input"
	"collectivecanvas/pkg/engine/terminal"
)

const (
	releaseVersion = "0.1.0"
)

func main() {
	log.SetFlags(0)
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func openHistory(path string) (history.Store, error) {
	if path == "" {
		return history.NewMemoryStore(), nil
	}
	return history.OpenSQLite(path)
}

func run(ctx context.Context, cfg *Config) error {
	logger := terminal.NewLogger(os.Stderr, cfg.verbose)

	catalog, err := i18n.Load(cfg.lang)
	if err != nil {
		return err
	}
	i18n.Use(catalog)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	canvasID := cfg.canvasID
	if canvasID == "" {
		canvasID = submission.NewCanvasID(rng)
	}

	store, err := openHistory(cfg.historyDB)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agingCfg := aging.DefaultConfig()
	agingCfg.MaxMembers = cfg.poolSize
	agingCfg.Retention = cfg.retention

	painter, err := canvasebiten.NewPainter()
	if err != nil {
		return err
	}
	eng := engine.New(painter,
		engine.WithCanvasID(canvasID),
		engine.WithRand(rng),
		engine.WithLogger(logger),
		engine.WithHistory(store),
		engine.WithAging(agingCfg),
		engine.WithParticles(cfg.particles),
		engine.WithHost(cfg.ambient),
	)

	srv := intake.New(intake.Config{
		Bind:      cfg.bind,
		Port:      cfg.port,
		PublicURL: cfg.publicURL,
		CanvasID:  canvasID,
		Version:   releaseVersion,
		Cooldown:  cfg.cooldown,
	}, eng, store, logger)

	qr, err := srv.QR()
	if err != nil {
		logger.Warnf("Could not generate join QR code: %v", err)
	}

	errs := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe(ctx)
		if err != nil {
			logger.Errorf("SERVE: %v", err)
			cancel()
		}
		errs <- err
	}()

	var commands <-chan input.RawInput
	if cfg.commands && term.IsTerminal(int(os.Stdin.Fd())) {
		commands = input.ReadCommands(ctx, os.Stdin, time.Now)
	}

	storage := "memory"
	if cfg.historyDB != "" {
		storage = cfg.historyDB
	}
	logger.Banner("Collective Canvas v"+releaseVersion,
		"Canvas:    "+canvasID,
		"Join:      "+srv.JoinURL(),
		"History:   "+storage,
		"Snapshots: "+cfg.snapshotDir,
		"Languages: "+languageList(),
	)

	game, err := canvasebiten.New(ctx, eng, painter, canvasebiten.Options{
		Title:       i18n.T("HUD_TITLE") + " · " + canvasID,
		CanvasID:    canvasID,
		JoinURL:     srv.JoinURL(),
		QR:          qr,
		SnapshotDir: cfg.snapshotDir,
		Width:       cfg.width,
		Height:      cfg.height,
		Fullscreen:  cfg.fullscreen,
		HUD:         cfg.hud,
		Commands:    commands,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	runErr := game.Run()
	cancel()
	if err := <-errs; err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
