package main

import (
	"context"
	"fmt"
	"os"

	"github.com/riskibarqy/golf-handicap/internal/app"
	"github.com/riskibarqy/golf-handicap/internal/config"
	"github.com/riskibarqy/golf-handicap/internal/platform/calendar"
	idgen "github.com/riskibarqy/golf-handicap/internal/platform/id"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"github.com/riskibarqy/golf-handicap/internal/usecase"
)

func main() {
	cli := newApp(openServices)
	if err := cli.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openServices(ctx context.Context) (*services, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewConsole(os.Stderr, cfg.LogLevel)
	store, closeStore, err := app.NewRoundStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	rounds := usecase.NewRoundService(store, idgen.NewUUIDGenerator(), logger)
	return &services{
		rounds:   rounds,
		handicap: usecase.NewHandicapService(rounds, logger),
		imports:  usecase.NewImportService(rounds, cfg.ImportWorkers, logger),
		dates:    calendar.NewParser(nil),
	}, closeStore, nil
}
