package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/golf-handicap/internal/config"
	"github.com/riskibarqy/golf-handicap/internal/interfaces/httpapi"
	"github.com/riskibarqy/golf-handicap/internal/platform/calendar"
	idgen "github.com/riskibarqy/golf-handicap/internal/platform/id"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"github.com/riskibarqy/golf-handicap/internal/usecase"
)

// NewHTTPServer builds the API server. The returned close func releases the round store.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, closeStore, err := NewRoundStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	roundSvc := usecase.NewRoundService(store, idgen.NewUUIDGenerator(), logger)
	handicapSvc := usecase.NewHandicapService(roundSvc, logger)

	if err := roundSvc.Load(ctx); err != nil {
		// The API still serves a degraded summary until the store recovers.
		logger.Warn("initial round load failed", "error", err)
	}

	handler := httpapi.NewHandler(roundSvc, handicapSvc, calendar.NewParser(nil), logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, closeStore, nil
}
