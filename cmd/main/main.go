package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Abinayasri1011/noolsakaa/internal/catalog/handler"
	"github.com/Abinayasri1011/noolsakaa/internal/catalog/model"
	"github.com/Abinayasri1011/noolsakaa/internal/catalog/service"
	"github.com/Abinayasri1011/noolsakaa/internal/config"
	"github.com/Abinayasri1011/noolsakaa/internal/fileio"
	serverhttp "github.com/Abinayasri1011/noolsakaa/server/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger := config.SetupLogger(cfg)

	indian := cfg.Classification.Indian
	if len(indian) == 0 {
		indian = service.DefaultIndianFragments
	}
	tamil := cfg.Classification.Tamil
	if len(tamil) == 0 {
		tamil = service.DefaultTamilFragments
	}
	rec := service.NewRecommender(service.NewClassifier(indian, tamil))

	if !fileio.Supported(cfg.CatalogPath) {
		logger.Fatal().Str("path", cfg.CatalogPath).Msg("catalog must be .csv, .txt, .xls or .xlsx")
	}

	// Warm the cache. A missing file is tolerated (the API answers 503 until
	// it appears); a file with the wrong columns is not.
	loader := service.NewLoader(cfg.HeaderRow)
	cat, err := loader.Load(cfg.CatalogPath)
	switch {
	case errors.Is(err, model.ErrSchema):
		logger.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("catalog schema")
	case err != nil:
		logger.Warn().Err(err).Str("path", cfg.CatalogPath).Msg("catalog not loaded")
	default:
		logger.Info().Str("path", cfg.CatalogPath).Int("entries", cat.Len()).Msg("catalog loaded")
	}

	h := handler.New(cfg, loader, rec, logger)
	r := serverhttp.NewRouter(cfg, logger, h)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
