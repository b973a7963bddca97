package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/territoriodigital/congregacao/internal/auth"
	"github.com/territoriodigital/congregacao/internal/config"
	internalhttp "github.com/territoriodigital/congregacao/internal/http"
	"github.com/territoriodigital/congregacao/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	st := store.New(store.Config{
		CongregationID:   cfg.Congregation.ID,
		CongregationName: cfg.Congregation.Name,
		TerritoryCount:   cfg.Congregation.TerritoryCount,
		DefaultImageURL:  cfg.Congregation.TerritoryImageURL,
		BaseURL:          cfg.BaseURL,
	})
	st.Subscribe(func() {
		log.Debug().Msg("estado atualizado")
	})

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)

	handler := internalhttp.NewRouter(cfg, st, jwtManager)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
