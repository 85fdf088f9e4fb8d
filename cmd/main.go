package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"soccer-memo/config"
	wsh "soccer-memo/internal/WSH"
	dbpkg "soccer-memo/internal/db"
)

func main() {
	cfg, err := config.InitConfig(os.Getenv("SOCCERMEMO_CONFIG_DIR"))
	if err != nil {
		log.Fatal().Err(err).Msg("init config")
	}
	setupLogger(cfg)

	DB, err := dbpkg.InitDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Driver).Msg("init database")
	}
	defer func() {
		if err := dbpkg.Close(DB); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := wsh.StartWS(ctx, cfg.HTTPAddr, DB); err != nil {
			log.Error().Err(err).Msg("web server stopped")
			stop()
		}
	}()

	if cfg.TgApiToken == "" {
		log.Warn().Msg("tg_api_token is empty, running without the telegram bot")
	} else if err := runBot(ctx, cfg, DB); err != nil {
		log.Error().Err(err).Msg("telegram bot")
		stop()
	}

	<-ctx.Done()
	wg.Wait()
	log.Info().Msg("shut down")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
