package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"soccer-memo/config"
	"soccer-memo/internal/bot"
)

// runBot polls Telegram until ctx is done.
func runBot(ctx context.Context, cfg *config.Config, DB *gorm.DB) error {
	tgBot, err := bot.NewBot(cfg, DB)
	if err != nil {
		return err
	}
	log.Info().Int("admins", len(cfg.Admins)).Msg("telegram bot starting")
	tgBot.Run(ctx)
	return nil
}
