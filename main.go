package main

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/duel-server/internal/auth"
	"github.com/robalobadob/wordle/apps/duel-server/internal/config"
	"github.com/robalobadob/wordle/apps/duel-server/internal/db"
	"github.com/robalobadob/wordle/apps/duel-server/internal/duel"
	"github.com/robalobadob/wordle/apps/duel-server/internal/history"
	"github.com/robalobadob/wordle/apps/duel-server/internal/httpserver"
	"github.com/robalobadob/wordle/apps/duel-server/internal/notify"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	sqlDB, err := db.OpenAndMigrate(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer sqlDB.Close()

	if cfg.Production() && cfg.JWTSecret == "dev_secret_change_me" {
		log.Warn().Msg("JWT_SECRET is the development default")
	}
	authSvc := auth.NewService(auth.NewUsers(sqlDB), auth.Options{
		Secret:     cfg.JWTSecret,
		TTL:        time.Duration(cfg.JWTExpiresDays) * 24 * time.Hour,
		CookieName: cfg.CookieName,
		Secure:     cfg.Production(),
	})

	srv := httpserver.New(httpserver.Deps{
		Duels:          duel.NewRegistry(),
		Auth:           authSvc,
		History:        history.NewStore(sqlDB),
		Hub:            notify.NewHub(notify.DefaultBuffer),
		ClientOrigin:   cfg.ClientOrigin,
		RequestTimeout: cfg.RequestTimeout,
	})
	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("starting duel-server")
	if err := srv.Start(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
