package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"partyblitz/internal/api"
	"partyblitz/internal/authtoken"
	"partyblitz/internal/config"
	"partyblitz/internal/profile"
	"partyblitz/internal/results"
	"partyblitz/internal/session"
	"partyblitz/internal/transport"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}
	log = log.Level(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := profile.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		return err
	}
	if _, err := store.GetOrCreatePlayer(cfg.PlayerID, cfg.PlayerName); err != nil {
		return err
	}

	tokens := authtoken.NewStore(cfg.KeyringService, cfg.TokenFallbackPath)
	token, err := tokens.GetToken(cfg.PlayerID)
	if err != nil && !errors.Is(err, authtoken.ErrNotFound) {
		log.Warn().Err(err).Msg("auth token unavailable, connecting unauthenticated")
	}

	channel, err := transport.Dial(ctx, transport.DialOptions{
		URL:       cfg.ServerURL,
		AuthToken: token,
		Logger:    log.With().Str("component", "transport").Logger(),
	})
	if err != nil {
		return err
	}
	defer channel.Close()

	sess := &session.Session{
		RoomCode: cfg.RoomCode,
		Players:  []session.Player{{ID: cfg.PlayerID, Name: cfg.PlayerName}},
	}
	engine := results.NewEngine(results.Config{
		Store:         store,
		LocalPlayerID: cfg.PlayerID,
		Logger:        log.With().Str("component", "results").Logger(),
	})

	var srv *api.Server
	orc := session.NewOrchestrator(session.Config{
		Session: sess,
		Out:     channel,
		Logger:  log.With().Str("component", "session").Logger(),
		OnResults: func(res transport.Results) {
			out := engine.Finalize(*sess, res.Players)
			if srv != nil {
				srv.PublishOutcome(out)
			}
		},
		FeedbackDelay: time.Duration(cfg.FeedbackDelayMS) * time.Millisecond,
	})

	if cfg.ListenAddr != "" {
		srv = api.NewServer(orc, log.With().Str("component", "api").Logger())
		httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: srv.Routes()}
		go func() {
			log.Info().Str("addr", cfg.ListenAddr).Msg("debug api listening")
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("debug api stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()
	}

	log.Info().Str("room", cfg.RoomCode).Str("player", cfg.PlayerID).Msg("joined session")
	orc.Run(ctx, channel.Events())
	return nil
}
