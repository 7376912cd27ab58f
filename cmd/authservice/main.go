package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"photostream/auth"
	"photostream/internal/config"
	"photostream/internal/logging"
	"photostream/internal/redisconn"
	"photostream/server"
	"photostream/sessions/redisrepo"
	"photostream/token"
	"photostream/users/sqliterepo"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("auth service failed")
	}
	log.Info().Msg("auth service stopped")
}

func run() error {
	cfg, err := config.LoadAuthService()
	if err != nil {
		return err
	}
	logging.Setup("auth", cfg.Env)
	displayAppname(cfg.AppName)

	userRepo, err := sqliterepo.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer userRepo.Close()

	redisClient, err := redisconn.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	accessCodec := token.NewCodec(cfg.AccessSecret)
	refreshCodec := token.NewCodec(cfg.RefreshSecret)

	authService, err := auth.NewService(
		userRepo,
		redisrepo.New(redisClient),
		accessCodec,
		refreshCodec,
		auth.WithTokenTTLs(cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
	)
	if err != nil {
		return err
	}

	handler := server.NewAuthServer(server.AuthServerConfig{
		Env:             cfg.Env,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}, authService, accessCodec)

	return serve(&http.Server{Addr: ":" + cfg.Port, Handler: handler})
}

func serve(srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- errors.Wrap(err, "ListenAndServe")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "Shutdown")
	}
	return nil
}

func displayAppname(appname string) {
	figure.NewFigure(appname, "cybermedium", true).Print()
	fmt.Println()
}
