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

	"photostream/cache/rediscache"
	"photostream/internal/config"
	"photostream/internal/logging"
	"photostream/internal/redisconn"
	"photostream/photos"
	"photostream/photos/sqliterepo"
	"photostream/server"
	"photostream/token"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("photo service failed")
	}
	log.Info().Msg("photo service stopped")
}

func run() error {
	cfg, err := config.LoadPhotoService()
	if err != nil {
		return err
	}
	logging.Setup("photos", cfg.Env)
	displayAppname(cfg.AppName)

	photoRepo, err := sqliterepo.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer photoRepo.Close()

	redisClient, err := redisconn.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	listing, err := photos.NewListing(
		photoRepo,
		rediscache.New(redisClient),
		photos.WithPageTTL(cfg.PageCacheTTL),
	)
	if err != nil {
		return err
	}

	handler := server.NewPhotoServer(server.PhotoServerConfig{
		Env: cfg.Env,
	}, listing, photoRepo, token.NewCodec(cfg.AccessSecret))

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
