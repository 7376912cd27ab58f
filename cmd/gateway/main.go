package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"photostream/internal/config"
	"photostream/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("gateway failed")
	}
	log.Info().Msg("gateway stopped")
}

func run() error {
	cfg, err := config.LoadGateway()
	if err != nil {
		return err
	}
	logging.Setup("gateway", cfg.Env)
	displayAppname(cfg.AppName)

	authProxy, err := newProxy(cfg.AuthServiceURL, "/api/v1/auth")
	if err != nil {
		return err
	}
	photoProxy, err := newProxy(cfg.PhotoServiceURL, "/api/v1/photos")
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/auth/", authProxy)
	mux.Handle("/api/v1/photos/", photoProxy)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"message":"gateway is up"}`)
	})

	return serve(&http.Server{Addr: ":" + cfg.Port, Handler: mux})
}

// newProxy builds a reverse proxy that strips the gateway route prefix
// before forwarding, so the backends serve their routes from the root.
func newProxy(rawURL, prefix string) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "newProxy parse %q", rawURL)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.Out.URL.Path = strings.TrimPrefix(r.In.URL.Path, prefix)
			if r.Out.URL.Path == "" {
				r.Out.URL.Path = "/"
			}
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("upstream unreachable")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `{"success":false,"message":"upstream service is unavailable"}`)
		},
	}
	return proxy, nil
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
