// Package server provides the HTTP surface of the photostream services:
// route registration, middleware (including the identity gate every
// protected route runs behind), cookie handling and response shaping.
package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"photostream/auth"
	"photostream/photos"
	"photostream/token"
)

type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string

	accessCodec *token.Codec

	// Auth service dependencies.
	auth            *auth.Service
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration

	// Photo service dependencies.
	listing    *photos.Listing
	categories photos.CategoryRepo
}

// AuthServerConfig carries what the auth HTTP surface needs beyond its
// service dependencies. The TTLs drive cookie max-ages and must match the
// credential TTLs the auth service signs with.
type AuthServerConfig struct {
	Env             string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// NewAuthServer builds the credential authority's HTTP surface.
func NewAuthServer(cfg AuthServerConfig, svc *auth.Service, accessCodec *token.Codec) *Server {
	s := &Server{
		env:             cfg.Env,
		mux:             http.NewServeMux(),
		accessCodec:     accessCodec,
		auth:            svc,
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}
	s.initAuthRoutes()
	s.logRoutes()
	return s
}

// PhotoServerConfig carries what the photo HTTP surface needs beyond its
// service dependencies.
type PhotoServerConfig struct {
	Env string
}

// NewPhotoServer builds the photo service's HTTP surface. It receives the
// access codec so its identity gate verifies credentials locally, without
// depending on the auth service being reachable.
func NewPhotoServer(cfg PhotoServerConfig, listing *photos.Listing, categories photos.CategoryRepo, accessCodec *token.Codec) *Server {
	s := &Server{
		env:         cfg.Env,
		mux:         http.NewServeMux(),
		accessCodec: accessCodec,
		listing:     listing,
		categories:  categories,
	}
	s.initPhotoRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoute(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("registered")
	}
}
