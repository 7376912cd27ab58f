package server

import (
	"net/http"
	"time"

	"photostream/internal/config"
)

// Credential carrier names. Both cookies are HttpOnly (not script-readable)
// and SameSite=Strict; Secure everywhere except development.
const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

func (s *Server) setCredentialCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   !config.IsDev(s.env),
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	s.setCredentialCookie(w, accessCookieName, accessToken, s.accessTokenTTL)
	s.setCredentialCookie(w, refreshCookieName, refreshToken, s.refreshTokenTTL)
}

func (s *Server) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   !config.IsDev(s.env),
			SameSite: http.SameSiteStrictMode,
		})
	}
}
