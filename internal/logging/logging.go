// Package logging configures the global zerolog logger for a service.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"photostream/internal/config"
)

// Setup initializes the global logger. Development deployments get a
// human-readable console writer; everything else emits JSON.
func Setup(service, envName string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if config.IsDev(envName) {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		})
	}

	log.Logger = log.Logger.With().Str("service", service).Logger()
}
