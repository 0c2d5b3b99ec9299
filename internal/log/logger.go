// Package log builds the process-wide zerolog logger.
package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mohamedm999/TruckFlow/internal/config"
)

// New returns the root logger every component derives from. Development gets
// the console writer at debug level; production drops to info and plain output.
func New(environment string) zerolog.Logger {
	production := environment == config.EnvProduction

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    production,
	}

	logger := zerolog.New(output).With().
		Timestamp().
		Str("service", "truckflow").
		Str("env", environment).
		Logger()

	if production {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return logger
}
