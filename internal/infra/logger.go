package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so the rest of the codebase depends on a
// stable name rather than importing the third-party module everywhere.
type Logger = zerolog.Logger

// NewLogger builds the service logger. Development gets a human-readable
// console writer at debug level; everything else emits JSON at info level.
func NewLogger(appEnv string) Logger {
	var out = zerolog.New(os.Stdout)
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return out.Level(level).
		With().
		Timestamp().
		Str("service", "clipforge").
		Logger()
}
