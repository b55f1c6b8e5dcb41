package logx

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/deep1161/djMART/app/internal/config"
)

var defaultLoggerOpts = &LoggerOpts{
	Environment: config.Development,
}

type LoggerOpts struct {
	Environment config.Environment
}

func safe(opts ...LoggerOpts) *LoggerOpts {
	if len(opts) == 0 {
		return defaultLoggerOpts
	}
	return &opts[0]
}

// Init configures the global logger: JSON at info level in production,
// a console writer at debug level everywhere else.
func Init(opts ...LoggerOpts) zerolog.Logger {
	if safe(opts...).Environment.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	} else {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Caller().Logger()
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
	return log.Logger
}
