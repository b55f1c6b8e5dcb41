package logx

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"github.com/deep1161/djMART/app/internal/config"
)

func TestInit_Levels(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	tests := []struct {
		name string
		opts []LoggerOpts
		want zerolog.Level
	}{
		{name: "Defaults to development", want: zerolog.DebugLevel},
		{name: "Staging", opts: []LoggerOpts{{Environment: config.Staging}}, want: zerolog.DebugLevel},
		{name: "Production", opts: []LoggerOpts{{Environment: config.Production}}, want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Init(tt.opts...)
			require.Equal(t, tt.want, logger.GetLevel())
			require.Equal(t, tt.want, log.Logger.GetLevel())
		})
	}
}
