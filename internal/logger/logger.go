// Package logger builds the process-wide zap logger from configuration.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/vijay-prabhu/gmail-triage/internal/config"
)

// New creates a logger for the [log] section. Format "json" uses the
// production encoder; anything else the development console encoder.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = levelEncoder(term.IsTerminal(int(os.Stderr.Fd())))
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	// stdout carries JSON-RPC frames in MCP mode
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}


// levelEncoder colours levels only when stderr is a terminal
func levelEncoder(colour bool) zapcore.LevelEncoder {
	if colour {
		return zapcore.CapitalColorLevelEncoder
	}
	return zapcore.CapitalLevelEncoder
}
