// Package observability wires structured logging, OpenTelemetry tracing and
// metrics for every tsfang mode (CLI, language server, MCP server).
package observability

import (
	"fmt"
	"log/slog"
	"strings"
)

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is a one-shot lint or fix run.
	ModeCLI AppMode = "cli"
	// ModeLSP is the language server over stdio.
	ModeLSP AppMode = "lsp"
	// ModeMCP is the MCP server over stdio.
	ModeMCP AppMode = "mcp"
)

const (
	defaultServiceName        = "tsfang"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability settings.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is the OTLP gRPC collector address. Empty disables export.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// SampleRatio is the root trace sampling ratio; zero samples everything.
	SampleRatio float64

	LogLevel slog.Level
	LogJSON  bool

	ShutdownTimeoutSec int
}

// DefaultConfig returns the zero-config settings: no export, info logs as text.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(name)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level: %w", err)
	}

	return level, nil
}

// ParseOTLPHeaders parses "key=value,key=value". Malformed pairs are skipped
// and an empty result is nil.
func ParseOTLPHeaders(raw string) map[string]string {
	if raw == "" {
		return nil
	}

	result := make(map[string]string)

	for pair := range strings.SplitSeq(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}

		result[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	if len(result) == 0 {
		return nil
	}

	return result
}
