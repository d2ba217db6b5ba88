// Package commands implements CLI command handlers for tsfang.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Sumatoshi-tech/tsfang/pkg/config"
	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/observability"
	"github.com/Sumatoshi-tech/tsfang/pkg/rules"
	"github.com/Sumatoshi-tech/tsfang/pkg/version"
)

// ErrProblemsFound is returned when a run reports errors or failed files.
var ErrProblemsFound = errors.New("problems found")

// Observability environment variables.
const (
	envOTLPEndpoint = "TSFANG_OTLP_ENDPOINT"
	envOTLPHeaders  = "TSFANG_OTLP_HEADERS"
	envOTLPInsecure = "TSFANG_OTLP_INSECURE"
	envSampleRatio  = "TSFANG_OTLP_SAMPLE_RATIO"
	envEnvironment  = "TSFANG_ENV"
)

// Globals holds the persistent root flags shared by every command.
type Globals struct {
	ConfigPath string
	LogLevel   string
	LogJSON    bool
}

// Register binds the persistent flags to root.
func (g *Globals) Register(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "Config file (default: ./.tsfang.yaml)")
	root.PersistentFlags().StringVar(&g.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&g.LogJSON, "log-json", false, "Emit logs as JSON")
}

// environment is everything a command needs to lint.
type environment struct {
	config    *config.Config
	providers observability.Providers
	metrics   *observability.LintMetrics
	registry  *lint.Registry
	rules     map[string]lint.RuleConfig
	linter    *lint.Linter
}

// setup loads the configuration, starts observability and builds the linter.
// Callers must call close.
func (g *Globals) setup(mode observability.AppMode, readers ...sdkmetric.Reader) (*environment, error) {
	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	obsCfg, err := g.observabilityConfig(mode)
	if err != nil {
		return nil, err
	}

	providers, err := observability.Init(obsCfg, readers...)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	env := &environment{config: cfg, providers: providers, registry: rules.NewRegistry()}

	env.metrics, err = observability.NewLintMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, env.close())
	}

	env.rules, err = cfg.RuleConfigs()
	if err != nil {
		return nil, errors.Join(err, env.close())
	}

	enabled, err := lint.Configure(env.registry, env.rules)
	if err != nil {
		return nil, errors.Join(err, env.close())
	}

	env.linter = lint.NewLinter(enabled, lint.WithLogger(providers.Logger), lint.WithTracer(providers.Tracer))

	providers.Logger.Debug("configuration loaded",
		"extends", cfg.Extends, "rules", len(enabled), "mode", string(mode))

	return env, nil
}

func (env *environment) close() error {
	err := env.providers.Shutdown(context.Background())
	if err != nil {
		return fmt.Errorf("observability shutdown: %w", err)
	}

	return nil
}

func (g *Globals) observabilityConfig(mode observability.AppMode) (observability.Config, error) {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.Environment = os.Getenv(envEnvironment)
	cfg.Mode = mode
	cfg.LogJSON = g.LogJSON
	cfg.OTLPEndpoint = os.Getenv(envOTLPEndpoint)
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv(envOTLPHeaders))
	cfg.OTLPInsecure = os.Getenv(envOTLPInsecure) == "true"

	level, err := observability.ParseLogLevel(g.LogLevel)
	if err != nil {
		return cfg, err
	}

	cfg.LogLevel = level

	if raw := os.Getenv(envSampleRatio); raw != "" {
		ratio, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			return cfg, fmt.Errorf("%s: %w", envSampleRatio, parseErr)
		}

		cfg.SampleRatio = ratio
	}

	return cfg, nil
}
