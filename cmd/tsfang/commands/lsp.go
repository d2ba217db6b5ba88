package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Sumatoshi-tech/tsfang/pkg/lsp"
	"github.com/Sumatoshi-tech/tsfang/pkg/observability"
)

const (
	metricsReadTimeout  = 5 * time.Second
	metricsWriteTimeout = 10 * time.Second
	metricsIdleTimeout  = 60 * time.Second
)

// NewLSPCommand creates the language server command.
func NewLSPCommand(globals *Globals) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server on stdio",
		Long: `Start a Language Server Protocol server on stdio.

Open TypeScript and TSX documents are linted on every change; fixable
problems are offered as quick fixes and as a source.fixAll action.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			var (
				readers []sdkmetric.Reader
				handler http.Handler
			)

			if metricsAddr != "" {
				reader, promHandler, err := observability.PrometheusReader()
				if err != nil {
					return err
				}

				readers = append(readers, reader)
				handler = promHandler
			}

			env, err := globals.setup(observability.ModeLSP, readers...)
			if err != nil {
				return err
			}

			logger := env.providers.Logger

			if handler != nil {
				metricsServer := serveMetrics(metricsAddr, handler, env)

				defer func() {
					_ = metricsServer.Shutdown(context.Background())
				}()
			}

			srv := lsp.NewServer(env.linter, env.metrics, logger)

			logger.Info("language server starting")

			return errors.Join(srv.Run(), env.close())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")

	return cmd
}

func serveMetrics(addr string, handler http.Handler, env *environment) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  metricsReadTimeout,
		WriteTimeout: metricsWriteTimeout,
		IdleTimeout:  metricsIdleTimeout,
	}

	go func() {
		env.providers.Logger.Info("metrics server starting", "addr", addr)

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			env.providers.Logger.Error("metrics server failed", "error", err)
		}
	}()

	return server
}
