package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Sumatoshi-tech/tsfang/pkg/observability"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

func TestValidateLintInput(t *testing.T) {
	t.Parallel()

	lang, err := validateLintInput(LintInput{Code: "x;"})
	require.NoError(t, err)
	assert.Equal(t, syntax.TypeScript, lang)

	lang, err = validateLintInput(LintInput{Code: "x;", Language: "TSX"})
	require.NoError(t, err)
	assert.Equal(t, syntax.TSX, lang)

	_, err = validateLintInput(LintInput{Code: "\n"})
	require.ErrorIs(t, err, ErrEmptyCode)

	_, err = validateLintInput(LintInput{Code: strings.Repeat("x", MaxCodeInputBytes+1)})
	require.ErrorIs(t, err, ErrCodeTooLarge)

	_, err = validateLintInput(LintInput{Code: "x;", Language: "python"})
	require.ErrorIs(t, err, syntax.ErrUnsupportedLanguage)
}

func TestHandleLint_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	lm, err := observability.NewLintMetrics(mp.Meter("test"))
	require.NoError(t, err)

	srv := NewServer(ServerDeps{Metrics: lm})
	handler := withMetrics(lm, srv.handleLint)
	ctx := context.Background()

	result, _, err := handler(ctx, nil, LintInput{Code: "const x = a ? b : c;\n", RuleSet: "standard"})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	result, _, err = handler(ctx, nil, LintInput{Code: ""})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(1), sums["tsfang.files.total"])
	assert.Equal(t, int64(1), sums["tsfang.diagnostics.total"])
	assert.Equal(t, int64(1), sums["tsfang.errors.total"])
}

func TestWithTracing_AppendsTraceID(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	handler := withTracing(tp.Tracer("test"), "probe",
		func(context.Context, *mcpsdk.CallToolRequest, RulesInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
			return jsonResult([]string{"ok"})
		})

	result, _, err := handler(context.Background(), nil, RulesInput{})
	require.NoError(t, err)
	require.Len(t, result.Content, 2)

	text, ok := result.Content[1].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text.Text, traceIDMetaKey+"="))
}

func TestErrorResult(t *testing.T) {
	t.Parallel()

	result, out, err := errorResult(errors.New("boom"))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Nil(t, out.Data)
}
