// Package mcp implements a Model Context Protocol server exposing tsfang
// linting as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/observability"
	"github.com/Sumatoshi-tech/tsfang/pkg/rules"
	"github.com/Sumatoshi-tech/tsfang/pkg/version"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "tsfang"

	// toolCount is the expected number of registered tools.
	toolCount = 2
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Registry provides the rules. Nil uses the built-in rules.
	Registry *lint.Registry

	// Rules is the rule configuration used when a call names no rule set.
	// Nil uses the recommended rule set.
	Rules map[string]lint.RuleConfig

	// MaxFixPasses bounds fixing; zero uses lint.DefaultMaxFixPasses.
	MaxFixPasses int

	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional lint metrics recorder. Nil disables metrics.
	Metrics *observability.LintMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer
}

// Server wraps the MCP SDK server with tsfang tool registrations.
type Server struct {
	inner    *mcpsdk.Server
	mu       sync.RWMutex
	tools    []string
	registry *lint.Registry
	rules    map[string]lint.RuleConfig
	passes   int
	logger   *slog.Logger
	metrics  *observability.LintMetrics
	tracer   trace.Tracer
}

// NewServer creates a new MCP server with all tsfang tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		opts,
	)

	srv := &Server{
		inner:    inner,
		tools:    make([]string, 0, toolCount),
		registry: deps.Registry,
		rules:    deps.Rules,
		passes:   deps.MaxFixPasses,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		tracer:   deps.Tracer,
	}

	if srv.registry == nil {
		srv.registry = rules.NewRegistry()
	}

	if srv.logger == nil {
		srv.logger = slog.Default()
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameLint,
		Description: lintToolDescription,
	}, withMetrics(s.metrics, withTracing(s.tracer, ToolNameLint, s.handleLint)))
	s.trackTool(ToolNameLint)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameRules,
		Description: rulesToolDescription,
	}, withTracing(s.tracer, ToolNameRules, s.handleRules))
	s.trackTool(ToolNameRules)
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			result.Content = append(result.Content,
				&mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())})
		}

		return result, output, err
	}
}

// withMetrics wraps an MCP tool handler to count failed calls.
func withMetrics[Input any](
	metrics *observability.LintMetrics,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		result, output, err := handler(ctx, req, input)
		if err != nil || (result != nil && result.IsError) {
			metrics.RecordError(ctx)
		}

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	lintToolDescription = "Lint TypeScript or TSX source for ReadonlyArray return types " +
		"and ternary layout. Accepts inline code, a language (ts or tsx), an optional " +
		"rule set and a fix flag that returns the fixed source."

	rulesToolDescription = "List the available lint rules with their options and defaults."
)
