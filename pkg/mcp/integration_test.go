package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/tsfang/pkg/mcp"
)

func connect(t *testing.T, srv *mcp.Server) (*mcpsdk.ClientSession, context.Context) {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session, ctx
}

func textOf(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestMCPServer_InMemoryTransport_ToolsList(t *testing.T) {
	t.Parallel()

	session, ctx := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, toolsResult)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
	}

	assert.ElementsMatch(t, []string{mcp.ToolNameLint, mcp.ToolNameRules}, toolNames)

	for _, tool := range toolsResult.Tools {
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}
}

func TestMCPServer_InMemoryTransport_CallLint(t *testing.T) {
	t.Parallel()

	session, ctx := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: mcp.ToolNameLint,
		Arguments: map[string]any{
			"code": "function f(): ReadonlyArray<number> {\n  return [];\n}\n",
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, textOf(t, result))

	var got mcp.LintResult
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &got))
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, "no-return-readonly-array", got.Diagnostics[0].Rule)
	assert.Equal(t, 0, got.Diagnostics[0].Span.Start.Line)
	assert.Nil(t, got.Fixed)
}

func TestMCPServer_InMemoryTransport_CallFix(t *testing.T) {
	t.Parallel()

	session, ctx := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: mcp.ToolNameLint,
		Arguments: map[string]any{
			"code":    "const x = a ? b : c;\n",
			"ruleset": "standard",
			"fix":     true,
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, textOf(t, result))

	var got mcp.LintResult
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &got))
	require.NotNil(t, got.Fixed)
	assert.Equal(t, "const x =\n  a\n    ? b\n    : c;\n", *got.Fixed)
	assert.Equal(t, 1, got.Applied)
	assert.Empty(t, got.Diagnostics)
}

func TestMCPServer_InMemoryTransport_InvalidInput(t *testing.T) {
	t.Parallel()

	session, ctx := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "empty code", args: map[string]any{"code": "  "}, want: "code parameter is required"},
		{name: "unknown language", args: map[string]any{"code": "x;", "language": "go"}, want: "unsupported language"},
		{name: "unknown rule set", args: map[string]any{"code": "x;", "ruleset": "strict"}, want: "unknown rule set"},
	}

	for _, tt := range tests {
		result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: mcp.ToolNameLint, Arguments: tt.args})
		require.NoError(t, err, tt.name)
		assert.True(t, result.IsError, tt.name)
		assert.Contains(t, textOf(t, result), tt.want, tt.name)
	}
}

func TestMCPServer_InMemoryTransport_CallRules(t *testing.T) {
	t.Parallel()

	session, ctx := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: mcp.ToolNameRules, Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got []mcp.RuleInfo
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &got))
	require.Len(t, got, 2)

	names := []string{got[0].Name, got[1].Name}
	assert.ElementsMatch(t, []string{"no-return-readonly-array", "ternary-format"}, names)

	for _, info := range got {
		assert.NotEmpty(t, info.Options, info.Name)
	}
}

func TestServer_ListToolNames(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})
	assert.Equal(t, []string{mcp.ToolNameLint, mcp.ToolNameRules}, srv.ListToolNames())
}
