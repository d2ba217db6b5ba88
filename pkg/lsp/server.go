// Package lsp serves tsfang diagnostics and quick fixes over the Language
// Server Protocol.
package lsp

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/observability"
	"github.com/Sumatoshi-tech/tsfang/pkg/position"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
	"github.com/Sumatoshi-tech/tsfang/pkg/version"
)

const (
	serverName = "tsfang"
	source     = "tsfang"
)

// codeActionKindSourceFixAll is the LSP 3.17 fix-all kind, missing from protocol_3_16.
const codeActionKindSourceFixAll = protocol.CodeActionKind("source.fixAll")

// Server lints open TypeScript documents.
type Server struct {
	store   *DocumentStore
	linter  *lint.Linter
	metrics *observability.LintMetrics
	logger  *slog.Logger
	handler protocol.Handler
}

// NewServer creates a server that lints with linter. metrics may be nil.
func NewServer(linter *lint.Linter, metrics *observability.LintMetrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{store: NewDocumentStore(), linter: linter, metrics: metrics, logger: logger}

	srv.handler = protocol.Handler{
		Initialize:             srv.initialize,
		Initialized:            srv.initialized,
		Shutdown:               srv.shutdown,
		SetTrace:               srv.setTrace,
		TextDocumentDidOpen:    srv.didOpen,
		TextDocumentDidChange:  srv.didChange,
		TextDocumentDidSave:    srv.didSave,
		TextDocumentDidClose:   srv.didClose,
		TextDocumentCodeAction: srv.codeAction,
	}

	return srv
}

// Run serves on stdio until the client disconnects.
func (srv *Server) Run() error {
	return server.NewServer(&srv.handler, serverName, false).RunStdio()
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = protocol.TextDocumentSyncKindFull
	capabilities.CodeActionProvider = protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix, codeActionKindSourceFixAll},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version.Version,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI

	srv.store.Set(uri, params.TextDocument.Text)
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	text, _ := srv.store.Get(uri)

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			text = applyChange(text, c)
		}
	}

	srv.store.Set(uri, text)
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if _, ok := srv.store.Get(uri); ok {
		srv.publishDiagnostics(ctx, uri)
	}

	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.store.Delete(uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

func (srv *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	diags := []protocol.Diagnostic{}

	if res := srv.lint(uri); res != nil {
		for _, d := range res.Diagnostics {
			diags = append(diags, toDiagnostic(res.File.Lines, d))
		}
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// lint lints a stored document. It returns nil for unknown documents and
// for documents that are not TypeScript.
func (srv *Server) lint(uri string) *lint.FileResult {
	text, ok := srv.store.Get(uri)
	if !ok {
		return nil
	}

	path := pathOf(uri)

	lang, ok := syntax.LanguageForPath(path)
	if !ok {
		return nil
	}

	ctx := context.Background()
	start := time.Now()

	res, err := srv.linter.LintSource(ctx, path, lang, []byte(text))
	if err != nil {
		srv.metrics.RecordError(ctx)
		srv.logger.Warn("lint failed", "uri", uri, "error", err)

		return nil
	}

	for _, d := range res.Diagnostics {
		srv.metrics.RecordDiagnostic(ctx, d.Rule, d.Severity.String())
	}

	srv.metrics.RecordFile(ctx, string(lang), time.Since(start))

	return res
}

func (srv *Server) codeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI

	res := srv.lint(uri)
	if res == nil {
		return []protocol.CodeAction{}, nil
	}

	lines := res.File.Lines
	actions := []protocol.CodeAction{}
	quickFix := protocol.CodeActionKindQuickFix
	preferred := true

	for _, d := range res.Diagnostics {
		diag := toDiagnostic(lines, d)
		if !d.HasFix() || !intersects(diag.Range, params.Range) {
			continue
		}

		edits := make([]protocol.TextEdit, 0, len(d.Fix))
		for _, e := range d.Fix {
			edits = append(edits, protocol.TextEdit{Range: toRange(lines, e.Start, e.End()), NewText: e.Text})
		}

		actions = append(actions, protocol.CodeAction{
			Title:       "Fix: " + d.Message,
			Kind:        &quickFix,
			Diagnostics: []protocol.Diagnostic{diag},
			IsPreferred: &preferred,
			Edit:        &protocol.WorkspaceEdit{Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: edits}},
		})
	}

	if fixAll := srv.fixAll(uri, res); fixAll != nil {
		actions = append(actions, *fixAll)
	}

	return actions, nil
}

// fixAll offers one action rewriting the whole document with every fix.
func (srv *Server) fixAll(uri string, res *lint.FileResult) *protocol.CodeAction {
	fixable := false

	for _, d := range res.Diagnostics {
		fixable = fixable || d.HasFix()
	}

	if !fixable {
		return nil
	}

	fixed, err := srv.linter.Fix(context.Background(), res.File.Path, res.File.Language, res.File.Source, lint.DefaultMaxFixPasses)
	if err != nil || !fixed.Changed() {
		return nil
	}

	kind := codeActionKindSourceFixAll
	edit := protocol.TextEdit{Range: toRange(res.File.Lines, 0, len(res.File.Source)), NewText: string(fixed.Source)}

	return &protocol.CodeAction{
		Title: "Fix all tsfang problems",
		Kind:  &kind,
		Edit:  &protocol.WorkspaceEdit{Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: {edit}}},
	}
}

func toDiagnostic(lines *position.LineMap, d lint.Diagnostic) protocol.Diagnostic {
	severity := toSeverity(d.Severity)
	src := source

	return protocol.Diagnostic{
		Range:    toRange(lines, d.Start, d.End),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Rule},
		Source:   &src,
		Message:  d.Message,
	}
}

func toSeverity(s lint.Severity) protocol.DiagnosticSeverity {
	switch s {
	case lint.SeverityError:
		return protocol.DiagnosticSeverityError
	case lint.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

// toRange converts byte offsets to an LSP range with UTF-16 columns.
func toRange(lines *position.LineMap, start, end int) protocol.Range {
	return protocol.Range{Start: toPosition(lines, start), End: toPosition(lines, end)}
}

func toPosition(lines *position.LineMap, offset int) protocol.Position {
	pos := lines.PositionOf(offset)

	return protocol.Position{
		Line:      protocol.UInteger(pos.Line),
		Character: protocol.UInteger(lines.UTF16Character(pos)),
	}
}

func fromPosition(lines *position.LineMap, p protocol.Position) int {
	return lines.OffsetOf(lines.FromUTF16(int(p.Line), int(p.Character)))
}

// applyChange applies an incremental change; a change without a range
// replaces the document.
func applyChange(text string, c protocol.TextDocumentContentChangeEvent) string {
	if c.Range == nil {
		return c.Text
	}

	lines := position.NewLineMap(text)
	start, end := fromPosition(lines, c.Range.Start), fromPosition(lines, c.Range.End)

	if end < start {
		start, end = end, start
	}

	return text[:start] + c.Text + text[end:]
}

func intersects(a, b protocol.Range) bool {
	return !before(a.End, b.Start) && !before(b.End, a.Start)
}

func before(a, b protocol.Position) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Character < b.Character)
}

func pathOf(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}

	return u.Path
}
