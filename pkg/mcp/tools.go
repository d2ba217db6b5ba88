package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/tsfang/pkg/config"
	"github.com/Sumatoshi-tech/tsfang/pkg/lint"
	"github.com/Sumatoshi-tech/tsfang/pkg/position"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

// Tool name constants.
const (
	ToolNameLint  = "tsfang_lint"
	ToolNameRules = "tsfang_rules"
)

// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
const MaxCodeInputBytes = 1 << 20

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates the code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
)

// LintInput is the input schema for the tsfang_lint tool.
type LintInput struct {
	Code     string `json:"code"               jsonschema:"TypeScript or TSX source code to lint"`
	Fix      bool   `json:"fix,omitempty"      jsonschema:"apply auto-fixes and return the fixed source"`
	Language string `json:"language,omitempty" jsonschema:"ts (default) or tsx"`
	RuleSet  string `json:"ruleset,omitempty"  jsonschema:"rule set: recommended (default), standard or none"`
}

// RulesInput is the input schema for the tsfang_rules tool.
type RulesInput struct{}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// LintResult is the payload of the tsfang_lint tool.
type LintResult struct {
	Diagnostics  []Diagnostic `json:"diagnostics"`
	Fixed        *string      `json:"fixed,omitempty"`
	Applied      int          `json:"applied,omitempty"`
	SyntaxErrors bool         `json:"syntax_errors,omitempty"`
}

// Diagnostic is one reported problem in tool output.
type Diagnostic struct {
	Rule     string        `json:"rule"`
	Severity string        `json:"severity"`
	Message  string        `json:"message"`
	Span     position.Span `json:"span"`
	Fixable  bool          `json:"fixable"`
}

// RuleInfo describes one rule in tool output.
type RuleInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Severity    string            `json:"severity"`
	Fixable     bool              `json:"fixable"`
	Options     map[string]string `json:"options,omitempty"`
}

func (s *Server) handleLint(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input LintInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	start := time.Now()

	lang, err := validateLintInput(input)
	if err != nil {
		return errorResult(err)
	}

	linter, err := s.linter(input.RuleSet)
	if err != nil {
		return errorResult(err)
	}

	const path = "input"

	source := []byte(input.Code)
	result := LintResult{Diagnostics: []Diagnostic{}}

	var diags []lint.Diagnostic

	if input.Fix {
		res, fixErr := linter.Fix(ctx, path, lang, source, s.passes)
		if fixErr != nil {
			return errorResult(fixErr)
		}

		fixed := string(res.Source)
		result.Fixed = &fixed
		result.Applied = res.Applied
		result.SyntaxErrors = res.SyntaxErrors
		diags = res.Remaining

		s.metrics.RecordFixes(ctx, res.Applied)
	} else {
		res, lintErr := linter.LintSource(ctx, path, lang, source)
		if lintErr != nil {
			return errorResult(lintErr)
		}

		result.SyntaxErrors = res.File.HasErrors()
		diags = res.Diagnostics
	}

	for _, d := range diags {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Rule:     d.Rule,
			Severity: d.Severity.String(),
			Message:  d.Message,
			Span:     d.Span,
			Fixable:  d.HasFix(),
		})

		s.metrics.RecordDiagnostic(ctx, d.Rule, d.Severity.String())
	}

	s.metrics.RecordFile(ctx, string(lang), time.Since(start))

	return jsonResult(result)
}

func (s *Server) handleRules(
	_ context.Context, _ *mcpsdk.CallToolRequest, _ RulesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	all := s.registry.All()
	infos := make([]RuleInfo, 0, len(all))

	for _, rule := range all {
		meta := rule.Meta()
		info := RuleInfo{
			Name:        meta.Name,
			Description: meta.Description,
			Severity:    meta.Severity.String(),
			Fixable:     meta.Fixable,
		}

		if len(meta.Options) > 0 {
			info.Options = make(map[string]string, len(meta.Options))
			for _, opt := range meta.Options {
				info.Options[opt.Name] = opt.Type.String() + " = " + opt.FormatDefault()
			}
		}

		infos = append(infos, info)
	}

	return jsonResult(infos)
}

// linter builds a linter for the named rule set, or for the server rules
// when the name is empty.
func (s *Server) linter(ruleSet string) (*lint.Linter, error) {
	configs := s.rules

	if ruleSet != "" || configs == nil {
		var err error

		configs, err = config.RuleSet(ruleSet)
		if err != nil {
			return nil, err
		}
	}

	enabled, err := lint.Configure(s.registry, configs)
	if err != nil {
		return nil, fmt.Errorf("configure rules: %w", err)
	}

	opts := []lint.LinterOption{lint.WithLogger(s.logger)}
	if s.tracer != nil {
		opts = append(opts, lint.WithTracer(s.tracer))
	}

	return lint.NewLinter(enabled, opts...), nil
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateLintInput checks the code constraints and resolves the language.
func validateLintInput(input LintInput) (syntax.Language, error) {
	if strings.TrimSpace(input.Code) == "" {
		return "", ErrEmptyCode
	}

	if len(input.Code) > MaxCodeInputBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(input.Code), MaxCodeInputBytes)
	}

	switch strings.ToLower(strings.TrimSpace(input.Language)) {
	case "", "ts":
		return syntax.TypeScript, nil
	default:
		return syntax.ParseLanguage(input.Language)
	}
}
