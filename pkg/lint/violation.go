package lint

import (
	"github.com/Sumatoshi-tech/tsfang/pkg/position"
	"github.com/Sumatoshi-tech/tsfang/pkg/syntax"
)

// Violation is what a rule reports for one node.
type Violation struct {
	// Node is the anchor the diagnostic is reported against.
	Node    *syntax.Node
	Message string
	Edits   []TextEdit
}

// Diagnostic is a violation resolved against its file and rule.
type Diagnostic struct {
	Rule     string        `json:"rule"            yaml:"rule"`
	Severity Severity      `json:"severity"        yaml:"severity"`
	Message  string        `json:"message"         yaml:"message"`
	Path     string        `json:"path"            yaml:"path"`
	Span     position.Span `json:"span"            yaml:"span"`
	Start    int           `json:"start"           yaml:"start"`
	End      int           `json:"end"             yaml:"end"`
	Fix      []TextEdit    `json:"fix,omitempty"   yaml:"fix,omitempty"`
}

// HasFix reports whether the diagnostic carries an auto-fix.
func (d Diagnostic) HasFix() bool {
	return len(d.Fix) > 0
}

// Result is the outcome of one visit: the violations found and whether the
// walk should skip the children of the visited node.
type Result struct {
	Violations   []Violation
	SkipChildren bool
}
