package lint

import "github.com/Sumatoshi-tech/tsfang/pkg/syntax"

// Finding is a violation tagged with the index of the visitor that reported it.
type Finding struct {
	Visitor int
	Violation
}

// Walk traverses the file once in pre-order, depth first, calling every
// visitor for each named non-comment node. A visitor that asks to skip the
// children of a node does not see that node's descendants; the other
// visitors still do.
func Walk(root *syntax.Node, visitors []Visitor) []Finding {
	var findings []Finding

	active := make([]bool, len(visitors))
	for i := range active {
		active[i] = true
	}

	walk(root, visitors, active, &findings)

	return findings
}

func walk(n *syntax.Node, visitors []Visitor, active []bool, findings *[]Finding) {
	if !n.Named || n.Kind == syntax.KindComment {
		return
	}

	next := active
	copied := false

	for i, visit := range visitors {
		if !active[i] {
			continue
		}

		res := visit(n)
		for _, v := range res.Violations {
			*findings = append(*findings, Finding{Visitor: i, Violation: v})
		}

		if res.SkipChildren {
			if !copied {
				next = append([]bool(nil), active...)
				copied = true
			}

			next[i] = false
		}
	}

	if !anyActive(next) {
		return
	}

	for _, c := range n.Children {
		walk(c, visitors, next, findings)
	}
}

func anyActive(active []bool) bool {
	for _, a := range active {
		if a {
			return true
		}
	}

	return false
}
