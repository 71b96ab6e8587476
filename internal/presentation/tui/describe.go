package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/macrograph/internal/compiler"
	"github.com/aretw0/macrograph/internal/validator"
	"github.com/aretw0/macrograph/pkg/action"
)

// DescribeAutomaton writes a markdown overview of a compiled automaton: one table row per
// transition record, followed by compile diagnostics.
func DescribeAutomaton(a *compiler.Automaton) string {
	var sb strings.Builder
	if a == nil {
		sb.WriteString("# Nothing to run\n\nThe graph has no observer node.\n")
		return sb.String()
	}

	name := a.Name
	if name == "" {
		name = "automaton"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "%d transitions, starting at `%s`.\n\n", len(a.Transitions), a.StartTransition().NodeID)

	sb.WriteString("| # | Observer | Trigger | Effects | Next |\n")
	sb.WriteString("|---|----------|---------|---------|------|\n")
	for _, t := range a.Transitions {
		effects := make([]string, 0, len(t.Effects))
		for _, e := range t.Effects {
			effects = append(effects, action.Describe(e))
		}
		fx := "-"
		if len(effects) > 0 {
			fx = strings.Join(effects, ", ")
		}
		next := "halt"
		if !t.Terminal() {
			next = "`" + a.Transitions[t.Successor].NodeID + "`"
		}
		fmt.Fprintf(&sb, "| %d | `%s` | %s | %s | %s |\n",
			t.Index, t.NodeID, cell(describeObserver(t.Observer)), cell(fx), next)
	}

	if len(a.Diagnostics) > 0 {
		sb.WriteString("\n## Diagnostics\n\n")
		for _, d := range a.Diagnostics {
			fmt.Fprintf(&sb, "- **%s** `%s`: %s\n", d.Severity, d.NodeID, d.Message)
		}
	}
	return sb.String()
}

// DescribeReport writes a markdown summary of a validation report.
func DescribeReport(r *validator.Report) string {
	var sb strings.Builder
	if r.OK() && len(r.Warnings) == 0 {
		sb.WriteString("**Graph is valid.**\n")
		return sb.String()
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(&sb, "## %d errors\n\n", len(r.Errors))
		for _, err := range r.Errors {
			fmt.Fprintf(&sb, "- %s\n", err)
		}
		sb.WriteString("\n")
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "## %d warnings\n\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}
	return sb.String()
}

func describeObserver(o any) string {
	if s, ok := o.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", o)
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
