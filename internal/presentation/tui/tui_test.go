package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/macrograph/internal/compiler"
	"github.com/aretw0/macrograph/internal/validator"
	"github.com/aretw0/macrograph/pkg/action"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/observer"
	"github.com/aretw0/macrograph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.0.0")
	assert.Empty(t, buf.String())
	assert.False(t, IsTerminal(&buf))
}

func TestStatusLine(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "idle", StatusLine(&buf, domain.StatusIdle, nil))

	line := StatusLine(&buf, domain.StatusStopped, &domain.RunRecord{
		ID: "r1", Outcome: domain.OutcomeFailed, Transitions: 2, Actions: 3, Polls: 9, Error: "boom",
	})
	assert.Equal(t, "stopped run r1 (failed): 2 transitions, 3 actions, 9 polls error: boom", line)
}

func TestNewRenderer_Plain(t *testing.T) {
	render := NewRenderer(&bytes.Buffer{})
	out, err := render("# Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title", out)
}

func TestRenderStyled(t *testing.T) {
	out, err := RenderStyled("# Title\n\nsome *text*", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "text")
}

func TestDescribeAutomaton(t *testing.T) {
	auto := &compiler.Automaton{
		Name: "login",
		Transitions: []*compiler.Transition{
			{Index: 0, NodeID: "watch", Observer: observer.Never(), Effects: []ports.Action{action.NewKeyPress(nil, "enter")}, Successor: 1},
			{Index: 1, NodeID: "done", Observer: observer.Never(), Successor: compiler.NoSuccessor},
		},
		Diagnostics: []compiler.Diagnostic{{Severity: compiler.SeverityWarning, NodeID: "done", Message: "no trigger defined"}},
	}

	md := DescribeAutomaton(auto)
	assert.True(t, strings.HasPrefix(md, "# login\n"))
	assert.Contains(t, md, "2 transitions, starting at `watch`.")
	assert.Contains(t, md, "| 0 | `watch` | never | key(enter) | `done` |")
	assert.Contains(t, md, "| 1 | `done` | never | - | halt |")
	assert.Contains(t, md, "- **warning** `done`: no trigger defined")

	assert.Contains(t, DescribeAutomaton(nil), "Nothing to run")
}

func TestDescribeReport(t *testing.T) {
	assert.Contains(t, DescribeReport(&validator.Report{}), "valid")

	md := DescribeReport(&validator.Report{
		Errors:   []error{errors.New("edge to unknown node")},
		Warnings: []string{"node x is unreachable"},
	})
	assert.Contains(t, md, "## 1 errors")
	assert.Contains(t, md, "- edge to unknown node")
	assert.Contains(t, md, "- node x is unreachable")
}
