package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/macrograph/internal/compiler"
	"github.com/aretw0/macrograph/pkg/action"
	"github.com/aretw0/macrograph/pkg/domain"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromRecord highlights the path of a run. The last entered observer is marked
// current while the run is still going.
func OverlayFromRecord(rec domain.RunRecord) *GraphOverlay {
	o := &GraphOverlay{VisitedNodes: rec.Path}
	if rec.Status != domain.StatusStopped && len(rec.Path) > 0 {
		o.CurrentNode = rec.Path[len(rec.Path)-1]
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the raw graph.
// It applies semantic styling:
// - Start observer: ((Circle))
// - Observer: {{Hexagon}} with its trigger type
// - Action: [Rectangle] listing its literal actions
// Observer to observer edges carry no effects and are drawn dotted.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(g *domain.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if g == nil {
		return sb.String()
	}

	start := g.Start
	if start == "" {
		if obs := g.Observers(); len(obs) > 0 {
			start = obs[0].ID
		}
	}

	kinds := make(map[string]domain.NodeKind, len(g.Nodes))
	for _, node := range g.Nodes {
		kinds[node.ID] = node.Kind
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		detail := ""
		switch {
		case node.IsObserver() && node.ID == start:
			opener, closer = "((", "))"
			detail = triggerName(node.Observer)
		case node.IsObserver():
			opener, closer = "{{", "}}"
			detail = triggerName(node.Observer)
		case node.IsAction():
			types := make([]string, 0, len(node.Actions))
			for _, a := range node.Actions {
				types = append(types, a.Type)
			}
			detail = strings.Join(types, ", ")
		}

		label := escape(node.DisplayName())
		if detail != "" {
			label = fmt.Sprintf("%s <br/> %s", label, escape(detail))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)
	}

	for _, e := range g.Edges {
		arrow := "-->"
		if kinds[e.From] == domain.NodeObserver && kinds[e.To] == domain.NodeObserver {
			arrow = "-.->"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if _, ok := kinds[id]; ok && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if _, ok := kinds[overlay.CurrentNode]; ok {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

// GenerateStateDiagram renders a compiled automaton as a Mermaid state diagram:
// one state per transition record, edges labelled with the flattened effects.
func GenerateStateDiagram(a *compiler.Automaton) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	if a == nil || len(a.Transitions) == 0 {
		return sb.String()
	}

	if t := a.StartTransition(); t != nil {
		fmt.Fprintf(&sb, "    [*] --> %s\n", sanitizeMermaidID(t.NodeID))
	}
	for _, t := range a.Transitions {
		if t.Label != "" && t.Label != t.NodeID {
			fmt.Fprintf(&sb, "    %s : %s\n", sanitizeMermaidID(t.NodeID), escape(t.Label))
		}
	}
	for _, t := range a.Transitions {
		to := "[*]"
		if !t.Terminal() {
			to = sanitizeMermaidID(a.Transitions[t.Successor].NodeID)
		}
		effects := make([]string, 0, len(t.Effects))
		for _, e := range t.Effects {
			effects = append(effects, action.Describe(e))
		}
		if len(effects) == 0 {
			fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(t.NodeID), to)
			continue
		}
		fmt.Fprintf(&sb, "    %s --> %s : %s\n", sanitizeMermaidID(t.NodeID), to, escape(strings.Join(effects, ", ")))
	}
	return sb.String()
}

func triggerName(spec *domain.CapabilitySpec) string {
	if spec == nil {
		return "no trigger"
	}
	return spec.Type
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
