package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/pergola/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNamespaces []string
	CurrentNamespace  string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a list of
// transition rules. Each rule becomes an edge between its source and target
// namespaces, labeled with the rule name:
// - Unfiltered sides render as the wildcard node (*)
// - Sync rules use a dotted arrow
// - Appear-only rules render as a self-edge on the target
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(transitions []*domain.Transition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[string]bool)
	declare := func(ns string) string {
		label := ns
		if label == "" {
			label = "*"
		}
		safeID := sanitizeMermaidID(label)
		if !declared[safeID] {
			declared[safeID] = true
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, label))
		}
		return safeID
	}

	for _, t := range transitions {
		from := declare(t.From.Namespace)
		to := declare(t.To.Namespace)

		if t.Appear != nil && t.Leave == nil && t.Enter == nil {
			// Appear-only rules have no page-to-page edge.
			to = from
		}

		arrow := "-->"
		if t.Sync {
			arrow = "-.->"
		}
		if t.Name != "" {
			safeName := strings.ReplaceAll(t.Name, "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", safeName)
			if t.Sync {
				arrow = fmt.Sprintf("-. \"%s\" .->", safeName)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, ns := range overlay.VisitedNamespaces {
			safeID := sanitizeMermaidID(ns)
			if !visitedSet[safeID] && declared[safeID] {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNamespace != "" {
			safeCurrent := sanitizeMermaidID(overlay.CurrentNamespace)
			if declared[safeCurrent] {
				sb.WriteString(fmt.Sprintf("    class %s current;\n", safeCurrent))
			}
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "*", "any")
	return s
}
