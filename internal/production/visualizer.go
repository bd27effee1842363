// Package production provides production integrations: table storage,
// transition publishing and visualization.
package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/comalice/tablefsm/internal/primitives"
)

// DefaultVisualizer renders a table as Graphviz DOT.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for the table. The current state
// is filled; wildcard transitions start from a shared "*" node and
// return-to-previous transitions from a "previous" node, since neither has
// a fixed source. Free events are listed in a separate box.
func (v *DefaultVisualizer) ExportDOT(table primitives.TableConfig, current primitives.StateID) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", table.ID)
	buf.WriteString(`  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	seen := make(map[primitives.StateID]bool, len(table.States))
	for _, s := range table.States {
		if seen[s.ID] {
			continue // shadowed duplicate
		}
		seen[s.ID] = true
		renderState(&buf, s, s.ID == current, s.ID == table.InitialState())
	}

	edges := collectEdges(table)
	if hasNode(edges, anyNode) {
		fmt.Fprintf(&buf, "  %q [shape=point];\n", anyNode)
	}
	if hasNode(edges, previousNode) {
		fmt.Fprintf(&buf, "  %q [shape=diamond, style=dashed];\n", previousNode)
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
	}

	if len(table.FreeEvents) > 0 {
		buf.WriteString("  subgraph cluster_free {\n    label=\"free events\";\n")
		for _, fe := range table.FreeEvents {
			fmt.Fprintf(&buf, "    %q [shape=note, label=%q];\n", "free_"+fe.Name, fmt.Sprintf("%s (%d)", fe.Name, fe.Trigger))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the table to JSON. Callbacks are omitted; handler
// names are kept.
func (v *DefaultVisualizer) ExportJSON(table primitives.TableConfig) ([]byte, error) {
	return json.MarshalIndent(table, "", "  ")
}

const (
	anyNode      = "*"
	previousNode = "previous"
)

// Edge represents a transition edge.
type Edge struct {
	From  string
	To    string
	Label string
}

func nodeName(table primitives.TableConfig, id primitives.StateID) string {
	if s, ok := table.FindState(id); ok {
		return s.Label()
	}
	return id.String()
}

// collectEdges lists transitions in table order.
func collectEdges(table primitives.TableConfig) []Edge {
	edges := make([]Edge, 0, len(table.Transitions))
	for _, tr := range table.Transitions {
		label := fmt.Sprintf("%s (%d)", tr.Name, tr.Trigger)
		switch {
		case tr.ReturnPrevious:
			// drawn once per state: any state may return
			for _, s := range table.States {
				edges = append(edges, Edge{From: s.Label(), To: previousNode, Label: label})
			}
		case tr.Wildcard():
			edges = append(edges, Edge{From: anyNode, To: nodeName(table, tr.To), Label: label})
		default:
			edges = append(edges, Edge{From: nodeName(table, tr.From), To: nodeName(table, tr.To), Label: label})
		}
	}
	return edges
}

func hasNode(edges []Edge, name string) bool {
	for _, e := range edges {
		if e.From == name || e.To == name {
			return true
		}
	}
	return false
}

func renderState(buf *bytes.Buffer, s primitives.StateConfig, active, initial bool) {
	attrs := fmt.Sprintf("label=%q", fmt.Sprintf("%s (%d)", s.Label(), s.ID))
	if initial {
		attrs += " peripheries=2"
	}
	if active {
		attrs += " style=filled fillcolor=lightgreen"
	}
	fmt.Fprintf(buf, "  %q [%s];\n", s.Label(), attrs)
}
