package textproc

import "fmt"

// GenerateFlowchart builds a linear chain from start through every qualifying line.
// Decision nodes get a "Yes" out-edge; no alternate branch is generated.
func (t *Transformer) GenerateFlowchart(text string) Flowchart {
	chart := Flowchart{
		Nodes: []FlowchartNode{{
			ID:       "start",
			Label:    "Start",
			Type:     NodeStart,
			Position: Position{X: t.layout.StartX, Y: t.layout.StartY},
		}},
		Edges: []FlowchartEdge{},
	}

	prev := chart.Nodes[0]
	for _, line := range splitLines(text) {
		if runeLen(line) < minFlowchartLine {
			continue
		}
		label, typ := t.classifyStep(line)
		index := len(chart.Nodes)
		node := FlowchartNode{
			ID:       fmt.Sprintf("node-%d", index-1),
			Label:    truncate(label, maxLabelLength),
			Type:     typ,
			Position: t.gridPosition(index),
		}
		chart.Nodes = append(chart.Nodes, node)
		chart.Edges = append(chart.Edges, edge(prev, node))
		prev = node
	}

	if prev.Type != NodeStart {
		end := FlowchartNode{
			ID:       "end",
			Label:    "End",
			Type:     NodeEnd,
			Position: Position{X: prev.Position.X, Y: prev.Position.Y + t.layout.SpacingY},
		}
		chart.Nodes = append(chart.Nodes, end)
		chart.Edges = append(chart.Edges, edge(prev, end))
	}

	return chart
}

// classifyStep returns the label and node type of the first rule matching line.
func (t *Transformer) classifyStep(line string) (string, NodeType) {
	for _, r := range t.flowchartRules {
		m := r.regex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		groups := captures(r.regex, m, line)
		for _, name := range r.Capitalize {
			groups[name] = capitalize(groups[name])
		}
		if label := expand(r.Label, groups); label != "" {
			return label, r.Type
		}
	}
	return line, NodeProcess
}

func (t *Transformer) gridPosition(index int) Position {
	col := index % t.layout.Columns
	row := index / t.layout.Columns
	return Position{
		X: t.layout.StartX + col*t.layout.SpacingX,
		Y: t.layout.StartY + (row+1)*t.layout.SpacingY,
	}
}

func edge(from, to FlowchartNode) FlowchartEdge {
	e := FlowchartEdge{
		ID:     fmt.Sprintf("edge-%s-%s", from.ID, to.ID),
		Source: from.ID,
		Target: to.ID,
	}
	if from.Type == NodeDecision {
		e.Label = "Yes"
	}
	return e
}
