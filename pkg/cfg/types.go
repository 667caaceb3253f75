package cfg

// Summary is the serializable description of a CFG, used by the CLI
// output and the analysis cache.
type Summary struct {
	Method string     `json:"method" msgpack:"method"`
	Params []string   `json:"params,omitempty" msgpack:"params"`
	Entry  int        `json:"entry" msgpack:"entry"`
	Exit   int        `json:"exit" msgpack:"exit"`
	Nodes  []NodeInfo `json:"nodes" msgpack:"nodes"`
	Edges  []EdgeInfo `json:"edges" msgpack:"edges"`
}

// NodeInfo describes one statement of the graph.
type NodeInfo struct {
	Index int    `json:"index" msgpack:"index"`
	Line  int    `json:"line,omitempty" msgpack:"line"`
	Text  string `json:"text" msgpack:"text"`
}

// EdgeInfo describes one control flow edge. CaseValue is present only on
// switch_case edges.
type EdgeInfo struct {
	Source    int      `json:"source" msgpack:"source"`
	Target    int      `json:"target" msgpack:"target"`
	Kind      EdgeKind `json:"kind" msgpack:"kind"`
	CaseValue *int32   `json:"case_value,omitempty" msgpack:"case_value,omitempty"`
}

// Summarize flattens g into its serializable form.
func Summarize(g *CFG) *Summary {
	m := g.Method()
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Type.String() + " " + p.Name
	}

	s := &Summary{
		Method: m.Name,
		Params: params,
		Entry:  g.Entry().Index(),
		Exit:   g.Exit().Index(),
	}
	for _, node := range g.Nodes() {
		s.Nodes = append(s.Nodes, NodeInfo{
			Index: node.Index(),
			Line:  node.Line(),
			Text:  node.String(),
		})
		for _, e := range g.OutEdgesOf(node) {
			info := EdgeInfo{
				Source: e.Source.Index(),
				Target: e.Target.Index(),
				Kind:   e.Kind,
			}
			if e.Kind == EdgeSwitchCase {
				v := e.CaseValue
				info.CaseValue = &v
			}
			s.Edges = append(s.Edges, info)
		}
	}
	return s
}
