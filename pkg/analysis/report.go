package analysis

import (
	"sort"

	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/constprop"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/ir"
	"github.com/l3aro/go-dataflow/pkg/livevars"
)

// Report is the full analysis output for one method. It carries every
// view the CLI can print, so one cached report serves all commands.
type Report struct {
	File      string       `json:"file,omitempty" msgpack:"file,omitempty"`
	Method    string       `json:"method" msgpack:"method"`
	Graph     *cfg.Summary `json:"graph,omitempty" msgpack:"graph,omitempty"`
	Constants []StmtFacts  `json:"constants,omitempty" msgpack:"constants,omitempty"`
	Liveness  []StmtLive   `json:"liveness,omitempty" msgpack:"liveness,omitempty"`
	Dead      []Finding    `json:"dead" msgpack:"dead"`
}

// StmtFacts shows the constant bindings around one statement.
type StmtFacts struct {
	Index int               `json:"index" msgpack:"index"`
	Line  int               `json:"line,omitempty" msgpack:"line,omitempty"`
	Text  string            `json:"text" msgpack:"text"`
	In    map[string]string `json:"in,omitempty" msgpack:"in,omitempty"`
	Out   map[string]string `json:"out,omitempty" msgpack:"out,omitempty"`
}

// StmtLive shows the live variables around one statement.
type StmtLive struct {
	Index int      `json:"index" msgpack:"index"`
	Line  int      `json:"line,omitempty" msgpack:"line,omitempty"`
	Text  string   `json:"text" msgpack:"text"`
	In    []string `json:"in,omitempty" msgpack:"in,omitempty"`
	Out   []string `json:"out,omitempty" msgpack:"out,omitempty"`
}

// Finding is one piece of dead code.
type Finding struct {
	Index int    `json:"index" msgpack:"index"`
	Line  int    `json:"line" msgpack:"line"`
	Text  string `json:"text" msgpack:"text"`
	Kind  string `json:"kind" msgpack:"kind"`
}

// Finding kinds.
const (
	KindUnreachable    = "unreachable"
	KindDeadAssignment = "dead-assignment"
)

func constantsView(g *cfg.CFG, cp *dataflow.Result[*constprop.Fact]) []StmtFacts {
	out := make([]StmtFacts, 0, g.Size())
	for _, s := range g.Nodes() {
		out = append(out, StmtFacts{
			Index: s.Index(),
			Line:  s.Line(),
			Text:  s.String(),
			In:    factMap(cp.InFactOf(s)),
			Out:   factMap(cp.OutFactOf(s)),
		})
	}
	return out
}

func factMap(f *constprop.Fact) map[string]string {
	if f.Len() == 0 {
		return nil
	}
	m := make(map[string]string, f.Len())
	f.Each(func(v *ir.Var, val constprop.Value) {
		m[v.Name] = val.String()
	})
	return m
}

func livenessView(g *cfg.CFG, live *dataflow.Result[*livevars.Fact]) []StmtLive {
	out := make([]StmtLive, 0, g.Size())
	for _, s := range g.Nodes() {
		out = append(out, StmtLive{
			Index: s.Index(),
			Line:  s.Line(),
			Text:  s.String(),
			In:    liveNames(live.InFactOf(s)),
			Out:   liveNames(live.OutFactOf(s)),
		})
	}
	return out
}

func liveNames(f *livevars.Fact) []string {
	if f.Len() == 0 {
		return nil
	}
	names := make([]string, 0, f.Len())
	f.Each(func(v *ir.Var) {
		names = append(names, v.Name)
	})
	sort.Strings(names)
	return names
}

func findings(dead []ir.Stmt, reach []bool) []Finding {
	out := make([]Finding, 0, len(dead))
	for _, s := range dead {
		kind := KindDeadAssignment
		if !reach[s.Index()] {
			kind = KindUnreachable
		}
		out = append(out, Finding{
			Index: s.Index(),
			Line:  s.Line(),
			Text:  s.String(),
			Kind:  kind,
		})
	}
	return out
}

// DeadLines returns the distinct source lines of the findings, sorted.
func (r *Report) DeadLines() []int {
	seen := make(map[int]struct{})
	for _, f := range r.Dead {
		seen[f.Line] = struct{}{}
	}
	lines := make([]int, 0, len(seen))
	for l := range seen {
		lines = append(lines, l)
	}
	sort.Ints(lines)
	return lines
}
