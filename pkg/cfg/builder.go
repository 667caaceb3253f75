package cfg

import (
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Builder assembles a CFG incrementally. Statements receive dense indices
// in insertion order; the entry marker is created up front at index 0 and
// the exit marker is appended by Finish. Edges may reference the exit
// marker before Finish is called.
type Builder struct {
	method *Method
	nodes  []ir.Stmt
	edges  []*Edge
	entry  *ir.NopStmt
	exit   *ir.NopStmt
}

// NewBuilder starts a graph for the named method with the given
// parameters.
func NewBuilder(name string, params ...*ir.Var) *Builder {
	entry := &ir.NopStmt{Text: "entry"}
	exit := &ir.NopStmt{Text: "exit"}
	entry.Idx = 0
	exit.Idx = -1
	return &Builder{
		method: &Method{Name: name, Params: params},
		nodes:  []ir.Stmt{entry},
		entry:  entry,
		exit:   exit,
	}
}

// Entry returns the entry marker.
func (b *Builder) Entry() ir.Stmt {
	return b.entry
}

// Exit returns the exit marker. Its index is assigned by Finish.
func (b *Builder) Exit() ir.Stmt {
	return b.exit
}

// Add appends s to the graph, assigning the next index, and returns s.
func (b *Builder) Add(s ir.Stmt) ir.Stmt {
	s.(indexSetter).SetIndex(len(b.nodes))
	b.nodes = append(b.nodes, s)
	return s
}

type indexSetter interface {
	SetIndex(int)
}

// Len returns the number of statements added so far, entry included.
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Node returns the statement at index i among those added so far.
func (b *Builder) Node(i int) ir.Stmt {
	return b.nodes[i]
}

// AddEdge connects from to to with the given kind.
func (b *Builder) AddEdge(from, to ir.Stmt, kind EdgeKind) {
	b.edges = append(b.edges, &Edge{Source: from, Target: to, Kind: kind})
}

// AddCaseEdge connects a switch statement to the target of the case with
// constant value.
func (b *Builder) AddCaseEdge(from, to ir.Stmt, value int32) {
	b.edges = append(b.edges, &Edge{
		Source:    from,
		Target:    to,
		Kind:      EdgeSwitchCase,
		CaseValue: value,
	})
}

// Finish appends the exit marker, resolves adjacency and returns the
// completed graph. The builder must not be used afterwards.
func (b *Builder) Finish() *CFG {
	b.exit.SetIndex(len(b.nodes))
	b.nodes = append(b.nodes, b.exit)

	n := len(b.nodes)
	g := &CFG{
		method: b.method,
		nodes:  b.nodes,
		out:    make([][]*Edge, n),
		in:     make([][]*Edge, n),
		entry:  b.entry,
		exit:   b.exit,
	}
	for _, e := range b.edges {
		g.out[e.Source.Index()] = append(g.out[e.Source.Index()], e)
		g.in[e.Target.Index()] = append(g.in[e.Target.Index()], e)
	}
	return g
}
