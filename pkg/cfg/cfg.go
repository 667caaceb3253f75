// Package cfg provides the statement-level control flow graph that the
// dataflow analyses run on. Nodes are IR statements with dense indices;
// edges carry the branch kind that produced them, so that reachability
// can prune individual branch outcomes.
package cfg

import (
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// EdgeKind classifies a control flow edge.
type EdgeKind string

const (
	EdgeNormal        EdgeKind = "normal"
	EdgeIfTrue        EdgeKind = "if_true"
	EdgeIfFalse       EdgeKind = "if_false"
	EdgeSwitchCase    EdgeKind = "switch_case"
	EdgeSwitchDefault EdgeKind = "switch_default"
)

// Edge is a directed control flow edge. CaseValue is meaningful only for
// EdgeSwitchCase edges.
type Edge struct {
	Source    ir.Stmt
	Target    ir.Stmt
	Kind      EdgeKind
	CaseValue int32
}

// Method identifies the analyzed method and its declared parameters.
type Method struct {
	Name   string
	Params []*ir.Var
}

// CFG is the control flow graph of one method body. The node list is
// dense: a statement's index is its position in Nodes. The entry marker
// is always index 0 and the exit marker the last index; both are
// synthetic with line 0.
type CFG struct {
	method *Method
	nodes  []ir.Stmt
	out    [][]*Edge
	in     [][]*Edge
	entry  ir.Stmt
	exit   ir.Stmt
}

// Method returns the owning method.
func (g *CFG) Method() *Method {
	return g.method
}

// Entry returns the synthetic entry marker.
func (g *CFG) Entry() ir.Stmt {
	return g.entry
}

// Exit returns the synthetic exit marker.
func (g *CFG) Exit() ir.Stmt {
	return g.exit
}

// Nodes returns every statement in index order. The returned slice is
// shared and must not be modified.
func (g *CFG) Nodes() []ir.Stmt {
	return g.nodes
}

// Size returns the number of statements, entry and exit included.
func (g *CFG) Size() int {
	return len(g.nodes)
}

// OutEdgesOf returns the outgoing edges of s.
func (g *CFG) OutEdgesOf(s ir.Stmt) []*Edge {
	return g.out[s.Index()]
}

// InEdgesOf returns the incoming edges of s.
func (g *CFG) InEdgesOf(s ir.Stmt) []*Edge {
	return g.in[s.Index()]
}

// SuccsOf returns the successor statements of s.
func (g *CFG) SuccsOf(s ir.Stmt) []ir.Stmt {
	edges := g.out[s.Index()]
	succs := make([]ir.Stmt, len(edges))
	for i, e := range edges {
		succs[i] = e.Target
	}
	return succs
}

// PredsOf returns the predecessor statements of s.
func (g *CFG) PredsOf(s ir.Stmt) []ir.Stmt {
	edges := g.in[s.Index()]
	preds := make([]ir.Stmt, len(edges))
	for i, e := range edges {
		preds[i] = e.Source
	}
	return preds
}
