package deadcode

import (
	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/constprop"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/ir"
	"github.com/l3aro/go-dataflow/pkg/livevars"
)

// Find returns the dead statements of g in statement order: statements
// no execution reaches, plus reachable assignments whose target is never
// read afterwards and whose right side cannot be observed. Statements
// without a source line are synthetic and never reported.
func Find(
	g *cfg.CFG,
	cp *dataflow.Result[*constprop.Fact],
	live *dataflow.Result[*livevars.Fact],
) []ir.Stmt {
	reach := Reachable(g, cp)

	var dead []ir.Stmt
	for _, s := range g.Nodes() {
		if s.Line() <= 0 {
			continue
		}
		if !reach[s.Index()] {
			dead = append(dead, s)
			continue
		}
		if isDeadAssign(s, live) {
			dead = append(dead, s)
		}
	}
	return dead
}

// isDeadAssign reports whether s assigns a variable nothing reads again,
// with a right side whose removal no execution could notice.
func isDeadAssign(s ir.Stmt, live *dataflow.Result[*livevars.Fact]) bool {
	a, ok := s.(*ir.AssignStmt)
	if !ok || a.LHS == nil {
		return false
	}
	if live.OutFactOf(s).Has(a.LHS) {
		return false
	}
	return sideEffectFree(a.RHS)
}

// sideEffectFree reports whether evaluating e can never be observed:
// no allocation, no memory access, no call, and no chance of trapping.
func sideEffectFree(e ir.Exp) bool {
	switch e := e.(type) {
	case *ir.IntLiteral, *ir.VarRef, *ir.LiteralExp:
		return true
	case *ir.BinaryExp:
		if e.Op == ir.OpDiv || e.Op == ir.OpRem {
			return false
		}
		return sideEffectFree(e.Left) && sideEffectFree(e.Right)
	default:
		return false
	}
}
