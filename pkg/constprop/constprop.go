package constprop

import (
	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Analysis is the forward constant propagation analysis. Solve it with
// the dataflow package to obtain per statement facts.
type Analysis struct{}

var _ dataflow.Analysis[*Fact] = (*Analysis)(nil)

// New returns the constant propagation analysis.
func New() *Analysis {
	return &Analysis{}
}

func (*Analysis) Forward() bool {
	return true
}

// NewBoundaryFact binds every integer parameter to NAC, since callers
// may pass anything.
func (*Analysis) NewBoundaryFact(g *cfg.CFG) *Fact {
	f := NewFact()
	for _, p := range g.Method().Params {
		if ir.CanHoldInt(p.Type) {
			f.Update(p, NAC())
		}
	}
	return f
}

func (*Analysis) NewInitialFact() *Fact {
	return NewFact()
}

// MeetInto merges fact into target pointwise.
func (*Analysis) MeetInto(fact, target *Fact) {
	fact.Each(func(v *ir.Var, val Value) {
		target.Update(v, Meet(val, target.Get(v)))
	})
}

// TransferNode recomputes the out fact from the in fact. Only an
// assignment to an integer variable changes the fact; every other
// statement passes it through.
func (*Analysis) TransferNode(s ir.Stmt, in, out *Fact) bool {
	next := in.Copy()
	if a, ok := s.(*ir.AssignStmt); ok && a.LHS != nil && ir.CanHoldInt(a.LHS.Type) {
		next.Update(a.LHS, Evaluate(a.RHS, in))
	}
	return out.CopyFrom(next)
}
