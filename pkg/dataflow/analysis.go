// Package dataflow provides a generic worklist solver for forward and
// backward dataflow analyses over a control flow graph.
package dataflow

import (
	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Analysis describes one dataflow problem over fact type F. The solver
// drives it to a fixed point without knowing what F contains.
//
// For a forward analysis TransferNode reads in and updates out; for a
// backward analysis it reads out and updates in. Either way it reports
// whether the updated fact changed.
type Analysis[F any] interface {
	// Forward reports the direction of the analysis.
	Forward() bool

	// NewBoundaryFact returns the fact for the boundary node: the entry
	// of a forward analysis, the exit of a backward one.
	NewBoundaryFact(g *cfg.CFG) F

	// NewInitialFact returns the starting fact for every other node.
	NewInitialFact() F

	// MeetInto merges fact into target in place.
	MeetInto(fact, target F)

	// TransferNode applies the node's transfer function and reports
	// whether the computed fact changed.
	TransferNode(s ir.Stmt, in, out F) bool
}

// Result holds the fixed point facts of one analysis run, indexed by
// statement index.
type Result[F any] struct {
	in  []F
	out []F
}

// InFactOf returns the fact holding immediately before s.
func (r *Result[F]) InFactOf(s ir.Stmt) F {
	return r.in[s.Index()]
}

// OutFactOf returns the fact holding immediately after s.
func (r *Result[F]) OutFactOf(s ir.Stmt) F {
	return r.out[s.Index()]
}
