// Package deadcode detects statements of a method that can never run or
// whose results are never used. It combines a reachability walk over the
// control flow graph, pruned by constant propagation facts, with dead
// assignment detection backed by live variable facts.
package deadcode

import (
	"container/list"

	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/constprop"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Reachable walks the graph from the entry, following only the branch
// edges that the constant facts allow, and reports per statement index
// whether the statement can execute.
func Reachable(g *cfg.CFG, cp *dataflow.Result[*constprop.Fact]) []bool {
	visited := make([]bool, g.Size())
	queue := list.New()
	queue.PushBack(g.Entry())
	visited[g.Entry().Index()] = true

	for queue.Len() > 0 {
		s := queue.Remove(queue.Front()).(ir.Stmt)
		for _, e := range liveEdges(g, s, cp) {
			if visited[e.Target.Index()] {
				continue
			}
			visited[e.Target.Index()] = true
			queue.PushBack(e.Target)
		}
	}
	return visited
}

// liveEdges returns the out edges of s that some execution can take.
func liveEdges(g *cfg.CFG, s ir.Stmt, cp *dataflow.Result[*constprop.Fact]) []*cfg.Edge {
	out := g.OutEdgesOf(s)
	switch s := s.(type) {
	case *ir.IfStmt:
		cond := constprop.Evaluate(s.Cond, cp.InFactOf(s))
		c, ok := cond.Constant()
		if !ok {
			return out
		}
		want := cfg.EdgeIfFalse
		if c != 0 {
			want = cfg.EdgeIfTrue
		}
		return edgesOfKind(out, want)
	case *ir.SwitchStmt:
		disc := constprop.Evaluate(s.Disc, cp.InFactOf(s))
		c, ok := disc.Constant()
		if !ok {
			return out
		}
		return switchEdges(out, c)
	default:
		return out
	}
}

func edgesOfKind(edges []*cfg.Edge, kind cfg.EdgeKind) []*cfg.Edge {
	var live []*cfg.Edge
	for _, e := range edges {
		if e.Kind == kind {
			live = append(live, e)
		}
	}
	return live
}

// switchEdges picks the edges a known discriminant can take: the
// matching case, or the default when no case matches. Edges that are
// neither case nor default stand for targets the frontend could not
// resolve to a constant, so they stay live unconditionally.
func switchEdges(edges []*cfg.Edge, disc int32) []*cfg.Edge {
	var live []*cfg.Edge
	matched := false
	for _, e := range edges {
		switch e.Kind {
		case cfg.EdgeSwitchCase:
			if e.CaseValue == disc {
				matched = true
				live = append(live, e)
			}
		case cfg.EdgeSwitchDefault:
		default:
			live = append(live, e)
		}
	}
	if !matched {
		for _, e := range edges {
			if e.Kind == cfg.EdgeSwitchDefault {
				live = append(live, e)
			}
		}
	}
	return live
}
