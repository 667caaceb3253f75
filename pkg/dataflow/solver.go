package dataflow

import (
	"container/list"

	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Solve runs the analysis to its fixed point over g using a worklist
// algorithm and returns the in and out facts of every node.
func Solve[F any](g *cfg.CFG, a Analysis[F]) *Result[F] {
	return SolveBounded(g, a, 0)
}

// SolveBounded is Solve with a cap on worklist visits, zero meaning no
// cap. When the cap is hit the facts computed so far are returned and
// may not have converged.
func SolveBounded[F any](g *cfg.CFG, a Analysis[F], maxVisits int) *Result[F] {
	r := initialize(g, a)
	if a.Forward() {
		solveForward(g, a, r, maxVisits)
	} else {
		solveBackward(g, a, r, maxVisits)
	}
	return r
}

// initialize seeds the boundary node with the boundary fact and every
// other node with the initial fact. The boundary fact sits on the OUT
// side of the entry for a forward analysis and on the IN side of the
// exit for a backward one, so transfers never overwrite it.
func initialize[F any](g *cfg.CFG, a Analysis[F]) *Result[F] {
	n := g.Size()
	r := &Result[F]{in: make([]F, n), out: make([]F, n)}
	for _, s := range g.Nodes() {
		r.in[s.Index()] = a.NewInitialFact()
		r.out[s.Index()] = a.NewInitialFact()
	}
	if a.Forward() {
		r.out[g.Entry().Index()] = a.NewBoundaryFact(g)
	} else {
		r.in[g.Exit().Index()] = a.NewBoundaryFact(g)
	}
	return r
}

// worklist is a FIFO queue of statements with duplicate suppression.
type worklist struct {
	queue  *list.List
	queued map[int]bool
}

func newWorklist() *worklist {
	return &worklist{queue: list.New(), queued: make(map[int]bool)}
}

func (w *worklist) push(s ir.Stmt) {
	if w.queued[s.Index()] {
		return
	}
	w.queued[s.Index()] = true
	w.queue.PushBack(s)
}

func (w *worklist) pop() (ir.Stmt, bool) {
	front := w.queue.Front()
	if front == nil {
		return nil, false
	}
	s := w.queue.Remove(front).(ir.Stmt)
	w.queued[s.Index()] = false
	return s, true
}

func solveForward[F any](g *cfg.CFG, a Analysis[F], r *Result[F], maxVisits int) {
	entry := g.Entry()
	w := newWorklist()
	for _, s := range g.Nodes() {
		if s == entry {
			continue
		}
		w.push(s)
	}

	visits := 0
	for {
		if maxVisits > 0 && visits >= maxVisits {
			return
		}
		s, ok := w.pop()
		if !ok {
			return
		}
		visits++
		in := r.in[s.Index()]
		for _, pred := range g.PredsOf(s) {
			a.MeetInto(r.out[pred.Index()], in)
		}
		if a.TransferNode(s, in, r.out[s.Index()]) {
			for _, succ := range g.SuccsOf(s) {
				w.push(succ)
			}
		}
	}
}

func solveBackward[F any](g *cfg.CFG, a Analysis[F], r *Result[F], maxVisits int) {
	exit := g.Exit()
	w := newWorklist()
	for _, s := range g.Nodes() {
		if s == exit {
			continue
		}
		w.push(s)
	}

	visits := 0
	for {
		if maxVisits > 0 && visits >= maxVisits {
			return
		}
		s, ok := w.pop()
		if !ok {
			return
		}
		visits++
		out := r.out[s.Index()]
		for _, succ := range g.SuccsOf(s) {
			a.MeetInto(r.in[succ.Index()], out)
		}
		if a.TransferNode(s, r.in[s.Index()], out) {
			for _, pred := range g.PredsOf(s) {
				w.push(pred)
			}
		}
	}
}
