// Package livevars implements backward live variable analysis: a
// variable is live at a point when some path from that point reads it
// before overwriting it.
package livevars

import (
	"sort"
	"strings"

	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Fact is a set of live variables.
type Fact struct {
	set map[*ir.Var]struct{}
}

// NewFact returns an empty set.
func NewFact() *Fact {
	return &Fact{set: make(map[*ir.Var]struct{})}
}

// Has reports whether v is in the set.
func (f *Fact) Has(v *ir.Var) bool {
	_, ok := f.set[v]
	return ok
}

// Add inserts v and reports whether the set grew.
func (f *Fact) Add(v *ir.Var) bool {
	if _, ok := f.set[v]; ok {
		return false
	}
	f.set[v] = struct{}{}
	return true
}

// Remove deletes v and reports whether the set shrank.
func (f *Fact) Remove(v *ir.Var) bool {
	if _, ok := f.set[v]; !ok {
		return false
	}
	delete(f.set, v)
	return true
}

// Union adds every element of other to f.
func (f *Fact) Union(other *Fact) {
	for v := range other.set {
		f.set[v] = struct{}{}
	}
}

// Len returns the set size.
func (f *Fact) Len() int {
	return len(f.set)
}

// Each calls fn for every variable in the set.
func (f *Fact) Each(fn func(v *ir.Var)) {
	for v := range f.set {
		fn(v)
	}
}

// Copy returns an independent copy of f.
func (f *Fact) Copy() *Fact {
	c := &Fact{set: make(map[*ir.Var]struct{}, len(f.set))}
	for v := range f.set {
		c.set[v] = struct{}{}
	}
	return c
}

// CopyFrom replaces the contents of f with those of other and reports
// whether f changed.
func (f *Fact) CopyFrom(other *Fact) bool {
	if f.equal(other) {
		return false
	}
	f.set = make(map[*ir.Var]struct{}, len(other.set))
	for v := range other.set {
		f.set[v] = struct{}{}
	}
	return true
}

func (f *Fact) equal(other *Fact) bool {
	if len(f.set) != len(other.set) {
		return false
	}
	for v := range f.set {
		if _, ok := other.set[v]; !ok {
			return false
		}
	}
	return true
}

// String renders the set with variables in name order.
func (f *Fact) String() string {
	names := make([]string, 0, len(f.set))
	for v := range f.set {
		names = append(names, v.Name)
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ", ") + "}"
}

// Analysis is the backward live variables analysis.
type Analysis struct{}

var _ dataflow.Analysis[*Fact] = (*Analysis)(nil)

// New returns the live variables analysis.
func New() *Analysis {
	return &Analysis{}
}

func (*Analysis) Forward() bool {
	return false
}

// NewBoundaryFact returns the empty set: nothing is live at the exit.
func (*Analysis) NewBoundaryFact(g *cfg.CFG) *Fact {
	return NewFact()
}

func (*Analysis) NewInitialFact() *Fact {
	return NewFact()
}

func (*Analysis) MeetInto(fact, target *Fact) {
	target.Union(fact)
}

// TransferNode recomputes the in set from the out set: the definition
// dies, then every use comes alive. The order matters for statements
// like x = x + 1 that both define and use the same variable.
func (*Analysis) TransferNode(s ir.Stmt, in, out *Fact) bool {
	next := out.Copy()
	if def := ir.DefOf(s); def != nil {
		next.Remove(def)
	}
	for _, u := range ir.UsesOf(s) {
		next.Add(u)
	}
	return in.CopyFrom(next)
}
