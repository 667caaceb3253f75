package constprop

import (
	"sort"
	"strings"

	"github.com/l3aro/go-dataflow/pkg/ir"
)

// Fact maps variables to lattice values. Variables absent from the map
// are undef, so the empty fact is the initial fact and storing undef
// removes the binding.
type Fact struct {
	vals map[*ir.Var]Value
}

// NewFact returns an empty fact.
func NewFact() *Fact {
	return &Fact{vals: make(map[*ir.Var]Value)}
}

// Get returns the value bound to v, or undef when v is unbound.
func (f *Fact) Get(v *ir.Var) Value {
	return f.vals[v]
}

// Update binds v to val and reports whether the fact changed. Binding
// undef removes v.
func (f *Fact) Update(v *ir.Var, val Value) bool {
	old, present := f.vals[v]
	if val.IsUndef() {
		if !present {
			return false
		}
		delete(f.vals, v)
		return true
	}
	if present && old == val {
		return false
	}
	f.vals[v] = val
	return true
}

// Len returns the number of bound variables.
func (f *Fact) Len() int {
	return len(f.vals)
}

// Each calls fn for every bound variable.
func (f *Fact) Each(fn func(v *ir.Var, val Value)) {
	for v, val := range f.vals {
		fn(v, val)
	}
}

// Copy returns an independent copy of f.
func (f *Fact) Copy() *Fact {
	c := &Fact{vals: make(map[*ir.Var]Value, len(f.vals))}
	for v, val := range f.vals {
		c.vals[v] = val
	}
	return c
}

// CopyFrom replaces the contents of f with those of other and reports
// whether f changed.
func (f *Fact) CopyFrom(other *Fact) bool {
	if f.equal(other) {
		return false
	}
	f.vals = make(map[*ir.Var]Value, len(other.vals))
	for v, val := range other.vals {
		f.vals[v] = val
	}
	return true
}

func (f *Fact) equal(other *Fact) bool {
	if len(f.vals) != len(other.vals) {
		return false
	}
	for v, val := range f.vals {
		if o, ok := other.vals[v]; !ok || o != val {
			return false
		}
	}
	return true
}

// String renders the fact with variables in name order.
func (f *Fact) String() string {
	if len(f.vals) == 0 {
		return "{}"
	}
	names := make([]*ir.Var, 0, len(f.vals))
	for v := range f.vals {
		names = append(names, v)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Name < names[j].Name })

	var b strings.Builder
	b.WriteByte('{')
	for i, v := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.Name)
		b.WriteByte('=')
		b.WriteString(f.vals[v].String())
	}
	b.WriteByte('}')
	return b.String()
}
