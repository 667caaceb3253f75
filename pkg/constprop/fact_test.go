package constprop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/l3aro/go-dataflow/pkg/ir"
)

func TestFact_GetAbsent(t *testing.T) {
	f := NewFact()
	x := ir.NewVar("x", ir.TypeInt)

	assert.Equal(t, Undef(), f.Get(x))
	assert.Equal(t, 0, f.Len())
}

func TestFact_Update(t *testing.T) {
	f := NewFact()
	x := ir.NewVar("x", ir.TypeInt)

	assert.True(t, f.Update(x, Const(1)))
	assert.False(t, f.Update(x, Const(1)), "same value is not a change")
	assert.True(t, f.Update(x, Const(2)))
	assert.True(t, f.Update(x, NAC()))
	assert.Equal(t, NAC(), f.Get(x))
}

func TestFact_UpdateUndefRemoves(t *testing.T) {
	f := NewFact()
	x := ir.NewVar("x", ir.TypeInt)

	f.Update(x, Const(1))
	assert.True(t, f.Update(x, Undef()))
	assert.Equal(t, 0, f.Len())
	assert.False(t, f.Update(x, Undef()), "removing an absent var is not a change")
}

func TestFact_CopyIsIndependent(t *testing.T) {
	f := NewFact()
	x := ir.NewVar("x", ir.TypeInt)
	f.Update(x, Const(1))

	c := f.Copy()
	c.Update(x, Const(9))

	assert.Equal(t, Const(1), f.Get(x))
	assert.Equal(t, Const(9), c.Get(x))
}

func TestFact_CopyFrom(t *testing.T) {
	x := ir.NewVar("x", ir.TypeInt)
	y := ir.NewVar("y", ir.TypeInt)

	f := NewFact()
	f.Update(x, Const(1))
	f.Update(y, Const(2))

	other := NewFact()
	other.Update(x, Const(1))

	assert.True(t, f.CopyFrom(other), "dropping a binding is a change")
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, Undef(), f.Get(y))

	assert.False(t, f.CopyFrom(other), "identical contents are not a change")
}

func TestFact_String(t *testing.T) {
	f := NewFact()
	f.Update(ir.NewVar("b", ir.TypeInt), NAC())
	f.Update(ir.NewVar("a", ir.TypeInt), Const(3))

	assert.Equal(t, "{a=3, b=NAC}", f.String())
	assert.Equal(t, "{}", NewFact().String())
}
