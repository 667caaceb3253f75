// Package constprop implements constant propagation for integer-valued
// local variables. Each variable is mapped onto a three level lattice:
// undefined, a single known constant, or not-a-constant.
package constprop

import "strconv"

type valueKind uint8

const (
	kindUndef valueKind = iota
	kindConst
	kindNAC
)

// Value is one point of the constant lattice. The zero Value is undef.
type Value struct {
	kind valueKind
	c    int32
}

// Undef returns the bottom element: no value has been seen yet.
func Undef() Value {
	return Value{}
}

// NAC returns the top element: the variable may hold more than one value.
func NAC() Value {
	return Value{kind: kindNAC}
}

// Const returns the lattice point for a single known constant.
func Const(c int32) Value {
	return Value{kind: kindConst, c: c}
}

func (v Value) IsUndef() bool {
	return v.kind == kindUndef
}

func (v Value) IsConst() bool {
	return v.kind == kindConst
}

func (v Value) IsNAC() bool {
	return v.kind == kindNAC
}

// Constant returns the constant held by v, if it holds one.
func (v Value) Constant() (int32, bool) {
	return v.c, v.kind == kindConst
}

func (v Value) String() string {
	switch v.kind {
	case kindConst:
		return strconv.FormatInt(int64(v.c), 10)
	case kindNAC:
		return "NAC"
	default:
		return "undef"
	}
}

// Meet combines two lattice points. NAC absorbs everything, undef yields
// to everything, and two constants survive only when they agree.
func Meet(a, b Value) Value {
	switch {
	case a.IsNAC() || b.IsNAC():
		return NAC()
	case a.IsUndef():
		return b
	case b.IsUndef():
		return a
	case a.c == b.c:
		return a
	default:
		return NAC()
	}
}
