package constprop

import "github.com/l3aro/go-dataflow/pkg/ir"

// Evaluate computes the lattice value of e under the variable bindings
// of in. Anything outside the integer fragment evaluates to NAC.
func Evaluate(e ir.Exp, in *Fact) Value {
	switch e := e.(type) {
	case *ir.IntLiteral:
		return Const(e.Value)
	case *ir.VarRef:
		if !ir.CanHoldInt(e.Var.Type) {
			return NAC()
		}
		return in.Get(e.Var)
	case *ir.BinaryExp:
		return evaluateBinary(e, in)
	default:
		return NAC()
	}
}

func evaluateBinary(e *ir.BinaryExp, in *Fact) Value {
	left := Evaluate(e.Left, in)
	right := Evaluate(e.Right, in)

	// Division or remainder by a known zero traps at runtime, so the
	// expression produces no value at all. This is checked before the
	// NAC cases: NAC / 0 still traps.
	if e.Op == ir.OpDiv || e.Op == ir.OpRem {
		if r, ok := right.Constant(); ok && r == 0 {
			return Undef()
		}
	}

	if left.IsNAC() || right.IsNAC() {
		return NAC()
	}
	l, lok := left.Constant()
	r, rok := right.Constant()
	if !lok || !rok {
		return Undef()
	}
	return fold(e.Op, l, r)
}

// fold applies op to two int constants with Java int semantics: 32 bit
// two's complement wraparound and shift counts masked to five bits.
func fold(op ir.BinaryOp, a, b int32) Value {
	switch op {
	case ir.OpAdd:
		return Const(a + b)
	case ir.OpSub:
		return Const(a - b)
	case ir.OpMul:
		return Const(a * b)
	case ir.OpDiv:
		if b == 0 {
			return Undef()
		}
		return Const(a / b)
	case ir.OpRem:
		if b == 0 {
			return Undef()
		}
		return Const(a % b)
	case ir.OpAnd:
		return Const(a & b)
	case ir.OpOr:
		return Const(a | b)
	case ir.OpXor:
		return Const(a ^ b)
	case ir.OpShl:
		return Const(a << (uint32(b) & 31))
	case ir.OpShr:
		return Const(a >> (uint32(b) & 31))
	case ir.OpUshr:
		return Const(int32(uint32(a) >> (uint32(b) & 31)))
	case ir.OpEq:
		return boolConst(a == b)
	case ir.OpNe:
		return boolConst(a != b)
	case ir.OpLt:
		return boolConst(a < b)
	case ir.OpLe:
		return boolConst(a <= b)
	case ir.OpGt:
		return boolConst(a > b)
	case ir.OpGe:
		return boolConst(a >= b)
	default:
		return NAC()
	}
}

func boolConst(b bool) Value {
	if b {
		return Const(1)
	}
	return Const(0)
}
