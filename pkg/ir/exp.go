package ir

import (
	"fmt"
	"strings"
)

// Exp is an expression appearing on the right-hand side of an assignment
// or as a branch condition.
type Exp interface {
	isExp()
	String() string
}

// BinaryOp identifies a binary operator. Operators group into four
// families: arithmetic, bitwise, shift and relational.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem

	OpAnd
	OpOr
	OpXor

	OpShl
	OpShr
	OpUshr

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var opSymbols = map[BinaryOp]string{
	OpAdd:  "+",
	OpSub:  "-",
	OpMul:  "*",
	OpDiv:  "/",
	OpRem:  "%",
	OpAnd:  "&",
	OpOr:   "|",
	OpXor:  "^",
	OpShl:  "<<",
	OpShr:  ">>",
	OpUshr: ">>>",
	OpEq:   "==",
	OpNe:   "!=",
	OpLt:   "<",
	OpLe:   "<=",
	OpGt:   ">",
	OpGe:   ">=",
}

func (op BinaryOp) String() string {
	if s, ok := opSymbols[op]; ok {
		return s
	}
	return "?"
}

// IsArithmetic reports whether op is ADD, SUB, MUL, DIV or REM.
func (op BinaryOp) IsArithmetic() bool {
	return op >= OpAdd && op <= OpRem
}

// IsBitwise reports whether op is AND, OR or XOR.
func (op BinaryOp) IsBitwise() bool {
	return op >= OpAnd && op <= OpXor
}

// IsShift reports whether op is SHL, SHR or USHR.
func (op BinaryOp) IsShift() bool {
	return op >= OpShl && op <= OpUshr
}

// IsRelational reports whether op is EQ, NE, LT, LE, GT or GE.
func (op BinaryOp) IsRelational() bool {
	return op >= OpEq && op <= OpGe
}

// BinaryOpFromSymbol maps an operator token to its BinaryOp. The second
// result is false for operators outside the four families.
func BinaryOpFromSymbol(sym string) (BinaryOp, bool) {
	for op, s := range opSymbols {
		if s == sym {
			return op, true
		}
	}
	return 0, false
}

// IntLiteral is a 32-bit integer constant. Boolean and char literals are
// lowered to their integer values.
type IntLiteral struct {
	Value int32
}

// VarRef reads the current value of a variable.
type VarRef struct {
	Var *Var
}

// BinaryExp applies a binary operator to two operand expressions.
type BinaryExp struct {
	Op    BinaryOp
	Left  Exp
	Right Exp
}

// NewExp is an object or array allocation. Args holds the constructor
// arguments or array dimensions, visible to liveness.
type NewExp struct {
	Class string
	Args  []Exp
}

// CastExp converts its operand to the named target type.
type CastExp struct {
	Target  string
	Operand Exp
}

// FieldAccess reads an instance or static field. Base is nil for fields
// referenced by bare name.
type FieldAccess struct {
	Base  Exp
	Field string
}

// ArrayAccess reads an array element.
type ArrayAccess struct {
	Base  Exp
	Index Exp
}

// CallExp is a method invocation. Recv is nil for calls without an
// explicit receiver expression.
type CallExp struct {
	Recv   Exp
	Callee string
	Args   []Exp
}

// LiteralExp is a literal outside the integer domain: string, null or
// floating point. It never folds to a constant but has no side effects.
type LiteralExp struct {
	Text string
}

// OpaqueExp stands for a source expression outside the abstract domain,
// such as a logical && / || or an embedded assignment. It always
// evaluates to an unknown value and is treated as potentially
// side-effecting. Vars lists the variables the original expression reads
// so that liveness still sees them.
type OpaqueExp struct {
	Text string
	Vars []*Var
}

func (*IntLiteral) isExp()  {}
func (*VarRef) isExp()      {}
func (*BinaryExp) isExp()   {}
func (*NewExp) isExp()      {}
func (*CastExp) isExp()     {}
func (*FieldAccess) isExp() {}
func (*ArrayAccess) isExp() {}
func (*CallExp) isExp()     {}
func (*LiteralExp) isExp()  {}
func (*OpaqueExp) isExp()   {}

func (e *LiteralExp) String() string {
	return e.Text
}

func (e *IntLiteral) String() string {
	return fmt.Sprintf("%d", e.Value)
}

func (e *VarRef) String() string {
	return e.Var.Name
}

func (e *BinaryExp) String() string {
	return fmt.Sprintf("%s %s %s", e.Left, e.Op, e.Right)
}

func (e *NewExp) String() string {
	if len(e.Args) == 0 {
		return "new " + e.Class
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("new %s(%s)", e.Class, strings.Join(args, ", "))
}

func (e *CastExp) String() string {
	return fmt.Sprintf("(%s) %s", e.Target, e.Operand)
}

func (e *FieldAccess) String() string {
	if e.Base == nil {
		return e.Field
	}
	return fmt.Sprintf("%s.%s", e.Base, e.Field)
}

func (e *ArrayAccess) String() string {
	return fmt.Sprintf("%s[%s]", e.Base, e.Index)
}

func (e *CallExp) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	callee := e.Callee
	if e.Recv != nil {
		callee = e.Recv.String() + "." + e.Callee
	}
	return fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", "))
}

func (e *OpaqueExp) String() string {
	return e.Text
}

// Int returns an integer literal expression.
func Int(v int32) *IntLiteral {
	return &IntLiteral{Value: v}
}

// Ref returns a reference to v.
func Ref(v *Var) *VarRef {
	return &VarRef{Var: v}
}

// Bin returns a binary expression applying op to left and right.
func Bin(op BinaryOp, left, right Exp) *BinaryExp {
	return &BinaryExp{Op: op, Left: left, Right: right}
}
