package ir

import "testing"

func TestCanHoldInt(t *testing.T) {
	tests := []struct {
		typ  Type
		want bool
	}{
		{TypeByte, true},
		{TypeShort, true},
		{TypeInt, true},
		{TypeChar, true},
		{TypeBoolean, true},
		{TypeLong, false},
		{TypeFloat, false},
		{TypeDouble, false},
		{TypeRef, false},
		{TypeVoid, false},
		{TypeUnknown, false},
	}

	for _, tt := range tests {
		if got := CanHoldInt(tt.typ); got != tt.want {
			t.Errorf("CanHoldInt(%s) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestTypeFromName(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"int", TypeInt},
		{"boolean", TypeBoolean},
		{"char", TypeChar},
		{"byte", TypeByte},
		{"short", TypeShort},
		{"long", TypeLong},
		{"double", TypeDouble},
		{"float", TypeFloat},
		{"void", TypeVoid},
		{"String", TypeRef},
		{"int[]", TypeRef},
		{"Object", TypeRef},
		{"", TypeUnknown},
	}

	for _, tt := range tests {
		if got := TypeFromName(tt.name); got != tt.want {
			t.Errorf("TypeFromName(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestBinaryOpFamilies(t *testing.T) {
	arith := []BinaryOp{OpAdd, OpSub, OpMul, OpDiv, OpRem}
	bitwise := []BinaryOp{OpAnd, OpOr, OpXor}
	shift := []BinaryOp{OpShl, OpShr, OpUshr}
	relational := []BinaryOp{OpEq, OpNe, OpLt, OpLe, OpGt, OpGe}

	for _, op := range arith {
		if !op.IsArithmetic() || op.IsBitwise() || op.IsShift() || op.IsRelational() {
			t.Errorf("op %s: wrong family classification", op)
		}
	}
	for _, op := range bitwise {
		if !op.IsBitwise() || op.IsArithmetic() || op.IsShift() || op.IsRelational() {
			t.Errorf("op %s: wrong family classification", op)
		}
	}
	for _, op := range shift {
		if !op.IsShift() || op.IsArithmetic() || op.IsBitwise() || op.IsRelational() {
			t.Errorf("op %s: wrong family classification", op)
		}
	}
	for _, op := range relational {
		if !op.IsRelational() || op.IsArithmetic() || op.IsBitwise() || op.IsShift() {
			t.Errorf("op %s: wrong family classification", op)
		}
	}
}

func TestBinaryOpFromSymbol(t *testing.T) {
	for op, sym := range map[BinaryOp]string{
		OpAdd: "+", OpRem: "%", OpXor: "^", OpUshr: ">>>", OpLe: "<=",
	} {
		got, ok := BinaryOpFromSymbol(sym)
		if !ok || got != op {
			t.Errorf("BinaryOpFromSymbol(%q) = %v, %v, want %v", sym, got, ok, op)
		}
	}

	if _, ok := BinaryOpFromSymbol("&&"); ok {
		t.Error("BinaryOpFromSymbol(\"&&\") should not resolve")
	}
	if _, ok := BinaryOpFromSymbol("instanceof"); ok {
		t.Error("BinaryOpFromSymbol(\"instanceof\") should not resolve")
	}
}

func TestExpString(t *testing.T) {
	x := NewVar("x", TypeInt)
	a := NewVar("a", TypeRef)
	i := NewVar("i", TypeInt)

	tests := []struct {
		exp  Exp
		want string
	}{
		{Int(42), "42"},
		{Int(-1), "-1"},
		{Ref(x), "x"},
		{Bin(OpAdd, Ref(x), Int(1)), "x + 1"},
		{Bin(OpUshr, Ref(x), Int(2)), "x >>> 2"},
		{&NewExp{Class: "Foo"}, "new Foo"},
		{&CastExp{Target: "int", Operand: Ref(x)}, "(int) x"},
		{&FieldAccess{Base: Ref(a), Field: "f"}, "a.f"},
		{&FieldAccess{Field: "count"}, "count"},
		{&ArrayAccess{Base: Ref(a), Index: Ref(i)}, "a[i]"},
		{&CallExp{Callee: "foo", Args: []Exp{Ref(x), Int(2)}}, "foo(x, 2)"},
		{&CallExp{Recv: Ref(a), Callee: "bar"}, "a.bar()"},
		{&OpaqueExp{Text: "p && q"}, "p && q"},
	}

	for _, tt := range tests {
		if got := tt.exp.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestStmtString(t *testing.T) {
	x := NewVar("x", TypeInt)

	tests := []struct {
		stmt Stmt
		want string
	}{
		{&AssignStmt{LHS: x, RHS: Int(5)}, "x = 5"},
		{&AssignStmt{RHS: &CallExp{Callee: "f"}}, "f()"},
		{&StoreStmt{Target: &FieldAccess{Field: "f"}, Value: Ref(x)}, "f = x"},
		{&IfStmt{Cond: Bin(OpGt, Ref(x), Int(0))}, "if (x > 0)"},
		{&SwitchStmt{Disc: Ref(x), Cases: []int32{1, 2}}, "switch (x)"},
		{&ReturnStmt{Result: Ref(x)}, "return x"},
		{&ReturnStmt{}, "return"},
		{&CallStmt{Call: &CallExp{Callee: "println", Args: []Exp{Ref(x)}}}, "println(x)"},
		{&NopStmt{}, "nop"},
		{&NopStmt{Text: "entry"}, "entry"},
	}

	for _, tt := range tests {
		if got := tt.stmt.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestUsesAndDef(t *testing.T) {
	x := NewVar("x", TypeInt)
	y := NewVar("y", TypeInt)
	a := NewVar("a", TypeRef)

	assign := &AssignStmt{LHS: x, RHS: Bin(OpAdd, Ref(y), Int(1))}
	if DefOf(assign) != x {
		t.Errorf("DefOf(assign) = %v, want x", DefOf(assign))
	}
	if uses := UsesOf(assign); len(uses) != 1 || uses[0] != y {
		t.Errorf("UsesOf(assign) = %v, want [y]", uses)
	}

	store := &StoreStmt{
		Target: &ArrayAccess{Base: Ref(a), Index: Ref(x)},
		Value:  Ref(y),
	}
	if DefOf(store) != nil {
		t.Error("DefOf(store) should be nil")
	}
	uses := UsesOf(store)
	if len(uses) != 3 {
		t.Fatalf("UsesOf(store) = %v, want a, x, y", uses)
	}

	opaque := &AssignStmt{LHS: x, RHS: &OpaqueExp{Text: "p || q", Vars: []*Var{y, a}}}
	uses = UsesOf(opaque)
	if len(uses) != 2 || uses[0] != y || uses[1] != a {
		t.Errorf("UsesOf(opaque) = %v, want [y a]", uses)
	}

	ret := &ReturnStmt{}
	if UsesOf(ret) != nil {
		t.Error("UsesOf(bare return) should be nil")
	}
	if DefOf(ret) != nil {
		t.Error("DefOf(return) should be nil")
	}
}
