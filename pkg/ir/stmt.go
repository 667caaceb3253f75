package ir

import "fmt"

// Stmt is a node of a method's control flow graph. Every statement has a
// dense index within its method (assigned by the CFG builder) and a
// source line; a line of zero or less marks synthetic statements such as
// the entry and exit markers, which are never reported by any analysis.
type Stmt interface {
	isStmt()
	Index() int
	Line() int
	String() string
}

// StmtInfo carries the position bookkeeping shared by every statement
// kind. The CFG builder assigns Idx when the statement is added.
type StmtInfo struct {
	Idx     int
	SrcLine int
}

func (s *StmtInfo) isStmt() {}

func (s *StmtInfo) Index() int {
	return s.Idx
}

func (s *StmtInfo) Line() int {
	return s.SrcLine
}

// SetIndex assigns the statement's dense index. It is called by the CFG
// builder when the statement is added to a graph.
func (s *StmtInfo) SetIndex(i int) {
	s.Idx = i
}

// SetLine records the source line the statement came from. Synthesized
// statements keep line zero.
func (s *StmtInfo) SetLine(n int) {
	s.SrcLine = n
}

// AssignStmt binds the value of RHS to LHS. LHS is nil when the value is
// discarded, which happens for lowered expression statements whose result
// is unused.
type AssignStmt struct {
	StmtInfo
	LHS *Var
	RHS Exp
}

// StoreStmt writes Value through a field or array target. It defines no
// variable and is never a candidate for dead-assignment removal.
type StoreStmt struct {
	StmtInfo
	Target Exp
	Value  Exp
}

// IfStmt is a two-way conditional branch. Its outgoing edges carry the
// if-true and if-false kinds.
type IfStmt struct {
	StmtInfo
	Cond Exp
}

// SwitchStmt is a multi-way branch over an integer discriminant. Cases
// holds the case constants in source order; the matching constants are
// repeated on the outgoing switch-case edges.
type SwitchStmt struct {
	StmtInfo
	Disc  Exp
	Cases []int32
}

// ReturnStmt leaves the method. Result is nil for void returns.
type ReturnStmt struct {
	StmtInfo
	Result Exp
}

// CallStmt is a method invocation whose result is not bound to any
// variable.
type CallStmt struct {
	StmtInfo
	Call *CallExp
}

// ThrowStmt raises an exception and leaves the method. Its only outgoing
// edge targets the exit marker.
type ThrowStmt struct {
	StmtInfo
	Value Exp
}

// NopStmt is a statement with no effect: the synthetic entry and exit
// markers, lowered empty statements, and break/continue placeholders.
// Text is the rendering used in reports, "nop" if empty.
type NopStmt struct {
	StmtInfo
	Text string
}

func (s *AssignStmt) String() string {
	if s.LHS == nil {
		return s.RHS.String()
	}
	return fmt.Sprintf("%s = %s", s.LHS, s.RHS)
}

func (s *StoreStmt) String() string {
	return fmt.Sprintf("%s = %s", s.Target, s.Value)
}

func (s *IfStmt) String() string {
	return fmt.Sprintf("if (%s)", s.Cond)
}

func (s *SwitchStmt) String() string {
	return fmt.Sprintf("switch (%s)", s.Disc)
}

func (s *ReturnStmt) String() string {
	if s.Result == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", s.Result)
}

func (s *CallStmt) String() string {
	return s.Call.String()
}

func (s *ThrowStmt) String() string {
	return fmt.Sprintf("throw %s", s.Value)
}

func (s *NopStmt) String() string {
	if s.Text == "" {
		return "nop"
	}
	return s.Text
}
