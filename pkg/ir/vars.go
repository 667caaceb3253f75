package ir

// VarsOf appends every variable referenced by e to dst and returns the
// extended slice.
func VarsOf(e Exp, dst []*Var) []*Var {
	switch e := e.(type) {
	case *IntLiteral:
	case *VarRef:
		dst = append(dst, e.Var)
	case *BinaryExp:
		dst = VarsOf(e.Left, dst)
		dst = VarsOf(e.Right, dst)
	case *NewExp:
		for _, a := range e.Args {
			dst = VarsOf(a, dst)
		}
	case *CastExp:
		dst = VarsOf(e.Operand, dst)
	case *FieldAccess:
		if e.Base != nil {
			dst = VarsOf(e.Base, dst)
		}
	case *ArrayAccess:
		dst = VarsOf(e.Base, dst)
		dst = VarsOf(e.Index, dst)
	case *CallExp:
		if e.Recv != nil {
			dst = VarsOf(e.Recv, dst)
		}
		for _, a := range e.Args {
			dst = VarsOf(a, dst)
		}
	case *OpaqueExp:
		dst = append(dst, e.Vars...)
	}
	return dst
}

// UsesOf returns the variables a statement reads.
func UsesOf(s Stmt) []*Var {
	switch s := s.(type) {
	case *AssignStmt:
		return VarsOf(s.RHS, nil)
	case *StoreStmt:
		return VarsOf(s.Value, VarsOf(s.Target, nil))
	case *IfStmt:
		return VarsOf(s.Cond, nil)
	case *SwitchStmt:
		return VarsOf(s.Disc, nil)
	case *ReturnStmt:
		if s.Result != nil {
			return VarsOf(s.Result, nil)
		}
	case *CallStmt:
		return VarsOf(s.Call, nil)
	case *ThrowStmt:
		return VarsOf(s.Value, nil)
	}
	return nil
}

// DefOf returns the variable a statement writes, or nil when it defines
// nothing.
func DefOf(s Stmt) *Var {
	if as, ok := s.(*AssignStmt); ok {
		return as.LHS
	}
	return nil
}
