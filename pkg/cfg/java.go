package cfg

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/l3aro/go-dataflow/pkg/ir"
)

// ErrNoBody marks a method declaration without a body, such as an
// abstract or native method.
var ErrNoBody = errors.New("method has no body")

// MethodInfo describes one analyzable method of a Java source file.
type MethodInfo struct {
	Name   string   `json:"name"`
	Line   int      `json:"line"`
	Params []string `json:"params,omitempty"`
}

// ExtractJavaCFG parses a Java file and lowers the named method's body to
// a control flow graph over the IR.
func ExtractJavaCFG(filePath string, methodName string) (*CFG, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", filePath, err)
	}
	g, err := ExtractJavaCFGSource(content, methodName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return g, nil
}

// ExtractJavaCFGSource lowers the named method of in-memory Java source.
func ExtractJavaCFGSource(content []byte, methodName string) (*CFG, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree := parser.Parse(nil, content)
	defer tree.Close()

	methodNode := findJavaMethod(tree.RootNode(), content, methodName)
	if methodNode == nil {
		return nil, fmt.Errorf("method %q not found", methodName)
	}

	// constructors carry a constructor_body node, methods a block
	body := methodNode.ChildByFieldName("body")
	if body == nil {
		return nil, fmt.Errorf("method %q: %w", methodName, ErrNoBody)
	}

	l := &javaLowerer{src: content, vars: make(map[string]*ir.Var)}
	params := l.declareParams(methodNode)
	l.b = NewBuilder(methodName, params...)

	out := l.lowerBlock(body, frontier{{from: l.b.Entry(), kind: EdgeNormal}})
	l.connect(out, l.b.Exit())
	return l.b.Finish(), nil
}

// ListJavaMethods returns the methods and constructors declared in a Java
// source file, in source order.
func ListJavaMethods(filePath string) ([]MethodInfo, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", filePath, err)
	}
	return ListJavaMethodsSource(content), nil
}

// ListJavaMethodsSource lists the methods of in-memory Java source.
func ListJavaMethodsSource(content []byte) []MethodInfo {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree := parser.Parse(nil, content)
	defer tree.Close()

	var methods []MethodInfo
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if node.Type() == "method_declaration" || node.Type() == "constructor_declaration" {
			nameNode := node.ChildByFieldName("name")
			if nameNode != nil {
				methods = append(methods, MethodInfo{
					Name:   string(content[nameNode.StartByte():nameNode.EndByte()]),
					Line:   int(node.StartPoint().Row) + 1,
					Params: paramStrings(node, content),
				})
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(tree.RootNode())
	return methods
}

func paramStrings(methodNode *sitter.Node, content []byte) []string {
	formal := findChildByType(methodNode, "formal_parameters")
	if formal == nil {
		return nil
	}
	var params []string
	for i := 0; i < int(formal.NamedChildCount()); i++ {
		p := formal.NamedChild(i)
		params = append(params, condense(string(content[p.StartByte():p.EndByte()])))
	}
	return params
}

func findJavaMethod(node *sitter.Node, content []byte, name string) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == "method_declaration" || node.Type() == "constructor_declaration" {
		nameNode := node.ChildByFieldName("name")
		if nameNode != nil && string(content[nameNode.StartByte():nameNode.EndByte()]) == name {
			return node
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findJavaMethod(node.Child(i), content, name); found != nil {
			return found
		}
	}
	return nil
}

func findChildByType(node *sitter.Node, childType string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && child.Type() == childType {
			return child
		}
	}
	return nil
}

// dangling is a control flow edge whose target statement has not been
// created yet.
type dangling struct {
	from      ir.Stmt
	kind      EdgeKind
	caseValue int32
}

// frontier is the set of dangling edges awaiting the next statement.
type frontier []dangling

// loopCtx tracks where break and continue inside a loop or switch must
// connect. Switch contexts catch break only.
type loopCtx struct {
	isLoop    bool
	breaks    frontier
	continues frontier
}

type javaLowerer struct {
	src  []byte
	b    *Builder
	vars map[string]*ir.Var
	ctxs []*loopCtx
}

func (l *javaLowerer) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(l.src[node.StartByte():node.EndByte()])
}

func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

func condense(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (l *javaLowerer) declareParams(methodNode *sitter.Node) []*ir.Var {
	formal := findChildByType(methodNode, "formal_parameters")
	if formal == nil {
		return nil
	}
	var params []*ir.Var
	for i := 0; i < int(formal.NamedChildCount()); i++ {
		p := formal.NamedChild(i)
		typeNode := p.ChildByFieldName("type")
		nameNode := p.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		v := l.declare(l.text(nameNode), ir.TypeFromName(l.text(typeNode)))
		params = append(params, v)
	}
	return params
}

// declare registers name in the method's variable scope. Redeclaring a
// name reuses the existing variable; Java shadowing inside nested blocks
// collapses onto one variable.
func (l *javaLowerer) declare(name string, t ir.Type) *ir.Var {
	if v, ok := l.vars[name]; ok {
		if v.Type == ir.TypeUnknown {
			v.Type = t
		}
		return v
	}
	v := ir.NewVar(name, t)
	l.vars[name] = v
	return v
}

// connect attaches every dangling edge in f to target.
func (l *javaLowerer) connect(f frontier, target ir.Stmt) {
	for _, d := range f {
		if d.kind == EdgeSwitchCase {
			l.b.AddCaseEdge(d.from, target, d.caseValue)
		} else {
			l.b.AddEdge(d.from, target, d.kind)
		}
	}
}

type lineSetter interface {
	SetLine(n int)
}

// add appends s at the given source line, wiring the incoming frontier to
// it, and returns the statement's own normal frontier.
func (l *javaLowerer) add(s ir.Stmt, srcLine int, in frontier) frontier {
	s.(lineSetter).SetLine(srcLine)
	l.b.Add(s)
	l.connect(in, s)
	return frontier{{from: s, kind: EdgeNormal}}
}

func (l *javaLowerer) pushCtx(isLoop bool) *loopCtx {
	ctx := &loopCtx{isLoop: isLoop}
	l.ctxs = append(l.ctxs, ctx)
	return ctx
}

func (l *javaLowerer) popCtx() *loopCtx {
	ctx := l.ctxs[len(l.ctxs)-1]
	l.ctxs = l.ctxs[:len(l.ctxs)-1]
	return ctx
}

func (l *javaLowerer) lowerBlock(node *sitter.Node, in frontier) frontier {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		in = l.lowerStmt(child, in)
	}
	return in
}

func (l *javaLowerer) lowerStmt(node *sitter.Node, in frontier) frontier {
	switch node.Type() {
	case "{", "}", ";", "line_comment", "block_comment":
		return in
	case "block":
		return l.lowerBlock(node, in)
	case "local_variable_declaration":
		return l.lowerLocalDecl(node, in)
	case "expression_statement":
		expr := node.NamedChild(0)
		if expr == nil {
			return in
		}
		return l.lowerExprNode(expr, in)
	case "if_statement":
		return l.lowerIf(node, in)
	case "while_statement":
		return l.lowerWhile(node, in)
	case "for_statement":
		return l.lowerFor(node, in)
	case "enhanced_for_statement":
		return l.lowerEnhancedFor(node, in)
	case "do_statement":
		return l.lowerDo(node, in)
	case "switch_expression", "switch_statement":
		return l.lowerSwitch(node, in)
	case "return_statement":
		return l.lowerReturn(node, in)
	case "break_statement":
		return l.lowerBreak(node, in)
	case "continue_statement":
		return l.lowerContinue(node, in)
	case "throw_statement":
		return l.lowerThrow(node, in)
	case "try_statement", "try_with_resources_statement":
		return l.lowerTry(node, in)
	case "synchronized_statement":
		if body := findChildByType(node, "block"); body != nil {
			return l.lowerBlock(body, in)
		}
		return in
	case "labeled_statement":
		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			child := node.Child(i)
			if child != nil && child.Type() != "identifier" && child.Type() != ":" {
				return l.lowerStmt(child, in)
			}
		}
		return in
	case "local_class_declaration", "empty_statement":
		return in
	default:
		return l.lowerOpaqueStmt(node, in)
	}
}

// lowerOpaqueStmt keeps an unsupported statement visible to the analyses:
// the variables it mentions count as uses, and its value is unknown.
func (l *javaLowerer) lowerOpaqueStmt(node *sitter.Node, in frontier) frontier {
	s := &ir.AssignStmt{RHS: l.opaque(node)}
	return l.add(s, line(node), in)
}

func (l *javaLowerer) lowerLocalDecl(node *sitter.Node, in frontier) frontier {
	t := ir.TypeFromName(l.text(node.ChildByFieldName("type")))
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || child.Type() != "variable_declarator" {
			continue
		}
		v := l.declare(l.text(child.ChildByFieldName("name")), t)
		value := child.ChildByFieldName("value")
		if value == nil {
			continue
		}
		s := &ir.AssignStmt{LHS: v, RHS: l.lowerExp(value)}
		in = l.add(s, line(child), in)
	}
	return in
}

// lowerExprNode lowers an expression in statement position.
func (l *javaLowerer) lowerExprNode(expr *sitter.Node, in frontier) frontier {
	switch expr.Type() {
	case "assignment_expression":
		return l.lowerAssign(expr, in)
	case "update_expression":
		return l.lowerUpdate(expr, in)
	case "method_invocation":
		s := &ir.CallStmt{Call: l.lowerCall(expr)}
		return l.add(s, line(expr), in)
	case "object_creation_expression":
		s := &ir.AssignStmt{RHS: l.lowerExp(expr)}
		return l.add(s, line(expr), in)
	case "parenthesized_expression":
		inner := expr.NamedChild(0)
		if inner == nil {
			return in
		}
		return l.lowerExprNode(inner, in)
	default:
		return l.lowerOpaqueStmt(expr, in)
	}
}

func (l *javaLowerer) lowerAssign(expr *sitter.Node, in frontier) frontier {
	left := expr.ChildByFieldName("left")
	op := l.text(expr.ChildByFieldName("operator"))
	rhs := l.lowerExp(expr.ChildByFieldName("right"))
	srcLine := line(expr)

	compound := func(current ir.Exp) ir.Exp {
		if op == "=" {
			return rhs
		}
		binOp, ok := ir.BinaryOpFromSymbol(strings.TrimSuffix(op, "="))
		if !ok {
			return l.opaque(expr)
		}
		return ir.Bin(binOp, current, rhs)
	}

	switch left.Type() {
	case "identifier":
		name := l.text(left)
		if v, ok := l.vars[name]; ok {
			s := &ir.AssignStmt{LHS: v, RHS: compound(ir.Ref(v))}
			return l.add(s, srcLine, in)
		}
		// assignment to an instance field referenced by bare name
		target := &ir.FieldAccess{Field: name}
		s := &ir.StoreStmt{Target: target, Value: compound(target)}
		return l.add(s, srcLine, in)
	case "field_access", "array_access":
		target := l.lowerExp(left)
		s := &ir.StoreStmt{Target: target, Value: compound(target)}
		return l.add(s, srcLine, in)
	default:
		return l.lowerOpaqueStmt(expr, in)
	}
}

func (l *javaLowerer) lowerUpdate(expr *sitter.Node, in frontier) frontier {
	op := ir.OpAdd
	if strings.Contains(l.text(expr), "--") {
		op = ir.OpSub
	}
	operand := expr.NamedChild(0)
	if operand == nil {
		return l.lowerOpaqueStmt(expr, in)
	}
	switch operand.Type() {
	case "identifier":
		if v, ok := l.vars[l.text(operand)]; ok {
			s := &ir.AssignStmt{LHS: v, RHS: ir.Bin(op, ir.Ref(v), ir.Int(1))}
			return l.add(s, line(expr), in)
		}
		target := &ir.FieldAccess{Field: l.text(operand)}
		s := &ir.StoreStmt{Target: target, Value: ir.Bin(op, target, ir.Int(1))}
		return l.add(s, line(expr), in)
	case "field_access", "array_access":
		target := l.lowerExp(operand)
		s := &ir.StoreStmt{Target: target, Value: ir.Bin(op, target, ir.Int(1))}
		return l.add(s, line(expr), in)
	default:
		return l.lowerOpaqueStmt(expr, in)
	}
}

func (l *javaLowerer) lowerIf(node *sitter.Node, in frontier) frontier {
	s := &ir.IfStmt{Cond: l.lowerCond(node.ChildByFieldName("condition"))}
	l.add(s, line(node), in)

	out := l.lowerStmt(node.ChildByFieldName("consequence"), frontier{{from: s, kind: EdgeIfTrue}})
	if alt := node.ChildByFieldName("alternative"); alt != nil {
		out = append(out, l.lowerStmt(alt, frontier{{from: s, kind: EdgeIfFalse}})...)
	} else {
		out = append(out, dangling{from: s, kind: EdgeIfFalse})
	}
	return out
}

func (l *javaLowerer) lowerWhile(node *sitter.Node, in frontier) frontier {
	s := &ir.IfStmt{Cond: l.lowerCond(node.ChildByFieldName("condition"))}
	l.add(s, line(node), in)

	ctx := l.pushCtx(true)
	body := l.lowerStmt(node.ChildByFieldName("body"), frontier{{from: s, kind: EdgeIfTrue}})
	l.popCtx()

	l.connect(body, s)
	l.connect(ctx.continues, s)
	return append(frontier{{from: s, kind: EdgeIfFalse}}, ctx.breaks...)
}

func (l *javaLowerer) lowerFor(node *sitter.Node, in frontier) frontier {
	if init := node.ChildByFieldName("init"); init != nil {
		switch init.Type() {
		case "local_variable_declaration":
			in = l.lowerLocalDecl(init, in)
		default:
			in = l.lowerExprNode(init, in)
		}
	}

	var cond ir.Exp = ir.Int(1)
	if condNode := node.ChildByFieldName("condition"); condNode != nil {
		cond = l.lowerExp(condNode)
	}
	s := &ir.IfStmt{Cond: cond}
	l.add(s, line(node), in)

	ctx := l.pushCtx(true)
	body := l.lowerStmt(node.ChildByFieldName("body"), frontier{{from: s, kind: EdgeIfTrue}})
	l.popCtx()

	backEdges := append(body, ctx.continues...)
	if update := node.ChildByFieldName("update"); update != nil {
		backEdges = l.lowerExprNode(update, backEdges)
	}
	l.connect(backEdges, s)
	return append(frontier{{from: s, kind: EdgeIfFalse}}, ctx.breaks...)
}

func (l *javaLowerer) lowerEnhancedFor(node *sitter.Node, in frontier) frontier {
	collection := node.ChildByFieldName("value")
	s := &ir.IfStmt{Cond: l.opaque(collection)}
	l.add(s, line(node), in)

	loopVar := l.declare(l.text(node.ChildByFieldName("name")),
		ir.TypeFromName(l.text(node.ChildByFieldName("type"))))
	next := &ir.AssignStmt{LHS: loopVar, RHS: &ir.OpaqueExp{Text: "next " + condense(l.text(collection))}}
	bodyIn := l.add(next, line(node), frontier{{from: s, kind: EdgeIfTrue}})

	ctx := l.pushCtx(true)
	body := l.lowerStmt(node.ChildByFieldName("body"), bodyIn)
	l.popCtx()

	l.connect(body, s)
	l.connect(ctx.continues, s)
	return append(frontier{{from: s, kind: EdgeIfFalse}}, ctx.breaks...)
}

func (l *javaLowerer) lowerDo(node *sitter.Node, in frontier) frontier {
	mark := l.b.Len()
	ctx := l.pushCtx(true)
	body := l.lowerStmt(node.ChildByFieldName("body"), in)
	l.popCtx()

	s := &ir.IfStmt{Cond: l.lowerCond(node.ChildByFieldName("condition"))}
	l.add(s, line(node.ChildByFieldName("condition")), append(body, ctx.continues...))

	bodyEntry := ir.Stmt(s)
	if mark < l.b.Len()-1 {
		bodyEntry = l.b.Node(mark)
	}
	l.b.AddEdge(s, bodyEntry, EdgeIfTrue)
	return append(frontier{{from: s, kind: EdgeIfFalse}}, ctx.breaks...)
}

func (l *javaLowerer) lowerSwitch(node *sitter.Node, in frontier) frontier {
	s := &ir.SwitchStmt{Disc: l.lowerCond(node.ChildByFieldName("condition"))}
	l.add(s, line(node), in)

	ctx := l.pushCtx(false)
	var after frontier
	fall := frontier{}
	sawDefault := false

	body := node.ChildByFieldName("body")
	for i := 0; body != nil && i < int(body.ChildCount()); i++ {
		group := body.Child(i)
		if group == nil {
			continue
		}
		switch group.Type() {
		case "switch_block_statement_group":
			entry := fall
			for j := 0; j < int(group.ChildCount()); j++ {
				child := group.Child(j)
				if child == nil {
					continue
				}
				if child.Type() == "switch_label" {
					d, isDefault := l.switchLabel(s, child)
					if isDefault {
						sawDefault = true
					}
					entry = append(entry, d)
					continue
				}
				entry = l.lowerStmt(child, entry)
			}
			fall = entry
		case "switch_rule":
			var entry frontier
			for j := 0; j < int(group.ChildCount()); j++ {
				child := group.Child(j)
				if child == nil {
					continue
				}
				if child.Type() == "switch_label" {
					d, isDefault := l.switchLabel(s, child)
					if isDefault {
						sawDefault = true
					}
					entry = append(entry, d)
					continue
				}
				if child.Type() == "->" {
					continue
				}
				entry = l.lowerStmt(child, entry)
			}
			after = append(after, entry...)
		}
	}
	l.popCtx()

	after = append(after, fall...)
	after = append(after, ctx.breaks...)
	if !sawDefault {
		// a discriminant matching no case falls past the switch
		after = append(after, dangling{from: s, kind: EdgeSwitchDefault})
	}
	return after
}

// switchLabel turns one case or default label into its dangling edge,
// recording case constants on the switch statement.
func (l *javaLowerer) switchLabel(s *ir.SwitchStmt, label *sitter.Node) (dangling, bool) {
	if strings.HasPrefix(strings.TrimSpace(l.text(label)), "default") {
		return dangling{from: s, kind: EdgeSwitchDefault}, true
	}
	value := label.NamedChild(0)
	if lit, ok := l.lowerExp(value).(*ir.IntLiteral); ok {
		s.Cases = append(s.Cases, lit.Value)
		return dangling{from: s, kind: EdgeSwitchCase, caseValue: lit.Value}, false
	}
	// non-literal case constant: keep the edge unconditionally followed
	return dangling{from: s, kind: EdgeNormal}, false
}

func (l *javaLowerer) lowerReturn(node *sitter.Node, in frontier) frontier {
	s := &ir.ReturnStmt{}
	if value := node.NamedChild(0); value != nil {
		s.Result = l.lowerExp(value)
	}
	l.add(s, line(node), in)
	l.b.AddEdge(s, l.b.Exit(), EdgeNormal)
	return nil
}

func (l *javaLowerer) lowerThrow(node *sitter.Node, in frontier) frontier {
	s := &ir.ThrowStmt{Value: l.lowerExp(node.NamedChild(0))}
	l.add(s, line(node), in)
	l.b.AddEdge(s, l.b.Exit(), EdgeNormal)
	return nil
}

func (l *javaLowerer) lowerBreak(node *sitter.Node, in frontier) frontier {
	s := &ir.NopStmt{Text: "break"}
	l.add(s, line(node), in)
	if len(l.ctxs) == 0 {
		l.b.AddEdge(s, l.b.Exit(), EdgeNormal)
		return nil
	}
	ctx := l.ctxs[len(l.ctxs)-1]
	ctx.breaks = append(ctx.breaks, dangling{from: s, kind: EdgeNormal})
	return nil
}

func (l *javaLowerer) lowerContinue(node *sitter.Node, in frontier) frontier {
	s := &ir.NopStmt{Text: "continue"}
	l.add(s, line(node), in)
	for i := len(l.ctxs) - 1; i >= 0; i-- {
		if l.ctxs[i].isLoop {
			l.ctxs[i].continues = append(l.ctxs[i].continues, dangling{from: s, kind: EdgeNormal})
			return nil
		}
	}
	l.b.AddEdge(s, l.b.Exit(), EdgeNormal)
	return nil
}

// lowerTry keeps try/catch/finally control flow conservative: the try
// body runs first, every catch body is reachable once the try is entered,
// and the finally body joins all of them.
func (l *javaLowerer) lowerTry(node *sitter.Node, in frontier) frontier {
	tryBody := node.ChildByFieldName("body")
	if tryBody == nil {
		tryBody = findChildByType(node, "block")
	}
	out := in
	if tryBody != nil {
		out = l.lowerBlock(tryBody, in)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		clause := node.Child(i)
		if clause == nil || clause.Type() != "catch_clause" {
			continue
		}
		if param := findChildByType(clause, "catch_formal_parameter"); param != nil {
			nameNode := param.ChildByFieldName("name")
			if nameNode == nil {
				for j := int(param.ChildCount()) - 1; j >= 0; j-- {
					if c := param.Child(j); c != nil && c.Type() == "identifier" {
						nameNode = c
						break
					}
				}
			}
			if nameNode != nil {
				l.declare(l.text(nameNode), ir.TypeRef)
			}
		}
		if catchBody := findChildByType(clause, "block"); catchBody != nil {
			out = append(out, l.lowerBlock(catchBody, in)...)
		}
	}

	if finally := findChildByType(node, "finally_clause"); finally != nil {
		if finallyBody := findChildByType(finally, "block"); finallyBody != nil {
			out = l.lowerBlock(finallyBody, out)
		}
	}
	return out
}

// lowerCond unwraps a parenthesized branch condition.
func (l *javaLowerer) lowerCond(node *sitter.Node) ir.Exp {
	if node == nil {
		return &ir.OpaqueExp{Text: "?"}
	}
	if node.Type() == "parenthesized_expression" {
		if inner := node.NamedChild(0); inner != nil {
			return l.lowerExp(inner)
		}
	}
	return l.lowerExp(node)
}

func (l *javaLowerer) lowerExp(node *sitter.Node) ir.Exp {
	if node == nil {
		return &ir.OpaqueExp{Text: "?"}
	}
	switch node.Type() {
	case "parenthesized_expression":
		if inner := node.NamedChild(0); inner != nil {
			return l.lowerExp(inner)
		}
		return l.opaque(node)
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		if v, ok := parseJavaInt(l.text(node)); ok {
			return ir.Int(v)
		}
		return &ir.LiteralExp{Text: l.text(node)}
	case "character_literal":
		if v, ok := parseJavaChar(l.text(node)); ok {
			return ir.Int(v)
		}
		return &ir.LiteralExp{Text: l.text(node)}
	case "true":
		return ir.Int(1)
	case "false":
		return ir.Int(0)
	case "string_literal", "null_literal", "decimal_floating_point_literal", "hex_floating_point_literal", "class_literal":
		return &ir.LiteralExp{Text: condense(l.text(node))}
	case "identifier":
		name := l.text(node)
		if v, ok := l.vars[name]; ok {
			return ir.Ref(v)
		}
		return &ir.FieldAccess{Field: name}
	case "binary_expression":
		opText := l.text(node.ChildByFieldName("operator"))
		if op, ok := ir.BinaryOpFromSymbol(opText); ok {
			return ir.Bin(op,
				l.lowerExp(node.ChildByFieldName("left")),
				l.lowerExp(node.ChildByFieldName("right")))
		}
		return l.opaque(node)
	case "unary_expression":
		operand := l.lowerExp(node.ChildByFieldName("operand"))
		switch l.text(node.ChildByFieldName("operator")) {
		case "-":
			if lit, ok := operand.(*ir.IntLiteral); ok {
				return ir.Int(-lit.Value)
			}
			return ir.Bin(ir.OpSub, ir.Int(0), operand)
		case "+":
			return operand
		case "!":
			return ir.Bin(ir.OpEq, operand, ir.Int(0))
		case "~":
			return ir.Bin(ir.OpXor, operand, ir.Int(-1))
		}
		return l.opaque(node)
	case "method_invocation":
		return l.lowerCall(node)
	case "object_creation_expression":
		e := &ir.NewExp{Class: condense(l.text(node.ChildByFieldName("type")))}
		if args := node.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				e.Args = append(e.Args, l.lowerExp(args.NamedChild(i)))
			}
		}
		return e
	case "array_creation_expression":
		e := &ir.NewExp{Class: condense(l.text(node.ChildByFieldName("type"))) + "[]"}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "dimensions_expr" {
				if inner := child.NamedChild(0); inner != nil {
					e.Args = append(e.Args, l.lowerExp(inner))
				}
			}
		}
		return e
	case "cast_expression":
		return &ir.CastExp{
			Target:  condense(l.text(node.ChildByFieldName("type"))),
			Operand: l.lowerExp(node.ChildByFieldName("value")),
		}
	case "field_access":
		return &ir.FieldAccess{
			Base:  l.lowerExp(node.ChildByFieldName("object")),
			Field: l.text(node.ChildByFieldName("field")),
		}
	case "array_access":
		return &ir.ArrayAccess{
			Base:  l.lowerExp(node.ChildByFieldName("array")),
			Index: l.lowerExp(node.ChildByFieldName("index")),
		}
	case "this":
		return &ir.LiteralExp{Text: "this"}
	default:
		return l.opaque(node)
	}
}

func (l *javaLowerer) lowerCall(node *sitter.Node) *ir.CallExp {
	call := &ir.CallExp{Callee: l.text(node.ChildByFieldName("name"))}
	if obj := node.ChildByFieldName("object"); obj != nil {
		call.Recv = l.lowerExp(obj)
	}
	if args := node.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			call.Args = append(call.Args, l.lowerExp(args.NamedChild(i)))
		}
	}
	return call
}

// opaque wraps a source expression the IR cannot express, keeping its
// variable reads visible.
func (l *javaLowerer) opaque(node *sitter.Node) *ir.OpaqueExp {
	return &ir.OpaqueExp{Text: condense(l.text(node)), Vars: l.identifiersIn(node)}
}

func (l *javaLowerer) identifiersIn(node *sitter.Node) []*ir.Var {
	var out []*ir.Var
	seen := make(map[*ir.Var]bool)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "identifier" {
			if v, ok := l.vars[l.text(n)]; ok && !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return out
}

// parseJavaInt parses a Java integer literal, wrapping to 32 bits the way
// Java int arithmetic does.
func parseJavaInt(text string) (int32, bool) {
	t := strings.ReplaceAll(text, "_", "")
	t = strings.TrimSuffix(strings.TrimSuffix(t, "l"), "L")
	v, err := strconv.ParseUint(t, 0, 64)
	if err != nil {
		return 0, false
	}
	return int32(uint32(v)), true
}

func parseJavaChar(text string) (int32, bool) {
	s, err := strconv.Unquote(text)
	if err != nil {
		return 0, false
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, false
	}
	return int32(r[0]), true
}
