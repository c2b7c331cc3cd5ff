// Package ctypecheck performs the second walk over the parse tree: it
// infers expression types bottom-up, checks assignment compatibility,
// validates operator operands against the fixed operator table, and checks
// that every if/while guard is boolean.
package ctypecheck

import (
	"github.com/google/uuid"

	"github.com/kendall/compix/internal/cdiag"
	"github.com/kendall/compix/internal/cgrammar"
	"github.com/kendall/compix/internal/cparse"
	"github.com/kendall/compix/internal/csymbols"
)

const unknown = "unknown"

// Result is the output of Check: the inferred type of every expression
// subtree the codegen stage will need to revisit, keyed by parse-tree node
// ID, plus any diagnostics raised along the way.
type Result struct {
	Types map[uuid.UUID]string
	Diags cdiag.List
}

// Check walks root (a Program tree) using global to resolve identifiers,
// visiting each function's body in its corresponding child scope.
func Check(root *cparse.Tree, global *csymbols.Scope) Result {
	res := Result{Types: map[uuid.UUID]string{}}

	funcList := child(root, "FuncList")
	for funcList != nil {
		decl := child(funcList, "FuncDecl")
		if decl == nil {
			break
		}
		checkFunction(decl, global, &res)
		funcList = child(funcList, "FuncList")
	}

	return res
}

func checkFunction(decl *cparse.Tree, global *csymbols.Scope, res *Result) {
	head := child(decl, "FuncHead")
	if head == nil {
		return
	}

	var name string
	if head.Children[0].Symbol == "main" {
		name = "main"
	} else {
		name = tokLexeme(head.Children[0])
	}

	fnScope, ok := global.ChildByName(name)
	if !ok {
		return
	}
	fnSym, _ := global.Lookup(name)

	block := child(head, "Block")
	if block == nil {
		return
	}
	checkStmts(child(block, "MoreStmts"), fnScope, fnSym.ReturnType, res)
}

func checkStmts(moreStmts *cparse.Tree, scope *csymbols.Scope, returnType string, res *Result) {
	for moreStmts != nil {
		stmt := child(moreStmts, "Stmt")
		if stmt == nil {
			break
		}
		checkStmt(stmt.Children[0], scope, returnType, res)
		moreStmts = child(moreStmts, "MoreStmts")
	}
}

func checkStmt(node *cparse.Tree, scope *csymbols.Scope, returnType string, res *Result) {
	switch node.Symbol {
	case "IdStmt":
		checkIdStmt(node, scope, res)
	case "IfStmt":
		guard := child(node, "Expr")
		guardType := typeOf(guard, scope, res)
		if guardType != "bool" {
			line, col := firstTokenPos(guard)
			res.Diags = append(res.Diags, cdiag.New(cdiag.Typecheck, line, col, "", "if guard must be bool, got %s", guardType))
		}
		checkStmts(child(child(node, "Block"), "MoreStmts"), scope, returnType, res)
		if elseOpt := child(node, "ElseOpt"); elseOpt != nil {
			if elseBlock := child(elseOpt, "Block"); elseBlock != nil {
				checkStmts(child(elseBlock, "MoreStmts"), scope, returnType, res)
			}
		}
	case "WhileStmt":
		guard := child(node, "Expr")
		guardType := typeOf(guard, scope, res)
		if guardType != "bool" {
			line, col := firstTokenPos(guard)
			res.Diags = append(res.Diags, cdiag.New(cdiag.Typecheck, line, col, "", "while guard must be bool, got %s", guardType))
		}
		checkStmts(child(child(node, "Block"), "MoreStmts"), scope, returnType, res)
	case "ForStmt":
		if init := child(node, "ForInit"); init != nil {
			checkForInit(init, scope, res)
		}
		guard := child(node, "Expr")
		guardType := typeOf(guard, scope, res)
		if guardType != "bool" {
			line, col := firstTokenPos(guard)
			res.Diags = append(res.Diags, cdiag.New(cdiag.Typecheck, line, col, "", "for guard must be bool, got %s", guardType))
		}
		if step := child(node, "ForStep"); step != nil {
			name := tokLexeme(step.Children[0])
			sym, ok := scope.Lookup(name)
			valType := typeOf(step.Children[2], scope, res)
			if ok {
				checkAssignCompat(sym.Type, valType, step.Children[0], res)
			} else {
				line, col := tokPos(step.Children[0])
				res.Diags = append(res.Diags, cdiag.New(cdiag.Semantic, line, col, "", "identifier %q undeclared", name))
			}
		}
		checkStmts(child(child(node, "Block"), "MoreStmts"), scope, returnType, res)
	case "ReturnStmt":
		if exprOpt := child(node, "ReturnExprOpt"); exprOpt != nil && len(exprOpt.Children) > 0 && exprOpt.Children[0].Symbol != cgrammar.Epsilon {
			exprType := typeOf(exprOpt.Children[0], scope, res)
			if returnType != "" && returnType != "void" && exprType != returnType && exprType != unknown {
				line, col := firstTokenPos(exprOpt.Children[0])
				res.Diags = append(res.Diags, cdiag.New(cdiag.Typecheck, line, col, "", "returned %s does not match declared return type %s", exprType, returnType))
			}
		}
	case "ShowStmt":
		typeOf(child(node, "Expr"), scope, res)
	case "ReadStmt":
		name := tokLexeme(node.Children[2])
		if _, ok := scope.Lookup(name); !ok {
			line, col := tokPos(node.Children[2])
			res.Diags = append(res.Diags, cdiag.New(cdiag.Semantic, line, col, "", "identifier %q undeclared", name))
		}
	}
}

func checkForInit(init *cparse.Tree, scope *csymbols.Scope, res *Result) {
	name := tokLexeme(init.Children[0])
	tail := init.Children[1]
	if len(tail.Children) > 0 && tail.Children[0].Symbol == "Type" {
		// declared fresh inside the for-init; type was already recorded by
		// csymbols, just check the initializer expression.
		declaredType := canonicalTypeName(tail.Children[0].Children[0].Symbol)
		exprType := typeOf(tail.Children[2], scope, res)
		if ok, _ := assignable(declaredType, exprType); !ok && exprType != unknown {
			line, col := tokPos(init.Children[0])
			res.Diags = append(res.Diags, cdiag.New(cdiag.Typecheck, line, col, "", "cannot assign %s to %s %q", exprType, declaredType, name))
		}
		return
	}
	sym, ok := scope.Lookup(name)
	exprType := typeOf(tail.Children[1], scope, res)
	if ok {
		checkAssignCompat(sym.Type, exprType, init.Children[0], res)
	} else {
		line, col := tokPos(init.Children[0])
		res.Diags = append(res.Diags, cdiag.New(cdiag.Semantic, line, col, "", "identifier %q undeclared", name))
	}
}

func checkIdStmt(node *cparse.Tree, scope *csymbols.Scope, res *Result) {
	name := tokLexeme(node.Children[0])
	tail := node.Children[1]

	switch {
	case len(tail.Children) > 0 && tail.Children[0].Symbol == "Type":
		// variable declaration: x Type [= expr] ;
		declaredType := canonicalTypeName(tail.Children[0].Children[0].Symbol)
		initOpt := tail.Children[1]
		if len(initOpt.Children) > 0 && initOpt.Children[0].Symbol != cgrammar.Epsilon {
			exprType := typeOf(initOpt.Children[1], scope, res)
			if ok, narrows := assignable(declaredType, exprType); !ok {
				if exprType != unknown {
					line, col := tokPos(node.Children[0])
					res.Diags = append(res.Diags, cdiag.New(cdiag.Typecheck, line, col, "", "cannot assign %s to %s %q", exprType, declaredType, name))
				}
			} else if narrows {
				line, col := tokPos(node.Children[0])
				res.Diags = append(res.Diags, cdiag.Diagnostic{Severity: cdiag.Warning, Category: cdiag.Typecheck, Line: line, Col: col,
					Message: "implicit narrowing conversion from float to int in initializer of " + name})
			}
		}
	case tail.Children[0].Symbol == "=":
		// assignment: x = expr ;
		sym, ok := scope.Lookup(name)
		exprType := typeOf(tail.Children[1], scope, res)
		if ok {
			checkAssignCompat(sym.Type, exprType, node.Children[0], res)
		} else {
			line, col := tokPos(node.Children[0])
			res.Diags = append(res.Diags, cdiag.New(cdiag.Semantic, line, col, "", "identifier %q undeclared", name))
		}
	default:
		// call statement: x(args) ;
		if _, ok := scope.Lookup(name); !ok {
			line, col := tokPos(node.Children[0])
			res.Diags = append(res.Diags, cdiag.New(cdiag.Semantic, line, col, "", "identifier %q undeclared", name))
		}
		if argsOpt := child(tail, "ArgsOpt"); argsOpt != nil {
			visitArgs(argsOpt, scope, res)
		}
	}
}

func checkAssignCompat(target, value string, posNode *cparse.Tree, res *Result) {
	if value == unknown {
		return
	}
	ok, narrows := assignable(target, value)
	if !ok {
		line, col := tokPos(posNode)
		res.Diags = append(res.Diags, cdiag.New(cdiag.Typecheck, line, col, "", "cannot assign %s to %s", value, target))
		return
	}
	if narrows {
		line, col := tokPos(posNode)
		res.Diags = append(res.Diags, cdiag.Diagnostic{Severity: cdiag.Warning, Category: cdiag.Typecheck, Line: line, Col: col,
			Message: "implicit narrowing conversion from float to int"})
	}
}

func visitArgs(argsOpt *cparse.Tree, scope *csymbols.Scope, res *Result) {
	args := child(argsOpt, "Args")
	if args == nil {
		return
	}
	typeOf(args.Children[0], scope, res)
	tail := args.Children[1]
	for len(tail.Children) > 0 && tail.Children[0].Symbol != cgrammar.Epsilon {
		typeOf(tail.Children[1], scope, res)
		tail = tail.Children[2]
	}
}

// child returns the first direct child of n whose Symbol equals name.
func child(n *cparse.Tree, name string) *cparse.Tree {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Symbol == name {
			return c
		}
	}
	return nil
}

func tokLexeme(n *cparse.Tree) string {
	if n.Token == nil {
		return ""
	}
	return n.Token.Lexeme
}

func tokPos(n *cparse.Tree) (int, int) {
	if n == nil || n.Token == nil {
		return 0, 0
	}
	return n.Token.Line, n.Token.Col
}

// canonicalTypeName maps the "text" keyword onto the internal type name
// "string", matching how string literals and string-valued expressions are
// typed throughout this package.
func canonicalTypeName(kw string) string {
	if kw == "text" {
		return "string"
	}
	return kw
}

func firstTokenPos(n *cparse.Tree) (int, int) {
	if n == nil {
		return 0, 0
	}
	if n.Token != nil {
		return n.Token.Line, n.Token.Col
	}
	for _, c := range n.Children {
		if line, col := firstTokenPos(c); line != 0 {
			return line, col
		}
	}
	return 0, 0
}
