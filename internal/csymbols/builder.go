package csymbols

import (
	"github.com/kendall/compix/internal/cdiag"
	"github.com/kendall/compix/internal/cparse"
)

// Build walks root (a Program parse tree) and constructs the scope tree: one
// Function record per declared function in the global scope, and one child
// scope per function body, keyed on the function's name rather than its
// ordinal position among siblings.
func Build(root *cparse.Tree) (*Scope, cdiag.List) {
	global := NewScope("global", nil)
	var diags cdiag.List

	funcList := child(root, "FuncList")
	for funcList != nil {
		decl := child(funcList, "FuncDecl")
		if decl == nil {
			break
		}
		diags = append(diags, buildFunction(global, decl)...)
		funcList = child(funcList, "FuncList")
	}

	return global, diags
}

func buildFunction(global *Scope, decl *cparse.Tree) cdiag.List {
	var diags cdiag.List
	head := child(decl, "FuncHead")
	if head == nil {
		return diags
	}

	var name, returnType string
	var params []Param
	var nameLine, nameCol int

	if head.Children[0].Symbol == "main" {
		name = "main"
		returnType = "int"
		nameLine, nameCol = tokPos(head.Children[0])
	} else {
		idNode := head.Children[0]
		name = tokLexeme(idNode)
		nameLine, nameCol = tokPos(idNode)
		if plOpt := child(head, "ParamListOpt"); plOpt != nil {
			params = collectParams(plOpt)
		}
		if rtOpt := child(head, "RetTypeOpt"); rtOpt != nil {
			returnType = typeOf(rtOpt)
		}
	}

	sym := Symbol{Name: name, Kind: KindFunction, Params: params, ReturnType: returnType, Line: nameLine, Col: nameCol}
	if !global.Declare(sym) {
		diags = append(diags, cdiag.New(cdiag.Semantic, nameLine, nameCol, "", "duplicate declaration of function %q", name))
	}

	fnScope := NewScope(name, global)
	for _, p := range params {
		fnScope.Declare(Symbol{Name: p.Name, Kind: KindParameter, Type: p.Type})
	}

	block := child(head, "Block")
	if block != nil {
		diags = append(diags, walkStmts(fnScope, child(block, "MoreStmts"))...)
	}

	return diags
}

func collectParams(paramListOpt *cparse.Tree) []Param {
	pl := child(paramListOpt, "ParamList")
	if pl == nil {
		return nil
	}

	var params []Param
	appendParam := func(p *cparse.Tree) {
		params = append(params, Param{Name: tokLexeme(p.Children[0]), Type: canonicalTypeName(p.Children[1].Children[0].Symbol)})
	}

	if p := child(pl, "Param"); p != nil {
		appendParam(p)
	}
	tail := child(pl, "ParamListTail")
	for tail != nil {
		p := child(tail, "Param")
		if p == nil {
			break
		}
		appendParam(p)
		tail = child(tail, "ParamListTail")
	}
	return params
}

// typeOf reads the declared-type keyword out of a Type node (whose single
// child is the terminal int/float/text/bool) or a RetTypeOpt node (whose
// child is either such a Type node or the terminal "void").
func typeOf(n *cparse.Tree) string {
	if len(n.Children) == 0 {
		return n.Symbol
	}
	switch n.Symbol {
	case "Type":
		return canonicalTypeName(n.Children[0].Symbol)
	case "RetTypeOpt":
		if n.Children[0].Symbol == "void" {
			return "void"
		}
		return typeOf(n.Children[0])
	default:
		return n.Children[0].Symbol
	}
}

// canonicalTypeName maps the "text" keyword onto the internal type name
// "string", which is what string-literal and string-valued expressions are
// typed as everywhere else; every other type keyword passes through
// unchanged.
func canonicalTypeName(kw string) string {
	if kw == "text" {
		return "string"
	}
	return kw
}

// walkStmts recursively processes a MoreStmts chain, recording a Variable
// record into scope for every variable-declaration IdStmt encountered.
// Nested scopes beyond the function body are not introduced: if/while/for
// bodies are walked in the same scope as their enclosing function.
func walkStmts(scope *Scope, moreStmts *cparse.Tree) cdiag.List {
	var diags cdiag.List
	for moreStmts != nil {
		stmt := child(moreStmts, "Stmt")
		if stmt == nil {
			break
		}
		diags = append(diags, walkStmt(scope, stmt.Children[0])...)
		moreStmts = child(moreStmts, "MoreStmts")
	}
	return diags
}

func walkStmt(scope *Scope, node *cparse.Tree) cdiag.List {
	var diags cdiag.List
	switch node.Symbol {
	case "IdStmt":
		tail := node.Children[1]
		if len(tail.Children) > 0 && tail.Children[0].Symbol == "Type" {
			name := tokLexeme(node.Children[0])
			line, col := tokPos(node.Children[0])
			declaredType := typeOf(tail.Children[0])
			sym := Symbol{Name: name, Kind: KindVariable, Type: declaredType, Line: line, Col: col}
			if !scope.Declare(sym) {
				diags = append(diags, cdiag.New(cdiag.Semantic, line, col, "", "duplicate declaration of %q in scope %q", name, scope.Name))
			}
		}
	case "IfStmt":
		diags = append(diags, walkStmts(scope, child(child(node, "Block"), "MoreStmts"))...)
		if elseOpt := child(node, "ElseOpt"); elseOpt != nil {
			if elseBlock := child(elseOpt, "Block"); elseBlock != nil {
				diags = append(diags, walkStmts(scope, child(elseBlock, "MoreStmts"))...)
			}
		}
	case "WhileStmt":
		diags = append(diags, walkStmts(scope, child(child(node, "Block"), "MoreStmts"))...)
	case "ForStmt":
		if init := child(node, "ForInit"); init != nil {
			tail := init.Children[1]
			if len(tail.Children) > 0 && tail.Children[0].Symbol == "Type" {
				name := tokLexeme(init.Children[0])
				line, col := tokPos(init.Children[0])
				declaredType := typeOf(tail.Children[0])
				sym := Symbol{Name: name, Kind: KindVariable, Type: declaredType, Line: line, Col: col}
				if !scope.Declare(sym) {
					diags = append(diags, cdiag.New(cdiag.Semantic, line, col, "", "duplicate declaration of %q in scope %q", name, scope.Name))
				}
			}
		}
		diags = append(diags, walkStmts(scope, child(child(node, "Block"), "MoreStmts"))...)
	}
	return diags
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
	if n.Token == nil {
		return 0, 0
	}
	return n.Token.Line, n.Token.Col
}
