package ctypecheck

import (
	"github.com/kendall/compix/internal/cdiag"
	"github.com/kendall/compix/internal/cgrammar"
	"github.com/kendall/compix/internal/cparse"
	"github.com/kendall/compix/internal/csymbols"
)

// typeOf computes an expression subtree's type bottom-up, recording the
// result against the node's ID in res.Types so the code generator can
// re-query it without re-walking, and emitting a diagnostic (with the
// subtree's type becoming "unknown") for any unrecognized operand
// combination.
func typeOf(node *cparse.Tree, scope *csymbols.Scope, res *Result) string {
	if node == nil {
		return unknown
	}

	var t string
	switch node.Symbol {
	case "Expr":
		t = typeOf(node.Children[0], scope, res)
	case "OrExpr":
		t = foldBinary(node, scope, res, logicalResult)
	case "AndExpr":
		t = foldBinary(node, scope, res, logicalResult)
	case "EqExpr":
		t = foldBinary(node, scope, res, eqResult)
	case "RelExpr":
		t = foldBinary(node, scope, res, relResult)
	case "AddExpr":
		t = foldBinary(node, scope, res, arithResult)
	case "MulExpr":
		t = foldBinary(node, scope, res, mulOpResult)
	case "UnaryExpr":
		t = typeOfUnary(node, scope, res)
	case "Primary":
		t = typeOfPrimary(node, scope, res)
	default:
		t = unknown
	}

	res.Types[node.ID] = t
	return t
}

// mulOpResult dispatches "/" to divResult (always float) and "*","%" to the
// ordinary arithmetic table.
func mulOpResult(op, l, r string) (string, bool) {
	if op == "/" {
		return divResult(l, r)
	}
	return arithResult(op, l, r)
}

// foldBinary evaluates a left-associative operator chain of the shape
// Head -> Sub HeadTail, HeadTail -> op Sub HeadTail | ε, left to right.
func foldBinary(node *cparse.Tree, scope *csymbols.Scope, res *Result, resultFn func(op, l, r string) (string, bool)) string {
	left := typeOf(node.Children[0], scope, res)
	tail := node.Children[1]

	for len(tail.Children) > 0 && tail.Children[0].Symbol != cgrammar.Epsilon {
		op := tail.Children[0].Symbol
		right := typeOf(tail.Children[1], scope, res)
		result, ok := resultFn(op, left, right)
		if !ok {
			if left != unknown && right != unknown {
				line, col := tokPos(tail.Children[0])
				res.Diags = append(res.Diags, cdiag.New(cdiag.Typecheck, line, col, "", "operator %q not defined for (%s, %s)", op, left, right))
			}
			result = unknown
		}
		res.Types[tail.ID] = result
		left = result
		tail = tail.Children[2]
	}
	return left
}

func typeOfUnary(node *cparse.Tree, scope *csymbols.Scope, res *Result) string {
	if node.Children[0].Symbol == "Primary" {
		return typeOf(node.Children[0], scope, res)
	}
	// '-' UnaryExpr or '!' UnaryExpr
	op := node.Children[0].Symbol
	operand := typeOf(node.Children[1], scope, res)
	if op == "-" && numeric(operand) {
		return operand
	}
	if op == "!" && operand == "bool" {
		return "bool"
	}
	if operand != unknown {
		line, col := tokPos(node.Children[0])
		res.Diags = append(res.Diags, cdiag.New(cdiag.Typecheck, line, col, "", "unary %q not defined for %s", op, operand))
	}
	return unknown
}

func typeOfPrimary(node *cparse.Tree, scope *csymbols.Scope, res *Result) string {
	first := node.Children[0]
	switch first.Symbol {
	case "intlit":
		return "int"
	case "floatlit":
		return "float"
	case "strlit":
		return "string"
	case "true", "false":
		return "bool"
	case "(":
		return typeOf(node.Children[1], scope, res)
	case "id":
		tail := node.Children[1]
		name := tokLexeme(first)
		if len(tail.Children) > 0 && tail.Children[0].Symbol == "(" {
			// function call
			sym, ok := scope.Lookup(name)
			if !ok {
				line, col := tokPos(first)
				res.Diags = append(res.Diags, cdiag.New(cdiag.Semantic, line, col, "", "identifier %q undeclared", name))
				return unknown
			}
			if sym.Kind != csymbols.KindFunction {
				line, col := tokPos(first)
				res.Diags = append(res.Diags, cdiag.New(cdiag.Semantic, line, col, "", "%q is not a function", name))
				return unknown
			}
			if argsOpt := child(tail, "ArgsOpt"); argsOpt != nil {
				visitArgs(argsOpt, scope, res)
			}
			return sym.ReturnType
		}
		sym, ok := scope.Lookup(name)
		if !ok {
			line, col := tokPos(first)
			res.Diags = append(res.Diags, cdiag.New(cdiag.Semantic, line, col, "", "identifier %q undeclared", name))
			return unknown
		}
		if sym.Kind == csymbols.KindFunction {
			line, col := tokPos(first)
			res.Diags = append(res.Diags, cdiag.New(cdiag.Semantic, line, col, "", "%q is a function, not a value", name))
			return unknown
		}
		return sym.Type
	}
	return unknown
}
