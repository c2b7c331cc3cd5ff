package ccodegen

import (
	"fmt"
	"strconv"

	"github.com/kendall/compix/internal/cgrammar"
	"github.com/kendall/compix/internal/cparse"
	"github.com/kendall/compix/internal/csymbols"
)

// emitExpr evaluates node (any node on the Expr precedence ladder) into a
// freshly allocated temporary register and returns that register's name.
func (g *Generator) emitExpr(node *cparse.Tree, scope *csymbols.Scope, lines *[]string) string {
	switch node.Symbol {
	case "Expr":
		return g.emitExpr(node.Children[0], scope, lines)
	case "OrExpr", "AndExpr", "EqExpr", "RelExpr", "AddExpr", "MulExpr":
		return g.emitBinaryChain(node, scope, lines)
	case "UnaryExpr":
		return g.emitUnary(node, scope, lines)
	case "Primary":
		return g.emitPrimary(node, scope, lines)
	}
	return "$zero"
}

// emitBinaryChain walks a left-associative "Head -> Sub HeadTail; HeadTail
// -> op Sub HeadTail | ε" chain, pushing the running left-hand value to the
// stack before evaluating each right-hand operand so register pressure
// never exceeds the round-robin's eight slots.
func (g *Generator) emitBinaryChain(node *cparse.Tree, scope *csymbols.Scope, lines *[]string) string {
	leftReg := g.emitExpr(node.Children[0], scope, lines)
	tail := node.Children[1]

	for len(tail.Children) > 0 && tail.Children[0].Symbol != cgrammar.Epsilon {
		op := tail.Children[0].Symbol
		g.push(leftReg, lines)
		rightReg := g.emitExpr(tail.Children[1], scope, lines)
		poppedLeft := g.nextTemp()
		g.pop(poppedLeft, lines)
		dest := g.nextTemp()
		g.emitOp(op, poppedLeft, rightReg, dest, lines)
		leftReg = dest
		tail = tail.Children[2]
	}
	return leftReg
}

func (g *Generator) emitOp(op, l, r, dest string, lines *[]string) {
	var instr string
	switch op {
	case "+":
		instr = fmt.Sprintf("add %s, %s, %s", dest, l, r)
	case "-":
		instr = fmt.Sprintf("sub %s, %s, %s", dest, l, r)
	case "*":
		instr = fmt.Sprintf("mul %s, %s, %s", dest, l, r)
	case "/":
		instr = fmt.Sprintf("div %s, %s\n    mflo %s", l, r, dest)
	case "%":
		instr = fmt.Sprintf("div %s, %s\n    mfhi %s", l, r, dest)
	case "<":
		instr = fmt.Sprintf("slt %s, %s, %s", dest, l, r)
	case ">":
		instr = fmt.Sprintf("sgt %s, %s, %s", dest, l, r)
	case "<=":
		instr = fmt.Sprintf("sle %s, %s, %s", dest, l, r)
	case ">=":
		instr = fmt.Sprintf("sge %s, %s, %s", dest, l, r)
	case "==":
		instr = fmt.Sprintf("seq %s, %s, %s", dest, l, r)
	case "!=":
		instr = fmt.Sprintf("sne %s, %s, %s", dest, l, r)
	case "&&":
		instr = fmt.Sprintf("and %s, %s, %s", dest, l, r)
	case "||":
		instr = fmt.Sprintf("or %s, %s, %s", dest, l, r)
	default:
		instr = fmt.Sprintf("# unsupported operator %s", op)
	}
	*lines = append(*lines, instr)
}

func (g *Generator) emitUnary(node *cparse.Tree, scope *csymbols.Scope, lines *[]string) string {
	if node.Children[0].Symbol == "Primary" {
		return g.emitExpr(node.Children[0], scope, lines)
	}
	op := node.Children[0].Symbol
	operand := g.emitExpr(node.Children[1], scope, lines)
	dest := g.nextTemp()
	if op == "-" {
		*lines = append(*lines, fmt.Sprintf("sub %s, $zero, %s", dest, operand))
	} else {
		*lines = append(*lines, fmt.Sprintf("xori %s, %s, 1", dest, operand))
	}
	return dest
}

func (g *Generator) emitPrimary(node *cparse.Tree, scope *csymbols.Scope, lines *[]string) string {
	first := node.Children[0]
	switch first.Symbol {
	case "intlit":
		dest := g.nextTemp()
		*lines = append(*lines, fmt.Sprintf("li %s, %d", dest, intLiteralValue(first)))
		return dest
	case "floatlit":
		dest := g.nextTemp()
		*lines = append(*lines, fmt.Sprintf("li %s, %d", dest, fixedPointValue(first)))
		return dest
	case "strlit":
		label := g.newLabel("str")
		g.data = append(g.data, fmt.Sprintf("%s: .asciiz %q", label, first.Token.Lexeme))
		dest := g.nextTemp()
		*lines = append(*lines, fmt.Sprintf("la %s, %s", dest, label))
		return dest
	case "true":
		dest := g.nextTemp()
		*lines = append(*lines, fmt.Sprintf("li %s, 1", dest))
		return dest
	case "false":
		dest := g.nextTemp()
		*lines = append(*lines, fmt.Sprintf("li %s, 0", dest))
		return dest
	case "(":
		return g.emitExpr(node.Children[1], scope, lines)
	case "id":
		name := tokLexeme(first)
		tail := node.Children[1]
		if len(tail.Children) > 0 && tail.Children[0].Symbol == "(" {
			return g.emitCall(name, tail, scope, lines)
		}
		offset := g.offsetFor(name)
		dest := g.nextTemp()
		*lines = append(*lines, fmt.Sprintf("lw %s, -%d($fp)", dest, offset))
		return dest
	}
	return "$zero"
}

// emitCall evaluates every argument in declared (left-to-right) order, then
// pushes them onto the stack in reverse: the last-declared argument first,
// the first-declared argument last. That puts the first parameter at a
// fixed $fp+8 in the callee's frame, the second at $fp+12, and so on,
// independent of how many arguments were passed. It then jumps and links to
// name, pops the arguments back off on return, and copies the result out of
// $v0 into a fresh temporary.
func (g *Generator) emitCall(name string, callTail *cparse.Tree, scope *csymbols.Scope, lines *[]string) string {
	var argRegs []string
	if argsOpt := child(callTail, "ArgsOpt"); argsOpt != nil {
		if args := child(argsOpt, "Args"); args != nil {
			argRegs = append(argRegs, g.emitExpr(args.Children[0], scope, lines))
			tail := args.Children[1]
			for len(tail.Children) > 0 && tail.Children[0].Symbol != cgrammar.Epsilon {
				argRegs = append(argRegs, g.emitExpr(tail.Children[1], scope, lines))
				tail = tail.Children[2]
			}
		}
	}
	for i := len(argRegs) - 1; i >= 0; i-- {
		g.push(argRegs[i], lines)
	}
	*lines = append(*lines, fmt.Sprintf("jal %s", name))
	if len(argRegs) > 0 {
		*lines = append(*lines, fmt.Sprintf("addiu $sp, $sp, %d", len(argRegs)*4))
	}
	dest := g.nextTemp()
	*lines = append(*lines, fmt.Sprintf("move %s, $v0", dest))
	return dest
}

// fixedPointValue implements the documented float limitation: a float
// literal is carried through the rest of codegen as its value scaled by
// 100 and truncated to an integer, since the target has no floating-point
// code path.
func fixedPointValue(n *cparse.Tree) int64 {
	if n.Token == nil {
		return 0
	}
	if v, ok := n.Token.Value.(float64); ok {
		return int64(v * 100)
	}
	v, _ := strconv.ParseFloat(n.Token.Lexeme, 64)
	return int64(v * 100)
}
