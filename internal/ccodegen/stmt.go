package ccodegen

import (
	"fmt"

	"github.com/kendall/compix/internal/cgrammar"
	"github.com/kendall/compix/internal/cparse"
	"github.com/kendall/compix/internal/csymbols"
)

// genStmts walks a MoreStmts chain, appending instructions for every
// statement to lines.
func (g *Generator) genStmts(moreStmts *cparse.Tree, scope *csymbols.Scope, fnName string, isMain bool, lines *[]string) {
	for moreStmts != nil {
		stmt := child(moreStmts, "Stmt")
		if stmt == nil {
			break
		}
		g.genStmt(stmt.Children[0], scope, fnName, isMain, lines)
		moreStmts = child(moreStmts, "MoreStmts")
	}
}

func (g *Generator) genStmt(node *cparse.Tree, scope *csymbols.Scope, fnName string, isMain bool, lines *[]string) {
	switch node.Symbol {
	case "IdStmt":
		g.genIdStmt(node, scope, lines)
	case "IfStmt":
		g.genIfStmt(node, scope, fnName, isMain, lines)
	case "WhileStmt":
		g.genWhileStmt(node, scope, fnName, isMain, lines)
	case "ForStmt":
		g.genForStmt(node, scope, fnName, isMain, lines)
	case "ReturnStmt":
		g.genReturnStmt(node, scope, fnName, isMain, lines)
	case "ShowStmt":
		g.genShowStmt(node, scope, lines)
	case "ReadStmt":
		g.genReadStmt(node, scope, lines)
	}
}

func (g *Generator) genIdStmt(node *cparse.Tree, scope *csymbols.Scope, lines *[]string) {
	name := tokLexeme(node.Children[0])
	tail := node.Children[1]

	switch {
	case len(tail.Children) > 0 && tail.Children[0].Symbol == "Type":
		// declaration: x Type [= expr] ;
		offset := g.offsetFor(name)
		initOpt := tail.Children[1]
		if len(initOpt.Children) > 0 && initOpt.Children[0].Symbol != cgrammar.Epsilon {
			reg := g.emitExpr(initOpt.Children[1], scope, lines)
			*lines = append(*lines, fmt.Sprintf("sw %s, -%d($fp)", reg, offset))
		}
	case tail.Children[0].Symbol == "=":
		// assignment: x = expr ;
		reg := g.emitExpr(tail.Children[1], scope, lines)
		offset := g.offsetFor(name)
		*lines = append(*lines, fmt.Sprintf("sw %s, -%d($fp)", reg, offset))
	default:
		// call statement: x(args) ; — result is discarded.
		g.emitCall(name, tail, scope, lines)
	}
}

func (g *Generator) genIfStmt(node *cparse.Tree, scope *csymbols.Scope, fnName string, isMain bool, lines *[]string) {
	k := g.newLabelSuffix()
	elseLabel := fmt.Sprintf("else%s", k)
	endLabel := fmt.Sprintf("endif%s", k)

	guardReg := g.emitExpr(child(node, "Expr"), scope, lines)
	*lines = append(*lines, fmt.Sprintf("beq %s, $zero, %s", guardReg, elseLabel))
	g.genStmts(child(child(node, "Block"), "MoreStmts"), scope, fnName, isMain, lines)
	*lines = append(*lines, fmt.Sprintf("j %s", endLabel))
	*lines = append(*lines, elseLabel+":")
	if elseOpt := child(node, "ElseOpt"); elseOpt != nil {
		if elseBlock := child(elseOpt, "Block"); elseBlock != nil {
			g.genStmts(child(elseBlock, "MoreStmts"), scope, fnName, isMain, lines)
		}
	}
	*lines = append(*lines, endLabel+":")
}

func (g *Generator) genWhileStmt(node *cparse.Tree, scope *csymbols.Scope, fnName string, isMain bool, lines *[]string) {
	k := g.newLabelSuffix()
	startLabel := fmt.Sprintf("while_start%s", k)
	endLabel := fmt.Sprintf("while_end%s", k)

	*lines = append(*lines, startLabel+":")
	guardReg := g.emitExpr(child(node, "Expr"), scope, lines)
	*lines = append(*lines, fmt.Sprintf("beq %s, $zero, %s", guardReg, endLabel))
	g.genStmts(child(child(node, "Block"), "MoreStmts"), scope, fnName, isMain, lines)
	*lines = append(*lines, fmt.Sprintf("j %s", startLabel))
	*lines = append(*lines, endLabel+":")
}

// genForStmt lowers for(init; cond; step) body to init followed by a while
// loop whose body is the original body plus the step, per the documented
// desugaring.
func (g *Generator) genForStmt(node *cparse.Tree, scope *csymbols.Scope, fnName string, isMain bool, lines *[]string) {
	if init := child(node, "ForInit"); init != nil {
		g.genForInit(init, scope, lines)
	}

	k := g.newLabelSuffix()
	startLabel := fmt.Sprintf("while_start%s", k)
	endLabel := fmt.Sprintf("while_end%s", k)

	*lines = append(*lines, startLabel+":")
	guardReg := g.emitExpr(child(node, "Expr"), scope, lines)
	*lines = append(*lines, fmt.Sprintf("beq %s, $zero, %s", guardReg, endLabel))
	g.genStmts(child(child(node, "Block"), "MoreStmts"), scope, fnName, isMain, lines)
	if step := child(node, "ForStep"); step != nil {
		name := tokLexeme(step.Children[0])
		reg := g.emitExpr(step.Children[2], scope, lines)
		offset := g.offsetFor(name)
		*lines = append(*lines, fmt.Sprintf("sw %s, -%d($fp)", reg, offset))
	}
	*lines = append(*lines, fmt.Sprintf("j %s", startLabel))
	*lines = append(*lines, endLabel+":")
}

func (g *Generator) genForInit(init *cparse.Tree, scope *csymbols.Scope, lines *[]string) {
	name := tokLexeme(init.Children[0])
	tail := init.Children[1]
	offset := g.offsetFor(name)
	if len(tail.Children) > 0 && tail.Children[0].Symbol == "Type" {
		reg := g.emitExpr(tail.Children[2], scope, lines)
		*lines = append(*lines, fmt.Sprintf("sw %s, -%d($fp)", reg, offset))
		return
	}
	reg := g.emitExpr(tail.Children[1], scope, lines)
	*lines = append(*lines, fmt.Sprintf("sw %s, -%d($fp)", reg, offset))
}

// genReturnStmt evaluates the return expression (if any) into $v0. For
// ordinary functions that is followed by the full epilogue; main instead
// terminates with the syscall-10 exit sequence regardless of the returned
// value, since nothing ever calls main.
func (g *Generator) genReturnStmt(node *cparse.Tree, scope *csymbols.Scope, fnName string, isMain bool, lines *[]string) {
	if exprOpt := child(node, "ReturnExprOpt"); exprOpt != nil && len(exprOpt.Children) > 0 && exprOpt.Children[0].Symbol != cgrammar.Epsilon {
		reg := g.emitExpr(exprOpt.Children[0], scope, lines)
		*lines = append(*lines, fmt.Sprintf("move $v0, %s", reg))
	}
	if isMain {
		*lines = append(*lines, "li $v0, 10", "syscall")
		return
	}
	*lines = append(*lines,
		"move $sp, $fp",
		"lw $fp, 0($sp)",
		"lw $ra, 4($sp)",
		"addiu $sp, $sp, 8",
		"jr $ra",
	)
}

// genShowStmt prints the expression's value followed by a newline. String
// values print via syscall 4 (an address already in the register); numeric
// and boolean values print as integers via syscall 1 — a float is printed
// as its scaled fixed-point integer, the same documented limitation as
// literal evaluation.
func (g *Generator) genShowStmt(node *cparse.Tree, scope *csymbols.Scope, lines *[]string) {
	expr := child(node, "Expr")
	reg := g.emitExpr(expr, scope, lines)
	exprType := g.types[expr.ID]

	if exprType == "string" {
		*lines = append(*lines, "li $v0, 4", fmt.Sprintf("move $a0, %s", reg), "syscall")
	} else {
		*lines = append(*lines, "li $v0, 1", fmt.Sprintf("move $a0, %s", reg), "syscall")
	}
	*lines = append(*lines, "li $v0, 4", "la $a0, nl", "syscall")
}

// genReadStmt reads a value from stdin into the named variable. Int and
// float reads store $v0 after the syscall; a string read fills the shared
// readbuf and stores that buffer's address.
func (g *Generator) genReadStmt(node *cparse.Tree, scope *csymbols.Scope, lines *[]string) {
	name := tokLexeme(node.Children[2])
	offset := g.offsetFor(name)
	sym, _ := scope.Lookup(name)

	switch sym.Type {
	case "string":
		*lines = append(*lines,
			"li $v0, 8",
			"la $a0, readbuf",
			"li $a1, 128",
			"syscall",
		)
		dest := g.nextTemp()
		*lines = append(*lines, fmt.Sprintf("la %s, readbuf", dest), fmt.Sprintf("sw %s, -%d($fp)", dest, offset))
	case "float":
		*lines = append(*lines, "li $v0, 6", "syscall", fmt.Sprintf("sw $v0, -%d($fp)", offset))
	default:
		*lines = append(*lines, "li $v0, 5", "syscall", fmt.Sprintf("sw $v0, -%d($fp)", offset))
	}
}

// newLabelSuffix allocates one shared counter value used for both halves
// of a matched label pair (else/endif, while_start/while_end), so they
// carry the same numeric suffix.
func (g *Generator) newLabelSuffix() string {
	g.labelNum++
	return fmt.Sprintf("%d", g.labelNum)
}
