// Package ccodegen walks the parse tree and symbol table to emit MIPS32
// assembly text targeting the SPIM simulator, using a custom stack-based
// calling convention: $fp/$ra-linked frames, round-robin $t0..$t7
// temporaries, and offsets assigned to local variables on first use.
package ccodegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kendall/compix/internal/cparse"
	"github.com/kendall/compix/internal/csymbols"
)

// Generator holds the per-run label counter (shared by every prefix, so
// emitted labels stay globally unique and monotonically increasing) and the
// per-function state that is reset at each function boundary: the
// round-robin temporary-register cursor and the variable -> frame-offset
// map.
type Generator struct {
	types map[uuid.UUID]string

	labelNum int

	tempCursor int
	offsets    map[string]int
	nextOffset int

	data []string
}

// Generate produces the complete assembly text for root (a Program tree),
// resolving identifiers through global and expression types through types
// (as computed by ctypecheck.Check).
func Generate(root *cparse.Tree, global *csymbols.Scope, types map[uuid.UUID]string) string {
	g := &Generator{types: types, data: []string{`nl: .asciiz "\n"`, `readbuf: .space 128`}}

	var textSections []string
	funcList := child(root, "FuncList")
	for funcList != nil {
		decl := child(funcList, "FuncDecl")
		if decl == nil {
			break
		}
		textSections = append(textSections, g.genFunction(decl, global))
		funcList = child(funcList, "FuncList")
	}

	var out strings.Builder
	out.WriteString(".data\n")
	for _, d := range g.data {
		out.WriteString(d + "\n")
	}
	out.WriteString(".text\n.globl main\n")
	for _, t := range textSections {
		out.WriteString(t)
	}
	return out.String()
}

func (g *Generator) newLabel(prefix string) string {
	g.labelNum++
	return fmt.Sprintf("%s%d", prefix, g.labelNum)
}

// nextTemp returns the next temporary register in the $t0..$t7 round-robin.
func (g *Generator) nextTemp() string {
	reg := fmt.Sprintf("$t%d", g.tempCursor%8)
	g.tempCursor++
	return reg
}

// offsetFor assigns (lazily, on first use) a positive, 4-byte-incrementing
// frame offset to name, and returns it.
func (g *Generator) offsetFor(name string) int {
	if off, ok := g.offsets[name]; ok {
		return off
	}
	g.nextOffset += 4
	g.offsets[name] = g.nextOffset
	return g.nextOffset
}

func (g *Generator) resetFunction() {
	g.offsets = map[string]int{}
	g.nextOffset = 0
	g.tempCursor = 0
}

func (g *Generator) push(reg string, lines *[]string) {
	*lines = append(*lines, "addiu $sp, $sp, -4", fmt.Sprintf("sw %s, 0($sp)", reg))
}

func (g *Generator) pop(reg string, lines *[]string) {
	*lines = append(*lines, fmt.Sprintf("lw %s, 0($sp)", reg), "addiu $sp, $sp, 4")
}

func (g *Generator) genFunction(decl *cparse.Tree, global *csymbols.Scope) string {
	head := child(decl, "FuncHead")
	g.resetFunction()

	var name string
	isMain := head.Children[0].Symbol == "main"
	if isMain {
		name = "main"
	} else {
		name = tokLexeme(head.Children[0])
	}

	fnScope, _ := global.ChildByName(name)

	// Reserve a local slot for each parameter, in declared order, before the
	// body assigns any of its own locals, and emit the copies that pull each
	// one in from its caller-pushed address ($fp+8, $fp+12, ... regardless
	// of argument count, since emitCall pushes arguments right-to-left).
	var paramCopies []string
	if !isMain {
		if fnSym, ok := global.Lookup(name); ok {
			for i, p := range fnSym.Params {
				off := g.offsetFor(p.Name)
				reg := g.nextTemp()
				paramCopies = append(paramCopies,
					fmt.Sprintf("lw %s, %d($fp)", reg, 8+4*i),
					fmt.Sprintf("sw %s, -%d($fp)", reg, off))
			}
		}
	}

	var body []string
	block := child(head, "Block")
	if block != nil {
		g.genStmts(child(block, "MoreStmts"), fnScope, name, isMain, &body)
	}

	var out strings.Builder
	out.WriteString(name + ":\n")

	if !isMain {
		out.WriteString(indent("addiu $sp, $sp, -8"))
		out.WriteString(indent("sw $ra, 4($sp)"))
		out.WriteString(indent("sw $fp, 0($sp)"))
		out.WriteString(indent("move $fp, $sp"))
		if g.nextOffset > 0 {
			out.WriteString(indent(fmt.Sprintf("addiu $sp, $sp, -%d", g.nextOffset)))
		}
		for _, line := range paramCopies {
			out.WriteString(indentLine(line))
		}
	}

	for _, line := range body {
		out.WriteString(indentLine(line))
	}

	if !isMain {
		// Fall-through exit for a function whose last statement was not a
		// return: still restore the caller's frame.
		out.WriteString(indent("move $sp, $fp"))
		out.WriteString(indent("lw $fp, 0($sp)"))
		out.WriteString(indent("lw $ra, 4($sp)"))
		out.WriteString(indent("addiu $sp, $sp, 8"))
		out.WriteString(indent("jr $ra"))
	}

	return out.String()
}

func indent(instr string) string {
	return "    " + instr + "\n"
}

// indentLine indents every already-assembled instruction or passes labels
// (ending in ":") through unindented.
func indentLine(line string) string {
	if strings.HasSuffix(line, ":") {
		return line + "\n"
	}
	return "    " + line + "\n"
}

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

func intLiteralValue(n *cparse.Tree) int64 {
	if n.Token == nil {
		return 0
	}
	if v, ok := n.Token.Value.(int64); ok {
		return v
	}
	v, _ := strconv.ParseInt(n.Token.Lexeme, 10, 64)
	return v
}
