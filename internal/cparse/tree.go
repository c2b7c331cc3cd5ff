// Package cparse implements the explicit-stack LL(1) parsing driver and the
// concrete parse tree it builds.
package cparse

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kendall/compix/internal/clex"
)

// nodeNamespace is an arbitrary, fixed namespace UUID used to derive every
// parse-tree node's ID deterministically from its ordinal position in a
// single Parse call's node-allocation order, so identical input produces a
// byte-identical tree (node IDs included) across runs.
var nodeNamespace = uuid.MustParse("6af84af1-bb2c-4d0b-9c40-ee6c0c2c1f00")

// Tree is one node of the concrete parse tree: a stable unique ID (for
// diagram rendering), the terminal or nonterminal symbol name, the matched
// token if this is a terminal leaf, an ordered list of children, and a
// back-link to the parent (nil at the root).
type Tree struct {
	ID       uuid.UUID
	Symbol   string
	Terminal bool
	Token    *clex.Token
	Children []*Tree
	Parent   *Tree
}

// newNode allocates a Tree node with an ID deterministically derived from
// seq, the node's ordinal position in its Parse call's allocation order.
func newNode(symbol string, seq int) *Tree {
	return &Tree{ID: uuid.NewSHA1(nodeNamespace, []byte(strconv.Itoa(seq))), Symbol: symbol}
}

// addChild appends child to t.Children and sets child's Parent back-link.
func (t *Tree) addChild(child *Tree) {
	child.Parent = t
	t.Children = append(t.Children, child)
}

// String renders the tree using indentation to show nesting, for
// interactive-mode inspection.
func (t *Tree) String() string {
	var sb strings.Builder
	t.write(&sb, 0)
	return sb.String()
}

func (t *Tree) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if t.Terminal {
		if t.Token != nil {
			sb.WriteString(t.Token.String())
		} else {
			sb.WriteString(t.Symbol)
		}
	} else {
		sb.WriteString(t.Symbol)
	}
	sb.WriteString("\n")
	for _, c := range t.Children {
		c.write(sb, depth+1)
	}
}
