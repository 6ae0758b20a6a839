// Package expr defines the boolean query expression tree built by the
// argument parser and the set algebra used to evaluate it against
// per-term search results.
package expr

// Node is the interface implemented by all expression tree nodes. The
// node set is closed: evaluation switches exhaustively over the concrete
// types and treats anything else as a programming error.
type Node interface {
	node()
}

// Query is a leaf node matching a single search term (-q "term").
type Query struct {
	Term string
}

func (Query) node() {}

// And is the intersection of its children.
type And struct {
	Left  Node
	Right Node
}

func (And) node() {}

// Or is the union of its children.
type Or struct {
	Left  Node
	Right Node
}

func (Or) node() {}

// Not is the complement of its child. The complement base (the universe)
// is not stored on the node; it is bound when the tree is frozen for
// evaluation, so a single parse stays reusable across scopes whose
// identity spaces differ.
type Not struct {
	Child Node
}

func (Not) node() {}

// Queries returns the distinct query terms appearing anywhere in the
// tree, in first-occurrence order. Each distinct term is issued exactly
// once against the API regardless of how often it appears.
func Queries(root Node) []string {
	if root == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var terms []string
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case Query:
			if _, ok := seen[n.Term]; !ok {
				seen[n.Term] = struct{}{}
				terms = append(terms, n.Term)
			}
		case And:
			walk(n.Left)
			walk(n.Right)
		case Or:
			walk(n.Left)
			walk(n.Right)
		case Not:
			walk(n.Child)
		}
	}
	walk(root)
	return terms
}
