package expr

import (
	"errors"
	"fmt"
)

// ErrNoUniverse is returned when a NOT node is evaluated through a tree
// that was frozen without a universe. Correct executor ordering computes
// the universe before evaluating, so hitting this indicates a defect in
// the caller, not bad user input.
var ErrNoUniverse = errors.New("expr: NOT node evaluated without a universe")

// Set is an identity set the evaluator operates on.
type Set[K comparable] map[K]struct{}

// NewSet builds a set from its members.
func NewSet[K comparable](members ...K) Set[K] {
	s := make(Set[K], len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Contains reports whether k is a member of s.
func (s Set[K]) Contains(k K) bool {
	_, ok := s[k]
	return ok
}

// Union returns a new set with the members of both s and o.
func (s Set[K]) Union(o Set[K]) Set[K] {
	out := make(Set[K], len(s)+len(o))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range o {
		out[k] = struct{}{}
	}
	return out
}

// Intersect returns a new set with the members common to s and o.
func (s Set[K]) Intersect(o Set[K]) Set[K] {
	small, large := s, o
	if len(o) < len(s) {
		small, large = o, s
	}
	out := make(Set[K])
	for k := range small {
		if _, ok := large[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// Difference returns a new set with the members of s not in o.
func (s Set[K]) Difference(o Set[K]) Set[K] {
	out := make(Set[K])
	for k := range s {
		if _, ok := o[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// Frozen is an evaluation-ready expression tree: the parsed tree plus the
// universe NOT nodes complement against. The universe is the union of all
// identities matched by any term of the expression, not the set of all
// objects in the target projects; the full object universe is never
// enumerated. A consequence worth knowing: a sole top-level NOT always
// evaluates to the empty set, and a NOT can never surface objects that no
// positive term matched.
type Frozen[K comparable] struct {
	root     Node
	universe Set[K]
}

// Freeze binds root to the universe of candidate identities. A nil
// universe marks the tree as not evaluation-ready for NOT; an empty
// non-nil universe is legitimate (no term matched anything).
func Freeze[K comparable](root Node, universe Set[K]) *Frozen[K] {
	return &Frozen[K]{root: root, universe: universe}
}

// Evaluate computes the identity set matched by the expression given the
// per-term result sets. Terms absent from sets contribute the empty set.
func (f *Frozen[K]) Evaluate(sets map[string]Set[K]) (Set[K], error) {
	return f.eval(f.root, sets)
}

func (f *Frozen[K]) eval(n Node, sets map[string]Set[K]) (Set[K], error) {
	switch n := n.(type) {
	case Query:
		if s, ok := sets[n.Term]; ok {
			return s, nil
		}
		return Set[K]{}, nil
	case And:
		left, err := f.eval(n.Left, sets)
		if err != nil {
			return nil, err
		}
		right, err := f.eval(n.Right, sets)
		if err != nil {
			return nil, err
		}
		return left.Intersect(right), nil
	case Or:
		left, err := f.eval(n.Left, sets)
		if err != nil {
			return nil, err
		}
		right, err := f.eval(n.Right, sets)
		if err != nil {
			return nil, err
		}
		return left.Union(right), nil
	case Not:
		if f.universe == nil {
			return nil, ErrNoUniverse
		}
		child, err := f.eval(n.Child, sets)
		if err != nil {
			return nil, err
		}
		return f.universe.Difference(child), nil
	default:
		return nil, fmt.Errorf("expr: unknown node type %T", n)
	}
}
