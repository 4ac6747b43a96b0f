package domain

import "sort"

// UnknownTypeRank is the rank given to types absent from a precedence table.
const UnknownTypeRank = 99

// TypePrecedence maps requirement types to their sort rank.
// Lower ranks sort first.
type TypePrecedence map[RequirementType]int

// DefaultTypePrecedence returns functional, non-functional, domain, inverse.
func DefaultTypePrecedence() TypePrecedence {
	return PrecedenceFromOrder(AllRequirementTypes())
}

// PrecedenceFromOrder builds a table ranking types by their position in
// order, starting at 1. Repeated types keep their first position.
func PrecedenceFromOrder(order []RequirementType) TypePrecedence {
	p := make(TypePrecedence, len(order))
	rank := 1
	for _, t := range order {
		if _, seen := p[t]; seen {
			continue
		}
		p[t] = rank
		rank++
	}
	return p
}

// Rank returns the rank of t, or UnknownTypeRank.
func (p TypePrecedence) Rank(t RequirementType) int {
	if r, ok := p[t]; ok {
		return r
	}
	return UnknownTypeRank
}

// SortByTypePrecedence returns a new slice ordered by the rank of each
// requirement's type. Requirements of equal rank keep their relative order.
// A nil table uses DefaultTypePrecedence. The input is not modified.
func SortByTypePrecedence(reqs []Requirement, table TypePrecedence) []Requirement {
	if table == nil {
		table = DefaultTypePrecedence()
	}
	out := CloneRequirements(reqs)
	sort.SliceStable(out, func(i, j int) bool {
		return table.Rank(out[i].Type) < table.Rank(out[j].Type)
	})
	return out
}
