package petrisim

import (
	"fmt"
	"sort"
	"strings"
)

// Marking maps place ids to token counts. A count is never negative at any
// point in time, for any place.
type Marking map[string]int

// NewMarking validates an initial marking against the net: every key must
// name a known place and no count may be negative. Places the marking does
// not mention hold zero tokens.
func NewMarking(n *Net, counts map[string]int) (Marking, error) {
	m := make(Marking, len(n.Places))
	for _, p := range n.Places {
		m[p.ID] = 0
	}
	for id, count := range counts {
		if n.Place(id) == nil {
			return nil, &StructuralError{Kind: PlaceNode.String(), ID: id, Detail: "marking references unknown place"}
		}
		if count < 0 {
			return nil, &StructuralError{Kind: PlaceNode.String(), ID: id, Detail: fmt.Sprintf("negative token count %d", count)}
		}
		m[id] = count
	}
	return m, nil
}

// Copy returns an independent snapshot.
func (m Marking) Copy() Marking {
	ret := make(Marking, len(m))
	for k, v := range m {
		ret[k] = v
	}
	return ret
}

func (m Marking) Equal(other Marking) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		if other[k] != v {
			return false
		}
	}
	return true
}

// Zero reports whether every place is empty.
func (m Marking) Zero() bool {
	for _, v := range m {
		if v != 0 {
			return false
		}
	}
	return true
}

// Tokens returns the count at the given place id.
func (m Marking) Tokens(id string) int {
	return m[id]
}

// Total returns the number of tokens across all places.
func (m Marking) Total() int {
	sum := 0
	for _, v := range m {
		sum += v
	}
	return sum
}

func (m Marking) String() string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s:%d", id, m[id]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
