package petrisim

// Kind discriminates the node types of a net.
type Kind int

const (
	PlaceNode Kind = iota
	TransitionNode
)

func (k Kind) String() string {
	switch k {
	case PlaceNode:
		return "place"
	case TransitionNode:
		return "transition"
	default:
		return "unknown"
	}
}

// Node is either a Place or a Transition.
type Node interface {
	Kind() Kind
	Identifier() string
	String() string
}
