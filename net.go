package petrisim

import "io"

// Net is an immutable Petri net definition. Structural edits require
// building a new Net; a running simulation never mutates it.
type Net struct {
	ID          string
	Name        string
	Places      []*Place
	Transitions []*Transition
	Arcs        []*Arc

	places      map[string]*Place
	transitions map[string]*Transition
	inputs      map[string][]*Arc
	outputs     map[string][]*Arc
}

// NewNet validates the definition and builds the arc indices. Any reference
// to an unknown element, an arc between two nodes of the same kind, a
// duplicate id, or a weight below one is a *StructuralError.
func NewNet(places []*Place, transitions []*Transition, arcs []*Arc, id ...string) (*Net, error) {
	ii := ""
	if len(id) > 0 {
		ii = id[0]
	}
	net := &Net{
		ID:          ii,
		Places:      places,
		Transitions: transitions,
		Arcs:        arcs,
		places:      make(map[string]*Place, len(places)),
		transitions: make(map[string]*Transition, len(transitions)),
		inputs:      make(map[string][]*Arc),
		outputs:     make(map[string][]*Arc),
	}
	for _, p := range places {
		if p.ID == "" {
			p.ID = ID()
		}
		if _, ok := net.places[p.ID]; ok {
			return nil, &StructuralError{Kind: PlaceNode.String(), ID: p.ID, Detail: "duplicate id"}
		}
		net.places[p.ID] = p
	}
	for _, t := range transitions {
		if t.ID == "" {
			t.ID = ID()
		}
		if _, ok := net.transitions[t.ID]; ok {
			return nil, &StructuralError{Kind: TransitionNode.String(), ID: t.ID, Detail: "duplicate id"}
		}
		if _, ok := net.places[t.ID]; ok {
			return nil, &StructuralError{Kind: TransitionNode.String(), ID: t.ID, Detail: "id already names a place"}
		}
		net.transitions[t.ID] = t
	}
	for _, arc := range arcs {
		if err := net.checkArc(arc); err != nil {
			return nil, err
		}
		net.outputs[arc.Src.Identifier()] = append(net.outputs[arc.Src.Identifier()], arc)
		net.inputs[arc.Dest.Identifier()] = append(net.inputs[arc.Dest.Identifier()], arc)
	}
	return net, nil
}

func (n *Net) checkArc(arc *Arc) error {
	if arc.Src == nil || arc.Dest == nil {
		return &StructuralError{Kind: "arc", ID: arc.ID, Detail: "missing endpoint"}
	}
	if arc.Src.Kind() == arc.Dest.Kind() {
		return &StructuralError{Kind: "arc", ID: arc.ID, Detail: "connects two " + arc.Src.Kind().String() + "s"}
	}
	if arc.Weight < 1 {
		return &StructuralError{Kind: "arc", ID: arc.ID, Detail: "weight below one"}
	}
	for _, end := range []Node{arc.Src, arc.Dest} {
		switch end.Kind() {
		case PlaceNode:
			if n.places[end.Identifier()] != end {
				return &StructuralError{Kind: "arc", ID: arc.ID, Detail: "references unknown place " + end.Identifier()}
			}
		case TransitionNode:
			if n.transitions[end.Identifier()] != end {
				return &StructuralError{Kind: "arc", ID: arc.ID, Detail: "references unknown transition " + end.Identifier()}
			}
		}
	}
	return nil
}

// Inputs returns the arcs ending at n, in declaration order.
func (n *Net) Inputs(node Node) []*Arc {
	return n.inputs[node.Identifier()]
}

// Outputs returns the arcs starting at n, in declaration order.
func (n *Net) Outputs(node Node) []*Arc {
	return n.outputs[node.Identifier()]
}

// Place resolves a place by id.
func (n *Net) Place(id string) *Place {
	return n.places[id]
}

// Transition resolves a transition by id.
func (n *Net) Transition(id string) *Transition {
	return n.transitions[id]
}

// Loader reads a value of type T from a stream.
type Loader[T any] interface {
	Load(io.Reader) (T, error)
}

// Flusher writes a value of type T to a stream.
type Flusher[T any] interface {
	Flush(io.Writer, T) error
}
