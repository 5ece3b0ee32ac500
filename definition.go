package petrisim

// ArcDef references its endpoints by id. Direction is inferred from which
// endpoint names a transition.
type ArcDef struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Weight int    `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Definition is the flat, serializable form of a net plus its initial
// marking. It is what run files and export bundles carry.
type Definition struct {
	Name        string         `json:"name,omitempty" yaml:"name,omitempty"`
	Places      []*Place       `json:"places" yaml:"places"`
	Transitions []*Transition  `json:"transitions" yaml:"transitions"`
	Arcs        []ArcDef       `json:"arcs" yaml:"arcs"`
	Initial     map[string]int `json:"initial,omitempty" yaml:"initial,omitempty"`
}

// Net resolves the definition into a validated Net. Arc endpoints are
// looked up by id; anything unresolved is a *StructuralError.
func (d *Definition) Net() (*Net, error) {
	byID := make(map[string]Node, len(d.Places)+len(d.Transitions))
	for _, p := range d.Places {
		byID[p.ID] = p
	}
	for _, t := range d.Transitions {
		if _, ok := byID[t.ID]; ok {
			return nil, &StructuralError{Kind: TransitionNode.String(), ID: t.ID, Detail: "id already names a place"}
		}
		byID[t.ID] = t
	}
	arcs := make([]*Arc, 0, len(d.Arcs))
	for _, a := range d.Arcs {
		src, ok := byID[a.From]
		if !ok {
			return nil, &StructuralError{Kind: "arc", ID: a.From + " -> " + a.To, Detail: "references unknown node " + a.From}
		}
		dest, ok := byID[a.To]
		if !ok {
			return nil, &StructuralError{Kind: "arc", ID: a.From + " -> " + a.To, Detail: "references unknown node " + a.To}
		}
		arcs = append(arcs, NewArc(src, dest, a.Weight))
	}
	net, err := NewNet(d.Places, d.Transitions, arcs)
	if err != nil {
		return nil, err
	}
	net.Name = d.Name
	return net, nil
}

// Marking resolves the definition's initial marking against the resolved
// net.
func (d *Definition) Marking(n *Net) (Marking, error) {
	return NewMarking(n, d.Initial)
}

// Describe flattens a net and an initial marking back into a Definition,
// the inverse of Definition.Net. Used by the export bundle.
func Describe(n *Net, initial Marking) *Definition {
	d := &Definition{
		Name:        n.Name,
		Places:      n.Places,
		Transitions: n.Transitions,
		Arcs:        make([]ArcDef, 0, len(n.Arcs)),
		Initial:     initial,
	}
	for _, a := range n.Arcs {
		d.Arcs = append(d.Arcs, ArcDef{From: a.Src.Identifier(), To: a.Dest.Identifier(), Weight: a.Weight})
	}
	return d
}
