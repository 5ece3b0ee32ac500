package petrisim

// Arc is a weighted connection from a place to a transition or from a
// transition to a place. Direction relative to a transition is inferred
// from which endpoint is the transition.
type Arc struct {
	ID     string
	Src    Node
	Dest   Node
	Weight int
}

// NewArc connects src to dest. A weight below one is defaulted to one.
func NewArc(src, dest Node, weight int) *Arc {
	if weight < 1 {
		weight = 1
	}
	return &Arc{
		ID:     ID(),
		Src:    src,
		Dest:   dest,
		Weight: weight,
	}
}

// Place returns the place endpoint of the arc, or nil for a malformed arc.
func (a *Arc) Place() *Place {
	if p, ok := a.Src.(*Place); ok {
		return p
	}
	if p, ok := a.Dest.(*Place); ok {
		return p
	}
	return nil
}

// Transition returns the transition endpoint of the arc, or nil for a
// malformed arc.
func (a *Arc) Transition() *Transition {
	if t, ok := a.Src.(*Transition); ok {
		return t
	}
	if t, ok := a.Dest.(*Transition); ok {
		return t
	}
	return nil
}

func (a *Arc) Identifier() string { return a.ID }

func (a *Arc) String() string {
	return a.Src.Identifier() + " -> " + a.Dest.Identifier()
}
