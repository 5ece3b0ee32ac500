package petrisim

var _ Node = (*Transition)(nil)

// Transition represents an action; it fires when enabled.
type Transition struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

func NewTransition(name string) *Transition {
	return &Transition{
		ID:   ID(),
		Name: name,
	}
}

func (t *Transition) Kind() Kind { return TransitionNode }

func (t *Transition) Identifier() string { return t.ID }

func (t *Transition) String() string { return t.Name }
