package petrisim

var _ Node = (*Place)(nil)

// Place holds tokens. Capacity is advisory: zero means unbounded, and the
// engine only acts on it when capacity enforcement is switched on.
type Place struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Capacity int    `json:"capacity,omitempty" yaml:"capacity,omitempty"`
}

func NewPlace(name string, capacity int) *Place {
	return &Place{
		ID:       ID(),
		Name:     name,
		Capacity: capacity,
	}
}

func (p *Place) Kind() Kind { return PlaceNode }

func (p *Place) Identifier() string { return p.ID }

func (p *Place) String() string { return p.Name }
