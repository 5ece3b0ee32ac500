package history

import (
	"encoding/json"
	"io"

	"github.com/petriflow/petrisim"
	"github.com/petriflow/petrisim/firing"
)

// Bundle is the export contract: the net definition, the initial marking
// and the full history are together sufficient to reconstruct every
// intermediate marking. No hidden state.
type Bundle struct {
	Net     *petrisim.Definition `json:"net"`
	Initial petrisim.Marking     `json:"initial"`
	Events  []*firing.Event      `json:"events"`
}

// NewBundle snapshots a run for export.
func NewBundle(n *petrisim.Net, initial petrisim.Marking, log *Log) *Bundle {
	return &Bundle{
		Net:     petrisim.Describe(n, initial.Copy()),
		Initial: initial.Copy(),
		Events:  log.Events(),
	}
}

// MarkingAt replays the bundle to the given index.
func (b *Bundle) MarkingAt(index int) (petrisim.Marking, error) {
	return ReplayTo(b.Initial, b.Events, index)
}

func (b *Bundle) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

func DecodeBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	dec := json.NewDecoder(r)
	if err := dec.Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}
