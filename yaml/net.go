// Package yaml reads and writes run files: a net definition plus its
// initial marking.
package yaml

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/petriflow/petrisim"
)

// Service loads and flushes run files.
type Service struct{}

var _ petrisim.Loader[*petrisim.Definition] = (*Service)(nil)
var _ petrisim.Flusher[*petrisim.Definition] = (*Service)(nil)

func (s *Service) Load(r io.Reader) (*petrisim.Definition, error) {
	dec := yaml.NewDecoder(r)
	var d petrisim.Definition
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Service) Flush(w io.Writer, d *petrisim.Definition) error {
	enc := yaml.NewEncoder(w)
	defer func() {
		_ = enc.Close()
	}()
	return enc.Encode(d)
}
