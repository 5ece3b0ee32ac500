package yaml_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/petriflow/petrisim"
	pyaml "github.com/petriflow/petrisim/yaml"
)

const runFile = `
name: assembly
places:
  - id: parts
    name: parts
  - id: done
    name: done
    capacity: 10
transitions:
  - id: assemble
    name: assemble
arcs:
  - from: parts
    to: assemble
    weight: 2
  - from: assemble
    to: done
initial:
  parts: 4
`

func TestLoadRunFile(t *testing.T) {
	svc := &pyaml.Service{}
	d, err := svc.Load(strings.NewReader(runFile))
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "assembly" {
		t.Errorf("name = %q", d.Name)
	}
	n, err := d.Net()
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Places) != 2 || len(n.Transitions) != 1 || len(n.Arcs) != 2 {
		t.Fatalf("net shape: %d places, %d transitions, %d arcs",
			len(n.Places), len(n.Transitions), len(n.Arcs))
	}
	if n.Arcs[0].Weight != 2 || n.Arcs[1].Weight != 1 {
		t.Errorf("weights = %d, %d", n.Arcs[0].Weight, n.Arcs[1].Weight)
	}
	if n.Place("done").Capacity != 10 {
		t.Errorf("capacity = %d", n.Place("done").Capacity)
	}
	m, err := d.Marking(n)
	if err != nil {
		t.Fatal(err)
	}
	if m.Tokens("parts") != 4 || m.Tokens("done") != 0 {
		t.Errorf("marking = %s", m)
	}
}

func TestFlushRoundTrip(t *testing.T) {
	svc := &pyaml.Service{}
	d, err := svc.Load(strings.NewReader(runFile))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := svc.Flush(&buf, d); err != nil {
		t.Fatal(err)
	}
	back, err := svc.Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if back.Name != d.Name || len(back.Arcs) != len(d.Arcs) {
		t.Errorf("round trip lost structure: %+v", back)
	}
	if back.Arcs[0] != (petrisim.ArcDef{From: "parts", To: "assemble", Weight: 2}) {
		t.Errorf("arc = %+v", back.Arcs[0])
	}
	if back.Initial["parts"] != 4 {
		t.Errorf("initial = %v", back.Initial)
	}
}

func TestLoadRejectsBadStructure(t *testing.T) {
	svc := &pyaml.Service{}
	d, err := svc.Load(strings.NewReader(`
places:
  - id: a
    name: a
transitions:
  - id: t
    name: t
arcs:
  - from: a
    to: ghost
`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Net(); err == nil {
		t.Error("unknown arc endpoint accepted")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	svc := &pyaml.Service{}
	if _, err := svc.Load(strings.NewReader("places: [}")); err == nil {
		t.Error("malformed document accepted")
	}
}
