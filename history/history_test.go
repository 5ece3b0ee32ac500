package history_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/petriflow/petrisim"
	"github.com/petriflow/petrisim/firing"
	"github.com/petriflow/petrisim/history"
)

// chain builds A -> T1 -> B -> T2 -> C and runs it to the end, returning
// the net, the initial marking and a log of the full run.
func chain(t *testing.T) (*petrisim.Net, petrisim.Marking, *history.Log) {
	t.Helper()
	pp := []*petrisim.Place{
		{ID: "A", Name: "A"},
		{ID: "B", Name: "B"},
		{ID: "C", Name: "C"},
	}
	tt := []*petrisim.Transition{
		{ID: "T1", Name: "T1"},
		{ID: "T2", Name: "T2"},
	}
	aa := []*petrisim.Arc{
		{ID: "a1", Src: pp[0], Dest: tt[0], Weight: 1},
		{ID: "a2", Src: tt[0], Dest: pp[1], Weight: 1},
		{ID: "a3", Src: pp[1], Dest: tt[1], Weight: 1},
		{ID: "a4", Src: tt[1], Dest: pp[2], Weight: 1},
	}
	n, err := petrisim.NewNet(pp, tt, aa)
	if err != nil {
		t.Fatal(err)
	}
	initial := petrisim.Marking{"A": 2, "B": 0, "C": 0}
	log := history.NewLog()
	m := initial.Copy()
	step := 0
	for {
		enabled := firing.EnabledSet(n, m)
		if len(enabled) == 0 {
			break
		}
		next, ev, err := firing.Fire(n, m, enabled[0].ID)
		if err != nil {
			t.Fatal(err)
		}
		step++
		ev.Step = step
		log.Append(ev)
		m = next
	}
	return n, initial, log
}

func TestLogAtBounds(t *testing.T) {
	_, _, log := chain(t)
	if log.Len() != 4 {
		t.Fatalf("Len = %d, want 4", log.Len())
	}
	ev, err := log.At(1)
	if err != nil || ev.Step != 1 {
		t.Errorf("At(1) = %+v, %v", ev, err)
	}
	var oob *petrisim.ReplayOutOfRangeError
	if _, err := log.At(0); !errors.As(err, &oob) {
		t.Errorf("At(0) err = %v", err)
	}
	if _, err := log.At(5); !errors.As(err, &oob) {
		t.Errorf("At(5) err = %v", err)
	}
}

func TestEventsSnapshotIsIndependent(t *testing.T) {
	_, _, log := chain(t)
	snap := log.Events()
	snap[0] = nil
	if ev, err := log.At(1); err != nil || ev == nil {
		t.Error("snapshot mutation reached the log")
	}
}

func TestReplayToRebuildsEveryMarking(t *testing.T) {
	_, initial, log := chain(t)
	m, err := log.ReplayTo(initial, 0)
	if err != nil || !m.Equal(initial) {
		t.Errorf("ReplayTo(0) = %s, %v", m, err)
	}
	events := log.Events()
	for i := 1; i <= log.Len(); i++ {
		m, err := log.ReplayTo(initial, i)
		if err != nil {
			t.Fatal(err)
		}
		if !m.Equal(events[i-1].After) {
			t.Errorf("ReplayTo(%d) = %s, want %s", i, m, events[i-1].After)
		}
	}
	final, _ := log.ReplayTo(initial, log.Len())
	if !final.Equal(petrisim.Marking{"A": 0, "B": 0, "C": 2}) {
		t.Errorf("final = %s", final)
	}
	var oob *petrisim.ReplayOutOfRangeError
	if _, err := log.ReplayTo(initial, log.Len()+1); !errors.As(err, &oob) {
		t.Errorf("out of range err = %v", err)
	}
	if _, err := log.ReplayTo(initial, -1); !errors.As(err, &oob) {
		t.Errorf("negative index err = %v", err)
	}
}

func TestReplayToLeavesInitialAlone(t *testing.T) {
	_, initial, log := chain(t)
	want := initial.Copy()
	if _, err := log.ReplayTo(initial, log.Len()); err != nil {
		t.Fatal(err)
	}
	if !initial.Equal(want) {
		t.Errorf("initial mutated: %s", initial)
	}
}

func TestBundleRoundTrip(t *testing.T) {
	n, initial, log := chain(t)
	b := history.NewBundle(n, initial, log)

	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := history.DecodeBundle(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Net.Name != b.Net.Name || len(got.Events) != log.Len() {
		t.Fatalf("decoded bundle: %d events", len(got.Events))
	}
	rebuilt, err := got.Net.Net()
	if err != nil {
		t.Fatal(err)
	}
	if len(rebuilt.Places) != 3 || len(rebuilt.Transitions) != 2 || len(rebuilt.Arcs) != 4 {
		t.Error("net definition lost structure")
	}
	for i := 0; i <= len(got.Events); i++ {
		want, err := b.MarkingAt(i)
		if err != nil {
			t.Fatal(err)
		}
		have, err := got.MarkingAt(i)
		if err != nil {
			t.Fatal(err)
		}
		if !have.Equal(want) {
			t.Errorf("MarkingAt(%d) = %s, want %s", i, have, want)
		}
	}
}
