package firing_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/petriflow/petrisim"
	"github.com/petriflow/petrisim/firing"
)

// brew models a two-stage pipeline: grind consumes two beans, brew turns
// grounds into coffee.
func brew(t *testing.T) *petrisim.Net {
	t.Helper()
	pp := []*petrisim.Place{
		{ID: "beans", Name: "beans"},
		{ID: "grounds", Name: "grounds"},
		{ID: "coffee", Name: "coffee"},
	}
	tt := []*petrisim.Transition{
		{ID: "grind", Name: "grind"},
		{ID: "brew", Name: "brew"},
	}
	aa := []*petrisim.Arc{
		{ID: "a1", Src: pp[0], Dest: tt[0], Weight: 2},
		{ID: "a2", Src: tt[0], Dest: pp[1], Weight: 1},
		{ID: "a3", Src: pp[1], Dest: tt[1], Weight: 1},
		{ID: "a4", Src: tt[1], Dest: pp[2], Weight: 1},
	}
	n, err := petrisim.NewNet(pp, tt, aa)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestEnabledRespectsWeights(t *testing.T) {
	n := brew(t)
	for _, tc := range []struct {
		marking petrisim.Marking
		want    []string
	}{
		{petrisim.Marking{"beans": 0, "grounds": 0, "coffee": 0}, nil},
		{petrisim.Marking{"beans": 1, "grounds": 0, "coffee": 0}, nil},
		{petrisim.Marking{"beans": 2, "grounds": 0, "coffee": 0}, []string{"grind"}},
		{petrisim.Marking{"beans": 2, "grounds": 1, "coffee": 0}, []string{"grind", "brew"}},
		{petrisim.Marking{"beans": 0, "grounds": 3, "coffee": 0}, []string{"brew"}},
	} {
		got := firing.EnabledSet(n, tc.marking)
		ids := make([]string, 0, len(got))
		for _, tr := range got {
			ids = append(ids, tr.ID)
		}
		if fmt.Sprint(ids) != fmt.Sprint(tc.want) {
			t.Errorf("EnabledSet(%s) = %v, want %v", tc.marking, ids, tc.want)
		}
	}
}

func TestFire(t *testing.T) {
	n := brew(t)
	m := petrisim.Marking{"beans": 2, "grounds": 0, "coffee": 0}
	next, ev, err := firing.Fire(n, m, "grind")
	if err != nil {
		t.Fatal(err)
	}
	if !next.Equal(petrisim.Marking{"beans": 0, "grounds": 1, "coffee": 0}) {
		t.Errorf("next = %s", next)
	}
	if !m.Equal(petrisim.Marking{"beans": 2, "grounds": 0, "coffee": 0}) {
		t.Errorf("input marking mutated: %s", m)
	}
	if len(ev.Removed) != 1 || ev.Removed[0] != (firing.Movement{PlaceID: "beans", Tokens: 2}) {
		t.Errorf("removed = %+v", ev.Removed)
	}
	if len(ev.Added) != 1 || ev.Added[0] != (firing.Movement{PlaceID: "grounds", Tokens: 1}) {
		t.Errorf("added = %+v", ev.Added)
	}
	if !ev.Before.Equal(m) || !ev.After.Equal(next) {
		t.Error("event marking snapshots wrong")
	}
}

func TestFireNotEnabled(t *testing.T) {
	n := brew(t)
	m := petrisim.Marking{"beans": 1, "grounds": 0, "coffee": 0}
	_, _, err := firing.Fire(n, m, "grind")
	var pe *petrisim.PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want PreconditionError", err)
	}
	if pe.TransitionID != "grind" || !pe.Marking.Equal(m) {
		t.Errorf("error detail = %+v", pe)
	}
	if _, _, err := firing.Fire(n, m, "ghost"); err == nil {
		t.Error("unknown transition accepted")
	}
}

func TestNonNegativityThroughRun(t *testing.T) {
	n := brew(t)
	m := petrisim.Marking{"beans": 6, "grounds": 0, "coffee": 0}
	for {
		enabled := firing.EnabledSet(n, m)
		if len(enabled) == 0 {
			break
		}
		next, _, err := firing.Fire(n, m, enabled[0].ID)
		if err != nil {
			t.Fatal(err)
		}
		for id, count := range next {
			if count < 0 {
				t.Fatalf("place %q negative after firing: %s", id, next)
			}
		}
		m = next
	}
	if !m.Equal(petrisim.Marking{"beans": 0, "grounds": 0, "coffee": 3}) {
		t.Errorf("final marking = %s", m)
	}
}

func TestEventApplyMatchesFire(t *testing.T) {
	n := brew(t)
	m := petrisim.Marking{"beans": 2, "grounds": 0, "coffee": 0}
	next, ev, err := firing.Fire(n, m, "grind")
	if err != nil {
		t.Fatal(err)
	}
	folded, err := ev.Apply(m)
	if err != nil {
		t.Fatal(err)
	}
	if !folded.Equal(next) {
		t.Errorf("Apply = %s, Fire = %s", folded, next)
	}
	if _, err := ev.Apply(petrisim.Marking{"beans": 1}); err == nil {
		t.Error("Apply tolerated a negative fold")
	}
}

func TestWouldExceedCapacity(t *testing.T) {
	pp := []*petrisim.Place{
		{ID: "in", Name: "in"},
		{ID: "out", Name: "out", Capacity: 1},
	}
	tt := []*petrisim.Transition{{ID: "move", Name: "move"}}
	aa := []*petrisim.Arc{
		{ID: "a1", Src: pp[0], Dest: tt[0], Weight: 1},
		{ID: "a2", Src: tt[0], Dest: pp[1], Weight: 1},
	}
	n, err := petrisim.NewNet(pp, tt, aa)
	if err != nil {
		t.Fatal(err)
	}
	if firing.WouldExceedCapacity(n, petrisim.Marking{"in": 2, "out": 0}, tt[0]) {
		t.Error("room left but overflow reported")
	}
	if !firing.WouldExceedCapacity(n, petrisim.Marking{"in": 2, "out": 1}, tt[0]) {
		t.Error("overflow not reported")
	}
}

func ExampleFire() {
	door := []*petrisim.Place{
		{ID: "closed", Name: "closed"},
		{ID: "opened", Name: "opened"},
	}
	swing := []*petrisim.Transition{
		{ID: "open", Name: "open"},
		{ID: "close", Name: "close"},
	}
	n, _ := petrisim.NewNet(door, swing, []*petrisim.Arc{
		{ID: "a1", Src: door[0], Dest: swing[0], Weight: 1},
		{ID: "a2", Src: swing[0], Dest: door[1], Weight: 1},
		{ID: "a3", Src: door[1], Dest: swing[1], Weight: 1},
		{ID: "a4", Src: swing[1], Dest: door[0], Weight: 1},
	})
	m := petrisim.Marking{"closed": 1, "opened": 0}
	for _, id := range []string{"open", "open", "close"} {
		next, _, err := firing.Fire(n, m, id)
		if err != nil {
			fmt.Printf("%s: not enabled\n", id)
			continue
		}
		m = next
		fmt.Printf("%s: %s\n", id, m)
	}
	// Output:
	// open: {closed:0 opened:1}
	// open: not enabled
	// close: {closed:1 opened:0}
}
