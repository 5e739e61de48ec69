package counter

import (
	"errors"
	"strings"
	"testing"
)

func TestReduce_Increment(t *testing.T) {
	tests := []struct {
		name  string
		start int
		step  int
		want  int
	}{
		{"positive step", 0, 1, 1},
		{"larger step", 10, 5, 15},
		{"negative step", 3, -4, -1},
		{"zero step", 7, 0, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(State{Count: tt.start}, Increment{Step: tt.step})
			if err != nil {
				t.Fatalf("Reduce: %v", err)
			}
			if got.Count != tt.want {
				t.Errorf("Count = %d, want %d", got.Count, tt.want)
			}
		})
	}
}

func TestReduce_ThreeIncrements(t *testing.T) {
	state := State{Count: 0}
	for i := 0; i < 3; i++ {
		var err error
		state, err = Reduce(state, Increment{Step: 1})
		if err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
	}
	if state.Count != 3 {
		t.Errorf("Count after three increments = %d, want 3", state.Count)
	}
}

func TestReduce_Replace(t *testing.T) {
	got, err := Reduce(State{Count: 41}, Replace{Count: 7})
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got.Count != 7 {
		t.Errorf("Count = %d, want 7", got.Count)
	}
}

func TestReduce_MergeSetField(t *testing.T) {
	n := 12
	got, err := Reduce(State{Count: 5}, Merge{Delta: Delta{Count: &n}})
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got.Count != 12 {
		t.Errorf("Count = %d, want 12", got.Count)
	}
}

func TestReduce_MergeUnsetFieldKeepsState(t *testing.T) {
	got, err := Reduce(State{Count: 5}, Merge{})
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got.Count != 5 {
		t.Errorf("Count = %d, want 5 (unset delta field must not change state)", got.Count)
	}
}

func TestReduce_ApplyCallable(t *testing.T) {
	got, err := Reduce(State{Count: 10}, Apply{Fn: func(s State) Delta {
		doubled := s.Count * 2
		return Delta{Count: &doubled}
	}})
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got.Count != 20 {
		t.Errorf("Count = %d, want 20", got.Count)
	}
}

func TestReduce_ApplyNilFn(t *testing.T) {
	_, err := Reduce(State{}, Apply{})
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("error = %v, want ErrUnsupportedAction", err)
	}
}

// unknownAction is declared in-package to get past the sealed interface,
// standing in for any variant the reducer does not handle.
type unknownAction struct{}

func (unknownAction) isAction() {}

func TestReduce_UnknownActionFails(t *testing.T) {
	_, err := Reduce(State{Count: 1}, unknownAction{})
	if err == nil {
		t.Fatal("unknown action should fail, never silently return unchanged state")
	}
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("error = %v, want ErrUnsupportedAction", err)
	}
	if !strings.Contains(err.Error(), "unknownAction") {
		t.Errorf("error %q should name the received action type", err)
	}
}

func TestReduce_NilActionFails(t *testing.T) {
	_, err := Reduce(State{}, nil)
	if !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("error = %v, want ErrUnsupportedAction", err)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	in := State{Count: 1}
	if _, err := Reduce(in, Increment{Step: 5}); err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if in.Count != 1 {
		t.Errorf("input state mutated: Count = %d, want 1", in.Count)
	}
}
