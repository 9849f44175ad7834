package adaptive

import (
	"testing"

	"github.com/priyam/numsense/internal/screening"
)

func TestTracker_RaisesAfterStrongStreak(t *testing.T) {
	tr := NewTracker(screening.Age7to8)

	if d := tr.Record(true, 2000, 0); d != Hold {
		t.Errorf("decision after 1 answer = %q, want hold (not enough evidence)", d)
	}
	if d := tr.Record(true, 2000, 0); d != Hold {
		t.Errorf("decision after 2 answers = %q, want hold", d)
	}
	if d := tr.Record(true, 2000, 0); d != Raise {
		t.Errorf("decision after 3 correct = %q, want raise", d)
	}
	if tr.Level() != Challenging {
		t.Errorf("level = %v, want challenging", tr.Level())
	}
}

func TestTracker_LowersOnWrongStreak(t *testing.T) {
	tr := NewTracker(screening.Age5to6)

	tr.Record(false, 9000, 1)
	if d := tr.Record(false, 11000, 2); d != Lower {
		t.Errorf("decision after 2 consecutive wrong = %q, want lower", d)
	}
	if tr.Level() != Easy {
		t.Errorf("level = %v, want easy", tr.Level())
	}
}

func TestTracker_HoldsWhenUnstable(t *testing.T) {
	tr := NewTracker(screening.Age9to10)

	tr.Record(true, 2000, 0)
	tr.Record(false, 4000, 1)
	// Alternating window: two flips in the last three answers.
	if d := tr.Record(true, 2000, 0); d != Hold {
		t.Errorf("decision for alternating answers = %q, want hold", d)
	}
	if tr.Level() != Normal {
		t.Errorf("level = %v, want unchanged normal", tr.Level())
	}
}

func TestTracker_ClampsAtBounds(t *testing.T) {
	tr := NewTracker(screening.Age7to8)

	// Drive to the floor.
	for i := 0; i < 10; i++ {
		tr.Record(false, 8000, 0)
	}
	if tr.Level() != VeryEasy {
		t.Fatalf("level = %v, want very-easy floor", tr.Level())
	}
	if d := tr.Record(false, 8000, 0); d == Lower {
		t.Error("lowered below the floor")
	}

	// Drive to the ceiling.
	tr = NewTracker(screening.Age7to8)
	for i := 0; i < 30; i++ {
		tr.Record(true, 1500, 0)
	}
	if tr.Level() != Advanced {
		t.Fatalf("level = %v, want advanced ceiling", tr.Level())
	}
	if d := tr.Record(true, 1500, 0); d == Raise {
		t.Error("raised above the ceiling")
	}
}

func TestTracker_WindowResetsAfterShift(t *testing.T) {
	tr := NewTracker(screening.Age7to8)
	tr.Record(true, 2000, 0)
	tr.Record(true, 2000, 0)
	tr.Record(true, 2000, 0) // raise

	m := tr.Metrics()
	if m.Answered != 0 {
		t.Errorf("metrics after shift = %d answered, want reset to 0", m.Answered)
	}

	changes := tr.Changes()
	if len(changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(changes))
	}
	if changes[0].From != Normal || changes[0].To != Challenging {
		t.Errorf("change = %v→%v, want normal→challenging", changes[0].From, changes[0].To)
	}
	if changes[0].AtAnswer != 3 {
		t.Errorf("change at answer %d, want 3", changes[0].AtAnswer)
	}
}

func TestRangeFor_AgeAndLevel(t *testing.T) {
	tests := []struct {
		age   screening.AgeGroup
		level Level
		want  NumberRange
	}{
		{screening.Age5to6, VeryEasy, NumberRange{1, 5}},
		{screening.Age5to6, Normal, NumberRange{1, 10}},
		{screening.Age7to8, Advanced, NumberRange{1, 50}},
		{screening.Age9to10, Challenging, NumberRange{1, 100}},
		{"unknown", Normal, NumberRange{1, 20}}, // falls back to 7-8
	}

	for _, tt := range tests {
		if got := RangeFor(tt.age, tt.level); got != tt.want {
			t.Errorf("RangeFor(%q, %v) = %v, want %v", tt.age, tt.level, got, tt.want)
		}
	}
}

func TestOperationsFor_GrowWithLevel(t *testing.T) {
	ops := OperationsFor(screening.Age7to8, Challenging)
	found := false
	for _, op := range ops {
		if op == OpMultiply {
			found = true
		}
	}
	if !found {
		t.Error("challenging 7-8 should include multiplication")
	}

	for _, op := range OperationsFor(screening.Age5to6, VeryEasy) {
		if op == OpMultiply {
			t.Error("very-easy 5-6 must not include multiplication")
		}
	}
}
