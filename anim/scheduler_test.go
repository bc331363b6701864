package anim

import (
	"math"
	"testing"

	"github.com/phanxgames/quadfold/scene"
	"github.com/tanema/gween/ease"
)

// counter returns a unit that finishes after n steps and records how many
// times it was stepped.
func counter(n int, steps *int, next ...*Unit) *Unit {
	return New(func() bool {
		*steps++
		return *steps >= n
	}, next...)
}

func TestUnitStepAfterDoneIsNoOp(t *testing.T) {
	var steps int
	u := counter(1, &steps)

	if !u.Step() {
		t.Fatal("unit should finish on first step")
	}
	if !u.Step() {
		t.Fatal("finished unit should keep reporting completion")
	}
	if steps != 1 {
		t.Errorf("step func ran %d times, want 1", steps)
	}
}

func TestUnitStopSkipsStep(t *testing.T) {
	var steps int
	u := counter(10, &steps)
	u.Stop()

	if !u.Step() {
		t.Error("stopped unit should report completion")
	}
	if steps != 0 {
		t.Errorf("stopped unit was stepped %d times", steps)
	}
	if !u.Stopped() || !u.Done() {
		t.Error("Stopped/Done flags not set")
	}
}

func TestSchedulerSuccessorStartsNextTick(t *testing.T) {
	var s Scheduler
	var s1, s2 int
	u2 := counter(5, &s2)
	u1 := counter(1, &s1, u2)
	s.Add(u1)

	s.StepAll() // tick N: U1 completes
	if s1 != 1 {
		t.Fatalf("U1 stepped %d times, want 1", s1)
	}
	if s2 != 0 {
		t.Fatalf("U2 stepped in the same tick U1 completed")
	}
	if isActive(&s, u1) || !isActive(&s, u2) {
		t.Fatal("U1 should be removed and U2 enqueued")
	}

	s.StepAll() // tick N+1
	if s2 != 1 {
		t.Errorf("U2 stepped %d times at tick N+1, want 1", s2)
	}
}

func TestSchedulerStopBeforeCompletionDropsChain(t *testing.T) {
	var s Scheduler
	var s1, s2 int
	u2 := counter(1, &s2)
	u1 := counter(3, &s1, u2)
	s.Add(u1)

	s.StepAll()
	s.Stop(u1)
	for i := 0; i < 5; i++ {
		s.StepAll()
	}

	if s1 != 1 {
		t.Errorf("U1 stepped %d times, want 1", s1)
	}
	if s2 != 0 {
		t.Errorf("U2 stepped %d times, want 0", s2)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestSchedulerStopDuringOwnStepDropsChain(t *testing.T) {
	var s Scheduler
	var s2 int
	u2 := counter(1, &s2)
	var u1 *Unit
	u1 = New(func() bool {
		u1.Stop()
		return true
	}, u2)
	s.Add(u1)

	s.StepAll()
	s.StepAll()

	if isActive(&s, u2) || s2 != 0 {
		t.Error("successor of a unit stopped mid-step must not run")
	}
}

func TestSchedulerStopByPeerInSameTick(t *testing.T) {
	var s Scheduler
	var s2 int
	u2 := counter(1, &s2)
	victim := New(func() bool { return true }, u2)
	killer := New(func() bool {
		victim.Stop()
		return true
	})
	s.Add(killer)
	s.Add(victim)

	s.StepAll()
	s.StepAll()

	if s2 != 0 {
		t.Error("chain of a unit stopped earlier in the tick must not run")
	}
}

func TestSchedulerUnitsAddedDuringStepWaitOneTick(t *testing.T) {
	var s Scheduler
	var late int
	lateUnit := counter(1, &late)
	spawner := New(func() bool {
		s.Add(lateUnit)
		return true
	})
	s.Add(spawner)

	s.StepAll()
	if late != 0 {
		t.Fatal("unit added during StepAll was stepped in the same call")
	}
	if !isActive(&s, lateUnit) {
		t.Fatal("unit added during StepAll was lost")
	}

	s.StepAll()
	if late != 1 {
		t.Errorf("late unit stepped %d times, want 1", late)
	}
}

func TestSchedulerManyUnitsRemovedSafely(t *testing.T) {
	var s Scheduler
	steps := make([]int, 20)
	for i := range steps {
		s.Add(counter(i%4+1, &steps[i]))
	}

	for tick := 0; tick < 4; tick++ {
		s.StepAll()
	}

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	for i, n := range steps {
		if want := i%4 + 1; n != want {
			t.Errorf("unit %d stepped %d times, want %d", i, n, want)
		}
	}
}

func TestSchedulerMultipleSuccessors(t *testing.T) {
	var s Scheduler
	var a, b int
	head := New(func() bool { return true }, counter(1, &a), counter(1, &b))
	s.Add(head)

	s.StepAll()
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 successors", s.Len())
	}
	s.StepAll()
	if a != 1 || b != 1 {
		t.Errorf("successors stepped (%d, %d), want (1, 1)", a, b)
	}
}

func TestSchedulerClear(t *testing.T) {
	var s Scheduler
	var n int
	s.Add(counter(10, &n))
	s.Clear()
	s.StepAll()
	if n != 0 || s.Len() != 0 {
		t.Error("Clear should drop units without stepping them")
	}
}

func TestSequence(t *testing.T) {
	var s Scheduler
	var order []int
	mk := func(id int) *Unit {
		return New(func() bool {
			order = append(order, id)
			return true
		})
	}
	s.Add(Sequence(mk(1), mk(2), mk(3)))

	for i := 0; i < 3; i++ {
		s.StepAll()
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
	if Sequence() != nil {
		t.Error("empty sequence should be nil")
	}
}

func TestTicks(t *testing.T) {
	var seen []int
	u := Ticks(3, func(tick int) { seen = append(seen, tick) })
	for !u.Step() {
	}
	if len(seen) != 3 || seen[2] != 3 {
		t.Errorf("ticks = %v, want [1 2 3]", seen)
	}
}

func TestRepeatNeverFinishes(t *testing.T) {
	var s Scheduler
	calls := 0
	u := Repeat(func(int) { calls++ })
	s.Add(u)
	for i := 0; i < 100; i++ {
		s.StepAll()
	}
	if calls != 100 || !isActive(&s, u) {
		t.Errorf("calls = %d active = %v, want 100 and true", calls, isActive(&s, u))
	}
	s.Stop(u)
	s.StepAll()
	if isActive(&s, u) {
		t.Error("stopped repeat should be removed")
	}
}

func TestTweenUnit(t *testing.T) {
	node := scene.NewContainer("n")
	g := scene.TweenAlpha(node, 0, 0.5, ease.Linear)
	var s Scheduler
	var after int
	s.Add(Tween(g, 0.25, counter(1, &after)))

	s.StepAll()
	s.StepAll()
	if !g.Done {
		t.Fatal("tween should be done after its duration")
	}
	if math.Abs(node.Alpha) > 0.01 {
		t.Errorf("Alpha = %f, want ~0", node.Alpha)
	}
	s.StepAll()
	if after != 1 {
		t.Error("successor of a finished tween should run the next tick")
	}
}

func TestOscillate(t *testing.T) {
	if Oscillate(1, 0.5, math.Pi/2, 1) != 1.5 {
		t.Error("Oscillate peak mismatch")
	}
	if Oscillate(1, 0.5, 1, 0) != 1 {
		t.Error("Oscillate at tick 0 should equal base")
	}
}

func isActive(s *Scheduler, u *Unit) bool {
	for _, a := range s.active {
		if a == u {
			return true
		}
	}
	return false
}
