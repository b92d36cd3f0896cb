package xanimation

import (
	"errors"
	"testing"
	"time"

	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
)

func TestChain_AddDefaults(t *testing.T) {
	p := NewPackage(nil, newFakeTarget("box"))
	step := p.Add()

	assertSnapshot(t, step.Snapshot(), DefaultSnapshot())
	if step.Delay != 0 {
		t.Errorf("delay = %v, want 0", step.Delay)
	}
	if step.Duration != 250*time.Millisecond {
		t.Errorf("duration = %v, want 250ms", step.Duration)
	}
	if step.OnlyTransform || step.Easing != nil {
		t.Errorf("unexpected flags on default step: %v", step)
	}
}

func TestChain_AddInherits(t *testing.T) {
	p := NewPackage(nil, newFakeTarget("box"))
	first := p.Add().
		SetScale(2).
		SetRotation(30).
		SetTranslation(5, 6).
		SetOpacity(0.5).
		SetDuration(time.Second).
		SetDelay(100 * time.Millisecond).
		SetEasing(0.4, 0, 0.2, 1)

	prev := first
	for i := range 5 {
		next := p.Add()
		assertSnapshot(t, next.Snapshot(), first.Snapshot())
		if next.Duration != time.Second {
			t.Errorf("step %d duration = %v, want 1s", i+1, next.Duration)
		}
		if next.Delay != 0 {
			t.Errorf("step %d delay = %v, want 0", i+1, next.Delay)
		}
		if next.Easing != nil {
			t.Errorf("step %d inherited easing %v", i+1, next.Easing)
		}
		if next.ID() != prev.ID()+1 {
			t.Errorf("step %d id = %d, want %d", i+1, next.ID(), prev.ID()+1)
		}
		prev = next
	}
}

func TestChain_ResetInheritsDurationOnly(t *testing.T) {
	p := NewPackage(nil, newFakeTarget("box"))
	p.Add().SetScale(3).SetOpacity(0).SetDuration(700 * time.Millisecond).SetDelay(time.Second)
	p.Add().SetDelay(time.Second)

	reset := p.Reset()
	assertSnapshot(t, reset.Snapshot(), DefaultSnapshot())
	if reset.Duration != 700*time.Millisecond {
		t.Errorf("duration = %v, want 700ms", reset.Duration)
	}
	if reset.Delay != 0 || reset.OnlyTransform {
		t.Errorf("reset step = %v", reset)
	}
}

func TestChain_ResetOnEmptyChain(t *testing.T) {
	p := NewPackage(nil, newFakeTarget("box")).SetDefaultDuration(time.Second)
	reset := p.Reset()
	if reset.Duration != time.Second {
		t.Errorf("duration = %v, want package default", reset.Duration)
	}
}

func TestChain_SetKeepsInheritedValues(t *testing.T) {
	p := NewPackage(nil, newFakeTarget("box"))
	p.Add().SetRotation(90)
	step := p.SetStep()
	if !step.OnlyTransform {
		t.Error("Set step should be applied directly")
	}
	if step.Rotation != 90 {
		t.Errorf("rotation = %v, want inherited 90", step.Rotation)
	}

	// The next Add looks at the physical last entry, which is the Set step.
	step.SetRotation(180)
	if got := p.Add().Rotation; got != 180 {
		t.Errorf("rotation after Set = %v, want 180", got)
	}
}

func TestChain_NilSetup(t *testing.T) {
	p := NewPackage(nil, newFakeTarget("box"))
	chain := p.Chains()[0]

	for name, fn := range map[string]func(func(*Transform)) error{
		"AddWith": chain.AddWith,
		"SetWith": chain.SetWith,
	} {
		err := fn(nil)
		if fluiderrors.KindOf(err) != fluiderrors.KindConfig {
			t.Errorf("%s: kind = %v, want config", name, fluiderrors.KindOf(err))
		}
		if !errors.Is(err, fluiderrors.ErrNilArgument) {
			t.Errorf("%s: err = %v, want ErrNilArgument", name, err)
		}
	}
	if chain.Len() != 0 {
		t.Errorf("nil setup appended %d steps", chain.Len())
	}
}

func TestChain_WithSetup(t *testing.T) {
	p := NewPackage(nil, newFakeTarget("box"))
	if err := p.AddWith(func(s *Transform) { s.SetScale(4) }); err != nil {
		t.Fatal(err)
	}
	if err := p.SetStepWith(func(s *Transform) { s.SetOpacity(0.25) }); err != nil {
		t.Fatal(err)
	}
	steps := p.Chains()[0].Steps()
	if len(steps) != 2 {
		t.Fatalf("len = %d, want 2", len(steps))
	}
	if steps[1].Scale != 4 || steps[1].Opacity != 0.25 || !steps[1].OnlyTransform {
		t.Errorf("second step = %v", steps[1])
	}
}

func TestChain_IDsArePerPackage(t *testing.T) {
	a := NewPackage(nil, newFakeTarget("a"))
	b := NewPackage(nil, newFakeTarget("b"))
	a.Add()
	a.Add()
	if id := b.Add().ID(); id != 0 {
		t.Errorf("first id of a fresh package = %d, want 0", id)
	}
}

func TestChain_NegativeDurationsClamp(t *testing.T) {
	p := NewPackage(nil, newFakeTarget("box"))
	step := p.Add().SetDuration(-time.Second).SetDelay(-time.Second)
	if step.Duration != 0 || step.Delay != 0 {
		t.Errorf("step = %v, want zero duration and delay", step)
	}
}

func TestChain_StepsAreCopies(t *testing.T) {
	p := NewPackage(nil, newFakeTarget("box"))
	p.Add().SetScale(2)
	steps := p.Chains()[0].Steps()
	steps[0].Scale = 9
	if got := p.Chains()[0].Steps()[0].Scale; got != 2 {
		t.Errorf("mutating a copy changed the chain: scale = %v", got)
	}
}

func TestChain_Duration(t *testing.T) {
	p := NewPackage(nil, newFakeTarget("box"))
	p.Add().SetDuration(time.Second).SetDelay(time.Hour) // seed: takes no scrub time
	p.Add().SetDelay(200 * time.Millisecond)
	p.SetStep().SetDelay(100 * time.Millisecond)
	p.Add().SetDuration(500 * time.Millisecond)

	want := 200*time.Millisecond + time.Second + 100*time.Millisecond + 500*time.Millisecond
	if got := p.Chains()[0].Duration(); got != want {
		t.Errorf("duration = %v, want %v", got, want)
	}
}
