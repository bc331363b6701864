package scene

import (
	"math"
	"testing"
)

func TestNewScene(t *testing.T) {
	s := New()
	if s.Root() == nil {
		t.Fatal("root should not be nil")
	}
	if !s.Root().Interactable {
		t.Error("root should be interactable")
	}
}

func TestUpdateComposesTransforms(t *testing.T) {
	s := New()
	parent := NewContainer("parent")
	parent.SetPosition(100, 50)
	parent.SetScale(2, 2)
	child := NewRect("child", 10, 10, ColorWhite)
	child.SetPosition(5, 5)
	parent.AddChild(child)
	s.Root().AddChild(parent)

	s.Update()

	wx, wy := transformPoint(child.WorldTransform(), 0, 0)
	if math.Abs(wx-110) > 1e-9 || math.Abs(wy-60) > 1e-9 {
		t.Errorf("child origin = (%v, %v), want (110, 60)", wx, wy)
	}
	lx, ly := child.WorldToLocal(wx, wy)
	if math.Abs(lx) > 1e-9 || math.Abs(ly) > 1e-9 {
		t.Errorf("round trip = (%v, %v), want (0, 0)", lx, ly)
	}
}

func TestWorldAlphaInherited(t *testing.T) {
	s := New()
	parent := NewContainer("parent")
	parent.SetAlpha(0.5)
	child := NewRect("child", 1, 1, ColorWhite)
	child.SetAlpha(0.5)
	parent.AddChild(child)
	s.Root().AddChild(parent)

	s.Update()

	if math.Abs(child.WorldAlpha()-0.25) > 1e-9 {
		t.Errorf("WorldAlpha = %v, want 0.25", child.WorldAlpha())
	}
}

func TestHitTestTopmost(t *testing.T) {
	s := New()
	bottom := NewRect("bottom", 100, 100, ColorWhite)
	bottom.Interactable = true
	top := NewRect("top", 50, 50, ColorWhite)
	top.Interactable = true
	top.SetPosition(25, 25)
	s.Root().AddChild(bottom)
	s.Root().AddChild(top)
	s.Update()

	if got := s.HitTest(30, 30); got != top {
		t.Errorf("HitTest(30,30) = %v, want top", got)
	}
	if got := s.HitTest(90, 90); got != bottom {
		t.Errorf("HitTest(90,90) = %v, want bottom", got)
	}
	if got := s.HitTest(200, 200); got != nil {
		t.Errorf("HitTest outside = %v, want nil", got)
	}
}

func TestHitTestSkipsNonInteractable(t *testing.T) {
	s := New()
	n := NewRect("n", 10, 10, ColorWhite)
	s.Root().AddChild(n)
	s.Update()

	if got := s.HitTest(5, 5); got != nil {
		t.Error("non-interactable node should not be hit")
	}
}

func TestWalkSkipsHidden(t *testing.T) {
	s := New()
	visible := NewContainer("visible")
	hidden := NewContainer("hidden")
	hidden.Visible = false
	hidden.AddChild(NewContainer("under-hidden"))
	s.Root().AddChild(visible)
	s.Root().AddChild(hidden)

	var names []string
	s.Walk(func(n *Node) { names = append(names, n.Name) })

	want := []string{"root", "visible"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visit %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLayerAddRemove(t *testing.T) {
	l := NewLayer("square")
	h := NewRect("leaf", 1, 1, ColorWhite)

	l.Add(h)
	if h.Parent != l.Node {
		t.Fatal("Add should attach under the layer container")
	}

	l.Remove(h)
	if !h.IsDisposed() {
		t.Error("Remove should dispose the handle")
	}
	if l.Node.NumChildren() != 0 {
		t.Error("removed handle should be detached")
	}
}
