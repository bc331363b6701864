package scene

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	node := NewContainer("pos")
	node.X = 10
	node.Y = 20

	g := TweenPosition(node, 100, 200, 1.0, ease.Linear)

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(node.X-100) > 0.5 {
		t.Errorf("X = %f, want ~100", node.X)
	}
	if math.Abs(node.Y-200) > 0.5 {
		t.Errorf("Y = %f, want ~200", node.Y)
	}
}

func TestTweenScaleReachesTarget(t *testing.T) {
	node := NewContainer("shrink")

	g := TweenScale(node, 0.25, 0.5, 0.5, ease.Linear)
	g.Update(0.25)
	g.Update(0.25)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(node.ScaleX-0.25) > 0.01 || math.Abs(node.ScaleY-0.5) > 0.01 {
		t.Errorf("scale = (%f, %f), want (0.25, 0.5)", node.ScaleX, node.ScaleY)
	}
}

func TestTweenAlphaInterpolates(t *testing.T) {
	node := NewContainer("alpha")
	node.Alpha = 1.0

	tw := TweenAlpha(node, 0.0, 1.0, ease.Linear)

	tw.Update(0.5)
	if tw.Done {
		t.Fatal("should not be done at halfway")
	}
	if math.Abs(node.Alpha-0.5) > 0.05 {
		t.Errorf("Alpha = %f, want ~0.5 at halfway", node.Alpha)
	}

	tw.Update(0.5)
	if !tw.Done {
		t.Fatal("should be done after full duration")
	}
}

func TestTweenColorAllComponents(t *testing.T) {
	node := NewContainer("color")
	node.Color = Color{R: 1, G: 0, B: 0, A: 1}
	target := Color{R: 0, G: 1, B: 0.5, A: 0.5}

	g := TweenColor(node, target, 1.0, ease.Linear)
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(node.Color.G-target.G) > 0.01 || math.Abs(node.Color.A-target.A) > 0.01 {
		t.Errorf("Color = %+v, want %+v", node.Color, target)
	}
}

func TestTweenGroupMarksDirty(t *testing.T) {
	node := NewContainer("dirty")
	node.transformDirty = false

	g := TweenScale(node, 2, 2, 1.0, ease.Linear)
	g.Update(0.1)

	if !node.transformDirty {
		t.Fatal("expected node to be marked dirty after TweenGroup update")
	}
}

func TestTweenGroupDisposedMidAnimation(t *testing.T) {
	node := NewContainer("mid-dispose")

	g := TweenPosition(node, 100, 100, 1.0, ease.Linear)
	g.Update(0.1)
	if g.Done {
		t.Fatal("should not be Done yet")
	}

	node.Dispose()
	savedX, savedY := node.X, node.Y

	g.Update(0.1)
	if !g.Done {
		t.Fatal("expected Done after node disposed mid-animation")
	}
	if node.X != savedX || node.Y != savedY {
		t.Error("node fields should not change after disposal")
	}
}
