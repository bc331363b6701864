package scene

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Node simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenColor, TweenAlpha) and call Update(dt) once per physics tick. The
// group writes values and marks the node dirty. If the target node is
// disposed, the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds, writes values to the target fields,
// and marks the node dirty. If the target node has been disposed, Done is set
// to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

// TweenPosition animates node.X and node.Y to the given target coordinates.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(node.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(node.Y), float32(toY), duration, fn)
	g.fields[0] = &node.X
	g.fields[1] = &node.Y
	return g
}

// TweenScale animates node.ScaleX and node.ScaleY to the given target values.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(node.ScaleX), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(node.ScaleY), float32(toSY), duration, fn)
	g.fields[0] = &node.ScaleX
	g.fields[1] = &node.ScaleY
	return g
}

// TweenColor animates all four components of node.Color to the target color.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4, target: node}
	g.tweens[0] = gween.New(float32(node.Color.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(node.Color.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(node.Color.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(node.Color.A), float32(to.A), duration, fn)
	g.fields[0] = &node.Color.R
	g.fields[1] = &node.Color.G
	g.fields[2] = &node.Color.B
	g.fields[3] = &node.Color.A
	return g
}

// TweenAlpha animates node.Alpha to the target value.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Alpha), float32(to), duration, fn)
	g.fields[0] = &node.Alpha
	return g
}
