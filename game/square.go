package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/phanxgames/quadfold/quadtree"
	"github.com/phanxgames/quadfold/scene"
)

// Tree and Tile are the quadtree types used by the game: leaf handles are
// scene rect nodes.
type (
	Tree = quadtree.Node[*scene.Node]
	Tile = quadtree.Value[*scene.Node]
)

// Palette colors the two flip states of a square's tiles.
type Palette struct {
	Unflipped scene.Color
	Flipped   scene.Color
}

// Default palettes.
var (
	PlayerPalette = Palette{
		Unflipped: scene.Color{R: 0.85, G: 0.95, B: 0.85, A: 1},
		Flipped:   scene.Color{R: 0.10, G: 0.45, B: 0.15, A: 1},
	}
	TargetPalette = Palette{
		Unflipped: scene.Color{R: 0.95, G: 0.95, B: 0.80, A: 1},
		Flipped:   scene.Color{R: 0.35, G: 0.30, B: 0.10, A: 1},
	}
	missColor = scene.Color{R: 0.9, G: 0.15, B: 0.15, A: 1}
)

// tileGap is the fraction of a tile's edge left empty between neighbours.
const tileGap = 0.04

// perspective is the focal distance used to turn a square's Z into scale.
const perspective = 1000.0

// Square is a game square: a quadtree of tiles rendered under one container.
// It owns its tree and is the tree's quadtree.Owner.
type Square struct {
	name        string
	layer       scene.Layer
	root        *Tree
	size        float64
	palette     Palette
	interactive bool

	z      float64
	key    quadtree.Key
	leaves int
	dirty  bool
	tiles  int
}

// NewSquare creates a square of the given edge length. Interactive squares
// expose their tiles to hit testing.
func NewSquare(name string, size float64, palette Palette, interactive bool) *Square {
	s := &Square{
		name:        name,
		layer:       scene.NewLayer(name),
		size:        size,
		palette:     palette,
		interactive: interactive,
		dirty:       true,
	}
	s.layer.Node.Interactable = interactive
	s.layer.Node.PivotX = size / 2
	s.layer.Node.PivotY = size / 2
	s.root = quadtree.New[*scene.Node](s, s.layer)
	return s
}

// TreeChanged implements quadtree.Owner. The key is recomputed and the tiles
// laid out again immediately so the next draw sees the new shape.
func (s *Square) TreeChanged() {
	s.dirty = true
	s.refresh()
}

// Root returns the square's tree.
func (s *Square) Root() *Tree {
	return s.root
}

// Node returns the container node the square's tiles are attached under.
func (s *Square) Node() *scene.Node {
	return s.layer.Node
}

// Owns reports whether n belongs to this square's tree.
func (s *Square) Owns(n *Tree) bool {
	return n != nil && n.Owner() == quadtree.Owner(s)
}

// newTile creates a tile value with a fresh rect sprite.
func (s *Square) newTile(flipped bool) *Tile {
	s.tiles++
	rect := scene.NewRect(fmt.Sprintf("%s-tile-%d", s.name, s.tiles), 1, 1, s.color(flipped))
	rect.Interactable = s.interactive
	v := quadtree.NewValue(flipped, rect)
	rect.UserData = v
	return v
}

func (s *Square) color(flipped bool) scene.Color {
	if flipped {
		return s.palette.Flipped
	}
	return s.palette.Unflipped
}

// Reset collapses the square into a single unflipped tile.
func (s *Square) Reset() {
	s.root.Merge(s.newTile(false))
	s.TreeChanged()
}

// Split divides leaf n into four tiles that inherit its flip bit. Splits
// deeper than maxDepth are refused.
func (s *Square) Split(n *Tree, maxDepth int) bool {
	if !s.Owns(n) || !n.IsLeaf() || n.Depth() >= maxDepth {
		return false
	}
	flipped := n.HasValue() && n.Value().Flipped
	n.Split()
	for _, c := range n.Children() {
		c.Merge(s.newTile(flipped))
	}
	s.TreeChanged()
	return true
}

// Merge collapses the parent of leaf n into one tile carrying n's flip bit.
func (s *Square) Merge(n *Tree) bool {
	if !s.Owns(n) || !n.IsLeaf() || n.Parent() == nil {
		return false
	}
	flipped := n.HasValue() && n.Value().Flipped
	n.Parent().Merge(s.newTile(flipped))
	s.TreeChanged()
	return true
}

// Flip toggles the flip bit of leaf n.
func (s *Square) Flip(n *Tree) bool {
	if !s.Owns(n) || !n.HasValue() {
		return false
	}
	v := n.Value()
	v.Flip()
	v.Handle.Color = s.color(v.Flipped)
	s.TreeChanged()
	return true
}

// Generate replaces the tree with a random shape: difficulty splits of
// random leaves shallower than maxDepth, then a random flip bit per leaf.
func (s *Square) Generate(rng *rand.Rand, difficulty, maxDepth int) {
	s.root.Merge(s.newTile(false))
	for i := 0; i < difficulty; i++ {
		var open []*Tree
		collectLeaves(s.root, func(n *Tree) {
			if n.Depth() < maxDepth {
				open = append(open, n)
			}
		})
		if len(open) == 0 {
			break
		}
		n := open[rng.IntN(len(open))]
		n.Split()
		for _, c := range n.Children() {
			c.Merge(s.newTile(false))
		}
	}
	s.root.ForEachLeaf(func(v *Tile) {
		v.Flipped = rng.IntN(2) == 1
		v.Handle.Color = s.color(v.Flipped)
	})
	s.TreeChanged()
}

// Key returns the shape key of the square's tree.
func (s *Square) Key() quadtree.Key {
	s.refresh()
	return s.key
}

// Leaves returns the number of tiles.
func (s *Square) Leaves() int {
	s.refresh()
	return s.leaves
}

// Details classifies every tile of the square by flip bit, as a diff against
// an empty square would: the counts a round scores.
func (s *Square) Details() (flipped, unflipped int) {
	return quadtree.Counts(quadtree.New[*scene.Node](nil, nil), s.root)
}

// SetCenter places the square's center at (x, y) in its parent's space.
func (s *Square) SetCenter(x, y float64) {
	s.layer.Node.SetPosition(x, y)
}

// Z returns the square's depth along the approach path.
func (s *Square) Z() float64 {
	return s.z
}

// SetZ moves the square along the approach path; farther squares draw smaller.
func (s *Square) SetZ(z float64) {
	s.z = z
	scale := perspective / (perspective - z)
	if z >= perspective {
		scale = 1
	}
	s.layer.Node.SetScale(scale, scale)
}

// AddZ moves the square by dz along the approach path.
func (s *Square) AddZ(dz float64) {
	s.SetZ(s.z + dz)
}

// Dispose releases the square's container and every tile.
func (s *Square) Dispose() {
	s.layer.Node.Dispose()
}

// refresh recomputes the cached key and re-lays out tiles after a change.
func (s *Square) refresh() {
	if !s.dirty {
		return
	}
	s.key = quadtree.Encode(s.root)
	s.leaves = s.root.Leaves()
	s.layout(s.root, 0, 0, s.size)
	s.dirty = false
}

// layout positions every tile inside its quadrant of the square.
func (s *Square) layout(n *Tree, x, y, edge float64) {
	if v := n.Value(); v != nil {
		gap := edge * tileGap
		v.Handle.SetPosition(x+gap/2, y+gap/2)
		v.Handle.Width = edge - gap
		v.Handle.Height = edge - gap
		return
	}
	half := edge / 2
	for i, c := range n.Children() {
		s.layout(c, x+float64(i%2)*half, y+float64(i/2)*half, half)
	}
}

func collectLeaves(n *Tree, visit func(n *Tree)) {
	if n.IsLeaf() {
		visit(n)
		return
	}
	for _, c := range n.Children() {
		collectLeaves(c, visit)
	}
}
