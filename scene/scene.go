package scene

// Scene is the top-level object that owns the node tree.
type Scene struct {
	root   *Node
	hitBuf []*Node

	// ClearColor is the background painted before the tree is drawn.
	ClearColor Color
}

// New creates a new scene with a pre-created root container.
func New() *Scene {
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{
		root:       root,
		ClearColor: Color{0, 0, 0, 1},
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Update refreshes world transforms so drawing and hit testing see the
// positions written by this tick's animations.
func (s *Scene) Update() {
	updateWorldTransform(s.root, identityTransform, 1.0, false)
}

// Walk visits every visible node in painter order (parents before children).
func (s *Scene) Walk(visit func(n *Node)) {
	walk(s.root, visit)
}

func walk(n *Node, visit func(n *Node)) {
	if !n.Visible {
		return
	}
	visit(n)
	for _, c := range n.children {
		walk(c, visit)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics and tree depth and child count warnings are printed.
func (s *Scene) SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// --- Hit testing ---

// nodeContainsLocal reports whether a local-space point lies on the node.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.Type != NodeTypeRect {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// collectInteractable walks the tree in painter order, appending interactable
// rect nodes to buf. Skips Visible=false or Interactable=false subtrees.
func (s *Scene) collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}
	if n.Type == NodeTypeRect {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = s.collectInteractable(child, buf)
	}
	return buf
}

// HitTest returns the topmost interactable node under the world-space point,
// or nil. World transforms must be current (call Update first).
func (s *Scene) HitTest(worldX, worldY float64) *Node {
	s.hitBuf = s.collectInteractable(s.root, s.hitBuf[:0])

	// Iterate backward (reverse painter order): topmost visual node first.
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(worldX, worldY)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// --- Layers ---

// Layer adapts a container node into the attach/release target of a tree of
// sprites: attached sprites become children of the container, released ones
// are disposed, which also stops any tween still writing to them.
type Layer struct {
	Node *Node
}

// NewLayer creates a layer over a fresh container node.
func NewLayer(name string) Layer {
	return Layer{Node: NewContainer(name)}
}

// Add attaches h under the layer's container.
func (l Layer) Add(h *Node) {
	l.Node.AddChild(h)
}

// Remove releases h.
func (l Layer) Remove(h *Node) {
	h.Dispose()
}
