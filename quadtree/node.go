// Package quadtree models a square's recursive decomposition into four
// quadrants. Only leaves carry a value; interior nodes own exactly four
// children.
//
// Child order is fixed everywhere in this package:
//
//	0 top-left   1 top-right
//	2 bottom-left 3 bottom-right
package quadtree

// Fanout is the number of children of every interior node.
const Fanout = 4

// Stage receives the visual handles of leaf values as they are attached to
// and released from a tree. It is implemented by the rendering layer.
type Stage[H any] interface {
	Add(h H)
	Remove(h H)
}

// Owner is the object a tree belongs to (a game square). The tree never
// interprets it; it only hands it back from Node.Owner.
type Owner interface {
	TreeChanged()
}

// Value is the payload of a leaf.
type Value[H any] struct {
	Flipped bool
	Handle  H

	node *Node[H]
}

// NewValue creates a detached leaf value.
func NewValue[H any](flipped bool, handle H) *Value[H] {
	return &Value[H]{Flipped: flipped, Handle: handle}
}

// Node returns the node the value is attached to, or nil if detached.
func (v *Value[H]) Node() *Node[H] {
	return v.node
}

// Flip toggles the flip bit.
func (v *Value[H]) Flip() {
	v.Flipped = !v.Flipped
}

// Node is one node of a fan-out-4 tree. A node is a leaf iff it has no
// children; only leaves may carry a value.
type Node[H any] struct {
	value    *Value[H]
	children []*Node[H]
	parent   *Node[H]

	// Root only.
	owner Owner
	stage Stage[H]
}

// New creates the anonymous root of a tree owned by owner. Handles of values
// merged anywhere in the tree are added to and removed from stage.
func New[H any](owner Owner, stage Stage[H]) *Node[H] {
	return &Node[H]{owner: owner, stage: stage}
}

// IsLeaf reports whether the node has no children.
func (n *Node[H]) IsLeaf() bool {
	return len(n.children) == 0
}

// Value returns the leaf value, or nil for interior and empty nodes.
func (n *Node[H]) Value() *Value[H] {
	return n.value
}

// HasValue reports whether the node is a leaf carrying a value.
func (n *Node[H]) HasValue() bool {
	return n.value != nil
}

// Parent returns the parent node, or nil for the root.
func (n *Node[H]) Parent() *Node[H] {
	return n.parent
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node[H]) Children() []*Node[H] {
	return n.children
}

// Child returns the child at index i. Panics on a leaf.
func (n *Node[H]) Child(i int) *Node[H] {
	return n.children[i]
}

// Root returns the root of the tree containing n.
func (n *Node[H]) Root() *Node[H] {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Owner returns the object the tree belongs to.
func (n *Node[H]) Owner() Owner {
	return n.Root().owner
}

// Stage returns the stage the tree's handles are attached to.
func (n *Node[H]) Stage() Stage[H] {
	return n.Root().stage
}

// Depth returns the number of edges between n and the root.
func (n *Node[H]) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Index returns n's position among its siblings, or -1 for the root.
func (n *Node[H]) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Path returns the child indices leading from the root to n.
func (n *Node[H]) Path() []int {
	var path []int
	for p := n; p.parent != nil; p = p.parent {
		path = append(path, p.Index())
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// At follows path from n and returns the node reached, or nil if the path
// leaves the tree.
func (n *Node[H]) At(path []int) *Node[H] {
	cur := n
	for _, i := range path {
		if i < 0 || i >= len(cur.children) {
			return nil
		}
		cur = cur.children[i]
	}
	return cur
}

// Split replaces the node's value (or its whole subtree) with four fresh
// empty leaves. Released handles are removed from the stage.
func (n *Node[H]) Split() {
	stage := n.Stage()
	if n.value != nil {
		n.release(stage, n.value)
		n.value = nil
	}
	n.releaseChildren(stage)

	n.children = make([]*Node[H], Fanout)
	for i := range n.children {
		n.children[i] = &Node[H]{parent: n}
	}
}

// Merge makes n a leaf holding v. The handles of the former subtree, and of a
// different former value, are released; v's handle is added to the stage.
// Merging the value n already holds changes nothing. A value attached to
// another tree is released from that tree's stage before it moves.
func (n *Node[H]) Merge(v *Value[H]) {
	if v == nil {
		panic("quadtree: cannot merge nil value")
	}
	if n.value == v && len(n.children) == 0 {
		return
	}
	stage := n.Stage()
	if n.value != nil {
		n.release(stage, n.value)
	}
	if old := v.node; old != nil && old != n {
		// Moving a value between nodes detaches it from its old position.
		old.value = nil
		if old.Root() != n.Root() {
			if from := old.Stage(); from != nil {
				from.Remove(v.Handle)
			}
		}
	}

	n.value = v
	v.node = n
	if stage != nil {
		stage.Add(v.Handle)
	}

	n.releaseChildren(stage)
	n.children = nil
}

// ForEachLeaf calls visit for every valued leaf under n in pre-order.
func (n *Node[H]) ForEachLeaf(visit func(v *Value[H])) {
	if n.value != nil {
		visit(n.value)
		return
	}
	for _, c := range n.children {
		c.ForEachLeaf(visit)
	}
}

// Leaves returns the number of valued leaves under n.
func (n *Node[H]) Leaves() int {
	count := 0
	n.ForEachLeaf(func(*Value[H]) { count++ })
	return count
}

// MaxDepth returns the depth of the deepest leaf under n, relative to n.
func (n *Node[H]) MaxDepth() int {
	deepest := 0
	for _, c := range n.children {
		if d := c.MaxDepth() + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

func (n *Node[H]) release(stage Stage[H], v *Value[H]) {
	if stage != nil {
		stage.Remove(v.Handle)
	}
	if v.node == n {
		v.node = nil
	}
}

// releaseChildren removes every handle held below n and detaches the
// children. n's own value is untouched.
func (n *Node[H]) releaseChildren(stage Stage[H]) {
	for _, c := range n.children {
		c.ForEachLeaf(func(v *Value[H]) {
			v.node.release(stage, v)
		})
		c.parent = nil
	}
	n.children = nil
}
