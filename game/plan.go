package game

// Plan returns the requests that turn the player tree into a copy of the
// target tree, in the order they must be applied. Paths are resolved against
// the player tree as it will look when each request runs.
//
// The player tree is first collapsed to one tile by merging along its
// leftmost branch, then rebuilt from the root: a split per target interior
// node and a flip per target tile whose bit differs from the inherited one.
func Plan(player, target *Tree) []Request {
	var reqs []Request

	// Collapse. Each merge of the leftmost leaf lifts its bit one level up.
	var chain []int
	cur := player
	for !cur.IsLeaf() {
		chain = append(chain, 0)
		cur = cur.Child(0)
	}
	bit := cur.HasValue() && cur.Value().Flipped
	for i := len(chain); i > 0; i-- {
		reqs = append(reqs, Request{Action: ActionMerge, Path: clonePath(chain[:i])})
	}

	return build(reqs, nil, target, bit)
}

func build(reqs []Request, path []int, target *Tree, bit bool) []Request {
	if target.IsLeaf() {
		if target.HasValue() && target.Value().Flipped != bit {
			reqs = append(reqs, Request{Action: ActionFlip, Path: clonePath(path)})
		}
		return reqs
	}
	reqs = append(reqs, Request{Action: ActionSplit, Path: clonePath(path)})
	for i, c := range target.Children() {
		reqs = build(reqs, append(path, i), c, bit)
	}
	return reqs
}

func clonePath(p []int) []int {
	out := make([]int, len(p))
	copy(out, p)
	return out
}

// Solve queues the requests that make the player square match the current
// target. It reports false when there is no target to match.
func (s *Session) Solve() bool {
	if s.target == nil || s.player == nil {
		return false
	}
	for _, r := range Plan(s.player.Root(), s.target.Root()) {
		s.Inject(r)
	}
	return true
}
