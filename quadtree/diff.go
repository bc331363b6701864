package quadtree

// Diff walks player and target in lock-step and collects every target leaf
// value the player fails to reproduce. Mismatches are classified by the
// target's own flip bit: flipped targets go to toFlip, the rest to toUnflip.
//
// The comparison is target-centric. Extra detail in the player tree is only
// reported where it hides a target leaf (player split further than the
// target at that position).
func Diff[H any](player, target *Node[H]) (toFlip, toUnflip []*Value[H]) {
	d := differ[H]{}
	d.double(player, target)
	return d.toFlip, d.toUnflip
}

// Counts returns the sizes of the two lists Diff would produce.
func Counts[H any](player, target *Node[H]) (flip, unflip int) {
	toFlip, toUnflip := Diff(player, target)
	return len(toFlip), len(toUnflip)
}

type differ[H any] struct {
	toFlip   []*Value[H]
	toUnflip []*Value[H]
}

func (d *differ[H]) add(v *Value[H]) {
	if v.Flipped {
		d.toFlip = append(d.toFlip, v)
	} else {
		d.toUnflip = append(d.toUnflip, v)
	}
}

func (d *differ[H]) double(player, target *Node[H]) {
	if target.IsLeaf() {
		if target.value == nil {
			return
		}
		switch {
		case !player.IsLeaf():
			// Player split further than needed here.
			d.add(target.value)
		case player.value == nil:
			d.add(target.value)
		case player.value.Flipped != target.value.Flipped:
			d.add(target.value)
		}
		return
	}

	if player.IsLeaf() {
		// Player is missing the target's subdivision below this point.
		d.single(target)
		return
	}
	for i := range target.children {
		d.double(player.children[i], target.children[i])
	}
}

func (d *differ[H]) single(target *Node[H]) {
	target.ForEachLeaf(d.add)
}
