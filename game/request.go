package game

import "fmt"

// Action is a player edit of the player square.
type Action uint8

const (
	ActionSplit Action = iota
	ActionMerge
	ActionFlip
)

func (a Action) String() string {
	switch a {
	case ActionSplit:
		return "split"
	case ActionMerge:
		return "merge"
	case ActionFlip:
		return "flip"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ParseAction maps a script or CLI action name to an Action.
func ParseAction(name string) (Action, bool) {
	switch name {
	case "split":
		return ActionSplit, true
	case "merge":
		return ActionMerge, true
	case "flip":
		return ActionFlip, true
	}
	return 0, false
}

// Request is a queued edit. Node takes precedence; otherwise Path addresses
// the node from the player root when the request is applied.
type Request struct {
	Action Action
	Node   *Tree
	Path   []int
}
