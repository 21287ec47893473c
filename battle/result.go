// Package battle holds the small, dependency-free types shared by the
// hooks, round, and match packages, so that none of them need to import
// each other just to talk about a round's outcome.
package battle

// Result is a single round's outcome from the local player's perspective.
// It corresponds to the original source's BattleResult enum (Draw, Loss,
// Win); the numeric values are a local choice, not a wire contract with
// that enum, since recorded replays only ever serialize this type on its
// own terms (see replay.Recorder).
type Result int8

const (
	Loss Result = iota
	Win
	Draw
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// Invert returns the opposite outcome, used by the shadow role: the
// shadow's win/loss traps describe the opponent's perspective, so a
// primary Win trap firing on the shadow means the (remote) opponent won,
// i.e. the shadow's own Result is Loss and vice versa. Draw is never
// inverted — it is re-derived via the per-ROM draw resolution rule
// instead (spec.md §9).
func (r Result) Invert() Result {
	switch r {
	case Win:
		return Loss
	case Loss:
		return Win
	default:
		return r
	}
}
