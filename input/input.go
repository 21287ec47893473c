// Package input implements the per-tick input data model and the bounded
// FIFO queues each side of a Round uses to hold them (spec.md §4.1, §3).
package input

// Input is one side's contribution for a tick: the buttons pressed and the
// opaque per-game packet the cartridge would otherwise have exchanged over
// the link cable.
type Input struct {
	LocalTick    uint32
	RemoteTick   uint32
	Joyflags     uint16
	Packet       []byte
	IsPrediction bool
}

// Pair holds one local and one remote Input describing the same tick. In a
// committed pair Local.LocalTick == Remote.LocalTick; prediction pairs may
// have Remote.IsPrediction set while Local never is (a side never predicts
// its own input).
type Pair struct {
	Local  Input
	Remote Input
}

// Button masks relevant to prediction: only A and B survive into a
// synthesized remote input, since most games treat directional/select/
// start presses as too consequential to guess.
const (
	ButtonA uint16 = 1 << iota
	ButtonB
)

const filteredMask = ButtonA | ButtonB
