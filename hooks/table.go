// Package hooks defines the per-ROM hook table abstraction: named trap
// addresses, the Munger contract, and the three-role Game interface that
// replaces the source's three parallel, hand-duplicated trap tables
// (spec.md §4.4, §9).
package hooks

import (
	"fmt"

	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu"
)

// ROMID identifies a cartridge by its 4-byte game code plus a 1-byte
// revision, as stamped in the GBA header (spec.md §6).
type ROMID struct {
	Code     [4]byte
	Revision uint8
}

func (id ROMID) String() string {
	return fmt.Sprintf("%s-%02d", string(id.Code[:]), id.Revision)
}

// Game is a per-ROM module. It owns no state beyond its offsets/Munger —
// the PC addresses are fixed for the Match's whole lifetime once looked
// up (spec.md §4.4) — and produces a trap map for each of the three
// roles on demand, parameterized only by the narrow Context the caller
// supplies.
type Game interface {
	ID() ROMID

	// HasRNG3 reports whether this game maintains a third RNG register.
	// Neither Match nor the bundled trap tables act on it: the round-init
	// traps install only rng1 and rng2, so rng3 is not set to rng2 at round
	// start, and both bundled modules report false.
	HasRNG3() bool

	// PredictRX advances a previously observed remote packet into this
	// game's prediction for the next tick. Default across most games is
	// "copy unchanged"; see input.CopyLastPacket.
	PredictRX(packet []byte) []byte

	// ResolveDraw implements this game's on_draw_result rule (spec.md §9):
	// consulted on the round_end_damage_judge_set_draw trap, it inspects
	// the core's own memory (HP, damage taken) to decide Win/Loss/Draw
	// from the perspective of whichever role's core it is called with.
	ResolveDraw(c emu.Core) battle.Result

	// TurnTXDelay is the number of frames in the future a Turn message
	// commits to, for games that use them. Zero means the game does not
	// use Turn messages at all.
	TurnTXDelay() uint32

	Munger() Munger

	PrimaryTraps(ctx PrimaryContext) map[uint32]emu.Trap
	ShadowTraps(ctx ShadowContext) map[uint32]emu.Trap
	ReplayerTraps(ctx ReplayerContext) map[uint32]emu.Trap
}

// ErrUnsupportedROM is returned at session start when no Game module is
// registered for the cartridge's (code, revision) pair (spec.md §7).
type ErrUnsupportedROM struct {
	ID ROMID
}

func (e ErrUnsupportedROM) Error() string {
	return fmt.Sprintf("hooks: unsupported rom %s", e.ID)
}

var registry = map[ROMID]Game{}

// Register adds a Game module to the global registry. Adding a new ROM
// requires only calling Register with a new module — no changes to the
// generic lockstep engine (spec.md §6).
func Register(g Game) {
	registry[g.ID()] = g
}

// Lookup resolves a Game module by ROM identity.
func Lookup(id ROMID) (Game, error) {
	g, ok := registry[id]
	if !ok {
		return nil, ErrUnsupportedROM{ID: id}
	}

	return g, nil
}
