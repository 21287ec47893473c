package hooks

import "github.com/maxpoletaev/tango/emu"

// Munger is the per-ROM bundle of memory-layout knowledge traps use to
// read and write cartridge state (spec.md §4.4). Every method takes the
// Core it operates on explicitly rather than capturing one, so the same
// Munger value is shared across the primary, shadow, and replayer trap
// tables.
type Munger interface {
	// TXPacket reads the packet the cartridge just wrote to its outgoing
	// link-cable buffer.
	TXPacket(c emu.Core) []byte

	// SetRXPacket writes playerIndex's incoming link-cable buffer.
	SetRXPacket(c emu.Core, playerIndex uint8, packet []byte)

	// SetRNG1State, SetRNG2State, SetRNG3State install the named RNG
	// register. No trap table in this module calls SetRNG3State.
	SetRNG1State(c emu.Core, state uint32)
	SetRNG2State(c emu.Core, state uint32)
	SetRNG3State(c emu.Core, state uint32)

	// RNG1State and RNG2State read back the current register, used only
	// for diagnostic logging (mirroring the original source's log lines).
	RNG1State(c emu.Core) uint32
	RNG2State(c emu.Core) uint32

	// CurrentTick reads the cartridge's own "current battle tick" counter,
	// which must track Round.CurrentTick exactly (spec.md §4.2.1).
	CurrentTick(c emu.Core) uint32
	SetCurrentTick(c emu.Core, tick uint32)

	// IsLinking reports whether the cartridge believes it is in a link
	// session; bn3like's main_read_joyflags traps skip the tick when it
	// reports false.
	IsLinking(c emu.Core) bool

	// LocalCustomScreenState reads the local player's per-tick custom
	// screen state byte, carried alongside joyflags in some games.
	LocalCustomScreenState(c emu.Core) uint8
	SetCopyDataInputState(c emu.Core, state uint8)

	// StartBattleFromCommMenu configures the cartridge for a match of the
	// given type as the comm menu hands off into battle.
	StartBattleFromCommMenu(c emu.Core, matchType uint8)

	// SkipLogo, ContinueFromTitleMenu, OpenCommMenuFromOverworld advance
	// the cartridge's own intro/menu flow so play can reach the comm menu
	// without user input (spec.md §4.4's "skip the cartridge's own
	// link-cable routine" idiom, applied to menu navigation too).
	SkipLogo(c emu.Core)
	ContinueFromTitleMenu(c emu.Core)
	OpenCommMenuFromOverworld(c emu.Core)

	// ReplaceOpponentName is optional; games without a fixed opponent-name
	// field are free to no-op.
	ReplaceOpponentName(c emu.Core, name string)

	// TXTurnPacket and SetRXTurnPacket carry the larger, infrequent Turn
	// buffer (spec.md §4.6), separate from the per-tick TXPacket/
	// SetRXPacket pair. Games whose TurnTXDelay() is zero are free to
	// no-op both.
	TXTurnPacket(c emu.Core) []byte
	SetRXTurnPacket(c emu.Core, playerIndex uint8, buf []byte)
}
