package bn6like

import (
	"encoding/binary"

	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu"
	"github.com/maxpoletaev/tango/input"
)

const (
	winResult  = battle.Win
	lossResult = battle.Loss
)

// PredictRX is BN6's default prediction rule: assume the opponent keeps
// sending the same packet until told otherwise (original source's
// default predict_rx, overridden only by games like BN3 — see
// hooks/bn3like).
func (g *BN6) PredictRX(packet []byte) []byte {
	return input.CopyLastPacket(packet)
}

// ResolveDraw implements the round_end_damage_judge_set_draw rule from
// bn6.rs's on_draw_result: the cartridge itself declared a draw, so the
// module breaks the tie off the two navis' remaining HP, and only falls
// back to an actual Draw when HP is equal too. It is called once per
// core (the caller's own primary core, or the shadow's own core), never
// shared or inverted between roles — spec.md §9.
func (g *BN6) ResolveDraw(c emu.Core) battle.Result {
	var buf [2]byte

	c.ReadMemory(memLocalHP, buf[:])
	localHP := binary.LittleEndian.Uint16(buf[:])

	c.ReadMemory(memRemoteHP, buf[:])
	remoteHP := binary.LittleEndian.Uint16(buf[:])

	switch {
	case localHP > remoteHP:
		return battle.Win
	case remoteHP > localHP:
		return battle.Loss
	default:
		return battle.Draw
	}
}
