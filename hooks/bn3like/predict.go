package bn3like

import (
	"encoding/binary"

	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu"
)

const (
	winResult  = battle.Win
	lossResult = battle.Loss
)

// PredictRX is BN3's prediction rule (bn3.rs's predict_rx): unlike the
// bn6like family's "repeat the last packet" default, BN3 embeds its own
// tick counter at packet offset 0x4 and the prediction advances it by
// one, so a string of predicted packets reads as a plausible future
// rather than a frozen one.
func (g *BN3) PredictRX(packet []byte) []byte {
	out := make([]byte, len(packet))
	copy(out, packet)

	if len(out) < 8 {
		return out
	}

	tick := binary.LittleEndian.Uint32(out[4:8])
	binary.LittleEndian.PutUint32(out[4:8], tick+1)

	return out
}

// ResolveDraw mirrors bn6like's rule: compare remaining HP, and only
// report an actual Draw when both navis are tied.
func (g *BN3) ResolveDraw(c emu.Core) battle.Result {
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
