package bn3like

import (
	"encoding/binary"

	"github.com/maxpoletaev/tango/emu"
)

// defaultBackground stands in for bn3.rs's BATTLE_BACKGROUNDS table. The Munger
// contract only passes a match type through StartBattleFromCommMenu, so
// the background is fixed rather than drawn from the shared RNG; unlike
// match type and RNG state, it never needs to agree between peers.
const defaultBackground = 0x00

type munger struct{}

func (m *munger) TXPacket(c emu.Core) []byte {
	buf := make([]byte, memTxBufLen)
	c.ReadMemory(memTxBuf, buf)
	return buf
}

func (m *munger) SetRXPacket(c emu.Core, playerIndex uint8, packet []byte) {
	addr := memRxBuf0
	if playerIndex == 1 {
		addr = memRxBuf1
	}

	c.WriteMemory(addr, packet)
}

func (m *munger) SetRNG1State(c emu.Core, state uint32) {
	writeU32(c, memRNG1State, state)
}

func (m *munger) SetRNG2State(c emu.Core, state uint32) {
	writeU32(c, memRNG2State, state)
}

// SetRNG3State is a no-op: BN3 has no third RNG register (HasRNG3 returns
// false), so Match never calls this in practice.
func (m *munger) SetRNG3State(c emu.Core, state uint32) {}

func (m *munger) RNG1State(c emu.Core) uint32 {
	return readU32(c, memRNG1State)
}

func (m *munger) RNG2State(c emu.Core) uint32 {
	return readU32(c, memRNG2State)
}

func (m *munger) CurrentTick(c emu.Core) uint32 {
	return readU32(c, memCurrentTick)
}

func (m *munger) SetCurrentTick(c emu.Core, tick uint32) {
	writeU32(c, memCurrentTick, tick)
}

func (m *munger) IsLinking(c emu.Core) bool {
	return readU32(c, memIsLinking) != 0
}

// LocalCustomScreenState has no BN3 equivalent; bn3.rs's main_read_joyflags
// trap gates on is_linking alone, not a per-screen state byte.
func (m *munger) LocalCustomScreenState(c emu.Core) uint8 { return 0 }

func (m *munger) SetCopyDataInputState(c emu.Core, state uint8) {}

func (m *munger) StartBattleFromCommMenu(c emu.Core, matchType uint8) {
	writeU32(c, memIsLinking, 1)
	c.WriteMemory(memMatchConfig, []byte{matchType, defaultBackground})
}

func (m *munger) SkipLogo(c emu.Core) {
	c.SetPC(pcStartScreenSRAMUnmaskRet)
}

func (m *munger) ContinueFromTitleMenu(c emu.Core) {
	c.SetPC(pcGameLoadRet)
}

func (m *munger) OpenCommMenuFromOverworld(c emu.Core) {
	c.SetPC(pcCommMenuInitRet)
}

func (m *munger) ReplaceOpponentName(c emu.Core, name string) {
	buf := make([]byte, 16)
	copy(buf, name)
	c.WriteMemory(pcOpponentName, buf)
}

// TXTurnPacket and SetRXTurnPacket are no-ops: BN3 has no Turn message
// concept (TurnTXDelay returns 0), so Match never calls these in
// practice.
func (m *munger) TXTurnPacket(c emu.Core) []byte          { return nil }
func (m *munger) SetRXTurnPacket(c emu.Core, playerIndex uint8, buf []byte) {}

func readU32(c emu.Core, addr uint32) uint32 {
	var buf [4]byte
	c.ReadMemory(addr, buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

func writeU32(c emu.Core, addr uint32, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	c.WriteMemory(addr, buf[:])
}
