package bn6like

import (
	"encoding/binary"

	"github.com/maxpoletaev/tango/emu"
)

// munger implements hooks.Munger against the placeholder memory layout
// declared in offsets.go.
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

func (m *munger) SetRNG3State(c emu.Core, state uint32) {
	writeU32(c, memRNG3State, state)
}

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

func (m *munger) LocalCustomScreenState(c emu.Core) uint8 {
	var b [1]byte
	c.ReadMemory(memScreenState0, b[:])
	return b[0]
}

func (m *munger) SetCopyDataInputState(c emu.Core, state uint8) {
	c.WriteMemory(memScreenState0, []byte{state})
}

func (m *munger) StartBattleFromCommMenu(c emu.Core, matchType uint8) {
	writeU32(c, memIsLinking, 1)
	c.WriteMemory(memScreenState1, []byte{matchType})
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

func (m *munger) TXTurnPacket(c emu.Core) []byte {
	buf := make([]byte, memTurnTxBufLen)
	c.ReadMemory(memTurnTxBuf, buf)
	return buf
}

func (m *munger) SetRXTurnPacket(c emu.Core, playerIndex uint8, buf []byte) {
	addr := memTurnRxBuf0
	if playerIndex == 1 {
		addr = memTurnRxBuf1
	}

	c.WriteMemory(addr, buf)
}

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
