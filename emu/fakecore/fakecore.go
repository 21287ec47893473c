// Package fakecore is a deterministic reference implementation of emu.Core.
// It is not a GBA CPU — there is no real ARM7 decode loop here — but it
// gives the rest of this module something to run against in tests and in
// the cmd/ tools, the same way a headless libretro core is driven purely
// through save/load-state and step calls in integration tests elsewhere in
// this domain. Every "instruction" is just an increment of a virtual
// program counter through a fixed per-ROM trace; traps fire when that
// virtual PC matches an installed address, exactly as the real dependency
// surface in emu.Core specifies.
package fakecore

import (
	"encoding/binary"
	"fmt"

	"github.com/maxpoletaev/tango/emu"
)

const memSize = 1 << 20

// Core is a small, fully in-memory stand-in for a GBA core.
type Core struct {
	rom  []byte
	mem  [memSize]byte
	gpr  [16]uint32
	traps map[uint32]emu.Trap

	// trace is the sequence of PCs the virtual program visits, one per
	// Step call, wrapping around once exhausted. Per-ROM test fixtures
	// populate this to model "the cartridge visits main_read_joyflags,
	// then copy_input_data_entry, then ..." without a real decoder.
	trace []uint32
	tpos  int

	crashed   bool
	crashInfo emu.CrashInfo
}

// New creates a fake core whose virtual PC walks through trace forever.
func New(trace []uint32) *Core {
	c := &Core{
		traps: make(map[uint32]emu.Trap),
		trace: trace,
	}
	return c
}

func (c *Core) LoadROM(rom []byte) error {
	c.rom = append([]byte(nil), rom...)
	c.Reset()
	return nil
}

func (c *Core) Reset() {
	c.gpr = [16]uint32{}
	c.tpos = 0
	c.crashed = false

	for i := range c.mem {
		c.mem[i] = 0
	}
}

func (c *Core) Step() {
	if len(c.trace) == 0 {
		return
	}

	c.gpr[15] = c.trace[c.tpos]
	c.tpos = (c.tpos + 1) % len(c.trace)
}

func (c *Core) RunUntilTrap() bool {
	if c.crashed || len(c.trace) == 0 {
		return false
	}

	for i := 0; i < len(c.trace)+1; i++ {
		c.Step()

		if trap, ok := c.traps[c.gpr[15]]; ok {
			trap(c)
			return true
		}
	}

	return false
}

func (c *Core) InstallTrap(pc uint32, fn emu.Trap) {
	c.traps[pc] = fn
}

func (c *Core) RemoveTrap(pc uint32) {
	delete(c.traps, pc)
}

func (c *Core) ClearTraps() {
	c.traps = make(map[uint32]emu.Trap)
}

func (c *Core) GPR(n int) uint32 {
	return c.gpr[n]
}

func (c *Core) SetGPR(n int, v uint32) {
	c.gpr[n] = v
}

func (c *Core) PC() uint32 {
	return c.gpr[15]
}

func (c *Core) SetPC(pc uint32) {
	c.gpr[15] = pc
}

// memIndex folds a GBA bus address into the fake's flat memory: the
// address's top byte picks one of 16 regions of 64 KiB, and its low 16
// bits the offset inside that region.
func memIndex(addr uint32) uint32 {
	return (addr>>24&0xF)<<16 | addr&0xFFFF
}

func (c *Core) ReadMemory(addr uint32, dst []byte) {
	copy(dst, c.mem[memIndex(addr):])
}

func (c *Core) WriteMemory(addr uint32, src []byte) {
	copy(c.mem[memIndex(addr):], src)
}

// Crash simulates an emulator-detected CPU exception, e.g. an unsupported
// instruction. Exposed for tests that exercise emu.CrashInfo propagation.
func (c *Core) Crash(lr, pc uint32) {
	c.crashed = true
	c.crashInfo = emu.CrashInfo{LR: lr, PC: pc}
}

func (c *Core) SaveState() (emu.State, error) {
	buf := make([]byte, 4+len(c.gpr)*4+4+len(c.mem))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(c.tpos))

	off := 4
	for _, r := range c.gpr {
		binary.LittleEndian.PutUint32(buf[off:off+4], r)
		off += 4
	}

	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(c.mem)))
	off += 4
	copy(buf[off:], c.mem[:])

	return buf, nil
}

func (c *Core) LoadState(s emu.State) error {
	if len(s) < 4+len(c.gpr)*4+4 {
		return fmt.Errorf("fakecore: truncated state (%d bytes)", len(s))
	}

	c.tpos = int(binary.LittleEndian.Uint32(s[0:4]))

	off := 4
	for i := range c.gpr {
		c.gpr[i] = binary.LittleEndian.Uint32(s[off : off+4])
		off += 4
	}

	memLen := int(binary.LittleEndian.Uint32(s[off : off+4]))
	off += 4

	if len(s[off:]) < memLen {
		return fmt.Errorf("fakecore: truncated memory section")
	}

	copy(c.mem[:], s[off:off+memLen])

	return nil
}
