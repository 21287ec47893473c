// Package emu defines the dependency surface this module requires from a
// GBA emulator core. The core itself is an external collaborator — no
// concrete CPU/PPU implementation ships here. Traps, the Match runtime, and
// the Replayer are all written against this interface so that a real
// mgba-style binding can be dropped in without touching the lockstep logic.
package emu

// Role distinguishes which of the three parallel trap tables a hook
// belongs to. The generic engine treats all three symmetrically; only the
// per-ROM modules in hooks/ behave differently per role.
type Role int

const (
	RolePrimary Role = iota
	RoleShadow
	RoleReplayer
)

func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleShadow:
		return "shadow"
	case RoleReplayer:
		return "replayer"
	default:
		return "unknown"
	}
}

// State is an opaque save-state blob. Its contents are entirely defined by
// the emulator core; the engine only ever loads, saves, and compares these
// byte-for-byte.
type State []byte

// Trap is a callback spliced into the emulator's execution at a specific
// program counter. It may read or mutate GPRs, memory, and the PC through
// the Core it is given, and may save or load state. Traps must never
// block on anything other than a short, non-reentrant lock and must never
// panic except via a genuine emulator crash signal.
type Trap func(Core)

// Core is the full set of operations the netplay engine requires from an
// emulator instance. Implementations are expected to be single-writer:
// only the goroutine currently stepping the core (or running a trap
// dispatched from a step) may call any of these methods.
type Core interface {
	// LoadROM resets the core and loads a new cartridge image.
	LoadROM(rom []byte) error

	// Reset performs a cold reset of CPU, PPU, and cartridge state.
	Reset()

	// Step executes a single CPU instruction.
	Step()

	// RunUntilTrap steps the core until one of the installed traps fires,
	// then runs that trap before returning. Returns false if the core
	// halted or crashed before any trap fired.
	RunUntilTrap() bool

	// InstallTrap installs fn at the given program-counter address,
	// replacing any existing trap at that address.
	InstallTrap(pc uint32, fn Trap)

	// RemoveTrap removes any trap installed at pc.
	RemoveTrap(pc uint32)

	// ClearTraps removes every installed trap.
	ClearTraps()

	// GPR reads general-purpose register n (0-15, where 15 is the PC).
	GPR(n int) uint32

	// SetGPR writes general-purpose register n.
	SetGPR(n int, v uint32)

	// PC returns the current program counter.
	PC() uint32

	// SetPC sets the program counter, e.g. to skip past a call site.
	SetPC(pc uint32)

	// ReadMemory copies len(dst) bytes starting at addr into dst.
	ReadMemory(addr uint32, dst []byte)

	// WriteMemory writes src into memory starting at addr.
	WriteMemory(addr uint32, src []byte)

	// SaveState serializes the full architectural state to an opaque blob.
	SaveState() (State, error)

	// LoadState restores a previously saved state.
	LoadState(State) error
}

// CrashInfo describes the CPU context at the moment of an emulator crash.
// EmulatorCrashed is the only error in the taxonomy that is fatal at
// process scope (spec.md §7); everything else is terminal only to the
// Match.
type CrashInfo struct {
	LR uint32
	PC uint32
}

func (c CrashInfo) Error() string {
	return "emulator crashed"
}
