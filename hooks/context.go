package hooks

import (
	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu"
	"github.com/maxpoletaev/tango/input"
)

// PrimaryContext is the narrow view of Round state the primary role's
// traps need. Round implements this; hooks never imports the round
// package (design notes §9's "TrapContext passed by reference" idiom,
// done here as a Go interface rather than a concrete struct to avoid an
// import cycle between hooks and round/match).
type PrimaryContext interface {
	IsAcceptingInput() bool
	StartAcceptingInput()
	HasCommittedState() bool
	LocalPlayerIndex() uint8
	RemotePlayerIndex() uint8

	// OnFirstCommittedState is invoked the first time main_read_joyflags
	// observes no committed state yet; it must save the primary state,
	// drive the shadow to its own first committed state, and fill the
	// local queue with local_delay no-op inputs.
	OnFirstCommittedState(currentTick uint32)

	// CurrentJoyflags is the latest local joyflags sampled by the
	// collaborator that owns physical input (out of scope; spec.md §6
	// describes it as an atomic u32 the UI shell sets on the Match).
	CurrentJoyflags() uint16

	// OnLocalJoyflags ingests the freshly sampled local joyflags at
	// currentTick+local_delay and attempts a fast-forward. On success it
	// returns the dirty state the caller must load back into its own
	// core to reflect every tick now decided; a nil state with ok=true
	// means nothing new was available to fast-forward yet. ok=false
	// means the fast-forward failed and the match must be aborted.
	OnLocalJoyflags(currentTick uint32, joyflags uint16, screenState uint8) (dirtyState emu.State, ok bool)

	// TakeNextInputPair returns the next committed input pair (both
	// halves already queued) to inject into the cartridge's RX buffers, if
	// one is ready.
	TakeNextInputPair() (input.Pair, bool)

	ExchangeInit(localInit []byte) ([]byte, error)

	// RecordLocalTurn captures a freshly marshaled local Turn buffer,
	// schedules it to become available turnTXDelay frames in the future,
	// mirrors it into the shadow's pending remote turn, and transmits it
	// to the peer so it commits to their view of this round at the same
	// tick (spec.md §4.6). Only called by games whose TurnTXDelay() is
	// nonzero.
	RecordLocalTurn(currentTick uint32, buf []byte, turnTXDelay uint32)

	// TakeLocalTurn and TakeRemoteTurn return this round's own, and the
	// peer's, pending Turn buffer once its commit tick has arrived, for
	// re-injection into the cartridge.
	TakeLocalTurn(currentTick uint32) []byte
	TakeRemoteTurn(currentTick uint32) []byte

	// DeriveRoundRNG derives this peer's rng1/rng2 register values for the
	// round that is starting, per spec.md §4.3's offerer/answerer scheme.
	DeriveRoundRNG() (rng1, rng2 uint32)
	MatchType() uint8

	SetRoundResult(battle.Result)
	EndRound()
	Abort(err error)
}

// ShadowContext mirrors PrimaryContext for the shadow role. The shadow
// never originates input of its own; it only consumes remote inputs
// already queued by the Match.
type ShadowContext interface {
	IsAcceptingInput() bool
	StartAcceptingInput()
	HasCommittedState() bool
	LocalPlayerIndex() uint8
	RemotePlayerIndex() uint8
	IsOfferer() bool

	OnFirstCommittedState(currentTick uint32)
	TakeNextInputPair() (input.Pair, bool)

	TakePendingInit() ([]byte, bool)
	SetPendingOutInit(localInit []byte)

	// TakeLocalTurn and TakeRemoteTurn mirror PrimaryContext's methods
	// from the shadow's inverted point of view: the shadow's "local" turn
	// is the opponent's own, delivered over the wire and mirrored in by
	// Match.PushRemoteTurn; its "remote" turn is our own local player's,
	// mirrored in by PrimaryContext's RecordLocalTurn (the same
	// inversion TakeNextInputPair's remote half uses).
	TakeLocalTurn(currentTick uint32) []byte
	TakeRemoteTurn(currentTick uint32) []byte

	DeriveRoundRNG() (rng1, rng2 uint32)
	MatchType() uint8

	SetRoundResult(battle.Result)
	EndRound()
	SetError(err error)
}

// ReplayerContext mirrors PrimaryContext/ShadowContext for the headless
// Replayer used both by rollback fast-forward and by recorded-match
// playback (spec.md §4.5, §2).
type ReplayerContext interface {
	LocalPlayerIndex() uint8
	RemotePlayerIndex() uint8

	PeekInputPair() (input.Pair, bool)
	PopInputPair() (input.Pair, bool)
	CurrentTick() uint32
	IncrementTick()

	CommitTick() uint32
	DirtyTick() uint32
	SetCommittedState(state []byte)
	SetDirtyState(state []byte)

	SetRoundResult(battle.Result)
	SetRoundEndTick(tick uint32)
	SetError(err error)
}
