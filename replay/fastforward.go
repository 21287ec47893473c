// Package replay implements the headless Replayer role: the rollback
// fast-forward procedure a live Round uses to reconcile predictions
// against newly committed input, and the append-only recorded-match
// format consumed by a standalone playback tool (spec.md §4.5, §6, §2).
package replay

import (
	"fmt"

	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu"
	"github.com/maxpoletaev/tango/hooks"
	"github.com/maxpoletaev/tango/input"
)

// Result is what a single Fastforward call produces: the two save states
// spec.md §4.5 names, plus enough bookkeeping for the caller to know how
// many pairs actually ran and whether the round ended mid-flight.
type Result struct {
	CommittedState emu.State
	DirtyState     emu.State
	ConsumedPairs  []input.Pair
	LastInput      input.Pair
	RoundResult    battle.Result
	HasRoundResult bool
	RoundEnded     bool
}

// Fastforwarder drives a single headless emu.Core through the Replayer
// hook table to reconstruct a run of ticks deterministically. One
// instance is reused across an entire Match; Fastforward reloads the
// core's state on every call, so there is no state carried between
// calls beyond the core itself.
type Fastforwarder struct {
	core emu.Core
	game hooks.Game
}

// NewFastforwarder builds a Fastforwarder around a dedicated headless
// core instance. The core must not be shared with the primary or shadow
// roles — Fastforward clears and reinstalls its trap table on every call.
func NewFastforwarder(core emu.Core, game hooks.Game) *Fastforwarder {
	return &Fastforwarder{core: core, game: game}
}

// Fastforward is the canonical Fastforwarder::fastforward procedure
// (spec.md §4.5). commitPairs are pairs whose remote half is confirmed;
// predictedPairs (produced by input.Queue.PredictRemaining with this
// game's PredictRX rule) extend the run with synthesized remote halves.
// Given the same baseState, lastCommittedTick, commitPairs and
// predictedPairs, the returned CommittedState and DirtyState are
// bit-identical across peers — this is the property that makes
// prediction safe (spec.md §8).
func (f *Fastforwarder) Fastforward(
	baseState emu.State,
	lastCommittedTick uint32,
	commitPairs []input.Pair,
	predictedPairs []input.Pair,
	localPlayerIndex, remotePlayerIndex uint8,
) (Result, error) {
	if err := f.core.LoadState(baseState); err != nil {
		return Result{}, fmt.Errorf("replay: load base state: %w", err)
	}

	pairs := make([]input.Pair, 0, len(commitPairs)+len(predictedPairs))
	pairs = append(pairs, commitPairs...)
	pairs = append(pairs, predictedPairs...)

	if len(pairs) == 0 {
		return Result{}, nil
	}

	ctx := &replayCtx{
		localPlayerIndex:  localPlayerIndex,
		remotePlayerIndex: remotePlayerIndex,
		pairs:             pairs,
		tick:              lastCommittedTick,
		commitTick:        lastCommittedTick + uint32(len(commitPairs)),
		dirtyTick:         lastCommittedTick + uint32(len(pairs)) - 1,
	}

	f.core.ClearTraps()

	for pc, trap := range f.game.ReplayerTraps(ctx) {
		f.core.InstallTrap(pc, trap)
	}

	for ctx.committedState == nil || ctx.dirtyState == nil {
		if ctx.err != nil {
			return Result{}, ctx.err
		}

		if ctx.roundEndTick != nil {
			break
		}

		if !f.core.RunUntilTrap() {
			break
		}
	}

	res := Result{
		CommittedState: ctx.committedState,
		DirtyState:     ctx.dirtyState,
		ConsumedPairs:  pairs[:ctx.pos],
		RoundEnded:     ctx.roundEndTick != nil,
	}

	if ctx.pos > 0 {
		res.LastInput = pairs[ctx.pos-1]
	}

	if ctx.result != nil {
		res.RoundResult = *ctx.result
		res.HasRoundResult = true
	}

	return res, nil
}

// replayCtx implements hooks.ReplayerContext against a single
// Fastforward (or standalone Replayer, see player.go) run.
type replayCtx struct {
	localPlayerIndex, remotePlayerIndex uint8

	pairs []input.Pair
	pos   int

	tick       uint32
	commitTick uint32
	dirtyTick  uint32

	committedState emu.State
	dirtyState     emu.State

	result       *battle.Result
	roundEndTick *uint32
	err          error
}

func (c *replayCtx) LocalPlayerIndex() uint8  { return c.localPlayerIndex }
func (c *replayCtx) RemotePlayerIndex() uint8 { return c.remotePlayerIndex }

func (c *replayCtx) PeekInputPair() (input.Pair, bool) {
	if c.pos >= len(c.pairs) {
		return input.Pair{}, false
	}

	return c.pairs[c.pos], true
}

func (c *replayCtx) PopInputPair() (input.Pair, bool) {
	p, ok := c.PeekInputPair()
	if ok {
		c.pos++
	}

	return p, ok
}

func (c *replayCtx) CurrentTick() uint32 { return c.tick }
func (c *replayCtx) IncrementTick()      { c.tick++ }
func (c *replayCtx) CommitTick() uint32  { return c.commitTick }
func (c *replayCtx) DirtyTick() uint32   { return c.dirtyTick }

func (c *replayCtx) SetCommittedState(state []byte) { c.committedState = state }
func (c *replayCtx) SetDirtyState(state []byte)      { c.dirtyState = state }

func (c *replayCtx) SetRoundResult(r battle.Result) { c.result = &r }

func (c *replayCtx) SetRoundEndTick(tick uint32) { c.roundEndTick = &tick }

func (c *replayCtx) SetError(err error) { c.err = err }
