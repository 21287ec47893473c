package replay

import (
	"errors"
	"io"

	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu"
	"github.com/maxpoletaev/tango/hooks"
)

// ErrRoundResultUnset is returned by Play when the recording ends without
// ever setting a result via one of the game's round_end_* traps.
var ErrRoundResultUnset = errors.New("replay: round ended without a result")

// Player drives a headless core through an entire recorded match file,
// the second consumer (besides live rollback) of the Replayer role
// (spec.md §2, §8's "bit-identical replay" property).
type Player struct {
	core emu.Core
	game hooks.Game
}

// NewPlayer builds a Player around a dedicated headless core.
func NewPlayer(core emu.Core, game hooks.Game) *Player {
	return &Player{core: core, game: game}
}

// PlayResult is the outcome of Play: the final state once the recording
// is exhausted, and the round result observed along the way.
type PlayResult struct {
	FinalState  emu.State
	RoundResult battle.Result
}

// Play consumes every pair from r (as produced by a Recorder) starting
// from h's committed state, and returns the state the core reaches once
// the recording runs out and the trailer's declared result. Re-running
// Play on the same header and pairs always returns byte-identical
// FinalState (the property spec.md §8 calls "bit-identical replay").
func (p *Player) Play(h Header, r *Reader) (PlayResult, error) {
	if err := p.core.LoadState(h.CommittedState); err != nil {
		return PlayResult{}, err
	}

	if h.OpponentName != "" {
		p.game.Munger().ReplaceOpponentName(p.core, h.OpponentName)
	}

	ctx := &replayCtx{
		localPlayerIndex:  h.LocalPlayerIndex,
		remotePlayerIndex: 1 - h.LocalPlayerIndex,
	}

	for {
		pair, err := r.ReadPair()
		if err != nil {
			if err == io.EOF {
				break
			}

			return PlayResult{}, err
		}

		ctx.pairs = append(ctx.pairs, pair)
	}

	p.core.ClearTraps()

	for pc, trap := range p.game.ReplayerTraps(ctx) {
		p.core.InstallTrap(pc, trap)
	}

	for ctx.pos < len(ctx.pairs) {
		if ctx.err != nil {
			return PlayResult{}, ctx.err
		}

		if !p.core.RunUntilTrap() {
			break
		}
	}

	if ctx.err != nil {
		return PlayResult{}, ctx.err
	}

	state, err := p.core.SaveState()
	if err != nil {
		return PlayResult{}, err
	}

	if ctx.result == nil {
		trailer, err := r.ReadTrailer()
		if err != nil {
			return PlayResult{}, ErrRoundResultUnset
		}

		return PlayResult{FinalState: state, RoundResult: trailer.RoundResult}, nil
	}

	return PlayResult{FinalState: state, RoundResult: *ctx.result}, nil
}
