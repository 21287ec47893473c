// Package round implements one battle's state: the tick counter, the
// input queue, saved states and the result (spec.md §3, §4.2). It holds
// no RNG, transport, or shadow-advancement logic of its own — those stay
// in the match package, which drives a Round through the hooks.Game
// trap tables as the primary's own hooks.PrimaryContext implementation.
package round

import (
	"fmt"

	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu"
	"github.com/maxpoletaev/tango/input"
)

// ErrTickMismatch is the terminal error a Round raises when a consumed
// pair's ticks disagree (spec.md §4.2.1, §7). Nothing compares the
// cartridge's own tick register against Round.CurrentTick, so drift
// there raises no error.
type ErrTickMismatch struct {
	Local, Remote, Current uint32
}

func (e ErrTickMismatch) Error() string {
	return fmt.Sprintf("round: tick mismatch: local=%d remote=%d current=%d", e.Local, e.Remote, e.Current)
}

// Round is one battle's state. Constructed on round_start, destroyed on
// round_end after results and the recording segment are flushed
// (spec.md §3).
type Round struct {
	currentTick uint32

	localPlayerIndex  uint8
	remotePlayerIndex uint8
	localDelay        uint8
	remoteDelay       uint8

	queue *input.Queue

	hasCommittedState bool
	firstState        emu.State

	pendingLocalTurn        []byte
	pendingLocalTurnCommit  uint32
	pendingRemoteTurn       []byte
	pendingRemoteTurnCommit uint32

	result   *battle.Result
	accepted bool

	err error
}

// New constructs an empty Round. maxQueueLength must be at least
// localDelay+2 (spec.md §6).
func New(localPlayerIndex, remotePlayerIndex uint8, localDelay, remoteDelay uint8, maxQueueLength int) *Round {
	return &Round{
		localPlayerIndex:  localPlayerIndex,
		remotePlayerIndex: remotePlayerIndex,
		localDelay:        localDelay,
		remoteDelay:       remoteDelay,
		queue:             input.NewQueue(maxQueueLength),
	}
}

func (r *Round) CurrentTick() uint32 { return r.currentTick }

func (r *Round) SetCurrentTick(t uint32) { r.currentTick = t }

func (r *Round) IncrementTick() { r.currentTick++ }

func (r *Round) LocalPlayerIndex() uint8  { return r.localPlayerIndex }
func (r *Round) RemotePlayerIndex() uint8 { return r.remotePlayerIndex }
func (r *Round) LocalDelay() uint8        { return r.localDelay }
func (r *Round) RemoteDelay() uint8       { return r.remoteDelay }

func (r *Round) Queue() *input.Queue { return r.queue }

func (r *Round) IsAcceptingInput() bool { return r.accepted }
func (r *Round) StartAcceptingInput()   { r.accepted = true }

func (r *Round) HasCommittedState() bool { return r.hasCommittedState }

// SetFirstCommittedState records the primary's save-state the first
// time main_read_joyflags observes none yet, and primes the local queue
// with local_delay no-op inputs to establish the delay window (spec.md
// §4.2 step 1).
func (r *Round) SetFirstCommittedState(tick uint32, state emu.State) {
	r.hasCommittedState = true
	r.firstState = state
	r.currentTick = tick

	for i := uint8(0); i < r.localDelay; i++ {
		_ = r.queue.AddLocal(tick+uint32(i), 0, nil)
	}
}

func (r *Round) FirstCommittedState() emu.State { return r.firstState }

func (r *Round) Result() (battle.Result, bool) {
	if r.result == nil {
		return 0, false
	}

	return *r.result, true
}

func (r *Round) SetResult(res battle.Result) { r.result = &res }

// SetPendingLocalTurn stages buf to become available once CurrentTick
// reaches commitTick, grounded on bn6.rs's
// round.add_local_pending_turn(local_turn, commit_tick).
func (r *Round) SetPendingLocalTurn(buf []byte, commitTick uint32) {
	r.pendingLocalTurn = buf
	r.pendingLocalTurnCommit = commitTick
}

// TakePendingLocalTurn returns the staged local turn buffer once
// currentTick has reached its commit tick, consuming it, grounded on
// bn6.rs's round.take_local_pending_turn(current_tick).
func (r *Round) TakePendingLocalTurn(currentTick uint32) []byte {
	if r.pendingLocalTurn == nil || currentTick < r.pendingLocalTurnCommit {
		return nil
	}

	buf := r.pendingLocalTurn
	r.pendingLocalTurn = nil

	return buf
}

// SetPendingRemoteTurn and TakePendingRemoteTurn mirror the local-turn
// pair above for the peer's Turn buffer.
func (r *Round) SetPendingRemoteTurn(buf []byte, commitTick uint32) {
	r.pendingRemoteTurn = buf
	r.pendingRemoteTurnCommit = commitTick
}

func (r *Round) TakePendingRemoteTurn(currentTick uint32) []byte {
	if r.pendingRemoteTurn == nil || currentTick < r.pendingRemoteTurnCommit {
		return nil
	}

	buf := r.pendingRemoteTurn
	r.pendingRemoteTurn = nil

	return buf
}

func (r *Round) Err() error    { return r.err }
func (r *Round) SetErr(e error) {
	if r.err == nil {
		r.err = e
	}
}

// DrainCommitted pops every pair currently available from both sides of
// the queue, in order. Used by the primary's main_read_joyflags trap to
// gather commitPairs before a fast-forward (spec.md §4.5).
func (r *Round) DrainCommitted() []input.Pair {
	var pairs []input.Pair

	for {
		p, ok := r.queue.ConsumePair()
		if !ok {
			break
		}

		if p.Local.LocalTick != p.Remote.LocalTick {
			r.SetErr(ErrTickMismatch{Local: p.Local.LocalTick, Remote: p.Remote.LocalTick, Current: r.currentTick})
			break
		}

		pairs = append(pairs, p)
	}

	return pairs
}
