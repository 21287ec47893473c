package match

import (
	"fmt"
	"time"

	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu"
	"github.com/maxpoletaev/tango/input"
	"github.com/maxpoletaev/tango/transport"
)

// primaryCtx implements hooks.PrimaryContext by delegating tick/queue
// bookkeeping to m.round and RNG/transport/shadow coordination to m
// itself.
type primaryCtx struct{ m *Match }

func (c *primaryCtx) IsAcceptingInput() bool  { return c.m.round.IsAcceptingInput() }
func (c *primaryCtx) StartAcceptingInput()    { c.m.round.StartAcceptingInput() }
func (c *primaryCtx) HasCommittedState() bool { return c.m.round.HasCommittedState() }

func (c *primaryCtx) LocalPlayerIndex() uint8  { return c.m.cfg.LocalPlayerIndex }
func (c *primaryCtx) RemotePlayerIndex() uint8 { return c.m.cfg.remotePlayerIndex() }

func (c *primaryCtx) CurrentJoyflags() uint16 {
	return uint16(c.m.localJoyflags.Load())
}

// OnFirstCommittedState implements spec.md §4.2 step 1: save the
// primary's own state, drive the shadow to its matching state, and prime
// the local queue's delay window.
func (c *primaryCtx) OnFirstCommittedState(currentTick uint32) {
	state, err := c.m.primaryCore.SaveState()
	if err != nil {
		c.m.Cancel(fmt.Errorf("match: save first committed state: %w", err))
		return
	}

	if _, err := c.m.AdvanceShadowUntilFirstCommittedState(); err != nil {
		c.m.Cancel(fmt.Errorf("match: advance shadow to first committed state: %w", err))
		return
	}

	c.m.mu.Lock()
	c.m.round.SetFirstCommittedState(currentTick, state)
	c.m.mu.Unlock()
}

// OnLocalJoyflags implements spec.md §4.2 step 1's ingest-and-fastforward
// rule. It queues the local input at currentTick+local_delay, mirrors it
// into the shadow's queue, drains every committed pair, predicts the
// remainder via the per-ROM rule, and asks the Fastforwarder to
// reconcile, returning the resulting dirty state for the trap to load
// back into the live primary core.
func (c *primaryCtx) OnLocalJoyflags(currentTick uint32, joyflags uint16, screenState uint8) (emu.State, bool) {
	m := c.m

	m.mu.Lock()
	r := m.round

	tick := currentTick + uint32(r.LocalDelay())

	if err := r.Queue().AddLocal(tick, joyflags, nil); err != nil {
		m.cancel(err)
		m.mu.Unlock()
		return nil, false
	}

	commitPairs := r.DrainCommitted()
	if err := r.Err(); err != nil {
		m.mu.Unlock()
		return nil, false
	}

	predicted := r.Queue().PredictRemaining(m.game.PredictRX)
	baseState := r.FirstCommittedState()
	lastTick := r.CurrentTick()
	localIdx, remoteIdx := r.LocalPlayerIndex(), r.RemotePlayerIndex()
	m.mu.Unlock()

	m.pushLocalToShadow(tick, joyflags, nil)

	if len(commitPairs) == 0 && len(predicted) == 0 {
		return nil, true
	}

	res, err := m.ff.Fastforward(baseState, lastTick, commitPairs, predicted, localIdx, remoteIdx)
	if err != nil {
		m.Cancel(fmt.Errorf("match: fastforward: %w", err))
		return nil, false
	}

	m.mu.Lock()
	r.SetCurrentTick(lastTick + uint32(len(commitPairs)))
	if res.HasRoundResult {
		r.SetResult(res.RoundResult)
	}
	m.mu.Unlock()

	return res.DirtyState, true
}

func (c *primaryCtx) TakeNextInputPair() (input.Pair, bool) {
	return c.m.round.Queue().ConsumePair()
}

// ExchangeInit sends the local init payload and blocks for the peer's
// reply, both tagged with the current round number (spec.md §4.6's Init
// message, sent once per round before any Input).
func (c *primaryCtx) ExchangeInit(localInit []byte) ([]byte, error) {
	m := c.m

	m.mu.Lock()
	roundNumber := m.roundNumber
	m.mu.Unlock()

	if err := m.transport.Send(transport.Message{
		Kind:        transport.KindInit,
		RoundNumber: roundNumber,
		Payload:     localInit,
	}); err != nil {
		return nil, err
	}

	select {
	case peerInit := <-m.initCh:
		// Stage our own localInit for the shadow's matching trap: from
		// the shadow's point of view the primary already completed the
		// handshake, so it only needs to replay the result, not perform
		// its own Transport round trip (spec.md §4.3).
		m.mu.Lock()
		m.shadow.pendingInInit = localInit
		m.mu.Unlock()

		return peerInit, nil
	case <-time.After(transport.DialTimeout):
		return nil, fmt.Errorf("match: timed out waiting for peer init")
	}
}

// RecordLocalTurn implements spec.md §4.6's Turn message: the local
// buffer commits turnTXDelay frames in the future, both locally (so the
// cartridge can read it back via TakeLocalTurn) and on the peer's board
// (sent now so it arrives well before its own commit tick).
func (c *primaryCtx) RecordLocalTurn(currentTick uint32, buf []byte, turnTXDelay uint32) {
	m := c.m
	commitTick := currentTick + turnTXDelay

	m.mu.Lock()
	m.round.SetPendingLocalTurn(buf, commitTick)
	roundNumber := m.roundNumber
	m.mu.Unlock()

	m.pushLocalTurnToShadow(buf, commitTick)

	err := m.transport.Send(transport.Message{
		Kind:        transport.KindTurn,
		RoundNumber: roundNumber,
		Payload:     transport.EncodeTurnPayload(transport.TurnPayload{CommitTick: commitTick, Buf: buf}),
	})
	if err != nil {
		m.Cancel(fmt.Errorf("match: send turn: %w", err))
	}
}

func (c *primaryCtx) TakeLocalTurn(currentTick uint32) []byte {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	return c.m.round.TakePendingLocalTurn(currentTick)
}

func (c *primaryCtx) TakeRemoteTurn(currentTick uint32) []byte {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	return c.m.round.TakePendingRemoteTurn(currentTick)
}

func (c *primaryCtx) DeriveRoundRNG() (uint32, uint32) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	return c.m.deriveRNG()
}

func (c *primaryCtx) MatchType() uint8 { return c.m.cfg.MatchType }

func (c *primaryCtx) SetRoundResult(r battle.Result) { c.m.round.SetResult(r) }

func (c *primaryCtx) EndRound() {
	c.m.EndRound()

	if err := c.m.AdvanceShadowUntilRoundEnd(); err != nil {
		c.m.Cancel(fmt.Errorf("match: advance shadow to round end: %w", err))
	}
}

func (c *primaryCtx) Abort(err error) {
	if err == nil {
		err = fmt.Errorf("match: primary aborted")
	}

	c.m.Cancel(err)
}
