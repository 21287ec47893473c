package match

import (
	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/input"
)

// shadowCtx implements hooks.ShadowContext by delegating to m.shadow's
// own Round and pending-init buffers. The shadow never originates local
// input or drives the Transport directly; it only consumes what the
// primary side (via PushRemoteInput/pushLocalToShadow) and ExchangeInit
// (read back via TakePendingInit) have already staged for it.
type shadowCtx struct{ m *Match }

func (c *shadowCtx) IsAcceptingInput() bool  { return c.m.shadow.round.IsAcceptingInput() }
func (c *shadowCtx) StartAcceptingInput()    { c.m.shadow.round.StartAcceptingInput() }
func (c *shadowCtx) HasCommittedState() bool { return c.m.shadow.round.HasCommittedState() }

func (c *shadowCtx) LocalPlayerIndex() uint8  { return c.m.cfg.remotePlayerIndex() }
func (c *shadowCtx) RemotePlayerIndex() uint8 { return c.m.cfg.LocalPlayerIndex }

func (c *shadowCtx) IsOfferer() bool { return c.m.cfg.IsOfferer }

// OnFirstCommittedState saves the shadow's own state; unlike the
// primary's counterpart it does not drive anything else, since the
// shadow has no further emulator to coordinate.
func (c *shadowCtx) OnFirstCommittedState(currentTick uint32) {
	state, err := c.m.shadow.core.SaveState()
	if err != nil {
		c.m.Cancel(err)
		return
	}

	c.m.mu.Lock()
	c.m.shadow.round.SetFirstCommittedState(currentTick, state)
	c.m.mu.Unlock()
}

func (c *shadowCtx) TakeNextInputPair() (input.Pair, bool) {
	return c.m.shadow.round.Queue().ConsumePair()
}

// TakePendingInit returns and clears this peer's own init payload staged
// by the primary's ExchangeInit round trip, for the shadow's own
// round_init_tx_buf_copy_ret trap to consume (spec.md §4.3; the shadow
// replays the same handshake the primary already completed, rather than
// performing its own Transport round trip).
func (c *shadowCtx) TakePendingInit() ([]byte, bool) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	b := c.m.shadow.pendingInInit
	if b == nil {
		return nil, false
	}

	c.m.shadow.pendingInInit = nil

	return b, true
}

func (c *shadowCtx) SetPendingOutInit(localInit []byte) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	c.m.shadow.pendingOutInit = localInit
}

// TakeLocalTurn returns the opponent's own Turn buffer once its commit
// tick arrives, staged by Match.PushRemoteTurn when the real Turn
// message came in over the wire.
func (c *shadowCtx) TakeLocalTurn(currentTick uint32) []byte {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	return c.m.shadow.round.TakePendingLocalTurn(currentTick)
}

// TakeRemoteTurn returns our own local player's Turn buffer once its
// commit tick arrives, staged by primaryCtx.RecordLocalTurn.
func (c *shadowCtx) TakeRemoteTurn(currentTick uint32) []byte {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	return c.m.shadow.round.TakePendingRemoteTurn(currentTick)
}

func (c *shadowCtx) DeriveRoundRNG() (uint32, uint32) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	return c.m.deriveShadowRNG()
}

func (c *shadowCtx) MatchType() uint8 { return c.m.cfg.MatchType }

func (c *shadowCtx) SetRoundResult(r battle.Result) { c.m.shadow.round.SetResult(r) }

// EndRound is a no-op on the shadow side: AdvanceShadowUntilRoundEnd
// already detects round end by polling the shadow Round's own Result,
// which the round_end_damage_judge_set_* traps set before this one fires.
func (c *shadowCtx) EndRound() {}

// SetError records a shadow-side trap failure. A shadow divergence means
// the primary's own fast-forwards can no longer be trusted, so this is
// just as terminal as a primary-side error (spec.md §7's ShadowError).
func (c *shadowCtx) SetError(err error) {
	c.m.Cancel(err)
}
