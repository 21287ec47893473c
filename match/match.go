// Package match implements the Match runtime: the pair of emulators
// (primary + shadow), the shared RNG, the Transport, and the round
// lifecycle that ties them together (spec.md §3, §4.3, §5). It is the
// only package that implements hooks.PrimaryContext and
// hooks.ShadowContext, since both need the RNG, the Transport, and the
// Round/Shadow state together.
package match

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu"
	"github.com/maxpoletaev/tango/hooks"
	"github.com/maxpoletaev/tango/input"
	"github.com/maxpoletaev/tango/replay"
	"github.com/maxpoletaev/tango/rng"
	"github.com/maxpoletaev/tango/round"
	"github.com/maxpoletaev/tango/transport"
)

// Config carries the per-session parameters the UI/matchmaking
// collaborator supplies (spec.md §6: input_delay 2..=10, max_queue_length
// >= input_delay+2).
type Config struct {
	LocalPlayerIndex uint8
	IsOfferer        bool
	MatchType        uint8
	LocalDelay       uint8
	RemoteDelay      uint8
	MaxQueueLength   int
	RNGSeed          int64
}

func (c Config) remotePlayerIndex() uint8 { return 1 - c.LocalPlayerIndex }

// Shadow is the opponent re-simulation: its own emulator core, its own
// Round-equivalent state, and its own RNG stream seeded identically to
// the primary's (spec.md §3: "its own RNG seeded identically from the
// Match's shared RNG"), is_p2 inverted relative to the primary, never
// externally driven.
type Shadow struct {
	core  emu.Core
	round *round.Round
	rng   *rng.Shared

	pendingInInit  []byte
	pendingOutInit []byte
}

// Match owns both emulator handles and the Transport for the lifetime of
// a session (spec.md §3). Round and Shadow are exclusively owned by it.
type Match struct {
	mu sync.Mutex

	cfg  Config
	game hooks.Game
	rng  *rng.Shared

	primaryCore emu.Core
	round       *round.Round

	shadow *Shadow

	ff *replay.Fastforwarder

	transport *transport.Transport

	roundNumber uint16
	lastResults []battle.Result

	cancelled bool
	err       error

	localJoyflags atomic.Uint32

	// initCh delivers decoded Init payloads from Pump to whichever trap
	// is blocked in ExchangeInit, since Init messages otherwise look
	// just like any other Transport frame to the receive loop.
	initCh chan []byte
}

// New constructs a Match and installs the game's primary and shadow trap
// tables onto their respective cores. The cores must not already have
// traps installed for other purposes. ffCore is a third, dedicated
// headless core Fastforward reuses across the whole match.
func New(cfg Config, game hooks.Game, primaryCore, shadowCore, ffCore emu.Core, tr *transport.Transport) *Match {
	m := &Match{
		cfg:         cfg,
		game:        game,
		rng:         rng.NewShared(cfg.RNGSeed),
		primaryCore: primaryCore,
		transport:   tr,
		initCh:      make(chan []byte, 1),
		shadow: &Shadow{
			core: shadowCore,
			rng:  rng.NewShared(cfg.RNGSeed),
			round: round.New(cfg.remotePlayerIndex(), cfg.LocalPlayerIndex,
				cfg.RemoteDelay, cfg.LocalDelay, cfg.MaxQueueLength),
		},
	}

	m.ff = replay.NewFastforwarder(ffCore, game)

	for pc, trap := range game.PrimaryTraps(&primaryCtx{m}) {
		primaryCore.InstallTrap(pc, trap)
	}

	for pc, trap := range game.ShadowTraps(&shadowCtx{m}) {
		shadowCore.InstallTrap(pc, trap)
	}

	return m
}

// SetLocalJoyflags is the atomic u32 the out-of-scope UI shell sets each
// frame (spec.md §6).
func (m *Match) SetLocalJoyflags(v uint16) {
	m.localJoyflags.Store(uint32(v))
}

// Cancelled reports whether the match has transitioned to the terminal
// Cancelled state (spec.md §4.7). Any trap observing this must return
// without mutating emulator state.
func (m *Match) Cancelled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cancelled
}

// Err returns the terminal error, if any, that caused cancellation.
func (m *Match) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.err
}

// cancel is idempotent: it stops the primary run loop (by marking
// cancelled, which RunPrimary's loop checks) and closes the Transport
// (spec.md §5). It does not drain the input queues.
func (m *Match) cancel(err error) {
	if m.cancelled {
		return
	}

	m.cancelled = true

	if err != nil {
		m.err = err
		log.Printf("[ERROR] match: cancelled: %v", err)
	}

	if m.transport != nil {
		if cerr := m.transport.Close(); cerr != nil {
			log.Printf("[WARN] match: transport close: %v", cerr)
		}
	}
}

// Cancel cancels the match from outside a trap (e.g. in response to a
// Transport read timeout in the driving loop).
func (m *Match) Cancel(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancel(err)
}

// StartRound bumps the round number and allocates a new Round and Shadow
// round (spec.md §4.3's start_round). It neither derives RNG state nor
// exchanges Init: the comm_menu_init_ret traps do the former through
// DeriveRoundRNG, the round_init_tx_buf_copy_ret trap the latter through
// ExchangeInit. Called from the round_start_ret trap.
func (m *Match) StartRound() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancelled {
		return nil
	}

	m.roundNumber++

	m.round = round.New(m.cfg.LocalPlayerIndex, m.cfg.remotePlayerIndex(),
		m.cfg.LocalDelay, m.cfg.RemoteDelay, m.cfg.MaxQueueLength)

	m.shadow.round = round.New(m.cfg.remotePlayerIndex(), m.cfg.LocalPlayerIndex,
		m.cfg.RemoteDelay, m.cfg.LocalDelay, m.cfg.MaxQueueLength)

	return nil
}

// deriveRNG implements spec.md §4.3's offerer/answerer scheme: both
// peers compute both candidate rng1 states from the shared stream and
// each installs the one matching its own role; rng2 is installed
// identically on both sides.
func (m *Match) deriveRNG() (rng1, rng2 uint32) {
	offererRNG1 := rng.GenerateRNG1State(m.rng)
	answererRNG1 := rng.GenerateRNG1State(m.rng)
	rng2 = rng.GenerateRNG2State(m.rng)

	if m.cfg.IsOfferer {
		rng1 = offererRNG1
	} else {
		rng1 = answererRNG1
	}

	return rng1, rng2
}

// deriveShadowRNG mirrors deriveRNG from the shadow's point of view: the
// shadow installs the candidate belonging to the *opponent's* role. It
// draws from the shadow's own RNG stream (m.shadow.rng), not the
// primary's (m.rng): the two streams are seeded identically but advance
// independently, so a peer's own primary-derive calls never shift the
// stream position its shadow-derive calls need to stay lockstep with
// the opponent's own primary stream (spec.md §3, §8 property 5).
func (m *Match) deriveShadowRNG() (rng1, rng2 uint32) {
	offererRNG1 := rng.GenerateRNG1State(m.shadow.rng)
	answererRNG1 := rng.GenerateRNG1State(m.shadow.rng)
	rng2 = rng.GenerateRNG2State(m.shadow.rng)

	if m.cfg.IsOfferer {
		rng1 = answererRNG1
	} else {
		rng1 = offererRNG1
	}

	return rng1, rng2
}

// EndRound appends the round's result, if one was set, to lastResults
// (spec.md §4.7's Ending -> Ended transition). It leaves the Round
// itself, including its is_accepting_input flag, unchanged.
func (m *Match) EndRound() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.round == nil {
		return
	}

	if res, ok := m.round.Result(); ok {
		m.lastResults = append(m.lastResults, res)
	}
}

// LastResults returns every round result recorded so far, in order.
func (m *Match) LastResults() []battle.Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]battle.Result(nil), m.lastResults...)
}

// PushRemoteInput routes one confirmed remote Input into both the
// primary round's remote queue and the shadow round's local queue: from
// the shadow's point of view the opponent's real input is its own
// "local" contribution, since the shadow re-simulates the match from
// the opponent's seat (spec.md §3's "is_p2 inverted").
func (m *Match) PushRemoteInput(in input.Input) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.round == nil || m.shadow.round == nil {
		return nil
	}

	if err := m.round.Queue().AddRemote(in); err != nil {
		m.cancel(err)
		return err
	}

	if err := m.shadow.round.Queue().AddLocal(in.LocalTick, in.Joyflags, in.Packet); err != nil {
		m.cancel(err)
		return err
	}

	return nil
}

// pushLocalToShadow mirrors the primary's own local input into the
// shadow's remote queue, the counterpart of PushRemoteInput above.
func (m *Match) pushLocalToShadow(tick uint32, joyflags uint16, packet []byte) {
	in := input.Input{LocalTick: tick, RemoteTick: tick, Joyflags: joyflags, Packet: packet}
	if err := m.shadow.round.Queue().AddRemote(in); err != nil {
		m.cancel(err)
	}
}

// PushRemoteTurn routes a Turn message from the peer into both the
// primary round's pending remote turn and the shadow round's pending
// local turn, the Turn-message counterpart of PushRemoteInput (spec.md
// §4.6).
func (m *Match) PushRemoteTurn(commitTick uint32, buf []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.round == nil || m.shadow.round == nil {
		return
	}

	m.round.SetPendingRemoteTurn(buf, commitTick)
	m.shadow.round.SetPendingLocalTurn(buf, commitTick)
}

// pushLocalTurnToShadow mirrors the primary's own freshly marshaled Turn
// buffer into the shadow's pending remote turn, the counterpart of
// pushLocalToShadow above.
func (m *Match) pushLocalTurnToShadow(buf []byte, commitTick uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shadow.round == nil {
		return
	}

	m.shadow.round.SetPendingRemoteTurn(buf, commitTick)
}

// AdvanceShadowUntilFirstCommittedState drives the shadow core until its
// own main_read_joyflags trap commits a first state, returning that
// state so the primary can line up its own round-start timeline (spec.md
// §4.3).
func (m *Match) AdvanceShadowUntilFirstCommittedState() (emu.State, error) {
	for i := 0; i < 1<<20; i++ {
		if m.shadow.round.HasCommittedState() {
			return m.shadow.round.FirstCommittedState(), nil
		}

		if !m.shadow.core.RunUntilTrap() {
			return nil, fmt.Errorf("match: %s ran out of trace before committing a first state", emu.RoleShadow)
		}

		if err := m.shadow.round.Err(); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("match: %s exceeded step budget awaiting first committed state", emu.RoleShadow)
}

// AdvanceShadowUntilRoundEnd runs the shadow until its Round has a
// result (set by the round_end_damage_judge_set_* traps), using whatever
// remote/local inputs are already queued (spec.md §4.3).
// Never runs concurrently with the primary's own step (spec.md §5).
func (m *Match) AdvanceShadowUntilRoundEnd() error {
	for i := 0; i < 1<<20; i++ {
		if _, ok := m.shadow.round.Result(); ok {
			return nil
		}

		if !m.shadow.core.RunUntilTrap() {
			return nil
		}

		if err := m.shadow.round.Err(); err != nil {
			return err
		}
	}

	return fmt.Errorf("match: %s exceeded step budget awaiting round end", emu.RoleShadow)
}

// RunPrimary drives the primary core until the match is cancelled or ctx
// is done. It is the primary's synchronous run-loop (spec.md §5); a
// second goroutine (see Pump) feeds remote messages into the queues this
// loop's traps consume.
func (m *Match) RunPrimary(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			m.Cancel(ctx.Err())
			return ctx.Err()
		default:
		}

		if m.Cancelled() {
			return m.Err()
		}

		if !m.primaryCore.RunUntilTrap() {
			return fmt.Errorf("match: %s ran out of trace", emu.RolePrimary)
		}
	}
}

// Pump reads Transport messages for this round and routes them into the
// queues. It is the second thread spec.md §5 describes: "[the Transport]
// uses a second thread ... to receive messages and deliver them into
// Match's remote queues."
func (m *Match) Pump(ctx context.Context) error {
	for {
		msg, err := m.transport.Recv(ctx)
		if err != nil {
			m.Cancel(err)
			return err
		}

		switch msg.Kind {
		case transport.KindInput:
			p, err := transport.DecodeInputPayload(msg.Payload)
			if err != nil {
				m.Cancel(err)
				return err
			}

			in := input.Input{LocalTick: p.ForTick, RemoteTick: p.ForTick, Joyflags: p.Joyflags, Packet: p.Packet}
			if err := m.PushRemoteInput(in); err != nil {
				return err
			}

		case transport.KindCancel:
			m.Cancel(fmt.Errorf("match: peer cancelled"))
			return nil

		case transport.KindInit:
			select {
			case m.initCh <- msg.Payload:
			case <-ctx.Done():
				return ctx.Err()
			}

		case transport.KindTurn:
			p, err := transport.DecodeTurnPayload(msg.Payload)
			if err != nil {
				m.Cancel(err)
				return err
			}

			m.PushRemoteTurn(p.CommitTick, p.Buf)
		}
	}
}
