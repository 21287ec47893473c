package bn3like

import (
	"log"

	"github.com/maxpoletaev/tango/emu"
	"github.com/maxpoletaev/tango/hooks"
)

// commonTraps covers the menu-navigation hooks shared by all three roles,
// identical in shape to bn6like's (bn3.rs's common_traps installs the
// same three closures).
func (g *BN3) commonTraps() map[uint32]emu.Trap {
	return map[uint32]emu.Trap{
		pcStartScreenJumpTableEntry: func(c emu.Core) { g.m.SkipLogo(c) },
		pcStartScreenSRAMUnmaskRet:  func(c emu.Core) { g.m.ContinueFromTitleMenu(c) },
		pcGameLoadRet:               func(c emu.Core) { g.m.OpenCommMenuFromOverworld(c) },
	}
}

// skipSendAndReceiveCall advances past BN3's link-cable send/receive
// call, bn3.rs's make_send_and_receive_call_hook idiom: bump the thumb
// pc by 4 rather than writing pc = lr + 4, since these traps sit inline
// in the call rather than at its return address.
func skipSendAndReceiveCall(c emu.Core) {
	c.SetPC(c.PC() + 4)
}

func (g *BN3) PrimaryTraps(ctx hooks.PrimaryContext) map[uint32]emu.Trap {
	traps := g.commonTraps()

	traps[pcCommMenuInitRet] = func(c emu.Core) {
		g.m.StartBattleFromCommMenu(c, ctx.MatchType())
		rng1, rng2 := ctx.DeriveRoundRNG()
		g.m.SetRNG1State(c, rng1)
		g.m.SetRNG2State(c, rng2)
	}

	traps[pcRoundStartRet] = func(c emu.Core) {}

	traps[pcMainReadJoyflags] = func(c emu.Core) {
		if !g.m.IsLinking(c) {
			return
		}

		currentTick := g.m.CurrentTick(c)

		if !ctx.HasCommittedState() {
			ctx.OnFirstCommittedState(currentTick)
			log.Printf("[DEBUG] bn3like: primary rng1=%08x rng2=%08x", g.m.RNG1State(c), g.m.RNG2State(c))
		}

		screenState := g.m.LocalCustomScreenState(c)
		joyflags := ctx.CurrentJoyflags()

		state, ok := ctx.OnLocalJoyflags(currentTick, joyflags, screenState)
		if !ok {
			ctx.Abort(nil)
			return
		}

		if state != nil {
			if err := c.LoadState(state); err != nil {
				ctx.Abort(err)
			}
		}
	}

	// BN3's tick increments on the round jump table's return, not on the
	// RX-copy trap (bn3.rs's round_call_jump_table_ret), so input is
	// injected a step earlier than in bn6like.
	traps[pcRoundCallJumpTableRet] = func(c emu.Core) {
		if !ctx.HasCommittedState() {
			return
		}

		ip, ok := ctx.TakeNextInputPair()
		if !ok {
			return
		}

		g.m.SetRXPacket(c, ctx.LocalPlayerIndex(), ip.Local.Packet)
		g.m.SetRXPacket(c, ctx.RemotePlayerIndex(), ip.Remote.Packet)
	}

	traps[pcBattleIsP2Ret] = func(c emu.Core) { c.SetGPR(0, uint32(ctx.LocalPlayerIndex())) }
	traps[pcLinkIsP2Ret] = func(c emu.Core) { c.SetGPR(0, uint32(ctx.LocalPlayerIndex())) }

	traps[pcRoundEndDamageJudgeSetWin] = func(c emu.Core) { ctx.SetRoundResult(winResult) }
	traps[pcRoundEndDamageJudgeSetLoss] = func(c emu.Core) { ctx.SetRoundResult(lossResult) }
	traps[pcRoundEndDamageJudgeSetDraw] = func(c emu.Core) { ctx.SetRoundResult(g.ResolveDraw(c)) }

	traps[pcRoundEndingRet] = func(c emu.Core) { ctx.EndRound() }

	traps[pcCommMenuSendAndReceiveCall] = skipSendAndReceiveCall
	traps[pcInitSioCall] = skipSendAndReceiveCall

	return traps
}

func (g *BN3) ShadowTraps(ctx hooks.ShadowContext) map[uint32]emu.Trap {
	traps := g.commonTraps()

	traps[pcCommMenuInitRet] = func(c emu.Core) {
		g.m.StartBattleFromCommMenu(c, ctx.MatchType())
		rng1, rng2 := ctx.DeriveRoundRNG()
		g.m.SetRNG1State(c, rng1)
		g.m.SetRNG2State(c, rng2)
	}

	traps[pcRoundStartRet] = func(c emu.Core) {}

	traps[pcMainReadJoyflags] = func(c emu.Core) {
		if !g.m.IsLinking(c) {
			return
		}

		currentTick := g.m.CurrentTick(c)

		if !ctx.HasCommittedState() {
			ctx.OnFirstCommittedState(currentTick)
			log.Printf("[DEBUG] bn3like: shadow rng1=%08x rng2=%08x", g.m.RNG1State(c), g.m.RNG2State(c))
		}
	}

	traps[pcRoundCallJumpTableRet] = func(c emu.Core) {
		if !ctx.HasCommittedState() {
			return
		}

		ip, ok := ctx.TakeNextInputPair()
		if !ok {
			return
		}

		g.m.SetRXPacket(c, ctx.LocalPlayerIndex(), ip.Local.Packet)
		g.m.SetRXPacket(c, ctx.RemotePlayerIndex(), ip.Remote.Packet)
	}

	traps[pcBattleIsP2Ret] = func(c emu.Core) { c.SetGPR(0, uint32(ctx.RemotePlayerIndex())) }
	traps[pcLinkIsP2Ret] = func(c emu.Core) { c.SetGPR(0, uint32(ctx.RemotePlayerIndex())) }

	traps[pcRoundEndDamageJudgeSetWin] = func(c emu.Core) { ctx.SetRoundResult(winResult.Invert()) }
	traps[pcRoundEndDamageJudgeSetLoss] = func(c emu.Core) { ctx.SetRoundResult(lossResult.Invert()) }
	traps[pcRoundEndDamageJudgeSetDraw] = func(c emu.Core) { ctx.SetRoundResult(g.ResolveDraw(c)) }

	traps[pcRoundEndingRet] = func(c emu.Core) { ctx.EndRound() }

	traps[pcCommMenuSendAndReceiveCall] = skipSendAndReceiveCall
	traps[pcInitSioCall] = skipSendAndReceiveCall

	return traps
}

func (g *BN3) ReplayerTraps(ctx hooks.ReplayerContext) map[uint32]emu.Trap {
	traps := g.commonTraps()

	traps[pcMainReadJoyflags] = func(c emu.Core) {
		tick := ctx.CurrentTick()
		g.m.SetCurrentTick(c, tick)

		if tick == ctx.CommitTick() {
			state, err := c.SaveState()
			if err != nil {
				ctx.SetError(err)
				return
			}

			ctx.SetCommittedState(state)
		}

		if tick == ctx.DirtyTick() {
			state, err := c.SaveState()
			if err != nil {
				ctx.SetError(err)
				return
			}

			ctx.SetDirtyState(state)
		}
	}

	traps[pcRoundCallJumpTableRet] = func(c emu.Core) {
		ip, ok := ctx.PopInputPair()
		if !ok {
			return
		}

		g.m.SetRXPacket(c, ctx.LocalPlayerIndex(), ip.Local.Packet)
		g.m.SetRXPacket(c, ctx.RemotePlayerIndex(), ip.Remote.Packet)
		ctx.IncrementTick()
	}

	traps[pcBattleIsP2Ret] = func(c emu.Core) { c.SetGPR(0, uint32(ctx.LocalPlayerIndex())) }
	traps[pcLinkIsP2Ret] = func(c emu.Core) { c.SetGPR(0, uint32(ctx.LocalPlayerIndex())) }

	traps[pcRoundEndDamageJudgeSetWin] = func(c emu.Core) { ctx.SetRoundResult(winResult) }
	traps[pcRoundEndDamageJudgeSetLoss] = func(c emu.Core) { ctx.SetRoundResult(lossResult) }
	traps[pcRoundEndDamageJudgeSetDraw] = func(c emu.Core) { ctx.SetRoundResult(g.ResolveDraw(c)) }

	traps[pcRoundEndingRet] = func(c emu.Core) { ctx.SetRoundEndTick(ctx.CurrentTick()) }

	traps[pcCommMenuSendAndReceiveCall] = skipSendAndReceiveCall
	traps[pcInitSioCall] = skipSendAndReceiveCall

	return traps
}
