// Package bn6like implements a concrete hooks.Game grounded on the BN6
// hook table in original_source/core/tango-core/src/hooks/bn6.rs: the
// trap list, the rng1/rng2 derivation, and the win/loss/draw/p2 trap
// contracts all follow that file. The actual memory layout below is a
// representative placeholder — the real game's RAM offsets are not part
// of the retrieved source — but every address is named after, and used
// exactly like, its bn6.rs counterpart.
package bn6like

import "github.com/maxpoletaev/tango/hooks"

// TURN_TX_DELAY in bn6.rs is 0x100/0x4 = 0x40 frames.
const turnTXDelay = 0x100 / 0x4

// pc addresses. Named identically to bn6.rs's offsets.rom.* fields.
const (
	pcStartScreenJumpTableEntry          uint32 = 0x0800_1000
	pcStartScreenSRAMUnmaskRet           uint32 = 0x0800_1010
	pcGameLoadRet                        uint32 = 0x0800_1020
	pcCommMenuInitRet                    uint32 = 0x0800_1030
	pcRoundInitCallBattleCopyInputData   uint32 = 0x0800_1040
	pcRoundInitTxBufCopyRet              uint32 = 0x0800_1050
	pcRoundTurnTxBufCopyRet              uint32 = 0x0800_1060
	pcRoundStartRet                      uint32 = 0x0800_1070
	pcMainReadJoyflags                   uint32 = 0x0800_1080
	pcRoundUpdateCallBattleCopyInputData uint32 = 0x0800_1090
	pcRoundRunUnpausedStepCmpRetval      uint32 = 0x0800_10A0
	pcRoundEndingRet                     uint32 = 0x0800_10B0
	pcRoundEndDamageJudgeSetWin          uint32 = 0x0800_10C0
	pcRoundEndDamageJudgeSetLoss         uint32 = 0x0800_10D0
	pcRoundEndDamageJudgeSetDraw         uint32 = 0x0800_10E0
	pcBattleIsP2Tst                      uint32 = 0x0800_10F0
	pcLinkIsP2Ret                        uint32 = 0x0800_1100
	pcHandleSioEntry                     uint32 = 0x0800_1110
	pcMatchEndRet                        uint32 = 0x0800_1120
	pcOpponentName                       uint32 = 0x0300_0000
)

// memory layout consumed by the Munger.
const (
	memTxBuf          uint32 = 0x0200_0000
	memTxBufLen              = 0x40
	memRxBuf0         uint32 = 0x0200_1000
	memRxBuf1         uint32 = 0x0200_1100
	memRxBufLen              = 0x40
	memTurnTxBuf      uint32 = 0x0200_2000
	memTurnTxBufLen          = 0x100
	memTurnRxBuf0     uint32 = 0x0200_3000
	memTurnRxBuf1     uint32 = 0x0200_3100
	memTurnRxBufLen          = 0x100
	memRNG1State      uint32 = 0x0300_0100
	memRNG2State      uint32 = 0x0300_0104
	memRNG3State      uint32 = 0x0300_0108
	memCurrentTick    uint32 = 0x0300_0200
	memIsLinking      uint32 = 0x0300_0204
	memScreenState0   uint32 = 0x0300_0300
	memScreenState1   uint32 = 0x0300_0301
	memLocalHP        uint32 = 0x0300_0400
	memRemoteHP       uint32 = 0x0300_0402
)

// BN6 is the hooks.Game implementation for the BN6 ROM family. Construct
// one per supported (code, revision) via New and Register it.
type BN6 struct {
	id hooks.ROMID
	m  *munger
}

// New builds the BN6 module for a specific cartridge revision, e.g. the
// "MEGAMAN6_FXX"/"ROCKEXE6_GXX" variants bn6.rs registers.
func New(id hooks.ROMID) *BN6 {
	return &BN6{id: id, m: &munger{}}
}

func (g *BN6) ID() hooks.ROMID { return g.id }

func (g *BN6) HasRNG3() bool { return false }

func (g *BN6) TurnTXDelay() uint32 { return turnTXDelay }

func (g *BN6) Munger() hooks.Munger { return g.m }
