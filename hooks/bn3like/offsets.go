// Package bn3like implements a concrete hooks.Game grounded on the BN3
// hook table in original_source/tango/src/games/bn3.rs. BN3 differs from
// the bn6like family in two ways that matter to the lockstep engine: its
// predict_rx advances a 4-byte tick field embedded in the packet instead
// of replaying the last packet verbatim, and its tick counter advances on
// round_call_jump_table_ret rather than on the RX-copy trap.
package bn3like

import "github.com/maxpoletaev/tango/hooks"

// BN3 has no Turn message concept; TurnTXDelay is 0 for the whole family.
const turnTXDelay = 0

const (
	pcStartScreenJumpTableEntry        uint32 = 0x0800_2000
	pcStartScreenSRAMUnmaskRet         uint32 = 0x0800_2010
	pcGameLoadRet                      uint32 = 0x0800_2020
	pcCommMenuInitRet                  uint32 = 0x0800_2030
	pcRoundStartRet                    uint32 = 0x0800_2040
	pcMainReadJoyflags                 uint32 = 0x0800_2050
	pcRoundCallJumpTableRet            uint32 = 0x0800_2060
	pcRoundEndingRet                   uint32 = 0x0800_2070
	pcRoundEndDamageJudgeSetWin        uint32 = 0x0800_2080
	pcRoundEndDamageJudgeSetLoss       uint32 = 0x0800_2090
	pcRoundEndDamageJudgeSetDraw       uint32 = 0x0800_20A0
	pcBattleIsP2Ret              uint32 = 0x0800_20B0
	pcLinkIsP2Ret                uint32 = 0x0800_20C0
	pcCommMenuSendAndReceiveCall uint32 = 0x0800_20D0
	pcInitSioCall                uint32 = 0x0800_20E0
	pcOpponentName               uint32 = 0x0300_0500
)

const (
	memTxBuf       uint32 = 0x0200_0000
	memTxBufLen           = 0x10
	memRxBuf0      uint32 = 0x0200_1000
	memRxBuf1      uint32 = 0x0200_1010
	memRxBufLen           = 0x10
	memRNG1State   uint32 = 0x0300_0100
	memRNG2State   uint32 = 0x0300_0104
	memCurrentTick uint32 = 0x0300_0200
	memIsLinking   uint32 = 0x0300_0204
	memLocalHP     uint32 = 0x0300_0400
	memRemoteHP    uint32 = 0x0300_0402
	memMatchConfig uint32 = 0x0300_0404
)

// BN3 is the hooks.Game implementation for the BN3 ROM family.
type BN3 struct {
	id hooks.ROMID
	m  *munger
}

// New builds the BN3 module for a specific cartridge revision, e.g. the
// MEGA_EXE3_BLA3XE_00/ROCKMAN_EXE3A6BJ_01 variants bn3.rs registers.
func New(id hooks.ROMID) *BN3 {
	return &BN3{id: id, m: &munger{}}
}

func (g *BN3) ID() hooks.ROMID { return g.id }

func (g *BN3) HasRNG3() bool { return false }

func (g *BN3) TurnTXDelay() uint32 { return turnTXDelay }

func (g *BN3) Munger() hooks.Munger { return g.m }
