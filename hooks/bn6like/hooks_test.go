package bn6like

import (
	"encoding/binary"
	"testing"

	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu/fakecore"
	"github.com/maxpoletaev/tango/hooks"
)

func TestPredictRXCopiesLastPacketUnchanged(t *testing.T) {
	g := New(hooks.ROMID{Code: [4]byte{'B', 'N', '6', 'J'}})

	packet := []byte{1, 2, 3, 4}
	predicted := g.PredictRX(packet)

	if predicted[0] != 1 || predicted[3] != 4 {
		t.Fatalf("PredictRX = %v, want a copy of %v", predicted, packet)
	}

	predicted[0] = 0xFF
	if packet[0] != 1 {
		t.Fatalf("PredictRX result aliases its input")
	}
}

func TestResolveDrawComparesRemainingHP(t *testing.T) {
	g := New(hooks.ROMID{Code: [4]byte{'B', 'N', '6', 'J'}})
	c := fakecore.New(nil)

	setHP := func(local, remote uint16) {
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], local)
		c.WriteMemory(memLocalHP, buf[:])
		binary.LittleEndian.PutUint16(buf[:], remote)
		c.WriteMemory(memRemoteHP, buf[:])
	}

	setHP(10, 5)
	if got := g.ResolveDraw(c); got != battle.Win {
		t.Fatalf("ResolveDraw with more local HP = %v, want Win", got)
	}

	setHP(5, 10)
	if got := g.ResolveDraw(c); got != battle.Loss {
		t.Fatalf("ResolveDraw with less local HP = %v, want Loss", got)
	}

	setHP(7, 7)
	if got := g.ResolveDraw(c); got != battle.Draw {
		t.Fatalf("ResolveDraw with equal HP = %v, want Draw", got)
	}
}
