package bn3like

import (
	"encoding/binary"
	"testing"

	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu/fakecore"
	"github.com/maxpoletaev/tango/hooks"
)

func TestPredictRXIncrementsEmbeddedTick(t *testing.T) {
	g := New(hooks.ROMID{Code: [4]byte{'B', 'N', '3', 'J'}})

	packet := make([]byte, 16)
	binary.LittleEndian.PutUint32(packet[4:8], 41)

	predicted := g.PredictRX(packet)

	if got := binary.LittleEndian.Uint32(predicted[4:8]); got != 42 {
		t.Fatalf("predicted tick = %d, want 42", got)
	}

	if got := binary.LittleEndian.Uint32(packet[4:8]); got != 41 {
		t.Fatalf("PredictRX mutated its input, tick = %d", got)
	}
}

func TestResolveDrawComparesRemainingHP(t *testing.T) {
	g := New(hooks.ROMID{Code: [4]byte{'B', 'N', '3', 'J'}})
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
