package input

import "testing"

func TestAddLocalRespectsMaxQueueLength(t *testing.T) {
	q := NewQueue(8)

	for i := uint32(0); i < 8; i++ {
		if err := q.AddLocal(i, 0, nil); err != nil {
			t.Fatalf("AddLocal(%d) = %v, want nil", i, err)
		}
	}

	if err := q.AddLocal(8, 0, nil); err != ErrQueueFull {
		t.Fatalf("AddLocal on full queue = %v, want ErrQueueFull", err)
	}
}

func TestAddRemoteRejectsNonMonotonic(t *testing.T) {
	q := NewQueue(8)

	if err := q.AddRemote(Input{LocalTick: 5}); err != nil {
		t.Fatalf("AddRemote(5) = %v, want nil", err)
	}

	if err := q.AddRemote(Input{LocalTick: 5}); err != ErrNonMonotonicRemote {
		t.Fatalf("AddRemote(5) again = %v, want ErrNonMonotonicRemote", err)
	}

	if err := q.AddRemote(Input{LocalTick: 4}); err != ErrNonMonotonicRemote {
		t.Fatalf("AddRemote(4) = %v, want ErrNonMonotonicRemote", err)
	}
}

func TestConsumePairRequiresBothSides(t *testing.T) {
	q := NewQueue(8)

	if _, ok := q.ConsumePair(); ok {
		t.Fatal("ConsumePair() on empty queue should return ok=false")
	}

	_ = q.AddLocal(0, 0x01, []byte("L0"))

	if _, ok := q.ConsumePair(); ok {
		t.Fatal("ConsumePair() with only local should return ok=false")
	}

	_ = q.AddRemote(Input{LocalTick: 0, Joyflags: 0x02, Packet: []byte("R0")})

	pair, ok := q.ConsumePair()
	if !ok {
		t.Fatal("ConsumePair() should succeed once both sides have an entry")
	}

	if pair.Local.Joyflags != 0x01 || pair.Remote.Joyflags != 0x02 {
		t.Fatalf("unexpected pair: %+v", pair)
	}

	if q.LocalLen() != 0 || q.RemoteLen() != 0 {
		t.Fatalf("queues should be drained after consume: local=%d remote=%d", q.LocalLen(), q.RemoteLen())
	}
}

func TestPredictRemainingDoesNotMutateQueue(t *testing.T) {
	q := NewQueue(8)

	_ = q.AddRemote(Input{LocalTick: 0, Joyflags: ButtonA | 0x10, Packet: []byte{0, 0, 0, 0}})
	_, _ = q.ConsumePair() // never happens since no local yet; exercised for completeness

	_ = q.AddLocal(1, 0x40, nil)
	_ = q.AddLocal(2, 0x80, nil)

	pairs := q.PredictRemaining(CopyLastPacket)

	if len(pairs) != 2 {
		t.Fatalf("PredictRemaining() returned %d pairs, want 2", len(pairs))
	}

	for _, p := range pairs {
		if !p.Remote.IsPrediction {
			t.Fatal("predicted remote half must have IsPrediction=true")
		}

		if p.Remote.Joyflags&^filteredMask != 0 {
			t.Fatalf("predicted joyflags %x leaked bits outside {A,B}", p.Remote.Joyflags)
		}
	}

	if q.LocalLen() != 2 {
		t.Fatalf("PredictRemaining must not consume the queue, LocalLen()=%d", q.LocalLen())
	}
}

func TestLastCommittedRemoteIgnoresPredictions(t *testing.T) {
	q := NewQueue(8)

	_ = q.AddRemote(Input{LocalTick: 0, Joyflags: 0xAA})

	last, ok := q.LastCommittedRemote()
	if !ok || last.Joyflags != 0xAA {
		t.Fatalf("LastCommittedRemote() = %+v, %v", last, ok)
	}

	_ = q.AddRemote(Input{LocalTick: 1, Joyflags: 0xBB, IsPrediction: true})

	last, ok = q.LastCommittedRemote()
	if !ok || last.Joyflags != 0xAA {
		t.Fatalf("LastCommittedRemote() after prediction = %+v, want unchanged 0xAA", last)
	}
}
