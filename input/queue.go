package input

import (
	"errors"

	"github.com/maxpoletaev/tango/internal/ringbuf"
)

// ErrQueueFull is returned by AddLocal when the local queue has reached
// max_queue_length (spec.md §7, the QueueFull error kind).
var ErrQueueFull = errors.New("input: queue full")

// ErrNonMonotonicRemote is returned by AddRemote when the given tick is not
// strictly greater than the last appended remote tick — a TickMismatch per
// spec.md §7.
var ErrNonMonotonicRemote = errors.New("input: remote tick is not strictly increasing")

// PredictRX advances a previously observed remote packet into a prediction
// for the next tick. The default rule is "copy the last observed packet
// unchanged"; specific games (e.g. BN3) override this to increment a tick
// field embedded in the packet (see hooks/bn3like).
type PredictRX func(packet []byte) []byte

// CopyLastPacket is the default PredictRX rule.
func CopyLastPacket(packet []byte) []byte {
	out := make([]byte, len(packet))
	copy(out, packet)
	return out
}

// Queue is the bounded pair of per-side FIFOs described in spec.md §4.1.
type Queue struct {
	local  *ringbuf.Buffer[Input]
	remote *ringbuf.Buffer[Input]

	maxLen int

	lastRemoteTick     uint32
	haveLastRemoteTick bool

	lastCommittedRemote     Input
	haveLastCommittedRemote bool
}

// NewQueue creates a queue bounding the local side at maxQueueLength
// entries (spec.md §6: "max_queue_length >= input_delay+2").
func NewQueue(maxQueueLength int) *Queue {
	return &Queue{
		local:  ringbuf.New[Input](maxQueueLength),
		remote: ringbuf.New[Input](maxQueueLength),
		maxLen: maxQueueLength,
	}
}

// AddLocal appends a local input tagged with tick. Fails with ErrQueueFull
// once the local queue is at capacity.
func (q *Queue) AddLocal(tick uint32, joyflags uint16, packet []byte) error {
	if q.local.Len() >= q.maxLen {
		return ErrQueueFull
	}

	q.local.PushBack(Input{
		LocalTick: tick,
		Joyflags:  joyflags,
		Packet:    packet,
	})

	return nil
}

// AddRemote appends a remote input. Fails if in.LocalTick does not strictly
// increase over the last appended remote tick (protocol error: duplicate
// or out-of-order for_tick, spec.md §4.6).
func (q *Queue) AddRemote(in Input) error {
	if q.haveLastRemoteTick && in.LocalTick <= q.lastRemoteTick {
		return ErrNonMonotonicRemote
	}

	q.remote.PushBack(in)
	q.lastRemoteTick = in.LocalTick
	q.haveLastRemoteTick = true

	if !in.IsPrediction {
		q.lastCommittedRemote = in
		q.haveLastCommittedRemote = true
	}

	return nil
}

// LocalLen and RemoteLen expose the current FIFO depths, mainly for
// Fastforwarder bookkeeping (local_inputs_left).
func (q *Queue) LocalLen() int  { return q.local.Len() }
func (q *Queue) RemoteLen() int { return q.remote.Len() }

// PeekLocal returns the i-th unconsumed local input without removing it.
func (q *Queue) PeekLocal(i int) Input { return q.local.At(i) }

// ConsumePair pops one entry from each side iff both are non-empty,
// returning them as a committed pair. Returns ok=false otherwise.
func (q *Queue) ConsumePair() (Pair, bool) {
	if q.local.Len() == 0 || q.remote.Len() == 0 {
		return Pair{}, false
	}

	local := q.local.Front()
	remote := q.remote.Front()

	q.local.TruncFront(1)
	q.remote.TruncFront(1)

	return Pair{Local: local, Remote: remote}, true
}

// PredictRemaining synthesizes a prediction pair for every local input
// still sitting in the queue with no matching remote counterpart yet
// (local_inputs_left in spec.md §4.5). It does not remove anything from
// the queue — these locals stay queued until a real remote input arrives
// for their tick and ConsumePair can commit them for real. The remote
// half reuses the last committed remote joyflags filtered to {A,B}, and
// predictRX is applied cumulatively across the run so that per-game rules
// that mutate a counter embedded in the packet (e.g. BN3) advance once
// per predicted tick, not once total.
func (q *Queue) PredictRemaining(predictRX PredictRX) []Pair {
	n := q.local.Len()
	if n == 0 {
		return nil
	}

	pairs := make([]Pair, 0, n)
	predicted := q.lastCommittedRemote.Packet

	for i := 0; i < n; i++ {
		local := q.local.At(i)
		predicted = predictRX(predicted)

		remote := Input{
			LocalTick:    local.LocalTick,
			RemoteTick:   local.RemoteTick,
			Joyflags:     q.lastCommittedRemote.Joyflags & filteredMask,
			Packet:       predicted,
			IsPrediction: true,
		}

		pairs = append(pairs, Pair{Local: local, Remote: remote})
	}

	return pairs
}

// LastCommittedRemote returns the most recent non-prediction remote input,
// used as the prediction template and as the Fastforwarder's
// last_committed_remote_input.
func (q *Queue) LastCommittedRemote() (Input, bool) {
	return q.lastCommittedRemote, q.haveLastCommittedRemote
}
