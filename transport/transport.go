// Package transport implements the ordered, reliable, length-prefixed
// channel the two peers use to exchange Init/Input/Turn/Cancel messages
// (spec.md §4.6, §6). It follows the teacher's netplay package shape — a
// net.Conn wrapped by a reader goroutine and a writer goroutine talking
// through channels — generalized from two message kinds to four and
// from a fixed frame to the length-prefixed one spec.md §6 specifies.
package transport

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/time/rate"

	"github.com/maxpoletaev/tango/internal/binario"
)

// Kind identifies a frame's payload shape.
type Kind uint8

const (
	KindInit   Kind = 1
	KindInput  Kind = 2
	KindTurn   Kind = 3
	KindCancel Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindInput:
		return "input"
	case KindTurn:
		return "turn"
	case KindCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Message is one decoded frame. Payload is the kind-specific body,
// already split out of the length-prefixed wire encoding; InputPayload
// and TurnPayload further decode it.
type Message struct {
	Kind        Kind
	RoundNumber uint16
	Payload     []byte
}

// InputPayload is the body of a Kind==KindInput message.
type InputPayload struct {
	ForTick  uint32
	Joyflags uint16
	Packet   []byte
}

// EncodeInputPayload serializes an InputPayload to bytes.
func EncodeInputPayload(p InputPayload) []byte {
	buf := make([]byte, 0, 4+2+4+len(p.Packet))
	buf = binary.LittleEndian.AppendUint32(buf, p.ForTick)
	buf = binary.LittleEndian.AppendUint16(buf, p.Joyflags)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.Packet)))
	buf = append(buf, p.Packet...)
	return buf
}

// DecodeInputPayload parses bytes written by EncodeInputPayload.
func DecodeInputPayload(b []byte) (InputPayload, error) {
	if len(b) < 10 {
		return InputPayload{}, fmt.Errorf("transport: input payload too short (%d bytes)", len(b))
	}

	p := InputPayload{
		ForTick:  binary.LittleEndian.Uint32(b[0:4]),
		Joyflags: binary.LittleEndian.Uint16(b[4:6]),
	}

	n := binary.LittleEndian.Uint32(b[6:10])
	if len(b[10:]) < int(n) {
		return InputPayload{}, fmt.Errorf("transport: input payload packet truncated")
	}

	p.Packet = b[10 : 10+n]

	return p, nil
}

// TurnPayload is the body of a Kind==KindTurn message.
type TurnPayload struct {
	CommitTick uint32
	Buf        []byte
}

func EncodeTurnPayload(p TurnPayload) []byte {
	buf := make([]byte, 0, 4+4+len(p.Buf))
	buf = binary.LittleEndian.AppendUint32(buf, p.CommitTick)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.Buf)))
	buf = append(buf, p.Buf...)
	return buf
}

func DecodeTurnPayload(b []byte) (TurnPayload, error) {
	if len(b) < 8 {
		return TurnPayload{}, fmt.Errorf("transport: turn payload too short (%d bytes)", len(b))
	}

	p := TurnPayload{CommitTick: binary.LittleEndian.Uint32(b[0:4])}

	n := binary.LittleEndian.Uint32(b[4:8])
	if len(b[8:]) < int(n) {
		return TurnPayload{}, fmt.Errorf("transport: turn payload buf truncated")
	}

	p.Buf = b[8 : 8+n]

	return p, nil
}

// ErrClosed is returned by Send* and Recv once the Transport has been
// closed, matching spec.md §7's TransportClosed error kind.
var ErrClosed = errors.New("transport: closed")

// ErrSendQueueFull is the terminal error spec.md §5 describes: "on
// full-queue the send is dropped and the match is cancelled."
var ErrSendQueueFull = errors.New("transport: send queue full")

// Transport wraps a single net.Conn with a reader goroutine feeding a
// bounded recv channel and a writer goroutine draining a bounded send
// channel. The writer is paced by a token-bucket limiter so a single
// round's burst of Inputs can never starve the peer's reader — separate
// from, and in addition to, the bounded-queue drop policy.
type Transport struct {
	conn net.Conn

	toSend  chan Message
	toRecv  chan Message
	recvErr chan error

	limiter *rate.Limiter

	closed chan struct{}
}

// New wraps conn. sendQueueLen bounds how many outbound messages may be
// buffered before Send returns ErrSendQueueFull; ratePerSecond bounds how
// fast the writer goroutine drains that queue onto the wire.
func New(conn net.Conn, sendQueueLen int, ratePerSecond float64) *Transport {
	t := &Transport{
		conn:    conn,
		toSend:  make(chan Message, sendQueueLen),
		toRecv:  make(chan Message, sendQueueLen),
		recvErr: make(chan error, 1),
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), sendQueueLen),
		closed:  make(chan struct{}),
	}

	return t
}

// Start launches the reader and writer goroutines. ctx governs the rate
// limiter's Wait calls in the writer loop; cancelling it stops writes
// promptly even if the peer stopped reading.
func (t *Transport) Start(ctx context.Context) {
	go t.readLoop()
	go t.writeLoop(ctx)
}

func (t *Transport) readLoop() {
	r := bufio.NewReader(t.conn)

	for {
		msg, err := readFrame(r)
		if err != nil {
			select {
			case t.recvErr <- err:
			default:
			}

			return
		}

		select {
		case t.toRecv <- msg:
		case <-t.closed:
			return
		}
	}
}

func (t *Transport) writeLoop(ctx context.Context) {
	w := bufio.NewWriter(t.conn)

	for {
		select {
		case <-t.closed:
			return
		case msg := <-t.toSend:
			if err := t.limiter.Wait(ctx); err != nil {
				return
			}

			if err := writeFrame(w, msg); err != nil {
				select {
				case t.recvErr <- err:
				default:
				}

				return
			}

			if err := w.Flush(); err != nil {
				select {
				case t.recvErr <- err:
				default:
				}

				return
			}
		}
	}
}

// Send enqueues a message for the writer goroutine. It never blocks: a
// full queue returns ErrSendQueueFull immediately, which the caller (the
// Match) treats as terminal (spec.md §5).
func (t *Transport) Send(msg Message) error {
	select {
	case <-t.closed:
		return ErrClosed
	default:
	}

	select {
	case t.toSend <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Recv blocks until a message arrives, the connection errors, ctx is
// cancelled, or the Transport is closed.
func (t *Transport) Recv(ctx context.Context) (Message, error) {
	select {
	case msg := <-t.toRecv:
		return msg, nil
	case err := <-t.recvErr:
		return Message{}, fmt.Errorf("transport: %w", err)
	case <-t.closed:
		return Message{}, ErrClosed
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Close is idempotent, matching the Match's cancellation contract
// (spec.md §5).
func (t *Transport) Close() error {
	select {
	case <-t.closed:
		return nil
	default:
		close(t.closed)
		return t.conn.Close()
	}
}

func readFrame(r *bufio.Reader) (Message, error) {
	br := binario.NewReader(r, binary.LittleEndian)

	var kind uint8
	if err := br.ReadUint8To(&kind); err != nil {
		return Message{}, err
	}

	var roundNumber uint16
	if err := br.ReadUint16To(&roundNumber); err != nil {
		return Message{}, err
	}

	payload, err := br.ReadBlob()
	if err != nil {
		return Message{}, err
	}

	return Message{Kind: Kind(kind), RoundNumber: roundNumber, Payload: payload}, nil
}

func writeFrame(w *bufio.Writer, msg Message) error {
	bw := binario.NewWriter(w, binary.LittleEndian)

	return errors.Join(
		bw.WriteUint8(uint8(msg.Kind)),
		bw.WriteUint16(msg.RoundNumber),
		bw.WriteBlob(msg.Payload),
	)
}

// DialTimeout bounds how long match's ExchangeInit waits for the peer's
// Init reply; cmd/tangoserve dials and accepts without a timeout.
const DialTimeout = 10 * time.Second
