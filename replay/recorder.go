package replay

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/maxpoletaev/tango/battle"
	"github.com/maxpoletaev/tango/emu"
	"github.com/maxpoletaev/tango/input"
	"github.com/maxpoletaev/tango/internal/binario"
)

// magic tags a recorded match file so Recorder/Reader never misparse an
// unrelated file as a replay.
const magic uint32 = 0x54414e47 // "TANG"

// Header is the fixed preamble every recorded match starts with: enough
// to reconstruct the round from its first committed state without
// replaying any earlier rounds (spec.md §6).
type Header struct {
	RoundNumber      uint16
	LocalPlayerIndex uint8
	MatchType        uint8
	CommittedState   emu.State
	RNGSeed          uint64

	// OpponentName is the nickname the opponent's handshake advertised, if
	// any. Player.Play feeds it to hooks.Munger.ReplaceOpponentName so a
	// replayed match shows the same name the original round did.
	OpponentName string
}

// Trailer records the round's final outcome.
type Trailer struct {
	RoundResult battle.Result
}

// Recorder appends InputPair records to an open file as a round plays
// out. Write order is Header, then one WritePair call per committed
// tick, then WriteTrailer once the round ends; callers that abort a
// round without calling WriteTrailer produce a file a Reader will
// correctly reject as truncated.
type Recorder struct {
	w   *binario.Writer
	out io.Writer
}

// NewRecorder wraps an io.Writer (typically an os.File truncated to
// empty) and writes the header immediately.
func NewRecorder(out io.Writer, h Header) (*Recorder, error) {
	w := binario.NewWriter(out, binary.LittleEndian)

	if err := w.WriteUint32(magic); err != nil {
		return nil, fmt.Errorf("replay: write magic: %w", err)
	}

	if err := w.WriteUint16(h.RoundNumber); err != nil {
		return nil, fmt.Errorf("replay: write round number: %w", err)
	}

	if err := w.WriteUint8(h.LocalPlayerIndex); err != nil {
		return nil, fmt.Errorf("replay: write local player index: %w", err)
	}

	if err := w.WriteUint8(h.MatchType); err != nil {
		return nil, fmt.Errorf("replay: write match type: %w", err)
	}

	if err := w.WriteBlob(h.CommittedState); err != nil {
		return nil, fmt.Errorf("replay: write committed state: %w", err)
	}

	if err := w.WriteUint64(h.RNGSeed); err != nil {
		return nil, fmt.Errorf("replay: write rng seed: %w", err)
	}

	if err := w.WriteBlob([]byte(h.OpponentName)); err != nil {
		return nil, fmt.Errorf("replay: write opponent name: %w", err)
	}

	return &Recorder{w: w, out: out}, nil
}

// WritePair appends one committed InputPair record.
func (r *Recorder) WritePair(p input.Pair) error {
	return errors.Join(
		r.w.WriteUint32(p.Local.LocalTick),
		r.w.WriteUint32(p.Remote.RemoteTick),
		r.w.WriteUint16(p.Local.Joyflags),
		r.w.WriteUint16(p.Remote.Joyflags),
		r.w.WriteBlob(p.Local.Packet),
		r.w.WriteBlob(p.Remote.Packet),
	)
}

// WriteTrailer finishes the file. No further writes are valid after this.
func (r *Recorder) WriteTrailer(t Trailer) error {
	return r.w.WriteUint8(uint8(t.RoundResult))
}

// Reader parses a file written by Recorder back into a Header, the
// ordered pairs, and a Trailer.
type Reader struct {
	r *binario.Reader
}

func NewReader(in io.Reader) *Reader {
	return &Reader{r: binario.NewReader(in, binary.LittleEndian)}
}

// ReadHeader must be called exactly once, before any ReadPair call.
func (r *Reader) ReadHeader() (Header, error) {
	var h Header
	var gotMagic uint32

	if err := r.r.ReadUint32To(&gotMagic); err != nil {
		return Header{}, fmt.Errorf("replay: read magic: %w", err)
	}

	if gotMagic != magic {
		return Header{}, fmt.Errorf("replay: not a recorded match file (magic %08x)", gotMagic)
	}

	if err := r.r.ReadUint16To(&h.RoundNumber); err != nil {
		return Header{}, fmt.Errorf("replay: read round number: %w", err)
	}

	if err := r.r.ReadUint8To(&h.LocalPlayerIndex); err != nil {
		return Header{}, fmt.Errorf("replay: read local player index: %w", err)
	}

	if err := r.r.ReadUint8To(&h.MatchType); err != nil {
		return Header{}, fmt.Errorf("replay: read match type: %w", err)
	}

	state, err := r.r.ReadBlob()
	if err != nil {
		return Header{}, fmt.Errorf("replay: read committed state: %w", err)
	}

	h.CommittedState = state

	if err := r.r.ReadUint64To(&h.RNGSeed); err != nil {
		return Header{}, fmt.Errorf("replay: read rng seed: %w", err)
	}

	opponentName, err := r.r.ReadBlob()
	if err != nil {
		return Header{}, fmt.Errorf("replay: read opponent name: %w", err)
	}

	h.OpponentName = string(opponentName)

	return h, nil
}

// ReadPair reads one record. io.EOF at a record boundary signals the
// recording ended without a trailer (an aborted or truncated round); any
// other error, including io.ErrUnexpectedEOF mid-record, is a corrupt
// file.
func (r *Reader) ReadPair() (input.Pair, error) {
	var p input.Pair

	if err := r.r.ReadUint32To(&p.Local.LocalTick); err != nil {
		return input.Pair{}, err
	}

	p.Remote.LocalTick = p.Local.LocalTick

	if err := r.r.ReadUint32To(&p.Remote.RemoteTick); err != nil {
		return input.Pair{}, err
	}

	if err := r.r.ReadUint16To(&p.Local.Joyflags); err != nil {
		return input.Pair{}, err
	}

	if err := r.r.ReadUint16To(&p.Remote.Joyflags); err != nil {
		return input.Pair{}, err
	}

	local, err := r.r.ReadBlob()
	if err != nil {
		return input.Pair{}, err
	}

	p.Local.Packet = local

	remote, err := r.r.ReadBlob()
	if err != nil {
		return input.Pair{}, err
	}

	p.Remote.Packet = remote

	return p, nil
}

// ReadTrailer reads the final round result. Call once ReadPair returns
// io.EOF.
func (r *Reader) ReadTrailer() (Trailer, error) {
	var result uint8
	if err := r.r.ReadUint8To(&result); err != nil {
		return Trailer{}, fmt.Errorf("replay: read trailer: %w", err)
	}

	return Trailer{RoundResult: battle.Result(result)}, nil
}
