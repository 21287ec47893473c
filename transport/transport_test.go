package transport

import (
	"bufio"
	"bytes"
	"testing"
)

func TestInputPayloadRoundTrip(t *testing.T) {
	want := InputPayload{ForTick: 42, Joyflags: 0x81, Packet: []byte{1, 2, 3, 4}}

	got, err := DecodeInputPayload(EncodeInputPayload(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.ForTick != want.ForTick || got.Joyflags != want.Joyflags || !bytes.Equal(got.Packet, want.Packet) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestTurnPayloadRoundTrip(t *testing.T) {
	want := TurnPayload{CommitTick: 99, Buf: []byte{0xaa, 0xbb}}

	got, err := DecodeTurnPayload(EncodeTurnPayload(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.CommitTick != want.CommitTick || !bytes.Equal(got.Buf, want.Buf) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	want := Message{Kind: KindInput, RoundNumber: 3, Payload: EncodeInputPayload(InputPayload{ForTick: 7})}

	if err := writeFrame(w, want); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}

	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got, err := readFrame(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}

	if got.Kind != want.Kind || got.RoundNumber != want.RoundNumber || !bytes.Equal(got.Payload, want.Payload) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
