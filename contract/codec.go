package contract

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"fogchess/sdk"
)

// ---------- Binary State Codec (v1) ----------

// codecVersion increments when the stored encoding changes.
const codecVersion uint8 = 1

// traceSize is the fixed ciphertext length of every MoveEvent.State.
const traceSize = tracePlaintextSize + traceOverhead

// MaxFieldLength bounds every length-prefixed field, addresses included.
const MaxFieldLength = math.MaxUint16

var errDecodeOverflow = errors.New("decode overflow")

// wr accumulates big-endian fields. Like rd, the first failure sticks.
type wr struct {
	out []byte
	err error
}

func (w *wr) u8(x byte) { w.out = append(w.out, x) }

func (w *wr) u16(x uint16) {
	w.out = binary.BigEndian.AppendUint16(w.out, x)
}

func (w *wr) u32(x uint32) {
	w.out = binary.BigEndian.AppendUint32(w.out, x)
}

func (w *wr) u64(x uint64) {
	w.out = binary.BigEndian.AppendUint64(w.out, x)
}

func (w *wr) raw(b []byte) { w.out = append(w.out, b...) }

// bytes16 writes a u16 length followed by the bytes.
func (w *wr) bytes16(b []byte) {
	if len(b) > MaxFieldLength {
		if w.err == nil {
			w.err = fmt.Errorf("field of %d bytes exceeds %d", len(b), MaxFieldLength)
		}
		return
	}
	w.u16(uint16(len(b)))
	w.out = append(w.out, b...)
}

func (w *wr) flag(b bool) {
	if b {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

// rd is a big-endian reader over a byte slice. The first overflow sticks:
// later reads return zero values and err reports the failure.
type rd struct {
	b   []byte
	i   int
	err error
}

func (r *rd) need(n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || r.i+n > len(r.b) {
		r.err = errDecodeOverflow
		return false
	}
	return true
}

func (r *rd) u8() byte {
	if !r.need(1) {
		return 0
	}
	v := r.b[r.i]
	r.i++
	return v
}

func (r *rd) u16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.b[r.i : r.i+2])
	r.i += 2
	return v
}

func (r *rd) u32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.b[r.i : r.i+4])
	r.i += 4
	return v
}

func (r *rd) u64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.BigEndian.Uint64(r.b[r.i : r.i+8])
	r.i += 8
	return v
}

// bytes returns a copy of the next n bytes.
func (r *rd) bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}
	v := append([]byte(nil), r.b[r.i:r.i+n]...)
	r.i += n
	return v
}

func (r *rd) fixed(dst []byte) {
	if !r.need(len(dst)) {
		return
	}
	copy(dst, r.b[r.i:r.i+len(dst)])
	r.i += len(dst)
}

func (r *rd) bytes16() []byte {
	return r.bytes(int(r.u16()))
}

func (r *rd) flag() bool {
	v := r.u8()
	if v > 1 && r.err == nil {
		r.err = fmt.Errorf("invalid flag byte %d", v)
	}
	return v == 1
}

// done reports the sticky error, or trailing bytes.
func (r *rd) done() error {
	if r.err != nil {
		return r.err
	}
	if r.i != len(r.b) {
		return fmt.Errorf("%d trailing bytes", len(r.b)-r.i)
	}
	return nil
}

// ---------- GameState ----------

// EncodeGameState returns the canonical encoding of gs. Two states are the
// same version exactly when their encodings are equal.
//
// Layout:
//
//	version | ID | Status | Turn | Outcome | Winner | Ply | 2 x Slot | Password | Invite? | 2 x Player | TraceRoot | LastTrace
//
// Slot is flag | EncryptHash | MaskHash | Visibility. Players and LastTrace
// longer than MaxFieldLength cannot be encoded.
func EncodeGameState(gs GameState) ([]byte, error) {
	w := &wr{out: make([]byte, 0, 320+len(gs.LastTrace))}
	w.u8(codecVersion)
	w.u64(gs.ID)
	w.u8(byte(gs.Status))
	w.u8(byte(gs.Turn))
	w.u8(byte(gs.Outcome))
	w.u8(byte(gs.Winner))
	w.u32(gs.Ply)
	for _, s := range gs.Slots {
		w.flag(s.Committed)
		w.raw(s.Commitment.EncryptHash[:])
		w.raw(s.Commitment.MaskHash[:])
		w.raw(s.Visibility[:])
	}
	w.flag(gs.Password.Committed)
	w.raw(gs.Password.Hash[:])
	w.flag(gs.Invite != nil)
	if gs.Invite != nil {
		w.raw(gs.Invite.EncryptHash[:])
		w.raw(gs.Invite.MaskHash[:])
	}
	for _, p := range gs.Players {
		w.bytes16([]byte(p))
	}
	w.raw(gs.TraceRoot[:])
	w.bytes16(gs.LastTrace)
	if w.err != nil {
		return nil, NewInvalidArgumentErrorf("could not encode game %d: %w", gs.ID, w.err)
	}
	return w.out, nil
}

// DecodeGameState parses the output of EncodeGameState.
func DecodeGameState(b []byte) (GameState, error) {
	r := &rd{b: b}
	if v := r.u8(); r.err == nil && v != codecVersion {
		return GameState{}, NewInvalidArgumentErrorf("unsupported game state version %d", v)
	}
	var gs GameState
	gs.ID = r.u64()
	gs.Status = GameStatus(r.u8())
	gs.Turn = Color(r.u8())
	gs.Outcome = Outcome(r.u8())
	gs.Winner = Color(r.u8())
	gs.Ply = r.u32()
	for i := range gs.Slots {
		gs.Slots[i].Committed = r.flag()
		r.fixed(gs.Slots[i].Commitment.EncryptHash[:])
		r.fixed(gs.Slots[i].Commitment.MaskHash[:])
		r.fixed(gs.Slots[i].Visibility[:])
	}
	gs.Password.Committed = r.flag()
	r.fixed(gs.Password.Hash[:])
	if r.flag() {
		inv := &Commitment{}
		r.fixed(inv.EncryptHash[:])
		r.fixed(inv.MaskHash[:])
		gs.Invite = inv
	}
	for i := range gs.Players {
		gs.Players[i] = sdk.Address(r.bytes16())
	}
	r.fixed(gs.TraceRoot[:])
	if trace := r.bytes16(); len(trace) > 0 {
		gs.LastTrace = trace
	}
	if err := r.done(); err != nil {
		return GameState{}, NewInvalidArgumentErrorf("could not decode game state: %w", err)
	}
	if gs.Status > StatusFinished || !gs.Turn.Valid() || !gs.Winner.Valid() || gs.Outcome > OutcomeTimedOut {
		return GameState{}, NewInvalidArgumentErrorf("could not decode game state: field out of range")
	}
	return gs, nil
}

// ---------- MoveEvent ----------

// EncodeMoveEvent lays out version | GameID | Ply | Color | State.
func EncodeMoveEvent(ev MoveEvent) ([]byte, error) {
	w := &wr{out: make([]byte, 0, 16+len(ev.State))}
	w.u8(codecVersion)
	w.u64(ev.GameID)
	w.u32(ev.Ply)
	w.u8(byte(ev.Color))
	w.bytes16(ev.State)
	if w.err != nil {
		return nil, NewInvalidEventErrorf("could not encode ply %d: %w", ev.Ply, w.err)
	}
	return w.out, nil
}

// DecodeMoveEvent parses a MoveEvent payload as emitted on the ledger.
func DecodeMoveEvent(b []byte) (MoveEvent, error) {
	r := &rd{b: b}
	if v := r.u8(); r.err == nil && v != codecVersion {
		return MoveEvent{}, NewInvalidEventErrorf("unsupported version %d", v)
	}
	var ev MoveEvent
	ev.GameID = r.u64()
	ev.Ply = r.u32()
	ev.Color = Color(r.u8())
	ev.State = r.bytes16()
	if err := r.done(); err != nil {
		return MoveEvent{}, NewInvalidEventErrorf("could not decode: %w", err)
	}
	if !ev.Color.Valid() {
		return MoveEvent{}, NewInvalidEventErrorf("invalid color %d", ev.Color)
	}
	return ev, nil
}
