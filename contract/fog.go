package contract

import (
	"encoding/binary"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

//
// Encrypted move traces.
//
// A trace carries a move from its mover to the opponent and nobody else.
// Both sides derive the same channel key by X25519 between their own mask
// secret and the other side's visibility key, so only the two mask secrets
// of a game can open its traces.
//

const (
	domainChannel = "fogchess/v1/channel"
	domainNonce   = "fogchess/v1/trace-nonce"

	// fromRow | fromCol | toRow | toCol | kind | report
	tracePlaintextSize = 6
	traceOverhead      = chacha20poly1305.Overhead
)

// tracePayload is the plaintext of a trace. Every trace has the same size
// regardless of content.
type tracePayload struct {
	Move   Move
	Kind   PieceKind // kind of the moving piece
	Report PieceKind // own piece the mover lost on the previous ply
}

func (p tracePayload) encode() []byte {
	return []byte{
		p.Move.FromRow, p.Move.FromCol, p.Move.ToRow, p.Move.ToCol,
		byte(p.Kind), byte(p.Report),
	}
}

func decodeTracePayload(b []byte) (tracePayload, error) {
	if len(b) != tracePlaintextSize {
		return tracePayload{}, NewInvalidTraceErrorf("payload length %d", len(b))
	}
	p := tracePayload{
		Move:   Move{FromRow: b[0], FromCol: b[1], ToRow: b[2], ToCol: b[3]},
		Kind:   PieceKind(b[4]),
		Report: PieceKind(b[5]),
	}
	if err := p.Move.validate(); err != nil {
		return tracePayload{}, NewInvalidTraceErrorf("carries %v", err)
	}
	if p.Kind == PieceNone || p.Kind > PieceUnknown || p.Report > PieceKing {
		return tracePayload{}, NewInvalidTraceErrorf("invalid piece kinds %d/%d", p.Kind, p.Report)
	}
	return p, nil
}

func channelKey(gameID uint64, mask fr.Element, peer VisibilityKey) ([]byte, error) {
	shared, err := curve25519.X25519(visibilityScalar(mask), peer[:])
	if err != nil {
		return nil, NewInvalidTraceErrorf("could not agree on channel key: %w", err)
	}
	var salt [8]byte
	binary.BigEndian.PutUint64(salt[:], gameID)
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha3.New256, shared, salt[:], []byte(domainChannel)), key); err != nil {
		return nil, NewInvalidTraceErrorf("could not derive channel key: %w", err)
	}
	return key, nil
}

// traceHeader is bound to the ciphertext as associated data.
func traceHeader(gameID uint64, ply uint32, mover Color) []byte {
	w := &wr{out: make([]byte, 0, 13)}
	w.u64(gameID)
	w.u32(ply)
	w.u8(byte(mover))
	return w.out
}

// traceNonce is unique per (game, ply, mover); a ply is sealed once.
func traceNonce(header []byte) []byte {
	h := sha3.New256()
	h.Write([]byte(domainNonce))
	h.Write(header)
	return h.Sum(nil)[:chacha20poly1305.NonceSizeX]
}

func sealTrace(gameID uint64, ply uint32, mover Color, mask fr.Element, peer VisibilityKey, p tracePayload) ([]byte, error) {
	key, err := channelKey(gameID, mask, peer)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, NewInvalidTraceErrorf("could not create cipher: %w", err)
	}
	header := traceHeader(gameID, ply, mover)
	return aead.Seal(nil, traceNonce(header), p.encode(), header), nil
}

func openTrace(gameID uint64, ply uint32, mover Color, mask fr.Element, peer VisibilityKey, trace []byte) (tracePayload, error) {
	if len(trace) != traceSize {
		return tracePayload{}, NewInvalidTraceErrorf("trace length %d, expected %d", len(trace), traceSize)
	}
	key, err := channelKey(gameID, mask, peer)
	if err != nil {
		return tracePayload{}, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return tracePayload{}, NewInvalidTraceErrorf("could not create cipher: %w", err)
	}
	header := traceHeader(gameID, ply, mover)
	plain, err := aead.Open(nil, traceNonce(header), trace, header)
	if err != nil {
		return tracePayload{}, NewInvalidTraceErrorf("could not open trace of ply %d", ply)
	}
	return decodeTracePayload(plain)
}

// moverOfPly returns the side that made move number ply. White makes the
// odd plies.
func moverOfPly(ply uint32) Color {
	if ply%2 == 1 {
		return ColorWhite
	}
	return ColorBlack
}

// ConsumeOpponentMove opens the latest trace of gs with the mask secret of
// us and folds what us is entitled to see into a new UserState. The raw
// move is not kept.
//
// The trace hides the move from everyone but the opponent, not from the
// opponent: whoever holds the mask secret can read the full move. The
// visibility filter is applied here, on the client.
func ConsumeOpponentMove[P Player](gs GameState, us UserState[P]) (UserState[P], error) {
	owner := ColorOf[P]()
	mover := owner.Other()
	if gs.Status != StatusActive && gs.Status != StatusFinished {
		return us, NewNotActiveErrorf("game %d is %s", gs.ID, gs.Status)
	}
	if gs.Ply == 0 || gs.Ply != us.Ply+1 {
		return us, NewStaleStateErrorf("user state at ply %d cannot consume ply %d", us.Ply, gs.Ply)
	}
	if moverOfPly(gs.Ply) != mover {
		return us, NewOutOfTurnErrorf("ply %d was made by %s", gs.Ply, owner)
	}
	if !gs.Slots[mover].Committed {
		return us, NewInvalidTraceErrorf("%s has no visibility key", mover)
	}
	p, err := openTrace(gs.ID, gs.Ply, mover, us.Secret.MaskSecret, gs.Slots[mover].Visibility, gs.LastTrace)
	if err != nil {
		return us, err
	}
	return applyObserved(us, p.Move, p.Kind, p.Report), nil
}

// applyObserved applies an opponent move to us, revealing only squares us
// could see before the move.
func applyObserved[P Player](us UserState[P], m Move, kind, report PieceKind) UserState[P] {
	owner := ColorOf[P]()
	enemy := owner.Other()
	out := us.clone()
	vis := out.Board.Visibility(owner)

	from := out.Board[m.FromRow][m.FromCol]
	to := out.Board[m.ToRow][m.ToCol]

	out.PendingReport = PieceNone
	if !to.Empty() && to.Owner == owner {
		out.Lost = append(out.Lost, to.Kind)
		out.PendingReport = to.Kind
		out.Board[m.ToRow][m.ToCol] = Square{}
	}
	if report != PieceNone {
		out.Captured = append(out.Captured, report)
	}
	if vis[m.FromRow][m.FromCol] && !from.Empty() && from.Owner == enemy {
		out.Board[m.FromRow][m.FromCol] = Square{}
	}
	if vis[m.ToRow][m.ToCol] {
		out.Board[m.ToRow][m.ToCol] = Square{Kind: kind, Owner: enemy}
	}
	out.Ply++
	return out
}
