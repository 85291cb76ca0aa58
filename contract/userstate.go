package contract

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"

	"fogchess/storage"
)

// White and Black tag a UserState with its side, so a white state cannot be
// handed to a black operation.
type White struct{}

type Black struct{}

func (White) Color() Color { return ColorWhite }

func (Black) Color() Color { return ColorBlack }

// Player is satisfied by exactly White and Black.
type Player interface {
	White | Black
	Color() Color
}

// ColorOf returns the color of the side P.
func ColorOf[P Player]() Color {
	var p P
	return p.Color()
}

// UserState is one player's private view of a game. It is never written to
// the ledger in the clear.
type UserState[P Player] struct {
	Secret Secret
	Board  Board
	// History lists the player's own moves in order.
	History []Move
	// Ply is the GameState.Ply this view is synchronised with.
	Ply uint32
	// Captured lists enemy pieces this player has taken, as reported back
	// by the opponent.
	Captured []PieceKind
	// Lost lists own pieces taken by the opponent.
	Lost []PieceKind
	// PendingReport is the kind of piece lost on the last consumed move;
	// it rides along with this player's next trace.
	PendingReport PieceKind
}

// EmptyWhiteState returns white's starting view with no secrets.
func EmptyWhiteState() UserState[White] { return emptyUserState[White]() }

// EmptyBlackState returns black's starting view with no secrets.
func EmptyBlackState() UserState[Black] { return emptyUserState[Black]() }

func emptyUserState[P Player]() UserState[P] {
	return UserState[P]{Board: initialBoard(ColorOf[P]())}
}

// Color returns the side of us.
func (us UserState[P]) Color() Color { return ColorOf[P]() }

// WithSecret returns a copy of us holding s.
func (us UserState[P]) WithSecret(s Secret) UserState[P] {
	out := us.clone()
	out.Secret = s
	return out
}

func (us UserState[P]) clone() UserState[P] {
	out := us
	out.History = append([]Move(nil), us.History...)
	out.Captured = append([]PieceKind(nil), us.Captured...)
	out.Lost = append([]PieceKind(nil), us.Lost...)
	return out
}

// ---------- Sealing ----------

const (
	sealVersion    uint8 = 1
	domainSealKey        = "fogchess/v1/user-state"
	sealHeaderSize       = 2 + chacha20poly1305.NonceSizeX
)

// userStateRecord is the serialised form of a UserState.
type userStateRecord struct {
	Encrypt  []byte
	Mask     []byte
	Board    Board
	History  []Move
	Ply      uint32
	Captured []PieceKind
	Lost     []PieceKind
	Pending  PieceKind
}

func sealKey(encrypt fr.Element) ([]byte, error) {
	b := encrypt.Bytes()
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha3.New256, b[:], nil, []byte(domainSealKey)), key); err != nil {
		return nil, fmt.Errorf("could not derive seal key: %w", err)
	}
	return key, nil
}

// SealUserState encrypts us under a key derived from its encrypt secret.
//
// Layout: version | color | nonce | ciphertext. The color is bound as
// associated data.
func SealUserState[P Player](us UserState[P]) ([]byte, error) {
	enc := us.Secret.EncryptSecret.Bytes()
	mask := us.Secret.MaskSecret.Bytes()
	plain, err := storage.Encode(userStateRecord{
		Encrypt:  enc[:],
		Mask:     mask[:],
		Board:    us.Board,
		History:  us.History,
		Ply:      us.Ply,
		Captured: us.Captured,
		Lost:     us.Lost,
		Pending:  us.PendingReport,
	})
	if err != nil {
		return nil, fmt.Errorf("could not encode user state: %w", err)
	}
	key, err := sealKey(us.Secret.EncryptSecret)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("could not create cipher: %w", err)
	}
	header := []byte{sealVersion, byte(ColorOf[P]())}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("could not draw nonce: %w", err)
	}
	out := make([]byte, 0, sealHeaderSize+len(plain)+aead.Overhead())
	out = append(out, header...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plain, header), nil
}

// SealedColor returns the side a sealed state belongs to without opening it.
func SealedColor(blob []byte) (Color, error) {
	if len(blob) < sealHeaderSize || blob[0] != sealVersion {
		return 0, fmt.Errorf("not a sealed user state")
	}
	c := Color(blob[1])
	if !c.Valid() {
		return 0, fmt.Errorf("sealed user state has invalid color %d", blob[1])
	}
	return c, nil
}

// OpenUserState decrypts a state sealed by SealUserState.
func OpenUserState[P Player](encrypt fr.Element, blob []byte) (UserState[P], error) {
	var us UserState[P]
	c, err := SealedColor(blob)
	if err != nil {
		return us, err
	}
	if c != ColorOf[P]() {
		return us, fmt.Errorf("sealed user state is %s, expected %s", c, ColorOf[P]())
	}
	key, err := sealKey(encrypt)
	if err != nil {
		return us, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return us, fmt.Errorf("could not create cipher: %w", err)
	}
	plain, err := aead.Open(nil, blob[2:sealHeaderSize], blob[sealHeaderSize:], blob[:2])
	if err != nil {
		return us, NewAccessDeniedErrorf("could not open user state")
	}
	var rec userStateRecord
	if err := storage.Decode(plain, &rec); err != nil {
		return us, fmt.Errorf("could not decode user state: %w", err)
	}
	us.Secret.EncryptSecret.SetBytes(rec.Encrypt)
	us.Secret.MaskSecret.SetBytes(rec.Mask)
	us.Board = rec.Board
	us.History = rec.History
	us.Ply = rec.Ply
	us.Captured = rec.Captured
	us.Lost = rec.Lost
	us.PendingReport = rec.Pending
	return us, nil
}
