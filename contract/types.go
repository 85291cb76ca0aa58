package contract

import (
	"encoding/hex"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"fogchess/sdk"
)

// ---------- Colors & Status ----------

// Color identifies a side. The numeric values are part of the wire format.
type Color uint8

const (
	ColorWhite Color = 0
	ColorBlack Color = 1
)

// Valid reports whether c is white or black.
func (c Color) Valid() bool { return c == ColorWhite || c == ColorBlack }

// Other returns the opposing color.
func (c Color) Other() Color { return 1 - c }

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "white"
	case ColorBlack:
		return "black"
	default:
		return fmt.Sprintf("color(%d)", uint8(c))
	}
}

// GameStatus is the lifecycle state of a game.
type GameStatus uint8

const (
	StatusCreated  GameStatus = 0 // commitments being populated
	StatusOpen     GameStatus = 1 // waiting for the second player
	StatusActive   GameStatus = 2 // both players joined, turns alternate
	StatusFinished GameStatus = 3 // terminal
)

func (s GameStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusOpen:
		return "open"
	case StatusActive:
		return "active"
	case StatusFinished:
		return "finished"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Outcome records how a finished game ended.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeResigned
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeResigned:
		return "resigned"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// ---------- Secrets & Commitments ----------

// Hash is a 32 byte digest: a MiMC field hash for commitments, SHA3-256 for
// the trace root.
type Hash [32]byte

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

func (h Hash) IsZero() bool { return h == Hash{} }

// ParseHash decodes a hex encoded hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(b) != len(h) {
		return h, fmt.Errorf("invalid hash length %d, expected %d", len(b), len(h))
	}
	copy(h[:], b)
	return h, nil
}

// Secret is a player's pair of private field elements. It never leaves the
// player's UserState.
type Secret struct {
	EncryptSecret fr.Element
	MaskSecret    fr.Element
}

// Commitment binds a player to a Secret without revealing it.
type Commitment struct {
	EncryptHash Hash
	MaskHash    Hash
}

// VisibilityKey is the X25519 public key derived from a mask secret. The
// opponent uses it to open traces addressed to them.
type VisibilityKey [32]byte

func (k VisibilityKey) String() string { return hex.EncodeToString(k[:]) }

// SecretSlot is the shared record of one color's commitment.
type SecretSlot struct {
	Commitment Commitment
	Visibility VisibilityKey
	Committed  bool
}

// PasswordSlot holds the password commitment of a game.
type PasswordSlot struct {
	Hash      Hash
	Committed bool
}

// ---------- Game State ----------

// GameState is the shared, public record of a game. It is a value: every
// transition returns a new GameState and leaves its input untouched.
type GameState struct {
	ID        uint64
	Status    GameStatus
	Turn      Color
	Ply       uint32 // number of moves applied
	Slots     [2]SecretSlot
	Password  PasswordSlot
	Invite    *Commitment // optional reserved black commitment
	Players   [2]sdk.Address
	Outcome   Outcome
	Winner    Color // meaningful once Outcome != OutcomeNone
	TraceRoot Hash
	LastTrace []byte
}

func (gs GameState) clone() GameState {
	out := gs
	if gs.Invite != nil {
		inv := *gs.Invite
		out.Invite = &inv
	}
	if gs.LastTrace != nil {
		out.LastTrace = append([]byte(nil), gs.LastTrace...)
	}
	return out
}

// EmptyGameState returns a zero valued game for client side population.
func EmptyGameState() GameState {
	return GameState{Status: StatusCreated, Turn: ColorWhite}
}

// ---------- Moves ----------

// Move is a position delta on the 8x8 board.
type Move struct {
	FromRow uint8
	FromCol uint8
	ToRow   uint8
	ToCol   uint8
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)->(%d,%d)", m.FromRow, m.FromCol, m.ToRow, m.ToCol)
}

// MoveEvent is the public announcement of a move. State is opaque to
// everyone but the opponent of Color.
type MoveEvent struct {
	GameID uint64
	Ply    uint32
	Color  Color
	State  []byte
}
