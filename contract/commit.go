package contract

import (
	"crypto/subtle"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/sha3"
)

// Domain separation tags. Each commitment kind hashes its own tag first so
// equal secrets of different kinds never produce equal commitments.
const (
	domainEncrypt    = "fogchess/v1/commit/encrypt"
	domainMask       = "fogchess/v1/commit/mask"
	domainPassword   = "fogchess/v1/commit/password"
	domainVisibility = "fogchess/v1/visibility"
)

var (
	tagEncrypt  = domainElement(domainEncrypt)
	tagMask     = domainElement(domainMask)
	tagPassword = domainElement(domainPassword)
)

func domainElement(tag string) fr.Element {
	sum := sha3.Sum256([]byte(tag))
	var e fr.Element
	e.SetBytes(sum[:])
	return e
}

// hashElements is MiMC over the canonical 32 byte encodings of elems.
func hashElements(elems ...fr.Element) Hash {
	h := mimc.NewMiMC()
	for i := range elems {
		b := elems[i].Bytes()
		// canonical encodings are always below the modulus
		_, _ = h.Write(b[:])
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// NewField returns v as a field element.
func NewField(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

// ParseField parses a non-negative decimal integer below the field modulus.
func ParseField(s string) (fr.Element, error) {
	var e fr.Element
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return e, NewInvalidArgumentErrorf("%q is not a decimal integer", s)
	}
	if n.Sign() < 0 || n.Cmp(fr.Modulus()) >= 0 {
		return e, NewInvalidArgumentErrorf("%q is outside the scalar field", s)
	}
	e.SetBigInt(n)
	return e, nil
}

// Commit returns the commitment of both halves of s.
func Commit(s Secret) Commitment {
	return Commitment{
		EncryptHash: hashElements(tagEncrypt, s.EncryptSecret),
		MaskHash:    hashElements(tagMask, s.MaskSecret),
	}
}

// CommitPassword returns the commitment of a game password. Zero is an
// ordinary password.
func CommitPassword(password fr.Element) Hash {
	return hashElements(tagPassword, password)
}

// visibilityScalar maps a mask secret to an X25519 private scalar.
func visibilityScalar(mask fr.Element) []byte {
	b := mask.Bytes()
	h := sha3.New256()
	h.Write([]byte(domainVisibility))
	h.Write(b[:])
	return h.Sum(nil)
}

// DeriveVisibilityKey returns the public key paired with a mask secret.
func DeriveVisibilityKey(mask fr.Element) (VisibilityKey, error) {
	var vk VisibilityKey
	pub, err := curve25519.X25519(visibilityScalar(mask), curve25519.Basepoint)
	if err != nil {
		return vk, fmt.Errorf("could not derive visibility key: %w", err)
	}
	copy(vk[:], pub)
	return vk, nil
}

// CommitToUserSecrets records the commitment and visibility key of s in the
// slot of color. A slot is written at most once.
func CommitToUserSecrets(gs GameState, s Secret, color Color) (GameState, error) {
	if !color.Valid() {
		return gs, NewInvalidArgumentErrorf("invalid color %d", color)
	}
	if gs.Slots[color].Committed {
		return gs, NewSlotAlreadyCommittedErrorf("%s secrets of game %d", color, gs.ID)
	}
	vk, err := DeriveVisibilityKey(s.MaskSecret)
	if err != nil {
		return gs, err
	}
	out := gs.clone()
	out.Slots[color] = SecretSlot{
		Commitment: Commit(s),
		Visibility: vk,
		Committed:  true,
	}
	return out, nil
}

// CommitPasswordToGame records the password commitment of gs.
func CommitPasswordToGame(gs GameState, password fr.Element) (GameState, error) {
	if gs.Password.Committed {
		return gs, NewSlotAlreadyCommittedErrorf("password of game %d", gs.ID)
	}
	out := gs.clone()
	out.Password = PasswordSlot{Hash: CommitPassword(password), Committed: true}
	return out, nil
}

// commitmentEqual compares in constant time and returns 1 on equality.
func commitmentEqual(a, b Commitment) int {
	return subtle.ConstantTimeCompare(a.EncryptHash[:], b.EncryptHash[:]) &
		subtle.ConstantTimeCompare(a.MaskHash[:], b.MaskHash[:])
}

func hashEqual(a, b Hash) int {
	return subtle.ConstantTimeCompare(a[:], b[:])
}
