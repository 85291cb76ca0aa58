package contract

import (
	"fmt"
	"strings"
)

//
// Private board model.
//
// Each player keeps their own Board inside UserState. It holds the
// player's pieces exactly and whatever they have been entitled to see of
// the opponent. Nothing here is ever written to the ledger.
//

// BoardSize is the number of rows and columns.
const BoardSize = 8

// PieceKind is a chess piece type. PieceUnknown marks an enemy piece whose
// type has not been revealed.
type PieceKind uint8

const (
	PieceNone PieceKind = iota
	PiecePawn
	PieceKnight
	PieceBishop
	PieceRook
	PieceQueen
	PieceKing
	PieceUnknown
)

var pieceLetters = [...]byte{'.', 'p', 'n', 'b', 'r', 'q', 'k', '?'}

func (k PieceKind) String() string {
	switch k {
	case PieceNone:
		return "none"
	case PiecePawn:
		return "pawn"
	case PieceKnight:
		return "knight"
	case PieceBishop:
		return "bishop"
	case PieceRook:
		return "rook"
	case PieceQueen:
		return "queen"
	case PieceKing:
		return "king"
	case PieceUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("piece(%d)", uint8(k))
	}
}

// Square is one cell of a Board.
type Square struct {
	Kind  PieceKind
	Owner Color
}

func (s Square) Empty() bool { return s.Kind == PieceNone }

// Board is indexed [row][col].
type Board [BoardSize][BoardSize]Square

// backRank lists the pieces of a back rank by row.
var backRank = [BoardSize]PieceKind{
	PieceRook, PieceKnight, PieceBishop, PieceQueen,
	PieceKing, PieceBishop, PieceKnight, PieceRook,
}

// homeColumns returns the back rank and pawn columns of a color. White
// starts on columns 0 and 1, black on 7 and 6.
func homeColumns(c Color) (back, pawns int) {
	if c == ColorWhite {
		return 0, 1
	}
	return BoardSize - 1, BoardSize - 2
}

// initialBoard places the sixteen starting pieces of owner only.
func initialBoard(owner Color) Board {
	var b Board
	back, pawns := homeColumns(owner)
	for r := 0; r < BoardSize; r++ {
		b[r][back] = Square{Kind: backRank[r], Owner: owner}
		b[r][pawns] = Square{Kind: PiecePawn, Owner: owner}
	}
	return b
}

func inBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// Count returns the number of pieces of owner on the board.
func (b *Board) Count(owner Color) int {
	n := 0
	for r := range b {
		for c := range b[r] {
			if !b[r][c].Empty() && b[r][c].Owner == owner {
				n++
			}
		}
	}
	return n
}

// Visibility returns the squares owner may observe: every square holding
// one of owner's pieces and every square adjacent to one.
func (b *Board) Visibility(owner Color) [BoardSize][BoardSize]bool {
	var vis [BoardSize][BoardSize]bool
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			sq := b[r][c]
			if sq.Empty() || sq.Owner != owner {
				continue
			}
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if inBounds(r+dr, c+dc) {
						vis[r+dr][c+dc] = true
					}
				}
			}
		}
	}
	return vis
}

// String renders the board one row per line. White pieces are upper case,
// black lower case, unknown enemies '?' and empty squares '.'.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(BoardSize * (BoardSize + 1))
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			sq := b[r][c]
			ch := byte('.')
			if int(sq.Kind) < len(pieceLetters) {
				ch = pieceLetters[sq.Kind]
			}
			if sq.Owner == ColorWhite && ch >= 'a' && ch <= 'z' {
				ch -= 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
