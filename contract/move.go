package contract

import (
	"golang.org/x/crypto/sha3"
)

func (m Move) validate() error {
	if !inBounds(int(m.FromRow), int(m.FromCol)) || !inBounds(int(m.ToRow), int(m.ToCol)) {
		return NewInvalidMoveErrorf("%s is off the board", m)
	}
	if m.FromRow == m.ToRow && m.FromCol == m.ToCol {
		return NewInvalidMoveErrorf("%s does not change square", m)
	}
	return nil
}

// CreateMove builds a move from board coordinates.
func CreateMove(fromRow, fromCol, toRow, toCol int) (Move, error) {
	if !inBounds(fromRow, fromCol) || !inBounds(toRow, toCol) {
		return Move{}, NewInvalidMoveErrorf("(%d,%d)->(%d,%d) is off the board", fromRow, fromCol, toRow, toCol)
	}
	m := Move{FromRow: uint8(fromRow), FromCol: uint8(fromCol), ToRow: uint8(toRow), ToCol: uint8(toCol)}
	if err := m.validate(); err != nil {
		return Move{}, err
	}
	return m, nil
}

// ApplyMoveSelf applies the owner's own move to their private board. The
// origin must hold an own piece and the target must not.
func ApplyMoveSelf[P Player](us UserState[P], m Move) (UserState[P], error) {
	owner := ColorOf[P]()
	if err := m.validate(); err != nil {
		return us, err
	}
	from := us.Board[m.FromRow][m.FromCol]
	if from.Empty() || from.Owner != owner || from.Kind == PieceUnknown {
		return us, NewInvalidMoveErrorf("no %s piece at (%d,%d)", owner, m.FromRow, m.FromCol)
	}
	to := us.Board[m.ToRow][m.ToCol]
	if !to.Empty() && to.Owner == owner {
		return us, NewInvalidMoveErrorf("(%d,%d) holds an own piece", m.ToRow, m.ToCol)
	}
	out := us.clone()
	out.Board[m.ToRow][m.ToCol] = from
	out.Board[m.FromRow][m.FromCol] = Square{}
	out.History = append(out.History, m)
	out.PendingReport = PieceNone
	out.Ply++
	return out, nil
}

// UpdateUserStateFromMove applies m to us. With isSelf the move is the
// owner's own; otherwise it is an opponent move known in plaintext, and only
// the squares us can see are updated.
func UpdateUserStateFromMove[P Player](isSelf bool, us UserState[P], m Move) (UserState[P], error) {
	if isSelf {
		return ApplyMoveSelf(us, m)
	}
	if err := m.validate(); err != nil {
		return us, err
	}
	kind := PieceUnknown
	if sq := us.Board[m.FromRow][m.FromCol]; !sq.Empty() && sq.Owner != ColorOf[P]() {
		kind = sq.Kind
	}
	return applyObserved(us, m, kind, PieceNone), nil
}

// UpdateGameStateFromMove advances gs by one ply for the move event ev made
// by color. Only the opaque trace enters the shared state.
func UpdateGameStateFromMove(gs GameState, ev MoveEvent, color Color) (GameState, error) {
	if gs.Status != StatusActive {
		return gs, NewNotActiveErrorf("game %d is %s", gs.ID, gs.Status)
	}
	if color != gs.Turn {
		return gs, NewOutOfTurnErrorf("game %d waits for %s", gs.ID, gs.Turn)
	}
	if ev.GameID != gs.ID || ev.Color != color || ev.Ply != gs.Ply+1 {
		return gs, NewInvalidEventErrorf("event (game %d, ply %d, %s) does not follow game %d at ply %d",
			ev.GameID, ev.Ply, ev.Color, gs.ID, gs.Ply)
	}
	if len(ev.State) != traceSize {
		return gs, NewInvalidEventErrorf("trace length %d, expected %d", len(ev.State), traceSize)
	}
	out := gs.clone()
	out.Ply = ev.Ply
	out.Turn = color.Other()
	root, err := extendTraceRoot(gs.TraceRoot, ev)
	if err != nil {
		return gs, err
	}
	out.LastTrace = append([]byte(nil), ev.State...)
	out.TraceRoot = root
	return out, nil
}

// extendTraceRoot chains ev onto the running hash of all move events.
func extendTraceRoot(prev Hash, ev MoveEvent) (Hash, error) {
	b, err := EncodeMoveEvent(ev)
	if err != nil {
		return Hash{}, err
	}
	h := sha3.New256()
	h.Write(prev[:])
	h.Write(b)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out, nil
}

// BuildMoveEvent seals m for the opponent of P. It does not check the move
// against us; see ApplyMoveSelf.
func BuildMoveEvent[P Player](gs GameState, us UserState[P], m Move) (MoveEvent, error) {
	mover := ColorOf[P]()
	opp := mover.Other()
	if err := m.validate(); err != nil {
		return MoveEvent{}, err
	}
	if !gs.Slots[opp].Committed {
		return MoveEvent{}, NewNotActiveErrorf("game %d has no %s player", gs.ID, opp)
	}
	ply := gs.Ply + 1
	state, err := sealTrace(gs.ID, ply, mover, us.Secret.MaskSecret, gs.Slots[opp].Visibility, tracePayload{
		Move:   m,
		Kind:   us.Board[m.FromRow][m.FromCol].Kind,
		Report: us.PendingReport,
	})
	if err != nil {
		return MoveEvent{}, err
	}
	return MoveEvent{GameID: gs.ID, Ply: ply, Color: mover, State: state}, nil
}
