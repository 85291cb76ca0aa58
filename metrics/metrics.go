package metrics

// GameMetrics is reported by the game contract. Methods are only called for
// calls that committed, except the rejection counters.
type GameMetrics interface {
	// GameCreated is called when a new game is opened.
	GameCreated()
	// GameJoined is called when a second player joins.
	GameJoined()
	// JoinDenied is called when a join fails its commitment checks.
	JoinDenied()
	// MoveCommitted is called for every move appended to a game.
	MoveCommitted(color string)
	// CallRejected counts failed contract calls by operation and error code.
	CallRejected(op string, code string)
	// GameFinished is called when a game ends, by outcome.
	GameFinished(outcome string)
}

const (
	namespaceFogChess = "fogchess"
	subsystemGames    = "games"
)

const (
	LabelColor     = "color"
	LabelOperation = "operation"
	LabelCode      = "code"
	LabelOutcome   = "outcome"
)
