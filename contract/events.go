package contract

import (
	"encoding/json"
	"strconv"

	"fogchess/sdk"
)

// Event types on the ledger's event log.
const (
	EventGameCreated  = "gameCreated"
	EventGameJoined   = "gameJoined"
	EventGameResigned = "gameResigned"
	EventGameTimedOut = "gameTimedOut"
	EventGameWon      = "gameWon"
	// EventMove carries an encoded MoveEvent rather than JSON.
	EventMove = "MoveEvent"
)

// Event represents the common structure for all lifecycle events.
// Each event has a type and a set of key/value attributes.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// emitEvent encodes the event as JSON onto the event log.
func emitEvent(tx sdk.Tx, eventType string, attributes map[string]string) {
	b, err := json.Marshal(Event{Type: eventType, Attributes: attributes})
	if err != nil {
		// a map of strings always marshals
		panic(err)
	}
	tx.EmitEvent(eventType, b)
}

// DecodeEvent parses a lifecycle event payload.
func DecodeEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, NewInvalidEventErrorf("could not decode: %w", err)
	}
	return ev, nil
}

// EmitGameCreated announces a new game and its creator.
func EmitGameCreated(tx sdk.Tx, gameID uint64, by sdk.Address) {
	emitEvent(tx, EventGameCreated, map[string]string{
		"id": strconv.FormatUint(gameID, 10),
		"by": by.String(),
	})
}

// EmitGameJoined announces the player who took the black slot.
func EmitGameJoined(tx sdk.Tx, gameID uint64, joined sdk.Address) {
	emitEvent(tx, EventGameJoined, map[string]string{
		"id":     strconv.FormatUint(gameID, 10),
		"joined": joined.String(),
	})
}

// EmitGameResigned names the player who conceded.
func EmitGameResigned(tx sdk.Tx, gameID uint64, resigner sdk.Address) {
	emitEvent(tx, EventGameResigned, map[string]string{
		"id":       strconv.FormatUint(gameID, 10),
		"resigner": resigner.String(),
	})
}

// EmitGameTimedOut names the player who ran out of time.
func EmitGameTimedOut(tx sdk.Tx, gameID uint64, timedOut sdk.Address) {
	emitEvent(tx, EventGameTimedOut, map[string]string{
		"id":       strconv.FormatUint(gameID, 10),
		"timedOut": timedOut.String(),
	})
}

// EmitGameWon names the winner of a finished game.
func EmitGameWon(tx sdk.Tx, gameID uint64, winner sdk.Address) {
	emitEvent(tx, EventGameWon, map[string]string{
		"id":     strconv.FormatUint(gameID, 10),
		"winner": winner.String(),
	})
}

// EmitMoveEvent publishes the binary MoveEvent. It reveals game, ply and
// color; the move itself stays inside the trace.
func EmitMoveEvent(tx sdk.Tx, ev MoveEvent) error {
	b, err := EncodeMoveEvent(ev)
	if err != nil {
		return err
	}
	tx.EmitEvent(EventMove, b)
	return nil
}
