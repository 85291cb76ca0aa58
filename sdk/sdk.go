// Package sdk is the execution environment the game contract runs in: a
// ledger of key/value state, blocks of one transaction each, an event log
// addressable by block height, and caller identity.
package sdk

import (
	"time"
)

// Address identifies the account a call is attributed to.
type Address string

func (a Address) String() string { return string(a) }

// Env describes the call currently being executed.
type Env struct {
	Sender      Address
	TxID        string
	BlockHeight uint64
	Timestamp   time.Time
}

// Event is an entry of the public event log.
type Event struct {
	Type        string
	BlockHeight uint64
	TxID        string
	Index       uint32
	Payload     []byte
}

// Receipt is returned once a mutating call has been included in a block.
type Receipt struct {
	TxID        string
	BlockNumber uint64
	Events      []Event
}

// Tx is the contract's view of the ledger during a single call. Writes and
// events are buffered and only become visible if the call succeeds.
type Tx interface {
	StateGetObject(key string) *string
	StateSetObject(key, value string)
	EmitEvent(eventType string, payload []byte)
	GetEnv() Env
}
