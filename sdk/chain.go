package sdk

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"fogchess/storage"
)

// Chain executes contract calls one at a time against a ledger. Every
// successful mutating call is sealed into its own block; a failed call leaves
// the ledger untouched.
type Chain struct {
	mu     sync.Mutex
	ledger *ledger
	height *atomic.Uint64
	now    func() time.Time
	log    zerolog.Logger
}

type ChainOption func(*Chain)

// WithClock overrides the clock used for block timestamps.
func WithClock(now func() time.Time) ChainOption {
	return func(c *Chain) { c.now = now }
}

// NewChain opens a chain on top of kv, resuming from the stored head.
func NewChain(kv storage.KV, log zerolog.Logger, opts ...ChainOption) (*Chain, error) {
	c := &Chain{
		ledger: &ledger{kv: kv},
		height: atomic.NewUint64(0),
		now:    time.Now,
		log:    log.With().Str("component", "chain").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	head, err := c.ledger.head()
	if err != nil {
		return nil, err
	}
	c.height.Store(head)
	return c, nil
}

// Height returns the number of the last sealed block.
func (c *Chain) Height() uint64 { return c.height.Load() }

// Send runs fn as a mutating call attributed to sender. On success the
// buffered writes and events are committed as a new block.
func (c *Chain) Send(sender Address, fn func(Tx) error) (*Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	height := c.height.Load() + 1
	env := Env{
		Sender:      sender,
		TxID:        uuid.NewString(),
		BlockHeight: height,
		Timestamp:   c.now().UTC(),
	}
	log := c.log.With().Str("tx", env.TxID).Str("sender", sender.String()).Uint64("height", height).Logger()

	tx := newOverlay(c.ledger, env)
	err := fn(tx)
	if err == nil {
		err = tx.err
	}
	if err != nil {
		log.Debug().Err(err).Msg("call reverted")
		return nil, err
	}

	b := &block{
		Height:    height,
		Timestamp: env.Timestamp,
		TxID:      env.TxID,
		Sender:    sender,
		Writes:    tx.writes,
		Events:    tx.events,
	}
	if err := c.ledger.commit(b); err != nil {
		return nil, fmt.Errorf("could not commit block %d: %w", height, err)
	}
	c.height.Store(height)

	log.Debug().Int("writes", len(tx.writes)).Int("events", len(tx.events)).Msg("block sealed")
	return &Receipt{TxID: env.TxID, BlockNumber: height, Events: tx.events}, nil
}

// Simulate runs fn read-only against the current state. Writes and events
// are discarded whether or not fn succeeds.
func (c *Chain) Simulate(sender Address, fn func(Tx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	env := Env{
		Sender:      sender,
		TxID:        "simulated",
		BlockHeight: c.height.Load(),
		Timestamp:   c.now().UTC(),
	}
	tx := newOverlay(c.ledger, env)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.err
}

// Events returns the events of the given type emitted in blocks with
// from <= height < to. An empty eventType matches every event.
func (c *Chain) Events(eventType string, from, to uint64) ([]Event, error) {
	all, err := c.ledger.events(from, to)
	if err != nil {
		return nil, fmt.Errorf("could not read events [%d, %d): %w", from, to, err)
	}
	if eventType == "" {
		return all, nil
	}
	out := all[:0]
	for _, ev := range all {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out, nil
}
