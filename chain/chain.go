// Package chain is a minimal simulated ledger host for the hot potato
// contract: a monotonically increasing block counter, fully serialized
// transaction application, durable state through a Store, and fan-out of
// contract events to subscribers. It provides the host-side guarantees
// the contract assumes (total ordering, atomic calls, monotone clock)
// without any real consensus machinery.
package chain

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Cherrypick14/polkadot-hot-potato/contract"
	"github.com/Cherrypick14/polkadot-hot-potato/sdk"
)

// Chain sequences transactions against a single contract instance. All
// submissions run under one mutex, so each call observes a consistent
// height and state, and no two operations interleave.
type Chain struct {
	mu     sync.Mutex
	store  Store
	height uint64
	log    *zap.Logger
	clk    clock.Clock
	bus    *Broadcaster
}

// Option configures a Chain.
type Option func(*Chain)

// WithClock substitutes the wall clock driving the block producer.
// Tests pass a clock.Mock to advance blocks deterministically.
func WithClock(clk clock.Clock) Option {
	return func(ch *Chain) { ch.clk = clk }
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(ch *Chain) { ch.log = log }
}

func New(store Store, opts ...Option) *Chain {
	ch := &Chain{
		store: store,
		log:   zap.NewNop(),
		clk:   clock.New(),
		bus:   NewBroadcaster(),
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

// Receipt is the record of an applied transaction.
type Receipt struct {
	TxId   string           `json:"txId"`
	Height uint64           `json:"height"`
	Output *string          `json:"output,omitempty"`
	Events []contract.Event `json:"events,omitempty"`
}

// Submit applies one transaction: it builds the call environment at the
// current height, dispatches into the contract, and on success publishes
// the emitted events. A rejected transaction returns the contract's error
// and leaves state untouched.
func (ch *Chain) Submit(sender sdk.Address, op, payload string) (*Receipt, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	env := sdk.Env{
		Sender:      sender,
		BlockHeight: ch.height,
		TxId:        uuid.NewString(),
	}
	host := &txHost{store: ch.store, env: env, log: ch.log}

	out, err := contract.New(host).Dispatch(op, payload)
	if err != nil {
		ch.log.Debug("tx rejected",
			zap.String("txId", env.TxId),
			zap.String("op", op),
			zap.String("sender", sender.String()),
			zap.Uint64("height", env.BlockHeight),
			zap.Error(err))
		return nil, err
	}

	for _, ev := range host.events {
		ch.bus.Publish(ev)
	}
	ch.log.Info("tx applied",
		zap.String("txId", env.TxId),
		zap.String("op", op),
		zap.String("sender", sender.String()),
		zap.Uint64("height", env.BlockHeight),
		zap.Int("events", len(host.events)))

	return &Receipt{
		TxId:   env.TxId,
		Height: env.BlockHeight,
		Output: out,
		Events: host.events,
	}, nil
}

// Snapshot reads the full contract view at the current height without
// consuming a transaction.
func (ch *Chain) Snapshot() (*contract.Snapshot, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	host := &txHost{
		store: ch.store,
		env:   sdk.Env{Sender: "viewer", BlockHeight: ch.height},
		log:   ch.log,
	}
	return contract.New(host).GetSnapshot()
}

// Height returns the current block height.
func (ch *Chain) Height() uint64 {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.height
}

// AdvanceBlocks moves the block counter forward by n.
func (ch *Chain) AdvanceBlocks(n uint64) {
	ch.mu.Lock()
	ch.height += n
	h := ch.height
	ch.mu.Unlock()
	ch.log.Debug("block produced", zap.Uint64("height", h))
}

// Subscribe registers for contract events. The returned cancel func must
// be called when the subscriber is done.
func (ch *Chain) Subscribe(buffer int) (<-chan contract.Event, func()) {
	return ch.bus.Subscribe(buffer)
}

// Run produces one block per interval until ctx is cancelled. It drives
// the same counter as AdvanceBlocks, so manual and timed production mix.
func (ch *Chain) Run(ctx context.Context, interval time.Duration) {
	ticker := ch.clk.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ch.AdvanceBlocks(1)
		}
	}
}

// ---------- Per-Tx Host ----------

// txHost is the sdk.Host handed to the contract for a single call. The
// environment is frozen at submission; state reads and writes go straight
// to the chain store (the contract only writes after validation). Log
// lines that parse as events are collected for publication; everything
// else is forwarded to the logger.
type txHost struct {
	store  Store
	env    sdk.Env
	log    *zap.Logger
	events []contract.Event
}

func (h *txHost) GetEnv() (sdk.Env, error) { return h.env, nil }

func (h *txHost) StateGet(key string) (*string, error) { return h.store.Get(key) }

func (h *txHost) StateSet(key, value string) error { return h.store.Set(key, value) }

func (h *txHost) Log(msg string) {
	var ev contract.Event
	if err := json.Unmarshal([]byte(msg), &ev); err == nil && ev.Type != "" {
		h.events = append(h.events, ev)
		return
	}
	h.log.Debug("contract log", zap.String("txId", h.env.TxId), zap.String("msg", msg))
}
