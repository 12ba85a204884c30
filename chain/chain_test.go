package chain

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cherrypick14/polkadot-hot-potato/contract"
	"github.com/Cherrypick14/polkadot-hot-potato/sdk"
)

func newTestChain(t *testing.T) *Chain {
	t.Helper()
	ch := New(NewMemStore())
	_, err := ch.Submit("deployer", contract.OpInit, "10")
	require.NoError(t, err)
	return ch
}

func submit(t *testing.T, ch *Chain, sender, op, payload string) *Receipt {
	t.Helper()
	rec, err := ch.Submit(sdk.Address(sender), op, payload)
	require.NoError(t, err, "%s %s %q", sender, op, payload)
	return rec
}

func TestChain_FullRound(t *testing.T) {
	ch := newTestChain(t)

	// alice starts the game with p1 holding at height 0
	rec := submit(t, ch, "alice", contract.OpStart, "p1")
	assert.Equal(t, uint64(0), rec.Height)
	assert.NotEmpty(t, rec.TxId)
	require.Len(t, rec.Events, 1)
	assert.Equal(t, contract.EventGameStarted, rec.Events[0].Type)

	// p1 passes to p2 at height 5
	ch.AdvanceBlocks(5)
	rec = submit(t, ch, "p1", contract.OpPass, "p2")
	assert.Equal(t, uint64(5), rec.Height)
	require.Len(t, rec.Events, 1)
	assert.Equal(t, contract.EventPotatoPassed, rec.Events[0].Type)

	// at height 12 the window (5+10) has not elapsed
	ch.AdvanceBlocks(7)
	rec = submit(t, ch, "anyone", contract.OpCheck, "")
	require.NotNil(t, rec.Output)
	assert.Equal(t, "0", *rec.Output)
	assert.Empty(t, rec.Events)

	// at height 16 elapsed is 11 >= 10: p2 is eliminated
	ch.AdvanceBlocks(4)
	rec = submit(t, ch, "anyone", contract.OpCheck, "")
	require.NotNil(t, rec.Output)
	assert.Equal(t, "1", *rec.Output)
	require.Len(t, rec.Events, 1)
	assert.Equal(t, contract.EventPotatoBurned, rec.Events[0].Type)
	assert.Equal(t, "p2", rec.Events[0].Attributes["eliminated"])

	// the game is idle again and queryable
	rec = submit(t, ch, "anyone", contract.OpGet, "")
	require.NotNil(t, rec.Output)
	assert.Equal(t, "0||alice|5|10|0|0|16|0", *rec.Output)
}

func TestChain_RejectedTxLeavesStateUntouched(t *testing.T) {
	ch := newTestChain(t)
	submit(t, ch, "alice", contract.OpStart, "p1")

	_, err := ch.Submit("p2", contract.OpPass, "p3")
	require.Error(t, err)
	assert.Equal(t, contract.CodeNotHolder, contract.CodeOf(err))

	rec := submit(t, ch, "anyone", contract.OpGet, "")
	assert.Equal(t, "1|p1|alice|0|10|0|10|0|0", *rec.Output)
}

func TestChain_EventsReachSubscribers(t *testing.T) {
	ch := newTestChain(t)
	events, cancel := ch.Subscribe(8)
	defer cancel()

	submit(t, ch, "alice", contract.OpStart, "p1")
	ch.AdvanceBlocks(2)
	submit(t, ch, "p1", contract.OpPass, "p2")
	submit(t, ch, "alice", contract.OpEnd, "")

	types := []string{(<-events).Type, (<-events).Type, (<-events).Type}
	assert.Equal(t, []string{
		contract.EventGameStarted,
		contract.EventPotatoPassed,
		contract.EventGameEnded,
	}, types)
}

func TestChain_EndGameAuthorization(t *testing.T) {
	ch := newTestChain(t)
	submit(t, ch, "alice", contract.OpStart, "p1")

	_, err := ch.Submit("p1", contract.OpEnd, "")
	assert.Equal(t, contract.CodeNotStarter, contract.CodeOf(err))

	rec := submit(t, ch, "alice", contract.OpEnd, "")
	assert.Empty(t, rec.Events[0].Attributes["holder"])
}

func TestChain_StartWhileActive(t *testing.T) {
	ch := newTestChain(t)
	submit(t, ch, "alice", contract.OpStart, "p1")

	_, err := ch.Submit("bob", contract.OpStart, "p2")
	assert.Equal(t, contract.CodeAlreadyActive, contract.CodeOf(err))
}

func TestChain_RemainingQuery(t *testing.T) {
	ch := newTestChain(t)
	submit(t, ch, "alice", contract.OpStart, "p1")
	ch.AdvanceBlocks(3)

	rec := submit(t, ch, "anyone", contract.OpRemaining, "")
	require.NotNil(t, rec.Output)
	assert.Equal(t, "7", *rec.Output)
}

func TestChain_SQLiteBackend(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ch := New(store)
	submit(t, ch, "deployer", contract.OpInit, "10|1")
	submit(t, ch, "alice", contract.OpStart, "p1")
	ch.AdvanceBlocks(4)
	submit(t, ch, "p1", contract.OpPass, "p1") // self pass allowed by config

	rec := submit(t, ch, "anyone", contract.OpGet, "")
	require.NotNil(t, rec.Output)
	assert.Equal(t, "1|p1|alice|4|10|1|10|4|0", *rec.Output)
}

func TestChain_BlockProducer(t *testing.T) {
	mock := clock.NewMock()
	ch := New(NewMemStore(), WithClock(mock))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx, time.Second)

	// let the producer install its ticker before driving the mock
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		return ch.Height() >= 3
	}, time.Second, 10*time.Millisecond)
}

func TestChain_ManualAndTimedProductionMix(t *testing.T) {
	ch := New(NewMemStore())
	ch.AdvanceBlocks(5)
	ch.AdvanceBlocks(2)
	assert.Equal(t, uint64(7), ch.Height())
}
