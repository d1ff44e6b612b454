package tests

import (
	"testing"

	istorage "github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const dayMs = 86_400_000

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// advanceChainDays produces an empty block dated the given number of days
// after the current top one. Deadlines are data, so crossing a bounty's
// review or voting window is just block production.
func advanceChainDays(t *testing.T, e *neotest.Executor, days int) {
	advanceChainMs(t, e, uint64(days)*dayMs)
}

func advanceChainMs(t *testing.T, e *neotest.Executor, ms uint64) {
	b := e.NewUnsignedBlock(t)
	b.Timestamp += ms
	e.SignBlock(b)
	require.NoError(t, e.Chain.AddBlock(b))
}

// topBlockTime returns the timestamp contract code observed via
// runtime.GetTime in the most recent block.
func topBlockTime(t *testing.T, e *neotest.Executor) uint64 {
	return e.TopBlock(t).Timestamp
}

func gasBalance(t *testing.T, e *neotest.Executor, acc util.Uint160) int64 {
	return e.Chain.GetUtilityTokenBalance(acc).Int64()
}

// structItems unpacks a struct returned by a safe method into its field
// stack items.
func structItems(t *testing.T, inv *neotest.ContractInvoker, method string, args ...any) []stackitem.Item {
	stack, err := inv.TestInvoke(t, method, args...)
	require.NoError(t, err)
	require.Equal(t, 1, stack.Len())

	items, ok := stack.Pop().Item().Value().([]stackitem.Item)
	require.True(t, ok)
	return items
}

func itemInt(t *testing.T, item stackitem.Item) int64 {
	i, err := item.TryInteger()
	require.NoError(t, err)
	return i.Int64()
}

func itemBool(t *testing.T, item stackitem.Item) bool {
	b, err := item.TryBool()
	require.NoError(t, err)
	return b
}

func itemBytes(t *testing.T, item stackitem.Item) []byte {
	b, err := item.TryBytes()
	require.NoError(t, err)
	return b
}

// checkLastEvent checks that the last notification of the transaction has
// the expected name and arguments. The contract's own notification always
// comes after any Transfer ones the GAS contract produced along the way.
func checkLastEvent(t *testing.T, e *neotest.Executor, txHash util.Uint256, name string, args ...stackitem.Item) {
	aer := e.CheckHalt(t, txHash)
	require.NotEmpty(t, aer.Events)

	ev := aer.Events[len(aer.Events)-1]
	require.Equal(t, name, ev.Name)
	require.Equal(t, stackitem.NewArray(args), ev.Item)
}

func iterateAll(t *testing.T, inv *neotest.ContractInvoker, method string, args ...any) []stackitem.Item {
	stack, err := inv.TestInvoke(t, method, args...)
	require.NoError(t, err)

	iter, ok := stack.Pop().Value().(*istorage.Iterator)
	require.True(t, ok)

	items := make([]stackitem.Item, 0)
	for iter.Next() {
		items = append(items, iter.Value())
	}
	return items
}
