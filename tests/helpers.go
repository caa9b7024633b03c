package tests

import (
	"math/rand"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func randomBytes(n int) []byte {
	a := make([]byte, n)
	rand.Read(a) //nolint:staticcheck // SA1019: rand.Read has been deprecated since Go 1.20
	return a
}

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// tests contract's 'verify' method checking whether carrier transaction is
// signed by the platform operator.
func testVerify(t testing.TB, contract *neotest.ContractInvoker) {
	const method = "verify"
	contract.Invoke(t, stackitem.NewBool(true), method)
	contract.WithSigners(contract.NewAccount(t)).Invoke(t, stackitem.NewBool(false), method)
}

// signedInvoke runs the method through a signed transaction, so that witness
// checks inside the contract see the transaction signers (test invocations
// without a block carry none), and returns the single resulting stack item.
func signedInvoke(t *testing.T, e *neotest.Executor, c *neotest.ContractInvoker, method string, args ...interface{}) stackitem.Item {
	tx := c.PrepareInvoke(t, method, args...)
	e.AddNewBlock(t, tx)
	aer := e.CheckHalt(t, tx.Hash())
	require.Len(t, aer.Stack, 1)
	return aer.Stack[0]
}

// listConfigRecord looks up a single key in the contract's 'listConfig'
// output and returns its raw value.
func listConfigRecord(t *testing.T, contract *neotest.ContractInvoker, key string) []byte {
	s, err := contract.TestInvoke(t, "listConfig")
	require.NoError(t, err)

	for _, item := range s.Pop().Array() {
		pair := item.Value().([]stackitem.Item)

		k, err := pair[0].TryBytes()
		require.NoError(t, err)

		if string(k) == key {
			v, err := pair[1].TryBytes()
			require.NoError(t, err)
			return v
		}
	}

	t.Fatalf("configuration record %q is missing", key)
	return nil
}

func findEvent(aer *state.AppExecResult, name string) *state.NotificationEvent {
	for i := range aer.Events {
		if aer.Events[i].Name == name {
			return &aer.Events[i]
		}
	}
	return nil
}
