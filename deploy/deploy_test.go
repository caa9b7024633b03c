package deploy

import (
	"context"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
)

// satisfies Blockchain without a network connection; validation fails before
// any method is called.
type nopBlockchain struct {
	Blockchain
}

func TestDeployPrmValidation(t *testing.T) {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	_, err = Deploy(context.Background(), Prm{LocalAccount: acc})
	require.ErrorContains(t, err, "missing blockchain client")

	_, err = Deploy(context.Background(), Prm{Blockchain: nopBlockchain{}})
	require.ErrorContains(t, err, "missing local account")
}
