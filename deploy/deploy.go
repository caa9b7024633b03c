// Package deploy provides VeilPress platform deployment routine.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for VeilPress deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to
	// the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown
	// contract' substring if the requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// CipherContractPrm groups deployment parameters of the Cipher contract.
type CipherContractPrm struct {
	Common CommonDeployPrm

	// Account of the off-chain decryption oracle.
	Oracle util.Uint160
}

// RegistryContractPrm groups deployment parameters of the Registry contract.
type RegistryContractPrm struct {
	Common CommonDeployPrm

	// Optional config override pairs passed to _deploy.
	Config []any
}

// AwardsContractPrm groups deployment parameters of the Awards contract.
type AwardsContractPrm struct {
	Common CommonDeployPrm

	// Optional config override pairs passed to _deploy.
	Config []any
}

// Prm groups all parameters of the VeilPress deployment procedure.
type Prm struct {
	// Writes progress into the log. Defaults to a no-op logger.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy to.
	Blockchain Blockchain

	// Local account acting as the platform operator (must be unlocked).
	LocalAccount *wallet.Account

	Cipher   CipherContractPrm
	Registry RegistryContractPrm
	Awards   AwardsContractPrm
}

// Contracts groups addresses of the deployed VeilPress contracts.
type Contracts struct {
	Cipher   util.Uint160
	Registry util.Uint160
	Awards   util.Uint160
}

// Deploy deploys the three VeilPress contracts to the Neo network represented
// by given Prm.Blockchain and returns their addresses. The registry and
// awards contracts reference each other, so both addresses are precomputed
// from the compiled artifacts before anything is sent. Contracts already
// present on the chain are left untouched, which makes Deploy safe to re-run
// after a partial failure.
func Deploy(ctx context.Context, prm Prm) (Contracts, error) {
	var res Contracts

	l := prm.Logger
	if l == nil {
		l = zap.NewNop()
	}

	switch {
	case prm.Blockchain == nil:
		return res, errors.New("missing blockchain client")
	case prm.LocalAccount == nil:
		return res, errors.New("missing local account")
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return res, fmt.Errorf("init actor: %w", err)
	}

	operator := prm.LocalAccount.ScriptHash()

	res.Cipher = contractAddress(operator, prm.Cipher.Common)
	res.Registry = contractAddress(operator, prm.Registry.Common)
	res.Awards = contractAddress(operator, prm.Awards.Common)

	for _, c := range []struct {
		name   string
		hash   util.Uint160
		common CommonDeployPrm
		data   []any
	}{
		{
			name:   "cipher",
			hash:   res.Cipher,
			common: prm.Cipher.Common,
			data:   []any{operator, prm.Cipher.Oracle},
		},
		{
			name:   "registry",
			hash:   res.Registry,
			common: prm.Registry.Common,
			data:   []any{operator, res.Awards, prm.Registry.Config},
		},
		{
			name:   "awards",
			hash:   res.Awards,
			common: prm.Awards.Common,
			data:   []any{operator, res.Registry, res.Cipher, prm.Awards.Config},
		},
	} {
		err = deployContract(ctx, l, prm.Blockchain, act, c.name, c.hash, c.common, c.data)
		if err != nil {
			return res, fmt.Errorf("deploy %s contract: %w", c.name, err)
		}
	}

	return res, nil
}

func deployContract(ctx context.Context, l *zap.Logger, b Blockchain, act *actor.Actor,
	name string, expected util.Uint160, common CommonDeployPrm, data []any) error {
	_, err := b.GetContractStateByHash(expected)
	if err == nil {
		l.Info("contract is already deployed, skip",
			zap.String("name", name), zap.Stringer("address", expected))
		return nil
	}
	if !isErrContractNotFound(err) {
		return fmt.Errorf("get contract state: %w", err)
	}

	l.Info("deploying contract...",
		zap.String("name", name), zap.Stringer("address", expected))

	mgmt := management.New(act)
	txHash, vub, err := mgmt.Deploy(&common.NEF, &common.Manifest, data)
	if err != nil {
		return fmt.Errorf("send deployment transaction: %w", err)
	}

	aer, err := act.Wait(txHash, vub, nil)
	if err != nil {
		return fmt.Errorf("wait for deployment transaction: %w", err)
	}
	if aer.VMState != vmstate.Halt {
		return fmt.Errorf("deployment transaction faulted: %s", aer.FaultException)
	}

	l.Info("contract has been deployed",
		zap.String("name", name), zap.Stringer("address", expected))
	return nil
}

func contractAddress(sender util.Uint160, common CommonDeployPrm) util.Uint160 {
	return state.CreateContractHash(sender, common.NEF.Checksum, common.Manifest.Name)
}

func isErrContractNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unknown contract")
}
