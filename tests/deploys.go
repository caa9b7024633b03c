package tests

import (
	"crypto/sha256"
	"math/big"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	awardsPath   = "../awards"
	registryPath = "../registry"
	cipherPath   = "../cipher"

	workDeposit       = 1_0000_0000
	platformFee       = 100_0000
	reviewStake       = 5000_0000
	registrationStake = 2_0000_0000
)

// platform bundles the three deployed contracts together with the accounts
// driving them in tests. The committee acts as the platform operator.
type platform struct {
	e        *neotest.Executor
	awards   *neotest.ContractInvoker
	registry *neotest.ContractInvoker
	cipher   *neotest.ContractInvoker
	oracle   neotest.Signer

	awardsHash   util.Uint160
	registryHash util.Uint160
	cipherHash   util.Uint160
}

// newPlatform compiles and deploys the cipher, registry and awards contracts.
// The registry and awards contracts reference each other, so both hashes are
// precomputed from the compiled artifacts before deployment. Config pairs are
// passed through to the awards contract _deploy.
func newPlatform(t *testing.T, config ...interface{}) *platform {
	e := newExecutor(t)

	ctrAwards := neotest.CompileFile(t, e.CommitteeHash, awardsPath, path.Join(awardsPath, "config.yml"))
	ctrRegistry := neotest.CompileFile(t, e.CommitteeHash, registryPath, path.Join(registryPath, "config.yml"))
	ctrCipher := neotest.CompileFile(t, e.CommitteeHash, cipherPath, path.Join(cipherPath, "config.yml"))

	oracle := e.NewAccount(t)

	e.DeployContract(t, ctrCipher, []interface{}{e.CommitteeHash, oracle.ScriptHash()})
	e.DeployContract(t, ctrRegistry, []interface{}{e.CommitteeHash, ctrAwards.Hash})
	e.DeployContract(t, ctrAwards, []interface{}{
		e.CommitteeHash, ctrRegistry.Hash, ctrCipher.Hash,
		append([]interface{}{}, config...),
	})

	return &platform{
		e:        e,
		awards:   e.CommitteeInvoker(ctrAwards.Hash),
		registry: e.CommitteeInvoker(ctrRegistry.Hash),
		cipher:   e.CommitteeInvoker(ctrCipher.Hash),
		oracle:   oracle,

		awardsHash:   ctrAwards.Hash,
		registryHash: ctrRegistry.Hash,
		cipherHash:   ctrCipher.Hash,
	}
}

// depositGAS transfers GAS from the account to the given contract, crediting
// the account's escrow balance there.
func (p *platform) depositGAS(t *testing.T, to util.Uint160, acc neotest.Signer, amount int64) {
	gasInv := p.e.NewInvoker(p.e.NativeHash(t, nativenames.Gas), acc)
	gasInv.Invoke(t, true, "transfer", acc.ScriptHash(), to, amount, nil)
}

// newReviewer creates a funded account, registers it in the registry and
// approves it as a reviewer.
func (p *platform) newReviewer(t *testing.T) neotest.Signer {
	acc := p.e.NewAccount(t)
	p.depositGAS(t, p.registryHash, acc, registrationStake)
	p.registry.WithSigners(acc).Invoke(t, stackitem.Null{}, "register",
		acc.ScriptHash(), "Jo Laurence", "modern poetry", int64(registrationStake))
	p.registry.Invoke(t, stackitem.Null{}, "approve", acc.ScriptHash())
	return acc
}

// openReviewWindow collapses the submission window to zero so that the rest
// of the cycle counts as the review half, then seals the current submission
// period for reviewing.
func (p *platform) openReviewWindow(t *testing.T) {
	p.awards.Invoke(t, stackitem.Null{}, "setConfig", "SubmissionWindowMs", int64(0))
	p.awards.Invoke(t, stackitem.Null{}, "advanceReviewPeriod")
}

// submitWork funds the author's escrow and submits a work into the current
// submission period, returning the assigned work id.
func (p *platform) submitWork(t *testing.T, author neotest.Signer, genre int64) int64 {
	p.depositGAS(t, p.awardsHash, author, workDeposit+platformFee)
	tx := p.awards.WithSigners(author).PrepareInvoke(t, "submitWork",
		author.ScriptHash(), "The Glass Meridian", genre, "arweave:8yD1kK", int64(workDeposit))
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	id, err := aer.Stack[0].TryInteger()
	require.NoError(t, err)
	return id.Int64()
}

// submitReview funds the reviewer's escrow and submits a plaintext-scored
// review for the work of the current review period.
func (p *platform) submitReview(t *testing.T, reviewer neotest.Signer, workID, quality, originality, impact int64) {
	p.depositGAS(t, p.awardsHash, reviewer, reviewStake)
	p.awards.WithSigners(reviewer).Invoke(t, stackitem.Null{}, "submitReview",
		reviewer.ScriptHash(), workID, quality, originality, impact, "tight imagery", int64(reviewStake))
}

// requestDecryption issues an operator decryption request for the work and
// returns the request id.
func (p *platform) requestDecryption(t *testing.T, period, workID int64) []byte {
	tx := p.awards.PrepareInvoke(t, "requestDecryption", period, workID)
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	id, err := aer.Stack[0].TryBytes()
	require.NoError(t, err)
	return id
}

// workAggregate fetches the encrypted aggregate handle stored on the work.
func (p *platform) workAggregate(t *testing.T, period, workID int64) []byte {
	s, err := p.awards.TestInvoke(t, "getWork", period, workID)
	require.NoError(t, err)
	h, err := s.Pop().Array()[9].TryBytes()
	require.NoError(t, err)
	return h
}

// reveal reads the plaintext behind the handle under the oracle's witness.
func (p *platform) reveal(t *testing.T, handle []byte) int64 {
	item := signedInvoke(t, p.e, p.cipher.WithSigners(p.oracle),
		"reveal", handle, p.oracle.ScriptHash())
	v, err := item.TryInteger()
	require.NoError(t, err)
	return v.Int64()
}

// reviewMultiplier fetches the encrypted multiplier handle of the review.
func (p *platform) reviewMultiplier(t *testing.T, period, workID int64, reviewer neotest.Signer) []byte {
	s, err := p.awards.TestInvoke(t, "getReview", period, workID, reviewer.ScriptHash())
	require.NoError(t, err)
	h, err := s.Pop().Array()[4].TryBytes()
	require.NoError(t, err)
	return h
}

// completeDecryption plays the oracle: it reveals the work's aggregate,
// builds the proof and delivers the cleartext through the callback. Returns
// the decrypted value.
func (p *platform) completeDecryption(t *testing.T, period, workID int64, requestID []byte) int64 {
	value := p.reveal(t, p.workAggregate(t, period, workID))
	proof := decryptionProof(requestID, value)
	p.awards.WithSigners(p.oracle).Invoke(t, stackitem.Null{},
		"onDecryptionCallback", requestID, value, proof)
	return value
}

func decryptionProof(requestID []byte, value int64) []byte {
	data := append([]byte{}, requestID...)
	data = append(data, bigint.ToBytes(big.NewInt(value))...)
	h := sha256.Sum256(data)
	return h[:]
}
