package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/veilpress/veilpress-contract/cipher"
	"github.com/veilpress/veilpress-contract/common"
)

func (p *platform) encryptAs(t *testing.T, acc neotest.Signer, value int64) []byte {
	tx := p.cipher.WithSigners(acc).PrepareInvoke(t, "encrypt", acc.ScriptHash(), value)
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	h, err := aer.Stack[0].TryBytes()
	require.NoError(t, err)
	return h
}

func TestCipherEncryptReveal(t *testing.T) {
	p := newPlatform(t)
	owner := p.e.NewAccount(t)
	stranger := p.e.NewAccount(t)

	// encrypting on behalf of somebody else requires their witness
	p.cipher.WithSigners(stranger).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"encrypt", owner.ScriptHash(), int64(42))

	h := p.encryptAs(t, owner, 42)

	item := signedInvoke(t, p.e, p.cipher.WithSigners(owner), "reveal", h, owner.ScriptHash())
	v, err := item.TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 42, v.Int64())

	p.cipher.WithSigners(stranger).InvokeFail(t, cipher.ErrNotAllowed,
		"reveal", h, stranger.ScriptHash())
	// witness of the named principal is mandatory
	p.cipher.WithSigners(stranger).InvokeFail(t, common.ErrWitnessFailed,
		"reveal", h, owner.ScriptHash())

	// the oracle can reveal anything
	require.EqualValues(t, 42, p.reveal(t, h))

	// explicit grant
	p.cipher.WithSigners(owner).Invoke(t, stackitem.Null{}, "allow", h, stranger.ScriptHash())
	item = signedInvoke(t, p.e, p.cipher.WithSigners(stranger), "reveal", h, stranger.ScriptHash())
	v, err = item.TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 42, v.Int64())

	p.cipher.WithSigners(owner).InvokeFail(t, cipher.ErrUnknownHandle,
		"reveal", randomBytes(32), owner.ScriptHash())
}

func TestCipherCheckRange(t *testing.T) {
	p := newPlatform(t)
	owner := p.e.NewAccount(t)
	stranger := p.e.NewAccount(t)

	h := p.encryptAs(t, owner, 77)

	cOwner := p.cipher.WithSigners(owner)
	cOwner.Invoke(t, stackitem.NewBool(true), "checkRange", h, int64(1), int64(100))
	cOwner.Invoke(t, stackitem.NewBool(false), "checkRange", h, int64(1), int64(50))

	// range attestations cannot be used to probe foreign values
	p.cipher.WithSigners(stranger).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"checkRange", h, int64(1), int64(100))
}

func TestCipherAddMul(t *testing.T) {
	p := newPlatform(t)
	owner := p.e.NewAccount(t)

	a := p.encryptAs(t, owner, 2)
	b := p.encryptAs(t, owner, 3)

	derive := func(method string) []byte {
		tx := p.cipher.WithSigners(owner).PrepareInvoke(t, method, a, b)
		p.e.AddNewBlock(t, tx)
		aer := p.e.CheckHalt(t, tx.Hash())
		h, err := aer.Stack[0].TryBytes()
		require.NoError(t, err)
		return h
	}

	sum := derive("add")
	require.EqualValues(t, 5, p.reveal(t, sum))

	product := derive("mul")
	require.EqualValues(t, 6, p.reveal(t, product))

	p.cipher.WithSigners(owner).InvokeFail(t, cipher.ErrUnknownHandle,
		"add", a, randomBytes(32))

	// a foreign handle cannot be laundered into an owned one through
	// derivation: encrypt-zero/add/reveal must not disclose a's value
	stranger := p.e.NewAccount(t)
	zero := p.encryptAs(t, stranger, 0)
	cStranger := p.cipher.WithSigners(stranger)
	cStranger.InvokeFail(t, cipher.ErrNotAllowed, "add", a, zero)
	cStranger.InvokeFail(t, cipher.ErrNotAllowed, "mul", a, zero)
	cStranger.InvokeFail(t, cipher.ErrNotAllowed, "requestDecryption", []interface{}{a})

	// an Allow grant opens derivation the same way it opens reveal, but
	// only through the granted script
	p.cipher.WithSigners(owner).Invoke(t, stackitem.Null{}, "allow", a, stranger.ScriptHash())
	cStranger.InvokeFail(t, cipher.ErrNotAllowed, "add", a, zero)
}

func TestCipherRequestDecryption(t *testing.T) {
	p := newPlatform(t)
	owner := p.e.NewAccount(t)

	h := p.encryptAs(t, owner, 240)

	p.cipher.WithSigners(owner).InvokeFail(t, cipher.ErrUnknownHandle,
		"requestDecryption", []interface{}{h, randomBytes(32)})

	tx := p.cipher.WithSigners(owner).PrepareInvoke(t, "requestDecryption", []interface{}{h})
	p.e.AddNewBlock(t, tx)
	aer := p.e.CheckHalt(t, tx.Hash())
	reqID, err := aer.Stack[0].TryBytes()
	require.NoError(t, err)
	require.NotNil(t, findEvent(aer, "DecryptionRequested"))

	s, err := p.cipher.TestInvoke(t, "getRequest", reqID)
	require.NoError(t, err)
	require.Len(t, s.Pop().Array(), 3)

	proof := decryptionProof(reqID, 240)

	verify := func(signer neotest.Signer, value int64, proof []byte) bool {
		item := signedInvoke(t, p.e, p.cipher.WithSigners(signer),
			"verifyDecryptionProof", reqID, value, proof)
		ok, err := item.TryBool()
		require.NoError(t, err)
		return ok
	}

	// correct proof, oracle witness
	require.True(t, verify(p.oracle, 240, proof))
	// correct proof, no oracle witness
	require.False(t, verify(owner, 240, proof))
	// broken proof
	require.False(t, verify(p.oracle, 241, proof))

	p.cipher.WithSigners(p.oracle).InvokeFail(t, cipher.ErrUnknownRequest,
		"verifyDecryptionProof", randomBytes(32), int64(240), proof)
}

func TestCipherSetOracle(t *testing.T) {
	p := newPlatform(t)
	acc := p.e.NewAccount(t)

	p.cipher.WithSigners(acc).InvokeFail(t, common.ErrOperatorWitnessFailed,
		"setOracle", acc.ScriptHash())

	p.cipher.Invoke(t, stackitem.Null{}, "setOracle", acc.ScriptHash())

	s, err := p.cipher.TestInvoke(t, "oracle")
	require.NoError(t, err)
	b, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, acc.ScriptHash().BytesBE(), b)
}
