package cipher

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/veilpress/veilpress-contract/common"
)

type (
	// Request contains the lifecycle data of one decryption request.
	Request struct {
		Handles     [][]byte
		Requester   interop.Hash160
		RequestedAt int
	}
)

const (
	// ErrUnknownHandle is returned on any operation over a handle that
	// was never produced by this contract.
	ErrUnknownHandle = "unknown handle"
	// ErrUnknownRequest is returned on proof verification for a request
	// that was never registered.
	ErrUnknownRequest = "unknown decryption request"
	// ErrNotAllowed is returned when the principal has no reveal grant
	// for the handle.
	ErrNotAllowed = "principal is not allowed to reveal handle"

	valuePrefix   = 'v'
	ownerPrefix   = 'w'
	allowPrefix   = 'a'
	requestPrefix = 'q'

	nonceKey    = 'n'
	oracleKey   = 'k'
	operatorKey = 'm'

	handleSize = interop.Hash256Len
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	args := data.([]any)
	if isUpdate {
		version := args[len(args)-1].(int)
		common.CheckVersion(version)
		return
	}

	operator := args[0].(interop.Hash160)
	oracle := args[1].(interop.Hash160)
	if len(operator) != interop.Hash160Len {
		panic("incorrect operator script hash")
	}
	if len(oracle) != interop.Hash160Len {
		panic("incorrect oracle script hash")
	}

	storage.Put(ctx, []byte{operatorKey}, operator)
	storage.Put(ctx, []byte{oracleKey}, oracle)

	runtime.Log("cipher contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// by committee only.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("cipher contract updated")
}

// Encrypt stores the value under a fresh opaque handle owned by the given
// account and returns the handle. The owner must witness the transaction
// unless the method is invoked by the owner contract itself.
func Encrypt(owner interop.Hash160, value int) []byte {
	if len(owner) != interop.Hash160Len {
		panic("incorrect owner script hash")
	}
	checkOwnerAccess(owner)

	ctx := storage.GetContext()
	h := newHandle(ctx)
	storage.Put(ctx, append([]byte{valuePrefix}, h...), value)
	storage.Put(ctx, append([]byte{ownerPrefix}, h...), owner)
	return h
}

// Add derives a new handle holding the sum of the two handle values. The
// derived handle is owned by the calling script. Both operands must be
// accessible to the caller: owned by it, granted via Allow or carried in a
// transaction witnessed by their owner. Otherwise a foreign value could be
// laundered into a handle the caller is free to reveal.
func Add(a []byte, b []byte) []byte {
	ctx := storage.GetContext()
	requireHandleAccess(ctx, a)
	requireHandleAccess(ctx, b)
	sum := valueOf(ctx, a) + valueOf(ctx, b)
	return putDerived(ctx, sum)
}

// Mul derives a new handle holding the product of the two handle values. The
// derived handle is owned by the calling script. Operand access rules are
// the same as in Add.
func Mul(a []byte, b []byte) []byte {
	ctx := storage.GetContext()
	requireHandleAccess(ctx, a)
	requireHandleAccess(ctx, b)
	product := valueOf(ctx, a) * valueOf(ctx, b)
	return putDerived(ctx, product)
}

// Allow grants the principal the right to reveal the handle value. It can be
// invoked by the handle owner only.
func Allow(handle []byte, principal interop.Hash160) {
	if len(principal) != interop.Hash160Len {
		panic("incorrect principal script hash")
	}
	ctx := storage.GetContext()
	checkOwnerAccess(ownerOf(ctx, handle))
	storage.Put(ctx, allowKey(handle, principal), []byte{1})
}

// CheckRange returns whether the handle value lies in [lo, hi]. It stands in
// for a client-side range proof, so it can be invoked by the handle owner
// only: the attestation is produced within the owner's own transaction and
// the method cannot be used to probe foreign values.
func CheckRange(handle []byte, lo int, hi int) bool {
	ctx := storage.GetReadOnlyContext()
	checkOwnerAccess(ownerOf(ctx, handle))
	v := valueOf(ctx, handle)
	return v >= lo && v <= hi
}

// Reveal returns the plaintext value of the handle. The principal must
// witness the transaction and be either the designated oracle, the handle
// owner or a principal with an Allow grant.
func Reveal(handle []byte, principal interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	v := valueOf(ctx, handle)

	common.CheckWitness(principal)

	oracle := storage.Get(ctx, []byte{oracleKey}).(interop.Hash160)
	if principal.Equals(oracle) || principal.Equals(ownerOf(ctx, handle)) {
		return v
	}
	if storage.Get(ctx, allowKey(handle, principal)) == nil {
		panic(ErrNotAllowed)
	}
	return v
}

// RequestDecryption registers a decryption request for the given handles and
// produces DecryptionRequested notification for the oracle. The oracle is
// expected to reveal the values, combine them and deliver the cleartext to
// the requester together with a proof that VerifyDecryptionProof accepts.
// Every handle must be accessible to the caller under the Add operand rules:
// the request discloses the combined cleartext to the requester.
func RequestDecryption(handles [][]byte) []byte {
	ctx := storage.GetContext()
	for i := 0; i < len(handles); i++ {
		requireHandleAccess(ctx, handles[i])
	}

	id := newHandle(ctx)
	req := Request{
		Handles:     handles,
		Requester:   runtime.GetCallingScriptHash(),
		RequestedAt: runtime.GetTime(),
	}
	common.SetSerialized(ctx, append([]byte{requestPrefix}, id...), req)

	runtime.Notify("DecryptionRequested", id, handles)
	return id
}

// VerifyDecryptionProof returns true iff the request is known, the
// transaction carries the witness of the designated oracle and the proof
// binds the cleartext to the request identifier.
func VerifyDecryptionProof(requestID []byte, value int, proof []byte) bool {
	ctx := storage.GetReadOnlyContext()
	if storage.Get(ctx, append([]byte{requestPrefix}, requestID...)) == nil {
		panic(ErrUnknownRequest)
	}

	oracle := storage.Get(ctx, []byte{oracleKey}).(interop.Hash160)
	if !runtime.CheckWitness(oracle) {
		return false
	}

	expected := crypto.Sha256(append(requestID, convert.ToBytes(value)...))
	return common.BytesEqual(expected, proof)
}

// GetRequest returns the stored decryption request.
func GetRequest(requestID []byte) Request {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, append([]byte{requestPrefix}, requestID...))
	if data == nil {
		panic(ErrUnknownRequest)
	}
	return std.Deserialize(data.([]byte)).(Request)
}

// Oracle returns the designated decryption oracle account.
func Oracle() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, []byte{oracleKey}).(interop.Hash160)
}

// SetOracle replaces the designated decryption oracle account. It can be
// invoked by the operator only.
func SetOracle(oracle interop.Hash160) {
	if len(oracle) != interop.Hash160Len {
		panic("incorrect oracle script hash")
	}
	ctx := storage.GetContext()
	operator := storage.Get(ctx, []byte{operatorKey}).(interop.Hash160)
	common.CheckOperatorWitness(operator)
	storage.Put(ctx, []byte{oracleKey}, oracle)
	runtime.Log("decryption oracle updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func newHandle(ctx storage.Context) []byte {
	var nonce int
	data := storage.Get(ctx, []byte{nonceKey})
	if data != nil {
		nonce = data.(int)
	}
	storage.Put(ctx, []byte{nonceKey}, nonce+1)

	seed := convert.ToBytes(runtime.GetRandom())
	seed = append(seed, convert.ToBytes(nonce)...)
	return crypto.Sha256(seed)
}

func putDerived(ctx storage.Context, value int) []byte {
	h := newHandle(ctx)
	storage.Put(ctx, append([]byte{valuePrefix}, h...), value)
	storage.Put(ctx, append([]byte{ownerPrefix}, h...), runtime.GetCallingScriptHash())
	return h
}

func valueOf(ctx storage.Context, handle []byte) int {
	if len(handle) != handleSize {
		panic(ErrUnknownHandle)
	}
	data := storage.Get(ctx, append([]byte{valuePrefix}, handle...))
	if data == nil {
		panic(ErrUnknownHandle)
	}
	return data.(int)
}

func ownerOf(ctx storage.Context, handle []byte) interop.Hash160 {
	data := storage.Get(ctx, append([]byte{ownerPrefix}, handle...))
	if data == nil {
		panic(ErrUnknownHandle)
	}
	return data.(interop.Hash160)
}

func allowKey(handle []byte, principal interop.Hash160) []byte {
	key := append([]byte{allowPrefix}, handle...)
	return append(key, principal...)
}

func checkOwnerAccess(owner interop.Hash160) {
	if runtime.GetCallingScriptHash().Equals(owner) {
		return
	}
	common.CheckOwnerWitness(owner)
}

// requireHandleAccess lets the handle be used as a derivation or decryption
// operand by its owner script, by a caller with an Allow grant or within a
// transaction witnessed by the owner. Unknown handles panic with
// ErrUnknownHandle.
func requireHandleAccess(ctx storage.Context, handle []byte) {
	owner := ownerOf(ctx, handle)
	caller := runtime.GetCallingScriptHash()
	if caller.Equals(owner) {
		return
	}
	if storage.Get(ctx, allowKey(handle, caller)) != nil {
		return
	}
	if !runtime.CheckWitness(owner) {
		panic(ErrNotAllowed)
	}
}
