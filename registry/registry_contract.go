package registry

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/veilpress/veilpress-contract/common"
)

type (
	// Profile structure stores metadata of each registered reviewer.
	Profile struct {
		Name         string
		Expertise    string
		Active       bool
		Authorized   bool
		ReviewCount  int
		Staked       int
		RegisteredAt int
	}

	record struct {
		key []byte
		val []byte
	}
)

const (
	// ErrAlreadyRegistered is returned on repeated registration attempt.
	ErrAlreadyRegistered = "reviewer already registered"
	// ErrInsufficientStake is returned when the registration stake is
	// below the configured minimum.
	ErrInsufficientStake = "insufficient registration stake"
	// ErrNotRegistered is returned on any operation over an unknown
	// reviewer account.
	ErrNotRegistered = "reviewer is not registered"

	// MinStakeKey is a key in registry config which contains the minimum
	// registration stake.
	MinStakeKey = "MinRegistrationStake"

	profilePrefix = 'p'
	balancePrefix = 'b'

	operatorKey       = 'm'
	awardsContractKey = 'c'

	maxTextLen = 100

	defaultMinStake = 2_0000_0000
)

var (
	configPrefix = []byte("config")
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
	awards := args[1].(interop.Hash160)
	if len(operator) != interop.Hash160Len {
		panic("incorrect operator script hash")
	}
	if len(awards) != interop.Hash160Len {
		panic("incorrect awards contract script hash")
	}

	storage.Put(ctx, []byte{operatorKey}, operator)
	storage.Put(ctx, []byte{awardsContractKey}, awards)

	setConfig(ctx, MinStakeKey, defaultMinStake)
	if len(args) > 2 {
		overrides := args[2].([]any)
		ln := len(overrides)
		if ln%2 != 0 {
			panic("bad configuration")
		}
		for i := 0; i < ln/2; i++ {
			setConfig(ctx, overrides[i*2].(string), overrides[i*2+1].(int))
		}
	}

	runtime.Log("registry contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// by committee only.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("registry contract updated")
}

// OnNEP17Payment accepts GAS deposits and credits the receiver's free
// balance. Data may contain a receiver script hash, otherwise the sender
// is credited.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if amount <= 0 {
		common.AbortWithMessage("amount must be positive")
	}

	caller := runtime.GetCallingScriptHash()
	if !common.BytesEqual(caller, []byte(gas.Hash)) {
		common.AbortWithMessage("only GAS can be accepted for deposit")
	}

	rcv := from
	if data != nil {
		h := data.(interop.Hash160)
		if len(h) == interop.Hash160Len {
			rcv = h
		}
	}

	ctx := storage.GetContext()
	common.Credit(ctx, balancePrefix, rcv, amount)

	tx := runtime.GetScriptContainer()
	runtime.Notify("Deposit", from, amount, rcv, tx.Hash)
}

// Register creates a reviewer profile and locks the registration stake as a
// participation bond. The stake is debited from the reviewer's free balance
// and has no withdrawal path for as long as the profile exists. The profile
// starts inactive; an operator approval is required before reviewing.
func Register(reviewer interop.Hash160, name string, expertise string, stake int) {
	common.CheckOwnerWitness(reviewer)

	if len(name) == 0 || len(name) > maxTextLen ||
		len(expertise) == 0 || len(expertise) > maxTextLen {
		panic("invalid profile text field")
	}

	ctx := storage.GetContext()
	if storage.Get(ctx, profileKey(reviewer)) != nil {
		panic(ErrAlreadyRegistered)
	}
	if stake < getConfig(ctx, MinStakeKey).(int) {
		panic(ErrInsufficientStake)
	}

	common.Debit(ctx, balancePrefix, reviewer, stake)

	p := Profile{
		Name:         name,
		Expertise:    expertise,
		Active:       false,
		Authorized:   false,
		ReviewCount:  0,
		Staked:       stake,
		RegisteredAt: runtime.GetTime(),
	}
	common.SetSerialized(ctx, profileKey(reviewer), p)

	runtime.Notify("ReviewerRegistered", reviewer, name)
}

// Approve activates and authorizes the reviewer. It can be invoked by the
// operator only.
func Approve(reviewer interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))

	p := getProfile(ctx, reviewer)
	p.Active = true
	p.Authorized = true
	common.SetSerialized(ctx, profileKey(reviewer), p)

	runtime.Notify("ReviewerApproved", reviewer)
}

// Revoke deactivates and deauthorizes the reviewer. It can be invoked by the
// operator only. The registration bond is not returned.
func Revoke(reviewer interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))

	p := getProfile(ctx, reviewer)
	p.Active = false
	p.Authorized = false
	common.SetSerialized(ctx, profileKey(reviewer), p)

	runtime.Notify("ReviewerRevoked", reviewer)
}

// IncrementReviewCount bumps the reviewer's review counter. It can be
// invoked by the awards contract only.
func IncrementReviewCount(reviewer interop.Hash160) {
	ctx := storage.GetContext()
	awards := storage.Get(ctx, []byte{awardsContractKey}).(interop.Hash160)
	if !runtime.GetCallingScriptHash().Equals(awards) {
		panic("method must be invoked by the awards contract")
	}

	p := getProfile(ctx, reviewer)
	p.ReviewCount = p.ReviewCount + 1
	common.SetSerialized(ctx, profileKey(reviewer), p)
}

// IsAuthorized returns whether the reviewer is registered, active and
// authorized to submit reviews.
func IsAuthorized(reviewer interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, profileKey(reviewer))
	if data == nil {
		return false
	}
	p := std.Deserialize(data.([]byte)).(Profile)
	return p.Active && p.Authorized
}

// GetReviewerProfile returns the stored reviewer profile.
//
// If the reviewer is not registered, it panics with ErrNotRegistered.
func GetReviewerProfile(reviewer interop.Hash160) Profile {
	ctx := storage.GetReadOnlyContext()
	return getProfile(ctx, reviewer)
}

// BalanceOf returns the free (unstaked) balance of the account.
func BalanceOf(acc interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.BalanceOf(ctx, balancePrefix, acc)
}

// Withdraw transfers GAS from the account's free balance back to the
// account. It can be invoked by the account owner only. The registration
// bond cannot be withdrawn.
func Withdraw(acc interop.Hash160, amount int) {
	common.CheckOwnerWitness(acc)

	ctx := storage.GetContext()
	common.Debit(ctx, balancePrefix, acc, amount)

	if !gas.Transfer(runtime.GetExecutingScriptHash(), acc, amount, nil) {
		panic("failed to transfer funds, aborting")
	}

	runtime.Notify("Withdrawal", acc, amount)
}

// SetConfig sets a configuration value. It can be invoked by the operator
// only.
func SetConfig(key []byte, val int) {
	ctx := storage.GetContext()
	common.CheckOperatorWitness(operatorAddress(ctx))
	setConfig(ctx, key, val)
	runtime.Log("configuration has been updated")
}

// Config returns a configuration value of the registry.
func Config(key []byte) any {
	ctx := storage.GetReadOnlyContext()
	return getConfig(ctx, key)
}

// ListConfig returns an array of structures that contain a key and a value
// of all registry configuration records. Key and value are both byte arrays.
func ListConfig() []record {
	ctx := storage.GetReadOnlyContext()

	var config []record

	it := storage.Find(ctx, configPrefix, storage.None)
	for iterator.Next(it) {
		pair := iterator.Value(it).(struct {
			key []byte
			val []byte
		})
		r := record{key: pair.key[len(configPrefix):], val: pair.val}
		config = append(config, r)
	}

	return config
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func operatorAddress(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, []byte{operatorKey}).(interop.Hash160)
}

func profileKey(reviewer interop.Hash160) []byte {
	return append([]byte{profilePrefix}, reviewer...)
}

func getProfile(ctx storage.Context, reviewer interop.Hash160) Profile {
	data := storage.Get(ctx, profileKey(reviewer))
	if data == nil {
		panic(ErrNotRegistered)
	}
	return std.Deserialize(data.([]byte)).(Profile)
}

func getConfig(ctx storage.Context, key any) any {
	postfix := key.([]byte)
	storageKey := append(configPrefix, postfix...)
	return storage.Get(ctx, storageKey)
}

func setConfig(ctx storage.Context, key, val any) {
	postfix := key.([]byte)
	storageKey := append(configPrefix, postfix...)
	storage.Put(ctx, storageKey, val)
}
