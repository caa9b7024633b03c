package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// ErrInsufficientBalance appears when an escrow account cannot cover
// a requested debit.
const ErrInsufficientBalance = "insufficient escrow balance"

// BalanceOf returns the escrow balance of the account stored under the
// given prefix, 0 for unknown accounts.
func BalanceOf(ctx storage.Context, prefix byte, acc interop.Hash160) int {
	data := storage.Get(ctx, append([]byte{prefix}, acc...))
	if data == nil {
		return 0
	}
	return data.(int)
}

// Credit increases the escrow balance of the account.
func Credit(ctx storage.Context, prefix byte, acc interop.Hash160, amount int) {
	if amount <= 0 {
		panic("non positive amount number")
	}
	balance := BalanceOf(ctx, prefix, acc)
	storage.Put(ctx, append([]byte{prefix}, acc...), balance+amount)
}

// Debit decreases the escrow balance of the account. It panics with
// ErrInsufficientBalance if the account cannot cover the amount.
func Debit(ctx storage.Context, prefix byte, acc interop.Hash160, amount int) {
	if amount <= 0 {
		panic("non positive amount number")
	}
	balance := BalanceOf(ctx, prefix, acc)
	if balance < amount {
		panic(ErrInsufficientBalance)
	}
	key := append([]byte{prefix}, acc...)
	if balance == amount {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, balance-amount)
	}
}
