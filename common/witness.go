package common

import "github.com/nspcc-dev/neo-go/pkg/interop/runtime"

var (
	// ErrOperatorWitnessFailed appears when the method must be called
	// by the platform operator but was not.
	ErrOperatorWitnessFailed = "operator witness check failed"
	// ErrOwnerWitnessFailed appears when the method must be called
	// by an owner of some assets but was not.
	ErrOwnerWitnessFailed = "owner witness check failed"
	// ErrWitnessFailed appears when the method must be called
	// using a certain account but was not.
	ErrWitnessFailed = "witness check failed"
)

// CheckOperatorWitness checks witness of the operator account.
// It panics with ErrOperatorWitnessFailed message on fail.
func CheckOperatorWitness(operator []byte) {
	checkWitnessWithPanic(operator, ErrOperatorWitnessFailed)
}

// CheckOwnerWitness checks witness of the passed caller.
// It panics with ErrOwnerWitnessFailed message on fail.
func CheckOwnerWitness(caller []byte) {
	checkWitnessWithPanic(caller, ErrOwnerWitnessFailed)
}

// CheckWitness checks witness of the passed caller.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(caller []byte) {
	checkWitnessWithPanic(caller, ErrWitnessFailed)
}

func checkWitnessWithPanic(caller []byte, panicMsg string) {
	if !runtime.CheckWitness(caller) {
		panic(panicMsg)
	}
}
