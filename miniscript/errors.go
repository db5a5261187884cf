package miniscript

import (
	"errors"
	"fmt"
)

// Sentinel validation errors that carry no payload.
var (
	// ErrMalleablePkH rejects pk_h under Legacy rules: the satisfaction
	// cost cannot be estimated at creation time because the revealed key
	// may be uncompressed.
	ErrMalleablePkH = errors.New("pk_h is malleable under Legacy rules")

	// ErrMalleableOrI rejects or_i under Legacy rules: non-minimal IF
	// admits multiple valid encodings.
	ErrMalleableOrI = errors.New("or_i is malleable under Legacy rules")

	// ErrMalleableDupIf rejects d: wrappers under Legacy rules, for the
	// same non-minimal IF reason.
	ErrMalleableDupIf = errors.New("dup_if is malleable under Legacy rules")

	// ErrUncompressedKeysNotAllowed rejects 65-byte keys in the segwit
	// and taproot contexts.
	ErrUncompressedKeysNotAllowed = errors.New(
		"uncompressed keys are not allowed in this context",
	)

	// ErrImpossibleSatisfaction marks a fragment with no satisfaction
	// path at all; its worst-case resource use is undefined.
	ErrImpossibleSatisfaction = errors.New(
		"impossible to satisfy miniscript under the current context",
	)

	// ErrTaprootMultiDisabled rejects the CHECKMULTISIG-based multi
	// fragment under taproot, where the opcode no longer exists.
	ErrTaprootMultiDisabled = errors.New(
		"multi is not allowed in taproot context",
	)

	// ErrMultiANotAllowed rejects the CHECKSIGADD-based multi_a fragment
	// outside taproot, where the opcode does not exist yet.
	ErrMultiANotAllowed = errors.New(
		"multi_a (CHECKSIGADD) is only allowed in taproot context",
	)

	// ErrMultipathDescLenMismatch is returned when two multipath keys in
	// one descriptor expand to different numbers of derivation paths.
	ErrMultipathDescLenMismatch = errors.New(
		"multipath keys in one descriptor must share the same number of derivation paths",
	)

	// ErrNonStandardBareScript is returned for a bare script whose root
	// is not pay-to-key, pay-to-key-hash, or a small multisig.
	ErrNonStandardBareScript = errors.New(
		"bare scripts must be pk, pkh, or multi with at most 3 keys",
	)
)

// XOnlyKeysNotAllowedError reports an x-only key in a context restricted to
// full keys.
type XOnlyKeysNotAllowedError struct {
	Key     string
	Context string
}

func (e XOnlyKeysNotAllowedError) Error() string {
	return fmt.Sprintf("x-only key %s not allowed in %s", e.Key, e.Context)
}

// MaxWitnessItemsExceededError reports a satisfaction path with too many
// witness stack items.
type MaxWitnessItemsExceededError struct {
	Actual int
	Limit  int
}

func (e MaxWitnessItemsExceededError) Error() string {
	return fmt.Sprintf(
		"at least one satisfaction path has %d witness items (limit: %d)",
		e.Actual, e.Limit,
	)
}

// MaxOpCountExceededError reports a satisfaction path executing too many
// opcodes.
type MaxOpCountExceededError struct {
	Actual int
	Limit  int
}

func (e MaxOpCountExceededError) Error() string {
	return fmt.Sprintf(
		"at least one satisfaction path executes %d opcodes (limit: %d)",
		e.Actual, e.Limit,
	)
}

// MaxWitnessScriptSizeExceededError reports a witness script over the
// context's ceiling.
type MaxWitnessScriptSizeExceededError struct {
	Max int
	Got int
}

func (e MaxWitnessScriptSizeExceededError) Error() string {
	return fmt.Sprintf(
		"witness script cannot be larger than %d bytes, got %d bytes",
		e.Max, e.Got,
	)
}

// MaxRedeemScriptSizeExceededError reports a P2SH redeem script over the
// 520-byte element ceiling.
type MaxRedeemScriptSizeExceededError struct {
	Max int
	Got int
}

func (e MaxRedeemScriptSizeExceededError) Error() string {
	return fmt.Sprintf(
		"redeem script cannot be larger than %d bytes, got %d bytes",
		e.Max, e.Got,
	)
}

// MaxBareScriptSizeExceededError reports a bare scriptPubKey over the script
// size ceiling.
type MaxBareScriptSizeExceededError struct {
	Max int
	Got int
}

func (e MaxBareScriptSizeExceededError) Error() string {
	return fmt.Sprintf(
		"bare script cannot be larger than %d bytes, got %d bytes",
		e.Max, e.Got,
	)
}

// MaxScriptSigSizeExceededError reports a scriptSig over the relay-policy
// ceiling.
type MaxScriptSigSizeExceededError struct {
	Actual int
	Limit  int
}

func (e MaxScriptSigSizeExceededError) Error() string {
	return fmt.Sprintf(
		"at least one satisfaction path has a %d byte scriptSig (limit: %d)",
		e.Actual, e.Limit,
	)
}

// StackSizeLimitExceededError reports a satisfaction path whose combined
// stack and exec-stack use exceeds the execution ceiling.
type StackSizeLimitExceededError struct {
	Actual int
	Limit  int
}

func (e StackSizeLimitExceededError) Error() string {
	return fmt.Sprintf(
		"stack size %d can exceed the limit %d in at least one script path",
		e.Actual, e.Limit,
	)
}

// NonTopLevelError reports a root node whose correctness class is not valid
// as a complete locking condition.
type NonTopLevelError struct {
	Fragment string
	Base     Base
}

func (e NonTopLevelError) Error() string {
	return fmt.Sprintf(
		"root fragment %s has type %c, expected B", e.Fragment, e.Base,
	)
}
