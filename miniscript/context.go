package miniscript

import (
	"github.com/btcsuite/btcd/wire"
)

// SigType is the signature algorithm a context expects during satisfaction.
type SigType int

const (
	SigTypeEcdsa SigType = iota
	SigTypeSchnorr
)

func (s SigType) String() string {
	if s == SigTypeSchnorr {
		return "schnorr"
	}
	return "ecdsa"
}

// Context is the capability contract of one script execution environment.
// Each context supplies its own numeric limits, key-type rules and
// malleability rules; the composition of those leaf checks into validation
// pipelines is shared (CheckGlobalValidity, CheckLocalValidity,
// TopLevelChecks below).
//
// The set of contexts is closed: Legacy, Segwitv0, Tap, Bare and NoChecks.
// The unexported method prevents implementations outside this package, so
// the validation matrix stays exhaustive.
type Context interface {
	// CheckTerminalNonMalleable rejects fragment shapes that admit
	// multiple valid third-party-modifiable encodings in this context.
	// It does not recurse: validation proceeds leaf to root, so each
	// node is checked exactly once.
	CheckTerminalNonMalleable(n *Node) error

	// CheckWitness bounds a concrete satisfaction witness against the
	// context's stack-item or scriptSig ceilings.
	CheckWitness(witness wire.TxWitness) error

	// CheckPk gates key types: some contexts forbid uncompressed keys,
	// some forbid x-only keys.
	CheckPk(k Key) error

	// CheckGlobalConsensusValidity runs the non-recursive single-node
	// consensus checks: disallowed fragment kinds, per-fragment key
	// gates, and the hard script-size ceiling.
	CheckGlobalConsensusValidity(n *Node) error

	// CheckGlobalPolicyValidity runs the tighter relay-policy ceiling
	// over the same single-node view.
	CheckGlobalPolicyValidity(n *Node) error

	// CheckLocalConsensusValidity bounds the worst-case satisfaction
	// path against consensus ceilings (op count, or the tapscript
	// stack budget).
	CheckLocalConsensusValidity(n *Node) error

	// CheckLocalPolicyValidity bounds the worst-case satisfaction path
	// against relay-policy ceilings.
	CheckLocalPolicyValidity(n *Node) error

	// TopLevelTypeCheck requires the root to be valid as a complete
	// locking condition and multipath keys to be consistent.
	TopLevelTypeCheck(n *Node) error

	// OtherTopLevelChecks adds context-specific root-shape restrictions.
	OtherTopLevelChecks(n *Node) error

	// MaxSatisfactionSize returns the worst-case satisfaction size in
	// the encoding this context spends with, or false if the node
	// cannot be satisfied.
	MaxSatisfactionSize(n *Node) (int, bool)

	// PkLen returns the serialized length of a key under this context,
	// including the push prefix.
	PkLen(k Key) int

	// SigType returns the signature algorithm used for satisfaction.
	SigType() SigType

	// Name returns a human-readable context name for diagnostics.
	Name() string

	sealed()
}

// The five contexts. They carry no state; all behavior is in the methods.
var (
	Legacy   Context = legacyCtx{}
	Segwitv0 Context = segwitCtx{}
	Tap      Context = tapCtx{}
	Bare     Context = bareCtx{}
	NoChecks Context = noChecksCtx{}
)

// CheckGlobalValidity runs the structural checks: consensus first, then
// policy.
func CheckGlobalValidity(ctx Context, n *Node) error {
	if err := ctx.CheckGlobalConsensusValidity(n); err != nil {
		return err
	}
	return ctx.CheckGlobalPolicyValidity(n)
}

// CheckLocalValidity runs the structural checks and then the
// satisfaction-path checks, consensus before policy at each stage. Local
// validity therefore implies global validity.
func CheckLocalValidity(ctx Context, n *Node) error {
	if err := ctx.CheckGlobalConsensusValidity(n); err != nil {
		return err
	}
	if err := ctx.CheckGlobalPolicyValidity(n); err != nil {
		return err
	}
	if err := ctx.CheckLocalConsensusValidity(n); err != nil {
		return err
	}
	return ctx.CheckLocalPolicyValidity(n)
}

// TopLevelChecks runs the root-only checks: the type check, then the
// context-specific root-shape restrictions.
func TopLevelChecks(ctx Context, n *Node) error {
	if err := ctx.TopLevelTypeCheck(n); err != nil {
		return err
	}
	return ctx.OtherTopLevelChecks(n)
}

// commonCtx supplies the behaviors most contexts share; a context overrides
// only the leaf checks that differ for it.
type commonCtx struct{}

func (commonCtx) CheckWitness(wire.TxWitness) error { return nil }

func (commonCtx) CheckGlobalConsensusValidity(*Node) error { return nil }

func (commonCtx) CheckGlobalPolicyValidity(*Node) error { return nil }

func (commonCtx) CheckLocalConsensusValidity(*Node) error { return nil }

func (commonCtx) CheckLocalPolicyValidity(*Node) error { return nil }

func (commonCtx) OtherTopLevelChecks(*Node) error { return nil }

func (commonCtx) TopLevelTypeCheck(n *Node) error {
	return topLevelTypeCheck(n, true)
}

func (commonCtx) sealed() {}

// topLevelTypeCheck requires Base B at the root, and optionally that every
// multipath key in the tree expands to the same number of alternatives. The
// multipath walk is a three-state accumulator over the full-tree key
// visitor: not yet seen, seen with count N, mismatch seen.
func topLevelTypeCheck(n *Node, checkMultipath bool) error {
	if n.Type.Base != BaseB {
		return NonTopLevelError{
			Fragment: n.Fragment.String(),
			Base:     n.Type.Base,
		}
	}

	if !checkMultipath {
		return nil
	}

	const (
		singlePath = iota
		multipathLen
		lenMismatch
	)
	state := singlePath
	pathLen := 0
	n.ForEachKey(func(k Key) bool {
		switch paths := k.NumDerPaths(); paths {
		case 0, 1:
		default:
			switch state {
			case singlePath:
				state = multipathLen
				pathLen = paths
			case multipathLen:
				if pathLen != paths {
					state = lenMismatch
				}
			}
		}
		return true
	})

	if state == lenMismatch {
		return ErrMultipathDescLenMismatch
	}
	return nil
}

// checkFragmentKeys applies the context's key gate to the keys a single
// node carries. allowedMulti names the multi variant valid in the context
// (multi before tapscript, multi_a after); the other variant is rejected
// with rejection.
func checkFragmentKeys(
	ctx Context, n *Node, allowedMulti Fragment, rejection error,
) error {
	switch n.Fragment {
	case FragmentPkK:
		return ctx.CheckPk(n.Key)
	case FragmentMulti, FragmentMultiA:
		if n.Fragment != allowedMulti {
			return rejection
		}
		for _, key := range n.Keys.Items() {
			if err := ctx.CheckPk(key); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// checkOpCount is the pre-tapscript local consensus rule: the worst-case
// satisfaction path must execute at most MaxOpsPerScript opcodes, and must
// exist at all.
func checkOpCount(n *Node) error {
	if n.Ext.OpCount == nil {
		return ErrImpossibleSatisfaction
	}
	if *n.Ext.OpCount > MaxOpsPerScript {
		return MaxOpCountExceededError{
			Actual: *n.Ext.OpCount,
			Limit:  MaxOpsPerScript,
		}
	}
	return nil
}

// witnessScriptSigLen is the byte length of the scriptSig that pushes every
// witness item. Push opcode overhead follows the script serialization rules:
// direct pushes up to 75 bytes, then PUSHDATA1/2/4.
func witnessScriptSigLen(witness wire.TxWitness) int {
	size := 0
	for _, item := range witness {
		n := len(item)
		switch {
		case n <= 75:
			size += 1 + n
		case n <= 255:
			size += 2 + n
		case n <= 65535:
			size += 3 + n
		default:
			size += 5 + n
		}
	}
	return size
}

// Legacy is the P2SH context. Keys are ECDSA, the redeem script is size
// bound as a stack element, and several fragments are rejected outright as
// malleable because legacy script admits non-minimal IF encodings.
type legacyCtx struct {
	commonCtx
}

func (legacyCtx) CheckTerminalNonMalleable(n *Node) error {
	switch n.Fragment {
	case FragmentPkH, FragmentRawPkH:
		return ErrMalleablePkH
	case FragmentOrI:
		return ErrMalleableOrI
	case FragmentDupIf:
		return ErrMalleableDupIf
	}
	return nil
}

func (legacyCtx) CheckPk(k Key) error {
	if k.IsXOnly() {
		return XOnlyKeysNotAllowedError{
			Key:     k.String(),
			Context: legacyCtx{}.Name(),
		}
	}
	return nil
}

func (legacyCtx) CheckWitness(witness wire.TxWitness) error {
	if size := witnessScriptSigLen(witness); size > MaxScriptSigSize {
		return MaxScriptSigSizeExceededError{
			Actual: size,
			Limit:  MaxScriptSigSize,
		}
	}
	return nil
}

func (c legacyCtx) CheckGlobalConsensusValidity(n *Node) error {
	if err := checkFragmentKeys(c, n, FragmentMulti, ErrMultiANotAllowed); err != nil {
		return err
	}
	if n.Ext.PkCost > MaxScriptElementSize {
		return MaxRedeemScriptSizeExceededError{
			Max: MaxScriptElementSize,
			Got: n.Ext.PkCost,
		}
	}
	return nil
}

func (legacyCtx) CheckLocalConsensusValidity(n *Node) error {
	return checkOpCount(n)
}

func (c legacyCtx) CheckLocalPolicyValidity(n *Node) error {
	// Legacy scripts permit up to 1000 stack elements, but the 520-byte
	// consensus bound on P2SH redeem scripts makes that unreachable, so
	// only the scriptSig size is checked.
	size, ok := c.MaxSatisfactionSize(n)
	if !ok {
		return ErrImpossibleSatisfaction
	}
	if size > MaxScriptSigSize {
		return MaxScriptSigSizeExceededError{
			Actual: size,
			Limit:  MaxScriptSigSize,
		}
	}
	return nil
}

func (legacyCtx) MaxSatisfactionSize(n *Node) (int, bool) {
	if n.Ext.MaxSatSize == nil {
		return 0, false
	}
	return n.Ext.MaxSatSize.ScriptSig, true
}

func (legacyCtx) PkLen(k Key) int {
	if k.IsUncompressed() {
		return 66
	}
	return 34
}

func (legacyCtx) SigType() SigType { return SigTypeEcdsa }

func (legacyCtx) Name() string { return "Legacy/p2sh" }

// Segwitv0 is the P2WSH context. Uncompressed keys are non-standard, the
// witness script has both a consensus and a tighter policy size ceiling,
// and the witness stack item count is policy bound.
type segwitCtx struct {
	commonCtx
}

func (segwitCtx) CheckTerminalNonMalleable(*Node) error {
	// Witness encodings are minimal by consensus; nothing to reject.
	return nil
}

func (segwitCtx) CheckPk(k Key) error {
	if k.IsUncompressed() {
		return ErrUncompressedKeysNotAllowed
	}
	if k.IsXOnly() {
		return XOnlyKeysNotAllowedError{
			Key:     k.String(),
			Context: segwitCtx{}.Name(),
		}
	}
	return nil
}

func (segwitCtx) CheckWitness(witness wire.TxWitness) error {
	if len(witness) > MaxStandardP2WSHStackItems {
		return MaxWitnessItemsExceededError{
			Actual: len(witness),
			Limit:  MaxStandardP2WSHStackItems,
		}
	}
	return nil
}

func (c segwitCtx) CheckGlobalConsensusValidity(n *Node) error {
	if err := checkFragmentKeys(c, n, FragmentMulti, ErrMultiANotAllowed); err != nil {
		return err
	}
	if n.Ext.PkCost > MaxScriptSize {
		return MaxWitnessScriptSizeExceededError{
			Max: MaxScriptSize,
			Got: n.Ext.PkCost,
		}
	}
	return nil
}

func (segwitCtx) CheckGlobalPolicyValidity(n *Node) error {
	if n.Ext.PkCost > MaxStandardP2WSHScriptSize {
		return MaxWitnessScriptSizeExceededError{
			Max: MaxStandardP2WSHScriptSize,
			Got: n.Ext.PkCost,
		}
	}
	return nil
}

func (segwitCtx) CheckLocalConsensusValidity(n *Node) error {
	return checkOpCount(n)
}

func (segwitCtx) CheckLocalPolicyValidity(n *Node) error {
	// The witness script item itself is accounted for on top of the
	// satisfaction stack elements.
	if n.Ext.StackElemCountSat == nil {
		return ErrImpossibleSatisfaction
	}
	if items := *n.Ext.StackElemCountSat + 1; items > MaxStandardP2WSHStackItems {
		return MaxWitnessItemsExceededError{
			Actual: items,
			Limit:  MaxStandardP2WSHStackItems,
		}
	}
	return nil
}

func (segwitCtx) MaxSatisfactionSize(n *Node) (int, bool) {
	if n.Ext.MaxSatSize == nil {
		return 0, false
	}
	return n.Ext.MaxSatSize.Witness, true
}

func (segwitCtx) PkLen(Key) int { return 34 }

func (segwitCtx) SigType() SigType { return SigTypeEcdsa }

func (segwitCtx) Name() string { return "Segwitv0" }

// Tap is the tapscript context. Keys are x-only and Schnorr signed, multi
// is replaced by multi_a, and the satisfaction-path bound is the combined
// stack plus exec-stack budget rather than an op count.
type tapCtx struct {
	commonCtx
}

func (tapCtx) CheckTerminalNonMalleable(*Node) error {
	// No fragment is malleable in tapscript. Some, like multi, are
	// invalid, but that is not a malleability issue.
	return nil
}

func (tapCtx) CheckPk(k Key) error {
	if k.IsUncompressed() {
		return ErrUncompressedKeysNotAllowed
	}
	return nil
}

func (tapCtx) CheckWitness(witness wire.TxWitness) error {
	// Tapscript allows 1000 stack items where segwit v0 allows 100.
	if len(witness) > MaxStackSize {
		return MaxWitnessItemsExceededError{
			Actual: len(witness),
			Limit:  MaxStackSize,
		}
	}
	return nil
}

func (c tapCtx) CheckGlobalConsensusValidity(n *Node) error {
	if err := checkFragmentKeys(c, n, FragmentMultiA, ErrTaprootMultiDisabled); err != nil {
		return err
	}
	// There is no script-level size ceiling under tapscript; the whole
	// transaction is bound by block weight instead.
	if n.Ext.PkCost > MaxBlockWeight {
		return MaxWitnessScriptSizeExceededError{
			Max: MaxBlockWeight,
			Got: n.Ext.PkCost,
		}
	}
	return nil
}

func (tapCtx) CheckLocalConsensusValidity(n *Node) error {
	// The tapscript sigops budget is witness size dependent; every
	// signature covers its own cost, so only the stack budget needs
	// checking here.
	if n.Ext.ExecStackElemCountSat == nil || n.Ext.StackElemCountSat == nil {
		return nil
	}
	if total := *n.Ext.ExecStackElemCountSat + *n.Ext.StackElemCountSat; total > MaxStackSize {
		return StackSizeLimitExceededError{
			Actual: total,
			Limit:  MaxStackSize,
		}
	}
	return nil
}

func (tapCtx) MaxSatisfactionSize(n *Node) (int, bool) {
	if n.Ext.MaxSatSize == nil {
		return 0, false
	}
	return n.Ext.MaxSatSize.Witness, true
}

func (tapCtx) PkLen(Key) int { return 33 }

func (tapCtx) SigType() SigType { return SigTypeSchnorr }

func (tapCtx) Name() string { return "TapscriptCtx" }

// Bare is the raw-scriptPubKey context. Standardness rules restrict bare
// scripts so strongly that only a fixed whitelist of root shapes is
// accepted.
type bareCtx struct {
	commonCtx
}

func (bareCtx) CheckTerminalNonMalleable(*Node) error {
	// The root-shape whitelist leaves no room for malleable fragments.
	return nil
}

func (bareCtx) CheckPk(k Key) error {
	if k.IsXOnly() {
		return XOnlyKeysNotAllowedError{
			Key:     k.String(),
			Context: bareCtx{}.Name(),
		}
	}
	return nil
}

func (c bareCtx) CheckGlobalConsensusValidity(n *Node) error {
	if err := checkFragmentKeys(c, n, FragmentMulti, ErrMultiANotAllowed); err != nil {
		return err
	}
	if n.Ext.PkCost > MaxScriptSize {
		return MaxBareScriptSizeExceededError{
			Max: MaxScriptSize,
			Got: n.Ext.PkCost,
		}
	}
	return nil
}

func (bareCtx) CheckLocalConsensusValidity(n *Node) error {
	return checkOpCount(n)
}

func (bareCtx) OtherTopLevelChecks(n *Node) error {
	switch n.Fragment {
	case FragmentCheck:
		if len(n.Args) == 1 {
			switch n.Args[0].Fragment {
			case FragmentPkK, FragmentPkH, FragmentRawPkH:
				return nil
			}
		}
		return ErrNonStandardBareScript
	case FragmentMulti:
		if n.Keys.N() <= 3 {
			return nil
		}
		return ErrNonStandardBareScript
	default:
		return ErrNonStandardBareScript
	}
}

func (bareCtx) MaxSatisfactionSize(n *Node) (int, bool) {
	if n.Ext.MaxSatSize == nil {
		return 0, false
	}
	return n.Ext.MaxSatSize.ScriptSig, true
}

func (bareCtx) PkLen(k Key) int {
	if k.IsUncompressed() {
		return 66
	}
	return 34
}

func (bareCtx) SigType() SigType { return SigTypeEcdsa }

func (bareCtx) Name() string { return "BareCtx" }

// NoChecks bypasses every limit. It exists for diagnostics tooling that
// reads scripts off the chain without judging them; it must never be used
// to estimate satisfaction costs.
type noChecksCtx struct {
	commonCtx
}

func (noChecksCtx) CheckTerminalNonMalleable(*Node) error { return nil }

func (noChecksCtx) CheckPk(Key) error { return nil }

func (noChecksCtx) TopLevelTypeCheck(n *Node) error {
	return topLevelTypeCheck(n, false)
}

func (noChecksCtx) MaxSatisfactionSize(*Node) (int, bool) {
	panic("tried to compute a satisfaction size bound on a no-checks miniscript")
}

func (noChecksCtx) PkLen(Key) int {
	panic("tried to compute a pk length on a no-checks miniscript")
}

func (noChecksCtx) SigType() SigType { return SigTypeEcdsa }

func (noChecksCtx) Name() string { return "NochecksEcdsa" }
