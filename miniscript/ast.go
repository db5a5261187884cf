// Package miniscript holds the abstract-syntax-tree surface shared by the
// miniscript tooling and the script-context validation engine that checks a
// compiled tree against the resource limits, malleability rules and key-type
// rules of its execution context.
package miniscript

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/ark-network/miniscript/expression"
)

// Fragment identifies the spending-condition primitive of a node.
type Fragment int

const (
	FragmentTrue Fragment = iota
	FragmentFalse
	FragmentPkK
	FragmentPkH
	FragmentRawPkH
	FragmentAfter
	FragmentOlder
	FragmentSha256
	FragmentHash256
	FragmentRipemd160
	FragmentHash160
	FragmentAlt
	FragmentSwap
	FragmentCheck
	FragmentDupIf
	FragmentVerify
	FragmentNonZero
	FragmentZeroNotEqual
	FragmentAndV
	FragmentAndB
	FragmentAndOr
	FragmentOrB
	FragmentOrC
	FragmentOrD
	FragmentOrI
	FragmentThresh
	FragmentMulti
	FragmentMultiA
)

var fragmentNames = map[Fragment]string{
	FragmentTrue:         "1",
	FragmentFalse:        "0",
	FragmentPkK:          "pk_k",
	FragmentPkH:          "pk_h",
	FragmentRawPkH:       "expr_raw_pkh",
	FragmentAfter:        "after",
	FragmentOlder:        "older",
	FragmentSha256:       "sha256",
	FragmentHash256:      "hash256",
	FragmentRipemd160:    "ripemd160",
	FragmentHash160:      "hash160",
	FragmentAlt:          "a",
	FragmentSwap:         "s",
	FragmentCheck:        "c",
	FragmentDupIf:        "d",
	FragmentVerify:       "v",
	FragmentNonZero:      "j",
	FragmentZeroNotEqual: "n",
	FragmentAndV:         "and_v",
	FragmentAndB:         "and_b",
	FragmentAndOr:        "andor",
	FragmentOrB:          "or_b",
	FragmentOrC:          "or_c",
	FragmentOrD:          "or_d",
	FragmentOrI:          "or_i",
	FragmentThresh:       "thresh",
	FragmentMulti:        "multi",
	FragmentMultiA:       "multi_a",
}

func (f Fragment) String() string {
	if name, ok := fragmentNames[f]; ok {
		return name
	}
	return "unknown"
}

// Base is the correctness class of a node. Only a Base-B node is valid as a
// complete locking condition.
type Base byte

const (
	BaseB Base = 'B'
	BaseV Base = 'V'
	BaseK Base = 'K'
	BaseW Base = 'W'
)

// Type is the type-correctness summary of a node, computed by the type
// checker when the tree is built.
type Type struct {
	Base Base
}

// SatisfactionSize is the worst-case size of a satisfaction in both
// encodings: as witness-stack bytes and as legacy scriptSig bytes.
type SatisfactionSize struct {
	Witness   int
	ScriptSig int
}

// ExtData is the precomputed extension metadata the validation engine
// consumes. Nil pointers mean the quantity is undefined because the fragment
// has no satisfaction path at all.
type ExtData struct {
	// PkCost is the serialized byte size of the script this node compiles
	// to.
	PkCost int

	// OpCount is the worst-case number of executed non-push opcodes over
	// all satisfaction paths.
	OpCount *int

	// MaxSatSize is the worst-case satisfaction size.
	MaxSatSize *SatisfactionSize

	// StackElemCountSat is the worst-case number of witness stack
	// elements of a satisfaction, excluding the witness script.
	StackElemCountSat *int

	// ExecStackElemCountSat is the worst-case number of stack and
	// altstack elements used during execution of a satisfaction.
	ExecStackElemCountSat *int
}

// Node is one fragment of a compiled miniscript tree, annotated with its
// type-correctness summary and extension metadata. Trees are immutable once
// constructed; the validation engine only reads them.
type Node struct {
	Fragment Fragment

	// Key is the key payload of pk_k and pk_h.
	Key Key

	// KeyHash is the 20-byte payload of expr_raw_pkh.
	KeyHash *[20]byte

	// Hash is the 32-byte payload of sha256 and hash256.
	Hash *chainhash.Hash

	// Hash20 is the 20-byte payload of ripemd160 and hash160.
	Hash20 *[20]byte

	// Num is the locktime payload of after and older, and the threshold
	// value of thresh.
	Num uint32

	// Keys is the key list of multi and multi_a.
	Keys expression.Threshold[Key]

	// Args are the miniscript subexpression children.
	Args []*Node

	Type Type
	Ext  ExtData
}

// ForEachKey applies fn to every key in the subtree rooted at n, stopping
// early when fn returns false. It reports whether the walk ran to
// completion. The walk uses an explicit worklist so adversarially deep trees
// cannot exhaust the call stack.
func (n *Node) ForEachKey(fn func(Key) bool) bool {
	stack := []*Node{n}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Key != nil {
			if !fn(node.Key) {
				return false
			}
		}
		for _, key := range node.Keys.Items() {
			if !fn(key) {
				return false
			}
		}
		for _, arg := range node.Args {
			stack = append(stack, arg)
		}
	}
	return true
}
