package miniscript

// Script resource limits, as enforced by consensus and default relay policy.
const (
	// MaxOpsPerScript is the consensus ceiling on executed non-push
	// opcodes in a pre-tapscript script.
	MaxOpsPerScript = 201

	// MaxScriptElementSize is the consensus ceiling on a single stack
	// element, which also bounds a P2SH redeem script.
	MaxScriptElementSize = 520

	// MaxScriptSize is the consensus ceiling on a script's byte size.
	MaxScriptSize = 10_000

	// MaxStandardP2WSHScriptSize is the relay-policy ceiling on a P2WSH
	// witness script.
	MaxStandardP2WSHScriptSize = 3_600

	// MaxStandardP2WSHStackItems is the relay-policy ceiling on the
	// number of witness stack items spending a P2WSH output.
	MaxStandardP2WSHStackItems = 100

	// MaxScriptSigSize is the relay-policy ceiling on a scriptSig's byte
	// size.
	MaxScriptSigSize = 1_650

	// MaxStackSize is the consensus ceiling on the combined stack and
	// altstack size during execution. Tapscript reuses it for the witness
	// stack item count.
	MaxStackSize = 1_000

	// MaxBlockWeight bounds everything that has to fit in one block,
	// including a tapscript and its witness.
	MaxBlockWeight = 4_000_000
)
