package miniscript_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ark-network/miniscript/miniscript"
)

func TestParsePublicKey(t *testing.T) {
	t.Run("compressed", func(t *testing.T) {
		raw, err := hex.DecodeString(compressedKeyHex)
		require.NoError(t, err)

		key, err := miniscript.ParsePublicKey(raw)
		require.NoError(t, err)
		require.False(t, key.IsUncompressed())
		require.False(t, key.IsXOnly())
		require.Zero(t, key.NumDerPaths())
		require.Equal(t, compressedKeyHex, key.String())
		require.Equal(t, raw, key.Serialize())
	})

	t.Run("uncompressed", func(t *testing.T) {
		raw, err := hex.DecodeString(uncompressedKeyHex)
		require.NoError(t, err)

		key, err := miniscript.ParsePublicKey(raw)
		require.NoError(t, err)
		require.True(t, key.IsUncompressed())
		require.Equal(t, uncompressedKeyHex, key.String())
		require.Equal(t, raw, key.Serialize())
	})

	t.Run("hash160 is 20 bytes of the serialized form", func(t *testing.T) {
		raw, err := hex.DecodeString(compressedKeyHex)
		require.NoError(t, err)

		key, err := miniscript.ParsePublicKey(raw)
		require.NoError(t, err)

		// RIPEMD160(SHA256(G)), spendable as the canonical 1-of-nothing
		// test address.
		require.Equal(
			t,
			"751e76e8199196d454941c45d1b3a323f1433bd6",
			hex.EncodeToString(func() []byte { h := key.Hash160(); return h[:] }()),
		)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := miniscript.ParsePublicKey([]byte{0x02, 0x01})
		require.Error(t, err)

		// Invalid format byte.
		bad, err := hex.DecodeString(
			"05" + xOnlyKeyHex,
		)
		require.NoError(t, err)
		_, err = miniscript.ParsePublicKey(bad)
		require.Error(t, err)
	})
}

func TestParseXOnlyPublicKey(t *testing.T) {
	raw, err := hex.DecodeString(xOnlyKeyHex)
	require.NoError(t, err)

	key, err := miniscript.ParseXOnlyPublicKey(raw)
	require.NoError(t, err)
	require.True(t, key.IsXOnly())
	require.False(t, key.IsUncompressed())
	require.Zero(t, key.NumDerPaths())
	require.Equal(t, xOnlyKeyHex, key.String())
	require.Equal(t, raw, key.Serialize())

	_, err = miniscript.ParseXOnlyPublicKey(raw[:31])
	require.Error(t, err)
}

func TestMultipathKey(t *testing.T) {
	inner := mustKey(t, compressedKeyHex)
	key := miniscript.MultipathKey{
		Key:             inner,
		DerivationPaths: []string{"0", "1"},
	}

	require.Equal(t, 2, key.NumDerPaths())
	require.Equal(t, inner.String(), key.String())
	require.False(t, key.IsUncompressed())
	require.False(t, key.IsXOnly())
}

func TestForEachKey(t *testing.T) {
	tree := &miniscript.Node{
		Fragment: miniscript.FragmentAndV,
		Args: []*miniscript.Node{
			{
				Fragment: miniscript.FragmentVerify,
				Args: []*miniscript.Node{
					multiNode(
						t, miniscript.FragmentMulti, 1,
						compressedKeyHex, compressedKey2Hex,
					),
				},
			},
			pkNode(t, compressedKeyHex),
		},
	}

	var seen []string
	complete := tree.ForEachKey(func(k miniscript.Key) bool {
		seen = append(seen, k.String())
		return true
	})
	require.True(t, complete)
	require.ElementsMatch(t, []string{
		compressedKeyHex, compressedKey2Hex, compressedKeyHex,
	}, seen)

	// Early termination propagates.
	count := 0
	complete = tree.ForEachKey(func(miniscript.Key) bool {
		count++
		return count < 2
	})
	require.False(t, complete)
	require.Equal(t, 2, count)
}
