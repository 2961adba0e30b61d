package bech32

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValid(t *testing.T) {
	valid := []string{
		"A12UEL5L",
		"a12uel5l",
		"an83characterlonghumanreadablepartthatcontainsthenumber1andtheexcludedcharactersbio1tt5tgs",
		"abcdef1qpzry9x8gf2tvdw0s3jn54khce6mua7lmqqqxw",
		"split1checkupstagehandshakeupstreamerranterredcaperred2y9e3w",
		"?1ezyfcl",
	}

	for _, s := range valid {
		t.Run(s, func(t *testing.T) {
			hrp, words, err := Decode(s)
			require.NoError(t, err)

			encoded, err := Encode(hrp, words)
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(s), encoded)
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	cases := map[string]string{
		"missing separator": "pzry9x0s0muk",
		"empty prefix":      "1pzry9x0s0muk",
		"invalid character": "x1b4n0q5v",
		"short data part":   "li1dgmt3",
		"bad checksum":      "A1G7SGD8",
		"mixed case":        "A12UEL5l",
		"non ascii":         "a1éuel5l",
	}

	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode(s)
			assert.ErrorIs(t, err, ErrMalformedIdentifier)
		})
	}
}

func TestDecodeDropsChecksum(t *testing.T) {
	hrp, words, err := Decode("abcdef1qpzry9x8gf2tvdw0s3jn54khce6mua7lmqqqxw")
	require.NoError(t, err)
	assert.Equal(t, "abcdef", hrp)
	assert.Len(t, words, 32)
	for i, w := range words {
		assert.Equal(t, byte(i), w)
	}
}

func TestEncodeRejectsWideWords(t *testing.T) {
	_, err := Encode("npub", []byte{1, 2, 32})
	assert.ErrorIs(t, err, ErrInvalidBitGrouping)
}

func TestConvertBits(t *testing.T) {
	t.Run("8 to 5 pads", func(t *testing.T) {
		words, err := ConvertBits([]byte{0xff}, 8, 5, true)
		require.NoError(t, err)
		assert.Equal(t, []byte{31, 28}, words)
	})

	t.Run("5 to 8 round trip", func(t *testing.T) {
		in := []byte{0x00, 0x01, 0x7f, 0x80, 0xff, 0x10, 0x20}
		words, err := ConvertBits(in, 8, 5, true)
		require.NoError(t, err)

		out, err := ConvertBits(words, 5, 8, false)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("non zero padding rejected", func(t *testing.T) {
		_, err := ConvertBits([]byte{31, 29}, 5, 8, false)
		assert.ErrorIs(t, err, ErrInvalidBitGrouping)
	})

	t.Run("too many leftover bits rejected", func(t *testing.T) {
		// 3 words = 15 bits, one byte plus 7 leftover bits
		_, err := ConvertBits([]byte{0, 0, 0}, 5, 8, false)
		assert.ErrorIs(t, err, ErrInvalidBitGrouping)
	})

	t.Run("value wider than source group", func(t *testing.T) {
		_, err := ConvertBits([]byte{32}, 5, 8, true)
		assert.ErrorIs(t, err, ErrInvalidBitGrouping)
	})
}

func TestSingleSubstitutionDetected(t *testing.T) {
	const npub = "npub10elfcs4fr0l0r8af98jlmgdh9c8tcxjvz9qkw038js35mp4dma8qzvjptg"
	_, _, err := Decode(npub)
	require.NoError(t, err)

	pos := strings.LastIndexByte(npub, '1')
	for i := pos + 1; i < len(npub); i++ {
		for j := 0; j < len(charset); j++ {
			c := charset[j]
			if c == npub[i] {
				continue
			}
			corrupted := npub[:i] + string(c) + npub[i+1:]
			_, _, err := Decode(corrupted)
			if !assert.ErrorIs(t, err, ErrMalformedIdentifier, corrupted) {
				return
			}
		}
	}
}
