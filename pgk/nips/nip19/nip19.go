package nip19

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/saveblush/reraw-search/pgk/bech32"
)

const (
	PrefixPublicKey = "npub"
	keyLength       = 32
)

var (
	ErrInvalidIdentifier = errors.New("invalid: identifier")
)

// DecodeIdentifier decode a bech32 identifier into its prefix and hex payload
func DecodeIdentifier(s string) (string, string, error) {
	prefix, words, err := bech32.Decode(s)
	if err != nil {
		return "", "", err
	}

	data, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return "", "", err
	}

	return prefix, hex.EncodeToString(data), nil
}

// EncodeIdentifier encode raw bytes under prefix
func EncodeIdentifier(prefix string, data []byte) (string, error) {
	words, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", err
	}

	return bech32.Encode(prefix, words)
}

// EncodePublicKey hex public key to npub
func EncodePublicKey(pubkeyHex string) (string, error) {
	b, err := hex.DecodeString(pubkeyHex)
	if err != nil || len(b) != keyLength {
		return "", fmt.Errorf("%w: public key must be %d hex bytes", ErrInvalidIdentifier, keyLength)
	}

	return EncodeIdentifier(PrefixPublicKey, b)
}

// DecodePublicKey npub to hex public key
func DecodePublicKey(npub string) (string, error) {
	prefix, words, err := bech32.Decode(npub)
	if err != nil {
		return "", err
	}
	if prefix != PrefixPublicKey {
		return "", fmt.Errorf("%w: unexpected prefix %q", ErrInvalidIdentifier, prefix)
	}

	data, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidIdentifier, err)
	}
	if len(data) != keyLength {
		return "", fmt.Errorf("%w: public key length %d", ErrInvalidIdentifier, len(data))
	}

	return hex.EncodeToString(data), nil
}
