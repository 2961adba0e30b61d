package identity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/saveblush/reraw-search/models"
	"github.com/saveblush/reraw-search/pgk/nips/nip19"
)

var (
	ErrInvalidIdentity = errors.New("invalid: public key must be npub or 64 hex")
)

var hex64 = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Decode npub (all lower or all upper) or 64 hex (any case) to lower case hex
func Decode(s string) (string, error) {
	s = strings.TrimSpace(s)
	if hex64.MatchString(s) {
		return strings.ToLower(s), nil
	}

	if strings.HasPrefix(strings.ToLower(s), nip19.PrefixPublicKey+"1") {
		pk, err := nip19.DecodePublicKey(s)
		if err != nil {
			return "", fmt.Errorf("%w: npub decode failed: %s", ErrInvalidIdentity, err)
		}
		return pk, nil
	}

	return "", ErrInvalidIdentity
}

// Normalize like Decode, also accepts a 0x prefixed hex key
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}

	return Decode(s)
}

// NewLogin login from any accepted public key form
func NewLogin(input, method string) (*models.Login, error) {
	pk, err := Normalize(input)
	if err != nil {
		return nil, err
	}

	npub, err := nip19.EncodePublicKey(pk)
	if err != nil {
		return nil, err
	}

	return &models.Login{Hex: pk, Npub: npub, Method: method}, nil
}
