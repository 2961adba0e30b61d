// Package bech32 encodes and decodes the checksummed bech32 string format (BIP-173)
// used by nostr for human facing keys.
package bech32

import (
	"errors"
	"fmt"
	"strings"
)

const (
	charset     = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
	separator   = '1'
	checksumLen = 6
)

var (
	ErrMalformedIdentifier = errors.New("invalid: malformed bech32 identifier")
	ErrInvalidBitGrouping  = errors.New("invalid: bit grouping")
)

var generators = [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}

// charKey reverse lookup of charset, -1 outside the alphabet
var charKey = func() [128]int8 {
	var m [128]int8
	for i := range m {
		m[i] = -1
	}
	for i := 0; i < len(charset); i++ {
		m[charset[i]] = int8(i)
	}
	return m
}()

func polymod(values []byte) uint32 {
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= generators[i]
			}
		}
	}

	return chk
}

func hrpExpand(hrp string) []byte {
	ret := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		ret = append(ret, hrp[i]>>5)
	}
	ret = append(ret, 0)
	for i := 0; i < len(hrp); i++ {
		ret = append(ret, hrp[i]&31)
	}

	return ret
}

func verifyChecksum(hrp string, data []byte) bool {
	return polymod(append(hrpExpand(hrp), data...)) == 1
}

func createChecksum(hrp string, data []byte) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, make([]byte, checksumLen)...)
	mod := polymod(values) ^ 1

	ret := make([]byte, checksumLen)
	for i := 0; i < checksumLen; i++ {
		ret[i] = byte(mod>>uint(5*(5-i))) & 31
	}

	return ret
}

// Decode split s into its human readable prefix and 5-bit data words,
// the checksum symbols are verified and dropped.
func Decode(s string) (string, []byte, error) {
	lower := strings.ToLower(s)
	if s != lower && s != strings.ToUpper(s) {
		return "", nil, fmt.Errorf("%w: mixed case", ErrMalformedIdentifier)
	}

	pos := strings.LastIndexByte(lower, separator)
	if pos < 1 {
		return "", nil, fmt.Errorf("%w: missing separator", ErrMalformedIdentifier)
	}
	if pos+checksumLen+1 > len(lower) {
		return "", nil, fmt.Errorf("%w: data part too short", ErrMalformedIdentifier)
	}

	hrp := lower[:pos]
	data := make([]byte, 0, len(lower)-pos-1)
	for i := pos + 1; i < len(lower); i++ {
		c := lower[i]
		if c >= 128 || charKey[c] < 0 {
			return "", nil, fmt.Errorf("%w: invalid character %q", ErrMalformedIdentifier, c)
		}
		data = append(data, byte(charKey[c]))
	}

	if !verifyChecksum(hrp, data) {
		return "", nil, fmt.Errorf("%w: invalid checksum", ErrMalformedIdentifier)
	}

	return hrp, data[:len(data)-checksumLen], nil
}

// Encode build prefix + "1" + data + checksum, words must be 5-bit values
func Encode(hrp string, words []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(words) + checksumLen)
	sb.WriteString(hrp)
	sb.WriteByte(separator)

	for _, w := range words {
		if w > 31 {
			return "", fmt.Errorf("%w: word %d out of range", ErrInvalidBitGrouping, w)
		}
		sb.WriteByte(charset[w])
	}
	for _, w := range createChecksum(hrp, words) {
		sb.WriteByte(charset[w])
	}

	return sb.String(), nil
}

// ConvertBits regroup data from fromBits wide values to toBits wide values.
// With pad the last partial group is zero padded, without it leftover bits are an error.
func ConvertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	maxv := uint32(1)<<toBits - 1
	ret := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)

	for _, value := range data {
		if uint32(value)>>fromBits != 0 {
			return nil, fmt.Errorf("%w: value %d wider than %d bits", ErrInvalidBitGrouping, value, fromBits)
		}
		acc = acc<<fromBits | uint32(value)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			ret = append(ret, byte(acc>>bits&maxv))
		}
	}

	if pad {
		if bits > 0 {
			ret = append(ret, byte(acc<<(toBits-bits)&maxv))
		}
	} else if bits >= fromBits || acc<<(toBits-bits)&maxv != 0 {
		return nil, fmt.Errorf("%w: excess padding", ErrInvalidBitGrouping)
	}

	return ret, nil
}
