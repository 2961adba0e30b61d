package cache

import (
	"fmt"
	"strings"
)

const (
	prefixFollowings = "followings"
	prefixProfiles   = "profiles"
)

// FollowingsKey key of the follow list of src read from relays
func FollowingsKey(src string, relays []string) string {
	return fmt.Sprintf("%s.%s.%x", prefixFollowings, src, djb2(strings.Join(relays, ",")))
}

// ProfileKey key of the profile of pubkey
func ProfileKey(pubkey string) string {
	return prefixProfiles + "." + pubkey
}

// djb2 string hash, 32 bit unsigned
func djb2(s string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}

	return h
}
