package query

import (
	"strings"

	"github.com/google/uuid"
)

const subscriptionPrefix = "sub-"

// NewSubscriptionID "sub-" and 12 random hex characters
func NewSubscriptionID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")

	return subscriptionPrefix + id[:12]
}
