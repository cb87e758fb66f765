package utils

import "github.com/google/uuid"

// NewID returns a prefixed opaque identifier, e.g. "msg-9f1c...".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
