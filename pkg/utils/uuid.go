package utils

import "github.com/google/uuid"

// GenerateUUID returns a random 128-bit identifier. Collision-resistant
// enough that duplicate match ids are treated as invariant violations.
func GenerateUUID() string {
	return uuid.NewString()
}
