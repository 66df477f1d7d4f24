package ingest

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns a random 128-bit identifier as 32 lower-case hex characters.
func NewID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
