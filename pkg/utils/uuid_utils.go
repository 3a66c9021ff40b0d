package utils

import (
	"github.com/google/uuid"
)

var newUUIDv7 = uuid.NewV7

// GenerateUUIDv7 generates a new time-ordered UUID, falling back to v4
func GenerateUUIDv7() uuid.UUID {
	id, err := newUUIDv7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// EnsureID assigns a fresh v7 id when id is unset
func EnsureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = GenerateUUIDv7()
	}
}
