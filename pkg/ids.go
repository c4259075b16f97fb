package pkg

import "github.com/google/uuid"

// IDGenerator produces globally unique string identifiers.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
