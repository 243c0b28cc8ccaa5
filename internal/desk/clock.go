package desk

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so transfers and operations get deterministic
// timestamps in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the wall clock time in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator produces operation identifiers.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
