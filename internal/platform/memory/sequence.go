package memory

import (
	"sync/atomic"

	"github.com/phrazzld/biblioteca-api/internal/store"
)

// Sequence is a process-lifetime counter. The first value is 1.
type Sequence struct {
	last atomic.Int64
}

// NewSequence creates a Sequence starting at 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

var _ store.Sequence = (*Sequence)(nil)

// Next returns the next identifier. Safe for concurrent use.
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}
