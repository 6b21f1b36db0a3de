package store

// Sequence hands out identifiers for one entity type.
// Values start at 1, strictly increase and are never reused, even after
// the entity holding one is deleted.
type Sequence interface {
	Next() int64
}
