package service

import "fmt"

// ValidationKind discriminates recipe commit failures.
type ValidationKind string

const (
	KindInvalidSection    ValidationKind = "InvalidSection"
	KindSequenceConflict  ValidationKind = "SequenceConflict"
	KindDanglingParentRef ValidationKind = "DanglingParentReference"
	KindUnknownCatalog    ValidationKind = "UnknownCatalogCode"
)

// ValidationError identifies the first offending line of a rejected recipe
// batch. None of the batch is committed when one of these is returned.
type ValidationError struct {
	Kind     ValidationKind
	Sequence int    // sequence of the offending line
	Code     string // catalog code involved, when relevant
	Detail   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s at sequence %d: %s", e.Kind, e.Sequence, e.Detail)
}

// BatchError rejects an entire bulk-import batch for one entity type,
// identifying the first invalid row. The store is left unmodified.
type BatchError struct {
	Entity string
	Row    int // zero-based index into the submitted batch
	Reason string
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s import rejected at row %d: %s", e.Entity, e.Row, e.Reason)
}
