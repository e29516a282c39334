package trees

// StructureError reports a malformed tree: inconsistent parent pointers,
// duplicate or missing terminal positions, or edits which would break the
// single-parent invariant.
type StructureError struct {
	Msg string
}

var _ error = (*StructureError)(nil)

func (e *StructureError) Error() string {
	return e.Msg
}
