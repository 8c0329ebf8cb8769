package infer

import "fmt"

// InconsistencyError means the observations reported so far contradict each
// other (or the engine itself has a defect). Deductions made after an
// inconsistency are unreliable, so the knowledge store that produced one
// should be discarded.
type InconsistencyError struct {
	message string
}

func (e InconsistencyError) Error() string {
	return "inconsistent knowledge: " + e.message
}

// inconsistencyf builds an InconsistencyError to panic with; Observe recovers
// it at the package boundary and hands it to the caller as an error.
func inconsistencyf(format string, args ...interface{}) InconsistencyError {
	return InconsistencyError{message: fmt.Sprintf(format, args...)}
}
