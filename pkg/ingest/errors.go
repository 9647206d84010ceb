package ingest

import (
	"fmt"
	"strings"
)

// StructureError reports the structural problems that keep a file from
// being validated: missing required columns, unrecognized fabric values or
// a file without data rows. The individual messages are surfaced to the
// caller verbatim; the validation core is never invoked when this error is
// returned.
type StructureError struct {
	Problems []string
}

// Error implements error.
func (e *StructureError) Error() string {
	return fmt.Sprintf("file failed structural pre-check: %s", strings.Join(e.Problems, "; "))
}
