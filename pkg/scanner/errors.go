package scanner

import (
	"fmt"

	"github.com/younsl/idlereport/internal/models"
)

// ProbeError reports that one kind could not be enumerated.
// It is isolated to its kind and never aborts a scan.
type ProbeError struct {
	Kind models.ResourceKind
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s failed: %v", e.Kind, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}
