package filterkit

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled marks executions aborted by the caller's cancellation
	// signal. Partial results are discarded, not returned.
	ErrCancelled = errors.New("filter execution cancelled")

	// ErrBackendExecution wraps failures raised by the external data-source
	// collaborator. Adapters propagate it unchanged, never swallow it.
	ErrBackendExecution = errors.New("backend execution failed")
)

// UnsupportedTypeError reports that no registered adapter can handle the
// requested element type.
type UnsupportedTypeError struct {
	Element ElementType
	Kind    string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("no adapter can handle element type %s from %s source", e.Element, e.Kind)
	}

	return fmt.Sprintf("no adapter can handle element type %s", e.Element)
}
