package slicer

import "fmt"

// ContractError reports a violation of the slicer's input contract, such
// as an empty triangle set or a non-positive slice thickness. The call
// is invalid as a whole: the error is surfaced to the caller and never
// retried internally.
type ContractError struct {
	Reason string
}

func (e *ContractError) Error() string {
	return "slicer: " + e.Reason
}

func contractErrorf(format string, args ...any) error {
	return &ContractError{Reason: fmt.Sprintf(format, args...)}
}

// CapacityError reports that the offload strategy's segment buffer was
// too small for the output the kernel produced. The caller can retry
// with a larger capacity or fall back to the host-parallel strategy.
type CapacityError struct {
	Attempted int // segments the kernel tried to write
	Capacity  int // segments the buffer could hold
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("slicer: segment buffer overflow: %d segments attempted, capacity %d",
		e.Attempted, e.Capacity)
}
