package schemas

import (
	"errors"
	"fmt"
)

// -- Error taxonomy --
// Callers classify failures with errors.Is against these sentinels.

var (
	// ErrEncoding reports a domain object the translator cannot encode.
	ErrEncoding = errors.New("encoding error")
	// ErrCycle reports a self-referential object graph. It is an encoding error.
	ErrCycle = fmt.Errorf("%w: cyclic structure", ErrEncoding)
	// ErrSynthesis reports a malformed translation handed to a statement synthesizer.
	ErrSynthesis = errors.New("synthesis error")
	// ErrDecodeIncomplete reports graph structure still missing after the bounded reload.
	ErrDecodeIncomplete = errors.New("decode incomplete")
	// ErrNotFound reports a missing resource.
	ErrNotFound = errors.New("resource not found")
)
