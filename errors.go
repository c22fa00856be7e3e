package impulse

import (
	"errors"

	"github.com/akmonengine/impulse/constraint"
)

// ErrPrecondition reports solver input that violates the contract with the
// collision module. A failed solve drops all per-step state and writes
// nothing into the warm-start caches.
var ErrPrecondition = constraint.ErrPrecondition

// ErrBodyNotConstrained is returned by the constrained-velocity queries for
// a body that was not part of any contact constraint in the last solve.
// Callers use IsConstrained to guard.
var ErrBodyNotConstrained = errors.New("body is not part of any contact constraint")
