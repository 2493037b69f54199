package portal

import "errors"

// ErrConflictingLifecycle covers every mutation the exam's current
// status forbids: editing or deleting the paper of a completed exam,
// submitting to an exam that is not active, and illegal status
// transitions. The HTTP layer maps it to 409.
var ErrConflictingLifecycle = errors.New("conflicts with exam lifecycle state")

// Domain not-found conditions reuse the stores' sentinels
// (registry.ErrNotFound, paper.ErrNotFound, registry.ErrNoResult);
// anything else coming out of a store is an infrastructure error and
// propagates untouched.
