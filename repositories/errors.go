package repositories

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// Callers branch on it with errors.Is; for user profiles in particular,
// absence is an expected state (the profile row is created asynchronously
// after signup), never a failure.
var ErrNotFound = errors.New("record not found")
