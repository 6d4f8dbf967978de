package repository

import "errors"

// ErrSessionConflict is returned when a session was changed or removed after
// it was loaded. Callers reload and re-apply their update.
var ErrSessionConflict = errors.New("session was modified concurrently")
