package sink

import "errors"

// ErrNotFound is returned by Registry.Get when no sink has the given name.
var ErrNotFound = errors.New("sink: not found")
