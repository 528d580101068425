package classifier

import "errors"

// ErrSemanticUnavailable indicates the semantic tier could not produce
// a usable result. Callers receive a fail-closed fallback result instead.
var ErrSemanticUnavailable = errors.New("semantic classification unavailable")
