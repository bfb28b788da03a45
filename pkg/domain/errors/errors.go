package errors

import "errors"

// requested entity does not exist.
var ErrMissing = errors.New("missing")

// a uniqueness or integrity constraint rejects the write.
var ErrConflict = errors.New("conflict")
