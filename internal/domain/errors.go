package domain

import "errors"

// ErrNotFound is returned by repositories when no record matches. Absence is
// not a storage failure; the HTTP boundary maps it to a 400-class response.
var ErrNotFound = errors.New("not found")
