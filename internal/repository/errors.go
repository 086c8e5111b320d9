package repository

import "errors"

// ErrNotFound indicates the requested record does not exist or has expired.
var ErrNotFound = errors.New("repository: not found")
