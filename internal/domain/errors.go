package domain

import "errors"

// ErrNotFound is returned by the order store for unknown order ids.
var ErrNotFound = errors.New("order not found")
