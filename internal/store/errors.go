package store

import "errors"

var ErrNotFound = errors.New("task not found")
