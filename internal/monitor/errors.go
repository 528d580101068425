package monitor

import "errors"

var (
	errInvalidLimit = errors.New("limit must be a non-negative integer")
	errInvalidLevel = errors.New("level must be INFO, WARNING, ERROR, or NOTIFICATION")
)
