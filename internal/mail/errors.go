package mail

import "errors"

// Domain errors for mail operations.
var (
	ErrNoRecipients = errors.New("message has no recipients")
	ErrSpoolClosed  = errors.New("spool source is not running")
)
