package transport

import "log"

// Logger is the minimal logging seam Sender and Receiver write
// per-packet / per-destination errors through, satisfied trivially by
// the stdlib *log.Logger. Library code never pulls in a logging
// framework directly; it accepts a caller-supplied hook instead.
type Logger interface {
	Printf(format string, v ...any)
}

func defaultLogger(l Logger) Logger {
	if l != nil {
		return l
	}
	return log.Default()
}
