package network

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned when a push is refused because the channel's send
// queue or in-flight window is full. It is not fatal: the producer may retry
// once a status delta reports the channel unsaturated.
type ErrOverflow struct {
	Class MessageClass
	Limit uint64
}

func (e ErrOverflow) Error() string {
	return fmt.Sprintf("send queue overflow on %v channel (limit %d)", e.Class, e.Limit)
}

// Full reports that the error is a backpressure signal.
func (ErrOverflow) Full() bool { return true }

// ErrProtocolViolation is returned when peer-reported flow-control state is
// inconsistent with ours, or a frame is malformed. It is fatal for the
// connection.
type ErrProtocolViolation struct {
	Reason string
}

func (e ErrProtocolViolation) Error() string {
	return "protocol violation: " + e.Reason
}

// ErrBadFrame is returned when a frame header fails validation.
type ErrBadFrame struct {
	Reason string
}

func (e ErrBadFrame) Error() string {
	return "bad frame: " + e.Reason
}

// IsFatal reports whether err must terminate the connection. Overflow is the
// only producer-recoverable error; everything else takes the error path.
func IsFatal(err error) bool {
	var overflow ErrOverflow
	return err != nil && !errors.As(err, &overflow)
}
