package network

import "fmt"

// InstanceID identifies a database instance (or a client) in the cluster.
type InstanceID uint64

// InvalidInstance is the sentinel for a peer whose identity is not yet known,
// e.g. an inbound connection before the first message arrives.
const InvalidInstance InstanceID = ^InstanceID(0)

// QueryID identifies an application-level query attached to a connection.
type QueryID uint64

// SeqNum is a per-channel monotonic message counter, valid within a
// generation.
type SeqNum uint64

// GenID is a generation identifier minted from a monotonic clock at queue
// construction. Comparing generations detects peer restarts.
type GenID uint64

// MessageClass partitions traffic into independent flow-control channels so
// that large data transfers cannot head-of-line-block queries or control
// traffic.
type MessageClass uint32

const (
	// ClassNone carries control traffic and heartbeats. It is also the
	// default for unclassified messages.
	ClassNone MessageClass = iota
	// ClassNormal carries query traffic.
	ClassNormal
	// ClassBulk carries large array-data chunks.
	ClassBulk

	// ClassCount is the number of traffic classes; one channel exists per
	// class on every connection.
	ClassCount
)

func (c MessageClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassNormal:
		return "normal"
	case ClassBulk:
		return "bulk"
	default:
		return fmt.Sprintf("class(%d)", uint32(c))
	}
}

// Valid reports whether c names one of the defined traffic classes.
func (c MessageClass) Valid() bool {
	return c < ClassCount
}

// DisconnectHandler is invoked once if the connection terminates before the
// owning query is detached. Handlers must be non-blocking and must not
// re-enter the Connection.
type DisconnectHandler func(QueryID)
