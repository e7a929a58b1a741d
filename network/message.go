package network

import (
	"sync/atomic"

	pool "github.com/libp2p/go-buffer-pool"
)

// MessageType identifies the typed record carried by a frame. The transport
// core only interprets the reserved control types; everything else is routed
// to the network manager's handlers.
type MessageType uint16

const (
	// MsgNone is an unclassified message.
	MsgNone MessageType = iota
	// MsgFlowControl marks a dedicated control frame whose record part is a
	// FlowControlRecord.
	MsgFlowControl
	// MsgHeartbeat is a keepalive carried on the None class; its record part
	// is a HeartbeatRecord naming the sender.
	MsgHeartbeat

	// MsgApplicationBase is the first type available to application
	// messages (query plans, chunk transfers, ...).
	MsgApplicationBase MessageType = 16
)

// AbortFn is invoked at most once when a queued message is dropped before
// transmission, so its owning query can be failed.
type AbortFn func(QueryID)

// Message is the envelope shared between the send queue and an in-flight
// write. The transport treats both parts as opaque bytes; it only consults
// the class, the size, and the owning query.
type Message struct {
	// Type tags the record part.
	Type MessageType
	// Class selects the flow-control channel.
	Class MessageClass
	// Query is the owning query, or zero if none.
	Query QueryID
	// Record is the structured header part, already encoded.
	Record []byte
	// Binary is the optional payload, typically raw array data. It is held
	// by reference and never copied on the send path.
	Binary []byte

	onAbort AbortFn
	aborted uint32 // atomic
}

// NewMessage builds an envelope for the given class. Record and binary are
// retained, not copied.
func NewMessage(t MessageType, class MessageClass, record, binary []byte) *Message {
	return &Message{Type: t, Class: class, Record: record, Binary: binary}
}

// BindQuery associates the message with its owning query. onAbort fires if
// the message is dropped before it reaches the wire.
func (m *Message) BindQuery(q QueryID, onAbort AbortFn) {
	m.Query = q
	m.onAbort = onAbort
}

// Size returns the total on-wire footprint of the message.
func (m *Message) Size() int {
	return frameHeaderSize + len(m.Record) + len(m.Binary)
}

// ReleaseBinary returns a pooled binary buffer to the allocator. Receivers
// that are done with the payload may call it; afterwards Binary must not be
// touched.
func (m *Message) ReleaseBinary() {
	if m.Binary != nil {
		pool.Put(m.Binary)
		m.Binary = nil
	}
}

// abort fires the owning query's abort callback. Repeated calls are no-ops:
// a message can be referenced by both the queue and an in-flight write.
func (m *Message) abort() {
	if m.onAbort == nil {
		return
	}
	if atomic.CompareAndSwapUint32(&m.aborted, 0, 1) {
		m.onAbort(m.Query)
	}
}
