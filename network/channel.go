package network

// channel is a single FIFO stream of pending outbound messages for one
// traffic class toward one peer. It tracks how much credit the peer has
// advertised and the local/remote sequence numbers used to reconcile state
// after reconnects.
//
// Not goroutine-safe; the owning connection's lock serializes access.
type channel struct {
	peer  InstanceID
	class MessageClass

	// remoteCapacity is the peer-advertised receive buffer size, in
	// messages. Always >= 1.
	remoteCapacity uint64
	// localSeq counts messages enqueued on this side since the current
	// generation began.
	localSeq SeqNum
	// remoteSeq is the highest sequence number of the peer's direction we
	// have observed.
	remoteSeq SeqNum
	// localSeqOnPeer is the highest localSeq the peer has acknowledged.
	localSeqOnPeer SeqNum

	// sendLimit caps both the local queue length and the in-flight window.
	// Always >= 1.
	sendLimit uint64

	queue []*Message
}

func newChannel(peer InstanceID, class MessageClass, sendLimit, receiveHint uint64) *channel {
	if sendLimit < 1 {
		sendLimit = 1
	}
	if receiveHint < 1 {
		receiveHint = 1
	}
	return &channel{
		peer:           peer,
		class:          class,
		remoteCapacity: receiveHint,
		sendLimit:      sendLimit,
	}
}

// inFlight is the number of messages enqueued but not yet acknowledged by
// the peer's flow-control state.
func (ch *channel) inFlight() uint64 {
	return uint64(ch.localSeq - ch.localSeqOnPeer)
}

// available is the remaining credit: how many more messages the peer is
// willing to receive on this channel.
func (ch *channel) available() uint64 {
	if f := ch.inFlight(); ch.remoteCapacity > f {
		return ch.remoteCapacity - f
	}
	return 0
}

// isActive reports whether the channel has both credit and pending messages,
// i.e. whether popFront can make progress.
func (ch *channel) isActive() bool {
	return ch.available() > 0 && len(ch.queue) > 0
}

// pushBack appends msg to the channel. A message is admissible iff the local
// queue has room and the in-flight window is not full; the peer's advertised
// capacity gates transmission, not admission, so a producer may keep
// buffering through a brief peer stall.
//
// Returns a status iff the available credit crossed zero.
func (ch *channel) pushBack(msg *Message) (*ConnStatus, error) {
	if uint64(len(ch.queue)) >= ch.sendLimit || ch.inFlight() >= ch.sendLimit {
		return nil, ErrOverflow{Class: ch.class, Limit: ch.sendLimit}
	}
	before := ch.available()
	ch.queue = append(ch.queue, msg)
	ch.localSeq++
	return ch.newStatus(before, ch.available()), nil
}

// popFront dequeues the head message if the channel is active. localSeq is
// not touched here; it was advanced at push time.
func (ch *channel) popFront() (*Message, *ConnStatus) {
	if !ch.isActive() {
		return nil, nil
	}
	before := ch.available()
	msg := ch.queue[0]
	ch.queue[0] = nil
	ch.queue = ch.queue[1:]
	return msg, ch.newStatus(before, ch.available())
}

// setRemoteState applies a control frame from the peer: the peer's receive
// capacity, the highest of our sequence numbers it has seen, and its own
// latest sequence number. Acknowledgements are monotonic; a regression from
// a reordered stale frame is ignored.
func (ch *channel) setRemoteState(remoteCapacity uint64, observedLocalSeq, peerLocalSeq SeqNum) *ConnStatus {
	if remoteCapacity < 1 {
		remoteCapacity = 1
	}
	before := ch.available()
	ch.remoteCapacity = remoteCapacity
	if observedLocalSeq > ch.localSeqOnPeer {
		ch.localSeqOnPeer = observedLocalSeq
	}
	if peerLocalSeq > ch.remoteSeq {
		ch.remoteSeq = peerLocalSeq
	}
	return ch.newStatus(before, ch.available())
}

// validateRemoteState checks that the peer's claims are consistent with the
// local state: the peer cannot have seen a sequence number we never
// generated. A violation is fatal for the connection.
func (ch *channel) validateRemoteState(observedLocalSeq SeqNum) bool {
	return ch.localSeq >= observedLocalSeq
}

// abortMessages drops every queued message, firing each owning query's abort
// callback. Sequence numbers are left alone; they reset only via a
// generation bump.
func (ch *channel) abortMessages() {
	for i, msg := range ch.queue {
		msg.abort()
		ch.queue[i] = nil
	}
	ch.queue = ch.queue[:0]
}

// resetSeqNums rewinds the channel to the beginning of a new generation.
func (ch *channel) resetSeqNums() {
	ch.localSeq = 0
	ch.remoteSeq = 0
	ch.localSeqOnPeer = 0
}

func (ch *channel) size() uint64 {
	return uint64(len(ch.queue))
}

// newStatus mints a status delta iff the available credit crossed the zero
// boundary between before and after.
func (ch *channel) newStatus(before, after uint64) *ConnStatus {
	if (before == 0) == (after == 0) {
		return nil
	}
	return &ConnStatus{Peer: ch.peer, Class: ch.class, Available: after}
}
