package network

// multiChannelQueue is a send queue with one parallel FIFO channel per
// traffic class. FIFO is enforced per channel; the channels are drained in a
// round-robin fashion so a saturated bulk channel cannot starve control
// traffic.
//
// Every queue carries a generation id minted at construction. The peer uses
// it to detect that this side has restarted; sequence numbers are only
// meaningful within one generation.
//
// Not goroutine-safe; the owning connection's lock serializes access.
type multiChannelQueue struct {
	peer     InstanceID
	channels [ClassCount]*channel

	// currClass is the round-robin cursor: the class served by the most
	// recent pop.
	currClass MessageClass
	// activeCount caches the number of active channels so isActive is O(1).
	activeCount int
	// totalSize is the sum of all channel queue lengths.
	totalSize uint64

	localGen  GenID
	remoteGen GenID // 0 until the peer's first control frame
}

// queueLimits supplies the per-class configuration knobs, normally
// implemented by the network manager.
type queueLimits interface {
	GetSendQueueLimit(MessageClass) uint64
	GetReceiveQueueHint(MessageClass) uint64
}

func newMultiChannelQueue(peer InstanceID, limits queueLimits) *multiChannelQueue {
	q := &multiChannelQueue{
		peer:     peer,
		localGen: nextGenID(),
	}
	for c := MessageClass(0); c < ClassCount; c++ {
		q.channels[c] = newChannel(peer, c, limits.GetSendQueueLimit(c), limits.GetReceiveQueueHint(c))
	}
	return q
}

// pushBack routes msg to its class's channel.
func (q *multiChannelQueue) pushBack(class MessageClass, msg *Message) (*ConnStatus, error) {
	ch := q.channels[class]
	wasActive := ch.isActive()
	st, err := ch.pushBack(msg)
	if err != nil {
		return nil, err
	}
	q.totalSize++
	if !wasActive && ch.isActive() {
		q.activeCount++
	}
	return st, nil
}

// popFront dequeues the next message in round-robin order, starting from the
// class after the cursor. Exactly one message per call; inactive channels are
// skipped. Returns nil when no channel is active.
func (q *multiChannelQueue) popFront() (*Message, *ConnStatus) {
	if q.activeCount == 0 {
		return nil, nil
	}
	for i := MessageClass(1); i <= ClassCount; i++ {
		c := (q.currClass + i) % ClassCount
		ch := q.channels[c]
		if !ch.isActive() {
			continue
		}
		msg, st := ch.popFront()
		q.currClass = c
		q.totalSize--
		if !ch.isActive() {
			q.activeCount--
		}
		return msg, st
	}
	return nil, nil
}

// setRemoteState applies a peer control frame to the channel for class.
//
// Generation handling:
//   - peerGen ahead of remoteGen: the peer restarted. All pending messages
//     on all channels abort their queries and sequence numbers reset. A
//     remoteGen of zero means this is the first frame of the association,
//     so there is no previous life to discard.
//   - peerGen behind remoteGen, or the peer echoing an old generation of
//     ours: a stale frame; dropped with no state change.
//   - otherwise a normal update, validated first.
func (q *multiChannelQueue) setRemoteState(
	class MessageClass,
	remoteCapacity uint64,
	peerGen, ourGenSeenByPeer GenID,
	observedLocalSeq, peerLocalSeq SeqNum,
) (*ConnStatus, error) {
	ch := q.channels[class]

	switch {
	case peerGen > q.remoteGen:
		if q.remoteGen != 0 {
			q.abortMessages()
			for _, c := range q.channels {
				c.resetSeqNums()
			}
		}
		q.remoteGen = peerGen

	case peerGen < q.remoteGen:
		// Stale: frame from the peer's previous life.
		return nil, nil

	default:
		if ourGenSeenByPeer < q.localGen {
			// Stale: the peer is referring to our previous life.
			return nil, nil
		}
		if ourGenSeenByPeer > q.localGen {
			return nil, ErrProtocolViolation{
				Reason: "peer claims to have seen a generation we never minted",
			}
		}
	}

	if !ch.validateRemoteState(observedLocalSeq) {
		return nil, ErrProtocolViolation{
			Reason: "peer acknowledged a sequence number beyond our local sequence",
		}
	}

	wasActive := ch.isActive()
	st := ch.setRemoteState(remoteCapacity, observedLocalSeq, peerLocalSeq)
	q.noteActivity(ch, wasActive)
	return st, nil
}

func (q *multiChannelQueue) noteActivity(ch *channel, wasActive bool) {
	switch {
	case !wasActive && ch.isActive():
		q.activeCount++
	case wasActive && !ch.isActive():
		q.activeCount--
	}
}

// isActive reports whether any channel has a sendable message.
func (q *multiChannelQueue) isActive() bool {
	return q.activeCount > 0
}

func (q *multiChannelQueue) size() uint64 {
	return q.totalSize
}

// available returns the remaining credit on the given class.
func (q *multiChannelQueue) available(class MessageClass) uint64 {
	return q.channels[class].available()
}

// abortMessages drains every channel through its abort path. Counters are
// updated so the queue remains consistent for further use.
func (q *multiChannelQueue) abortMessages() {
	for _, ch := range q.channels {
		wasActive := ch.isActive()
		ch.abortMessages()
		q.noteActivity(ch, wasActive)
	}
	q.totalSize = 0
}

// swap exchanges the full contents of two queues. Used during reconnect: the
// connection swaps in a freshly built queue (new generation, clean credit)
// and decides what to do with the old contents, typically abortMessages.
func (q *multiChannelQueue) swap(other *multiChannelQueue) {
	*q, *other = *other, *q
}
