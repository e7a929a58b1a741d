package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLimits struct {
	sendLimit uint64
	recvHint  uint64
}

func (l testLimits) GetSendQueueLimit(MessageClass) uint64   { return l.sendLimit }
func (l testLimits) GetReceiveQueueHint(MessageClass) uint64 { return l.recvHint }

func newTestQueue(t *testing.T, sendLimit, recvHint uint64) *multiChannelQueue {
	t.Helper()
	return newMultiChannelQueue(7, testLimits{sendLimit: sendLimit, recvHint: recvHint})
}

func (q *multiChannelQueue) mustPush(t *testing.T, class MessageClass, payload string) {
	t.Helper()
	_, err := q.pushBack(class, testMsg(class, payload))
	require.NoError(t, err)
}

func TestMultiChannelQueue_RoundRobin(t *testing.T) {
	q := newTestQueue(t, 8, 8)

	q.mustPush(t, ClassNormal, "n1")
	q.mustPush(t, ClassNormal, "n2")
	q.mustPush(t, ClassBulk, "b1")
	q.mustPush(t, ClassBulk, "b2")

	var got []string
	for {
		msg, _ := q.popFront()
		if msg == nil {
			break
		}
		got = append(got, string(msg.Record))
	}
	// one message per pop, cursor advancing: normal and bulk interleave
	assert.Equal(t, []string{"n1", "b1", "n2", "b2"}, got)
}

func TestMultiChannelQueue_RoundRobinSkipsSaturated(t *testing.T) {
	q := newTestQueue(t, 8, 1)

	// capacity 1 on every channel: a single push fills the in-flight
	// window, so nothing is eligible to send
	q.mustPush(t, ClassNormal, "n1")
	q.mustPush(t, ClassBulk, "b1")
	q.mustPush(t, ClassBulk, "b2")
	assert.False(t, q.isActive())
	msg, _ := q.popFront()
	assert.Nil(t, msg)

	// the peer relieves bulk only; normal stays saturated but must not
	// block bulk's progress
	_, err := q.setRemoteState(ClassBulk, 4, 100, GenID(q.localGen), 0, 0)
	require.NoError(t, err)

	var got []string
	for {
		msg, _ := q.popFront()
		if msg == nil {
			break
		}
		got = append(got, string(msg.Record))
	}
	assert.Equal(t, []string{"b1", "b2"}, got)
	assert.False(t, q.isActive())
	assert.EqualValues(t, 1, q.size())
}

func TestMultiChannelQueue_Accounting(t *testing.T) {
	q := newTestQueue(t, 8, 8)
	assert.False(t, q.isActive())
	assert.EqualValues(t, 0, q.size())

	q.mustPush(t, ClassNone, "c1")
	q.mustPush(t, ClassNormal, "n1")
	assert.Equal(t, 2, q.activeCount)
	assert.EqualValues(t, 2, q.size())

	active := 0
	for _, ch := range q.channels {
		if ch.isActive() {
			active++
		}
	}
	assert.Equal(t, active, q.activeCount)

	msg, _ := q.popFront()
	require.NotNil(t, msg)
	assert.EqualValues(t, 1, q.size())
}

func TestMultiChannelQueue_PeerRestart(t *testing.T) {
	q := newTestQueue(t, 8, 8)

	// establish the peer's generation
	_, err := q.setRemoteState(ClassNormal, 8, 100, GenID(q.localGen), 0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 100, q.remoteGen)

	var aborted []QueryID
	for i := 1; i <= 5; i++ {
		msg := testMsg(ClassNormal, "m")
		msg.BindQuery(QueryID(i), func(qid QueryID) { aborted = append(aborted, qid) })
		_, err := q.pushBack(ClassNormal, msg)
		require.NoError(t, err)
	}
	require.EqualValues(t, 5, q.channels[ClassNormal].localSeq)

	// the peer comes back with a newer generation
	_, err = q.setRemoteState(ClassNormal, 8, 200, GenID(q.localGen), 0, 0)
	require.NoError(t, err)

	assert.ElementsMatch(t, []QueryID{1, 2, 3, 4, 5}, aborted)
	assert.EqualValues(t, 200, q.remoteGen)
	assert.EqualValues(t, 0, q.channels[ClassNormal].localSeq)
	assert.EqualValues(t, 0, q.size())

	// the next push starts the new sequence
	q.mustPush(t, ClassNormal, "fresh")
	assert.EqualValues(t, 1, q.channels[ClassNormal].localSeq)
}

func TestMultiChannelQueue_FirstContactDoesNotAbort(t *testing.T) {
	q := newTestQueue(t, 8, 8)

	aborts := 0
	msg := testMsg(ClassNormal, "buffered")
	msg.BindQuery(1, func(QueryID) { aborts++ })
	_, err := q.pushBack(ClassNormal, msg)
	require.NoError(t, err)

	// remoteGen is still zero: the first frame of the association adopts
	// the peer's generation without discarding what we buffered
	_, err = q.setRemoteState(ClassNormal, 8, 100, GenID(q.localGen), 0, 0)
	require.NoError(t, err)
	assert.Zero(t, aborts)
	assert.EqualValues(t, 1, q.size())
}

func TestMultiChannelQueue_StaleFrameDropped(t *testing.T) {
	q := newTestQueue(t, 8, 8)
	_, err := q.setRemoteState(ClassNormal, 8, 100, GenID(q.localGen), 0, 0)
	require.NoError(t, err)

	q.mustPush(t, ClassNormal, "m")
	before := *q.channels[ClassNormal]

	// frame echoing a generation of ours that predates this queue
	st, err := q.setRemoteState(ClassNormal, 99, 100, GenID(q.localGen)-1, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, st)
	after := *q.channels[ClassNormal]
	assert.Equal(t, before.remoteCapacity, after.remoteCapacity)
	assert.Equal(t, before.localSeqOnPeer, after.localSeqOnPeer)

	// frame from the peer's previous generation
	st, err = q.setRemoteState(ClassNormal, 99, 50, GenID(q.localGen), 1, 1)
	require.NoError(t, err)
	assert.Nil(t, st)
	assert.EqualValues(t, 100, q.remoteGen)
}

func TestMultiChannelQueue_ProtocolViolation(t *testing.T) {
	q := newTestQueue(t, 8, 8)
	_, err := q.setRemoteState(ClassNormal, 8, 100, GenID(q.localGen), 0, 0)
	require.NoError(t, err)

	q.mustPush(t, ClassNormal, "m1")
	q.mustPush(t, ClassNormal, "m2")
	q.mustPush(t, ClassNormal, "m3")

	// peer claims to have seen 10 of our messages; we sent 3
	_, err = q.setRemoteState(ClassNormal, 8, 100, GenID(q.localGen), 10, 0)
	require.Error(t, err)
	var violation ErrProtocolViolation
	require.ErrorAs(t, err, &violation)

	// a future generation of ours is equally impossible
	_, err = q.setRemoteState(ClassNormal, 8, 100, GenID(q.localGen)+1, 0, 0)
	require.Error(t, err)
}

func TestMultiChannelQueue_GenerationsIncrease(t *testing.T) {
	prev := GenID(0)
	for i := 0; i < 100; i++ {
		q := newTestQueue(t, 1, 1)
		require.Greater(t, q.localGen, prev)
		prev = q.localGen
	}
}

func TestMultiChannelQueue_Swap(t *testing.T) {
	limits := testLimits{sendLimit: 8, recvHint: 8}
	q1 := newMultiChannelQueue(7, limits)
	q1.mustPush(t, ClassNormal, "old")
	oldGen := q1.localGen

	q2 := newMultiChannelQueue(7, limits)
	require.Greater(t, q2.localGen, oldGen)

	q1.swap(q2)

	// q1 is now the clean queue under the new generation
	assert.EqualValues(t, 0, q1.size())
	assert.Greater(t, q1.localGen, oldGen)

	// the old contents moved to q2 for the caller to abort
	assert.EqualValues(t, 1, q2.size())
	assert.Equal(t, oldGen, q2.localGen)
	q2.abortMessages()
	assert.EqualValues(t, 0, q2.size())
}
