package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMsg(class MessageClass, payload string) *Message {
	return NewMessage(MsgApplicationBase, class, []byte(payload), nil)
}

func TestChannel_PushPopFIFO(t *testing.T) {
	ch := newChannel(1, ClassNormal, 10, 10)

	for _, p := range []string{"a", "b", "c"} {
		_, err := ch.pushBack(testMsg(ClassNormal, p))
		require.NoError(t, err)
	}
	assert.EqualValues(t, 3, ch.localSeq)
	assert.EqualValues(t, 3, ch.size())

	for _, want := range []string{"a", "b", "c"} {
		msg, _ := ch.popFront()
		require.NotNil(t, msg)
		assert.Equal(t, want, string(msg.Record))
	}
	msg, _ := ch.popFront()
	assert.Nil(t, msg)
	// popping does not consume credit; only acknowledgements do
	assert.EqualValues(t, 3, ch.localSeq)
}

func TestChannel_OverflowAtSendLimit(t *testing.T) {
	ch := newChannel(1, ClassNormal, 2, 2)

	_, err := ch.pushBack(testMsg(ClassNormal, "m1"))
	require.NoError(t, err)
	st, err := ch.pushBack(testMsg(ClassNormal, "m2"))
	require.NoError(t, err)
	require.NotNil(t, st, "second push should saturate the window")
	assert.True(t, st.Saturated())

	_, err = ch.pushBack(testMsg(ClassNormal, "m3"))
	require.Error(t, err)
	overflow, ok := err.(ErrOverflow)
	require.True(t, ok)
	assert.Equal(t, ClassNormal, overflow.Class)
	assert.True(t, overflow.Full())
}

func TestChannel_SendLimitOne(t *testing.T) {
	ch := newChannel(1, ClassNormal, 1, 4)

	_, err := ch.pushBack(testMsg(ClassNormal, "only"))
	require.NoError(t, err)

	_, err = ch.pushBack(testMsg(ClassNormal, "refused"))
	require.Error(t, err)

	// sending the message does not reopen admission: the in-flight window
	// stays full until the peer acknowledges
	msg, _ := ch.popFront()
	require.NotNil(t, msg)
	_, err = ch.pushBack(testMsg(ClassNormal, "still refused"))
	require.Error(t, err)

	ch.setRemoteState(4, 1, 0)
	_, err = ch.pushBack(testMsg(ClassNormal, "next"))
	require.NoError(t, err)
}

func TestChannel_BackpressureAndRelief(t *testing.T) {
	// sendLimit=2, remoteCapacity=2: the literal scenario.
	ch := newChannel(1, ClassNormal, 2, 2)

	st, err := ch.pushBack(testMsg(ClassNormal, "m1"))
	require.NoError(t, err)
	assert.Nil(t, st, "2 -> 1 is not an edge")

	st, err = ch.pushBack(testMsg(ClassNormal, "m2"))
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.True(t, st.Saturated())
	assert.EqualValues(t, 0, st.Available)

	_, err = ch.pushBack(testMsg(ClassNormal, "m3"))
	require.Error(t, err)

	// control frame: peer saw both and grew its buffer
	st = ch.setRemoteState(4, 2, 0)
	require.NotNil(t, st)
	assert.False(t, st.Saturated())
	assert.EqualValues(t, 4, st.Available)
}

func TestChannel_SetRemoteStateIdempotent(t *testing.T) {
	ch := newChannel(1, ClassNormal, 4, 4)
	_, err := ch.pushBack(testMsg(ClassNormal, "m1"))
	require.NoError(t, err)

	st := ch.setRemoteState(4, 1, 2)
	assert.Nil(t, st)
	// same values again: no edge, no delta
	st = ch.setRemoteState(4, 1, 2)
	assert.Nil(t, st)
	assert.EqualValues(t, 1, ch.localSeqOnPeer)
	assert.EqualValues(t, 2, ch.remoteSeq)
}

func TestChannel_StaleAckRegressionIgnored(t *testing.T) {
	ch := newChannel(1, ClassNormal, 8, 8)
	for i := 0; i < 5; i++ {
		_, err := ch.pushBack(testMsg(ClassNormal, "m"))
		require.NoError(t, err)
	}
	ch.setRemoteState(8, 4, 0)
	require.EqualValues(t, 4, ch.localSeqOnPeer)

	// a reordered frame acknowledging less must not rewind
	ch.setRemoteState(8, 2, 0)
	assert.EqualValues(t, 4, ch.localSeqOnPeer)
}

func TestChannel_ValidateRemoteState(t *testing.T) {
	ch := newChannel(1, ClassNormal, 8, 8)
	for i := 0; i < 3; i++ {
		_, err := ch.pushBack(testMsg(ClassNormal, "m"))
		require.NoError(t, err)
	}

	assert.True(t, ch.validateRemoteState(3))
	assert.True(t, ch.validateRemoteState(0))
	// peer cannot have seen a message we never sent
	assert.False(t, ch.validateRemoteState(10))
}

func TestChannel_AbortMessages(t *testing.T) {
	ch := newChannel(1, ClassNormal, 8, 8)

	var aborted []QueryID
	for i := 1; i <= 3; i++ {
		msg := testMsg(ClassNormal, "m")
		msg.BindQuery(QueryID(i), func(q QueryID) { aborted = append(aborted, q) })
		_, err := ch.pushBack(msg)
		require.NoError(t, err)
	}

	ch.abortMessages()
	assert.ElementsMatch(t, []QueryID{1, 2, 3}, aborted)
	assert.EqualValues(t, 0, ch.size())
	// sequence numbers survive an abort; only a generation bump resets them
	assert.EqualValues(t, 3, ch.localSeq)
}

func TestChannel_IsActive(t *testing.T) {
	ch := newChannel(1, ClassNormal, 4, 2)
	assert.False(t, ch.isActive(), "no messages")

	_, err := ch.pushBack(testMsg(ClassNormal, "m1"))
	require.NoError(t, err)
	assert.True(t, ch.isActive())

	_, err = ch.pushBack(testMsg(ClassNormal, "m2"))
	require.NoError(t, err)
	// credit exhausted: messages remain but cannot be sent
	_, err = ch.pushBack(testMsg(ClassNormal, "m3"))
	require.NoError(t, err)
	assert.False(t, ch.isActive())

	msgQueued := ch.size()
	assert.EqualValues(t, 3, msgQueued)
}
