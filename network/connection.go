package network

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"

	pool "github.com/libp2p/go-buffer-pool"

	"github.com/rohankumardubey/scidb/libs/async"
	"github.com/rohankumardubey/scidb/libs/service"
	scsync "github.com/rohankumardubey/scidb/libs/sync"
	"github.com/rohankumardubey/scidb/network/netpb"
)

const (
	// maxRecordBytes caps the record part of an inbound frame.
	maxRecordBytes = 1 << 24 // 16MB
	// maxBinaryBytes caps the binary part of an inbound frame.
	maxBinaryBytes = 1 << 30 // 1GB

	// strandBufferSize is the depth of the per-connection callback strand.
	strandBufferSize = 1024
)

// NetworkManager is the narrow interface the connection core consumes. The
// manager routes delivered messages to handlers, supplies queue
// configuration, and owns the reconnect policy.
type NetworkManager interface {
	// GetSendQueueLimit returns the cap on queued outbound messages for a
	// class.
	GetSendQueueLimit(class MessageClass) uint64
	// GetReceiveQueueHint returns the intake buffer size advertised to
	// peers for a class.
	GetReceiveQueueHint(class MessageClass) uint64
	// OnMessageReceived is called for every delivered application message.
	OnMessageReceived(msg *Message, from InstanceID)
	// OnConnectionStatus is called when a channel crosses the
	// saturated/unsaturated boundary.
	OnConnectionStatus(status ConnStatus)
	// OnDisconnect is called when a peer connection dies and was not
	// explicitly closed; the manager decides whether and when to
	// reconnect.
	OnDisconnect(peer InstanceID)
}

type connState int

const (
	stateNotConnected connState = iota
	stateConnectInProgress
	stateConnected
)

func (s connState) String() string {
	switch s {
	case stateNotConnected:
		return "not-connected"
	case stateConnectInProgress:
		return "connect-in-progress"
	case stateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Connection is the long-lived, bidirectional, framed message link to one
// peer (or client). It owns one socket and one multi-channel send queue,
// runs the framed read/write loops, exchanges flow-control frames, and
// tracks the client queries that must be notified on disconnect.
//
// All state is serialized by the internal lock; callbacks into the manager
// run on a per-connection strand so they never execute concurrently. The
// public API is safe to call from any goroutine.
type Connection struct {
	service.BaseService

	manager NetworkManager
	metrics *Metrics

	selfInstance InstanceID

	mtx       scsync.Mutex
	state     connState
	conn      net.Conn
	queue     *multiChannelQueue
	isSending bool

	peerInstance InstanceID
	peerAddress  string
	// outbound connections dial the peer and are subject to the manager's
	// reconnect policy; inbound (client) connections are not.
	outbound bool

	activeClientQueries map[QueryID]DisconnectHandler
	statusesToPublish   map[MessageClass]*ConnStatus

	// Intake bookkeeping for the current socket session: how many messages
	// of each class we received, and which classes have updates the peer
	// has not been told about yet.
	recvSeq      [ClassCount]SeqNum
	controlDirty [ClassCount]bool

	sessionQuit chan struct{}
	sendWake    chan struct{}
	dialCancel  context.CancelFunc

	strand *async.TaskRunner
}

// NewConnection builds a connection toward peer. Pass InvalidInstance for
// inbound connections whose peer is identified by its first message; those
// never trigger the reconnect policy. metrics may be nil.
func NewConnection(manager NetworkManager, self, peer InstanceID, metrics *Metrics) *Connection {
	if metrics == nil {
		metrics = NopMetrics()
	}
	c := &Connection{
		manager:             manager,
		metrics:             metrics,
		selfInstance:        self,
		peerInstance:        peer,
		outbound:            peer != InvalidInstance,
		activeClientQueries: make(map[QueryID]DisconnectHandler),
		statusesToPublish:   make(map[MessageClass]*ConnStatus),
	}
	c.queue = newMultiChannelQueue(peer, manager)
	c.BaseService = *service.NewBaseService(nil, "Connection", c)
	return c
}

// OnStart implements service.Service.
func (c *Connection) OnStart() error {
	c.strand = async.NewTaskRunner(strandBufferSize, func(r any, stack []byte) {
		c.Logger.Error("Connection callback panicked", "err", r, "stack", string(stack))
	})
	return nil
}

// OnStop implements service.Service. It disconnects without scheduling a
// reconnect and waits for pending callbacks to drain.
func (c *Connection) OnStop() {
	c.closeSession(nil, true)
	c.strand.Stop()
}

func (c *Connection) String() string {
	return fmt.Sprintf("Connection{peer=%d addr=%s}", c.peerInstance, c.peerAddress)
}

// PeerInstance returns the peer's instance id, or InvalidInstance if not yet
// known.
func (c *Connection) PeerInstance() InstanceID {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.peerInstance
}

// IsConnected reports whether the socket is established.
func (c *Connection) IsConnected() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.state == stateConnected
}

// Available returns the remaining send credit on the given class. Use only
// as a heuristic; it can change the moment the lock is released.
func (c *Connection) Available(class MessageClass) uint64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.queue.available(class)
}

// ConnectAsync resolves and connects to host:port without blocking. It is a
// no-op unless the connection is idle. Failures are reported through the
// manager's disconnect path, which owns the retry policy; operations such as
// SendMessage may be invoked immediately, their messages buffered until the
// socket is up.
func (c *Connection) ConnectAsync(host string, port uint16) {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))

	c.mtx.Lock()
	if c.state != stateNotConnected || !c.IsRunning() {
		c.mtx.Unlock()
		return
	}
	c.state = stateConnectInProgress
	c.peerAddress = addr
	ctx, cancel := context.WithCancel(context.Background())
	c.dialCancel = cancel
	c.mtx.Unlock()

	c.Logger.Debug("Connecting", "addr", addr)

	go func() {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			c.Logger.Info("Connect failed", "addr", addr, "err", err)
			c.mtx.Lock()
			wasInProgress := c.state == stateConnectInProgress
			if wasInProgress {
				c.state = stateNotConnected
				c.dialCancel = nil
			}
			peer, outbound := c.peerInstance, c.outbound
			c.mtx.Unlock()
			// A dial canceled by Disconnect or Stop must not trigger the
			// reconnect policy.
			if wasInProgress && outbound {
				c.strand.Enqueue(func() { c.manager.OnDisconnect(peer) })
			}
			return
		}
		c.startSession(conn)
	}()
}

// Accept adopts an already-established socket, e.g. one produced by the
// manager's listener. It is the first method executed for an incoming
// connection.
func (c *Connection) Accept(conn net.Conn) {
	c.startSession(conn)
}

// startSession installs conn and spins up the read and write loops. The
// writer is primed so it immediately announces our generation and receive
// capacities, then flushes anything buffered while disconnected.
func (c *Connection) startSession(conn net.Conn) {
	c.mtx.Lock()
	if !c.IsRunning() || c.state == stateConnected {
		c.mtx.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.state = stateConnected
	c.dialCancel = nil
	c.sessionQuit = make(chan struct{})
	c.sendWake = make(chan struct{}, 1)
	for class := range c.controlDirty {
		c.controlDirty[class] = true
		c.recvSeq[class] = 0
	}
	c.isSending = true
	quit, wake := c.sessionQuit, c.sendWake
	c.mtx.Unlock()

	c.Logger.Info("Connected", "addr", conn.RemoteAddr())
	c.metrics.Connects.Add(1)

	go c.readLoop(conn, quit)
	go c.writeLoop(conn, wake, quit)

	wake <- struct{}{}
}

// SendMessage enqueues msg on the channel for its class. An ErrOverflow
// return is backpressure, not failure: the producer should retry after the
// next unsaturated status. Messages enqueued while disconnected are buffered
// and flushed in order once the socket is up.
func (c *Connection) SendMessage(msg *Message) error {
	if !msg.Class.Valid() {
		return ErrBadFrame{Reason: fmt.Sprintf("invalid message class %d", msg.Class)}
	}

	c.mtx.Lock()
	st, err := c.queue.pushBack(msg.Class, msg)
	if err != nil {
		c.mtx.Unlock()
		return err
	}
	c.metrics.QueueDepth.With("class", msg.Class.String()).Set(float64(c.queue.channels[msg.Class].size()))
	var wake chan struct{}
	if c.state == stateConnected && !c.isSending && c.queue.isActive() {
		c.isSending = true
		wake = c.sendWake
	}
	c.mtx.Unlock()

	if wake != nil {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
	c.publishStatus(st)
	return nil
}

// AttachQuery registers a client query with this connection. handler runs
// exactly once if the connection terminates before DetachQuery. Handlers
// must be non-blocking and must not re-enter the connection.
func (c *Connection) AttachQuery(query QueryID, handler DisconnectHandler) {
	c.mtx.Lock()
	c.activeClientQueries[query] = handler
	c.mtx.Unlock()
}

// DetachQuery removes a query registration. Idempotent.
func (c *Connection) DetachQuery(query QueryID) {
	c.mtx.Lock()
	delete(c.activeClientQueries, query)
	c.mtx.Unlock()
}

// Disconnect tears the socket down and aborts all in-flight state. No
// reconnect is scheduled.
func (c *Connection) Disconnect() {
	c.closeSession(nil, true)
}

// handleError is the single error path: socket failures, malformed frames
// and protocol violations all land here. Outbound peer connections ask the
// manager for a reconnect.
func (c *Connection) handleError(err error) {
	c.closeSession(err, false)
}

// closeSession transitions to NotConnected: it cancels pending I/O, swaps in
// a fresh queue under a new generation, aborts the old queue's messages
// (failing their owning queries), and runs every attached query's disconnect
// handler exactly once.
func (c *Connection) closeSession(err error, explicit bool) {
	c.mtx.Lock()
	if c.state == stateNotConnected {
		c.mtx.Unlock()
		return
	}
	if c.dialCancel != nil {
		c.dialCancel()
		c.dialCancel = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = stateNotConnected
	c.isSending = false
	if c.sessionQuit != nil {
		close(c.sessionQuit)
		c.sessionQuit = nil
	}

	// Preserve nothing from the old generation: pending messages abort and
	// sequence numbers restart. Messages sent from now on buffer in the
	// fresh queue and flush after the next connect.
	fresh := newMultiChannelQueue(c.peerInstance, c.manager)
	c.queue.swap(fresh)
	oldQueue := fresh

	handlers := c.activeClientQueries
	c.activeClientQueries = make(map[QueryID]DisconnectHandler)

	peer, outbound := c.peerInstance, c.outbound
	c.mtx.Unlock()

	if err != nil {
		c.Logger.Error("Connection failed", "peer", peer, "err", err)
	} else {
		c.Logger.Info("Disconnected", "peer", peer)
	}
	c.metrics.Disconnects.Add(1)

	if conn != nil {
		conn.Close()
	}
	oldQueue.abortMessages()

	c.strand.Enqueue(func() {
		for query, handler := range handlers {
			if handler != nil {
				handler(query)
			}
		}
		if outbound && !explicit {
			c.manager.OnDisconnect(peer)
		}
	})
}

// writeLoop drains the queue one message at a time in round-robin order
// across the classes. Before application traffic it emits dedicated control
// frames for every class whose intake state the peer has not seen; each
// application frame additionally piggybacks the current state of its own
// class in the header.
func (c *Connection) writeLoop(conn net.Conn, wake, quit chan struct{}) {
	hdrBuf := make([]byte, frameHeaderSize)

	for {
		select {
		case <-quit:
			return
		case <-wake:
		}

		for {
			frame := c.nextOutbound()
			if frame == nil {
				break
			}
			n, err := c.writeFrame(conn, hdrBuf, frame)
			if err != nil {
				c.Logger.Error("Failed to write frame", "err", err)
				c.handleError(err)
				return
			}
			c.metrics.BytesSent.Add(float64(n))
			if frame.msg != nil {
				c.metrics.MessagesSent.With("class", frame.msg.Class.String()).Add(1)
			}
			c.publishStatus(frame.status)
		}
	}
}

// outFrame is one unit of work for the writer: an application message, a
// dedicated control update, or an application message with a piggybacked
// update.
type outFrame struct {
	msg    *Message
	fc     *flowControlState
	status *ConnStatus
}

// nextOutbound picks the writer's next frame under the lock. When neither
// control updates nor eligible messages remain it clears isSending and
// returns nil; a later push or credit arrival re-arms the writer.
func (c *Connection) nextOutbound() *outFrame {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.state != stateConnected {
		c.isSending = false
		return nil
	}

	// Pending intake updates go first: they are cheap and they unblock the
	// peer's writer.
	for class := MessageClass(0); class < ClassCount; class++ {
		if c.controlDirty[class] {
			c.controlDirty[class] = false
			fc := c.buildControlState(class)
			return &outFrame{fc: &fc}
		}
	}

	msg, st := c.queue.popFront()
	if msg == nil {
		c.isSending = false
		return nil
	}
	c.metrics.QueueDepth.With("class", msg.Class.String()).Set(float64(c.queue.channels[msg.Class].size()))

	// Opportunistic piggyback of this class's current intake state.
	fc := c.buildControlState(msg.Class)
	return &outFrame{msg: msg, fc: &fc, status: st}
}

// buildControlState snapshots the flow-control update we advertise for
// class. Caller must hold the lock.
func (c *Connection) buildControlState(class MessageClass) flowControlState {
	return flowControlState{
		Class:            class,
		RemoteCapacity:   c.manager.GetReceiveQueueHint(class),
		PeerGen:          c.queue.localGen,
		OurGenSeenByPeer: c.queue.remoteGen,
		ObservedLocalSeq: c.recvSeq[class],
		PeerLocalSeq:     c.queue.channels[class].localSeq,
	}
}

// writeFrame emits one frame: fixed header, record part, binary part.
func (c *Connection) writeFrame(conn net.Conn, hdrBuf []byte, frame *outFrame) (int, error) {
	hdr := frameHeader{SourceInstance: c.selfInstance}

	var record, bin []byte
	switch {
	case frame.msg != nil:
		hdr.Type = frame.msg.Type
		hdr.Class = frame.msg.Class
		hdr.Query = frame.msg.Query
		record = frame.msg.Record
		bin = frame.msg.Binary
		if frame.fc != nil {
			hdr.Flags |= flagFlowControl
			hdr.FlowControl = *frame.fc
		}
	default:
		hdr.Type = MsgFlowControl
		hdr.Class = frame.fc.Class
		rec, err := frame.fc.toRecord().Marshal()
		if err != nil {
			return 0, err
		}
		record = rec
	}
	hdr.RecordLen = uint32(len(record))
	hdr.BinaryLen = uint64(len(bin))
	encodeFrameHeader(hdrBuf, &hdr)

	total := 0
	for _, part := range [][]byte{hdrBuf, record, bin} {
		if len(part) == 0 {
			continue
		}
		n, err := conn.Write(part)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// readLoop is the continuous three-phase read: fixed header, record part,
// binary part. Control updates are applied to the queue; application
// messages are handed to the manager on the strand. Any failure takes the
// error path.
func (c *Connection) readLoop(conn net.Conn, quit chan struct{}) {
	hdrBuf := make([]byte, frameHeaderSize)

	for {
		if _, err := io.ReadFull(conn, hdrBuf); err != nil {
			c.readLoopError(err, quit)
			return
		}
		var hdr frameHeader
		if err := decodeFrameHeader(hdrBuf, &hdr); err != nil {
			c.readLoopError(err, quit)
			return
		}
		if hdr.RecordLen > maxRecordBytes {
			c.readLoopError(ErrBadFrame{Reason: fmt.Sprintf("record part too big: %d", hdr.RecordLen)}, quit)
			return
		}
		if hdr.BinaryLen > maxBinaryBytes {
			c.readLoopError(ErrBadFrame{Reason: fmt.Sprintf("binary part too big: %d", hdr.BinaryLen)}, quit)
			return
		}

		var record []byte
		if hdr.RecordLen > 0 {
			record = make([]byte, hdr.RecordLen)
			if _, err := io.ReadFull(conn, record); err != nil {
				c.readLoopError(err, quit)
				return
			}
		}
		var bin []byte
		if hdr.BinaryLen > 0 {
			bin = pool.Get(int(hdr.BinaryLen))
			if _, err := io.ReadFull(conn, bin); err != nil {
				c.readLoopError(err, quit)
				return
			}
		}
		c.metrics.BytesReceived.Add(float64(frameHeaderSize + len(record) + len(bin)))

		if err := c.processFrame(&hdr, record, bin); err != nil {
			c.readLoopError(err, quit)
			return
		}
	}
}

// readLoopError suppresses the expected failure after an intentional close,
// then routes everything else to the error path.
func (c *Connection) readLoopError(err error, quit chan struct{}) {
	select {
	case <-quit:
		return
	default:
	}
	if err == io.EOF {
		c.Logger.Info("Connection closed by peer")
	}
	c.handleError(err)
}

// processFrame applies a decoded frame: piggybacked then dedicated control
// state first, then dispatch of the application message.
func (c *Connection) processFrame(hdr *frameHeader, record, bin []byte) error {
	if !hdr.Class.Valid() {
		return ErrProtocolViolation{Reason: fmt.Sprintf("unknown message class %d", hdr.Class)}
	}

	if hdr.hasFlowControl() {
		if err := c.applyFlowControl(hdr.FlowControl); err != nil {
			return err
		}
	}

	if hdr.Type == MsgFlowControl {
		rec := new(netpb.FlowControlRecord)
		if err := rec.Unmarshal(record); err != nil {
			return ErrBadFrame{Reason: "undecodable flow-control record: " + err.Error()}
		}
		fc := flowControlFromRecord(rec)
		if !fc.Class.Valid() {
			return ErrProtocolViolation{Reason: fmt.Sprintf("flow control for unknown class %d", fc.Class)}
		}
		return c.applyFlowControl(fc)
	}

	// Application frame: count it against the intake window and schedule a
	// control update so the peer learns its message arrived.
	c.mtx.Lock()
	c.recvSeq[hdr.Class]++
	c.controlDirty[hdr.Class] = true
	if c.peerInstance == InvalidInstance && hdr.SourceInstance != InvalidInstance {
		c.peerInstance = hdr.SourceInstance
	}
	peer := c.peerInstance
	wake := c.armWriterLocked()
	c.mtx.Unlock()
	c.wakeWriter(wake)

	c.metrics.MessagesReceived.With("class", hdr.Class.String()).Add(1)

	msg := NewMessage(hdr.Type, hdr.Class, record, bin)
	msg.Query = hdr.Query
	c.strand.Enqueue(func() { c.manager.OnMessageReceived(msg, peer) })
	return nil
}

// applyFlowControl feeds a peer update into the queue. A generation ahead of
// the one we know resets our intake counters too: the peer restarted, so its
// sequence numbering restarted.
func (c *Connection) applyFlowControl(fc flowControlState) error {
	c.mtx.Lock()
	if fc.PeerGen > c.queue.remoteGen && c.queue.remoteGen != 0 {
		for class := range c.recvSeq {
			c.recvSeq[class] = 0
			c.controlDirty[class] = true
		}
	}
	st, err := c.queue.setRemoteState(
		fc.Class, fc.RemoteCapacity,
		fc.PeerGen, fc.OurGenSeenByPeer,
		fc.ObservedLocalSeq, fc.PeerLocalSeq,
	)
	if err != nil {
		c.mtx.Unlock()
		return err
	}
	wake := c.armWriterLocked()
	c.mtx.Unlock()

	c.wakeWriter(wake)
	c.publishStatus(st)
	return nil
}

// armWriterLocked marks the writer busy if there is work and it is idle,
// returning the wake channel to signal. Caller must hold the lock.
func (c *Connection) armWriterLocked() chan struct{} {
	if c.state != stateConnected || c.isSending {
		return nil
	}
	dirty := false
	for _, d := range c.controlDirty {
		if d {
			dirty = true
			break
		}
	}
	if !dirty && !c.queue.isActive() {
		return nil
	}
	c.isSending = true
	return c.sendWake
}

func (*Connection) wakeWriter(wake chan struct{}) {
	if wake == nil {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}

// publishStatus coalesces st into the pending set and schedules a flush on
// the strand. Only the latest edge per class survives coalescing.
func (c *Connection) publishStatus(st *ConnStatus) {
	if st == nil {
		return
	}
	if st.Saturated() {
		c.metrics.Saturations.With("class", st.Class.String()).Add(1)
	}

	c.mtx.Lock()
	c.statusesToPublish[st.Class] = st
	c.mtx.Unlock()

	c.strand.Enqueue(func() {
		c.mtx.Lock()
		pending := make([]*ConnStatus, 0, len(c.statusesToPublish))
		for _, s := range c.statusesToPublish {
			pending = append(pending, s)
		}
		for class := range c.statusesToPublish {
			delete(c.statusesToPublish, class)
		}
		c.mtx.Unlock()

		for _, s := range pending {
			c.manager.OnConnectionStatus(*s)
		}
	})
}
