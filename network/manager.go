package network

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/rohankumardubey/scidb/config"
	"github.com/rohankumardubey/scidb/libs/service"
	scsync "github.com/rohankumardubey/scidb/libs/sync"
	"github.com/rohankumardubey/scidb/network/netpb"
)

// Handler processes one delivered application message. Handlers run on the
// originating connection's strand and must not block for long.
type Handler func(msg *Message, from InstanceID)

// Manager owns the per-peer connections: it dials registered peers, accepts
// inbound connections, routes delivered messages to handlers, schedules
// reconnects with exponential backoff, and keeps idle links alive with
// heartbeats on the None class.
type Manager struct {
	service.BaseService

	cfg     *config.NetworkConfig
	self    InstanceID
	metrics *Metrics

	mtx      scsync.Mutex
	listener net.Listener
	peers    map[InstanceID]*peerEntry
	inbound  []*Connection
	handlers map[MessageType]Handler
	statusFn func(ConnStatus)
	hbQuit   chan struct{}
}

type peerEntry struct {
	conn  *Connection
	host  string
	port  uint16
	retry *backoff.ExponentialBackOff
}

var _ NetworkManager = (*Manager)(nil)

// NewManager builds a manager for the given instance. metrics may be nil.
func NewManager(cfg *config.NetworkConfig, self InstanceID, metrics *Metrics) *Manager {
	if metrics == nil {
		metrics = NopMetrics()
	}
	m := &Manager{
		cfg:      cfg,
		self:     self,
		metrics:  metrics,
		peers:    make(map[InstanceID]*peerEntry),
		handlers: make(map[MessageType]Handler),
	}
	m.BaseService = *service.NewBaseService(nil, "NetworkManager", m)
	return m
}

// OnStart implements service.Service.
func (m *Manager) OnStart() error {
	m.hbQuit = make(chan struct{})

	if m.cfg.ListenAddress != "" {
		addr := strings.TrimPrefix(m.cfg.ListenAddress, "tcp://")
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", addr, err)
		}
		m.mtx.Lock()
		m.listener = ln
		m.mtx.Unlock()
		m.Logger.Info("Listening", "addr", ln.Addr())
		go m.acceptLoop(ln)
	}

	go m.heartbeatLoop()
	return nil
}

// OnStop implements service.Service.
func (m *Manager) OnStop() {
	close(m.hbQuit)

	m.mtx.Lock()
	if m.listener != nil {
		m.listener.Close()
		m.listener = nil
	}
	conns := make([]*Connection, 0, len(m.peers)+len(m.inbound))
	for _, e := range m.peers {
		conns = append(conns, e.conn)
	}
	conns = append(conns, m.inbound...)
	m.inbound = nil
	m.mtx.Unlock()

	for _, c := range conns {
		_ = c.Stop()
	}
}

// ListenAddr returns the bound listener address, useful when the configured
// port was 0.
func (m *Manager) ListenAddr() net.Addr {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.listener == nil {
		return nil
	}
	return m.listener.Addr()
}

// RegisterPeer starts the outbound connection toward peer and keeps it
// alive until UnregisterPeer or Stop.
func (m *Manager) RegisterPeer(peer InstanceID, host string, port uint16) error {
	if peer == InvalidInstance {
		return fmt.Errorf("cannot register the invalid instance")
	}

	conn := NewConnection(m, m.self, peer, m.metrics)
	conn.SetLogger(m.Logger.With("peer", peer))

	m.mtx.Lock()
	if _, ok := m.peers[peer]; ok {
		m.mtx.Unlock()
		return fmt.Errorf("peer %d already registered", peer)
	}
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = m.cfg.ReconnectInitialDelay
	retry.MaxInterval = m.cfg.ReconnectMaxDelay
	retry.MaxElapsedTime = 0 // retry forever
	retry.Reset()
	m.peers[peer] = &peerEntry{conn: conn, host: host, port: port, retry: retry}
	m.mtx.Unlock()

	if err := conn.Start(); err != nil {
		return err
	}
	conn.ConnectAsync(host, port)
	return nil
}

// UnregisterPeer stops and forgets the peer's connection.
func (m *Manager) UnregisterPeer(peer InstanceID) {
	m.mtx.Lock()
	e, ok := m.peers[peer]
	delete(m.peers, peer)
	m.mtx.Unlock()
	if ok {
		_ = e.conn.Stop()
	}
}

// Connection returns the live connection for peer, or nil.
func (m *Manager) Connection(peer InstanceID) *Connection {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if e, ok := m.peers[peer]; ok {
		return e.conn
	}
	return nil
}

// RegisterHandler routes delivered messages of the given type to h.
func (m *Manager) RegisterHandler(t MessageType, h Handler) {
	m.mtx.Lock()
	m.handlers[t] = h
	m.mtx.Unlock()
}

// SetStatusCallback installs an upstream backpressure hook invoked for each
// published status delta.
func (m *Manager) SetStatusCallback(fn func(ConnStatus)) {
	m.mtx.Lock()
	m.statusFn = fn
	m.mtx.Unlock()
}

// Send enqueues msg toward the registered peer.
func (m *Manager) Send(peer InstanceID, msg *Message) error {
	conn := m.Connection(peer)
	if conn == nil {
		return fmt.Errorf("unknown peer %d", peer)
	}
	return conn.SendMessage(msg)
}

// GetSendQueueLimit implements NetworkManager.
func (m *Manager) GetSendQueueLimit(class MessageClass) uint64 {
	switch class {
	case ClassNormal:
		return m.cfg.SendQueueLimitNormal
	case ClassBulk:
		return m.cfg.SendQueueLimitBulk
	default:
		return m.cfg.SendQueueLimitNone
	}
}

// GetReceiveQueueHint implements NetworkManager.
func (m *Manager) GetReceiveQueueHint(class MessageClass) uint64 {
	switch class {
	case ClassNormal:
		return m.cfg.ReceiveQueueHintNormal
	case ClassBulk:
		return m.cfg.ReceiveQueueHintBulk
	default:
		return m.cfg.ReceiveQueueHintNone
	}
}

// OnMessageReceived implements NetworkManager: heartbeats are consumed here,
// everything else is routed by message type.
func (m *Manager) OnMessageReceived(msg *Message, from InstanceID) {
	m.mtx.Lock()
	if e, ok := m.peers[from]; ok {
		// Traffic proves the link is healthy again.
		e.retry.Reset()
	}
	h := m.handlers[msg.Type]
	m.mtx.Unlock()

	if msg.Type == MsgHeartbeat {
		m.Logger.Debug("Heartbeat", "from", from)
		return
	}
	if h == nil {
		m.Logger.Error("No handler for message", "type", msg.Type, "from", from)
		return
	}
	h(msg, from)
}

// OnConnectionStatus implements NetworkManager.
func (m *Manager) OnConnectionStatus(status ConnStatus) {
	m.Logger.Debug("Connection status", "status", status)
	m.mtx.Lock()
	fn := m.statusFn
	m.mtx.Unlock()
	if fn != nil {
		fn(status)
	}
}

// OnDisconnect implements NetworkManager: schedule the next reconnect
// attempt for a registered peer.
func (m *Manager) OnDisconnect(peer InstanceID) {
	if !m.IsRunning() {
		return
	}

	m.mtx.Lock()
	e, ok := m.peers[peer]
	m.mtx.Unlock()
	if !ok {
		return
	}

	delay := e.retry.NextBackOff()
	m.Logger.Info("Scheduling reconnect", "peer", peer, "delay", delay)
	time.AfterFunc(delay, func() {
		if !m.IsRunning() {
			return
		}
		m.mtx.Lock()
		e, ok := m.peers[peer]
		m.mtx.Unlock()
		if ok {
			e.conn.ConnectAsync(e.host, e.port)
		}
	})
}

func (m *Manager) acceptLoop(ln net.Listener) {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if m.IsRunning() {
				m.Logger.Error("Accept failed", "err", err)
			}
			return
		}

		conn := NewConnection(m, m.self, InvalidInstance, m.metrics)
		conn.SetLogger(m.Logger.With("remote", nc.RemoteAddr().String()))
		if err := conn.Start(); err != nil {
			m.Logger.Error("Failed to start inbound connection", "err", err)
			nc.Close()
			continue
		}

		m.mtx.Lock()
		m.inbound = append(m.inbound, conn)
		m.mtx.Unlock()

		conn.Accept(nc)
	}
}

// heartbeatLoop keeps peer links warm. Heartbeats ride the None class, so
// they double as piggyback opportunities for flow-control updates.
func (m *Manager) heartbeatLoop() {
	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.hbQuit:
			return
		case <-ticker.C:
		}

		m.mtx.Lock()
		conns := make([]*Connection, 0, len(m.peers))
		for _, e := range m.peers {
			conns = append(conns, e.conn)
		}
		m.mtx.Unlock()

		for _, c := range conns {
			if !c.IsConnected() {
				continue
			}
			record, err := (&netpb.HeartbeatRecord{Instance: uint64(m.self)}).Marshal()
			if err != nil {
				continue
			}
			if err := c.SendMessage(NewMessage(MsgHeartbeat, ClassNone, record, nil)); err != nil {
				m.Logger.Debug("Heartbeat dropped", "err", err)
			}
		}
	}
}

// HostPort splits a "host:port" string, useful for wiring peer tables from
// configuration.
func HostPort(addr string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("bad port in %q: %w", addr, err)
	}
	return host, uint16(port), nil
}
