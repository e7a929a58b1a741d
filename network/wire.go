package network

import (
	"encoding/binary"
	"fmt"

	"github.com/rohankumardubey/scidb/network/netpb"
)

// Frame layout: a fixed-size header, then record_len bytes of structured
// record, then binary_len bytes of raw payload. The header has a stable
// fixed layout so readers always take it in one shot.
//
//	 0  magic            u16
//	 2  version          u16
//	 4  message_type     u16
//	 6  flags            u16
//	 8  record_len       u32
//	12  class            u32
//	16  binary_len       u64
//	24  source_instance  u64
//	32  query_id         u64
//	40  fc_capacity      u64
//	48  fc_peer_gen      u64
//	56  fc_our_gen       u64
//	64  fc_observed_seq  u64
//	72  fc_peer_seq      u64
//
// The class slot names the traffic class the frame was sent on. The fc_*
// slots are unused by plain application frames; a frame with
// flagFlowControl set reuses them to piggyback a flow-control update for
// its class alongside its payload. Dedicated control frames (message_type
// MsgFlowControl) instead carry a netpb.FlowControlRecord in the record
// part. Both forms are accepted on receive.
const (
	frameMagic   uint16 = 0x5C1D
	frameVersion uint16 = 1

	frameHeaderSize = 80

	// flagFlowControl marks a frame whose fc_* header slots carry a valid
	// piggybacked flow-control update.
	flagFlowControl uint16 = 0x0001
)

// flowControlState is the in-memory form of a flow-control update, from
// either wire form.
type flowControlState struct {
	Class            MessageClass
	RemoteCapacity   uint64
	PeerGen          GenID
	OurGenSeenByPeer GenID
	ObservedLocalSeq SeqNum
	PeerLocalSeq     SeqNum
}

func (fc flowControlState) toRecord() *netpb.FlowControlRecord {
	return &netpb.FlowControlRecord{
		Class:            uint32(fc.Class),
		RemoteCapacity:   fc.RemoteCapacity,
		PeerGen:          uint64(fc.PeerGen),
		OurGenSeenByPeer: uint64(fc.OurGenSeenByPeer),
		ObservedLocalSeq: uint64(fc.ObservedLocalSeq),
		PeerLocalSeq:     uint64(fc.PeerLocalSeq),
	}
}

func flowControlFromRecord(rec *netpb.FlowControlRecord) flowControlState {
	return flowControlState{
		Class:            MessageClass(rec.Class),
		RemoteCapacity:   rec.RemoteCapacity,
		PeerGen:          GenID(rec.PeerGen),
		OurGenSeenByPeer: GenID(rec.OurGenSeenByPeer),
		ObservedLocalSeq: SeqNum(rec.ObservedLocalSeq),
		PeerLocalSeq:     SeqNum(rec.PeerLocalSeq),
	}
}

// frameHeader is the decoded fixed header of a frame.
type frameHeader struct {
	Type           MessageType
	Flags          uint16
	Class          MessageClass
	RecordLen      uint32
	BinaryLen      uint64
	SourceInstance InstanceID
	Query          QueryID

	// FlowControl is valid iff Flags&flagFlowControl != 0; its Class always
	// mirrors the frame's class slot.
	FlowControl flowControlState
}

func (h *frameHeader) hasFlowControl() bool {
	return h.Flags&flagFlowControl != 0
}

// encodeFrameHeader writes h into buf, which must hold frameHeaderSize bytes.
func encodeFrameHeader(buf []byte, h *frameHeader) {
	_ = buf[frameHeaderSize-1]
	binary.BigEndian.PutUint16(buf[0:2], frameMagic)
	binary.BigEndian.PutUint16(buf[2:4], frameVersion)
	binary.BigEndian.PutUint16(buf[4:6], uint16(h.Type))
	binary.BigEndian.PutUint16(buf[6:8], h.Flags)
	binary.BigEndian.PutUint32(buf[8:12], h.RecordLen)
	binary.BigEndian.PutUint32(buf[12:16], uint32(h.Class))
	binary.BigEndian.PutUint64(buf[16:24], h.BinaryLen)
	binary.BigEndian.PutUint64(buf[24:32], uint64(h.SourceInstance))
	binary.BigEndian.PutUint64(buf[32:40], uint64(h.Query))
	binary.BigEndian.PutUint64(buf[40:48], h.FlowControl.RemoteCapacity)
	binary.BigEndian.PutUint64(buf[48:56], uint64(h.FlowControl.PeerGen))
	binary.BigEndian.PutUint64(buf[56:64], uint64(h.FlowControl.OurGenSeenByPeer))
	binary.BigEndian.PutUint64(buf[64:72], uint64(h.FlowControl.ObservedLocalSeq))
	binary.BigEndian.PutUint64(buf[72:80], uint64(h.FlowControl.PeerLocalSeq))
}

// decodeFrameHeader parses buf into h, validating magic and version.
func decodeFrameHeader(buf []byte, h *frameHeader) error {
	if len(buf) < frameHeaderSize {
		return ErrBadFrame{Reason: fmt.Sprintf("short header: %d bytes", len(buf))}
	}
	if m := binary.BigEndian.Uint16(buf[0:2]); m != frameMagic {
		return ErrBadFrame{Reason: fmt.Sprintf("bad magic 0x%04X", m)}
	}
	if v := binary.BigEndian.Uint16(buf[2:4]); v != frameVersion {
		return ErrBadFrame{Reason: fmt.Sprintf("unsupported version %d", v)}
	}
	h.Type = MessageType(binary.BigEndian.Uint16(buf[4:6]))
	h.Flags = binary.BigEndian.Uint16(buf[6:8])
	h.RecordLen = binary.BigEndian.Uint32(buf[8:12])
	h.Class = MessageClass(binary.BigEndian.Uint32(buf[12:16]))
	h.FlowControl.Class = h.Class
	h.BinaryLen = binary.BigEndian.Uint64(buf[16:24])
	h.SourceInstance = InstanceID(binary.BigEndian.Uint64(buf[24:32]))
	h.Query = QueryID(binary.BigEndian.Uint64(buf[32:40]))
	h.FlowControl.RemoteCapacity = binary.BigEndian.Uint64(buf[40:48])
	h.FlowControl.PeerGen = GenID(binary.BigEndian.Uint64(buf[48:56]))
	h.FlowControl.OurGenSeenByPeer = GenID(binary.BigEndian.Uint64(buf[56:64]))
	h.FlowControl.ObservedLocalSeq = SeqNum(binary.BigEndian.Uint64(buf[64:72]))
	h.FlowControl.PeerLocalSeq = SeqNum(binary.BigEndian.Uint64(buf[72:80]))
	return nil
}
