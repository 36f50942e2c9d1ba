package mediapipe

import "github.com/asticode/go-astiav"

// Packet wraps a demuxed astiav.Packet with the fields the pipeline's
// stages care about, so downstream stages never need to reach back
// into astiav's stream/format bookkeeping.
type Packet struct {
	raw         *astiav.Packet
	StreamIndex int
	PTS         int64
}

// NewPacket takes ownership of raw (already populated by
// FormatContext.ReadFrame) and records its stream index and PTS.
func NewPacket(raw *astiav.Packet) *Packet {
	return &Packet{
		raw:         raw,
		StreamIndex: raw.StreamIndex(),
		PTS:         raw.Pts(),
	}
}

// Size reports the packet's payload byte size, used by PacketQueue to
// enforce its byte-bounded capacity.
func (p *Packet) Size() int {
	return p.raw.Size()
}

// Raw returns the underlying astiav.Packet for decode calls.
func (p *Packet) Raw() *astiav.Packet {
	return p.raw
}

// Free releases the underlying astiav packet. Ownership passes from
// the pusher to the queue to the popper; the popper is responsible
// for calling Free once it is done decoding from the packet.
func (p *Packet) Free() {
	p.raw.Free()
}
