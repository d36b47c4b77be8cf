package pantryrpc

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	TypeReq  int16 = 1
	TypeResp int16 = 2
)

const (
	frameHeaderSize = 4
	// MaxPacketSize bounds the encoded size of one packet.
	MaxPacketSize = 1 << 20
)

var (
	ErrPacketTooLarge = errors.New("packet too large")
	ErrBadPacket      = errors.New("malformed packet")
)

// Packet is the unit exchanged on the wire. Requests carry "function" and
// "arg" in Body; responses echo the request UUID and carry "result".
type Packet struct {
	UUID uuid.UUID         `msgpack:"u"`
	Type int16             `msgpack:"t"`
	Code int32             `msgpack:"c,omitempty"`
	Msg  string            `msgpack:"m,omitempty"`
	Body map[string][]byte `msgpack:"b,omitempty"`
}

// Encode returns pkt as a frame: a little-endian uint32 length followed by
// the msgpack encoding.
func Encode(pkt *Packet) ([]byte, error) {
	body, err := msgpack.Marshal(pkt)
	if err != nil {
		return nil, err
	}
	if len(body) > MaxPacketSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, len(body))
	}
	frame := make([]byte, frameHeaderSize, frameHeaderSize+len(body))
	binary.LittleEndian.PutUint32(frame, uint32(len(body)))
	return append(frame, body...), nil
}

// PacketBuffer reassembles packets from a byte stream of frames.
type PacketBuffer struct {
	buf []byte
}

// Feed appends data and returns every packet completed by it. Bytes of an
// incomplete trailing frame stay buffered for the next call. An oversized or
// undecodable frame drops the buffer and returns an error; the stream cannot
// be resynchronized after that.
func (pb *PacketBuffer) Feed(data []byte) ([]*Packet, error) {
	pb.buf = append(pb.buf, data...)

	var results []*Packet
	for len(pb.buf) >= frameHeaderSize {
		n := binary.LittleEndian.Uint32(pb.buf)
		if n > MaxPacketSize {
			pb.buf = nil
			return results, fmt.Errorf("%w: frame of %d bytes", ErrPacketTooLarge, n)
		}
		end := frameHeaderSize + int(n)
		if len(pb.buf) < end {
			break
		}
		frame := pb.buf[frameHeaderSize:end]
		pb.buf = pb.buf[end:]

		pkt, err := decodeFrame(frame)
		if err != nil {
			pb.buf = nil
			return results, err
		}
		results = append(results, pkt)
	}
	if len(pb.buf) == 0 {
		pb.buf = nil
	}
	return results, nil
}

// Buffered reports how many bytes are waiting for the rest of a frame.
func (pb *PacketBuffer) Buffered() int {
	return len(pb.buf)
}

func decodeFrame(frame []byte) (*Packet, error) {
	// msgpack allocates declared lengths up front, so check them against the
	// frame before decoding.
	rest, err := skim(frame, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPacket, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrBadPacket, len(rest))
	}
	pkt := new(Packet)
	if err := msgpack.Unmarshal(frame, pkt); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPacket, err)
	}
	return pkt, nil
}
