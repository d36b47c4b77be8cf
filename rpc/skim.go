package pantryrpc

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

const maxSkimDepth = 32

var errTruncated = errors.New("declared length exceeds frame")

// skim walks one msgpack value in b without allocating and returns the bytes
// after it. Every declared length must fit in what is left of b.
func skim(b []byte, depth int) ([]byte, error) {
	if depth > maxSkimDepth {
		return nil, errors.New("nesting too deep")
	}
	if len(b) == 0 {
		return nil, errTruncated
	}
	c, b := b[0], b[1:]

	switch {
	case c <= msgpcode.PosFixedNumHigh || c >= msgpcode.NegFixedNumLow:
		return b, nil
	case c >= msgpcode.FixedMapLow && c <= msgpcode.FixedMapHigh:
		return skimN(b, 2*uint64(c&msgpcode.FixedMapMask), depth)
	case c >= msgpcode.FixedArrayLow && c <= msgpcode.FixedArrayHigh:
		return skimN(b, uint64(c&msgpcode.FixedArrayMask), depth)
	case c >= msgpcode.FixedStrLow && c <= msgpcode.FixedStrHigh:
		return take(b, uint64(c&msgpcode.FixedStrMask))
	}

	switch c {
	case msgpcode.Nil, msgpcode.False, msgpcode.True:
		return b, nil
	case msgpcode.Uint8, msgpcode.Int8:
		return take(b, 1)
	case msgpcode.Uint16, msgpcode.Int16:
		return take(b, 2)
	case msgpcode.Uint32, msgpcode.Int32, msgpcode.Float:
		return take(b, 4)
	case msgpcode.Uint64, msgpcode.Int64, msgpcode.Double:
		return take(b, 8)
	case msgpcode.Str8, msgpcode.Bin8:
		return takeLen(b, 1, 0)
	case msgpcode.Str16, msgpcode.Bin16:
		return takeLen(b, 2, 0)
	case msgpcode.Str32, msgpcode.Bin32:
		return takeLen(b, 4, 0)
	case msgpcode.FixExt1:
		return take(b, 2)
	case msgpcode.FixExt2:
		return take(b, 3)
	case msgpcode.FixExt4:
		return take(b, 5)
	case msgpcode.FixExt8:
		return take(b, 9)
	case msgpcode.FixExt16:
		return take(b, 17)
	case msgpcode.Ext8:
		return takeLen(b, 1, 1)
	case msgpcode.Ext16:
		return takeLen(b, 2, 1)
	case msgpcode.Ext32:
		return takeLen(b, 4, 1)
	case msgpcode.Array16, msgpcode.Map16:
		n, b, err := readLen(b, 2)
		if err != nil {
			return nil, err
		}
		if c == msgpcode.Map16 {
			n *= 2
		}
		return skimN(b, n, depth)
	case msgpcode.Array32, msgpcode.Map32:
		n, b, err := readLen(b, 4)
		if err != nil {
			return nil, err
		}
		if c == msgpcode.Map32 {
			n *= 2
		}
		return skimN(b, n, depth)
	}
	return nil, fmt.Errorf("invalid code %#x", c)
}

// skimN skims n consecutive values. Each takes at least one byte.
func skimN(b []byte, n uint64, depth int) ([]byte, error) {
	if n > uint64(len(b)) {
		return nil, errTruncated
	}
	var err error
	for i := uint64(0); i < n; i++ {
		if b, err = skim(b, depth+1); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func take(b []byte, n uint64) ([]byte, error) {
	if n > uint64(len(b)) {
		return nil, errTruncated
	}
	return b[n:], nil
}

// takeLen reads a size-byte big-endian length and skips extra+length bytes.
func takeLen(b []byte, size int, extra uint64) ([]byte, error) {
	n, b, err := readLen(b, size)
	if err != nil {
		return nil, err
	}
	return take(b, n+extra)
}

func readLen(b []byte, size int) (uint64, []byte, error) {
	if len(b) < size {
		return 0, nil, errTruncated
	}
	var n uint64
	switch size {
	case 1:
		n = uint64(b[0])
	case 2:
		n = uint64(binary.BigEndian.Uint16(b))
	case 4:
		n = uint64(binary.BigEndian.Uint32(b))
	}
	return n, b[size:], nil
}
