package store

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/thurmanmarka/dstglide"
)

var magic = [4]byte{'D', 'S', 'T', 'G'}

const codecVersion = 1

type header struct {
	Magic     [4]byte
	Version   uint8
	Scenarios uint8
	Rows      uint16
	Cols      uint16
	Year      int32
	Offset    int32
}

// Encode packs m into a header followed by one bit per cell, scenario by
// scenario in row-major order.
func Encode(m *dstglide.Matrix) []byte {
	h := header{
		Magic:     magic,
		Version:   codecVersion,
		Scenarios: dstglide.NumScenarios,
		Rows:      uint16(m.Days()),
		Cols:      uint16(m.Minutes()),
		Year:      int32(m.Year),
		Offset:    int32(m.Offset),
	}

	var buf bytes.Buffer
	buf.Grow(binary.Size(h) + packedLen(m))
	_ = binary.Write(&buf, binary.BigEndian, h)

	bits := make([]byte, packedLen(m)/dstglide.NumScenarios)
	for _, s := range dstglide.Scenarios() {
		clear(bits)
		i := 0
		for d := 0; d < m.Days(); d++ {
			for _, v := range m.Row(s, d) {
				if v != 0 {
					bits[i>>3] |= 0x80 >> (i & 7)
				}
				i++
			}
		}
		buf.Write(bits)
	}
	return buf.Bytes()
}

// Decode reverses Encode. loc is attached to the result; it is not part
// of the encoding.
func Decode(data []byte, loc dstglide.Location) (*dstglide.Matrix, error) {
	var h header
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	switch {
	case h.Magic != magic:
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, h.Magic[:])
	case h.Version != codecVersion:
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, h.Version)
	case h.Scenarios != dstglide.NumScenarios || int(h.Rows) != dstglide.DaysPerYear || int(h.Cols) != dstglide.MinutesPerDay:
		return nil, fmt.Errorf("%w: shape %dx%dx%d", ErrCorrupt, h.Scenarios, h.Rows, h.Cols)
	}

	cells := int(h.Rows) * int(h.Cols)
	layerBytes := (cells + 7) / 8
	body := data[len(data)-r.Len():]
	if len(body) != layerBytes*dstglide.NumScenarios {
		return nil, fmt.Errorf("%w: %d payload bytes, want %d", ErrCorrupt, len(body), layerBytes*dstglide.NumScenarios)
	}

	var layers [dstglide.NumScenarios][]uint8
	for s := range layers {
		bits := body[s*layerBytes : (s+1)*layerBytes]
		layer := make([]uint8, cells)
		for i := range layer {
			layer[i] = (bits[i>>3] >> (7 - i&7)) & 1
		}
		layers[s] = layer
	}
	return dstglide.NewMatrix(int(h.Year), loc, int(h.Offset), layers)
}

func packedLen(m *dstglide.Matrix) int {
	return dstglide.NumScenarios * ((m.Days()*m.Minutes() + 7) / 8)
}
