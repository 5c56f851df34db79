// Package awi decodes AWI CryoSat-2 orbit files.
//
// A file is a 106-byte little-endian header followed by fixed-size records.
// The header carries the longitude and latitude bounds of the orbit and 45
// int16 content flags. Every nonzero flag marks an active field; each record
// holds one float64 per active field, in ascending flag order. Field names
// come from an external definition whose declaration order matches the flag
// positions (see package fielddef).
package awi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/seaice-etl/internal/domain"
)

const (
	// HeaderSize is the fixed byte length of the file header.
	HeaderSize = 106

	// ContentFlagCount is the number of field slots the header can flag.
	ContentFlagCount = 45

	// ValueSize is the byte width of one encoded field value (float64).
	ValueSize = 8
)

// Header is the on-disk file header. Its binary.Size is HeaderSize.
type Header struct {
	LonBounds    [2]float32
	LatBounds    [2]float32
	ContentFlags [ContentFlagCount]int16
}

// ActiveSlots returns the indices of nonzero content flags in ascending order.
func (h Header) ActiveSlots() []int {
	slots := make([]int, 0, ContentFlagCount)
	for i, flag := range h.ContentFlags {
		if flag != 0 {
			slots = append(slots, i)
		}
	}
	return slots
}

// ParseHeader decodes the header from the first HeaderSize bytes of b.
func ParseHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, fmt.Errorf("header needs %d bytes, have %d", HeaderSize, len(b))
	}
	if err := binary.Read(bytes.NewReader(b[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}

// ReadHeader reads only the header of the file at path.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, &domain.ReadError{Path: path, Err: err}
	}
	defer f.Close()

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return Header{}, &domain.ReadError{Path: path, Err: fmt.Errorf("short header: %w", err)}
	}
	h, err := ParseHeader(buf)
	if err != nil {
		return Header{}, &domain.ReadError{Path: path, Err: err}
	}
	return h, nil
}
