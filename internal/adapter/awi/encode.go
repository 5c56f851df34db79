package awi

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Encode writes a header followed by rows in the AWI layout. Every row must
// have exactly one value per active slot of h.
func Encode(w io.Writer, h Header, rows [][]float64) error {
	k := len(h.ActiveSlots())
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if len(row) != k {
			return fmt.Errorf("row %d has %d values, header flags %d", i, len(row), k)
		}
		if err := binary.Write(bw, binary.LittleEndian, row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// HeaderFor builds a header whose active slots are the given flag positions.
func HeaderFor(lon, lat [2]float32, slots ...int) (Header, error) {
	h := Header{LonBounds: lon, LatBounds: lat}
	for _, s := range slots {
		if s < 0 || s >= ContentFlagCount {
			return Header{}, fmt.Errorf("flag position %d out of range", s)
		}
		h.ContentFlags[s] = 1
	}
	return h, nil
}
