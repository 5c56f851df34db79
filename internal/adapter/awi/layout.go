package awi

import (
	"encoding/binary"
	"errors"
	"math"
)

var errNoActiveFields = errors.New("header flags no active fields")

// Layout describes how the record body of a file is divided.
type Layout struct {
	Slots    []int // active flag positions, ascending
	Stride   int   // bytes per record
	Records  int
	Trailing int // bytes after the last whole record
}

// NewLayout derives the record layout from a header and the total file size.
// The record count is floored; a partial final record is reported through
// Trailing and never decoded.
func NewLayout(h Header, size int64) (Layout, error) {
	slots := h.ActiveSlots()
	if len(slots) == 0 {
		return Layout{}, errNoActiveFields
	}
	stride := len(slots) * ValueSize
	body := size - HeaderSize
	if body < 0 {
		body = 0
	}
	return Layout{
		Slots:    slots,
		Stride:   stride,
		Records:  int(body / int64(stride)),
		Trailing: int(body % int64(stride)),
	}, nil
}

// Fields is the number of values per record.
func (l Layout) Fields() int { return len(l.Slots) }

// Matrix is a row-major records × fields table of decoded values.
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

// At returns the value of record r, column c.
func (m Matrix) At(r, c int) float64 {
	return m.Data[r*m.Cols+c]
}

// Column copies column c out of the matrix.
func (m Matrix) Column(c int) []float64 {
	out := make([]float64, m.Rows)
	for r := range out {
		out[r] = m.Data[r*m.Cols+c]
	}
	return out
}

// decodeMatrix decodes l.Records records from body, which starts right after
// the header. body must hold at least l.Records*l.Stride bytes.
func decodeMatrix(body []byte, l Layout) Matrix {
	m := Matrix{
		Rows: l.Records,
		Cols: l.Fields(),
		Data: make([]float64, l.Records*l.Fields()),
	}
	for i := range m.Data {
		off := i * ValueSize
		m.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(body[off : off+ValueSize]))
	}
	return m
}
