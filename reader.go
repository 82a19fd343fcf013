// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import (
	"encoding/binary"
	"math"
)

// reader is a big-endian cursor over the class file image. Every read
// consumes exactly the width of the requested field and fails with
// UnexpectedEOFError when the image is exhausted mid-field. The cursor
// keeps the absolute offset from the start of the file so that errors
// can point at the faulty byte even inside a nested attribute body.
type reader struct {
	data []byte
	off  int
	base int
}

// offset returns the absolute offset from the start of the file image.
func (r *reader) offset() int {
	return r.base + r.off
}

// remaining returns the number of bytes left in this reader's window.
func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) need(n int) error {
	if r.remaining() < n {
		return &UnexpectedEOFError{
			Offset: r.offset(),
			Need:   n,
			Have:   r.remaining(),
		}
	}
	return nil
}

// ReadUint8 reads an unsigned byte.
func (r *reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.off]
	r.off++
	return v, nil
}

// ReadUint16 reads a big-endian uint16.
func (r *reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

// ReadUint32 reads a big-endian uint32.
func (r *reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

// ReadUint64 reads a big-endian uint64.
func (r *reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v, nil
}

// ReadInt32 reads a big-endian two's complement int32.
func (r *reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a big-endian two's complement int64.
func (r *reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads a big-endian IEEE-754 single precision float.
func (r *reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads a big-endian IEEE-754 double precision float.
func (r *reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBytes consumes exactly n bytes and returns an owned copy, so the
// decoded tree holds no references into the input buffer.
func (r *reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	copy(buf, r.data[r.off:r.off+n])
	r.off += n
	return buf, nil
}

// sub carves out a bounded child reader over the next n bytes and
// advances the parent past them. The child keeps absolute offsets.
func (r *reader) sub(n int) (*reader, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	child := &reader{
		data: r.data[r.off : r.off+n],
		base: r.offset(),
	}
	r.off += n
	return child, nil
}
