// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import "encoding/binary"

// image assembles a class file byte image for tests.
type image struct {
	buf []byte
}

func (b *image) u8(v uint8) *image {
	b.buf = append(b.buf, v)
	return b
}

func (b *image) u16(v uint16) *image {
	b.buf = binary.BigEndian.AppendUint16(b.buf, v)
	return b
}

func (b *image) u32(v uint32) *image {
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
	return b
}

func (b *image) u64(v uint64) *image {
	b.buf = binary.BigEndian.AppendUint64(b.buf, v)
	return b
}

func (b *image) raw(p ...byte) *image {
	b.buf = append(b.buf, p...)
	return b
}

// utf8 appends a CONSTANT_Utf8 entry: tag, length, body.
func (b *image) utf8(s string) *image {
	b.u8(TagUTF8)
	b.u16(uint16(len(s)))
	b.buf = append(b.buf, s...)
	return b
}

// envelope appends an attribute envelope around body.
func (b *image) envelope(nameIndex uint16, body []byte) *image {
	b.u16(nameIndex)
	b.u32(uint32(len(body)))
	b.buf = append(b.buf, body...)
	return b
}

// makePool builds a decoded pool directly, computing the slot table
// the same way the decoder does.
func makePool(constants ...Constant) ConstantPool {
	slots := []int{-1}
	for pos, c := range constants {
		slots = append(slots, pos)
		if c.Tag() == TagLong || c.Tag() == TagDouble {
			slots = append(slots, -1)
		}
	}
	return ConstantPool{
		Constants: constants,
		count:     uint16(len(slots)),
		slots:     slots,
	}
}

// newTestFile returns a File ready for calling unexported parsers
// directly.
func newTestFile(opts *Options) *File {
	cf, _ := NewBytes(nil, opts)
	return cf
}
