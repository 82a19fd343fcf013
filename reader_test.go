// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import (
	"errors"
	"testing"
)

func TestReaderReads(t *testing.T) {
	data := []byte{
		0x12,
		0x12, 0x34,
		0x12, 0x34, 0x56, 0x78,
		0xFF, 0xFF, 0xFF, 0xFF,
		0x3F, 0x80, 0x00, 0x00,
	}
	r := &reader{data: data}

	if v, err := r.ReadUint8(); err != nil || v != 0x12 {
		t.Fatalf("ReadUint8 = %#x, %v, want 0x12", v, err)
	}
	if v, err := r.ReadUint16(); err != nil || v != 0x1234 {
		t.Fatalf("ReadUint16 = %#x, %v, want 0x1234", v, err)
	}
	if v, err := r.ReadUint32(); err != nil || v != 0x12345678 {
		t.Fatalf("ReadUint32 = %#x, %v, want 0x12345678", v, err)
	}
	if v, err := r.ReadInt32(); err != nil || v != -1 {
		t.Fatalf("ReadInt32 = %d, %v, want -1", v, err)
	}
	if v, err := r.ReadFloat32(); err != nil || v != 1.0 {
		t.Fatalf("ReadFloat32 = %v, %v, want 1.0", v, err)
	}
	if r.remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", r.remaining())
	}
}

func TestReaderWide(t *testing.T) {
	r := &reader{data: []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x07,
		0x40, 0x09, 0x21, 0xFB, 0x54, 0x44, 0x2D, 0x18,
	}}
	if v, err := r.ReadInt64(); err != nil || v != 7 {
		t.Fatalf("ReadInt64 = %d, %v, want 7", v, err)
	}
	v, err := r.ReadFloat64()
	if err != nil || v < 3.14159 || v > 3.1416 {
		t.Fatalf("ReadFloat64 = %v, %v, want pi", v, err)
	}
}

func TestReaderUnexpectedEOF(t *testing.T) {
	tests := []struct {
		data []byte
		read func(r *reader) error
		need int
	}{
		{[]byte{}, func(r *reader) error { _, err := r.ReadUint8(); return err }, 1},
		{[]byte{0x01}, func(r *reader) error { _, err := r.ReadUint16(); return err }, 2},
		{[]byte{0x01, 0x02}, func(r *reader) error { _, err := r.ReadUint32(); return err }, 4},
		{[]byte{0x01}, func(r *reader) error { _, err := r.ReadUint64(); return err }, 8},
		{[]byte{0x01}, func(r *reader) error { _, err := r.ReadBytes(5); return err }, 5},
	}

	for i, tt := range tests {
		r := &reader{data: tt.data}
		err := tt.read(r)
		var eof *UnexpectedEOFError
		if !errors.As(err, &eof) {
			t.Fatalf("case %d: error = %v, want UnexpectedEOFError", i, err)
		}
		if eof.Need != tt.need || eof.Have != len(tt.data) {
			t.Errorf("case %d: got need %d have %d, want need %d have %d",
				i, eof.Need, eof.Have, tt.need, len(tt.data))
		}
	}
}

func TestReaderSubOffsets(t *testing.T) {
	r := &reader{data: []byte{0xAA, 0x01, 0x02, 0x03, 0xBB}}
	if _, err := r.ReadUint8(); err != nil {
		t.Fatal(err)
	}

	sub, err := r.sub(3)
	if err != nil {
		t.Fatal(err)
	}
	if sub.offset() != 1 {
		t.Fatalf("sub offset = %d, want 1", sub.offset())
	}
	if _, err := sub.ReadUint16(); err != nil {
		t.Fatal(err)
	}

	// A read past the sub window reports the absolute offset.
	_, err = sub.ReadUint16()
	var eof *UnexpectedEOFError
	if !errors.As(err, &eof) {
		t.Fatalf("error = %v, want UnexpectedEOFError", err)
	}
	if eof.Offset != 3 || eof.Have != 1 {
		t.Errorf("got offset %d have %d, want offset 3 have 1", eof.Offset, eof.Have)
	}

	// The parent resumed past the sub window.
	if r.offset() != 4 {
		t.Fatalf("parent offset = %d, want 4", r.offset())
	}
}

func TestReaderBytesOwned(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := &reader{data: data}
	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 0xFF
	if got[0] != 0x01 {
		t.Fatal("ReadBytes must return an owned copy")
	}
}
