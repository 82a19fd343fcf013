// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import "testing"

func TestDecodeModifiedUTF8(t *testing.T) {
	tests := []struct {
		in  []byte
		out string
	}{
		{[]byte{}, ""},
		{[]byte("Hello, world"), "Hello, world"},
		{[]byte("java/lang/Object"), "java/lang/Object"},
		// Two byte encoding of U+0000.
		{[]byte{0x41, 0xC0, 0x80, 0x42}, "A\x00B"},
		// Two byte sequence.
		{[]byte{0xC3, 0xA9}, "é"},
		// Three byte sequence.
		{[]byte{0xE2, 0x82, 0xAC}, "€"},
		// U+1F600 as an encoded surrogate pair.
		{[]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, "😀"},
	}

	for _, tt := range tests {
		got, err := decodeModifiedUTF8(tt.in)
		if err != nil {
			t.Fatalf("decodeModifiedUTF8(%#v) failed, reason: %v", tt.in, err)
		}
		if got != tt.out {
			t.Errorf("decodeModifiedUTF8(%#v) = %q, want %q", tt.in, got, tt.out)
		}
	}
}

func TestDecodeModifiedUTF8Malformed(t *testing.T) {
	tests := [][]byte{
		// Raw NUL byte.
		{0x00},
		// Four byte UTF-8 prefix.
		{0xF0, 0x9F, 0x98, 0x80},
		// Truncated two byte sequence.
		{0xC3},
		// Truncated three byte sequence.
		{0xE2, 0x82},
		// Lone continuation byte.
		{0x80},
		// Continuation byte missing its high bits.
		{0xC3, 0x29},
	}

	for _, tt := range tests {
		if _, err := decodeModifiedUTF8(tt); err == nil {
			t.Errorf("decodeModifiedUTF8(%#v) succeeded, want error", tt)
		}
	}
}
