// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import (
	"errors"
	"unicode/utf16"
)

var errMalformedMUTF8 = errors.New("malformed modified UTF-8 sequence")

// decodeModifiedUTF8 decodes the string body of a CONSTANT_Utf8 entry.
// Modified UTF-8 differs from standard UTF-8 in two ways: U+0000 is
// encoded as the two byte sequence C0 80, and supplementary code points
// appear as UTF-16 surrogate pairs with each surrogate encoded in three
// bytes. Decoding to UTF-16 code units first and running them through
// utf16.Decode handles both, and also folds unpaired surrogates to
// U+FFFD the way the JDK does.
func decodeModifiedUTF8(b []byte) (string, error) {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == 0x00 || c >= 0xf0:
			// The NUL byte and the 4-byte UTF-8 prefixes never
			// appear in a well formed modified UTF-8 string.
			return "", errMalformedMUTF8
		case c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xe0 == 0xc0:
			if i+1 >= len(b) || b[i+1]&0xc0 != 0x80 {
				return "", errMalformedMUTF8
			}
			units = append(units, uint16(c&0x1f)<<6|uint16(b[i+1]&0x3f))
			i += 2
		case c&0xf0 == 0xe0:
			if i+2 >= len(b) || b[i+1]&0xc0 != 0x80 || b[i+2]&0xc0 != 0x80 {
				return "", errMalformedMUTF8
			}
			units = append(units,
				uint16(c&0x0f)<<12|uint16(b[i+1]&0x3f)<<6|uint16(b[i+2]&0x3f))
			i += 3
		default:
			// 10xxxxxx as a leading byte.
			return "", errMalformedMUTF8
		}
	}
	return string(utf16.Decode(units)), nil
}
