// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import (
	"fmt"
	"strings"
)

// Every decode failure is fatal to the current Parse call and surfaces
// as one of the typed errors below, wrapped in a DecodeError that names
// the chain of structures being decoded when the failure happened.
// Callers match the kind with errors.As.

// DecodeError is the outermost error returned by Parse. Path holds the
// containing structures from the class file downwards, e.g.
// ["ClassFile", "methods[3]", "attributes[0]", "Code", "attributes[1]",
// "StackMapTable", "frames[7]"].
type DecodeError struct {
	Path []string
	Err  error
}

func (e *DecodeError) Error() string {
	return strings.Join(e.Path, " -> ") + ": " + e.Err.Error()
}

// Unwrap returns the underlying typed error.
func (e *DecodeError) Unwrap() error { return e.Err }

// wrapErr pushes a context frame onto err. A nil err stays nil; an
// existing DecodeError grows its path in place instead of nesting.
func wrapErr(err error, frame string) error {
	if err == nil {
		return nil
	}
	if de, ok := err.(*DecodeError); ok {
		de.Path = append([]string{frame}, de.Path...)
		return de
	}
	return &DecodeError{Path: []string{frame}, Err: err}
}

// UnexpectedEOFError is returned when the image is exhausted in the
// middle of a fixed-width field or byte run.
type UnexpectedEOFError struct {
	Offset int
	Need   int
	Have   int
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("unexpected end of class file at offset %#x, need %d bytes, have %d",
		e.Offset, e.Need, e.Have)
}

// BadMagicError is returned when the file does not begin with CAFEBABE.
type BadMagicError struct {
	Found uint32
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("bad magic %#08x, want %#08x", e.Found, Magic)
}

// UnknownConstantTagError is returned for a constant pool tag byte
// outside the seventeen defined kinds.
type UnknownConstantTagError struct {
	Tag    uint8
	Offset int
}

func (e *UnknownConstantTagError) Error() string {
	return fmt.Sprintf("unknown constant pool tag %d at offset %#x", e.Tag, e.Offset)
}

// BadUTF8Error is returned when a CONSTANT_Utf8 body is not valid
// Modified UTF-8.
type BadUTF8Error struct {
	Offset int
}

func (e *BadUTF8Error) Error() string {
	return fmt.Sprintf("malformed modified UTF-8 in constant pool entry at offset %#x", e.Offset)
}

// UnknownAttributeError is returned in strict mode for an attribute
// name outside the JVM-defined set.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q", e.Name)
}

// AttributeLengthMismatchError is returned when an attribute body
// grammar finishes before consuming the declared envelope length. A
// grammar that needs more bytes than declared fails with
// UnexpectedEOFError instead.
type AttributeLengthMismatchError struct {
	Name     string
	Declared uint32
	Consumed uint32
}

func (e *AttributeLengthMismatchError) Error() string {
	return fmt.Sprintf("attribute %s declares %d bytes but its grammar consumed %d",
		e.Name, e.Declared, e.Consumed)
}

// UnknownStackMapFrameError is returned for a frame type byte outside
// the ranges defined by the StackMapTable grammar.
type UnknownStackMapFrameError struct {
	Tag    uint8
	Offset int
}

func (e *UnknownStackMapFrameError) Error() string {
	return fmt.Sprintf("unknown stack map frame type %d at offset %#x", e.Tag, e.Offset)
}

// UnknownVerificationTagError is returned for a verification type tag
// above 8.
type UnknownVerificationTagError struct {
	Tag    uint8
	Offset int
}

func (e *UnknownVerificationTagError) Error() string {
	return fmt.Sprintf("unknown verification type tag %d at offset %#x", e.Tag, e.Offset)
}

// UnknownElementValueTagError is returned for an element value tag
// outside the thirteen defined ASCII tags.
type UnknownElementValueTagError struct {
	Tag    byte
	Offset int
}

func (e *UnknownElementValueTagError) Error() string {
	return fmt.Sprintf("unknown element value tag %q at offset %#x", e.Tag, e.Offset)
}

// UnknownTargetTypeError is returned for a type annotation target type
// outside the JVM-defined table.
type UnknownTargetTypeError struct {
	TargetType uint8
	Offset     int
}

func (e *UnknownTargetTypeError) Error() string {
	return fmt.Sprintf("unknown type annotation target type %#x at offset %#x",
		e.TargetType, e.Offset)
}

// IndexOutOfBoundsError is returned for a constant pool reference that
// is zero, beyond the declared count, or landing on the reserved
// successor slot of a Long or Double entry.
type IndexOutOfBoundsError struct {
	Index uint16
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("constant pool index %d is not a valid entry", e.Index)
}

// PoolKindMismatchError is returned when a constant pool entry is not
// of the kind its referencing context requires.
type PoolKindMismatchError struct {
	Index uint16
	Want  string
	Got   string
}

func (e *PoolKindMismatchError) Error() string {
	return fmt.Sprintf("constant pool entry %d is a %s, want %s", e.Index, e.Got, e.Want)
}

// TrailingBytesError is returned when bytes remain after the top level
// class file structure.
type TrailingBytesError struct {
	Extra int
}

func (e *TrailingBytesError) Error() string {
	return fmt.Sprintf("%d trailing bytes after class file structure", e.Extra)
}

// NestingTooDeepError is returned when element value recursion exceeds
// the configured limit.
type NestingTooDeepError struct {
	Limit int
}

func (e *NestingTooDeepError) Error() string {
	return fmt.Sprintf("element value nesting exceeds the limit of %d", e.Limit)
}
