// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import "fmt"

// Verification type tags.
const (
	ItemTop               = 0
	ItemInteger           = 1
	ItemFloat             = 2
	ItemDouble            = 3
	ItemLong              = 4
	ItemNull              = 5
	ItemUninitializedThis = 6
	ItemObject            = 7
	ItemUninitialized     = 8
)

// VerificationType is the abstract type of one local or operand stack
// slot inside a stack map frame. Index carries the constant pool index
// for ItemObject and the offset of the new instruction for
// ItemUninitialized; it is zero for every other tag.
type VerificationType struct {
	Tag   uint8  `json:"tag"`
	Index uint16 `json:"index,omitempty"`
}

// StackMapFrame is one delta-encoded verifier frame. The concrete type
// is one of the seven frame variants below.
type StackMapFrame interface {
	stackMapFrame()
}

// SameFrame has the same locals as the previous frame and a zero-depth
// stack. The offset delta is encoded in the frame type itself.
type SameFrame struct {
	OffsetDelta uint16 `json:"offset_delta"`
}

// SameLocals1StackItemFrame has the same locals as the previous frame
// and exactly one stack item.
type SameLocals1StackItemFrame struct {
	OffsetDelta uint16           `json:"offset_delta"`
	Stack       VerificationType `json:"stack"`
}

// SameLocals1StackItemFrameExtended is SameLocals1StackItemFrame with
// an explicit u16 offset delta.
type SameLocals1StackItemFrameExtended struct {
	OffsetDelta uint16           `json:"offset_delta"`
	Stack       VerificationType `json:"stack"`
}

// ChopFrame removes the last Chopped locals of the previous frame and
// empties the stack.
type ChopFrame struct {
	OffsetDelta uint16 `json:"offset_delta"`
	Chopped     uint8  `json:"chopped"`
}

// SameFrameExtended is SameFrame with an explicit u16 offset delta.
type SameFrameExtended struct {
	OffsetDelta uint16 `json:"offset_delta"`
}

// AppendFrame adds one to three locals to the previous frame and
// empties the stack.
type AppendFrame struct {
	OffsetDelta uint16             `json:"offset_delta"`
	Locals      []VerificationType `json:"locals"`
}

// FullFrame spells out the complete locals and stack.
type FullFrame struct {
	OffsetDelta uint16             `json:"offset_delta"`
	Locals      []VerificationType `json:"locals"`
	Stack       []VerificationType `json:"stack"`
}

func (SameFrame) stackMapFrame()                         {}
func (SameLocals1StackItemFrame) stackMapFrame()         {}
func (SameLocals1StackItemFrameExtended) stackMapFrame() {}
func (ChopFrame) stackMapFrame()                         {}
func (SameFrameExtended) stackMapFrame()                 {}
func (AppendFrame) stackMapFrame()                       {}
func (FullFrame) stackMapFrame()                         {}

// StackMapTable holds the verifier frames of a Code attribute.
type StackMapTable struct {
	Frames []StackMapFrame `json:"frames"`
}

// Name returns the attribute name.
func (StackMapTable) Name() string { return AttributeStackMapTable }

func (cf *File) parseStackMapTable(r *reader) (Attribute, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	frames := make([]StackMapFrame, 0, count)
	for i := 0; i < int(count); i++ {
		frame, err := parseStackMapFrame(r)
		if err != nil {
			return nil, wrapErr(err, fmt.Sprintf("frames[%d]", i))
		}
		frames = append(frames, frame)
	}
	return StackMapTable{Frames: frames}, nil
}

// parseStackMapFrame dispatches on the frame type byte. The ranges are
// the ones from the JVM specification; 247, 248..250, 251 and 252..254
// select different shapes even though they are adjacent, and the
// append range encodes the number of new locals in the tag itself.
func parseStackMapFrame(r *reader) (StackMapFrame, error) {
	tagOffset := r.offset()
	frameType, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}

	switch {
	case frameType <= 63:
		return SameFrame{OffsetDelta: uint16(frameType)}, nil

	case frameType <= 127:
		stack, err := parseVerificationType(r)
		if err != nil {
			return nil, err
		}
		return SameLocals1StackItemFrame{
			OffsetDelta: uint16(frameType - 64),
			Stack:       stack,
		}, nil

	case frameType == 247:
		offsetDelta, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		stack, err := parseVerificationType(r)
		if err != nil {
			return nil, err
		}
		return SameLocals1StackItemFrameExtended{
			OffsetDelta: offsetDelta,
			Stack:       stack,
		}, nil

	case frameType >= 248 && frameType <= 250:
		offsetDelta, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return ChopFrame{OffsetDelta: offsetDelta, Chopped: 251 - frameType}, nil

	case frameType == 251:
		offsetDelta, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return SameFrameExtended{OffsetDelta: offsetDelta}, nil

	case frameType >= 252 && frameType <= 254:
		offsetDelta, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		locals := make([]VerificationType, 0, frameType-251)
		for i := 0; i < int(frameType-251); i++ {
			local, err := parseVerificationType(r)
			if err != nil {
				return nil, err
			}
			locals = append(locals, local)
		}
		return AppendFrame{OffsetDelta: offsetDelta, Locals: locals}, nil

	case frameType == 255:
		offsetDelta, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		locals, err := parseVerificationTypes(r)
		if err != nil {
			return nil, err
		}
		stack, err := parseVerificationTypes(r)
		if err != nil {
			return nil, err
		}
		return FullFrame{OffsetDelta: offsetDelta, Locals: locals, Stack: stack}, nil
	}

	return nil, &UnknownStackMapFrameError{Tag: frameType, Offset: tagOffset}
}

func parseVerificationTypes(r *reader) ([]VerificationType, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	types := make([]VerificationType, 0, count)
	for i := 0; i < int(count); i++ {
		t, err := parseVerificationType(r)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func parseVerificationType(r *reader) (VerificationType, error) {
	tagOffset := r.offset()
	tag, err := r.ReadUint8()
	if err != nil {
		return VerificationType{}, err
	}
	switch tag {
	case ItemTop, ItemInteger, ItemFloat, ItemDouble, ItemLong, ItemNull,
		ItemUninitializedThis:
		return VerificationType{Tag: tag}, nil
	case ItemObject, ItemUninitialized:
		index, err := r.ReadUint16()
		if err != nil {
			return VerificationType{}, err
		}
		return VerificationType{Tag: tag, Index: index}, nil
	}
	return VerificationType{}, &UnknownVerificationTagError{Tag: tag, Offset: tagOffset}
}
