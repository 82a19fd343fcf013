// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

// ExceptionHandler is one exception table entry of a Code attribute.
// A zero CatchType makes the handler catch everything, which is how
// finally blocks are compiled.
type ExceptionHandler struct {
	StartPC   uint16 `json:"start_pc"`
	EndPC     uint16 `json:"end_pc"`
	HandlerPC uint16 `json:"handler_pc"`
	CatchType uint16 `json:"catch_type"`
}

// Code holds the bytecode and per-method runtime tables of a method.
// The instruction stream is kept as an opaque owned byte run; this
// layer does not disassemble it.
type Code struct {
	MaxStack       uint16             `json:"max_stack"`
	MaxLocals      uint16             `json:"max_locals"`
	Bytecode       []byte             `json:"bytecode"`
	ExceptionTable []ExceptionHandler `json:"exception_table"`
	Attributes     []Attribute        `json:"attributes"`
}

// Name returns the attribute name.
func (Code) Name() string { return AttributeCode }

// parseCode decodes a Code attribute body. The nested attribute list
// goes back through the generic dispatcher, which bounds the
// Code -> LineNumberTable / LocalVariableTable / StackMapTable
// recursion by the envelope lengths.
func (cf *File) parseCode(r *reader) (Attribute, error) {
	var code Code
	var err error

	if code.MaxStack, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if code.MaxLocals, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	codeLength, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if code.Bytecode, err = r.ReadBytes(int(codeLength)); err != nil {
		return nil, err
	}

	handlerCount, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	code.ExceptionTable = make([]ExceptionHandler, 0, handlerCount)
	for i := 0; i < int(handlerCount); i++ {
		var handler ExceptionHandler
		if handler.StartPC, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if handler.EndPC, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if handler.HandlerPC, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if handler.CatchType, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		code.ExceptionTable = append(code.ExceptionTable, handler)
	}

	if code.Attributes, err = cf.parseAttributes(r); err != nil {
		return nil, err
	}
	return code, nil
}
