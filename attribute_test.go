// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func poolOfNames(names ...string) ConstantPool {
	constants := make([]Constant, len(names))
	for i, name := range names {
		constants[i] = UTF8Constant{Value: name}
	}
	return makePool(constants...)
}

func TestParseAttributeBodies(t *testing.T) {
	tests := []struct {
		name string
		body func(*image)
		out  Attribute
	}{
		{
			AttributeConstantValue,
			func(b *image) { b.u16(7) },
			ConstantValue{ConstantValueIndex: 7},
		},
		{
			AttributeExceptions,
			func(b *image) { b.u16(2).u16(4).u16(5) },
			Exceptions{ExceptionIndexTable: []uint16{4, 5}},
		},
		{
			AttributeInnerClasses,
			func(b *image) { b.u16(1).u16(2).u16(3).u16(4).u16(ClassAccPublic) },
			InnerClasses{Classes: []InnerClass{{
				InnerClassInfoIndex:   2,
				OuterClassInfoIndex:   3,
				InnerNameIndex:        4,
				InnerClassAccessFlags: ClassAccPublic,
			}}},
		},
		{
			AttributeEnclosingMethod,
			func(b *image) { b.u16(9).u16(10) },
			EnclosingMethod{ClassIndex: 9, MethodIndex: 10},
		},
		{
			AttributeSynthetic,
			func(b *image) {},
			Synthetic{},
		},
		{
			AttributeSignature,
			func(b *image) { b.u16(3) },
			Signature{SignatureIndex: 3},
		},
		{
			AttributeSourceFile,
			func(b *image) { b.u16(4) },
			SourceFile{SourceFileIndex: 4},
		},
		{
			AttributeSourceDebugExtension,
			func(b *image) { b.raw([]byte("SMAP\nFoo.kt\n")...) },
			SourceDebugExtension{DebugExtension: []byte("SMAP\nFoo.kt\n")},
		},
		{
			AttributeLineNumberTable,
			func(b *image) { b.u16(1).u16(0).u16(42) },
			LineNumberTable{LineNumbers: []LineNumber{{StartPC: 0, LineNumber: 42}}},
		},
		{
			AttributeLocalVariableTable,
			func(b *image) { b.u16(1).u16(0).u16(8).u16(5).u16(6).u16(0) },
			LocalVariableTable{LocalVariables: []LocalVariable{{
				StartPC:         0,
				Length:          8,
				NameIndex:       5,
				DescriptorIndex: 6,
				Index:           0,
			}}},
		},
		{
			AttributeLocalVariableTypeTable,
			func(b *image) { b.u16(1).u16(0).u16(8).u16(5).u16(7).u16(1) },
			LocalVariableTypeTable{LocalVariableTypes: []LocalVariableType{{
				StartPC:        0,
				Length:         8,
				NameIndex:      5,
				SignatureIndex: 7,
				Index:          1,
			}}},
		},
		{
			AttributeDeprecated,
			func(b *image) {},
			Deprecated{},
		},
		{
			AttributeBootstrapMethods,
			func(b *image) { b.u16(1).u16(3).u16(2).u16(1).u16(2) },
			BootstrapMethods{Methods: []BootstrapMethod{{
				MethodRef: 3,
				Arguments: []uint16{1, 2},
			}}},
		},
		{
			AttributeMethodParameters,
			func(b *image) { b.u8(1).u16(11).u16(MethodAccFinal) },
			MethodParameters{Parameters: []MethodParameter{{
				NameIndex:   11,
				AccessFlags: MethodAccFinal,
			}}},
		},
		{
			AttributeModulePackages,
			func(b *image) { b.u16(2).u16(7).u16(8) },
			ModulePackages{PackageIndexes: []uint16{7, 8}},
		},
		{
			AttributeModuleMainClass,
			func(b *image) { b.u16(9) },
			ModuleMainClass{MainClassIndex: 9},
		},
		{
			AttributeNestHost,
			func(b *image) { b.u16(2) },
			NestHost{HostClassIndex: 2},
		},
		{
			AttributeNestMembers,
			func(b *image) { b.u16(2).u16(2).u16(3) },
			NestMembers{Classes: []uint16{2, 3}},
		},
		{
			AttributePermittedSubclasses,
			func(b *image) { b.u16(1).u16(4) },
			PermittedSubclasses{Classes: []uint16{4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &image{}
			tt.body(body)

			img := &image{}
			img.u16(1) // attributes_count
			img.envelope(1, body.buf)

			cf := newTestFile(nil)
			cf.ConstantPool = poolOfNames(tt.name)

			attributes, err := cf.parseAttributes(&reader{data: img.buf})
			require.NoError(t, err)
			require.Len(t, attributes, 1)
			require.Equal(t, tt.out, attributes[0])
			require.Equal(t, tt.name, attributes[0].Name())
		})
	}
}

func TestParseAttributeUnknownLenient(t *testing.T) {
	img := &image{}
	img.u16(1)
	img.envelope(1, []byte{0xDE, 0xAD, 0xBE, 0xEF})

	cf := newTestFile(nil)
	cf.ConstantPool = poolOfNames("VendorX")

	attributes, err := cf.parseAttributes(&reader{data: img.buf})
	require.NoError(t, err)
	require.Equal(t, Attribute(UnknownAttribute{
		AttributeName: "VendorX",
		Data:          []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}), attributes[0])
	require.Equal(t, "VendorX", attributes[0].Name())
}

func TestParseAttributeUnknownStrict(t *testing.T) {
	img := &image{}
	img.u16(1)
	img.envelope(1, []byte{0xDE, 0xAD})

	cf := newTestFile(&Options{Strict: true})
	cf.ConstantPool = poolOfNames("VendorX")

	_, err := cf.parseAttributes(&reader{data: img.buf})
	var unknown *UnknownAttributeError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "VendorX", unknown.Name)
}

func TestParseAttributeLengthMismatch(t *testing.T) {
	// A SourceFile body is two bytes; declare four.
	img := &image{}
	img.u16(1)
	img.envelope(1, []byte{0x00, 0x04, 0xAA, 0xBB})

	cf := newTestFile(nil)
	cf.ConstantPool = poolOfNames(AttributeSourceFile)

	_, err := cf.parseAttributes(&reader{data: img.buf})
	var mismatch *AttributeLengthMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, AttributeSourceFile, mismatch.Name)
	require.Equal(t, uint32(4), mismatch.Declared)
	require.Equal(t, uint32(2), mismatch.Consumed)
}

func TestParseAttributeTruncatedBody(t *testing.T) {
	// The body grammar needs two bytes, the envelope holds one.
	img := &image{}
	img.u16(1)
	img.envelope(1, []byte{0x00})

	cf := newTestFile(nil)
	cf.ConstantPool = poolOfNames(AttributeSourceFile)

	_, err := cf.parseAttributes(&reader{data: img.buf})
	var eof *UnexpectedEOFError
	require.ErrorAs(t, err, &eof)
}

func TestParseAttributeNameNotUTF8(t *testing.T) {
	img := &image{}
	img.u16(1)
	img.envelope(1, nil)

	cf := newTestFile(nil)
	cf.ConstantPool = makePool(IntegerConstant{Value: 3})

	_, err := cf.parseAttributes(&reader{data: img.buf})
	var mismatch *PoolKindMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, uint16(1), mismatch.Index)
}

func TestParseAttributeNameOutOfBounds(t *testing.T) {
	img := &image{}
	img.u16(1)
	img.envelope(42, nil)

	cf := newTestFile(nil)
	cf.ConstantPool = poolOfNames("SourceFile")

	_, err := cf.parseAttributes(&reader{data: img.buf})
	var oob *IndexOutOfBoundsError
	require.ErrorAs(t, err, &oob)
	require.Equal(t, uint16(42), oob.Index)
}
