// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConstantPool(t *testing.T) {
	img := &image{}
	img.utf8("java/lang/Object")
	img.u8(TagClass).u16(1)
	img.u8(TagInteger).u32(0xFFFFFFFE) // -2
	img.u8(TagFloat).u32(0x3F800000)   // 1.0
	img.u8(TagNameAndType).u16(1).u16(1)
	img.u8(TagMethodHandle).u8(RefInvokeStatic).u16(5)

	cf := newTestFile(nil)
	err := cf.parseConstantPool(&reader{data: img.buf}, 7)
	require.NoError(t, err)

	pool := cf.ConstantPool
	require.Len(t, pool.Constants, 6)
	require.Equal(t, uint16(7), pool.Count())

	name, err := pool.UTF8(1)
	require.NoError(t, err)
	require.Equal(t, "java/lang/Object", name)

	class, err := pool.Class(2)
	require.NoError(t, err)
	require.Equal(t, ClassConstant{NameIndex: 1}, class)

	entry, err := pool.At(3)
	require.NoError(t, err)
	require.Equal(t, IntegerConstant{Value: -2}, entry)

	entry, err = pool.At(4)
	require.NoError(t, err)
	require.Equal(t, FloatConstant{Value: 1.0}, entry)

	nat, err := pool.NameAndType(5)
	require.NoError(t, err)
	require.Equal(t, NameAndTypeConstant{NameIndex: 1, DescriptorIndex: 1}, nat)

	entry, err = pool.At(6)
	require.NoError(t, err)
	require.Equal(t, MethodHandleConstant{
		ReferenceKind:  RefInvokeStatic,
		ReferenceIndex: 5,
	}, entry)
}

// A Long entry covers two logical slots: with a declared count of 5,
// the three stored entries occupy slots 1, 2-3 and 4. The successor
// slot of the Long entry must never resolve.
func TestParseConstantPoolWideEntries(t *testing.T) {
	img := &image{}
	img.utf8("x")
	img.u8(TagLong).u64(7)
	img.u8(TagInteger).u32(3)

	cf := newTestFile(nil)
	err := cf.parseConstantPool(&reader{data: img.buf}, 5)
	require.NoError(t, err)

	pool := cf.ConstantPool
	require.Len(t, pool.Constants, 3)

	name, err := pool.UTF8(1)
	require.NoError(t, err)
	require.Equal(t, "x", name)

	entry, err := pool.At(2)
	require.NoError(t, err)
	require.Equal(t, LongConstant{Value: 7}, entry)

	// The reserved successor slot.
	_, err = pool.At(3)
	var oob *IndexOutOfBoundsError
	require.ErrorAs(t, err, &oob)
	require.Equal(t, uint16(3), oob.Index)

	entry, err = pool.At(4)
	require.NoError(t, err)
	require.Equal(t, IntegerConstant{Value: 3}, entry)
}

// Only Long and Double are wide; a Float entry fills a single slot.
func TestParseConstantPoolFloatIsNarrow(t *testing.T) {
	img := &image{}
	img.u8(TagFloat).u32(0x40490FDB)
	img.u8(TagInteger).u32(1)

	cf := newTestFile(nil)
	err := cf.parseConstantPool(&reader{data: img.buf}, 3)
	require.NoError(t, err)

	require.Len(t, cf.ConstantPool.Constants, 2)
	entry, err := cf.ConstantPool.At(2)
	require.NoError(t, err)
	require.Equal(t, IntegerConstant{Value: 1}, entry)
}

func TestParseConstantPoolAllReferenceKinds(t *testing.T) {
	img := &image{}
	img.u8(TagFieldRef).u16(1).u16(2)
	img.u8(TagMethodRef).u16(1).u16(2)
	img.u8(TagInterfaceMethodRef).u16(1).u16(2)
	img.u8(TagString).u16(1)
	img.u8(TagDouble).u64(0x4000000000000000) // 2.0
	img.u8(TagMethodType).u16(1)
	img.u8(TagDynamic).u16(0).u16(2)
	img.u8(TagInvokeDynamic).u16(0).u16(2)
	img.u8(TagModule).u16(1)
	img.u8(TagPackage).u16(1)

	cf := newTestFile(nil)
	err := cf.parseConstantPool(&reader{data: img.buf}, 12)
	require.NoError(t, err)

	pool := cf.ConstantPool
	require.Len(t, pool.Constants, 10)

	require.Equal(t, Constant(FieldRefConstant{ClassIndex: 1, NameAndTypeIndex: 2}),
		pool.Constants[0])
	require.Equal(t, Constant(MethodRefConstant{ClassIndex: 1, NameAndTypeIndex: 2}),
		pool.Constants[1])
	require.Equal(t, Constant(InterfaceMethodRefConstant{ClassIndex: 1, NameAndTypeIndex: 2}),
		pool.Constants[2])
	require.Equal(t, Constant(StringConstant{StringIndex: 1}), pool.Constants[3])
	require.Equal(t, Constant(DoubleConstant{Value: 2.0}), pool.Constants[4])
	require.Equal(t, Constant(MethodTypeConstant{DescriptorIndex: 1}), pool.Constants[5])
	require.Equal(t, Constant(DynamicConstant{NameAndTypeIndex: 2}), pool.Constants[6])
	require.Equal(t, Constant(InvokeDynamicConstant{NameAndTypeIndex: 2}), pool.Constants[7])
	require.Equal(t, Constant(ModuleConstant{NameIndex: 1}), pool.Constants[8])
	require.Equal(t, Constant(PackageConstant{NameIndex: 1}), pool.Constants[9])
}

func TestParseConstantPoolUnknownTag(t *testing.T) {
	img := &image{}
	img.utf8("x")
	img.u8(13).u16(0) // 13 and 14 are unassigned tags

	cf := newTestFile(nil)
	err := cf.parseConstantPool(&reader{data: img.buf}, 3)

	var unknown *UnknownConstantTagError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, uint8(13), unknown.Tag)
	require.Equal(t, 4, unknown.Offset)
}

func TestParseConstantPoolBadUTF8(t *testing.T) {
	img := &image{}
	img.u8(TagUTF8).u16(2).raw(0xC3, 0x28)

	cf := newTestFile(nil)
	err := cf.parseConstantPool(&reader{data: img.buf}, 2)

	var bad *BadUTF8Error
	require.ErrorAs(t, err, &bad)
	require.Equal(t, 3, bad.Offset)
}

func TestConstantPoolLookupErrors(t *testing.T) {
	pool := makePool(UTF8Constant{Value: "x"}, IntegerConstant{Value: 1})

	// Index zero is reserved.
	_, err := pool.At(0)
	var oob *IndexOutOfBoundsError
	require.ErrorAs(t, err, &oob)

	// Past the declared count.
	_, err = pool.At(9)
	require.ErrorAs(t, err, &oob)
	require.Equal(t, uint16(9), oob.Index)

	// Kind mismatch.
	_, err = pool.UTF8(2)
	var mismatch *PoolKindMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, "Utf8", mismatch.Want)
	require.Equal(t, "Integer", mismatch.Got)

	_, err = pool.Class(1)
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, "Class", mismatch.Want)
}

func TestConstantTagString(t *testing.T) {
	tests := []struct {
		tag  ConstantTag
		name string
	}{
		{TagUTF8, "Utf8"},
		{TagClass, "Class"},
		{TagInvokeDynamic, "InvokeDynamic"},
		{ConstantTag(99), "?"},
	}
	for _, tt := range tests {
		if got := tt.tag.String(); got != tt.name {
			t.Errorf("ConstantTag(%d).String() = %q, want %q", tt.tag, got, tt.name)
		}
	}
}
