// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import (
	"sort"
	"strings"
)

// Magic is the four byte signature every class file begins with.
const Magic = 0xCAFEBABE

// Class file major versions. The minor version is zero for every
// release since Java 1.1, except that preview-feature class files set
// it to 0xFFFF.
const (
	MajorVersionJava1  = 45
	MajorVersionJava2  = 46
	MajorVersionJava3  = 47
	MajorVersionJava4  = 48
	MajorVersionJava5  = 49
	MajorVersionJava6  = 50
	MajorVersionJava7  = 51
	MajorVersionJava8  = 52
	MajorVersionJava9  = 53
	MajorVersionJava10 = 54
	MajorVersionJava11 = 55
	MajorVersionJava12 = 56
	MajorVersionJava13 = 57
	MajorVersionJava14 = 58
	MajorVersionJava15 = 59
	MajorVersionJava16 = 60
	MajorVersionJava17 = 61
	MajorVersionJava18 = 62
	MajorVersionJava19 = 63
	MajorVersionJava20 = 64
	MajorVersionJava21 = 65
)

// Class access and property flags.
const (
	// ClassAccPublic may be accessed from outside its package.
	ClassAccPublic = 0x0001

	// ClassAccFinal forbids subclassing.
	ClassAccFinal = 0x0010

	// ClassAccSuper treats superclass methods specially when invoked
	// by the invokespecial instruction. Set by every modern compiler.
	ClassAccSuper = 0x0020

	// ClassAccInterface marks an interface, not a class.
	ClassAccInterface = 0x0200

	// ClassAccAbstract must not be instantiated.
	ClassAccAbstract = 0x0400

	// ClassAccSynthetic marks a class absent from the source code.
	ClassAccSynthetic = 0x1000

	// ClassAccAnnotation marks an annotation interface.
	ClassAccAnnotation = 0x2000

	// ClassAccEnum marks a class declared as an enum.
	ClassAccEnum = 0x4000

	// ClassAccModule marks a module-info class; no other flag may be
	// set alongside it.
	ClassAccModule = 0x8000
)

// Field access and property flags.
const (
	FieldAccPublic    = 0x0001
	FieldAccPrivate   = 0x0002
	FieldAccProtected = 0x0004
	FieldAccStatic    = 0x0008
	FieldAccFinal     = 0x0010
	FieldAccVolatile  = 0x0040
	FieldAccTransient = 0x0080
	FieldAccSynthetic = 0x1000
	FieldAccEnum      = 0x4000
)

// Method access and property flags.
const (
	MethodAccPublic       = 0x0001
	MethodAccPrivate      = 0x0002
	MethodAccProtected    = 0x0004
	MethodAccStatic       = 0x0008
	MethodAccFinal        = 0x0010
	MethodAccSynchronized = 0x0020
	MethodAccBridge       = 0x0040
	MethodAccVarargs      = 0x0080
	MethodAccNative       = 0x0100
	MethodAccAbstract     = 0x0400
	MethodAccStrict       = 0x0800
	MethodAccSynthetic    = 0x1000
)

// Method handle reference kinds.
const (
	RefGetField         = 1
	RefGetStatic        = 2
	RefPutField         = 3
	RefPutStatic        = 4
	RefInvokeVirtual    = 5
	RefInvokeStatic     = 6
	RefInvokeSpecial    = 7
	RefNewInvokeSpecial = 8
	RefInvokeInterface  = 9
)

// AccessFlags is the access_flags bitmask of the class itself.
type AccessFlags uint16

// String stringifies the class access flags in a stable order.
func (flags AccessFlags) String() string {
	flagNames := map[uint16]string{
		ClassAccPublic:     "public",
		ClassAccFinal:      "final",
		ClassAccSuper:      "super",
		ClassAccInterface:  "interface",
		ClassAccAbstract:   "abstract",
		ClassAccSynthetic:  "synthetic",
		ClassAccAnnotation: "annotation",
		ClassAccEnum:       "enum",
		ClassAccModule:     "module",
	}

	masks := make([]int, 0, len(flagNames))
	for mask := range flagNames {
		masks = append(masks, int(mask))
	}
	sort.Ints(masks)

	names := []string{}
	for _, mask := range masks {
		if uint16(flags)&uint16(mask) != 0 {
			names = append(names, flagNames[uint16(mask)])
		}
	}
	return strings.Join(names, " ")
}

// MethodHandleKindString names a method handle reference kind.
func MethodHandleKindString(kind uint8) string {
	kindMap := map[uint8]string{
		RefGetField:         "getField",
		RefGetStatic:        "getStatic",
		RefPutField:         "putField",
		RefPutStatic:        "putStatic",
		RefInvokeVirtual:    "invokeVirtual",
		RefInvokeStatic:     "invokeStatic",
		RefInvokeSpecial:    "invokeSpecial",
		RefNewInvokeSpecial: "newInvokeSpecial",
		RefInvokeInterface:  "invokeInterface",
	}

	if name, ok := kindMap[kind]; ok {
		return name
	}
	return "?"
}
