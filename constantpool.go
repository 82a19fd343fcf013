// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

// Constant pool tags.
const (
	TagUTF8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldRef           = 9
	TagMethodRef          = 10
	TagInterfaceMethodRef = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// ConstantTag identifies the kind of a constant pool entry.
type ConstantTag uint8

// String stringifies the constant pool tag.
func (t ConstantTag) String() string {
	tagMap := map[ConstantTag]string{
		TagUTF8:               "Utf8",
		TagInteger:            "Integer",
		TagFloat:              "Float",
		TagLong:               "Long",
		TagDouble:             "Double",
		TagClass:              "Class",
		TagString:             "String",
		TagFieldRef:           "Fieldref",
		TagMethodRef:          "Methodref",
		TagInterfaceMethodRef: "InterfaceMethodref",
		TagNameAndType:        "NameAndType",
		TagMethodHandle:       "MethodHandle",
		TagMethodType:         "MethodType",
		TagDynamic:            "Dynamic",
		TagInvokeDynamic:      "InvokeDynamic",
		TagModule:             "Module",
		TagPackage:            "Package",
	}

	if name, ok := tagMap[t]; ok {
		return name
	}
	return "?"
}

// Constant is a single constant pool entry. The concrete type is one
// of the seventeen *Constant structs below, keyed by Tag().
type Constant interface {
	Tag() ConstantTag
}

// ClassConstant represents a class or interface by the name it is
// known under in the pool.
type ClassConstant struct {
	NameIndex uint16 `json:"name_index"`
}

// FieldRefConstant is a symbolic reference to a field.
type FieldRefConstant struct {
	ClassIndex       uint16 `json:"class_index"`
	NameAndTypeIndex uint16 `json:"name_and_type_index"`
}

// MethodRefConstant is a symbolic reference to a class method.
type MethodRefConstant struct {
	ClassIndex       uint16 `json:"class_index"`
	NameAndTypeIndex uint16 `json:"name_and_type_index"`
}

// InterfaceMethodRefConstant is a symbolic reference to an interface
// method.
type InterfaceMethodRefConstant struct {
	ClassIndex       uint16 `json:"class_index"`
	NameAndTypeIndex uint16 `json:"name_and_type_index"`
}

// StringConstant points at the Utf8 entry holding the string body.
type StringConstant struct {
	StringIndex uint16 `json:"string_index"`
}

// IntegerConstant holds a 32-bit integer literal.
type IntegerConstant struct {
	Value int32 `json:"value"`
}

// FloatConstant holds a 32-bit IEEE-754 literal.
type FloatConstant struct {
	Value float32 `json:"value"`
}

// LongConstant holds a 64-bit integer literal. The entry occupies two
// logical constant pool slots.
type LongConstant struct {
	Value int64 `json:"value"`
}

// DoubleConstant holds a 64-bit IEEE-754 literal. The entry occupies
// two logical constant pool slots.
type DoubleConstant struct {
	Value float64 `json:"value"`
}

// NameAndTypeConstant pairs a name with a field or method descriptor.
type NameAndTypeConstant struct {
	NameIndex       uint16 `json:"name_index"`
	DescriptorIndex uint16 `json:"descriptor_index"`
}

// UTF8Constant holds a decoded modified UTF-8 string body.
type UTF8Constant struct {
	Value string `json:"value"`
}

// MethodHandleConstant describes a method handle by reference kind and
// the referenced pool entry.
type MethodHandleConstant struct {
	ReferenceKind  uint8  `json:"reference_kind"`
	ReferenceIndex uint16 `json:"reference_index"`
}

// MethodTypeConstant points at a method descriptor.
type MethodTypeConstant struct {
	DescriptorIndex uint16 `json:"descriptor_index"`
}

// DynamicConstant is a dynamically computed constant.
type DynamicConstant struct {
	BootstrapMethodAttrIndex uint16 `json:"bootstrap_method_attr_index"`
	NameAndTypeIndex         uint16 `json:"name_and_type_index"`
}

// InvokeDynamicConstant is a dynamically computed call site.
type InvokeDynamicConstant struct {
	BootstrapMethodAttrIndex uint16 `json:"bootstrap_method_attr_index"`
	NameAndTypeIndex         uint16 `json:"name_and_type_index"`
}

// ModuleConstant represents a module by name.
type ModuleConstant struct {
	NameIndex uint16 `json:"name_index"`
}

// PackageConstant represents a package exported or opened by a module.
type PackageConstant struct {
	NameIndex uint16 `json:"name_index"`
}

// Tag implementations.
func (ClassConstant) Tag() ConstantTag              { return TagClass }
func (FieldRefConstant) Tag() ConstantTag           { return TagFieldRef }
func (MethodRefConstant) Tag() ConstantTag          { return TagMethodRef }
func (InterfaceMethodRefConstant) Tag() ConstantTag { return TagInterfaceMethodRef }
func (StringConstant) Tag() ConstantTag             { return TagString }
func (IntegerConstant) Tag() ConstantTag            { return TagInteger }
func (FloatConstant) Tag() ConstantTag              { return TagFloat }
func (LongConstant) Tag() ConstantTag               { return TagLong }
func (DoubleConstant) Tag() ConstantTag             { return TagDouble }
func (NameAndTypeConstant) Tag() ConstantTag        { return TagNameAndType }
func (UTF8Constant) Tag() ConstantTag               { return TagUTF8 }
func (MethodHandleConstant) Tag() ConstantTag       { return TagMethodHandle }
func (MethodTypeConstant) Tag() ConstantTag         { return TagMethodType }
func (DynamicConstant) Tag() ConstantTag            { return TagDynamic }
func (InvokeDynamicConstant) Tag() ConstantTag      { return TagInvokeDynamic }
func (ModuleConstant) Tag() ConstantTag             { return TagModule }
func (PackageConstant) Tag() ConstantTag            { return TagPackage }

// ConstantPool is the decoded constant table. Entries are stored
// densely in file order; Long and Double entries cover two logical
// slots but are stored once. External 1-based indices are translated
// through the slot table, so the reserved successor slot of a wide
// entry and slot 0 can never resolve to an entry.
type ConstantPool struct {
	Constants []Constant `json:"constants"`

	count uint16
	slots []int
}

// Count returns the declared constant_pool_count, which is one more
// than the number of logical slots.
func (cp *ConstantPool) Count() uint16 {
	return cp.count
}

// At resolves an external 1-based constant pool index.
func (cp *ConstantPool) At(idx uint16) (Constant, error) {
	if int(idx) >= len(cp.slots) {
		return nil, &IndexOutOfBoundsError{Index: idx}
	}
	pos := cp.slots[idx]
	if pos < 0 {
		return nil, &IndexOutOfBoundsError{Index: idx}
	}
	return cp.Constants[pos], nil
}

// UTF8 resolves idx and requires a Utf8 entry, returning its body.
func (cp *ConstantPool) UTF8(idx uint16) (string, error) {
	entry, err := cp.At(idx)
	if err != nil {
		return "", err
	}
	utf8, ok := entry.(UTF8Constant)
	if !ok {
		return "", &PoolKindMismatchError{
			Index: idx,
			Want:  ConstantTag(TagUTF8).String(),
			Got:   entry.Tag().String(),
		}
	}
	return utf8.Value, nil
}

// Class resolves idx and requires a Class entry.
func (cp *ConstantPool) Class(idx uint16) (ClassConstant, error) {
	entry, err := cp.At(idx)
	if err != nil {
		return ClassConstant{}, err
	}
	class, ok := entry.(ClassConstant)
	if !ok {
		return ClassConstant{}, &PoolKindMismatchError{
			Index: idx,
			Want:  ConstantTag(TagClass).String(),
			Got:   entry.Tag().String(),
		}
	}
	return class, nil
}

// NameAndType resolves idx and requires a NameAndType entry.
func (cp *ConstantPool) NameAndType(idx uint16) (NameAndTypeConstant, error) {
	entry, err := cp.At(idx)
	if err != nil {
		return NameAndTypeConstant{}, err
	}
	nat, ok := entry.(NameAndTypeConstant)
	if !ok {
		return NameAndTypeConstant{}, &PoolKindMismatchError{
			Index: idx,
			Want:  ConstantTag(TagNameAndType).String(),
			Got:   entry.Tag().String(),
		}
	}
	return nat, nil
}

// parseConstantPool decodes the constant table. The cursor must sit
// right after constant_pool_count. Decoding fills count-1 logical
// slots; a Long or Double covers two of them with a single stored
// entry.
func (cf *File) parseConstantPool(r *reader, count uint16) error {
	pool := ConstantPool{
		count: count,
		slots: make([]int, count),
	}
	for i := range pool.slots {
		pool.slots[i] = -1
	}

	slot := 1
	for slot < int(count) {
		entry, wide, err := cf.parseConstant(r)
		if err != nil {
			return err
		}
		pool.slots[slot] = len(pool.Constants)
		pool.Constants = append(pool.Constants, entry)
		if wide {
			// The successor slot is reserved and stays
			// unresolvable.
			slot += 2
		} else {
			slot++
		}
	}

	cf.ConstantPool = pool
	return nil
}

func (cf *File) parseConstant(r *reader) (Constant, bool, error) {
	tagOffset := r.offset()
	tag, err := r.ReadUint8()
	if err != nil {
		return nil, false, err
	}

	switch tag {
	case TagClass:
		nameIndex, err := r.ReadUint16()
		if err != nil {
			return nil, false, err
		}
		return ClassConstant{NameIndex: nameIndex}, false, nil
	case TagFieldRef:
		classIndex, natIndex, err := readIndexPair(r)
		if err != nil {
			return nil, false, err
		}
		return FieldRefConstant{ClassIndex: classIndex, NameAndTypeIndex: natIndex}, false, nil
	case TagMethodRef:
		classIndex, natIndex, err := readIndexPair(r)
		if err != nil {
			return nil, false, err
		}
		return MethodRefConstant{ClassIndex: classIndex, NameAndTypeIndex: natIndex}, false, nil
	case TagInterfaceMethodRef:
		classIndex, natIndex, err := readIndexPair(r)
		if err != nil {
			return nil, false, err
		}
		return InterfaceMethodRefConstant{ClassIndex: classIndex, NameAndTypeIndex: natIndex},
			false, nil
	case TagString:
		stringIndex, err := r.ReadUint16()
		if err != nil {
			return nil, false, err
		}
		return StringConstant{StringIndex: stringIndex}, false, nil
	case TagInteger:
		value, err := r.ReadInt32()
		if err != nil {
			return nil, false, err
		}
		return IntegerConstant{Value: value}, false, nil
	case TagFloat:
		value, err := r.ReadFloat32()
		if err != nil {
			return nil, false, err
		}
		return FloatConstant{Value: value}, false, nil
	case TagLong:
		value, err := r.ReadInt64()
		if err != nil {
			return nil, false, err
		}
		return LongConstant{Value: value}, true, nil
	case TagDouble:
		value, err := r.ReadFloat64()
		if err != nil {
			return nil, false, err
		}
		return DoubleConstant{Value: value}, true, nil
	case TagNameAndType:
		nameIndex, descIndex, err := readIndexPair(r)
		if err != nil {
			return nil, false, err
		}
		return NameAndTypeConstant{NameIndex: nameIndex, DescriptorIndex: descIndex}, false, nil
	case TagUTF8:
		length, err := r.ReadUint16()
		if err != nil {
			return nil, false, err
		}
		bodyOffset := r.offset()
		body, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, false, err
		}
		value, err := decodeModifiedUTF8(body)
		if err != nil {
			return nil, false, &BadUTF8Error{Offset: bodyOffset}
		}
		return UTF8Constant{Value: value}, false, nil
	case TagMethodHandle:
		refKind, err := r.ReadUint8()
		if err != nil {
			return nil, false, err
		}
		refIndex, err := r.ReadUint16()
		if err != nil {
			return nil, false, err
		}
		return MethodHandleConstant{ReferenceKind: refKind, ReferenceIndex: refIndex}, false, nil
	case TagMethodType:
		descIndex, err := r.ReadUint16()
		if err != nil {
			return nil, false, err
		}
		return MethodTypeConstant{DescriptorIndex: descIndex}, false, nil
	case TagDynamic:
		bootstrapIndex, natIndex, err := readIndexPair(r)
		if err != nil {
			return nil, false, err
		}
		return DynamicConstant{
			BootstrapMethodAttrIndex: bootstrapIndex,
			NameAndTypeIndex:         natIndex,
		}, false, nil
	case TagInvokeDynamic:
		bootstrapIndex, natIndex, err := readIndexPair(r)
		if err != nil {
			return nil, false, err
		}
		return InvokeDynamicConstant{
			BootstrapMethodAttrIndex: bootstrapIndex,
			NameAndTypeIndex:         natIndex,
		}, false, nil
	case TagModule:
		nameIndex, err := r.ReadUint16()
		if err != nil {
			return nil, false, err
		}
		return ModuleConstant{NameIndex: nameIndex}, false, nil
	case TagPackage:
		nameIndex, err := r.ReadUint16()
		if err != nil {
			return nil, false, err
		}
		return PackageConstant{NameIndex: nameIndex}, false, nil
	}

	return nil, false, &UnknownConstantTagError{Tag: tag, Offset: tagOffset}
}

func readIndexPair(r *reader) (uint16, uint16, error) {
	first, err := r.ReadUint16()
	if err != nil {
		return 0, 0, err
	}
	second, err := r.ReadUint16()
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}
