// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import "fmt"

// ValidationError reports a structurally well formed class file whose
// constant pool references do not hold the kinds their contexts
// require.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "class file validation failed: " + e.Reason
}

// Validate cross checks every constant pool reference the decoded tree
// retains at the top level: intra-pool links, this/super/interface
// classes and member name/descriptor indices. Indices kept inside
// attribute bodies are structural data and are not resolved here.
// Parse runs Validate automatically unless Options.SkipValidation is
// set.
func (cf *File) Validate() error {
	if err := cf.validatePool(); err != nil {
		return err
	}

	// this_class and super_class are zero in some synthetic inputs
	// (and super_class legitimately so for Object and for modules);
	// only non zero indices are resolved.
	if cf.ThisClass != 0 {
		if _, err := cf.ConstantPool.Class(cf.ThisClass); err != nil {
			return wrapErr(err, "this_class")
		}
	}
	if cf.SuperClass != 0 {
		if _, err := cf.ConstantPool.Class(cf.SuperClass); err != nil {
			return wrapErr(err, "super_class")
		}
	}
	for i, idx := range cf.Interfaces {
		if _, err := cf.ConstantPool.Class(idx); err != nil {
			return wrapErr(err, fmt.Sprintf("interfaces[%d]", i))
		}
	}

	for i, field := range cf.Fields {
		if err := cf.validateMember(field.NameIndex, field.DescriptorIndex); err != nil {
			return wrapErr(err, fmt.Sprintf("fields[%d]", i))
		}
	}
	for i, method := range cf.Methods {
		if err := cf.validateMember(method.NameIndex, method.DescriptorIndex); err != nil {
			return wrapErr(err, fmt.Sprintf("methods[%d]", i))
		}
	}
	return nil
}

func (cf *File) validateMember(nameIndex, descriptorIndex uint16) error {
	if _, err := cf.ConstantPool.UTF8(nameIndex); err != nil {
		return wrapErr(err, "name_index")
	}
	if _, err := cf.ConstantPool.UTF8(descriptorIndex); err != nil {
		return wrapErr(err, "descriptor_index")
	}
	return nil
}

func (cf *File) validatePool() error {
	pool := &cf.ConstantPool
	for idx := uint16(1); int(idx) < len(pool.slots); idx++ {
		if pool.slots[idx] < 0 {
			continue
		}
		entry := pool.Constants[pool.slots[idx]]
		if err := cf.validateConstant(entry); err != nil {
			return wrapErr(err, fmt.Sprintf("constant_pool[%d]", idx))
		}
	}
	return nil
}

func (cf *File) validateConstant(entry Constant) error {
	pool := &cf.ConstantPool
	switch c := entry.(type) {
	case ClassConstant:
		_, err := pool.UTF8(c.NameIndex)
		return err
	case StringConstant:
		_, err := pool.UTF8(c.StringIndex)
		return err
	case FieldRefConstant:
		return cf.validateRef(c.ClassIndex, c.NameAndTypeIndex)
	case MethodRefConstant:
		return cf.validateRef(c.ClassIndex, c.NameAndTypeIndex)
	case InterfaceMethodRefConstant:
		return cf.validateRef(c.ClassIndex, c.NameAndTypeIndex)
	case NameAndTypeConstant:
		if _, err := pool.UTF8(c.NameIndex); err != nil {
			return err
		}
		_, err := pool.UTF8(c.DescriptorIndex)
		return err
	case MethodHandleConstant:
		if c.ReferenceKind < RefGetField || c.ReferenceKind > RefInvokeInterface {
			return &ValidationError{
				Reason: fmt.Sprintf("method handle reference kind %d is not in [1, 9]",
					c.ReferenceKind),
			}
		}
		referenced, err := pool.At(c.ReferenceIndex)
		if err != nil {
			return err
		}
		switch referenced.Tag() {
		case TagFieldRef, TagMethodRef, TagInterfaceMethodRef:
			return nil
		}
		return &PoolKindMismatchError{
			Index: c.ReferenceIndex,
			Want:  "Fieldref, Methodref or InterfaceMethodref",
			Got:   referenced.Tag().String(),
		}
	case MethodTypeConstant:
		_, err := pool.UTF8(c.DescriptorIndex)
		return err
	case DynamicConstant:
		_, err := pool.NameAndType(c.NameAndTypeIndex)
		return err
	case InvokeDynamicConstant:
		_, err := pool.NameAndType(c.NameAndTypeIndex)
		return err
	case ModuleConstant:
		_, err := pool.UTF8(c.NameIndex)
		return err
	case PackageConstant:
		_, err := pool.UTF8(c.NameIndex)
		return err
	}
	// Utf8, Integer, Float, Long and Double entries hold no
	// references.
	return nil
}

func (cf *File) validateRef(classIndex, nameAndTypeIndex uint16) error {
	if _, err := cf.ConstantPool.Class(classIndex); err != nil {
		return err
	}
	_, err := cf.ConstantPool.NameAndType(nameAndTypeIndex)
	return err
}
