// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import "fmt"

// FieldInfo describes one field of the class.
type FieldInfo struct {
	AccessFlags     uint16      `json:"access_flags"`
	NameIndex       uint16      `json:"name_index"`
	DescriptorIndex uint16      `json:"descriptor_index"`
	Attributes      []Attribute `json:"attributes"`
}

// MethodInfo describes one method of the class. Fields and methods
// share the same wire shape; they differ only in which attributes are
// semantically legal, which this layer does not enforce.
type MethodInfo struct {
	AccessFlags     uint16      `json:"access_flags"`
	NameIndex       uint16      `json:"name_index"`
	DescriptorIndex uint16      `json:"descriptor_index"`
	Attributes      []Attribute `json:"attributes"`
}

func (cf *File) parseFields(r *reader) error {
	count, err := r.ReadUint16()
	if err != nil {
		return err
	}
	cf.Fields = make([]FieldInfo, 0, count)
	for i := 0; i < int(count); i++ {
		accessFlags, nameIndex, descriptorIndex, attributes, err := cf.parseMember(r)
		if err != nil {
			return wrapErr(err, fmt.Sprintf("fields[%d]", i))
		}
		cf.Fields = append(cf.Fields, FieldInfo{
			AccessFlags:     accessFlags,
			NameIndex:       nameIndex,
			DescriptorIndex: descriptorIndex,
			Attributes:      attributes,
		})
	}
	return nil
}

func (cf *File) parseMethods(r *reader) error {
	count, err := r.ReadUint16()
	if err != nil {
		return err
	}
	cf.Methods = make([]MethodInfo, 0, count)
	for i := 0; i < int(count); i++ {
		accessFlags, nameIndex, descriptorIndex, attributes, err := cf.parseMember(r)
		if err != nil {
			return wrapErr(err, fmt.Sprintf("methods[%d]", i))
		}
		cf.Methods = append(cf.Methods, MethodInfo{
			AccessFlags:     accessFlags,
			NameIndex:       nameIndex,
			DescriptorIndex: descriptorIndex,
			Attributes:      attributes,
		})
	}
	return nil
}

func (cf *File) parseMember(r *reader) (uint16, uint16, uint16, []Attribute, error) {
	accessFlags, err := r.ReadUint16()
	if err != nil {
		return 0, 0, 0, nil, err
	}
	nameIndex, err := r.ReadUint16()
	if err != nil {
		return 0, 0, 0, nil, err
	}
	descriptorIndex, err := r.ReadUint16()
	if err != nil {
		return 0, 0, 0, nil, err
	}
	attributes, err := cf.parseAttributes(r)
	if err != nil {
		return 0, 0, 0, nil, err
	}
	return accessFlags, nameIndex, descriptorIndex, attributes, nil
}
