// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import "fmt"

// Element value tags. Each is the ASCII character of the descriptor
// the value stands for.
const (
	ElementValueByte       = 'B'
	ElementValueChar       = 'C'
	ElementValueDouble     = 'D'
	ElementValueFloat      = 'F'
	ElementValueInt        = 'I'
	ElementValueLong       = 'J'
	ElementValueShort      = 'S'
	ElementValueBoolean    = 'Z'
	ElementValueString     = 's'
	ElementValueEnum       = 'e'
	ElementValueClass      = 'c'
	ElementValueAnnotation = '@'
	ElementValueArray      = '['
)

// Type annotation target types.
const (
	TargetClassTypeParameter        = 0x00
	TargetMethodTypeParameter       = 0x01
	TargetClassExtends              = 0x10
	TargetClassTypeParameterBound   = 0x11
	TargetMethodTypeParameterBound  = 0x12
	TargetField                     = 0x13
	TargetMethodReturn              = 0x14
	TargetMethodReceiver            = 0x15
	TargetMethodFormalParameter     = 0x16
	TargetThrows                    = 0x17
	TargetLocalVariable             = 0x40
	TargetResourceVariable          = 0x41
	TargetExceptionParameter        = 0x42
	TargetInstanceOf                = 0x43
	TargetNew                       = 0x44
	TargetConstructorReference      = 0x45
	TargetMethodReference           = 0x46
	TargetCast                      = 0x47
	TargetConstructorInvocationType = 0x48
	TargetMethodInvocationType      = 0x49
	TargetConstructorReferenceType  = 0x4A
	TargetMethodReferenceType       = 0x4B
)

// Annotation is one runtime annotation: a type descriptor index and
// the element name / value pairs supplied at the use site.
type Annotation struct {
	TypeIndex         uint16             `json:"type_index"`
	ElementValuePairs []ElementValuePair `json:"element_value_pairs"`
}

// ElementValuePair binds one annotation element name to its value.
type ElementValuePair struct {
	ElementNameIndex uint16       `json:"element_name_index"`
	Value            ElementValue `json:"value"`
}

// ElementValue is one annotation element value. Tag selects which of
// the remaining fields is meaningful: the constant index for the
// primitive and string tags, the enum pair for 'e', the class info
// index for 'c', the boxed nested annotation for '@' and the values
// slice for '['.
type ElementValue struct {
	Tag             byte           `json:"tag"`
	ConstValueIndex uint16         `json:"const_value_index,omitempty"`
	TypeNameIndex   uint16         `json:"type_name_index,omitempty"`
	ConstNameIndex  uint16         `json:"const_name_index,omitempty"`
	ClassInfoIndex  uint16         `json:"class_info_index,omitempty"`
	Annotation      *Annotation    `json:"annotation,omitempty"`
	Values          []ElementValue `json:"values,omitempty"`
}

// ParameterAnnotations holds the annotations of one formal parameter.
type ParameterAnnotations struct {
	Annotations []Annotation `json:"annotations"`
}

// TargetInfo describes the precise program element a type annotation
// applies to. The concrete type is selected by the target_type byte.
type TargetInfo interface {
	targetInfo()
}

// TypeParameterTarget marks a class or method type parameter
// declaration.
type TypeParameterTarget struct {
	TypeParameterIndex uint8 `json:"type_parameter_index"`
}

// SupertypeTarget marks a type in the extends or implements clause.
type SupertypeTarget struct {
	SupertypeIndex uint16 `json:"supertype_index"`
}

// TypeParameterBoundTarget marks a bound of a type parameter
// declaration.
type TypeParameterBoundTarget struct {
	TypeParameterIndex uint8 `json:"type_parameter_index"`
	BoundIndex         uint8 `json:"bound_index"`
}

// EmptyTarget marks a field type, a method return type or a receiver
// type; the target needs no further discrimination.
type EmptyTarget struct{}

// FormalParameterTarget marks the type of a formal parameter.
type FormalParameterTarget struct {
	FormalParameterIndex uint8 `json:"formal_parameter_index"`
}

// ThrowsTarget marks a type in the throws clause.
type ThrowsTarget struct {
	ThrowsTypeIndex uint16 `json:"throws_type_index"`
}

// LocalVarTargetEntry is one live range of an annotated local.
type LocalVarTargetEntry struct {
	StartPC uint16 `json:"start_pc"`
	Length  uint16 `json:"length"`
	Index   uint16 `json:"index"`
}

// LocalVarTarget marks the type of a local or resource variable.
type LocalVarTarget struct {
	Table []LocalVarTargetEntry `json:"table"`
}

// CatchTarget marks the type of an exception parameter.
type CatchTarget struct {
	ExceptionTableIndex uint16 `json:"exception_table_index"`
}

// OffsetTarget marks an instanceof, new, or method reference
// expression by bytecode offset.
type OffsetTarget struct {
	Offset uint16 `json:"offset"`
}

// TypeArgumentTarget marks a type argument of a cast, invocation or
// method reference.
type TypeArgumentTarget struct {
	Offset            uint16 `json:"offset"`
	TypeArgumentIndex uint8  `json:"type_argument_index"`
}

func (TypeParameterTarget) targetInfo()      {}
func (SupertypeTarget) targetInfo()          {}
func (TypeParameterBoundTarget) targetInfo() {}
func (EmptyTarget) targetInfo()              {}
func (FormalParameterTarget) targetInfo()    {}
func (ThrowsTarget) targetInfo()             {}
func (LocalVarTarget) targetInfo()           {}
func (CatchTarget) targetInfo()              {}
func (OffsetTarget) targetInfo()             {}
func (TypeArgumentTarget) targetInfo()       {}

// TypePathEntry is one step into a compound type.
type TypePathEntry struct {
	Kind          uint8 `json:"type_path_kind"`
	ArgumentIndex uint8 `json:"type_argument_index"`
}

// TypeAnnotation is an annotation on a type use, carrying the target
// it applies to and the path into the compound type.
type TypeAnnotation struct {
	TargetType        uint8              `json:"target_type"`
	TargetInfo        TargetInfo         `json:"target_info"`
	TypePath          []TypePathEntry    `json:"type_path"`
	TypeIndex         uint16             `json:"type_index"`
	ElementValuePairs []ElementValuePair `json:"element_value_pairs"`
}

// RuntimeVisibleAnnotations holds the annotations retained for
// reflection.
type RuntimeVisibleAnnotations struct {
	Annotations []Annotation `json:"annotations"`
}

// RuntimeInvisibleAnnotations holds the annotations not visible to
// reflection.
type RuntimeInvisibleAnnotations struct {
	Annotations []Annotation `json:"annotations"`
}

// RuntimeVisibleParameterAnnotations holds per-parameter annotations
// retained for reflection.
type RuntimeVisibleParameterAnnotations struct {
	Parameters []ParameterAnnotations `json:"parameters"`
}

// RuntimeInvisibleParameterAnnotations holds per-parameter annotations
// not visible to reflection.
type RuntimeInvisibleParameterAnnotations struct {
	Parameters []ParameterAnnotations `json:"parameters"`
}

// RuntimeVisibleTypeAnnotations holds type annotations retained for
// reflection.
type RuntimeVisibleTypeAnnotations struct {
	Annotations []TypeAnnotation `json:"annotations"`
}

// RuntimeInvisibleTypeAnnotations holds type annotations not visible
// to reflection.
type RuntimeInvisibleTypeAnnotations struct {
	Annotations []TypeAnnotation `json:"annotations"`
}

// AnnotationDefault records the default value of an annotation
// interface element.
type AnnotationDefault struct {
	Value ElementValue `json:"default_value"`
}

func (RuntimeVisibleAnnotations) Name() string   { return AttributeRuntimeVisibleAnnotations }
func (RuntimeInvisibleAnnotations) Name() string { return AttributeRuntimeInvisibleAnnotations }
func (RuntimeVisibleParameterAnnotations) Name() string {
	return AttributeRuntimeVisibleParameterAnnotations
}
func (RuntimeInvisibleParameterAnnotations) Name() string {
	return AttributeRuntimeInvisibleParameterAnnotations
}
func (RuntimeVisibleTypeAnnotations) Name() string   { return AttributeRuntimeVisibleTypeAnnotations }
func (RuntimeInvisibleTypeAnnotations) Name() string { return AttributeRuntimeInvisibleTypeAnnotations }
func (AnnotationDefault) Name() string               { return AttributeAnnotationDefault }

func (cf *File) parseAnnotations(r *reader) ([]Annotation, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	annotations := make([]Annotation, 0, count)
	for i := 0; i < int(count); i++ {
		annotation, err := cf.parseAnnotation(r, 0)
		if err != nil {
			return nil, wrapErr(err, fmt.Sprintf("annotations[%d]", i))
		}
		annotations = append(annotations, annotation)
	}
	return annotations, nil
}

func (cf *File) parseAnnotation(r *reader, depth int) (Annotation, error) {
	var annotation Annotation
	var err error

	if annotation.TypeIndex, err = r.ReadUint16(); err != nil {
		return Annotation{}, err
	}
	pairCount, err := r.ReadUint16()
	if err != nil {
		return Annotation{}, err
	}
	annotation.ElementValuePairs = make([]ElementValuePair, 0, pairCount)
	for i := 0; i < int(pairCount); i++ {
		nameIndex, err := r.ReadUint16()
		if err != nil {
			return Annotation{}, err
		}
		value, err := cf.parseElementValue(r, depth)
		if err != nil {
			return Annotation{}, err
		}
		annotation.ElementValuePairs = append(annotation.ElementValuePairs, ElementValuePair{
			ElementNameIndex: nameIndex,
			Value:            value,
		})
	}
	return annotation, nil
}

// parseElementValue decodes one element value. depth counts the '@'
// and '[' nesting levels already entered; crossing the configured
// limit aborts the decode before pathological nesting can exhaust the
// stack.
func (cf *File) parseElementValue(r *reader, depth int) (ElementValue, error) {
	if depth >= cf.opts.MaxElementValueDepth {
		return ElementValue{}, &NestingTooDeepError{Limit: cf.opts.MaxElementValueDepth}
	}

	tagOffset := r.offset()
	tag, err := r.ReadUint8()
	if err != nil {
		return ElementValue{}, err
	}
	value := ElementValue{Tag: tag}

	switch tag {
	case ElementValueByte, ElementValueChar, ElementValueDouble, ElementValueFloat,
		ElementValueInt, ElementValueLong, ElementValueShort, ElementValueBoolean,
		ElementValueString:
		if value.ConstValueIndex, err = r.ReadUint16(); err != nil {
			return ElementValue{}, err
		}
	case ElementValueEnum:
		if value.TypeNameIndex, value.ConstNameIndex, err = readIndexPair(r); err != nil {
			return ElementValue{}, err
		}
	case ElementValueClass:
		if value.ClassInfoIndex, err = r.ReadUint16(); err != nil {
			return ElementValue{}, err
		}
	case ElementValueAnnotation:
		nested, err := cf.parseAnnotation(r, depth+1)
		if err != nil {
			return ElementValue{}, err
		}
		value.Annotation = &nested
	case ElementValueArray:
		count, err := r.ReadUint16()
		if err != nil {
			return ElementValue{}, err
		}
		value.Values = make([]ElementValue, 0, count)
		for i := 0; i < int(count); i++ {
			element, err := cf.parseElementValue(r, depth+1)
			if err != nil {
				return ElementValue{}, err
			}
			value.Values = append(value.Values, element)
		}
	default:
		return ElementValue{}, &UnknownElementValueTagError{Tag: tag, Offset: tagOffset}
	}
	return value, nil
}

func (cf *File) parseParameterAnnotations(r *reader) ([]ParameterAnnotations, error) {
	// num_parameters is a single byte.
	count, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	parameters := make([]ParameterAnnotations, 0, count)
	for i := 0; i < int(count); i++ {
		annotations, err := cf.parseAnnotations(r)
		if err != nil {
			return nil, wrapErr(err, fmt.Sprintf("parameters[%d]", i))
		}
		parameters = append(parameters, ParameterAnnotations{Annotations: annotations})
	}
	return parameters, nil
}

func (cf *File) parseTypeAnnotations(r *reader) ([]TypeAnnotation, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	annotations := make([]TypeAnnotation, 0, count)
	for i := 0; i < int(count); i++ {
		annotation, err := cf.parseTypeAnnotation(r)
		if err != nil {
			return nil, wrapErr(err, fmt.Sprintf("annotations[%d]", i))
		}
		annotations = append(annotations, annotation)
	}
	return annotations, nil
}

func (cf *File) parseTypeAnnotation(r *reader) (TypeAnnotation, error) {
	var annotation TypeAnnotation
	var err error

	if annotation.TargetType, err = r.ReadUint8(); err != nil {
		return TypeAnnotation{}, err
	}
	if annotation.TargetInfo, err = parseTargetInfo(r, annotation.TargetType); err != nil {
		return TypeAnnotation{}, err
	}
	if annotation.TypePath, err = parseTypePath(r); err != nil {
		return TypeAnnotation{}, err
	}
	if annotation.TypeIndex, err = r.ReadUint16(); err != nil {
		return TypeAnnotation{}, err
	}
	pairCount, err := r.ReadUint16()
	if err != nil {
		return TypeAnnotation{}, err
	}
	annotation.ElementValuePairs = make([]ElementValuePair, 0, pairCount)
	for i := 0; i < int(pairCount); i++ {
		nameIndex, err := r.ReadUint16()
		if err != nil {
			return TypeAnnotation{}, err
		}
		value, err := cf.parseElementValue(r, 0)
		if err != nil {
			return TypeAnnotation{}, err
		}
		annotation.ElementValuePairs = append(annotation.ElementValuePairs, ElementValuePair{
			ElementNameIndex: nameIndex,
			Value:            value,
		})
	}
	return annotation, nil
}

func parseTargetInfo(r *reader, targetType uint8) (TargetInfo, error) {
	switch targetType {
	case TargetClassTypeParameter, TargetMethodTypeParameter:
		index, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		return TypeParameterTarget{TypeParameterIndex: index}, nil
	case TargetClassExtends:
		index, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return SupertypeTarget{SupertypeIndex: index}, nil
	case TargetClassTypeParameterBound, TargetMethodTypeParameterBound:
		paramIndex, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		boundIndex, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		return TypeParameterBoundTarget{
			TypeParameterIndex: paramIndex,
			BoundIndex:         boundIndex,
		}, nil
	case TargetField, TargetMethodReturn, TargetMethodReceiver:
		return EmptyTarget{}, nil
	case TargetMethodFormalParameter:
		index, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		return FormalParameterTarget{FormalParameterIndex: index}, nil
	case TargetThrows:
		index, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return ThrowsTarget{ThrowsTypeIndex: index}, nil
	case TargetLocalVariable, TargetResourceVariable:
		count, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		table := make([]LocalVarTargetEntry, 0, count)
		for i := 0; i < int(count); i++ {
			var entry LocalVarTargetEntry
			if entry.StartPC, err = r.ReadUint16(); err != nil {
				return nil, err
			}
			if entry.Length, err = r.ReadUint16(); err != nil {
				return nil, err
			}
			if entry.Index, err = r.ReadUint16(); err != nil {
				return nil, err
			}
			table = append(table, entry)
		}
		return LocalVarTarget{Table: table}, nil
	case TargetExceptionParameter:
		index, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return CatchTarget{ExceptionTableIndex: index}, nil
	case TargetInstanceOf, TargetNew, TargetConstructorReference, TargetMethodReference:
		offset, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return OffsetTarget{Offset: offset}, nil
	case TargetCast, TargetConstructorInvocationType, TargetMethodInvocationType,
		TargetConstructorReferenceType, TargetMethodReferenceType:
		offset, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		index, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		return TypeArgumentTarget{Offset: offset, TypeArgumentIndex: index}, nil
	}

	return nil, &UnknownTargetTypeError{TargetType: targetType, Offset: r.offset() - 1}
}

func parseTypePath(r *reader) ([]TypePathEntry, error) {
	// path_length is a single byte.
	length, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	path := make([]TypePathEntry, 0, length)
	for i := 0; i < int(length); i++ {
		kind, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		argIndex, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		path = append(path, TypePathEntry{Kind: kind, ArgumentIndex: argIndex})
	}
	return path, nil
}
