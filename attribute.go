// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import "fmt"

// Predefined attribute names from the JVM specification.
const (
	AttributeConstantValue                        = "ConstantValue"
	AttributeCode                                 = "Code"
	AttributeStackMapTable                        = "StackMapTable"
	AttributeExceptions                           = "Exceptions"
	AttributeInnerClasses                         = "InnerClasses"
	AttributeEnclosingMethod                      = "EnclosingMethod"
	AttributeSynthetic                            = "Synthetic"
	AttributeSignature                            = "Signature"
	AttributeSourceFile                           = "SourceFile"
	AttributeSourceDebugExtension                 = "SourceDebugExtension"
	AttributeLineNumberTable                      = "LineNumberTable"
	AttributeLocalVariableTable                   = "LocalVariableTable"
	AttributeLocalVariableTypeTable               = "LocalVariableTypeTable"
	AttributeDeprecated                           = "Deprecated"
	AttributeRuntimeVisibleAnnotations            = "RuntimeVisibleAnnotations"
	AttributeRuntimeInvisibleAnnotations          = "RuntimeInvisibleAnnotations"
	AttributeRuntimeVisibleParameterAnnotations   = "RuntimeVisibleParameterAnnotations"
	AttributeRuntimeInvisibleParameterAnnotations = "RuntimeInvisibleParameterAnnotations"
	AttributeRuntimeVisibleTypeAnnotations        = "RuntimeVisibleTypeAnnotations"
	AttributeRuntimeInvisibleTypeAnnotations      = "RuntimeInvisibleTypeAnnotations"
	AttributeAnnotationDefault                    = "AnnotationDefault"
	AttributeBootstrapMethods                     = "BootstrapMethods"
	AttributeMethodParameters                     = "MethodParameters"
	AttributeModule                               = "Module"
	AttributeModulePackages                       = "ModulePackages"
	AttributeModuleMainClass                      = "ModuleMainClass"
	AttributeNestHost                             = "NestHost"
	AttributeNestMembers                          = "NestMembers"
	AttributeRecord                               = "Record"
	AttributePermittedSubclasses                  = "PermittedSubclasses"
)

// Attribute is a decoded, typed attribute body. The concrete type is
// selected by resolving the envelope's name index against the constant
// pool; Name reports the canonical attribute name.
type Attribute interface {
	Name() string
}

// ConstantValue gives the value of a static field.
type ConstantValue struct {
	ConstantValueIndex uint16 `json:"constant_value_index"`
}

// Exceptions lists the checked exceptions a method may throw.
type Exceptions struct {
	ExceptionIndexTable []uint16 `json:"exception_index_table"`
}

// InnerClass is one entry of the InnerClasses attribute.
type InnerClass struct {
	InnerClassInfoIndex   uint16 `json:"inner_class_info_index"`
	OuterClassInfoIndex   uint16 `json:"outer_class_info_index"`
	InnerNameIndex        uint16 `json:"inner_name_index"`
	InnerClassAccessFlags uint16 `json:"inner_class_access_flags"`
}

// InnerClasses records every class or interface that is not a member
// of a package.
type InnerClasses struct {
	Classes []InnerClass `json:"classes"`
}

// EnclosingMethod marks a local or anonymous class with its
// immediately enclosing method.
type EnclosingMethod struct {
	ClassIndex  uint16 `json:"class_index"`
	MethodIndex uint16 `json:"method_index"`
}

// Synthetic marks a member absent from the source code.
type Synthetic struct{}

// Signature carries a generic signature.
type Signature struct {
	SignatureIndex uint16 `json:"signature_index"`
}

// SourceFile names the source file the class was compiled from.
type SourceFile struct {
	SourceFileIndex uint16 `json:"source_file_index"`
}

// SourceDebugExtension holds extended debugging information. The body
// is raw modified UTF-8 text with no length prefix; it is kept as an
// owned byte run without interpretation.
type SourceDebugExtension struct {
	DebugExtension []byte `json:"debug_extension"`
}

// LineNumber maps a code offset to a source line.
type LineNumber struct {
	StartPC    uint16 `json:"start_pc"`
	LineNumber uint16 `json:"line_number"`
}

// LineNumberTable maps code offsets to source lines.
type LineNumberTable struct {
	LineNumbers []LineNumber `json:"line_numbers"`
}

// LocalVariable is one entry of the LocalVariableTable attribute.
type LocalVariable struct {
	StartPC         uint16 `json:"start_pc"`
	Length          uint16 `json:"length"`
	NameIndex       uint16 `json:"name_index"`
	DescriptorIndex uint16 `json:"descriptor_index"`
	Index           uint16 `json:"index"`
}

// LocalVariableTable describes the local variables of a method.
type LocalVariableTable struct {
	LocalVariables []LocalVariable `json:"local_variables"`
}

// LocalVariableType is one entry of the LocalVariableTypeTable
// attribute.
type LocalVariableType struct {
	StartPC        uint16 `json:"start_pc"`
	Length         uint16 `json:"length"`
	NameIndex      uint16 `json:"name_index"`
	SignatureIndex uint16 `json:"signature_index"`
	Index          uint16 `json:"index"`
}

// LocalVariableTypeTable describes local variables with generic types.
type LocalVariableTypeTable struct {
	LocalVariableTypes []LocalVariableType `json:"local_variable_types"`
}

// Deprecated marks a superseded class, field or method.
type Deprecated struct{}

// BootstrapMethod is one entry of the BootstrapMethods attribute.
type BootstrapMethod struct {
	MethodRef uint16   `json:"bootstrap_method_ref"`
	Arguments []uint16 `json:"bootstrap_arguments"`
}

// BootstrapMethods records the bootstrap method specifiers referenced
// by Dynamic and InvokeDynamic pool entries.
type BootstrapMethods struct {
	Methods []BootstrapMethod `json:"bootstrap_methods"`
}

// MethodParameter is one entry of the MethodParameters attribute.
type MethodParameter struct {
	NameIndex   uint16 `json:"name_index"`
	AccessFlags uint16 `json:"access_flags"`
}

// MethodParameters records formal parameter names and flags.
type MethodParameters struct {
	Parameters []MethodParameter `json:"parameters"`
}

// ModulePackages lists the packages of a module.
type ModulePackages struct {
	PackageIndexes []uint16 `json:"package_indexes"`
}

// ModuleMainClass names the main class of a module.
type ModuleMainClass struct {
	MainClassIndex uint16 `json:"main_class_index"`
}

// NestHost names the nest host of the class.
type NestHost struct {
	HostClassIndex uint16 `json:"host_class_index"`
}

// NestMembers lists the classes authorized to claim membership in the
// nest hosted by this class.
type NestMembers struct {
	Classes []uint16 `json:"classes"`
}

// PermittedSubclasses lists the classes allowed to directly extend or
// implement this sealed class or interface.
type PermittedSubclasses struct {
	Classes []uint16 `json:"classes"`
}

// UnknownAttribute retains the raw envelope of an attribute whose name
// is not one of the predefined set. It is only produced in lenient
// mode; strict mode fails the decode instead.
type UnknownAttribute struct {
	AttributeName string `json:"attribute_name"`
	Data          []byte `json:"data"`
}

// Name implementations.
func (ConstantValue) Name() string          { return AttributeConstantValue }
func (Exceptions) Name() string             { return AttributeExceptions }
func (InnerClasses) Name() string           { return AttributeInnerClasses }
func (EnclosingMethod) Name() string        { return AttributeEnclosingMethod }
func (Synthetic) Name() string              { return AttributeSynthetic }
func (Signature) Name() string              { return AttributeSignature }
func (SourceFile) Name() string             { return AttributeSourceFile }
func (SourceDebugExtension) Name() string   { return AttributeSourceDebugExtension }
func (LineNumberTable) Name() string        { return AttributeLineNumberTable }
func (LocalVariableTable) Name() string     { return AttributeLocalVariableTable }
func (LocalVariableTypeTable) Name() string { return AttributeLocalVariableTypeTable }
func (Deprecated) Name() string             { return AttributeDeprecated }
func (BootstrapMethods) Name() string       { return AttributeBootstrapMethods }
func (MethodParameters) Name() string       { return AttributeMethodParameters }
func (ModulePackages) Name() string         { return AttributeModulePackages }
func (ModuleMainClass) Name() string        { return AttributeModuleMainClass }
func (NestHost) Name() string               { return AttributeNestHost }
func (NestMembers) Name() string            { return AttributeNestMembers }
func (PermittedSubclasses) Name() string    { return AttributePermittedSubclasses }
func (a UnknownAttribute) Name() string     { return a.AttributeName }

// parseAttributes reads a u16 count followed by that many attribute
// envelopes, promoting each to its typed form.
func (cf *File) parseAttributes(r *reader) ([]Attribute, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	attributes := make([]Attribute, 0, count)
	for i := 0; i < int(count); i++ {
		attribute, err := cf.parseAttribute(r)
		if err != nil {
			return nil, wrapErr(err, fmt.Sprintf("attributes[%d]", i))
		}
		attributes = append(attributes, attribute)
	}
	return attributes, nil
}

// parseAttribute reads one (name_index, length, bytes) envelope and
// dispatches the body grammar on the resolved name. The body must
// consume the envelope exactly.
func (cf *File) parseAttribute(r *reader) (Attribute, error) {
	nameIndex, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	length, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	name, err := cf.ConstantPool.UTF8(nameIndex)
	if err != nil {
		return nil, err
	}
	body, err := r.sub(int(length))
	if err != nil {
		return nil, err
	}

	attribute, err := cf.parseAttributeBody(name, body)
	if err != nil {
		return nil, wrapErr(err, name)
	}
	if attribute == nil {
		// Not one of the predefined attribute names.
		if cf.opts.Strict {
			return nil, &UnknownAttributeError{Name: name}
		}
		data, _ := body.ReadBytes(body.remaining())
		return UnknownAttribute{AttributeName: name, Data: data}, nil
	}
	if body.remaining() != 0 {
		return nil, &AttributeLengthMismatchError{
			Name:     name,
			Declared: length,
			Consumed: length - uint32(body.remaining()),
		}
	}
	return attribute, nil
}

// parseAttributeBody selects the sub grammar for a predefined
// attribute name. A nil, nil return means the name is unknown and the
// envelope policy applies.
func (cf *File) parseAttributeBody(name string, r *reader) (Attribute, error) {
	switch name {
	case AttributeConstantValue:
		index, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return ConstantValue{ConstantValueIndex: index}, nil
	case AttributeCode:
		return cf.parseCode(r)
	case AttributeStackMapTable:
		return cf.parseStackMapTable(r)
	case AttributeExceptions:
		table, err := readUint16Table(r)
		if err != nil {
			return nil, err
		}
		return Exceptions{ExceptionIndexTable: table}, nil
	case AttributeInnerClasses:
		return parseInnerClasses(r)
	case AttributeEnclosingMethod:
		classIndex, methodIndex, err := readIndexPair(r)
		if err != nil {
			return nil, err
		}
		return EnclosingMethod{ClassIndex: classIndex, MethodIndex: methodIndex}, nil
	case AttributeSynthetic:
		return Synthetic{}, nil
	case AttributeSignature:
		index, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return Signature{SignatureIndex: index}, nil
	case AttributeSourceFile:
		index, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return SourceFile{SourceFileIndex: index}, nil
	case AttributeSourceDebugExtension:
		// The whole envelope is the text; there is no inner
		// length prefix.
		text, err := r.ReadBytes(r.remaining())
		if err != nil {
			return nil, err
		}
		return SourceDebugExtension{DebugExtension: text}, nil
	case AttributeLineNumberTable:
		return parseLineNumberTable(r)
	case AttributeLocalVariableTable:
		return parseLocalVariableTable(r)
	case AttributeLocalVariableTypeTable:
		return parseLocalVariableTypeTable(r)
	case AttributeDeprecated:
		return Deprecated{}, nil
	case AttributeRuntimeVisibleAnnotations:
		annotations, err := cf.parseAnnotations(r)
		if err != nil {
			return nil, err
		}
		return RuntimeVisibleAnnotations{Annotations: annotations}, nil
	case AttributeRuntimeInvisibleAnnotations:
		annotations, err := cf.parseAnnotations(r)
		if err != nil {
			return nil, err
		}
		return RuntimeInvisibleAnnotations{Annotations: annotations}, nil
	case AttributeRuntimeVisibleParameterAnnotations:
		parameters, err := cf.parseParameterAnnotations(r)
		if err != nil {
			return nil, err
		}
		return RuntimeVisibleParameterAnnotations{Parameters: parameters}, nil
	case AttributeRuntimeInvisibleParameterAnnotations:
		parameters, err := cf.parseParameterAnnotations(r)
		if err != nil {
			return nil, err
		}
		return RuntimeInvisibleParameterAnnotations{Parameters: parameters}, nil
	case AttributeRuntimeVisibleTypeAnnotations:
		annotations, err := cf.parseTypeAnnotations(r)
		if err != nil {
			return nil, err
		}
		return RuntimeVisibleTypeAnnotations{Annotations: annotations}, nil
	case AttributeRuntimeInvisibleTypeAnnotations:
		annotations, err := cf.parseTypeAnnotations(r)
		if err != nil {
			return nil, err
		}
		return RuntimeInvisibleTypeAnnotations{Annotations: annotations}, nil
	case AttributeAnnotationDefault:
		value, err := cf.parseElementValue(r, 0)
		if err != nil {
			return nil, err
		}
		return AnnotationDefault{Value: value}, nil
	case AttributeBootstrapMethods:
		return parseBootstrapMethods(r)
	case AttributeMethodParameters:
		return parseMethodParameters(r)
	case AttributeModule:
		return parseModule(r)
	case AttributeModulePackages:
		indexes, err := readUint16Table(r)
		if err != nil {
			return nil, err
		}
		return ModulePackages{PackageIndexes: indexes}, nil
	case AttributeModuleMainClass:
		index, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return ModuleMainClass{MainClassIndex: index}, nil
	case AttributeNestHost:
		index, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return NestHost{HostClassIndex: index}, nil
	case AttributeNestMembers:
		classes, err := readUint16Table(r)
		if err != nil {
			return nil, err
		}
		return NestMembers{Classes: classes}, nil
	case AttributeRecord:
		return cf.parseRecord(r)
	case AttributePermittedSubclasses:
		classes, err := readUint16Table(r)
		if err != nil {
			return nil, err
		}
		return PermittedSubclasses{Classes: classes}, nil
	}

	return nil, nil
}

func parseInnerClasses(r *reader) (Attribute, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	classes := make([]InnerClass, 0, count)
	for i := 0; i < int(count); i++ {
		var entry InnerClass
		if entry.InnerClassInfoIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if entry.OuterClassInfoIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if entry.InnerNameIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if entry.InnerClassAccessFlags, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		classes = append(classes, entry)
	}
	return InnerClasses{Classes: classes}, nil
}

func parseLineNumberTable(r *reader) (Attribute, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	lines := make([]LineNumber, 0, count)
	for i := 0; i < int(count); i++ {
		startPC, lineNumber, err := readIndexPair(r)
		if err != nil {
			return nil, err
		}
		lines = append(lines, LineNumber{StartPC: startPC, LineNumber: lineNumber})
	}
	return LineNumberTable{LineNumbers: lines}, nil
}

func parseLocalVariableTable(r *reader) (Attribute, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	vars := make([]LocalVariable, 0, count)
	for i := 0; i < int(count); i++ {
		var entry LocalVariable
		if entry.StartPC, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if entry.Length, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if entry.NameIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if entry.DescriptorIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if entry.Index, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		vars = append(vars, entry)
	}
	return LocalVariableTable{LocalVariables: vars}, nil
}

func parseLocalVariableTypeTable(r *reader) (Attribute, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	vars := make([]LocalVariableType, 0, count)
	for i := 0; i < int(count); i++ {
		var entry LocalVariableType
		if entry.StartPC, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if entry.Length, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if entry.NameIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if entry.SignatureIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if entry.Index, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		vars = append(vars, entry)
	}
	return LocalVariableTypeTable{LocalVariableTypes: vars}, nil
}

func parseBootstrapMethods(r *reader) (Attribute, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	methods := make([]BootstrapMethod, 0, count)
	for i := 0; i < int(count); i++ {
		methodRef, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		arguments, err := readUint16Table(r)
		if err != nil {
			return nil, err
		}
		methods = append(methods, BootstrapMethod{MethodRef: methodRef, Arguments: arguments})
	}
	return BootstrapMethods{Methods: methods}, nil
}

func parseMethodParameters(r *reader) (Attribute, error) {
	// parameters_count is a single byte.
	count, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	parameters := make([]MethodParameter, 0, count)
	for i := 0; i < int(count); i++ {
		nameIndex, accessFlags, err := readIndexPair(r)
		if err != nil {
			return nil, err
		}
		parameters = append(parameters, MethodParameter{
			NameIndex:   nameIndex,
			AccessFlags: accessFlags,
		})
	}
	return MethodParameters{Parameters: parameters}, nil
}

// readUint16Table reads a u16 count followed by that many u16 values.
func readUint16Table(r *reader) ([]uint16, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	table := make([]uint16, 0, count)
	for i := 0; i < int(count); i++ {
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		table = append(table, v)
	}
	return table, nil
}
