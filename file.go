// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/saferwall/jclass/log"
)

// MaxDefaultElementValueDepth bounds the recursion of annotation
// element values when Options does not override it.
const MaxDefaultElementValueDepth = 64

// A File represents a parsed Java class file.
type File struct {
	MinorVersion uint16       `json:"minor_version"`
	MajorVersion uint16       `json:"major_version"`
	ConstantPool ConstantPool `json:"constant_pool"`
	AccessFlags  AccessFlags  `json:"access_flags"`
	ThisClass    uint16       `json:"this_class"`
	SuperClass   uint16       `json:"super_class"`
	Interfaces   []uint16     `json:"interfaces,omitempty"`
	Fields       []FieldInfo  `json:"fields,omitempty"`
	Methods      []MethodInfo `json:"methods,omitempty"`
	Attributes   []Attribute  `json:"attributes,omitempty"`

	data   mmap.MMap
	size   uint32
	f      *os.File
	opts   *Options
	logger *log.Helper
}

// Options for parsing.
type Options struct {

	// Fail on attribute names outside the JVM-defined set instead of
	// retaining them as UnknownAttribute, by default (false).
	Strict bool

	// Skip the post-decode constant pool reference validation, by
	// default (false).
	SkipValidation bool

	// Maximum annotation element value nesting, by default
	// (MaxDefaultElementValueDepth).
	MaxElementValueDepth int

	// A custom logger.
	Logger log.Logger
}

func (opts *Options) fillDefaults() {
	if opts.MaxElementValueDepth == 0 {
		opts.MaxElementValueDepth = MaxDefaultElementValueDepth
	}
}

func newHelper(logger log.Logger) *log.Helper {
	if logger == nil {
		return log.NewHelper(log.NewFilter(log.NewStdLogger(os.Stdout),
			log.FilterLevel(log.LevelError)))
	}
	return log.NewHelper(logger)
}

// New instantiates a file instance with options given a file name.
func New(name string, opts *Options) (*File, error) {

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	// Memory map the file instead of using read/write.
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file := File{}
	if opts != nil {
		file.opts = opts
	} else {
		file.opts = &Options{}
	}
	file.opts.fillDefaults()
	file.logger = newHelper(file.opts.Logger)

	file.data = data
	file.size = uint32(len(file.data))
	file.f = f
	return &file, nil
}

// NewBytes instantiates a file instance with options given a memory buffer.
func NewBytes(data []byte, opts *Options) (*File, error) {

	file := File{}
	if opts != nil {
		file.opts = opts
	} else {
		file.opts = &Options{}
	}
	file.opts.fillDefaults()
	file.logger = newHelper(file.opts.Logger)

	file.data = data
	file.size = uint32(len(file.data))
	return &file, nil
}

// Close closes the File.
func (cf *File) Close() error {
	if cf.f != nil {
		_ = cf.data.Unmap()
		return cf.f.Close()
	}
	return nil
}

// Parse decodes the class file structure. On success the File holds a
// self contained tree: every byte run is an owned copy, so the result
// may outlive the input buffer. Any failure is fatal; no partial tree
// is returned to the caller.
func (cf *File) Parse() error {
	if err := cf.parse(); err != nil {
		err = wrapErr(err, "ClassFile")
		cf.logger.Errorf("class file parsing failed: %v", err)
		return err
	}

	if cf.opts.SkipValidation {
		return nil
	}
	if err := cf.Validate(); err != nil {
		err = wrapErr(err, "ClassFile")
		cf.logger.Errorf("class file validation failed: %v", err)
		return err
	}
	return nil
}

func (cf *File) parse() error {
	r := &reader{data: cf.data}

	magic, err := r.ReadUint32()
	if err != nil {
		return err
	}
	if magic != Magic {
		return &BadMagicError{Found: magic}
	}

	if cf.MinorVersion, err = r.ReadUint16(); err != nil {
		return err
	}
	if cf.MajorVersion, err = r.ReadUint16(); err != nil {
		return err
	}

	poolCount, err := r.ReadUint16()
	if err != nil {
		return err
	}
	if err := cf.parseConstantPool(r, poolCount); err != nil {
		return wrapErr(err, "constant_pool")
	}
	cf.logger.Debugf("constant pool holds %d entries for a declared count of %d",
		len(cf.ConstantPool.Constants), poolCount)

	accessFlags, err := r.ReadUint16()
	if err != nil {
		return err
	}
	cf.AccessFlags = AccessFlags(accessFlags)

	if cf.ThisClass, err = r.ReadUint16(); err != nil {
		return err
	}
	if cf.SuperClass, err = r.ReadUint16(); err != nil {
		return err
	}
	if cf.Interfaces, err = readUint16Table(r); err != nil {
		return err
	}

	if err := cf.parseFields(r); err != nil {
		return err
	}
	if err := cf.parseMethods(r); err != nil {
		return err
	}

	if cf.Attributes, err = cf.parseAttributes(r); err != nil {
		return err
	}

	if r.remaining() != 0 {
		return &TrailingBytesError{Extra: r.remaining()}
	}
	return nil
}
