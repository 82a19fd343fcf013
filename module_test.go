// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseModule(t *testing.T) {
	img := &image{}
	img.u16(1)                // module_name_index
	img.u16(ModuleFlagOpen)   // module_flags
	img.u16(2)                // module_version_index
	img.u16(1)                // requires_count
	img.u16(3).u16(0x8000).u16(0)
	img.u16(1) // exports_count
	img.u16(4).u16(0).u16(2).u16(5).u16(6)
	img.u16(1) // opens_count
	img.u16(7).u16(0).u16(0)
	img.u16(2).u16(8).u16(9) // uses
	img.u16(1)               // provides_count
	img.u16(10).u16(1).u16(11)

	attribute, err := parseModule(&reader{data: img.buf})
	require.NoError(t, err)

	require.Equal(t, Attribute(Module{
		ModuleNameIndex:    1,
		ModuleFlags:        ModuleFlagOpen,
		ModuleVersionIndex: 2,
		Requires: []Requires{{
			RequiresIndex:        3,
			RequiresFlags:        0x8000,
			RequiresVersionIndex: 0,
		}},
		Exports: []Exports{{
			ExportsIndex:   4,
			ExportsFlags:   0,
			ExportsToIndex: []uint16{5, 6},
		}},
		Opens: []Opens{{
			OpensIndex:   7,
			OpensFlags:   0,
			OpensToIndex: []uint16{},
		}},
		Uses: []uint16{8, 9},
		Provides: []Provides{{
			ProvidesIndex:     10,
			ProvidesWithIndex: []uint16{11},
		}},
	}), attribute)
}

func TestParseModuleTruncated(t *testing.T) {
	img := &image{}
	img.u16(1).u16(0).u16(0)
	img.u16(2)        // requires_count
	img.u16(3).u16(0) // first entry cut short

	_, err := parseModule(&reader{data: img.buf})
	var eof *UnexpectedEOFError
	require.ErrorAs(t, err, &eof)
}

// Record components carry their own nested attribute lists.
func TestParseRecord(t *testing.T) {
	component := &image{}
	component.u16(2) // name_index
	component.u16(3) // descriptor_index
	component.u16(1) // attributes_count
	signature := &image{}
	signature.u16(4)
	component.envelope(1, signature.buf)

	img := &image{}
	img.u16(1) // components_count
	img.raw(component.buf...)

	cf := newTestFile(nil)
	cf.ConstantPool = poolOfNames(AttributeSignature)

	attribute, err := cf.parseRecord(&reader{data: img.buf})
	require.NoError(t, err)

	require.Equal(t, Attribute(Record{Components: []RecordComponent{{
		NameIndex:       2,
		DescriptorIndex: 3,
		Attributes:      []Attribute{Signature{SignatureIndex: 4}},
	}}}), attribute)
}
