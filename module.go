// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jclass

import "fmt"

// Module access and property flags.
const (
	// ModuleFlagOpen marks an open module.
	ModuleFlagOpen = 0x0020
	// ModuleFlagSynthetic marks a module not explicitly or
	// implicitly declared.
	ModuleFlagSynthetic = 0x1000
	// ModuleFlagMandated marks a module implicitly declared.
	ModuleFlagMandated = 0x8000
)

// Requires is one dependence of a module.
type Requires struct {
	RequiresIndex        uint16 `json:"requires_index"`
	RequiresFlags        uint16 `json:"requires_flags"`
	RequiresVersionIndex uint16 `json:"requires_version_index"`
}

// Exports is one exported package of a module, with the modules the
// export is qualified to, if any.
type Exports struct {
	ExportsIndex   uint16   `json:"exports_index"`
	ExportsFlags   uint16   `json:"exports_flags"`
	ExportsToIndex []uint16 `json:"exports_to_index"`
}

// Opens is one opened package of a module.
type Opens struct {
	OpensIndex   uint16   `json:"opens_index"`
	OpensFlags   uint16   `json:"opens_flags"`
	OpensToIndex []uint16 `json:"opens_to_index"`
}

// Provides is one service implementation provided by a module.
type Provides struct {
	ProvidesIndex     uint16   `json:"provides_index"`
	ProvidesWithIndex []uint16 `json:"provides_with_index"`
}

// Module carries the module declaration compiled into a
// module-info.class.
type Module struct {
	ModuleNameIndex    uint16     `json:"module_name_index"`
	ModuleFlags        uint16     `json:"module_flags"`
	ModuleVersionIndex uint16     `json:"module_version_index"`
	Requires           []Requires `json:"requires"`
	Exports            []Exports  `json:"exports"`
	Opens              []Opens    `json:"opens"`
	Uses               []uint16   `json:"uses"`
	Provides           []Provides `json:"provides"`
}

// Name returns the attribute name.
func (Module) Name() string { return AttributeModule }

// RecordComponent is one component of a record class, with its own
// nested attributes (Signature, annotations, ...).
type RecordComponent struct {
	NameIndex       uint16      `json:"name_index"`
	DescriptorIndex uint16      `json:"descriptor_index"`
	Attributes      []Attribute `json:"attributes"`
}

// Record lists the components of a record class in declaration order.
type Record struct {
	Components []RecordComponent `json:"components"`
}

// Name returns the attribute name.
func (Record) Name() string { return AttributeRecord }

func parseModule(r *reader) (Attribute, error) {
	var module Module
	var err error

	if module.ModuleNameIndex, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if module.ModuleFlags, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if module.ModuleVersionIndex, err = r.ReadUint16(); err != nil {
		return nil, err
	}

	requiresCount, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	module.Requires = make([]Requires, 0, requiresCount)
	for i := 0; i < int(requiresCount); i++ {
		var requires Requires
		if requires.RequiresIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if requires.RequiresFlags, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if requires.RequiresVersionIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		module.Requires = append(module.Requires, requires)
	}

	exportsCount, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	module.Exports = make([]Exports, 0, exportsCount)
	for i := 0; i < int(exportsCount); i++ {
		var exports Exports
		if exports.ExportsIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if exports.ExportsFlags, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if exports.ExportsToIndex, err = readUint16Table(r); err != nil {
			return nil, err
		}
		module.Exports = append(module.Exports, exports)
	}

	opensCount, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	module.Opens = make([]Opens, 0, opensCount)
	for i := 0; i < int(opensCount); i++ {
		var opens Opens
		if opens.OpensIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if opens.OpensFlags, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if opens.OpensToIndex, err = readUint16Table(r); err != nil {
			return nil, err
		}
		module.Opens = append(module.Opens, opens)
	}

	if module.Uses, err = readUint16Table(r); err != nil {
		return nil, err
	}

	providesCount, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	module.Provides = make([]Provides, 0, providesCount)
	for i := 0; i < int(providesCount); i++ {
		var provides Provides
		if provides.ProvidesIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if provides.ProvidesWithIndex, err = readUint16Table(r); err != nil {
			return nil, err
		}
		module.Provides = append(module.Provides, provides)
	}

	return module, nil
}

func (cf *File) parseRecord(r *reader) (Attribute, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	components := make([]RecordComponent, 0, count)
	for i := 0; i < int(count); i++ {
		var component RecordComponent
		if component.NameIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if component.DescriptorIndex, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		if component.Attributes, err = cf.parseAttributes(r); err != nil {
			return nil, wrapErr(err, fmt.Sprintf("components[%d]", i))
		}
		components = append(components, component)
	}
	return Record{Components: components}, nil
}
