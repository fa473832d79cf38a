// Package matdb holds the typed object model for SCM material property
// databases: materials, property records and their coefficient variants.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2025 Norbert Pillmayer <norbert@pillmayer.com>
//
package matdb

import (
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// State classifies a material.
type State int8

// Material states. Invalid marks a material whose type declaration could
// not be recognized.
const (
	Invalid State = iota - 1
	Fluid
	Solid
	Mixture
)

func (s State) String() string {
	switch s {
	case Fluid:
		return "fluid"
	case Solid:
		return "solid"
	case Mixture:
		return "mixture"
	}
	return "<invalid>"
}

// StateFromString gets a material state from a type tag.
func StateFromString(str string) State {
	switch str {
	case "fluid":
		return Fluid
	case "solid":
		return Solid
	case "mixture":
		return Mixture
	}
	return Invalid
}

// ParticleFlag refines a solid material into a particle subclass.
type ParticleFlag uint8

// Particle subclasses of solid materials.
const (
	InertParticle ParticleFlag = iota
	DropletParticle
	CombustingParticle
)

func (f ParticleFlag) String() string {
	switch f {
	case InertParticle:
		return "inertParticle"
	case DropletParticle:
		return "dropletParticle"
	case CombustingParticle:
		return "combustionParticle"
	}
	return fmt.Sprintf("<illegal particle flag: %d>", f)
}

// ParticleSet is a set of particle flags, kept in insertion order.
type ParticleSet []ParticleFlag

// Has is a predicate: is flag a member of the set?
func (ps ParticleSet) Has(flag ParticleFlag) bool {
	for _, f := range ps {
		if f == flag {
			return true
		}
	}
	return false
}

// Add inserts flag into the set. Duplicates are ignored.
func (ps *ParticleSet) Add(flag ParticleFlag) {
	if ps.Has(flag) {
		return
	}
	*ps = append(*ps, flag)
}

// --- Material --------------------------------------------------------------

// Material is the root entity of the catalog, uniquely keyed by name.
// A material is populated during resolution of a parsed file and treated
// as read-only afterwards.
type Material struct {
	Name            string
	DisplayName     string
	State           State
	Particles       ParticleSet
	ChemicalFormula string
	SpeciesNames    []string
	props           *linkedhashmap.Map // property name -> []*PropertyRecord
}

// NewMaterial creates an empty material with an invalid state.
func NewMaterial(name string) *Material {
	return &Material{
		Name:  name,
		State: Invalid,
		props: linkedhashmap.New(),
	}
}

// AddRecord appends a property record. Records for the same property name
// keep the order in which they have been added; property names keep the
// order of their first record.
func (m *Material) AddRecord(rec *PropertyRecord) {
	if rec == nil {
		return
	}
	if m.props == nil {
		m.props = linkedhashmap.New()
	}
	if recs, ok := m.props.Get(rec.Name); ok {
		m.props.Put(rec.Name, append(recs.([]*PropertyRecord), rec))
		return
	}
	m.props.Put(rec.Name, []*PropertyRecord{rec})
}

// Property returns all records for a property name, in source order, or nil.
func (m *Material) Property(name string) []*PropertyRecord {
	if m.props == nil {
		return nil
	}
	recs, ok := m.props.Get(name)
	if !ok {
		return nil
	}
	return recs.([]*PropertyRecord)
}

// HasProperty is a predicate: does the material carry at least one record
// for the given property name?
func (m *Material) HasProperty(name string) bool {
	if m.props == nil {
		return false
	}
	_, ok := m.props.Get(name)
	return ok
}

// PropertyNames returns all property names in order of first occurrence.
func (m *Material) PropertyNames() []string {
	if m.props == nil {
		return nil
	}
	keys := m.props.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

// EachProperty walks all properties in order of first occurrence.
func (m *Material) EachProperty(f func(name string, recs []*PropertyRecord)) {
	if m.props == nil {
		return
	}
	m.props.Each(func(key interface{}, value interface{}) {
		f(key.(string), value.([]*PropertyRecord))
	})
}

// PropertyCount returns the number of distinct property names.
func (m *Material) PropertyCount() int {
	if m.props == nil {
		return 0
	}
	return m.props.Size()
}

// --- PropertyRecord --------------------------------------------------------

// PropertyRecord is one entry of a material property, carrying a coefficient
// payload. A property may own several records, e.g. one binary-diffusivity
// per partner species.
type PropertyRecord struct {
	Name  string
	Unit  string
	Coeff Coefficient
}

// NewRecord creates a property record and fills in the unit, if one is
// known for the property name.
func NewRecord(name string, c Coefficient) *PropertyRecord {
	if c == nil {
		c = None{}
	}
	return &PropertyRecord{
		Name:  name,
		Unit:  UnitFor(name),
		Coeff: c,
	}
}

func (rec *PropertyRecord) String() string {
	return fmt.Sprintf("%s[%s]", rec.Name, rec.Coeff.Type())
}
