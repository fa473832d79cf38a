package resolver

import (
	"fmt"

	"github.com/cfdkit/matdb"
	"github.com/cfdkit/matdb/grammar"
)

// Result is the outcome of resolving one parsed file: the typed material
// catalog plus all diagnostics, parse-time and resolve-time.
type Result struct {
	Materials   []*matdb.Material
	Diagnostics []matdb.Diagnostic
}

// ResolveFile resolves all materials of a raw file. Parse diagnostics are
// carried over into the result.
func ResolveFile(file *grammar.RawFile, parseDiags []matdb.Diagnostic) *Result {
	res := &Result{}
	res.Diagnostics = append(res.Diagnostics, parseDiags...)
	for _, raw := range file.Materials {
		mat, diags := Resolve(raw)
		res.Materials = append(res.Materials, mat)
		res.Diagnostics = append(res.Diagnostics, diags...)
	}
	return res
}

// Resolve turns one raw material into a typed material. Semantic findings
// are returned as warning diagnostics; the material is always delivered.
func Resolve(raw *grammar.RawMaterial) (*matdb.Material, []matdb.Diagnostic) {
	r := &resolution{mat: matdb.NewMaterial(raw.Name)}
	for _, tag := range raw.TypeTags {
		r.applyTypeTag(tag)
	}
	for _, prop := range raw.Props {
		r.resolveProperty(prop)
	}
	tracer().Debugf("resolved material %q (%s) with %d properties",
		r.mat.Name, r.mat.State, r.mat.PropertyCount())
	return r.mat, r.diags
}

type resolution struct {
	mat   *matdb.Material
	diags []matdb.Diagnostic
}

func (r *resolution) warnf(prop string, offset uint64, format string, args ...interface{}) {
	d := matdb.Diagnostic{
		Severity: matdb.SeverityWarning,
		Material: r.mat.Name,
		Property: prop,
		Offset:   offset,
	}
	d.Message = fmt.Sprintf(format, args...)
	r.diags = append(r.diags, d)
	tracer().Infof("%s", d)
}

// applyTypeTag maps a type-declaration symbol to state and particle flags.
func (r *resolution) applyTypeTag(tag string) bool {
	switch tag {
	case "fluid", "solid", "mixture":
		r.mat.State = matdb.StateFromString(tag)
	case "inert-particle":
		r.mat.State = matdb.Solid
		r.mat.Particles.Add(matdb.InertParticle)
	case "droplet-particle":
		r.mat.State = matdb.Solid
		r.mat.Particles.Add(matdb.DropletParticle)
	case "combusting-particle", "combustion":
		r.mat.State = matdb.Solid
		r.mat.Particles.Add(matdb.CombustingParticle)
	default:
		return false
	}
	return true
}

func isStateHeader(name string) bool {
	switch name {
	case "fluid", "solid", "mixture", "inert-particle", "droplet-particle",
		"combusting-particle", "combustion":
		return true
	}
	return false
}

// resolveProperty dispatches one raw property into the typed material.
func (r *resolution) resolveProperty(prop *grammar.RawProperty) {
	switch {
	case prop.Name == "chemical-formula":
		r.resolveChemicalFormula(prop)
	case prop.Name == "species":
		r.resolveSpecies(prop)
	case prop.Name == "reactions":
		r.resolveReactions(prop)
	case isStateHeader(prop.Name):
		// A state keyword as property header sets the state; trailing
		// symbols refine the particle flags.
		r.applyTypeTag(prop.Name)
		for _, tag := range prop.Args {
			if !r.applyTypeTag(tag) {
				r.warnf(prop.Name, prop.Offset, "unknown particle tag %q", tag)
			}
		}
	default:
		r.resolveGeneric(prop)
	}
}

func (r *resolution) resolveChemicalFormula(prop *grammar.RawProperty) {
	if prop.Direct == nil {
		if len(prop.Args) == 1 { // tolerate (chemical-formula h2o)
			r.mat.ChemicalFormula = prop.Args[0]
			return
		}
		r.warnf(prop.Name, prop.Offset, "chemical-formula without value")
		return
	}
	switch prop.Direct.Kind {
	case grammar.Symbol, grammar.String:
		r.mat.ChemicalFormula = prop.Direct.Sym
	case grammar.HashF:
		// #f means: no chemical formula
	case grammar.HashT:
		r.warnf(prop.Name, prop.Offset, "chemical-formula cannot be #t")
	case grammar.Number:
		r.warnf(prop.Name, prop.Offset, "chemical-formula cannot be a number")
	}
}

func (r *resolution) resolveSpecies(prop *grammar.RawProperty) {
	names := prop.Names
	if len(names) == 0 {
		names = namesFromExprs(prop.Exprs)
	}
	if len(names) == 0 {
		r.warnf(prop.Name, prop.Offset, "species without a (names …) list")
		return
	}
	r.mat.SpeciesNames = append(r.mat.SpeciesNames, names...)
	if r.mat.State == matdb.Invalid {
		r.mat.State = matdb.Mixture
	}
}

func (r *resolution) resolveReactions(prop *grammar.RawProperty) {
	if len(prop.Exprs) == 0 {
		r.warnf(prop.Name, prop.Offset, "reactions without a mechanism table")
		r.addOpaque(prop)
		return
	}
	rx := reactionsFromExprs(prop.Exprs)
	r.mat.AddRecord(matdb.NewRecord(prop.Name, rx))
}

// resolveGeneric handles the canonical property names and everything else
// that carries coefficient-typed parameter blocks.
func (r *resolution) resolveGeneric(prop *grammar.RawProperty) {
	resolved := false
	if prop.Direct != nil {
		r.mat.AddRecord(matdb.NewRecord(prop.Name, coeffFromAtom(prop.Direct)))
		resolved = true
	}
	for _, param := range prop.Params {
		c, msg := coeffFromParam(param)
		if msg != "" {
			r.warnf(prop.Name, param.Offset, "%s", msg)
		}
		r.mat.AddRecord(matdb.NewRecord(prop.Name, c))
		resolved = true
	}
	for _, film := range prop.Films {
		rec, msg := r.filmRecord(prop, film)
		if msg != "" {
			r.warnf(prop.Name, film.Offset, "%s", msg)
		}
		if rec != nil {
			r.mat.AddRecord(rec)
			resolved = true
		}
	}
	if len(prop.Exprs) > 0 {
		r.warnf(prop.Name, prop.Offset, "unrecognized sub-expression kept verbatim")
		r.addOpaque(prop)
		resolved = true
	}
	if !resolved {
		if len(prop.Args) > 0 || len(prop.Nums) > 0 || prop.Raw != "" {
			r.warnf(prop.Name, prop.Offset, "property body kept verbatim")
			r.addOpaque(prop)
		} else {
			r.warnf(prop.Name, prop.Offset, "property without payload")
		}
	}
}

// filmRecord builds a film-averaged record; the inner film-diffusivity is
// resolved through the same coefficient dispatch.
func (r *resolution) filmRecord(prop *grammar.RawProperty, film *grammar.RawFilm) (*matdb.PropertyRecord, string) {
	inner, msg := coeffFromParam(film.Diffusivity)
	if msg != "" {
		r.warnf(prop.Name, film.Diffusivity.Offset, "film-diffusivity: %s", msg)
	}
	fa, err := matdb.NewFilmAveraged(film.Averaging, matdb.NewRecord("film-diffusivity", inner))
	if err != nil {
		return matdb.NewRecord(prop.Name, matdb.Opaque{Source: prop.Raw}), err.Error()
	}
	return matdb.NewRecord(prop.Name, fa), ""
}

func (r *resolution) addOpaque(prop *grammar.RawProperty) {
	r.mat.AddRecord(matdb.NewRecord(prop.Name, matdb.Opaque{Source: prop.Raw}))
}
