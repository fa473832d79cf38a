package grammar

import (
	"github.com/npillmayer/gorgo/terex"
)

// The raw AST mirrors the surface syntax: a file is a flat sequence of
// materials, each carrying a name, type tags and a sequence of properties.
// Property arguments are either coefficient-typed parameter blocks or bare
// sub-expressions, kept as terex cells until the resolver interprets them.

// RawFile is the root of the raw AST.
type RawFile struct {
	Materials []*RawMaterial
}

// RawMaterial is one material s-expression.
type RawMaterial struct {
	Name     string
	TypeTags []string // type-decl symbols, e.g. ["solid", "inert-particle"]
	Props    []*RawProperty
	Offset   uint64
}

// RawProperty is one property of a material. Which payload groups are
// populated depends on the surface form; a body may fill several of them
// (e.g. parameter blocks next to film-averaged blocks):
//
//	Direct  for (name . atom)
//	Params  for coefficient-typed parameter blocks
//	Names   for the (names …) list of a species property
//	Films   for film-averaged blocks of a binary-diffusivity
//	Exprs   for bare sub-expressions (reactions tables and the like)
//	Args    for trailing bare symbols (e.g. particle tags)
//
// Raw always holds the verbatim source of the property body, so the
// resolver can fall back to an opaque record without losing bytes.
type RawProperty struct {
	Name   string
	Direct *RawAtom
	Params []*RawParam
	Names  []string
	Films  []*RawFilm
	Exprs  []*terex.GCons
	Args   []string
	Nums   []float64
	Raw    string
	Offset uint64
}

// RawTail classifies the tail of a parameter block.
type RawTail int8

// Parameter tail forms.
const (
	TailDotted RawTail = iota // (constant . 1.225)
	TailFlat                  // (sutherland 1.7e-5 273.15 110.4)
	TailPieces                // ((200 1000 a0 …) (1000 6000 b0 …))
	TailPairs                 // ((300 . 1005) (1000 . 1142))
	TailRaw                   // anything else, kept verbatim
)

// RawParam is a coefficient-typed parameter block.
type RawParam struct {
	Coeff  CoeffKeyword
	Tail   RawTail
	Atom   *RawAtom    // TailDotted
	Flat   []float64   // TailFlat
	Pieces [][]float64 // TailPieces, TailPairs (pairs normalized to [T, v])
	Raw    string      // TailRaw; always set for round-trip fidelity
	Offset uint64
}

// RawFilm is a film-averaged block of a binary-diffusivity property.
type RawFilm struct {
	Averaging   float64
	Diffusivity *RawParam
	Offset      uint64
}

// RawAtom is a single-value payload of a dotted pair.
type RawAtom struct {
	Kind TokKind // Number, Symbol, String, HashT or HashF
	Num  float64
	Sym  string
	Bool bool
}
