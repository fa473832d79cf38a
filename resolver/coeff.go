package resolver

import (
	"fmt"

	"github.com/cfdkit/matdb"
	"github.com/cfdkit/matdb/grammar"
)

// coeffFromAtom applies the dotted-pair rule for property bodies without a
// coefficient-type keyword: symbols become string references, booleans stay
// booleans, numbers become constants.
func coeffFromAtom(atom *grammar.RawAtom) matdb.Coefficient {
	switch atom.Kind {
	case grammar.Number:
		return matdb.Constant(atom.Num)
	case grammar.Symbol, grammar.String:
		return matdb.StringRef(atom.Sym)
	case grammar.HashT, grammar.HashF:
		return matdb.Boolean(atom.Bool)
	}
	return matdb.None{}
}

// coeffFromParam maps a parameter block to its coefficient variant.
// Shape or invariant violations return the opaque fallback together with a
// non-empty message; the record is kept, never dropped.
func coeffFromParam(param *grammar.RawParam) (matdb.Coefficient, string) {
	switch param.Tail {
	case grammar.TailDotted:
		return dottedCoeff(param)
	case grammar.TailFlat:
		return flatCoeff(param)
	case grammar.TailPairs:
		return pairsCoeff(param)
	case grammar.TailPieces:
		return piecesCoeff(param)
	}
	return matdb.Opaque{Source: param.Raw}, "unresolved parameter tail kept verbatim"
}

func opaque(param *grammar.RawParam, err error) (matdb.Coefficient, string) {
	return matdb.Opaque{Source: param.Raw}, err.Error()
}

func dottedCoeff(param *grammar.RawParam) (matdb.Coefficient, string) {
	atom := param.Atom
	switch param.Coeff {
	case grammar.KeyConstant, grammar.KeyNone:
		switch atom.Kind {
		case grammar.Number:
			return matdb.Constant(atom.Num), ""
		case grammar.Symbol, grammar.String:
			return matdb.StringRef(atom.Sym), ""
		case grammar.HashT:
			return matdb.Boolean(true), ""
		case grammar.HashF:
			return matdb.Boolean(false), ""
		}
	}
	return matdb.Opaque{Source: param.Raw},
		fmt.Sprintf("%s does not take a dotted value", param.Coeff)
}

func flatCoeff(param *grammar.RawParam) (matdb.Coefficient, string) {
	switch param.Coeff {
	case grammar.KeyConstant:
		if len(param.Flat) == 1 {
			return matdb.Constant(param.Flat[0]), ""
		}
		return matdb.Opaque{Source: param.Raw},
			fmt.Sprintf("constant with %d values", len(param.Flat))
	case grammar.KeyPolynomial:
		c, err := matdb.NewPolynomial(param.Flat)
		if err != nil {
			return opaque(param, err)
		}
		return c, ""
	case grammar.KeySutherland:
		c, err := matdb.NewSutherland(param.Flat)
		if err != nil {
			return opaque(param, err)
		}
		return c, ""
	case grammar.KeyBlottner:
		c, err := matdb.NewBlottner(param.Flat)
		if err != nil {
			return opaque(param, err)
		}
		return c, ""
	case grammar.KeyPowerLaw:
		c, err := matdb.NewPowerLaw(param.Flat)
		if err != nil {
			return opaque(param, err)
		}
		return c, ""
	case grammar.KeyCompressibleLiquid:
		c, err := matdb.NewCompressibleLiquid(param.Flat)
		if err != nil {
			return opaque(param, err)
		}
		return c, ""
	case grammar.KeyPiecewisePolynomial:
		// a single flat piece occurs in the wild
		c, err := matdb.NewPiecewisePolynomial([][]float64{param.Flat})
		if err != nil {
			return opaque(param, err)
		}
		return c, ""
	case grammar.KeyNASA9:
		c, err := matdb.NewNASA9Piecewise([][]float64{param.Flat})
		if err != nil {
			return opaque(param, err)
		}
		return c, ""
	}
	return matdb.Opaque{Source: param.Raw},
		fmt.Sprintf("%s does not take a flat coefficient list", param.Coeff)
}

func pairsCoeff(param *grammar.RawParam) (matdb.Coefficient, string) {
	if param.Coeff != grammar.KeyPiecewiseLinear {
		return matdb.Opaque{Source: param.Raw},
			fmt.Sprintf("%s does not take temperature-value pairs", param.Coeff)
	}
	points := make([]matdb.Point, len(param.Pieces))
	for i, pair := range param.Pieces {
		points[i] = matdb.Point{T: pair[0], V: pair[1]}
	}
	c, err := matdb.NewPiecewiseLinear(points)
	if err != nil {
		return opaque(param, err)
	}
	return c, ""
}

func piecesCoeff(param *grammar.RawParam) (matdb.Coefficient, string) {
	switch param.Coeff {
	case grammar.KeyPiecewisePolynomial:
		c, err := matdb.NewPiecewisePolynomial(param.Pieces)
		if err != nil {
			return opaque(param, err)
		}
		return c, ""
	case grammar.KeyNASA9:
		c, err := matdb.NewNASA9Piecewise(param.Pieces)
		if err != nil {
			return opaque(param, err)
		}
		return c, ""
	case grammar.KeyPiecewiseLinear:
		// breakpoints spelled as (T v) tuples instead of dotted pairs
		points := make([]matdb.Point, 0, len(param.Pieces))
		for _, piece := range param.Pieces {
			if len(piece) != 2 {
				return matdb.Opaque{Source: param.Raw},
					fmt.Sprintf("piecewise-linear breakpoint with %d numbers", len(piece))
			}
			points = append(points, matdb.Point{T: piece[0], V: piece[1]})
		}
		c, err := matdb.NewPiecewiseLinear(points)
		if err != nil {
			return opaque(param, err)
		}
		return c, ""
	}
	return matdb.Opaque{Source: param.Raw},
		fmt.Sprintf("%s does not take coefficient tuples", param.Coeff)
}
