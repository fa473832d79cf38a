package grammar

// CoeffKeyword identifies the coefficient-type keyword introducing a
// parameter block.
type CoeffKeyword int8

// Coefficient keywords of the SCM dialect.
const (
	KeyNone CoeffKeyword = iota
	KeyConstant
	KeyPolynomial
	KeyPiecewiseLinear
	KeyPiecewisePolynomial
	KeyNASA9
	KeyCompressibleLiquid
	KeySutherland
	KeyPowerLaw
	KeyBlottner
)

func (k CoeffKeyword) String() string {
	switch k {
	case KeyConstant:
		return "constant"
	case KeyPolynomial:
		return "polynomial"
	case KeyPiecewiseLinear:
		return "polynomial piecewise-linear"
	case KeyPiecewisePolynomial:
		return "polynomial piecewise-polynomial"
	case KeyNASA9:
		return "polynomial nasa-9-piecewise-polynomial"
	case KeyCompressibleLiquid:
		return "compressible-liquid"
	case KeySutherland:
		return "sutherland"
	case KeyPowerLaw:
		return "power-law"
	case KeyBlottner:
		return "blottner-curve-fit"
	}
	return "<none>"
}

// KeywordTable maps keyword symbols to coefficient keywords. The table is
// built once at startup and treated as read-only; parsers receive it by
// value instead of relying on init side effects.
type KeywordTable map[string]CoeffKeyword

// Sub-keywords that may follow the symbol 'polynomial'.
var polynomialSubKeywords = map[string]CoeffKeyword{
	"piecewise-linear":            KeyPiecewiseLinear,
	"piecewise-polynomial":        KeyPiecewisePolynomial,
	"nasa-9-piecewise-polynomial": KeyNASA9,
}

var defaultKeywords = KeywordTable{
	"constant":            KeyConstant,
	"polynomial":          KeyPolynomial,
	"compressible-liquid": KeyCompressibleLiquid,
	"sutherland":          KeySutherland,
	"power-law":           KeyPowerLaw,
	"blottner-curve-fit":  KeyBlottner,
}

// DefaultKeywords returns the process-wide coefficient-keyword table.
// Callers must not mutate it.
func DefaultKeywords() KeywordTable {
	return defaultKeywords
}
