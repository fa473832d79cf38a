package matdb

import (
	"errors"
	"fmt"
	"strings"
)

// CoeffType represents the type of a coefficient payload.
type CoeffType int8

// Predefined coefficient types.
const (
	NoneType CoeffType = iota
	ConstantType
	StringRefType
	BooleanType
	PolynomialType
	PiecewiseLinearType
	PiecewisePolynomialType
	NASA9Type
	CompressibleLiquidType
	SutherlandType
	PowerLawType
	BlottnerType
	FilmAveragedType
	ReactionsType
	OpaqueType
)

func (t CoeffType) String() string {
	switch t {
	case NoneType:
		return "none"
	case ConstantType:
		return "constant"
	case StringRefType:
		return "string-ref"
	case BooleanType:
		return "boolean"
	case PolynomialType:
		return "polynomial"
	case PiecewiseLinearType:
		return "piecewise-linear"
	case PiecewisePolynomialType:
		return "piecewise-polynomial"
	case NASA9Type:
		return "nasa-9"
	case CompressibleLiquidType:
		return "compressible-liquid"
	case SutherlandType:
		return "sutherland"
	case PowerLawType:
		return "power-law"
	case BlottnerType:
		return "blottner"
	case FilmAveragedType:
		return "film-averaged"
	case ReactionsType:
		return "reactions"
	case OpaqueType:
		return "opaque"
	}
	return fmt.Sprintf("<illegal coefficient type: %d>", t)
}

// CoeffTypeFromString gets a coefficient type from its kind discriminator.
func CoeffTypeFromString(str string) (CoeffType, bool) {
	for t := NoneType; t <= OpaqueType; t++ {
		if t.String() == str {
			return t, true
		}
	}
	return NoneType, false
}

// Construction errors for coefficient variants.
var (
	ErrEmptyCoefficients = errors.New("coefficient list must not be empty")
	ErrArityMismatch     = errors.New("wrong number of coefficients")
	ErrRangeOrder        = errors.New("temperature ranges not ascending")
	ErrNestedComposite   = errors.New("film-averaged must not nest")
)

// Coefficient is an interface for all coefficient payloads a property
// record can carry.
type Coefficient interface {
	Self() CoeffBase // helper indirection, see type CoeffBase
	Type() CoeffType // type of the coefficient
}

// CoeffBase is a helper struct for operations on coefficients.
type CoeffBase struct {
	C Coefficient
}

func (b CoeffBase) String() string {
	return fmt.Sprintf("%s(%v)", b.C.Type(), b.C)
}

// Type returns the coefficient type.
func (b CoeffBase) Type() CoeffType {
	return b.C.Type()
}

// IsNone is a predicate: is this an absent value?
func (b CoeffBase) IsNone() bool {
	_, ok := b.C.(None)
	return ok
}

// IsConstant is a predicate: is it a scalar constant?
func (b CoeffBase) IsConstant() bool {
	_, ok := b.C.(Constant)
	return ok
}

// AsConstant returns the coefficient as a Constant, or 0 with an error trace.
func (b CoeffBase) AsConstant() Constant {
	if c, ok := b.C.(Constant); ok {
		return c
	}
	tracer().Errorf("coefficient is not a constant: %v", b.C)
	return Constant(0)
}

// IsOpaque is a predicate: is this an unresolved verbatim slice?
func (b CoeffBase) IsOpaque() bool {
	_, ok := b.C.(Opaque)
	return ok
}

// --- Scalar-ish variants ---------------------------------------------------

// None signals an absent value (a '#f' in a slot that elsewhere carries
// a coefficient).
type None struct{}

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (n None) Self() CoeffBase { return CoeffBase{n} }

// Type returns NoneType.
func (n None) Type() CoeffType { return NoneType }

// Constant is a single scalar coefficient.
type Constant float64

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (c Constant) Self() CoeffBase { return CoeffBase{c} }

// Type returns ConstantType.
func (c Constant) Type() CoeffType { return ConstantType }

// Value returns the scalar.
func (c Constant) Value() float64 { return float64(c) }

// StringRef is a symbolic reference, e.g. to another species.
type StringRef string

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (s StringRef) Self() CoeffBase { return CoeffBase{s} }

// Type returns StringRefType.
func (s StringRef) Type() CoeffType { return StringRefType }

// Boolean is a literal #t or #f payload.
type Boolean bool

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (b Boolean) Self() CoeffBase { return CoeffBase{b} }

// Type returns BooleanType.
func (b Boolean) Type() CoeffType { return BooleanType }

// --- Polynomial family -----------------------------------------------------

// Polynomial holds coefficients in ascending order: a0 + a1·T + a2·T² + …
type Polynomial struct {
	Coeffs []float64
}

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (p Polynomial) Self() CoeffBase { return CoeffBase{p} }

// Type returns PolynomialType.
func (p Polynomial) Type() CoeffType { return PolynomialType }

// NewPolynomial creates a polynomial coefficient. At least one coefficient
// is required.
func NewPolynomial(coeffs []float64) (Polynomial, error) {
	if len(coeffs) == 0 {
		return Polynomial{}, ErrEmptyCoefficients
	}
	return Polynomial{Coeffs: coeffs}, nil
}

// Point is a temperature-value breakpoint of a piecewise linear profile.
type Point struct {
	T float64
	V float64
}

// PiecewiseLinear holds temperature-value breakpoints, strictly increasing
// in temperature.
type PiecewiseLinear struct {
	Points []Point
}

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (p PiecewiseLinear) Self() CoeffBase { return CoeffBase{p} }

// Type returns PiecewiseLinearType.
func (p PiecewiseLinear) Type() CoeffType { return PiecewiseLinearType }

// NewPiecewiseLinear creates a piecewise linear profile from breakpoints.
// At least two points are required and temperatures must strictly increase.
func NewPiecewiseLinear(points []Point) (PiecewiseLinear, error) {
	if len(points) < 2 {
		return PiecewiseLinear{}, fmt.Errorf("piecewise-linear needs at least 2 points, got %d: %w",
			len(points), ErrArityMismatch)
	}
	for i := 1; i < len(points); i++ {
		if points[i].T <= points[i-1].T {
			return PiecewiseLinear{}, fmt.Errorf("breakpoint %d at T=%g: %w",
				i, points[i].T, ErrRangeOrder)
		}
	}
	return PiecewiseLinear{Points: points}, nil
}

// TempRange is a temperature interval [Low, High) of a piecewise profile.
type TempRange struct {
	Low  float64
	High float64
}

func checkRanges(ranges []TempRange) error {
	for i, r := range ranges {
		if r.Low >= r.High {
			return fmt.Errorf("range %d is empty (%g ≥ %g): %w", i, r.Low, r.High, ErrRangeOrder)
		}
		if i > 0 && r.Low < ranges[i-1].High {
			return fmt.Errorf("range %d overlaps its predecessor: %w", i, ErrRangeOrder)
		}
	}
	return nil
}

// PiecewisePolynomial holds one coefficient vector per temperature range.
type PiecewisePolynomial struct {
	Ranges []TempRange
	Coeffs [][]float64
}

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (p PiecewisePolynomial) Self() CoeffBase { return CoeffBase{p} }

// Type returns PiecewisePolynomialType.
func (p PiecewisePolynomial) Type() CoeffType { return PiecewisePolynomialType }

// NewPiecewisePolynomial creates a piecewise polynomial from raw pieces.
// Each piece carries (Tlow, Thigh) as its first two numbers, followed by
// at least one coefficient. Ranges must not overlap and must ascend.
func NewPiecewisePolynomial(pieces [][]float64) (PiecewisePolynomial, error) {
	if len(pieces) == 0 {
		return PiecewisePolynomial{}, ErrEmptyCoefficients
	}
	ranges := make([]TempRange, len(pieces))
	coeffs := make([][]float64, len(pieces))
	for i, piece := range pieces {
		if len(piece) < 3 {
			return PiecewisePolynomial{}, fmt.Errorf("piece %d has %d numbers, need 2 temperatures and coefficients: %w",
				i, len(piece), ErrArityMismatch)
		}
		ranges[i] = TempRange{Low: piece[0], High: piece[1]}
		coeffs[i] = piece[2:]
	}
	if err := checkRanges(ranges); err != nil {
		return PiecewisePolynomial{}, err
	}
	return PiecewisePolynomial{Ranges: ranges, Coeffs: coeffs}, nil
}

// NASA9Piecewise is the NASA-9 thermodynamic fit: nine coefficients per
// temperature range.
type NASA9Piecewise struct {
	Ranges []TempRange
	Coeffs [][9]float64
}

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (p NASA9Piecewise) Self() CoeffBase { return CoeffBase{p} }

// Type returns NASA9Type.
func (p NASA9Piecewise) Type() CoeffType { return NASA9Type }

// NewNASA9Piecewise creates a NASA-9 fit from raw pieces. Each piece
// carries exactly two temperatures and nine coefficients.
func NewNASA9Piecewise(pieces [][]float64) (NASA9Piecewise, error) {
	if len(pieces) == 0 {
		return NASA9Piecewise{}, ErrEmptyCoefficients
	}
	ranges := make([]TempRange, len(pieces))
	coeffs := make([][9]float64, len(pieces))
	for i, piece := range pieces {
		if len(piece) != 11 {
			return NASA9Piecewise{}, fmt.Errorf("NASA-9 piece %d has %d numbers, need 2 temperatures and 9 coefficients: %w",
				i, len(piece), ErrArityMismatch)
		}
		ranges[i] = TempRange{Low: piece[0], High: piece[1]}
		copy(coeffs[i][:], piece[2:])
	}
	if err := checkRanges(ranges); err != nil {
		return NASA9Piecewise{}, err
	}
	return NASA9Piecewise{Ranges: ranges, Coeffs: coeffs}, nil
}

// --- Closed-form transport models ------------------------------------------

// CompressibleLiquid is the compressible-liquid density model.
type CompressibleLiquid struct {
	Coeffs []float64
}

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (c CompressibleLiquid) Self() CoeffBase { return CoeffBase{c} }

// Type returns CompressibleLiquidType.
func (c CompressibleLiquid) Type() CoeffType { return CompressibleLiquidType }

// NewCompressibleLiquid creates a compressible-liquid model.
func NewCompressibleLiquid(coeffs []float64) (CompressibleLiquid, error) {
	if len(coeffs) == 0 {
		return CompressibleLiquid{}, ErrEmptyCoefficients
	}
	return CompressibleLiquid{Coeffs: coeffs}, nil
}

// Sutherland is the three-coefficient Sutherland viscosity law.
type Sutherland [3]float64

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (s Sutherland) Self() CoeffBase { return CoeffBase{s} }

// Type returns SutherlandType.
func (s Sutherland) Type() CoeffType { return SutherlandType }

// NewSutherland creates a Sutherland law from exactly three coefficients.
func NewSutherland(coeffs []float64) (Sutherland, error) {
	var s Sutherland
	if len(coeffs) != 3 {
		return s, fmt.Errorf("sutherland needs 3 coefficients, got %d: %w",
			len(coeffs), ErrArityMismatch)
	}
	copy(s[:], coeffs)
	return s, nil
}

// PowerLaw is the power-law transport model.
type PowerLaw struct {
	Coeffs []float64
}

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (p PowerLaw) Self() CoeffBase { return CoeffBase{p} }

// Type returns PowerLawType.
func (p PowerLaw) Type() CoeffType { return PowerLawType }

// NewPowerLaw creates a power-law model.
func NewPowerLaw(coeffs []float64) (PowerLaw, error) {
	if len(coeffs) == 0 {
		return PowerLaw{}, ErrEmptyCoefficients
	}
	return PowerLaw{Coeffs: coeffs}, nil
}

// Blottner is the three-coefficient Blottner viscosity curve fit.
type Blottner [3]float64

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (b Blottner) Self() CoeffBase { return CoeffBase{b} }

// Type returns BlottnerType.
func (b Blottner) Type() CoeffType { return BlottnerType }

// NewBlottner creates a Blottner curve fit from exactly three coefficients.
func NewBlottner(coeffs []float64) (Blottner, error) {
	var b Blottner
	if len(coeffs) != 3 {
		return b, fmt.Errorf("blottner-curve-fit needs 3 coefficients, got %d: %w",
			len(coeffs), ErrArityMismatch)
	}
	copy(b[:], coeffs)
	return b, nil
}

// --- Composites ------------------------------------------------------------

// FilmAveraged combines an averaging coefficient with an inner
// film-diffusivity record. The inner record lives behind a pointer so the
// variant stays a fixed-size sum type.
type FilmAveraged struct {
	Averaging float64
	Film      *PropertyRecord
}

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (f FilmAveraged) Self() CoeffBase { return CoeffBase{f} }

// Type returns FilmAveragedType.
func (f FilmAveraged) Type() CoeffType { return FilmAveragedType }

// NewFilmAveraged creates a film-averaged diffusivity. The inner record
// must not itself be film-averaged.
func NewFilmAveraged(averaging float64, film *PropertyRecord) (FilmAveraged, error) {
	if film == nil {
		return FilmAveraged{}, errors.New("film-averaged without film-diffusivity")
	}
	if film.Coeff.Type() == FilmAveragedType {
		return FilmAveraged{}, ErrNestedComposite
	}
	return FilmAveraged{Averaging: averaging, Film: film}, nil
}

// ReactionField is a named field of a reaction, e.g. stoichiometry or
// arrhenius parameters. Numeric payloads land in Values, symbolic ones in
// Symbols; anything else is kept verbatim in Text.
type ReactionField struct {
	Name    string    `json:"name"`
	Values  []float64 `json:"values,omitempty"`
	Symbols []string  `json:"symbols,omitempty"`
	Text    string    `json:"text,omitempty"`
}

// Reaction is one named reaction of a mechanism.
type Reaction struct {
	Name   string          `json:"name"`
	Fields []ReactionField `json:"fields,omitempty"`
}

// Reactions is the structured sub-record for a reactions table. The
// resolver enumerates reaction names and their named fields but does not
// interpret stoichiometry semantics.
type Reactions struct {
	Mechanism string
	Entries   []Reaction
}

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (r Reactions) Self() CoeffBase { return CoeffBase{r} }

// Type returns ReactionsType.
func (r Reactions) Type() CoeffType { return ReactionsType }

// Opaque keeps the verbatim source slice of a parameter tail that could
// not be resolved. It preserves round-trip fidelity for exotic forms.
type Opaque struct {
	Source string
}

// Self returns this coefficient, wrapped into a CoeffBase struct.
func (o Opaque) Self() CoeffBase { return CoeffBase{o} }

// Type returns OpaqueType.
func (o Opaque) Type() CoeffType { return OpaqueType }

func (o Opaque) String() string {
	return "opaque:" + strings.TrimSpace(o.Source)
}
