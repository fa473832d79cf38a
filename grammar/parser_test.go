package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, input string) *RawMaterial {
	t.Helper()
	file, diags, err := NewParser().ParseFile([]byte(input))
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, file.Materials, 1)
	return file.Materials[0]
}

func TestParseMaterialHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	m := parseOne(t, `(air fluid (density (constant . 1.225)))`)
	require.Equal(t, "air", m.Name)
	require.Equal(t, []string{"fluid"}, m.TypeTags)
	require.Len(t, m.Props, 1)
	prop := m.Props[0]
	require.Equal(t, "density", prop.Name)
	require.Len(t, prop.Params, 1)
	param := prop.Params[0]
	require.Equal(t, KeyConstant, param.Coeff)
	require.Equal(t, TailDotted, param.Tail)
	require.Equal(t, 1.225, param.Atom.Num)
}

func TestParseTypeList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	m := parseOne(t, `(coal (solid combusting-particle) (volatile-fraction (constant . 0.3)))`)
	require.Empty(t, m.TypeTags)
	require.Len(t, m.Props, 2)
	require.Equal(t, "solid", m.Props[0].Name)
	require.Equal(t, []string{"combusting-particle"}, m.Props[0].Args)
}

func TestParseDottedProperty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	m := parseOne(t, `(water-liquid fluid (chemical-formula . h2o<l>))`)
	prop := m.Props[0]
	require.NotNil(t, prop.Direct)
	require.Equal(t, Symbol, prop.Direct.Kind)
	require.Equal(t, "h2o<l>", prop.Direct.Sym)
}

func TestParseFlatCoefficients(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	m := parseOne(t, `(air fluid (viscosity (sutherland 1.716e-5 273.15 110.4)))`)
	param := m.Props[0].Params[0]
	require.Equal(t, KeySutherland, param.Coeff)
	require.Equal(t, TailFlat, param.Tail)
	require.Equal(t, []float64{1.716e-5, 273.15, 110.4}, param.Flat)
}

func TestParsePiecewiseLinearPairs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	m := parseOne(t, `(air fluid
	  (specific-heat (polynomial piecewise-linear (300 . 1005) (1000 . 1142) (2500 . 1290))))`)
	param := m.Props[0].Params[0]
	require.Equal(t, KeyPiecewiseLinear, param.Coeff)
	require.Equal(t, TailPairs, param.Tail)
	require.Equal(t, [][]float64{{300, 1005}, {1000, 1142}, {2500, 1290}}, param.Pieces)
}

func TestParseNASA9Pieces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	m := parseOne(t, `(co2 fluid
	  (specific-heat (polynomial nasa-9-piecewise-polynomial
	    (200 1000 1 2 3 4 5 6 7 8 9)
	    (1000 6000 9 8 7 6 5 4 3 2 1))))`)
	param := m.Props[0].Params[0]
	require.Equal(t, KeyNASA9, param.Coeff)
	require.Equal(t, TailPieces, param.Tail)
	require.Len(t, param.Pieces, 2)
	require.Len(t, param.Pieces[0], 11)
	require.Equal(t, 200.0, param.Pieces[0][0])
	require.Equal(t, 1000.0, param.Pieces[1][0])
}

func TestParseSpeciesNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	m := parseOne(t, `(mix mixture (species (names ch4 o2 co2 h2o n2)))`)
	prop := m.Props[0]
	require.Equal(t, "species", prop.Name)
	require.Equal(t, []string{"ch4", "o2", "co2", "h2o", "n2"}, prop.Names)
}

func TestParseFilmAveraged(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	m := parseOne(t, `(dro fluid
	  (binary-diffusivity (film-averaged
	    (averaging-coefficient 0.3333)
	    (film-diffusivity (polynomial 1e-5 1e-8)))))`)
	prop := m.Props[0]
	require.Len(t, prop.Films, 1)
	film := prop.Films[0]
	require.Equal(t, 0.3333, film.Averaging)
	require.NotNil(t, film.Diffusivity)
	require.Equal(t, KeyPolynomial, film.Diffusivity.Coeff)
	require.Equal(t, []float64{1e-5, 1e-8}, film.Diffusivity.Flat)
}

func TestParseReactionsAsExpr(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	m := parseOne(t, `(mix mixture
	  (reactions (finite-rate (r1 (stoichiometry 1 1 0) (arrhenius 2.2e11 1e8)))))`)
	prop := m.Props[0]
	require.Equal(t, "reactions", prop.Name)
	require.Len(t, prop.Exprs, 1)
}

func TestParseRawTailFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	// a constant with an exotic tail is captured verbatim, not dropped
	m := parseOne(t, `(x fluid (density (constant weird (tail))))`)
	param := m.Props[0].Params[0]
	require.Equal(t, TailRaw, param.Tail)
	require.Contains(t, param.Raw, "weird")
	require.Contains(t, param.Raw, "(tail")
}

func TestParseResync(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	// the broken first material is rejected with a diagnostic; parsing
	// resumes at the next top-level material
	input := `(1.5 fluid (density (constant . 1)))
(air fluid (density (constant . 1.225)))`
	file, diags, err := NewParser().ParseFile([]byte(input))
	require.NoError(t, err)
	require.Len(t, file.Materials, 1)
	require.Equal(t, "air", file.Materials[0].Name)
	require.NotEmpty(t, diags)
}

func TestParsePropertyOrderPreserved(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	m := parseOne(t, `(glass solid (density (constant . 2500)) (specific-heat (constant . 840)))`)
	require.Len(t, m.Props, 2)
	require.Equal(t, "density", m.Props[0].Name)
	require.Equal(t, "specific-heat", m.Props[1].Name)
}
