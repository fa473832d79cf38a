package resolver

import (
	"testing"

	"github.com/cfdkit/matdb"
	"github.com/cfdkit/matdb/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func resolveOne(t *testing.T, input string) (*matdb.Material, []matdb.Diagnostic) {
	t.Helper()
	file, parseDiags, err := grammar.NewParser().ParseFile([]byte(input))
	require.NoError(t, err)
	res := ResolveFile(file, parseDiags)
	require.Len(t, res.Materials, 1)
	return res.Materials[0], res.Diagnostics
}

func requireNoErrors(t *testing.T, diags []matdb.Diagnostic) {
	t.Helper()
	for _, d := range diags {
		if d.Severity == matdb.SeverityError {
			t.Fatalf("unexpected error diagnostic: %s", d)
		}
	}
}

func TestResolveConstantDensity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t, `(air fluid (density (constant . 1.225)))`)
	requireNoErrors(t, diags)
	require.Empty(t, diags)
	require.Equal(t, "air", m.Name)
	require.Equal(t, matdb.Fluid, m.State)
	recs := m.Property("density")
	require.Len(t, recs, 1)
	require.Equal(t, matdb.Constant(1.225), recs[0].Coeff)
}

func TestResolveSolidWithTwoScalars(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t,
		`(glass solid (density (constant . 2500)) (specific-heat (constant . 840)))`)
	requireNoErrors(t, diags)
	require.Equal(t, matdb.Solid, m.State)
	require.Equal(t, []string{"density", "specific-heat"}, m.PropertyNames())
	require.Equal(t, matdb.Constant(2500), m.Property("density")[0].Coeff)
	require.Equal(t, matdb.Constant(840), m.Property("specific-heat")[0].Coeff)
	// the open question on specific-heat units is settled: unset
	require.Equal(t, "", m.Property("specific-heat")[0].Unit)
}

func TestResolveChemicalFormulaAndSutherland(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t, `(water-liquid fluid
	  (chemical-formula . h2o)
	  (viscosity (sutherland 1.002e-3 293.15 0)))`)
	requireNoErrors(t, diags)
	require.Equal(t, "h2o", m.ChemicalFormula)
	recs := m.Property("viscosity")
	require.Len(t, recs, 1)
	require.Equal(t, matdb.Sutherland{1.002e-3, 293.15, 0}, recs[0].Coeff)
	require.Equal(t, "Pa·s", recs[0].Unit)
}

func TestResolveCombustingParticle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t,
		`(coal (solid combusting-particle) (volatile-fraction (constant . 0.3)))`)
	requireNoErrors(t, diags)
	require.Equal(t, matdb.Solid, m.State)
	require.True(t, m.Particles.Has(matdb.CombustingParticle))
	require.False(t, m.Particles.Has(matdb.InertParticle))
	require.Equal(t, matdb.Constant(0.3), m.Property("volatile-fraction")[0].Coeff)
}

func TestResolveNASA9(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t, `(cp-nasa
	  (specific-heat (polynomial nasa-9-piecewise-polynomial
	    (200 1000 1 2 3 4 5 6 7 8 9)
	    (1000 6000 9 8 7 6 5 4 3 2 1))))`)
	requireNoErrors(t, diags)
	recs := m.Property("specific-heat")
	require.Len(t, recs, 1)
	nasa, ok := recs[0].Coeff.(matdb.NASA9Piecewise)
	require.True(t, ok, "expected NASA-9 variant, got %T", recs[0].Coeff)
	require.Equal(t, []matdb.TempRange{{Low: 200, High: 1000}, {Low: 1000, High: 6000}}, nasa.Ranges)
	require.Equal(t, [9]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, nasa.Coeffs[0])
}

func TestResolveMixtureWithReactions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t, `(mix mixture
	  (species (names ch4 o2 co2))
	  (reactions (finite-rate (r1 (stoichiometry 1 2 1) (arrhenius 2.2e11 1e8)))))`)
	requireNoErrors(t, diags)
	require.Equal(t, matdb.Mixture, m.State)
	require.Equal(t, []string{"ch4", "o2", "co2"}, m.SpeciesNames)
	recs := m.Property("reactions")
	require.Len(t, recs, 1)
	rx, ok := recs[0].Coeff.(matdb.Reactions)
	require.True(t, ok, "expected reactions sub-record, got %T", recs[0].Coeff)
	require.Equal(t, "finite-rate", rx.Mechanism)
	require.Len(t, rx.Entries, 1)
	require.Equal(t, "r1", rx.Entries[0].Name)
	require.Len(t, rx.Entries[0].Fields, 2)
	require.Equal(t, "stoichiometry", rx.Entries[0].Fields[0].Name)
	require.Equal(t, []float64{1, 2, 1}, rx.Entries[0].Fields[0].Values)
	require.Equal(t, "arrhenius", rx.Entries[0].Fields[1].Name)
}

func TestResolvePiecewiseLinear(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t, `(air fluid
	  (specific-heat (polynomial piecewise-linear (300 . 1005) (1000 . 1142) (2500 . 1290))))`)
	requireNoErrors(t, diags)
	pl, ok := m.Property("specific-heat")[0].Coeff.(matdb.PiecewiseLinear)
	require.True(t, ok)
	require.Equal(t, []matdb.Point{{T: 300, V: 1005}, {T: 1000, V: 1142}, {T: 2500, V: 1290}}, pl.Points)
}

func TestResolvePolynomial(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t, `(ch4 fluid
	  (chemical-formula . ch4)
	  (molecular-weight (constant . 16.04))
	  (specific-heat (polynomial 429.929 1.874e0 -1.966e-4 4.802e-7 -1.966e-10)))`)
	requireNoErrors(t, diags)
	require.Equal(t, "g/mol", m.Property("molecular-weight")[0].Unit)
	poly, ok := m.Property("specific-heat")[0].Coeff.(matdb.Polynomial)
	require.True(t, ok)
	require.Len(t, poly.Coeffs, 5)
	require.Equal(t, 429.929, poly.Coeffs[0])
}

func TestResolveStringRefAndBoolean(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t, `(wet-steam fluid
	  (thermal-conductivity . water-vapor)
	  (absorption-coefficient . #t))`)
	requireNoErrors(t, diags)
	require.Equal(t, matdb.StringRef("water-vapor"), m.Property("thermal-conductivity")[0].Coeff)
	require.Equal(t, matdb.Boolean(true), m.Property("absorption-coefficient")[0].Coeff)
}

func TestResolveChemicalFormulaAbsent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t, `(air fluid (chemical-formula . #f))`)
	requireNoErrors(t, diags)
	require.Equal(t, "", m.ChemicalFormula)
	require.False(t, m.HasProperty("chemical-formula"))
}

func TestResolveFilmAveraged(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t, `(fuel fluid
	  (binary-diffusivity (film-averaged
	    (averaging-coefficient 0.3333)
	    (film-diffusivity (constant . 1e-5))))
	  (binary-diffusivity (constant . 2.88e-5)))`)
	requireNoErrors(t, diags)
	recs := m.Property("binary-diffusivity")
	require.Len(t, recs, 2)
	fa, ok := recs[0].Coeff.(matdb.FilmAveraged)
	require.True(t, ok, "expected film-averaged variant, got %T", recs[0].Coeff)
	require.Equal(t, 0.3333, fa.Averaging)
	require.NotNil(t, fa.Film)
	require.Equal(t, matdb.Constant(1e-5), fa.Film.Coeff)
	require.Equal(t, "m²/s", fa.Film.Unit)
	require.Equal(t, matdb.Constant(2.88e-5), recs[1].Coeff)
}

func TestResolveBadArityDemotesToOpaque(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	// sutherland needs exactly three coefficients
	m, diags := resolveOne(t, `(x fluid (viscosity (sutherland 1.7e-5 273.15)))`)
	requireNoErrors(t, diags)
	require.NotEmpty(t, diags)
	require.Equal(t, matdb.SeverityWarning, diags[0].Severity)
	recs := m.Property("viscosity")
	require.Len(t, recs, 1)
	op, ok := recs[0].Coeff.(matdb.Opaque)
	require.True(t, ok, "expected opaque demotion, got %T", recs[0].Coeff)
	require.Contains(t, op.Source, "273.15")
}

func TestResolveNonMonotonicRangesDemoteToOpaque(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t, `(x fluid
	  (specific-heat (polynomial piecewise-polynomial
	    (1000 6000 1 2) (200 1000 3 4))))`)
	requireNoErrors(t, diags)
	require.NotEmpty(t, diags)
	_, ok := m.Property("specific-heat")[0].Coeff.(matdb.Opaque)
	require.True(t, ok)
}

func TestResolvePropertyOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, diags := resolveOne(t, `(m fluid
	  (viscosity (constant . 1))
	  (density (constant . 2))
	  (viscosity (constant . 3))
	  (boiling-point (constant . 4)))`)
	requireNoErrors(t, diags)
	require.Equal(t, []string{"viscosity", "density", "boiling-point"}, m.PropertyNames())
	recs := m.Property("viscosity")
	require.Len(t, recs, 2)
	require.Equal(t, matdb.Constant(1), recs[0].Coeff)
	require.Equal(t, matdb.Constant(3), recs[1].Coeff)
}

func TestResolveInvalidStateForUnknownType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, _ := resolveOne(t, `(odd (density (constant . 1)))`)
	require.Equal(t, matdb.Invalid, m.State)
}

func TestResolveCombustionAlias(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.resolver")
	defer teardown()
	//
	m, _ := resolveOne(t, `(char combustion (density (constant . 1300)))`)
	require.Equal(t, matdb.Solid, m.State)
	require.True(t, m.Particles.Has(matdb.CombustingParticle))
}
