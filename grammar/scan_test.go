package grammar

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestTokenKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	input := `(air fluid (density (constant . 1.225)))`
	toks, err := Tokenize([]byte(input))
	if err != nil {
		t.Fatal(err)
	}
	expect := []TokKind{
		LParen, Symbol, Symbol, LParen, Symbol, LParen, Symbol, Dot, Number,
		RParen, RParen, RParen, EOF,
	}
	if len(toks) != len(expect) {
		t.Fatalf("expected %d tokens, got %d", len(expect), len(toks))
	}
	for i, kind := range expect {
		if toks[i].Kind != kind {
			t.Errorf("token %d: expected %s, got %s", i, kind, toks[i].Kind)
		}
	}
}

func TestScanNumbers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	for i, pair := range []struct {
		s string
		v float64
	}{
		{s: "1", v: 1.0},
		{s: "1.225", v: 1.225},
		{s: "-1.567", v: -1.567},
		{s: "+2", v: 2.0},
		{s: "1.716e-5", v: 1.716e-5},
		{s: "4.802E+7", v: 4.802e7},
		{s: "-.5", v: -0.5},
		{s: ".25e2", v: 25},
	} {
		toks, err := Tokenize([]byte(pair.s))
		if err != nil {
			t.Fatalf("test %d: %v", i, err)
		}
		if toks[0].Kind != Number {
			t.Errorf("test %d: %q not recognized as number, got %s", i, pair.s, toks[0])
			continue
		}
		if toks[0].Num != pair.v {
			t.Errorf("test %d: %q = %g, expected %g", i, pair.s, toks[0].Num, pair.v)
		}
	}
}

func TestScanSymbols(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	for i, s := range []string{
		"air", "h2o<l>", "water-liquid", "chemical-formula", "c2h5oh<g>",
		"coal-mv", "a_b", "n*m", "a/b", "x:y", "a[1]", "s{2}", "a,b",
	} {
		toks, err := Tokenize([]byte(s))
		if err != nil {
			t.Fatalf("test %d: %v", i, err)
		}
		if len(toks) != 2 || toks[0].Kind != Symbol {
			t.Errorf("test %d: %q did not scan as one symbol: %v", i, s, toks)
			continue
		}
		if toks[0].Str != s {
			t.Errorf("test %d: symbol %q lost text, got %q", i, s, toks[0].Str)
		}
	}
}

func TestScanDotInSymbol(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	toks, err := Tokenize([]byte("h2o.liquid (a . b)"))
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != Symbol || toks[0].Str != "h2o.liquid" {
		t.Errorf("expected symbol h2o.liquid, got %s", toks[0])
	}
	// the freestanding dot inside the list must be a Dot token
	if toks[3].Kind != Dot {
		t.Errorf("expected Dot token, got %s", toks[3])
	}
}

func TestScanBooleansAndComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	input := "#t #f ; a comment running to end of line\n#t"
	toks, err := Tokenize([]byte(input))
	if err != nil {
		t.Fatal(err)
	}
	expect := []TokKind{HashT, HashF, HashT, EOF}
	for i, kind := range expect {
		if toks[i].Kind != kind {
			t.Errorf("token %d: expected %s, got %s", i, kind, toks[i].Kind)
		}
	}
}

func TestScanStrings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	toks, err := Tokenize([]byte(`"hello \"world\"\n"`))
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != String {
		t.Fatalf("expected string token, got %s", toks[0])
	}
	if toks[0].Str != "hello \"world\"\n" {
		t.Errorf("escapes not resolved, got %q", toks[0].Str)
	}
}

func TestScanStringErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	if _, err := Tokenize([]byte(`"no closing quote`)); !errors.Is(err, ErrUnterminatedString) {
		t.Errorf("expected unterminated-string error, got %v", err)
	}
	if _, err := Tokenize([]byte(`"bad \q escape"`)); !errors.Is(err, ErrUnknownEscape) {
		t.Errorf("expected unknown-escape error, got %v", err)
	}
}

func TestScanIsTotal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	// unrecognized characters become one-char symbols
	toks, err := Tokenize([]byte("§ ! %"))
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, tok := range toks {
		if tok.Kind == Symbol {
			count++
		}
	}
	if count == 0 {
		t.Error("expected junk input to scan as symbols")
	}
}

func TestScanOffsets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "matdb.grammar")
	defer teardown()
	//
	input := "(abc 1.5)"
	toks, err := Tokenize([]byte(input))
	if err != nil {
		t.Fatal(err)
	}
	for _, tok := range toks[:len(toks)-1] {
		if input[tok.Start:tok.End] != tok.Lexeme {
			t.Errorf("span of %s does not cover its lexeme: %q", tok,
				input[tok.Start:tok.End])
		}
	}
}
