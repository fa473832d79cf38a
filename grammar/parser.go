package grammar

import (
	"fmt"

	"github.com/cfdkit/matdb"
	"github.com/npillmayer/gorgo/terex"
)

// Parser parses SCM material files into the raw AST. A parser is cheap to
// create and holds no state between files; the coefficient-keyword table
// is handed to it by value.
type Parser struct {
	keywords KeywordTable
}

// NewParser creates a parser with the default coefficient-keyword table.
func NewParser() *Parser {
	return &Parser{keywords: DefaultKeywords()}
}

// NewParserWith creates a parser with a custom keyword table.
func NewParserWith(keywords KeywordTable) *Parser {
	return &Parser{keywords: keywords}
}

// ParseFile parses a complete source file. Lexical errors are fatal and
// returned; syntactic errors become diagnostics, and the parser resyncs to
// the next top-level material.
func (p *Parser) ParseFile(src []byte) (*RawFile, []matdb.Diagnostic, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, nil, err
	}
	run := &parserRun{
		ts:       NewTokenStream(src, toks),
		keywords: p.keywords,
	}
	file := run.parseFile()
	tracer().Infof("parsed %d materials, %d diagnostics", len(file.Materials), len(run.diags))
	return file, run.diags, nil
}

type parserRun struct {
	ts       *TokenStream
	keywords KeywordTable
	diags    []matdb.Diagnostic
}

func (r *parserRun) syntaxError(offset uint64, material string, format string, args ...interface{}) {
	r.diags = append(r.diags, matdb.Diagnostic{
		Severity: matdb.SeverityError,
		Material: material,
		Offset:   offset,
		Message:  fmt.Sprintf(format, args...),
	})
}

// parseFile reads material* until EOF.
func (r *parserRun) parseFile() *RawFile {
	file := &RawFile{}
	for !r.ts.AtEOF() {
		tok := r.ts.Peek()
		if tok.Kind != LParen {
			r.syntaxError(tok.Start, "", "expected material '(' but got %s", tok)
			r.ts.Next()
			continue
		}
		mark := r.ts.Mark()
		mat, err := r.parseMaterial()
		if err != nil {
			name := ""
			if mat != nil {
				name = mat.Name
			}
			r.syntaxError(tok.Start, name, "%v", err)
			r.resync(mark)
			continue
		}
		file.Materials = append(file.Materials, mat)
	}
	return file
}

// resync skips to the next top-level material: rewind to the offending
// opening parenthesis and scan to parenthesis depth zero.
func (r *parserRun) resync(mark int) {
	r.ts.ResetTo(mark)
	depth := 0
	for {
		t := r.ts.Next()
		switch t.Kind {
		case LParen:
			depth++
		case RParen:
			depth--
			if depth <= 0 {
				return
			}
		case EOF:
			return
		}
	}
}

// material := '(' symbol type-decl? property* ')'
func (r *parserRun) parseMaterial() (*RawMaterial, error) {
	open := r.ts.Next() // '(' guaranteed by caller
	name := r.ts.Next()
	if name.Kind != Symbol {
		return nil, fmt.Errorf("expected material name symbol, got %s", name)
	}
	m := &RawMaterial{Name: name.Str, Offset: open.Start}
	// A bare symbol after the name is the type declaration. The list form
	// (solid inert-particle) arrives through the property path and is
	// resolved to state and particle flags there.
	for r.ts.Peek().Kind == Symbol {
		m.TypeTags = append(m.TypeTags, r.ts.Next().Str)
	}
	for {
		tok := r.ts.Peek()
		switch tok.Kind {
		case RParen:
			r.ts.Next()
			return m, nil
		case LParen:
			prop, err := r.parseProperty()
			if err != nil {
				return m, err
			}
			m.Props = append(m.Props, prop)
		case EOF:
			return m, fmt.Errorf("unexpected end of input in material %q", m.Name)
		default:
			return m, fmt.Errorf("expected property in material %q, got %s", m.Name, tok)
		}
	}
}

// property := '(' property-body ')'
func (r *parserRun) parseProperty() (*RawProperty, error) {
	open := r.ts.Next() // '('
	nameTok := r.ts.Next()
	if nameTok.Kind != Symbol {
		return nil, fmt.Errorf("expected property name, got %s", nameTok)
	}
	prop := &RawProperty{Name: nameTok.Str, Offset: open.Start}
	bodyStart := r.ts.Peek().Start
	for {
		tok := r.ts.Peek()
		switch tok.Kind {
		case RParen:
			closing := r.ts.Next()
			prop.Raw = r.ts.Source(bodyStart, closing.Start)
			return prop, nil
		case Dot:
			r.ts.Next()
			atom, err := r.parseAtom()
			if err != nil {
				return prop, fmt.Errorf("property %q: %v", prop.Name, err)
			}
			prop.Direct = atom
		case Symbol:
			prop.Args = append(prop.Args, r.ts.Next().Str)
		case String:
			prop.Args = append(prop.Args, r.ts.Next().Str)
		case Number:
			prop.Nums = append(prop.Nums, r.ts.Next().Num)
		case HashT, HashF:
			t := r.ts.Next()
			prop.Direct = &RawAtom{Kind: t.Kind, Bool: t.Kind == HashT}
		case LParen:
			if err := r.parsePropertyBlock(prop); err != nil {
				return prop, fmt.Errorf("property %q: %v", prop.Name, err)
			}
		case EOF:
			return prop, fmt.Errorf("unexpected end of input in property %q", prop.Name)
		}
	}
}

// parsePropertyBlock classifies one parenthesized argument of a property:
// a coefficient-typed parameter block, a (names …) list, a film-averaged
// block, or a bare sub-expression kept as terex cells.
func (r *parserRun) parsePropertyBlock(prop *RawProperty) error {
	mark := r.ts.Mark()
	open := r.ts.Next() // '('
	head := r.ts.Peek()
	if head.Kind == Symbol {
		if kw := r.consumeKeyword(); kw != KeyNone {
			param, err := r.parseParamTail(kw, open)
			if err != nil {
				return err
			}
			prop.Params = append(prop.Params, param)
			return nil
		}
		switch head.Str {
		case "names":
			r.ts.Next()
			for r.ts.Peek().Kind == Symbol {
				prop.Names = append(prop.Names, r.ts.Next().Str)
			}
			if r.ts.Peek().Kind == RParen {
				r.ts.Next()
				return nil
			}
			// irregular names list: re-read as a bare sub-expression
			prop.Names = nil
		case "film-averaged":
			r.ts.Next()
			film, err := r.parseFilm(open)
			if err == nil {
				prop.Films = append(prop.Films, film)
				return nil
			}
			tracer().Debugf("film-averaged block not regular: %v", err)
		}
	}
	r.ts.ResetTo(mark)
	expr, err := r.parseExpr()
	if err != nil {
		return err
	}
	if expr != nil {
		prop.Exprs = append(prop.Exprs, expr)
	}
	return nil
}

// consumeKeyword consumes a coefficient keyword, combining the two-word
// polynomial forms, or consumes nothing and returns KeyNone.
func (r *parserRun) consumeKeyword() CoeffKeyword {
	head := r.ts.Peek()
	if head.Kind != Symbol {
		return KeyNone
	}
	kw, ok := r.keywords[head.Str]
	if !ok {
		return KeyNone
	}
	r.ts.Next()
	if kw == KeyPolynomial {
		if next := r.ts.Peek(); next.Kind == Symbol {
			if sub, ok := polynomialSubKeywords[next.Str]; ok {
				r.ts.Next()
				return sub
			}
		}
	}
	return kw
}

// parseParamTail reads the tail of a parameter block. The tail is total:
// whatever does not match the regular alternatives is captured verbatim as
// a raw tail, never dropped.
func (r *parserRun) parseParamTail(kw CoeffKeyword, open Token) (*RawParam, error) {
	param := &RawParam{Coeff: kw, Offset: open.Start}
	tailStart := r.ts.Peek().Start
	tailMark := r.ts.Mark()
	switch r.ts.Peek().Kind {
	case Dot:
		r.ts.Next()
		atom, err := r.parseAtom()
		if err == nil && r.ts.Peek().Kind == RParen {
			closing := r.ts.Next()
			param.Tail = TailDotted
			param.Atom = atom
			param.Raw = r.ts.Source(tailStart, closing.Start)
			return param, nil
		}
	case Number:
		for r.ts.Peek().Kind == Number {
			param.Flat = append(param.Flat, r.ts.Next().Num)
		}
		if r.ts.Peek().Kind == RParen {
			closing := r.ts.Next()
			param.Tail = TailFlat
			param.Raw = r.ts.Source(tailStart, closing.Start)
			return param, nil
		}
		param.Flat = nil
	case LParen:
		pairs := true
		broken := false
		for r.ts.Peek().Kind == LParen {
			piece, isPair, err := r.parsePiece()
			if err != nil {
				broken = true
				break
			}
			if !isPair {
				pairs = false
			}
			param.Pieces = append(param.Pieces, piece)
		}
		if !broken && len(param.Pieces) > 0 && r.ts.Peek().Kind == RParen {
			closing := r.ts.Next()
			if pairs {
				param.Tail = TailPairs
			} else {
				param.Tail = TailPieces
			}
			param.Raw = r.ts.Source(tailStart, closing.Start)
			return param, nil
		}
		param.Pieces = nil
	}
	// raw-tail fallback
	r.ts.ResetTo(tailMark)
	raw, err := r.skipToClose(tailStart)
	if err != nil {
		return param, err
	}
	param.Tail = TailRaw
	param.Raw = raw
	return param, nil
}

// skipToClose consumes up to and including the matching closing
// parenthesis of the currently open block and returns the verbatim source
// in between.
func (r *parserRun) skipToClose(start uint64) (string, error) {
	depth := 1
	for {
		t := r.ts.Next()
		switch t.Kind {
		case LParen:
			depth++
		case RParen:
			depth--
			if depth == 0 {
				return r.ts.Source(start, t.Start), nil
			}
		case EOF:
			return "", fmt.Errorf("unexpected end of input, unbalanced parentheses")
		}
	}
}

// poly-piece := '(' number+ ')' | '(' number '.' number ')'
func (r *parserRun) parsePiece() ([]float64, bool, error) {
	r.ts.Next() // '('
	first := r.ts.Peek()
	if first.Kind != Number {
		return nil, false, fmt.Errorf("expected number in coefficient piece, got %s", first)
	}
	r.ts.Next()
	if r.ts.Peek().Kind == Dot { // temperature-value pair
		r.ts.Next()
		second := r.ts.Next()
		if second.Kind != Number {
			return nil, false, fmt.Errorf("expected number after '.', got %s", second)
		}
		if closing := r.ts.Next(); closing.Kind != RParen {
			return nil, false, fmt.Errorf("expected ')' after pair, got %s", closing)
		}
		return []float64{first.Num, second.Num}, true, nil
	}
	nums := []float64{first.Num}
	for r.ts.Peek().Kind == Number {
		nums = append(nums, r.ts.Next().Num)
	}
	if closing := r.ts.Next(); closing.Kind != RParen {
		return nil, false, fmt.Errorf("expected ')' after coefficients, got %s", closing)
	}
	return nums, false, nil
}

// film-averaged := '(' 'film-averaged' '(' film-member+ ')' ')'
// Both the wrapped form and members directly following the keyword occur
// in the wild; accept either.
func (r *parserRun) parseFilm(open Token) (*RawFilm, error) {
	film := &RawFilm{Offset: open.Start}
	wrapped := false
	if r.ts.Peek().Kind == LParen && r.ts.PeekAt(1).Kind == LParen {
		wrapped = true
		r.ts.Next()
	}
	for r.ts.Peek().Kind == LParen {
		if err := r.parseFilmMember(film); err != nil {
			return nil, err
		}
	}
	if wrapped {
		if t := r.ts.Next(); t.Kind != RParen {
			return nil, fmt.Errorf("expected ')' closing film members, got %s", t)
		}
	}
	if t := r.ts.Next(); t.Kind != RParen {
		return nil, fmt.Errorf("expected ')' closing film-averaged, got %s", t)
	}
	if film.Diffusivity == nil {
		return nil, fmt.Errorf("film-averaged without film-diffusivity member")
	}
	return film, nil
}

func (r *parserRun) parseFilmMember(film *RawFilm) error {
	open := r.ts.Next() // '('
	name := r.ts.Next()
	if name.Kind != Symbol {
		return fmt.Errorf("expected film member name, got %s", name)
	}
	switch name.Str {
	case "averaging-coefficient":
		if r.ts.Peek().Kind == Dot {
			r.ts.Next()
		}
		v := r.ts.Next()
		if v.Kind != Number {
			return fmt.Errorf("expected averaging coefficient number, got %s", v)
		}
		film.Averaging = v.Num
		if t := r.ts.Next(); t.Kind != RParen {
			return fmt.Errorf("expected ')' after averaging coefficient, got %s", t)
		}
	case "film-diffusivity":
		switch r.ts.Peek().Kind {
		case LParen:
			inner := r.ts.Next()
			kw := r.consumeKeyword()
			if kw == KeyNone {
				// unknown inner block: keep it verbatim
				start := r.ts.Peek().Start
				raw, err := r.skipToClose(start)
				if err != nil {
					return err
				}
				film.Diffusivity = &RawParam{Coeff: KeyNone, Tail: TailRaw, Raw: raw, Offset: inner.Start}
			} else {
				param, err := r.parseParamTail(kw, inner)
				if err != nil {
					return err
				}
				film.Diffusivity = param
			}
		case Dot:
			tailStart := r.ts.Peek().Start
			r.ts.Next()
			atom, err := r.parseAtom()
			if err != nil {
				return err
			}
			raw := r.ts.Source(tailStart, r.ts.Peek().Start)
			film.Diffusivity = &RawParam{Coeff: KeyConstant, Tail: TailDotted, Atom: atom, Raw: raw, Offset: open.Start}
		default:
			return fmt.Errorf("expected film-diffusivity block, got %s", r.ts.Peek())
		}
		if t := r.ts.Next(); t.Kind != RParen {
			return fmt.Errorf("expected ')' after film-diffusivity, got %s", t)
		}
	default:
		// tolerate unknown members
		start := r.ts.Peek().Start
		if _, err := r.skipToClose(start); err != nil {
			return err
		}
	}
	return nil
}

// simple-value / dotted atom
func (r *parserRun) parseAtom() (*RawAtom, error) {
	t := r.ts.Next()
	switch t.Kind {
	case Number:
		return &RawAtom{Kind: Number, Num: t.Num}, nil
	case Symbol:
		return &RawAtom{Kind: Symbol, Sym: t.Str}, nil
	case String:
		return &RawAtom{Kind: String, Sym: t.Str}, nil
	case HashT:
		return &RawAtom{Kind: HashT, Bool: true}, nil
	case HashF:
		return &RawAtom{Kind: HashF, Bool: false}, nil
	}
	return nil, fmt.Errorf("expected atom, got %s", t)
}

// parseExpr reads one parenthesized expression into terex cells. Dotted
// pairs flatten to plain lists; the resolver only enumerates these trees.
func (r *parserRun) parseExpr() (*terex.GCons, error) {
	if t := r.ts.Next(); t.Kind != LParen {
		return nil, fmt.Errorf("expected '(', got %s", t)
	}
	return r.parseExprTail()
}

func (r *parserRun) parseExprTail() (*terex.GCons, error) {
	tok := r.ts.Peek()
	switch tok.Kind {
	case RParen:
		r.ts.Next()
		return nil, nil
	case EOF:
		return nil, fmt.Errorf("unexpected end of input in expression")
	case Dot:
		r.ts.Next()
		return r.parseExprTail()
	}
	var atom terex.Atom
	switch tok.Kind {
	case LParen:
		sub, err := r.parseExpr()
		if err != nil {
			return nil, err
		}
		if sub == nil { // empty sublist carries no information
			return r.parseExprTail()
		}
		atom = terex.Atomize(sub)
	case Number:
		r.ts.Next()
		atom = terex.Atomize(tok.Num)
	case Symbol, String:
		r.ts.Next()
		atom = terex.Atomize(tok.Str)
	case HashT:
		r.ts.Next()
		atom = terex.Atomize("#t")
	case HashF:
		r.ts.Next()
		atom = terex.Atomize("#f")
	}
	rest, err := r.parseExprTail()
	if err != nil {
		return nil, err
	}
	return terex.Cons(atom, rest), nil
}
