package grammar

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2025 Norbert Pillmayer <norbert@pillmayer.com>
*/

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	lex "github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// TokKind classifies SCM tokens.
type TokKind int8

// The tokens of the SCM dialect. Comments and whitespace are skipped
// between tokens and never surface here.
const (
	EOF TokKind = iota
	LParen
	RParen
	Dot
	HashT
	HashF
	Number
	String
	Symbol
)

func (k TokKind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Dot:
		return "'.'"
	case HashT:
		return "#t"
	case HashF:
		return "#f"
	case Number:
		return "NUMBER"
	case String:
		return "STRING"
	case Symbol:
		return "SYMBOL"
	}
	return fmt.Sprintf("<illegal token kind: %d>", k)
}

// Lexical errors. These are fatal for the current file.
var (
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrUnknownEscape      = errors.New("unknown escape sequence in string")
	ErrMalformedNumber    = errors.New("malformed number")
)

// Token is one lexeme of the input, together with its byte span. Number
// tokens carry their parsed value in Num, string and symbol tokens carry
// their (unescaped) text in Str.
type Token struct {
	Kind   TokKind
	Lexeme string
	Num    float64
	Str    string
	Start  uint64
	End    uint64
}

func (t Token) String() string {
	if t.Kind == Symbol || t.Kind == Number {
		return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
	}
	return t.Kind.String()
}

// A symbol starts with a letter or allowed punctuation and then consumes
// alphanumerics and punctuation until the next whitespace or parenthesis.
// The set permits embedded angle-tagged suffixes such as h2o<l>.
const symbolPattern = `[a-zA-Z\-<>=\+_\.\*/:\[\]\{\},][a-zA-Z0-9\-<>=\+_\.\*/:\[\]\{\},]*`

var initOnce sync.Once // monitors one-time creation of the lexer

var scmLexer *lex.Lexer
var scmLexerErr error

// initLexer builds the lexmachine rule set once. Rule order matters: on
// equally long matches the rule added first wins, which is how a lone dot
// becomes a Dot token instead of a one-char symbol.
func initLexer() {
	initOnce.Do(func() {
		l := lex.NewLexer()
		l.Add([]byte(`;[^\n]*\n?`), skip)      // comments run to end of line
		l.Add([]byte(`( |\t|\n|\r)+`), skip)   // ASCII whitespace
		l.Add([]byte(`\(`), makeToken(LParen))
		l.Add([]byte(`\)`), makeToken(RParen))
		l.Add([]byte(`#t`), makeToken(HashT))
		l.Add([]byte(`#f`), makeToken(HashF))
		l.Add([]byte(`[\+\-]?[0-9]+(\.[0-9]+)?([eE][\+\-]?[0-9]+)?`), number)
		l.Add([]byte(`[\+\-]?\.[0-9]+([eE][\+\-]?[0-9]+)?`), number)
		l.Add([]byte(`\"([^"\\]|\\.)*\"`), stringLiteral)
		l.Add([]byte(`\"([^"\\]|\\.)*`), unterminatedString)
		l.Add([]byte(`\.`), makeToken(Dot))
		l.Add([]byte(symbolPattern), symbol)
		l.Add([]byte(`.`), symbol) // the lexer is total: anything else is a one-char symbol
		scmLexerErr = l.Compile()
		scmLexer = l
	})
}

func skip(s *lex.Scanner, m *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(kind TokKind) lex.Action {
	return func(s *lex.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(kind), string(m.Bytes), m), nil
	}
}

func symbol(s *lex.Scanner, m *machines.Match) (interface{}, error) {
	return s.Token(int(Symbol), string(m.Bytes), m), nil
}

func number(s *lex.Scanner, m *machines.Match) (interface{}, error) {
	f, err := strconv.ParseFloat(string(m.Bytes), 64)
	if err != nil {
		return nil, fmt.Errorf("%q at byte %d: %w", string(m.Bytes), m.TC, ErrMalformedNumber)
	}
	return s.Token(int(Number), f, m), nil
}

func stringLiteral(s *lex.Scanner, m *machines.Match) (interface{}, error) {
	text, err := unescape(m.Bytes[1 : len(m.Bytes)-1])
	if err != nil {
		return nil, fmt.Errorf("at byte %d: %w", m.TC, err)
	}
	return s.Token(int(String), text, m), nil
}

func unterminatedString(s *lex.Scanner, m *machines.Match) (interface{}, error) {
	return nil, fmt.Errorf("at byte %d: %w", m.TC, ErrUnterminatedString)
}

func unescape(raw []byte) (string, error) {
	var b []byte
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b = append(b, c)
			continue
		}
		i++
		if i >= len(raw) {
			return "", ErrUnknownEscape
		}
		switch raw[i] {
		case '"':
			b = append(b, '"')
		case '\\':
			b = append(b, '\\')
		case 'n':
			b = append(b, '\n')
		case 't':
			b = append(b, '\t')
		case 'r':
			b = append(b, '\r')
		default:
			return "", fmt.Errorf("'\\%c': %w", raw[i], ErrUnknownEscape)
		}
	}
	return string(b), nil
}

// Tokenize turns a complete source file into a token slice, terminated by
// an EOF token. Lexical errors abort the scan.
func Tokenize(input []byte) ([]Token, error) {
	initLexer()
	if scmLexerErr != nil {
		return nil, scmLexerErr
	}
	scan, err := scmLexer.Scanner(input)
	if err != nil {
		return nil, err
	}
	var toks []Token
	for tok, err, eos := scan.Next(); !eos; tok, err, eos = scan.Next() {
		if err != nil {
			return nil, err
		}
		if tok == nil {
			continue
		}
		t := tok.(*lex.Token)
		token := Token{
			Kind:   TokKind(t.Type),
			Lexeme: string(t.Lexeme),
			Start:  uint64(t.TC),
			End:    uint64(t.TC + len(t.Lexeme)),
		}
		switch token.Kind {
		case Number:
			token.Num = t.Value.(float64)
		case String, Symbol:
			token.Str = t.Value.(string)
		}
		tracer().Debugf("SCM lexer accepting %s", token)
		toks = append(toks, token)
	}
	toks = append(toks, Token{Kind: EOF, Start: uint64(len(input)), End: uint64(len(input))})
	return toks, nil
}
