package expr

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"
)

// cond is a compiled rule fragment.
type cond func(a attributes) (bool, error)

// parser is a recursive-descent parser over a text/scanner token stream:
//
//	or      = and { "||" and }
//	and     = unary { "&&" unary }
//	unary   = "!" unary | primary
//	primary = "(" or ")" | ident [ ("==" | "!=" | "~=") operand ]
//	operand = string | number | true | false | null | ident
type parser struct {
	sc   scanner.Scanner
	tok  rune
	text string
	err  error
}

func parse(rule string) (cond, error) {
	p := &parser{}
	p.sc.Init(strings.NewReader(rule))
	p.sc.Mode = scanner.ScanIdents | scanner.ScanFloats | scanner.ScanStrings
	p.sc.IsIdentRune = func(ch rune, i int) bool {
		return ch == '_' || unicode.IsLetter(ch) || (i > 0 && (ch == '.' || unicode.IsDigit(ch)))
	}
	p.sc.Error = func(_ *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = fmt.Errorf("visibility/expr: %s", msg)
		}
	}
	p.next()

	root := p.or()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail("unexpected token %q", p.text)
	}
	if p.err != nil {
		return nil, p.err
	}
	return root, nil
}

// operatorPairs maps the first rune of each two-rune operator to its second.
var operatorPairs = map[rune]rune{'=': '=', '~': '=', '!': '=', '&': '&', '|': '|'}

// next advances to the following token, folding two-character operators.
func (p *parser) next() {
	p.tok = p.sc.Scan()
	p.text = p.sc.TokenText()
	switch p.tok {
	case '=', '~', '!', '&', '|':
		pair := operatorPairs[p.tok]
		if p.sc.Peek() == pair {
			p.sc.Next()
			p.text += string(pair)
			return
		}
		if p.tok != '!' {
			p.fail("unexpected %q; use %q", p.text, p.text+string(pair))
		}
	}
}

func (p *parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("visibility/expr: "+format, args...)
	}
}

func (p *parser) accept(text string) bool {
	if p.err != nil || p.text != text {
		return false
	}
	p.next()
	return true
}

func (p *parser) or() cond {
	left := p.and()
	for p.accept("||") {
		l, r := left, p.and()
		left = func(a attributes) (bool, error) {
			if ok, err := l(a); err != nil || ok {
				return ok, err
			}
			return r(a)
		}
	}
	return left
}

func (p *parser) and() cond {
	left := p.unary()
	for p.accept("&&") {
		l, r := left, p.unary()
		left = func(a attributes) (bool, error) {
			if ok, err := l(a); err != nil || !ok {
				return false, err
			}
			return r(a)
		}
	}
	return left
}

func (p *parser) unary() cond {
	if p.accept("!") {
		inner := p.unary()
		return func(a attributes) (bool, error) {
			ok, err := inner(a)
			return !ok && err == nil, err
		}
	}
	return p.primary()
}

func (p *parser) primary() cond {
	if p.err != nil {
		return nil
	}
	if p.accept("(") {
		inner := p.or()
		if !p.accept(")") {
			p.fail("missing closing ')'")
		}
		return inner
	}
	if p.tok != scanner.Ident {
		if p.tok == scanner.EOF {
			p.fail("empty expression")
		} else {
			p.fail("expected identifier, got %q", p.text)
		}
		return nil
	}
	ident := p.text
	p.next()

	op := p.text
	if op != "==" && op != "!=" && op != "~=" {
		return func(a attributes) (bool, error) {
			value, _ := a.lookup(ident)
			return truthy(value), nil
		}
	}
	p.next()
	want := p.operand()
	if p.err != nil {
		return nil
	}
	if op == "~=" {
		pattern, ok := want.(string)
		if !ok {
			p.fail("'~=' expects a string pattern, got %v", want)
			return nil
		}
		if _, err := path.Match(pattern, ""); err != nil {
			p.fail("invalid pattern %q: %v", pattern, err)
			return nil
		}
	}
	return func(a attributes) (bool, error) {
		got, _ := a.lookup(ident)
		return compare(op, got, want)
	}
}

// operand returns a string, float64, bool or nil literal. Bare identifiers
// read as strings.
func (p *parser) operand() any {
	defer p.next()
	switch p.tok {
	case scanner.String:
		value, err := strconv.Unquote(p.text)
		if err != nil {
			p.fail("invalid string literal %s", p.text)
		}
		return value
	case scanner.Int, scanner.Float:
		value, _ := strconv.ParseFloat(p.text, 64)
		return value
	case '-', '+':
		sign := p.text
		p.next()
		if p.tok != scanner.Int && p.tok != scanner.Float {
			p.fail("invalid number literal %q", sign+p.text)
			return nil
		}
		value, _ := strconv.ParseFloat(sign+p.text, 64)
		return value
	case scanner.Ident:
		switch strings.ToLower(p.text) {
		case "true":
			return true
		case "false":
			return false
		case "null", "nil":
			return nil
		}
		return p.text
	case scanner.EOF:
		p.fail("missing literal")
	default:
		p.fail("expected literal, got %q", p.text)
	}
	return nil
}

func compare(op string, got, want any) (bool, error) {
	var equal bool
	switch w := want.(type) {
	case nil:
		equal = got == nil
	case bool:
		equal = truthy(got) == w
	case float64:
		n, ok := number(got)
		equal = ok && n == w
	case string:
		s := ""
		if got != nil {
			s = fmt.Sprint(got)
		}
		if op == "~=" {
			return path.Match(w, s)
		}
		equal = s == w
	default:
		return false, errors.New("visibility/expr: unsupported literal")
	}
	if op == "!=" {
		return !equal, nil
	}
	return equal, nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	if n, ok := number(value); ok {
		return n != 0
	}
	return true
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
