package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

func tokenize(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case isSpace(c):
			i++
		case isDigit(c) || c == '.':
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			// exponent part: e[+-]digits, only when digits follow
			if i < len(src) && src[i] == 'e' {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(src[j]) {
					for j < len(src) && isDigit(src[j]) {
						j++
					}
					i = j
				}
			}
			text := src[start:i]
			v, err := strconv.ParseFloat(text, 64)
			// underflow to zero is accepted; overflow and malformed literals are not
			if err != nil && (!errors.Is(err, strconv.ErrRange) || math.IsInf(v, 0)) {
				return nil, &SyntaxError{Pos: start, Msg: fmt.Sprintf("invalid number %q", text)}
			}
			toks = append(toks, token{kind: tokNumber, text: text, num: v, pos: start})
		case isLetter(c):
			start := i
			for i < len(src) && isLetter(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

// node is the parsed form. It only lives long enough to be printed as a
// govaluate program.
type node interface {
	emit(b *strings.Builder)
}

type numberNode struct{ v float64 }

type varNode struct{}

type negNode struct{ arg node }

type binaryNode struct {
	op          byte
	left, right node
}

type callNode struct {
	name string
	args []node
}

func (n numberNode) emit(b *strings.Builder) {
	b.WriteString(strconv.FormatFloat(n.v, 'f', -1, 64))
}

func (varNode) emit(b *strings.Builder) {
	b.WriteString(variable)
}

func (n negNode) emit(b *strings.Builder) {
	b.WriteString("(-(")
	n.arg.emit(b)
	b.WriteString("))")
}

func (n binaryNode) emit(b *strings.Builder) {
	b.WriteByte('(')
	n.left.emit(b)
	switch n.op {
	case '^':
		b.WriteString(" ** ")
	default:
		b.WriteByte(' ')
		b.WriteByte(n.op)
		b.WriteByte(' ')
	}
	n.right.emit(b)
	b.WriteByte(')')
}

func (n callNode) emit(b *strings.Builder) {
	b.WriteString(n.name)
	b.WriteByte('(')
	for i, a := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.emit(b)
	}
	b.WriteByte(')')
}

type parser struct {
	toks []token
	pos  int
}

// parse turns sanitized source into a tree. Grammar:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("-" | "+") unary | power
//	power   = primary [ "^" unary ]
//	primary = number | "x" | "pi" | "e" | name "(" expr { "," expr } ")" | "(" expr ")"
func parse(src string) (node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops string) (byte, bool) {
	t := p.peek()
	if t.kind == tokOp && strings.Contains(ops, t.text) {
		return t.text[0], true
	}
	return 0, false
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.isOp("+-")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.isOp("*/")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) unary() (node, error) {
	if op, ok := p.isOp("+-"); ok {
		p.next()
		arg, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == '-' {
			return negNode{arg: arg}, nil
		}
		return arg, nil
	}
	return p.power()
}

func (p *parser) power() (node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.isOp("^"); !ok {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return binaryNode{op: '^', left: base, right: exp}, nil
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return numberNode{v: t.num}, nil
	case tokLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	case tokIdent:
		return p.identifier(t)
	case tokEOF:
		return nil, &SyntaxError{Pos: t.pos, Msg: "unexpected end of expression"}
	default:
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
}

func (p *parser) identifier(t token) (node, error) {
	switch t.text {
	case variable:
		return varNode{}, nil
	case "pi":
		return numberNode{v: math.Pi}, nil
	case "e":
		return numberNode{v: math.E}, nil
	}

	fn, ok := functions[t.text]
	if !ok {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unknown identifier %q", t.text)}
	}
	if err := p.expect(tokLParen, "("); err != nil {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("%s must be called with arguments", t.text)}
	}

	var args []node
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	if err := p.expect(tokRParen, ")"); err != nil {
		return nil, err
	}

	if len(args) < fn.minArgs || (fn.maxArgs > 0 && len(args) > fn.maxArgs) {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("%s: %s", t.text, fn.arityText())}
	}
	return callNode{name: t.text, args: args}, nil
}

func (p *parser) expect(kind tokenKind, text string) error {
	t := p.peek()
	if t.kind != kind {
		got := t.text
		if t.kind == tokEOF {
			got = "end of expression"
		}
		return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("expected %q, got %q", text, got)}
	}
	p.next()
	return nil
}
