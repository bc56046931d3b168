package jsonc

import (
	"forma/internal/diag"
	"forma/internal/lexer"
	"forma/internal/source"
	"forma/internal/token"
)

// Result is the outcome of parsing one file.
type Result struct {
	Doc *Document
	// Errors counts syntax and lexical errors.
	Errors uint
}

// Parser - состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	lastSpan source.Span   // span последнего съеденного токена для лучшей диагностики
	tape     []token.Token // все съеденные токены, из них собираются Bogus
	lexErrs  countingReporter
}

// countingReporter counts the errors the lexer reports before forwarding
// them.
type countingReporter struct {
	next   diag.Reporter
	errors uint
}

func (r *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	if sev == diag.SevError {
		r.errors++
	}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

// Parse is the entry point for one file.
func Parse(file *source.File, opts Options) Result {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	p := &Parser{file: file, opts: opts}
	p.lexErrs.next = opts.Reporter
	p.lx = lexer.New(file, lexer.Options{Reporter: &p.lexErrs, AllowComments: opts.AllowComments})
	p.lastSpan = p.lx.EmptySpan()

	doc := p.parseDocument()
	return Result{Doc: doc, Errors: p.opts.CurrentErrors + p.lexErrs.errors}
}

func (p *Parser) parseDocument() *Document {
	doc := &Document{File: p.file}
	if !p.at(token.EOF) {
		doc.Root = p.parseValue(0)
	}
	if !p.at(token.EOF) {
		p.err(diag.SynTrailingContent, "end of file expected")
		start := len(p.tape)
		for !p.at(token.EOF) {
			p.advance()
		}
		doc.Extra = append(doc.Extra, p.bogusFrom(start))
	}
	doc.EOF = p.lx.Next()
	return doc
}

func (p *Parser) parseValue(depth int) Value {
	tok := p.lx.Peek()
	switch {
	case tok.Kind == token.LBrace || tok.Kind == token.LBracket:
		if depth >= p.opts.MaxDepth {
			p.err(diag.SynNestingTooDeep, "nesting is too deep")
			return p.skipNested()
		}
		if tok.Kind == token.LBrace {
			return p.parseObject(depth + 1)
		}
		return p.parseArray(depth + 1)
	case tok.IsLiteral():
		return &Scalar{Tok: p.advance()}
	case tok.Kind == token.Ident || tok.Kind == token.Invalid || tok.Kind == token.Colon:
		p.err(diag.SynExpectValue, "expected a value, found "+describe(tok))
		start := len(p.tape)
		p.advance()
		return p.bogusFrom(start)
	default:
		p.err(diag.SynExpectValue, "expected a value, found "+describe(tok))
		return nil
	}
}

// parseObject разбирает `{ ... }`. Ошибка на уровне самого объекта делает
// его целиком Bogus; ошибки во вложенных значениях остаются в них.
func (p *Parser) parseObject(depth int) Value {
	start := len(p.tape)
	obj := &Object{Open: p.advance()}
	broken := false
	for {
		switch p.lx.Peek().Kind {
		case token.RBrace:
			obj.Close = p.advance()
			if broken {
				return p.bogusFrom(start)
			}
			return obj
		case token.EOF, token.RBracket:
			p.reportAt(diag.SynUnclosedBrace, obj.Open.Span, "expected '}' to close this object")
			return p.bogusFrom(start)
		case token.Comma:
			broken = true
			p.err(diag.SynExpectPropertyName, "expected a property name, found ','")
			p.advance()
			continue
		}

		m, ok := p.parseMember(depth)
		broken = broken || !ok
		if m != nil {
			obj.Members = append(obj.Members, m)
		}

		switch next := p.lx.Peek(); next.Kind {
		case token.Comma:
			c := p.advance()
			obj.Commas = append(obj.Commas, c)
			if p.at(token.RBrace) {
				obj.TrailingComma = true
				if !p.opts.AllowTrailingCommas {
					p.reportTrailingComma(c.Span, "expected a property but instead found '}'")
				}
			}
		case token.RBrace, token.EOF, token.RBracket:
		default:
			broken = true
			p.err(diag.SynMissingComma, "expected ',' between members")
		}
	}
}

func (p *Parser) parseMember(depth int) (Node, bool) {
	start := len(p.tape)
	name := p.lx.Peek()
	if name.Kind != token.String {
		p.err(diag.SynExpectPropertyName, "expected a property name, found "+describe(name))
		p.skipUntil(token.Comma, token.RBrace)
		return p.bogusFrom(start), false
	}
	p.advance()
	colon, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after property name")
	if !ok {
		p.skipUntil(token.Comma, token.RBrace)
		return p.bogusFrom(start), false
	}
	v := p.parseValue(depth)
	if v == nil {
		return p.bogusFrom(start), false
	}
	return &Member{Name: &Scalar{Tok: name}, Colon: colon, Value: v}, true
}

func (p *Parser) parseArray(depth int) Value {
	start := len(p.tape)
	arr := &Array{Open: p.advance()}
	broken := false
	for {
		switch p.lx.Peek().Kind {
		case token.RBracket:
			arr.Close = p.advance()
			if broken {
				return p.bogusFrom(start)
			}
			return arr
		case token.EOF, token.RBrace:
			p.reportAt(diag.SynUnclosedBracket, arr.Open.Span, "expected ']' to close this array")
			return p.bogusFrom(start)
		case token.Comma:
			// дырка `[1,,2]`
			broken = true
			p.err(diag.SynExpectValue, "expected a value, found ','")
			p.advance()
			continue
		}

		if v := p.parseValue(depth); v != nil {
			arr.Elements = append(arr.Elements, v)
		}

		switch p.lx.Peek().Kind {
		case token.Comma:
			c := p.advance()
			arr.Commas = append(arr.Commas, c)
			if p.at(token.RBracket) {
				arr.TrailingComma = true
				if !p.opts.AllowTrailingCommas {
					p.reportTrailingComma(c.Span, "expected a value but instead found ']'")
				}
			}
		case token.RBracket, token.EOF, token.RBrace:
		default:
			broken = true
			p.err(diag.SynMissingComma, "expected ',' between elements")
		}
	}
}
