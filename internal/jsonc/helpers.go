package jsonc

import (
	"fmt"
	"slices"

	"forma/internal/diag"
	"forma/internal/source"
	"forma/internal/token"
)

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// advance - съедает следующий токен, пишет его на ленту и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
		p.tape = append(p.tape, tok)
	}
	return tok
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.reportAt(code, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan}, false
}

// getDiagnosticSpan - для EOF указываем сразу за последним токеном, а не в
// конец файла после хвостовых комментариев
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.reportAt(code, p.getDiagnosticSpan(), msg)
}

func (p *Parser) reportAt(code diag.Code, sp source.Span, msg string, fixes ...diag.Fix) bool {
	enough := p.opts.Enough()
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil || enough {
		return false // нет reporter или достигли лимита
	}
	p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, fixes)
	return true
}

// reportTrailingComma offers deleting the comma.
func (p *Parser) reportTrailingComma(comma source.Span, msg string) {
	p.reportAt(diag.SynTrailingComma, comma, msg, diag.Fix{
		Title: "remove the trailing comma",
		Edits: []diag.FixEdit{{Span: comma}},
	})
}

// skipUntil съедает токены до одного из stop на нулевой глубине скобок или EOF.
// Хотя бы один токен съедается всегда, если это не stop.
func (p *Parser) skipUntil(stop ...token.Kind) {
	level := 0
	for !p.at(token.EOF) {
		k := p.lx.Peek().Kind
		if level == 0 && slices.Contains(stop, k) {
			return
		}
		switch k {
		case token.LBrace, token.LBracket:
			level++
		case token.RBrace, token.RBracket:
			if level == 0 {
				return
			}
			level--
		}
		p.advance()
	}
}

// skipNested съедает контейнер целиком, не разбирая его.
func (p *Parser) skipNested() *Bogus {
	start := len(p.tape)
	level := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LBrace, token.LBracket:
			level++
		case token.RBrace, token.RBracket:
			level--
		}
		if level == 0 {
			break
		}
	}
	return p.bogusFrom(start)
}

func (p *Parser) bogusFrom(start int) *Bogus {
	return &Bogus{Tokens: slices.Clone(p.tape[start:])}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "the end of the file"
	case token.Ident, token.Invalid:
		return fmt.Sprintf("%q", tok.Text)
	}
	return tok.Kind.String()
}
