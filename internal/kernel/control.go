package kernel

import (
	"strings"

	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/token"
)

// parseForLet parses one or more "for $x in E" / "let $x := E" clauses
// (each clause itself a comma-separated binding list) followed by a
// mandatory "return" (spec.md §4.5's FLWOR-lite).
func (p *Parser) parseForLet() (ast.Node, error) {
	start := p.cur.Start
	var bindings []ast.Binding
	for isName(p.cur, "for") || isName(p.cur, "let") {
		isFor := isName(p.cur, "for")
		if !isFor && !p.profile.LetBinding {
			return nil, p.errorf(p.cur, "let binding requires XPath 3.0 or later")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		for {
			varTok, err := p.expect(token.VARREF)
			if err != nil {
				return nil, err
			}
			uri, local, err := p.resolveQName(varTok.Lexeme, varTok, "")
			if err != nil {
				return nil, err
			}
			if isFor {
				if _, err := p.expectName("in"); err != nil {
					return nil, err
				}
			} else {
				if _, err := p.expect(token.ASSIGN); err != nil {
					return nil, err
				}
			}
			src, err := p.parseExprSingle()
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, ast.Binding{URI: uri, Local: local, Source: src, IsFor: isFor})
			if p.cur.Type == token.COMMA {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if _, err := p.expectName("return"); err != nil {
		return nil, err
	}
	ret, err := p.parseExprSingle()
	if err != nil {
		return nil, err
	}
	return &ast.ForLetExpr{Bindings: bindings, Return: ret, Sp: p.sp(start)}, nil
}

// parseQuantified parses "some $x in E, ... satisfies C" / "every ...
// satisfies C" (spec.md §4.5).
func (p *Parser) parseQuantified() (ast.Node, error) {
	start := p.cur.Start
	kind := ast.Some
	if isName(p.cur, "every") {
		kind = ast.Every
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var bindings []ast.Binding
	for {
		varTok, err := p.expect(token.VARREF)
		if err != nil {
			return nil, err
		}
		uri, local, err := p.resolveQName(varTok.Lexeme, varTok, "")
		if err != nil {
			return nil, err
		}
		if _, err := p.expectName("in"); err != nil {
			return nil, err
		}
		src, err := p.parseExprSingle()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, ast.Binding{URI: uri, Local: local, Source: src, IsFor: true})
		if p.cur.Type == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expectName("satisfies"); err != nil {
		return nil, err
	}
	sat, err := p.parseExprSingle()
	if err != nil {
		return nil, err
	}
	return &ast.QuantifiedExpr{Kind: kind, Bindings: bindings, Satisfies: sat, Sp: p.sp(start)}, nil
}

// parseIf parses "if (cond) then T else E" (spec.md §4.5).
func (p *Parser) parseIf() (ast.Node, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil { // consume "if"
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExprSequence()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expectName("then"); err != nil {
		return nil, err
	}
	then, err := p.parseExprSingle()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectName("else"); err != nil {
		return nil, err
	}
	els, err := p.parseExprSingle()
	if err != nil {
		return nil, err
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: els, Sp: p.sp(start)}, nil
}

// parseInlineFunction parses "function(params) (as SequenceType)? {
// body? }" (spec.md §4.6); declared parameter/result types are parsed
// to stay in sync with the token stream but not retained (spec.md
// Non-goals: no schema-validated function signatures).
func (p *Parser) parseInlineFunction() (ast.Node, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil { // consume "function"
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for p.cur.Type != token.RPAREN {
		varTok, err := p.expect(token.VARREF)
		if err != nil {
			return nil, err
		}
		params = append(params, paramLocalName(varTok.Lexeme))
		if isName(p.cur, "as") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if _, err := p.parseSequenceType(); err != nil {
				return nil, err
			}
		}
		if p.cur.Type == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if isName(p.cur, "as") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.parseSequenceType(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var body ast.Node
	if p.cur.Type != token.RBRACE {
		b, err := p.parseExprSequence()
		if err != nil {
			return nil, err
		}
		body = b
	} else {
		body = &ast.ParenExpr{Sp: p.sp(start)}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.InlineFunctionExpr{Params: params, Body: body, Sp: p.sp(start)}, nil
}

func paramLocalName(lexeme string) string {
	if i := strings.IndexByte(lexeme, ':'); i >= 0 {
		return lexeme[i+1:]
	}
	return lexeme
}
