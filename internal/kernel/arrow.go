package kernel

import (
	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/token"
)

// parseArrow parses the `=> name(args)` / `=> $f(args)` /
// `=> (expr)(args)` tail of a simple-map level expression (spec.md
// §4.4: "E => f(args) ≡ f(E, args)"), given the already-parsed left
// operand and its start offset.
func (p *Parser) parseArrow(left ast.Node, start int) (ast.Node, error) {
	if err := p.advance(); err != nil { // consume '=>'
		return nil, err
	}
	var callee ast.Node
	var uri, local string
	switch {
	case p.cur.Type == token.NAME:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		u, l, err := p.resolveQName(tok.Lexeme, tok, DefaultFunctionNamespace)
		if err != nil {
			return nil, err
		}
		uri, local = u, l
	case p.cur.Type == token.VARREF:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		u, l, err := p.resolveQName(tok.Lexeme, tok, "")
		if err != nil {
			return nil, err
		}
		callee = &ast.VarRef{URI: u, Local: l, Sp: p.spanOf(tok)}
	case p.cur.Type == token.LPAREN:
		e, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		callee = e
	default:
		return nil, p.errorf(p.cur, "expected a function name, variable, or parenthesized expression after `=>`")
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	return &ast.ArrowExpr{Left: left, URI: uri, Local: local, CalleeExpr: callee, Args: args, Sp: p.sp(start)}, nil
}
