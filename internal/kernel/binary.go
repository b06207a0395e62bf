package kernel

import (
	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/token"
)

// The chain below implements spec.md §4.4's operator precedence
// table as nested precedence-climbing calls, from loosest (or) to
// tightest (unary). Each level is a thin method so kernel.Profile gates
// (StringConcat, InstanceOf, SimpleMap) slot in exactly where the
// XPath 3.x grammar inserts their production.

func (p *Parser) parseOr() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for isName(p.cur, "or") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.OpOr, Left: left, Right: right, Sp: p.sp(start)}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for isName(p.cur, "and") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.OpAnd, Left: left, Right: right, Sp: p.sp(start)}
	}
	return left, nil
}

var generalCmp = map[token.Type]ast.OpKind{
	token.EQ: ast.OpGEq, token.NE: ast.OpGNe, token.LT: ast.OpGLt,
	token.LE: ast.OpGLe, token.GT: ast.OpGGt, token.GE: ast.OpGGe,
}

var valueCmpWords = map[string]ast.OpKind{
	"eq": ast.OpEq, "ne": ast.OpNe, "lt": ast.OpLt, "le": ast.OpLe, "gt": ast.OpGt, "ge": ast.OpGe,
}

// parseComparison handles general comparisons (=, !=, <, ...),
// value comparisons (eq, ne, ...; 2.0+), and node comparisons
// (is, <<, >>; 2.0+). XPath comparisons are non-associative, so this
// level consumes at most one operator (spec.md §4.4).
func (p *Parser) parseComparison() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseStringConcat()
	if err != nil {
		return nil, err
	}
	if op, ok := generalCmp[p.cur.Type]; ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseStringConcat()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: op, Left: left, Right: right, Sp: p.sp(start)}, nil
	}
	if p.profile.InstanceOf && p.cur.Type == token.NAME {
		if op, ok := valueCmpWords[p.cur.Lexeme]; ok {
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseStringConcat()
			if err != nil {
				return nil, err
			}
			return &ast.BinaryExpr{Op: op, Left: left, Right: right, Sp: p.sp(start)}, nil
		}
	}
	if p.profile.InstanceOf && isName(p.cur, "is") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseStringConcat()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.OpIs, Left: left, Right: right, Sp: p.sp(start)}, nil
	}
	if p.profile.InstanceOf && p.cur.Type == token.PRECEDES {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseStringConcat()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.OpPrecedes, Left: left, Right: right, Sp: p.sp(start)}, nil
	}
	if p.profile.InstanceOf && p.cur.Type == token.FOLLOWS {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseStringConcat()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.OpFollows, Left: left, Right: right, Sp: p.sp(start)}, nil
	}
	return left, nil
}

func (p *Parser) parseStringConcat() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	for p.profile.StringConcat && p.cur.Type == token.DPIPE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.OpStringConcat, Left: left, Right: right, Sp: p.sp(start)}
	}
	return left, nil
}

func (p *Parser) parseRange() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if isName(p.cur, "to") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.OpTo, Left: left, Right: right, Sp: p.sp(start)}, nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.PLUS || p.cur.Type == token.MINUS {
		op := ast.OpAdd
		if p.cur.Type == token.MINUS {
			op = ast.OpSub
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Sp: p.sp(start)}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.OpKind
		switch {
		case p.cur.Type == token.STAR:
			op = ast.OpMul
		case isName(p.cur, "div"):
			op = ast.OpDiv
		case isName(p.cur, "idiv"):
			op = ast.OpIDiv
		case isName(p.cur, "mod"):
			op = ast.OpMod
		default:
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Sp: p.sp(start)}
	}
}

func (p *Parser) parseUnion() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseIntersectExcept()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.PIPE || isName(p.cur, "union") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseIntersectExcept()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.OpUnion, Left: left, Right: right, Sp: p.sp(start)}
	}
	return left, nil
}

func (p *Parser) parseIntersectExcept() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseInstanceOf()
	if err != nil {
		return nil, err
	}
	for isName(p.cur, "intersect") || isName(p.cur, "except") {
		op := ast.OpIntersect
		if p.cur.Lexeme == "except" {
			op = ast.OpExcept
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseInstanceOf()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Sp: p.sp(start)}
	}
	return left, nil
}

func (p *Parser) parseInstanceOf() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseTreat()
	if err != nil {
		return nil, err
	}
	if p.profile.InstanceOf && isName(p.cur, "instance") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expectName("of"); err != nil {
			return nil, err
		}
		st, err := p.parseSequenceType()
		if err != nil {
			return nil, err
		}
		return &ast.InstanceOfExpr{Operand: left, Type: st, Sp: p.sp(start)}, nil
	}
	return left, nil
}

func (p *Parser) parseTreat() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseCastable()
	if err != nil {
		return nil, err
	}
	if p.profile.InstanceOf && isName(p.cur, "treat") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expectName("as"); err != nil {
			return nil, err
		}
		st, err := p.parseSequenceType()
		if err != nil {
			return nil, err
		}
		return &ast.TreatExpr{Operand: left, Type: st, Sp: p.sp(start)}, nil
	}
	return left, nil
}

func (p *Parser) parseCastable() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseCast()
	if err != nil {
		return nil, err
	}
	if p.profile.InstanceOf && isName(p.cur, "castable") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expectName("as"); err != nil {
			return nil, err
		}
		kind, optional, err := p.parseSingleType()
		if err != nil {
			return nil, err
		}
		return &ast.CastableExpr{Operand: left, Target: kind, Optional: optional, Sp: p.sp(start)}, nil
	}
	return left, nil
}

func (p *Parser) parseCast() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.profile.InstanceOf && isName(p.cur, "cast") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expectName("as"); err != nil {
			return nil, err
		}
		kind, optional, err := p.parseSingleType()
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Operand: left, Target: kind, Optional: optional, Sp: p.sp(start)}, nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	start := p.cur.Start
	if p.cur.Type == token.PLUS || p.cur.Type == token.MINUS {
		negate := p.cur.Type == token.MINUS
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Negate: negate, Operand: operand, Sp: p.sp(start)}, nil
	}
	return p.parseSimpleMap()
}

func (p *Parser) parseSimpleMap() (ast.Node, error) {
	start := p.cur.Start
	left, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	for p.profile.SimpleMap && p.cur.Type == token.BANG {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		left = &ast.SimpleMapExpr{Left: left, Right: right, Sp: p.sp(start)}
	}
	for p.profile.Arrow && p.cur.Type == token.ARROW {
		left, err = p.parseArrow(left, start)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) expectName(kw string) (token.Token, error) {
	if !isName(p.cur, kw) {
		return token.Token{}, p.errorf(p.cur, "expected keyword %q, got %q", kw, p.cur.Lexeme)
	}
	tok := p.cur
	return tok, p.advance()
}
