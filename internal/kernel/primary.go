package kernel

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/token"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// parsePostfix parses a PrimaryExpr followed by zero or more postfix
// suffixes: `[pred]`, `(args)` (a dynamic call on the primary's
// result), and `?key`/`?*`/`?(expr)` lookups (3.1+), per spec.md
// §4.3's general postfix-filter production.
func (p *Parser) parsePostfix() (ast.Node, error) {
	start := p.cur.Start
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.cur.Type == token.LBRACKET:
			pred, err := p.parsePredicate()
			if err != nil {
				return nil, err
			}
			if fe, ok := n.(*ast.FilterExpr); ok {
				fe.Predicates = append(fe.Predicates, pred)
			} else {
				n = &ast.FilterExpr{Primary: n, Predicates: []ast.Node{pred}, Sp: p.sp(start)}
			}
		case p.cur.Type == token.LPAREN:
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			n = &ast.DynamicCallExpr{Target: n, Args: args, Sp: p.sp(start)}
		case p.profile.MapsAndArrays && p.cur.Type == token.QUESTION:
			if err := p.advance(); err != nil {
				return nil, err
			}
			lookup := &ast.LookupExpr{Target: n, Sp: p.sp(start)}
			switch {
			case p.cur.Type == token.STAR:
				lookup.Star = true
				if err := p.advance(); err != nil {
					return nil, err
				}
			case p.cur.Type == token.LPAREN:
				if err := p.advance(); err != nil {
					return nil, err
				}
				key, err := p.parseExprSequence()
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.RPAREN); err != nil {
					return nil, err
				}
				lookup.KeyExpr = key
			case p.cur.Type == token.NAME || p.cur.Type == token.INTEGER:
				lookup.KeyExpr = &ast.Literal{Value: xdm.NewString(xdm.KString, p.cur.Lexeme), Sp: p.sp(start)}
				if p.cur.Type == token.INTEGER {
					i, _ := new(big.Int).SetString(p.cur.Lexeme, 10)
					lookup.KeyExpr = &ast.Literal{Value: xdm.NewIntegerBig(i), Sp: p.sp(start)}
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
			default:
				return nil, p.errorf(p.cur, "expected a lookup key, `*`, or `(expr)` after `?`")
			}
			n = lookup
		default:
			return n, nil
		}
	}
}

func (p *Parser) parseArgList() ([]ast.Node, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Node
	for p.cur.Type != token.RPAREN {
		a, err := p.parseExprSingle()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
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
	return args, nil
}

// parsePrimary parses a Literal, VarRef, ContextItemExpr,
// ParenthesizedExpr, FunctionCall, NamedFunctionRef, or (3.1+) a
// map/array constructor (spec.md §4.3/§4.6).
func (p *Parser) parsePrimary() (ast.Node, error) {
	start := p.cur.Start
	tok := p.cur
	switch tok.Type {
	case token.STRING:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Value: xdm.NewString(xdm.KString, tok.Lexeme), Sp: p.sp(start)}, nil

	case token.INTEGER:
		if err := p.advance(); err != nil {
			return nil, err
		}
		i, ok := new(big.Int).SetString(tok.Lexeme, 10)
		if !ok {
			return nil, p.errorf(tok, "invalid integer literal %q", tok.Lexeme)
		}
		return &ast.Literal{Value: xdm.NewIntegerBig(i), Sp: p.sp(start)}, nil

	case token.DECIMAL:
		if err := p.advance(); err != nil {
			return nil, err
		}
		r, ok := new(big.Rat).SetString(tok.Lexeme)
		if !ok {
			return nil, p.errorf(tok, "invalid decimal literal %q", tok.Lexeme)
		}
		return &ast.Literal{Value: xdm.NewDecimal(r), Sp: p.sp(start)}, nil

	case token.DOUBLE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid double literal %q", tok.Lexeme)
		}
		return &ast.Literal{Value: xdm.NewDouble(f), Sp: p.sp(start)}, nil

	case token.VARREF:
		if err := p.advance(); err != nil {
			return nil, err
		}
		uri, local, err := p.resolveQName(tok.Lexeme, tok, "")
		if err != nil {
			return nil, err
		}
		return &ast.VarRef{URI: uri, Local: local, Sp: p.sp(start)}, nil

	case token.DOT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.ContextItemExpr{Sp: p.sp(start)}, nil

	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Type == token.RPAREN {
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &ast.ParenExpr{Sp: p.sp(start)}, nil
		}
		inner, err := p.parseExprSequence()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Inner: inner, Sp: p.sp(start)}, nil

	case token.LBRACKET:
		if !p.profile.MapsAndArrays {
			return nil, p.errorf(tok, "array constructors require XPath 3.1")
		}
		return p.parseSquareArray()

	case token.NAME:
		if tok.Lexeme == "map" && p.peek.Type == token.LBRACE {
			if !p.profile.MapsAndArrays {
				return nil, p.errorf(tok, "map constructors require XPath 3.1")
			}
			return p.parseMapConstructor()
		}
		if tok.Lexeme == "array" && p.peek.Type == token.LBRACE {
			if !p.profile.MapsAndArrays {
				return nil, p.errorf(tok, "array constructors require XPath 3.1")
			}
			return p.parseCurlyArray()
		}
		if p.profile.InlineFunction && p.peek.Type == token.HASH {
			return p.parseNamedFunctionRef(tok)
		}
		if p.peek.Type == token.LPAREN {
			return p.parseFunctionCall(tok)
		}
		return nil, p.errorf(tok, "unexpected name %q in expression position", tok.Lexeme)
	}
	return nil, p.errorf(tok, "unexpected token %s %q", tok.Type, tok.Lexeme)
}

func (p *Parser) parseFunctionCall(name token.Token) (ast.Node, error) {
	start := name.Start
	if err := p.advance(); err != nil { // consume name
		return nil, err
	}
	uri, local, err := p.resolveQName(name.Lexeme, name, DefaultFunctionNamespace)
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionCallExpr{URI: uri, Local: local, Args: args, Sp: p.sp(start)}, nil
}

func (p *Parser) parseNamedFunctionRef(name token.Token) (ast.Node, error) {
	start := name.Start
	if err := p.advance(); err != nil { // consume name
		return nil, err
	}
	if _, err := p.expect(token.HASH); err != nil {
		return nil, err
	}
	arityTok, err := p.expect(token.INTEGER)
	if err != nil {
		return nil, err
	}
	arity, ok := new(big.Int).SetString(arityTok.Lexeme, 10)
	if !ok {
		return nil, p.errorf(arityTok, "invalid arity %q in named function reference", arityTok.Lexeme)
	}
	uri, local, err := p.resolveQName(name.Lexeme, name, DefaultFunctionNamespace)
	if err != nil {
		return nil, err
	}
	return &ast.NamedFunctionRefExpr{URI: uri, Local: local, Arity: int(arity.Int64()), Sp: p.sp(start)}, nil
}

func (p *Parser) parseMapConstructor() (ast.Node, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil { // consume "map"
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var entries []ast.MapEntryNode
	for p.cur.Type != token.RBRACE {
		key, err := p.parseExprSingle()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExprSingle()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.MapEntryNode{Key: key, Value: val})
		if p.cur.Type == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.MapConstructorExpr{Entries: entries, Sp: p.sp(start)}, nil
}

func (p *Parser) parseSquareArray() (ast.Node, error) {
	start := p.cur.Start
	if _, err := p.expect(token.LBRACKET); err != nil {
		return nil, err
	}
	var members []ast.Node
	for p.cur.Type != token.RBRACKET {
		m, err := p.parseExprSingle()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
		if p.cur.Type == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ArrayConstructorExpr{SquareMembers: members, Sp: p.sp(start)}, nil
}

func (p *Parser) parseCurlyArray() (ast.Node, error) {
	start := p.cur.Start
	if err := p.advance(); err != nil { // consume "array"
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	if p.cur.Type == token.RBRACE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.ArrayConstructorExpr{CurlyBody: &ast.ParenExpr{Sp: p.sp(start)}, Sp: p.sp(start)}, nil
	}
	body, err := p.parseExprSequence()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.ArrayConstructorExpr{CurlyBody: body, Sp: p.sp(start)}, nil
}

// resolveQName resolves a lexed NAME/VARREF lexeme (possibly prefixed,
// possibly a Q{uri}local literal) to an expanded (uri, local) pair.
// defaultURI is used for an unprefixed lexeme (the default function
// namespace for calls, "" for variables which have no default ns).
func (p *Parser) resolveQName(lexeme string, tok token.Token, defaultURI string) (uri, local string, err error) {
	if strings.HasPrefix(lexeme, "Q{") {
		end := strings.IndexByte(lexeme, '}')
		return lexeme[2:end], lexeme[end+1:], nil
	}
	if i := strings.IndexByte(lexeme, ':'); i >= 0 {
		prefix, loc := lexeme[:i], lexeme[i+1:]
		u, ok := p.resolveNS(prefix)
		if !ok {
			return "", "", p.errorf(tok, "unbound namespace prefix %q", prefix)
		}
		return u, loc, nil
	}
	return defaultURI, lexeme, nil
}
