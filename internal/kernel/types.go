package kernel

import (
	"github.com/funvibe/xpathlite/internal/axes"
	"github.com/funvibe/xpathlite/internal/token"
	"github.com/funvibe/xpathlite/internal/xdm"
)

const xsNamespace = "http://www.w3.org/2001/XMLSchema"

// parseSequenceType parses the `instance of`/`treat as` SequenceType
// grammar: "empty-sequence()" or ItemType followed by an optional
// occurrence indicator (spec.md §3).
func (p *Parser) parseSequenceType() (xdm.SequenceType, error) {
	if isName(p.cur, "empty-sequence") && p.peek.Type == token.LPAREN {
		if err := p.advance(); err != nil {
			return xdm.SequenceType{}, err
		}
		if _, err := p.expect(token.LPAREN); err != nil {
			return xdm.SequenceType{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return xdm.SequenceType{}, err
		}
		return xdm.SequenceType{Item: xdm.ItemType{Kind: xdm.EmptySequenceItem}}, nil
	}
	it, err := p.parseItemType()
	if err != nil {
		return xdm.SequenceType{}, err
	}
	occ := xdm.ExactlyOne
	switch p.cur.Type {
	case token.QUESTION:
		occ = xdm.ZeroOrOne
		if err := p.advance(); err != nil {
			return xdm.SequenceType{}, err
		}
	case token.STAR:
		occ = xdm.ZeroOrMore
		if err := p.advance(); err != nil {
			return xdm.SequenceType{}, err
		}
	case token.PLUS:
		occ = xdm.OneOrMore
		if err := p.advance(); err != nil {
			return xdm.SequenceType{}, err
		}
	}
	return xdm.SequenceType{Item: it, Occurrence: occ}, nil
}

// parseItemType parses ItemType: item(), a KindTest, an atomic type
// name, function(*)/function(params) as R, map(*)/map(K,V),
// array(*)/array(T), or a parenthesized ItemType (spec.md §3).
func (p *Parser) parseItemType() (xdm.ItemType, error) {
	tok := p.cur
	if tok.Type == token.LPAREN {
		if err := p.advance(); err != nil {
			return xdm.ItemType{}, err
		}
		it, err := p.parseItemType()
		if err != nil {
			return xdm.ItemType{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return xdm.ItemType{}, err
		}
		return it, nil
	}
	if tok.Type != token.NAME {
		return xdm.ItemType{}, p.errorf(tok, "expected a type name")
	}
	switch {
	case tok.Lexeme == "item" && p.peek.Type == token.LPAREN:
		if err := p.advance(); err != nil {
			return xdm.ItemType{}, err
		}
		if _, err := p.expect(token.LPAREN); err != nil {
			return xdm.ItemType{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return xdm.ItemType{}, err
		}
		return xdm.AnyItemType, nil
	case tok.Lexeme == "function" && p.peek.Type == token.LPAREN:
		return p.parseFunctionTest()
	case tok.Lexeme == "map" && p.peek.Type == token.LPAREN:
		return p.parseMapTest()
	case tok.Lexeme == "array" && p.peek.Type == token.LPAREN:
		return p.parseArrayTest()
	case token.KindTests[tok.Lexeme] && p.peek.Type == token.LPAREN:
		nt, err := p.parseKindTest()
		if err != nil {
			return xdm.ItemType{}, err
		}
		return kindTestToItemType(nt), nil
	}
	if err := p.advance(); err != nil {
		return xdm.ItemType{}, err
	}
	_, local, err := p.resolveQName(tok.Lexeme, tok, xsNamespace)
	if err != nil {
		return xdm.ItemType{}, err
	}
	k, ok := xdm.KindByName("xs:" + local)
	if !ok {
		return xdm.ItemType{}, p.errorf(tok, "unknown atomic type %q", tok.Lexeme)
	}
	return xdm.ItemType{Kind: xdm.AtomicItem, AtomicKind: k}, nil
}

func kindTestToItemType(nt axes.NodeTest) xdm.ItemType {
	if !nt.HasKind {
		return xdm.ItemType{Kind: xdm.KindTestItem, NodeKindAny: true}
	}
	return xdm.ItemType{Kind: xdm.KindTestItem, NodeKind: nt.Kind, Name: nt.Local}
}

func (p *Parser) parseFunctionTest() (xdm.ItemType, error) {
	if err := p.advance(); err != nil { // "function"
		return xdm.ItemType{}, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return xdm.ItemType{}, err
	}
	if p.cur.Type == token.STAR {
		if err := p.advance(); err != nil {
			return xdm.ItemType{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return xdm.ItemType{}, err
		}
		return xdm.ItemType{Kind: xdm.FunctionItem_, Signature: xdm.FunctionSignature{AnyArity: true}}, nil
	}
	var params []xdm.SequenceType
	for p.cur.Type != token.RPAREN {
		st, err := p.parseSequenceType()
		if err != nil {
			return xdm.ItemType{}, err
		}
		params = append(params, st)
		if p.cur.Type == token.COMMA {
			if err := p.advance(); err != nil {
				return xdm.ItemType{}, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return xdm.ItemType{}, err
	}
	result := xdm.ZeroOrMoreItems
	if isName(p.cur, "as") {
		if err := p.advance(); err != nil {
			return xdm.ItemType{}, err
		}
		r, err := p.parseSequenceType()
		if err != nil {
			return xdm.ItemType{}, err
		}
		result = r
	}
	return xdm.ItemType{Kind: xdm.FunctionItem_, Signature: xdm.FunctionSignature{ParamTypes: params, ResultType: &result}}, nil
}

func (p *Parser) parseMapTest() (xdm.ItemType, error) {
	if err := p.advance(); err != nil { // "map"
		return xdm.ItemType{}, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return xdm.ItemType{}, err
	}
	if p.cur.Type == token.STAR {
		if err := p.advance(); err != nil {
			return xdm.ItemType{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return xdm.ItemType{}, err
		}
		return xdm.ItemType{Kind: xdm.MapItemType}, nil
	}
	keyIt, err := p.parseItemType()
	if err != nil {
		return xdm.ItemType{}, err
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return xdm.ItemType{}, err
	}
	if _, err := p.parseSequenceType(); err != nil { // value type, not separately tracked
		return xdm.ItemType{}, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return xdm.ItemType{}, err
	}
	return xdm.ItemType{Kind: xdm.MapItemType, KeyType: keyIt.AtomicKind}, nil
}

func (p *Parser) parseArrayTest() (xdm.ItemType, error) {
	if err := p.advance(); err != nil { // "array"
		return xdm.ItemType{}, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return xdm.ItemType{}, err
	}
	if p.cur.Type == token.STAR {
		if err := p.advance(); err != nil {
			return xdm.ItemType{}, err
		}
	} else if _, err := p.parseSequenceType(); err != nil {
		return xdm.ItemType{}, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return xdm.ItemType{}, err
	}
	return xdm.ItemType{Kind: xdm.ArrayItemType}, nil
}

// parseSingleType parses the `cast as`/`castable as` SingleType
// grammar: an atomic type name with an optional trailing `?` (spec.md
// §4.4).
func (p *Parser) parseSingleType() (xdm.Kind, bool, error) {
	tok := p.cur
	if tok.Type != token.NAME {
		return 0, false, p.errorf(tok, "expected an atomic type name")
	}
	if err := p.advance(); err != nil {
		return 0, false, err
	}
	_, local, err := p.resolveQName(tok.Lexeme, tok, xsNamespace)
	if err != nil {
		return 0, false, err
	}
	k, ok := xdm.KindByName("xs:" + local)
	if !ok {
		return 0, false, p.errorf(tok, "unknown atomic type %q", tok.Lexeme)
	}
	optional := false
	if p.cur.Type == token.QUESTION {
		optional = true
		if err := p.advance(); err != nil {
			return 0, false, err
		}
	}
	return k, optional, nil
}
