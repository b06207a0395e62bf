// Package token defines the lexical token vocabulary shared by every
// XPath dialect (1.0 through 3.1). A dialect never invents a new Type;
// it only registers which lexemes map to which Type and which of
// those types get nud/led actions in internal/kernel.
package token

import "fmt"

// Type identifies the lexical category of a Token.
type Type string

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	// Literals and names.
	NAME     Type = "NAME"     // unqualified or qualified name, incl. wildcards
	STRING   Type = "STRING"
	INTEGER  Type = "INTEGER"
	DECIMAL  Type = "DECIMAL"
	DOUBLE   Type = "DOUBLE"
	VARREF   Type = "VARREF" // $name

	// Axis step punctuation.
	SLASH       Type = "/"
	DSLASH      Type = "//"
	DOT         Type = "."
	DDOT        Type = ".."
	AT          Type = "@"
	DCOLON      Type = "::"
	LBRACKET    Type = "["
	RBRACKET    Type = "]"
	LBRACE      Type = "{" // map/array/inline-function bodies (3.0+)
	RBRACE      Type = "}"
	LPAREN      Type = "("
	RPAREN      Type = ")"
	COMMA       Type = ","
	COLON       Type = ":"  // map-entry key:value separator (3.1+)
	ASSIGN      Type = ":=" // `let $x := E` binding (2.0+)
	BANG        Type = "!"  // simple map (3.0+)
	QUESTION    Type = "?"  // lookup / occurrence indicator (3.0+)
	HASH        Type = "#"  // named function reference name#arity (3.0+)

	// Operators.
	PLUS    Type = "+"
	MINUS   Type = "-"
	STAR    Type = "*"
	PIPE    Type = "|"
	DPIPE   Type = "||" // string concat (3.0+)
	EQ      Type = "="
	NE      Type = "!="
	LT      Type = "<"
	LE      Type = "<="
	GT      Type = ">"
	GE      Type = ">="
	PRECEDES Type = "<<"
	FOLLOWS  Type = ">>"
	ARROW    Type = "=>" // arrow operator (3.1+)

	// Keyword-like tokens; recognised contextually by the lexer
	// (spec.md §4.2: "element" is a kind test or a name depending on
	// lookahead).
	KW_AND       Type = "and"
	KW_OR        Type = "or"
	KW_DIV       Type = "div"
	KW_IDIV      Type = "idiv"
	KW_MOD       Type = "mod"
	KW_UNION     Type = "union"
	KW_INTERSECT Type = "intersect"
	KW_EXCEPT    Type = "except"
	KW_TO        Type = "to"
	KW_IS        Type = "is"
	KW_EQ        Type = "eq"
	KW_NE        Type = "ne"
	KW_LT        Type = "lt"
	KW_LE        Type = "le"
	KW_GT        Type = "gt"
	KW_GE        Type = "ge"
	KW_IF        Type = "if"
	KW_THEN      Type = "then"
	KW_ELSE      Type = "else"
	KW_FOR       Type = "for"
	KW_LET       Type = "let"
	KW_RETURN    Type = "return"
	KW_SOME      Type = "some"
	KW_EVERY     Type = "every"
	KW_IN        Type = "in"
	KW_SATISFIES Type = "satisfies"
	KW_CAST      Type = "cast"
	KW_CASTABLE  Type = "castable"
	KW_TREAT     Type = "treat"
	KW_INSTANCE  Type = "instance"
	KW_OF        Type = "of"
	KW_AS        Type = "as"
)

// Token is one lexical unit produced by internal/lexer.
type Token struct {
	Type    Type
	Lexeme  string
	Start   int // byte offset into the source
	End     int
	Literal interface{} // parsed literal value for numbers/strings
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Lexeme, t.Start, t.End)
}

// Keywords is the full set of context-sensitive reserved words across
// all dialects; a given dialect's lexer only treats a subset of these
// as keywords and otherwise falls back to NAME (spec.md §4.2).
var Keywords = map[string]Type{
	"and": KW_AND, "or": KW_OR, "div": KW_DIV, "idiv": KW_IDIV, "mod": KW_MOD,
	"union": KW_UNION, "intersect": KW_INTERSECT, "except": KW_EXCEPT, "to": KW_TO,
	"is": KW_IS, "eq": KW_EQ, "ne": KW_NE, "lt": KW_LT, "le": KW_LE, "gt": KW_GT, "ge": KW_GE,
	"if": KW_IF, "then": KW_THEN, "else": KW_ELSE,
	"for": KW_FOR, "let": KW_LET, "return": KW_RETURN,
	"some": KW_SOME, "every": KW_EVERY, "in": KW_IN, "satisfies": KW_SATISFIES,
	"cast": KW_CAST, "castable": KW_CASTABLE, "treat": KW_TREAT,
	"instance": KW_INSTANCE, "of": KW_OF, "as": KW_AS,
}

// Axes is the set of axis names recognised before '::'.
var Axes = []string{
	"child", "descendant", "descendant-or-self", "self", "parent",
	"ancestor", "ancestor-or-self", "following-sibling", "preceding-sibling",
	"following", "preceding", "attribute", "namespace",
}

// KindTests is the set of node-kind-test function names (spec.md §4.3).
var KindTests = map[string]bool{
	"node": true, "text": true, "comment": true, "processing-instruction": true,
	"element": true, "attribute": true, "document-node": true,
	"schema-element": true, "schema-attribute": true, "item": true,
	"empty-sequence": true, "function": true, "map": true, "array": true,
}
