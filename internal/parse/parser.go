// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package parse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports a malformed query string. Position is the offset of
// the offending character and Expected lists the alternatives the parser
// would have accepted there. The message is meant to be shown to the person
// who typed the query.
type SyntaxError struct {
	Position int
	Expected []string
}

func (e *SyntaxError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("syntax error at position %d", e.Position)
	}
	return fmt.Sprintf("syntax error at position %d: expected %s",
		e.Position, strings.Join(e.Expected, " or "))
}

// Parser parses the search query syntax into a [Query] tree.
type Parser struct {
	input string
	pos   int
	// nextPos is start of the next char.
	nextPos int
	// char is the rune starting at pos. char is set to 0 when pos reaches
	// the end of input.
	char rune
}

// NewParser returns a reference to a new parser.
func NewParser() *Parser {
	return &Parser{}
}

// init resets the state of the parser and sets the input string.
func (p *Parser) init(input string) {
	p.input = input
	p.pos = 0
	p.nextPos = 0
	p.char = 0
	p.advanceChar()
}

// Parse parses a query string into an optional boolean expression followed
// by an optional sort clause. It performs no semantic validation: field
// aliases, permissions and type compatibility are checked by the resolver.
func (p *Parser) Parse(input string) (*Query, error) {
	p.init(input)
	var q Query

	p.skipBlanks()
	if !p.eof() && !p.peekChar(';') {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		q.Expr = expr
	}
	p.skipBlanks()
	if p.skipChar(';') {
		sort, err := p.parseSort()
		if err != nil {
			return nil, err
		}
		q.Sort = sort
	}
	p.skipBlanks()
	if !p.eof() {
		return nil, p.errorAt(`"AND"`, `"OR"`, `";"`, "end of input")
	}
	return &q, nil
}

// parseExpr parses one atom followed by zero or more (connector, atom)
// pairs. A missing connector between two atoms means And. The resulting
// chain is flat: grouping is only introduced by brackets in the query.
func (p *Parser) parseExpr() (Expr, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	exprs := []Expr{atom}
	var conns []Connector
	for {
		p.skipBlanks()
		if p.eof() || p.peekChar(';') || p.peekChar(')') || p.peekChar('}') || p.peekChar(']') {
			break
		}
		conn, _ := p.parseConnector()
		p.skipBlanks()
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, atom)
		conns = append(conns, conn)
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return &Chain{Exprs: exprs, Conns: conns}, nil
}

// parseConnector parses a boolean connector token. It returns And and false
// when no connector is present, which the grammar treats as an implicit And.
func (p *Parser) parseConnector() (Connector, bool) {
	if p.skipChar('+') || p.skipString("&&") || p.skipKeyword("AND") {
		return And, true
	}
	if p.skipString("||") || p.skipKeyword("OR") {
		return Or, true
	}
	return And, false
}

// parseAtom parses an optional inversion marker followed by a primary.
// Stacked inversions cancel each other out.
func (p *Parser) parseAtom() (Expr, error) {
	invert := false
	for {
		if p.skipChar('!') {
			invert = !invert
			p.skipBlanks()
			continue
		}
		if p.skipKeyword("NOT") {
			invert = !invert
			p.skipBlanks()
			continue
		}
		break
	}
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if invert {
		return &Not{Expr: expr}, nil
	}
	return expr, nil
}

// brackets maps every accepted group opener to its closer. The three pairs
// are interchangeable.
var brackets = map[rune]rune{'(': ')', '{': '}', '[': ']'}

// parsePrimary parses a bracketed expression, a field condition or a bare
// term, in that order of preference.
func (p *Parser) parsePrimary() (Expr, error) {
	if closer, ok := brackets[p.char]; ok {
		p.advanceChar()
		p.skipBlanks()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipBlanks()
		if !p.skipChar(closer) {
			return nil, p.errorAt(fmt.Sprintf("%q", string(closer)))
		}
		return expr, nil
	}

	// A name followed by a comparison operator is a field condition. If no
	// operator follows the name is re-read as a term.
	cp := p.save()
	if name, ok := p.parseName(); ok {
		p.skipBlanks()
		if op, ok := p.parseOp(); ok {
			p.skipBlanks()
			term, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			return &Condition{Alias: name, HasField: true, Op: op, Term: term}, nil
		}
		cp.restore()
	}
	term, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return &Condition{Op: OpEqual, Term: term}, nil
}

// parseName parses a field name: a letter or underscore followed by any
// name characters.
func (p *Parser) parseName() (string, bool) {
	if !(unicode.IsLetter(p.char) || p.char == '_') {
		return "", false
	}
	start := p.pos
	for !p.eof() && isNameChar(p.char) {
		p.advanceChar()
	}
	return p.input[start:p.pos], true
}

// parseOp parses a comparison operator, normalizing the alias spellings.
func (p *Parser) parseOp() (Op, bool) {
	for _, t := range opTokens {
		if p.skipString(t.token) {
			return t.op, true
		}
	}
	return OpEqual, false
}

// parseTerm parses a date literal, a value with a range suffix, or a value
// with optional start and end markers.
func (p *Parser) parseTerm() (Term, error) {
	var t Term
	if v, ok := p.parseDate(); ok {
		t.Value = v
		upper, ok, err := p.parseRangeSuffix()
		if err != nil {
			return Term{}, err
		}
		if ok {
			t.Upper = upper
		}
		return t, nil
	}
	if p.peekChar('^') || p.peekChar('*') {
		t.Prefix = p.char
		p.advanceChar()
	}
	v, err := p.parseValue()
	if err != nil {
		return Term{}, err
	}
	t.Value = v
	if t.Prefix == 0 {
		upper, ok, err := p.parseRangeSuffix()
		if err != nil {
			return Term{}, err
		}
		if ok {
			t.Upper = upper
			return t, nil
		}
	}
	if p.peekChar('$') || p.peekChar('*') {
		t.Suffix = p.char
		p.advanceChar()
	}
	return t, nil
}

// parseRangeSuffix parses the `-value` or `..value` upper bound of a range.
func (p *Parser) parseRangeSuffix() (*Value, bool, error) {
	if !p.skipChar('-') && !p.skipString("..") {
		return nil, false, nil
	}
	if v, ok := p.parseDate(); ok {
		return &v, true, nil
	}
	v, err := p.parseValue()
	if err != nil {
		return nil, false, err
	}
	return &v, true, nil
}

// parseValue parses a quoted or literal value. The interior of a quoted
// value is preserved verbatim; the only special character inside it is the
// matching closing quote.
func (p *Parser) parseValue() (Value, error) {
	if p.peekChar('\'') || p.peekChar('"') {
		quote := p.char
		p.advanceChar()
		start := p.pos
		for !p.eof() && p.char != quote {
			p.advanceChar()
		}
		if p.eof() {
			return Value{}, p.errorAt(fmt.Sprintf("closing %q", string(quote)))
		}
		text := p.input[start:p.pos]
		p.advanceChar()
		return Value{Text: text, Quoted: true}, nil
	}
	start := p.pos
	for !p.eof() && p.isValueChar() {
		// A ".." is a range separator, not part of the value.
		if p.char == '.' && strings.HasPrefix(p.input[p.nextPos:], ".") {
			break
		}
		p.advanceChar()
	}
	if p.pos == start {
		return Value{}, p.errorAt("a value")
	}
	return Value{Text: p.input[start:p.pos]}, nil
}

// parseDate recognizes an ISO date literal: 4-digit year, 2-digit month,
// 2-digit day. Whether the date actually exists is checked by the
// translator.
func (p *Parser) parseDate() (Value, bool) {
	rest := p.input[p.pos:]
	if len(rest) < 10 {
		return Value{}, false
	}
	for i := 0; i < 10; i++ {
		c := rest[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return Value{}, false
			}
		} else if c < '0' || c > '9' {
			return Value{}, false
		}
	}
	// A date must not run straight into more name characters.
	if r, _ := utf8.DecodeRuneInString(rest[10:]); isNameChar(r) {
		return Value{}, false
	}
	for i := 0; i < 10; i++ {
		p.advanceChar()
	}
	return Value{Text: rest[:10], IsDate: true}, true
}

// parseSort parses the sort clause that follows the ';': one or more,
// optionally comma-separated, field names, each optionally prefixed with
// '^' for descending order.
func (p *Parser) parseSort() ([]SortField, error) {
	var fields []SortField
	for {
		p.skipBlanks()
		if len(fields) > 0 && p.skipChar(',') {
			p.skipBlanks()
		}
		desc := p.skipChar('^')
		if desc {
			p.skipBlanks()
		}
		name, ok := p.parseName()
		if !ok {
			if len(fields) == 0 || desc {
				return nil, p.errorAt("a field name")
			}
			break
		}
		fields = append(fields, SortField{Name: name, Desc: desc})
	}
	return fields, nil
}

// errorAt builds a syntax error pointing at the current parser position.
func (p *Parser) errorAt(expected ...string) error {
	return &SyntaxError{Position: p.pos, Expected: expected}
}

// eof reports whether the parser has consumed the whole input.
func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

// advanceChar moves the parser to the next character in the input.
func (p *Parser) advanceChar() bool {
	if p.nextPos >= len(p.input) {
		p.char = 0
		p.pos = p.nextPos
		return false
	}
	var size int
	p.char, size = utf8.DecodeRuneInString(p.input[p.nextPos:])
	p.pos = p.nextPos
	p.nextPos += size
	return true
}

// A checkpoint struct for saving parser state to restore later.
type checkpoint struct {
	parser  *Parser
	pos     int
	nextPos int
	char    rune
}

// save takes a snapshot of the state of the parser and returns a pointer to
// a checkpoint that represents it.
func (p *Parser) save() *checkpoint {
	return &checkpoint{
		parser:  p,
		pos:     p.pos,
		nextPos: p.nextPos,
		char:    p.char,
	}
}

// restore sets the internal state of the parser to the values stored in the
// checkpoint.
func (cp *checkpoint) restore() {
	cp.parser.pos = cp.pos
	cp.parser.nextPos = cp.nextPos
	cp.parser.char = cp.char
}

// peekChar returns true if the current char equals the one passed as
// parameter.
func (p *Parser) peekChar(c rune) bool {
	return p.pos < len(p.input) && p.char == c
}

// skipChar jumps over the current char if it matches the char passed as a
// parameter. Returns true in that case, false otherwise.
func (p *Parser) skipChar(c rune) bool {
	if p.pos < len(p.input) && p.char == c {
		p.advanceChar()
		return true
	}
	return false
}

// skipBlanks advances the parser past spaces, tabs and newlines. Returns
// whether the parser position was changed.
func (p *Parser) skipBlanks() bool {
	mark := p.pos
	for p.pos < len(p.input) {
		switch p.char {
		case ' ', '\t', '\r', '\n':
			p.advanceChar()
		default:
			return p.pos != mark
		}
	}
	return p.pos != mark
}

// skipString advances the parser and jumps over the string passed as
// parameter. In that case returns true, false otherwise.
// This function is case insensitive.
func (p *Parser) skipString(s string) bool {
	if p.pos+len(s) <= len(p.input) &&
		strings.EqualFold(p.input[p.pos:p.pos+len(s)], s) {
		p.pos += len(s)
		var size int
		p.char, size = utf8.DecodeRuneInString(p.input[p.pos:])
		p.nextPos = p.pos + size
		return true
	}
	return false
}

// skipKeyword jumps over the given word if it is present at the current
// position and is not immediately followed by another name character. The
// match is case insensitive.
func (p *Parser) skipKeyword(word string) bool {
	cp := p.save()
	if !p.skipString(word) {
		return false
	}
	if p.eof() || !isNameChar(p.char) {
		return true
	}
	cp.restore()
	return false
}

// isNameChar returns true if the given char can be part of a name. It
// returns false otherwise.
func isNameChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

// isValueChar reports whether the current char can be part of an unquoted
// value. Whitespace, brackets, quotes, markers, connector symbols and
// operator characters all terminate a value.
func (p *Parser) isValueChar() bool {
	switch p.char {
	case ' ', '\t', '\r', '\n',
		'(', ')', '{', '}', '[', ']',
		';', ',', '\'', '"',
		'*', '^', '$', '-',
		'=', '<', '>', '!', '|', '&', '+':
		return false
	}
	return true
}
