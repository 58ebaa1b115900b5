// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package parse

import (
	"strings"
)

// Op is a comparison operator attached to a field condition. The grammar
// accepts several spellings for the same operator (`=!` for `!=`, `=>` for
// `>=`, `=<` for `<=`, `==` for `=`); they are normalized while parsing.
type Op int

const (
	OpEqual Op = iota
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterEqual
	OpLessEqual
)

func (o Op) String() string {
	switch o {
	case OpNotEqual:
		return "!="
	case OpGreater:
		return ">"
	case OpLess:
		return "<"
	case OpGreaterEqual:
		return ">="
	case OpLessEqual:
		return "<="
	}
	return "="
}

// opTokens lists the accepted operator spellings, longest first so that
// two-character operators win over their one-character prefixes.
var opTokens = []struct {
	token string
	op    Op
}{
	{"==", OpEqual},
	{"=!", OpNotEqual},
	{"=>", OpGreaterEqual},
	{"=<", OpLessEqual},
	{"!=", OpNotEqual},
	{">=", OpGreaterEqual},
	{"<=", OpLessEqual},
	{"=", OpEqual},
	{">", OpGreater},
	{"<", OpLess},
}

// Connector joins two adjacent expressions in a chain. There is no
// precedence between And and Or, composition is strictly left to right.
type Connector int

const (
	And Connector = iota
	Or
)

func (c Connector) String() string {
	if c == Or {
		return "OR"
	}
	return "AND"
}

// Value is a single literal parsed from the query.
type Value struct {
	// Text is the value text with any surrounding quotes removed. Quoted
	// interiors are preserved verbatim.
	Text string
	// Quoted reports whether the value was quoted in the query.
	Quoted bool
	// IsDate reports whether the value is an ISO date literal.
	IsDate bool
}

func (v Value) String() string {
	if v.Quoted {
		return `"` + v.Text + `"`
	}
	return v.Text
}

// Term is a parsed search term: a value, optionally bounded by a range
// suffix, or decorated with a start or end marker.
type Term struct {
	Value Value
	// Upper is the upper bound when a range suffix was parsed, nil otherwise.
	Upper *Value
	// Prefix is '^' or '*' when a start marker preceded the value, 0 otherwise.
	Prefix rune
	// Suffix is '$' or '*' when an end marker followed the value, 0 otherwise.
	Suffix rune
}

func (t Term) String() string {
	var sb strings.Builder
	if t.Prefix != 0 {
		sb.WriteRune(t.Prefix)
	}
	sb.WriteString(t.Value.String())
	if t.Suffix != 0 {
		sb.WriteRune(t.Suffix)
	}
	if t.Upper != nil {
		sb.WriteString("..")
		sb.WriteString(t.Upper.String())
	}
	return sb.String()
}

// Expr is a node of the parsed boolean expression tree.
type Expr interface {
	// String returns a string representation of the node for debugging and
	// testing purposes.
	String() string

	// expr is a marker method.
	expr()
}

// Condition is a leaf of the expression tree: an optional field alias, a
// comparison operator and a term. A Condition without a field alias is a
// field-less term that the resolver fans out over all eligible fields.
type Condition struct {
	// Alias is the user-supplied field alias, valid only if HasField is true.
	Alias string
	// HasField reports whether the term was qualified with a field alias.
	HasField bool
	Op       Op
	Term     Term
}

func (c *Condition) String() string {
	if c.HasField {
		return "Cond[" + c.Alias + " " + c.Op.String() + " " + c.Term.String() + "]"
	}
	return "Cond[" + c.Term.String() + "]"
}

func (c *Condition) expr() {}

// Not inverts the expression it wraps.
type Not struct {
	Expr Expr
}

func (n *Not) String() string {
	return "Not[" + n.Expr.String() + "]"
}

func (n *Not) expr() {}

// Chain is a flat, left-associative sequence of expressions. Conns[i] joins
// Exprs[i] and Exprs[i+1]; an omitted connector in the query is recorded as
// And. A Chain always holds at least two expressions, single expressions
// are returned undecorated.
type Chain struct {
	Exprs []Expr
	Conns []Connector
}

func (ch *Chain) String() string {
	var sb strings.Builder
	sb.WriteString("Chain[")
	for i, e := range ch.Exprs {
		if i > 0 {
			sb.WriteString(" " + ch.Conns[i-1].String() + " ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteString("]")
	return sb.String()
}

func (ch *Chain) expr() {}

// SortField is one entry of the sort clause.
type SortField struct {
	// Name is the user-supplied field alias.
	Name string
	// Desc requests descending order, marked with a leading '^'.
	Desc bool
}

func (s SortField) String() string {
	if s.Desc {
		return "^" + s.Name
	}
	return s.Name
}

// Query is the result of parsing a query string. Both parts are optional,
// an entirely empty query is valid.
type Query struct {
	// Expr is the boolean expression, nil when the query has none.
	Expr Expr
	// Sort lists the requested sort fields in declaration order.
	Sort []SortField
}

func (q *Query) String() string {
	var sb strings.Builder
	sb.WriteString("Query[")
	if q.Expr != nil {
		sb.WriteString(q.Expr.String())
	}
	if len(q.Sort) > 0 {
		sb.WriteString("; ")
		for i, s := range q.Sort {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(s.String())
		}
	}
	sb.WriteString("]")
	return sb.String()
}
