// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbar

import (
	"strings"

	"github.com/canonical/sqlbar/internal/parse"
)

// renderMode selects how values reach the emitted SQL: inlined as escaped
// literals, or as `?` placeholders with a separate parameter list.
type renderMode int

const (
	renderInline renderMode = iota
	renderBound
)

// renderCtx collects the parameters produced while rendering a term tree.
type renderCtx struct {
	mode   renderMode
	params []any
}

// value renders a single SQL literal according to the render mode.
func (c *renderCtx) value(v sqlValue) string {
	if c.mode == renderBound {
		c.params = append(c.params, v.param())
		return "?"
	}
	if v.quote {
		return "'" + escapeString(v.text) + "'"
	}
	return v.text
}

// pattern renders a LIKE pattern according to the render mode.
func (c *renderCtx) pattern(p string) string {
	if c.mode == renderBound {
		c.params = append(c.params, p)
		return "?"
	}
	return "'" + escapeString(p) + "'"
}

// sqlValue is a checked literal heading into the emitted SQL. num carries
// the typed form used when binding parameters for numeric columns.
type sqlValue struct {
	text  string
	quote bool
	num   any
}

func (v sqlValue) param() any {
	if v.num != nil {
		return v.num
	}
	return v.text
}

// escapeString doubles single quotes so the value can sit inside a SQL
// string literal.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// likePattern converts the glob syntax of query values into a SQL LIKE
// pattern: `*` matches any run, `?` a single character, and literal `%`
// and `_` are escaped.
func likePattern(s string) string {
	var sb strings.Builder
	for _, c := range s {
		switch c {
		case '*':
			sb.WriteByte('%')
		case '?':
			sb.WriteByte('_')
		case '%', '_':
			sb.WriteByte('\\')
			sb.WriteRune(c)
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// sqlTerm is a node of the translated boolean expression.
type sqlTerm interface {
	// sql renders the node, appending any bound parameters to the context.
	sql(c *renderCtx) string
}

// chainTerm joins its children left to right with per-link connectors.
// There is no precedence between AND and OR: when the connector changes
// along the chain, the accumulated left side is parenthesized so the SQL
// keeps the textual left-to-right grouping.
type chainTerm struct {
	terms []sqlTerm
	conns []parse.Connector
}

func (t *chainTerm) sql(c *renderCtx) string {
	acc := childSQL(t.terms[0], c)
	for i, tm := range t.terms[1:] {
		if i > 0 && t.conns[i] != t.conns[i-1] {
			acc = "( " + acc + " )"
		}
		acc += " " + t.conns[i].String() + " " + childSQL(tm, c)
	}
	return acc
}

// wrapForGlue reports whether the rendered chain must be parenthesized
// before a caller glues it onto an existing WHERE clause. Only a chain
// whose top-level joins include OR is ambiguous against SQL's native
// AND/OR precedence.
func (t *chainTerm) wrapForGlue() bool {
	return t.conns[len(t.conns)-1] == parse.Or
}

// childSQL renders a child node, parenthesizing nested chains to preserve
// their grouping.
func childSQL(t sqlTerm, c *renderCtx) string {
	s := t.sql(c)
	if _, ok := t.(*chainTerm); ok {
		s = "( " + s + " )"
	}
	return s
}

// notTerm inverts its operand. Double inversions are collapsed when the
// tree is built, never rendered.
type notTerm struct {
	term sqlTerm
}

func (t *notTerm) sql(c *renderCtx) string {
	return "NOT (" + t.term.sql(c) + ")"
}

// compareTerm is a plain comparison of a column against a value.
type compareTerm struct {
	col string
	op  string
	val sqlValue
}

func (t *compareTerm) sql(c *renderCtx) string {
	return t.col + " " + t.op + " " + c.value(t.val)
}

// likeTerm is a LIKE or NOT LIKE match of a column against a pattern.
// cast matches the textual form of a non-text column.
type likeTerm struct {
	col     string
	pattern string
	not     bool
	cast    bool
}

func (t *likeTerm) sql(c *renderCtx) string {
	col := t.col
	if t.cast {
		col = "CAST(" + col + " AS TEXT)"
	}
	op := " LIKE "
	if t.not {
		op = " NOT LIKE "
	}
	return col + op + c.pattern(t.pattern)
}

// rangeTerm matches a column between two inclusive bounds.
type rangeTerm struct {
	col    string
	lo, hi sqlValue
}

func (t *rangeTerm) sql(c *renderCtx) string {
	return "(" + t.col + " >= " + c.value(t.lo) + " AND " + t.col + " <= " + c.value(t.hi) + ")"
}

// boolTerm matches a boolean column. A wanted true renders as the bare
// column, a wanted false as an explicit comparison.
type boolTerm struct {
	col  string
	want bool
}

func (t *boolTerm) sql(c *renderCtx) string {
	if t.want {
		return t.col
	}
	return t.col + " = false"
}

// falseTerm never matches. It stands in for a field-less term whose
// candidate set came out empty, degrading the query safely instead of
// erroring.
type falseTerm struct{}

func (falseTerm) sql(c *renderCtx) string {
	return "1 = 0"
}
