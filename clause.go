// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbar

import (
	"strings"
)

// sortCol is one resolved entry of the sort clause.
type sortCol struct {
	col  string
	desc bool
}

// Clause is the result of translating a query: a SQL boolean expression
// fragment and an ordering fragment, ready to be appended to a statement
// the caller is building. A Clause is produced fresh per translation and
// owned by the caller.
type Clause struct {
	term sqlTerm
	sort []sortCol
}

// WhereClause returns the boolean fragment with values inlined as escaped
// SQL literals. It is empty when the query had no expression. The fragment
// is parenthesized exactly when that is needed for it to compose correctly
// behind a caller-chosen glue connector.
func (cl *Clause) WhereClause() string {
	s, _ := cl.renderWhere(renderInline)
	return s
}

// WhereParams returns the boolean fragment with `?` placeholders and the
// parameter list to bind, in placeholder order. Prefer this form over
// [Clause.WhereClause] when the statement is executed directly.
func (cl *Clause) WhereParams() (string, []any) {
	return cl.renderWhere(renderBound)
}

func (cl *Clause) renderWhere(mode renderMode) (string, []any) {
	if cl.term == nil {
		return "", nil
	}
	c := &renderCtx{mode: mode}
	s := cl.term.sql(c)
	if ch, ok := cl.term.(*chainTerm); ok && ch.wrapForGlue() {
		s = "( " + s + " )"
	}
	return s, c.params
}

// OrderBy returns the ordering fragment: comma-separated columns in
// declaration order, DESC where requested. It is empty when the query had
// no sort clause.
func (cl *Clause) OrderBy() string {
	parts := make([]string, len(cl.sort))
	for i, s := range cl.sort {
		parts[i] = s.col
		if s.desc {
			parts[i] += " DESC"
		}
	}
	return strings.Join(parts, ", ")
}

// ToSQL assembles the fragments behind the given glue word, typically
// "WHERE" or "AND": ` <glue> <where> ORDER BY <order>`, omitting the parts
// the query did not produce.
func (cl *Clause) ToSQL(glue string) string {
	sql, _ := cl.toSQL(glue, renderInline)
	return sql
}

// ToSQLParams is [Clause.ToSQL] with `?` placeholders and the parameter
// list to bind.
func (cl *Clause) ToSQLParams(glue string) (string, []any) {
	return cl.toSQL(glue, renderBound)
}

func (cl *Clause) toSQL(glue string, mode renderMode) (string, []any) {
	whr, params := cl.renderWhere(mode)
	if whr != "" {
		whr = " " + glue + " " + whr
	}
	if sort := cl.OrderBy(); sort != "" {
		whr += " ORDER BY " + sort
	}
	return whr, params
}
