// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbar

import (
	"fmt"
	"strings"

	"github.com/canonical/sqlbar/internal/parse"
)

// MatchMode is the normalized shape of a term's comparison.
type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchRange
	MatchStartsWith
	MatchEndsWith
	MatchContains
)

func (m MatchMode) String() string {
	switch m {
	case MatchRange:
		return "range"
	case MatchStartsWith:
		return "starts-with"
	case MatchEndsWith:
		return "ends-with"
	case MatchContains:
		return "contains"
	}
	return "exact"
}

// resolver turns a parsed expression tree into a SQL term tree, resolving
// aliases against the registry, checking permissions and normalizing terms
// against the field types.
type resolver struct {
	reg    *Registry
	oracle Oracle
	opts   Options
}

func (r *resolver) expr(e parse.Expr) (sqlTerm, error) {
	switch e := e.(type) {
	case *parse.Chain:
		terms := make([]sqlTerm, len(e.Exprs))
		for i, child := range e.Exprs {
			t, err := r.expr(child)
			if err != nil {
				return nil, err
			}
			terms[i] = t
		}
		return &chainTerm{terms: terms, conns: e.Conns}, nil
	case *parse.Not:
		inner, err := r.expr(e.Expr)
		if err != nil {
			return nil, err
		}
		if n, ok := inner.(*notTerm); ok {
			return n.term, nil
		}
		return &notTerm{term: inner}, nil
	case *parse.Condition:
		return r.condition(e)
	}
	return nil, fmt.Errorf("internal error: unknown expression node %T", e)
}

func (r *resolver) condition(cond *parse.Condition) (sqlTerm, error) {
	if cond.HasField {
		f, ok := r.reg.lookup(cond.Alias)
		if !ok {
			return nil, &UnknownFieldError{Alias: cond.Alias}
		}
		if !r.oracle.Allowed(f.Permission) {
			return nil, &FieldNotPermittedError{Alias: cond.Alias}
		}
		return r.fieldTerm(f, cond.Alias, cond.Op, cond.Term)
	}
	return r.fanOut(cond.Term)
}

// fanOut expands a field-less term into an OR across the candidate set:
// every permitted text field, plus every permitted numeric field when
// Options.LikeInNumerics is set. An empty candidate set degrades to a
// predicate that never matches.
func (r *resolver) fanOut(t parse.Term) (sqlTerm, error) {
	pattern := fanOutPattern(t)
	var terms []sqlTerm
	for i := range r.reg.fields {
		f := &r.reg.fields[i]
		if !r.oracle.Allowed(f.Permission) {
			continue
		}
		switch {
		case f.Type.isText():
			terms = append(terms, &likeTerm{col: f.Column, pattern: pattern})
		case f.Type.isNumeric() && r.opts.LikeInNumerics:
			terms = append(terms, &likeTerm{col: f.Column, pattern: pattern, cast: true})
		}
	}
	switch len(terms) {
	case 0:
		return falseTerm{}, nil
	case 1:
		return terms[0], nil
	}
	conns := make([]parse.Connector, len(terms)-1)
	for i := range conns {
		conns[i] = parse.Or
	}
	return &chainTerm{terms: terms, conns: conns}, nil
}

// fanOutPattern builds the LIKE pattern of a field-less term. Markers keep
// their usual meaning; a bare value matches anywhere in the field. A range
// suffix has no target type to interpret it against, so the term matches
// its literal spelling.
func fanOutPattern(t parse.Term) string {
	if t.Upper != nil {
		return "%" + likePattern(t.Value.Text+"-"+t.Upper.Text) + "%"
	}
	if t.Prefix != 0 || t.Suffix != 0 {
		_, pattern := markerMode(t)
		return pattern
	}
	return "%" + likePattern(t.Value.Text) + "%"
}

// markerMode derives the match mode and LIKE pattern from the term's start
// and end markers. A leading `^` or trailing `*` anchors the value at the
// start of the field content, a leading `*` or trailing `$` at its end;
// anchors on both sides match anywhere.
func markerMode(t parse.Term) (MatchMode, string) {
	value := likePattern(t.Value.Text)
	anchorStart := t.Prefix == '^' || t.Suffix == '*'
	anchorEnd := t.Prefix == '*' || t.Suffix == '$'
	switch {
	case anchorStart && anchorEnd:
		return MatchContains, "%" + value + "%"
	case anchorStart:
		return MatchStartsWith, value + "%"
	default:
		return MatchEndsWith, "%" + value
	}
}

// fieldTerm normalizes a term against the resolved field and builds its
// SQL term.
func (r *resolver) fieldTerm(f *Field, alias string, op parse.Op, t parse.Term) (sqlTerm, error) {
	if t.Upper != nil {
		if op != parse.OpEqual {
			return nil, &IncompatibleOperatorError{Operator: op.String(), Mode: MatchRange}
		}
		lo, err := f.Type.checkValue(alias, t.Value.Text)
		if err != nil {
			return nil, err
		}
		hi, err := f.Type.checkValue(alias, t.Upper.Text)
		if err != nil {
			return nil, err
		}
		return &rangeTerm{col: f.Column, lo: lo, hi: hi}, nil
	}

	// Glob characters inside a quoted value turn the comparison into a
	// LIKE, the same as explicit markers do.
	glob := !t.Value.IsDate && strings.ContainsAny(t.Value.Text, "*?")
	if t.Prefix != 0 || t.Suffix != 0 || glob {
		mode := MatchContains
		pattern := likePattern(t.Value.Text)
		if t.Prefix != 0 || t.Suffix != 0 {
			mode, pattern = markerMode(t)
		}
		if !f.Type.isText() {
			return nil, &TypeMismatchError{Alias: alias, Mode: mode}
		}
		if _, err := f.Type.checkValue(alias, t.Value.Text); err != nil {
			return nil, err
		}
		switch op {
		case parse.OpEqual:
			return &likeTerm{col: f.Column, pattern: pattern}, nil
		case parse.OpNotEqual:
			return &likeTerm{col: f.Column, pattern: pattern, not: true}, nil
		}
		return nil, &IncompatibleOperatorError{Operator: op.String(), Mode: mode}
	}

	if f.Type.kind == kindBool {
		want, err := checkBool(alias, t.Value.Text)
		if err != nil {
			return nil, err
		}
		switch op {
		case parse.OpEqual:
			return &boolTerm{col: f.Column, want: want}, nil
		case parse.OpNotEqual:
			return &boolTerm{col: f.Column, want: !want}, nil
		}
		return nil, &IncompatibleOperatorError{Operator: op.String(), Mode: MatchExact}
	}

	v, err := f.Type.checkValue(alias, t.Value.Text)
	if err != nil {
		return nil, err
	}
	return &compareTerm{col: f.Column, op: sqlOp(op), val: v}, nil
}

// sqlOp maps a comparison operator onto its SQL spelling.
func sqlOp(op parse.Op) string {
	switch op {
	case parse.OpNotEqual:
		return "<>"
	case parse.OpGreater:
		return ">"
	case parse.OpLess:
		return "<"
	case parse.OpGreaterEqual:
		return ">="
	case parse.OpLessEqual:
		return "<="
	}
	return "="
}
