// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbar

import (
	"fmt"
	"strings"

	"github.com/canonical/sqlbar/internal/parse"
)

// Options tune the translation of queries.
type Options struct {
	// LikeInNumerics includes numeric fields in the expansion of
	// field-less terms, matching the value anywhere in the textual form
	// of the column.
	LikeInNumerics bool
}

// Engine translates query strings against a fixed field registry. It is
// stateless across calls and safe for concurrent use.
type Engine struct {
	registry *Registry
	opts     Options
}

// NewEngine returns an engine for the given registry. opts may be nil for
// the defaults.
func NewEngine(registry *Registry, opts *Options) *Engine {
	var o Options
	if opts != nil {
		o = *opts
	}
	return &Engine{registry: registry, opts: o}
}

// Translate parses the query, resolves its field references against the
// registry and the caller's permission oracle, and returns the resulting
// SQL fragments. Translation is all or nothing: on any error no fragment
// is produced. The errors are structured values ([SyntaxError],
// [UnknownFieldError], [FieldNotPermittedError], [TypeMismatchError],
// [IncompatibleOperatorError], [MalformedDateError], [InvalidValueError])
// whose messages can be shown to the person who typed the query.
func (e *Engine) Translate(oracle Oracle, query string) (*Clause, error) {
	q, err := parse.NewParser().Parse(query)
	if err != nil {
		if se, ok := err.(*parse.SyntaxError); ok {
			return nil, &SyntaxError{Position: se.Position, Expected: se.Expected}
		}
		return nil, fmt.Errorf("cannot parse query: %w", err)
	}

	var cl Clause
	if q.Expr != nil {
		r := &resolver{reg: e.registry, oracle: oracle, opts: e.opts}
		term, err := r.expr(q.Expr)
		if err != nil {
			return nil, err
		}
		cl.term = term
	}
	for _, s := range q.Sort {
		// A denied sort field is an error, not a silent drop: sorting by
		// a hidden field would leak its existence through the ordering.
		f, ok := e.registry.lookup(s.Name)
		if !ok {
			return nil, &UnknownFieldError{Alias: s.Name}
		}
		if !oracle.Allowed(f.Permission) {
			return nil, &FieldNotPermittedError{Alias: s.Name}
		}
		cl.sort = append(cl.sort, sortCol{col: f.Column, desc: s.Desc})
	}
	return &cl, nil
}

// Explain returns one line per field the oracle permits, listing the
// field's aliases and a simplified type name. It is meant as end-user help
// output for the query syntax.
func (e *Engine) Explain(oracle Oracle) string {
	var sb strings.Builder
	for _, f := range e.registry.fields {
		if oracle.Allowed(f.Permission) {
			fmt.Fprintf(&sb, "[%s] %s\n", strings.Join(f.Aliases, ", "), f.Type.Name())
		}
	}
	return sb.String()
}

// Translate is a convenience for translating a single query with default
// options.
func Translate(registry *Registry, oracle Oracle, query string) (*Clause, error) {
	return NewEngine(registry, nil).Translate(oracle, query)
}
