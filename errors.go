// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbar

import (
	"fmt"
	"strings"
)

// The translation errors below are structured values meant to be shown to
// the person who typed the query. Translation is all or nothing: no
// partial fragment is produced alongside an error.

// SyntaxError reports a malformed query string. Position is the offset of
// the offending character and Expected lists the alternatives the parser
// would have accepted there.
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

// UnknownFieldError reports a field alias that is not declared in the
// registry.
type UnknownFieldError struct {
	Alias string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("field %q is unknown", e.Alias)
}

// FieldNotPermittedError reports an explicit reference to a field the
// caller's permission oracle denies. Explicit references to hidden fields
// are hard errors rather than silent drops, in queries and in sort
// clauses alike.
type FieldNotPermittedError struct {
	Alias string
}

func (e *FieldNotPermittedError) Error() string {
	return fmt.Sprintf("you are not allowed to search field %q", e.Alias)
}

// TypeMismatchError reports a wildcard match attempted on a field whose
// type cannot be matched with LIKE.
type TypeMismatchError struct {
	Alias string
	Mode  MatchMode
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q does not support %s matching", e.Alias, e.Mode)
}

// IncompatibleOperatorError reports a comparison operator combined with a
// match mode it cannot express, such as an inequality on a range.
type IncompatibleOperatorError struct {
	Operator string
	Mode     MatchMode
}

func (e *IncompatibleOperatorError) Error() string {
	return fmt.Sprintf("operator %q cannot be combined with %s matching", e.Operator, e.Mode)
}

// MalformedDateError reports a value that is not a valid date for a date
// or timestamp field.
type MalformedDateError struct {
	Text string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("%q is not a valid date, expected YYYY-MM-DD", e.Text)
}

// InvalidValueError reports a value that does not fit the declared type of
// the field it is compared against.
type InvalidValueError struct {
	Alias  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("value %q is not valid for field %q: %s", e.Value, e.Alias, e.Reason)
}

// DuplicateAliasError reports a registry construction attempt in which two
// fields declare the same alias.
type DuplicateAliasError struct {
	Alias string
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("alias %q is declared by more than one field", e.Alias)
}
