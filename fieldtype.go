// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindVarChar
	kindInteger
	kindNumeric
	kindBool
	kindDate
	kindTimestamp
)

// FieldType is the declared database type of a searchable field. It decides
// which match modes are legal, whether the field takes part in field-less
// expansion, and how values are checked and rendered into SQL.
//
// FieldType values are immutable and built with the constructor functions
// [Text], [VarChar], [Integer], [Numeric], [Bool], [Date] and [Timestamp].
type FieldType struct {
	kind      fieldKind
	length    int
	min, max  int64
	precision int
	scale     int
}

// Text is a text column of any length.
func Text() FieldType {
	return FieldType{kind: kindText}
}

// VarChar is a text column holding at most length characters.
func VarChar(length int) FieldType {
	return FieldType{kind: kindVarChar, length: length}
}

// Integer is an integer column accepting values from min to max inclusive.
func Integer(min, max int64) FieldType {
	return FieldType{kind: kindInteger, min: min, max: max}
}

// Numeric is a fixed-point column. The precision is the total count of
// significant digits on both sides of the decimal point, the scale the
// count of digits right of it.
func Numeric(precision, scale int) FieldType {
	return FieldType{kind: kindNumeric, precision: precision, scale: scale}
}

// Bool is a boolean column. Truthy query values are 1, true, wahr, yes,
// ja, y, j, t and w; falsy ones 0, false, falsch, unwahr, no, not, nein,
// n and f.
func Bool() FieldType {
	return FieldType{kind: kindBool}
}

// Date is a date column without a time of day, queried with ISO
// YYYY-MM-DD literals.
func Date() FieldType {
	return FieldType{kind: kindDate}
}

// Timestamp is a date column with a time of day. A date-only query value
// is padded to midnight.
func Timestamp() FieldType {
	return FieldType{kind: kindTimestamp}
}

// String returns the declaration form of the type, e.g. "VARCHAR(18)".
func (t FieldType) String() string {
	switch t.kind {
	case kindVarChar:
		return fmt.Sprintf("VARCHAR(%d)", t.length)
	case kindInteger:
		return fmt.Sprintf("INTEGER(%d,%d)", t.min, t.max)
	case kindNumeric:
		return fmt.Sprintf("NUMERIC(%d,%d)", t.precision, t.scale)
	case kindBool:
		return "BOOL"
	case kindDate:
		return "DATE"
	case kindTimestamp:
		return "TIMESTAMP"
	}
	return "TEXT"
}

// Name returns a simplified type name suitable for end-user help output.
func (t FieldType) Name() string {
	switch t.kind {
	case kindInteger, kindNumeric:
		return "NUMBER"
	case kindBool:
		return "BOOL"
	case kindDate, kindTimestamp:
		return "TIME"
	}
	return "TEXT"
}

// isText reports whether the field holds free text and therefore supports
// LIKE matching and field-less expansion.
func (t FieldType) isText() bool {
	return t.kind == kindText || t.kind == kindVarChar
}

func (t FieldType) isNumeric() bool {
	return t.kind == kindInteger || t.kind == kindNumeric
}

// checkValue validates a query value against the type and returns it as a
// SQL literal. The alias names the field in error messages.
func (t FieldType) checkValue(alias, text string) (sqlValue, error) {
	switch t.kind {
	case kindText:
		return sqlValue{text: text, quote: true}, nil
	case kindVarChar:
		if len(text) > t.length {
			return sqlValue{}, &InvalidValueError{
				Alias:  alias,
				Value:  text,
				Reason: fmt.Sprintf("longer than %d characters", t.length),
			}
		}
		return sqlValue{text: text, quote: true}, nil
	case kindInteger:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil || n < t.min || n > t.max {
			return sqlValue{}, &InvalidValueError{
				Alias:  alias,
				Value:  text,
				Reason: fmt.Sprintf("not a whole number between %d and %d", t.min, t.max),
			}
		}
		return sqlValue{text: strconv.FormatInt(n, 10), num: n}, nil
	case kindNumeric:
		// A comma decimal separator is accepted and normalized.
		normal := strings.ReplaceAll(text, ",", ".")
		f, err := strconv.ParseFloat(normal, 64)
		if err != nil {
			return sqlValue{}, &InvalidValueError{Alias: alias, Value: text, Reason: "not a number"}
		}
		digits := strings.ReplaceAll(strings.TrimPrefix(normal, "-"), ".", "")
		if len(digits) > t.precision {
			return sqlValue{}, &InvalidValueError{
				Alias:  alias,
				Value:  text,
				Reason: fmt.Sprintf("more than %d digits", t.precision),
			}
		}
		return sqlValue{text: normal, num: f}, nil
	case kindDate:
		if _, err := time.Parse("2006-01-02", text); err != nil {
			return sqlValue{}, &MalformedDateError{Text: text}
		}
		return sqlValue{text: text, quote: true}, nil
	case kindTimestamp:
		if _, err := time.Parse("2006-01-02", text); err == nil {
			return sqlValue{text: text + " 00:00:00", quote: true}, nil
		}
		if _, err := time.Parse("2006-01-02 15:04:05", text); err != nil {
			return sqlValue{}, &MalformedDateError{Text: text}
		}
		return sqlValue{text: text, quote: true}, nil
	}
	return sqlValue{text: text, quote: true}, nil
}

// checkBool interprets a query value against the truthy and falsy word
// sets of [Bool].
func checkBool(alias, text string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "true", "wahr", "yes", "ja", "y", "j", "t", "w":
		return true, nil
	case "0", "false", "falsch", "unwahr", "no", "not", "nein", "n", "f":
		return false, nil
	}
	return false, &InvalidValueError{Alias: alias, Value: text, Reason: "not a boolean"}
}

// ParseFieldType parses the declaration form used in YAML registry
// definitions: text, varchar(n), integer, integer(min,max),
// numeric(precision,scale), bool, date or timestamp. Matching is case
// insensitive.
func ParseFieldType(s string) (FieldType, error) {
	decl := strings.ToLower(strings.TrimSpace(s))
	switch decl {
	case "text":
		return Text(), nil
	case "bool", "boolean":
		return Bool(), nil
	case "date":
		return Date(), nil
	case "timestamp":
		return Timestamp(), nil
	case "integer", "int":
		return Integer(minInt64, maxInt64), nil
	}
	name, args, ok := splitTypeArgs(decl)
	if ok {
		switch name {
		case "varchar":
			if len(args) == 1 {
				length, err := strconv.Atoi(args[0])
				if err == nil && length > 0 {
					return VarChar(length), nil
				}
			}
		case "integer", "int":
			if len(args) == 2 {
				min, err1 := strconv.ParseInt(args[0], 10, 64)
				max, err2 := strconv.ParseInt(args[1], 10, 64)
				if err1 == nil && err2 == nil && min <= max {
					return Integer(min, max), nil
				}
			}
		case "numeric", "decimal":
			if len(args) == 2 {
				precision, err1 := strconv.Atoi(args[0])
				scale, err2 := strconv.Atoi(args[1])
				if err1 == nil && err2 == nil && precision > 0 && scale >= 0 {
					return Numeric(precision, scale), nil
				}
			}
		}
	}
	return FieldType{}, fmt.Errorf("cannot parse field type %q", s)
}

const (
	maxInt64 = int64(^uint64(0) >> 1)
	minInt64 = -maxInt64 - 1
)

// splitTypeArgs splits "name(a,b)" into its name and arguments.
func splitTypeArgs(decl string) (string, []string, bool) {
	open := strings.IndexByte(decl, '(')
	if open < 0 || !strings.HasSuffix(decl, ")") {
		return "", nil, false
	}
	name := strings.TrimSpace(decl[:open])
	var args []string
	for _, a := range strings.Split(decl[open+1:len(decl)-1], ",") {
		args = append(args, strings.TrimSpace(a))
	}
	return name, args, true
}
