/*
SQLbar translates a compact, search-engine-like query syntax into SQL WHERE
and ORDER BY fragments, gated by a per-field permission check.

It is aimed at non-technical users typing queries against a fixed,
pre-registered set of searchable fields. The embedding application declares
the fields once (backing column, type, permission tag and user-facing
aliases) and supplies a permission oracle per caller. SQLbar parses the
query, resolves every field reference through the oracle, and emits SQL
fragments ready to be appended to a statement. It never executes SQL
itself.

# Syntax

A query is a boolean expression followed by an optional sort clause:

	surname=Simpson AND (city=Springfield OR plz=26440-26452); ^age, surname

Terms may be bound to a field with a comparison operator (= == != > < >=
<=), or left field-less, in which case they match anywhere in any text
field the caller may see. Values can be quoted with ' or ". A `-` or `..`
between two values is an inclusive range. A leading `^` or trailing `*`
anchors the value at the start of the field content, a leading `*` or
trailing `$` at its end:

	sn=Don*        surname starts with Don
	sn=*son        surname ends with son
	*Spring*       any visible text field contains Spring

Atoms are joined with AND (also `+`, `&&`, or simply nothing) and OR
(`||`). There is no precedence between the two: expressions are read left
to right and grouped with any of (), {} or []. `!` or NOT inverts the atom
that follows. The sort clause after `;` lists field aliases, `^` marking
descending order.

# Permissions

Every field carries an opaque permission tag checked against the caller's
[Oracle]. An explicit reference to a denied or unknown field fails the
whole translation; field-less terms silently skip fields the caller may
not see.

# Output

[Engine.Translate] returns a [Clause]. Its fragments are available with
values inlined as escaped literals, or with `?` placeholders and a
parameter list for the caller to bind. Prefer the bound form when the
statement is executed directly.
*/
package sqlbar
