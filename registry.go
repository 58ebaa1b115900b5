// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbar

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Field declares one searchable database column.
type Field struct {
	// Column is the backing column reference exactly as it must appear in
	// the emitted SQL, e.g. "pb.postcode".
	Column string
	// Type is the declared database type of the column.
	Type FieldType
	// Permission is the opaque tag checked against the caller's [Oracle].
	Permission string
	// Aliases are the user-facing names under which the field can be
	// queried and sorted. Matching is case sensitive.
	Aliases []string
}

// Registry is the ordered set of fields a query may reference. It is built
// once, never mutated afterwards, and can be shared by any number of
// concurrent callers.
type Registry struct {
	fields  []Field
	byAlias map[string]int
}

// NewRegistry builds a registry from the given field declarations. It
// fails if two fields declare the same alias or a field has no backing
// column.
func NewRegistry(fields ...Field) (*Registry, error) {
	r := &Registry{
		fields:  make([]Field, len(fields)),
		byAlias: make(map[string]int),
	}
	for i, f := range fields {
		if f.Column == "" {
			return nil, fmt.Errorf("field %d has no backing column", i)
		}
		f.Aliases = append([]string(nil), f.Aliases...)
		r.fields[i] = f
		for _, alias := range f.Aliases {
			if _, ok := r.byAlias[alias]; ok {
				return nil, &DuplicateAliasError{Alias: alias}
			}
			r.byAlias[alias] = i
		}
	}
	return r, nil
}

// Fields returns the field declarations in registry order.
func (r *Registry) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// lookup resolves a user-supplied alias to its field. The match is case
// sensitive and exact.
func (r *Registry) lookup(alias string) (*Field, bool) {
	i, ok := r.byAlias[alias]
	if !ok {
		return nil, false
	}
	return &r.fields[i], true
}

// registryDoc is the YAML form of a registry definition:
//
//	fields:
//	  - column: pb.postcode
//	    type: varchar(5)
//	    permission: READ_BASE
//	    aliases: [plz, postcode]
type registryDoc struct {
	Fields []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Column     string   `yaml:"column"`
	Type       string   `yaml:"type"`
	Permission string   `yaml:"permission"`
	Aliases    []string `yaml:"aliases"`
}

// ParseRegistry builds a registry from a YAML document. The field types
// use the declaration forms understood by [ParseFieldType].
func ParseRegistry(data []byte) (*Registry, error) {
	var doc registryDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse registry: %w", err)
	}
	fields := make([]Field, 0, len(doc.Fields))
	for _, fd := range doc.Fields {
		t, err := ParseFieldType(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Column, err)
		}
		fields = append(fields, Field{
			Column:     fd.Column,
			Type:       t,
			Permission: fd.Permission,
			Aliases:    fd.Aliases,
		})
	}
	return NewRegistry(fields...)
}
