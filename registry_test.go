package sqlbar_test

import (
	. "gopkg.in/check.v1"

	"github.com/canonical/sqlbar"
)

type RegistrySuite struct{}

var _ = Suite(&RegistrySuite{})

func (s *RegistrySuite) TestNewRegistry(c *C) {
	registry, err := sqlbar.NewRegistry(
		sqlbar.Field{Column: "pa.shortname", Type: sqlbar.VarChar(18), Permission: "READ_BASE", Aliases: []string{"sn"}},
		sqlbar.Field{Column: "pb.city", Type: sqlbar.Text(), Permission: "READ_ADDRESS", Aliases: []string{"city", "ort"}},
	)
	c.Assert(err, IsNil)

	fields := registry.Fields()
	c.Assert(fields, HasLen, 2)
	c.Assert(fields[0].Column, Equals, "pa.shortname")
	c.Assert(fields[1].Aliases, DeepEquals, []string{"city", "ort"})
}

func (s *RegistrySuite) TestDuplicateAlias(c *C) {
	registry, err := sqlbar.NewRegistry(
		sqlbar.Field{Column: "pa.shortname", Type: sqlbar.VarChar(18), Aliases: []string{"sn"}},
		sqlbar.Field{Column: "pb.city", Type: sqlbar.Text(), Aliases: []string{"city", "sn"}},
	)
	c.Assert(err, ErrorMatches, `alias "sn" is declared by more than one field`)
	c.Assert(registry, IsNil)
}

func (s *RegistrySuite) TestMissingColumn(c *C) {
	registry, err := sqlbar.NewRegistry(
		sqlbar.Field{Column: "pa.shortname", Aliases: []string{"sn"}},
		sqlbar.Field{Aliases: []string{"city"}},
	)
	c.Assert(err, ErrorMatches, "field 1 has no backing column")
	c.Assert(registry, IsNil)
}

func (s *RegistrySuite) TestAliasesAreCopied(c *C) {
	aliases := []string{"sn"}
	registry, err := sqlbar.NewRegistry(
		sqlbar.Field{Column: "pa.shortname", Type: sqlbar.VarChar(18), Permission: "READ_BASE", Aliases: aliases},
	)
	c.Assert(err, IsNil)

	// Mutating the caller's slice must not reach the registry.
	aliases[0] = "changed"
	_, err = sqlbar.Translate(registry, sqlbar.AllowAll{}, "sn=Don")
	c.Assert(err, IsNil)
}

func (s *RegistrySuite) TestParseRegistry(c *C) {
	registry, err := sqlbar.ParseRegistry([]byte(`
fields:
  - column: pb.postcode
    type: varchar(5)
    permission: READ_ADDRESS
    aliases: [plz, postcode]
  - column: pa.age
    type: integer(0,150)
    permission: READ_BASE
    aliases: [age]
  - column: pa.changed
    type: date
    permission: READ_BASE
    aliases: [ch]
`))
	c.Assert(err, IsNil)

	clause, err := sqlbar.Translate(registry, sqlbar.AllowAll{}, "plz=26440-26452 AND age>=18;^ch")
	c.Assert(err, IsNil)
	c.Assert(clause.WhereClause(), Equals,
		"(pb.postcode >= '26440' AND pb.postcode <= '26452') AND pa.age >= 18")
	c.Assert(clause.OrderBy(), Equals, "pa.changed DESC")
}

func (s *RegistrySuite) TestParseRegistryErrors(c *C) {
	_, err := sqlbar.ParseRegistry([]byte("fields: ["))
	c.Assert(err, ErrorMatches, "cannot parse registry: .*")

	_, err = sqlbar.ParseRegistry([]byte(`
fields:
  - column: pa.age
    type: elephant
    aliases: [age]
`))
	c.Assert(err, ErrorMatches, `field "pa.age": cannot parse field type "elephant"`)
}
