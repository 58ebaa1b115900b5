package sqlbar_test

import (
	"database/sql"

	. "gopkg.in/check.v1"

	"github.com/canonical/sqlbar"
)

type DBSuite struct{}

var _ = Suite(&DBSuite{})

func queryNames(db *sql.DB, clause *sqlbar.Clause) ([]string, error) {
	stmt, params := clause.ToSQLParams("WHERE")
	rows, err := db.Query("SELECT shortname FROM partner"+stmt, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

var dbTests = []struct {
	summary  string
	query    string
	oracle   sqlbar.Oracle
	expected []string
}{{
	summary:  "text equals",
	query:    "city=Aurich;sn",
	oracle:   sqlbar.AllowAll{},
	expected: []string{"Donaldson", "Hammermann"},
}, {
	summary:  "postcode range sorted descending",
	query:    "plz=26440-26452;^plz",
	oracle:   sqlbar.AllowAll{},
	expected: []string{"Donner", "Donaldson", "Hammermann"},
}, {
	summary:  "field-less term over permitted text fields",
	query:    "Eisen;sn",
	oracle:   sqlbar.NewTagSet("READ_BASE"),
	expected: []string{"Hammermann", "Schmidt"},
}, {
	summary:  "starts-with marker",
	query:    "sn=Don*;sn",
	oracle:   sqlbar.AllowAll{},
	expected: []string{"Donaldson", "Donner"},
}, {
	summary:  "negated wildcard",
	query:    "sn!=Don*;sn",
	oracle:   sqlbar.AllowAll{},
	expected: []string{"Hammermann", "Schmidt"},
}, {
	summary:  "boolean false",
	query:    "active=no",
	oracle:   sqlbar.AllowAll{},
	expected: []string{"Schmidt"},
}, {
	summary:  "combined comparison",
	query:    "age>=45 AND active=yes;sn",
	oracle:   sqlbar.AllowAll{},
	expected: []string{"Donaldson", "Hammermann"},
}, {
	summary:  "numeric range",
	query:    "price='100'-'500';sn",
	oracle:   sqlbar.AllowAll{},
	expected: []string{"Donaldson", "Donner"},
}, {
	summary:  "date range",
	query:    "ch=2022-01-01-2022-12-31;sn",
	oracle:   sqlbar.AllowAll{},
	expected: []string{"Donner", "Hammermann"},
}, {
	summary:  "field-less term with no candidates",
	query:    "Eisen",
	oracle:   sqlbar.NewTagSet(),
	expected: nil,
}, {
	summary:  "sort only",
	query:    ";^age",
	oracle:   sqlbar.AllowAll{},
	expected: []string{"Schmidt", "Hammermann", "Donaldson", "Donner"},
}}

func (s *DBSuite) TestQueries(c *C) {
	registry, db, err := partnerDB()
	c.Assert(err, IsNil)
	defer db.Close()

	engine := sqlbar.NewEngine(registry, nil)
	for i, test := range dbTests {
		clause, err := engine.Translate(test.oracle, test.query)
		if err != nil {
			c.Errorf("test %d failed (Translate):\nsummary: %s\nquery: %s\nerr: %s\n",
				i, test.summary, test.query, err)
			continue
		}
		names, err := queryNames(db, clause)
		if err != nil {
			c.Errorf("test %d failed (Query):\nsummary: %s\nquery: %s\nsql: %s\nerr: %s\n",
				i, test.summary, test.query, clause.ToSQL("WHERE"), err)
			continue
		}
		c.Check(names, DeepEquals, test.expected,
			Commentf("test %d: %s\nquery: %s\nsql: %s", i, test.summary, test.query, clause.ToSQL("WHERE")))
	}
}

// The inlined and the bound renderings of the same clause must select the
// same rows.
func (s *DBSuite) TestInlineMatchesBound(c *C) {
	registry, db, err := partnerDB()
	c.Assert(err, IsNil)
	defer db.Close()

	engine := sqlbar.NewEngine(registry, nil)
	clause, err := engine.Translate(sqlbar.AllowAll{}, "Donner OR city=Bremen;sn")
	c.Assert(err, IsNil)

	bound, err := queryNames(db, clause)
	c.Assert(err, IsNil)

	rows, err := db.Query("SELECT shortname FROM partner" + clause.ToSQL("WHERE"))
	c.Assert(err, IsNil)
	defer rows.Close()
	var inline []string
	for rows.Next() {
		var name string
		c.Assert(rows.Scan(&name), IsNil)
		inline = append(inline, name)
	}
	c.Assert(rows.Err(), IsNil)
	c.Assert(inline, DeepEquals, bound)
	c.Assert(inline, DeepEquals, []string{"Donner", "Schmidt"})
}
