// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbar

import (
	. "gopkg.in/check.v1"
)

type FieldTypeSuite struct{}

var _ = Suite(&FieldTypeSuite{})

func (s *FieldTypeSuite) TestString(c *C) {
	c.Assert(Text().String(), Equals, "TEXT")
	c.Assert(VarChar(18).String(), Equals, "VARCHAR(18)")
	c.Assert(Integer(0, 150).String(), Equals, "INTEGER(0,150)")
	c.Assert(Numeric(8, 2).String(), Equals, "NUMERIC(8,2)")
	c.Assert(Bool().String(), Equals, "BOOL")
	c.Assert(Date().String(), Equals, "DATE")
	c.Assert(Timestamp().String(), Equals, "TIMESTAMP")
}

func (s *FieldTypeSuite) TestName(c *C) {
	c.Assert(Text().Name(), Equals, "TEXT")
	c.Assert(VarChar(18).Name(), Equals, "TEXT")
	c.Assert(Integer(0, 150).Name(), Equals, "NUMBER")
	c.Assert(Numeric(8, 2).Name(), Equals, "NUMBER")
	c.Assert(Bool().Name(), Equals, "BOOL")
	c.Assert(Date().Name(), Equals, "TIME")
	c.Assert(Timestamp().Name(), Equals, "TIME")
}

var parseFieldTypeTests = []struct {
	input    string
	expected FieldType
}{
	{"text", Text()},
	{"TEXT", Text()},
	{"varchar(5)", VarChar(5)},
	{"VARCHAR(18)", VarChar(18)},
	{"integer", Integer(minInt64, maxInt64)},
	{"int", Integer(minInt64, maxInt64)},
	{"integer(0,150)", Integer(0, 150)},
	{"integer( -10, 10 )", Integer(-10, 10)},
	{"numeric(8,2)", Numeric(8, 2)},
	{"decimal(8,2)", Numeric(8, 2)},
	{"bool", Bool()},
	{"boolean", Bool()},
	{"date", Date()},
	{"timestamp", Timestamp()},
	{" text ", Text()},
}

func (s *FieldTypeSuite) TestParseFieldType(c *C) {
	for i, test := range parseFieldTypeTests {
		t, err := ParseFieldType(test.input)
		if err != nil {
			c.Errorf("test %d failed (ParseFieldType):\ninput: %s\nerr: %s\n", i, test.input, err)
		} else if t != test.expected {
			c.Errorf("test %d failed (ParseFieldType):\ninput: %s\nexpected: %s\nactual:   %s\n",
				i, test.input, test.expected, t)
		}
	}
}

func (s *FieldTypeSuite) TestParseFieldTypeErrors(c *C) {
	for _, input := range []string{
		"", "elephant", "varchar", "varchar(0)", "varchar(x)",
		"integer(10,0)", "integer(1)", "numeric(8)", "numeric(0,2)", "text(5)",
	} {
		_, err := ParseFieldType(input)
		c.Assert(err, ErrorMatches, "cannot parse field type .*",
			Commentf("input: %q", input))
	}
}

func (s *FieldTypeSuite) TestCheckValueVarChar(c *C) {
	v, err := VarChar(5).checkValue("plz", "26440")
	c.Assert(err, IsNil)
	c.Assert(v, Equals, sqlValue{text: "26440", quote: true})

	_, err = VarChar(5).checkValue("plz", "264400")
	c.Assert(err, ErrorMatches, `value "264400" is not valid for field "plz": longer than 5 characters`)
}

func (s *FieldTypeSuite) TestCheckValueInteger(c *C) {
	v, err := Integer(-100, 100).checkValue("age", "-42")
	c.Assert(err, IsNil)
	c.Assert(v, Equals, sqlValue{text: "-42", num: int64(-42)})

	_, err = Integer(-100, 100).checkValue("age", "101")
	c.Assert(err, ErrorMatches, `value "101" is not valid for field "age": not a whole number between -100 and 100`)
}

func (s *FieldTypeSuite) TestCheckValueNumeric(c *C) {
	v, err := Numeric(8, 2).checkValue("price", "35,12")
	c.Assert(err, IsNil)
	c.Assert(v, Equals, sqlValue{text: "35.12", num: 35.12})

	v, err = Numeric(8, 2).checkValue("price", "-0.5")
	c.Assert(err, IsNil)
	c.Assert(v.text, Equals, "-0.5")
}

func (s *FieldTypeSuite) TestCheckValueTimestamp(c *C) {
	v, err := Timestamp().checkValue("created", "2022-12-24")
	c.Assert(err, IsNil)
	c.Assert(v.text, Equals, "2022-12-24 00:00:00")

	v, err = Timestamp().checkValue("created", "2022-12-24 18:30:00")
	c.Assert(err, IsNil)
	c.Assert(v.text, Equals, "2022-12-24 18:30:00")

	_, err = Timestamp().checkValue("created", "24.12.2022")
	c.Assert(err, ErrorMatches, `"24.12.2022" is not a valid date, expected YYYY-MM-DD`)
}

func (s *FieldTypeSuite) TestCheckBool(c *C) {
	for _, text := range []string{"1", "true", "wahr", "yes", "ja", "y", "j", "t", "w", "Ja", "TRUE"} {
		v, err := checkBool("active", text)
		c.Assert(err, IsNil, Commentf("input: %q", text))
		c.Assert(v, Equals, true, Commentf("input: %q", text))
	}
	for _, text := range []string{"0", "false", "falsch", "unwahr", "no", "not", "nein", "n", "f"} {
		v, err := checkBool("active", text)
		c.Assert(err, IsNil, Commentf("input: %q", text))
		c.Assert(v, Equals, false, Commentf("input: %q", text))
	}
	_, err := checkBool("active", "maybe")
	c.Assert(err, ErrorMatches, `value "maybe" is not valid for field "active": not a boolean`)
}

func (s *FieldTypeSuite) TestLikePattern(c *C) {
	c.Assert(likePattern("Ham*er"), Equals, "Ham%er")
	c.Assert(likePattern("H?mmer"), Equals, "H_mmer")
	c.Assert(likePattern("100%"), Equals, `100\%`)
	c.Assert(likePattern("a_b"), Equals, `a\_b`)
	c.Assert(likePattern("plain"), Equals, "plain")
}
