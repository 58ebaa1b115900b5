package demo

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/canonical/sqlbar"
)

func example() error {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE partner (
			shortname text,
			descr text,
			postcode text,
			city text,
			age integer
		);`,
	)
	if err != nil {
		return err
	}

	inserts := [][]any{
		{"Hammermann", "Eisenwaren und Werkzeug", "26440", "Aurich", 52},
		{"Donner", "Elektrogeräte", "26452", "Sande", 34},
		{"Schmidt", "Eisenhandel", "28195", "Bremen", 61},
		{"Donaldson", "Seefracht", "26441", "Aurich", 45},
	}
	for _, row := range inserts {
		_, err := db.Exec("INSERT INTO partner VALUES (?, ?, ?, ?, ?)", row...)
		if err != nil {
			return err
		}
	}

	registry, err := sqlbar.NewRegistry(
		sqlbar.Field{Column: "shortname", Type: sqlbar.VarChar(18), Permission: "READ_BASE", Aliases: []string{"sn", "shortname"}},
		sqlbar.Field{Column: "descr", Type: sqlbar.Text(), Permission: "READ_BASE", Aliases: []string{"descr"}},
		sqlbar.Field{Column: "postcode", Type: sqlbar.VarChar(5), Permission: "READ_ADDRESS", Aliases: []string{"plz", "postcode"}},
		sqlbar.Field{Column: "city", Type: sqlbar.Text(), Permission: "READ_ADDRESS", Aliases: []string{"city"}},
		sqlbar.Field{Column: "age", Type: sqlbar.Integer(0, 150), Permission: "READ_BASE", Aliases: []string{"age"}},
	)
	if err != nil {
		return err
	}
	engine := sqlbar.NewEngine(registry, nil)

	// The caller holds both permission tags, so every field is visible.
	oracle := sqlbar.NewTagSet("READ_BASE", "READ_ADDRESS")

	queries := []string{
		"Eisen",
		"plz=26440-26452;^plz",
		"sn=Don* AND age>=40",
	}
	for _, query := range queries {
		clause, err := engine.Translate(oracle, query)
		if err != nil {
			return err
		}
		stmt, params := clause.ToSQLParams("WHERE")

		rows, err := db.Query("SELECT shortname, city FROM partner"+stmt, params...)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", query)
		for rows.Next() {
			var shortname, city string
			if err := rows.Scan(&shortname, &city); err != nil {
				rows.Close()
				return err
			}
			fmt.Printf("\t%s (%s)\n", shortname, city)
		}
		if err := rows.Close(); err != nil {
			return err
		}
	}

	// The same query with fewer permissions reaches fewer fields.
	clause, err := engine.Translate(sqlbar.NewTagSet("READ_BASE"), "Eisen")
	if err != nil {
		return err
	}
	fmt.Printf("restricted: %s\n", clause.WhereClause())
	return nil
}

func main() {
	err := example()
	if err != nil {
		panic(err)
	}
}
