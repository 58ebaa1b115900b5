package example

import (
	"database/sql"
	"fmt"

	"github.com/canonical/sqlbar"

	_ "github.com/mattn/go-sqlite3"
)

// registryYAML is the kind of field declaration an application would ship
// alongside its schema.
var registryYAML = []byte(`
fields:
  - column: p.name
    type: varchar(30)
    permission: READ_PEOPLE
    aliases: [name]
  - column: p.team
    type: text
    permission: READ_PEOPLE
    aliases: [team]
  - column: l.name
    type: text
    permission: READ_ROOMS
    aliases: [room]
  - column: l.room_id
    type: integer
    permission: READ_ROOMS
    aliases: [roomid]
`)

func example() {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		panic(err)
	}

	create := `
	CREATE TABLE person (
		name text,
		id integer,
		team text
	);
	CREATE TABLE location (
		room_id integer,
		name text,
		team text
	)`
	_, err = db.Exec(create)
	if err != nil {
		panic(err)
	}

	people := [][]any{
		{"Alastair", 1, "engineering"},
		{"Ed", 2, "engineering"},
		{"Marco", 3, "engineering"},
		{"Pedro", 4, "management"},
		{"Serdar", 5, "presentation engineering"},
		{"Joe", 6, "marketing"},
	}
	for _, p := range people {
		_, err := db.Exec("INSERT INTO person (name, id, team) VALUES (?, ?, ?)", p...)
		if err != nil {
			panic(err)
		}
	}
	locations := [][]any{
		{1, "Basement", "engineering"},
		{34, "Floor 2", "presentation engineering"},
		{19, "Floor 3", "management"},
		{66, "The Market", "marketing"},
	}
	for _, l := range locations {
		_, err := db.Exec("INSERT INTO location (room_id, name, team) VALUES (?, ?, ?)", l...)
		if err != nil {
			panic(err)
		}
	}

	registry, err := sqlbar.ParseRegistry(registryYAML)
	if err != nil {
		panic(err)
	}
	engine := sqlbar.NewEngine(registry, nil)
	oracle := sqlbar.NewTagSet("READ_PEOPLE", "READ_ROOMS")

	// Show the user which fields their search bar can reach.
	fmt.Println("searchable fields:")
	fmt.Print(engine.Explain(oracle))

	// A search bar query typed by the user.
	clause, err := engine.Translate(oracle, "team=engineering AND name=A*;name")
	if err != nil {
		// Translation errors are meant for the user, not the log.
		fmt.Println(err)
		return
	}

	stmt, params := clause.ToSQLParams("AND")
	rows, err := db.Query(`
		SELECT p.name, l.name
		FROM person AS p
			JOIN location AS l
			ON p.team = l.team`+stmt, params...)
	if err != nil {
		panic(err)
	}
	defer rows.Close()

	for rows.Next() {
		var person, room string
		if err := rows.Scan(&person, &room); err != nil {
			panic(err)
		}
		fmt.Printf("%s is in %s\n", person, room)
	}
	if err := rows.Err(); err != nil {
		panic(err)
	}
}
