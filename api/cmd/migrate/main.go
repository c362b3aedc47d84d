package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/rafa-porto/dev-connect/api/config"
	"github.com/rafa-porto/dev-connect/api/database"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

const usage = `Usage: migrate [up|down|status|version]

Applies the embedded postgres migrations to the database named by DATABASE_URL
(or DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME).`

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	if err := run(command); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", command, err)
		os.Exit(1)
	}
}

func run(command string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(database.MigrationsFS())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.Up(db, "migrations")
	case "down":
		return goose.Down(db, "migrations")
	case "status":
		return goose.Status(db, "migrations")
	case "version":
		return goose.Version(db, "migrations")
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
