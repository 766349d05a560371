package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/devdaily/catalog-service/internal/config"
)

// Exit codes for the migrate command.
const (
	exitSuccess = 0
	exitFailure = 1
)

// migrationsPath is the relative path to the migrations directory.
const migrationsPath = "file://migrations"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: migrate <up|down|version>")
		return exitFailure
	}

	command := os.Args[1]
	if command != "up" && command != "down" && command != "version" {
		fmt.Fprintf(os.Stderr, "Invalid command: %q (must be \"up\", \"down\" or \"version\")\n", command)
		return exitFailure
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return exitFailure
	}

	m, err := migrate.New(migrationsPath, buildMigrateURL(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create migrate instance: %v\n", err)
		return exitFailure
	}
	defer func() { _, _ = m.Close() }()

	if command == "version" {
		return printVersion(m)
	}

	if err := runMigration(m, command); err != nil {
		fmt.Fprintf(os.Stderr, "Migration %s failed: %v\n", command, err)
		return exitFailure
	}

	fmt.Printf("Migration %s completed successfully\n", command)
	return exitSuccess
}

// buildMigrateURL constructs a MySQL URL from database config.
func buildMigrateURL(cfg *config.Config) string {
	db := &cfg.Database
	return fmt.Sprintf(
		"mysql://%s:%s@tcp(%s:%s)/%s",
		db.User, db.Password, db.Host, db.Port, db.Name,
	)
}

// runMigration executes the migration in the specified direction.
func runMigration(m *migrate.Migrate, direction string) error {
	var err error

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No migrations to apply")
		return nil
	}

	return err
}

func printVersion(m *migrate.Migrate) int {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("No migrations applied yet")
		return exitSuccess
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read version: %v\n", err)
		return exitFailure
	}

	fmt.Printf("Version %d (dirty: %t)\n", version, dirty)
	return exitSuccess
}
