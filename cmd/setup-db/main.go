package main

import (
	"flag"
	"fmt"
	"os"

	"database/sql"

	_ "github.com/lib/pq"

	"portfolio-backend-refactor/pkg/config"
)

// Applies the schema and seed data from scripts/init_db.sql. The file is
// idempotent, so rerunning is safe.
func main() {
	schemaPath := flag.String("schema", "scripts/init_db.sql", "path to the schema file")
	flag.Parse()

	cfg := config.Load()
	if cfg.PostgresDSN == "" {
		fmt.Fprintln(os.Stderr, "POSTGRES_DSN is required")
		os.Exit(1)
	}

	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read schema file: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to ping database: %v\n", err)
		os.Exit(1)
	}

	if _, err := db.Exec(string(schema)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to apply schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database setup complete")
}
