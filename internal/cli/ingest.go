package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"

	_ "github.com/duckdb/duckdb-go/v2"

	"tokenbench/internal/duckdb"
	"tokenbench/internal/report"
)

// openDatabase is a seam so tests can substitute an in-memory handle.
var openDatabase = func(path string) (*sql.DB, error) {
	return sql.Open("duckdb", path)
}

// runIngest builds the handler for the ingest command.
func runIngest(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		dbPath := flags.String("db", "", "DuckDB database path")
		if err := flags.Parse(args); err != nil {
			return ExitUsage
		}
		if flags.NArg() != 1 || *dbPath == "" {
			fmt.Fprintln(stderr, "ingest expects a results log and --db")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		sourcePath := flags.Arg(0)

		records, err := report.LoadRecords(sourcePath)
		if err != nil {
			fmt.Fprintf(stderr, "Ingest failed: %v\n", err)
			return ExitError
		}

		db, err := openDatabase(*dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "Ingest failed: %v\n", err)
			return ExitError
		}
		defer db.Close()

		if err := duckdb.EnsureSchema(db); err != nil {
			fmt.Fprintf(stderr, "Ingest failed: %v\n", err)
			return ExitError
		}
		result, err := duckdb.IngestRecords(context.Background(), db, records, sourcePath)
		if err != nil {
			fmt.Fprintf(stderr, "Ingest failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Ingested %d records (%d already present) into %s\n",
			result.Inserted, result.Skipped, *dbPath)
		return ExitOK
	}
}
