package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"icassist/lib/telemetry"

	_ "modernc.org/sqlite"
)

type DBParams struct {
	Name string
	// if unspecified, it will skip creating tables
	Schema string
	// if unspecified, it will use `:memory:`
	Path string
}

// SetupDB opens a sqlite database for a test and creates the schema in it.
func SetupDB(t testing.TB, params DBParams) (*sql.DB, func()) {
	cleanupTelemetry := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	path := params.Path
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if params.Schema != "" {
		_, err = db.Exec(params.Schema)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			t.Fatal(err)
		}
	}

	return db, func() {
		db.Close()
		cleanupTelemetry()
	}
}

// SetupTelemetry installs the exporters from telemetry.json5 for a test, if there is one.
func SetupTelemetry(t testing.TB, name string) func() {
	return telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", name))
}
