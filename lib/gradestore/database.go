package gradestore

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Database is where snapshots are kept, either a local sqlite file or a remote libsql
// database when URL is set.
type Database struct {
	File      string `json:"file"`
	URL       string `json:"url" validate:"omitempty,url"`
	AuthToken string `json:"auth_token"`
}

func (config Database) remoteDSN() (string, error) {
	u, err := url.Parse(config.URL)
	if err != nil {
		return "", err
	}
	if config.AuthToken != "" {
		query := u.Query()
		query.Set("authToken", config.AuthToken)
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// OpenDB opens the database and creates the snapshot tables in it.
func (config Database) OpenDB() (*sql.DB, error) {
	var db *sql.DB
	switch {
	case config.URL != "":
		dsn, err := config.remoteDSN()
		if err != nil {
			return nil, fmt.Errorf("invalid database url: %w", err)
		}
		db, err = sql.Open("libsql", dsn)
		if err != nil {
			return nil, err
		}
	case config.File != "":
		err := os.MkdirAll(filepath.Dir(config.File), 0777)
		if err != nil {
			return nil, err
		}
		db, err = sql.Open("sqlite", config.File)
		if err != nil {
			return nil, err
		}
		// sqlite only allows one writer
		db.SetMaxOpenConns(1)
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("a database file or url was not specified")
	}

	_, err := db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}
