package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	"github.com/pressly/goose/v3"
	// registers the "sqlite" driver
	_ "modernc.org/sqlite"
)

const (
	driverName    = "sqlite"
	migrationsDir = "migrations"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens (creating if needed) the database file and checks the connection.
func Open(ctx context.Context, name string) (*sql.DB, error) {
	if name == "" {
		return nil, errors.New("database name cannot be empty")
	}

	db, err := sql.Open(driverName, "file:"+name+"?cache=shared&mode=rwc&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, migrationsDir)
}
