package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// New opens the SQLite file at dataSourceName and verifies the connection.
// The returned *sqlx.DB is a pool, safe for concurrent use; each request
// borrows a connection per statement and returns it when the statement
// finishes, on error paths included.
func New(dataSourceName string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
// CREATE TABLE IF NOT EXISTS is idempotent, so this is safe on every boot.
func Migrate(db *sqlx.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS students (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		nome      TEXT NOT NULL,
		email     TEXT NOT NULL,
		telefone  TEXT,
		curso     TEXT,
		criado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS usuarios (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		is_admin      BOOLEAN DEFAULT 0
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
