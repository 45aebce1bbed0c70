package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// schema creates the record tables and the refresh token table when they
// do not exist yet.  The timestamp column keeps the exact string the report
// was stamped with.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username VARCHAR(64)  NOT NULL PRIMARY KEY,
		password VARCHAR(128) NOT NULL,
		role     VARCHAR(16)  NOT NULL DEFAULT 'standard',
		points   INT          NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS waste_reports (
		id         INT          NOT NULL PRIMARY KEY,
		user       VARCHAR(64)  NOT NULL,
		latitude   DOUBLE       NOT NULL,
		longitude  DOUBLE       NOT NULL,
		type       VARCHAR(64)  NOT NULL,
		timestamp  VARCHAR(32)  NOT NULL,
		status     VARCHAR(32)  NOT NULL,
		image_path VARCHAR(512) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		token_hash CHAR(64)    NOT NULL PRIMARY KEY,
		username   VARCHAR(64) NOT NULL,
		role       VARCHAR(16) NOT NULL,
		expires_at DATETIME    NOT NULL,
		revoked_at DATETIME    NULL,
		INDEX idx_refresh_tokens_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// DSN builds a go-sql-driver DSN.
func DSN(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)
}

// Open connects to MySQL, verifies the connection and ensures the schema.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema runs the CREATE TABLE IF NOT EXISTS statements.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
