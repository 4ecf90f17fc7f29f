package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/gofiber/fiber/v2/log"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql
	"github.com/jmoiron/sqlx"
)

// psql builds PostgreSQL statements with $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Postgres implements services.UserStore and services.TodoStore on
// PostgreSQL.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an existing connection.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// StartPostgreSQL opens a connection pool to uri and verifies it.
func StartPostgreSQL(ctx context.Context, uri string) (*Postgres, error) {
	if uri == "" {
		return nil, errors.New("you must set your 'POSTGRESQL_URI' environmental variable")
	}

	db, err := sqlx.Open("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot connect to PostgreSQL: %w", err)
	}

	log.Info("Connected to PostgreSQL successfully")
	return &Postgres{db: db}, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(50) PRIMARY KEY,
		username VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role VARCHAR(10) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id VARCHAR(50) PRIMARY KEY,
		title VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		due_date VARCHAR(10) NOT NULL DEFAULT '',
		category VARCHAR(20) NOT NULL CHECK (category IN ('Urgent', 'Non-Urgent')),
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		owner_id VARCHAR(50) NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_owner_id ON todos(owner_id)`,
}

// Migrate creates the tables if they do not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	log.Info("Tables created or already exist")
	return nil
}

// Ping checks that the database is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	if err := p.db.Close(); err != nil {
		return err
	}
	log.Info("Database connection closed")
	return nil
}
