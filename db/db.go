package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	ErrNotMember     = errors.New("user is not a member of the group")
	ErrGroupNotFound = errors.New("group not found")
	ErrUserNotFound  = errors.New("user not found")
)

type GroupDB struct {
	DB  *sql.DB
	Log *zerolog.Logger
}

// NewGroupDB opens the database connection and checks it is reachable.
func NewGroupDB(driver, connStr string, log *zerolog.Logger) (*GroupDB, error) {
	if connStr == "" {
		log.Error().Msg("database source is not set")
		return nil, fmt.Errorf("database source is not set")
	}

	// Open the database connection
	db, err := sql.Open(driver, connStr)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		db.Close()
		return nil, err
	}

	return &GroupDB{DB: db, Log: log}, nil
}

func (g *GroupDB) Close() error {
	if err := g.DB.Close(); err != nil {
		return err
	}
	g.Log.Info().Msg("database connection closed")
	return nil
}

// Migrate applies all pending migrations embedded in the binary.
func (g *GroupDB) Migrate() error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("error setting goose dialect: %w", err)
	}

	if err := goose.Up(g.DB, "migrations"); err != nil {
		g.Log.Error().Err(err).Msg("error applying migrations")
		return fmt.Errorf("error applying migrations: %w", err)
	}

	g.Log.Info().Msg("Migrations applied successfully")
	return nil
}

// CommitTransaction commits tx, rolling back if the commit fails.
func (g *GroupDB) CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (g *GroupDB) execQuery(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (int64, error) {
	if g.DB == nil {
		return 0, fmt.Errorf("database connection is not established")
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}
