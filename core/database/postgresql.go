package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"schedbot/core/config"
	"schedbot/core/constants"
	apperrors "schedbot/core/errors"
	"schedbot/core/logger"
)

// Session is the query surface repositories are built on. Both the pooled
// *sqlx.DB and an open *sqlx.Tx satisfy it, so repositories constructed from
// a UnitOfWork share that unit's transaction while the same repository code
// also runs against the pool for single-statement reads.
type Session interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
}

type Database struct {
	db *sqlx.DB
}

func InitDB(cfg config.DatabaseConfig) (*Database, error) {
	logger.Info("Initializing database...")

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = constants.DatabaseSSLMode
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)

	sqlxDB, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlxDB.SetMaxOpenConns(constants.DatabaseMaxOpenConns)
	sqlxDB.SetMaxIdleConns(constants.DatabaseMaxIdleConns)
	sqlxDB.SetConnMaxLifetime(time.Duration(constants.DatabaseConnMaxLifetime) * time.Minute)

	if err = sqlxDB.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database initialized successfully",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.DBName,
		"user", cfg.User,
		"maxOpenConns", constants.DatabaseMaxOpenConns,
		"maxIdleConns", constants.DatabaseMaxIdleConns,
	)

	return &Database{db: sqlxDB}, nil
}

// Open wraps an already-connected sqlx handle. Used by integration tests.
func Open(db *sqlx.DB) *Database {
	return &Database{db: db}
}

// Session returns the pooled, non-transactional session.
func (d *Database) Session() Session {
	return d.db
}

func (d *Database) Close() error {
	return d.db.Close()
}

// WrapError translates driver-level failures into the application error
// taxonomy. Unique violations surface as conflicts, foreign-key violations
// as invalid input; everything else passes through unchanged.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return apperrors.Conflict(message, err)
		case "23503": // foreign_key_violation
			return apperrors.NewAppError(apperrors.ErrInvalidInput, message, err)
		}
	}
	return err
}
