package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"schedbot/core/logger"
)

type txState int

const (
	stateOpen txState = iota
	stateCommitted
	stateRolledBack
	stateClosed
)

// UnitOfWork owns one database transaction for its lifetime. Every
// repository constructed from its Session sees the same uncommitted state,
// which is what makes event+reminder co-creation atomic. Exactly one of
// Commit/Rollback runs per unit; Close is always safe to defer.
type UnitOfWork struct {
	tx    *sqlx.Tx
	state txState
}

var errNotOpen = errors.New("unit of work is not open")

// Begin opens a new transaction-backed unit of work.
func (d *Database) Begin(ctx context.Context) (*UnitOfWork, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("UnitOfWork: begin failed", err)
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	logger.Debug("UnitOfWork: transaction begun")
	return &UnitOfWork{tx: tx, state: stateOpen}, nil
}

// Session exposes the transactional query surface.
func (u *UnitOfWork) Session() Session {
	return u.tx
}

func (u *UnitOfWork) Commit() error {
	if u.state != stateOpen {
		return errNotOpen
	}
	err := u.tx.Commit()
	if err != nil {
		// The driver releases the transaction on a failed commit; the
		// unit is spent either way.
		u.state = stateClosed
		logger.Error("UnitOfWork: commit failed", err)
		return fmt.Errorf("commit: %w", err)
	}
	u.state = stateCommitted
	logger.Debug("UnitOfWork: committed")
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if u.state != stateOpen {
		return errNotOpen
	}
	err := u.tx.Rollback()
	if err != nil {
		u.state = stateClosed
		logger.Error("UnitOfWork: rollback failed", err)
		return fmt.Errorf("rollback: %w", err)
	}
	u.state = stateRolledBack
	logger.Debug("UnitOfWork: rolled back")
	return nil
}

// Close releases the unit. A still-open transaction is rolled back. Calling
// Close after Commit or Rollback is a no-op, so it can be deferred
// unconditionally.
func (u *UnitOfWork) Close() {
	if u.state == stateOpen {
		if err := u.tx.Rollback(); err != nil {
			logger.Error("UnitOfWork: rollback on close failed", err)
		}
		u.state = stateRolledBack
		logger.Warn("UnitOfWork: closed while open, rolled back")
		return
	}
	u.state = stateClosed
}

// WithinTx runs fn inside a unit of work: commit when fn returns nil,
// rollback when it returns an error or panics. The error (or panic)
// propagates to the caller after the transaction is released; nothing is
// swallowed.
func (d *Database) WithinTx(ctx context.Context, fn func(sess Session) error) error {
	uow, err := d.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			uow.Close()
			panic(p)
		}
	}()

	if err := fn(uow.Session()); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil && !errors.Is(rbErr, errNotOpen) {
			logger.Error("UnitOfWork: rollback after error failed", rbErr)
		}
		return err
	}
	return uow.Commit()
}
