package database_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"schedbot/core/database"
)

var probeTable = database.TableDef{
	Name: "uow_probe",
	DDL: `
		CREATE TABLE IF NOT EXISTS uow_probe (
			id BIGSERIAL PRIMARY KEY,
			note TEXT NOT NULL
		)`,
}

func testDB(t *testing.T) *database.Database {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	sqlxDB, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { sqlxDB.Close() })

	db := database.Open(sqlxDB)
	ctx := context.Background()
	if err := db.ApplySchema(ctx, database.Schema{probeTable}); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if _, err := sqlxDB.ExecContext(ctx, `TRUNCATE uow_probe RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func countProbes(t *testing.T, db *database.Database) int {
	t.Helper()
	var n int
	if err := db.Session().GetContext(context.Background(), &n, `SELECT COUNT(*) FROM uow_probe`); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func insertProbe(ctx context.Context, sess database.Session, note string) error {
	_, err := sess.ExecContext(ctx, `INSERT INTO uow_probe (note) VALUES ($1)`, note)
	return err
}

func TestWithinTxCommitsOnNil(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithinTx(ctx, func(sess database.Session) error {
		return insertProbe(ctx, sess, "kept")
	})
	if err != nil {
		t.Fatalf("WithinTx() error: %v", err)
	}
	if got := countProbes(t, db); got != 1 {
		t.Errorf("rows = %d, want 1", got)
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.WithinTx(ctx, func(sess database.Session) error {
		if err := insertProbe(ctx, sess, "discarded"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want the callback's own error back", err)
	}
	if got := countProbes(t, db); got != 0 {
		t.Errorf("rows = %d, want 0 after rollback", got)
	}
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic should propagate out of WithinTx")
			}
		}()
		_ = db.WithinTx(ctx, func(sess database.Session) error {
			if err := insertProbe(ctx, sess, "discarded"); err != nil {
				return err
			}
			panic("mid-transaction failure")
		})
	}()

	if got := countProbes(t, db); got != 0 {
		t.Errorf("rows = %d, want 0 after panic rollback", got)
	}
}

func TestUnitOfWorkLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	uow, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := insertProbe(ctx, uow.Session(), "kept"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := uow.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	// A spent unit refuses further transitions.
	if err := uow.Commit(); err == nil {
		t.Error("second Commit should fail")
	}
	if err := uow.Rollback(); err == nil {
		t.Error("Rollback after Commit should fail")
	}
	uow.Close() // no-op after commit

	if got := countProbes(t, db); got != 1 {
		t.Errorf("rows = %d, want 1", got)
	}
}

func TestUnitOfWorkCloseRollsBackOpenTx(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	uow, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := insertProbe(ctx, uow.Session(), "discarded"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	uow.Close()

	if err := uow.Commit(); err == nil {
		t.Error("Commit after Close should fail")
	}
	if got := countProbes(t, db); got != 0 {
		t.Errorf("rows = %d, want 0 after close rollback", got)
	}
}
