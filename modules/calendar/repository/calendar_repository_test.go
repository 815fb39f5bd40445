package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"schedbot/core/database"
	apperrors "schedbot/core/errors"
	"schedbot/modules/calendar/dto"
	calendarentity "schedbot/modules/calendar/entity"
	"schedbot/modules/calendar/repository"
	eventdto "schedbot/modules/event/dto"
	evententity "schedbot/modules/event/entity"
	eventrepo "schedbot/modules/event/repository"
	settingsentity "schedbot/modules/settings/entity"
)

var testSchema = database.Schema{
	calendarentity.Table,
	evententity.Table,
	evententity.ReminderTable,
	settingsentity.Table,
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
	if err := db.ApplySchema(ctx, testSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if _, err := sqlxDB.ExecContext(ctx,
		`TRUNCATE reminders, events, calendars, user_settings RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func TestCreateRejectsDuplicateNameOrURL(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := repository.NewCalendarRepository(db.Session())

	_, err := repo.Create(ctx, 1, &dto.CreateCalendarRequest{
		Name: "Work",
		URL:  "https://example.com/work.ics",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Same name, different owner: names are unique across all users.
	_, err = repo.Create(ctx, 2, &dto.CreateCalendarRequest{
		Name: "Work",
		URL:  "https://example.com/other.ics",
	})
	if !apperrors.IsCode(err, apperrors.ErrAlreadyExists) {
		t.Errorf("duplicate name error = %v, want conflict", err)
	}

	_, err = repo.Create(ctx, 2, &dto.CreateCalendarRequest{
		Name: "Other",
		URL:  "https://example.com/work.ics",
	})
	if !apperrors.IsCode(err, apperrors.ErrAlreadyExists) {
		t.Errorf("duplicate url error = %v, want conflict", err)
	}
}

func TestDeleteCascadesThroughEventsAndReminders(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	calendars := repository.NewCalendarRepository(db.Session())
	calendar, err := calendars.Create(ctx, 1, &dto.CreateCalendarRequest{
		Name: "Work",
		URL:  "https://example.com/work.ics",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	events := eventrepo.NewEventRepository(db.Session())
	start := time.Now().UTC().Add(48 * time.Hour)
	event, err := events.Create(ctx, 1, &eventdto.CreateEventRequest{
		Title:      "Standup",
		DateStart:  start,
		DateEnd:    start.Add(time.Hour),
		CalendarID: &calendar.ID,
	})
	if err != nil {
		t.Fatalf("event Create() error: %v", err)
	}

	owner := int64(1)
	err = db.WithinTx(ctx, func(sess database.Session) error {
		return repository.NewCalendarRepository(sess).Delete(ctx, calendar.ID, &owner)
	})
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	gone, err := events.GetByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if gone != nil {
		t.Error("linked event should be deleted with the calendar")
	}
	reminder, err := events.GetReminderByEventID(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetReminderByEventID() error: %v", err)
	}
	if reminder != nil {
		t.Error("linked reminder should be deleted with the calendar")
	}
}

func TestDeleteConflatesOwnershipWithAbsence(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := repository.NewCalendarRepository(db.Session())

	calendar, err := repo.Create(ctx, 1, &dto.CreateCalendarRequest{
		Name: "Work",
		URL:  "https://example.com/work.ics",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	stranger := int64(2)
	if err := repo.Delete(ctx, calendar.ID, &stranger); !apperrors.IsCode(err, apperrors.ErrNotFound) {
		t.Errorf("non-owner delete error = %v, want not-found", err)
	}
	if err := repo.Delete(ctx, 999999, &stranger); !apperrors.IsCode(err, apperrors.ErrNotFound) {
		t.Errorf("absent delete error = %v, want not-found", err)
	}
}

func TestMarkSyncedStampsLastSync(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := repository.NewCalendarRepository(db.Session())

	calendar, err := repo.Create(ctx, 1, &dto.CreateCalendarRequest{
		Name: "Work",
		URL:  "https://example.com/work.ics",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if calendar.LastSync != nil {
		t.Error("fresh calendar should have no last_sync")
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := repo.MarkSynced(ctx, calendar.ID, at); err != nil {
		t.Fatalf("MarkSynced() error: %v", err)
	}

	stored, err := repo.GetByID(ctx, calendar.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if stored.LastSync == nil || !stored.LastSync.Equal(at) {
		t.Errorf("last_sync = %v, want %v", stored.LastSync, at)
	}
}
