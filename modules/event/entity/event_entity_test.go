package entity

import (
	"strings"
	"testing"
	"time"

	apperrors "schedbot/core/errors"
)

func validParams() NewEventParams {
	return NewEventParams{
		UserID:         42,
		Title:          "Dentist",
		DateStart:      time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		DateEnd:        time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		ReminderOffset: 900,
		NeedToRemind:   true,
	}
}

func TestNewEvent(t *testing.T) {
	longDescription := strings.Repeat("d", 1025)
	badRRule := "FREQ=HOURLY"

	tests := []struct {
		name   string
		mutate func(*NewEventParams)
		wantOK bool
	}{
		{"valid", func(p *NewEventParams) {}, true},
		{"missing user", func(p *NewEventParams) { p.UserID = 0 }, false},
		{"empty title", func(p *NewEventParams) { p.Title = "   " }, false},
		{"title too long", func(p *NewEventParams) { p.Title = strings.Repeat("t", 256) }, false},
		{"description too long", func(p *NewEventParams) { p.Description = &longDescription }, false},
		{"end before start", func(p *NewEventParams) {
			p.DateEnd = p.DateStart.Add(-time.Hour)
		}, false},
		{"zero start", func(p *NewEventParams) { p.DateStart = time.Time{} }, false},
		{"zero end", func(p *NewEventParams) { p.DateEnd = time.Time{} }, false},
		{"equal start and end allowed", func(p *NewEventParams) {
			p.DateEnd = p.DateStart
		}, true},
		{"negative offset", func(p *NewEventParams) { p.ReminderOffset = -900 }, false},
		{"unsupported rrule frequency", func(p *NewEventParams) { p.RRule = &badRRule }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			event, err := NewEvent(p)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("NewEvent() unexpected error: %v", err)
				}
				if event.CreatedAt.IsZero() || !event.LastModified.Equal(event.CreatedAt) {
					t.Errorf("timestamps not initialized together: created=%v modified=%v",
						event.CreatedAt, event.LastModified)
				}
				return
			}
			if err == nil {
				t.Fatal("NewEvent() expected error, got nil")
			}
			if !apperrors.IsCode(err, apperrors.ErrInvalidInput) {
				t.Errorf("error code = %v, want %v", apperrors.CodeOf(err), apperrors.ErrInvalidInput)
			}
		})
	}
}

func TestNewEventTrimsTitle(t *testing.T) {
	p := validParams()
	p.Title = "  Dentist  "

	event, err := NewEvent(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Title != "Dentist" {
		t.Errorf("title = %q, want %q", event.Title, "Dentist")
	}
}

func TestNormalizeOffset(t *testing.T) {
	tests := []struct {
		name    string
		in      time.Duration
		want    int64
		wantErr bool
	}{
		{"fifteen minutes", 15 * time.Minute, 900, false},
		{"zero", 0, 0, false},
		{"negative", -time.Second, 0, true},
		{"sub-second fraction", 1500 * time.Millisecond, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeOffset(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeOffset(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeOffset(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateLastModified(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := ValidateLastModified(created, created); err != nil {
		t.Errorf("equal timestamps should be valid: %v", err)
	}
	if err := ValidateLastModified(created, created.Add(time.Minute)); err != nil {
		t.Errorf("later modification should be valid: %v", err)
	}
	if err := ValidateLastModified(created, created.Add(-time.Minute)); err == nil {
		t.Error("earlier modification should be rejected")
	}
}
