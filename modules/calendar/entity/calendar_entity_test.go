package entity

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "Work", "Work", false},
		{"trimmed", "  Work  ", "Work", false},
		{"empty", "   ", "", true},
		{"too long", strings.Repeat("n", 256), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"https ics", "https://example.com/feed.ics", false},
		{"http ics", "http://example.com/feed.ics", false},
		{"no scheme", "example.com/feed.ics", true},
		{"ftp scheme", "ftp://example.com/feed.ics", true},
		{"not ics", "https://example.com/feed.json", true},
		{"too long", "https://example.com/" + strings.Repeat("a", 240) + ".ics", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateURL(tt.in); (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestNewCalendar(t *testing.T) {
	calendar, err := NewCalendar(1, "Work", "https://example.com/work.ics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !calendar.SyncEnabled {
		t.Error("new calendars should have sync enabled")
	}

	if _, err := NewCalendar(0, "Work", "https://example.com/work.ics"); err == nil {
		t.Error("expected error for missing user_id")
	}
}
