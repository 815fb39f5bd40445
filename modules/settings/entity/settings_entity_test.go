package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:30", TimeOfDay{9, 30}, false},
		{"00:00", TimeOfDay{0, 0}, false},
		{"23:59", TimeOfDay{23, 59}, false},
		{"24:00", TimeOfDay{}, true},
		{"9:30pm", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay
	if err := tod.Scan(time.Date(0, 1, 1, 22, 15, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time) error: %v", err)
	}
	if tod != (TimeOfDay{22, 15}) {
		t.Errorf("Scan(time.Time) = %v, want 22:15", tod)
	}

	var fromBytes TimeOfDay
	if err := fromBytes.Scan([]byte("07:45:00")); err != nil {
		t.Fatalf("Scan([]byte) error: %v", err)
	}
	if fromBytes != (TimeOfDay{7, 45}) {
		t.Errorf("Scan([]byte) = %v, want 07:45", fromBytes)
	}

	if err := tod.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}

func TestTimeOfDayJSONRoundTrip(t *testing.T) {
	in := TimeOfDay{8, 5}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"08:05"` {
		t.Errorf("marshal = %s, want %q", b, "08:05")
	}

	var out TimeOfDay
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}

func TestValidateQuietHours(t *testing.T) {
	start := TimeOfDay{22, 0}
	end := TimeOfDay{23, 30}

	tests := []struct {
		name    string
		start   *TimeOfDay
		end     *TimeOfDay
		wantErr bool
	}{
		{"both unset", nil, nil, false},
		{"valid pair", &start, &end, false},
		{"start without end", &start, nil, true},
		{"end equals start", &start, &start, true},
		{"end before start", &end, &start, true},
		{"end without start allowed", nil, &end, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuietHours(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuietHours() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSettingsDefaults(t *testing.T) {
	settings, err := NewSettings(NewSettingsParams{UserID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Timezone != "UTC+2" {
		t.Errorf("timezone = %q, want UTC+2", settings.Timezone)
	}
	if settings.Language != "en" {
		t.Errorf("language = %q, want en", settings.Language)
	}
	if settings.DefaultReminderOffset != 900 {
		t.Errorf("default_reminder_offset = %d, want 900", settings.DefaultReminderOffset)
	}
}

func TestNewSettingsRejectsNegativeOffset(t *testing.T) {
	offset := int64(-1)
	if _, err := NewSettings(NewSettingsParams{UserID: 7, DefaultReminderOffset: &offset}); err == nil {
		t.Error("expected error for negative default_reminder_offset")
	}
}

func TestNewSettingsRequiresUser(t *testing.T) {
	if _, err := NewSettings(NewSettingsParams{}); err == nil {
		t.Error("expected error for missing user_id")
	}
}
