package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"validation", Validation("bad"), ErrInvalidInput},
		{"not found", NotFound("event", 1), ErrNotFound},
		{"conflict", Conflict("dup", nil), ErrAlreadyExists},
		{"temporal", Temporal("broken"), ErrTemporal},
		{"wrapped app error", fmt.Errorf("outer: %w", Validation("bad")), ErrInvalidInput},
		{"plain error", stderrors.New("boom"), ErrInternalServer},
		{"nil-ish", fmt.Errorf("no app error inside"), ErrInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("driver said no")
	err := NewAppError(ErrAlreadyExists, "conflict", cause)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
	if !IsCode(err, ErrAlreadyExists) {
		t.Error("IsCode should match the carried code")
	}
	if IsCode(err, ErrNotFound) {
		t.Error("IsCode should not match a different code")
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("calendar", 42)
	if got, want := err.Error(), "NOT_FOUND: calendar 42 not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
