package utils

import (
	"testing"
	"time"

	"schedbot/core/errors"
)

func TestIssueAndValidateToken(t *testing.T) {
	const secret = "test-secret"

	token, err := IssueToken(secret, 42, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	data, err := ValidateAndParseToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateAndParseToken() error: %v", err)
	}
	if data.UserID != 42 {
		t.Errorf("user id = %d, want 42", data.UserID)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken("right-secret", 42, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	_, err = ValidateAndParseToken("wrong-secret", token)
	if !errors.IsCode(err, errors.ErrInvalidTokenFormat) {
		t.Errorf("error = %v, want invalid token format", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := IssueToken("secret", 42, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	_, err = ValidateAndParseToken("secret", token)
	if !errors.IsCode(err, errors.ErrTokenExpired) {
		t.Errorf("error = %v, want token expired", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateAndParseToken("secret", "not.a.token"); err == nil {
		t.Error("garbage token should fail")
	}
}
