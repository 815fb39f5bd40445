package entity

import (
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"

	"schedbot/core/constants"
	apperrors "schedbot/core/errors"
)

// The stored RRULE is a constrained RFC 5545 subset: FREQ in
// {DAILY, WEEKLY, MONTHLY, YEARLY} plus optional INTERVAL, COUNT and UNTIL.
// Rules are validated syntactically and stored verbatim; they are never
// expanded into occurrences here.
var allowedRRuleKeys = map[string]bool{
	"FREQ":     true,
	"INTERVAL": true,
	"COUNT":    true,
	"UNTIL":    true,
}

// ValidateRRule normalizes (trim, uppercase) and validates an optional
// RRULE string, returning the normalized value.
func ValidateRRule(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}

	v := strings.ToUpper(strings.TrimSpace(*value))
	if v == "" {
		return nil, apperrors.Validation("rrule cannot be empty when provided")
	}
	if len(v) > constants.MaxRRuleLength {
		return nil, apperrors.Validation("rrule cannot exceed 255 characters")
	}

	hasFreq := false
	for _, part := range strings.Split(v, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || kv[1] == "" {
			return nil, apperrors.Validation(fmt.Sprintf("invalid rrule part %q", part))
		}
		if !allowedRRuleKeys[kv[0]] {
			return nil, apperrors.Validation(fmt.Sprintf("rrule key %q is not supported; allowed: FREQ, INTERVAL, COUNT, UNTIL", kv[0]))
		}
		if kv[0] == "FREQ" {
			hasFreq = true
		}
	}
	if !hasFreq {
		return nil, apperrors.Validation("rrule must declare FREQ, e.g. 'FREQ=DAILY;COUNT=10;INTERVAL=2'")
	}

	opt, err := rrule.StrToROption(v)
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("rrule must comply with RFC 5545 format: %v", err))
	}
	switch opt.Freq {
	case rrule.DAILY, rrule.WEEKLY, rrule.MONTHLY, rrule.YEARLY:
	default:
		return nil, apperrors.Validation("rrule FREQ must be one of DAILY, WEEKLY, MONTHLY, YEARLY")
	}
	if opt.Interval < 0 || opt.Count < 0 {
		return nil, apperrors.Validation("rrule INTERVAL and COUNT must be positive")
	}

	return &v, nil
}
