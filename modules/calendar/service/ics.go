package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	apperrors "schedbot/core/errors"
	"schedbot/core/logger"
)

// maxICSBodySize bounds how much of a feed we are willing to read.
const maxICSBodySize = 5 << 20

// ParsedEvent is the normalized shape of a VEVENT as the importer consumes
// it. Recurrence rules are carried verbatim and never expanded.
type ParsedEvent struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	RawRRule    string
}

// ICSFetcher downloads ICS feeds.
type ICSFetcher struct {
	client *http.Client
}

func NewICSFetcher() *ICSFetcher {
	return &ICSFetcher{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *ICSFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		logger.Error("ICSFetcher:Fetch", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ics fetch: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxICSBodySize))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// ParseICS parses an ICS payload into ParsedEvents. Individual malformed
// VEVENTs are skipped, not fatal.
func ParseICS(body []byte) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, apperrors.Validation("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "ics parse failed", err)
	}

	events := make([]ParsedEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		parsed, err := parseVEvent(ve)
		if err != nil {
			logger.Warn("ICS: skipping vevent", "error", err)
			continue
		}
		events = append(events, parsed)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (ParsedEvent, error) {
	var out ParsedEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = strings.TrimSpace(p.Value)
	}
	if out.Summary == "" {
		return out, fmt.Errorf("vevent %q has no summary", out.UID)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("vevent %q has no usable DTSTART: %w", out.UID, err)
	}
	out.Start = start

	end, err := ve.GetEndAt()
	if err != nil {
		// DTEND is optional; fall back to a zero-length event.
		end = start
	}
	out.End = end

	if out.End.Before(out.Start) {
		return out, fmt.Errorf("vevent %q ends before it starts", out.UID)
	}
	return out, nil
}
