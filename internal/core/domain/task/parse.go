package task

import (
	"regexp"
	"time"

	"github.com/golang-module/carbon/v2"
)

// DateTimeLayout is the wire-level date/time format (carbon signs): two-digit
// day, two-digit month, four-digit year, space, two-digit hour, two-digit
// minute.
const DateTimeLayout = "d.m.Y H:i"

// A message is a date/time prefix, a run of whitespace and the reminder body.
// The body starts with a non-whitespace character and may contain any
// characters after that, including newlines.
var messagePattern = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4} \d{2}:\d{2})\s+(\S(?s:.*))$`)

type ParsedMessage struct {
	DueAt time.Time
	Body  string
}

// Parse extracts the due time and the reminder body from a raw chat message
// of the form "DD.MM.YYYY HH:MM <body>". The date/time is interpreted in the
// process-local zone with minute precision and must be strictly after now.
// Parse is pure, "now" is passed in by the caller.
func Parse(raw string, now time.Time) (parsed ParsedMessage, err error) {
	groups := messagePattern.FindStringSubmatch(raw)
	if groups == nil {
		return parsed, ErrFormatInvalid
	}

	dueAt := carbon.ParseByFormat(groups[1], DateTimeLayout)
	if dueAt.Error != nil {
		return parsed, ErrFormatInvalid
	}
	parsed.DueAt = dueAt.Carbon2Time()
	if !parsed.DueAt.After(now) {
		return parsed, ErrDateTimeInPast
	}
	parsed.Body = groups[2]
	return parsed, nil
}

// FormatDateTime renders t the way it appears in chat messages.
func FormatDateTime(t time.Time) string {
	return carbon.Time2Carbon(t).Format(DateTimeLayout)
}
