package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// bookingTimeLayouts are tried in order. Values without a zone are read as UTC.
var bookingTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// BookingTime is an appointment time as sent by clients. Besides RFC3339 it
// accepts the zone-less values produced by datetime-local inputs.
type BookingTime struct {
	time.Time
}

// NewBookingTime wraps t
func NewBookingTime(t time.Time) BookingTime {
	return BookingTime{Time: t}
}

// ParseBookingTime parses value with the first matching layout
func ParseBookingTime(value string) (BookingTime, error) {
	for _, layout := range bookingTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return BookingTime{Time: t.UTC()}, nil
		}
	}
	return BookingTime{}, fmt.Errorf("invalid appointment time %q", value)
}

// UnmarshalJSON implements json.Unmarshaler. null leaves the value unchanged.
func (b *BookingTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("appointment time must be a string: %w", err)
	}

	parsed, err := ParseBookingTime(value)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
