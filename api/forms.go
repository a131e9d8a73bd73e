package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"parkshare/slot"
	"parkshare/validation"
)

// formError is a problem with what the user typed.
type formError struct {
	msg string
}

func (e *formError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &formError{msg: fmt.Sprintf(format, args...)}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return invalid("invalid request body")
	}
	if fields := validation.Struct(v); fields != nil {
		return invalid("%v", fields)
	}
	return nil
}

type loginForm struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// hostForm is the listing form. Numbers arrive as typed text.
type hostForm struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Address       string   `json:"address" validate:"required"`
	Latitude      string   `json:"latitude" validate:"omitempty,numeric"`
	Longitude     string   `json:"longitude" validate:"omitempty,numeric"`
	Width         string   `json:"width" validate:"required,numeric"`
	Length        string   `json:"length" validate:"required,numeric"`
	Height        string   `json:"height" validate:"omitempty,numeric"`
	PricePerHour  string   `json:"pricePerHour" validate:"required,numeric"`
	AvailableFrom string   `json:"availableFrom" validate:"required"`
	AvailableTo   string   `json:"availableTo" validate:"required"`
	ImageURL      string   `json:"imageUrl"`
	Amenities     []string `json:"amenities"`
	Restrictions  []string `json:"restrictions"`
}

func (f hostForm) listing() (slot.Listing, error) {
	l := slot.Listing{
		Title:        strings.TrimSpace(f.Title),
		Description:  strings.TrimSpace(f.Description),
		Address:      strings.TrimSpace(f.Address),
		ImageURL:     strings.TrimSpace(f.ImageURL),
		Amenities:    f.Amenities,
		Restrictions: f.Restrictions,
	}
	if l.Amenities == nil {
		l.Amenities = []string{}
	}

	var err error
	if l.Location.Latitude, err = parseNumber("latitude", f.Latitude); err != nil {
		return slot.Listing{}, err
	}
	if l.Location.Longitude, err = parseNumber("longitude", f.Longitude); err != nil {
		return slot.Listing{}, err
	}
	if l.Dimensions.Width, err = parseNumber("width", f.Width); err != nil {
		return slot.Listing{}, err
	}
	if l.Dimensions.Length, err = parseNumber("length", f.Length); err != nil {
		return slot.Listing{}, err
	}
	if f.Height != "" {
		h, err := parseNumber("height", f.Height)
		if err != nil {
			return slot.Listing{}, err
		}
		l.Dimensions.Height = &h
	}
	if l.PricePerHour, err = parseNumber("pricePerHour", f.PricePerHour); err != nil {
		return slot.Listing{}, err
	}
	if l.AvailableFrom, err = parseDate("availableFrom", f.AvailableFrom); err != nil {
		return slot.Listing{}, err
	}
	if l.AvailableTo, err = parseDate("availableTo", f.AvailableTo); err != nil {
		return slot.Listing{}, err
	}
	return l, nil
}

func parseNumber(field, v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, invalid("%s must be a valid number", field)
	}
	return n, nil
}

// parseDate accepts a full timestamp or a bare date, which is read as midnight UTC.
func parseDate(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Time{}, invalid("%s must be a date", field)
}

const (
	minBookingHours = 1
	maxBookingHours = 24
)

// bookingForm takes either a whole number of hours, as picked on the slot
// screen, or an explicit end time.
type bookingForm struct {
	StartTime time.Time  `json:"startTime" validate:"required"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Hours     int        `json:"hours,omitempty"`
}

func (f bookingForm) interval() (time.Time, time.Time, error) {
	if f.EndTime != nil {
		return f.StartTime, *f.EndTime, nil
	}
	if f.Hours < minBookingHours || f.Hours > maxBookingHours {
		return time.Time{}, time.Time{}, invalid("hours must be between %d and %d", minBookingHours, maxBookingHours)
	}
	return f.StartTime, f.StartTime.Add(time.Duration(f.Hours) * time.Hour), nil
}
