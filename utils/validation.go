// utils/validation.go
package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"detailstudio-backend/scheduling"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by up to 15 digits
	return phoneRegex.MatchString(cleaned)
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// RegisterValidators adds the hhmm, isodate and phone tags to gin's binding engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	rules := map[string]validator.Func{
		"hhmm": func(fl validator.FieldLevel) bool {
			c, err := scheduling.ParseClock(fl.Field().String())
			return err == nil && c < scheduling.MinutesPerDay
		},
		"isodate": func(fl validator.FieldLevel) bool {
			return ValidDate(fl.Field().String())
		},
		"phone": func(fl validator.FieldLevel) bool {
			return ValidatePhone(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	// Tags must exist before the first ShouldBind call.
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

// ParseDate parses a strict YYYY-MM-DD date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(scheduling.DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(scheduling.DateLayout) != s {
		return time.Time{}, errors.New("non-canonical date")
	}
	return t, nil
}
