package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegexp    = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{6,18}[0-9]$`)
	usernameRegexp = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
)

// IsEmail reports whether s is a well-formed email address.
func IsEmail(s string) bool { return emailRegexp.MatchString(s) }

// IsPhone reports whether s looks like a phone number (digits, spaces, dashes, parentheses, optional leading +).
func IsPhone(s string) bool { return phoneRegexp.MatchString(s) }

// IsUsername reports whether s is 3-20 letters, digits or underscores.
func IsUsername(s string) bool { return usernameRegexp.MatchString(s) }

// checker accumulates field errors for record constructors.
type checker struct {
	errs []FieldError
}

func (c *checker) add(field, msg string) {
	c.errs = append(c.errs, FieldError{Field: field, Message: msg})
}

func (c *checker) minLen(field, value string, n int) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		c.add(field, fmt.Sprintf("must be at least %d characters", n))
	}
}

func (c *checker) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.add(field, "is required")
	}
}

func (c *checker) email(field, value string) {
	if !IsEmail(value) {
		c.add(field, "must be a valid email address")
	}
}

func (c *checker) err() error {
	return NewValidationError(c.errs)
}
