// Package validator provides input validation for client contact data and
// intake payloads.
package validator

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidEmail = errors.New("invalid email format")
	ErrInputTooLong = errors.New("input exceeds maximum length")
	ErrEmptyInput   = errors.New("input cannot be empty")
)

// Field limits
const (
	maxEmailLength = 254  // RFC 5321
	maxNameLength  = 255  // clients.name column size
	maxNotesLength = 5000 // free-text notes cap
)

// ValidateEmail validates email address format according to RFC 5322.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" {
		return ErrEmptyInput
	}
	if utf8.RuneCountInString(email) > maxEmailLength {
		return ErrInputTooLong
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateEmails validates a list of email addresses, reporting the first
// invalid entry. An empty list is valid.
func ValidateEmails(emails []string) error {
	for _, email := range emails {
		if err := ValidateEmail(email); err != nil {
			return err
		}
	}
	return nil
}

// ValidateClientName validates a client display name.
func ValidateClientName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyInput
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrInputTooLong
	}
	return nil
}

// ValidateNotes validates free-text notes. Empty notes are valid.
func ValidateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > maxNotesLength {
		return ErrInputTooLong
	}
	return nil
}
