package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password SetPassword accepts.
const MinPasswordLength = 8

// Validate checks the username rules.
func (u *User) Validate() error {
	return asError(validateStruct(u))
}

// BeforeCreate sets up any necessary fields before creation
func (u *User) BeforeCreate(now time.Time) {
	if u.CreatedDate.IsZero() {
		u.CreatedDate = now
	}
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password", "Ensure this value has at least 8 characters.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return NewValidationError("password", "Ensure this value has at most 72 bytes.")
	}
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
