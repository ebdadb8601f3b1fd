package auth

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUsernameExists signals a duplicate username registration.
	ErrUsernameExists = errors.New("username already taken")
	// ErrEmailExists signals a duplicate email registration.
	ErrEmailExists = errors.New("email already registered")
	// ErrTokenInvalid means a supplied token cannot be validated.
	ErrTokenInvalid = errors.New("token invalid or expired")
	// ErrUserNotFound indicates missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserInactive indicates the account has been deactivated.
	ErrUserInactive = errors.New("user account is inactive")
	// ErrPasswordMismatch indicates the current password is incorrect.
	ErrPasswordMismatch = errors.New("current password does not match")
	// ErrPasswordUnchanged indicates the new password matches the current one.
	ErrPasswordUnchanged = errors.New("new password must be different from current password")
)

// User models the account entity persisted in storage.
type User struct {
	ID           string
	Email        string
	Username     string
	FullName     string
	PasswordHash string
	IsActive     bool
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credentials captures raw credential input for login.
type Credentials struct {
	Username string
	Password string
}

// Registration captures the fields collected by the sign-up form.
type Registration struct {
	Email    string
	Username string
	FullName string
	Password string
}
