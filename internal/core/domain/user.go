package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleAlumni = "alumni"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrEmailNotVerified = errors.New("email not verified")
var ErrPendingApproval = errors.New("account pending approval")
var ErrInvalidRefreshToken = errors.New("invalid refresh token")
var ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
var ErrWrongPassword = errors.New("current password is incorrect")
var ErrEmailDelivery = errors.New("email could not be sent")

// User is the account record backing authentication. Secret-bearing fields
// never leave the persistence boundary in API responses.
type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Role               string    `json:"role"`
	IsVerified         bool      `json:"is_verified"`
	IsApproved         bool      `json:"is_approved"`
	VerificationToken  string    `json:"-"`
	VerificationExpiry time.Time `json:"-"`
	ResetTokenHash     string    `json:"-"`
	ResetExpiry        time.Time `json:"-"`
	RefreshToken       string    `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CanLogin decides whether the account may authenticate. The activation state
// is derived from the two flags: an unverified account never logs in, a
// verified alumni account additionally needs admin approval, admins bypass
// approval entirely.
func (u *User) CanLogin() error {
	if !u.IsVerified {
		return ErrEmailNotVerified
	}
	if u.Role == RoleAlumni && !u.IsApproved {
		return ErrPendingApproval
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address. Every lookup and
// create goes through this so that case variants resolve to the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
