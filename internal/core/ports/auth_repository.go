package ports

import (
	"context"
	"time"

	"github.com/alumnihub/alumni-network/internal/core/domain"
)

// AuthRepository defines the persistence contract for account records.
//
// The two Consume methods must apply their filter and mutation as a single
// atomic operation: the token match decides whether the state change happens,
// and a successful consumption clears the token in the same step so it can
// never authorize twice.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// SetVerificationToken overwrites any outstanding verification token.
	SetVerificationToken(ctx context.Context, id, token string, expiry time.Time) error
	ClearVerificationToken(ctx context.Context, id string) error
	// ConsumeVerificationToken marks the matching, unexpired account verified
	// and clears the token fields. Returns domain.ErrInvalidOrExpiredToken
	// when no account matches.
	ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*domain.User, error)

	// SetResetToken overwrites any outstanding reset token hash.
	SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	// ConsumeResetToken installs the new password hash on the matching,
	// unexpired account, clearing the reset fields and the stored refresh
	// token. Returns domain.ErrInvalidOrExpiredToken when no account matches.
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*domain.User, error)

	// SetRefreshToken overwrites the single stored refresh token; an empty
	// value clears it.
	SetRefreshToken(ctx context.Context, id, token string) error
	// SetPassword replaces the password hash and clears the stored refresh
	// token in the same operation.
	SetPassword(ctx context.Context, id, passwordHash string) error

	// SetApproved flips the approval flag and returns the updated record.
	SetApproved(ctx context.Context, id string) (*domain.User, error)

	// List returns the filtered page of accounts, newest first, together with
	// the total match count.
	List(ctx context.Context, filter UserFilter, page, limit int) ([]*domain.User, int64, error)

	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

// UserFilter narrows the admin account listing. Zero values mean no filter;
// IsApproved is a pointer so "unset" and "false" stay distinct.
type UserFilter struct {
	Role       string
	IsApproved *bool
}
