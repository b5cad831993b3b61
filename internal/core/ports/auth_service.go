package ports

import (
	"context"

	"github.com/alumnihub/alumni-network/internal/core/domain"
)

// RegisterInput carries the fields accepted by self-registration.
type RegisterInput struct {
	Email     string
	Password  string
	FullName  string
	BatchYear int
	Degree    string
}

// LoginResult is the payload returned on a successful login.
type LoginResult struct {
	User         *domain.User
	Profile      *domain.Profile
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) error
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Me(ctx context.Context, userID string) (*domain.User, *domain.Profile, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

// UserPage is one page of the admin account listing.
type UserPage struct {
	Users []*domain.User
	Total int64
	Page  int
	Limit int
}

type AdminService interface {
	ListUsers(ctx context.Context, filter UserFilter, page, limit int) (*UserPage, error)
	ApproveUser(ctx context.Context, id string) (*domain.User, error)
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}
