package ports

import (
	"context"

	"github.com/alumnihub/alumni-network/internal/core/domain"
)

// ProfileRepository persists the directory profile created at registration.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	Exists(ctx context.Context, userID string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
