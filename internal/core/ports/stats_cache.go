package ports

import (
	"context"

	"github.com/alumnihub/alumni-network/internal/core/domain"
)

// StatsCache is a short-TTL cache for dashboard aggregates. Get returns
// (nil, nil) on a miss.
type StatsCache interface {
	Get(ctx context.Context) (*domain.DashboardStats, error)
	Set(ctx context.Context, stats *domain.DashboardStats) error
}
