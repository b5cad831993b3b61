package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/alumnihub/alumni-network/internal/core/domain"
	"github.com/alumnihub/alumni-network/internal/core/ports"
)

// AdminService covers the administrative side of the activation state
// machine plus the dashboard aggregates.
type AdminService struct {
	users    ports.AuthRepository
	profiles ports.ProfileRepository
	outbox   ports.MailDispatcher
	cache    ports.StatsCache
	logger   zerolog.Logger
}

func NewAdminService(
	users ports.AuthRepository,
	profiles ports.ProfileRepository,
	outbox ports.MailDispatcher,
	cache ports.StatsCache,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:    users,
		profiles: profiles,
		outbox:   outbox,
		cache:    cache,
		logger:   logger,
	}
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListUsers returns one page of accounts for the admin console, newest
// first. This is how an administrator discovers pending accounts to approve.
func (s *AdminService) ListUsers(ctx context.Context, filter ports.UserFilter, page, limit int) (*ports.UserPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	users, total, err := s.users.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.UserPage{
		Users: users,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// ApproveUser flips the approval flag, completing the activation state
// machine for an alumni account. The notification mail is fire-and-forget:
// approval holds whether or not the mail arrives.
func (s *AdminService) ApproveUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.SetApproved(ctx, id)
	if err != nil {
		return nil, err
	}

	s.outbox.Enqueue(ports.EmailJob{
		Recipient: user.Email,
		Subject:   approvalSubject,
		HTMLBody:  approvalBody,
	})

	s.logger.Info().Str("user_id", user.ID).Msg("user approved")
	return user, nil
}

// DashboardStats returns the admin dashboard aggregates, served from the
// short-TTL cache when fresh. A cache failure degrades to a direct read.
func (s *AdminService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	if cached, err := s.cache.Get(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("stats cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	stats, err := s.users.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.TotalProfiles, err = s.profiles.Count(ctx); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, stats); err != nil {
		s.logger.Warn().Err(err).Msg("stats cache write failed")
	}
	return stats, nil
}
