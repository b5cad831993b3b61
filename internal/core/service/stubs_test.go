package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alumnihub/alumni-network/internal/core/domain"
	"github.com/alumnihub/alumni-network/internal/core/ports"
)

// stubUserRepo is an in-memory AuthRepository mirroring the per-document
// atomicity of the real one: each Consume call matches and mutates in one
// step.
type stubUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetVerificationToken(_ context.Context, id, token string, expiry time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.VerificationToken = token
	u.VerificationExpiry = expiry
	return nil
}

func (r *stubUserRepo) ClearVerificationToken(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.VerificationToken = ""
	u.VerificationExpiry = time.Time{}
	return nil
}

func (r *stubUserRepo) ConsumeVerificationToken(_ context.Context, token string, now time.Time) (*domain.User, error) {
	for _, u := range r.users {
		if u.VerificationToken == token && u.VerificationExpiry.After(now) {
			u.IsVerified = true
			u.VerificationToken = ""
			u.VerificationExpiry = time.Time{}
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidOrExpiredToken
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id, tokenHash string, expiry time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetExpiry = expiry
	return nil
}

func (r *stubUserRepo) ClearResetToken(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetTokenHash = ""
	u.ResetExpiry = time.Time{}
	return nil
}

func (r *stubUserRepo) ConsumeResetToken(_ context.Context, tokenHash, passwordHash string, now time.Time) (*domain.User, error) {
	for _, u := range r.users {
		if u.ResetTokenHash == tokenHash && u.ResetExpiry.After(now) {
			u.PasswordHash = passwordHash
			u.ResetTokenHash = ""
			u.ResetExpiry = time.Time{}
			u.RefreshToken = ""
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidOrExpiredToken
}

func (r *stubUserRepo) SetRefreshToken(_ context.Context, id, token string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *stubUserRepo) SetPassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.RefreshToken = ""
	return nil
}

func (r *stubUserRepo) SetApproved(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsApproved = true
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.UserFilter, page, limit int) ([]*domain.User, int64, error) {
	matched := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.IsApproved != nil && u.IsApproved != *filter.IsApproved {
			continue
		}
		matched = append(matched, cloneUser(u))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubUserRepo) Stats(_ context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}
	for _, u := range r.users {
		stats.TotalUsers++
		if u.Role == domain.RoleAlumni && u.IsApproved {
			stats.ApprovedAlumni++
		}
		if u.Role == domain.RoleAlumni && u.IsVerified && !u.IsApproved {
			stats.PendingApprovals++
		}
	}
	return stats, nil
}

type stubProfileRepo struct {
	profiles map[string]*domain.Profile // by user id
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	clone := *p
	clone.ID = "profile_" + p.UserID
	r.profiles[p.UserID] = &clone
	return &clone, nil
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) Exists(_ context.Context, userID string) (bool, error) {
	_, ok := r.profiles[userID]
	return ok, nil
}

func (r *stubProfileRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.profiles)), nil
}

type sentMail struct {
	recipient string
	subject   string
	body      string
}

type stubMailer struct {
	sent []sentMail
	fail bool
}

func (m *stubMailer) Send(_ context.Context, recipient, subject, htmlBody string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, sentMail{recipient: recipient, subject: subject, body: htmlBody})
	return nil
}

type stubDispatcher struct {
	jobs []ports.EmailJob
}

func (d *stubDispatcher) Enqueue(job ports.EmailJob) {
	d.jobs = append(d.jobs, job)
}

type stubStatsCache struct {
	stats *domain.DashboardStats
	sets  int
}

func (c *stubStatsCache) Get(_ context.Context) (*domain.DashboardStats, error) {
	return c.stats, nil
}

func (c *stubStatsCache) Set(_ context.Context, stats *domain.DashboardStats) error {
	c.stats = stats
	c.sets++
	return nil
}

// extractToken pulls the token out of the link embedded in a mail body.
func extractToken(body, marker string) string {
	idx := strings.Index(body, marker)
	if idx < 0 {
		return ""
	}
	rest := body[idx+len(marker):]
	if end := strings.IndexByte(rest, '"'); end >= 0 {
		return rest[:end]
	}
	return rest
}
