package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/alumnihub/alumni-network/internal/core/domain"
	"github.com/alumnihub/alumni-network/internal/core/ports"
)

func TestAdminService_ApproveUser(t *testing.T) {
	repo := newStubUserRepo()
	outbox := &stubDispatcher{}
	svc := NewAdminService(repo, newStubProfileRepo(), outbox, &stubStatsCache{}, zerolog.Nop())

	created, err := repo.Create(context.Background(), &domain.User{
		Email: "pending@example.com", Role: domain.RoleAlumni, IsVerified: true,
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	user, err := svc.ApproveUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if !user.IsApproved {
		t.Fatalf("expected approved flag set")
	}

	if len(outbox.jobs) != 1 || outbox.jobs[0].Recipient != "pending@example.com" {
		t.Fatalf("expected approval notice enqueued, got %+v", outbox.jobs)
	}
}

func TestAdminService_ApproveUser_NotFound(t *testing.T) {
	svc := NewAdminService(newStubUserRepo(), newStubProfileRepo(), &stubDispatcher{}, &stubStatsCache{}, zerolog.Nop())

	if _, err := svc.ApproveUser(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminService_ListUsers_FilterAndPaginate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAdminService(repo, newStubProfileRepo(), &stubDispatcher{}, &stubStatsCache{}, zerolog.Nop())

	seed := []*domain.User{
		{Email: "admin@example.com", Role: domain.RoleAdmin, IsApproved: true},
		{Email: "pending1@example.com", Role: domain.RoleAlumni, IsVerified: true},
		{Email: "pending2@example.com", Role: domain.RoleAlumni, IsVerified: true},
		{Email: "member@example.com", Role: domain.RoleAlumni, IsVerified: true, IsApproved: true},
	}
	for _, u := range seed {
		if _, err := repo.Create(context.Background(), u); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	// Unfiltered listing sees every account.
	page, err := svc.ListUsers(context.Background(), ports.UserFilter{}, 0, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 4 || len(page.Users) != 4 {
		t.Fatalf("expected 4 users, got total=%d len=%d", page.Total, len(page.Users))
	}
	if page.Page != 1 || page.Limit != 10 {
		t.Fatalf("expected defaults applied, got page=%d limit=%d", page.Page, page.Limit)
	}

	// Pending alumni only: this is how an admin finds accounts to approve.
	notApproved := false
	page, err = svc.ListUsers(context.Background(), ports.UserFilter{
		Role:       domain.RoleAlumni,
		IsApproved: &notApproved,
	}, 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 pending alumni, got %d", page.Total)
	}
	for _, u := range page.Users {
		if u.Role != domain.RoleAlumni || u.IsApproved {
			t.Fatalf("filter leaked user %+v", u)
		}
	}

	// Pagination: page size 3 splits the four accounts across two pages.
	page, err = svc.ListUsers(context.Background(), ports.UserFilter{}, 2, 3)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 4 || len(page.Users) != 1 {
		t.Fatalf("expected second page with 1 user, got total=%d len=%d", page.Total, len(page.Users))
	}
}

func TestAdminService_ListUsers_ClampsLimit(t *testing.T) {
	svc := NewAdminService(newStubUserRepo(), newStubProfileRepo(), &stubDispatcher{}, &stubStatsCache{}, zerolog.Nop())

	page, err := svc.ListUsers(context.Background(), ports.UserFilter{}, 1, 10_000)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Limit != 100 {
		t.Fatalf("expected limit clamped to 100, got %d", page.Limit)
	}
}

func TestAdminService_DashboardStats_Cached(t *testing.T) {
	repo := newStubUserRepo()
	profiles := newStubProfileRepo()
	cache := &stubStatsCache{}
	svc := NewAdminService(repo, profiles, &stubDispatcher{}, cache, zerolog.Nop())

	if _, err := repo.Create(context.Background(), &domain.User{
		Email: "a@example.com", Role: domain.RoleAlumni, IsVerified: true,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := profiles.Create(context.Background(), &domain.Profile{UserID: "user_1"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalUsers != 1 || stats.PendingApprovals != 1 || stats.TotalProfiles != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if cache.sets != 1 {
		t.Fatalf("expected stats written to cache")
	}

	// Second read is served from the cache even after the data changes.
	if _, err := repo.Create(context.Background(), &domain.User{
		Email: "b@example.com", Role: domain.RoleAlumni,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	stats, err = svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalUsers != 1 {
		t.Fatalf("expected cached value, got %+v", stats)
	}
	if cache.sets != 1 {
		t.Fatalf("cache hit must not rewrite the cache")
	}
}
