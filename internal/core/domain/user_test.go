package domain

import (
	"errors"
	"testing"
)

func TestUser_CanLogin(t *testing.T) {
	cases := []struct {
		name string
		user User
		want error
	}{
		{"unverified alumni", User{Role: RoleAlumni}, ErrEmailNotVerified},
		{"unverified admin", User{Role: RoleAdmin}, ErrEmailNotVerified},
		{"verified unapproved alumni", User{Role: RoleAlumni, IsVerified: true}, ErrPendingApproval},
		{"verified admin bypasses approval", User{Role: RoleAdmin, IsVerified: true}, nil},
		{"verified approved alumni", User{Role: RoleAlumni, IsVerified: true, IsApproved: true}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.user.CanLogin(); !errors.Is(err, tc.want) {
				t.Fatalf("CanLogin() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
