package ports

import "github.com/alumnihub/alumni-network/internal/core/domain"

// TokenService mints the two session credential kinds. Access tokens are
// self-contained and validated by the session guard middleware without a
// storage lookup; refresh tokens are only located here — their validity is
// decided by equality with the single value stored on the account.
type TokenService interface {
	IssueAccessToken(user *domain.User) (string, error)
	IssueRefreshToken(user *domain.User) (string, error)
	// ParseRefreshSubject returns the account id a presented refresh token
	// claims to belong to. The claim is never trusted on its own: callers
	// must still compare the token against the stored value.
	ParseRefreshSubject(token string) (string, error)
}
