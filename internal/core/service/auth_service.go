package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/alumnihub/alumni-network/internal/core/domain"
	"github.com/alumnihub/alumni-network/internal/core/ports"
)

// AuthService composes the credential store, token issuer, ephemeral token
// policy, and approval gate into the account lifecycle flows. All internal
// failure distinctions are folded into the coarse domain errors before they
// leave this package.
type AuthService struct {
	users      ports.AuthRepository
	profiles   ports.ProfileRepository
	tokens     ports.TokenService
	mailer     ports.Mailer
	clientURL  string
	bcryptCost int
	logger     zerolog.Logger
}

func NewAuthService(
	users ports.AuthRepository,
	profiles ports.ProfileRepository,
	tokens ports.TokenService,
	mailer ports.Mailer,
	clientURL string,
	bcryptCost int,
	logger zerolog.Logger,
) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		profiles:   profiles,
		tokens:     tokens,
		mailer:     mailer,
		clientURL:  clientURL,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates the account and its directory profile, issues a
// verification token, and sends the verification link. A delivery failure
// rolls the token back so a retry does not leave an orphaned pending token.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) error {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAlumni,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}

	if _, err := s.profiles.Create(ctx, &domain.Profile{
		UserID:    user.ID,
		FullName:  input.FullName,
		BatchYear: input.BatchYear,
		Degree:    input.Degree,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	token, err := s.issueVerificationToken(ctx, user.ID)
	if err != nil {
		return err
	}

	url := s.clientURL + "/verify-email/" + token
	if err := s.mailer.Send(ctx, user.Email, verificationSubject, verificationBody(url)); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("verification email failed")
		if clearErr := s.users.ClearVerificationToken(ctx, user.ID); clearErr != nil {
			s.logger.Error().Err(clearErr).Str("user_id", user.ID).Msg("verification token rollback failed")
		}
		return domain.ErrEmailDelivery
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return nil
}

// issueVerificationToken overwrites any outstanding verification token, so
// an account has at most one live link.
func (s *AuthService) issueVerificationToken(ctx context.Context, userID string) (string, error) {
	token, err := newEphemeralToken()
	if err != nil {
		return "", err
	}
	expiry := time.Now().UTC().Add(verificationTokenTTL)
	if err := s.users.SetVerificationToken(ctx, userID, token, expiry); err != nil {
		return "", err
	}
	return token, nil
}

// VerifyEmail consumes a verification link token. The match, expiry check,
// verified flag, and token clearing happen in one atomic repository call.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidOrExpiredToken
	}
	user, err := s.users.ConsumeVerificationToken(ctx, token, time.Now().UTC())
	if err != nil {
		return err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("email verified")
	return nil
}

// Login authenticates credentials, runs the approval gate, and mints a fresh
// token pair. The stored refresh token is overwritten, revoking any previous
// session. Unknown account and wrong password collapse into the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	// The account is the source of truth; a missing profile is not fatal.
	var profile *domain.Profile
	if user.Role == domain.RoleAlumni {
		profile, err = s.profiles.FindByUserID(ctx, user.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("profile lookup failed on login")
			profile = nil
		}
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("login")
	return &ports.LoginResult{
		User:         user,
		Profile:      profile,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is not rotated; it stays valid until login, logout, or a
// password change overwrites it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.ParseRefreshSubject(refreshToken)
	if err != nil {
		return "", domain.ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", domain.ErrInvalidRefreshToken
	}
	if user.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return "", domain.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

// ForgotPassword issues a reset token and mails the link. An unknown email
// returns success without side effects so callers cannot enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	raw, err := newEphemeralToken()
	if err != nil {
		return err
	}
	expiry := time.Now().UTC().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, hashResetToken(raw), expiry); err != nil {
		return err
	}

	url := s.clientURL + "/reset-password/" + raw
	if err := s.mailer.Send(ctx, user.Email, resetSubject, resetBody(url)); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("reset email failed")
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Error().Err(clearErr).Str("user_id", user.ID).Msg("reset token rollback failed")
		}
		return domain.ErrEmailDelivery
	}
	return nil
}

// ResetPassword consumes a reset link token and installs the new password.
// The repository clears the reset fields and the stored refresh token in the
// same atomic step, so the old session dies with the old password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return domain.ErrInvalidOrExpiredToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.ConsumeResetToken(ctx, hashResetToken(token), string(hash), time.Now().UTC())
	if err != nil {
		return err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// Me resolves the authenticated identity plus its directory profile.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, *domain.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	var profile *domain.Profile
	if user.Role == domain.RoleAlumni {
		if profile, err = s.profiles.FindByUserID(ctx, userID); err != nil {
			profile = nil
		}
	}
	return user, profile, nil
}

// Logout clears the stored refresh token. The current access token stays
// valid until it expires on its own.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("logout")
	return nil
}

// ChangePassword verifies the current password before replacing it. The
// repository clears the stored refresh token alongside the hash swap.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}
