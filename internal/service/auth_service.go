package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/kinerja-go-api/internal/dto"
	"github.com/noah-isme/kinerja-go-api/internal/repository"
	"github.com/noah-isme/kinerja-go-api/internal/session"
	"github.com/noah-isme/kinerja-go-api/internal/token"
	"github.com/noah-isme/kinerja-go-api/pkg/password"
)

// ErrInvalidCredentials indicates the email/password pair did not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserInactive indicates the account exists but has been deactivated.
var ErrUserInactive = errors.New("user account is inactive")

// ErrResetTokenUsed indicates the single-use reset token was already consumed.
var ErrResetTokenUsed = errors.New("reset token already used")

const resetTokenKeyPrefix = "password-reset:jti:"

// AuthService handles login, logout semantics and the password reset flow.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResult, error)
	RequestPasswordReset(ctx context.Context, payload dto.PasswordResetRequest) error
	ResetPassword(ctx context.Context, payload dto.PasswordResetConfirm) error
}

type authService struct {
	users     repository.UserRepository
	codec     *token.Codec
	redis     *redis.Client
	notifier  Notifier
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, codec *token.Codec, redisClient *redis.Client, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		codec:     codec,
		redis:     redisClient,
		notifier:  notifier,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResult{}, err
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(payload.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResult{}, ErrInvalidCredentials
		}
		return dto.LoginResult{}, err
	}

	if !password.Verify(payload.Password, user.PasswordHash) {
		return dto.LoginResult{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return dto.LoginResult{}, ErrUserInactive
	}

	signed, err := s.codec.Issue(token.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, session.Lifetime(payload.Remember))
	if err != nil {
		return dto.LoginResult{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Bool("remember", payload.Remember).Msg("user logged in")

	return dto.LoginResult{
		Token:    signed,
		Remember: payload.Remember,
		User:     dto.NewUserResponse(user),
	}, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, payload dto.PasswordResetRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(payload.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether an account exists.
			s.logger.Debug().Str("email", payload.Email).Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	signed, claims, err := s.codec.IssueReset(user)
	if err != nil {
		return err
	}

	notification := Notification{
		Recipient: user.Email,
		Subject:   "Password reset",
		Body:      fmt.Sprintf("Use this token within one hour to reset your password: %s", signed),
		SentAt:    s.now(),
	}

	if err := s.notifier.Send(ctx, notification); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to deliver reset notification")
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("token_id", claims.TokenID).Msg("password reset issued")

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, payload dto.PasswordResetConfirm) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	claims, err := s.codec.Verify(payload.Token)
	if err != nil {
		return token.ErrInvalidToken
	}

	if !claims.IsPasswordReset() || claims.TokenID == "" {
		return token.ErrInvalidToken
	}

	if err := s.consumeResetToken(ctx, claims); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return token.ErrInvalidToken
		}
		return err
	}

	hashed, err := password.Hash(payload.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("password reset completed")

	return nil
}

// consumeResetToken records the token id in redis so a second confirmation
// with the same token fails. The marker expires with the token itself.
func (s *authService) consumeResetToken(ctx context.Context, claims token.Claims) error {
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return token.ErrInvalidToken
	}

	ok, err := s.redis.SetNX(ctx, resetTokenKeyPrefix+claims.TokenID, "used", ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrResetTokenUsed
	}

	return nil
}
