package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/kinerja-go-api/internal/dto"
	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/repository"
	"github.com/noah-isme/kinerja-go-api/internal/session"
	"github.com/noah-isme/kinerja-go-api/internal/token"
	"github.com/noah-isme/kinerja-go-api/pkg/password"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// fakeUserRepo keeps users in memory, keyed by id.
type fakeUserRepo struct {
	users map[uint]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		user.ID = uint(len(r.users) + 1)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = *user
	return nil
}

// captureNotifier records sent notifications for assertions.
type captureNotifier struct {
	sent []Notification
}

func (n *captureNotifier) Send(ctx context.Context, notification Notification) error {
	n.sent = append(n.sent, notification)
	return nil
}

func activeUser(t *testing.T) models.User {
	t.Helper()
	hash, err := password.Hash("correct-horse")
	require.NoError(t, err)
	return models.User{
		ID:           1,
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
}

func newTestAuthService(t *testing.T, repo repository.UserRepository, notifier Notifier) (AuthService, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)
	if notifier == nil {
		notifier = &captureNotifier{}
	}
	return NewAuthService(repo, codec, testRedis(t), notifier, testValidator(), testLogger()), codec
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo(activeUser(t))
	svc, codec := newTestAuthService(t, repo, nil)

	result, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "Ana@Example.com",
		Password: "correct-horse",
		Remember: true,
	})
	require.NoError(t, err)
	require.True(t, result.Remember)
	require.Equal(t, "ana@example.com", result.User.Email)

	claims, err := codec.Verify(result.Token)
	require.NoError(t, err)
	require.Equal(t, uint(1), claims.UserID)
	require.Equal(t, models.RoleUser, claims.Role)
	require.False(t, claims.IsPasswordReset())
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo(activeUser(t))
	svc, _ := newTestAuthService(t, repo, nil)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserRepo(), nil)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	user := activeUser(t)
	user.IsActive = false
	svc, _ := newTestAuthService(t, newFakeUserRepo(user), nil)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, ErrUserInactive)
}

func TestRequestPasswordResetDeliversToken(t *testing.T) {
	notifier := &captureNotifier{}
	svc, _ := newTestAuthService(t, newFakeUserRepo(activeUser(t)), notifier)

	err := svc.RequestPasswordReset(context.Background(), dto.PasswordResetRequest{Email: "ana@example.com"})
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
	require.Equal(t, "ana@example.com", notifier.sent[0].Recipient)
	require.Contains(t, notifier.sent[0].Body, ".")
}

func TestRequestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	notifier := &captureNotifier{}
	svc, _ := newTestAuthService(t, newFakeUserRepo(), notifier)

	err := svc.RequestPasswordReset(context.Background(), dto.PasswordResetRequest{Email: "nobody@example.com"})
	require.NoError(t, err)
	require.Empty(t, notifier.sent)
}

func TestResetPassword(t *testing.T) {
	user := activeUser(t)
	repo := newFakeUserRepo(user)
	svc, codec := newTestAuthService(t, repo, nil)

	signed, _, err := codec.IssueReset(user)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), dto.PasswordResetConfirm{
		Token:       signed,
		NewPassword: "fresh-password",
	})
	require.NoError(t, err)

	updated, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, password.Verify("fresh-password", updated.PasswordHash))
	require.False(t, password.Verify("correct-horse", updated.PasswordHash))
}

func TestResetPasswordTokenIsSingleUse(t *testing.T) {
	user := activeUser(t)
	svc, codec := newTestAuthService(t, newFakeUserRepo(user), nil)

	signed, _, err := codec.IssueReset(user)
	require.NoError(t, err)

	confirm := dto.PasswordResetConfirm{Token: signed, NewPassword: "fresh-password"}
	require.NoError(t, svc.ResetPassword(context.Background(), confirm))

	err = svc.ResetPassword(context.Background(), confirm)
	require.ErrorIs(t, err, ErrResetTokenUsed)
}

func TestResetPasswordRejectsSessionToken(t *testing.T) {
	user := activeUser(t)
	svc, codec := newTestAuthService(t, newFakeUserRepo(user), nil)

	// A regular session token must not pass as a reset token.
	signed, err := codec.Issue(token.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, session.Lifetime(false))
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), dto.PasswordResetConfirm{
		Token:       signed,
		NewPassword: "fresh-password",
	})
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestResetPasswordRejectsGarbageToken(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserRepo(activeUser(t)), nil)

	err := svc.ResetPassword(context.Background(), dto.PasswordResetConfirm{
		Token:       "not-a-token",
		NewPassword: "fresh-password",
	})
	require.ErrorIs(t, err, token.ErrInvalidToken)
}
