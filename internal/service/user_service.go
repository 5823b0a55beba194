package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/kinerja-go-api/internal/dto"
	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/repository"
	"github.com/noah-isme/kinerja-go-api/pkg/password"
)

// ErrUserNotFound indicates the user account was not located.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken indicates the email already belongs to an account.
var ErrEmailTaken = errors.New("email already registered")

// UserService manages staff accounts for administrators.
type UserService interface {
	List(ctx context.Context, payload dto.UserFilterRequest) ([]dto.UserResponse, error)
	Create(ctx context.Context, payload dto.UserCreateRequest, actor ActivityActor) (dto.UserResponse, error)
	Update(ctx context.Context, id uint, payload dto.UserUpdateRequest, actor ActivityActor) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewUserService constructs the user service.
func NewUserService(users repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) List(ctx context.Context, payload dto.UserFilterRequest) ([]dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	filter := repository.UserFilter{
		IsActive: payload.IsActive,
		Search:   strings.TrimSpace(payload.Search),
	}
	if payload.Role != nil {
		role := models.Role(*payload.Role)
		filter.Role = &role
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}

	return responses, nil
}

func (s *userService) Create(ctx context.Context, payload dto.UserCreateRequest, actor ActivityActor) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return dto.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hashed, err := password.Hash(payload.Password)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:         strings.TrimSpace(payload.Name),
		Email:        email,
		PasswordHash: hashed,
		Role:         models.Role(payload.Role),
		Position:     strings.TrimSpace(payload.Position),
		IsActive:     true,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "user.created",
			EntityType: "user",
			EntityID:   &user.ID,
			Metadata:   map[string]interface{}{"role": string(user.Role)},
		})
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")

	return dto.NewUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, id uint, payload dto.UserUpdateRequest, actor ActivityActor) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if payload.Name != nil {
		user.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Role != nil {
		user.Role = models.Role(*payload.Role)
	}
	if payload.Position != nil {
		user.Position = strings.TrimSpace(*payload.Position)
	}
	if payload.IsActive != nil {
		user.IsActive = *payload.IsActive
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "user.updated",
			EntityType: "user",
			EntityID:   &user.ID,
			Metadata:   map[string]interface{}{"is_active": user.IsActive},
		})
	}

	return dto.NewUserResponse(user), nil
}
