package user

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (string, *User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	Profile(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (*User, error)

	// Admin account management.
	List(ctx context.Context, opts ListOptions) ([]User, int64, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	if len(input.Password) < 8 {
		return "", nil, ErrWeakPassword
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, err
	}

	u := &User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Password:  hashed,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      utils.RoleCustomer,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		log.Warn("failed to create user", zap.String("email", u.Email), zap.Error(err))
		return "", nil, err
	}

	token, err := GenerateJWT(u.ID, u.Email, u.Role)
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", u.ID), zap.Error(err))
		return "", nil, err
	}

	log.Info("register service completed",
		zap.String("user_id", u.ID),
		zap.String("email", u.Email),
	)

	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		log.Warn("email not found")
		return "", nil, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, u.Password) {
		log.Warn("password mismatch", zap.String("user_id", u.ID))
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, u.Email, u.Role)
	return token, u, err
}

func (s *service) Profile(ctx context.Context) (*User, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*User, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.repo.UpdateProfile(ctx, userID, params)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]User, int64, error) {
	users, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, opts)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Delete"),
	)

	// An admin removing their own account would strand the session that
	// issued the request.
	if callerID, ok := utils.GetUserIDFromContext(ctx); ok && callerID == id {
		return ErrSelfDelete
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info("user deleted", zap.String("user_id", id))
	return nil
}
