package user

import (
	"context"
	"fmt"

	"modora-be/internal/auth"
	"modora-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (string, *User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	GetByID(ctx context.Context, id uint) (*User, error)

	// Admin operations
	List(ctx context.Context) ([]*User, error)
	CreateUser(ctx context.Context, name, email, password string, role Role) (*User, error)
	Update(ctx context.Context, id uint, params UpdateUserParams) (*User, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, name, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx)

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, err
	}

	u, err := s.repo.Create(ctx, name, email, hashed, RoleCustomer)
	if err != nil {
		log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return "", nil, err
	}

	token, err := auth.GenerateJWT(u.ID, string(u.Role), email)
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", fmt.Sprint(u.ID)), zap.Error(err))
		return "", nil, err
	}

	log.Info("register completed",
		zap.String("user_id", fmt.Sprint(u.ID)),
		zap.String("email", email),
	)

	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(password, u.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(u.ID, string(u.Role), email)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) CreateUser(ctx context.Context, name, email, password string, role Role) (*User, error) {
	if role == "" {
		role = RoleCustomer
	}
	if role != RoleCustomer && role != RoleAdmin {
		return nil, ErrInvalidRole
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, name, email, hashed, role)
}

func (s *service) Update(ctx context.Context, id uint, params UpdateUserParams) (*User, error) {
	if params.Role != nil && *params.Role != RoleCustomer && *params.Role != RoleAdmin {
		return nil, ErrInvalidRole
	}
	return s.repo.Update(ctx, id, params)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
