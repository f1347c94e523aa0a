package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/repository"
	"libraflow-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type authService struct {
	userRepo     repository.UserRepository
	tokenManager security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokenManager security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokenManager: tokenManager}
}

func (s *authService) Register(ctx context.Context, name, email, password string, role domain.Role, studentID string) (*domain.User, string, error) {
	if len(password) < 6 {
		return nil, "", errors.New("password must be at least 6 characters")
	}
	if role == "" {
		role = domain.RoleStudent
	}
	if role != domain.RoleStudent && role != domain.RoleLibrarian {
		return nil, "", fmt.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         role,
		StudentID:    studentID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokenManager.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", errors.New("invalid email or password")
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", errors.New("invalid email or password")
	}

	token, err := s.tokenManager.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

func (s *authService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.userRepo.ListBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Badges = badges
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}
