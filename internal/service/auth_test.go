package service

import (
	"context"
	"testing"

	"libraflow-backend/internal/domain"
	"libraflow-backend/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	tokens := security.NewTokenManager(testSecret)

	t.Run("Success defaults to student role", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, tokens)

		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			u.ID = 1
			assert.Equal(t, domain.RoleStudent, u.Role)
			assert.Equal(t, "alice@univ.fr", u.Email) // trimmed and lowercased
			assert.NotEqual(t, "secret1", u.PasswordHash)
		}).Return(nil)

		user, token, err := svc.Register(ctx, "Alice", "  Alice@Univ.FR ", "secret1", "", "ST-001")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := tokens.Validate(token)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, domain.RoleStudent, claims.Role)
	})

	t.Run("Short password rejected", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, tokens)

		_, _, err := svc.Register(ctx, "Alice", "alice@univ.fr", "short", "", "")
		assert.Error(t, err)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Email taken", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, tokens)

		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(domain.ErrEmailTaken)

		_, _, err := svc.Register(ctx, "Alice", "alice@univ.fr", "secret1", "", "")
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("Unknown role rejected", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepo), tokens)
		_, _, err := svc.Register(ctx, "Alice", "alice@univ.fr", "secret1", "dean", "")
		assert.Error(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	tokens := security.NewTokenManager(testSecret)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	stored := &domain.User{ID: 1, Email: "alice@univ.fr", PasswordHash: string(hash), Role: domain.RoleStudent}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, tokens)

		userRepo.On("GetByEmail", ctx, "alice@univ.fr").Return(stored, nil)

		user, token, err := svc.Login(ctx, "alice@univ.fr", "secret1")
		assert.NoError(t, err)
		assert.Equal(t, int32(1), user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("Wrong password gives the generic error", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, tokens)

		userRepo.On("GetByEmail", ctx, "alice@univ.fr").Return(stored, nil)

		_, _, err := svc.Login(ctx, "alice@univ.fr", "wrong")
		assert.EqualError(t, err, "invalid email or password")
	})

	t.Run("Unknown email gives the same generic error", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewAuthService(userRepo, tokens)

		userRepo.On("GetByEmail", ctx, "bob@univ.fr").Return(nil, domain.ErrUserNotFound)

		_, _, err := svc.Login(ctx, "bob@univ.fr", "secret1")
		assert.EqualError(t, err, "invalid email or password")
	})
}

func TestAuthService_GetProfile(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepo)
	svc := NewAuthService(userRepo, security.NewTokenManager(testSecret))

	userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Points: 40}, nil)
	userRepo.On("ListBadges", ctx, int32(1)).Return([]domain.Badge{{Name: BadgeLecteurAssidu}}, nil)

	user, err := svc.GetProfile(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int32(40), user.Points)
	assert.Len(t, user.Badges, 1)
}
