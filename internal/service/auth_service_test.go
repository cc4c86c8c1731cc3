package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Biyayaa/scholarship-api/internal/dto"
	"github.com/Biyayaa/scholarship-api/internal/models"
)

type fakeUserRepo struct {
	users  map[string]models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.Email] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func newAuthService(repo *fakeUserRepo) AuthService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAuthService(repo, validate, "test-secret", time.Hour, zerolog.Nop())
}

func TestAuthServiceSignupAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Signup(context.Background(), dto.SignupRequest{
		Name:     "Ada Obi",
		Email:    "Ada@Example.com",
		Password: "correct-horse",
		Role:     models.RoleApplicant,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, models.RoleApplicant, user.Role)

	session, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, user.ID, session.User.ID)

	token, err := jwt.Parse(session.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, models.RoleApplicant, claims["role"])
	require.Equal(t, float64(user.ID), claims["sub"])
}

func TestAuthServiceSignupRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	payload := dto.SignupRequest{
		Name:     "Ada Obi",
		Email:    "ada@example.com",
		Password: "correct-horse",
		Role:     models.RoleApplicant,
	}
	_, err := svc.Signup(context.Background(), payload)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), payload)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthServiceSignupRejectsUnknownRole(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), dto.SignupRequest{
		Name:     "Ada Obi",
		Email:    "ada@example.com",
		Password: "correct-horse",
		Role:     "reviewer",
	})
	require.Error(t, err)
}

func TestAuthServiceLoginRejectsBadPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), dto.SignupRequest{
		Name:     "Ada Obi",
		Email:    "ada@example.com",
		Password: "correct-horse",
		Role:     models.RoleApplicant,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-horse",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
