package service

import (
	"context"
	"testing"
	"time"

	"parkus/internal/domain"
	"parkus/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, repository.ErrDuplicateEntry
	}
	copied := *user
	copied.ID = r.nextID
	r.nextID++
	r.users[copied.Username] = &copied
	result := copied
	return &result, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func registerDTO() domain.RegisterUserDTO {
	return domain.RegisterUserDTO{
		Username: "JDoe",
		Name:     "John Doe",
		Email:    "jdoe@example.com",
		Password: "secret123",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	user, err := auth.Register(ctx, registerDTO())
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username, "username must be lowercased")
	assert.Equal(t, "customer", user.Role)
	assert.Empty(t, user.Password, "hash must not leak out of the service")

	stored := repo.users["jdoe"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.Password, "password must be hashed at rest")

	resp, err := auth.Login(ctx, domain.LoginUserDTO{Username: "JDOE", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "jdoe", resp.Username)
	assert.Equal(t, user.ID, resp.UserID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerDTO())
	require.NoError(t, err)

	_, err = auth.Register(ctx, registerDTO())
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerDTO())
	require.NoError(t, err)

	_, err = auth.Login(ctx, domain.LoginUserDTO{Username: "jdoe", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, domain.LoginUserDTO{Username: "ghost", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerDTO())
	require.NoError(t, err)
	resp, err := auth.Login(ctx, domain.LoginUserDTO{Username: "jdoe", Password: "secret123"})
	require.NoError(t, err)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", claims["username"])
	assert.Equal(t, "customer", claims["role"])
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerDTO())
	require.NoError(t, err)
	resp, err := auth.Login(ctx, domain.LoginUserDTO{Username: "jdoe", Password: "secret123"})
	require.NoError(t, err)

	_, err = auth.ValidateToken(resp.Token + "x")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = auth.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	otherAuth := NewAuthService(repo, "different-secret", time.Hour)
	_, err = otherAuth.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokenRejected(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret", -time.Minute)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerDTO())
	require.NoError(t, err)
	resp, err := auth.Login(ctx, domain.LoginUserDTO{Username: "jdoe", Password: "secret123"})
	require.NoError(t, err)

	_, err = auth.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGetProfileStripsHash(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	user, err := auth.Register(ctx, registerDTO())
	require.NoError(t, err)

	profile, err := auth.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", profile.Username)
	assert.Empty(t, profile.Password)

	_, err = auth.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
