package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateUser(t *testing.T) {
	t.Run("should create user with generated uid", func(t *testing.T) {
		service := NewUserService(NewStubUserRepository())

		created, err := service.CreateUser(context.Background(), User{Username: "ana", DisplayName: "Ana"})

		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.NotEmpty(t, created.Uid)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("should reject taken username", func(t *testing.T) {
		service := NewUserService(NewStubUserRepository())
		_, err := service.CreateUser(context.Background(), User{Username: "ana", DisplayName: "Ana"})
		require.NoError(t, err)

		_, err = service.CreateUser(context.Background(), User{Username: "ana", DisplayName: "Other"})

		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("should reject missing display name", func(t *testing.T) {
		service := NewUserService(NewStubUserRepository())

		_, err := service.CreateUser(context.Background(), User{Username: "ana"})

		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})
}

func TestUserService_GetCurrentUser(t *testing.T) {
	t.Run("should return error when context has no user", func(t *testing.T) {
		service := NewUserService(NewStubUserRepository())

		_, err := service.GetCurrentUser(context.Background())

		assert.ErrorIs(t, err, ErrNoUser)
		assert.Contains(t, err.Error(), "failed to get current user")
	})

	t.Run("should load user from context id", func(t *testing.T) {
		repo := NewStubUserRepository()
		service := NewUserService(repo)
		created, err := service.CreateUser(context.Background(), User{Username: "ana", DisplayName: "Ana"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), User{Id: created.Id})

		current, err := service.GetCurrentUser(ctx)

		require.NoError(t, err)
		assert.Equal(t, created.Uid, current.Uid)
	})
}
