package test_utils

import (
	"context"
	"testing"

	"github.com/Thucosta0/financepro-sub000/pkg/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateTestUser stores a fresh user so rows referencing users(id) can be inserted.
func CreateTestUser(t *testing.T, db *pgxpool.Pool) (context.Context, user.User) {
	t.Helper()
	ctx := context.Background()
	u, err := user.NewUserRepo(db).CreateUser(ctx, user.User{
		Uid:         uuid.NewString(),
		Username:    "user-" + uuid.NewString()[:8],
		DisplayName: "Test User",
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user.WithUser(ctx, u), u
}
