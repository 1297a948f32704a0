package user_services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-discussions/internal/domain"
	userrepo "go-discussions/internal/repository/user"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}))

	return NewAuthService(userrepo.NewGormUserRepository(db), "test-secret", &noOpLogger{})
}

type noOpLogger struct{}

func (*noOpLogger) Info(msg string, fields ...interface{})  {}
func (*noOpLogger) Error(msg string, fields ...interface{}) {}
func (*noOpLogger) Debug(msg string, fields ...interface{}) {}
func (*noOpLogger) Warn(msg string, fields ...interface{})  {}

func Test_Register(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	t.Run("creates a user with a hashed password", func(t *testing.T) {
		u, err := svc.Register(ctx, "alice", "password123")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.NotEqual(t, "password123", u.Password)
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "otherpassword")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "taken")
	})

	t.Run("rejects invalid usernames and short passwords", func(t *testing.T) {
		_, err := svc.Register(ctx, "a!", "password123")
		assert.Error(t, err)

		_, err = svc.Register(ctx, "bob", "short")
		assert.Error(t, err)
	})
}

func Test_LoginAndValidate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "password123")
	require.NoError(t, err)

	t.Run("valid credentials yield a verifiable token", func(t *testing.T) {
		u, token, err := svc.Login(ctx, "alice", "password123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
		require.NotEmpty(t, token)

		userID, err := svc.ValidateJWTToken(token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, userID)
	})

	t.Run("wrong password and unknown user fail alike", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice", "wrongpassword")
		require.Error(t, err)
		assert.Equal(t, "invalid credentials", err.Error())

		_, _, err = svc.Login(ctx, "nobody", "password123")
		require.Error(t, err)
		assert.Equal(t, "invalid credentials", err.Error())
	})

	t.Run("garbage tokens are rejected", func(t *testing.T) {
		_, err := svc.ValidateJWTToken("not.a.token")
		assert.Error(t, err)

		_, err = svc.ValidateJWTToken("")
		assert.Error(t, err)
	})
}
