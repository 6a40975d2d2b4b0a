package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/repository/memory"
	"github.com/Dan9191/bank-cards/internal/service"
	"github.com/Dan9191/bank-cards/internal/service/mocks"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T) (*service.AuthService, models.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	store := memory.NewStore()
	user := store.AddUser(models.User{
		Email:        "ann@example.com",
		Username:     "ann",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
	return service.NewAuthService(store, quietLogger(), "test-secret", time.Hour), user
}

func TestAuthService_LoginAndParse(t *testing.T) {
	auth, user := newAuth(t)

	token, err := auth.Login(context.Background(), "ann@example.com", "s3cret")
	require.NoError(t, err)

	id, role, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestAuthService_InvalidCredentials(t *testing.T) {
	auth, _ := newAuth(t)

	_, err := auth.Login(context.Background(), "ann@example.com", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = auth.Login(context.Background(), "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthService_LoginStorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	auth := service.NewAuthService(users, quietLogger(), "test-secret", time.Hour)

	users.EXPECT().FindByEmail(gomock.Any(), "ann@example.com").Return(models.User{}, errors.New("db down"))

	_, err := auth.Login(context.Background(), "ann@example.com", "s3cret")
	assert.ErrorIs(t, err, models.ErrInternal)
}

func TestAuthService_RejectsForeignTokens(t *testing.T) {
	auth, user := newAuth(t)

	other := service.NewAuthService(memory.NewStore(), quietLogger(), "other-secret", time.Hour)
	foreign, err := other.IssueToken(user)
	require.NoError(t, err)
	_, _, err = auth.ParseToken(foreign)
	assert.Error(t, err)

	expired := service.NewAuthService(memory.NewStore(), quietLogger(), "test-secret", -time.Minute)
	stale, err := expired.IssueToken(user)
	require.NoError(t, err)
	_, _, err = auth.ParseToken(stale)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, _, err = auth.ParseToken(unsigned)
	assert.Error(t, err)

	_, _, err = auth.ParseToken("garbage")
	assert.Error(t, err)
}

func TestAuthService_RejectsUnknownRole(t *testing.T) {
	auth, user := newAuth(t)
	user.Role = "ROOT"

	signer := service.NewAuthService(memory.NewStore(), quietLogger(), "test-secret", time.Hour)
	token, err := signer.IssueToken(user)
	require.NoError(t, err)

	_, _, err = auth.ParseToken(token)
	assert.Error(t, err)
}
