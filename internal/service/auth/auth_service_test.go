package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avatara12345/Chat-Application/internal/dao/mysql/mysqltest"
	"github.com/Avatara12345/Chat-Application/internal/dao/redis/redistest"
	"github.com/Avatara12345/Chat-Application/internal/dto/request"
	"github.com/Avatara12345/Chat-Application/pkg/errorx"
	"github.com/Avatara12345/Chat-Application/pkg/util/jwt"
)

func TestMain(m *testing.M) {
	jwt.Init("test-secret-0123456789abcdef", 15, 168)
	m.Run()
}

func newTestService() (*Service, *mysqltest.Fakes, *redistest.Cache) {
	fakes := mysqltest.NewFakes()
	cache := redistest.New()
	return NewService(fakes.Repos, cache, 168*time.Hour), fakes, cache
}

func register(t *testing.T, svc *Service, email string) string {
	t.Helper()
	rsp, err := svc.Register(context.Background(), request.RegisterRequest{
		Firstname: "Test",
		Lastname:  "User",
		Email:     email,
		Password:  "hunter22",
	})
	require.NoError(t, err)
	return rsp.Uuid
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc, "dup@example.com")

	_, err := svc.Register(context.Background(), request.RegisterRequest{
		Firstname: "Other",
		Email:     "dup@example.com",
		Password:  "hunter22",
	})
	assert.Equal(t, errorx.CodeUserExist, errorx.GetCode(err))
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _, _ := newTestService()
	uuid := register(t, svc, "alice@example.com")

	rsp, err := svc.Login(context.Background(), request.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, uuid, rsp.Uuid)
	require.NotEmpty(t, rsp.AccessToken)
	require.NotEmpty(t, rsp.RefreshToken)

	claims, err := jwt.ParseToken(rsp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uuid, claims.UserID)
	assert.Equal(t, "access_token", claims.Subject)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc, "bob@example.com")

	_, err := svc.Login(context.Background(), request.LoginRequest{
		Email:    "bob@example.com",
		Password: "not-it",
	})
	assert.Equal(t, errorx.CodeInvalidPassword, errorx.GetCode(err))

	_, err = svc.Login(context.Background(), request.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter22",
	})
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc, "carol@example.com")
	ctx := context.Background()

	login, err := svc.Login(ctx, request.LoginRequest{
		Email:    "carol@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, request.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	// The old refresh token is revoked by the rotation.
	_, err = svc.Refresh(ctx, request.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))

	// The new one works.
	_, err = svc.Refresh(ctx, request.RefreshTokenRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestService()
	uuid := register(t, svc, "dave@example.com")

	access, err := jwt.GenerateAccessToken(uuid)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), request.RefreshTokenRequest{RefreshToken: access})
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc, "erin@example.com")
	ctx := context.Background()

	login, err := svc.Login(ctx, request.LoginRequest{
		Email:    "erin@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.Uuid))

	_, err = svc.Refresh(ctx, request.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}
