// Package auth implements account registration and the token
// lifecycle: access/refresh pair issuance, rotation and revocation.
package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Avatara12345/Chat-Application/internal/dao/mysql"
	"github.com/Avatara12345/Chat-Application/internal/dao/redis"
	"github.com/Avatara12345/Chat-Application/internal/dto/request"
	"github.com/Avatara12345/Chat-Application/internal/dto/respond"
	"github.com/Avatara12345/Chat-Application/internal/model"
	"github.com/Avatara12345/Chat-Application/pkg/errorx"
	"github.com/Avatara12345/Chat-Application/pkg/util/jwt"
	"github.com/Avatara12345/Chat-Application/pkg/util/random"
)

const refreshKeyPrefix = "refresh_"

// Service handles accounts and tokens. Refresh tokens are tracked in
// redis by token id so rotation invalidates the previous one.
type Service struct {
	repos      *mysql.Repositories
	cache      redis.CacheService
	refreshTTL time.Duration
}

// NewService builds the auth service. refreshTTL matches the refresh
// token lifetime from config.
func NewService(repos *mysql.Repositories, cache redis.CacheService, refreshTTL time.Duration) *Service {
	return &Service{repos: repos, cache: cache, refreshTTL: refreshTTL}
}

// Register creates an account. The email must be unused; the password
// is hashed by the model's save hook.
func (s *Service) Register(ctx context.Context, req request.RegisterRequest) (*respond.RegisterRespond, error) {
	if _, err := s.repos.User.FindByEmail(req.Email); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "email already registered")
	} else if !errorx.IsNotFound(err) {
		return nil, err
	}

	user := &model.User{
		Uuid:        "U" + random.GetNowAndLenRandomString(13),
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Email:       req.Email,
		RawPassword: req.Password,
		Status:      model.PresenceOffline,
	}
	if err := s.repos.User.CreateUser(user); err != nil {
		return nil, err
	}
	zap.L().Info("account registered", zap.String("user_id", user.Uuid))
	return &respond.RegisterRespond{
		Uuid:      user.Uuid,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		Email:     user.Email,
	}, nil
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := s.repos.User.FindByEmail(req.Email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "account not found")
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "wrong password")
	}

	access, refresh, err := s.issuePair(ctx, user.Uuid)
	if err != nil {
		return nil, err
	}
	return &respond.LoginRespond{
		Uuid:         user.Uuid,
		Firstname:    user.Firstname,
		Lastname:     user.Lastname,
		Email:        user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Refresh rotates the token pair. The presented refresh token must be
// the one currently on record; rotation revokes it.
func (s *Service) Refresh(ctx context.Context, req request.RefreshTokenRequest) (*respond.TokenPairRespond, error) {
	claims, err := jwt.ParseToken(req.RefreshToken)
	if err != nil || claims.Subject != "refresh_token" || claims.TokenID == "" {
		return nil, errorx.New(errorx.CodeUnauthorized, "invalid refresh token")
	}
	key := refreshKeyPrefix + claims.UserID + "_" + claims.TokenID
	if _, err := s.cache.Get(ctx, key); err != nil {
		return nil, errorx.New(errorx.CodeUnauthorized, "refresh token revoked or expired")
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		zap.L().Warn("stale refresh token cleanup failed", zap.Error(err))
	}

	access, refresh, err := s.issuePair(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &respond.TokenPairRespond{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout revokes every refresh token of the user.
func (s *Service) Logout(ctx context.Context, userId string) error {
	return s.cache.DeleteByPattern(ctx, refreshKeyPrefix+userId+"_*")
}

func (s *Service) issuePair(ctx context.Context, userId string) (access, refresh string, err error) {
	access, err = jwt.GenerateAccessToken(userId)
	if err != nil {
		return "", "", errorx.Wrap(err, errorx.CodeServerBusy, "access token issue failed")
	}
	refresh, tokenID, err := jwt.GenerateRefreshToken(userId)
	if err != nil {
		return "", "", errorx.Wrap(err, errorx.CodeServerBusy, "refresh token issue failed")
	}
	key := refreshKeyPrefix + userId + "_" + tokenID
	if err := s.cache.Set(ctx, key, "1", s.refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
