package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rigops/backend/config"
	"rigops/backend/internal/dto"
	"rigops/backend/internal/model"
	"rigops/backend/internal/repository"
	"rigops/backend/pkg/jwt"
	"rigops/backend/pkg/redis"
)

// 认证模块错误
var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserDisabled       = errors.New("账号已停用")
	ErrTokenRevoked       = errors.New("token 已失效")
	ErrUserNotFound       = errors.New("用户不存在")
)

// AuthService 认证服务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessClaims *jwt.Claims, refreshToken string) error
	GetProfile(ctx context.Context, userID string) (*dto.UserInfo, error)
}

// authService AuthService 实现
type authService struct {
	repo    *repository.Repository
	jwtMgr  *jwt.Manager
	redisC  *redis.Client // 可为 nil，降级为无黑名单
	authCfg *config.AuthConfig
	logger  *zap.Logger
}

// NewAuthService 创建认证服务实例
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, redisC *redis.Client, authCfg *config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, redisC: redisC, authCfg: authCfg, logger: logger}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	info, err := s.userInfo(ctx, user)
	if err != nil {
		return nil, err
	}
	resp, err := s.issueTokens(user, info, req.RememberMe)
	if err != nil {
		return nil, err
	}

	s.logger.Info("用户登录成功",
		zap.String("user_id", user.UserID),
		zap.String("username", user.Username),
		zap.String("role", user.Role))
	return resp, nil
}

// userInfo 组装用户信息，客户角色附带关联的客户公司
func (s *authService) userInfo(ctx context.Context, user *model.User) (*dto.UserInfo, error) {
	info := &dto.UserInfo{
		UserID:      user.UserID,
		Username:    user.Username,
		Name:        user.Name,
		Role:        user.Role,
		CanApprove:  user.CanApprove,
		IsSuperuser: user.IsSuperuser,
	}
	if user.Role == model.RoleClient {
		client, err := s.repo.Client.GetByUserID(ctx, user.UserID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		} else {
			info.ClientID = &client.ClientID
		}
	}
	return info, nil
}

func (s *authService) issueTokens(user *model.User, info *dto.UserInfo, rememberMe bool) (*dto.TokenResponse, error) {
	clientID := ""
	if info.ClientID != nil {
		clientID = *info.ClientID
	}
	access, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, clientID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, clientID, rememberMe)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.authCfg.AccessTokenTTL.Seconds()),
		User:         info,
	}, nil
}

// ────────────────────── Refresh ──────────────────────

// Refresh 以 refresh token 换发新令牌对，旧 refresh token 同时作废
func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, jwt.ErrTokenInvalid
	}
	if s.redisC != nil {
		revoked, err := s.redisC.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	if s.redisC != nil {
		if err := s.redisC.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("旧 refresh token 作废失败", zap.Error(err))
		}
	}

	info, err := s.userInfo(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user, info, claims.RememberMe)
}

// ────────────────────── Logout ──────────────────────

// Logout 将本次会话的 access 与 refresh token 全部加入黑名单
func (s *authService) Logout(ctx context.Context, accessClaims *jwt.Claims, refreshToken string) error {
	if s.redisC == nil {
		return nil
	}
	if accessClaims != nil && accessClaims.ExpiresAt != nil {
		if err := s.redisC.BlacklistToken(ctx, accessClaims.ID, time.Until(accessClaims.ExpiresAt.Time)); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		claims, err := s.jwtMgr.ParseToken(refreshToken)
		if err == nil && claims.ExpiresAt != nil {
			if err := s.redisC.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
				return err
			}
		}
	}
	if accessClaims != nil {
		s.logger.Info("用户已登出", zap.String("user_id", accessClaims.UserID))
	}
	return nil
}

// ────────────────────── GetProfile ──────────────────────

func (s *authService) GetProfile(ctx context.Context, userID string) (*dto.UserInfo, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.userInfo(ctx, user)
}
