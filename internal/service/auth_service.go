package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/repository"
	"flowdesks/backend/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrAccountDisabled    = errors.New("账号已停用")
	ErrInvalidToken       = errors.New("Token 无效或已过期")
	ErrProfileNotFound    = errors.New("账号不存在")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Me(ctx context.Context, userID string) (*dto.ProfileResponse, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	tokens TokenBlacklist
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例；tokens 为 nil 时登出不会使 Token 立即失效
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		jwtMgr: jwtMgr,
		tokens: tokens,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询账号
	p, err := s.repo.Profile.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询账号失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !p.IsActive {
		return nil, ErrAccountDisabled
	}

	// 3. 生成 Token 对
	return s.issue(p, req.RememberMe)
}

// Refresh 用 refresh token 换取新的 Token 对，旧 refresh token 作废
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseAs(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if s.tokens != nil {
		revoked, err := s.tokens.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("查询 Token 黑名单失败", zap.Error(err))
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	p, err := s.repo.Profile.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrAccountDisabled
	}

	resp, err := s.issue(p, claims.RememberMe)
	if err != nil {
		return nil, err
	}

	if s.tokens != nil {
		if err := s.tokens.BlacklistToken(ctx, claims.ID, claims.Remaining()); err != nil {
			s.logger.Warn("作废旧 RefreshToken 失败", zap.String("user_id", p.ProfileID), zap.Error(err))
		}
	}
	return resp, nil
}

// Logout 将 access / refresh token 加入黑名单；无法解析的 Token 直接忽略
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if s.tokens == nil {
		return nil
	}
	for _, raw := range []string{accessToken, refreshToken} {
		if raw == "" {
			continue
		}
		claims, err := s.jwtMgr.ParseToken(raw)
		if err != nil {
			continue
		}
		if err := s.tokens.BlacklistToken(ctx, claims.ID, claims.Remaining()); err != nil {
			s.logger.Error("Token 加入黑名单失败", zap.String("user_id", claims.UserID), zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	p, err := s.repo.Profile.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	resp := toProfileResponse(p)
	return &resp, nil
}

func (s *authService) issue(p *model.Profile, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(p.ProfileID, p.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(p.ProfileID, p.Role, rememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toProfileResponse(p),
	}, nil
}
