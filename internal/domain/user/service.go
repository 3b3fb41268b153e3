package user

import (
	"context"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// bcryptCost 加密强度（测试中调低）
var bcryptCost = 12

// Service 用户领域服务
// 设计说明：
// 1. 密码加密与校验只在这里发生
// 2. Service依赖Repository接口，不依赖具体实现
type Service interface {
	// CreateUser 创建用户（管理员操作）
	CreateUser(ctx context.Context, username, password string, role Role) (*User, error)

	// Authenticate 校验用户名密码
	Authenticate(ctx context.Context, username, password string) (*User, error)

	// EnsureAdmin 用户表为空时创建初始管理员，返回是否创建
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

type service struct {
	repo Repository
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateUser 创建用户
// 业务规则：
// 1. 用户名3-32位字母、数字、下划线
// 2. 密码8-64位，包含字母和数字
// 3. 用户名唯一性由数据库UNIQUE索引保证
func (s *service) CreateUser(ctx context.Context, username, password string, role Role) (*User, error) {
	if !isValidUsername(username) {
		return nil, ErrInvalidUsername
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(username, string(hashed), role)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate 校验用户名密码
// 用户不存在与密码错误返回同一个错误，避免用户名探测
func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return u, nil
}

// EnsureAdmin 初始化管理员
func (s *service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	if _, err := s.CreateUser(ctx, username, password, RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)
	letterPattern   = regexp.MustCompile(`[A-Za-z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
)

func isValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// validatePasswordStrength 密码强度校验
// 规则：8-64位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 64 {
		return apperrors.ErrWeakPassword
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
