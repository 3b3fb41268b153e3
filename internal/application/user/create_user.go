package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/application"
	"github.com/xiebiao/inventory-pos/internal/domain/audit"
	"github.com/xiebiao/inventory-pos/internal/domain/user"
)

// ManageUseCase 用户管理（管理员）
// 没有自助注册：账号由管理员创建，首个管理员在启动时由配置生成
type ManageUseCase struct {
	txManager   application.TxManager
	userService user.Service
	userRepo    user.Repository
	auditRepo   audit.Repository
	logger      *zap.Logger
}

// NewManageUseCase 创建用户管理用例
func NewManageUseCase(
	txManager application.TxManager,
	userService user.Service,
	userRepo user.Repository,
	auditRepo audit.Repository,
	logger *zap.Logger,
) *ManageUseCase {
	return &ManageUseCase{
		txManager:   txManager,
		userService: userService,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username   string
	Password   string
	Role       user.Role
	OperatorID *uint
}

// Create 创建用户
func (uc *ManageUseCase) Create(ctx context.Context, req CreateUserRequest) (*UserInfo, error) {
	var created *user.User
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		u, err := uc.userService.CreateUser(txCtx, req.Username, req.Password, req.Role)
		if err != nil {
			return err
		}
		created = u

		return audit.Record(txCtx, uc.auditRepo, req.OperatorID, audit.ActionUserCreate, map[string]interface{}{
			"user_id":  u.ID,
			"username": u.Username,
			"role":     string(u.Role),
		})
	})
	if err != nil {
		return nil, err
	}

	info := toUserInfo(created)
	return &info, nil
}

// List 分页查询用户
func (uc *ManageUseCase) List(ctx context.Context, page, pageSize int) ([]UserInfo, int64, error) {
	users, total, err := uc.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]UserInfo, len(users))
	for i, u := range users {
		infos[i] = toUserInfo(u)
	}
	return infos, total, nil
}

// Me 当前登录用户
func (uc *ManageUseCase) Me(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}

// Bootstrap 用户表为空时创建初始管理员
func (uc *ManageUseCase) Bootstrap(ctx context.Context, username, password string) error {
	created, err := uc.userService.EnsureAdmin(ctx, username, password)
	if err != nil {
		return err
	}
	if created {
		uc.logger.Info("已创建初始管理员", zap.String("username", username))
	}
	return nil
}
