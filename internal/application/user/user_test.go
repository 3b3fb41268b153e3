package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/domain/audit"
	"github.com/xiebiao/inventory-pos/internal/domain/user"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
	"github.com/xiebiao/inventory-pos/pkg/jwt"
)

type fixture struct {
	auth     *AuthUseCase
	manage   *ManageUseCase
	sessions *memory.SessionStore
	audits   audit.Repository
	jwt      *jwt.Manager
}

func newFixture() *fixture {
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	auditRepo := memory.NewAuditRepository(store)
	service := user.NewService(userRepo)
	sessions := memory.NewSessionStore()
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	return &fixture{
		auth:     NewAuthUseCase(service, userRepo, auditRepo, jwtManager, sessions, zap.NewNop()),
		manage:   NewManageUseCase(memory.NewTxManager(store), service, userRepo, auditRepo, zap.NewNop()),
		sessions: sessions,
		audits:   auditRepo,
		jwt:      jwtManager,
	}
}

func TestBootstrapAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.manage.Bootstrap(ctx, "admin", "admin1234"))
	// 已有用户时不再创建
	require.NoError(t, f.manage.Bootstrap(ctx, "other", "other1234"))

	users, total, err := f.manage.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, string(user.RoleAdmin), users[0].Role)

	resp, err := f.auth.Login(ctx, LoginRequest{Username: "admin", Password: "admin1234", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := f.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	session, err := f.sessions.GetSession(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", session["ip"])

	_, err = f.auth.Login(ctx, LoginRequest{Username: "admin", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	_, err = f.auth.Login(ctx, LoginRequest{Username: "nobody", Password: "admin1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.manage.Create(ctx, CreateUserRequest{Username: "cashier1", Password: "pass1234", Role: user.RoleCashier})
	require.NoError(t, err)

	login, err := f.auth.Login(ctx, LoginRequest{Username: "cashier1", Password: "pass1234"})
	require.NoError(t, err)

	refreshed, err := f.auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "cashier", refreshed.User.Role)

	// 同一个Refresh Token只能使用一次
	_, err = f.auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// Access Token不能当Refresh Token用
	_, err = f.auth.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	require.NoError(t, f.auth.Logout(ctx, login.User.ID, login.AccessToken))
	revoked, err := f.sessions.IsInBlacklist(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	// 登出后会话已删除，刷新失败
	_, err = f.auth.Refresh(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	entries, _, err := f.audits.List(ctx, audit.ListParams{Action: audit.ActionLogout})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCreateUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := uint(1)

	info, err := f.manage.Create(ctx, CreateUserRequest{Username: "mgr_1", Password: "manager99", Role: user.RoleManager, OperatorID: &admin})
	require.NoError(t, err)
	assert.Equal(t, "manager", info.Role)

	_, err = f.manage.Create(ctx, CreateUserRequest{Username: "mgr_1", Password: "manager99", Role: user.RoleManager})
	assert.ErrorIs(t, err, user.ErrUsernameDuplicate)

	_, err = f.manage.Create(ctx, CreateUserRequest{Username: "x", Password: "manager99", Role: user.RoleManager})
	assert.ErrorIs(t, err, user.ErrInvalidUsername)

	_, err = f.manage.Create(ctx, CreateUserRequest{Username: "boss", Password: "manager99", Role: "owner"})
	assert.ErrorIs(t, err, user.ErrInvalidRole)

	_, err = f.manage.Create(ctx, CreateUserRequest{Username: "weak", Password: "12345678", Role: user.RoleCashier})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	me, err := f.manage.Me(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "mgr_1", me.Username)

	entries, _, err := f.audits.List(ctx, audit.ListParams{Action: audit.ActionUserCreate})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, &admin, entries[0].UserID)
}
