package user

import (
	"time"
)

// Role 用户角色
// 权限包含关系：admin ⊇ manager ⊇ cashier
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

var roleRank = map[Role]int{
	RoleCashier: 1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// Valid 是否为合法角色
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast 当前角色是否具备required角色的权限
func (r Role) AtLeast(required Role) bool {
	return r.Valid() && roleRank[r] >= roleRank[required]
}

// User 用户实体（聚合根）
// 对库存核心而言只是操作人的ID
type User struct {
	ID           uint
	Username     string
	PasswordHash string // bcrypt哈希值
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, hashedPassword string, role Role) *User {
	now := time.Now()
	return &User{
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
