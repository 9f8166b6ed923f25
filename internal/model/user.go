package model

// ── 角色常量 ──

const (
	RoleSupervisor = "supervisor" // 班组长：填报班报
	RoleManager    = "manager"    // 经理：审批班报
	RoleClient     = "client"     // 客户：最终签认
)

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"username"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'supervisor'" json:"role"`
	CanApprove   bool   `gorm:"not null;default:false"                         json:"can_approve"` // 班组长是否具备审批能力
	IsSuperuser  bool   `gorm:"not null;default:false"                         json:"is_superuser"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// DisplayRole 返回审批记录中使用的角色展示名
func (u *User) DisplayRole() string {
	if u.IsSuperuser {
		return "Administrator"
	}
	switch u.Role {
	case RoleSupervisor:
		return "Supervisor"
	case RoleManager:
		return "Manager"
	case RoleClient:
		return "Client"
	}
	return u.Role
}
