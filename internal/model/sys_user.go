package model

import "time"

// ==================== 角色/状态常量 ====================

const (
	// 系统级角色: moderator (审核员), student (学生用户)
	RoleModerator = "moderator"
	RoleStudent   = "student"

	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// SysUser 系统用户（学生账号 / 审核员账号）
type SysUser struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Email    string `gorm:"size:100;uniqueIndex;not null;comment:登录邮箱"`
	Password string `gorm:"size:255;not null"` // bcrypt 哈希
	Nickname string `gorm:"size:100;comment:显示昵称"`

	Role   string `gorm:"size:20;default:'student';comment:系统角色"`
	Status string `gorm:"size:20;default:'active';comment:账号状态"`

	LastLoginAt *time.Time `gorm:"comment:最后登录时间"`
}

func (SysUser) TableName() string {
	return "sys_users"
}

// IsModerator 是否有审核权限
func (u *SysUser) IsModerator() bool {
	return u.Role == RoleModerator
}
