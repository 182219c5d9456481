package service

import (
	"errors"
	"fmt"
)

// ==================== 错误分类 ====================
// 所有 I/O 错误在操作边界（提交/审核）转成用户可读文案，不允许击穿向导会话

// ValidationError 步骤校验失败：本地可恢复，不出向导控制器边界
type ValidationError struct {
	Step    int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UploadError 媒体上传失败：整个提交中止，草稿原样保留，用户可重试
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("upload failed for %s: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistenceError 记录写入失败：恢复路径与 UploadError 相同
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ==================== 哨兵错误 ====================

var (
	// ErrNotFound 编辑/审核的目标房源已不存在，必须显式暴露而非静默给空草稿
	ErrNotFound = errors.New("listing not found")

	// ErrUnauthenticated 无登录身份，提交类操作的硬性前置条件
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden 操作他人房源
	ErrForbidden = errors.New("not the owner of this listing")

	// ErrSessionNotFound 向导会话不存在或已过期
	ErrSessionNotFound = errors.New("wizard session not found or expired")

	// ErrJumpNotAllowed 新建模式禁止跳步
	ErrJumpNotAllowed = errors.New("step jumping is only available when editing")

	// ErrSubmitInFlight 提交进行中，禁止重复提交
	ErrSubmitInFlight = errors.New("submission already in progress")

	// 认证相关
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserDisabled       = errors.New("account disabled")
	ErrInvalidToken       = errors.New("invalid token")
)
