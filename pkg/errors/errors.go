package errors

import (
	"errors"
	"fmt"
)

// ErrForbidden 权限不足：角色、归属或锁定状态不允许该操作
// 与“记录不存在”严格区分，调用方据此返回 403 而非 404
var ErrForbidden = errors.New("无权执行该操作")

// InvalidStateError 工作流状态前置条件不满足
// 携带当前状态，便于前端刷新后展示最新工作流位置
type InvalidStateError struct {
	Operation string // 被拒绝的操作，如 "submit" / "decide"
	Current   string // 班报当前状态
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("操作 %s 不允许：班报当前状态为 %s", e.Operation, e.Current)
}

// NewInvalidState 创建状态前置条件错误
func NewInvalidState(operation, current string) *InvalidStateError {
	return &InvalidStateError{Operation: operation, Current: current}
}

// IsInvalidState 判断错误是否为状态前置条件错误
func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}
