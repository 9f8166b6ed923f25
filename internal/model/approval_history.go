package model

import "time"

// ── 审批决定 ──

const (
	DecisionPending  = "pending"
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// PendingReviewRole 提交时写入审批历史的占位角色标签
const PendingReviewRole = "Pending Manager Review"

// ApprovalHistory 审批历史 — 对应 approval_histories
//
// 仅追加、不可修改的审计记录。提交时写入一条 approver 为空的 pending 记录，
// 审批时写入实际审批人及其当时的角色标签。
type ApprovalHistory struct {
	ApprovalID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"approval_id"`
	ShiftID    string    `gorm:"type:uuid;not null;index"                       json:"shift_id"`
	ApproverID *string   `gorm:"type:uuid"                                      json:"approver_id,omitempty"`
	Role       string    `gorm:"type:varchar(64)"                               json:"role,omitempty"`
	Decision   string    `gorm:"type:varchar(16);not null;default:'pending'"    json:"decision"`
	Comments   string    `gorm:"type:text"                                      json:"comments,omitempty"`
	Timestamp  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index"       json:"timestamp"`

	// 关联
	Approver *User `gorm:"foreignKey:ApproverID;references:UserID" json:"approver,omitempty"`
}

// TableName 指定表名
func (ApprovalHistory) TableName() string { return "approval_histories" }
