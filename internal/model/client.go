package model

// Client 客户公司表 — 对应 clients
// user_id 关联客户登录账号，用于客户签认工作流
type Client struct {
	ClientID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"client_id"`
	Name          string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"name"`
	UserID        *string `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	ContactPerson string  `gorm:"type:varchar(255)"                              json:"contact_person,omitempty"`
	Email         string  `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone         string  `gorm:"type:varchar(50)"                               json:"phone,omitempty"`
	Address       string  `gorm:"type:text"                                      json:"address,omitempty"`
	IsActive      bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Client) TableName() string { return "clients" }
