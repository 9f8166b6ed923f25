package dto

// LoginRequest 登录请求
type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserInfo 登录用户信息
type UserInfo struct {
	UserID      string  `json:"user_id"`
	Username    string  `json:"username"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	CanApprove  bool    `json:"can_approve"`
	IsSuperuser bool    `json:"is_superuser"`
	ClientID    *string `json:"client_id,omitempty"`
}

// TokenResponse 令牌响应
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"` // access token 有效期（秒）
	User         *UserInfo `json:"user,omitempty"`
}
