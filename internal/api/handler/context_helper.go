package handler

import (
	"github.com/gin-gonic/gin"

	"rigops/backend/internal/model"
	"rigops/backend/pkg/jwt"
	"rigops/backend/pkg/response"
)

// MustGetUser 从 Gin 上下文中安全提取当前用户实体。
// 如果 JWT 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get("current_user")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	user, ok := v.(*model.User)
	if !ok || user == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return user, true
}

// MustGetClaims 从 Gin 上下文中安全提取 JWT Claims。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}
