package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rigops/backend/internal/dto"
	"rigops/backend/internal/service"
	pkgerrors "rigops/backend/pkg/errors"
	"rigops/backend/pkg/response"
)

// AlertHandler 预警模块 HTTP 处理器
type AlertHandler struct {
	alertSvc service.AlertService
}

// NewAlertHandler 创建 AlertHandler
func NewAlertHandler(alertSvc service.AlertService) *AlertHandler {
	return &AlertHandler{alertSvc: alertSvc}
}

// List 预警列表
// GET /api/v1/alerts
func (h *AlertHandler) List(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var query dto.ListAlertsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	alerts, total, err := h.alertSvc.List(c.Request.Context(), user, &query)
	if err != nil {
		h.handleAlertError(c, err)
		return
	}
	response.OKPage(c, alerts, total, query.Page, query.Limit())
}

// Acknowledge 确认预警
// POST /api/v1/alerts/:id/ack
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	alert, err := h.alertSvc.Acknowledge(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.handleAlertError(c, err)
		return
	}
	response.OK(c, alert)
}

func (h *AlertHandler) handleAlertError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlertNotFound):
		response.NotFound(c, 13002, "预警不存在")
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, 13003, "无权执行该操作")
	default:
		response.InternalError(c)
	}
}
