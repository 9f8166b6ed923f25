package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rigops/backend/internal/dto"
	"rigops/backend/internal/service"
	pkgerrors "rigops/backend/pkg/errors"
	"rigops/backend/pkg/response"
)

// ReportHandler 报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// ShiftSummary 单班报汇总
// GET /api/v1/shifts/:id/summary
func (h *ReportHandler) ShiftSummary(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	summary, err := h.reportSvc.SummarizeShift(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, summary)
}

// DailyProgress 按日进尺统计
// GET /api/v1/reports/daily
func (h *ReportHandler) DailyProgress(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var query dto.DailyProgressQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	stats, err := h.reportSvc.DailyProgress(c.Request.Context(), user, &query)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, gin.H{"list": stats})
}

// Dashboard 运营看板
// GET /api/v1/reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	dash, err := h.reportSvc.Dashboard(c.Request.Context(), user)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, dash)
}

// ClientDashboard 客户看板
// GET /api/v1/reports/client-dashboard
func (h *ReportHandler) ClientDashboard(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	dash, err := h.reportSvc.ClientDashboard(c.Request.Context(), user)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, dash)
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 14002, "班报不存在")
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, 14003, "无权执行该操作")
	case errors.Is(err, service.ErrNoLinkedClient):
		response.Forbidden(c, 14004, "当前账号未关联客户公司")
	default:
		response.InternalError(c)
	}
}
