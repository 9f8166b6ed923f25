package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rigops/backend/internal/dto"
	"rigops/backend/internal/service"
	pkgerrors "rigops/backend/pkg/errors"
	"rigops/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ShiftsCSV 导出班报 CSV
// GET /api/v1/export/shifts.csv
func (h *ExportHandler) ShiftsCSV(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var query dto.ListShiftsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	data, err := h.exportSvc.ExportShiftsCSV(c.Request.Context(), user, &query)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	filename := fmt.Sprintf("shifts_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// MonthlyBOQ 导出月度工程量清单
// GET /api/v1/export/boq.xlsx?year=2026&month=8
func (h *ExportHandler) MonthlyBOQ(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 2000 || year > 2100 {
		response.BadRequest(c, 15001, "year 参数无效")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		response.BadRequest(c, 15001, "month 参数无效")
		return
	}

	data, err := h.exportSvc.ExportMonthlyBOQ(c.Request.Context(), user, year, time.Month(month))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	filename := fmt.Sprintf("boq_%04d%02d.xlsx", year, month)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ShiftCalendar 导出已审批班次日历
// GET /api/v1/export/shifts.ics?rig=RIG-01
func (h *ExportHandler) ShiftCalendar(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	data, err := h.exportSvc.ExportShiftCalendar(c.Request.Context(), user, c.Query("rig"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename=shifts.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, 15002, "无权执行该操作")
	case errors.Is(err, service.ErrNoLinkedClient):
		response.Forbidden(c, 15003, "当前账号未关联客户公司")
	default:
		response.InternalError(c)
	}
}
