package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rigops/backend/internal/dto"
	"rigops/backend/internal/service"
	pkgerrors "rigops/backend/pkg/errors"
	"rigops/backend/pkg/response"
)

// ShiftHandler 班报模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// Create 创建班报（草稿）
// POST /api/v1/shifts
func (h *ShiftHandler) Create(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var req dto.ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), user, &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.Created(c, shift)
}

// Update 更新班报（整体替换子记录）
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) Update(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req dto.ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	shift, err := h.shiftSvc.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, shift)
}

// Delete 删除班报
// DELETE /api/v1/shifts/:id
func (h *ShiftHandler) Delete(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	if err := h.shiftSvc.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, nil)
}

// Get 获取班报详情
// GET /api/v1/shifts/:id
func (h *ShiftHandler) Get(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.GetByID(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, shift)
}

// List 班报列表（按角色可见范围过滤）
// GET /api/v1/shifts
func (h *ShiftHandler) List(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var query dto.ListShiftsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	shifts, total, err := h.shiftSvc.List(c.Request.Context(), user, &query)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OKPage(c, shifts, total, query.Page, query.Limit())
}

// Submit 提交班报审批
// POST /api/v1/shifts/:id/submit
func (h *ShiftHandler) Submit(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.Submit(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, shift)
}

// Decide 经理审批
// POST /api/v1/shifts/:id/decide
func (h *ShiftHandler) Decide(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	result, err := h.shiftSvc.Decide(c.Request.Context(), user, c.Param("id"), &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, result)
}

// SubmitToClient 手动送客户签认
// POST /api/v1/shifts/:id/submit-to-client
func (h *ShiftHandler) SubmitToClient(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.SubmitToClient(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, shift)
}

// ClientDecide 客户签认
// POST /api/v1/shifts/:id/client-decide
func (h *ShiftHandler) ClientDecide(c *gin.Context) {
	user, ok := MustGetUser(c)
	if !ok {
		return
	}

	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	shift, err := h.shiftSvc.ClientDecide(c.Request.Context(), user, c.Param("id"), &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, shift)
}

// handleShiftError 班报模块统一错误映射
// InvalidState 返回 409 并附带当前状态，便于前端刷新
func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	var invalidState *pkgerrors.InvalidStateError
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 12002, "班报不存在")
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, 12003, "无权执行该操作")
	case errors.As(err, &invalidState):
		response.ErrorWithDetails(c, http.StatusConflict, 12004, "班报状态不允许该操作", invalidState.Current)
	case errors.Is(err, service.ErrNoClientAssigned):
		response.BadRequest(c, 12005, "班报未指定客户")
	case errors.Is(err, service.ErrInvalidDecision):
		response.BadRequest(c, 12006, "无效的审批决定")
	default:
		response.InternalError(c)
	}
}
