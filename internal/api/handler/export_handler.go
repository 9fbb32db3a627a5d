package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/service"
	"flowdesks/backend/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 工资单导出与日历订阅 HTTP 处理器
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// PaylistXLSX 导出工资单（Excel）
// GET /api/v1/exports/paylist.xlsx?start=&end=
func (h *ExportHandler) PaylistXLSX(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.PaylistXLSX(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, filename, xlsxContentType, buf.Bytes())
}

// PaylistCSV 导出工资单（CSV）
// GET /api/v1/exports/paylist.csv?start=&end=
func (h *ExportHandler) PaylistCSV(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.PaylistCSV(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, filename, csvContentType, buf.Bytes())
}

// MyCalendar 当前账号的排班日历订阅
// GET /api/v1/calendar/me.ics
func (h *ExportHandler) MyCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	feed, err := h.calendarSvc.FeedFor(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Inline(c, "flowdesks.ics", icsContentType, []byte(feed))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 25001, "结束时间必须晚于开始时间")
	default:
		response.InternalError(c)
	}
}
