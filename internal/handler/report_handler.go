package handler

import (
	"net/http"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

type FileReportReq struct {
	TargetType model.TargetType `json:"target_type"`
	TargetID   uint64           `json:"target_id"`
	Reason     string           `json:"reason"`
}

type UpdateReportStatusReq struct {
	Status model.ReportStatus `json:"status"`
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// File 用户提交举报
func (h *ReportHandler) File(c *gin.Context) {
	var req FileReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	report, err := h.svc.File(c.Request.Context(), service.FileReportReq{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		ReporterID: currentUser(c),
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// List 管理员查询举报
func (h *ReportHandler) List(c *gin.Context) {
	q := &queryParser{c: c}
	f := service.ReportFilter{
		ID:         q.uintParam("id"),
		Status:     model.ReportStatus(c.Query("status")),
		TargetType: model.TargetType(c.Query("target_type")),
		TargetID:   q.uintParam("target_id"),
		ReporterID: q.uintParam("reporter_id"),
		Order:      c.Query("order"),
		Offset:     q.intParam("offset"),
		Limit:      q.intParam("limit"),
	}
	if q.err != nil {
		badRequest(c, q.err.Error())
		return
	}
	list, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// UpdateStatus 管理员处理举报
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateReportStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	report, err := h.svc.Resolve(c.Request.Context(), currentUser(c), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
