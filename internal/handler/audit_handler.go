package handler

import (
	"net/http"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	svc *service.AuditService
}

func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List 审计日志查询，默认最新在前
func (h *AuditHandler) List(c *gin.Context) {
	q := &queryParser{c: c}
	f := service.ActionFilter{
		ID:          q.uintParam("id"),
		ActorID:     q.uintParam("actor_id"),
		TargetType:  model.TargetType(c.Query("target_type")),
		TargetID:    q.uintParam("target_id"),
		ActionType:  model.ActionType(c.Query("action_type")),
		From:        q.timeParam("from"),
		To:          q.timeParam("to"),
		RecentFirst: q.boolParam("recent_first"),
		Offset:      q.intParam("offset"),
		Limit:       q.intParam("limit"),
	}
	if q.err != nil {
		badRequest(c, q.err.Error())
		return
	}
	list, err := h.svc.Query(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
