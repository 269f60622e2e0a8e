package handler

import (
	"net/http"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/repository/mysql"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
)

type BanHandler struct {
	svc *service.BanService
}

type RevokeBanReq struct {
	ReasonAdmin *string `json:"reason_admin"`
}

func NewBanHandler(svc *service.BanService) *BanHandler {
	return &BanHandler{svc: svc}
}

// Create 创建封禁，创建人取当前管理员
func (h *BanHandler) Create(c *gin.Context) {
	var req service.CreateBanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	req.CreatedBy = currentUser(c)
	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BanHandler) List(c *gin.Context) {
	q := &queryParser{c: c}
	f := service.BanFilter{
		BanQuery: mysql.BanQuery{
			ID:              q.uintParam("id"),
			UserID:          q.uintParam("user_id"),
			BanType:         model.BanType(c.Query("ban_type")),
			CreatedBy:       q.uintParam("created_by"),
			RelatedReportID: q.uintParam("related_report_id"),
			StartFrom:       q.timeParam("start_from"),
			StartTo:         q.timeParam("start_to"),
		},
		Status: model.BanStatus(c.Query("status")),
		Offset: q.intParam("offset"),
		Limit:  q.intParam("limit"),
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

func (h *BanHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateBanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	ban, err := h.svc.Update(c.Request.Context(), currentUser(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ban": ban})
}

// Revoke 请求体可以为空
func (h *BanHandler) Revoke(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RevokeBanReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid params")
			return
		}
	}
	ban, err := h.svc.Revoke(c.Request.Context(), id, currentUser(c), req.ReasonAdmin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ban": ban})
}

// Status 公开接口，不需要登录
func (h *BanHandler) Status(c *gin.Context) {
	uid, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	st, err := h.svc.Status(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
