package handler

import (
	"net/http"

	"Lee_Forum/internal/middleware"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.CommentService
}

type CreateCommentReq struct {
	PostID  uint64 `json:"post_id"`
	Content string `json:"content"`
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	comment, err := h.svc.CreateComment(c.Request.Context(), currentUser(c), req.PostID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": comment.ID})
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), currentUser(c), middleware.IsAdmin(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}
