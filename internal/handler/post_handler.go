package handler

import (
	"net/http"
	"strconv"

	"Lee_Forum/internal/middleware"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

type CreatePostReq struct {
	CategoryID uint64 `json:"category_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// CreatePost 创建帖子接口
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), currentUser(c), req.CategoryID, req.Title, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": post.ID})
}

// ListByCategory 获取分类帖子列表接口
func (h *PostHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, size := 1, 20
	if s := c.Query("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			badRequest(c, "invalid page/size")
			return
		}
		page = v
	}
	if s := c.Query("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			badRequest(c, "invalid page/size")
			return
		}
		size = v
	}

	list, err := h.svc.ListByCategory(c.Request.Context(), categoryID, currentUser(c), page, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"list": list,
		"page": page,
		"size": size,
	})
}

// DeletePost 删除帖子接口，管理员可以删除任何帖子
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePost(c.Request.Context(), currentUser(c), middleware.IsAdmin(c), postID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}
