package handler

import (
	"net/http"

	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	posts    *service.VoteService
	comments *service.VoteService
}

type CastVoteReq struct {
	Value int `json:"value"`
}

func NewVoteHandler(posts, comments *service.VoteService) *VoteHandler {
	return &VoteHandler{posts: posts, comments: comments}
}

func (h *VoteHandler) CastPost(c *gin.Context)       { h.cast(c, h.posts) }
func (h *VoteHandler) RetractPost(c *gin.Context)    { h.retract(c, h.posts) }
func (h *VoteHandler) CastComment(c *gin.Context)    { h.cast(c, h.comments) }
func (h *VoteHandler) RetractComment(c *gin.Context) { h.retract(c, h.comments) }

func (h *VoteHandler) cast(c *gin.Context, svc *service.VoteService) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CastVoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	res, err := svc.Cast(c.Request.Context(), currentUser(c), id, req.Value)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *VoteHandler) retract(c *gin.Context, svc *service.VoteService) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := svc.Retract(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
