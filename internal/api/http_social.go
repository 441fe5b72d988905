package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ToggleLike 点赞/取消点赞。同一用户重复请求在两个状态间往返，不会重复计数。
func (h *HTTPHandler) ToggleLike(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.socialService.ToggleLike(ctx, noteID, user.ID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"note_id": noteID,
			"user_id": user.ID,
		}).Warn("failed to toggle like")
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ToggleBookmark 收藏/取消收藏
func (h *HTTPHandler) ToggleBookmark(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.socialService.ToggleBookmark(ctx, noteID, user.ID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"note_id": noteID,
			"user_id": user.ID,
		}).Warn("failed to toggle bookmark")
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
