package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"teanote/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// noteIDParam 解析路径中的笔记 ID
func noteIDParam(c *gin.Context) (uint, bool) {
	rawID := strings.TrimSpace(c.Param("id"))
	noteID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || noteID == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid note id")
		return 0, false
	}
	return uint(noteID), true
}

func (h *HTTPHandler) CreateNote(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.NoteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if req.TeaID == 0 {
		MissingField(c, "tea_id")
		return
	}
	if req.SchemaID == 0 {
		MissingField(c, "schema_id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	view, err := h.noteService.CreateNote(ctx, user.ID, req)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to create note")
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *HTTPHandler) GetNote(c *gin.Context) {
	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	view, err := h.noteService.GetNote(ctx, noteID, viewerID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *HTTPHandler) UpdateNote(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	var req entity.NoteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	view, err := h.noteService.UpdateNote(ctx, noteID, user.ID, req)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"note_id": noteID,
			"user_id": user.ID,
		}).Warn("failed to update note")
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *HTTPHandler) DeleteNote(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.noteService.DeleteNote(ctx, noteID, user.ID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"note_id": noteID,
			"user_id": user.ID,
		}).Warn("failed to delete note")
		ServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) ListNotes(c *gin.Context) {
	var params entity.NoteQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	params.ViewerID = viewerID(c)

	// 收藏列表只对本人可见
	if params.BookmarkedByViewer && params.ViewerID == 0 {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	notes, meta, err := h.noteService.ListNotes(ctx, &params)
	if err != nil {
		logrus.WithError(err).Error("failed to list notes")
		InternalError(c, "failed to load notes")
		return
	}

	c.JSON(http.StatusOK, entity.NoteListResponse{Notes: notes, Meta: meta})
}
