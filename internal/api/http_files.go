package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"teanote/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 单张笔记图片的大小上限
const maxUploadBytes = 8 << 20

func (h *HTTPHandler) publicURL(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	base := h.storagePublicBase
	if base == "" {
		base = "/files"
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), strings.TrimLeft(trimmed, "/"))
}

// UploadImage 接收 multipart 图片上传，返回存储标识符与公开访问地址。
// 客户端把返回的 path 填进笔记的 images 字段。
func (h *HTTPHandler) UploadImage(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}
	if h.storage == nil {
		ServiceUnavailable(c, "storage not configured")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "missing file field")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		BadRequest(c, ErrCodeInvalidRequest, "file too large")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded file")
		InternalError(c, "failed to read upload")
		return
	}
	if int64(len(data)) > maxUploadBytes {
		BadRequest(c, ErrCodeInvalidRequest, "file too large")
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(path.Ext(fileHeader.Filename)), ".")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	relPath, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  "notes",
		Extension: ext,
	})
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to save uploaded image")
		InternalError(c, "failed to save upload")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"path": relPath,
		"url":  h.publicURL(relPath),
	})
}
