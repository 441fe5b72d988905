package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"teanote/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) CreateTea(c *gin.Context) {
	if CurrentUser(c) == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.TeaCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		MissingField(c, "name")
		return
	}

	tea := &entity.DbTea{
		Name:        name,
		Brand:       strings.TrimSpace(req.Brand),
		TeaType:     strings.TrimSpace(req.TeaType),
		Description: strings.TrimSpace(req.Description),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateTea(ctx, tea); err != nil {
		logrus.WithError(err).Error("failed to create tea")
		InternalError(c, "failed to create tea")
		return
	}

	c.JSON(http.StatusCreated, tea)
}

func (h *HTTPHandler) GetTea(c *gin.Context) {
	rawID := strings.TrimSpace(c.Param("id"))
	teaID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || teaID == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid tea id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tea, err := h.repo.GetTea(ctx, uint(teaID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTeaNotFound, "茶品不存在")
			return
		}
		logrus.WithError(err).WithField("tea_id", teaID).Error("failed to load tea")
		InternalError(c, "failed to load tea")
		return
	}

	c.JSON(http.StatusOK, tea)
}

func (h *HTTPHandler) ListTeas(c *gin.Context) {
	var params entity.TeaQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	teas, meta, err := h.repo.ListTeas(ctx, &params)
	if err != nil {
		logrus.WithError(err).Error("failed to list teas")
		InternalError(c, "failed to load teas")
		return
	}

	c.JSON(http.StatusOK, entity.TeaListResponse{Teas: teas, Meta: meta})
}
