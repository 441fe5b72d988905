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

// ListSchemas 返回全部启用中的评分模板，按 code 升序、version 降序
func (h *HTTPHandler) ListSchemas(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	schemas, err := h.schemaService.GetActiveSchemas(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list rating schemas")
		InternalError(c, "failed to load rating schemas")
		return
	}

	c.JSON(http.StatusOK, entity.SchemaListResponse{Schemas: schemas})
}

// GetSchemaAxes 返回指定模板的维度定义，按 display_order 排序
func (h *HTTPHandler) GetSchemaAxes(c *gin.Context) {
	rawID := strings.TrimSpace(c.Param("id"))
	schemaID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || schemaID == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid schema id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	axes, err := h.schemaService.GetSchemaAxes(ctx, uint(schemaID))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SchemaAxesResponse{Axes: axes})
}
