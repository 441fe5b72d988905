package api

import (
	"strings"
	"time"

	"teanote/internal/auth"
	"teanote/internal/config"
	"teanote/internal/model"
	"teanote/internal/service"
	"teanote/internal/storage"

	"github.com/redis/go-redis/v9"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string
	authManager       *auth.Manager

	// 服务层
	noteService   *service.NoteService
	socialService *service.SocialService
	schemaService *service.SchemaService
}

// NewHTTPHandler 创建 HTTP 处理器实例。rdb 为 nil 时模板查询直接走数据库。
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, rdb *redis.Client) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	handler := &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		authManager:       authManager,
		noteService:       service.NewNoteService(repo, store),
		socialService:     service.NewSocialService(repo),
		schemaService:     service.NewSchemaService(repo, rdb),
	}

	return handler, nil
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
