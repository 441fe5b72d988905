package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"teanote/internal/api"
	"teanote/internal/config"
	"teanote/internal/model"
	"teanote/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if repo != nil {
		if err := model.SeedDefaultSchema(context.Background(), repo); err != nil {
			logrus.WithError(err).Warn("failed to seed default rating schema")
		}
	}

	// Redis 可选，未配置时模板查询直接读库
	var rdb *redis.Client
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logrus.WithError(err).Warn("redis unreachable, schema cache disabled")
			rdb = nil
		}
		cancel()
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store, rdb)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	// 公开接口：匿名可访问，带 Token 时按登录用户视角返回
	public := apiGroup.Group("")
	public.Use(httpHandler.OptionalAuthMiddleware())
	public.GET("/schemas", httpHandler.ListSchemas)
	public.GET("/schemas/:id/axes", httpHandler.GetSchemaAxes)
	public.GET("/teas", httpHandler.ListTeas)
	public.GET("/teas/:id", httpHandler.GetTea)
	public.GET("/notes", httpHandler.ListNotes)
	public.GET("/notes/:id", httpHandler.GetNote)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())
	protected.POST("/teas", httpHandler.CreateTea)
	protected.POST("/notes", httpHandler.CreateNote)
	protected.PATCH("/notes/:id", httpHandler.UpdateNote)
	protected.DELETE("/notes/:id", httpHandler.DeleteNote)
	protected.POST("/notes/:id/like", httpHandler.ToggleLike)
	protected.POST("/notes/:id/bookmark", httpHandler.ToggleBookmark)
	protected.POST("/files", httpHandler.UploadImage)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("服务器启动")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  300 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("服务器启动失败")
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件，每个请求分配一个 request_id 便于串联日志
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request-id", requestID)
		c.Header("X-Request-ID", requestID)
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   duration.String(),
			"size":       c.Writer.Size(),
			"client_ip":  c.ClientIP(),
		}).Info("http_request")
	}
}
