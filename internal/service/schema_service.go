package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"teanote/internal/entity"
	"teanote/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	activeSchemasCacheKey = "teanote:schemas:active"
	schemaAxesCacheKey    = "teanote:schemas:%d:axes"
	schemaCacheTTL        = 5 * time.Minute
)

// SchemaService 评分模板注册表的只读访问。模板是参照数据，本服务不修改它，
// 因此可以安全地走 Redis 旁路缓存（未配置 Redis 时直接读库）。
type SchemaService struct {
	repo model.Repository
	rdb  *redis.Client
}

// NewSchemaService 创建模板服务实例，rdb 可以为 nil。
func NewSchemaService(repo model.Repository, rdb *redis.Client) *SchemaService {
	return &SchemaService{repo: repo, rdb: rdb}
}

// GetActiveSchemas 返回所有启用中的评分模板。
func (s *SchemaService) GetActiveSchemas(ctx context.Context) ([]entity.DbRatingSchema, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	var schemas []entity.DbRatingSchema
	if s.cacheGet(ctx, activeSchemasCacheKey, &schemas) {
		return schemas, nil
	}

	schemas, err := s.repo.ListActiveSchemas(ctx)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, activeSchemasCacheKey, schemas)
	return schemas, nil
}

// GetSchemaAxes 返回模板的维度定义，按 display_order 排序。
func (s *SchemaService) GetSchemaAxes(ctx context.Context, schemaID uint) ([]entity.DbRatingAxis, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	if _, err := s.repo.GetSchema(ctx, schemaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrSchemaNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf(schemaAxesCacheKey, schemaID)
	var axes []entity.DbRatingAxis
	if s.cacheGet(ctx, key, &axes) {
		return axes, nil
	}

	axes, err := s.repo.ListSchemaAxes(ctx, schemaID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, axes)
	return axes, nil
}

// cacheGet 从 Redis 读取缓存，任何缓存故障都降级为未命中。
func (s *SchemaService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.rdb == nil {
		return false
	}

	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("key", key).Warn("schema cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("schema cache decode failed")
		return false
	}
	return true
}

// cacheSet 写入 Redis 缓存，失败只记日志。
func (s *SchemaService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.rdb == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("schema cache encode failed")
		return
	}
	if err := s.rdb.Set(ctx, key, raw, schemaCacheTTL).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("schema cache write failed")
	}
}
