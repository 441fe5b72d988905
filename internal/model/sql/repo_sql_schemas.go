package sql

import (
	"context"
	"fmt"
	"teanote/internal/entity"

	"gorm.io/gorm"
)

// CreateSchema inserts a rating schema together with its axes.
func (r *GormRepository) CreateSchema(ctx context.Context, schema *entity.DbRatingSchema) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if schema == nil {
		return fmt.Errorf("schema is nil")
	}
	return r.db.WithContext(ctx).Create(schema).Error
}

// GetSchema retrieves a single rating schema by ID.
func (r *GormRepository) GetSchema(ctx context.Context, id uint) (*entity.DbRatingSchema, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid schema id")
	}

	var schema entity.DbRatingSchema
	if err := r.db.WithContext(ctx).First(&schema, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load rating schema: %w", err)
	}
	return &schema, nil
}

// ListActiveSchemas returns all active rating schemas, newest version first.
func (r *GormRepository) ListActiveSchemas(ctx context.Context) ([]entity.DbRatingSchema, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	var schemas []entity.DbRatingSchema
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC, version DESC").
		Find(&schemas).Error
	if err != nil {
		return nil, err
	}
	return schemas, nil
}

// ListSchemaAxes returns the axes of a schema ordered for display.
func (r *GormRepository) ListSchemaAxes(ctx context.Context, schemaID uint) ([]entity.DbRatingAxis, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if schemaID == 0 {
		return nil, fmt.Errorf("invalid schema id")
	}

	var axes []entity.DbRatingAxis
	err := r.db.WithContext(ctx).
		Where("schema_id = ?", schemaID).
		Order("display_order ASC, id ASC").
		Find(&axes).Error
	if err != nil {
		return nil, err
	}
	return axes, nil
}

// FindAxesByIDs fetches rating axes by ids.
func (r *GormRepository) FindAxesByIDs(ctx context.Context, ids []uint) ([]entity.DbRatingAxis, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if len(ids) == 0 {
		return []entity.DbRatingAxis{}, nil
	}

	var axes []entity.DbRatingAxis
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&axes).Error; err != nil {
		return nil, err
	}
	return axes, nil
}

// CountSchemas returns the number of rating schemas.
func (r *GormRepository) CountSchemas(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbRatingSchema{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
