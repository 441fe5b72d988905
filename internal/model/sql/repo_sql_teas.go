package sql

import (
	"context"
	"fmt"
	"strings"
	"teanote/internal/entity"

	"gorm.io/gorm"
)

// CreateTea inserts a new tea into the database.
func (r *GormRepository) CreateTea(ctx context.Context, tea *entity.DbTea) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if tea == nil {
		return fmt.Errorf("tea is nil")
	}
	return r.db.WithContext(ctx).Create(tea).Error
}

// GetTea retrieves a single tea by ID.
func (r *GormRepository) GetTea(ctx context.Context, id uint) (*entity.DbTea, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid tea id")
	}

	var tea entity.DbTea
	if err := r.db.WithContext(ctx).First(&tea, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load tea: %w", err)
	}
	return &tea, nil
}

// ListTeas retrieves paginated teas.
func (r *GormRepository) ListTeas(ctx context.Context, params *entity.TeaQuery) ([]entity.DbTea, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbTea{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.TeaType); trimmed != "" {
			query = query.Where("tea_type = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.Keyword); trimmed != "" {
			like := "%" + trimmed + "%"
			query = query.Where("name LIKE ? OR brand LIKE ?", like, like)
		}
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, nil, err
	}

	page := 1
	pageSize := 20
	if params != nil {
		if params.Page > 0 {
			page = int(params.Page)
		}
		if params.PageSize > 0 {
			pageSize = int(params.PageSize)
		}
	}

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	var teas []entity.DbTea
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&teas).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(totalCount, page, pageSize)
	return teas, meta, nil
}

// UpdateTeaRating writes the derived aggregate fields for a tea.
// 聚合字段的唯一写入口：除此之外任何地方不得更新 average_rating/review_count。
func (r *GormRepository) UpdateTeaRating(ctx context.Context, teaID uint, avg float64, count int64) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if teaID == 0 {
		return fmt.Errorf("invalid tea id")
	}

	// 聚合值未变时 MySQL 报告 RowsAffected 为 0，不作为茶品不存在的依据。
	return r.db.WithContext(ctx).Model(&entity.DbTea{}).Where("id = ?", teaID).Updates(map[string]interface{}{
		"average_rating": avg,
		"review_count":   count,
	}).Error
}
