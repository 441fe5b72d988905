package sql

import (
	"context"
	"fmt"
	"teanote/internal/entity"

	"gorm.io/gorm"
)

// CreateNote inserts a new tasting note into the database.
func (r *GormRepository) CreateNote(ctx context.Context, note *entity.DbNote) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if note == nil {
		return fmt.Errorf("note is nil")
	}
	return r.db.WithContext(ctx).Create(note).Error
}

// GetNote retrieves a single note by ID.
func (r *GormRepository) GetNote(ctx context.Context, id uint) (*entity.DbNote, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid note id")
	}

	var note entity.DbNote
	if err := r.db.WithContext(ctx).First(&note, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load note: %w", err)
	}
	return &note, nil
}

// UpdateNote updates a note with the provided fields.
func (r *GormRepository) UpdateNote(ctx context.Context, id uint, updates entity.NoteUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid note id")
	}
	fields := updates.ToMap()
	if len(fields) == 0 {
		return nil
	}

	// MySQL 默认只统计值有变化的行，重复提交相同字段时 RowsAffected 为 0，
	// 不能据此判断笔记不存在；存在性由调用方在加载笔记时确认。
	return r.db.WithContext(ctx).Model(&entity.DbNote{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteNote removes a note together with its axis values, tag links,
// likes and bookmarks in one transaction.
func (r *GormRepository) DeleteNote(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid note id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", id).Delete(&entity.DbNoteAxisValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", id).Delete(&entity.DbNoteTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", id).Delete(&entity.DbNoteLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", id).Delete(&entity.DbNoteBookmark{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&entity.DbNote{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListNotes retrieves paginated notes. Private notes are only visible to
// their author (params.ViewerID).
func (r *GormRepository) ListNotes(ctx context.Context, params *entity.NoteQuery) ([]entity.DbNote, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbNote{})
	if params != nil {
		if params.UserID > 0 {
			query = query.Where("notes.user_id = ?", params.UserID)
		}
		if params.TeaID > 0 {
			query = query.Where("notes.tea_id = ?", params.TeaID)
		}
		if params.IsPublic != nil {
			query = query.Where("notes.is_public = ?", *params.IsPublic)
		}
		if params.BookmarkedByViewer && params.ViewerID > 0 {
			query = query.Joins("JOIN note_bookmarks ON note_bookmarks.note_id = notes.id").
				Where("note_bookmarks.user_id = ?", params.ViewerID)
		}
	}

	// 可见性：私有笔记只有作者本人可见
	viewerID := uint(0)
	if params != nil {
		viewerID = params.ViewerID
	}
	if viewerID > 0 {
		query = query.Where("notes.is_public = ? OR notes.user_id = ?", true, viewerID)
	} else {
		query = query.Where("notes.is_public = ?", true)
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

	var notes []entity.DbNote
	if err := query.Order("notes.created_at DESC, notes.id DESC").Offset(offset).Limit(pageSize).Find(&notes).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(totalCount, page, pageSize)
	return notes, meta, nil
}

// ListRatingIncludedNotes returns all notes of a tea flagged to contribute
// to the tea aggregate. Callers still need to skip notes without an
// overall rating.
func (r *GormRepository) ListRatingIncludedNotes(ctx context.Context, teaID uint) ([]entity.DbNote, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if teaID == 0 {
		return nil, fmt.Errorf("invalid tea id")
	}

	var notes []entity.DbNote
	err := r.db.WithContext(ctx).
		Where("tea_id = ? AND is_rating_included = ?", teaID, true).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// ReplaceNoteAxisValues swaps the full set of axis values of a note.
// 整组替换：先按 note_id 清空再批量插入，不做逐行 diff。
func (r *GormRepository) ReplaceNoteAxisValues(ctx context.Context, noteID uint, values []entity.DbNoteAxisValue) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if noteID == 0 {
		return fmt.Errorf("invalid note id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", noteID).Delete(&entity.DbNoteAxisValue{}).Error; err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		rows := make([]entity.DbNoteAxisValue, 0, len(values))
		for _, v := range values {
			v.ID = 0
			v.NoteID = noteID
			rows = append(rows, v)
		}
		return tx.Create(&rows).Error
	})
}

// ListNoteAxisValues returns the stored axis values of a note.
func (r *GormRepository) ListNoteAxisValues(ctx context.Context, noteID uint) ([]entity.DbNoteAxisValue, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if noteID == 0 {
		return nil, fmt.Errorf("invalid note id")
	}

	var values []entity.DbNoteAxisValue
	if err := r.db.WithContext(ctx).Where("note_id = ?", noteID).Order("axis_id ASC").Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}
